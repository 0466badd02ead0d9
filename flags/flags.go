package flags

import (
	"time"

	"github.com/urfave/cli/v2"
)

const envVarPrefix = "HEADER_CODEC"

func prefixEnvVars(name string) []string {
	return []string{envVarPrefix + "_" + name}
}

var (
	MigrationsFlag = &cli.StringFlag{
		Name:    "migrations-dir",
		Value:   "./migrations",
		Usage:   "path to the sql migration files",
		EnvVars: prefixEnvVars("MIGRATIONS_DIR"),
	}
	LogLevelFlag = &cli.StringFlag{
		Name:    "log.level",
		Value:   "info",
		Usage:   "log level: trace, debug, info, warn, error, crit",
		EnvVars: prefixEnvVars("LOG_LEVEL"),
	}

	// 链与创世块
	ChainNameFlag = &cli.StringFlag{
		Name:    "chain.name",
		Value:   "mainnet",
		Usage:   "built-in network: mainnet, goerli, sepolia, holesky",
		EnvVars: prefixEnvVars("CHAIN_NAME"),
	}
	ChainIdFlag = &cli.Uint64Flag{
		Name:    "chain.id",
		Usage:   "look up a built-in network by chain id instead of name",
		EnvVars: prefixEnvVars("CHAIN_ID"),
	}
	GenesisFileFlag = &cli.StringFlag{
		Name:    "chain.genesis",
		Usage:   "yaml file describing a custom network, overrides chain.name",
		EnvVars: prefixEnvVars("CHAIN_GENESIS"),
	}

	// 导入
	ImportSourceFlag = &cli.StringFlag{
		Name:    "import.source",
		Usage:   "file of concatenated rlp encoded headers",
		EnvVars: prefixEnvVars("IMPORT_SOURCE"),
	}
	ImportIntervalFlag = &cli.DurationFlag{
		Name:    "import.interval",
		Value:   5 * time.Second,
		Usage:   "how often the import source is polled",
		EnvVars: prefixEnvVars("IMPORT_INTERVAL"),
	}
	ImportBatchSizeFlag = &cli.Uint64Flag{
		Name:    "import.batch-size",
		Value:   500,
		Usage:   "maximum headers stored per transaction",
		EnvVars: prefixEnvVars("IMPORT_BATCH_SIZE"),
	}
	ImportFollowFlag = &cli.BoolFlag{
		Name:    "import.follow",
		Value:   true,
		Usage:   "keep polling the source for appended headers",
		EnvVars: prefixEnvVars("IMPORT_FOLLOW"),
	}

	// 受益人地址，三选一
	BeneficiaryFlag = &cli.StringFlag{
		Name:    "beneficiary",
		Usage:   "beneficiary address of built headers",
		EnvVars: prefixEnvVars("BENEFICIARY"),
	}
	PrivateKeyFlag = &cli.StringFlag{
		Name:    "private-key",
		Usage:   "derive the beneficiary from this private key",
		EnvVars: prefixEnvVars("PRIVATE_KEY"),
	}
	MnemonicFlag = &cli.StringFlag{
		Name:    "mnemonic",
		Usage:   "derive the beneficiary from this mnemonic and hd-path",
		EnvVars: prefixEnvVars("MNEMONIC"),
	}
	HDPathFlag = &cli.StringFlag{
		Name:    "hd-path",
		Value:   "m/44'/60'/0'/0/0",
		Usage:   "derivation path used with mnemonic",
		EnvVars: prefixEnvVars("HD_PATH"),
	}
	PassphraseFlag = &cli.StringFlag{
		Name:    "passphrase",
		Usage:   "optional bip39 passphrase",
		EnvVars: prefixEnvVars("PASSPHRASE"),
	}

	// 主库
	MasterDbHostFlag = &cli.StringFlag{
		Name:    "master-db-host",
		Value:   "127.0.0.1",
		Usage:   "the host of the master database",
		EnvVars: prefixEnvVars("MASTER_DB_HOST"),
	}
	MasterDbPortFlag = &cli.IntFlag{
		Name:    "master-db-port",
		Value:   5432,
		Usage:   "the port of the master database",
		EnvVars: prefixEnvVars("MASTER_DB_PORT"),
	}
	MasterDbUserFlag = &cli.StringFlag{
		Name:    "master-db-user",
		Usage:   "the user of the master database",
		EnvVars: prefixEnvVars("MASTER_DB_USER"),
	}
	MasterDbPasswordFlag = &cli.StringFlag{
		Name:    "master-db-password",
		Usage:   "the password of the master database",
		EnvVars: prefixEnvVars("MASTER_DB_PASSWORD"),
	}
	MasterDbNameFlag = &cli.StringFlag{
		Name:    "master-db-name",
		Value:   "header_codec",
		Usage:   "the db name of the master database",
		EnvVars: prefixEnvVars("MASTER_DB_NAME"),
	}
)

var chainFlags = []cli.Flag{
	ChainNameFlag,
	ChainIdFlag,
	GenesisFileFlag,
}

var beneficiaryFlags = []cli.Flag{
	BeneficiaryFlag,
	PrivateKeyFlag,
	MnemonicFlag,
	HDPathFlag,
	PassphraseFlag,
}

var dbFlags = []cli.Flag{
	MigrationsFlag,
	MasterDbHostFlag,
	MasterDbPortFlag,
	MasterDbUserFlag,
	MasterDbPasswordFlag,
	MasterDbNameFlag,
}

var importFlags = []cli.Flag{
	ImportSourceFlag,
	ImportIntervalFlag,
	ImportBatchSizeFlag,
	ImportFollowFlag,
}

// GlobalFlags are accepted by every command.
var GlobalFlags = []cli.Flag{LogLevelFlag}

// HeaderFlags configure the header and genesis commands.
var HeaderFlags = append(append([]cli.Flag{}, chainFlags...), beneficiaryFlags...)

// Flags is everything the import service reads.
var Flags []cli.Flag

func init() {
	Flags = append(Flags, chainFlags...)
	Flags = append(Flags, dbFlags...)
	Flags = append(Flags, importFlags...)
}

// DBFlags are enough for the migrate command.
var DBFlags = dbFlags
