package config

import (
	"errors"
	"time"

	"github.com/ethereum/go-ethereum/log"
	"github.com/urfave/cli/v2"

	"github.com/WJX2001/header-codec/chain"
	"github.com/WJX2001/header-codec/flags"
)

const (
	defaultLoopInterval = 5 * time.Second
	defaultBatchSize    = 500
)

var ErrMissingImportSource = errors.New("import source is required")

type Config struct {
	Migrations  string            // 数据库迁移文件路径
	MasterDB    DBConfig          // 主数据库配置
	Chain       ChainConfig       // 网络与创世块
	Import      ImportConfig      // 导入服务
	Beneficiary BeneficiaryConfig // 构造 header 时的受益人
}

type ChainConfig struct {
	Name        string
	ChainId     uint64
	GenesisFile string
}

type ImportConfig struct {
	Source       string
	LoopInterval time.Duration
	BatchSize    uint64
	Follow       bool
}

type BeneficiaryConfig struct {
	Address    string
	PrivateKey string
	Mnemonic   string
	HDPath     string
	Passphrase string
}

type DBConfig struct {
	Host     string
	Port     int
	Name     string
	User     string
	Password string
}

func LoadConfig(cliCtx *cli.Context) (Config, error) {
	cfg := NewConfig(cliCtx)

	if cfg.Import.LoopInterval <= 0 {
		cfg.Import.LoopInterval = defaultLoopInterval
	}
	if cfg.Import.BatchSize == 0 {
		cfg.Import.BatchSize = defaultBatchSize
	}

	log.Info("loaded chain config", "name", cfg.Chain.Name, "id", cfg.Chain.ChainId, "genesis", cfg.Chain.GenesisFile)
	return cfg, nil
}

// LoadImportConfig is LoadConfig plus the checks the import service needs.
func LoadImportConfig(cliCtx *cli.Context) (Config, error) {
	cfg, err := LoadConfig(cliCtx)
	if err != nil {
		return cfg, err
	}
	if cfg.Import.Source == "" {
		return cfg, ErrMissingImportSource
	}
	log.Info("loaded import config", "source", cfg.Import.Source, "interval", cfg.Import.LoopInterval,
		"batch", cfg.Import.BatchSize, "follow", cfg.Import.Follow)
	return cfg, nil
}

// Network resolves the configured network: a genesis file wins over a chain
// id, which wins over a name.
func (c ChainConfig) Network() (chain.Config, error) {
	switch {
	case c.GenesisFile != "":
		return chain.LoadGenesis(c.GenesisFile)
	case c.ChainId != 0:
		return chain.ByID(chain.ID(c.ChainId))
	default:
		return chain.ByName(c.Name)
	}
}

func NewConfig(ctx *cli.Context) Config {
	return Config{
		Migrations: ctx.String(flags.MigrationsFlag.Name),
		MasterDB: DBConfig{
			Host:     ctx.String(flags.MasterDbHostFlag.Name),
			Port:     ctx.Int(flags.MasterDbPortFlag.Name),
			Name:     ctx.String(flags.MasterDbNameFlag.Name),
			User:     ctx.String(flags.MasterDbUserFlag.Name),
			Password: ctx.String(flags.MasterDbPasswordFlag.Name),
		},
		Chain: ChainConfig{
			Name:        ctx.String(flags.ChainNameFlag.Name),
			ChainId:     ctx.Uint64(flags.ChainIdFlag.Name),
			GenesisFile: ctx.String(flags.GenesisFileFlag.Name),
		},
		Import: ImportConfig{
			Source:       ctx.String(flags.ImportSourceFlag.Name),
			LoopInterval: ctx.Duration(flags.ImportIntervalFlag.Name),
			BatchSize:    ctx.Uint64(flags.ImportBatchSizeFlag.Name),
			Follow:       ctx.Bool(flags.ImportFollowFlag.Name),
		},
		Beneficiary: BeneficiaryConfig{
			Address:    ctx.String(flags.BeneficiaryFlag.Name),
			PrivateKey: ctx.String(flags.PrivateKeyFlag.Name),
			Mnemonic:   ctx.String(flags.MnemonicFlag.Name),
			HDPath:     ctx.String(flags.HDPathFlag.Name),
			Passphrase: ctx.String(flags.PassphraseFlag.Name),
		},
	}
}
