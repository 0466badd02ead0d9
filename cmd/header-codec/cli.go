package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"math/big"
	"os"
	"strings"

	"github.com/ethereum/go-ethereum/log"
	"github.com/urfave/cli/v2"

	headercodec "github.com/WJX2001/header-codec"
	"github.com/WJX2001/header-codec/block"
	"github.com/WJX2001/header-codec/common"
	"github.com/WJX2001/header-codec/common/bigint"
	"github.com/WJX2001/header-codec/common/cliapp"
	"github.com/WJX2001/header-codec/common/opio"
	"github.com/WJX2001/header-codec/config"
	"github.com/WJX2001/header-codec/database"
	"github.com/WJX2001/header-codec/flags"
	"github.com/WJX2001/header-codec/primitives"
	"github.com/WJX2001/header-codec/rlp"
)

const (
	headerJSONFlag       = "json"
	headerRLPFlag        = "rlp"
	headerNumberFlag     = "number"
	headerTimestampFlag  = "timestamp"
	headerGasLimitFlag   = "gas-limit"
	headerDifficultyFlag = "difficulty"
)

func headerCommandFlags() []cli.Flag {
	return append(append([]cli.Flag{}, flags.HeaderFlags...),
		&cli.StringFlag{Name: headerJSONFlag, Usage: "header as JSON, as printed by this command"},
		&cli.StringFlag{Name: headerRLPFlag, Usage: "header as hex encoded RLP"},
		// 覆盖单个整数字段，十进制或 0x 十六进制
		&cli.StringFlag{Name: headerNumberFlag, Usage: "override the block number"},
		&cli.StringFlag{Name: headerTimestampFlag, Usage: "override the timestamp"},
		&cli.StringFlag{Name: headerGasLimitFlag, Usage: "override the gas limit"},
		&cli.StringFlag{Name: headerDifficultyFlag, Usage: "override the difficulty"},
	)
}

// headerOutput is what the header and genesis commands print.
type headerOutput struct {
	Hash   primitives.Hash  `json:"hash"`
	RLP    string           `json:"rlp"`
	Header block.HeaderJSON `json:"header"`
}

var logLevels = map[string]slog.Level{
	"trace": log.LevelTrace,
	"debug": log.LevelDebug,
	"info":  log.LevelInfo,
	"warn":  log.LevelWarn,
	"error": log.LevelError,
	"crit":  log.LevelCrit,
}

func parseLogLevel(name string) (slog.Level, error) {
	level, ok := logLevels[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return 0, fmt.Errorf("unknown log level %q", name)
	}
	return level, nil
}

func setupLogging(ctx *cli.Context) error {
	level, err := parseLogLevel(ctx.String(flags.LogLevelFlag.Name))
	if err != nil {
		return err
	}
	log.SetDefault(log.NewLogger(log.NewTerminalHandlerWithLevel(os.Stderr, level, true)))
	return nil
}

func writeJSON(ctx *cli.Context, v any) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(ctx.App.Writer, string(out))
	return err
}

// jsonToValue turns decoded JSON into values rlp.ToItem accepts: strings are
// hex, numbers are non-negative integers, arrays are lists.
func jsonToValue(v any) (any, error) {
	switch v := v.(type) {
	case string:
		return v, nil
	case json.Number:
		n, ok := new(big.Int).SetString(v.String(), 10)
		if !ok {
			return nil, fmt.Errorf("%w: %s", primitives.ErrNotSafeInteger, v)
		}
		return n, nil
	case []any:
		out := make([]any, len(v))
		for i, elem := range v {
			conv, err := jsonToValue(elem)
			if err != nil {
				return nil, err
			}
			out[i] = conv
		}
		return out, nil
	default:
		return nil, fmt.Errorf("%w: %T", rlp.ErrUnsupportedInputType, v)
	}
}

func itemToJSON(it rlp.Item) any {
	if !it.IsList() {
		return primitives.BytesToHex(it.Bytes())
	}
	out := make([]any, 0, it.Len())
	for _, child := range it.Items() {
		out = append(out, itemToJSON(child))
	}
	return out
}

func runEncode(ctx *cli.Context) error {
	if ctx.NArg() == 0 {
		return errors.New("encode: expected at least one JSON value")
	}
	for _, arg := range ctx.Args().Slice() {
		dec := json.NewDecoder(strings.NewReader(arg))
		dec.UseNumber()
		var raw any
		if err := dec.Decode(&raw); err != nil {
			return fmt.Errorf("encode: invalid JSON %q: %w", arg, err)
		}
		value, err := jsonToValue(raw)
		if err != nil {
			return err
		}
		encoded, err := rlp.EncodeValue(value)
		if err != nil {
			return err
		}
		if _, err := fmt.Fprintln(ctx.App.Writer, primitives.BytesToHex(encoded)); err != nil {
			return err
		}
	}
	return nil
}

func runDecode(ctx *cli.Context) error {
	if ctx.NArg() == 0 {
		return errors.New("decode: expected at least one hex string")
	}
	for _, arg := range ctx.Args().Slice() {
		item, err := rlp.DecodeHex(arg)
		if err != nil {
			return err
		}
		if err := writeJSON(ctx, itemToJSON(item)); err != nil {
			return err
		}
	}
	return nil
}

func printHeader(ctx *cli.Context, h *block.Header) error {
	frozen := h.Finalize()
	return writeJSON(ctx, headerOutput{
		Hash:   frozen.Hash(),
		RLP:    primitives.BytesToHex(frozen.Serialize()),
		Header: frozen.JSON(),
	})
}

func runHeader(ctx *cli.Context) error {
	cfg, err := config.LoadConfig(ctx)
	if err != nil {
		log.Error("failed to load config", "err", err)
		return err
	}

	var h *block.Header
	switch {
	case ctx.IsSet(headerJSONFlag) && ctx.IsSet(headerRLPFlag):
		return errors.New("header: --json and --rlp are exclusive")
	case ctx.IsSet(headerJSONFlag):
		h, err = block.HeaderFromJSON([]byte(ctx.String(headerJSONFlag)))
	case ctx.IsSet(headerRLPFlag):
		var b []byte
		b, err = primitives.HexToBytes(ctx.String(headerRLPFlag))
		if err == nil {
			h, err = block.DecodeHeader(b)
		}
	default:
		h = block.NewHeader()
	}
	if err != nil {
		return err
	}
	if err := applyOverrides(ctx, h); err != nil {
		return err
	}

	bc := cfg.Beneficiary
	beneficiary, err := common.ResolveBeneficiary(bc.Address, bc.Mnemonic, bc.HDPath, bc.PrivateKey, bc.Passphrase)
	if err != nil {
		log.Error("failed to resolve beneficiary", "err", err)
		return err
	}
	if !beneficiary.IsZero() {
		h.Beneficiary = beneficiary
	}
	return printHeader(ctx, h)
}

func applyOverrides(ctx *cli.Context, h *block.Header) error {
	uints := []struct {
		flag string
		dst  *uint64
	}{
		{headerNumberFlag, &h.Number},
		{headerTimestampFlag, &h.Timestamp},
		{headerGasLimitFlag, &h.GasLimit},
	}
	for _, u := range uints {
		if !ctx.IsSet(u.flag) {
			continue
		}
		v, err := bigint.StringToUint64(ctx.String(u.flag))
		if err != nil {
			return fmt.Errorf("--%s: %w", u.flag, err)
		}
		*u.dst = v
	}
	if ctx.IsSet(headerDifficultyFlag) {
		d, err := bigint.StringToUint256(ctx.String(headerDifficultyFlag))
		if err != nil {
			return fmt.Errorf("--%s: %w", headerDifficultyFlag, err)
		}
		h.Difficulty = d
	}
	return nil
}

func runGenesis(ctx *cli.Context) error {
	cfg, err := config.LoadConfig(ctx)
	if err != nil {
		log.Error("failed to load config", "err", err)
		return err
	}
	network, err := cfg.Chain.Network()
	if err != nil {
		return err
	}
	h, err := network.Genesis.Header()
	if err != nil {
		return err
	}
	log.Info("building genesis header", "network", network.Name, "chainId", network.ChainID)
	return printHeader(ctx, h)
}

func runHeaderImporter(ctx *cli.Context, shutdown context.CancelCauseFunc) (cliapp.Lifecycle, error) {
	log.Info("run header importer")
	cfg, err := config.LoadImportConfig(ctx)
	if err != nil {
		log.Error("failed to load config", "err", err)
		return nil, err
	}
	return headercodec.NewHeaderImporter(ctx.Context, &cfg, shutdown)
}

func runMigrations(ctx *cli.Context) error {
	log.Info("Running migrations...")
	cfg, err := config.LoadConfig(ctx)
	if err != nil {
		log.Error("failed to load config", "err", err)
		return err
	}

	ctx.Context = opio.CancelOnInterrupt(ctx.Context)
	db, err := database.NewDB(ctx.Context, cfg.MasterDB)
	if err != nil {
		log.Error("failed to connect to database", "err", err)
		return err
	}
	defer func(db *database.DB) {
		if err := db.Close(); err != nil {
			log.Error("failed to close database", "err", err)
		}
	}(db)
	return db.ExecuteSQLMigration(cfg.Migrations)
}

func NewCli(GitCommit string, GitDate string) *cli.App {
	return &cli.App{
		Name:                 "header-codec",
		Version:              "v0.1.0",
		Description:          "RLP codec and block header tooling with a postgres header importer",
		EnableBashCompletion: true,
		Flags:                flags.GlobalFlags,
		Before:               setupLogging,
		Commands: []*cli.Command{
			{
				Name:        "encode",
				Usage:       "encode JSON values (hex strings, integers, arrays) as RLP",
				ArgsUsage:   "<json>...",
				Description: "Prints the hex encoded RLP of every argument",
				Action:      runEncode,
			},
			{
				Name:        "decode",
				Usage:       "decode hex encoded RLP into a JSON tree",
				ArgsUsage:   "<hex>...",
				Description: "Prints every argument as nested JSON arrays of hex strings",
				Action:      runDecode,
			},
			{
				Name:        "header",
				Usage:       "build a block header and print its hash and encoding",
				Flags:       headerCommandFlags(),
				Description: "Reads a header from --json or --rlp, defaults otherwise",
				Action:      runHeader,
			},
			{
				Name:        "genesis",
				Usage:       "print the genesis header of a network",
				Flags:       flags.HeaderFlags,
				Description: "Builds block 0 of a built-in network or a genesis file",
				Action:      runGenesis,
			},
			{
				Name:        "import",
				Flags:       flags.Flags,
				Description: "Imports a file of RLP headers into the database",
				Action:      cliapp.LifecycleCmd(runHeaderImporter),
			},
			{
				Name:        "migrate",
				Flags:       flags.DBFlags,
				Description: "Runs the database migrations",
				Action:      runMigrations,
			},
			{
				Name:        "version",
				Description: "print version",
				Action: func(ctx *cli.Context) error {
					if GitCommit != "" {
						fmt.Fprintf(ctx.App.Writer, "commit %s (%s)\n", GitCommit, GitDate)
					}
					cli.ShowVersion(ctx)
					return nil
				},
			},
		},
	}
}
