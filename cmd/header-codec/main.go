package main

import (
	"context"
	"os"

	"github.com/ethereum/go-ethereum/log"

	"github.com/WJX2001/header-codec/common/opio"
)

// 构建时通过 -ldflags 注入
var (
	GitCommit = ""
	GitDate   = ""
)

func main() {
	log.SetDefault(log.NewLogger(log.NewTerminalHandlerWithLevel(os.Stderr, log.LevelInfo, true)))
	app := NewCli(GitCommit, GitDate)
	ctx := opio.WithInterruptBlocker(context.Background())
	if err := app.RunContext(ctx, os.Args); err != nil {
		log.Error("Application failed", "err", err)
		os.Exit(1)
	}
}
