package headercodec

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"

	"github.com/ethereum/go-ethereum/log"

	"github.com/WJX2001/header-codec/config"
	"github.com/WJX2001/header-codec/database"
	"github.com/WJX2001/header-codec/worker"
)

// HeaderImporter loads a file of concatenated RLP headers into the database.
type HeaderImporter struct {
	db       *database.DB
	worker   *worker.Worker
	shutdown context.CancelCauseFunc
	stopped  atomic.Bool
}

func NewHeaderImporter(ctx context.Context, cfg *config.Config, shutdown context.CancelCauseFunc) (*HeaderImporter, error) {
	db, err := database.NewDB(ctx, cfg.MasterDB)
	if err != nil {
		log.Error("new database fail", "err", err)
		return nil, err
	}

	workerConfig := &worker.WorkerConfig{
		LoopInterval: cfg.Import.LoopInterval,
		Source:       cfg.Import.Source,
		BatchSize:    cfg.Import.BatchSize,
		Follow:       cfg.Import.Follow,
	}
	wk, err := worker.NewWorker(db, workerConfig, shutdown)
	if err != nil {
		log.Error("new worker fail", "err", err)
		_ = db.Close()
		return nil, err
	}

	return &HeaderImporter{
		db:       db,
		worker:   wk,
		shutdown: shutdown,
	}, nil
}

func (hi *HeaderImporter) Start(ctx context.Context) error {
	if err := hi.worker.Start(); err != nil {
		return fmt.Errorf("failed to start header import worker: %w", err)
	}
	return nil
}

func (hi *HeaderImporter) Stop(ctx context.Context) error {
	var result error
	if hi.worker != nil {
		if err := hi.worker.Close(); err != nil {
			result = errors.Join(result, fmt.Errorf("failed to close worker: %w", err))
		}
	}
	if hi.db != nil {
		if err := hi.db.Close(); err != nil {
			result = errors.Join(result, fmt.Errorf("failed to close DB: %w", err))
		}
	}
	hi.stopped.Store(true)
	log.Info("header importer stopped")
	return result
}

func (hi *HeaderImporter) Stopped() bool {
	return hi.stopped.Load()
}
