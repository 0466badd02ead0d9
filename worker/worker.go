package worker

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math/big"
	"os"
	"time"

	"github.com/ethereum/go-ethereum/log"

	"github.com/WJX2001/header-codec/block"
	"github.com/WJX2001/header-codec/common/retry"
	"github.com/WJX2001/header-codec/common/tasks"
	"github.com/WJX2001/header-codec/database/common"
	dbworker "github.com/WJX2001/header-codec/database/worker"
	"github.com/WJX2001/header-codec/primitives"
	"github.com/WJX2001/header-codec/rlp"
)

// 每次从文件读取的最大字节数，单个 header 远小于这个值
const readWindow = 1 << 20

// 写库失败时的短暂重试，批次和游标在同一个事务里，重放是安全的
const storeAttempts = 3

var storeRetryStrategy = &retry.ExponentialStrategy{Min: 20 * time.Millisecond, Max: time.Second, MaxJitter: 10 * time.Millisecond}

var (
	ErrMismatchedParent = errors.New("header does not link to the previous imported header")
	ErrPartialHeader    = errors.New("import source ends with a partial header")
)

type WorkerConfig struct {
	LoopInterval time.Duration
	Source       string
	BatchSize    uint64
	Follow       bool
}

// HeaderStore is the persistence the worker needs, satisfied by *database.DB.
type HeaderStore interface {
	ImportCursor(source string) (*dbworker.ImportCursor, error)
	StoreImport(headers []common.BlockHeader, cursor dbworker.ImportCursor) error
}

type Worker struct {
	workerConfig   *WorkerConfig
	store          HeaderStore
	resourceCtx    context.Context
	resourceCancel context.CancelFunc
	tasks          tasks.Group
	shutdown       context.CancelCauseFunc

	// 已提交到数据库的导入进度
	loaded     bool
	offset     uint64
	hasLast    bool
	lastHash   primitives.Hash
	lastNumber uint64
}

func NewWorker(store HeaderStore, workerConfig *WorkerConfig, shutdown context.CancelCauseFunc) (*Worker, error) {
	if workerConfig.Source == "" {
		return nil, errors.New("worker: import source is required")
	}
	if workerConfig.LoopInterval <= 0 {
		return nil, errors.New("worker: loop interval must be positive")
	}
	if workerConfig.BatchSize == 0 {
		return nil, errors.New("worker: batch size must be positive")
	}
	resCtx, resCancel := context.WithCancel(context.Background())

	return &Worker{
		store:          store,
		workerConfig:   workerConfig,
		resourceCtx:    resCtx,
		resourceCancel: resCancel,
		shutdown:       shutdown,
		tasks: tasks.Group{HandleCrit: func(err error) {
			shutdown(fmt.Errorf("critical error in header import: %w", err))
		}},
	}, nil
}

func (wk *Worker) Start() error {
	if err := wk.loadCursor(); err != nil {
		return err
	}
	log.Info("starting header import", "source", wk.workerConfig.Source, "offset", wk.offset, "follow", wk.workerConfig.Follow)

	tickerImport := time.NewTicker(wk.workerConfig.LoopInterval)
	wk.tasks.Go(func() error {
		defer tickerImport.Stop()
		for {
			select {
			case <-wk.resourceCtx.Done():
				log.Info("stopping header import")
				return nil
			case <-tickerImport.C:
				done, err := wk.ProcessImport()
				if err != nil {
					log.Error("process header import fail", "err", err)
					wk.shutdown(err)
					return err
				}
				if done {
					log.Info("import source drained", "source", wk.workerConfig.Source, "offset", wk.offset)
					wk.shutdown(nil)
					return nil
				}
			}
		}
	})
	return nil
}

func (wk *Worker) loadCursor() error {
	if wk.loaded {
		return nil
	}
	cursor, err := wk.store.ImportCursor(wk.workerConfig.Source)
	if err != nil {
		log.Error("load import cursor fail", "err", err)
		return err
	}
	if cursor != nil {
		wk.offset = cursor.ByteOffset
		wk.hasLast = true
		wk.lastHash = cursor.LastHash
		if cursor.LastNumber != nil {
			wk.lastNumber = cursor.LastNumber.Uint64()
		}
	}
	wk.loaded = true
	return nil
}

// ProcessImport imports at most BatchSize headers following the committed
// offset. done reports that the source is drained and Follow is off.
func (wk *Worker) ProcessImport() (done bool, err error) {
	if err := wk.loadCursor(); err != nil {
		return false, err
	}

	buf, eof, err := wk.readChunk()
	if err != nil {
		return false, err
	}

	var (
		batch      []common.BlockHeader
		rest       = buf
		hasLast    = wk.hasLast
		lastHash   = wk.lastHash
		lastNumber = wk.lastNumber
		truncated  bool
	)
	for len(rest) > 0 && uint64(len(batch)) < wk.workerConfig.BatchSize {
		item, next, err := rlp.DecodeStream(rest)
		if errors.Is(err, rlp.ErrTruncatedInput) {
			truncated = true
			break
		}
		position := wk.offset + uint64(len(buf)-len(rest))
		if err != nil {
			return false, fmt.Errorf("decode item at byte %d: %w", position, err)
		}
		header, err := block.HeaderFromItem(item)
		if err != nil {
			return false, fmt.Errorf("decode header at byte %d: %w", position, err)
		}
		immutable := header.Finalize()
		if hasLast && immutable.ParentHash() != lastHash {
			return false, fmt.Errorf("%w: header %d at byte %d has parent %s, expected %s",
				ErrMismatchedParent, immutable.Number(), position, immutable.ParentHash().Hex(), lastHash.Hex())
		}
		batch = append(batch, common.BlockHeaderFromImmutable(immutable))
		hasLast, lastHash, lastNumber = true, immutable.Hash(), immutable.Number()
		rest = next
	}

	if len(batch) > 0 {
		consumed := uint64(len(buf) - len(rest))
		cursor := dbworker.ImportCursor{
			Source:     wk.workerConfig.Source,
			ByteOffset: wk.offset + consumed,
			LastHash:   lastHash,
			LastNumber: new(big.Int).SetUint64(lastNumber),
			Timestamp:  uint64(time.Now().Unix()),
		}
		err := retry.Run(wk.resourceCtx, storeAttempts, storeRetryStrategy, func() error {
			return wk.store.StoreImport(batch, cursor)
		})
		if err != nil {
			log.Error("store imported headers fail", "err", err)
			return false, err
		}
		wk.offset = cursor.ByteOffset
		wk.hasLast, wk.lastHash, wk.lastNumber = true, lastHash, lastNumber
		log.Info("imported headers", "count", len(batch), "latest", lastNumber, "hash", lastHash.Hex(), "offset", wk.offset)
	}

	if truncated {
		switch {
		case len(batch) == 0 && !eof:
			return false, fmt.Errorf("%w: item at byte %d exceeds %d bytes", ErrPartialHeader, wk.offset, readWindow)
		case eof && !wk.workerConfig.Follow:
			return false, fmt.Errorf("%w: %d bytes at byte %d", ErrPartialHeader, len(rest), wk.offset)
		}
		return false, nil
	}
	drained := eof && len(rest) == 0
	return drained && !wk.workerConfig.Follow, nil
}

// readChunk reads up to readWindow bytes at the committed offset. eof is
// true when the chunk reaches the current end of the source.
func (wk *Worker) readChunk() ([]byte, bool, error) {
	file, err := os.Open(wk.workerConfig.Source)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) && wk.workerConfig.Follow {
			log.Warn("import source does not exist yet", "source", wk.workerConfig.Source)
			return nil, true, nil
		}
		return nil, false, err
	}
	defer file.Close()

	if _, err := file.Seek(int64(wk.offset), io.SeekStart); err != nil {
		return nil, false, err
	}
	buf, err := io.ReadAll(io.LimitReader(file, readWindow))
	if err != nil {
		return nil, false, err
	}
	return buf, len(buf) < readWindow, nil
}

func (wk *Worker) Close() error {
	wk.resourceCancel()
	return wk.tasks.Wait()
}
