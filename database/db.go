package database

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/ethereum/go-ethereum/log"
	"github.com/pkg/errors"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/WJX2001/header-codec/common/retry"
	"github.com/WJX2001/header-codec/config"
	"github.com/WJX2001/header-codec/database/common"
	_ "github.com/WJX2001/header-codec/database/utils/serializers"
	"github.com/WJX2001/header-codec/database/worker"
)

/*
  - Blocks (common.BlocksDB): block_headers 表，按哈希、高度查询已导入的区块头，整条 header 以 RLP 保存在 rlp_bytes 列
  - ImportCursors (worker.ImportCursorDB): import_cursors 表，每个导入源消费到的字节位置和最后一个区块头
*/

type DB struct {
	gorm          *gorm.DB
	Blocks        common.BlocksDB
	ImportCursors worker.ImportCursorDB
}

func NewDB(ctx context.Context, dbConfig config.DBConfig) (*DB, error) {
	dsn := fmt.Sprintf("host=%s dbname=%s sslmode=disable", dbConfig.Host, dbConfig.Name)
	if dbConfig.Port != 0 {
		dsn += fmt.Sprintf(" port=%d", dbConfig.Port)
	}
	if dbConfig.User != "" {
		dsn += fmt.Sprintf(" user=%s", dbConfig.User)
	}
	if dbConfig.Password != "" {
		dsn += fmt.Sprintf(" password=%s", dbConfig.Password)
	}

	gormConfig := gorm.Config{
		SkipDefaultTransaction: true,
		CreateBatchSize:        3_000,
	}

	gorm, err := retry.Do[*gorm.DB](ctx, 10, retry.Exponential(), func() (*gorm.DB, error) {
		gorm, err := gorm.Open(postgres.Open(dsn), &gormConfig)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		return gorm, nil
	})
	if err != nil {
		return nil, err
	}

	log.Info("connected to database", "host", dbConfig.Host, "name", dbConfig.Name)
	return newDB(gorm), nil
}

func newDB(gorm *gorm.DB) *DB {
	return &DB{
		gorm:          gorm,
		Blocks:        common.NewBlocksDB(gorm),
		ImportCursors: worker.NewImportCursorDB(gorm),
	}
}

// Transaction runs fn against a DB bound to a single transaction, committed
// when fn returns nil and rolled back otherwise.
func (db *DB) Transaction(fn func(db *DB) error) error {
	return db.gorm.Transaction(func(tx *gorm.DB) error {
		return fn(newDB(tx))
	})
}

func (db *DB) Close() error {
	sql, err := db.gorm.DB()
	if err != nil {
		return err
	}
	return sql.Close()
}

// ImportCursor returns the stored cursor of source, nil when there is none.
func (db *DB) ImportCursor(source string) (*worker.ImportCursor, error) {
	return db.ImportCursors.ImportCursor(source)
}

// StoreImport saves a batch of headers and the advanced cursor atomically.
func (db *DB) StoreImport(headers []common.BlockHeader, cursor worker.ImportCursor) error {
	return db.Transaction(func(tx *DB) error {
		if err := tx.Blocks.StoreBlockHeaders(headers); err != nil {
			return errors.Wrap(err, "failed to store block headers")
		}
		if err := tx.ImportCursors.StoreImportCursor(cursor); err != nil {
			return errors.Wrap(err, "failed to store import cursor")
		}
		return nil
	})
}

// ExecuteSQLMigration runs every file under migrationsFolder in lexical
// path order.
func (db *DB) ExecuteSQLMigration(migrationsFolder string) error {
	var files []string
	err := filepath.Walk(migrationsFolder, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return errors.Wrap(err, fmt.Sprintf("Failed to process migration file: %s", path))
		}
		if info.IsDir() {
			return nil
		}
		files = append(files, path)
		return nil
	})
	if err != nil {
		return err
	}
	sort.Strings(files)

	for _, path := range files {
		fileContent, readErr := os.ReadFile(path)
		if readErr != nil {
			return errors.Wrap(readErr, fmt.Sprintf("Error reading SQL file: %s", path))
		}
		if execErr := db.gorm.Exec(string(fileContent)).Error; execErr != nil {
			return errors.Wrap(execErr, fmt.Sprintf("Error executing SQL script: %s", path))
		}
		log.Info("applied migration", "file", path)
	}
	return nil
}
