package worker

import (
	"errors"
	"math/big"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/WJX2001/header-codec/primitives"
)

// ImportCursor records how far an import source has been consumed, so a
// restarted import resumes at ByteOffset and links to LastHash.
type ImportCursor struct {
	GUID       uuid.UUID `gorm:"primaryKey;DEFAULT replace(uuid_generate_v4()::text,'-','')"`
	Source     string
	ByteOffset uint64
	LastHash   primitives.Hash `gorm:"serializer:bytes"`
	LastNumber *big.Int        `gorm:"serializer:u256"`
	Timestamp  uint64
}

func (ImportCursor) TableName() string {
	return "import_cursors"
}

type ImportCursorView interface {
	ImportCursor(source string) (*ImportCursor, error)
}

type ImportCursorDB interface {
	ImportCursorView
	StoreImportCursor(ImportCursor) error
}

type importCursorDB struct {
	gorm *gorm.DB
}

func NewImportCursorDB(db *gorm.DB) ImportCursorDB {
	return &importCursorDB{gorm: db}
}

// ImportCursor returns nil, nil for a source that was never imported.
func (c *importCursorDB) ImportCursor(source string) (*ImportCursor, error) {
	var cursor ImportCursor
	result := c.gorm.Where("source = ?", source).Take(&cursor)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, result.Error
	}
	return &cursor, nil
}

// StoreImportCursor inserts or advances the cursor of cursor.Source.
func (c *importCursorDB) StoreImportCursor(cursor ImportCursor) error {
	result := c.gorm.Omit("guid").Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "source"}},
		DoUpdates: clause.AssignmentColumns([]string{"byte_offset", "last_hash", "last_number", "timestamp"}),
	}).Create(&cursor)
	return result.Error
}
