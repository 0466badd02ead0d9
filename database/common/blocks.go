package common

import (
	"errors"
	"math/big"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/WJX2001/header-codec/block"
	"github.com/WJX2001/header-codec/database/utils"
	"github.com/WJX2001/header-codec/database/utils/serializers"
	"github.com/WJX2001/header-codec/primitives"
)

type BlockHeader struct {
	GUID       uuid.UUID       `gorm:"primaryKey;DEFAULT replace(uuid_generate_v4()::text,'-','')"`
	Hash       primitives.Hash `gorm:"serializer:bytes"`
	ParentHash primitives.Hash `gorm:"serializer:bytes"`
	Number     *big.Int        `gorm:"serializer:u256"`
	Timestamp  uint64
	RLPHeader  *utils.RLPHeader `gorm:"serializer:rlp;column:rlp_bytes"`
}

func (BlockHeader) TableName() string {
	return "block_headers"
}

// BlockHeaderFromImmutable builds the row for a frozen header.
func BlockHeaderFromImmutable(h *block.ImmutableHeader) BlockHeader {
	return BlockHeader{
		Hash:       h.Hash(),
		ParentHash: h.ParentHash(),
		Number:     new(big.Int).SetUint64(h.Number()),
		Timestamp:  h.Timestamp(),
		RLPHeader:  utils.NewRLPHeader(h.Header()),
	}
}

type BlocksView interface {
	BlockHeader(primitives.Hash) (*BlockHeader, error)
	BlockHeaderByNumber(*big.Int) (*BlockHeader, error)
	BlockHeaderWithScope(func(db *gorm.DB) *gorm.DB) (*BlockHeader, error)
	LatestBlockHeader() (*BlockHeader, error)
}

type BlocksDB interface {
	BlocksView
	StoreBlockHeaders([]BlockHeader) error
}

type blocksDB struct {
	gorm *gorm.DB
}

func NewBlocksDB(db *gorm.DB) BlocksDB {
	return &blocksDB{gorm: db}
}

func (b *blocksDB) StoreBlockHeaders(headers []BlockHeader) error {
	if len(headers) == 0 {
		return nil
	}
	result := b.gorm.Table("block_headers").Omit("guid").Create(&headers)
	return result.Error
}

func (b *blocksDB) BlockHeader(hash primitives.Hash) (*BlockHeader, error) {
	return b.BlockHeaderWithScope(func(db *gorm.DB) *gorm.DB {
		return db.Where("hash = ?", hash.Hex())
	})
}

func (b *blocksDB) BlockHeaderByNumber(number *big.Int) (*BlockHeader, error) {
	return b.BlockHeaderWithScope(func(db *gorm.DB) *gorm.DB {
		return db.Where("number = ?", serializers.Numeric(number))
	})
}

// BlockHeaderWithScope returns nil, nil when no row matches.
func (b *blocksDB) BlockHeaderWithScope(scope func(db *gorm.DB) *gorm.DB) (*BlockHeader, error) {
	var header BlockHeader
	result := b.gorm.Table("block_headers").Scopes(scope).Take(&header)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, result.Error
	}
	return &header, nil
}

func (b *blocksDB) LatestBlockHeader() (*BlockHeader, error) {
	return b.BlockHeaderWithScope(func(db *gorm.DB) *gorm.DB {
		return db.Order("number DESC")
	})
}
