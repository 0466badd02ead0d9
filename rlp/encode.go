package rlp

import (
	"fmt"
	"math/big"
	"math/bits"

	"github.com/WJX2001/header-codec/primitives"
	"github.com/holiman/uint256"
)

/*
	编码规则：
		- 单字节且值 < 0x80：直接输出这个字节，没有前缀
		- 字节串长度 L <= 55：前缀 0x80+L
		- 字节串长度 L > 55：前缀 0xb7+LL，后跟 L 的大端表示（LL 字节）
		- 列表载荷长度 L <= 55：前缀 0xc0+L
		- 列表载荷长度 L > 55：前缀 0xf7+LL，后跟 L 的大端表示
	先一次遍历算出所有列表的载荷长度，再写进一块预先分配好的缓冲区，整体是线性的
*/

const (
	offsetShortString = 0x80
	offsetLongString  = 0xb7
	offsetShortList   = 0xc0
	offsetLongList    = 0xf7

	// payloads up to this size use the single byte prefix
	maxShortSize = 55
)

// Encode returns the canonical encoding of item.
func Encode(item Item) []byte {
	var e encoder
	buf := make([]byte, e.measure(item))
	e.write(buf, item)
	return buf
}

// EncodeValue converts v with ToItem and encodes it.
func EncodeValue(v any) ([]byte, error) {
	item, err := ToItem(v)
	if err != nil {
		return nil, err
	}
	return Encode(item), nil
}

// ToItem maps Go values onto the Item shape. Strings are read as hex text.
// Integers become their unpadded big-endian bytes.
func ToItem(v any) (Item, error) {
	switch v := v.(type) {
	case Item:
		return v, nil
	case []byte:
		return Bytes(v), nil
	case string:
		b, err := primitives.HexToBytes(v)
		if err != nil {
			return Item{}, fmt.Errorf("%w: %w", ErrInvalidHexInput, err)
		}
		return Bytes(b), nil
	case uint64:
		return Bytes(primitives.Uint64ToUnpaddedBytes(v)), nil
	case *big.Int:
		b, err := primitives.BigToUnpaddedBytes(v)
		if err != nil {
			return Item{}, err
		}
		return Bytes(b), nil
	case *uint256.Int:
		return Bytes(primitives.Uint256ToUnpaddedBytes(v)), nil
	case [][]byte:
		return BytesList(v), nil
	case []string:
		items := make([]Item, len(v))
		for i, s := range v {
			it, err := ToItem(s)
			if err != nil {
				return Item{}, err
			}
			items[i] = it
		}
		return ListOf(items...), nil
	case []any:
		items := make([]Item, len(v))
		for i, elem := range v {
			it, err := ToItem(elem)
			if err != nil {
				return Item{}, err
			}
			items[i] = it
		}
		return ListOf(items...), nil
	case interface{ Bytes() []byte }:
		// 定长字节（哈希、地址等）
		return Bytes(v.Bytes()), nil
	default:
		return Item{}, fmt.Errorf("%w: %T", ErrUnsupportedInputType, v)
	}
}

type encoder struct {
	// payload sizes of every list, in pre-order
	listSizes []int
	next      int
}

func (e *encoder) measure(it Item) int {
	if it.kind == String {
		return stringSize(it.bytes)
	}
	idx := len(e.listSizes)
	e.listSizes = append(e.listSizes, 0)
	payload := 0
	for _, child := range it.items {
		payload += e.measure(child)
	}
	e.listSizes[idx] = payload
	return headSize(payload) + payload
}

func (e *encoder) write(buf []byte, it Item) int {
	if it.kind == String {
		b := it.bytes
		if len(b) == 1 && b[0] < offsetShortString {
			buf[0] = b[0]
			return 1
		}
		n := putHead(buf, offsetShortString, offsetLongString, len(b))
		return n + copy(buf[n:], b)
	}
	payload := e.listSizes[e.next]
	e.next++
	n := putHead(buf, offsetShortList, offsetLongList, payload)
	for _, child := range it.items {
		n += e.write(buf[n:], child)
	}
	return n
}

func stringSize(b []byte) int {
	if len(b) == 1 && b[0] < offsetShortString {
		return 1
	}
	return headSize(len(b)) + len(b)
}

// headSize is the prefix length for a payload of the given size.
func headSize(size int) int {
	if size <= maxShortSize {
		return 1
	}
	return 1 + intSize(uint64(size))
}

// intSize is the minimal number of big-endian bytes holding v.
func intSize(v uint64) int {
	return (bits.Len64(v) + 7) / 8
}

func putHead(buf []byte, shortOffset, longOffset byte, size int) int {
	if size <= maxShortSize {
		buf[0] = shortOffset + byte(size)
		return 1
	}
	sizeLen := intSize(uint64(size))
	buf[0] = longOffset + byte(sizeLen)
	for i := sizeLen; i > 0; i-- {
		buf[i] = byte(size)
		size >>= 8
	}
	return 1 + sizeLen
}
