package rlp

import (
	"fmt"

	"github.com/WJX2001/header-codec/primitives"
)

/*
	解码由当前位置的第一个字节驱动：
		- <= 0x7f：单字节字符串，消耗 1 字节
		- 0x80-0xb7：短字符串，长度 = b-0x80
		- 0xb8-0xbf：长字符串，后面 b-0xb7 个字节是大端长度
		- 0xc0-0xf7：短列表，载荷长度 = b-0xc0
		- 0xf8-0xff：长列表，后面 b-0xf7 个字节是大端载荷长度
	每个声明的长度都要和可用字节数（或外层列表剩余的载荷）比较，越界就是 ErrTruncatedInput
*/

// Decode decodes input as exactly one item. Empty input decodes to the empty
// string; bytes left after the first item are an error.
func Decode(input []byte) (Item, error) {
	if len(input) == 0 {
		return Bytes([]byte{}), nil
	}
	item, end, err := decodeItem(input, 0, len(input))
	if err != nil {
		return Item{}, err
	}
	if end != len(input) {
		return Item{}, decodeErr(end, ErrTrailingBytes, "%d unconsumed bytes", len(input)-end)
	}
	return item, nil
}

// DecodeStream decodes the first item of input and returns the bytes after
// it. rest shares input's backing array; decoded byte strings do not.
func DecodeStream(input []byte) (item Item, rest []byte, err error) {
	if len(input) == 0 {
		return Bytes([]byte{}), nil, nil
	}
	item, end, err := decodeItem(input, 0, len(input))
	if err != nil {
		return Item{}, input, err
	}
	return item, input[end:], nil
}

// DecodeHex decodes hex text holding exactly one item.
func DecodeHex(s string) (Item, error) {
	b, err := primitives.HexToBytes(s)
	if err != nil {
		return Item{}, fmt.Errorf("%w: %w", ErrInvalidHexInput, err)
	}
	return Decode(b)
}

// decodeItem decodes the item starting at pos. end bounds the enclosing
// payload: nothing at or after end belongs to this item.
func decodeItem(input []byte, pos, end int) (Item, int, error) {
	kind, offset, size, err := readHead(input, pos, end)
	if err != nil {
		return Item{}, pos, err
	}
	if kind == String {
		b := make([]byte, size)
		copy(b, input[offset:offset+size])
		return Bytes(b), offset + size, nil
	}

	listEnd := offset + size
	items := []Item{}
	for p := offset; p < listEnd; {
		child, next, err := decodeItem(input, p, listEnd)
		if err != nil {
			return Item{}, pos, err
		}
		items = append(items, child)
		p = next
	}
	return ListOf(items...), listEnd, nil
}

// readHead parses the prefix at pos and returns where the payload starts and
// how long it is. The whole payload is guaranteed to lie before end.
func readHead(input []byte, pos, end int) (kind Kind, offset, size int, err error) {
	if pos >= end {
		return 0, 0, 0, decodeErr(pos, ErrTruncatedInput, "missing prefix")
	}
	b := input[pos]
	switch {
	case b < offsetShortString:
		// 单字节，前缀本身就是数据
		return String, pos, 1, nil

	case b <= offsetLongString:
		size = int(b - offsetShortString)
		offset = pos + 1
		if size > end-offset {
			return 0, 0, 0, decodeErr(pos, ErrTruncatedInput, "string of %d bytes, %d available", size, end-offset)
		}
		if size == 1 && input[offset] < offsetShortString {
			return 0, 0, 0, decodeErr(pos, ErrNonCanonicalSize, "single byte %#x below 0x80 must not carry a prefix", input[offset])
		}
		return String, offset, size, nil

	case b < offsetShortList:
		offset, size, err = readLongSize(input, pos, end, int(b-offsetLongString))
		return String, offset, size, err

	case b <= offsetLongList:
		size = int(b - offsetShortList)
		offset = pos + 1
		if size > end-offset {
			return 0, 0, 0, decodeErr(pos, ErrTruncatedInput, "list payload of %d bytes, %d available", size, end-offset)
		}
		return List, offset, size, nil

	default:
		offset, size, err = readLongSize(input, pos, end, int(b-offsetLongList))
		return List, offset, size, err
	}
}

// readLongSize reads the sizeLen byte big-endian length following the prefix
// at pos.
func readLongSize(input []byte, pos, end, sizeLen int) (offset, size int, err error) {
	start := pos + 1
	if sizeLen > end-start {
		return 0, 0, decodeErr(pos, ErrTruncatedInput, "length field of %d bytes, %d available", sizeLen, end-start)
	}
	var s uint64
	for _, c := range input[start : start+sizeLen] {
		s = s<<8 | uint64(c)
	}
	offset = start + sizeLen
	// sizeLen 最多 8 字节，s 可能超过 int 的范围，先按 uint64 比较
	if s > uint64(end-offset) {
		return 0, 0, decodeErr(pos, ErrTruncatedInput, "payload of %d bytes, %d available", s, end-offset)
	}
	if input[start] == 0 {
		return 0, 0, decodeErr(pos, ErrNonCanonicalSize, "length field has leading zero")
	}
	if s <= maxShortSize {
		return 0, 0, decodeErr(pos, ErrNonCanonicalSize, "long form used for %d byte payload", s)
	}
	return offset, int(s), nil
}
