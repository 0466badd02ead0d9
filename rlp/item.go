package rlp

import "bytes"

/*
	RLP 只有两种数据类型：
		- String：任意长度的字节串（可以为空）
		- List：按顺序排列的 Item 列表，可以任意嵌套
	Item 就是这两者的带标签联合体，编码器和解码器都只处理这个形状
*/

type Kind uint8

const (
	String Kind = iota
	List
)

func (k Kind) String() string {
	switch k {
	case String:
		return "string"
	case List:
		return "list"
	default:
		return "unknown"
	}
}

// Item is either a byte string or a list of items. The zero value is the
// empty byte string.
type Item struct {
	kind  Kind
	bytes []byte
	items []Item
}

// Bytes wraps b as a String item. b is not copied.
func Bytes(b []byte) Item {
	return Item{kind: String, bytes: b}
}

// ListOf builds a List item from items in order.
func ListOf(items ...Item) Item {
	if items == nil {
		items = []Item{}
	}
	return Item{kind: List, items: items}
}

// BytesList is a List of String items, the shape of a header's raw fields.
func BytesList(fields [][]byte) Item {
	items := make([]Item, len(fields))
	for i, f := range fields {
		items[i] = Bytes(f)
	}
	return ListOf(items...)
}

func (it Item) Kind() Kind { return it.kind }

func (it Item) IsList() bool { return it.kind == List }

// Bytes returns the payload of a String item, nil for a List.
func (it Item) Bytes() []byte {
	if it.kind != String {
		return nil
	}
	return it.bytes
}

// Items returns the children of a List item, nil for a String.
func (it Item) Items() []Item {
	if it.kind != List {
		return nil
	}
	return it.items
}

func (it Item) Len() int {
	if it.kind == List {
		return len(it.items)
	}
	return len(it.bytes)
}

// Equal compares structure and content. An empty String never equals an
// empty List.
func (it Item) Equal(other Item) bool {
	if it.kind != other.kind {
		return false
	}
	if it.kind == String {
		return bytes.Equal(it.bytes, other.bytes)
	}
	if len(it.items) != len(other.items) {
		return false
	}
	for i := range it.items {
		if !it.items[i].Equal(other.items[i]) {
			return false
		}
	}
	return true
}
