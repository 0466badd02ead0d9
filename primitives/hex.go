package primitives

import (
	"errors"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common/hexutil"
)

/*
	十六进制文本 <-> 字节
		- 输出统一为小写、带 0x 前缀、偶数长度
		- 输入允许省略 0x 前缀，但必须是偶数长度且只包含十六进制字符
*/

// BytesToHex renders b as a lowercase 0x-prefixed hex string.
func BytesToHex(b []byte) string {
	return hexutil.Encode(b)
}

// HexToBytes parses hex text with an optional 0x prefix.
func HexToBytes(s string) ([]byte, error) {
	// hexutil 要求必须带 0x 前缀，这里统一补上
	b, err := hexutil.Decode("0x" + trimHexPrefix(s))
	if err != nil {
		return nil, mapHexError(s, err)
	}
	return b, nil
}

func trimHexPrefix(s string) string {
	if strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X") {
		return s[2:]
	}
	return s
}

// 把 hexutil 的错误转换成本包的错误类型
func mapHexError(s string, err error) error {
	switch {
	case errors.Is(err, hexutil.ErrOddLength):
		return fmt.Errorf("%w: %q", ErrOddLength, s)
	case errors.Is(err, hexutil.ErrSyntax):
		return fmt.Errorf("%w: %q", ErrInvalidHexDigit, s)
	default:
		return err
	}
}

func isHexDigit(c byte) bool {
	return ('0' <= c && c <= '9') || ('a' <= c && c <= 'f') || ('A' <= c && c <= 'F')
}
