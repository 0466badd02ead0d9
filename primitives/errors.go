package primitives

import "errors"

var (
	ErrInvalidLength       = errors.New("invalid length")
	ErrInvalidHexDigit     = errors.New("invalid hex digit")
	ErrOddLength           = errors.New("hex string has odd length")
	ErrNegativeValue       = errors.New("negative value")
	ErrNotSafeInteger      = errors.New("value is not a safe integer")
	ErrNonCanonicalInteger = errors.New("integer has leading zero bytes")
)
