package rlp

import (
	"errors"
	"fmt"
)

var (
	ErrTruncatedInput       = errors.New("rlp: input truncated")
	ErrTrailingBytes        = errors.New("rlp: trailing bytes after top-level item")
	ErrNonCanonicalSize     = errors.New("rlp: non-canonical size information")
	ErrUnsupportedInputType = errors.New("rlp: unsupported input type")
	ErrInvalidHexInput      = errors.New("rlp: invalid hex input")
)

// DecodeError reports where in the input decoding failed.
type DecodeError struct {
	Offset int
	Err    error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("%v (at offset %d)", e.Err, e.Offset)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

func decodeErr(offset int, err error, format string, args ...any) error {
	if format != "" {
		err = fmt.Errorf("%w: "+format, append([]any{err}, args...)...)
	}
	return &DecodeError{Offset: offset, Err: err}
}
