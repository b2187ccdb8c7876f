package decoder

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidTransition = errors.New("invalid state transition")
	ErrSourceNotFound    = errors.New("source not found")
	ErrClosed            = errors.New("decoder is closed")
)

type ErrDecode struct {
	Source string
	Err    error
}

func (e ErrDecode) Error() string {
	return fmt.Sprintf("unable to decode %q: %v", e.Source, e.Err)
}

func (e ErrDecode) Unwrap() error {
	return e.Err
}
