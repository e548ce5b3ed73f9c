package cpu

import (
	"errors"

	"github.com/oisee/z80core/internal/translate"
)

var f = translate.From

var (
	// ErrInvalidMemorySize is matched by every ErrMemorySize value.
	ErrInvalidMemorySize = errors.New(f("memory size invalid"))

	// ErrStepLimit is returned by Run when the step budget runs out
	// before the core halts.
	ErrStepLimit = errors.New(f("step limit reached"))
)

// ErrMemorySize reports a rejected memory capacity.
type ErrMemorySize int

func (em ErrMemorySize) Error() string {
	return f("memory size %d invalid", int(em))
}

func (em ErrMemorySize) Is(err error) bool {
	return err == ErrInvalidMemorySize
}
