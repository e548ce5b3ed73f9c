package snapshot

import (
	"errors"

	"github.com/oisee/z80core/internal/translate"
)

var f = translate.From

var (
	// ErrBadMagic is returned for input that does not start with "Z80S".
	ErrBadMagic = errors.New(f("not a core snapshot"))

	// ErrVersion is returned for a format version this package cannot read.
	ErrVersion = errors.New(f("snapshot version unsupported"))

	// ErrTruncated is returned when the input ends inside the header or memory.
	ErrTruncated = errors.New(f("snapshot truncated"))

	// ErrTooLarge is returned when the recorded memory size exceeds
	// cpu.MaxMemorySize.
	ErrTooLarge = errors.New(f("snapshot memory exceeds address space"))
)

// ErrFormat locates a decoding failure within the snapshot stream.
type ErrFormat struct {
	Offset int64
	Err    error
}

func (err ErrFormat) Error() string {
	return f("offset %d: %v", err.Offset, err.Err)
}

func (err ErrFormat) Unwrap() error {
	return err.Err
}
