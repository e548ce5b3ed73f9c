package script

import (
	"errors"

	"github.com/oisee/z80core/internal/translate"
)

var f = translate.From

var (
	ErrRange    = errors.New(f("value out of range"))
	ErrRegister = errors.New(f("register unknown"))
)

// ErrRegisterName reports a register or pair name no builtin accepts.
type ErrRegisterName string

func (er ErrRegisterName) Error() string {
	return f("register %v unknown", string(er))
}

func (er ErrRegisterName) Is(err error) bool {
	return err == ErrRegister
}

// ErrValue reports an argument outside the range its builtin accepts.
type ErrValue struct {
	Name  string
	Value int
	Max   int
}

func (ev ErrValue) Error() string {
	return f("%v %d out of range 0..%d", ev.Name, ev.Value, ev.Max)
}

func (ev ErrValue) Unwrap() error {
	return ErrRange
}
