// Package script drives a core from Starlark. A script pokes memory,
// sets registers, steps the core and inspects the result:
//
//	load_bytes(0x8000, [0x3E, 0x05, 0x3D, 0x20, 0xFD, 0x76])
//	set_pair("PC", 0x8000)
//	run(1000)
//	print(reg("A"), halted())
package script

import (
	"context"
	"errors"
	"fmt"
	"io"

	"go.starlark.net/starlark"
	"go.starlark.net/syntax"

	"github.com/oisee/z80core/pkg/cpu"
)

// Run executes src against core. Output from print goes to out.
// Cancelling ctx aborts the script.
func Run(ctx context.Context, core *cpu.Core, filename string, src any, out io.Writer) error {
	if out == nil {
		out = io.Discard
	}

	thread := &starlark.Thread{
		Name: filename,
		Print: func(_ *starlark.Thread, msg string) {
			fmt.Fprintln(out, msg)
		},
	}

	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			thread.Cancel(ctx.Err().Error())
		case <-done:
		}
	}()

	h := &host{ctx: ctx, core: core}
	opts := syntax.FileOptions{}
	_, err := starlark.ExecFileOptions(&opts, thread, filename, src, h.builtins())
	return err
}

type host struct {
	ctx  context.Context
	core *cpu.Core
}

func (h *host) builtins() starlark.StringDict {
	fns := []struct {
		name string
		fn   func(*starlark.Thread, *starlark.Builtin, starlark.Tuple, []starlark.Tuple) (starlark.Value, error)
	}{
		{"peek", h.peek},
		{"poke", h.poke},
		{"load_bytes", h.loadBytes},
		{"reg", h.reg},
		{"set_reg", h.setReg},
		{"pair", h.pair},
		{"set_pair", h.setPair},
		{"step", h.step},
		{"run", h.run},
		{"halted", h.halted},
		{"alternate", h.alternate},
	}

	dict := make(starlark.StringDict, len(fns))
	for _, b := range fns {
		dict[b.name] = starlark.NewBuiltin(b.name, b.fn)
	}
	return dict
}

func checkRange(name string, v, limit int) error {
	if v < 0 || v > limit {
		return ErrValue{Name: name, Value: v, Max: limit}
	}
	return nil
}

func lookupRegister(name string) (cpu.Register, error) {
	r, ok := cpu.LookupRegister(name)
	if !ok {
		return 0, ErrRegisterName(name)
	}
	return r, nil
}

func lookupPair(name string) (cpu.Pair, error) {
	p, ok := cpu.LookupPair(name)
	if !ok {
		return 0, ErrRegisterName(name)
	}
	return p, nil
}

// peek(addr) returns the byte at addr.
func (h *host) peek(_ *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var addr int
	if err := starlark.UnpackArgs(b.Name(), args, kwargs, "addr", &addr); err != nil {
		return nil, err
	}
	if err := checkRange("addr", addr, 0xFFFF); err != nil {
		return nil, err
	}
	return starlark.MakeInt(int(h.core.Mem.Read(uint16(addr)))), nil
}

// poke(addr, value) stores one byte.
func (h *host) poke(_ *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var addr, value int
	if err := starlark.UnpackArgs(b.Name(), args, kwargs, "addr", &addr, "value", &value); err != nil {
		return nil, err
	}
	if err := checkRange("addr", addr, 0xFFFF); err != nil {
		return nil, err
	}
	if err := checkRange("value", value, 0xFF); err != nil {
		return nil, err
	}
	h.core.Mem.Write(uint16(addr), uint8(value))
	return starlark.None, nil
}

// load_bytes(addr, data) stores a list of bytes starting at addr and
// returns the count.
func (h *host) loadBytes(_ *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var addr int
	var data starlark.Iterable
	if err := starlark.UnpackArgs(b.Name(), args, kwargs, "addr", &addr, "data", &data); err != nil {
		return nil, err
	}
	if err := checkRange("addr", addr, 0xFFFF); err != nil {
		return nil, err
	}

	var buf []byte
	iter := data.Iterate()
	defer iter.Done()
	var x starlark.Value
	for iter.Next(&x) {
		v, err := starlark.AsInt32(x)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", b.Name(), err)
		}
		if err := checkRange("byte", v, 0xFF); err != nil {
			return nil, err
		}
		buf = append(buf, uint8(v))
	}

	h.core.Mem.Load(uint16(addr), buf)
	return starlark.MakeInt(len(buf)), nil
}

// reg(name) reads a cell through the bank selector.
func (h *host) reg(_ *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var name string
	if err := starlark.UnpackArgs(b.Name(), args, kwargs, "name", &name); err != nil {
		return nil, err
	}
	r, err := lookupRegister(name)
	if err != nil {
		return nil, err
	}
	return starlark.MakeInt(int(h.core.Regs.Get(r))), nil
}

// set_reg(name, value) writes a cell through the bank selector.
func (h *host) setReg(_ *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var name string
	var value int
	if err := starlark.UnpackArgs(b.Name(), args, kwargs, "name", &name, "value", &value); err != nil {
		return nil, err
	}
	r, err := lookupRegister(name)
	if err != nil {
		return nil, err
	}
	if err := checkRange(name, value, 0xFF); err != nil {
		return nil, err
	}
	h.core.Regs.Set(r, uint8(value))
	return starlark.None, nil
}

// pair(name) reads a composite through the bank selector.
func (h *host) pair(_ *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var name string
	if err := starlark.UnpackArgs(b.Name(), args, kwargs, "name", &name); err != nil {
		return nil, err
	}
	p, err := lookupPair(name)
	if err != nil {
		return nil, err
	}
	return starlark.MakeInt(int(h.core.Regs.Pair(p))), nil
}

// set_pair(name, value) writes a composite through the bank selector.
func (h *host) setPair(_ *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var name string
	var value int
	if err := starlark.UnpackArgs(b.Name(), args, kwargs, "name", &name, "value", &value); err != nil {
		return nil, err
	}
	p, err := lookupPair(name)
	if err != nil {
		return nil, err
	}
	if err := checkRange(name, value, 0xFFFF); err != nil {
		return nil, err
	}
	h.core.Regs.SetPair(p, uint16(value))
	return starlark.None, nil
}

// step(n=1) performs n instructions and returns the new PC.
func (h *host) step(_ *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	n := 1
	if err := starlark.UnpackArgs(b.Name(), args, kwargs, "n?", &n); err != nil {
		return nil, err
	}
	for i := 0; i < n; i++ {
		h.core.Step()
	}
	return starlark.MakeInt(int(h.core.PC())), nil
}

// run(max_steps=0) steps until HALT and returns the instruction count.
// Reaching max_steps first is not an error; check halted().
func (h *host) run(_ *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	maxSteps := 0
	if err := starlark.UnpackArgs(b.Name(), args, kwargs, "max_steps?", &maxSteps); err != nil {
		return nil, err
	}
	n, err := h.core.Run(h.ctx, maxSteps)
	if err != nil && !errors.Is(err, cpu.ErrStepLimit) {
		return nil, err
	}
	return starlark.MakeInt(n), nil
}

// halted() reports whether the core executed HALT.
func (h *host) halted(_ *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	if err := starlark.UnpackArgs(b.Name(), args, kwargs); err != nil {
		return nil, err
	}
	return starlark.Bool(h.core.Halted()), nil
}

// alternate(on=None) returns the bank selector, first setting it when
// on is given.
func (h *host) alternate(_ *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var on starlark.Value = starlark.None
	if err := starlark.UnpackArgs(b.Name(), args, kwargs, "on?", &on); err != nil {
		return nil, err
	}
	if on != starlark.None {
		h.core.Regs.SetAlternate(bool(on.Truth()))
	}
	return starlark.Bool(h.core.Regs.Alternate()), nil
}
