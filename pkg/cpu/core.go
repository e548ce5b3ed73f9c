// Package cpu implements an 8-bit Z80-family CPU core: a register file
// with a shadow bank, a linear memory, and a fetch-decode-execute engine
// that performs one instruction per Step.
//
// The core has no notion of time, interrupts or I/O ports. A host loads
// memory, sets registers, calls Step repeatedly and inspects the result.
package cpu

import "context"

// Core owns one register file and one memory. Cores share no state, so
// independent instances may run on different goroutines; a single Core
// must not be stepped and mutated concurrently.
type Core struct {
	Regs Registers
	Mem  *Memory
}

// New allocates a core with memorySize bytes of zeroed memory and a
// zeroed register file.
func New(memorySize int) (*Core, error) {
	mem, err := NewMemory(memorySize)
	if err != nil {
		return nil, err
	}
	return &Core{Mem: mem}, nil
}

// Reset clears registers, the bank selector, the halted state and memory.
func (c *Core) Reset() {
	c.Regs.Reset()
	c.Mem.Clear()
}

// Halted reports whether the core has executed HALT.
func (c *Core) Halted() bool {
	return c.Regs.Halted()
}

// PC returns the program counter.
func (c *Core) PC() uint16 {
	return c.Regs.RawPair(PC)
}

// SetPC sets the program counter.
func (c *Core) SetPC(pc uint16) {
	c.Regs.SetRawPair(PC, pc)
}

// Step performs one instruction. It is a no-op while halted.
func (c *Core) Step() {
	if c.Regs.Halted() {
		return
	}

	var in instr
	in.fetch(c)
	size := baseOps[in.opcode](&in)

	switch {
	case c.Regs.Halted():
		// PC stays on the HALT opcode.
	case in.branched:
		c.SetPC(in.target)
	default:
		c.SetPC(in.pc + size)
	}
}

// Run steps until the core halts, ctx is cancelled or maxSteps
// instructions have executed. maxSteps <= 0 means no limit. It returns
// the number of instructions executed.
func (c *Core) Run(ctx context.Context, maxSteps int) (int, error) {
	n := 0
	for !c.Regs.Halted() {
		if maxSteps > 0 && n >= maxSteps {
			return n, ErrStepLimit
		}
		if n&0x3FF == 0 {
			if err := ctx.Err(); err != nil {
				return n, err
			}
		}
		c.Step()
		n++
	}
	return n, nil
}
