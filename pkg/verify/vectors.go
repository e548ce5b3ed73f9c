// Package verify sweeps the instruction catalog through the CPU core and
// reports every opcode whose observed PC advance or flag writes disagree
// with its catalog entry.
package verify

import (
	"github.com/oisee/z80core/pkg/cpu"
	"github.com/oisee/z80core/pkg/inst"
)

// Vector is one starting register state. The shadow bank is loaded with
// the complement of the primary bank so exchanges are visible.
type Vector struct {
	A, F, B, C, D, E, H, L uint8
	IX, IY, SP             uint16
}

const vectorCount = 8

// TestVectors are the fixed inputs every opcode is run against.
var TestVectors = [vectorCount]Vector{
	{A: 0x00, F: 0x00, B: 0x00, C: 0x00, D: 0x00, E: 0x00, H: 0x00, L: 0x00, IX: 0x0000, IY: 0x0000, SP: 0x0000},
	{A: 0xFF, F: 0xFF, B: 0xFF, C: 0xFF, D: 0xFF, E: 0xFF, H: 0xFF, L: 0xFF, IX: 0xFFFF, IY: 0xFFFF, SP: 0xFFFF},
	{A: 0x01, F: 0x00, B: 0x02, C: 0x03, D: 0x04, E: 0x05, H: 0x06, L: 0x07, IX: 0x1000, IY: 0x2000, SP: 0x1234},
	{A: 0x80, F: 0x01, B: 0x40, C: 0x20, D: 0x10, E: 0x08, H: 0x04, L: 0x02, IX: 0x7FFB, IY: 0x0100, SP: 0x8000},
	{A: 0x55, F: 0x00, B: 0xAA, C: 0x55, D: 0xAA, E: 0x55, H: 0xAA, L: 0x55, IX: 0x5555, IY: 0xAAAA, SP: 0x5555},
	{A: 0xAA, F: 0x01, B: 0x55, C: 0xAA, D: 0x55, E: 0xAA, H: 0x55, L: 0xAA, IX: 0xAAAA, IY: 0x5555, SP: 0xAAAA},
	{A: 0x0F, F: 0x00, B: 0xF0, C: 0x0F, D: 0xF0, E: 0x0F, H: 0xF0, L: 0x0F, IX: 0x0FF0, IY: 0xF00F, SP: 0xFFFE},
	{A: 0x7F, F: 0xD7, B: 0x80, C: 0x7F, D: 0x80, E: 0x7F, H: 0x80, L: 0x7F, IX: 0x8000, IY: 0x7FFF, SP: 0x7FFF},
}

// Origin is where the instruction under test is placed.
const Origin uint16 = 0x8000

// Operand bytes that follow the opcode: displacement or low immediate,
// then the remaining immediate bytes.
const (
	Displacement uint8 = 0x05
	Immediate    uint8 = 0x42
	Immediate2   uint8 = 0x30
)

// Encode returns the bytes of op with fixed operand bytes appended.
func Encode(op inst.Op) []byte {
	switch op.Prefix {
	case inst.DDCB, inst.FDCB:
		return append(op.Prefix.Bytes(), Displacement, op.Code)
	}
	b := append(op.Prefix.Bytes(), op.Code)
	return append(b, Displacement, Immediate, Immediate2)
}

// memPattern seeds memory so loads and block instructions see data.
var memPattern = func() []byte {
	b := make([]byte, cpu.DefaultMemorySize)
	for i := range b {
		b[i] = uint8(i*7 + i>>8)
	}
	return b
}()

// prepare loads v and code into c, with the bank selector clear.
func prepare(c *cpu.Core, v Vector, code []byte) {
	c.Regs.Reset()
	copy(c.Mem.Bytes(), memPattern)

	r := &c.Regs
	for reg, val := range map[cpu.Register]uint8{
		cpu.A: v.A, cpu.F: v.F, cpu.B: v.B, cpu.C: v.C,
		cpu.D: v.D, cpu.E: v.E, cpu.H: v.H, cpu.L: v.L,
	} {
		r.SetCell(reg, val)
		r.SetCell(reg+cpu.A2-cpu.A, ^val)
	}
	r.SetCell(cpu.I, 0x3F)
	r.SetRawPair(cpu.IX, v.IX)
	r.SetRawPair(cpu.IY, v.IY)
	r.SetRawPair(cpu.SP, v.SP)
	r.SetRawPair(cpu.PC, Origin)
	c.Mem.Load(Origin, code)
}
