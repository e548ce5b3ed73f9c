package verify

import (
	"fmt"

	"github.com/oisee/z80core/pkg/cpu"
	"github.com/oisee/z80core/pkg/inst"
)

// Violation is one disagreement between the core and the catalog.
// Random-state violations carry Vector -1 and the round that produced them.
type Violation struct {
	Op     inst.Op
	Class  string
	Vector int
	Round  int
	Reason string
}

func (v Violation) String() string {
	if v.Vector < 0 {
		return fmt.Sprintf("%-14s %-14s round %d: %s", v.Op, v.Class, v.Round, v.Reason)
	}
	return fmt.Sprintf("%-14s %-14s vector %d: %s", v.Op, v.Class, v.Vector, v.Reason)
}

// checker owns a core reused across vectors and opcodes.
type checker struct {
	core *cpu.Core
}

func newChecker() *checker {
	c, err := cpu.New(cpu.DefaultMemorySize)
	if err != nil {
		// DefaultMemorySize is always valid.
		panic(err)
	}
	return &checker{core: c}
}

// CheckOpcode runs one catalog entry against every test vector.
func CheckOpcode(prefix inst.Prefix, opcode uint8) []Violation {
	return newChecker().check(inst.Op{Prefix: prefix, Code: opcode})
}

func (ch *checker) check(op inst.Op) []Violation {
	info := inst.Lookup(op.Prefix, op.Code)
	if info.Next != inst.None {
		return nil
	}
	code := Encode(op)

	var out []Violation
	for i := range TestVectors {
		prepare(ch.core, TestVectors[i], code)
		before := ch.core.Regs.Cells()
		ch.core.Step()
		after := ch.core.Regs.Cells()

		for _, reason := range inspect(info, Origin, before, after, ch.core) {
			out = append(out, Violation{Op: op, Class: info.Class, Vector: i, Reason: reason})
		}
	}
	return out
}

// inspect compares one execution of the instruction placed at origin
// with the catalog entry.
func inspect(info inst.Info, origin uint16, before, after [cpu.RegisterCount]uint8, c *cpu.Core) []string {
	var reasons []string
	e := info.Flags
	f0, f1 := before[cpu.F], after[cpu.F]

	if d := (f0 ^ f1) & e.Untouched(); d != 0 {
		reasons = append(reasons, fmt.Sprintf("untouched flags %02X changed (F %02X -> %02X)", d, f0, f1))
	}
	if f1&e.Set != e.Set {
		reasons = append(reasons, fmt.Sprintf("flags %02X not set (F=%02X)", e.Set&^f1, f1))
	}
	if f1&e.Reset != 0 {
		reasons = append(reasons, fmt.Sprintf("flags %02X not reset (F=%02X)", f1&e.Reset, f1))
	}

	if !info.Branch {
		want := origin + uint16(info.Length)
		if pc := c.PC(); pc != want {
			reasons = append(reasons, fmt.Sprintf("PC %04X, want %04X", pc, want))
		}
		if c.Halted() {
			reasons = append(reasons, "halted")
		}
	}

	if info.Unsupported {
		for _, r := range []cpu.Register{cpu.PCH, cpu.PCL, cpu.R} {
			before[r], after[r] = 0, 0
		}
		if before != after {
			reasons = append(reasons, "no-op changed registers")
		}
	}
	return reasons
}
