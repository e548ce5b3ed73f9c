package verify

import (
	"github.com/oisee/z80core/pkg/cpu"
	"github.com/oisee/z80core/pkg/inst"
)

// fingerprintCells are the cells recorded per vector. PC and R are left
// out so prefixed and unprefixed forms of the same operation compare equal.
var fingerprintCells = [...]cpu.Register{
	cpu.A, cpu.F, cpu.B, cpu.C, cpu.D, cpu.E, cpu.H, cpu.L,
	cpu.A2, cpu.F2, cpu.B2, cpu.C2, cpu.D2, cpu.E2, cpu.H2, cpu.L2,
	cpu.I, cpu.IXH, cpu.IXL, cpu.IYH, cpu.IYL, cpu.SPH, cpu.SPL,
}

// FingerprintSize is the number of bytes per vector in a fingerprint.
const FingerprintSize = len(fingerprintCells)

// FingerprintLen is the total fingerprint length.
const FingerprintLen = FingerprintSize * vectorCount

// Fingerprint records the register state an opcode leaves behind on
// every test vector. Opcodes with different fingerprints are guaranteed
// to behave differently.
func Fingerprint(op inst.Op) [FingerprintLen]byte {
	return newChecker().fingerprint(op)
}

func (ch *checker) fingerprint(op inst.Op) [FingerprintLen]byte {
	var fp [FingerprintLen]byte
	code := Encode(op)
	for i := range TestVectors {
		prepare(ch.core, TestVectors[i], code)
		ch.core.Step()
		off := i * FingerprintSize
		for j, r := range fingerprintCells {
			fp[off+j] = ch.core.Regs.Cell(r)
		}
	}
	return fp
}

// FingerprintMap groups opcodes by fingerprint.
type FingerprintMap struct {
	m map[[FingerprintLen]byte][]inst.Op
}

// NewFingerprintMap creates a new map with the given capacity hint.
func NewFingerprintMap(cap int) *FingerprintMap {
	return &FingerprintMap{m: make(map[[FingerprintLen]byte][]inst.Op, cap)}
}

// Add records op under fp.
func (fm *FingerprintMap) Add(fp [FingerprintLen]byte, op inst.Op) {
	fm.m[fp] = append(fm.m[fp], op)
}

// Lookup returns the opcodes recorded under fp.
func (fm *FingerprintMap) Lookup(fp [FingerprintLen]byte) []inst.Op {
	return fm.m[fp]
}

// Len returns the number of distinct fingerprints.
func (fm *FingerprintMap) Len() int {
	return len(fm.m)
}

// Entries returns the total number of opcodes recorded.
func (fm *FingerprintMap) Entries() int {
	n := 0
	for _, v := range fm.m {
		n += len(v)
	}
	return n
}
