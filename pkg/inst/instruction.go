package inst

import (
	"strings"

	"github.com/oisee/z80core/pkg/cpu"
)

// Prefix names one of the decode tables. DDCB and FDCB are the indexed
// bit tables reached through DD CB d and FD CB d.
type Prefix uint8

const (
	None Prefix = iota
	CB
	ED
	DD
	FD
	DDCB
	FDCB

	prefixCount
)

var prefixNames = [prefixCount]string{"", "CB", "ED", "DD", "FD", "DDCB", "FDCB"}

func (p Prefix) String() string {
	if p == None {
		return "none"
	}
	if p < prefixCount {
		return prefixNames[p]
	}
	return "?"
}

// ParsePrefix resolves a table name as printed by String.
func ParsePrefix(name string) (Prefix, bool) {
	for p := None; p < prefixCount; p++ {
		if strings.EqualFold(name, p.String()) {
			return p, true
		}
	}
	return None, false
}

// Bytes returns the prefix bytes that precede the opcode. For DDCB and
// FDCB the displacement sits between these bytes and the opcode.
func (p Prefix) Bytes() []byte {
	switch p {
	case CB:
		return []byte{0xCB}
	case ED:
		return []byte{0xED}
	case DD:
		return []byte{0xDD}
	case FD:
		return []byte{0xFD}
	case DDCB:
		return []byte{0xDD, 0xCB}
	case FDCB:
		return []byte{0xFD, 0xCB}
	}
	return nil
}

// Effect is the policy an instruction applies to each bit of F.
// A bit appears in at most one of the three masks.
type Effect struct {
	Computed uint8 // depends on the operands
	Set      uint8 // always 1
	Reset    uint8 // always 0
}

// Untouched returns the bits the instruction never writes.
func (e Effect) Untouched() uint8 {
	return ^(e.Computed | e.Set | e.Reset)
}

// Info holds static metadata for one opcode of one table.
type Info struct {
	Class  string // instruction group, e.g. "ALU A,r" or "LD r,(IX+d)"
	Length int    // bytes including prefixes, displacement and immediates
	Flags  Effect

	// Branch marks instructions whose next PC is not always the
	// address after them: jumps, calls, returns, repeats and HALT.
	Branch bool

	// Unsupported marks opcodes the core executes as a no-op of the
	// right length: port I/O, interrupt control and undefined ED codes.
	Unsupported bool

	// Next is the table this byte escapes to, or None.
	Next Prefix
}

// Op identifies one opcode of one table.
type Op struct {
	Prefix Prefix
	Code   uint8
}

// Flag policies shared by several groups.
const (
	fS  = cpu.FlagS
	fZ  = cpu.FlagZ
	f5  = cpu.Flag5
	fH  = cpu.FlagH
	f3  = cpu.Flag3
	fPV = cpu.FlagP
	fN  = cpu.FlagN
	fC  = cpu.FlagC

	f53  = f5 | f3
	fSZ  = fS | fZ
	fAll = fS | fZ | f5 | fH | f3 | fPV | fN | fC
)

var (
	noFlags = Effect{}

	addFlags   = Effect{Computed: fAll &^ fN, Reset: fN}
	subFlags   = Effect{Computed: fAll &^ fN, Set: fN}
	andFlags   = Effect{Computed: fSZ | f53 | fPV, Set: fH, Reset: fN | fC}
	orFlags    = Effect{Computed: fSZ | f53 | fPV, Reset: fH | fN | fC}
	incFlags   = Effect{Computed: fSZ | f53 | fH | fPV, Reset: fN}
	decFlags   = Effect{Computed: fSZ | f53 | fH | fPV, Set: fN}
	rotAFlags  = Effect{Computed: f53 | fC, Reset: fH | fN}
	daaFlags   = Effect{Computed: fAll &^ fN}
	cplFlags   = Effect{Computed: f53, Set: fH | fN}
	scfFlags   = Effect{Computed: f53, Set: fC, Reset: fH | fN}
	ccfFlags   = Effect{Computed: f53 | fH | fC, Reset: fN}
	add16Flags = Effect{Computed: f53 | fH | fC, Reset: fN}
	adc16Flags = Effect{Computed: fAll &^ fN, Reset: fN}
	sbc16Flags = Effect{Computed: fAll &^ fN, Set: fN}
	loadF      = Effect{Computed: fAll} // F replaced wholesale: POP AF, EX AF,AF'
	rotFlags   = Effect{Computed: fSZ | f53 | fPV | fC, Reset: fH | fN}
	bitFlags   = Effect{Computed: fSZ | f53 | fPV, Set: fH, Reset: fN}
	ldaiFlags  = Effect{Computed: fSZ | f53, Reset: fH | fN | fPV}
	rldFlags   = Effect{Computed: fSZ | f53 | fPV, Reset: fH | fN}
	ldiFlags   = Effect{Computed: f53 | fPV, Reset: fH | fN}
	cpiFlags   = Effect{Computed: fSZ | f53 | fH | fPV, Set: fN}
)
