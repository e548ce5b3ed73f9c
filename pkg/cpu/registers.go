package cpu

import "strings"

// Register names one 8-bit cell of the register file.
// The order matches the flat snapshot layout.
type Register uint8

const (
	A Register = iota
	F
	B
	C
	D
	E
	H
	L
	A2 // shadow bank: A'
	F2
	B2
	C2
	D2
	E2
	H2
	L2
	I
	R
	IXH
	IXL
	IYH
	IYL
	SPH
	SPL
	PCH
	PCL

	// RegisterCount is the number of 8-bit cells.
	RegisterCount
)

// shadowOffset is the distance from a primary cell to its shadow cell.
const shadowOffset = A2 - A

var registerNames = [RegisterCount]string{
	"A", "F", "B", "C", "D", "E", "H", "L",
	"A'", "F'", "B'", "C'", "D'", "E'", "H'", "L'",
	"I", "R", "IXH", "IXL", "IYH", "IYL", "SPH", "SPL", "PCH", "PCL",
}

func (r Register) String() string {
	if r < RegisterCount {
		return registerNames[r]
	}
	return "?"
}

// banked reports whether the cell is subject to the alternate bank selector.
func (r Register) banked() bool {
	return r <= L
}

// Pair names a 16-bit composite of two cells, high byte first.
type Pair uint8

const (
	AF Pair = iota
	BC
	DE
	HL
	SP
	PC
	IX
	IY
	AF2
	BC2
	DE2
	HL2

	// PairCount is the number of composites.
	PairCount
)

var pairHalves = [PairCount][2]Register{
	AF:  {A, F},
	BC:  {B, C},
	DE:  {D, E},
	HL:  {H, L},
	SP:  {SPH, SPL},
	PC:  {PCH, PCL},
	IX:  {IXH, IXL},
	IY:  {IYH, IYL},
	AF2: {A2, F2},
	BC2: {B2, C2},
	DE2: {D2, E2},
	HL2: {H2, L2},
}

var pairNames = [PairCount]string{"AF", "BC", "DE", "HL", "SP", "PC", "IX", "IY", "AF'", "BC'", "DE'", "HL'"}

func (p Pair) String() string {
	if p < PairCount {
		return pairNames[p]
	}
	return "?"
}

// Halves returns the high and low cells of the pair.
func (p Pair) Halves() (hi, lo Register) {
	h := pairHalves[p]
	return h[0], h[1]
}

// Registers is the CPU-visible state: 26 cells, the alternate bank
// selector and the halted flag. The zero value is a reset register file.
type Registers struct {
	cells     [RegisterCount]uint8
	alternate bool
	halted    bool
}

// Cell returns the raw cell, ignoring the bank selector.
func (r *Registers) Cell(reg Register) uint8 {
	return r.cells[reg]
}

// SetCell writes the raw cell, ignoring the bank selector.
func (r *Registers) SetCell(reg Register, v uint8) {
	r.cells[reg] = v
}

// resolve maps reg to the cell selected by the given bank.
func resolve(reg Register, alternate bool) Register {
	if alternate && reg.banked() {
		return reg + shadowOffset
	}
	return reg
}

// Get reads reg through the bank selector: A..L read the shadow
// cells while the alternate bank is active.
func (r *Registers) Get(reg Register) uint8 {
	return r.cells[resolve(reg, r.alternate)]
}

// Set writes reg through the bank selector.
func (r *Registers) Set(reg Register, v uint8) {
	r.cells[resolve(reg, r.alternate)] = v
}

// Pair reads a composite through the bank selector.
func (r *Registers) Pair(p Pair) uint16 {
	hi, lo := p.Halves()
	return uint16(r.Get(hi))<<8 | uint16(r.Get(lo))
}

// SetPair writes a composite through the bank selector.
func (r *Registers) SetPair(p Pair, v uint16) {
	hi, lo := p.Halves()
	r.Set(hi, uint8(v>>8))
	r.Set(lo, uint8(v))
}

// RawPair reads a composite from its raw cells.
func (r *Registers) RawPair(p Pair) uint16 {
	hi, lo := p.Halves()
	return uint16(r.cells[hi])<<8 | uint16(r.cells[lo])
}

// SetRawPair writes a composite to its raw cells.
func (r *Registers) SetRawPair(p Pair, v uint16) {
	hi, lo := p.Halves()
	r.cells[hi] = uint8(v >> 8)
	r.cells[lo] = uint8(v)
}

// Alternate reports whether the shadow bank is selected.
func (r *Registers) Alternate() bool {
	return r.alternate
}

// SetAlternate selects the shadow bank (true) or the primary bank.
func (r *Registers) SetAlternate(on bool) {
	r.alternate = on
}

// ToggleAlternate flips the bank selector.
func (r *Registers) ToggleAlternate() {
	r.alternate = !r.alternate
}

// Halted reports whether HALT has been executed.
func (r *Registers) Halted() bool {
	return r.halted
}

// SetHalted sets or clears the halted state.
func (r *Registers) SetHalted(on bool) {
	r.halted = on
}

// Cells returns a copy of every cell in Register order.
func (r *Registers) Cells() [RegisterCount]uint8 {
	return r.cells
}

// Reset clears every cell, the selector and the halted flag.
func (r *Registers) Reset() {
	*r = Registers{}
}


// LookupRegister resolves a register name such as "A", "b'", "IXH".
func LookupRegister(name string) (Register, bool) {
	for i, n := range registerNames {
		if strings.EqualFold(n, name) {
			return Register(i), true
		}
	}
	return 0, false
}

// LookupPair resolves a pair name such as "HL" or "de'".
func LookupPair(name string) (Pair, bool) {
	for i, n := range pairNames {
		if strings.EqualFold(n, name) {
			return Pair(i), true
		}
	}
	return 0, false
}
