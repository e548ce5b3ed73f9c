package cpu

// ALU helpers. Each returns the result and the complete new F; bits an
// instruction leaves untouched are copied from the incoming flags.

// aluOp is the 3-bit operation field of the 10 OOO SSS group and of
// the 11 OOO 110 immediate group.
type aluOp uint8

const (
	aluADD aluOp = iota
	aluADC
	aluSUB
	aluSBC
	aluAND
	aluXOR
	aluOR
	aluCP
)

// alu applies op to the accumulator. CP returns a unchanged.
func alu(op aluOp, a, v, flags uint8) (uint8, uint8) {
	switch op {
	case aluADD:
		return add8(a, v, 0)
	case aluADC:
		return add8(a, v, flags&FlagC)
	case aluSUB:
		return sub8(a, v, 0)
	case aluSBC:
		return sub8(a, v, flags&FlagC)
	case aluAND:
		a &= v
		return a, FlagH | Sz53pTable[a]
	case aluXOR:
		a ^= v
		return a, Sz53pTable[a]
	case aluOR:
		a |= v
		return a, Sz53pTable[a]
	default:
		return a, cp8(a, v)
	}
}

func add8(a, v, carry uint8) (uint8, uint8) {
	sum := uint16(a) + uint16(v) + uint16(carry)
	lookup := ((a & 0x88) >> 3) | ((v & 0x88) >> 2) | uint8((sum&0x88)>>1)
	r := uint8(sum)
	return r, bsel(sum&0x100 != 0, FlagC, 0) |
		HalfcarryAddTable[lookup&0x07] |
		OverflowAddTable[lookup>>4] |
		Sz53Table[r]
}

func sub8(a, v, carry uint8) (uint8, uint8) {
	diff := uint16(a) - uint16(v) - uint16(carry)
	lookup := ((a & 0x88) >> 3) | ((v & 0x88) >> 2) | uint8((diff&0x88)>>1)
	r := uint8(diff)
	return r, bsel(diff&0x100 != 0, FlagC, 0) | FlagN |
		HalfcarrySubTable[lookup&0x07] |
		OverflowSubTable[lookup>>4] |
		Sz53Table[r]
}

// cp8 is SUB without storing the result; F5/F3 come from the operand.
func cp8(a, v uint8) uint8 {
	diff := uint16(a) - uint16(v)
	lookup := ((a & 0x88) >> 3) | ((v & 0x88) >> 2) | uint8((diff&0x88)>>1)
	return bsel(diff&0x100 != 0, FlagC, bsel(diff != 0, 0, FlagZ)) |
		FlagN |
		HalfcarrySubTable[lookup&0x07] |
		OverflowSubTable[lookup>>4] |
		(v & Flag35) |
		uint8(diff&uint16(FlagS))
}

func inc8(v, flags uint8) (uint8, uint8) {
	v++
	return v, (flags & FlagC) |
		bsel(v == 0x80, FlagV, 0) |
		bsel(v&0x0F != 0, 0, FlagH) |
		Sz53Table[v]
}

func dec8(v, flags uint8) (uint8, uint8) {
	nf := (flags & FlagC) | bsel(v&0x0F != 0, 0, FlagH) | FlagN
	v--
	return v, nf | bsel(v == 0x7F, FlagV, 0) | Sz53Table[v]
}

func daa(a, flags uint8) (uint8, uint8) {
	var add, carry uint8
	carry = flags & FlagC
	if (flags&FlagH) != 0 || (a&0x0F) > 9 {
		add = 6
	}
	if carry != 0 || a > 0x99 {
		add |= 0x60
	}
	if a > 0x99 {
		carry = FlagC
	}
	var r, nf uint8
	if (flags & FlagN) != 0 {
		r, nf = sub8(a, add, 0)
	} else {
		r, nf = add8(a, add, 0)
	}
	return r, (nf &^ (FlagC | FlagP)) | carry | ParityTable[r]
}

// Accumulator rotates keep S, Z and P/V.
func rlca(a, flags uint8) (uint8, uint8) {
	a = (a << 1) | (a >> 7)
	return a, (flags & (FlagP | FlagZ | FlagS)) | (a & (FlagC | Flag35))
}

func rrca(a, flags uint8) (uint8, uint8) {
	c := a & FlagC
	a = (a >> 1) | (a << 7)
	return a, (flags & (FlagP | FlagZ | FlagS)) | c | (a & Flag35)
}

func rla(a, flags uint8) (uint8, uint8) {
	old := a
	a = (a << 1) | (flags & FlagC)
	return a, (flags & (FlagP | FlagZ | FlagS)) | (a & Flag35) | (old >> 7)
}

func rra(a, flags uint8) (uint8, uint8) {
	old := a
	a = (a >> 1) | (flags << 7)
	return a, (flags & (FlagP | FlagZ | FlagS)) | (a & Flag35) | (old & FlagC)
}

func cpl(a, flags uint8) (uint8, uint8) {
	a ^= 0xFF
	return a, (flags & (FlagC | FlagP | FlagZ | FlagS)) | (a & Flag35) | FlagN | FlagH
}

func scf(a, flags uint8) uint8 {
	return (flags & (FlagP | FlagZ | FlagS)) | (a & Flag35) | FlagC
}

func ccf(a, flags uint8) uint8 {
	nf := (flags & (FlagP | FlagZ | FlagS)) | (a & Flag35)
	if flags&FlagC != 0 {
		return nf | FlagH
	}
	return nf | FlagC
}

// rotOp is the 3-bit operation field of the CB 00 OOO SSS group.
type rotOp uint8

const (
	rotRLC rotOp = iota
	rotRRC
	rotRL
	rotRR
	rotSLA
	rotSRA
	rotSLL // undocumented: shift left, bit 0 set
	rotSRL
)

// rot applies a CB-prefix rotate or shift. S, Z, P come from the result.
func rot(op rotOp, v, flags uint8) (uint8, uint8) {
	var c uint8
	switch op {
	case rotRLC:
		v = (v << 1) | (v >> 7)
		c = v & FlagC
	case rotRRC:
		c = v & FlagC
		v = (v >> 1) | (v << 7)
	case rotRL:
		c = v >> 7
		v = (v << 1) | (flags & FlagC)
	case rotRR:
		c = v & FlagC
		v = (v >> 1) | (flags << 7)
	case rotSLA:
		c = v >> 7
		v <<= 1
	case rotSRA:
		c = v & FlagC
		v = (v & 0x80) | (v >> 1)
	case rotSLL:
		c = v >> 7
		v = (v << 1) | 0x01
	case rotSRL:
		c = v & FlagC
		v >>= 1
	}
	return v, c | Sz53pTable[v]
}

// bit tests bit n of v. xy supplies F5/F3, which differ between the
// register, (HL) and indexed forms.
func bit(n, v, flags, xy uint8) uint8 {
	nf := (flags & FlagC) | FlagH | (xy & Flag35)
	if v&(1<<n) == 0 {
		nf |= FlagP | FlagZ
	}
	if n == 7 && v&0x80 != 0 {
		nf |= FlagS
	}
	return nf
}

// add16 is ADD HL/IX/IY, rr: H from bit 11, C from bit 15, F5/F3 from
// the result high byte; S, Z and P/V are kept.
func add16(hl, v uint16, flags uint8) (uint16, uint8) {
	sum := uint32(hl) + uint32(v)
	hc := (hl & 0x0FFF) + (v & 0x0FFF)
	r := uint16(sum)
	return r, (flags & (FlagS | FlagZ | FlagP)) |
		bsel(hc&0x1000 != 0, FlagH, 0) |
		bsel(sum&0x10000 != 0, FlagC, 0) |
		(uint8(r>>8) & Flag35)
}

func adc16(hl, v uint16, flags uint8) (uint16, uint8) {
	sum := uint32(hl) + uint32(v) + uint32(flags&FlagC)
	lookup := uint8(((uint32(hl) & 0x8800) >> 11) | ((uint32(v) & 0x8800) >> 10) | ((sum & 0x8800) >> 9))
	r := uint16(sum)
	hi := uint8(r >> 8)
	return r, bsel(sum&0x10000 != 0, FlagC, 0) |
		OverflowAddTable[lookup>>4] |
		(hi & (Flag35 | FlagS)) |
		HalfcarryAddTable[lookup&0x07] |
		bsel(r != 0, 0, FlagZ)
}

func sbc16(hl, v uint16, flags uint8) (uint16, uint8) {
	diff := uint32(hl) - uint32(v) - uint32(flags&FlagC)
	lookup := uint8(((uint32(hl) & 0x8800) >> 11) | ((uint32(v) & 0x8800) >> 10) | ((diff & 0x8800) >> 9))
	r := uint16(diff)
	hi := uint8(r >> 8)
	return r, bsel(diff&0x10000 != 0, FlagC, 0) |
		FlagN |
		OverflowSubTable[lookup>>4] |
		(hi & (Flag35 | FlagS)) |
		HalfcarrySubTable[lookup&0x07] |
		bsel(r != 0, 0, FlagZ)
}
