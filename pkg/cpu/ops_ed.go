package cpu

// edMisc is ED 01 yyy 111.
var edMisc = [8]executor{opLDIA, opLDRA, opLDAI, opLDAR, opRRD, opRLD, opEDNOP, opEDNOP}

// edBlock is ED 101 yyy zzz for z < 4 and y >= 4. Block I/O is a no-op.
var edBlock = map[uint8]executor{
	0xA0: opLDI, 0xA1: opCPI, 0xA2: opEDNOP, 0xA3: opEDNOP,
	0xA8: opLDD, 0xA9: opCPD, 0xAA: opEDNOP, 0xAB: opEDNOP,
	0xB0: opLDIR, 0xB1: opCPIR, 0xB2: opEDNOP, 0xB3: opEDNOP,
	0xB8: opLDDR, 0xB9: opCPDR, 0xBA: opEDNOP, 0xBB: opEDNOP,
}

func initED() {
	for op := range edOps {
		edOps[op] = opEDNOP
	}
	for op := 0x40; op < 0x80; op++ {
		y, z := uint8(op>>3)&0x7, op&0x7
		switch z {
		case 2:
			if y&1 == 0 {
				edOps[op] = opSBCHL
			} else {
				edOps[op] = opADCHL
			}
		case 3:
			if y&1 == 0 {
				edOps[op] = opLDnnrr
			} else {
				edOps[op] = opLDrrInd
			}
		case 4:
			edOps[op] = opNEG
		case 5:
			// RETN and RETI; there are no interrupts to re-enable.
			edOps[op] = opRET
		case 7:
			edOps[op] = edMisc[y]
		default:
			// IN r,(C), OUT (C),r and IM n
		}
	}
	for op, fn := range edBlock {
		edOps[op] = fn
	}
}

// opEDNOP is every ED opcode without an effect here: it skips both bytes.
func opEDNOP(in *instr) uint16 {
	return in.size(1)
}

func opSBCHL(in *instr) uint16 {
	v, nf := sbc16(in.pair(HL), in.pair(registerPair[in.ddd>>1]), in.get(F))
	in.setPair(HL, v)
	in.setFlags(flagsAll, nf)
	return in.size(1)
}

func opADCHL(in *instr) uint16 {
	v, nf := adc16(in.pair(HL), in.pair(registerPair[in.ddd>>1]), in.get(F))
	in.setPair(HL, v)
	in.setFlags(flagsAll, nf)
	return in.size(1)
}

func opLDnnrr(in *instr) uint16 {
	in.write16(in.imm16(), in.pair(registerPair[in.ddd>>1]))
	return in.size(3)
}

func opLDrrInd(in *instr) uint16 {
	in.setPair(registerPair[in.ddd>>1], in.read16(in.imm16()))
	return in.size(3)
}

func opNEG(in *instr) uint16 {
	a, nf := sub8(0, in.get(A), 0)
	in.set(A, a)
	in.setFlags(flagsAll, nf)
	return in.size(1)
}

func opLDIA(in *instr) uint16 {
	in.set(I, in.get(A))
	return in.size(1)
}

func opLDRA(in *instr) uint16 {
	in.set(R, in.get(A))
	return in.size(1)
}

// LD A,I and LD A,R copy IFF2 into P/V; with no interrupts it is 0.
func opLDAI(in *instr) uint16 {
	v := in.get(I)
	in.set(A, v)
	in.setFlags(flagsKeepC, Sz53Table[v])
	return in.size(1)
}

func opLDAR(in *instr) uint16 {
	v := in.get(R)
	in.set(A, v)
	in.setFlags(flagsKeepC, Sz53Table[v])
	return in.size(1)
}

// opRRD rotates the low nibble of A and the byte at (HL) right.
func opRRD(in *instr) uint16 {
	hl := in.pair(HL)
	m, a := in.read(hl), in.get(A)
	in.write(hl, a<<4|m>>4)
	a = a&0xF0 | m&0x0F
	in.set(A, a)
	in.setFlags(flagsKeepC, Sz53pTable[a])
	return in.size(1)
}

func opRLD(in *instr) uint16 {
	hl := in.pair(HL)
	m, a := in.read(hl), in.get(A)
	in.write(hl, m<<4|a&0x0F)
	a = a&0xF0 | m>>4
	in.set(A, a)
	in.setFlags(flagsKeepC, Sz53pTable[a])
	return in.size(1)
}

// Block transfer and search. delta is +1 or -1 applied to the pointers;
// each step performs a single iteration and a repeating form branches
// back to its own first byte while the repeat condition holds.

const (
	up   uint16 = 1
	down uint16 = 0xFFFF
)

// transfer moves (HL) to (DE) and reports whether BC is still non-zero.
func (in *instr) transfer(delta uint16) bool {
	hl, de := in.pair(HL), in.pair(DE)
	v := in.read(hl)
	in.write(de, v)
	in.setPair(HL, hl+delta)
	in.setPair(DE, de+delta)
	bc := in.pair(BC) - 1
	in.setPair(BC, bc)

	// F3 is bit 3 and F5 is bit 1 of the byte plus A.
	n := v + in.get(A)
	in.setFlags(flagsLDI, bsel(bc != 0, FlagP, 0)|n&Flag3|(n<<4)&Flag5)
	return bc != 0
}

// compare compares A with (HL) and reports whether a repeat continues.
func (in *instr) compare(delta uint16) bool {
	hl := in.pair(HL)
	v, a := in.read(hl), in.get(A)
	r := a - v
	half := a&0x0F < v&0x0F
	in.setPair(HL, hl+delta)
	bc := in.pair(BC) - 1
	in.setPair(BC, bc)

	// F3/F5 as for transfer, from A-(HL)-H.
	n := r
	if half {
		n--
	}
	in.setFlags(flagsKeepC, FlagN|
		Sz53Table[r]&(FlagS|FlagZ)|
		bsel(half, FlagH, 0)|
		bsel(bc != 0, FlagP, 0)|
		n&Flag3|(n<<4)&Flag5)
	return bc != 0 && r != 0
}

func opLDI(in *instr) uint16 {
	in.transfer(up)
	return in.size(1)
}

func opLDD(in *instr) uint16 {
	in.transfer(down)
	return in.size(1)
}

func opLDIR(in *instr) uint16 {
	if in.transfer(up) {
		in.jump(in.pc)
	}
	return in.size(1)
}

func opLDDR(in *instr) uint16 {
	if in.transfer(down) {
		in.jump(in.pc)
	}
	return in.size(1)
}

func opCPI(in *instr) uint16 {
	in.compare(up)
	return in.size(1)
}

func opCPD(in *instr) uint16 {
	in.compare(down)
	return in.size(1)
}

func opCPIR(in *instr) uint16 {
	if in.compare(up) {
		in.jump(in.pc)
	}
	return in.size(1)
}

func opCPDR(in *instr) uint16 {
	if in.compare(down) {
		in.jump(in.pc)
	}
	return in.size(1)
}
