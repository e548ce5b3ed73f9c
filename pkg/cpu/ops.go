package cpu

// executor performs one decoded instruction and returns its length in
// bytes, prefixes and displacement included. A taken branch records its
// target with jump instead.
type executor func(*instr) uint16

// Decode tables, one per prefix. DD and FD share indexOps; the prefix
// only selects which index pair stands in for HL. Every entry is set.
var (
	baseOps  [256]executor
	cbOps    [256]executor
	edOps    [256]executor
	indexOps [256]executor
)

// Bits of F written by each instruction group. Bits outside the mask
// are left as they are.
const (
	flagsAll   uint8 = 0xFF
	flagsKeepC       = ^FlagC                         // INC, DEC, BIT, CPI, RLD, LD A,I
	flagsRotA        = FlagC | FlagN | FlagH | Flag35 // RLCA..RRA, ADD rr, SCF, CCF
	flagsCPL         = FlagN | FlagH | Flag35
	flagsLDI         = FlagN | FlagH | FlagP | Flag35 // LDI, LDD and repeats
)

// class00 holds the 00 xxx xxx band.
var class00 = [64]executor{
	opNOP, opLDrrnn, opLDindA, opINCrr, opINCr, opDECr, opLDrn, opRLCA,
	opEXAF, opADDrr, opLDAind, opDECrr, opINCr, opDECr, opLDrn, opRRCA,
	opDJNZ, opLDrrnn, opLDindA, opINCrr, opINCr, opDECr, opLDrn, opRLA,
	opJR, opADDrr, opLDAind, opDECrr, opINCr, opDECr, opLDrn, opRRA,
	opJRcc, opLDrrnn, opLDnnHL, opINCrr, opINCr, opDECr, opLDrn, opDAA,
	opJRcc, opADDrr, opLDHLnn, opDECrr, opINCr, opDECr, opLDrn, opCPL,
	opJRcc, opLDrrnn, opLDnnA, opINCrr, opINCr, opDECr, opLDrn, opSCF,
	opJRcc, opADDrr, opLDAnn, opDECrr, opINCr, opDECr, opLDrn, opCCF,
}

// class11 holds the 11 xxx xxx band.
var class11 = [64]executor{
	opRETcc, opPOP, opJPcc, opJP, opCALLcc, opPUSH, opALUn, opRST,
	opRETcc, opRET, opJPcc, opPrefixCB, opCALLcc, opCALL, opALUn, opRST,
	opRETcc, opPOP, opJPcc, opIOn, opCALLcc, opPUSH, opALUn, opRST,
	opRETcc, opEXX, opJPcc, opIOn, opCALLcc, opPrefixIX, opALUn, opRST,
	opRETcc, opPOP, opJPcc, opEXSP, opCALLcc, opPUSH, opALUn, opRST,
	opRETcc, opJPHL, opJPcc, opEXDEHL, opCALLcc, opPrefixED, opALUn, opRST,
	opRETcc, opPOP, opJPcc, opNOP, opCALLcc, opPUSH, opALUn, opRST,
	opRETcc, opLDSPHL, opJPcc, opNOP, opCALLcc, opPrefixIY, opALUn, opRST,
}

func init() {
	for op := 0; op < 256; op++ {
		switch op >> 6 {
		case 0:
			baseOps[op] = class00[op&0x3F]
		case 1:
			// 01 110 110 would read as LD (HL),(HL).
			if op == 0x76 {
				baseOps[op] = opHALT
			} else {
				baseOps[op] = opLD
			}
		case 2:
			baseOps[op] = opALU
		case 3:
			baseOps[op] = class11[op&0x3F]
		}
	}
	initCB()
	initED()
	initIndex()
}

// PrefixCB, PrefixED and the index prefixes re-decode the following
// byte against their own table.

func opPrefixCB(in *instr) uint16 {
	in.decode(in.prefix + 1)
	in.refresh()
	return cbOps[in.opcode](in)
}

func opPrefixED(in *instr) uint16 {
	in.decode(in.prefix + 1)
	in.refresh()
	return edOps[in.opcode](in)
}

func opPrefixIX(in *instr) uint16 { return in.indexed(IX) }
func opPrefixIY(in *instr) uint16 { return in.indexed(IY) }

func (in *instr) indexed(index Pair) uint16 {
	in.decode(in.prefix + 1)
	switch in.opcode {
	case 0xDD, 0xFD, 0xED:
		// The first prefix is dropped; the next step starts over at
		// the second one.
		return in.prefix
	}
	in.index = index
	in.refresh()
	return indexOps[in.opcode](in)
}

func opNOP(in *instr) uint16 {
	return in.size(1)
}

// opIOn is OUT (n),A and IN A,(n). Ports are not modelled.
func opIOn(in *instr) uint16 {
	return in.size(2)
}

func opHALT(in *instr) uint16 {
	in.c.Regs.SetHalted(true)
	return 0
}

// 8-bit loads

func opLD(in *instr) uint16 {
	var dst, src Operand
	if in.ddd == 6 || in.sss == 6 {
		dst, src = in.plainOperand(in.ddd), in.plainOperand(in.sss)
	} else {
		dst, src = in.operand(in.ddd), in.operand(in.sss)
	}
	in.store(dst, in.load(src))
	return in.size(1)
}

func opLDrn(in *instr) uint16 {
	dst := in.operand(in.ddd)
	in.store(dst, in.imm8())
	return in.size(2)
}

// opLDindA is LD (BC),A and LD (DE),A.
func opLDindA(in *instr) uint16 {
	in.write(in.pair(registerPair[in.ddd>>1]), in.get(A))
	return in.size(1)
}

// opLDAind is LD A,(BC) and LD A,(DE).
func opLDAind(in *instr) uint16 {
	in.set(A, in.read(in.pair(registerPair[in.ddd>>1])))
	return in.size(1)
}

func opLDnnA(in *instr) uint16 {
	in.write(in.imm16(), in.get(A))
	return in.size(3)
}

func opLDAnn(in *instr) uint16 {
	in.set(A, in.read(in.imm16()))
	return in.size(3)
}

// 16-bit loads and exchanges

func opLDrrnn(in *instr) uint16 {
	in.setPair(in.rp(in.ddd>>1), in.imm16())
	return in.size(3)
}

func opLDnnHL(in *instr) uint16 {
	in.write16(in.imm16(), in.pair(in.index))
	return in.size(3)
}

func opLDHLnn(in *instr) uint16 {
	in.setPair(in.index, in.read16(in.imm16()))
	return in.size(3)
}

func opLDSPHL(in *instr) uint16 {
	in.setPair(SP, in.pair(in.index))
	return in.size(1)
}

func opPUSH(in *instr) uint16 {
	in.push(in.pair(in.stackRP(in.ddd >> 1)))
	return in.size(1)
}

func opPOP(in *instr) uint16 {
	in.setPair(in.stackRP(in.ddd>>1), in.pop())
	return in.size(1)
}

func opEXSP(in *instr) uint16 {
	sp := in.pair(SP)
	v := in.read16(sp)
	in.write16(sp, in.pair(in.index))
	in.setPair(in.index, v)
	return in.size(1)
}

// opEXDEHL always exchanges DE and HL, even under an index prefix.
func opEXDEHL(in *instr) uint16 {
	de, hl := in.pair(DE), in.pair(HL)
	in.setPair(DE, hl)
	in.setPair(HL, de)
	return in.size(1)
}

// swapBanks exchanges the contents of the active cells with their
// counterparts in the other bank. The selector itself is unchanged.
func (in *instr) swapBanks(regs ...Register) {
	cells := &in.c.Regs.cells
	for _, r := range regs {
		a, b := resolve(r, in.alt), resolve(r, !in.alt)
		cells[a], cells[b] = cells[b], cells[a]
	}
}

func opEXAF(in *instr) uint16 {
	in.swapBanks(A, F)
	return in.size(1)
}

func opEXX(in *instr) uint16 {
	in.swapBanks(B, C, D, E, H, L)
	return in.size(1)
}

// 8-bit arithmetic

func opALU(in *instr) uint16 {
	v := in.load(in.operand(in.sss))
	in.accumulate(aluOp(in.ddd), v)
	return in.size(1)
}

func opALUn(in *instr) uint16 {
	in.accumulate(aluOp(in.ddd), in.imm8())
	return in.size(2)
}

func (in *instr) accumulate(op aluOp, v uint8) {
	a, nf := alu(op, in.get(A), v, in.get(F))
	if op != aluCP {
		in.set(A, a)
	}
	in.setFlags(flagsAll, nf)
}

func opINCr(in *instr) uint16 {
	dst := in.operand(in.ddd)
	v, nf := inc8(in.load(dst), in.get(F))
	in.store(dst, v)
	in.setFlags(flagsKeepC, nf)
	return in.size(1)
}

func opDECr(in *instr) uint16 {
	dst := in.operand(in.ddd)
	v, nf := dec8(in.load(dst), in.get(F))
	in.store(dst, v)
	in.setFlags(flagsKeepC, nf)
	return in.size(1)
}

func opDAA(in *instr) uint16 {
	a, nf := daa(in.get(A), in.get(F))
	in.set(A, a)
	in.setFlags(flagsAll, nf)
	return in.size(1)
}

func opCPL(in *instr) uint16 {
	a, nf := cpl(in.get(A), in.get(F))
	in.set(A, a)
	in.setFlags(flagsCPL, nf)
	return in.size(1)
}

func opSCF(in *instr) uint16 {
	in.setFlags(flagsRotA, scf(in.get(A), in.get(F)))
	return in.size(1)
}

func opCCF(in *instr) uint16 {
	in.setFlags(flagsRotA, ccf(in.get(A), in.get(F)))
	return in.size(1)
}

func (in *instr) rotateA(fn func(a, flags uint8) (uint8, uint8)) uint16 {
	a, nf := fn(in.get(A), in.get(F))
	in.set(A, a)
	in.setFlags(flagsRotA, nf)
	return in.size(1)
}

func opRLCA(in *instr) uint16 { return in.rotateA(rlca) }
func opRRCA(in *instr) uint16 { return in.rotateA(rrca) }
func opRLA(in *instr) uint16  { return in.rotateA(rla) }
func opRRA(in *instr) uint16  { return in.rotateA(rra) }

// 16-bit arithmetic

func opINCrr(in *instr) uint16 {
	p := in.rp(in.ddd >> 1)
	in.setPair(p, in.pair(p)+1)
	return in.size(1)
}

func opDECrr(in *instr) uint16 {
	p := in.rp(in.ddd >> 1)
	in.setPair(p, in.pair(p)-1)
	return in.size(1)
}

func opADDrr(in *instr) uint16 {
	v, nf := add16(in.pair(in.index), in.pair(in.rp(in.ddd>>1)), in.get(F))
	in.setPair(in.index, v)
	in.setFlags(flagsRotA, nf)
	return in.size(1)
}

// Jumps, calls and returns

func (in *instr) relative(e uint8) uint16 {
	return in.pc + in.size(2) + uint16(int16(int8(e)))
}

func opJR(in *instr) uint16 {
	in.jump(in.relative(in.data[0]))
	return in.size(2)
}

// opJRcc covers JR NZ, JR Z, JR NC and JR C.
func opJRcc(in *instr) uint16 {
	if in.cond(in.ddd - 4) {
		in.jump(in.relative(in.data[0]))
	}
	return in.size(2)
}

func opDJNZ(in *instr) uint16 {
	b := in.get(B) - 1
	in.set(B, b)
	if b != 0 {
		in.jump(in.relative(in.data[0]))
	}
	return in.size(2)
}

func opJP(in *instr) uint16 {
	in.jump(in.imm16())
	return in.size(3)
}

func opJPcc(in *instr) uint16 {
	if in.cond(in.ddd) {
		in.jump(in.imm16())
	}
	return in.size(3)
}

func opJPHL(in *instr) uint16 {
	in.jump(in.pair(in.index))
	return in.size(1)
}

func opCALL(in *instr) uint16 {
	in.push(in.pc + in.size(3))
	in.jump(in.imm16())
	return in.size(3)
}

func opCALLcc(in *instr) uint16 {
	if in.cond(in.ddd) {
		return opCALL(in)
	}
	return in.size(3)
}

func opRET(in *instr) uint16 {
	in.jump(in.pop())
	return in.size(1)
}

func opRETcc(in *instr) uint16 {
	if in.cond(in.ddd) {
		return opRET(in)
	}
	return in.size(1)
}

func opRST(in *instr) uint16 {
	in.push(in.pc + in.size(1))
	in.jump(uint16(in.ddd) << 3)
	return in.size(1)
}
