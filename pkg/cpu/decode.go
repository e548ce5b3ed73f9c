package cpu

// Operand is the location an 8-bit selector resolves to: either a
// register cell or a byte of memory.
type Operand interface {
	operand()
}

// RegOperand selects a register cell.
type RegOperand struct {
	Reg Register
}

// MemOperand selects memory at Base+Disp.
type MemOperand struct {
	Base Pair
	Disp int8
}

func (RegOperand) operand() {}
func (MemOperand) operand() {}

// registerPattern maps a DDD or SSS field to its operand.
// 110 is memory through HL, not a register.
var registerPattern = [8]Operand{
	RegOperand{B},        // 000
	RegOperand{C},        // 001
	RegOperand{D},        // 010
	RegOperand{E},        // 011
	RegOperand{H},        // 100
	RegOperand{L},        // 101
	MemOperand{Base: HL}, // 110 (HL)
	RegOperand{A},        // 111
}

// registerPair maps a 2-bit RP field.
var registerPair = [4]Pair{
	BC, // 00
	DE, // 01
	HL, // 10
	SP, // 11
}

// stackPair maps the 2-bit field of PUSH and POP.
var stackPair = [4]Pair{BC, DE, HL, AF}

// instr is one instruction cycle: the fetched bytes, the decoded fields
// and the state captured at fetch time.
type instr struct {
	c *Core

	alt    bool   // bank selector, read once per instruction
	pc     uint16 // address of the first byte, prefixes included
	prefix uint16 // prefix bytes in front of opcode

	opcode   uint8
	data     [3]uint8 // d1, d2, d3
	ddd, sss uint8

	index Pair // HL, or IX/IY under a DD/FD prefix
	disp  bool // an (IX+d) displacement byte was consumed

	branched bool
	target   uint16
}

func (in *instr) fetch(c *Core) {
	in.c = c
	in.alt = c.Regs.Alternate()
	in.pc = c.PC()
	in.index = HL
	in.decode(0)
	in.refresh()
}

// decode reads the opcode found prefix bytes after pc and the three
// bytes that follow it, and splits the opcode into its selector fields.
func (in *instr) decode(prefix uint16) {
	in.prefix = prefix
	at := in.pc + prefix
	in.opcode = in.read(at)
	in.data = [3]uint8{in.read(at + 1), in.read(at + 2), in.read(at + 3)}
	in.ddd = (in.opcode >> 3) & 0x7
	in.sss = in.opcode & 0x7
}

// refresh advances the low seven bits of R for an opcode fetch.
func (in *instr) refresh() {
	r := in.c.Regs.cells[R]
	in.c.Regs.cells[R] = (r & 0x80) | ((r + 1) & 0x7F)
}

// size is the instruction length given n bytes from the opcode onward.
func (in *instr) size(n uint16) uint16 {
	n += in.prefix
	if in.disp {
		n++
	}
	return n
}

func (in *instr) jump(target uint16) {
	in.branched = true
	in.target = target
}

func (in *instr) imm8() uint8 {
	if in.disp {
		return in.data[1]
	}
	return in.data[0]
}

func (in *instr) imm16() uint16 {
	return uint16(in.data[1])<<8 | uint16(in.data[0])
}

func (in *instr) get(reg Register) uint8 {
	return in.c.Regs.cells[resolve(reg, in.alt)]
}

func (in *instr) set(reg Register, v uint8) {
	in.c.Regs.cells[resolve(reg, in.alt)] = v
}

func (in *instr) pair(p Pair) uint16 {
	hi, lo := p.Halves()
	return uint16(in.get(hi))<<8 | uint16(in.get(lo))
}

func (in *instr) setPair(p Pair, v uint16) {
	hi, lo := p.Halves()
	in.set(hi, uint8(v>>8))
	in.set(lo, uint8(v))
}

// setFlags writes only the bits of F named by mask.
func (in *instr) setFlags(mask, v uint8) {
	in.set(F, in.get(F)&^mask|v&mask)
}

func (in *instr) read(addr uint16) uint8 {
	return in.c.Mem.Read(addr)
}

func (in *instr) write(addr uint16, v uint8) {
	in.c.Mem.Write(addr, v)
}

func (in *instr) read16(addr uint16) uint16 {
	return uint16(in.read(addr+1))<<8 | uint16(in.read(addr))
}

func (in *instr) write16(addr uint16, v uint16) {
	in.write(addr, uint8(v))
	in.write(addr+1, uint8(v>>8))
}

func (in *instr) push(v uint16) {
	sp := in.pair(SP) - 2
	in.write16(sp, v)
	in.setPair(SP, sp)
}

func (in *instr) pop() uint16 {
	sp := in.pair(SP)
	v := in.read16(sp)
	in.setPair(SP, sp+2)
	return v
}

// operand resolves a selector field. Under a DD/FD prefix H and L name
// the index register halves and (HL) becomes (IX+d) or (IY+d).
func (in *instr) operand(sel uint8) Operand {
	op := registerPattern[sel]
	if in.index == HL {
		return op
	}
	switch o := op.(type) {
	case MemOperand:
		in.disp = true
		return MemOperand{Base: in.index, Disp: int8(in.data[0])}
	case RegOperand:
		hi, lo := in.index.Halves()
		switch o.Reg {
		case H:
			return RegOperand{hi}
		case L:
			return RegOperand{lo}
		}
	}
	return op
}

// plainOperand resolves a selector whose partner is (IX+d): only the
// memory form is indexed, H and L keep their meaning.
func (in *instr) plainOperand(sel uint8) Operand {
	if sel == 6 {
		return in.operand(sel)
	}
	return registerPattern[sel]
}

func (in *instr) address(m MemOperand) uint16 {
	return in.pair(m.Base) + uint16(int16(m.Disp))
}

func (in *instr) load(op Operand) uint8 {
	switch o := op.(type) {
	case RegOperand:
		return in.get(o.Reg)
	case MemOperand:
		return in.read(in.address(o))
	}
	panic("cpu: unknown operand")
}

func (in *instr) store(op Operand, v uint8) {
	switch o := op.(type) {
	case RegOperand:
		in.set(o.Reg, v)
	case MemOperand:
		in.write(in.address(o), v)
	default:
		panic("cpu: unknown operand")
	}
}

// rp resolves a register-pair field, substituting the index register for HL.
func (in *instr) rp(sel uint8) Pair {
	p := registerPair[sel&0x3]
	if p == HL {
		return in.index
	}
	return p
}

// stackRP resolves the PUSH/POP pair field.
func (in *instr) stackRP(sel uint8) Pair {
	p := stackPair[sel&0x3]
	if p == HL {
		return in.index
	}
	return p
}

// cond evaluates the 3-bit condition field: NZ Z NC C PO PE P M.
func (in *instr) cond(cc uint8) bool {
	flags := in.get(F)
	var set bool
	switch cc >> 1 {
	case 0:
		set = flags&FlagZ != 0
	case 1:
		set = flags&FlagC != 0
	case 2:
		set = flags&FlagP != 0
	default:
		set = flags&FlagS != 0
	}
	return set == (cc&1 == 1)
}
