package cpu

// CB xx: rotates and shifts (00), BIT (01), RES (10), SET (11).
func initCB() {
	for op := 0; op < 256; op++ {
		switch op >> 6 {
		case 0:
			cbOps[op] = opRot
		case 1:
			cbOps[op] = opBIT
		case 2:
			cbOps[op] = opRES
		case 3:
			cbOps[op] = opSET
		}
	}
}

func opRot(in *instr) uint16 {
	dst := in.operand(in.sss)
	v, nf := rot(rotOp(in.ddd), in.load(dst), in.get(F))
	in.store(dst, v)
	in.setFlags(flagsAll, nf)
	return in.size(1)
}

// opBIT takes F5/F3 from the tested byte, for (HL) as well as registers.
func opBIT(in *instr) uint16 {
	v := in.load(in.operand(in.sss))
	in.setFlags(flagsKeepC, bit(in.ddd, v, in.get(F), v))
	return in.size(1)
}

func opRES(in *instr) uint16 {
	dst := in.operand(in.sss)
	in.store(dst, in.load(dst)&^(1<<in.ddd))
	return in.size(1)
}

func opSET(in *instr) uint16 {
	dst := in.operand(in.sss)
	in.store(dst, in.load(dst)|1<<in.ddd)
	return in.size(1)
}

// opIndexCB is DD CB d op and FD CB d op. The displacement comes before
// the operation byte. Every form works on (IX+d); when the register
// field is not 110 the result is also written to that register.
func opIndexCB(in *instr) uint16 {
	in.disp = true
	addr := in.address(MemOperand{Base: in.index, Disp: int8(in.data[0])})
	op := in.data[1]
	y, z := (op>>3)&0x7, op&0x7
	v := in.read(addr)

	var r uint8
	switch op >> 6 {
	case 0:
		var nf uint8
		r, nf = rot(rotOp(y), v, in.get(F))
		in.setFlags(flagsAll, nf)
	case 1:
		// F5/F3 come from the high byte of the effective address.
		in.setFlags(flagsKeepC, bit(y, v, in.get(F), uint8(addr>>8)))
		return in.size(2)
	case 2:
		r = v &^ (1 << y)
	case 3:
		r = v | 1<<y
	}
	in.write(addr, r)
	if z != 6 {
		in.store(registerPattern[z], r)
	}
	return in.size(2)
}

// DD and FD reuse the unprefixed table: the executors substitute the
// index pair wherever they would use HL, H, L or (HL).
func initIndex() {
	indexOps = baseOps
	indexOps[0xCB] = opIndexCB
}
