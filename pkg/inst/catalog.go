package inst

import "fmt"

// Catalog holds one table per prefix. Every entry of every table is set.
var Catalog [prefixCount][256]Info

// Prefixes returns every table prefix in encoding order.
func Prefixes() []Prefix {
	return []Prefix{None, CB, ED, DD, FD, DDCB, FDCB}
}

// Lookup returns the entry for opcode in the given table.
func Lookup(prefix Prefix, opcode uint8) Info {
	return Catalog[prefix][opcode]
}

// Table returns the whole table for prefix.
func Table(prefix Prefix) *[256]Info {
	return &Catalog[prefix]
}

// AllOps returns every opcode of every table that is an instruction
// rather than an escape to another table.
func AllOps() []Op {
	ops := make([]Op, 0, int(prefixCount)*256)
	for _, p := range Prefixes() {
		for code := 0; code < 256; code++ {
			if Catalog[p][code].Next == None {
				ops = append(ops, Op{Prefix: p, Code: uint8(code)})
			}
		}
	}
	return ops
}

// String formats an op as its encoding, with dd standing for a
// displacement byte.
func (op Op) String() string {
	switch op.Prefix {
	case None:
		return fmt.Sprintf("%02X", op.Code)
	case DDCB, FDCB:
		b := op.Prefix.Bytes()
		return fmt.Sprintf("%02X %02X dd %02X", b[0], b[1], op.Code)
	}
	return fmt.Sprintf("%02X %02X", op.Prefix.Bytes()[0], op.Code)
}

var aluClasses = [8]struct {
	class string
	flags Effect
}{
	{"ADD A,%s", addFlags},
	{"ADC A,%s", addFlags},
	{"SUB %s", subFlags},
	{"SBC A,%s", subFlags},
	{"AND %s", andFlags},
	{"XOR %s", orFlags},
	{"OR %s", orFlags},
	{"CP %s", subFlags},
}

var accClasses = [8]struct {
	class string
	flags Effect
}{
	{"RLCA", rotAFlags},
	{"RRCA", rotAFlags},
	{"RLA", rotAFlags},
	{"RRA", rotAFlags},
	{"DAA", daaFlags},
	{"CPL", cplFlags},
	{"SCF", scfFlags},
	{"CCF", ccfFlags},
}

var rotClasses = [8]string{"RLC", "RRC", "RL", "RR", "SLA", "SRA", "SLL", "SRL"}

func init() {
	initBase()
	initCB()
	initED()
	initIndex(DD, DDCB)
	initIndex(FD, FDCB)
}

func initBase() {
	t := &Catalog[None]
	for op := 0; op < 256; op++ {
		y, z := (op>>3)&7, op&7
		p, q := y>>1, y&1
		var info Info
		switch op >> 6 {
		case 0:
			info = base00(y, z, p, q)
		case 1:
			if op == 0x76 {
				info = Info{Class: "HALT", Length: 1, Branch: true}
			} else {
				info = Info{Class: "LD r,r'", Length: 1}
			}
		case 2:
			info = Info{Class: fmt.Sprintf(aluClasses[y].class, "r"), Length: 1, Flags: aluClasses[y].flags}
		case 3:
			info = base11(y, z, p, q)
		}
		t[op] = info
	}
}

// base00 describes the 00 yyy zzz band.
func base00(y, z, p, q int) Info {
	switch z {
	case 0:
		switch y {
		case 0:
			return Info{Class: "NOP", Length: 1}
		case 1:
			return Info{Class: "EX AF,AF'", Length: 1, Flags: loadF}
		case 2:
			return Info{Class: "DJNZ e", Length: 2, Branch: true}
		case 3:
			return Info{Class: "JR e", Length: 2, Branch: true}
		}
		return Info{Class: "JR cc,e", Length: 2, Branch: true}
	case 1:
		if q == 0 {
			return Info{Class: "LD rr,nn", Length: 3}
		}
		return Info{Class: "ADD HL,rr", Length: 1, Flags: add16Flags}
	case 2:
		switch y {
		case 0, 2:
			return Info{Class: "LD (rr),A", Length: 1}
		case 1, 3:
			return Info{Class: "LD A,(rr)", Length: 1}
		case 4:
			return Info{Class: "LD (nn),HL", Length: 3}
		case 5:
			return Info{Class: "LD HL,(nn)", Length: 3}
		case 6:
			return Info{Class: "LD (nn),A", Length: 3}
		}
		return Info{Class: "LD A,(nn)", Length: 3}
	case 3:
		if q == 0 {
			return Info{Class: "INC rr", Length: 1}
		}
		return Info{Class: "DEC rr", Length: 1}
	case 4:
		return Info{Class: "INC r", Length: 1, Flags: incFlags}
	case 5:
		return Info{Class: "DEC r", Length: 1, Flags: decFlags}
	case 6:
		return Info{Class: "LD r,n", Length: 2}
	}
	return Info{Class: accClasses[y].class, Length: 1, Flags: accClasses[y].flags}
}

// base11 describes the 11 yyy zzz band.
func base11(y, z, p, q int) Info {
	switch z {
	case 0:
		return Info{Class: "RET cc", Length: 1, Branch: true}
	case 1:
		if q == 0 {
			if p == 3 {
				return Info{Class: "POP AF", Length: 1, Flags: loadF}
			}
			return Info{Class: "POP rr", Length: 1}
		}
		switch p {
		case 0:
			return Info{Class: "RET", Length: 1, Branch: true}
		case 1:
			return Info{Class: "EXX", Length: 1}
		case 2:
			return Info{Class: "JP (HL)", Length: 1, Branch: true}
		}
		return Info{Class: "LD SP,HL", Length: 1}
	case 2:
		return Info{Class: "JP cc,nn", Length: 3, Branch: true}
	case 3:
		switch y {
		case 0:
			return Info{Class: "JP nn", Length: 3, Branch: true}
		case 1:
			return Info{Class: "prefix", Next: CB}
		case 2:
			return Info{Class: "OUT (n),A", Length: 2, Unsupported: true}
		case 3:
			return Info{Class: "IN A,(n)", Length: 2, Unsupported: true}
		case 4:
			return Info{Class: "EX (SP),HL", Length: 1}
		case 5:
			return Info{Class: "EX DE,HL", Length: 1}
		case 6:
			return Info{Class: "DI", Length: 1, Unsupported: true}
		}
		return Info{Class: "EI", Length: 1, Unsupported: true}
	case 4:
		return Info{Class: "CALL cc,nn", Length: 3, Branch: true}
	case 5:
		if q == 0 {
			return Info{Class: "PUSH rr", Length: 1}
		}
		switch p {
		case 0:
			return Info{Class: "CALL nn", Length: 3, Branch: true}
		case 1:
			return Info{Class: "prefix", Next: DD}
		case 2:
			return Info{Class: "prefix", Next: ED}
		}
		return Info{Class: "prefix", Next: FD}
	case 6:
		return Info{Class: fmt.Sprintf(aluClasses[y].class, "n"), Length: 2, Flags: aluClasses[y].flags}
	}
	return Info{Class: "RST p", Length: 1, Branch: true}
}

func initCB() {
	t := &Catalog[CB]
	for op := 0; op < 256; op++ {
		y := (op >> 3) & 7
		switch op >> 6 {
		case 0:
			t[op] = Info{Class: rotClasses[y] + " r", Length: 2, Flags: rotFlags}
		case 1:
			t[op] = Info{Class: "BIT b,r", Length: 2, Flags: bitFlags}
		case 2:
			t[op] = Info{Class: "RES b,r", Length: 2}
		case 3:
			t[op] = Info{Class: "SET b,r", Length: 2}
		}
	}
}

var edMisc = [8]Info{
	{Class: "LD I,A", Length: 2},
	{Class: "LD R,A", Length: 2},
	{Class: "LD A,I", Length: 2, Flags: ldaiFlags},
	{Class: "LD A,R", Length: 2, Flags: ldaiFlags},
	{Class: "RRD", Length: 2, Flags: rldFlags},
	{Class: "RLD", Length: 2, Flags: rldFlags},
	{Class: "NOP (ED)", Length: 2, Unsupported: true},
	{Class: "NOP (ED)", Length: 2, Unsupported: true},
}

var edBlock = map[int]Info{
	0xA0: {Class: "LDI", Length: 2, Flags: ldiFlags},
	0xA8: {Class: "LDD", Length: 2, Flags: ldiFlags},
	0xB0: {Class: "LDIR", Length: 2, Flags: ldiFlags, Branch: true},
	0xB8: {Class: "LDDR", Length: 2, Flags: ldiFlags, Branch: true},
	0xA1: {Class: "CPI", Length: 2, Flags: cpiFlags},
	0xA9: {Class: "CPD", Length: 2, Flags: cpiFlags},
	0xB1: {Class: "CPIR", Length: 2, Flags: cpiFlags, Branch: true},
	0xB9: {Class: "CPDR", Length: 2, Flags: cpiFlags, Branch: true},
}

func initED() {
	t := &Catalog[ED]
	for op := 0; op < 256; op++ {
		t[op] = Info{Class: "NOP (ED)", Length: 2, Unsupported: true}
	}
	for op := 0x40; op < 0x80; op++ {
		y, z := (op>>3)&7, op&7
		q := y & 1
		switch z {
		case 0:
			t[op] = Info{Class: "IN r,(C)", Length: 2, Unsupported: true}
		case 1:
			t[op] = Info{Class: "OUT (C),r", Length: 2, Unsupported: true}
		case 2:
			if q == 0 {
				t[op] = Info{Class: "SBC HL,rr", Length: 2, Flags: sbc16Flags}
			} else {
				t[op] = Info{Class: "ADC HL,rr", Length: 2, Flags: adc16Flags}
			}
		case 3:
			if q == 0 {
				t[op] = Info{Class: "LD (nn),rr", Length: 4}
			} else {
				t[op] = Info{Class: "LD rr,(nn)", Length: 4}
			}
		case 4:
			t[op] = Info{Class: "NEG", Length: 2, Flags: subFlags}
		case 5:
			t[op] = Info{Class: "RETN", Length: 2, Branch: true}
		case 6:
			t[op] = Info{Class: "IM n", Length: 2, Unsupported: true}
		case 7:
			t[op] = edMisc[y]
		}
	}
	for op := 0xA0; op < 0xC0; op++ {
		if op&7 == 2 || op&7 == 3 {
			t[op] = Info{Class: "block I/O", Length: 2, Unsupported: true}
		}
	}
	for op, info := range edBlock {
		t[op] = info
	}
}

// usesHL reports whether a base opcode addresses memory through (HL).
// Under DD/FD these take a displacement byte.
func usesHL(op int) bool {
	y, z := (op>>3)&7, op&7
	switch op >> 6 {
	case 0:
		return op == 0x34 || op == 0x35 || op == 0x36
	case 1:
		return op != 0x76 && (y == 6 || z == 6)
	case 2:
		return z == 6
	}
	return false
}

// initIndex derives an index table from the base table. Each entry
// gains the prefix byte and, for (HL) forms, the displacement.
func initIndex(prefix, bits Prefix) {
	t := &Catalog[prefix]
	for op := 0; op < 256; op++ {
		info := Catalog[None][op]
		switch {
		case op == 0xCB:
			info = Info{Class: "prefix", Next: bits}
		case info.Next != None:
			// A prefix followed by another prefix is dropped.
			info = Info{Class: "NOP (prefix)", Length: 1}
		case usesHL(op):
			info.Length += 2
		default:
			info.Length++
		}
		t[op] = info
	}

	t = &Catalog[bits]
	for op := 0; op < 256; op++ {
		y := (op >> 3) & 7
		switch op >> 6 {
		case 0:
			t[op] = Info{Class: rotClasses[y] + " (I+d)", Length: 4, Flags: rotFlags}
		case 1:
			t[op] = Info{Class: "BIT b,(I+d)", Length: 4, Flags: bitFlags}
		case 2:
			t[op] = Info{Class: "RES b,(I+d)", Length: 4}
		case 3:
			t[op] = Info{Class: "SET b,(I+d)", Length: 4}
		}
	}
}
