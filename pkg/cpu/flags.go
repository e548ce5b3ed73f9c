package cpu

import "math/bits"

// Bits of the F register, C in bit 0.
const (
	FlagC uint8 = 1 << iota
	FlagN
	FlagP
	Flag3
	FlagH
	Flag5
	FlagZ
	FlagS
)

const (
	// FlagV is the overflow reading of the parity bit.
	FlagV = FlagP

	// Flag35 is the pair of undocumented bits copied from a result byte.
	Flag35 = Flag3 | Flag5
)

// Per-byte tables. Sz53Table holds S, Z, F5 and F3 of the byte itself,
// ParityTable holds P for even parity and Sz53pTable is their union.
var Sz53Table, Sz53pTable, ParityTable = byteTables()

// Carry-chain tables are indexed by a 3-bit key taken from one bit
// position of the first operand (key bit 0), the second operand (bit 1)
// and the result (bit 2). Bit 3 (or 11) gives the half-carry key and
// bit 7 (or 15) the overflow key.
var (
	HalfcarryAddTable = carryTable(func(a, v, r uint8) bool {
		in := a ^ v ^ r
		return a&v|in&(a^v) != 0
	})
	HalfcarrySubTable = carryTable(func(a, v, r uint8) bool {
		in := a ^ v ^ r
		return ^a&v|^(a^v)&in != 0
	})
	OverflowAddTable = overflowTable(func(a, v, r uint8) bool { return a == v && r != a })
	OverflowSubTable = overflowTable(func(a, v, r uint8) bool { return a != v && r != a })
)

func byteTables() (sz53, sz53p, parity [256]uint8) {
	for i := range sz53 {
		b := uint8(i)
		sz53[i] = b & (FlagS | Flag35)
		if b == 0 {
			sz53[i] |= FlagZ
		}
		if bits.OnesCount8(b)%2 == 0 {
			parity[i] = FlagP
		}
		sz53p[i] = sz53[i] | parity[i]
	}
	return
}

func keyBits(k int) (a, v, r uint8) {
	return uint8(k) & 1, uint8(k>>1) & 1, uint8(k>>2) & 1
}

// carryTable marks FlagH for keys where bit 3 carries (or borrows) out.
func carryTable(out func(a, v, r uint8) bool) (t [8]uint8) {
	for k := range t {
		a, v, r := keyBits(k)
		t[k] = bsel(out(a, v, r), FlagH, 0)
	}
	return
}

func overflowTable(over func(a, v, r uint8) bool) (t [8]uint8) {
	for k := range t {
		t[k] = bsel(over(keyBits(k)), FlagV, 0)
	}
	return
}

// bsel returns a if cond is true, else b.
func bsel(cond bool, a, b uint8) uint8 {
	if cond {
		return a
	}
	return b
}
