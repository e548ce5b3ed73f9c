package inst

import (
	"testing"
)

// TestCatalogCompleteness verifies every table entry is populated.
func TestCatalogCompleteness(t *testing.T) {
	for _, p := range Prefixes() {
		for op := 0; op < 256; op++ {
			info := Lookup(p, uint8(op))
			if info.Class == "" {
				t.Errorf("%v %02X has no class", p, op)
			}
			if info.Next == None && info.Length == 0 {
				t.Errorf("%v %02X (%s) has no length", p, op, info.Class)
			}
			if info.Next != None && info.Length != 0 {
				t.Errorf("%v %02X is a prefix with length %d", p, op, info.Length)
			}
		}
	}
}

// TestEffectMasksDisjoint verifies a flag bit has at most one policy.
func TestEffectMasksDisjoint(t *testing.T) {
	for _, op := range AllOps() {
		e := Lookup(op.Prefix, op.Code).Flags
		if e.Computed&e.Set != 0 || e.Computed&e.Reset != 0 || e.Set&e.Reset != 0 {
			t.Errorf("%v: overlapping masks %+v", op, e)
		}
	}
}

// TestLengths spot-checks encoded lengths across the tables.
func TestLengths(t *testing.T) {
	tests := []struct {
		prefix Prefix
		op     uint8
		want   int
	}{
		{None, 0x00, 1}, // NOP
		{None, 0x3E, 2}, // LD A,n
		{None, 0x21, 3}, // LD HL,nn
		{None, 0xCD, 3}, // CALL nn
		{CB, 0x00, 2},   // RLC B
		{ED, 0x44, 2},   // NEG
		{ED, 0x43, 4},   // LD (nn),BC
		{ED, 0x00, 2},   // undefined
		{DD, 0x21, 4},   // LD IX,nn
		{DD, 0x7E, 3},   // LD A,(IX+d)
		{DD, 0x36, 4},   // LD (IX+d),n
		{DD, 0x7C, 2},   // LD A,IXH
		{DD, 0x00, 2},   // NOP with a dropped prefix
		{DD, 0xDD, 1},   // prefix dropped
		{FD, 0x86, 3},   // ADD A,(IY+d)
		{FD, 0xE9, 2},   // JP (IY)
		{DDCB, 0x06, 4}, // RLC (IX+d)
		{FDCB, 0xFF, 4}, // SET 7,(IY+d),A
	}
	for _, tc := range tests {
		if got := Lookup(tc.prefix, tc.op).Length; got != tc.want {
			t.Errorf("%v: length %d, want %d", Op{tc.prefix, tc.op}, got, tc.want)
		}
	}
}

func TestEscapes(t *testing.T) {
	want := map[uint8]Prefix{0xCB: CB, 0xDD: DD, 0xED: ED, 0xFD: FD}
	for op := 0; op < 256; op++ {
		if got := Lookup(None, uint8(op)).Next; got != want[uint8(op)] {
			t.Errorf("%02X: escapes to %v, want %v", op, got, want[uint8(op)])
		}
	}
	if Lookup(DD, 0xCB).Next != DDCB || Lookup(FD, 0xCB).Next != FDCB {
		t.Error("DD CB and FD CB should escape to the indexed bit tables")
	}
}

func TestFlagPolicies(t *testing.T) {
	tests := []struct {
		name string
		info Info
		want Effect
	}{
		{"LD B,C", Lookup(None, 0x41), Effect{}},
		{"AND B", Lookup(None, 0xA0), Effect{Computed: 0xC4 | 0x28, Set: 0x10, Reset: 0x03}},
		{"INC A", Lookup(None, 0x3C), Effect{Computed: 0xFC &^ 0x02, Reset: 0x02}},
		{"SCF", Lookup(None, 0x37), Effect{Computed: 0x28, Set: 0x01, Reset: 0x12}},
		{"BIT 0,B", Lookup(CB, 0x40), Effect{Computed: 0xC4 | 0x28, Set: 0x10, Reset: 0x02}},
		{"SET 0,B", Lookup(CB, 0xC0), Effect{}},
	}
	for _, tc := range tests {
		if tc.info.Flags != tc.want {
			t.Errorf("%s: flags %+v, want %+v", tc.name, tc.info.Flags, tc.want)
		}
	}
	if u := Lookup(None, 0x3C).Flags.Untouched(); u != 0x01 {
		t.Errorf("INC A untouched = %02X, want 01", u)
	}
}

func TestUnsupported(t *testing.T) {
	for _, op := range []Op{{None, 0xD3}, {None, 0xDB}, {None, 0xF3}, {None, 0xFB}, {ED, 0x78}, {ED, 0x56}, {ED, 0xB2}} {
		info := Lookup(op.Prefix, op.Code)
		if !info.Unsupported {
			t.Errorf("%v (%s) should be unsupported", op, info.Class)
		}
		if info.Flags != (Effect{}) {
			t.Errorf("%v (%s) should not touch flags", op, info.Class)
		}
	}
}

func TestAllOpsCount(t *testing.T) {
	// Seven tables minus CB, DD, ED, FD in the base table and CB in each index table.
	want := 7*256 - 4 - 2
	if got := len(AllOps()); got != want {
		t.Errorf("AllOps() returned %d, want %d", got, want)
	}
}

func TestOpString(t *testing.T) {
	tests := []struct {
		op   Op
		want string
	}{
		{Op{None, 0x3E}, "3E"},
		{Op{ED, 0xB0}, "ED B0"},
		{Op{FDCB, 0x46}, "FD CB dd 46"},
	}
	for _, tc := range tests {
		if got := tc.op.String(); got != tc.want {
			t.Errorf("got %q want %q", got, tc.want)
		}
	}
}

func TestParsePrefix(t *testing.T) {
	for _, p := range Prefixes() {
		got, ok := ParsePrefix(p.String())
		if !ok || got != p {
			t.Errorf("ParsePrefix(%q) = %v, %v", p.String(), got, ok)
		}
	}
	if p, ok := ParsePrefix("ddcb"); !ok || p != DDCB {
		t.Errorf("ParsePrefix(ddcb) = %v, %v", p, ok)
	}
	if _, ok := ParsePrefix("XX"); ok {
		t.Errorf("ParsePrefix(XX) accepted")
	}
}
