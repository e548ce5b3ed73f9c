package cpu

import "testing"

// TestFlagTables verifies our precomputed tables match expected values.
func TestFlagTables(t *testing.T) {
	if Sz53Table[0]&FlagZ == 0 {
		t.Error("Sz53Table[0] should have Z flag")
	}
	if Sz53pTable[0]&FlagZ == 0 {
		t.Error("Sz53pTable[0] should have Z flag")
	}
	if Sz53Table[0x80]&FlagS == 0 {
		t.Error("Sz53Table[0x80] should have S flag")
	}
	if Sz53Table[0x28]&Flag35 != Flag35 {
		t.Error("Sz53Table[0x28] should carry F5 and F3")
	}

	// Even parity sets P.
	if ParityTable[0]&FlagP == 0 {
		t.Error("ParityTable[0] should have P flag")
	}
	if ParityTable[1]&FlagP != 0 {
		t.Error("ParityTable[1] should not have P flag")
	}
	if ParityTable[0xFF]&FlagP == 0 {
		t.Error("ParityTable[0xFF] should have P flag")
	}
}

func TestCarryTables(t *testing.T) {
	tests := []struct {
		name string
		got  [8]uint8
		want [8]uint8
	}{
		{"HalfcarryAdd", HalfcarryAddTable, [8]uint8{0, FlagH, FlagH, FlagH, 0, 0, 0, FlagH}},
		{"HalfcarrySub", HalfcarrySubTable, [8]uint8{0, 0, FlagH, 0, FlagH, 0, FlagH, FlagH}},
		{"OverflowAdd", OverflowAddTable, [8]uint8{0, 0, 0, FlagV, FlagV, 0, 0, 0}},
		{"OverflowSub", OverflowSubTable, [8]uint8{0, FlagV, 0, 0, 0, 0, FlagV, 0}},
	}
	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("%s = %02X, want %02X", tt.name, tt.got, tt.want)
		}
	}
}

// TestAddFlags runs ADD A,n through the engine for the interesting cases.
func TestAddFlags(t *testing.T) {
	tests := []struct {
		a, val       uint8
		wantA        uint8
		wantCarry    bool
		wantZero     bool
		wantSign     bool
		wantHalf     bool
		wantOverflow bool
	}{
		{0, 0, 0, false, true, false, false, false},
		{1, 1, 2, false, false, false, false, false},
		{0xFF, 1, 0, true, true, false, true, false},
		{0x0F, 1, 0x10, false, false, false, true, false},
		{0x7F, 1, 0x80, false, false, true, true, true}, // pos + pos = neg
		{0x80, 0x80, 0, true, true, false, false, true}, // neg + neg = pos
	}

	for _, tc := range tests {
		c := newCore(t, 0xC6, tc.val)
		c.Regs.Set(A, tc.a)
		c.Step()
		a, f := c.Regs.Get(A), c.Regs.Get(F)

		if a != tc.wantA {
			t.Errorf("ADD A=%02X + %02X: got A=%02X, want %02X", tc.a, tc.val, a, tc.wantA)
		}
		if (f&FlagC != 0) != tc.wantCarry {
			t.Errorf("ADD A=%02X + %02X: carry=%v, want %v", tc.a, tc.val, f&FlagC != 0, tc.wantCarry)
		}
		if (f&FlagZ != 0) != tc.wantZero {
			t.Errorf("ADD A=%02X + %02X: zero=%v, want %v", tc.a, tc.val, f&FlagZ != 0, tc.wantZero)
		}
		if (f&FlagS != 0) != tc.wantSign {
			t.Errorf("ADD A=%02X + %02X: sign=%v, want %v", tc.a, tc.val, f&FlagS != 0, tc.wantSign)
		}
		if (f&FlagH != 0) != tc.wantHalf {
			t.Errorf("ADD A=%02X + %02X: half=%v, want %v", tc.a, tc.val, f&FlagH != 0, tc.wantHalf)
		}
		if (f&FlagV != 0) != tc.wantOverflow {
			t.Errorf("ADD A=%02X + %02X: overflow=%v, want %v", tc.a, tc.val, f&FlagV != 0, tc.wantOverflow)
		}
		if f&FlagN != 0 {
			t.Errorf("ADD A=%02X + %02X: N should be clear", tc.a, tc.val)
		}
	}
}

func TestSubFlags(t *testing.T) {
	tests := []struct {
		a, val uint8
		wantA  uint8
		wantF  uint8 // S Z H V N C only
	}{
		{5, 3, 2, FlagN},
		{0, 1, 0xFF, FlagS | FlagH | FlagN | FlagC},
		{0x80, 1, 0x7F, FlagH | FlagV | FlagN},
		{3, 3, 0, FlagZ | FlagN},
	}
	const mask = FlagS | FlagZ | FlagH | FlagV | FlagN | FlagC
	for _, tc := range tests {
		c := newCore(t, 0xD6, tc.val)
		c.Regs.Set(A, tc.a)
		c.Step()
		if got := c.Regs.Get(A); got != tc.wantA {
			t.Errorf("SUB %02X - %02X: got A=%02X, want %02X", tc.a, tc.val, got, tc.wantA)
		}
		if got := c.Regs.Get(F) & mask; got != tc.wantF {
			t.Errorf("SUB %02X - %02X: got F=%02X, want %02X", tc.a, tc.val, got, tc.wantF)
		}
	}
}

// TestExhaustiveAddSub checks add8 and sub8 against plain arithmetic
// for every pair of operands.
func TestExhaustiveAddSub(t *testing.T) {
	for a := 0; a < 256; a++ {
		for v := 0; v < 256; v++ {
			r, f := add8(uint8(a), uint8(v), 0)
			if r != uint8(a+v) {
				t.Fatalf("ADD %02X + %02X: got %02X want %02X", a, v, r, uint8(a+v))
			}
			if (f&FlagC != 0) != (a+v > 0xFF) {
				t.Fatalf("ADD %02X + %02X: carry=%v", a, v, f&FlagC != 0)
			}
			if (f&FlagH != 0) != ((a&0xF)+(v&0xF) > 0xF) {
				t.Fatalf("ADD %02X + %02X: half=%v", a, v, f&FlagH != 0)
			}
			sum := int(int8(a)) + int(int8(v))
			if (f&FlagV != 0) != (sum > 127 || sum < -128) {
				t.Fatalf("ADD %02X + %02X: overflow=%v", a, v, f&FlagV != 0)
			}
			if f&Flag35 != r&Flag35 {
				t.Fatalf("ADD %02X + %02X: F5/F3 %02X not from result %02X", a, v, f, r)
			}

			r, f = sub8(uint8(a), uint8(v), 0)
			if r != uint8(a-v) {
				t.Fatalf("SUB %02X - %02X: got %02X want %02X", a, v, r, uint8(a-v))
			}
			if (f&FlagC != 0) != (a < v) {
				t.Fatalf("SUB %02X - %02X: carry=%v", a, v, f&FlagC != 0)
			}
			if (f&FlagH != 0) != (a&0xF < v&0xF) {
				t.Fatalf("SUB %02X - %02X: half=%v", a, v, f&FlagH != 0)
			}
			diff := int(int8(a)) - int(int8(v))
			if (f&FlagV != 0) != (diff > 127 || diff < -128) {
				t.Fatalf("SUB %02X - %02X: overflow=%v", a, v, f&FlagV != 0)
			}
			if f&FlagN == 0 {
				t.Fatalf("SUB should set N flag")
			}
		}
	}
}

// TestCP verifies CP leaves A alone and takes F5/F3 from the operand.
func TestCP(t *testing.T) {
	c := newCore(t, 0xFE, 0x28)
	c.Regs.Set(A, 0x30)
	c.Step()
	if c.Regs.Get(A) != 0x30 {
		t.Errorf("CP changed A to %02X", c.Regs.Get(A))
	}
	if f := c.Regs.Get(F); f&Flag35 != 0x28 {
		t.Errorf("CP F5/F3 = %02X, want 28", f&Flag35)
	}
}

func TestAndOrXor(t *testing.T) {
	tests := []struct {
		name   string
		opcode uint8
		a, v   uint8
		want   uint8
		wantH  bool
	}{
		{"AND", 0xE6, 0xF0, 0x3C, 0x30, true},
		{"OR", 0xF6, 0xF0, 0x0F, 0xFF, false},
		{"XOR", 0xEE, 0xFF, 0xFF, 0x00, false},
	}
	for _, tc := range tests {
		c := newCore(t, tc.opcode, tc.v)
		c.Regs.Set(A, tc.a)
		c.Regs.Set(F, FlagC|FlagN)
		c.Step()
		a, f := c.Regs.Get(A), c.Regs.Get(F)
		if a != tc.want {
			t.Errorf("%s %02X,%02X: got %02X want %02X", tc.name, tc.a, tc.v, a, tc.want)
		}
		if f&(FlagC|FlagN) != 0 {
			t.Errorf("%s should clear C and N, F=%02X", tc.name, f)
		}
		if (f&FlagH != 0) != tc.wantH {
			t.Errorf("%s half=%v want %v", tc.name, f&FlagH != 0, tc.wantH)
		}
		if f&FlagP != ParityTable[a] {
			t.Errorf("%s parity mismatch for %02X", tc.name, a)
		}
	}
}

func TestIncDec(t *testing.T) {
	// INC A preserves carry.
	c := newCore(t, 0x3C)
	c.Regs.Set(A, 0x7F)
	c.Regs.Set(F, FlagC)
	c.Step()
	if c.Regs.Get(A) != 0x80 {
		t.Errorf("INC 7F: got %02X", c.Regs.Get(A))
	}
	want := FlagC | FlagS | FlagH | FlagV
	if f := c.Regs.Get(F) &^ Flag35; f != want {
		t.Errorf("INC 7F: F=%02X want %02X", f, want)
	}

	// DEC B of 0x80 overflows to 0x7F.
	c = newCore(t, 0x05)
	c.Regs.Set(B, 0x80)
	c.Step()
	if c.Regs.Get(B) != 0x7F {
		t.Errorf("DEC 80: got %02X", c.Regs.Get(B))
	}
	if f := c.Regs.Get(F); f&(FlagV|FlagN|FlagH) != FlagV|FlagN|FlagH {
		t.Errorf("DEC 80: F=%02X want V, N and H", f)
	}
}

func TestDAA(t *testing.T) {
	tests := []struct {
		a, add    uint8
		want      uint8
		wantCarry bool
	}{
		{0x15, 0x27, 0x42, false},
		{0x99, 0x01, 0x00, true},
		{0x50, 0x50, 0x00, true},
	}
	for _, tc := range tests {
		c := newCore(t, 0xC6, tc.add, 0x27)
		c.Regs.Set(A, tc.a)
		c.Step()
		c.Step()
		if got := c.Regs.Get(A); got != tc.want {
			t.Errorf("DAA %02X+%02X: got %02X want %02X", tc.a, tc.add, got, tc.want)
		}
		if (c.Regs.Get(F)&FlagC != 0) != tc.wantCarry {
			t.Errorf("DAA %02X+%02X: carry=%v", tc.a, tc.add, c.Regs.Get(F)&FlagC != 0)
		}
	}
}

func TestRotatesPreserveSZP(t *testing.T) {
	for _, op := range []uint8{0x07, 0x0F, 0x17, 0x1F} {
		c := newCore(t, op)
		c.Regs.Set(A, 0x81)
		c.Regs.Set(F, FlagS|FlagZ|FlagP)
		c.Step()
		if f := c.Regs.Get(F); f&(FlagS|FlagZ|FlagP) != FlagS|FlagZ|FlagP {
			t.Errorf("opcode %02X dropped S/Z/P: F=%02X", op, f)
		}
	}

	c := newCore(t, 0x07) // RLCA
	c.Regs.Set(A, 0x80)
	c.Step()
	if c.Regs.Get(A) != 0x01 || c.Regs.Get(F)&FlagC == 0 {
		t.Errorf("RLCA 80: A=%02X F=%02X", c.Regs.Get(A), c.Regs.Get(F))
	}
}

func TestSpecialOps(t *testing.T) {
	c := newCore(t, 0x2F) // CPL
	c.Regs.Set(A, 0x0F)
	c.Step()
	if c.Regs.Get(A) != 0xF0 {
		t.Errorf("CPL 0F: got %02X", c.Regs.Get(A))
	}
	if f := c.Regs.Get(F); f&(FlagH|FlagN) != FlagH|FlagN {
		t.Errorf("CPL should set H and N, F=%02X", f)
	}

	c = newCore(t, 0x37, 0x3F) // SCF; CCF
	c.Step()
	if c.Regs.Get(F)&FlagC == 0 {
		t.Error("SCF should set carry")
	}
	c.Step()
	if f := c.Regs.Get(F); f&FlagC != 0 || f&FlagH == 0 {
		t.Errorf("CCF after SCF: F=%02X, want C clear and H set", f)
	}
}

func TestCBRotates(t *testing.T) {
	tests := []struct {
		name      string
		op        uint8
		in, want  uint8
		wantCarry bool
	}{
		{"RLC B", 0x00, 0x80, 0x01, true},
		{"RRC B", 0x08, 0x01, 0x80, true},
		{"SLA B", 0x20, 0x80, 0x00, true},
		{"SRA B", 0x28, 0x80, 0xC0, false},
		{"SLL B", 0x30, 0x80, 0x01, true},
		{"SRL B", 0x38, 0x81, 0x40, true},
	}
	for _, tc := range tests {
		c := newCore(t, 0xCB, tc.op)
		c.Regs.Set(B, tc.in)
		c.Step()
		if got := c.Regs.Get(B); got != tc.want {
			t.Errorf("%s %02X: got %02X want %02X", tc.name, tc.in, got, tc.want)
		}
		if (c.Regs.Get(F)&FlagC != 0) != tc.wantCarry {
			t.Errorf("%s %02X: carry=%v want %v", tc.name, tc.in, c.Regs.Get(F)&FlagC != 0, tc.wantCarry)
		}
		if c.PC() != 2 {
			t.Errorf("%s: PC=%04X want 0002", tc.name, c.PC())
		}
	}
}

func TestADCSBCHL(t *testing.T) {
	c := newCore(t, 0xED, 0x52) // SBC HL,DE
	c.Regs.SetPair(HL, 0x1000)
	c.Regs.SetPair(DE, 0x0001)
	c.Regs.Set(F, FlagC)
	c.Step()
	if got := c.Regs.Pair(HL); got != 0x0FFE {
		t.Errorf("SBC HL: got %04X want 0FFE", got)
	}
	if f := c.Regs.Get(F); f&(FlagN|FlagH|FlagC) != FlagN|FlagH {
		t.Errorf("SBC HL: F=%02X want N and H only", f)
	}

	c = newCore(t, 0xED, 0x4A) // ADC HL,BC
	c.Regs.SetPair(HL, 0xFFFF)
	c.Regs.SetPair(BC, 0x0000)
	c.Regs.Set(F, FlagC)
	c.Step()
	if got := c.Regs.Pair(HL); got != 0 {
		t.Errorf("ADC HL: got %04X want 0000", got)
	}
	if f := c.Regs.Get(F); f&(FlagZ|FlagC) != FlagZ|FlagC {
		t.Errorf("ADC HL: F=%02X want Z and C", f)
	}
}

func TestADDHLKeepsSZP(t *testing.T) {
	c := newCore(t, 0x19) // ADD HL,DE
	c.Regs.SetPair(HL, 0x0FFF)
	c.Regs.SetPair(DE, 0x0001)
	c.Regs.Set(F, FlagZ|FlagS|FlagP|FlagN)
	c.Step()
	if got := c.Regs.Pair(HL); got != 0x1000 {
		t.Errorf("ADD HL: got %04X", got)
	}
	f := c.Regs.Get(F)
	if f&(FlagZ|FlagS|FlagP) != FlagZ|FlagS|FlagP {
		t.Errorf("ADD HL dropped S/Z/P: F=%02X", f)
	}
	if f&FlagH == 0 || f&(FlagN|FlagC) != 0 {
		t.Errorf("ADD HL: F=%02X want H set, N and C clear", f)
	}
}

func BenchmarkStep(b *testing.B) {
	c, _ := New(DefaultMemorySize)
	c.Mem.Load(0, []byte{0xC6, 0x01, 0x18, 0xFC}) // ADD A,1; JR -4
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		c.Step()
	}
}
