package cpu

import "testing"

func TestIncrementDecrementAllValues(t *testing.T) {
	for i := 0; i < 256; i++ {
		v := byte(i)

		inc := Increment(v)
		exp := byte((i + 1) % 256)
		if inc.Value != exp || inc.Zero != (exp == 0) || inc.Negative != (exp >= 0x80) {
			t.Errorf("Increment($%02X) = %+v", v, inc)
		}

		dec := Decrement(v)
		exp = byte((i + 255) % 256)
		if dec.Value != exp || dec.Zero != (exp == 0) || dec.Negative != (exp >= 0x80) {
			t.Errorf("Decrement($%02X) = %+v", v, dec)
		}
	}
}

func TestAddFlags(t *testing.T) {
	tests := []struct {
		a, m  byte
		carry bool
		exp   Result
	}{
		{0xff, 0x01, false, Result{Value: 0x00, Carry: true, Zero: true}},
		{0x01, 0xff, false, Result{Value: 0x00, Carry: true, Zero: true}},
		{0x50, 0x50, false, Result{Value: 0xa0, Overflow: true, Negative: true}},
		{0x90, 0x90, false, Result{Value: 0x20, Carry: true, Overflow: true}},
		{0x7f, 0x00, true, Result{Value: 0x80, Overflow: true, Negative: true}},
		{0x01, 0x01, true, Result{Value: 0x03}},
	}
	for _, tt := range tests {
		if got := Add(tt.a, tt.m, tt.carry); got != tt.exp {
			t.Errorf("Add($%02X, $%02X, %v) = %+v, exp %+v", tt.a, tt.m, tt.carry, got, tt.exp)
		}
	}
}

func TestCompareCarryFromWideResult(t *testing.T) {
	for _, tt := range []struct {
		reg, m byte
		carry  bool
	}{
		{0x00, 0x00, true},
		{0x00, 0x01, false},
		{0xff, 0x00, true},
		{0x80, 0x7f, true},
		{0x7f, 0x80, false},
	} {
		r := Compare(tt.reg, tt.m)
		if r.Carry != tt.carry {
			t.Errorf("Compare($%02X, $%02X) carry = %v, exp %v", tt.reg, tt.m, r.Carry, tt.carry)
		}
		if r.Value != tt.reg-tt.m {
			t.Errorf("Compare($%02X, $%02X) value = $%02X", tt.reg, tt.m, r.Value)
		}
	}
}
