// Copyright 2026 The nesnes Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cpu

// Result holds the outcome of an arithmetic operation along with the
// flags it derives. Zero and Negative always describe Value.
type Result struct {
	Value    byte
	Carry    bool
	Overflow bool
	Zero     bool
	Negative bool
}

func resultOf(v byte) Result {
	return Result{Value: v, Zero: v == 0, Negative: v&0x80 != 0}
}

// Add returns a + m + carry. Carry out comes from bit 8 of the widened
// sum, and overflow is set when both inputs share a sign that the result
// does not.
func Add(a, m byte, carry bool) Result {
	sum := uint16(a) + uint16(m) + uint16(boolToByte(carry))
	r := resultOf(byte(sum))
	r.Carry = sum&0x100 != 0
	r.Overflow = (a^r.Value)&(m^r.Value)&0x80 != 0
	return r
}

// Sub returns a - m - (1 - carry), computed as a + ^m + carry. Carry out
// is set when no borrow occurred.
func Sub(a, m byte, carry bool) Result {
	return Add(a, ^m, carry)
}

// Compare computes reg - m as a signed 16-bit subtraction and derives the
// flags from it without keeping the result. Carry is taken from the
// untruncated difference.
func Compare(reg, m byte) Result {
	diff := int16(reg) - int16(m)
	r := resultOf(byte(diff))
	r.Carry = diff >= 0
	return r
}

// Increment adds one with 8-bit wraparound.
func Increment(v byte) Result {
	return resultOf(v + 1)
}

// Decrement subtracts one with 8-bit wraparound.
func Decrement(v byte) Result {
	return resultOf(v - 1)
}
