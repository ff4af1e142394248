// Copyright 2026 The nesnes Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cpu

// Registers contains the state of all 2A03 CPU registers. The 2A03 has no
// decimal mode, so there is no decimal flag.
type Registers struct {
	A                byte   // accumulator
	X                byte   // X indexing register
	Y                byte   // Y indexing register
	SP               byte   // stack pointer ($100 + SP = stack memory location)
	PC               uint16 // program counter, an offset into program memory
	Negative         bool   // PS: Negative bit
	Overflow         bool   // PS: Overflow bit
	Break            bool   // PS: Break bit
	InterruptDisable bool   // PS: Interrupt disable bit
	Zero             bool   // PS: Zero bit
	Carry            bool   // PS: Carry bit
}

// Bits assigned to the processor status byte
const (
	CarryBit            = 1 << 0
	ZeroBit             = 1 << 1
	InterruptDisableBit = 1 << 2
	DecimalBit          = 1 << 3
	BreakBit            = 1 << 4
	ReservedBit         = 1 << 5
	OverflowBit         = 1 << 6
	NegativeBit         = 1 << 7
)

// SavePS packs the processor status into a byte value. The break bit is
// set if requested or if the break flag is currently set.
func (r *Registers) SavePS(brk bool) byte {
	var ps byte = ReservedBit
	if r.Carry {
		ps |= CarryBit
	}
	if r.Zero {
		ps |= ZeroBit
	}
	if r.InterruptDisable {
		ps |= InterruptDisableBit
	}
	if brk || r.Break {
		ps |= BreakBit
	}
	if r.Overflow {
		ps |= OverflowBit
	}
	if r.Negative {
		ps |= NegativeBit
	}
	return ps
}

// RestorePS unpacks the processor status from a byte.
func (r *Registers) RestorePS(ps byte) {
	r.Carry = ((ps & CarryBit) != 0)
	r.Zero = ((ps & ZeroBit) != 0)
	r.InterruptDisable = ((ps & InterruptDisableBit) != 0)
	r.Break = ((ps & BreakBit) != 0)
	r.Overflow = ((ps & OverflowBit) != 0)
	r.Negative = ((ps & NegativeBit) != 0)
}

// Init puts the registers into their power-on state. A, X, Y = 0.
// SP = $FD. PC = 0. Only the break and interrupt-disable flags are set.
func (r *Registers) Init() {
	r.A = 0
	r.X = 0
	r.Y = 0
	r.SP = 0xfd
	r.PC = 0
	r.RestorePS(BreakBit | InterruptDisableBit)
}

// NMI applies the non-maskable interrupt entry rule: interrupt-disable is
// set and break is cleared. No other flag changes, and nothing is pushed.
func (r *Registers) NMI() {
	r.InterruptDisable = true
	r.Break = false
}

// IRQ applies the maskable interrupt entry rule. The break flag is
// inverted to distinguish a hardware request from a BRK.
func (r *Registers) IRQ() {
	r.InterruptDisable = true
	r.Break = !r.Break
}

// Reset applies the reset entry rule, which only sets interrupt-disable.
func (r *Registers) Reset() {
	r.InterruptDisable = true
}

func boolToByte(v bool) byte {
	if v {
		return 1
	}
	return 0
}
