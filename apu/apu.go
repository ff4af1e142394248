// Copyright 2026 The nesnes Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package apu stores the register state of the NES audio processing unit.
// Writes to $4000-$4017 are decoded into per-channel fields; no audio is
// synthesized.
package apu

// Register addresses
const (
	Pulse1Ctrl   = 0x4000
	Pulse2Ctrl   = 0x4004
	TriangleCtrl = 0x4008
	NoiseCtrl    = 0x400c
	DMCCtrl      = 0x4010
	Status       = 0x4015
	FrameCounter = 0x4017
)

// Pulse holds the decoded state of one square wave channel.
type Pulse struct {
	Duty           byte // 0-3, from ctrl0 bits 6-7
	LoopEnvelope   bool // ctrl0 bit 5, also halts the length counter
	ConstantVolume bool // ctrl0 bit 4, disables the envelope
	Volume         byte // ctrl0 bits 0-3
	SweepEnabled   bool // ctrl1 bit 7
	SweepPeriod    byte // ctrl1 bits 4-6
	SweepNegate    bool // ctrl1 bit 3
	SweepShift     byte // ctrl1 bits 0-2
	Timer          uint16
	Length         byte // length counter load index
}

func (p *Pulse) write(reg int, v byte) {
	switch reg {
	case 0:
		p.Duty = v >> 6
		p.LoopEnvelope = v&0x20 != 0
		p.ConstantVolume = v&0x10 != 0
		p.Volume = v & 0x0f
	case 1:
		p.SweepEnabled = v&0x80 != 0
		p.SweepPeriod = (v & 0x70) >> 4
		p.SweepNegate = v&0x08 != 0
		p.SweepShift = v & 0x07
	case 2:
		p.Timer = p.Timer&0x0700 | uint16(v)
	case 3:
		p.Timer = p.Timer&0x00ff | uint16(v&0x07)<<8
		p.Length = v >> 3
	}
}

// Triangle holds the decoded state of the triangle channel.
type Triangle struct {
	Control    bool // length counter halt / linear counter control
	LinearLoad byte
	Timer      uint16
	Length     byte
}

func (t *Triangle) write(reg int, v byte) {
	switch reg {
	case 0:
		t.Control = v&0x80 != 0
		t.LinearLoad = v & 0x7f
	case 2:
		t.Timer = t.Timer&0x0700 | uint16(v)
	case 3:
		t.Timer = t.Timer&0x00ff | uint16(v&0x07)<<8
		t.Length = v >> 3
	}
}

// Noise holds the decoded state of the noise channel.
type Noise struct {
	LoopEnvelope   bool
	ConstantVolume bool
	Volume         byte
	ShortMode      bool // $400E bit 7
	Period         byte // $400E bits 0-3
	Length         byte
}

func (n *Noise) write(reg int, v byte) {
	switch reg {
	case 0:
		n.LoopEnvelope = v&0x20 != 0
		n.ConstantVolume = v&0x10 != 0
		n.Volume = v & 0x0f
	case 2:
		n.ShortMode = v&0x80 != 0
		n.Period = v & 0x0f
	case 3:
		n.Length = v >> 3
	}
}

// DMC holds the decoded state of the delta modulation channel.
type DMC struct {
	IRQEnabled   bool
	Loop         bool
	Rate         byte
	Direct       byte   // 7-bit direct load
	SampleAddr   uint16 // $C000 + 64*A
	SampleLength uint16 // 16*L + 1
}

func (d *DMC) write(reg int, v byte) {
	switch reg {
	case 0:
		d.IRQEnabled = v&0x80 != 0
		d.Loop = v&0x40 != 0
		d.Rate = v & 0x0f
	case 1:
		d.Direct = v & 0x7f
	case 2:
		d.SampleAddr = 0xc000 + uint16(v)*64
	case 3:
		d.SampleLength = uint16(v)*16 + 1
	}
}

// APU is the register file of the audio processing unit.
type APU struct {
	Pulse    [2]Pulse
	Triangle Triangle
	Noise    Noise
	DMC      DMC

	Enabled         byte // channel enable bits written to $4015
	FiveStep        bool // $4017 bit 7
	FrameIRQInhibit bool // $4017 bit 6

	regs [0x18]byte
}

// New returns an APU in its power-on state.
func New() *APU {
	return &APU{}
}

// Reset clears all register state.
func (a *APU) Reset() {
	*a = APU{}
}

// Write stores v into the register at addr ($4000-$4017). $4014 and
// $4016 belong to other devices and are ignored.
func (a *APU) Write(addr uint16, v byte) {
	if addr < 0x4000 || addr > FrameCounter {
		return
	}
	off := int(addr - 0x4000)
	switch {
	case addr < Pulse2Ctrl:
		a.Pulse[0].write(off&3, v)
	case addr < TriangleCtrl:
		a.Pulse[1].write(off&3, v)
	case addr < NoiseCtrl:
		a.Triangle.write(off&3, v)
	case addr < DMCCtrl:
		a.Noise.write(off&3, v)
	case addr < 0x4014:
		a.DMC.write(off&3, v)
	case addr == Status:
		a.Enabled = v & 0x1f
	case addr == FrameCounter:
		a.FiveStep = v&0x80 != 0
		a.FrameIRQInhibit = v&0x40 != 0
	default:
		return
	}
	a.regs[off] = v
}

// Read returns the value of a CPU read at addr. Only $4015 is readable;
// it reports the enabled channels.
func (a *APU) Read(addr uint16) byte {
	if addr == Status {
		return a.Enabled
	}
	return 0
}

// Register returns the last raw value written to addr.
func (a *APU) Register(addr uint16) byte {
	if addr < 0x4000 || addr > FrameCounter {
		return 0
	}
	return a.regs[addr-0x4000]
}
