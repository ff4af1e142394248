// Copyright 2026 The nesnes Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package nes assembles the CPU, bus, PPU, APU and joypads into a single
// console. The Arch aggregate owns every piece of chip state and advances
// CPU and video timing in lockstep, one instruction at a time.
package nes

import (
	"log/slog"

	"github.com/nesnes-emu/nesnes/apu"
	"github.com/nesnes-emu/nesnes/bus"
	"github.com/nesnes-emu/nesnes/cartridge"
	"github.com/nesnes-emu/nesnes/controller"
	"github.com/nesnes-emu/nesnes/cpu"
	"github.com/nesnes-emu/nesnes/ppu"
)

// PPUCyclesPerCPUCycle is the fixed ratio of video to CPU clocks.
const PPUCyclesPerCPUCycle = 3

// ResetVector is the CPU address of the little-endian reset vector.
const ResetVector = 0xfffc

// Arch is one console.
type Arch struct {
	CPU  *cpu.CPU
	Bus  *bus.Bus
	PPU  *ppu.PPU
	APU  *apu.APU
	Pads *controller.Ports
	Cart *cartridge.Cartridge

	log         *slog.Logger
	sink        ppu.FrameSink
	resetVector bool
}

// An Option configures an Arch.
type Option func(a *Arch)

// WithLogger sets the logger shared by the console and its PPU.
func WithLogger(l *slog.Logger) Option {
	return func(a *Arch) { a.log = l }
}

// WithFrameSink delivers every completed frame to sink.
func WithFrameSink(sink ppu.FrameSink) Option {
	return func(a *Arch) { a.sink = sink }
}

// WithResetVector starts execution at the address stored in the reset
// vector instead of at the first byte of program memory.
func WithResetVector() Option {
	return func(a *Arch) { a.resetVector = true }
}

// New builds a console around a parsed cartridge.
func New(cart *cartridge.Cartridge, opts ...Option) (*Arch, error) {
	a := &Arch{Cart: cart, log: slog.Default()}
	for _, opt := range opts {
		opt(a)
	}

	mirroring := ppu.MirrorHorizontal
	if cart.Vertical() {
		mirroring = ppu.MirrorVertical
	}

	var err error
	a.PPU, err = ppu.New(cart.CHR, mirroring, ppu.WithLogger(a.log), ppu.WithFrameSink(a.sink))
	if err != nil {
		return nil, err
	}
	a.APU = apu.New()
	a.Pads = &controller.Ports{}
	a.Bus = bus.New(cart.PRG, a.PPU, a.APU, a.Pads)
	a.CPU = cpu.NewCPU(a.Bus)
	a.PPU.SetNMIHandler(a.CPU.NMI)
	a.CPU.SetPC(a.entry())

	a.log.Info("console initialized", "cartridge", cart.String(), "pc", a.CPU.Addr())
	return a, nil
}

// entry returns the program-memory offset execution begins at.
func (a *Arch) entry() uint16 {
	if !a.resetVector {
		return 0
	}
	lo := a.Bus.Peek(ResetVector)
	hi := a.Bus.Peek(ResetVector + 1)
	addr := uint16(lo) | uint16(hi)<<8
	if addr < cpu.ProgramBase {
		a.log.Warn("reset vector outside program memory", "vector", addr)
		return 0
	}
	return addr - cpu.ProgramBase
}

// Step executes one instruction, then advances the PPU by three cycles
// for every CPU cycle it took, including any OAM DMA stall. It returns
// the CPU cycles consumed.
func (a *Arch) Step() (int, error) {
	cycles, err := a.CPU.Step()
	if err != nil {
		a.log.Error("cpu halted", "err", err)
		return 0, err
	}
	if stall := a.Bus.TakeStall(); stall > 0 {
		a.CPU.Cycles += uint64(stall)
		cycles += stall
	}
	a.PPU.Advance(PPUCyclesPerCPUCycle * cycles)
	return cycles, nil
}

// RunFrame steps until the PPU completes the current frame.
func (a *Arch) RunFrame() error {
	start := a.PPU.Frames
	for a.PPU.Frames == start {
		if _, err := a.Step(); err != nil {
			return err
		}
	}
	return nil
}

// Reset applies the reset entry rule to the CPU, returns the PPU and APU
// to their power-on register state, and restarts execution. Work RAM and
// video memory are preserved.
func (a *Arch) Reset() {
	a.CPU.Reg.Reset()
	a.PPU.Reset()
	a.APU.Reset()
	a.CPU.SetPC(a.entry())
	a.log.Info("console reset", "pc", a.CPU.Addr())
}

// Frame returns the most recently completed frame.
func (a *Arch) Frame() *ppu.Frame {
	return a.PPU.Frame()
}

// PatternTable returns the tiles decoded from the cartridge.
func (a *Arch) PatternTable() ppu.PatternTable {
	return a.PPU.PatternTable()
}

// SetFrameSink replaces the frame sink.
func (a *Arch) SetFrameSink(sink ppu.FrameSink) {
	a.sink = sink
	a.PPU.SetFrameSink(sink)
}
