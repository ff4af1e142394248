// Copyright 2026 The nesnes Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package bus implements the NES CPU address bus. It decodes each 16-bit
// address to work RAM, a PPU register, an APU or joypad register, or
// cartridge program memory.
//
//	$0000-$1FFF  2 KB work RAM, mirrored every $800
//	$2000-$3FFF  PPU registers, mirrored every 8 bytes
//	$4000-$401F  APU, OAM DMA and joypad registers
//	$4020-$7FFF  expansion area, unmapped
//	$8000-$FFFF  program memory
package bus

import (
	"errors"
	"fmt"

	"github.com/nesnes-emu/nesnes/apu"
	"github.com/nesnes-emu/nesnes/controller"
	"github.com/nesnes-emu/nesnes/ppu"
)

// Region boundaries
const (
	RAMSize     = 0x0800
	RAMEnd      = 0x2000
	PPUEnd      = 0x4000
	IOEnd       = 0x4020
	ProgramBase = 0x8000
	OAMDMA      = 0x4014
	Joypad1     = 0x4016
	Joypad2     = 0x4017
	DMACycles   = 513
)

// ErrUnmapped is reported for reads from addresses no device decodes.
var ErrUnmapped = errors.New("address is not mapped")

// An AddressError reports a failed bus access.
type AddressError struct {
	Addr uint16
	Op   string
	Err  error
}

func (e *AddressError) Error() string {
	return fmt.Sprintf("%s $%04X: %v", e.Op, e.Addr, e.Err)
}

func (e *AddressError) Unwrap() error {
	return e.Err
}

// Bus connects the CPU to every memory-mapped device. It owns work RAM;
// the devices are owned by the caller.
type Bus struct {
	RAM [RAMSize]byte

	ppu   *ppu.PPU
	apu   *apu.APU
	pads  *controller.Ports
	prg   []byte
	stall int
}

// New creates a bus over the given devices and program memory. Program
// memory smaller than 32 KB is mirrored to fill $8000-$FFFF.
func New(prg []byte, p *ppu.PPU, a *apu.APU, pads *controller.Ports) *Bus {
	return &Bus{ppu: p, apu: a, pads: pads, prg: prg}
}

// Read performs a CPU read with all device side effects.
func (b *Bus) Read(addr uint16) (byte, error) {
	switch {
	case addr < RAMEnd:
		return b.RAM[addr%RAMSize], nil
	case addr < PPUEnd:
		return b.ppu.ReadRegister(int(addr % 8)), nil
	case addr < IOEnd:
		switch addr {
		case Joypad1:
			return b.pads.Read(0), nil
		case Joypad2:
			return b.pads.Read(1), nil
		default:
			return b.apu.Read(addr), nil
		}
	case addr < ProgramBase:
		return 0, &AddressError{Addr: addr, Op: "read", Err: ErrUnmapped}
	default:
		return b.readProgram(addr)
	}
}

// Write performs a CPU write. Writes to the expansion area and to program
// memory are ignored.
func (b *Bus) Write(addr uint16, v byte) error {
	switch {
	case addr < RAMEnd:
		b.RAM[addr%RAMSize] = v
	case addr < PPUEnd:
		b.ppu.WriteRegister(int(addr%8), v)
	case addr == OAMDMA:
		return b.dma(v)
	case addr == Joypad1:
		b.pads.Write(v)
	case addr < IOEnd:
		b.apu.Write(addr, v)
	}
	return nil
}

// Peek returns the byte at addr without side effects. Unmapped addresses
// read as zero.
func (b *Bus) Peek(addr uint16) byte {
	switch {
	case addr < RAMEnd:
		return b.RAM[addr%RAMSize]
	case addr < PPUEnd:
		return b.ppu.PeekRegister(int(addr % 8))
	case addr < IOEnd:
		return b.apu.Register(addr)
	case addr < ProgramBase:
		return 0
	default:
		v, _ := b.readProgram(addr)
		return v
	}
}

// TakeStall returns and clears the CPU cycles consumed by OAM DMA since
// the last call.
func (b *Bus) TakeStall() int {
	n := b.stall
	b.stall = 0
	return n
}

func (b *Bus) readProgram(addr uint16) (byte, error) {
	if len(b.prg) == 0 {
		return 0, &AddressError{Addr: addr, Op: "read", Err: ErrUnmapped}
	}
	return b.prg[int(addr-ProgramBase)%len(b.prg)], nil
}

func (b *Bus) dma(page byte) error {
	var buf [256]byte
	base := uint16(page) << 8
	for i := range buf {
		v, err := b.Read(base + uint16(i))
		if err != nil {
			return err
		}
		buf[i] = v
	}
	b.ppu.WriteDMA(buf[:])
	b.stall += DMACycles
	return nil
}
