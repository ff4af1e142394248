// Copyright 2026 The nesnes Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ppu

// CPU-visible register indices, decoded from the low three address bits.
const (
	RegCtrl    = 0 // $2000 write
	RegMask    = 1 // $2001 write
	RegStatus  = 2 // $2002 read
	RegOAMAddr = 3 // $2003 write
	RegOAMData = 4 // $2004 read/write
	RegScroll  = 5 // $2005 write x2
	RegAddr    = 6 // $2006 write x2
	RegData    = 7 // $2007 read/write
)

// Control register bits
const (
	CtrlNametable    = 0x03 // base nametable select
	CtrlIncrement32  = 0x04 // VRAM address increment: 0 = +1, 1 = +32
	CtrlSpriteTable  = 0x08 // 8x8 sprite pattern table at $1000
	CtrlBackground   = 0x10 // background pattern table at $1000
	CtrlSpriteSize16 = 0x20 // 8x16 sprites
	CtrlNMI          = 0x80 // signal NMI at vertical blank
)

// Mask register bits
const (
	MaskBackgroundLeft = 0x02
	MaskSpritesLeft    = 0x04
	MaskBackground     = 0x08
	MaskSprites        = 0x10
)

// Status register bits
const (
	StatusOverflow   = 0x20
	StatusSpriteZero = 0x40
	StatusVBlank     = 0x80
)

// DefaultCtrl is the control register value at power on.
const DefaultCtrl = 0x40

// Registers holds the CPU-visible register state along with the write
// latches behind it.
type Registers struct {
	Ctrl     byte
	Mask     byte
	Status   byte
	OAMAddr  byte
	ScrollX  byte
	ScrollY  byte
	VRAMAddr uint16

	// Toggle selects which half the next $2005/$2006 write supplies. It
	// is shared between the two registers and cleared by a status read.
	Toggle bool

	// OAMToggle flips on every $2003 write.
	OAMToggle bool

	// latch holds the last value written to any register. Reads of
	// write-only registers return it.
	latch byte
}

func (r *Registers) reset() {
	*r = Registers{Ctrl: DefaultCtrl}
}

func (r *Registers) increment() uint16 {
	if r.Ctrl&CtrlIncrement32 != 0 {
		return 32
	}
	return 1
}

// ReadRegister performs a CPU read of register reg (0-7) with its
// hardware side effects: a status read clears vertical blank and the
// address toggle, and a data read advances the VRAM address.
func (p *PPU) ReadRegister(reg int) byte {
	r := &p.Reg
	switch reg & 7 {
	case RegStatus:
		v := r.Status&0xe0 | r.latch&0x1f
		r.Status &^= StatusVBlank
		r.Toggle = false
		return v
	case RegOAMData:
		return p.OAM[r.OAMAddr]
	case RegData:
		v := p.VRAM.Read(r.VRAMAddr)
		r.VRAMAddr = (r.VRAMAddr + r.increment()) & 0x3fff
		return v
	default:
		return r.latch
	}
}

// PeekRegister returns what a read of reg would return without any side
// effects.
func (p *PPU) PeekRegister(reg int) byte {
	r := &p.Reg
	switch reg & 7 {
	case RegStatus:
		return r.Status&0xe0 | r.latch&0x1f
	case RegOAMData:
		return p.OAM[r.OAMAddr]
	case RegData:
		return p.VRAM.Read(r.VRAMAddr)
	default:
		return r.latch
	}
}

// WriteRegister performs a CPU write of v to register reg (0-7).
func (p *PPU) WriteRegister(reg int, v byte) {
	r := &p.Reg
	r.latch = v
	switch reg & 7 {
	case RegCtrl:
		wasEnabled := r.Ctrl&CtrlNMI != 0
		r.Ctrl = v
		// Enabling NMI during vertical blank raises it immediately.
		if !wasEnabled && v&CtrlNMI != 0 && r.Status&StatusVBlank != 0 {
			p.signalNMI()
		}
	case RegMask:
		r.Mask = v
	case RegStatus:
		// read-only
	case RegOAMAddr:
		r.OAMAddr = v
		r.OAMToggle = !r.OAMToggle
	case RegOAMData:
		p.OAM[r.OAMAddr] = v
		r.OAMAddr++
	case RegScroll:
		if !r.Toggle {
			r.ScrollX = v
		} else {
			r.ScrollY = v
		}
		r.Toggle = !r.Toggle
	case RegAddr:
		if !r.Toggle {
			r.VRAMAddr = uint16(v&0x3f)<<8 | r.VRAMAddr&0x00ff
		} else {
			r.VRAMAddr = r.VRAMAddr&0xff00 | uint16(v)
		}
		r.Toggle = !r.Toggle
	case RegData:
		p.VRAM.Write(r.VRAMAddr, v)
		r.VRAMAddr = (r.VRAMAddr + r.increment()) & 0x3fff
	}
}

// WriteDMA copies a 256-byte page into OAM starting at the current OAM
// address, as a write to $4014 does.
func (p *PPU) WriteDMA(page []byte) {
	for i, v := range page {
		p.OAM[byte(int(p.Reg.OAMAddr)+i)] = v
	}
}
