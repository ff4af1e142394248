// Copyright 2026 The nesnes Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ppu

// Mirroring selects how the four logical nametables fold onto the 2 KB of
// physical nametable memory.
type Mirroring byte

// Nametable mirroring arrangements
const (
	// MirrorVertical wraps the nametable region every $800 bytes, so
	// $2000 and $2800 share storage.
	MirrorVertical Mirroring = iota

	// MirrorHorizontal pairs $2000 with $2400 and $2800 with $2C00.
	MirrorHorizontal
)

func (m Mirroring) String() string {
	if m == MirrorHorizontal {
		return "horizontal"
	}
	return "vertical"
}

// VRAM is the PPU's 14-bit address space. Every access applies the mirror
// transform before touching backing storage.
type VRAM struct {
	mem         [0x4000]byte
	mirroring   Mirroring
	chrWritable bool
}

// Resolve maps a PPU address onto the backing address that stores it.
//
//	$0000-$1FFF  pattern tables, unmirrored
//	$2000-$2FFF  nametables, folded by the mirroring arrangement
//	$3000-$3EFF  mirror of $2000-$2EFF
//	$3F00-$3FFF  palette, 32 bytes repeated; $3F10/$14/$18/$1C alias
//	             $3F00/$04/$08/$0C
func (m *VRAM) Resolve(addr uint16) uint16 {
	addr &= 0x3fff
	switch {
	case addr < 0x2000:
		return addr
	case addr < 0x3f00:
		off := (addr - 0x2000) & 0x0fff
		if m.mirroring == MirrorHorizontal {
			return 0x2000 + (off/0x800)*0x400 + off%0x400
		}
		return 0x2000 + off%0x800
	default:
		p := 0x3f00 | addr&0x1f
		if p&0x13 == 0x10 {
			p &^= 0x10
		}
		return p
	}
}

// Read returns the byte at addr after mirroring.
func (m *VRAM) Read(addr uint16) byte {
	return m.mem[m.Resolve(addr)]
}

// Write stores v at addr after mirroring. Pattern table writes are dropped
// unless the cartridge supplies CHR RAM.
func (m *VRAM) Write(addr uint16, v byte) {
	a := m.Resolve(addr)
	if a < 0x2000 && !m.chrWritable {
		return
	}
	m.mem[a] = v
}
