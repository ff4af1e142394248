// Copyright 2026 The nesnes Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ppu

// renderBand draws scanlines top through top+7 into the back buffer using
// the register and memory state at the moment the band starts.
func (p *PPU) renderBand(top int) {
	backdrop := SystemPalette[p.VRAM.Read(0x3f00)&0x3f]
	for y := top; y < top+BandHeight; y++ {
		for x := 0; x < Width; x++ {
			p.bgOpaque[(y-top)*Width+x] = false
			p.back.Set(x, y, backdrop)
		}
	}

	if p.Reg.Mask&MaskBackground != 0 {
		p.renderBackground(top)
	}
	if p.Reg.Mask&MaskSprites != 0 {
		p.renderSprites(top)
	}
}

func (p *PPU) renderBackground(top int) {
	r := &p.Reg
	base := uint16(0)
	if r.Ctrl&CtrlBackground != 0 {
		base = 0x1000
	}
	nt := int(r.Ctrl & CtrlNametable)
	originX := int(r.ScrollX) + (nt&1)*Width
	originY := int(r.ScrollY) + (nt>>1)*Height

	for y := top; y < top+BandHeight; y++ {
		sy := (originY + y) % (Height * 2)
		for x := 0; x < Width; x++ {
			if x < 8 && r.Mask&MaskBackgroundLeft == 0 {
				continue
			}
			sx := (originX + x) % (Width * 2)
			table := uint16(sx/Width + (sy/Height)*2)
			tx, ty := (sx%Width)/8, (sy%Height)/8
			ntBase := 0x2000 + table*0x400

			tile := p.VRAM.Read(ntBase + uint16(ty*32+tx))
			px := p.VRAM.patternPixel(base, tile, sx%8, sy%8)
			if px == 0 {
				continue
			}

			attr := p.VRAM.Read(ntBase + 0x3c0 + uint16((ty/4)*8+tx/4))
			shift := ((ty%4)/2)*4 + ((tx%4)/2)*2
			pal := (attr >> shift) & 3

			color := p.VRAM.Read(0x3f00 + uint16(pal)*4 + uint16(px))
			p.back.Set(x, y, SystemPalette[color&0x3f])
			p.bgOpaque[(y-top)*Width+x] = true
		}
	}
}

// Sprite attribute bits
const (
	spritePalette  = 0x03
	spriteBehind   = 0x20
	spriteFlipH    = 0x40
	spriteFlipV    = 0x80
	spritesPerLine = 8
)

func (p *PPU) renderSprites(top int) {
	r := &p.Reg
	height := 8
	if r.Ctrl&CtrlSpriteSize16 != 0 {
		height = 16
	}

	for y := top; y < top+BandHeight; y++ {
		// Lower OAM index wins, so draw in reverse.
		count := 0
		var visible [64]int
		for i := 0; i < 64; i++ {
			sy := int(p.OAM[i*4]) + 1
			if y >= sy && y < sy+height {
				if count == spritesPerLine {
					r.Status |= StatusOverflow
					break
				}
				visible[count] = i
				count++
			}
		}

		for k := count - 1; k >= 0; k-- {
			i := visible[k]
			p.renderSpriteRow(i, y, top, height)
		}
	}
}

func (p *PPU) renderSpriteRow(i, y, top, height int) {
	r := &p.Reg
	oam := p.OAM[i*4 : i*4+4]
	sy, tile, attr, sx := int(oam[0])+1, oam[1], oam[2], int(oam[3])

	row := y - sy
	if attr&spriteFlipV != 0 {
		row = height - 1 - row
	}

	var base uint16
	if height == 16 {
		base = uint16(tile&1) * 0x1000
		tile &^= 1
		if row >= 8 {
			tile++
			row -= 8
		}
	} else if r.Ctrl&CtrlSpriteTable != 0 {
		base = 0x1000
	}

	for col := 0; col < 8; col++ {
		x := sx + col
		if x >= Width {
			break
		}
		if x < 8 && r.Mask&MaskSpritesLeft == 0 {
			continue
		}

		c := col
		if attr&spriteFlipH != 0 {
			c = 7 - col
		}
		px := p.VRAM.patternPixel(base, tile, c, row)
		if px == 0 {
			continue
		}

		opaque := p.bgOpaque[(y-top)*Width+x]
		if i == 0 && opaque && x != 255 {
			r.Status |= StatusSpriteZero
		}
		if attr&spriteBehind != 0 && opaque {
			continue
		}

		color := p.VRAM.Read(0x3f10 + uint16(attr&spritePalette)*4 + uint16(px))
		p.back.Set(x, y, SystemPalette[color&0x3f])
	}
}
