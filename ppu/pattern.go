// Copyright 2026 The nesnes Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ppu

import (
	"errors"
	"fmt"
)

// TileBytes is the size of one encoded tile in pattern memory.
const TileBytes = 16

// ErrPatternSize is reported for pattern data that is not a whole number
// of tiles.
var ErrPatternSize = errors.New("pattern data is not a multiple of 16 bytes")

// A Tile is an 8x8 block of 2-bit color indices in row-major order.
type Tile [64]byte

// A PatternTable is the decoded, read-only view of cartridge pattern data.
type PatternTable []Tile

// DecodeTile decodes one 16-byte chunk. Bytes 0-7 hold the low bitplane and
// bytes 8-15 the high bitplane, one row per byte, leftmost pixel in the
// most significant bit.
func DecodeTile(chunk []byte) Tile {
	var t Tile
	for row := 0; row < 8; row++ {
		lo, hi := chunk[row], chunk[row+8]
		for col := 0; col < 8; col++ {
			shift := 7 - col
			t[row*8+col] = (lo>>shift)&1 | ((hi>>shift)&1)<<1
		}
	}
	return t
}

// DecodePatterns builds a pattern table from raw pattern bytes.
func DecodePatterns(chr []byte) (PatternTable, error) {
	if len(chr)%TileBytes != 0 {
		return nil, fmt.Errorf("%w: %d bytes", ErrPatternSize, len(chr))
	}
	table := make(PatternTable, len(chr)/TileBytes)
	for i := range table {
		table[i] = DecodeTile(chr[i*TileBytes:])
	}
	return table, nil
}

// patternPixel returns the 2-bit color index of one pixel of the tile at
// index 'tile' in the pattern table starting at base, read live from VRAM.
func (m *VRAM) patternPixel(base uint16, tile byte, x, y int) byte {
	addr := base + uint16(tile)*TileBytes + uint16(y)
	lo := m.mem[addr&0x1fff]
	hi := m.mem[(addr+8)&0x1fff]
	shift := 7 - x
	return (lo>>shift)&1 | ((hi>>shift)&1)<<1
}

// Sheet lays the table out as an image tilesPerRow tiles wide and returns
// its RGBA pixels along with the image dimensions.
func (t PatternTable) Sheet(tilesPerRow int, palette [4]RGB) (pix []byte, w, h int) {
	rows := (len(t) + tilesPerRow - 1) / tilesPerRow
	w, h = tilesPerRow*8, rows*8
	pix = make([]byte, w*h*4)
	for i, tile := range t {
		ox, oy := (i%tilesPerRow)*8, (i/tilesPerRow)*8
		for j, px := range tile {
			c := palette[px&3]
			o := ((oy+j/8)*w + ox + j%8) * 4
			pix[o], pix[o+1], pix[o+2], pix[o+3] = c.R, c.G, c.B, 0xff
		}
	}
	return pix, w, h
}
