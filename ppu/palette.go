// Copyright 2026 The nesnes Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ppu

// An RGB is one 24-bit output color.
type RGB struct {
	R, G, B byte
}

// SystemPalette maps the 64 PPU color indices to RGB.
var SystemPalette = [64]RGB{
	{0x7c, 0x7c, 0x7c}, {0x00, 0x00, 0xfc}, {0x00, 0x00, 0xbc}, {0x44, 0x28, 0xbc},
	{0x94, 0x00, 0x84}, {0xa8, 0x00, 0x20}, {0xa8, 0x10, 0x00}, {0x88, 0x14, 0x00},
	{0x50, 0x30, 0x00}, {0x00, 0x78, 0x00}, {0x00, 0x68, 0x00}, {0x00, 0x58, 0x00},
	{0x00, 0x40, 0x58}, {0x00, 0x00, 0x00}, {0x00, 0x00, 0x00}, {0x00, 0x00, 0x00},
	{0xbc, 0xbc, 0xbc}, {0x00, 0x78, 0xf8}, {0x00, 0x58, 0xf8}, {0x68, 0x44, 0xfc},
	{0xd8, 0x00, 0xcc}, {0xe4, 0x00, 0x58}, {0xf8, 0x38, 0x00}, {0xe4, 0x5c, 0x10},
	{0xac, 0x7c, 0x00}, {0x00, 0xb8, 0x00}, {0x00, 0xa8, 0x00}, {0x00, 0xa8, 0x44},
	{0x00, 0x88, 0x88}, {0x00, 0x00, 0x00}, {0x00, 0x00, 0x00}, {0x00, 0x00, 0x00},
	{0xf8, 0xf8, 0xf8}, {0x3c, 0xbc, 0xfc}, {0x68, 0x88, 0xfc}, {0x98, 0x78, 0xf8},
	{0xf8, 0x78, 0xf8}, {0xf8, 0x58, 0x98}, {0xf8, 0x78, 0x58}, {0xfc, 0xa0, 0x44},
	{0xf8, 0xb8, 0x00}, {0xb8, 0xf8, 0x18}, {0x58, 0xd8, 0x54}, {0x58, 0xf8, 0x98},
	{0x00, 0xe8, 0xd8}, {0x78, 0x78, 0x78}, {0x00, 0x00, 0x00}, {0x00, 0x00, 0x00},
	{0xfc, 0xfc, 0xfc}, {0xa4, 0xe4, 0xfc}, {0xb8, 0xb8, 0xf8}, {0xd8, 0xb8, 0xf8},
	{0xf8, 0xb8, 0xf8}, {0xf8, 0xa4, 0xc0}, {0xf0, 0xd0, 0xb0}, {0xfc, 0xe0, 0xa8},
	{0xf8, 0xd8, 0x78}, {0xd8, 0xf8, 0x78}, {0xb8, 0xf8, 0xb8}, {0xb8, 0xf8, 0xd8},
	{0x00, 0xfc, 0xfc}, {0xf8, 0xd8, 0xf8}, {0x00, 0x00, 0x00}, {0x00, 0x00, 0x00},
}

// PreviewPalette is the fixed four-color ramp used to show raw pattern
// tiles outside of any game palette.
var PreviewPalette = [4]RGB{
	{0x00, 0x00, 0x00},
	{0xcf, 0x29, 0x50},
	{0xff, 0xff, 0xff},
	{0x99, 0xff, 0xfc},
}
