// Copyright 2026 The nesnes Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ppu

// Output resolution
const (
	Width  = 256
	Height = 240
)

// A Frame is a completed picture as packed RGB triples, row-major.
type Frame struct {
	Pix [Width * Height * 3]byte
}

// Set stores the color of the pixel at (x, y).
func (f *Frame) Set(x, y int, c RGB) {
	i := (y*Width + x) * 3
	f.Pix[i] = c.R
	f.Pix[i+1] = c.G
	f.Pix[i+2] = c.B
}

// At returns the color of the pixel at (x, y).
func (f *Frame) At(x, y int) RGB {
	i := (y*Width + x) * 3
	return RGB{f.Pix[i], f.Pix[i+1], f.Pix[i+2]}
}

// RGBA expands the frame into dst as 8-bit RGBA, the layout expected by
// most image and texture APIs. dst must hold Width*Height*4 bytes.
func (f *Frame) RGBA(dst []byte) {
	for i, j := 0, 0; i < len(f.Pix); i, j = i+3, j+4 {
		dst[j] = f.Pix[i]
		dst[j+1] = f.Pix[i+1]
		dst[j+2] = f.Pix[i+2]
		dst[j+3] = 0xff
	}
}

// A FrameSink receives every completed frame. The frame is only valid
// until Present returns.
type FrameSink interface {
	Present(f *Frame)
}

// FrameSinkFunc adapts an ordinary function to the FrameSink interface.
type FrameSinkFunc func(f *Frame)

// Present calls fn(f).
func (fn FrameSinkFunc) Present(f *Frame) {
	fn(f)
}
