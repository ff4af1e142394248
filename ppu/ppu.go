// Copyright 2026 The nesnes Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package ppu implements the NES picture processing unit: its CPU-visible
// registers, its mirrored video memory, and the scanline state machine
// that renders 8-line bands into a framebuffer.
//
// The PPU is driven externally. The owner calls Advance once per executed
// CPU instruction with three PPU cycles per CPU cycle; Advance never
// blocks.
package ppu

import "log/slog"

// Timing constants
const (
	CyclesPerLine = 341
	VisibleLines  = 240
	FlushLine     = 240
	VBlankLine    = 241
	PreRenderLine = 261
	LinesPerFrame = 262
	BandHeight    = 8
)

// PPU is one picture processing unit.
type PPU struct {
	Reg  Registers
	VRAM VRAM
	OAM  [256]byte

	Cycle    int    // cycle within the current scanline
	Scanline int    // current scanline, 0-261
	Frames   uint64 // completed frames

	patterns PatternTable
	back     Frame
	front    Frame
	bgOpaque [Width * BandHeight]bool
	sink     FrameSink
	onNMI    func()
	log      *slog.Logger
}

// An Option configures a PPU.
type Option func(p *PPU)

// WithFrameSink delivers every completed frame to sink.
func WithFrameSink(sink FrameSink) Option {
	return func(p *PPU) { p.sink = sink }
}

// WithNMI installs the callback that receives NMI requests.
func WithNMI(fn func()) Option {
	return func(p *PPU) { p.onNMI = fn }
}

// WithLogger sets the logger used for frame and interrupt tracing.
func WithLogger(l *slog.Logger) Option {
	return func(p *PPU) { p.log = l }
}

// New creates a PPU loaded with the cartridge pattern data. An empty chr
// slice selects 8 KB of writable CHR RAM.
func New(chr []byte, mirroring Mirroring, opts ...Option) (*PPU, error) {
	patterns, err := DecodePatterns(chr)
	if err != nil {
		return nil, err
	}

	p := &PPU{patterns: patterns, log: slog.Default()}
	for _, opt := range opts {
		opt(p)
	}

	p.VRAM.mirroring = mirroring
	p.VRAM.chrWritable = len(chr) == 0
	copy(p.VRAM.mem[:0x2000], chr)
	p.Reset()
	return p, nil
}

// SetFrameSink replaces the frame sink. A nil sink discards frames.
func (p *PPU) SetFrameSink(sink FrameSink) {
	p.sink = sink
}

// SetNMIHandler replaces the NMI callback.
func (p *PPU) SetNMIHandler(fn func()) {
	p.onNMI = fn
}

// Reset returns registers and timing to their power-on state and starts
// a new frame at line 0. Video memory is preserved.
func (p *PPU) Reset() {
	p.Reg.reset()
	p.Cycle = 0
	p.Scanline = 0
	p.renderBand(0)
}

// PatternTable returns the pattern table decoded from cartridge data.
func (p *PPU) PatternTable() PatternTable {
	return p.patterns
}

// Frame returns the most recently completed frame.
func (p *PPU) Frame() *Frame {
	return &p.front
}

// Mirroring returns the nametable arrangement in use.
func (p *PPU) Mirroring() Mirroring {
	return p.VRAM.mirroring
}

// Advance moves the timing state machine forward by cycles PPU cycles,
// firing the events of every scanline boundary it crosses.
func (p *PPU) Advance(cycles int) {
	p.Cycle += cycles
	for p.Cycle >= CyclesPerLine {
		p.Cycle -= CyclesPerLine
		p.Scanline++
		p.enterScanline()
	}
}

func (p *PPU) enterScanline() {
	switch line := p.Scanline; {
	case line < VisibleLines:
		if line%BandHeight == 0 {
			p.renderBand(line)
		}
	case line == FlushLine:
		p.flush()
	case line == VBlankLine:
		p.Reg.Status |= StatusVBlank
		if p.Reg.Ctrl&CtrlNMI != 0 {
			p.signalNMI()
		}
	case line == PreRenderLine:
		p.Reg.Status &^= StatusVBlank | StatusSpriteZero | StatusOverflow
	case line >= LinesPerFrame:
		p.Scanline = 0
		p.Frames++
		p.renderBand(0)
	}
}

func (p *PPU) flush() {
	p.front = p.back
	if p.sink != nil {
		p.sink.Present(&p.front)
	}
	p.log.Debug("frame flushed", "frame", p.Frames)
}

func (p *PPU) signalNMI() {
	p.log.Debug("nmi", "frame", p.Frames, "scanline", p.Scanline)
	if p.onNMI != nil {
		p.onNMI()
	}
}
