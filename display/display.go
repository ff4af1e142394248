// Copyright 2026 The nesnes Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package display shows a running console in a desktop window. The
// window holds the picture at twice its native size, a sheet of the
// cartridge's pattern tiles and a short menu:
//
//	[L]oad     reload the cartridge from disk
//	[R]eset    apply the reset entry rule
//	[S]etting  toggle the register overlay
//	[Q]uit     close the window
//
// F12 copies a PNG screenshot of the current picture to the clipboard.
package display

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"log/slog"
	"sync"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/text"
	"golang.design/x/clipboard"
	"golang.org/x/image/font/basicfont"

	"github.com/nesnes-emu/nesnes/cartridge"
	"github.com/nesnes-emu/nesnes/nes"
	"github.com/nesnes-emu/nesnes/ppu"
)

// Window geometry
const (
	Width  = 712
	Height = 480
	Scale  = 2

	sheetX      = ppu.Width*Scale + 36
	sheetY      = 16
	tilesPerRow = 16
	menuX       = ppu.Width*Scale + 16
	menuY       = Height - 40
)

var menu = []string{"[L]oad [R]eset", "[S]etting [Q]uit"}

var (
	menuColor  = color.RGBA{0xcf, 0xcf, 0xcf, 0xff}
	haltColor  = color.RGBA{0xff, 0x40, 0x40, 0xff}
	background = color.RGBA{0x20, 0x20, 0x20, 0xff}
)

// Window runs one console inside an ebiten game loop. Each tick emulates
// one frame.
type Window struct {
	path string
	opts []nes.Option
	log  *slog.Logger

	arch    *nes.Arch
	halted  error
	overlay bool

	rgba    []byte
	picture *ebiten.Image
	sheet   *ebiten.Image

	clipboardOnce sync.Once
	clipboardOK   bool
}

// New loads the cartridge at path and returns a window ready to run it.
func New(path string, log *slog.Logger, opts ...nes.Option) (*Window, error) {
	w := &Window{
		path: path,
		opts: append(opts, nes.WithLogger(log)),
		log:  log,
		rgba: make([]byte, ppu.Width*ppu.Height*4),
	}
	if err := w.load(); err != nil {
		return nil, err
	}
	return w, nil
}

func (w *Window) load() error {
	cart, err := cartridge.Load(w.path)
	if err != nil {
		return err
	}
	arch, err := nes.New(cart, w.opts...)
	if err != nil {
		return err
	}
	w.arch, w.halted, w.sheet = arch, nil, nil
	return nil
}

// Arch returns the console being shown.
func (w *Window) Arch() *nes.Arch {
	return w.arch
}

// Run opens the window and blocks until it is closed.
func (w *Window) Run() error {
	ebiten.SetWindowSize(Width, Height)
	ebiten.SetWindowTitle("nesnes - " + w.arch.Cart.String())
	err := ebiten.RunGame(w)
	if errors.Is(err, ebiten.Termination) {
		return nil
	}
	return err
}

// Update handles input and emulates one frame.
func (w *Window) Update() error {
	if ebiten.IsWindowBeingClosed() {
		return ebiten.Termination
	}

	switch {
	case inpututil.IsKeyJustPressed(ebiten.KeyQ), inpututil.IsKeyJustPressed(ebiten.KeyEscape):
		return ebiten.Termination
	case inpututil.IsKeyJustPressed(ebiten.KeyL):
		if err := w.load(); err != nil {
			w.log.Error("reload failed", "path", w.path, "err", err)
		}
	case inpututil.IsKeyJustPressed(ebiten.KeyR):
		w.arch.Reset()
		w.halted = nil
	case inpututil.IsKeyJustPressed(ebiten.KeyS):
		w.overlay = !w.overlay
	case inpututil.IsKeyJustPressed(ebiten.KeyF12):
		w.copyScreenshot()
	}

	w.arch.Pads.Pads[0].SetButtons(readButtons(ebiten.IsKeyPressed))

	if w.halted != nil {
		return nil
	}
	if err := w.arch.RunFrame(); err != nil {
		w.halted = err
	}
	return nil
}

// Draw composes the picture, pattern sheet and menu.
func (w *Window) Draw(screen *ebiten.Image) {
	screen.Fill(background)

	if w.picture == nil {
		w.picture = ebiten.NewImage(ppu.Width, ppu.Height)
	}
	w.arch.Frame().RGBA(w.rgba)
	w.picture.WritePixels(w.rgba)
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(Scale, Scale)
	screen.DrawImage(w.picture, op)

	if w.sheet == nil {
		pix, sw, sh := w.arch.PatternTable().Sheet(tilesPerRow, ppu.PreviewPalette)
		if sw > 0 && sh > 0 {
			w.sheet = ebiten.NewImage(sw, sh)
			w.sheet.WritePixels(pix)
		}
	}
	if w.sheet != nil {
		op := &ebiten.DrawImageOptions{}
		op.GeoM.Translate(sheetX, sheetY)
		screen.DrawImage(w.sheet, op)
	}

	face := basicfont.Face7x13
	for i, line := range menu {
		text.Draw(screen, line, face, menuX, menuY+i*16, menuColor)
	}
	if w.overlay {
		for i, line := range w.statusLines() {
			text.Draw(screen, line, face, 8, 20+i*15, menuColor)
		}
	}
	if w.halted != nil {
		text.Draw(screen, "HALTED: "+w.halted.Error(), face, 8, Height-10, haltColor)
	}
}

// Layout keeps the window at its fixed logical size.
func (w *Window) Layout(_, _ int) (int, int) {
	return Width, Height
}

func (w *Window) statusLines() []string {
	a := w.arch
	r := &a.CPU.Reg
	return []string{
		fmt.Sprintf("PC=$%04X A=$%02X X=$%02X Y=$%02X SP=$%02X", a.CPU.Addr(), r.A, r.X, r.Y, r.SP),
		fmt.Sprintf("FRAME=%d LINE=%d CYCLES=%d", a.PPU.Frames, a.PPU.Scanline, a.CPU.Cycles),
	}
}

func (w *Window) copyScreenshot() {
	w.clipboardOnce.Do(func() {
		w.clipboardOK = clipboard.Init() == nil
	})
	if !w.clipboardOK {
		w.log.Warn("clipboard unavailable")
		return
	}
	data, err := Screenshot(w.arch.Frame())
	if err != nil {
		w.log.Error("screenshot failed", "err", err)
		return
	}
	clipboard.Write(clipboard.FmtImage, data)
	w.log.Info("screenshot copied", "frame", w.arch.PPU.Frames)
}

// Screenshot encodes a frame as a PNG image.
func Screenshot(f *ppu.Frame) ([]byte, error) {
	img := image.NewRGBA(image.Rect(0, 0, ppu.Width, ppu.Height))
	f.RGBA(img.Pix)
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
