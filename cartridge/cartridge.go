// Copyright 2026 The nesnes Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package cartridge parses iNES cartridge images.
package cartridge

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
)

// iNES layout
const (
	HeaderSize  = 16
	TrainerSize = 512
	PRGPageSize = 0x4000
	CHRPageSize = 0x2000
)

// Magic is the signature at the start of every iNES image.
var Magic = []byte{'N', 'E', 'S', 0x1a}

// Flags 6 bits
const (
	FlagVertical   = 0x01
	FlagBattery    = 0x02
	FlagTrainer    = 0x04
	FlagFourScreen = 0x08
)

// Errors
var (
	ErrBadMagic          = errors.New("missing iNES signature")
	ErrTruncated         = errors.New("image is truncated")
	ErrNoProgram         = errors.New("image has no program pages")
	ErrUnsupportedMapper = errors.New("unsupported mapper")
)

// A FormatError reports a cartridge image that cannot be loaded.
type FormatError struct {
	Path string // file name, if loaded from disk
	Err  error
}

func (e *FormatError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("cartridge %s: %v", e.Path, e.Err)
	}
	return fmt.Sprintf("cartridge: %v", e.Err)
}

func (e *FormatError) Unwrap() error {
	return e.Err
}

// Cartridge is a parsed iNES image.
type Cartridge struct {
	PRG     []byte // program data, a multiple of 16 KB
	CHR     []byte // pattern data, a multiple of 8 KB; empty for CHR RAM
	Trainer []byte // optional 512-byte trainer
	Flags6  byte
	Flags7  byte
	Mapper  byte
}

// Vertical reports whether the image requests vertical nametable
// mirroring.
func (c *Cartridge) Vertical() bool {
	return c.Flags6&FlagVertical != 0
}

// Battery reports whether the image has battery-backed RAM.
func (c *Cartridge) Battery() bool {
	return c.Flags6&FlagBattery != 0
}

func (c *Cartridge) String() string {
	mirroring := "horizontal"
	if c.Vertical() {
		mirroring = "vertical"
	}
	s := fmt.Sprintf("mapper %d, %d KB PRG, %d KB CHR, %s mirroring",
		c.Mapper, len(c.PRG)/1024, len(c.CHR)/1024, mirroring)
	if c.Battery() {
		s += ", battery"
	}
	return s
}

// Parse reads an iNES image. Only mapper 0 (NROM) is accepted.
func Parse(r io.Reader) (*Cartridge, error) {
	var header [HeaderSize]byte
	if _, err := io.ReadFull(r, header[:]); err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return nil, &FormatError{Err: ErrTruncated}
		}
		return nil, err
	}
	if !bytes.Equal(header[:4], Magic) {
		return nil, &FormatError{Err: ErrBadMagic}
	}

	c := &Cartridge{
		Flags6: header[6],
		Flags7: header[7],
		Mapper: header[7]&0xf0 | header[6]>>4,
	}
	if c.Mapper != 0 {
		return nil, &FormatError{Err: fmt.Errorf("%w %d", ErrUnsupportedMapper, c.Mapper)}
	}

	prgPages, chrPages := int(header[4]), int(header[5])
	if prgPages == 0 {
		return nil, &FormatError{Err: ErrNoProgram}
	}

	read := func(n int) ([]byte, error) {
		b := make([]byte, n)
		if _, err := io.ReadFull(r, b); err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
				return nil, &FormatError{Err: ErrTruncated}
			}
			return nil, err
		}
		return b, nil
	}

	var err error
	if c.Flags6&FlagTrainer != 0 {
		if c.Trainer, err = read(TrainerSize); err != nil {
			return nil, err
		}
	}
	if c.PRG, err = read(prgPages * PRGPageSize); err != nil {
		return nil, err
	}
	if c.CHR, err = read(chrPages * CHRPageSize); err != nil {
		return nil, err
	}
	return c, nil
}

// Load reads and parses the iNES image at path.
func Load(path string) (*Cartridge, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	c, err := Parse(f)
	if err != nil {
		var fe *FormatError
		if errors.As(err, &fe) {
			fe.Path = path
		}
		return nil, err
	}
	return c, nil
}

// Build assembles an iNES image from its parts. It is the inverse of Parse
// for mapper 0 images without a trainer.
func Build(prg, chr []byte, flags6 byte) []byte {
	var buf bytes.Buffer
	buf.Write(Magic)
	buf.WriteByte(byte(len(prg) / PRGPageSize))
	buf.WriteByte(byte(len(chr) / CHRPageSize))
	buf.WriteByte(flags6 &^ FlagTrainer)
	buf.Write(make([]byte, HeaderSize-7))
	buf.Write(prg)
	buf.Write(chr)
	return buf.Bytes()
}
