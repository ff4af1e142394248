// Copyright 2026 The nesnes Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package controller implements the standard NES joypad shift register.
package controller

import "strings"

// Button is one bit of the joypad report, in shift order.
type Button byte

// Buttons
const (
	ButtonA Button = 1 << iota
	ButtonB
	ButtonSelect
	ButtonStart
	ButtonUp
	ButtonDown
	ButtonLeft
	ButtonRight
)

var buttonNames = []string{"A", "B", "Select", "Start", "Up", "Down", "Left", "Right"}

func (b Button) String() string {
	var names []string
	for i, n := range buttonNames {
		if b&(1<<i) != 0 {
			names = append(names, n)
		}
	}
	return strings.Join(names, "+")
}

// A Pad is one joypad. While strobe is high the shift register reloads
// continuously; once it falls, each read returns the next button.
type Pad struct {
	buttons Button
	shift   byte
	strobe  bool
}

// SetButtons replaces the set of held buttons.
func (p *Pad) SetButtons(b Button) {
	p.buttons = b
	if p.strobe {
		p.shift = byte(b)
	}
}

// Press marks a button as held or released.
func (p *Pad) Press(b Button, down bool) {
	if down {
		p.SetButtons(p.buttons | b)
	} else {
		p.SetButtons(p.buttons &^ b)
	}
}

// Buttons returns the held buttons.
func (p *Pad) Buttons() Button {
	return p.buttons
}

// Strobe handles a write to $4016.
func (p *Pad) Strobe(v byte) {
	p.strobe = v&1 != 0
	if p.strobe {
		p.shift = byte(p.buttons)
	}
}

// Read returns the next report bit. After all eight buttons have been
// shifted out, reads return 1.
func (p *Pad) Read() byte {
	if p.strobe {
		return byte(p.buttons) & 1
	}
	v := p.shift & 1
	p.shift = p.shift>>1 | 0x80
	return v
}

// Ports holds the two joypad ports at $4016 and $4017.
type Ports struct {
	Pads [2]Pad
}

// Write strobes both pads.
func (c *Ports) Write(v byte) {
	c.Pads[0].Strobe(v)
	c.Pads[1].Strobe(v)
}

// Read returns the report bit of the given port (0 or 1). Bit 6 reflects
// open bus, as on hardware.
func (c *Ports) Read(port int) byte {
	return 0x40 | c.Pads[port&1].Read()
}
