// Copyright 2026 The nesnes Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package host

import (
	"fmt"
	"strings"

	"github.com/nesnes-emu/nesnes/controller"
	"github.com/nesnes-emu/nesnes/cpu"
)

func stringToBool(s string) (bool, error) {
	s = strings.ToLower(s)
	switch s {
	case "0", "false", "off":
		return false, nil
	case "1", "true", "on":
		return true, nil
	default:
		return false, fmt.Errorf("invalid bool value '%s'", s)
	}
}

func intToBool(v int) bool {
	return v != 0
}

var hexString = "0123456789ABCDEF"

func addrToBuf(addr uint16, b []byte) {
	b[0] = hexString[(addr>>12)&0xf]
	b[1] = hexString[(addr>>8)&0xf]
	b[2] = hexString[(addr>>4)&0xf]
	b[3] = hexString[addr&0xf]
}

func byteToBuf(v byte, b []byte) {
	b[0] = hexString[(v>>4)&0xf]
	b[1] = hexString[v&0xf]
}

func toPrintableChar(v byte) byte {
	if v >= 32 && v < 127 {
		return v
	}
	return '.'
}

// registerString formats the CPU registers on one line. PC is shown as
// a CPU address.
func registerString(r *cpu.Registers) string {
	flags := []byte("NV-BDIZC")
	set := []bool{r.Negative, r.Overflow, true, r.Break, false, r.InterruptDisable, r.Zero, r.Carry}
	for i, on := range set {
		if !on {
			flags[i] = '-'
		}
	}
	return fmt.Sprintf("A=%02X X=%02X Y=%02X PS=[%s] SP=%02X PC=%04X",
		r.A, r.X, r.Y, flags, r.SP, cpu.ProgramBase+r.PC)
}

// parseButtons parses a '+'-separated list of joypad button names, such
// as "A+Start". The name "none" releases every button.
func parseButtons(s string) (controller.Button, error) {
	if strings.EqualFold(s, "none") {
		return 0, nil
	}
	var b controller.Button
	for _, name := range strings.Split(s, "+") {
		found := false
		for i := 0; i < 8; i++ {
			btn := controller.Button(1 << i)
			if strings.EqualFold(btn.String(), name) {
				b |= btn
				found = true
				break
			}
		}
		if !found {
			return 0, fmt.Errorf("unknown button '%s'", name)
		}
	}
	return b, nil
}

func buttonsString(b controller.Button) string {
	if b == 0 {
		return "none"
	}
	return b.String()
}

// indentWrap word-wraps s to 76 columns, indenting each line by n spaces.
func indentWrap(n int, s string) string {
	const width = 76
	indent := strings.Repeat(" ", n)

	var b strings.Builder
	col := 0
	for _, w := range strings.Fields(s) {
		switch {
		case col == 0:
			b.WriteString(indent)
			col = n
		case col+1+len(w) > width:
			b.WriteString("\n")
			b.WriteString(indent)
			col = n
		default:
			b.WriteByte(' ')
			col++
		}
		b.WriteString(w)
		col += len(w)
	}
	return b.String()
}
