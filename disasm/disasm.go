// Copyright 2026 The nesnes Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package disasm implements a 2A03 instruction set
// disassembler.
package disasm

import (
	"fmt"
	"strings"

	"github.com/nesnes-emu/nesnes/cpu"
)

// Disassembler formatting for addressing modes
var modeFormat = []string{
	"#$%s",    // IMM
	"",        // IMP
	"$%s",     // REL
	"$%s",     // ZPG
	"$%s,X",   // ZPX
	"$%s,Y",   // ZPY
	"$%s",     // ABS
	"$%s,X",   // ABX
	"$%s,Y",   // ABY
	"($%s)",   // IND
	"($%s,X)", // IDX
	"($%s),Y", // IDY
	"A",       // ACC
}

// Memory is the side-effect free view of the address space the
// disassembler reads from.
type Memory interface {
	Peek(addr uint16) byte
}

var hex = "0123456789ABCDEF"

// Return a hexadecimal string of the little-endian byte slice, most
// significant byte first.
func hexString(b []byte) string {
	hexlen := len(b) * 2
	hexbuf := make([]byte, hexlen)
	j := hexlen - 1
	for _, n := range b {
		hexbuf[j] = hex[n&0xf]
		hexbuf[j-1] = hex[n>>4]
		j -= 2
	}
	return string(hexbuf)
}

// Disassemble the machine code in memory 'm' at CPU address 'addr'.
// Return a 'line' string representing the disassembled instruction and a
// 'next' address that starts the following line of machine code.
// Unmapped opcodes disassemble as "???".
func Disassemble(m Memory, addr uint16) (line string, next uint16) {
	opcode := m.Peek(addr)
	inst := cpu.GetInstructionSet().Lookup(opcode)
	next = addr + uint16(inst.Length)

	n := int(inst.Length) - 1
	if inst.Mode == cpu.IMP || inst.Mode == cpu.ACC {
		n = 0
	}
	operand := make([]byte, n)
	for i := range operand {
		operand[i] = m.Peek(addr + 1 + uint16(i))
	}

	if inst.Mode == cpu.REL {
		// Convert relative offset to absolute address.
		target := next + uint16(int8(operand[0]))
		operand = []byte{byte(target), byte(target >> 8)}
	}

	format := modeFormat[inst.Mode]
	if strings.Contains(format, "%s") {
		format = fmt.Sprintf(format, hexString(operand))
	}
	line = strings.TrimSpace(inst.Name + " " + format)
	return
}

// Bytes returns the machine code of the instruction at addr as a string
// of space-separated hex pairs.
func Bytes(m Memory, addr uint16) string {
	inst := cpu.GetInstructionSet().Lookup(m.Peek(addr))
	var b strings.Builder
	for i := 0; i < int(inst.Length); i++ {
		if i > 0 {
			b.WriteByte(' ')
		}
		v := m.Peek(addr + uint16(i))
		b.WriteByte(hex[v>>4])
		b.WriteByte(hex[v&0xf])
	}
	return b.String()
}
