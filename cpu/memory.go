// Copyright 2026 The nesnes Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cpu

import (
	"errors"
	"fmt"
)

// ProgramBase is the CPU address at which program memory begins. The
// program counter is an offset from this address.
const ProgramBase = 0x8000

// Errors
var (
	ErrUnknownOpcode = errors.New("unknown opcode")
	ErrUnimplemented = errors.New("unimplemented operation")
)

// A DecodeError reports an instruction that could not be executed: an
// unmapped opcode, an operand shape the operation cannot use, or a bus
// access outside every mapped range. It is never recoverable.
type DecodeError struct {
	Addr   uint16 // CPU address of the opcode
	Opcode byte   // opcode being executed
	Err    error  // underlying cause
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode error at $%04X (opcode $%02X): %v", e.Addr, e.Opcode, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// The Bus interface presents the CPU's view of the address space. All
// memory accesses made by instructions go through it.
type Bus interface {
	// Read loads a single byte from the address. Reads may have side
	// effects on mapped registers.
	Read(addr uint16) (byte, error)

	// Write stores a byte to the address.
	Write(addr uint16, v byte) error
}

// FlatMemory represents an entire 16-bit address space as a singular
// 64K buffer. Every address is mapped.
type FlatMemory struct {
	b [64 * 1024]byte
}

// NewFlatMemory creates a new 16-bit memory space.
func NewFlatMemory() *FlatMemory {
	return &FlatMemory{}
}

// Read loads a single byte from the address and returns it.
func (m *FlatMemory) Read(addr uint16) (byte, error) {
	return m.b[addr], nil
}

// Write stores a byte at the requested address.
func (m *FlatMemory) Write(addr uint16, v byte) error {
	m.b[addr] = v
	return nil
}

// Peek loads a byte without side effects.
func (m *FlatMemory) Peek(addr uint16) byte {
	return m.b[addr]
}

// StoreBytes copies b into memory starting at addr, wrapping at the top
// of the address space.
func (m *FlatMemory) StoreBytes(addr uint16, b []byte) {
	for i, v := range b {
		m.b[addr+uint16(i)] = v
	}
}
