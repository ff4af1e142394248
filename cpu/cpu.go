// Copyright 2026 The nesnes Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package cpu implements the 2A03 processor used by the NES: an NMOS 6502
// core without decimal mode. The program counter addresses program memory
// relative to ProgramBase, and each call to Step executes one complete
// instruction.
package cpu

// OperandKind tags the shape of a resolved operand.
type OperandKind byte

// Operand kinds
const (
	OperandNone        OperandKind = iota // implied, no operand
	OperandAccumulator                    // operate on the accumulator
	OperandAddress                        // a resolved 16-bit address
	OperandValue                          // an immediate 8-bit value
)

// An Operand is the result of resolving an instruction's addressing mode.
type Operand struct {
	Kind  OperandKind
	Addr  uint16 // valid when Kind is OperandAddress
	Value byte   // valid when Kind is OperandValue
}

// CPU represents a single 2A03 CPU attached to a bus.
type CPU struct {
	Reg       Registers       // CPU registers
	Bus       Bus             // assigned address bus
	Cycles    uint64          // total executed CPU cycles
	LastPC    uint16          // program counter of the last instruction
	InstSet   *InstructionSet // instruction set used by the CPU
	debugger  *Debugger
	fault     error
	storeByte func(cpu *CPU, addr uint16, v byte)
}

// NewCPU creates an emulated CPU bound to the specified bus.
func NewCPU(bus Bus) *CPU {
	cpu := &CPU{
		Bus:       bus,
		InstSet:   GetInstructionSet(),
		storeByte: (*CPU).storeByteNormal,
	}
	cpu.Reg.Init()
	return cpu
}

// SetPC updates the program counter to the program-memory offset 'pc'.
func (cpu *CPU) SetPC(pc uint16) {
	cpu.Reg.PC = pc
}

// Addr returns the CPU address the program counter currently points at.
func (cpu *CPU) Addr() uint16 {
	return ProgramBase + cpu.Reg.PC
}

// NMI signals a non-maskable interrupt. Only the register-set entry rule
// is applied; the CPU does not push state or jump through the vector.
func (cpu *CPU) NMI() {
	cpu.Reg.NMI()
}

// IRQ signals a maskable interrupt. It is ignored while interrupts are
// disabled; otherwise only the register-set entry rule is applied.
func (cpu *CPU) IRQ() {
	if !cpu.Reg.InterruptDisable {
		cpu.Reg.IRQ()
	}
}

// Step executes one full instruction and returns its base cycle count.
// Any error is a *DecodeError and leaves the CPU in an undefined state.
func (cpu *CPU) Step() (int, error) {
	cpu.fault = nil
	addr := cpu.Addr()

	opcode := cpu.fetch()
	if cpu.fault != nil {
		return 0, &DecodeError{Addr: addr, Opcode: opcode, Err: cpu.fault}
	}

	inst := cpu.InstSet.Lookup(opcode)
	if inst.fn == nil {
		return 0, &DecodeError{Addr: addr, Opcode: opcode, Err: ErrUnknownOpcode}
	}

	cpu.LastPC = addr - ProgramBase
	op := cpu.resolve(inst.Mode)
	if cpu.fault == nil {
		inst.fn(cpu, inst, op)
	}
	if cpu.fault != nil {
		return 0, &DecodeError{Addr: addr, Opcode: opcode, Err: cpu.fault}
	}

	cpu.Cycles += uint64(inst.Cycles)

	if cpu.debugger != nil {
		cpu.debugger.onUpdatePC(cpu, cpu.Addr())
	}
	return int(inst.Cycles), nil
}

// AttachDebugger attaches a debugger to the CPU. The debugger receives
// notifications whenever the CPU executes an instruction or stores a byte
// to memory.
func (cpu *CPU) AttachDebugger(debugger *Debugger) {
	cpu.debugger = debugger
	cpu.storeByte = (*CPU).storeByteDebugger
}

// DetachDebugger detaches the current debugger from the CPU.
func (cpu *CPU) DetachDebugger() {
	cpu.debugger = nil
	cpu.storeByte = (*CPU).storeByteNormal
}

// fail records the first fault raised while executing an instruction.
func (cpu *CPU) fail(err error) {
	if cpu.fault == nil {
		cpu.fault = err
	}
}

func (cpu *CPU) read(addr uint16) byte {
	v, err := cpu.Bus.Read(addr)
	if err != nil {
		cpu.fail(err)
	}
	return v
}

// readZeroPageAddress loads a little-endian pointer from zero page. The
// high byte wraps within the page.
func (cpu *CPU) readZeroPageAddress(zp byte) uint16 {
	lo := cpu.read(uint16(zp))
	hi := cpu.read(uint16(zp + 1))
	return uint16(lo) | uint16(hi)<<8
}

// fetch consumes the next byte of program memory.
func (cpu *CPU) fetch() byte {
	v := cpu.read(ProgramBase + cpu.Reg.PC)
	cpu.Reg.PC++
	return v
}

func (cpu *CPU) fetchAddress() uint16 {
	lo := cpu.fetch()
	hi := cpu.fetch()
	return uint16(lo) | uint16(hi)<<8
}

// resolve consumes the operand bytes for the addressing mode and returns
// the operand they describe.
func (cpu *CPU) resolve(mode Mode) Operand {
	switch mode {
	case IMP:
		return Operand{Kind: OperandNone}
	case ACC:
		return Operand{Kind: OperandAccumulator}
	case IMM:
		return Operand{Kind: OperandValue, Value: cpu.fetch()}
	case ZPG:
		return address(uint16(cpu.fetch()))
	case ZPX:
		return address(uint16(cpu.fetch() + cpu.Reg.X))
	case ZPY:
		return address(uint16(cpu.fetch() + cpu.Reg.Y))
	case REL:
		offset := int8(cpu.fetch())
		return address(cpu.Addr() + uint16(offset))
	case ABS:
		return address(cpu.fetchAddress())
	case ABX:
		return address(cpu.fetchAddress() + uint16(cpu.Reg.X))
	case ABY:
		return address(cpu.fetchAddress() + uint16(cpu.Reg.Y))
	case IND:
		// The NMOS part never carries into the high byte of the pointer,
		// so JMP ($12FF) reads its high byte from $1200.
		ptr := cpu.fetchAddress()
		lo := cpu.read(ptr)
		hi := cpu.read(ptr&0xff00 | uint16(byte(ptr)+1))
		return address(uint16(lo) | uint16(hi)<<8)
	case IDX:
		zp := cpu.fetch() + cpu.Reg.X
		return address(cpu.readZeroPageAddress(zp))
	case IDY:
		zp := cpu.fetch()
		return address(cpu.readZeroPageAddress(zp) + uint16(cpu.Reg.Y))
	default:
		cpu.fail(ErrUnimplemented)
		return Operand{}
	}
}

func address(addr uint16) Operand {
	return Operand{Kind: OperandAddress, Addr: addr}
}

// load returns the byte an operand refers to.
func (cpu *CPU) load(op Operand) byte {
	switch op.Kind {
	case OperandValue:
		return op.Value
	case OperandAddress:
		return cpu.read(op.Addr)
	case OperandAccumulator:
		return cpu.Reg.A
	default:
		cpu.fail(ErrUnimplemented)
		return 0
	}
}

// store writes v to the location an operand refers to.
func (cpu *CPU) store(op Operand, v byte) {
	switch op.Kind {
	case OperandAddress:
		cpu.storeByte(cpu, op.Addr, v)
	case OperandAccumulator:
		cpu.Reg.A = v
	default:
		cpu.fail(ErrUnimplemented)
	}
}

// target returns the address an operand refers to, failing for operands
// that do not name a location.
func (cpu *CPU) target(op Operand) uint16 {
	if op.Kind != OperandAddress {
		cpu.fail(ErrUnimplemented)
	}
	return op.Addr
}

// Execute a branch to the operand's target if cond is true.
func (cpu *CPU) branch(cond bool, op Operand) {
	addr := cpu.target(op)
	if cond {
		cpu.Reg.PC = addr - ProgramBase
	}
}

func (cpu *CPU) storeByteNormal(addr uint16, v byte) {
	if err := cpu.Bus.Write(addr, v); err != nil {
		cpu.fail(err)
	}
}

func (cpu *CPU) storeByteDebugger(addr uint16, v byte) {
	cpu.debugger.onDataStore(cpu, addr, v)
	cpu.storeByteNormal(addr, v)
}

func stackAddress(sp byte) uint16 {
	return 0x100 | uint16(sp)
}

// Push a value 'v' onto the stack.
func (cpu *CPU) push(v byte) {
	cpu.storeByte(cpu, stackAddress(cpu.Reg.SP), v)
	cpu.Reg.SP--
}

// Push the address 'addr' onto the stack, high byte first.
func (cpu *CPU) pushAddress(addr uint16) {
	cpu.push(byte(addr >> 8))
	cpu.push(byte(addr))
}

// Pop a value from the stack and return it.
func (cpu *CPU) pop() byte {
	cpu.Reg.SP++
	return cpu.read(stackAddress(cpu.Reg.SP))
}

// Pop a 16-bit address off the stack, low byte first.
func (cpu *CPU) popAddress() uint16 {
	lo := cpu.pop()
	hi := cpu.pop()
	return uint16(lo) | (uint16(hi) << 8)
}

// Update the Zero and Negative flags based on the value of 'v'.
func (cpu *CPU) updateNZ(v byte) {
	cpu.Reg.Zero = (v == 0)
	cpu.Reg.Negative = ((v & 0x80) != 0)
}

func (cpu *CPU) apply(r Result) {
	cpu.Reg.Carry = r.Carry
	cpu.Reg.Zero = r.Zero
	cpu.Reg.Negative = r.Negative
}
