// Copyright 2026 The nesnes Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cpu

// Add with carry
func (cpu *CPU) adc(inst *Instruction, op Operand) {
	r := Add(cpu.Reg.A, cpu.load(op), cpu.Reg.Carry)
	cpu.Reg.A = r.Value
	cpu.apply(r)
	cpu.Reg.Overflow = r.Overflow
}

// Boolean AND
func (cpu *CPU) and(inst *Instruction, op Operand) {
	cpu.Reg.A &= cpu.load(op)
	cpu.updateNZ(cpu.Reg.A)
}

// Arithmetic Shift Left
func (cpu *CPU) asl(inst *Instruction, op Operand) {
	v := cpu.load(op)
	cpu.Reg.Carry = ((v & 0x80) == 0x80)
	v = v << 1
	cpu.updateNZ(v)
	cpu.store(op, v)
}

// Branch if Carry Clear
func (cpu *CPU) bcc(inst *Instruction, op Operand) {
	cpu.branch(!cpu.Reg.Carry, op)
}

// Branch if Carry Set
func (cpu *CPU) bcs(inst *Instruction, op Operand) {
	cpu.branch(cpu.Reg.Carry, op)
}

// Branch if EQual (to zero)
func (cpu *CPU) beq(inst *Instruction, op Operand) {
	cpu.branch(cpu.Reg.Zero, op)
}

// Bit Test
func (cpu *CPU) bit(inst *Instruction, op Operand) {
	v := cpu.load(op)
	cpu.Reg.Zero = ((v & cpu.Reg.A) == 0)
	cpu.Reg.Negative = ((v & 0x80) != 0)
	cpu.Reg.Overflow = ((v & 0x40) != 0)
}

// Branch if MInus (negative)
func (cpu *CPU) bmi(inst *Instruction, op Operand) {
	cpu.branch(cpu.Reg.Negative, op)
}

// Branch if Not Equal (not zero)
func (cpu *CPU) bne(inst *Instruction, op Operand) {
	cpu.branch(!cpu.Reg.Zero, op)
}

// Branch if PLus (positive)
func (cpu *CPU) bpl(inst *Instruction, op Operand) {
	cpu.branch(!cpu.Reg.Negative, op)
}

// Break. The padding byte is consumed and the interrupt flags are set;
// there is no stack push and no jump through the IRQ vector.
func (cpu *CPU) brk(inst *Instruction, op Operand) {
	cpu.fetch()
	cpu.Reg.InterruptDisable = true
	cpu.Reg.Break = true
}

// Branch if oVerflow Clear
func (cpu *CPU) bvc(inst *Instruction, op Operand) {
	cpu.branch(!cpu.Reg.Overflow, op)
}

// Branch if oVerflow Set
func (cpu *CPU) bvs(inst *Instruction, op Operand) {
	cpu.branch(cpu.Reg.Overflow, op)
}

// Clear Carry flag
func (cpu *CPU) clc(inst *Instruction, op Operand) {
	cpu.Reg.Carry = false
}

// Clear InterruptDisable flag
func (cpu *CPU) cli(inst *Instruction, op Operand) {
	cpu.Reg.InterruptDisable = false
}

// Clear oVerflow flag
func (cpu *CPU) clv(inst *Instruction, op Operand) {
	cpu.Reg.Overflow = false
}

// Compare to accumulator
func (cpu *CPU) cmp(inst *Instruction, op Operand) {
	cpu.apply(Compare(cpu.Reg.A, cpu.load(op)))
}

// Compare to X register
func (cpu *CPU) cpx(inst *Instruction, op Operand) {
	cpu.apply(Compare(cpu.Reg.X, cpu.load(op)))
}

// Compare to Y register
func (cpu *CPU) cpy(inst *Instruction, op Operand) {
	cpu.apply(Compare(cpu.Reg.Y, cpu.load(op)))
}

// Decrement memory value
func (cpu *CPU) dec(inst *Instruction, op Operand) {
	r := Decrement(cpu.load(op))
	cpu.updateNZ(r.Value)
	cpu.store(op, r.Value)
}

// Decrement X register
func (cpu *CPU) dex(inst *Instruction, op Operand) {
	cpu.Reg.X = Decrement(cpu.Reg.X).Value
	cpu.updateNZ(cpu.Reg.X)
}

// Decrement Y register
func (cpu *CPU) dey(inst *Instruction, op Operand) {
	cpu.Reg.Y = Decrement(cpu.Reg.Y).Value
	cpu.updateNZ(cpu.Reg.Y)
}

// Boolean XOR
func (cpu *CPU) eor(inst *Instruction, op Operand) {
	cpu.Reg.A ^= cpu.load(op)
	cpu.updateNZ(cpu.Reg.A)
}

// Increment memory value
func (cpu *CPU) inc(inst *Instruction, op Operand) {
	r := Increment(cpu.load(op))
	cpu.updateNZ(r.Value)
	cpu.store(op, r.Value)
}

// Increment X register
func (cpu *CPU) inx(inst *Instruction, op Operand) {
	cpu.Reg.X = Increment(cpu.Reg.X).Value
	cpu.updateNZ(cpu.Reg.X)
}

// Increment Y register
func (cpu *CPU) iny(inst *Instruction, op Operand) {
	cpu.Reg.Y = Increment(cpu.Reg.Y).Value
	cpu.updateNZ(cpu.Reg.Y)
}

// Jump to memory address
func (cpu *CPU) jmp(inst *Instruction, op Operand) {
	cpu.Reg.PC = cpu.target(op) - ProgramBase
}

// Jump to subroutine. The pushed return address is the CPU address of
// the last byte of the JSR instruction.
func (cpu *CPU) jsr(inst *Instruction, op Operand) {
	addr := cpu.target(op)
	cpu.pushAddress(cpu.Addr() - 1)
	cpu.Reg.PC = addr - ProgramBase
}

// load Accumulator
func (cpu *CPU) lda(inst *Instruction, op Operand) {
	cpu.Reg.A = cpu.load(op)
	cpu.updateNZ(cpu.Reg.A)
}

// load the X register
func (cpu *CPU) ldx(inst *Instruction, op Operand) {
	cpu.Reg.X = cpu.load(op)
	cpu.updateNZ(cpu.Reg.X)
}

// load the Y register
func (cpu *CPU) ldy(inst *Instruction, op Operand) {
	cpu.Reg.Y = cpu.load(op)
	cpu.updateNZ(cpu.Reg.Y)
}

// Logical Shift Right
func (cpu *CPU) lsr(inst *Instruction, op Operand) {
	v := cpu.load(op)
	cpu.Reg.Carry = ((v & 1) == 1)
	v = v >> 1
	cpu.updateNZ(v)
	cpu.store(op, v)
}

// No-operation. CLD and SED also land here since there is no decimal
// mode.
func (cpu *CPU) nop(inst *Instruction, op Operand) {
}

// Boolean OR
func (cpu *CPU) ora(inst *Instruction, op Operand) {
	cpu.Reg.A |= cpu.load(op)
	cpu.updateNZ(cpu.Reg.A)
}

// Push Accumulator
func (cpu *CPU) pha(inst *Instruction, op Operand) {
	cpu.push(cpu.Reg.A)
}

// Push Processor flags
func (cpu *CPU) php(inst *Instruction, op Operand) {
	cpu.push(cpu.Reg.SavePS(true))
}

// Pull (pop) Accumulator
func (cpu *CPU) pla(inst *Instruction, op Operand) {
	cpu.Reg.A = cpu.pop()
	cpu.updateNZ(cpu.Reg.A)
}

// Pull (pop) Processor flags
func (cpu *CPU) plp(inst *Instruction, op Operand) {
	cpu.Reg.RestorePS(cpu.pop())
}

// Rotate Left
func (cpu *CPU) rol(inst *Instruction, op Operand) {
	tmp := cpu.load(op)
	v := (tmp << 1) | boolToByte(cpu.Reg.Carry)
	cpu.Reg.Carry = ((tmp & 0x80) != 0)
	cpu.updateNZ(v)
	cpu.store(op, v)
}

// Rotate Right
func (cpu *CPU) ror(inst *Instruction, op Operand) {
	tmp := cpu.load(op)
	v := (tmp >> 1) | (boolToByte(cpu.Reg.Carry) << 7)
	cpu.Reg.Carry = ((tmp & 1) != 0)
	cpu.updateNZ(v)
	cpu.store(op, v)
}

// Return from Interrupt
func (cpu *CPU) rti(inst *Instruction, op Operand) {
	cpu.Reg.RestorePS(cpu.pop())
	cpu.Reg.PC = cpu.popAddress() - ProgramBase
}

// Return from Subroutine
func (cpu *CPU) rts(inst *Instruction, op Operand) {
	addr := cpu.popAddress()
	cpu.Reg.PC = addr + 1 - ProgramBase
}

// Subtract with Carry
func (cpu *CPU) sbc(inst *Instruction, op Operand) {
	r := Sub(cpu.Reg.A, cpu.load(op), cpu.Reg.Carry)
	cpu.Reg.A = r.Value
	cpu.apply(r)
	cpu.Reg.Overflow = r.Overflow
}

// Set Carry flag
func (cpu *CPU) sec(inst *Instruction, op Operand) {
	cpu.Reg.Carry = true
}

// Set InterruptDisable flag
func (cpu *CPU) sei(inst *Instruction, op Operand) {
	cpu.Reg.InterruptDisable = true
}

// Store Accumulator
func (cpu *CPU) sta(inst *Instruction, op Operand) {
	cpu.storeByte(cpu, cpu.target(op), cpu.Reg.A)
}

// Store X register
func (cpu *CPU) stx(inst *Instruction, op Operand) {
	cpu.storeByte(cpu, cpu.target(op), cpu.Reg.X)
}

// Store Y register
func (cpu *CPU) sty(inst *Instruction, op Operand) {
	cpu.storeByte(cpu, cpu.target(op), cpu.Reg.Y)
}

// Transfer Accumulator to X register
func (cpu *CPU) tax(inst *Instruction, op Operand) {
	cpu.Reg.X = cpu.Reg.A
	cpu.updateNZ(cpu.Reg.X)
}

// Transfer Accumulator to Y register
func (cpu *CPU) tay(inst *Instruction, op Operand) {
	cpu.Reg.Y = cpu.Reg.A
	cpu.updateNZ(cpu.Reg.Y)
}

// Transfer stack pointer to X register
func (cpu *CPU) tsx(inst *Instruction, op Operand) {
	cpu.Reg.X = cpu.Reg.SP
	cpu.updateNZ(cpu.Reg.X)
}

// Transfer X register to Accumulator
func (cpu *CPU) txa(inst *Instruction, op Operand) {
	cpu.Reg.A = cpu.Reg.X
	cpu.updateNZ(cpu.Reg.A)
}

// Transfer X register to the stack pointer. Flags are not affected.
func (cpu *CPU) txs(inst *Instruction, op Operand) {
	cpu.Reg.SP = cpu.Reg.X
}

// Transfer Y register to the Accumulator
func (cpu *CPU) tya(inst *Instruction, op Operand) {
	cpu.Reg.A = cpu.Reg.Y
	cpu.updateNZ(cpu.Reg.A)
}
