package cpu_test

import (
	"errors"
	"testing"

	"github.com/nesnes-emu/nesnes/cpu"
)

func loadCPU(t *testing.T, code ...byte) (*cpu.CPU, *cpu.FlatMemory) {
	t.Helper()
	mem := cpu.NewFlatMemory()
	mem.StoreBytes(cpu.ProgramBase, code)
	c := cpu.NewCPU(mem)
	return c, mem
}

func stepCPU(t *testing.T, c *cpu.CPU, steps int) {
	t.Helper()
	for i := 0; i < steps; i++ {
		if _, err := c.Step(); err != nil {
			t.Fatalf("step %d: %v", i, err)
		}
	}
}

func runCPU(t *testing.T, steps int, code ...byte) (*cpu.CPU, *cpu.FlatMemory) {
	t.Helper()
	c, mem := loadCPU(t, code...)
	stepCPU(t, c, steps)
	return c, mem
}

func expectPC(t *testing.T, c *cpu.CPU, pc uint16) {
	t.Helper()
	if c.Reg.PC != pc {
		t.Errorf("PC incorrect. exp: $%04X, got: $%04X", pc, c.Reg.PC)
	}
}

func expectCycles(t *testing.T, c *cpu.CPU, cycles uint64) {
	t.Helper()
	if c.Cycles != cycles {
		t.Errorf("Cycles incorrect. exp: %d, got: %d", cycles, c.Cycles)
	}
}

func expectACC(t *testing.T, c *cpu.CPU, acc byte) {
	t.Helper()
	if c.Reg.A != acc {
		t.Errorf("Accumulator incorrect. exp: $%02X, got: $%02X", acc, c.Reg.A)
	}
}

func expectSP(t *testing.T, c *cpu.CPU, sp byte) {
	t.Helper()
	if c.Reg.SP != sp {
		t.Errorf("stack pointer incorrect. exp: $%02X, got $%02X", sp, c.Reg.SP)
	}
}

func expectMem(t *testing.T, mem *cpu.FlatMemory, addr uint16, v byte) {
	t.Helper()
	got := mem.Peek(addr)
	if got != v {
		t.Errorf("Memory at $%04X incorrect. exp: $%02X, got: $%02X", addr, v, got)
	}
}

func expectFlag(t *testing.T, name string, got, exp bool) {
	t.Helper()
	if got != exp {
		t.Errorf("%s flag incorrect. exp: %v, got: %v", name, exp, got)
	}
}

func TestPowerOnState(t *testing.T) {
	c, _ := loadCPU(t)
	expectSP(t, c, 0xfd)
	expectPC(t, c, 0)
	expectFlag(t, "break", c.Reg.Break, true)
	expectFlag(t, "interrupt", c.Reg.InterruptDisable, true)
	expectFlag(t, "carry", c.Reg.Carry, false)
}

func TestLoadStoreBreak(t *testing.T) {
	c, mem := runCPU(t, 3,
		0xa9, 0x05, // LDA #$05
		0x8d, 0x10, 0x00, // STA $0010
		0x00, 0x00, // BRK
	)

	expectACC(t, c, 0x05)
	expectMem(t, mem, 0x0010, 0x05)
	expectPC(t, c, 0x0007)
	expectCycles(t, c, 2+4+7)
	expectFlag(t, "break", c.Reg.Break, true)
	expectFlag(t, "interrupt", c.Reg.InterruptDisable, true)
}

func TestAccumulator(t *testing.T) {
	c, mem := runCPU(t, 3,
		0xa9, 0x5e, // LDA #$5E
		0x85, 0x15, // STA $15
		0x8d, 0x00, 0x15, // STA $1500
	)

	expectPC(t, c, 0x0007)
	expectCycles(t, c, 9)
	expectACC(t, c, 0x5e)
	expectMem(t, mem, 0x15, 0x5e)
	expectMem(t, mem, 0x1500, 0x5e)
}

func TestStack(t *testing.T) {
	c, mem := loadCPU(t,
		0xa9, 0x11, 0x48, // LDA #$11; PHA
		0xa9, 0x12, 0x48, // LDA #$12; PHA
		0xa9, 0x13, 0x48, // LDA #$13; PHA
		0x68, 0x8d, 0x00, 0x02, // PLA; STA $0200
		0x68, 0x8d, 0x01, 0x02, // PLA; STA $0201
		0x68, 0x8d, 0x02, 0x02, // PLA; STA $0202
	)

	stepCPU(t, c, 6)
	expectSP(t, c, 0xfa)
	expectACC(t, c, 0x13)
	expectMem(t, mem, 0x1fd, 0x11)
	expectMem(t, mem, 0x1fc, 0x12)
	expectMem(t, mem, 0x1fb, 0x13)

	stepCPU(t, c, 6)
	expectACC(t, c, 0x11)
	expectSP(t, c, 0xfd)
	expectMem(t, mem, 0x0200, 0x13)
	expectMem(t, mem, 0x0201, 0x12)
	expectMem(t, mem, 0x0202, 0x11)
}

func TestStackPointerWraps(t *testing.T) {
	c, mem := runCPU(t, 3,
		0xa2, 0x00, // LDX #$00
		0x9a, // TXS
		0x48, // PHA
	)
	expectSP(t, c, 0xff)
	expectMem(t, mem, 0x100, 0x00)
}

func TestIndirect(t *testing.T) {
	_, mem := runCPU(t, 14,
		0xa2, 0x80, // LDX #$80
		0xa0, 0x40, // LDY #$40
		0xa9, 0xee, // LDA #$EE
		0x9d, 0x00, 0x02, // STA $0200,X
		0x99, 0x00, 0x02, // STA $0200,Y
		0xa9, 0x11, // LDA #$11
		0x85, 0x06, // STA $06
		0xa9, 0x05, // LDA #$05
		0x85, 0x07, // STA $07
		0xa2, 0x01, // LDX #$01
		0xa0, 0x01, // LDY #$01
		0xa9, 0xbb, // LDA #$BB
		0x81, 0x05, // STA ($05,X)
		0x91, 0x06, // STA ($06),Y
	)
	expectMem(t, mem, 0x0280, 0xee)
	expectMem(t, mem, 0x0240, 0xee)
	expectMem(t, mem, 0x0511, 0xbb)
	expectMem(t, mem, 0x0512, 0xbb)
}

func TestZeroPageIndexWraps(t *testing.T) {
	_, mem := runCPU(t, 3,
		0xa2, 0x01, // LDX #$01
		0xa9, 0x42, // LDA #$42
		0x95, 0xff, // STA $FF,X
	)
	expectMem(t, mem, 0x0000, 0x42)
	expectMem(t, mem, 0x0100, 0x00)
}

func TestIndirectXPointerWraps(t *testing.T) {
	c, mem := loadCPU(t,
		0xa1, 0xff, // LDA ($FF,X)
	)
	mem.Write(0x00ff, 0x34)
	mem.Write(0x0000, 0x12)
	mem.Write(0x1234, 0x99)
	stepCPU(t, c, 1)
	expectACC(t, c, 0x99)
}

func TestIncrementDecrementWrap(t *testing.T) {
	c, _ := runCPU(t, 2,
		0xa2, 0xff, // LDX #$FF
		0xe8, // INX
	)
	if c.Reg.X != 0 {
		t.Errorf("X incorrect. exp: $00, got: $%02X", c.Reg.X)
	}
	expectFlag(t, "zero", c.Reg.Zero, true)
	expectFlag(t, "negative", c.Reg.Negative, false)

	c, _ = runCPU(t, 2,
		0xa0, 0x00, // LDY #$00
		0x88, // DEY
	)
	if c.Reg.Y != 0xff {
		t.Errorf("Y incorrect. exp: $FF, got: $%02X", c.Reg.Y)
	}
	expectFlag(t, "zero", c.Reg.Zero, false)
	expectFlag(t, "negative", c.Reg.Negative, true)

	_, mem := runCPU(t, 2,
		0xe6, 0x20, // INC $20
		0xc6, 0x21, // DEC $21
	)
	expectMem(t, mem, 0x20, 0x01)
	expectMem(t, mem, 0x21, 0xff)
}

func TestADC(t *testing.T) {
	c, _ := runCPU(t, 3,
		0x18, // CLC
		0xa9, 0xff, // LDA #$FF
		0x69, 0x01, // ADC #$01
	)
	expectACC(t, c, 0x00)
	expectFlag(t, "carry", c.Reg.Carry, true)
	expectFlag(t, "zero", c.Reg.Zero, true)
	expectFlag(t, "overflow", c.Reg.Overflow, false)

	c, _ = runCPU(t, 3,
		0x18, // CLC
		0xa9, 0x50, // LDA #$50
		0x69, 0x50, // ADC #$50
	)
	expectACC(t, c, 0xa0)
	expectFlag(t, "overflow", c.Reg.Overflow, true)
	expectFlag(t, "negative", c.Reg.Negative, true)
	expectFlag(t, "carry", c.Reg.Carry, false)
}

func TestSBC(t *testing.T) {
	c, _ := runCPU(t, 3,
		0x38, // SEC
		0xa9, 0x50, // LDA #$50
		0xe9, 0xf0, // SBC #$F0
	)
	expectACC(t, c, 0x60)
	expectFlag(t, "carry", c.Reg.Carry, false)
	expectFlag(t, "overflow", c.Reg.Overflow, false)

	c, _ = runCPU(t, 3,
		0x38, // SEC
		0xa9, 0x50, // LDA #$50
		0xe9, 0xb0, // SBC #$B0
	)
	expectACC(t, c, 0xa0)
	expectFlag(t, "overflow", c.Reg.Overflow, true)
}

func TestCompare(t *testing.T) {
	c, _ := runCPU(t, 2,
		0xa9, 0x10, // LDA #$10
		0xc9, 0x10, // CMP #$10
	)
	expectACC(t, c, 0x10)
	expectFlag(t, "carry", c.Reg.Carry, true)
	expectFlag(t, "zero", c.Reg.Zero, true)

	c, _ = runCPU(t, 2,
		0xa2, 0x01, // LDX #$01
		0xe0, 0x02, // CPX #$02
	)
	if c.Reg.X != 0x01 {
		t.Errorf("compare modified X: $%02X", c.Reg.X)
	}
	expectFlag(t, "carry", c.Reg.Carry, false)
	expectFlag(t, "negative", c.Reg.Negative, true)
}

func TestBranch(t *testing.T) {
	// Not taken: zero flag is clear after LDA #$01.
	c, _ := runCPU(t, 2,
		0xa9, 0x01, // LDA #$01
		0xf0, 0x04, // BEQ +4
	)
	expectPC(t, c, 0x0004)

	// Taken: target is the address after the displacement plus the offset.
	c, _ = runCPU(t, 2,
		0xa9, 0x00, // LDA #$00
		0xf0, 0x04, // BEQ +4
	)
	expectPC(t, c, 0x0008)

	// Backward branch.
	c, _ = runCPU(t, 2,
		0xa9, 0x00, // LDA #$00
		0xf0, 0xfc, // BEQ -4
	)
	expectPC(t, c, 0x0000)
}

func TestBranchFlags(t *testing.T) {
	tests := []struct {
		name   string
		setup  byte
		branch byte
		taken  bool
	}{
		{"BCC clear", 0x18, 0x90, true},
		{"BCC set", 0x38, 0x90, false},
		{"BCS set", 0x38, 0xb0, true},
		{"BCS clear", 0x18, 0xb0, false},
		{"BVC clear", 0xb8, 0x50, true},
		{"BVS clear", 0xb8, 0x70, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := runCPU(t, 2, tt.setup, tt.branch, 0x10)
			exp := uint16(0x0003)
			if tt.taken {
				exp += 0x10
			}
			expectPC(t, c, exp)
		})
	}
}

func TestJSRRTS(t *testing.T) {
	code := make([]byte, 0x1001)
	copy(code, []byte{
		0x20, 0x00, 0x90, // JSR $9000
		0xea, // NOP
	})
	code[0x1000] = 0x60 // RTS at $9000

	c, mem := loadCPU(t, code...)
	stepCPU(t, c, 1)
	expectPC(t, c, 0x1000)
	expectSP(t, c, 0xfb)
	expectMem(t, mem, 0x1fd, 0x80)
	expectMem(t, mem, 0x1fc, 0x02)

	stepCPU(t, c, 1)
	expectPC(t, c, 0x0003)
	expectSP(t, c, 0xfd)
	expectCycles(t, c, 12)
}

func TestJMPIndirectPageWrap(t *testing.T) {
	c, mem := loadCPU(t,
		0x6c, 0xff, 0x02, // JMP ($02FF)
	)
	mem.Write(0x02ff, 0x00)
	mem.Write(0x0200, 0x90)
	mem.Write(0x0300, 0xa0)
	stepCPU(t, c, 1)
	expectPC(t, c, 0x1000)
}

func TestRTI(t *testing.T) {
	c, mem := loadCPU(t, 0x40) // RTI
	c.Reg.SP = 0xfa
	mem.Write(0x1fb, carryAndZero)
	mem.Write(0x1fc, 0x34)
	mem.Write(0x1fd, 0x92)
	stepCPU(t, c, 1)
	expectPC(t, c, 0x1234)
	expectFlag(t, "carry", c.Reg.Carry, true)
	expectFlag(t, "zero", c.Reg.Zero, true)
	expectFlag(t, "interrupt", c.Reg.InterruptDisable, false)
}

const carryAndZero = cpu.CarryBit | cpu.ZeroBit

func TestShifts(t *testing.T) {
	c, _ := runCPU(t, 2,
		0xa9, 0x81, // LDA #$81
		0x0a, // ASL A
	)
	expectACC(t, c, 0x02)
	expectFlag(t, "carry", c.Reg.Carry, true)

	c, _ = runCPU(t, 3,
		0x38, // SEC
		0xa9, 0x01, // LDA #$01
		0x6a, // ROR A
	)
	expectACC(t, c, 0x80)
	expectFlag(t, "carry", c.Reg.Carry, true)
	expectFlag(t, "negative", c.Reg.Negative, true)
}

func TestNMI(t *testing.T) {
	c, _ := loadCPU(t)
	c.Reg.InterruptDisable = false
	c.Reg.Break = true
	c.Reg.Carry = true
	c.NMI()
	expectFlag(t, "interrupt", c.Reg.InterruptDisable, true)
	expectFlag(t, "break", c.Reg.Break, false)
	expectFlag(t, "carry", c.Reg.Carry, true)
	expectSP(t, c, 0xfd)
}

func TestIRQ(t *testing.T) {
	c, _ := loadCPU(t)
	c.Reg.Break = true
	c.IRQ()
	expectFlag(t, "break", c.Reg.Break, true)

	c.Reg.InterruptDisable = false
	c.Reg.Overflow = true
	c.IRQ()
	expectFlag(t, "interrupt", c.Reg.InterruptDisable, true)
	expectFlag(t, "break", c.Reg.Break, false)
	expectFlag(t, "overflow", c.Reg.Overflow, true)

	c.Reg.InterruptDisable = false
	c.IRQ()
	expectFlag(t, "break", c.Reg.Break, true)
	expectSP(t, c, 0xfd)
}

func TestAbsoluteIndexWraps(t *testing.T) {
	tests := []struct {
		name string
		code []byte
		addr uint16
	}{
		{"LDA $FFFF,X", []byte{0xa2, 0x02, 0xbd, 0xff, 0xff}, 0x0001},
		{"LDA $FFFE,Y", []byte{0xa0, 0x03, 0xb9, 0xfe, 0xff}, 0x0001},
		{"LDA $10F0,X", []byte{0xa2, 0x20, 0xbd, 0xf0, 0x10}, 0x1110},
	}

	for _, tt := range tests {
		c, mem := loadCPU(t, tt.code...)
		mem.Write(tt.addr, 0x77)
		stepCPU(t, c, 2)
		if c.Reg.A != 0x77 {
			t.Errorf("%s: accumulator incorrect. exp: $77, got: $%02X", tt.name, c.Reg.A)
		}
	}
}

func TestIndirectYPointerWraps(t *testing.T) {
	c, mem := loadCPU(t,
		0xa0, 0x01, // LDY #$01
		0xb1, 0xff, // LDA ($FF),Y
	)
	mem.Write(0x00ff, 0x33)
	mem.Write(0x0000, 0x12)
	mem.Write(0x0100, 0x44)
	mem.Write(0x1234, 0x99)
	mem.Write(0x4434, 0x55)
	stepCPU(t, c, 2)
	expectACC(t, c, 0x99)
}

func TestUnknownOpcode(t *testing.T) {
	c, _ := loadCPU(t, 0x02)
	_, err := c.Step()
	var de *cpu.DecodeError
	if !errors.As(err, &de) {
		t.Fatalf("expected DecodeError, got %v", err)
	}
	if de.Opcode != 0x02 || de.Addr != 0x8000 {
		t.Errorf("DecodeError incorrect. got opcode $%02X at $%04X", de.Opcode, de.Addr)
	}
	if !errors.Is(err, cpu.ErrUnknownOpcode) {
		t.Errorf("expected ErrUnknownOpcode, got %v", err)
	}
}

type faultBus struct {
	*cpu.FlatMemory
	bad uint16
}

var errFault = errors.New("unmapped")

func (b *faultBus) Read(addr uint16) (byte, error) {
	if addr == b.bad {
		return 0, errFault
	}
	return b.FlatMemory.Read(addr)
}

func TestBusFault(t *testing.T) {
	mem := cpu.NewFlatMemory()
	mem.StoreBytes(cpu.ProgramBase, []byte{0xad, 0x00, 0x50}) // LDA $5000
	c := cpu.NewCPU(&faultBus{FlatMemory: mem, bad: 0x5000})
	_, err := c.Step()
	if !errors.Is(err, errFault) {
		t.Fatalf("expected bus fault, got %v", err)
	}
}

func TestInstructionSetTotal(t *testing.T) {
	set := cpu.GetInstructionSet()
	valid := 0
	for i := 0; i < 256; i++ {
		inst := set.Lookup(byte(i))
		if inst.Opcode != byte(i) {
			t.Errorf("opcode $%02X has entry for $%02X", i, inst.Opcode)
		}
		if inst.Valid() {
			valid++
			if inst.Cycles == 0 {
				t.Errorf("%s ($%02X) has no cycle count", inst.Name, i)
			}
		} else if _, err := set.Decode(byte(i)); !errors.Is(err, cpu.ErrUnknownOpcode) {
			t.Errorf("opcode $%02X should be unmapped", i)
		}
	}
	if valid != 151 {
		t.Errorf("official opcode count incorrect. exp: 151, got: %d", valid)
	}
}

type breakHandler struct {
	hits     []uint16
	dataHits []uint16
}

func (h *breakHandler) OnBreakpoint(c *cpu.CPU, b *cpu.Breakpoint) {
	h.hits = append(h.hits, b.Address)
}

func (h *breakHandler) OnDataBreakpoint(c *cpu.CPU, b *cpu.DataBreakpoint) {
	h.dataHits = append(h.dataHits, b.Address)
}

func TestDebugger(t *testing.T) {
	c, _ := loadCPU(t,
		0xa9, 0x05, // LDA #$05
		0x85, 0x10, // STA $10
		0x85, 0x11, // STA $11
	)
	h := &breakHandler{}
	d := cpu.NewDebugger(h)
	d.AddBreakpoint(0x8002)
	d.AddConditionalDataBreakpoint(0x10, 0x05)
	d.AddConditionalDataBreakpoint(0x11, 0x06)
	c.AttachDebugger(d)
	stepCPU(t, c, 3)

	if len(h.hits) != 1 || h.hits[0] != 0x8002 {
		t.Errorf("breakpoint hits incorrect: %v", h.hits)
	}
	if len(h.dataHits) != 1 || h.dataHits[0] != 0x10 {
		t.Errorf("data breakpoint hits incorrect: %v", h.dataHits)
	}

	bps := d.GetDataBreakpoints()
	if len(bps) != 2 || bps[0].Address != 0x10 || bps[1].Address != 0x11 {
		t.Errorf("data breakpoints not sorted")
	}
}
