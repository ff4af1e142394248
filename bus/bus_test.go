package bus_test

import (
	"errors"
	"testing"

	"github.com/nesnes-emu/nesnes/apu"
	"github.com/nesnes-emu/nesnes/bus"
	"github.com/nesnes-emu/nesnes/controller"
	"github.com/nesnes-emu/nesnes/ppu"
)

type fixture struct {
	bus  *bus.Bus
	ppu  *ppu.PPU
	apu  *apu.APU
	pads *controller.Ports
}

func newFixture(t *testing.T, prg []byte) *fixture {
	t.Helper()
	p, err := ppu.New(nil, ppu.MirrorVertical)
	if err != nil {
		t.Fatal(err)
	}
	f := &fixture{ppu: p, apu: apu.New(), pads: &controller.Ports{}}
	f.bus = bus.New(prg, f.ppu, f.apu, f.pads)
	return f
}

func read(t *testing.T, b *bus.Bus, addr uint16) byte {
	t.Helper()
	v, err := b.Read(addr)
	if err != nil {
		t.Fatalf("read $%04X: %v", addr, err)
	}
	return v
}

func write(t *testing.T, b *bus.Bus, addr uint16, v byte) {
	t.Helper()
	if err := b.Write(addr, v); err != nil {
		t.Fatalf("write $%04X: %v", addr, err)
	}
}

func TestRAMMirroring(t *testing.T) {
	f := newFixture(t, make([]byte, 0x4000))

	write(t, f.bus, 0x0010, 0x5a)
	for _, addr := range []uint16{0x0010, 0x0810, 0x1010, 0x1810} {
		if v := read(t, f.bus, addr); v != 0x5a {
			t.Errorf("$%04X incorrect. exp: $5A, got: $%02X", addr, v)
		}
	}

	write(t, f.bus, 0x1fff, 0x77)
	if f.bus.RAM[0x7ff] != 0x77 {
		t.Error("write to $1FFF did not reach $07FF")
	}
}

func TestPPURegisterMirroring(t *testing.T) {
	f := newFixture(t, make([]byte, 0x4000))

	// $3FFE mirrors $2006, $2FFE mirrors $2006 as well.
	write(t, f.bus, 0x3ffe, 0x21)
	write(t, f.bus, 0x2ffe, 0x08)
	if f.ppu.Reg.VRAMAddr != 0x2108 {
		t.Errorf("VRAM address incorrect. exp: $2108, got: $%04X", f.ppu.Reg.VRAMAddr)
	}

	write(t, f.bus, 0x2007, 0x99)
	if f.ppu.VRAM.Read(0x2108) != 0x99 {
		t.Error("data write not delivered")
	}

	f.ppu.Reg.Status = ppu.StatusVBlank
	f.ppu.Reg.Toggle = true
	if v := read(t, f.bus, 0x200a); v&ppu.StatusVBlank == 0 {
		t.Error("status read lost vblank bit")
	}
	if f.ppu.Reg.Status&ppu.StatusVBlank != 0 || f.ppu.Reg.Toggle {
		t.Error("status read did not clear vblank and toggle")
	}
}

func TestPeekHasNoSideEffects(t *testing.T) {
	f := newFixture(t, make([]byte, 0x4000))
	f.ppu.Reg.Status = ppu.StatusVBlank
	f.ppu.Reg.Toggle = true

	if v := f.bus.Peek(0x2002); v&ppu.StatusVBlank == 0 {
		t.Error("peek lost vblank bit")
	}
	if f.ppu.Reg.Status&ppu.StatusVBlank == 0 || !f.ppu.Reg.Toggle {
		t.Error("peek cleared status")
	}
	if f.bus.Peek(0x6000) != 0 {
		t.Error("unmapped peek should read zero")
	}
}

func TestIORegisters(t *testing.T) {
	f := newFixture(t, make([]byte, 0x4000))

	write(t, f.bus, 0x4015, 0x0f)
	if v := read(t, f.bus, 0x4015); v != 0x0f {
		t.Errorf("APU status incorrect: $%02X", v)
	}
	write(t, f.bus, 0x4000, 0xbf)
	if f.apu.Pulse[0].Duty != 2 || f.bus.Peek(0x4000) != 0xbf {
		t.Error("pulse write not delivered")
	}
	if v := read(t, f.bus, 0x4000); v != 0 {
		t.Errorf("write-only APU register read as $%02X", v)
	}

	f.pads.Pads[1].SetButtons(controller.ButtonA)
	write(t, f.bus, 0x4016, 1)
	write(t, f.bus, 0x4016, 0)
	if v := read(t, f.bus, 0x4017); v != 0x41 {
		t.Errorf("pad 2 read incorrect: $%02X", v)
	}
	if v := read(t, f.bus, 0x4016); v != 0x40 {
		t.Errorf("pad 1 read incorrect: $%02X", v)
	}
}

func TestUnmapped(t *testing.T) {
	f := newFixture(t, make([]byte, 0x4000))

	_, err := f.bus.Read(0x6000)
	var ae *bus.AddressError
	if !errors.As(err, &ae) || ae.Addr != 0x6000 || !errors.Is(err, bus.ErrUnmapped) {
		t.Errorf("expected unmapped error, got %v", err)
	}
	if err := f.bus.Write(0x6000, 1); err != nil {
		t.Errorf("expansion write should be ignored, got %v", err)
	}

	empty := newFixture(t, nil)
	if _, err := empty.bus.Read(0x8000); !errors.Is(err, bus.ErrUnmapped) {
		t.Errorf("empty program read: %v", err)
	}
}

func TestProgramMirroring(t *testing.T) {
	prg := make([]byte, 0x4000)
	prg[0] = 0xa9
	prg[0x3ffc] = 0x34
	f := newFixture(t, prg)

	if v := read(t, f.bus, 0xc000); v != 0xa9 {
		t.Errorf("$C000 incorrect: $%02X", v)
	}
	if v := read(t, f.bus, 0xfffc); v != 0x34 {
		t.Errorf("$FFFC incorrect: $%02X", v)
	}

	write(t, f.bus, 0x8000, 0)
	if v := read(t, f.bus, 0x8000); v != 0xa9 {
		t.Error("program memory was writable")
	}
}

func TestOAMDMA(t *testing.T) {
	f := newFixture(t, make([]byte, 0x4000))
	for i := 0; i < 256; i++ {
		f.bus.RAM[0x200+i] = byte(i)
	}
	f.ppu.Reg.OAMAddr = 0x10

	write(t, f.bus, 0x4014, 0x02)
	if f.ppu.OAM[0x10] != 0 || f.ppu.OAM[0x0f] != 0xff {
		t.Errorf("OAM incorrect: $%02X $%02X", f.ppu.OAM[0x10], f.ppu.OAM[0x0f])
	}
	if n := f.bus.TakeStall(); n != bus.DMACycles {
		t.Errorf("stall incorrect. exp: %d, got: %d", bus.DMACycles, n)
	}
	if n := f.bus.TakeStall(); n != 0 {
		t.Error("stall not cleared")
	}

	if err := f.bus.Write(0x4014, 0x60); !errors.Is(err, bus.ErrUnmapped) {
		t.Errorf("DMA from unmapped page: %v", err)
	}
}
