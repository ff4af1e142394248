package apu_test

import (
	"testing"

	"github.com/nesnes-emu/nesnes/apu"
)

func TestPulseDecode(t *testing.T) {
	a := apu.New()
	a.Write(0x4000, 0xbf) // duty 2, loop, constant, volume 15
	a.Write(0x4001, 0xab) // sweep on, period 2, negate, shift 3
	a.Write(0x4002, 0x34)
	a.Write(0x4003, 0x0a) // timer high 2, length 1

	p := a.Pulse[0]
	if p.Duty != 2 || !p.LoopEnvelope || !p.ConstantVolume || p.Volume != 15 {
		t.Errorf("ctrl0 decode incorrect: %+v", p)
	}
	if !p.SweepEnabled || p.SweepPeriod != 2 || !p.SweepNegate || p.SweepShift != 3 {
		t.Errorf("sweep decode incorrect: %+v", p)
	}
	if p.Timer != 0x234 || p.Length != 1 {
		t.Errorf("timer decode incorrect: timer $%03X length %d", p.Timer, p.Length)
	}
	if a.Pulse[1] != (apu.Pulse{}) {
		t.Error("pulse 2 modified by pulse 1 writes")
	}

	a.Write(0x4004, 0x40)
	if a.Pulse[1].Duty != 1 {
		t.Errorf("pulse 2 duty incorrect: %d", a.Pulse[1].Duty)
	}
}

func TestOtherChannels(t *testing.T) {
	a := apu.New()
	a.Write(0x4008, 0x85)
	a.Write(0x400e, 0x8c)
	a.Write(0x4010, 0xcf)
	a.Write(0x4011, 0xff)
	a.Write(0x4012, 0x01)
	a.Write(0x4013, 0x02)

	if !a.Triangle.Control || a.Triangle.LinearLoad != 5 {
		t.Errorf("triangle decode incorrect: %+v", a.Triangle)
	}
	if !a.Noise.ShortMode || a.Noise.Period != 12 {
		t.Errorf("noise decode incorrect: %+v", a.Noise)
	}
	d := a.DMC
	if !d.IRQEnabled || !d.Loop || d.Rate != 15 || d.Direct != 0x7f {
		t.Errorf("dmc decode incorrect: %+v", d)
	}
	if d.SampleAddr != 0xc040 || d.SampleLength != 33 {
		t.Errorf("dmc sample incorrect: $%04X %d", d.SampleAddr, d.SampleLength)
	}
}

func TestStatusAndFrameCounter(t *testing.T) {
	a := apu.New()
	a.Write(0x4015, 0xff)
	if got := a.Read(0x4015); got != 0x1f {
		t.Errorf("status read incorrect. exp: $1F, got: $%02X", got)
	}
	if got := a.Read(0x4000); got != 0 {
		t.Errorf("write-only register read returned $%02X", got)
	}
	a.Write(0x4017, 0xc0)
	if !a.FiveStep || !a.FrameIRQInhibit {
		t.Error("frame counter decode incorrect")
	}
	if a.Register(0x4017) != 0xc0 {
		t.Error("raw register not stored")
	}
	a.Reset()
	if a.Enabled != 0 || a.Register(0x4017) != 0 {
		t.Error("reset did not clear state")
	}
}
