package controller_test

import (
	"testing"

	"github.com/nesnes-emu/nesnes/controller"
)

func TestShiftOrder(t *testing.T) {
	var c controller.Ports
	c.Pads[0].SetButtons(controller.ButtonA | controller.ButtonStart | controller.ButtonRight)
	c.Write(1)
	c.Write(0)

	exp := []byte{1, 0, 0, 1, 0, 0, 0, 1, 1, 1}
	for i, e := range exp {
		if got := c.Read(0) & 1; got != e {
			t.Errorf("read %d incorrect. exp: %d, got: %d", i, e, got)
		}
	}
}

func TestStrobeHeld(t *testing.T) {
	var p controller.Pad
	p.Strobe(1)
	p.Press(controller.ButtonA, true)
	for i := 0; i < 3; i++ {
		if p.Read() != 1 {
			t.Fatal("strobe high should report A continuously")
		}
	}
	p.Press(controller.ButtonA, false)
	if p.Read() != 0 {
		t.Error("released A still reported")
	}
}

func TestButtonString(t *testing.T) {
	if s := (controller.ButtonUp | controller.ButtonB).String(); s != "B+Up" {
		t.Errorf("String incorrect: %q", s)
	}
}
