package cartridge_test

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/nesnes-emu/nesnes/cartridge"
)

func TestParse(t *testing.T) {
	prg := make([]byte, cartridge.PRGPageSize)
	prg[0] = 0xa9
	chr := make([]byte, cartridge.CHRPageSize)
	chr[0x1fff] = 0x55

	c, err := cartridge.Parse(bytes.NewReader(cartridge.Build(prg, chr, cartridge.FlagVertical)))
	if err != nil {
		t.Fatal(err)
	}
	if len(c.PRG) != 0x4000 || c.PRG[0] != 0xa9 {
		t.Errorf("PRG incorrect: %d bytes", len(c.PRG))
	}
	if len(c.CHR) != 0x2000 || c.CHR[0x1fff] != 0x55 {
		t.Errorf("CHR incorrect: %d bytes", len(c.CHR))
	}
	if !c.Vertical() || c.Mapper != 0 {
		t.Errorf("flags incorrect: %s", c)
	}
}

func TestString(t *testing.T) {
	prg := make([]byte, cartridge.PRGPageSize)
	chr := make([]byte, cartridge.CHRPageSize)

	c, err := cartridge.Parse(bytes.NewReader(cartridge.Build(prg, chr, cartridge.FlagBattery)))
	if err != nil {
		t.Fatal(err)
	}
	if !c.Battery() || c.Vertical() {
		t.Errorf("flags incorrect: $%02X", c.Flags6)
	}
	exp := "mapper 0, 16 KB PRG, 8 KB CHR, horizontal mirroring, battery"
	if s := c.String(); s != exp {
		t.Errorf("String incorrect. exp: %q, got: %q", exp, s)
	}

	c, err = cartridge.Parse(bytes.NewReader(cartridge.Build(prg, nil, cartridge.FlagVertical)))
	if err != nil {
		t.Fatal(err)
	}
	if c.Battery() || c.String() != "mapper 0, 16 KB PRG, 0 KB CHR, vertical mirroring" {
		t.Errorf("String incorrect: %q", c.String())
	}
}

func TestParseTrainer(t *testing.T) {
	img := []byte{'N', 'E', 'S', 0x1a, 1, 0, cartridge.FlagTrainer, 0}
	img = append(img, make([]byte, 8)...)
	trainer := bytes.Repeat([]byte{0xee}, cartridge.TrainerSize)
	img = append(img, trainer...)
	prg := bytes.Repeat([]byte{0x11}, cartridge.PRGPageSize)
	img = append(img, prg...)

	c, err := cartridge.Parse(bytes.NewReader(img))
	if err != nil {
		t.Fatal(err)
	}
	if len(c.Trainer) != cartridge.TrainerSize || c.PRG[0] != 0x11 || len(c.CHR) != 0 {
		t.Error("trainer not skipped")
	}
}

func TestParseErrors(t *testing.T) {
	good := cartridge.Build(make([]byte, cartridge.PRGPageSize), nil, 0)

	badMagic := append([]byte{}, good...)
	badMagic[3] = 0x00

	mapper := append([]byte{}, good...)
	mapper[6] = 0x10

	noPRG := append([]byte{}, good[:cartridge.HeaderSize]...)
	noPRG[4] = 0

	tests := []struct {
		name string
		img  []byte
		err  error
	}{
		{"empty", nil, cartridge.ErrTruncated},
		{"short header", good[:8], cartridge.ErrTruncated},
		{"bad magic", badMagic, cartridge.ErrBadMagic},
		{"truncated PRG", good[:cartridge.HeaderSize+100], cartridge.ErrTruncated},
		{"mapper", mapper, cartridge.ErrUnsupportedMapper},
		{"no PRG", noPRG, cartridge.ErrNoProgram},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := cartridge.Parse(bytes.NewReader(tt.img))
			var fe *cartridge.FormatError
			if !errors.As(err, &fe) {
				t.Fatalf("expected FormatError, got %v", err)
			}
			if !errors.Is(err, tt.err) {
				t.Errorf("expected %v, got %v", tt.err, err)
			}
		})
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.nes")
	if err := os.WriteFile(path, []byte("NOPE"), 0o644); err != nil {
		t.Fatal(err)
	}
	_, err := cartridge.Load(path)
	var fe *cartridge.FormatError
	if !errors.As(err, &fe) || fe.Path != path {
		t.Fatalf("expected FormatError with path, got %v", err)
	}

	good := filepath.Join(t.TempDir(), "good.nes")
	if err := os.WriteFile(good, cartridge.Build(make([]byte, 2*cartridge.PRGPageSize), nil, 0), 0o644); err != nil {
		t.Fatal(err)
	}
	c, err := cartridge.Load(good)
	if err != nil {
		t.Fatal(err)
	}
	if len(c.PRG) != 0x8000 || c.Vertical() {
		t.Errorf("loaded cartridge incorrect: %s", c)
	}
}
