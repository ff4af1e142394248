package host

import (
	"fmt"
	"testing"
)

type testResolver map[string]int64

func (r testResolver) resolveIdentifier(s string) (int64, error) {
	if v, ok := r[s]; ok {
		return v, nil
	}
	return 0, fmt.Errorf("identifier '%s' not found", s)
}

func TestExpressions(t *testing.T) {
	r := testResolver{"a": 0x12, "pc": 0x8000, ".": 0x8000}

	tests := []struct {
		expr    string
		hexMode bool
		exp     int64
	}{
		{"1+2*3", false, 7},
		{"(1+2)*3", false, 9},
		{"$ff & %1010", false, 0x0a},
		{"0x10 | 1", false, 0x11},
		{"1 << 4 >> 2", false, 4},
		{"-1", false, -1},
		{"~0 & $ff", false, 0xff},
		{"<$1234", false, 0x34},
		{">$1234", false, 0x12},
		{"'A'", false, 65},
		{"pc + 3", false, 0x8003},
		{". - 1", false, 0x7fff},
		{"a * 2", false, 0x24},
		{"7 % 4", false, 3},
		{"10", true, 0x10},
		{"ff", true, 0xff},
		{"a", true, 0x12},
		{"#10", true, 10},
	}

	for _, tt := range tests {
		p := newExprParser()
		p.hexMode = tt.hexMode
		v, err := p.Parse(tt.expr, r)
		if err != nil {
			t.Errorf("%q: %v", tt.expr, err)
			continue
		}
		if v != tt.exp {
			t.Errorf("%q incorrect. exp: %d, got: %d", tt.expr, tt.exp, v)
		}
	}
}

func TestExpressionErrors(t *testing.T) {
	r := testResolver{}
	for _, expr := range []string{"", "1 +", "(1", "$", "1 2", "q", "4/0"} {
		if _, err := newExprParser().Parse(expr, r); err == nil {
			t.Errorf("%q: expected error", expr)
		}
	}
}
