// Copyright 2026 The nesnes Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package host

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var errExprParse = errors.New("expression syntax error")

// A resolver supplies values for identifiers such as register names.
type resolver interface {
	resolveIdentifier(s string) (int64, error)
}

// Binary operators grouped by precedence, lowest first.
var binaryOps = [][]string{
	{"|"},
	{"^"},
	{"&"},
	{"<<", ">>"},
	{"+", "-"},
	{"*", "/", "%"},
}

// exprParser evaluates integer expressions typed at the command line.
// Numbers may be written as $1F or 0x1F (hex), %1010 (binary), 'c'
// (character) or 31 (decimal). When hexMode is set, bare numbers are
// hexadecimal and decimal values need a leading '#'.
type exprParser struct {
	hexMode bool
	s       string
	pos     int
	r       resolver
}

func newExprParser() *exprParser {
	return &exprParser{}
}

// Parse evaluates expr, using r to resolve identifiers.
func (p *exprParser) Parse(expr string, r resolver) (int64, error) {
	p.s, p.pos, p.r = expr, 0, r
	v, err := p.parseBinary(0)
	if err != nil {
		return 0, err
	}
	p.skipSpace()
	if p.pos < len(p.s) {
		return 0, errExprParse
	}
	return v, nil
}

func (p *exprParser) parseBinary(level int) (int64, error) {
	if level == len(binaryOps) {
		return p.parseUnary()
	}

	lhs, err := p.parseBinary(level + 1)
	if err != nil {
		return 0, err
	}
	for {
		op := p.matchOp(binaryOps[level])
		if op == "" {
			return lhs, nil
		}
		rhs, err := p.parseBinary(level + 1)
		if err != nil {
			return 0, err
		}
		if lhs, err = apply(op, lhs, rhs); err != nil {
			return 0, err
		}
	}
}

func apply(op string, a, b int64) (int64, error) {
	switch op {
	case "|":
		return a | b, nil
	case "^":
		return a ^ b, nil
	case "&":
		return a & b, nil
	case "<<":
		return a << uint(b), nil
	case ">>":
		return a >> uint(b), nil
	case "+":
		return a + b, nil
	case "-":
		return a - b, nil
	case "*":
		return a * b, nil
	case "/", "%":
		if b == 0 {
			return 0, errors.New("divide by zero")
		}
		if op == "/" {
			return a / b, nil
		}
		return a % b, nil
	}
	return 0, errExprParse
}

func (p *exprParser) parseUnary() (int64, error) {
	p.skipSpace()
	if p.pos >= len(p.s) {
		return 0, errExprParse
	}

	switch c := p.s[p.pos]; c {
	case '-', '~', '+', '<', '>':
		// '<' and '>' select the low and high byte of the operand.
		p.pos++
		v, err := p.parseUnary()
		if err != nil {
			return 0, err
		}
		switch c {
		case '-':
			return -v, nil
		case '~':
			return ^v, nil
		case '<':
			return v & 0xff, nil
		case '>':
			return (v >> 8) & 0xff, nil
		}
		return v, nil
	case '(':
		p.pos++
		v, err := p.parseBinary(0)
		if err != nil {
			return 0, err
		}
		p.skipSpace()
		if p.pos >= len(p.s) || p.s[p.pos] != ')' {
			return 0, errExprParse
		}
		p.pos++
		return v, nil
	}
	return p.parseTerm()
}

func (p *exprParser) parseTerm() (int64, error) {
	rest := p.s[p.pos:]
	switch {
	case strings.HasPrefix(rest, "$"):
		return p.parseNumber(1, 16, hexadecimal)
	case strings.HasPrefix(rest, "0x"), strings.HasPrefix(rest, "0X"):
		return p.parseNumber(2, 16, hexadecimal)
	case strings.HasPrefix(rest, "%"):
		return p.parseNumber(1, 2, binary)
	case strings.HasPrefix(rest, "#"):
		return p.parseNumber(1, 10, decimal)
	case len(rest) >= 3 && rest[0] == '\'' && rest[2] == '\'':
		p.pos += 3
		return int64(rest[1]), nil
	case rest == ".", strings.HasPrefix(rest, ".") && !identifier(rest[1]):
		p.pos++
		return p.r.resolveIdentifier(".")
	}

	if p.hexMode && hexadecimal(rest[0]) {
		// A register name beats a hex number in hex mode.
		n := scanWhile(rest, identifier)
		if !decimal(rest[0]) {
			if v, err := p.r.resolveIdentifier(rest[:n]); err == nil {
				p.pos += n
				return v, nil
			}
		}
		return p.parseNumber(0, 16, hexadecimal)
	}
	if decimal(rest[0]) {
		return p.parseNumber(0, 10, decimal)
	}
	if identifier(rest[0]) {
		n := scanWhile(rest, identifier)
		p.pos += n
		return p.r.resolveIdentifier(rest[:n])
	}
	return 0, errExprParse
}

func (p *exprParser) parseNumber(prefix, base int, valid func(c byte) bool) (int64, error) {
	p.pos += prefix
	n := scanWhile(p.s[p.pos:], valid)
	if n == 0 {
		return 0, errExprParse
	}
	digits := p.s[p.pos : p.pos+n]
	p.pos += n
	v, err := strconv.ParseInt(digits, base, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid number '%s'", digits)
	}
	return v, nil
}

func (p *exprParser) matchOp(ops []string) string {
	p.skipSpace()
	for _, op := range ops {
		if strings.HasPrefix(p.s[p.pos:], op) {
			p.pos += len(op)
			return op
		}
	}
	return ""
}

func (p *exprParser) skipSpace() {
	p.pos += scanWhile(p.s[p.pos:], whitespace)
}

func scanWhile(s string, fn func(c byte) bool) int {
	i := 0
	for i < len(s) && fn(s[i]) {
		i++
	}
	return i
}

func whitespace(c byte) bool {
	return c == ' ' || c == '\t'
}

func decimal(c byte) bool {
	return c >= '0' && c <= '9'
}

func hexadecimal(c byte) bool {
	return decimal(c) || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}

func binary(c byte) bool {
	return c == '0' || c == '1'
}

func identifier(c byte) bool {
	return hexadecimal(c) || (c >= 'g' && c <= 'z') || (c >= 'G' && c <= 'Z') || c == '_'
}
