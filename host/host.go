// Copyright 2026 The nesnes Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package host provides an interactive command host around an emulated
// NES console.
//
// Within the host it is possible to load a cartridge, step and run the
// CPU, run whole frames, set address and data breakpoints, dump CPU and
// video memory, disassemble program memory, inspect PPU and APU state,
// drive the joypads, and run Lua scripts against the console.
package host

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/beevik/cmd"
	"github.com/nesnes-emu/nesnes/cartridge"
	"github.com/nesnes-emu/nesnes/cpu"
	"github.com/nesnes-emu/nesnes/disasm"
	"github.com/nesnes-emu/nesnes/nes"
)

var errQuit = errors.New("exiting program")

type displayFlags uint8

const (
	displayRegisters displayFlags = 1 << iota
	displayCycles

	displayAll = displayRegisters | displayCycles
)

type state byte

const (
	stateProcessingCommands state = iota
	stateRunning
	stateBreakpoint
	stateHalted
)

// A Host wraps one console with a command interpreter and debugger.
type Host struct {
	input       *bufio.Scanner
	output      *bufio.Writer
	interactive bool
	arch        *nes.Arch
	debugger    *cpu.Debugger
	lastCmd     *selection
	state       state
	exprParser  *exprParser
	settings    *settings
	log         *slog.Logger
	quit        bool
}

var _ cpu.BreakpointHandler = (*Host)(nil)

// An Option configures a Host.
type Option func(h *Host)

// WithLogger sets the logger passed to every console the host creates.
func WithLogger(l *slog.Logger) Option {
	return func(h *Host) { h.log = l }
}

// New creates a host with no cartridge loaded.
func New(opts ...Option) *Host {
	h := &Host{
		output:     bufio.NewWriter(os.Stdout),
		state:      stateProcessingCommands,
		exprParser: newExprParser(),
		settings:   newSettings(),
		log:        slog.Default(),
	}
	for _, opt := range opts {
		opt(h)
	}
	h.debugger = cpu.NewDebugger(h)
	return h
}

// Load reads the cartridge at path and powers on a new console for it.
func (h *Host) Load(path string) error {
	cart, err := cartridge.Load(path)
	if err != nil {
		return err
	}

	opts := []nes.Option{nes.WithLogger(h.log)}
	if h.settings.ResetVector {
		opts = append(opts, nes.WithResetVector())
	}
	a, err := nes.New(cart, opts...)
	if err != nil {
		return err
	}
	a.CPU.AttachDebugger(h.debugger)

	h.arch = a
	h.settings.NextDisasmAddr = 0
	h.settings.NextMemDumpAddr = 0
	h.settings.NextVRAMAddr = 0
	return nil
}

// Arch returns the console, or nil if no cartridge has been loaded.
func (h *Host) Arch() *nes.Arch {
	return h.arch
}

// RunCommands accepts host commands from a reader and outputs the results
// to a writer. If the commands are interactive, a prompt is displayed while
// the host waits for the next command to be entered. It returns when the
// reader is exhausted or a quit command is processed.
func (h *Host) RunCommands(r io.Reader, w io.Writer, interactive bool) {
	h.input = bufio.NewScanner(r)
	h.output = bufio.NewWriter(w)
	h.interactive = interactive

	if interactive {
		h.println()
	}

	h.displayPC()

	for !h.quit {
		h.prompt()

		line, err := h.getLine()
		if err != nil {
			break
		}
		if err := h.runLine(line); errors.Is(err, errQuit) {
			h.quit = true
		}
	}
	h.flush()
}

// runLine looks up and executes a single command line. An empty line
// repeats the last command.
func (h *Host) runLine(line string) error {
	var c selection
	if strings.TrimSpace(line) != "" {
		n, args, err := cmds.Lookup(line)
		switch {
		case errors.Is(err, cmd.ErrNotFound):
			h.println("Command not found.")
			return nil
		case errors.Is(err, cmd.ErrAmbiguous):
			h.println("Command is ambiguous.")
			return nil
		case err != nil:
			h.printf("ERROR: %v.\n", err)
			return nil
		}

		switch n := n.(type) {
		case *cmd.Command:
			c = selection{cmd: n.Data.(*command), args: args}
		default:
			h.println("Incomplete command. Type 'help' for a list of commands.")
			return nil
		}
	} else if h.lastCmd != nil {
		c = *h.lastCmd
	}

	if c.cmd == nil {
		return nil
	}
	h.lastCmd = &c
	return c.cmd.run(h, c)
}

// Break interrupts a running CPU.
func (h *Host) Break() {
	h.println()

	if h.state == stateRunning {
		h.displayPC()
	}
	if h.state == stateProcessingCommands {
		h.prompt()
	}
	h.state = stateProcessingCommands
}

func (h *Host) printf(format string, args ...any) {
	fmt.Fprintf(h.output, format, args...)
	h.flush()
}

func (h *Host) println(args ...any) {
	fmt.Fprintln(h.output, args...)
	h.flush()
}

func (h *Host) flush() {
	h.output.Flush()
}

func (h *Host) getLine() (string, error) {
	if h.input.Scan() {
		return h.input.Text(), nil
	}
	if h.input.Err() != nil {
		return "", h.input.Err()
	}
	return "", io.EOF
}

func (h *Host) prompt() {
	if h.interactive {
		h.printf("* ")
	}
}

func (h *Host) displayPC() {
	if h.interactive && h.arch != nil {
		d, _ := h.disassemble(h.arch.CPU.Addr(), displayAll)
		h.println(d)
	}
}

func (h *Host) requireArch() bool {
	if h.arch == nil {
		h.println("No cartridge loaded.")
		return false
	}
	return true
}

func (h *Host) cmdAPU(c selection) error {
	if !h.requireArch() {
		return nil
	}

	a := h.arch.APU
	for i, p := range a.Pulse {
		h.printf("Pulse%d   duty=%d vol=%-2d const=%-5v loop=%-5v sweep=%v/%d/%v/%d timer=$%03X len=%d\n",
			i+1, p.Duty, p.Volume, p.ConstantVolume, p.LoopEnvelope,
			p.SweepEnabled, p.SweepPeriod, p.SweepNegate, p.SweepShift, p.Timer, p.Length)
	}
	t := a.Triangle
	h.printf("Triangle control=%-5v linear=%d timer=$%03X len=%d\n", t.Control, t.LinearLoad, t.Timer, t.Length)
	n := a.Noise
	h.printf("Noise    vol=%-2d const=%-5v loop=%-5v short=%-5v period=%d len=%d\n",
		n.Volume, n.ConstantVolume, n.LoopEnvelope, n.ShortMode, n.Period, n.Length)
	d := a.DMC
	h.printf("DMC      irq=%-5v loop=%-5v rate=%d direct=$%02X sample=$%04X/%d\n",
		d.IRQEnabled, d.Loop, d.Rate, d.Direct, d.SampleAddr, d.SampleLength)
	h.printf("Status   enabled=%05b five-step=%v irq-inhibit=%v\n", a.Enabled, a.FiveStep, a.FrameIRQInhibit)
	return nil
}

func (h *Host) cmdBreakpointList(c selection) error {
	h.println("Addr  Enabled  Hits")
	h.println("----- -------  ----")
	for _, b := range h.debugger.GetBreakpoints() {
		h.printf("$%04X %-5v    %d\n", b.Address, !b.Disabled, b.Hits)
	}
	return nil
}

func (h *Host) cmdBreakpointAdd(c selection) error {
	if len(c.args) < 1 {
		h.displayHelpText(c.cmd)
		return nil
	}

	addr, err := h.parseExpr(c.args[0])
	if err != nil {
		h.printf("%v\n", err)
		return nil
	}

	h.debugger.AddBreakpoint(addr)
	h.printf("Breakpoint added at $%04X.\n", addr)
	return nil
}

func (h *Host) cmdBreakpointRemove(c selection) error {
	b, ok := h.selectBreakpoint(c)
	if !ok {
		return nil
	}
	h.debugger.RemoveBreakpoint(b.Address)
	h.printf("Breakpoint at $%04X removed.\n", b.Address)
	return nil
}

func (h *Host) cmdBreakpointEnable(c selection) error {
	b, ok := h.selectBreakpoint(c)
	if !ok {
		return nil
	}
	b.Disabled = false
	h.printf("Breakpoint at $%04X enabled.\n", b.Address)
	return nil
}

func (h *Host) cmdBreakpointDisable(c selection) error {
	b, ok := h.selectBreakpoint(c)
	if !ok {
		return nil
	}
	b.Disabled = true
	h.printf("Breakpoint at $%04X disabled.\n", b.Address)
	return nil
}

func (h *Host) selectBreakpoint(c selection) (*cpu.Breakpoint, bool) {
	if len(c.args) < 1 {
		h.displayHelpText(c.cmd)
		return nil, false
	}

	addr, err := h.parseExpr(c.args[0])
	if err != nil {
		h.printf("%v\n", err)
		return nil, false
	}

	b := h.debugger.GetBreakpoint(addr)
	if b == nil {
		h.printf("No breakpoint was set on $%04X.\n", addr)
		return nil, false
	}
	return b, true
}

func (h *Host) cmdDataBreakpointList(c selection) error {
	h.println("Addr  Enabled  Value  Hits")
	h.println("----- -------  -----  ----")
	for _, b := range h.debugger.GetDataBreakpoints() {
		value := "<none>"
		if b.Conditional {
			value = fmt.Sprintf("$%02X", b.Value)
		}
		h.printf("$%04X %-5v    %-6s %d\n", b.Address, !b.Disabled, value, b.Hits)
	}
	return nil
}

func (h *Host) cmdDataBreakpointAdd(c selection) error {
	if len(c.args) < 1 {
		h.displayHelpText(c.cmd)
		return nil
	}

	addr, err := h.parseExpr(c.args[0])
	if err != nil {
		h.printf("%v\n", err)
		return nil
	}

	if len(c.args) > 1 {
		value, err := h.parseExpr(c.args[1])
		if err != nil {
			h.printf("%v\n", err)
			return nil
		}
		h.debugger.AddConditionalDataBreakpoint(addr, byte(value))
		h.printf("Conditional data breakpoint added at $%04X for value $%02X.\n", addr, byte(value))
	} else {
		h.debugger.AddDataBreakpoint(addr)
		h.printf("Data breakpoint added at $%04X.\n", addr)
	}
	return nil
}

func (h *Host) cmdDataBreakpointRemove(c selection) error {
	b, ok := h.selectDataBreakpoint(c)
	if !ok {
		return nil
	}
	h.debugger.RemoveDataBreakpoint(b.Address)
	h.printf("Data breakpoint at $%04X removed.\n", b.Address)
	return nil
}

func (h *Host) cmdDataBreakpointEnable(c selection) error {
	b, ok := h.selectDataBreakpoint(c)
	if !ok {
		return nil
	}
	b.Disabled = false
	h.printf("Data breakpoint at $%04X enabled.\n", b.Address)
	return nil
}

func (h *Host) cmdDataBreakpointDisable(c selection) error {
	b, ok := h.selectDataBreakpoint(c)
	if !ok {
		return nil
	}
	b.Disabled = true
	h.printf("Data breakpoint at $%04X disabled.\n", b.Address)
	return nil
}

func (h *Host) selectDataBreakpoint(c selection) (*cpu.DataBreakpoint, bool) {
	if len(c.args) < 1 {
		h.displayHelpText(c.cmd)
		return nil, false
	}

	addr, err := h.parseExpr(c.args[0])
	if err != nil {
		h.printf("%v\n", err)
		return nil, false
	}

	b := h.debugger.GetDataBreakpoint(addr)
	if b == nil {
		h.printf("No data breakpoint was set on $%04X.\n", addr)
		return nil, false
	}
	return b, true
}

func (h *Host) cmdDisassemble(c selection) error {
	if !h.requireArch() {
		return nil
	}
	if len(c.args) == 0 {
		c.args = []string{"$"}
	}

	var addr uint16
	switch c.args[0] {
	case "$":
		addr = h.settings.NextDisasmAddr
		if addr == 0 {
			addr = h.arch.CPU.Addr()
		}
	default:
		a, err := h.parseExpr(c.args[0])
		if err != nil {
			h.printf("%v\n", err)
			return nil
		}
		addr = a
	}

	lines := h.settings.DisasmLines
	if len(c.args) > 1 {
		l, err := h.parseExpr(c.args[1])
		if err != nil {
			h.printf("%v\n", err)
			return nil
		}
		lines = int(l)
	}

	for i := 0; i < lines; i++ {
		d, next := h.disassemble(addr, 0)
		h.println(d)
		addr = next
	}

	h.settings.NextDisasmAddr = addr
	h.lastCmd.args = []string{"$", fmt.Sprintf("#%d", lines)}
	return nil
}

func (h *Host) cmdEvaluate(c selection) error {
	if len(c.args) < 1 {
		h.displayHelpText(c.cmd)
		return nil
	}

	v, err := h.parseExpr(strings.Join(c.args, " "))
	if err != nil {
		h.printf("%v\n", err)
		return nil
	}

	h.printf("$%04X\n", v)
	return nil
}

func (h *Host) cmdExecute(c selection) error {
	if len(c.args) < 1 {
		h.displayHelpText(c.cmd)
		return nil
	}

	file, err := os.Open(c.args[0])
	if err != nil {
		h.printf("Failed to open '%s': %v\n", filepath.Base(c.args[0]), err)
		return nil
	}
	defer file.Close()

	// Lines are executed in place; an empty line is skipped rather than
	// repeating the previous command.
	s := bufio.NewScanner(file)
	for s.Scan() {
		line := s.Text()
		if strings.TrimSpace(line) == "" || strings.HasPrefix(strings.TrimSpace(line), "#") {
			continue
		}
		if err := h.runLine(line); err != nil {
			return err
		}
	}
	return nil
}

func (h *Host) cmdFrame(c selection) error {
	if !h.requireArch() {
		return nil
	}

	count := 1
	if len(c.args) > 0 {
		n, err := h.parseExpr(c.args[0])
		if err != nil {
			h.printf("%v\n", err)
			return nil
		}
		count = int(n)
	}

	target := h.arch.PPU.Frames + uint64(count)
	h.state = stateRunning
	for h.state == stateRunning && h.arch.PPU.Frames < target {
		h.step()
	}
	h.state = stateProcessingCommands

	h.printf("Frame %d, PC=$%04X.\n", h.arch.PPU.Frames, h.arch.CPU.Addr())
	h.settings.NextDisasmAddr = h.arch.CPU.Addr()
	return nil
}

func (h *Host) cmdHelp(c selection) error {
	if len(c.args) == 0 {
		h.displayCommands("nesnes commands:", "")
		return nil
	}

	line := strings.Join(c.args, " ")
	n, _, err := cmds.Lookup(line)
	if err != nil {
		if !h.displayInstructionHelp(c.args[0]) {
			h.printf("%v\n", err)
		}
		return nil
	}

	switch n := n.(type) {
	case *cmd.Command:
		sel := n.Data.(*command)
		if sel.usage != "" {
			h.printf("Syntax: %s\n\n", sel.usage)
		}
		switch {
		case sel.description != "":
			h.printf("Description:\n%s\n\n", indentWrap(3, sel.description))
		case sel.brief != "":
			h.printf("Description:\n%s.\n\n", indentWrap(3, sel.brief))
		}
	default:
		for _, t := range []string{"breakpoint", "databreakpoint", "memory", "step"} {
			if strings.HasPrefix(t, strings.ToLower(c.args[0])) {
				h.displayCommands(t+" commands:", t+" ")
				return nil
			}
		}
		h.println("Type 'help' for a list of commands.")
	}
	return nil
}

// displayInstructionHelp lists every opcode of a CPU mnemonic. It reports
// false if name is not a mnemonic.
func (h *Host) displayInstructionHelp(name string) bool {
	insts := cpu.GetInstructionSet().GetInstructions(name)
	if len(insts) == 0 {
		return false
	}

	h.printf("%s (%s) opcodes:\n", insts[0].Name, insts[0].Family)
	h.println("   Opcode  Mode  Bytes  Cycles")
	for _, inst := range insts {
		h.printf("   $%02X     %-4s  %-5d  %d\n", inst.Opcode, inst.Mode, inst.Length, inst.Cycles)
	}
	return true
}

func (h *Host) cmdLoad(c selection) error {
	if len(c.args) < 1 {
		h.displayHelpText(c.cmd)
		return nil
	}

	filename := c.args[0]
	if filepath.Ext(filename) == "" {
		filename += ".nes"
	}

	if err := h.Load(filename); err != nil {
		h.printf("Failed to load '%s': %v\n", filepath.Base(filename), err)
		return nil
	}
	h.printf("Loaded '%s': %s.\n", filepath.Base(filename), h.arch.Cart)
	h.displayPC()
	return nil
}

func (h *Host) cmdMemoryDump(c selection) error {
	if !h.requireArch() {
		return nil
	}
	if len(c.args) == 0 {
		c.args = []string{"$"}
	}

	addr, bytes, ok := h.parseRange(c.args, h.settings.NextMemDumpAddr, h.arch.CPU.Addr(), h.settings.MemDumpBytes)
	if !ok {
		return nil
	}

	h.dumpMemory(addr, bytes, 0xffff, h.arch.Bus.Peek)

	h.settings.NextMemDumpAddr = addr + bytes
	h.lastCmd.args = []string{"$", fmt.Sprintf("#%d", bytes)}
	return nil
}

func (h *Host) cmdMemorySet(c selection) error {
	if !h.requireArch() {
		return nil
	}
	if len(c.args) < 2 {
		h.displayHelpText(c.cmd)
		return nil
	}

	addr, err := h.parseExpr(c.args[0])
	if err != nil {
		h.printf("%v\n", err)
		return nil
	}

	for i, arg := range c.args[1:] {
		v, err := h.parseExpr(arg)
		if err != nil {
			h.printf("%v\n", err)
			return nil
		}
		if err := h.arch.Bus.Write(addr+uint16(i), byte(v)); err != nil {
			h.printf("%v\n", err)
			return nil
		}
	}

	h.printf("Stored %d byte(s) at $%04X.\n", len(c.args)-1, addr)
	return nil
}

func (h *Host) cmdPad(c selection) error {
	if !h.requireArch() {
		return nil
	}
	if len(c.args) < 1 {
		h.displayHelpText(c.cmd)
		return nil
	}

	b, err := parseButtons(c.args[0])
	if err != nil {
		h.printf("%v\n", err)
		return nil
	}

	port := 1
	if len(c.args) > 1 {
		n, err := h.parseExpr(c.args[1])
		if err != nil || n < 1 || n > 2 {
			h.println("Port must be 1 or 2.")
			return nil
		}
		port = int(n)
	}

	h.arch.Pads.Pads[port-1].SetButtons(b)
	h.printf("Pad %d: %s.\n", port, buttonsString(b))
	return nil
}

func (h *Host) cmdPattern(c selection) error {
	if !h.requireArch() {
		return nil
	}
	if len(c.args) < 1 {
		h.displayHelpText(c.cmd)
		return nil
	}

	n, err := h.parseExpr(c.args[0])
	if err != nil {
		h.printf("%v\n", err)
		return nil
	}

	pt := h.arch.PatternTable()
	if int(n) >= len(pt) {
		h.printf("Tile %d out of range; the pattern table has %d tiles.\n", n, len(pt))
		return nil
	}

	tile := pt[n]
	buf := make([]byte, 8)
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			buf[x] = '0' + tile[y*8+x]
		}
		h.println(string(buf))
	}
	return nil
}

func (h *Host) cmdPPU(c selection) error {
	if !h.requireArch() {
		return nil
	}

	p := h.arch.PPU
	r := &p.Reg
	h.printf("CTRL=$%02X MASK=$%02X STATUS=$%02X OAMADDR=$%02X\n", r.Ctrl, r.Mask, r.Status, r.OAMAddr)
	h.printf("SCROLL=%d,%d VRAMADDR=$%04X TOGGLE=%v OAMTOGGLE=%v\n", r.ScrollX, r.ScrollY, r.VRAMAddr, r.Toggle, r.OAMToggle)
	h.printf("SCANLINE=%d CYCLE=%d FRAMES=%d MIRRORING=%s\n", p.Scanline, p.Cycle, p.Frames, p.Mirroring())
	return nil
}

func (h *Host) cmdQuit(c selection) error {
	return errQuit
}

func (h *Host) cmdRegister(c selection) error {
	if !h.requireArch() {
		return nil
	}

	if len(c.args) == 0 {
		d, _ := h.disassemble(h.arch.CPU.Addr(), displayAll)
		h.println(d)
		return nil
	}

	if len(c.args) < 2 {
		h.displayHelpText(c.cmd)
		return nil
	}

	key := strings.ToLower(c.args[0])
	v, err := h.parseExpr(strings.Join(c.args[1:], " "))
	if err != nil {
		h.printf("%v\n", err)
		return nil
	}

	reg := &h.arch.CPU.Reg
	sz := -1
	switch key {
	case "a":
		reg.A, sz = byte(v), 1
	case "x":
		reg.X, sz = byte(v), 1
	case "y":
		reg.Y, sz = byte(v), 1
	case "sp":
		reg.SP, sz = byte(v), 1
	case ".", "pc":
		if v < cpu.ProgramBase {
			h.printf("PC must address program memory ($%04X-$FFFF).\n", cpu.ProgramBase)
			return nil
		}
		key = "pc"
		h.arch.CPU.SetPC(v - cpu.ProgramBase)
		sz = 2
	case "n":
		reg.Negative, sz = intToBool(int(v)), 0
	case "v":
		reg.Overflow, sz = intToBool(int(v)), 0
	case "b":
		reg.Break, sz = intToBool(int(v)), 0
	case "i":
		reg.InterruptDisable, sz = intToBool(int(v)), 0
	case "z":
		reg.Zero, sz = intToBool(int(v)), 0
	case "c":
		reg.Carry, sz = intToBool(int(v)), 0
	}

	switch sz {
	case 0:
		h.printf("Register %s set to %v.\n", strings.ToUpper(key), intToBool(int(v)))
	case 1:
		h.printf("Register %s set to $%02X.\n", strings.ToUpper(key), byte(v))
	case 2:
		h.printf("Register %s set to $%04X.\n", strings.ToUpper(key), v)
		h.settings.NextDisasmAddr = v
	default:
		h.printf("Unknown register '%s'.\n", c.args[0])
	}
	return nil
}

func (h *Host) cmdReset(c selection) error {
	if !h.requireArch() {
		return nil
	}
	h.arch.Reset()
	h.settings.NextDisasmAddr = h.arch.CPU.Addr()
	h.printf("Reset; PC=$%04X.\n", h.arch.CPU.Addr())
	return nil
}

func (h *Host) cmdRun(c selection) error {
	if !h.requireArch() {
		return nil
	}

	if len(c.args) > 0 {
		addr, err := h.parseExpr(c.args[0])
		if err != nil {
			h.printf("%v\n", err)
			return nil
		}
		if addr < cpu.ProgramBase {
			h.printf("Run address must be in program memory ($%04X-$FFFF).\n", cpu.ProgramBase)
			return nil
		}
		h.arch.CPU.SetPC(addr - cpu.ProgramBase)
	}

	h.printf("Running from $%04X. Press ctrl-C to break.\n", h.arch.CPU.Addr())

	steps := 0
	h.state = stateRunning
	for h.state == stateRunning {
		h.step()
		steps++
		if limit := h.settings.MaxRunSteps; limit > 0 && steps >= limit && h.state == stateRunning {
			h.printf("Stopped after %d instructions.\n", steps)
			h.displayPC()
			break
		}
	}
	h.state = stateProcessingCommands

	h.settings.NextDisasmAddr = h.arch.CPU.Addr()
	return nil
}

func (h *Host) cmdScript(c selection) error {
	if !h.requireArch() {
		return nil
	}
	if len(c.args) < 1 {
		h.displayHelpText(c.cmd)
		return nil
	}

	if err := h.runScriptFile(c.args[0]); err != nil {
		if h.quit {
			return errQuit
		}
		h.printf("Script error: %v\n", err)
	}
	return nil
}

func (h *Host) cmdSet(c selection) error {
	switch len(c.args) {
	case 0:
		h.println("Variables:")
		h.settings.Display(h.output)
		h.flush()

	case 1:
		h.displayHelpText(c.cmd)

	default:
		key, value := strings.ToLower(c.args[0]), strings.Join(c.args[1:], " ")

		var err error
		switch h.settings.Kind(key) {
		case reflect.Invalid:
			err = fmt.Errorf("setting '%s' not found", key)
		case reflect.Bool:
			var v bool
			v, err = stringToBool(value)
			if err == nil {
				err = h.settings.Set(key, v)
			}
		default:
			var v int64
			v, err = h.exprParser.Parse(value, h)
			if err == nil {
				err = h.settings.Set(key, v)
			}
		}

		if err == nil {
			h.println("Setting updated.")
		} else {
			h.printf("%v\n", err)
		}

		h.onSettingsUpdate()
	}

	return nil
}

func (h *Host) cmdStepIn(c selection) error {
	return h.stepCommand(c, h.step)
}

func (h *Host) cmdStepOver(c selection) error {
	return h.stepCommand(c, h.stepOver)
}

func (h *Host) stepCommand(c selection, step func()) error {
	if !h.requireArch() {
		return nil
	}

	// Parse the number of steps.
	count := 1
	if len(c.args) > 0 {
		n, err := h.parseExpr(c.args[0])
		if err == nil {
			count = int(n)
		}
	}

	// Step the CPU count times.
	h.state = stateRunning
	for i := count - 1; i >= 0 && h.state == stateRunning; i-- {
		step()
		switch {
		case i == h.settings.MaxStepLines:
			h.println("...")
		case i < h.settings.MaxStepLines:
			h.displayPC()
		}
	}
	h.state = stateProcessingCommands

	h.settings.NextDisasmAddr = h.arch.CPU.Addr()
	return nil
}

func (h *Host) cmdVRAM(c selection) error {
	if !h.requireArch() {
		return nil
	}
	if len(c.args) == 0 {
		c.args = []string{"$"}
	}

	addr, bytes, ok := h.parseRange(c.args, h.settings.NextVRAMAddr, 0x2000, h.settings.MemDumpBytes)
	if !ok {
		return nil
	}
	addr &= 0x3fff

	vram := &h.arch.PPU.VRAM
	h.dumpMemory(addr, bytes, 0x3fff, vram.Read)

	h.settings.NextVRAMAddr = (addr + bytes) & 0x3fff
	h.lastCmd.args = []string{"$", fmt.Sprintf("#%d", bytes)}
	return nil
}

// parseRange parses the "<address> [<bytes>]" arguments shared by the
// dump commands. An address of "$" continues from next, or from def if
// next is zero.
func (h *Host) parseRange(args []string, next, def uint16, defBytes int) (addr, bytes uint16, ok bool) {
	switch args[0] {
	case "$":
		addr = next
		if addr == 0 {
			addr = def
		}
	default:
		a, err := h.parseExpr(args[0])
		if err != nil {
			h.printf("%v\n", err)
			return 0, 0, false
		}
		addr = a
	}

	bytes = uint16(defBytes)
	if len(args) >= 2 {
		var err error
		bytes, err = h.parseExpr(args[1])
		if err != nil {
			h.printf("%v\n", err)
			return 0, 0, false
		}
	}
	return addr, bytes, true
}

func (h *Host) step() {
	if _, err := h.arch.Step(); err != nil {
		h.printf("CPU halted: %v.\n", err)
		h.state = stateHalted
	}
}

func (h *Host) stepOver() {
	a := h.arch

	// JSR instructions need to be handled specially.
	addr := a.CPU.Addr()
	inst := a.CPU.InstSet.Lookup(a.Bus.Peek(addr))
	if inst.Name != "JSR" {
		h.step()
		return
	}

	// Run until the subroutine returns to the instruction following the
	// JSR or the run is interrupted.
	next := addr + uint16(inst.Length)
	h.step()
	for h.state == stateRunning && a.CPU.Addr() != next {
		h.step()
	}
}

func (h *Host) onSettingsUpdate() {
	h.exprParser.hexMode = h.settings.HexMode
}

func (h *Host) parseExpr(expr string) (uint16, error) {
	v, err := h.exprParser.Parse(expr, h)
	if err != nil {
		return 0, err
	}

	if v < 0 {
		v = 0x10000 + v
	}
	return uint16(v), nil
}

func (h *Host) disassemble(addr uint16, flags displayFlags) (str string, next uint16) {
	bus := h.arch.Bus

	var line string
	line, next = disasm.Disassemble(bus, addr)
	str = fmt.Sprintf("%04X-   %-8s    %-15s", addr, disasm.Bytes(bus, addr), line)

	if (flags & displayRegisters) != 0 {
		str += " " + registerString(&h.arch.CPU.Reg)
	}

	if (flags & displayCycles) != 0 {
		str += fmt.Sprintf(" C=%-12d", h.arch.CPU.Cycles)
	}

	return str, next
}

// dumpMemory displays bytes bytes starting at addr0, reading each through
// peek. Addresses above limit are not displayed.
func (h *Host) dumpMemory(addr0, bytes, limit uint16, peek func(uint16) byte) {
	if bytes == 0 {
		return
	}

	addr1 := addr0 + bytes - 1
	if addr1 < addr0 || addr1 > limit {
		addr1 = limit
	}

	buf := []byte("    -" + strings.Repeat(" ", 35))

	// Don't align display for short dumps.
	if addr1-addr0 < 8 {
		addrToBuf(addr0, buf[0:4])
		for a, c1, c2 := uint32(addr0), 6, 32; a <= uint32(addr1); a, c1, c2 = a+1, c1+3, c2+1 {
			m := peek(uint16(a))
			byteToBuf(m, buf[c1:c1+2])
			buf[c2] = toPrintableChar(m)
		}
		h.println(strings.TrimRight(string(buf), " "))
		return
	}

	// Align addr0 and addr1 to 8-byte boundaries.
	start := uint32(addr0) & 0xfff8
	stop := (uint32(addr1) + 8) & 0xffff8
	if stop > uint32(limit)+1 {
		stop = uint32(limit) + 1
	}

	for r := start; r < stop; r += 8 {
		addrToBuf(uint16(r), buf[0:4])
		for a, c1, c2 := r, 6, 32; c1 < 29; a, c1, c2 = a+1, c1+3, c2+1 {
			if a >= uint32(addr0) && a <= uint32(addr1) {
				m := peek(uint16(a))
				byteToBuf(m, buf[c1:c1+2])
				buf[c2] = toPrintableChar(m)
			} else {
				buf[c1] = ' '
				buf[c1+1] = ' '
				buf[c2] = ' '
			}
		}
		h.println(strings.TrimRight(string(buf), " "))
	}
}

func (h *Host) displayHelpText(c *command) {
	if c.usage != "" {
		h.printf("Syntax: %s\n", c.usage)
	} else {
		h.println("<no help text>")
	}
}

func (h *Host) displayCommands(title, prefix string) {
	h.println(title)
	for _, c := range commands {
		if c.brief == "" || !strings.HasPrefix(c.name, prefix) {
			continue
		}
		// Commands inside a subtree are listed under the subtree only.
		if prefix == "" && strings.Contains(c.name, " ") {
			continue
		}
		h.printf("    %-15s  %s\n", strings.TrimPrefix(c.name, prefix), c.brief)
	}
	if prefix == "" {
		h.printf("    %-15s  %s\n", "breakpoint", "Breakpoint commands")
		h.printf("    %-15s  %s\n", "databreakpoint", "Data breakpoint commands")
		h.printf("    %-15s  %s\n", "memory", "Memory commands")
		h.printf("    %-15s  %s\n", "step", "Step the debugger")
	}
}

func (h *Host) resolveIdentifier(s string) (int64, error) {
	if h.arch == nil {
		return 0, fmt.Errorf("identifier '%s' not found", s)
	}

	reg := &h.arch.CPU.Reg
	switch strings.ToLower(s) {
	case "a":
		return int64(reg.A), nil
	case "x":
		return int64(reg.X), nil
	case "y":
		return int64(reg.Y), nil
	case "sp":
		return int64(reg.SP) | 0x0100, nil
	case ".", "pc":
		return int64(h.arch.CPU.Addr()), nil
	}
	return 0, fmt.Errorf("identifier '%s' not found", s)
}

// OnBreakpoint stops a running program when the CPU reaches an enabled
// breakpoint. It is called by the debugger attached to the console.
func (h *Host) OnBreakpoint(c *cpu.CPU, b *cpu.Breakpoint) {
	h.state = stateBreakpoint
	h.printf("Breakpoint hit at $%04X.\n", b.Address)
	h.displayPC()
}

// OnDataBreakpoint stops a running program after a store to a watched
// address.
func (h *Host) OnDataBreakpoint(c *cpu.CPU, b *cpu.DataBreakpoint) {
	h.printf("Data breakpoint hit on address $%04X.\n", b.Address)

	h.state = stateBreakpoint

	if h.interactive && h.arch != nil {
		d, _ := h.disassemble(cpu.ProgramBase+c.LastPC, displayAll)
		h.println(d)
	}
}
