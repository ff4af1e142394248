// Copyright 2026 The nesnes Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package host

import (
	"errors"
	"strings"

	"github.com/nesnes-emu/nesnes/cpu"
	lua "github.com/yuin/gopher-lua"
)

// newScriptState returns a Lua state with the console API installed as
// globals:
//
//	peek(addr)         read a byte without side effects
//	poke(addr, v)      write a byte through the bus
//	vram(addr)         read a byte of video memory
//	step([n])          execute n instructions, returning the cycles used
//	frame([n])         run n frames, returning the frame count
//	reg()              table of registers; pc is a CPU address
//	pad(buttons, [p])  set the buttons held on port p
//	cmd(line)          run a host command
//	print(...)         write to the host output
func (h *Host) newScriptState() *lua.LState {
	L := lua.NewState()
	fns := map[string]lua.LGFunction{
		"peek":  h.luaPeek,
		"poke":  h.luaPoke,
		"vram":  h.luaVRAM,
		"step":  h.luaStep,
		"frame": h.luaFrame,
		"reg":   h.luaReg,
		"pad":   h.luaPad,
		"cmd":   h.luaCmd,
		"print": h.luaPrint,
	}
	for name, fn := range fns {
		L.SetGlobal(name, L.NewFunction(fn))
	}
	return L
}

func (h *Host) runScriptFile(path string) error {
	L := h.newScriptState()
	defer L.Close()
	return L.DoFile(path)
}

func (h *Host) runScriptString(src string) error {
	L := h.newScriptState()
	defer L.Close()
	return L.DoString(src)
}

func checkAddr(L *lua.LState, n int) uint16 {
	v := L.CheckInt(n)
	if v < 0 || v > 0xffff {
		L.ArgError(n, "address out of range")
	}
	return uint16(v)
}

func (h *Host) luaPeek(L *lua.LState) int {
	L.Push(lua.LNumber(h.arch.Bus.Peek(checkAddr(L, 1))))
	return 1
}

func (h *Host) luaPoke(L *lua.LState) int {
	addr := checkAddr(L, 1)
	v := L.CheckInt(2)
	if err := h.arch.Bus.Write(addr, byte(v)); err != nil {
		L.RaiseError("%v", err)
	}
	return 0
}

func (h *Host) luaVRAM(L *lua.LState) int {
	L.Push(lua.LNumber(h.arch.PPU.VRAM.Read(checkAddr(L, 1) & 0x3fff)))
	return 1
}

func (h *Host) luaStep(L *lua.LState) int {
	n := L.OptInt(1, 1)
	total := 0
	for i := 0; i < n; i++ {
		cycles, err := h.arch.Step()
		if err != nil {
			L.RaiseError("%v", err)
		}
		total += cycles
	}
	L.Push(lua.LNumber(total))
	return 1
}

func (h *Host) luaFrame(L *lua.LState) int {
	n := L.OptInt(1, 1)
	for i := 0; i < n; i++ {
		if err := h.arch.RunFrame(); err != nil {
			L.RaiseError("%v", err)
		}
	}
	L.Push(lua.LNumber(h.arch.PPU.Frames))
	return 1
}

func (h *Host) luaReg(L *lua.LState) int {
	r := &h.arch.CPU.Reg
	t := L.NewTable()
	L.SetField(t, "a", lua.LNumber(r.A))
	L.SetField(t, "x", lua.LNumber(r.X))
	L.SetField(t, "y", lua.LNumber(r.Y))
	L.SetField(t, "sp", lua.LNumber(r.SP))
	L.SetField(t, "pc", lua.LNumber(cpu.ProgramBase+r.PC))
	L.SetField(t, "n", lua.LBool(r.Negative))
	L.SetField(t, "v", lua.LBool(r.Overflow))
	L.SetField(t, "b", lua.LBool(r.Break))
	L.SetField(t, "i", lua.LBool(r.InterruptDisable))
	L.SetField(t, "z", lua.LBool(r.Zero))
	L.SetField(t, "c", lua.LBool(r.Carry))
	L.SetField(t, "cycles", lua.LNumber(h.arch.CPU.Cycles))
	L.Push(t)
	return 1
}

func (h *Host) luaPad(L *lua.LState) int {
	b, err := parseButtons(L.CheckString(1))
	if err != nil {
		L.ArgError(1, err.Error())
	}
	port := L.OptInt(2, 1)
	if port < 1 || port > 2 {
		L.ArgError(2, "port must be 1 or 2")
	}
	h.arch.Pads.Pads[port-1].SetButtons(b)
	return 0
}

func (h *Host) luaCmd(L *lua.LState) int {
	if err := h.runLine(L.CheckString(1)); err != nil {
		if errors.Is(err, errQuit) {
			h.quit = true
		}
		L.RaiseError("%v", err)
	}
	return 0
}

func (h *Host) luaPrint(L *lua.LState) int {
	args := make([]string, L.GetTop())
	for i := range args {
		args[i] = L.Get(i + 1).String()
	}
	h.println(strings.Join(args, "\t"))
	return 0
}
