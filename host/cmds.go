// Copyright 2026 The nesnes Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package host

import (
	"fmt"

	"github.com/beevik/cmd"
)

// A command is the host-side description of one command tree entry. It
// is stored as the entry's Data.
type command struct {
	name        string // full name, including the subtree prefix
	brief       string
	description string
	usage       string
	run         func(h *Host, c selection) error
}

// A selection is a command together with the arguments it was invoked
// with.
type selection struct {
	cmd  *command
	args []string
}

var (
	cmds     *cmd.Tree
	commands []*command
)

func addCommand(t *cmd.Tree, prefix string, c command) {
	full := c
	if prefix != "" {
		full.name = prefix + " " + c.name
	}
	commands = append(commands, &full)
	t.AddCommand(cmd.CommandDescriptor{
		Name:        c.name,
		Brief:       c.brief,
		Description: c.description,
		Usage:       c.usage,
		Data:        &full,
	})
}

// shortcuts maps each command shortcut to its full command.
var shortcuts = [][2]string{
	{"ba", "breakpoint add"},
	{"br", "breakpoint remove"},
	{"bl", "breakpoint list"},
	{"be", "breakpoint enable"},
	{"bd", "breakpoint disable"},
	{"d", "disassemble"},
	{"dbl", "databreakpoint list"},
	{"dba", "databreakpoint add"},
	{"dbr", "databreakpoint remove"},
	{"dbe", "databreakpoint enable"},
	{"dbd", "databreakpoint disable"},
	{"e", "evaluate"},
	{"f", "frame"},
	{"m", "memory dump"},
	{"ms", "memory set"},
	{"r", "register"},
	{"s", "step over"},
	{"si", "step in"},
	{"?", "help"},
	{".", "register"},
}

func addShortcut(t *cmd.Tree, name, target string) {
	if err := t.AddShortcut(name, target); err != nil {
		panic(fmt.Sprintf("shortcut %q -> %q: %v", name, target, err))
	}
}

func init() {
	root := cmd.NewTree(cmd.TreeDescriptor{Name: "nesnes"})
	addCommand(root, "", command{
		name:        "help",
		description: "Display help for a command, or the opcodes of a CPU instruction.",
		usage:       "help [<command>|<mnemonic>]",
		run:         (*Host).cmdHelp,
	})
	addCommand(root, "", command{
		name:  "apu",
		brief: "Display APU register state",
		description: "Display the decoded register state of every sound" +
			" channel, along with the channel enable and frame counter bits.",
		usage: "apu",
		run:   (*Host).cmdAPU,
	})

	// Breakpoint commands
	bp := root.AddSubtree(cmd.TreeDescriptor{Name: "breakpoint", Brief: "Breakpoint commands"})
	addCommand(bp, "breakpoint", command{
		name:        "list",
		brief:       "List breakpoints",
		description: "List all current breakpoints.",
		usage:       "breakpoint list",
		run:         (*Host).cmdBreakpointList,
	})
	addCommand(bp, "breakpoint", command{
		name:  "add",
		brief: "Add a breakpoint",
		description: "Add a breakpoint at the specified CPU address." +
			" The breakpoint starts enabled.",
		usage: "breakpoint add <address>",
		run:   (*Host).cmdBreakpointAdd,
	})
	addCommand(bp, "breakpoint", command{
		name:        "remove",
		brief:       "Remove a breakpoint",
		description: "Remove a breakpoint at the specified address.",
		usage:       "breakpoint remove <address>",
		run:         (*Host).cmdBreakpointRemove,
	})
	addCommand(bp, "breakpoint", command{
		name:        "enable",
		brief:       "Enable a breakpoint",
		description: "Enable a previously added breakpoint.",
		usage:       "breakpoint enable <address>",
		run:         (*Host).cmdBreakpointEnable,
	})
	addCommand(bp, "breakpoint", command{
		name:  "disable",
		brief: "Disable a breakpoint",
		description: "Disable a previously added breakpoint. This" +
			" prevents the breakpoint from being hit when running the CPU.",
		usage: "breakpoint disable <address>",
		run:   (*Host).cmdBreakpointDisable,
	})

	// Data breakpoint commands
	db := root.AddSubtree(cmd.TreeDescriptor{Name: "databreakpoint", Brief: "Data breakpoint commands"})
	addCommand(db, "databreakpoint", command{
		name:        "list",
		brief:       "List data breakpoints",
		description: "List all current data breakpoints.",
		usage:       "databreakpoint list",
		run:         (*Host).cmdDataBreakpointList,
	})
	addCommand(db, "databreakpoint", command{
		name:  "add",
		brief: "Add a data breakpoint",
		description: "Add a new data breakpoint at the specified" +
			" address. When the CPU stores data at this address, the" +
			" breakpoint stops the CPU. Optionally a byte value may be" +
			" given, and the CPU stops only when that value is stored.",
		usage: "databreakpoint add <address> [<value>]",
		run:   (*Host).cmdDataBreakpointAdd,
	})
	addCommand(db, "databreakpoint", command{
		name:        "remove",
		brief:       "Remove a data breakpoint",
		description: "Remove a previously added data breakpoint.",
		usage:       "databreakpoint remove <address>",
		run:         (*Host).cmdDataBreakpointRemove,
	})
	addCommand(db, "databreakpoint", command{
		name:        "enable",
		brief:       "Enable a data breakpoint",
		description: "Enable a previously added data breakpoint.",
		usage:       "databreakpoint enable <address>",
		run:         (*Host).cmdDataBreakpointEnable,
	})
	addCommand(db, "databreakpoint", command{
		name:        "disable",
		brief:       "Disable a data breakpoint",
		description: "Disable a previously added data breakpoint.",
		usage:       "databreakpoint disable <address>",
		run:         (*Host).cmdDataBreakpointDisable,
	})

	addCommand(root, "", command{
		name:  "disassemble",
		brief: "Disassemble code",
		description: "Disassemble machine code starting at the requested" +
			" address. The number of instruction lines to disassemble may be" +
			" specified as an option. If no address is specified, the" +
			" disassembly continues from where the last disassembly left off.",
		usage: "disassemble [<address>] [<lines>]",
		run:   (*Host).cmdDisassemble,
	})
	addCommand(root, "", command{
		name:        "evaluate",
		brief:       "Evaluate an expression",
		description: "Evaluate a mathematical expression.",
		usage:       "evaluate <expression>",
		run:         (*Host).cmdEvaluate,
	})
	addCommand(root, "", command{
		name:  "execute",
		brief: "Execute a command script file",
		description: "Load a script file from disk and execute the host" +
			" commands it contains.",
		usage: "execute <filename>",
		run:   (*Host).cmdExecute,
	})
	addCommand(root, "", command{
		name:  "frame",
		brief: "Run whole frames",
		description: "Run the console until the PPU has completed the" +
			" requested number of frames. Breakpoints stop the run early.",
		usage: "frame [<count>]",
		run:   (*Host).cmdFrame,
	})
	addCommand(root, "", command{
		name:  "load",
		brief: "Load a cartridge",
		description: "Load an iNES cartridge image and power on a new" +
			" console. Existing breakpoints are kept.",
		usage: "load <filename>",
		run:   (*Host).cmdLoad,
	})

	// Memory commands
	me := root.AddSubtree(cmd.TreeDescriptor{Name: "memory", Brief: "Memory commands"})
	addCommand(me, "memory", command{
		name:  "dump",
		brief: "Dump memory at address",
		description: "Dump the contents of CPU memory starting from the" +
			" specified address. Reads have no side effects on mapped" +
			" registers. If no address is specified, the memory dump" +
			" continues from where the last dump left off.",
		usage: "memory dump [<address>] [<bytes>]",
		run:   (*Host).cmdMemoryDump,
	})
	addCommand(me, "memory", command{
		name:  "set",
		brief: "Set memory at address",
		description: "Write a series of space-separated byte values to" +
			" CPU memory starting at the specified address. Writes go" +
			" through the bus, so register side effects apply.",
		usage: "memory set <address> <byte> [<byte> ...]",
		run:   (*Host).cmdMemorySet,
	})

	addCommand(root, "", command{
		name:  "pad",
		brief: "Set joypad buttons",
		description: "Set the buttons held on a joypad, as a list of" +
			" names separated by '+' (A, B, Select, Start, Up, Down, Left," +
			" Right), or none. The port defaults to 1.",
		usage: "pad <buttons> [<port>]",
		run:   (*Host).cmdPad,
	})
	addCommand(root, "", command{
		name:  "pattern",
		brief: "Display a pattern table tile",
		description: "Display the color indices of one decoded tile from" +
			" the cartridge pattern table.",
		usage: "pattern <tile>",
		run:   (*Host).cmdPattern,
	})
	addCommand(root, "", command{
		name:  "ppu",
		brief: "Display PPU state",
		description: "Display the PPU registers, the address toggles and" +
			" the current scanline position.",
		usage: "ppu",
		run:   (*Host).cmdPPU,
	})
	addCommand(root, "", command{
		name:        "quit",
		brief:       "Quit the program",
		description: "Quit the program.",
		usage:       "quit",
		run:         (*Host).cmdQuit,
	})
	addCommand(root, "", command{
		name:  "register",
		brief: "View or change register values",
		description: "When used without arguments, this command displays the" +
			" contents of the CPU registers. When used with arguments, this" +
			" command changes the value of a register or one of the CPU's status" +
			" flags. Allowed register names include A, X, Y, PC and SP. Allowed" +
			" flag names include N, V, B, I, Z and C. PC takes a CPU address.",
		usage: "register [<name> <value>]",
		run:   (*Host).cmdRegister,
	})
	addCommand(root, "", command{
		name:        "reset",
		brief:       "Reset the console",
		description: "Apply the reset entry rule and restart execution.",
		usage:       "reset",
		run:         (*Host).cmdReset,
	})
	addCommand(root, "", command{
		name:  "run",
		brief: "Run the CPU",
		description: "Run the CPU until a breakpoint is hit, the CPU" +
			" halts, or the user types Ctrl-C.",
		usage: "run [<address>]",
		run:   (*Host).cmdRun,
	})
	addCommand(root, "", command{
		name:  "script",
		brief: "Run a Lua script",
		description: "Run a Lua script against the console. Scripts may" +
			" call peek, poke, step, frame, reg, pad and cmd.",
		usage: "script <filename>",
		run:   (*Host).cmdScript,
	})
	addCommand(root, "", command{
		name:  "set",
		brief: "Set a configuration variable",
		description: "Set the value of a configuration variable. To see the" +
			" current values of all configuration variables, type set" +
			" without any arguments.",
		usage: "set [<var> <value>]",
		run:   (*Host).cmdSet,
	})

	// Step commands
	st := root.AddSubtree(cmd.TreeDescriptor{Name: "step", Brief: "Step the debugger"})
	addCommand(st, "step", command{
		name:  "in",
		brief: "Step into next instruction",
		description: "Step the CPU by a single instruction. If the" +
			" instruction is a subroutine call, step into the subroutine." +
			" The number of steps may be specified as an option.",
		usage: "step in [<count>]",
		run:   (*Host).cmdStepIn,
	})
	addCommand(st, "step", command{
		name:  "over",
		brief: "Step over next instruction",
		description: "Step the CPU by a single instruction. If the" +
			" instruction is a subroutine call, step over the subroutine." +
			" The number of steps may be specified as an option.",
		usage: "step over [<count>]",
		run:   (*Host).cmdStepOver,
	})

	addCommand(root, "", command{
		name:  "vram",
		brief: "Dump video memory",
		description: "Dump the contents of PPU video memory starting at the" +
			" specified address, after mirroring is applied.",
		usage: "vram [<address>] [<bytes>]",
		run:   (*Host).cmdVRAM,
	})

	// Add command shortcuts. Each target must be a command, not a subtree.
	for _, sc := range shortcuts {
		addShortcut(root, sc[0], sc[1])
	}

	cmds = root
}
