// Copyright 2026 The nesnes Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/beevik/term"

	"github.com/nesnes-emu/nesnes/cartridge"
	"github.com/nesnes-emu/nesnes/display"
	"github.com/nesnes-emu/nesnes/host"
	"github.com/nesnes-emu/nesnes/nes"
)

var (
	window   bool
	frames   int
	vector   bool
	verbose  bool
	shotPath string
)

func init() {
	flag.BoolVar(&window, "window", false, "show the cartridge in a window")
	flag.IntVar(&frames, "frames", 0, "run the cartridge for n frames without a window and exit")
	flag.BoolVar(&vector, "vector", false, "start at the reset vector instead of program offset 0")
	flag.BoolVar(&verbose, "v", false, "log debug output")
	flag.StringVar(&shotPath, "png", "", "with -frames, save the last frame as a PNG file")
	flag.CommandLine.Usage = func() {
		fmt.Println("Usage: nesnes [options] [cartridge.nes] [script] ..\nOptions:")
		flag.PrintDefaults()
	}
}

func main() {
	flag.Parse()

	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	args := flag.Args()
	var rom string
	if len(args) > 0 && strings.EqualFold(filepath.Ext(args[0]), ".nes") {
		rom, args = args[0], args[1:]
	}

	var opts []nes.Option
	if vector {
		opts = append(opts, nes.WithResetVector())
	}

	switch {
	case window:
		if rom == "" {
			exitOnError(fmt.Errorf("-window needs a cartridge"))
		}
		w, err := display.New(rom, log, opts...)
		if err != nil {
			exitOnError(err)
		}
		if err := w.Run(); err != nil {
			exitOnError(err)
		}
		return

	case frames > 0:
		if rom == "" {
			exitOnError(fmt.Errorf("-frames needs a cartridge"))
		}
		runHeadless(rom, log, opts)
		return
	}

	h := host.New(host.WithLogger(log))
	if vector {
		h.RunCommands(strings.NewReader("set resetvector true\n"), os.Stdout, false)
	}
	if rom != "" {
		if err := h.Load(rom); err != nil {
			exitOnError(err)
		}
	}

	// Run commands contained in command-line files.
	for _, filename := range args {
		file, err := os.Open(filename)
		if err != nil {
			exitOnError(err)
		}
		h.RunCommands(file, os.Stdout, false)
		file.Close()
	}

	// Break on Ctrl-C.
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt)
	go handleInterrupt(h, c)

	h.RunCommands(os.Stdin, os.Stdout, term.IsTerminal(int(os.Stdin.Fd())))
}

func runHeadless(rom string, log *slog.Logger, opts []nes.Option) {
	cart, err := cartridge.Load(rom)
	if err != nil {
		exitOnError(err)
	}
	a, err := nes.New(cart, append(opts, nes.WithLogger(log))...)
	if err != nil {
		exitOnError(err)
	}
	for i := 0; i < frames; i++ {
		if err := a.RunFrame(); err != nil {
			exitOnError(err)
		}
	}
	fmt.Printf("%d frames, %d cycles, PC=$%04X\n", a.PPU.Frames, a.CPU.Cycles, a.CPU.Addr())

	if shotPath != "" {
		data, err := display.Screenshot(a.Frame())
		if err != nil {
			exitOnError(err)
		}
		if err := os.WriteFile(shotPath, data, 0o644); err != nil {
			exitOnError(err)
		}
	}
}

func handleInterrupt(h *host.Host, c chan os.Signal) {
	for {
		<-c
		h.Break()
	}
}

func exitOnError(err error) {
	fmt.Fprintf(os.Stderr, "ERROR: %v\n", err)
	os.Exit(1)
}
