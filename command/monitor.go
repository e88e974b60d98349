/*
 * SH4 - Interactive monitor commands
 *
 * Copyright 2025, Richard Cornwell
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in
 * all copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 *
 */

// Package command implements the interactive monitor: a small fixed verb
// set (step, regs, mem, break, continue, quit) driving a cpu.Machine,
// plus a liner-backed reader loop. It plays the combined role of the
// teacher's command/parser and command/reader packages, collapsed into
// one package because this machine's command surface is a handful of
// verbs rather than a device-attach vocabulary.
package command

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/sh4sim/core/cpu"
	"github.com/sh4sim/core/util/hex"
)

// Monitor drives a paused cpu.Machine directly (no background goroutine):
// every verb calls mc.Step itself, so stepping and breakpoint evaluation
// never race against a second concurrent stepper.
type Monitor struct {
	mc          *cpu.Machine
	breakpoints map[uint32]struct{}
}

func NewMonitor(mc *cpu.Machine) *Monitor {
	return &Monitor{mc: mc, breakpoints: make(map[uint32]struct{})}
}

// Verbs lists the recognized command words, used both for dispatch and
// for the liner completer.
var Verbs = []string{"step", "regs", "mem", "break", "continue", "quit", "help"}

// Execute parses and runs one command line. quit reports whether the
// monitor loop should exit.
func (mon *Monitor) Execute(line string) (quit bool, err error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return false, nil
	}

	verb, args := strings.ToLower(fields[0]), fields[1:]
	switch verb {
	case "step":
		return false, mon.step(args)
	case "regs":
		mon.regs()
		return false, nil
	case "mem":
		return false, mon.mem(args)
	case "break":
		return false, mon.breakCmd(args)
	case "continue":
		mon.cont()
		return false, nil
	case "quit", "exit":
		return true, nil
	case "help":
		mon.help()
		return false, nil
	default:
		return false, fmt.Errorf("unknown command %q (try \"help\")", fields[0])
	}
}

func (mon *Monitor) help() {
	fmt.Println("commands: step [n] | regs | mem <addr> [count] | break <addr> | continue | quit")
}

func (mon *Monitor) step(args []string) error {
	n := 1
	if len(args) > 0 {
		v, err := strconv.ParseUint(args[0], 0, 32)
		if err != nil {
			return fmt.Errorf("step count: %w", err)
		}
		n = int(v)
	}
	for i := 0; i < n; i++ {
		if err := mon.mc.Step(mon.mc.CPU, mon.mc.Mem); err != nil {
			return err
		}
		fmt.Printf("pc=%#08x\n", mon.mc.CPU.PC)
	}
	return nil
}

func (mon *Monitor) regs() {
	c := mon.mc.CPU
	fmt.Printf("PC=%#08x PR=%#08x SR=%#08x GBR=%#08x VBR=%#08x\n", c.PC, c.PR, c.SR.Value, c.GBR, c.VBR)
	fmt.Printf("MACH=%#08x MACL=%#08x FPSCR=%#08x FPUL=%#08x\n", c.MACH, c.MACL, c.FPSCR, c.FPUL)
	for i := uint8(0); i < 16; i += 4 {
		fmt.Printf("R%-2d=%#08x R%-2d=%#08x R%-2d=%#08x R%-2d=%#08x\n",
			i, c.General(i).Value, i+1, c.General(i+1).Value,
			i+2, c.General(i+2).Value, i+3, c.General(i+3).Value)
	}
}

func (mon *Monitor) mem(args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("mem requires <addr> [count]")
	}
	addr64, err := strconv.ParseUint(args[0], 0, 32)
	if err != nil {
		return fmt.Errorf("mem address: %w", err)
	}
	count := 4
	if len(args) > 1 {
		c, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("mem count: %w", err)
		}
		count = c
	}

	addr := uint32(addr64)
	words := make([]uint32, count)
	for i := 0; i < count; i++ {
		words[i] = mon.mc.Mem.ReadU32(addr + uint32(i)*4)
	}

	var b strings.Builder
	fmt.Printf("%#08x: ", addr)
	hex.FormatWord(&b, words)
	fmt.Println(b.String())
	return nil
}

func (mon *Monitor) breakCmd(args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("break requires <addr>")
	}
	v, err := strconv.ParseUint(args[0], 0, 32)
	if err != nil {
		return fmt.Errorf("break address: %w", err)
	}
	mon.breakpoints[uint32(v)] = struct{}{}
	fmt.Printf("breakpoint set at %#08x\n", uint32(v))
	return nil
}

// cont steps until a breakpoint address is reached or Step returns an
// error (reported and the loop stops, mirroring Machine.Run's own
// recover-and-log-then-halt boundary for fatal conditions).
func (mon *Monitor) cont() {
	for {
		if err := mon.mc.Step(mon.mc.CPU, mon.mc.Mem); err != nil {
			fmt.Println("Error: " + err.Error())
			return
		}
		if _, hit := mon.breakpoints[mon.mc.CPU.PC]; hit {
			fmt.Printf("breakpoint hit at %#08x\n", mon.mc.CPU.PC)
			return
		}
	}
}
