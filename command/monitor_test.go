/*
 * SH4 - Monitor command test cases
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

package command

import (
	"strings"
	"testing"

	"github.com/sh4sim/core/cpu"
	"github.com/sh4sim/core/executer"
	"github.com/sh4sim/core/memory"
)

func newTestMonitor() *Monitor {
	c := cpu.New()
	c.PC = 0x8C000000
	m := memory.New()
	// MOV #5,R0 then an unconditional self-contained stream the step
	// command can walk.
	m.WriteU16(0x8C000000, 0xE005)
	m.WriteU16(0x8C000002, 0x7003)
	return NewMonitor(cpu.NewMachine(c, m, executer.Step))
}

func TestExecuteStep(t *testing.T) {
	mon := newTestMonitor()
	quit, err := mon.Execute("step 2")
	if err != nil || quit {
		t.Fatalf("step 2: quit=%v err=%v", quit, err)
	}
	if got := mon.mc.CPU.General(0).Value; got != 8 {
		t.Errorf("R0 = %d after two steps, want 8", got)
	}
}

func TestExecuteQuit(t *testing.T) {
	mon := newTestMonitor()
	for _, line := range []string{"quit", "exit", "QUIT"} {
		quit, err := mon.Execute(line)
		if err != nil || !quit {
			t.Errorf("%q: quit=%v err=%v, want quit with no error", line, quit, err)
		}
	}
}

func TestExecuteUnknownVerb(t *testing.T) {
	mon := newTestMonitor()
	if _, err := mon.Execute("launch"); err == nil {
		t.Error("unknown verb should error")
	}
	if quit, err := mon.Execute("   "); quit || err != nil {
		t.Error("blank line should be a quiet no-op")
	}
}

func TestExecuteBreakAndContinue(t *testing.T) {
	mon := newTestMonitor()
	if _, err := mon.Execute("break 0x8c000002"); err != nil {
		t.Fatal(err)
	}
	mon.Execute("continue")
	if got := mon.mc.CPU.PC; got != 0x8C000002 {
		t.Errorf("PC = %#08x, want stopped at the breakpoint", got)
	}

	if _, err := mon.Execute("break nothex"); err == nil {
		t.Error("bad breakpoint address should error")
	}
}

func TestExecuteMemArgValidation(t *testing.T) {
	mon := newTestMonitor()
	if _, err := mon.Execute("mem"); err == nil || !strings.Contains(err.Error(), "addr") {
		t.Errorf("mem with no address should error, got %v", err)
	}
	if _, err := mon.Execute("mem 0x8c000000 2"); err != nil {
		t.Errorf("mem dump failed: %v", err)
	}
}
