/*
 * SH4 - Machine run loop test cases
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

package cpu

import (
	"errors"
	"testing"
	"time"

	"github.com/sh4sim/core/memory"
)

func TestMachineRunsInjectedStep(t *testing.T) {
	steps := make(chan struct{}, 8)
	mc := NewMachine(New(), memory.New(), func(c *CPU, m *memory.Memory) error {
		select {
		case steps <- struct{}{}:
		default:
		}
		return nil
	})

	go mc.Run()
	select {
	case <-steps:
	case <-time.After(time.Second):
		t.Fatal("machine never invoked the step function")
	}
	mc.Stop()
}

func TestMachineStopsOnStepError(t *testing.T) {
	boom := errors.New("bad cell")
	calls := 0
	mc := NewMachine(New(), memory.New(), func(c *CPU, m *memory.Memory) error {
		calls++
		return boom
	})

	done := make(chan struct{})
	go func() {
		mc.Run()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("machine should halt when step fails")
	}
	if calls != 1 {
		t.Errorf("step called %d times after a fatal error, want 1", calls)
	}
}

func TestMachineRecoversPanickingStep(t *testing.T) {
	mc := NewMachine(New(), memory.New(), func(c *CPU, m *memory.Memory) error {
		panic("invalid memory field")
	})

	done := make(chan struct{})
	go func() {
		mc.Run()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run should recover a panicking step and exit")
	}
}

func TestCPUResetState(t *testing.T) {
	c := New()
	if c.PC != InitialPC {
		t.Errorf("PC = %#08x, want the reset vector %#08x", c.PC, InitialPC)
	}
	if c.PR != 0 || c.SR.Value != 0 || c.GBR != 0 || c.FPSCR != 0 {
		t.Error("all registers other than PC should reset to zero")
	}
	for i := uint8(0); i < 16; i++ {
		if c.General(i).Value != 0 {
			t.Errorf("R%d not zero at reset", i)
		}
	}
}
