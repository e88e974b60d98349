/*
 * SH4 - Machine run loop
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
	"log/slog"
	"sync"
	"time"

	"github.com/sh4sim/core/memory"
)

// StepFunc performs one fetch-decode-execute cycle. It is injected
// rather than imported so this package never depends on executer (which
// must depend on cpu for the *CPU parameter type in its Execute
// signature) — the same "explicit collaborators, no globals" shape the
// teacher's core/timer goroutines use, just with the step logic handed
// in instead of called directly.
type StepFunc func(c *CPU, m *memory.Memory) error

// Machine drives repeated steps on its own goroutine, grounded in the
// teacher's core.Start/core.Stop goroutine lifecycle: a done channel for
// shutdown and a WaitGroup so Stop can wait (bounded by a timeout) for
// the loop to actually exit.
type Machine struct {
	CPU  *CPU
	Mem  *memory.Memory
	Step StepFunc

	wg      sync.WaitGroup
	done    chan struct{}
	pause   chan bool
	running bool
}

func NewMachine(c *CPU, m *memory.Memory, step StepFunc) *Machine {
	return &Machine{
		CPU:   c,
		Mem:   m,
		Step:  step,
		done:  make(chan struct{}),
		pause: make(chan bool, 1),
	}
}

// Run starts the step loop. It blocks until Stop is called or the step
// function returns an error (fatal conditions — invalid memory field,
// closed MMIO channel — are expected to panic rather than return an
// error; Run recovers once at this top level so shutdown can still log
// cleanly, mirroring the teacher's single top-of-goroutine recover
// boundary).
func (mc *Machine) Run() {
	mc.wg.Add(1)
	defer mc.wg.Done()
	mc.running = true

	defer func() {
		if r := recover(); r != nil {
			slog.Error("cpu: fatal condition, halting", "panic", r, "pc", mc.CPU.PC)
		}
	}()

	for {
		select {
		case <-mc.done:
			slog.Info("cpu: machine stopped")
			return
		case mc.running = <-mc.pause:
		default:
		}

		if !mc.running {
			continue
		}

		if err := mc.Step(mc.CPU, mc.Mem); err != nil {
			slog.Error("cpu: step failed", "err", err, "pc", mc.CPU.PC)
			return
		}
	}
}

// Pause stops stepping without tearing down the goroutine.
func (mc *Machine) Pause() { mc.pause <- false }

// Resume resumes stepping after Pause.
func (mc *Machine) Resume() { mc.pause <- true }

// Stop signals the run loop to exit and waits (up to one second) for it
// to finish.
func (mc *Machine) Stop() {
	close(mc.done)
	done := make(chan struct{})
	go func() {
		mc.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		slog.Warn("cpu: timed out waiting for machine to stop")
	}
}
