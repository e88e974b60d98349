/*
 * SH4 - CPU state
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

// Package cpu holds the SH-4 processor state: the register file, the
// program counter and link register, and the small set of auxiliary
// system registers. The fetch-decode-execute step itself lives in
// package executer (Execute needs *CPU, so CPU cannot import it without
// creating a cycle); this package only owns the data and the goroutine
// that drives repeated steps.
package cpu

import (
	"github.com/sh4sim/core/register"
)

// InitialPC is the architectural reset vector.
const InitialPC uint32 = 0xA0000000

// CPU is the complete processor state. Memory is never embedded here —
// every operation that needs it receives it explicitly, per the "no
// global state" design rule.
type CPU struct {
	PC uint32
	PR uint32

	SR register.StatusRegister

	Regs register.File

	MACH  uint32
	MACL  uint32
	DBR   uint32
	GBR   uint32
	VBR   uint32
	SSR   uint32
	SPC   uint32
	FPSCR uint32
	FPUL  uint32
}

// New returns a CPU in its architectural reset state: PC at the boot
// vector, every other register zero.
func New() *CPU {
	return &CPU{PC: InitialPC}
}

// General resolves a logical register index (0-15) to its physical slot,
// honoring the status register's banked-mode bit for R0-R7.
func (c *CPU) General(idx uint8) *register.GeneralRegister {
	return c.Regs.GeneralAt(idx, c.SR.IsBanked())
}

// Float resolves a logical FPU register index (0-15) to its physical
// slot in the bank selected by FPSCR bit 21.
func (c *CPU) Float(idx uint8) *register.FloatingPointRegister {
	return c.Regs.FloatAt(idx, register.FPSCRBank(c.FPSCR))
}
