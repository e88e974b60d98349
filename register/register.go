/*
 * SH4 - Register file
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

// Package register models the SH-4 register file: general-purpose and
// floating-point register banks plus the status register's bit fields.
package register

import "math"

// GeneralRegister is a single 32-bit unsigned architectural register.
type GeneralRegister struct {
	Value uint32
}

// FloatingPointRegister is a single IEEE-754 binary32 register, stored as
// its raw bit pattern so FMOV/FPU-load reinterpretation is a plain cast.
type FloatingPointRegister struct {
	Bits uint32
}

func (f FloatingPointRegister) Float32() float32 {
	return math.Float32frombits(f.Bits)
}

func (f *FloatingPointRegister) SetFloat32(v float32) {
	f.Bits = math.Float32bits(v)
}

// StatusRegister is the 32-bit SR with named bit-field accessors.
type StatusRegister struct {
	Value uint32
}

const (
	bitT          = 0
	bitSaturate   = 1
	bitQ          = 8
	bitM          = 9
	bitImaskLo    = 5
	bitImaskHi    = 6
	bitFPUDisable = 15
	bitInterrupt  = 28
	bitBanked     = 29
	bitPriv       = 30
)

func bit(v uint32, n uint) bool { return v&(1<<n) != 0 }

func setBit(v *uint32, n uint, on bool) {
	if on {
		*v |= 1 << n
	} else {
		*v &^= 1 << n
	}
}

func (s StatusRegister) IsPrivileged() bool  { return bit(s.Value, bitPriv) }
func (s StatusRegister) IsBanked() bool      { return bit(s.Value, bitBanked) }
func (s StatusRegister) IsInterrupt() bool   { return bit(s.Value, bitInterrupt) }
func (s StatusRegister) IsFPUDisabled() bool { return bit(s.Value, bitFPUDisable) }
func (s StatusRegister) IsM() bool           { return bit(s.Value, bitM) }
func (s StatusRegister) IsQ() bool           { return bit(s.Value, bitQ) }
func (s StatusRegister) IsSaturated() bool   { return bit(s.Value, bitSaturate) }
func (s StatusRegister) IsCarry() bool       { return bit(s.Value, bitT) }

// IMask returns the 2-bit interrupt mask (bits 5-6).
func (s StatusRegister) IMask() uint8 {
	return uint8((s.Value >> bitImaskLo) & 0x3)
}

func (s *StatusRegister) SetM(on bool)             { setBit(&s.Value, bitM, on) }
func (s *StatusRegister) SetQ(on bool)             { setBit(&s.Value, bitQ, on) }
func (s *StatusRegister) SetSaturatedCond(on bool) { setBit(&s.Value, bitSaturate, on) }
func (s *StatusRegister) SetCarryCond(on bool)     { setBit(&s.Value, bitT, on) }
func (s *StatusRegister) SetPrivileged(on bool)    { setBit(&s.Value, bitPriv, on) }
func (s *StatusRegister) SetBanked(on bool)        { setBit(&s.Value, bitBanked, on) }
func (s *StatusRegister) SetInterrupt(on bool)     { setBit(&s.Value, bitInterrupt, on) }
func (s *StatusRegister) SetFPUDisabled(on bool)   { setBit(&s.Value, bitFPUDisable, on) }

// T returns the carry/test bit as a 0/1 word, the shape executers need
// when sign-extending or combining it into an arithmetic result.
func (s StatusRegister) T() uint32 {
	if s.IsCarry() {
		return 1
	}
	return 0
}

// FPSCR bit 21 selects the active floating-point register bank.
const fpscrBankBit = 21

func FPSCRBank(fpscr uint32) int {
	if bit(fpscr, fpscrBankBit) {
		return 1
	}
	return 0
}

// File is the physical SH-4 register file: 24 general registers (16
// visible + 8 banked shadow for R0-R7) and 32 floating-point registers
// (two 16-register banks). Executers never index these arrays directly;
// they go through General/Float, which resolve the operand's logical
// index to a physical slot per the current banking mode. This is the
// indexed-accessor seam the design notes call for so register banking
// and the FPU bank swap stay invisible outside this package.
type File struct {
	General [24]GeneralRegister
	Float   [32]FloatingPointRegister
}

// GeneralAt resolves logical register index idx (0-15) to its physical
// slot. When banked is true, R0-R7 (idx 0-7) resolve to the shadow copies
// at indices 16-23 instead of their normal slots.
func (f *File) GeneralAt(idx uint8, banked bool) *GeneralRegister {
	i := int(idx & 0xF)
	if banked && i < 8 {
		return &f.General[16+i]
	}
	return &f.General[i]
}

// FloatAt resolves logical FPU register index idx (0-15) to its physical
// slot in bank 0 (indices 0-15) or bank 1 (indices 16-31), per FPSCR bit 21.
func (f *File) FloatAt(idx uint8, bank int) *FloatingPointRegister {
	i := int(idx&0xF) + bank*16
	return &f.Float[i]
}
