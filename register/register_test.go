/*
 * SH4 - Register file test cases
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

package register

import "testing"

func TestStatusBitAccessors(t *testing.T) {
	var s StatusRegister
	s.Value = 1<<30 | 1<<29 | 1<<28 | 1<<15 | 1<<9 | 1<<8 | 1<<1 | 1<<0
	if !s.IsPrivileged() || !s.IsBanked() || !s.IsInterrupt() || !s.IsFPUDisabled() ||
		!s.IsM() || !s.IsQ() || !s.IsSaturated() || !s.IsCarry() {
		t.Fatalf("expected all bits set, got %#x", s.Value)
	}

	var clear StatusRegister
	if clear.IsPrivileged() || clear.IsCarry() {
		t.Fatal("zero status register should report all flags false")
	}
}

func TestIMask(t *testing.T) {
	s := StatusRegister{Value: 0x3 << 5}
	if got := s.IMask(); got != 0x3 {
		t.Errorf("IMask() = %d, want 3", got)
	}
}

func TestSetCarryCond(t *testing.T) {
	var s StatusRegister
	s.SetCarryCond(true)
	if !s.IsCarry() {
		t.Fatal("SetCarryCond(true) did not set T")
	}
	if got := s.T(); got != 1 {
		t.Errorf("T() = %d, want 1", got)
	}
	s.SetCarryCond(false)
	if s.IsCarry() {
		t.Fatal("SetCarryCond(false) did not clear T")
	}
}

func TestGeneralAtBanking(t *testing.T) {
	var f File
	f.GeneralAt(3, false).Value = 0x11
	f.GeneralAt(3, true).Value = 0x22

	if f.General[3].Value != 0x11 {
		t.Errorf("unbanked R3 = %#x, want 0x11", f.General[3].Value)
	}
	if f.General[19].Value != 0x22 {
		t.Errorf("banked R3 shadow (index 19) = %#x, want 0x22", f.General[19].Value)
	}

	// R8-R15 are never banked.
	f.GeneralAt(10, false).Value = 0x33
	f.GeneralAt(10, true).Value = 0x44
	if f.General[10].Value != 0x44 {
		t.Errorf("R10 banked write should land on the same slot, got %#x", f.General[10].Value)
	}
}

func TestFloatAtBank(t *testing.T) {
	var f File
	f.FloatAt(0, 0).SetFloat32(1.5)
	f.FloatAt(0, 1).SetFloat32(2.5)

	if f.Float[0].Float32() != 1.5 {
		t.Errorf("bank 0 FR0 = %v, want 1.5", f.Float[0].Float32())
	}
	if f.Float[16].Float32() != 2.5 {
		t.Errorf("bank 1 FR0 (index 16) = %v, want 2.5", f.Float[16].Float32())
	}
}

func TestFPSCRBank(t *testing.T) {
	if FPSCRBank(0) != 0 {
		t.Error("FPSCRBank(0) should be bank 0")
	}
	if FPSCRBank(1<<21) != 1 {
		t.Error("FPSCRBank with bit 21 set should be bank 1")
	}
}
