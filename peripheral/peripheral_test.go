/*
 * SH4 - Peripheral test cases
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

package peripheral

import (
	"testing"

	"github.com/sh4sim/core/memory"
)

func TestPortBankDirectionMasks(t *testing.T) {
	// Lines 8 and 9 configured as input (2 bits per line, value 2):
	// reads pick up the wired-in 0x300 contribution.
	b := portBank{pctr: 0xA0000}
	if got := b.read() & 0x300; got != 0x300 {
		t.Errorf("input-configured lines 8-9 should read the wired 0x300, got %#04x", got)
	}

	// No lines configured as input: the 0x300 contribution disappears.
	b = portBank{pctr: 0}
	if got := b.read() & 0x300; got != 0 {
		t.Errorf("unconfigured lines should not contribute 0x300, got %#04x", got)
	}
}

func TestPortBankLowBitQuirk(t *testing.T) {
	// Lines 0 and 1 as outputs, both driven high: the low pair reads as
	// set and stays latched in pdtr.
	b := portBank{pctr: 0x5, pdtr: 0x3}
	if got := b.read() & 0x3; got != 0x3 {
		t.Errorf("low pair = %#x, want 0x3", got)
	}

	// One of the pair driven low: both bits read back clear.
	b = portBank{pctr: 0x5, pdtr: 0x1}
	if got := b.read() & 0x3; got != 0 {
		t.Errorf("low pair = %#x, want 0 when not all driven high", got)
	}
	if b.pdtr&0x3 != 0 {
		t.Error("the quirk should clear the latched low pair as well")
	}

	// Lines 0 and 1 left unconfigured (not outputs): ~output_mask keeps
	// the pair high regardless of pdtr, so the pair reads as set.
	b = portBank{pctr: 0, pdtr: 0}
	if got := b.read() & 0x3; got != 0x3 {
		t.Errorf("floating low pair = %#x, want pulled-up 0x3", got)
	}
}

func TestBscRegistersRoundTrip(t *testing.T) {
	m := memory.New()
	bsc := NewBsc(m)
	go bsc.Run()

	m.WriteU32(addrPCTRA, 0xA0000)
	if got := m.ReadU32(addrPCTRA); got != 0xA0000 {
		t.Errorf("PCTRA = %#08x, want 0xA0000", got)
	}

	m.WriteU32(addrPDTRA, 0x0)
	if got := m.ReadU32(addrPDTRA) & 0x300; got != 0x300 {
		t.Errorf("PDTRA with lines 8-9 as inputs = %#08x, want the 0x300 contribution", got)
	}

	// Bank B is independent of bank A.
	m.WriteU32(addrPCTRB, 0x5)
	m.WriteU32(addrPDTRB, 0x3)
	if got := m.ReadU32(addrPDTRB) & 0x3; got != 0x3 {
		t.Errorf("PDTRB low pair = %#x, want 0x3", got)
	}
	if got := m.ReadU32(addrPCTRA); got != 0xA0000 {
		t.Errorf("bank B writes must not disturb PCTRA, got %#08x", got)
	}
}

func TestDspAVControlRegister(t *testing.T) {
	m := memory.New()
	dsp := NewDsp(m)
	go dsp.Run()

	if got := m.ReadU32(addrAVCtrl); got != 1 {
		t.Errorf("AV control resets to 1, got %#x", got)
	}

	m.WriteU32(addrAVCtrl, 0x7)
	if got := m.ReadU32(addrAVCtrl); got != 0x7 {
		t.Errorf("AV control = %#x, want 0x7", got)
	}
}
