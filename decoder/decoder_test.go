/*
 * SH4 - Instruction decoder test cases
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

package decoder

import (
	"testing"

	"github.com/sh4sim/core/instruction"
)

func TestDecodeIsPure(t *testing.T) {
	for _, w := range []uint16{0x3012, 0xE005, 0xA001, 0xD000, 0xC004, 0x0009} {
		a := Decode(w)
		b := Decode(w)
		if a != b {
			t.Errorf("Decode(%#04x) not pure: %+v != %+v", w, a, b)
		}
	}
}

func TestAltersPCNarrowSet(t *testing.T) {
	for _, w := range []uint16{0x3012, 0x000B, 0x402B} {
		i := Decode(w)
		want := i.Op == instruction.Bf || i.Op == instruction.Bt || i.Op == instruction.Jmp
		if got := AltersPC(i); got != want {
			t.Errorf("AltersPC(Decode(%#04x)) = %v, want %v (op %v)", w, got, want, i.Op)
		}
	}
}

func TestDecodeR0Arithmetic(t *testing.T) {
	// Scenario 1: 0xE005 = MOV #5,R0; 0x7003 = ADD #3,R0; 0x000B = RTS.
	if got := Decode(0xE005); got.Op != instruction.MovConstantSign {
		t.Fatalf("0xE005 decoded as %v, want MovConstantSign", got.Op)
	}
	if got := Decode(0x7003); got.Op != instruction.AddConstant {
		t.Fatalf("0x7003 decoded as %v, want AddConstant", got.Op)
	}
	if got := Decode(0x000B); got.Op != instruction.Rts {
		t.Fatalf("0x000B decoded as %v, want Rts", got.Op)
	}
}

func TestDecodeDelayedBra(t *testing.T) {
	// Scenario 2: 0xA001 = BRA +1; 0xE12A = MOV #0x2A,R1; 0xE255 = MOV #0x55,R2.
	bra := Decode(0xA001)
	if bra.Op != instruction.Bra {
		t.Fatalf("0xA001 decoded as %v, want Bra", bra.Op)
	}
	if bra.Ops[0].Unwrap() != 0x0 || bra.Ops[1].Unwrap() != 0x01 {
		t.Errorf("Bra operands = %+v, want n=0 i8=1", bra.Ops)
	}
	mov1 := Decode(0xE12A)
	if mov1.Op != instruction.MovConstantSign || mov1.Ops[0].Unwrap() != 1 || mov1.Ops[1].Unwrap() != 0x2A {
		t.Errorf("0xE12A decoded as %+v, want MovConstantSign(R1, 0x2A)", mov1)
	}
}

func TestDecodePCRelativeLongLoad(t *testing.T) {
	// Scenario 3: 0xD000 = MOV.L @(0,PC),R0.
	i := Decode(0xD000)
	if i.Op != instruction.MovConstantLoadL || i.Ops[0].Unwrap() != 0 || i.Ops[1].Unwrap() != 0 {
		t.Errorf("0xD000 decoded as %+v, want MovConstantLoadL(R0, disp=0)", i)
	}
}

func TestDecodeGBRRelativeStore(t *testing.T) {
	// Scenario 4: 0xC004 = MOV.B R0,@(4,GBR).
	i := Decode(0xC004)
	if i.Op != instruction.MovGlobalStoreB || i.Ops[0].Unwrap() != 4 {
		t.Errorf("0xC004 decoded as %+v, want MovGlobalStoreB(disp=4)", i)
	}
}

func TestDecodeStructureLongPackedOperand(t *testing.T) {
	// MOV.L R2,@(3,R4): c1=1, n=4, m=2, c4=3 -> i8 = 0x23.
	i := Decode(0x1423)
	if i.Op != instruction.MovStructStoreL {
		t.Fatalf("0x1423 decoded as %v, want MovStructStoreL", i.Op)
	}
	if i.Ops[0].Unwrap() != 4 {
		t.Errorf("base register = %d, want 4", i.Ops[0].Unwrap())
	}
	packed := i.Ops[1].Unwrap()
	if hi := packed >> 4; hi != 2 {
		t.Errorf("packed high nibble (Rm) = %d, want 2", hi)
	}
	if lo := packed & 0xF; lo != 3 {
		t.Errorf("packed low nibble (disp) = %d, want 3", lo)
	}
}

func TestDecodeUnknownFallback(t *testing.T) {
	// 0x4000: c4=0x0, m=0 is Shll — pick a genuinely unassigned encoding
	// within the 0x4 bucket instead, e.g. c4=0x3 has no production.
	i := Decode(0x4003)
	if i.Op != instruction.Unknown {
		t.Errorf("0x4003 decoded as %v, want Unknown", i.Op)
	}
}

func TestDecodeHookInstrumentation(t *testing.T) {
	var calls int
	old := Hook
	Hook = func(uint16) { calls++ }
	defer func() { Hook = old }()

	Decode(0x3012)
	Decode(0x3012)
	if calls != 2 {
		t.Errorf("Hook called %d times, want 2 (Decode itself does not cache)", calls)
	}
}

func TestDecodeMMIOScenarioStore(t *testing.T) {
	// Scenario 5 relies on a plain register store, not a distinct decode —
	// confirm the instruction the scenario uses decodes as expected:
	// MOV.L R0,@R1 style long store to a register-held address would be
	// MovDataLStore(R1, R0): c1=2, c4=2.
	i := Decode(0x2102)
	if i.Op != instruction.MovDataLStore {
		t.Fatalf("0x2102 decoded as %v, want MovDataLStore", i.Op)
	}
}

func TestDecodeCachePromotionWord(t *testing.T) {
	// Scenario 6: 0x3012 = ADD R1,R0.
	i := Decode(0x3012)
	if i.Op != instruction.Add || i.Ops[0].Unwrap() != 0 || i.Ops[1].Unwrap() != 1 {
		t.Errorf("0x3012 decoded as %+v, want Add(R0, R1)", i)
	}
}
