/*
 * SH4 - Decoded instruction set
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

// Package instruction defines the decoded-operation sum type the decoder
// produces and the executer consumes, plus the two classification
// functions the pipeline model hangs off it.
package instruction

import "github.com/sh4sim/core/operand"

// Op enumerates every decoded SH-4 operation this interpreter knows.
type Op uint16

const (
	Unknown Op = iota

	// Integer ALU
	Add
	AddConstant
	AddWithCarry
	AddOverflow
	Sub
	ExtUB
	ExtUW
	ExtSB
	ExtSW

	// Multiply
	MulL
	MulSW
	MulUW
	MacL

	// Logic
	And
	AndImm
	AndB
	Or
	OrImm
	OrB
	Xor
	XorImm
	XorB
	Not

	// Compare
	CmpEq
	CmpEqImm
	CmpHs
	CmpGe
	CmpHi
	CmpGt
	CmpPz
	CmpPl
	CmpStr

	// Test
	Tst
	TstImm
	TstB
	Tas

	// Decrement-and-test
	Dt

	// Shifts and rotates
	Shll
	Shll2
	Shll8
	Shll16
	Shlr
	Shlr2
	Shlr8
	Shlr16
	Shar
	Rotl
	Rotr
	RotCl
	RotCr

	// Branches
	Bf
	Bt
	Bfs
	Bts
	Bra
	Braf
	Bsr
	Bsrf
	Jmp
	Jsr
	Rts

	// Byte/word swaps
	SwapB
	SwapW

	// System/control register transfer
	LdcSr
	LdcGbr
	LdcVbr
	LdcSsr
	LdcSpc
	LdcDbr
	LdcLSr
	LdcLGbr
	LdcLVbr
	LdcLSsr
	LdcLSpc
	LdcLDbr
	StcGbr
	StcDbr
	StcBanked
	StsMacH
	StsMacL
	StsPr
	StsLMacH
	StsLMacL
	StsLPr
	LdsPr
	LdsLMacl
	LdsLMach
	LdsLPr
	LdsFpscr
	LdsFpscrL
	LdsFpulL

	// Data moves
	MovData
	MovDataStoreR0B
	MovDataStoreR0W
	MovDataStoreR0L
	MovDataLoadR0B
	MovDataLoadR0W
	MovDataLoadR0L
	MovDataBStore
	MovDataWStore
	MovDataLStore
	MovDataBStore1
	MovDataWStore2
	MovDataLStore4
	MovDataSignBLoad
	MovDataSignWLoad
	MovDataSignLLoad
	MovDataSignBLoad1
	MovDataSignWLoad2
	MovDataSignLLoad4
	MovConstantLoadW
	MovConstantLoadL
	MovConstantSign
	MovStructStoreB
	MovStructStoreW
	MovStructStoreL
	MovStructLoadB
	MovStructLoadW
	MovStructLoadL
	MovGlobalStoreB
	MovGlobalStoreW
	MovGlobalStoreL
	MovGlobalLoadB
	MovGlobalLoadW
	MovGlobalLoadL
	MovA
	MovCA
	MovT

	// FPU
	FMov
	FMovLoadS4
	FMovLoadD8
	FMovStoreS4
	FMovStoreD8
	FAdd
	Frchg

	// System effects
	Clrs
	Clrt
	Sets
	Sett
	Div0u
	Div0s
	Div1
	Pref
	Nop
)

// Instruction is the closed sum type the decoder produces: an opcode tag
// plus up to three operand slots, most of which carry zero, one, or two.
type Instruction struct {
	Op  Op
	Ops [3]operand.Operand
}

func New(op Op, ops ...operand.Operand) Instruction {
	var i Instruction
	i.Op = op
	copy(i.Ops[:], ops)
	return i
}

// Group is the pipeline classification tag used by the advisory co-issue
// predicate Parallelizable.
type Group uint8

const (
	GroupUnknown Group = iota
	EX
	BR
	MT
	CO
)

// InstructionGroup classifies op for the (advisory, never dual-issuing)
// co-issue predicate.
func InstructionGroup(op Op) Group {
	switch op {
	case Bf, Bt, Bfs, Bts, Bra, Braf, Bsr, Bsrf, Jmp, Jsr, Rts:
		return BR
	case MovData, MovDataStoreR0B, MovDataStoreR0W, MovDataStoreR0L,
		MovDataLoadR0B, MovDataLoadR0W, MovDataLoadR0L,
		MovDataBStore, MovDataWStore, MovDataLStore,
		MovDataBStore1, MovDataWStore2, MovDataLStore4,
		MovDataSignBLoad, MovDataSignWLoad, MovDataSignLLoad,
		MovDataSignBLoad1, MovDataSignWLoad2, MovDataSignLLoad4,
		MovConstantLoadW, MovConstantLoadL, MovConstantSign,
		MovStructStoreB, MovStructStoreW, MovStructStoreL,
		MovStructLoadB, MovStructLoadW, MovStructLoadL,
		MovGlobalStoreB, MovGlobalStoreW, MovGlobalStoreL,
		MovGlobalLoadB, MovGlobalLoadW, MovGlobalLoadL,
		MovA, MovCA, MovT:
		return MT
	case LdcSr, LdcGbr, LdcVbr, LdcSsr, LdcSpc, LdcDbr,
		LdcLSr, LdcLGbr, LdcLVbr, LdcLSsr, LdcLSpc, LdcLDbr,
		StcGbr, StcDbr, StcBanked,
		StsMacH, StsMacL, StsPr, StsLMacH, StsLMacL, StsLPr,
		LdsPr, LdsLMacl, LdsLMach, LdsLPr, LdsFpscr, LdsFpscrL, LdsFpulL:
		return CO
	case Unknown:
		return GroupUnknown
	default:
		return EX
	}
}

// AltersPC is the literal testable property: true only for the three
// variants the reference interpreter classifies as branch-altering. It
// is a narrow diagnostic predicate, not a description of which
// instructions actually move the program counter — every branch/jump
// variant moves PC; this tags only {Bf, Bt, Jmp}.
func AltersPC(op Op) bool {
	switch op {
	case Bf, Bt, Jmp:
		return true
	default:
		return false
	}
}

// Parallelizable is the advisory co-issue predicate: false when both
// groups are equal (except two MT ops, which may co-issue), false if
// either side is CO, true otherwise. The reference executer never
// dual-issues; this tag is carried for future schedulers.
func Parallelizable(a, b Group) bool {
	if a == b {
		return a == MT
	}
	if a == CO || b == CO {
		return false
	}
	return true
}
