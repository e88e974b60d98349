/*
 * SH4 - Instruction decoder
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

// Package decoder turns a raw 16-bit SH-4 instruction word into a decoded
// Instruction. Decode is pure and total: every 16-bit pattern maps to a
// defined variant, falling back to Unknown when no production matches.
package decoder

import (
	"github.com/sh4sim/core/instruction"
	"github.com/sh4sim/core/operand"
)

// Hook, when non-nil, is invoked once per call to Decode with the raw
// word being decoded. It exists purely as an instrumentation seam so
// tests can observe "the decoder was/was not invoked" — the decode
// cache's whole point is to skip calling Decode on a cache hit, and
// that's otherwise unobservable from outside the executer package,
// where the fetch path lives.
var Hook func(word uint16)

type op = instruction.Op

// Group classifies a decoded instruction's pipeline group. AltersPC and
// Parallelizable are thin re-exports over the same classification so
// callers that only import decoder (not instruction) get the full
// decode-and-classify surface described by the component design.
func Group(i instruction.Instruction) instruction.Group { return instruction.InstructionGroup(i.Op) }

func AltersPC(i instruction.Instruction) bool { return instruction.AltersPC(i.Op) }

func Parallelizable(a, b instruction.Instruction) bool {
	return instruction.Parallelizable(Group(a), Group(b))
}

func reg(v uint8) operand.Operand  { return operand.Reg(v) }
func imm(v uint8) operand.Operand  { return operand.Imm(v) }
func disp(v uint8) operand.Operand { return operand.Disp(v) }

func inst(o op, ops ...operand.Operand) instruction.Instruction {
	return instruction.New(o, ops...)
}

// Decode maps a raw instruction word to its decoded form. The four
// nibbles are c1 (top, selects the bucket), n, m, and c4 (low). i8 is the
// full low byte (m<<4)|c4, used by forms whose immediate/displacement
// occupies the entire byte rather than just c4.
func Decode(word uint16) instruction.Instruction {
	if Hook != nil {
		Hook(word)
	}

	c1 := uint8(word>>12) & 0xF
	n := uint8(word>>8) & 0xF
	m := uint8(word>>4) & 0xF
	c4 := uint8(word) & 0xF
	i8 := (m << 4) | c4

	switch c1 {
	case 0x0:
		return decode0(n, m, c4)
	case 0x1:
		// MOV.L Rm,@(disp:4,Rn): the long structure-store form packs
		// the source register and displacement into one 8-bit field
		// (high nibble = Rm, low nibble = disp) rather than using
		// separate n/m/c4 slots.
		return inst(instruction.MovStructStoreL, reg(n), imm(i8))
	case 0x2:
		return decode2(n, m, c4)
	case 0x3:
		return decode3(n, m, c4)
	case 0x4:
		return decode4(n, m, c4)
	case 0x5:
		return inst(instruction.MovStructLoadL, reg(n), imm(i8))
	case 0x6:
		return decode6(n, m, c4)
	case 0x7:
		return inst(instruction.AddConstant, reg(n), imm(i8))
	case 0x8:
		return decode8(n, m, c4, i8)
	case 0x9:
		return inst(instruction.MovConstantLoadW, reg(n), disp(i8))
	case 0xA:
		// Bra's 12-bit displacement is (n<<8)|i8; decode carries the
		// two halves separately since an Operand is only 8 bits wide,
		// and the executer composes and sign-extends them from bit 11.
		return inst(instruction.Bra, disp(n), disp(i8))
	case 0xB:
		return inst(instruction.Bsr, disp(n), disp(i8))
	case 0xC:
		return decodeC(n, i8)
	case 0xD:
		return inst(instruction.MovConstantLoadL, reg(n), disp(i8))
	case 0xE:
		return inst(instruction.MovConstantSign, reg(n), imm(i8))
	case 0xF:
		return decodeF(n, m, c4)
	default:
		return inst(instruction.Unknown)
	}
}

func decode0(n, m, c4 uint8) instruction.Instruction {
	switch c4 {
	case 0x2:
		if m == 0x1 {
			return inst(instruction.StcGbr, reg(n))
		}
		if m >= 8 {
			return inst(instruction.StcBanked, reg(n), imm(m-8))
		}
		return inst(instruction.Unknown)
	case 0x3:
		switch m {
		case 0x0:
			return inst(instruction.Bsrf, reg(n))
		case 0x2:
			return inst(instruction.Braf, reg(n))
		case 0x8:
			return inst(instruction.Pref, reg(n))
		case 0xC:
			return inst(instruction.MovCA, reg(n))
		}
	case 0x4:
		return inst(instruction.MovDataStoreR0B, reg(n), reg(m))
	case 0x5:
		return inst(instruction.MovDataStoreR0W, reg(n), reg(m))
	case 0x6:
		return inst(instruction.MovDataStoreR0L, reg(n), reg(m))
	case 0x7:
		return inst(instruction.MulL, reg(n), reg(m))
	case 0x8:
		switch m {
		case 0x0:
			return inst(instruction.Clrt)
		case 0x1:
			return inst(instruction.Sett)
		case 0x4:
			return inst(instruction.Clrs)
		case 0x5:
			return inst(instruction.Sets)
		}
	case 0x9:
		switch m {
		case 0x0:
			return inst(instruction.Nop)
		case 0x1:
			return inst(instruction.Div0u)
		case 0x2:
			return inst(instruction.MovT, reg(n))
		}
	case 0xA:
		switch m {
		case 0x0:
			return inst(instruction.StsMacH, reg(n))
		case 0x1:
			return inst(instruction.StsMacL, reg(n))
		case 0x2:
			return inst(instruction.StsPr, reg(n))
		case 0xF:
			return inst(instruction.StcDbr, reg(n))
		}
	case 0xB:
		return inst(instruction.Rts)
	case 0xC:
		return inst(instruction.MovDataLoadR0B, reg(n), reg(m))
	case 0xD:
		return inst(instruction.MovDataLoadR0W, reg(n), reg(m))
	case 0xE:
		return inst(instruction.MovDataLoadR0L, reg(n), reg(m))
	case 0xF:
		return inst(instruction.MacL, reg(n), reg(m))
	}
	return inst(instruction.Unknown)
}

func decode2(n, m, c4 uint8) instruction.Instruction {
	switch c4 {
	case 0x0:
		return inst(instruction.MovDataBStore, reg(n), reg(m))
	case 0x1:
		return inst(instruction.MovDataWStore, reg(n), reg(m))
	case 0x2:
		return inst(instruction.MovDataLStore, reg(n), reg(m))
	case 0x4:
		return inst(instruction.MovDataBStore1, reg(n), reg(m))
	case 0x5:
		return inst(instruction.MovDataWStore2, reg(n), reg(m))
	case 0x6:
		return inst(instruction.MovDataLStore4, reg(n), reg(m))
	case 0x7:
		return inst(instruction.Div0s, reg(n), reg(m))
	case 0x8:
		return inst(instruction.Tst, reg(n), reg(m))
	case 0x9:
		return inst(instruction.And, reg(n), reg(m))
	case 0xA:
		return inst(instruction.Xor, reg(n), reg(m))
	case 0xB:
		return inst(instruction.Or, reg(n), reg(m))
	case 0xC:
		return inst(instruction.CmpStr, reg(n), reg(m))
	case 0xE:
		return inst(instruction.MulUW, reg(n), reg(m))
	case 0xF:
		return inst(instruction.MulSW, reg(n), reg(m))
	}
	return inst(instruction.Unknown)
}

func decode3(n, m, c4 uint8) instruction.Instruction {
	switch c4 {
	case 0x0:
		return inst(instruction.CmpEq, reg(n), reg(m))
	case 0x2:
		return inst(instruction.CmpHs, reg(n), reg(m))
	case 0x3:
		return inst(instruction.CmpGe, reg(n), reg(m))
	case 0x4:
		return inst(instruction.Div1, reg(n), reg(m))
	case 0x6:
		return inst(instruction.CmpHi, reg(n), reg(m))
	case 0x7:
		return inst(instruction.CmpGt, reg(n), reg(m))
	case 0x8:
		return inst(instruction.Sub, reg(n), reg(m))
	case 0xC:
		return inst(instruction.Add, reg(n), reg(m))
	case 0xE:
		return inst(instruction.AddWithCarry, reg(n), reg(m))
	case 0xF:
		return inst(instruction.AddOverflow, reg(n), reg(m))
	}
	return inst(instruction.Unknown)
}

func decode4(n, m, c4 uint8) instruction.Instruction {
	switch c4 {
	case 0x0:
		switch m {
		case 0x0:
			return inst(instruction.Shll, reg(n))
		case 0x1:
			return inst(instruction.Dt, reg(n))
		}
	case 0x1:
		switch m {
		case 0x0:
			return inst(instruction.Shlr, reg(n))
		case 0x1:
			return inst(instruction.CmpPz, reg(n))
		case 0x2:
			return inst(instruction.Shar, reg(n))
		}
	case 0x2:
		switch m {
		case 0x0:
			return inst(instruction.StsLMacH, reg(n))
		case 0x1:
			return inst(instruction.StsLMacL, reg(n))
		case 0x2:
			return inst(instruction.StsLPr, reg(n))
		}
	case 0x4:
		switch m {
		case 0x0:
			return inst(instruction.Rotl, reg(n))
		case 0x2:
			return inst(instruction.RotCl, reg(n))
		}
	case 0x5:
		switch m {
		case 0x0:
			return inst(instruction.Rotr, reg(n))
		case 0x1:
			return inst(instruction.CmpPl, reg(n))
		case 0x2:
			return inst(instruction.RotCr, reg(n))
		}
	case 0x6:
		switch m {
		case 0x0:
			return inst(instruction.LdsLMacl, reg(n))
		case 0x1:
			return inst(instruction.LdsLMach, reg(n))
		case 0x2:
			return inst(instruction.LdsLPr, reg(n))
		case 0x5:
			return inst(instruction.LdsFpulL, reg(n))
		case 0x6:
			return inst(instruction.LdsFpscrL, reg(n))
		case 0xF:
			return inst(instruction.LdcLDbr, reg(n))
		}
	case 0x7:
		switch m {
		case 0x0:
			return inst(instruction.LdcLSr, reg(n))
		case 0x1:
			return inst(instruction.LdcLGbr, reg(n))
		case 0x2:
			return inst(instruction.LdcLVbr, reg(n))
		case 0x3:
			return inst(instruction.LdcLSsr, reg(n))
		case 0x4:
			return inst(instruction.LdcLSpc, reg(n))
		}
	case 0x8:
		switch m {
		case 0x0:
			return inst(instruction.Shll2, reg(n))
		case 0x1:
			return inst(instruction.Shll8, reg(n))
		case 0x2:
			return inst(instruction.Shll16, reg(n))
		}
	case 0x9:
		switch m {
		case 0x0:
			return inst(instruction.Shlr2, reg(n))
		case 0x1:
			return inst(instruction.Shlr8, reg(n))
		case 0x2:
			return inst(instruction.Shlr16, reg(n))
		}
	case 0xA:
		switch m {
		case 0x2:
			return inst(instruction.LdsPr, reg(n))
		case 0x6:
			return inst(instruction.LdsFpscr, reg(n))
		case 0xF:
			return inst(instruction.LdcDbr, reg(n))
		}
	case 0xB:
		switch m {
		case 0x0:
			return inst(instruction.Jsr, reg(n))
		case 0x1:
			return inst(instruction.Tas, reg(n))
		case 0x2:
			return inst(instruction.Jmp, reg(n))
		}
	case 0xE:
		switch m {
		case 0x0:
			return inst(instruction.LdcSr, reg(n))
		case 0x1:
			return inst(instruction.LdcGbr, reg(n))
		case 0x2:
			return inst(instruction.LdcVbr, reg(n))
		case 0x3:
			return inst(instruction.LdcSsr, reg(n))
		case 0x4:
			return inst(instruction.LdcSpc, reg(n))
		}
	}
	return inst(instruction.Unknown)
}

func decode6(n, m, c4 uint8) instruction.Instruction {
	switch c4 {
	case 0x0:
		return inst(instruction.MovDataSignBLoad, reg(n), reg(m))
	case 0x1:
		return inst(instruction.MovDataSignWLoad, reg(n), reg(m))
	case 0x2:
		return inst(instruction.MovDataSignLLoad, reg(n), reg(m))
	case 0x3:
		return inst(instruction.MovData, reg(n), reg(m))
	case 0x4:
		return inst(instruction.MovDataSignBLoad1, reg(n), reg(m))
	case 0x5:
		return inst(instruction.MovDataSignWLoad2, reg(n), reg(m))
	case 0x6:
		return inst(instruction.MovDataSignLLoad4, reg(n), reg(m))
	case 0x7:
		return inst(instruction.Not, reg(n), reg(m))
	case 0x8:
		return inst(instruction.SwapB, reg(n), reg(m))
	case 0x9:
		return inst(instruction.SwapW, reg(n), reg(m))
	case 0xB:
		return inst(instruction.ExtUB, reg(n), reg(m))
	case 0xC:
		return inst(instruction.ExtUW, reg(n), reg(m))
	case 0xE:
		return inst(instruction.ExtSB, reg(n), reg(m))
	case 0xF:
		return inst(instruction.ExtSW, reg(n), reg(m))
	}
	return inst(instruction.Unknown)
}

// decode8 dispatches the n-selected bucket: short structure forms (byte
// and word, which use the 4-bit c4 displacement directly), conditional
// branches, and the R0-vs-immediate compare.
func decode8(n, m, c4, i8 uint8) instruction.Instruction {
	switch n {
	case 0x0:
		return inst(instruction.MovStructStoreB, reg(m), disp(c4))
	case 0x1:
		return inst(instruction.MovStructStoreW, reg(m), disp(c4))
	case 0x4:
		return inst(instruction.MovStructLoadB, reg(m), disp(c4))
	case 0x5:
		return inst(instruction.MovStructLoadW, reg(m), disp(c4))
	case 0x8:
		return inst(instruction.CmpEqImm, imm(i8))
	case 0x9:
		return inst(instruction.Bt, disp(i8))
	case 0xB:
		return inst(instruction.Bf, disp(i8))
	case 0xD:
		return inst(instruction.Bts, disp(i8))
	case 0xF:
		return inst(instruction.Bfs, disp(i8))
	}
	return inst(instruction.Unknown)
}

func decodeC(n, i8 uint8) instruction.Instruction {
	switch n {
	case 0x0:
		return inst(instruction.MovGlobalStoreB, disp(i8))
	case 0x1:
		return inst(instruction.MovGlobalStoreW, disp(i8))
	case 0x2:
		return inst(instruction.MovGlobalStoreL, disp(i8))
	case 0x4:
		return inst(instruction.MovGlobalLoadB, disp(i8))
	case 0x5:
		return inst(instruction.MovGlobalLoadW, disp(i8))
	case 0x6:
		return inst(instruction.MovGlobalLoadL, disp(i8))
	case 0x7:
		return inst(instruction.MovA, disp(i8))
	case 0x8:
		return inst(instruction.TstImm, imm(i8))
	case 0x9:
		return inst(instruction.AndImm, imm(i8))
	case 0xA:
		return inst(instruction.XorImm, imm(i8))
	case 0xB:
		return inst(instruction.OrImm, imm(i8))
	case 0xC:
		return inst(instruction.TstB, imm(i8))
	case 0xD:
		return inst(instruction.AndB, imm(i8))
	case 0xE:
		return inst(instruction.XorB, imm(i8))
	case 0xF:
		return inst(instruction.OrB, imm(i8))
	}
	return inst(instruction.Unknown)
}

func decodeF(n, m, c4 uint8) instruction.Instruction {
	switch c4 {
	case 0x0:
		return inst(instruction.FAdd, reg(n), reg(m))
	case 0x9:
		if n%2 == 0 {
			return inst(instruction.FMovLoadD8, reg(n), reg(m))
		}
		return inst(instruction.FMovLoadS4, reg(n), reg(m))
	case 0xB:
		if m%2 == 0 {
			return inst(instruction.FMovStoreD8, reg(n), reg(m))
		}
		return inst(instruction.FMovStoreS4, reg(n), reg(m))
	case 0xC:
		return inst(instruction.FMov, reg(n), reg(m))
	case 0xD:
		if m == 0xF {
			return inst(instruction.Frchg)
		}
		return inst(instruction.Unknown)
	}
	return inst(instruction.Unknown)
}
