/*
 * SH4 - Instruction execution
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

// Package executer drives the fetch-decode-execute loop and implements
// every instruction's semantics against a *cpu.CPU and *memory.Memory.
// Step lives here rather than in package cpu because Execute needs a
// concrete *cpu.CPU parameter: putting Step in cpu would force cpu to
// import executer, which already imports cpu for that type — package
// cpu's doc comment calls this out as the reason the split exists.
package executer

import (
	"fmt"
	"log/slog"

	"github.com/sh4sim/core/cpu"
	"github.com/sh4sim/core/decoder"
	"github.com/sh4sim/core/instruction"
	"github.com/sh4sim/core/memory"
	"github.com/sh4sim/core/operand"
	"github.com/sh4sim/core/register"
)

// Step performs one fetch-decode-execute cycle starting at c.PC. It
// matches cpu.StepFunc's signature so it can be handed to cpu.Machine
// unmodified.
func Step(c *cpu.CPU, m *memory.Memory) error {
	return step(c, m, false)
}

// step is the recursive form used to run a delay-slot instruction. When
// delaySlot is true and the fetched instruction is itself branch-class,
// nesting is rejected rather than silently recursing further, per the
// spec's design notes on bounding delay-slot nesting to one level.
func step(c *cpu.CPU, m *memory.Memory, delaySlot bool) error {
	field := m.Access(c.PC)

	var inst instruction.Instruction
	if field.IsCached() {
		inst = fieldInstruction(field)
	} else {
		raw := fieldRaw(field)
		inst = decoder.Decode(raw)
		*field = memory.CachedField(inst)
		if inst.Op == instruction.Unknown {
			slog.Warn("decode miss", "pc", fmt.Sprintf("%#08x", c.PC), "word", fmt.Sprintf("%#04x", raw))
		}
	}

	if delaySlot && instruction.InstructionGroup(inst.Op) == instruction.BR {
		panic(fmt.Sprintf("executer: branch instruction in delay slot at pc=%#08x", c.PC))
	}

	execute(c, m, inst)

	if !instruction.AltersPC(inst.Op) {
		c.PC += 2
	}
	return nil
}

// fieldInstruction and fieldRaw read a MemoryField's payload without
// going through Memory's data accessors, which enforce the opposite
// invariant (data reads must find Raw16). The fetch path is the one
// place both kinds of field are legitimately expected.
func fieldInstruction(f *memory.MemoryField) instruction.Instruction { return f.Inst }
func fieldRaw(f *memory.MemoryField) uint16                           { return f.Raw }

func reg(c *cpu.CPU, o operand.Operand) *register.GeneralRegister { return c.General(o.Unwrap()) }
func freg(c *cpu.CPU, o operand.Operand) *register.FloatingPointRegister {
	return c.Float(o.Unwrap())
}
func r0(c *cpu.CPU) *register.GeneralRegister { return c.General(0) }

func signExt8(v uint8) uint32   { return memory.SignExtendU8(v) }
func signExt16(v uint16) uint32 { return memory.SignExtendU16(v) }

// execute dispatches a decoded instruction to its semantics. Unknown is
// a diagnosed no-op (the miss was already logged by step); every other
// variant is handled explicitly.
func execute(c *cpu.CPU, m *memory.Memory, inst instruction.Instruction) {
	ops := inst.Ops
	switch inst.Op {
	case instruction.Unknown, instruction.Nop, instruction.Pref:
		// no architectural effect

	case instruction.Add:
		reg(c, ops[0]).Value += reg(c, ops[1]).Value
	case instruction.AddConstant:
		reg(c, ops[0]).Value += signExt8(ops[1].Unwrap())
	case instruction.AddWithCarry:
		addWithCarry(c, ops[0], ops[1])
	case instruction.AddOverflow:
		addOverflow(c, ops[0], ops[1])
	case instruction.Sub:
		reg(c, ops[0]).Value -= reg(c, ops[1]).Value
	case instruction.ExtUB:
		reg(c, ops[0]).Value = reg(c, ops[1]).Value & 0xFF
	case instruction.ExtUW:
		reg(c, ops[0]).Value = reg(c, ops[1]).Value & 0xFFFF
	case instruction.ExtSB:
		reg(c, ops[0]).Value = signExt8(uint8(reg(c, ops[1]).Value))
	case instruction.ExtSW:
		reg(c, ops[0]).Value = signExt16(uint16(reg(c, ops[1]).Value))

	case instruction.MulL:
		dst, src := reg(c, ops[0]), reg(c, ops[1])
		c.MACL = dst.Value * src.Value
	case instruction.MulSW:
		dst, src := reg(c, ops[0]), reg(c, ops[1])
		c.MACL = uint32(int32(dst.Value) * int32(src.Value))
	case instruction.MulUW:
		dst, src := reg(c, ops[0]), reg(c, ops[1])
		c.MACL = (dst.Value & 0xFFFF) * (src.Value & 0xFFFF)
	case instruction.MacL:
		macL(c, m, ops[0], ops[1])

	case instruction.And:
		reg(c, ops[0]).Value &= reg(c, ops[1]).Value
	case instruction.AndImm:
		r0(c).Value &= 0xFF & uint32(ops[0].Unwrap())
	case instruction.AndB:
		gbrByteRMW(c, m, ops[0], func(v, imm uint8) uint8 { return v & imm })
	case instruction.Or:
		reg(c, ops[0]).Value |= reg(c, ops[1]).Value
	case instruction.OrImm:
		r0(c).Value |= 0xFF & uint32(ops[0].Unwrap())
	case instruction.OrB:
		gbrByteRMW(c, m, ops[0], func(v, imm uint8) uint8 { return v | imm })
	case instruction.Xor:
		reg(c, ops[0]).Value ^= reg(c, ops[1]).Value
	case instruction.XorImm:
		r0(c).Value ^= 0xFF & uint32(ops[0].Unwrap())
	case instruction.XorB:
		gbrByteRMW(c, m, ops[0], func(v, imm uint8) uint8 { return v ^ imm })
	case instruction.Not:
		reg(c, ops[0]).Value = ^reg(c, ops[1]).Value

	case instruction.CmpEq:
		c.SR.SetCarryCond(reg(c, ops[0]).Value == reg(c, ops[1]).Value)
	case instruction.CmpEqImm:
		c.SR.SetCarryCond(r0(c).Value == signExt8(ops[0].Unwrap()))
	case instruction.CmpHs:
		c.SR.SetCarryCond(reg(c, ops[0]).Value >= reg(c, ops[1]).Value)
	case instruction.CmpGe:
		c.SR.SetCarryCond(int32(reg(c, ops[0]).Value) >= int32(reg(c, ops[1]).Value))
	case instruction.CmpHi:
		c.SR.SetCarryCond(reg(c, ops[0]).Value > reg(c, ops[1]).Value)
	case instruction.CmpGt:
		c.SR.SetCarryCond(int32(reg(c, ops[0]).Value) > int32(reg(c, ops[1]).Value))
	case instruction.CmpPz:
		c.SR.SetCarryCond(int32(reg(c, ops[0]).Value) >= 0)
	case instruction.CmpPl:
		c.SR.SetCarryCond(int32(reg(c, ops[0]).Value) > 0)
	case instruction.CmpStr:
		cmpStr(c, ops[0], ops[1])

	case instruction.Tst:
		c.SR.SetCarryCond(reg(c, ops[0]).Value&reg(c, ops[1]).Value == 0)
	case instruction.TstImm:
		c.SR.SetCarryCond(r0(c).Value&(0xFF&uint32(ops[0].Unwrap())) == 0)
	case instruction.TstB:
		v := gbrByte(c, m, ops[0])
		c.SR.SetCarryCond(v&ops[0].Unwrap() == 0)
	case instruction.Tas:
		tas(c, m, ops[0])

	case instruction.Dt:
		r := reg(c, ops[0])
		r.Value--
		c.SR.SetCarryCond(r.Value == 0)

	case instruction.Shll:
		r := reg(c, ops[0])
		c.SR.SetCarryCond(r.Value&0x80000000 != 0)
		r.Value <<= 1
	case instruction.Shll2:
		reg(c, ops[0]).Value <<= 2
	case instruction.Shll8:
		reg(c, ops[0]).Value <<= 8
	case instruction.Shll16:
		reg(c, ops[0]).Value <<= 16
	case instruction.Shlr:
		r := reg(c, ops[0])
		c.SR.SetCarryCond(r.Value&0x1 != 0)
		r.Value = (r.Value >> 1) & 0x7FFFFFFF
	case instruction.Shlr2:
		r := reg(c, ops[0])
		r.Value = (r.Value >> 2) & 0x3FFFFFFF
	case instruction.Shlr8:
		r := reg(c, ops[0])
		r.Value = (r.Value >> 8) & 0x00FFFFFF
	case instruction.Shlr16:
		r := reg(c, ops[0])
		r.Value = (r.Value >> 16) & 0x0000FFFF
	case instruction.Shar:
		shar(c, ops[0])
	case instruction.Rotl:
		r := reg(c, ops[0])
		c.SR.SetCarryCond(r.Value&0x80000000 != 0)
		r.Value = r.Value<<1 | r.Value>>31
	case instruction.Rotr:
		r := reg(c, ops[0])
		c.SR.SetCarryCond(r.Value&0x1 != 0)
		r.Value = r.Value>>1 | r.Value<<31
	case instruction.RotCl:
		rotcl(c, ops[0])
	case instruction.RotCr:
		rotcr(c, ops[0])

	case instruction.Bf:
		bf(c, ops[0], false)
	case instruction.Bt:
		bf(c, ops[0], true)
	case instruction.Bfs:
		delayedCond(c, m, ops[0], false)
	case instruction.Bts:
		delayedCond(c, m, ops[0], true)
	case instruction.Bra:
		bra(c, m, ops[0], ops[1])
	case instruction.Braf:
		braf(c, m, ops[0])
	case instruction.Bsr:
		bsr(c, m, ops[0], ops[1])
	case instruction.Bsrf:
		bsrf(c, m, ops[0])
	case instruction.Jmp:
		jmp(c, m, ops[0])
	case instruction.Jsr:
		jsr(c, m, ops[0])
	case instruction.Rts:
		rts(c, m)

	case instruction.SwapB:
		swapB(c, ops[0], ops[1])
	case instruction.SwapW:
		swapW(c, ops[0], ops[1])

	case instruction.LdcSr:
		c.SR.Value = reg(c, ops[0]).Value & 0x700083F3
	case instruction.LdcGbr:
		c.GBR = reg(c, ops[0]).Value
	case instruction.LdcVbr:
		c.VBR = reg(c, ops[0]).Value
	case instruction.LdcSsr:
		c.SSR = reg(c, ops[0]).Value
	case instruction.LdcSpc:
		c.SPC = reg(c, ops[0]).Value
	case instruction.LdcDbr:
		c.DBR = reg(c, ops[0]).Value
	case instruction.LdcLSr:
		c.SR.Value = loadLong(c, m, ops[0]) & 0x700083F3
	case instruction.LdcLGbr:
		c.GBR = loadLong(c, m, ops[0])
	case instruction.LdcLVbr:
		c.VBR = loadLong(c, m, ops[0])
	case instruction.LdcLSsr:
		c.SSR = loadLong(c, m, ops[0])
	case instruction.LdcLSpc:
		c.SPC = loadLong(c, m, ops[0])
	case instruction.LdcLDbr:
		c.DBR = loadLong(c, m, ops[0])
	case instruction.StcGbr:
		reg(c, ops[0]).Value = c.GBR
	case instruction.StcDbr:
		reg(c, ops[0]).Value = c.DBR
	case instruction.StcBanked:
		reg(c, ops[0]).Value = c.Regs.GeneralAt(ops[1].Unwrap(), true).Value
	case instruction.StsMacH:
		reg(c, ops[0]).Value = c.MACH
	case instruction.StsMacL:
		reg(c, ops[0]).Value = c.MACL
	case instruction.StsPr:
		reg(c, ops[0]).Value = c.PR
	case instruction.StsLMacH:
		storeLong(c, m, ops[0], c.MACH)
	case instruction.StsLMacL:
		storeLong(c, m, ops[0], c.MACL)
	case instruction.StsLPr:
		storeLong(c, m, ops[0], c.PR)
	case instruction.LdsPr:
		c.PR = reg(c, ops[0]).Value
	case instruction.LdsLMacl:
		c.MACL = loadLong(c, m, ops[0])
	case instruction.LdsLMach:
		c.MACH = loadLong(c, m, ops[0])
	case instruction.LdsLPr:
		c.PR = loadLong(c, m, ops[0])
	case instruction.LdsFpscr:
		c.FPSCR = reg(c, ops[0]).Value & 0x003FFFFF
	case instruction.LdsFpscrL:
		c.FPSCR = loadLong(c, m, ops[0]) & 0x003FFFFF
	case instruction.LdsFpulL:
		c.FPUL = loadLong(c, m, ops[0])

	case instruction.MovData:
		reg(c, ops[0]).Value = reg(c, ops[1]).Value
	case instruction.MovDataStoreR0B:
		addr := r0(c).Value + reg(c, ops[0]).Value
		m.WriteU8(addr, uint8(reg(c, ops[1]).Value))
	case instruction.MovDataStoreR0W:
		addr := r0(c).Value + reg(c, ops[0]).Value
		m.WriteU16(addr, uint16(reg(c, ops[1]).Value))
	case instruction.MovDataStoreR0L:
		addr := r0(c).Value + reg(c, ops[0]).Value
		m.WriteU32(addr, reg(c, ops[1]).Value)
	case instruction.MovDataLoadR0B:
		addr := r0(c).Value + reg(c, ops[1]).Value
		reg(c, ops[0]).Value = signExt8(m.ReadU8(addr))
	case instruction.MovDataLoadR0W:
		addr := r0(c).Value + reg(c, ops[1]).Value
		reg(c, ops[0]).Value = signExt16(m.ReadU16(addr))
	case instruction.MovDataLoadR0L:
		addr := r0(c).Value + reg(c, ops[1]).Value
		reg(c, ops[0]).Value = m.ReadU32(addr)

	case instruction.MovDataBStore:
		m.WriteU8(reg(c, ops[0]).Value, uint8(reg(c, ops[1]).Value))
	case instruction.MovDataWStore:
		m.WriteU16(reg(c, ops[0]).Value, uint16(reg(c, ops[1]).Value))
	case instruction.MovDataLStore:
		m.WriteU32(reg(c, ops[0]).Value, reg(c, ops[1]).Value)
	case instruction.MovDataBStore1:
		dst := reg(c, ops[0])
		dst.Value -= 1
		m.WriteU8(dst.Value, uint8(reg(c, ops[1]).Value))
	case instruction.MovDataWStore2:
		dst := reg(c, ops[0])
		dst.Value -= 2
		m.WriteU16(dst.Value, uint16(reg(c, ops[1]).Value))
	case instruction.MovDataLStore4:
		dst := reg(c, ops[0])
		dst.Value -= 4
		m.WriteU32(dst.Value, reg(c, ops[1]).Value)

	case instruction.MovDataSignBLoad:
		reg(c, ops[0]).Value = signExt8(m.ReadU8(reg(c, ops[1]).Value))
	case instruction.MovDataSignWLoad:
		reg(c, ops[0]).Value = signExt16(m.ReadU16(reg(c, ops[1]).Value))
	case instruction.MovDataSignLLoad:
		reg(c, ops[0]).Value = m.ReadU32(reg(c, ops[1]).Value)
	case instruction.MovDataSignBLoad1:
		src := reg(c, ops[1])
		reg(c, ops[0]).Value = signExt8(m.ReadU8(src.Value))
		if ops[0] != ops[1] {
			src.Value += 1
		}
	case instruction.MovDataSignWLoad2:
		src := reg(c, ops[1])
		reg(c, ops[0]).Value = signExt16(m.ReadU16(src.Value))
		if ops[0] != ops[1] {
			src.Value += 2
		}
	case instruction.MovDataSignLLoad4:
		src := reg(c, ops[1])
		reg(c, ops[0]).Value = m.ReadU32(src.Value)
		if ops[0] != ops[1] {
			src.Value += 4
		}

	case instruction.MovConstantLoadW:
		addr := c.PC + 4 + uint32(ops[1].Unwrap())*2
		reg(c, ops[0]).Value = signExt16(m.ReadU16(addr))
	case instruction.MovConstantLoadL:
		addr := (c.PC &^ 3) + 4 + uint32(ops[1].Unwrap())*4
		reg(c, ops[0]).Value = m.ReadU32(addr)
	case instruction.MovConstantSign:
		reg(c, ops[0]).Value = signExt8(ops[1].Unwrap())

	case instruction.MovStructStoreB:
		addr := reg(c, ops[0]).Value + uint32(ops[1].Unwrap()&0xF)
		m.WriteU8(addr, uint8(r0(c).Value))
	case instruction.MovStructStoreW:
		addr := reg(c, ops[0]).Value + uint32(ops[1].Unwrap()&0xF)*2
		m.WriteU16(addr, uint16(r0(c).Value))
	case instruction.MovStructStoreL:
		base, disp := structOperand(ops[1])
		addr := reg(c, ops[0]).Value + uint32(disp)*4
		m.WriteU32(addr, c.General(base).Value)
	case instruction.MovStructLoadB:
		addr := reg(c, ops[0]).Value + uint32(ops[1].Unwrap()&0xF)
		r0(c).Value = signExt8(m.ReadU8(addr))
	case instruction.MovStructLoadW:
		addr := reg(c, ops[0]).Value + uint32(ops[1].Unwrap()&0xF)*2
		r0(c).Value = signExt16(m.ReadU16(addr))
	case instruction.MovStructLoadL:
		base, disp := structOperand(ops[1])
		addr := c.General(base).Value + uint32(disp)*4
		reg(c, ops[0]).Value = m.ReadU32(addr)

	case instruction.MovGlobalStoreB:
		addr := c.GBR + uint32(ops[0].Unwrap())
		m.WriteU8(addr, uint8(r0(c).Value))
	case instruction.MovGlobalStoreW:
		addr := c.GBR + uint32(ops[0].Unwrap())*2
		m.WriteU16(addr, uint16(r0(c).Value))
	case instruction.MovGlobalStoreL:
		addr := c.GBR + uint32(ops[0].Unwrap())*4
		m.WriteU32(addr, r0(c).Value)
	case instruction.MovGlobalLoadB:
		addr := c.GBR + uint32(ops[0].Unwrap())
		r0(c).Value = signExt8(m.ReadU8(addr))
	case instruction.MovGlobalLoadW:
		addr := c.GBR + uint32(ops[0].Unwrap())*2
		r0(c).Value = signExt16(m.ReadU16(addr))
	case instruction.MovGlobalLoadL:
		addr := c.GBR + uint32(ops[0].Unwrap())*4
		r0(c).Value = m.ReadU32(addr)

	case instruction.MovA:
		r0(c).Value = (c.PC &^ 3) + 4 + uint32(ops[0].Unwrap())*4
	case instruction.MovCA:
		m.WriteU32(reg(c, ops[0]).Value, r0(c).Value)
	case instruction.MovT:
		reg(c, ops[0]).Value = c.SR.T()

	case instruction.FMov:
		freg(c, ops[0]).Bits = freg(c, ops[1]).Bits
	case instruction.FAdd:
		dst := freg(c, ops[0])
		dst.SetFloat32(dst.Float32() + freg(c, ops[1]).Float32())
	case instruction.FMovLoadS4:
		src := reg(c, ops[1])
		freg(c, ops[0]).Bits = m.ReadU32(src.Value)
		src.Value += 4
	case instruction.FMovLoadD8:
		src := reg(c, ops[1])
		hi := m.ReadU32(src.Value)
		lo := m.ReadU32(src.Value + 4)
		freg(c, ops[0]).Bits = hi
		c.Float(ops[0].Unwrap() + 1).Bits = lo
		src.Value += 8
	case instruction.FMovStoreS4:
		dst := reg(c, ops[0])
		dst.Value -= 4
		m.WriteU32(dst.Value, freg(c, ops[1]).Bits)
	case instruction.FMovStoreD8:
		dst := reg(c, ops[0])
		dst.Value -= 8
		hi := freg(c, ops[1]).Bits
		lo := c.Float(ops[1].Unwrap() + 1).Bits
		m.WriteU32(dst.Value, hi)
		m.WriteU32(dst.Value+4, lo)
	case instruction.Frchg:
		c.FPSCR ^= 0x00200000

	case instruction.Clrs:
		c.SR.SetSaturatedCond(false)
	case instruction.Clrt:
		c.SR.SetCarryCond(false)
	case instruction.Sets:
		c.SR.SetSaturatedCond(true)
	case instruction.Sett:
		c.SR.SetCarryCond(true)
	case instruction.Div0u:
		c.SR.SetQ(false)
		c.SR.SetM(false)
		c.SR.SetCarryCond(false)
	case instruction.Div0s:
		div0s(c, ops[0], ops[1])
	case instruction.Div1:
		div1(c, ops[0], ops[1])

	default:
		slog.Warn("executer: unhandled instruction", "op", fmt.Sprintf("%d", inst.Op), "pc", fmt.Sprintf("%#08x", c.PC))
	}
}

// structOperand decodes the long structure-form's packed 8-bit field:
// high nibble is the base/source register index, low nibble the
// word-granularity displacement.
func structOperand(o operand.Operand) (reg uint8, disp uint8) {
	v := o.Unwrap()
	return (v >> 4) & 0xF, v & 0xF
}

func loadLong(c *cpu.CPU, m *memory.Memory, o operand.Operand) uint32 {
	src := reg(c, o)
	v := m.ReadU32(src.Value)
	src.Value += 4
	return v
}

func storeLong(c *cpu.CPU, m *memory.Memory, o operand.Operand, v uint32) {
	dst := reg(c, o)
	dst.Value -= 4
	m.WriteU32(dst.Value, v)
}

func addWithCarry(c *cpu.CPU, dest, src operand.Operand) {
	d := reg(c, dest)
	tmp0 := d.Value
	tmp1 := d.Value + reg(c, src).Value
	d.Value = tmp1 + c.SR.T()
	c.SR.SetCarryCond(tmp0 > tmp1)
	if tmp1 > d.Value {
		c.SR.Value |= 1
	}
}

func addOverflow(c *cpu.CPU, dest, src operand.Operand) {
	d, s := reg(c, dest), reg(c, src)
	dNeg := 0
	if int32(d.Value) < 0 {
		dNeg = 1
	}
	sNeg := dNeg
	if int32(s.Value) < 0 {
		sNeg++
	}
	d.Value += s.Value
	aNeg := dNeg
	if int32(d.Value) < 0 {
		aNeg++
	}
	if sNeg == 0 || sNeg == 2 {
		c.SR.SetCarryCond(aNeg == 1)
	} else {
		c.SR.SetCarryCond(false)
	}
}

// macL preserves the reference implementation's double read from the
// dest operand's address for both multiplicands rather than reading
// src's address for the second one — see the open question this spec
// carries forward about whether that's a bug or a deliberate mirror.
func macL(c *cpu.CPU, m *memory.Memory, dest, src operand.Operand) {
	d, s := reg(c, dest), reg(c, src)
	rm := int32(m.ReadU32(d.Value))
	rn := int32(m.ReadU32(d.Value))
	d.Value += 4
	s.Value += 4

	r := int64(rm) * int64(rn)
	combined := int64((uint64(c.MACH) << 32) | uint64(c.MACL))
	mac := combined + r
	c.MACH = uint32(mac >> 32)
	c.MACL = uint32(mac)
}

func cmpStr(c *cpu.CPU, dest, src operand.Operand) {
	v := reg(c, dest).Value ^ reg(c, src).Value
	hh := (v & 0xFF000000) >> 24
	hl := (v & 0x00FF0000) >> 16
	lh := (v & 0x0000FF00) >> 8
	ll := v & 0x000000FF
	allNonZero := hh != 0 && hl != 0 && lh != 0 && ll != 0
	c.SR.SetCarryCond(!allNonZero)
}

// gbrByte reads the byte at R0+GBR without masking it against imm; used
// by TstB to form the AND test without mutating memory.
func gbrByte(c *cpu.CPU, m *memory.Memory, imm operand.Operand) uint8 {
	_ = imm
	return m.ReadU8(r0(c).Value + c.GBR)
}

// gbrByteRMW performs the GBR-indexed byte read-modify-write the
// register-byte logic ops (AndB/OrB/XorB) share: read the byte at
// R0+GBR, combine with the 8-bit immediate, write it back.
func gbrByteRMW(c *cpu.CPU, m *memory.Memory, imm operand.Operand, combine func(v, imm uint8) uint8) {
	addr := r0(c).Value + c.GBR
	v := m.ReadU8(addr)
	m.WriteU8(addr, combine(v, imm.Unwrap()))
}

func tas(c *cpu.CPU, m *memory.Memory, dest operand.Operand) {
	addr := reg(c, dest).Value
	v := m.ReadU8(addr)
	c.SR.SetCarryCond(v == 0)
	m.WriteU8(addr, v|0x80)
}

func shar(c *cpu.CPU, dest operand.Operand) {
	r := reg(c, dest)
	c.SR.SetCarryCond(r.Value&0x1 != 0)
	sign := r.Value & 0x80000000
	r.Value >>= 1
	r.Value |= sign
}

func rotcl(c *cpu.CPU, dest operand.Operand) {
	r := reg(c, dest)
	carryIn := c.SR.T()
	c.SR.SetCarryCond(r.Value&0x80000000 != 0)
	r.Value = (r.Value << 1) | carryIn
}

func rotcr(c *cpu.CPU, dest operand.Operand) {
	r := reg(c, dest)
	carryIn := c.SR.T()
	c.SR.SetCarryCond(r.Value&0x1 != 0)
	r.Value = (r.Value >> 1) | (carryIn << 31)
}

func swapB(c *cpu.CPU, dest, src operand.Operand) {
	s := reg(c, src).Value
	hi16 := s & 0xFFFF0000
	loByteToHi := (s & 0x000000FF) << 8
	hiByteToLo := (s & 0x0000FF00) >> 8
	reg(c, dest).Value = hi16 | loByteToHi | hiByteToLo
}

func swapW(c *cpu.CPU, dest, src operand.Operand) {
	s := reg(c, src).Value
	reg(c, dest).Value = (s << 16) | (s >> 16)
}

func div0s(c *cpu.CPU, dest, src operand.Operand) {
	q := int32(reg(c, dest).Value) < 0
	mBit := int32(reg(c, src).Value) < 0
	c.SR.SetQ(q)
	c.SR.SetM(mBit)
	c.SR.SetCarryCond(q != mBit)
}

// div1 performs one step of the SH-4's non-restoring division,
// mirroring the standard ISA reference algorithm.
func div1(c *cpu.CPU, dest, src operand.Operand) {
	n := reg(c, dest)
	mVal := reg(c, src).Value

	oldQ := c.SR.IsQ()
	newQ := n.Value&0x80000000 != 0
	n.Value = (n.Value << 1) | c.SR.T()
	tmp0 := n.Value

	switch {
	case !oldQ && !c.SR.IsM():
		n.Value -= mVal
		newQ = newQ != (n.Value > tmp0)
	case !oldQ && c.SR.IsM():
		n.Value += mVal
		newQ = newQ != (n.Value < tmp0)
	case oldQ && !c.SR.IsM():
		n.Value += mVal
		newQ = newQ != (n.Value < tmp0)
	default:
		n.Value -= mVal
		newQ = newQ != (n.Value > tmp0)
	}

	c.SR.SetQ(newQ)
	c.SR.SetCarryCond(newQ == c.SR.IsM())
}

// bf implements both Bf (branch if T==0) and Bt (branch if T==1). Unlike
// the delayed forms, these resolve the complete next PC themselves —
// taken or not — because AltersPC(Bf)/AltersPC(Bt) is true, so step
// will not separately advance PC by 2 afterward.
func bf(c *cpu.CPU, disp operand.Operand, onTrue bool) {
	target := c.PC + 2 + (signExt8(disp.Unwrap()) << 1)
	taken := c.SR.IsCarry() == onTrue
	if taken {
		c.PC = target
	} else {
		c.PC += 2
	}
}

// delayedCond implements Bfs/Bts: compute the target, run the delay
// slot unconditionally, then land on the target or the fallthrough
// depending on T — captured before the delay slot runs, since the
// delay-slot instruction may itself touch T. Both are stored 2 short,
// since Bfs/Bts are not AltersPC and step adds 2 afterward.
func delayedCond(c *cpu.CPU, m *memory.Memory, disp operand.Operand, onTrue bool) {
	taken := c.SR.IsCarry() == onTrue
	target := c.PC + 2 + (signExt8(disp.Unwrap()) << 1)
	fallthroughPC := c.PC + 2

	c.PC += 2
	step(c, m, true)

	if taken {
		c.PC = target - 2
	} else {
		c.PC = fallthroughPC
	}
}

// composeDisp12 builds the sign-extended 12-bit displacement Bra/Bsr
// carry split across two operand bytes: (n<<8)|disp, sign-extended from
// bit 11.
func composeDisp12(n, disp operand.Operand) int32 {
	d := (uint32(n.Unwrap()) << 8) | uint32(disp.Unwrap())
	if d&0x800 == 0 {
		return int32(d & 0xFFF)
	}
	return int32(d | 0xFFFFF000)
}

// bra, braf, bsr and bsrf are not tagged AltersPC, so step's ordinary
// PC += 2 runs after execute returns; each sets PC to target-2 so that
// trailing += 2 lands exactly on target, mirroring jmp/jsr/rts below.
func bra(c *cpu.CPU, m *memory.Memory, n, disp operand.Operand) {
	off := composeDisp12(n, disp)
	temp := c.PC
	c.PC += 2
	step(c, m, true)
	c.PC = uint32(int64(temp)+2+int64(off)*2) - 2
}

func braf(c *cpu.CPU, m *memory.Memory, dest operand.Operand) {
	temp := c.PC + 2 + reg(c, dest).Value
	c.PC += 2
	step(c, m, true)
	c.PC = temp - 2
}

func bsr(c *cpu.CPU, m *memory.Memory, n, disp operand.Operand) {
	off := composeDisp12(n, disp)
	temp := c.PC
	c.PR = c.PC + 4
	c.PC += 2
	step(c, m, true)
	c.PC = uint32(int64(temp)+2+int64(off)*2) - 2
}

func bsrf(c *cpu.CPU, m *memory.Memory, dest operand.Operand) {
	temp := c.PC + 2 + reg(c, dest).Value
	c.PR = c.PC + 4
	c.PC += 2
	step(c, m, true)
	c.PC = temp - 2
}

// jmp and jsr preserve the reference's exact delay-slot bookkeeping:
// AltersPC(Jmp) is true (see instruction.AltersPC's doc comment), so
// step will NOT add the usual +2 afterward, meaning the "-2" compensation
// below is never undone for Jmp — see the open question on whether this
// interacts correctly with nested branches. Jsr is not tagged alters_pc,
// so its compensation is undone by step's ordinary +2 as intended.
func jmp(c *cpu.CPU, m *memory.Memory, dest operand.Operand) {
	temp := reg(c, dest).Value
	c.PC += 2
	step(c, m, true)
	c.PC = temp - 2
}

func jsr(c *cpu.CPU, m *memory.Memory, dest operand.Operand) {
	temp := reg(c, dest).Value
	c.PR = c.PC + 4
	c.PC += 2
	step(c, m, true)
	c.PC = temp - 2
}

func rts(c *cpu.CPU, m *memory.Memory) {
	temp := c.PR
	c.PC += 2
	step(c, m, true)
	c.PC = temp - 2
}
