/*
 * SH4 - Instruction operand values
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

// Package operand defines the tagged 8-bit operand value decoded
// instructions carry: a register index, an immediate, or a displacement.
package operand

// Kind tags which of the three payload interpretations an Operand carries.
type Kind uint8

const (
	Register Kind = iota
	Immediate
	Displacement
)

func (k Kind) String() string {
	switch k {
	case Register:
		return "Register"
	case Immediate:
		return "Immediate"
	case Displacement:
		return "Displacement"
	default:
		return "Unknown"
	}
}

// Operand is a tagged 8-bit value. Equality is structural (both fields
// must match), matching the spec's "tagged 8-bit value" data model.
type Operand struct {
	Kind  Kind
	Value uint8
}

func Reg(v uint8) Operand  { return Operand{Kind: Register, Value: v} }
func Imm(v uint8) Operand  { return Operand{Kind: Immediate, Value: v} }
func Disp(v uint8) Operand { return Operand{Kind: Displacement, Value: v} }

func (o Operand) IsRegister() bool     { return o.Kind == Register }
func (o Operand) IsImmediate() bool    { return o.Kind == Immediate }
func (o Operand) IsDisplacement() bool { return o.Kind == Displacement }

// Unwrap projects the underlying 8-bit payload regardless of Kind.
func (o Operand) Unwrap() uint8 { return o.Value }

func (o Operand) String() string {
	switch o.Kind {
	case Register:
		return "R" + itoa(o.Value)
	case Immediate:
		return "#" + itoa(o.Value)
	case Displacement:
		return "@" + itoa(o.Value)
	default:
		return "?"
	}
}

func itoa(v uint8) string {
	if v == 0 {
		return "0"
	}
	var buf [3]byte
	i := len(buf)
	for v > 0 {
		i--
		buf[i] = byte('0' + v%10)
		v /= 10
	}
	return string(buf[i:])
}
