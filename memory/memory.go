/*
 * SH4 - Memory subsystem
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

// Package memory implements the SH-4 core's flat backing store: address
// folding over architectural mirrors, a decode cache co-located with raw
// data, and a memory-mapped I/O registry that routes requests to
// peripherals over request/response channels.
package memory

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sort"

	"github.com/sh4sim/core/instruction"
)

// capacity is the size of the backing array in 16-bit cells: the 29-bit
// mapped address range (0x20000000 bytes) addressed in half-words.
const capacity = 0x20000000 / 2

// FieldKind tags whether a MemoryField cell holds a raw 16-bit value or
// a previously decoded instruction.
type FieldKind uint8

const (
	Raw16 FieldKind = iota
	Cached
)

// MemoryField is the unit of storage in the backing array: either a raw
// 16-bit cell or a decoded instruction cached in its place. Every address
// maps to exactly one field, and a Cached field is only ever produced
// from a prior Raw16 at the same address.
type MemoryField struct {
	Kind FieldKind
	Raw  uint16
	Inst instruction.Instruction
}

func RawField(v uint16) MemoryField { return MemoryField{Kind: Raw16, Raw: v} }

func CachedField(i instruction.Instruction) MemoryField {
	return MemoryField{Kind: Cached, Inst: i}
}

func (f MemoryField) IsRaw() bool    { return f.Kind == Raw16 }
func (f MemoryField) IsCached() bool { return f.Kind == Cached }

// Request is the outbound MMIO tuple: Some(v) on Value/HasValue=true is a
// write, HasValue=false is a read.
type Request struct {
	Address  uint32
	Value    uint32
	HasValue bool
}

// MappedIO is one peripheral registration: an inclusive folded-address
// range paired with the channel ends Memory uses to reach it. Memory owns
// the sender/receiver ends shown here; the peripheral owns the matching
// counterparts.
type MappedIO struct {
	Low, High uint32
	Sender    chan<- Request
	Receiver  <-chan uint32
}

func (m MappedIO) contains(addr uint32) bool { return addr >= m.Low && addr <= m.High }

// Memory is the SH-4 core's address space: a contiguous array of
// MemoryField indexed by folded-address/2, an ordered MMIO registry, and
// a fast min/max bound for early-out on non-routed accesses.
type Memory struct {
	cells     []MemoryField
	mapped    []MappedIO
	minMapped uint32
	maxMapped uint32
	hasMapped bool
}

func New() *Memory {
	return &Memory{cells: make([]MemoryField, capacity)}
}

// Map folds a 29- to 32-bit logical address down to its canonical
// physical index: the two known mirror windows (VRAM at 0xA5000000,
// memory-mapped registers at 0xFF000000) collapse onto their canonical
// physical ranges; every other address has its top three bits masked off.
func Map(address uint32) uint32 {
	switch {
	case address >= 0xA5000000 && address <= 0xA57FFFFF:
		return address - 0xA1000000
	case address >= 0xFF000000:
		return address - 0xE0000000
	default:
		return address & 0x1FFFFFFF
	}
}

// RegisterMappedIO attaches a peripheral over [low, high] (folded
// addresses, inclusive both ends) and keeps the registry sorted by range
// so routing can short-circuit on the min/max bound.
func (m *Memory) RegisterMappedIO(low, high uint32, sender chan<- Request, receiver <-chan uint32) {
	m.mapped = append(m.mapped, MappedIO{Low: low, High: high, Sender: sender, Receiver: receiver})
	sort.Slice(m.mapped, func(i, j int) bool { return m.mapped[i].Low < m.mapped[j].Low })

	if !m.hasMapped || low < m.minMapped {
		m.minMapped = low
	}
	if !m.hasMapped || high > m.maxMapped {
		m.maxMapped = high
	}
	m.hasMapped = true
}

func (m *Memory) isIOCandidate(addr uint32) bool {
	return m.hasMapped && addr >= m.minMapped && addr <= m.maxMapped
}

func (m *Memory) findMappedIO(addr uint32) *MappedIO {
	if !m.isIOCandidate(addr) {
		return nil
	}
	for i := range m.mapped {
		if m.mapped[i].contains(addr) {
			return &m.mapped[i]
		}
	}
	return nil
}

// tryMappedWrite routes a write to the matching MMIO registration. It
// reports whether a registration matched; non-matches fall through to
// the backing array.
func (m *Memory) tryMappedWrite(addr, value uint32) bool {
	io := m.findMappedIO(addr)
	if io == nil {
		return false
	}
	io.Sender <- Request{Address: addr, Value: value, HasValue: true}
	return true
}

// tryMappedRead routes a read to the matching MMIO registration and
// blocks for the response. ok is false when nothing matched.
func (m *Memory) tryMappedRead(addr uint32) (value uint32, ok bool) {
	io := m.findMappedIO(addr)
	if io == nil {
		return 0, false
	}
	io.Sender <- Request{Address: addr, HasValue: false}
	v, open := <-io.Receiver
	if !open {
		panic(fmt.Sprintf("memory: MMIO receiver closed for address %#08x", addr))
	}
	return v, true
}

func (m *Memory) index(address uint32) uint32 {
	return Map(address) / 2
}

// Access returns the MemoryField at address (not MMIO-routed: code and
// data in mapped peripheral ranges are not decode-cached or executed
// from, so Access always hits the backing array).
func (m *Memory) Access(address uint32) *MemoryField {
	return &m.cells[m.index(address)]
}

// readU16Raw reads the raw 16-bit backing cell at address, panicking if
// the cell currently holds a cached decoded instruction — reading a
// Cached slot as data is the "invalid memory field" fatal condition.
func (m *Memory) readU16Raw(address uint32) uint16 {
	f := m.cells[m.index(address)]
	if f.Kind != Raw16 {
		panic(fmt.Sprintf("memory: read of cached instruction slot as data at %#08x", address))
	}
	return f.Raw
}

func (m *Memory) writeU16Raw(address uint32, v uint16) {
	m.cells[m.index(address)] = RawField(v)
}

// ReadU16 reads a half-word, first attempting MMIO routing.
func (m *Memory) ReadU16(address uint32) uint16 {
	folded := Map(address)
	if v, ok := m.tryMappedRead(folded); ok {
		return uint16(v)
	}
	return m.readU16Raw(address)
}

// WriteU16 writes a half-word, first attempting MMIO routing. A
// non-routed write demotes the target cell back to Raw16, invalidating
// any decode cache entry there.
func (m *Memory) WriteU16(address uint32, v uint16) {
	folded := Map(address)
	if m.tryMappedWrite(folded, uint32(v)) {
		return
	}
	m.writeU16Raw(address, v)
}

// ReadU32 routes mapped addresses as one full-width request; otherwise
// it combines two consecutive raw half-words, low half at address, high
// half at address+2.
func (m *Memory) ReadU32(address uint32) uint32 {
	folded := Map(address)
	if v, ok := m.tryMappedRead(folded); ok {
		return v
	}
	lo := uint32(m.readU16Raw(address))
	hi := uint32(m.readU16Raw(address + 2))
	return (hi << 16) | lo
}

// WriteU32 routes mapped addresses as one full-width request; otherwise
// it splits v into two raw half-word cells, low half at address, high
// half at address+2.
func (m *Memory) WriteU32(address, v uint32) {
	folded := Map(address)
	if m.tryMappedWrite(folded, v) {
		return
	}
	m.writeU16Raw(address, uint16(v))
	m.writeU16Raw(address+2, uint16(v>>16))
}

// ReadU8 selects one byte of the containing half-word: address%2==0 is
// the low byte, ==1 is the high byte.
func (m *Memory) ReadU8(address uint32) uint8 {
	folded := Map(address)
	if v, ok := m.tryMappedRead(folded); ok {
		return uint8(v)
	}
	w := m.readU16Raw(address &^ 1)
	if address%2 == 0 {
		return uint8(w)
	}
	return uint8(w >> 8)
}

func (m *Memory) ReadI8(address uint32) int8 { return int8(m.ReadU8(address)) }

// WriteU8 writes one byte of the containing half-word, preserving the
// untouched byte. Mapped addresses route the byte value itself.
func (m *Memory) WriteU8(address uint32, v uint8) {
	folded := Map(address)
	if m.tryMappedWrite(folded, uint32(v)) {
		return
	}
	base := address &^ 1
	w := m.readU16Raw(base)
	if address%2 == 0 {
		w = (w &^ 0x00FF) | uint16(v)
	} else {
		w = (w &^ 0xFF00) | (uint16(v) << 8)
	}
	m.writeU16Raw(base, w)
}

// SignExtendU8 sign-extends an 8-bit value to 32 bits.
func SignExtendU8(v uint8) uint32 { return uint32(int32(int8(v))) }

// SignExtendU16 sign-extends a 16-bit value to 32 bits.
func SignExtendU16(v uint16) uint32 { return uint32(int32(int16(v))) }

// ReadFromFile loads a raw program image into memory starting at
// address, consuming bytes in pairs with the little-endian-byte,
// big-endian-order convention: for each pair (b0, b1) the stored word is
// (b1<<8)|b0. An odd trailing byte is not supported.
func (m *Memory) ReadFromFile(path string, address uint32) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	r := bufio.NewReader(f)
	addr := address
	pair := make([]byte, 2)
	for {
		n, err := io.ReadFull(r, pair)
		if n == 2 {
			word := (uint16(pair[1]) << 8) | uint16(pair[0])
			m.writeU16Raw(addr, word)
			addr += 2
		}
		if errors.Is(err, io.EOF) {
			break
		}
		if errors.Is(err, io.ErrUnexpectedEOF) {
			return fmt.Errorf("memory: odd trailing byte in program image %s", path)
		}
		if err != nil {
			return err
		}
	}
	slog.Info("loaded program image", "path", path, "address", fmt.Sprintf("%#08x", address), "bytes", addr-address)
	return nil
}
