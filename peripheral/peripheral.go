/*
 * SH4 - Memory mapped peripherals
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

// Package peripheral implements the memory-mapped I/O devices attached to
// the SH-4 core's address space: a two-port bus state controller (Bsc)
// and a single-register AV/DSP control register (Dsp). Each device is a
// goroutine that owns its registers and serves memory.Request traffic
// over the channel pair memory.RegisterMappedIO hands it.
package peripheral

import (
	"log/slog"

	"github.com/sh4sim/core/memory"
)

// portBank is the register pair one GPIO-style bus controller bank
// (PCTRx/PDTRx) needs: a direction-control register and a data register.
// Bsc owns two of these (A and B); read/write logic is identical across
// both banks, so it lives once here instead of twice.
type portBank struct {
	pctr uint32
	pdtr uint16
}

// read applies the direction-mask quirk the reference bus controller
// carries: bits 0-1 of pdtr are forced to 1 when every output-configured
// bit among them is already 1, and forced to 0 otherwise; the result is
// then pdtr ORed with the bank's fixed input contribution (0x300 masked
// by which lines are configured as input, so only bits 8-9 can be added).
func (b *portBank) read() uint16 {
	var inputMask, outputMask uint32
	for i := uint(0); i < 16; i++ {
		bits := (b.pctr >> (i << 1)) & 0x3
		switch {
		case bits == 2:
			inputMask |= 1 << i
		case bits != 0:
			outputMask |= 1 << i
		}
	}

	if (uint32(b.pdtr)|^outputMask)&0x3 == 0x3 {
		b.pdtr |= 0x3
	} else {
		b.pdtr &^= 0x3
	}

	return uint16(0x300&inputMask) | b.pdtr
}

// Bsc is the SH-4's bus state controller as exposed through its GPIO
// port control/data register pairs PCTRA/PDTRA and PCTRB/PDTRB. Dreamcast
// firmware polls PDTRA to detect the attached cable type; nothing else in
// this interpreter drives real hardware, so both banks float at reset.
type Bsc struct {
	a, b     portBank
	sender   chan<- uint32
	receiver <-chan memory.Request
}

const (
	addrPCTRA = 0x1f80002c
	addrPDTRA = 0x1f800030
	addrPCTRB = 0x1f800040
	addrPDTRB = 0x1f800044
)

// NewBsc creates a bus state controller and registers its mapped range
// with m. Call Run in its own goroutine to start serving requests.
func NewBsc(m *memory.Memory) *Bsc {
	toDevice := make(chan memory.Request)
	toCore := make(chan uint32)
	m.RegisterMappedIO(addrPCTRA, addrPDTRB, toDevice, toCore)
	return &Bsc{sender: toCore, receiver: toDevice}
}

// Run services MMIO requests until the request channel closes.
func (d *Bsc) Run() {
	for req := range d.receiver {
		if req.HasValue {
			d.write(req.Address, req.Value)
			continue
		}
		d.sender <- d.readAt(req.Address)
	}
}

func (d *Bsc) write(addr, value uint32) {
	switch addr {
	case addrPCTRA:
		d.a.pctr = value
	case addrPDTRA:
		d.a.pdtr = uint16(value)
	case addrPCTRB:
		d.b.pctr = value
	case addrPDTRB:
		d.b.pdtr = uint16(value)
	}
}

func (d *Bsc) readAt(addr uint32) uint32 {
	switch addr {
	case addrPCTRA:
		return d.a.pctr
	case addrPDTRA:
		return uint32(d.a.read())
	case addrPCTRB:
		return d.b.pctr
	case addrPDTRB:
		return uint32(d.b.read())
	default:
		return 0
	}
}

// Dsp exposes the single AV output control register the spec carries
// forward from the reference implementation's dsp controller. It resets
// to 1, matching composite/RGB output selection at power-on.
type Dsp struct {
	avCtrl   uint32
	sender   chan<- uint32
	receiver <-chan memory.Request
}

const addrAVCtrl = 0x00702c00

// NewDsp creates the AV control register device and registers its single
// address with m. Call Run in its own goroutine to start serving requests.
func NewDsp(m *memory.Memory) *Dsp {
	toDevice := make(chan memory.Request)
	toCore := make(chan uint32)
	m.RegisterMappedIO(addrAVCtrl, addrAVCtrl, toDevice, toCore)
	return &Dsp{avCtrl: 1, sender: toCore, receiver: toDevice}
}

// Run services MMIO requests until the request channel closes.
func (d *Dsp) Run() {
	for req := range d.receiver {
		if req.HasValue {
			if req.Address == addrAVCtrl {
				d.avCtrl = req.Value
			}
			continue
		}
		if req.Address != addrAVCtrl {
			slog.Warn("dsp: unexpected read address", "address", req.Address)
		}
		d.sender <- d.avCtrl
	}
}
