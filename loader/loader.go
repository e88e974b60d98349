/*
 * SH4 - Program image loader
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

// Package loader loads a program image into a memory.Memory instance at
// a caller-chosen address. The actual byte layout (little-endian byte
// pairs composed big-endian into 16-bit cells) is Memory's concern, not
// the loader's; this package exists as the named collaborator the
// config/main wiring calls, and as the seam a future image format (ELF,
// a Dreamcast IP.BIN header) would hook into without touching Memory.
package loader

import "github.com/sh4sim/core/memory"

// Load reads the raw program image at path into m starting at address.
func Load(m *memory.Memory, path string, address uint32) error {
	return m.ReadFromFile(path, address)
}
