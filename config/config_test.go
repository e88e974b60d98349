/*
 * SH4 - Configuration parser test cases
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

package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sh4sim/core/cpu"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "sh4.cfg")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestParseFullConfig(t *testing.T) {
	path := writeConfig(t, `
# boot image
image boot.bin 0x8c000000
start 0x8c000000
peripheral bsc 0x1f80002c 0x1f800048
peripheral dsp 0x00702c00 0x00702c00
`)
	cfg, err := Parse(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.ImagePath != "boot.bin" || cfg.LoadAddress != 0x8C000000 {
		t.Errorf("image = %q @ %#08x", cfg.ImagePath, cfg.LoadAddress)
	}
	if cfg.StartPC != 0x8C000000 {
		t.Errorf("StartPC = %#08x", cfg.StartPC)
	}
	if len(cfg.Peripherals) != 2 {
		t.Fatalf("got %d peripherals, want 2", len(cfg.Peripherals))
	}
	if p := cfg.Peripherals[0]; p.Name != "bsc" || p.Low != 0x1F80002C || p.High != 0x1F800048 {
		t.Errorf("bsc registration = %+v", p)
	}
}

func TestParseDefaultsStartPC(t *testing.T) {
	cfg, err := Parse(writeConfig(t, "image rom.bin 0"))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.StartPC != cpu.InitialPC {
		t.Errorf("StartPC = %#08x, want the reset vector", cfg.StartPC)
	}
}

func TestParseMissingImage(t *testing.T) {
	_, err := Parse(writeConfig(t, "start 0x8c000000"))
	if err == nil || !strings.Contains(err.Error(), "image") {
		t.Errorf("expected missing-image error, got %v", err)
	}
}

func TestParseErrorsCarryLineNumbers(t *testing.T) {
	_, err := Parse(writeConfig(t, "image a.bin 0\nbogus directive\n"))
	if err == nil || !strings.Contains(err.Error(), ":2:") {
		t.Errorf("expected line 2 in error, got %v", err)
	}
}

func TestParseBadAddress(t *testing.T) {
	_, err := Parse(writeConfig(t, "image a.bin nothex"))
	if err == nil {
		t.Error("expected address parse error")
	}
}
