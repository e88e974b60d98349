/*
 * SH4 - Configuration file parser
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

// Package config parses the small line-oriented directive file that
// tells cmd/sh4run what to load and where. It is a scaled-down cousin of
// the teacher's config/configparser: same "# comment, whitespace-split
// directive, first token is a keyword" shape, with the device-model
// registry collapsed down to the handful of keywords this single-CPU
// machine needs.
package config

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/sh4sim/core/cpu"
)

// Peripheral names one of the MMIO adapters cmd/sh4run knows how to
// construct, plus the folded-address range it's attached over. The
// range is informational only: peripheral.NewBsc/NewDsp register their
// own fixed ranges, and neither Parse nor cmd/sh4run checks the
// configured range against them.
type Peripheral struct {
	Name string
	Low  uint32
	High uint32
}

// Config is the parsed directive file: what program image to load,
// where to load and start it, and which peripherals to attach.
type Config struct {
	ImagePath   string
	LoadAddress uint32
	StartPC     uint32
	Peripherals []Peripheral
}

// Parse reads the directive file at path. Recognized directives:
//
//	image <path> <load-address>
//	start <pc>
//	peripheral <name> <low> <high>
//
// Addresses accept any base strconv.ParseUint(_, 0, 32) understands, so
// both "0x8c010000" and plain decimal work. Lines beginning with '#' and
// blank lines are ignored. StartPC defaults to cpu.InitialPC when no
// "start" directive appears.
func Parse(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	cfg := &Config{StartPC: cpu.InitialPC}

	scanner := bufio.NewScanner(f)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		fields := strings.Fields(line)
		directive := strings.ToLower(fields[0])
		args := fields[1:]

		var perr error
		switch directive {
		case "image":
			perr = cfg.parseImage(args)
		case "start":
			perr = cfg.parseStart(args)
		case "peripheral":
			perr = cfg.parsePeripheral(args)
		default:
			perr = fmt.Errorf("unknown directive %q", fields[0])
		}
		if perr != nil {
			return nil, fmt.Errorf("%s:%d: %w", path, lineNo, perr)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if cfg.ImagePath == "" {
		return nil, fmt.Errorf("%s: missing required \"image\" directive", path)
	}
	return cfg, nil
}

func (c *Config) parseImage(args []string) error {
	if len(args) != 2 {
		return fmt.Errorf("image requires <path> <load-address>, got %d args", len(args))
	}
	addr, err := parseAddress(args[1])
	if err != nil {
		return fmt.Errorf("image load address: %w", err)
	}
	c.ImagePath = args[0]
	c.LoadAddress = addr
	return nil
}

func (c *Config) parseStart(args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("start requires <pc>, got %d args", len(args))
	}
	addr, err := parseAddress(args[0])
	if err != nil {
		return fmt.Errorf("start pc: %w", err)
	}
	c.StartPC = addr
	return nil
}

func (c *Config) parsePeripheral(args []string) error {
	if len(args) != 3 {
		return fmt.Errorf("peripheral requires <name> <low> <high>, got %d args", len(args))
	}
	low, err := parseAddress(args[1])
	if err != nil {
		return fmt.Errorf("peripheral low address: %w", err)
	}
	high, err := parseAddress(args[2])
	if err != nil {
		return fmt.Errorf("peripheral high address: %w", err)
	}
	c.Peripherals = append(c.Peripherals, Peripheral{Name: args[0], Low: low, High: high})
	return nil
}

func parseAddress(s string) (uint32, error) {
	v, err := strconv.ParseUint(s, 0, 32)
	if err != nil {
		return 0, err
	}
	return uint32(v), nil
}
