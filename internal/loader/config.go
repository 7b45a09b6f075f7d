/*
 * C-Lesh - Loader: configuration and table-list/file-list parsing
 *
 * Copyright 2024, Richard Cornwell
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

// Package loader parses the C-Lesh configuration file and the
// table-list/file-list text formats used to populate memory
// (spec.md §4.7).
package loader

import (
	"bufio"
	"io"
	"strconv"
	"strings"

	"github.com/clesh-vm/clesh/internal/clerr"
)

// Config holds the four keys the configuration file recognizes
// (spec.md §4.7): default table dimensions, memory table count, and the
// initial command/stack pointers.
type Config struct {
	Width       int
	Height      int
	MemoryCount int
	Program     int
	Stack       int
}

// defaultStackPointer is used when the config file omits "stack"
// (spec.md §4.5: "The initial value of stack_pointer is read from
// configuration (default 400)").
const defaultStackPointer = 400

// ParseConfig reads key=value configuration lines. Blank or malformed
// lines are treated as comments; any key other than table/memory/
// program/stack is a fatal ConfigError.
func ParseConfig(r io.Reader) (*Config, error) {
	cfg := &Config{Stack: defaultStackPointer}

	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		key, value, ok := splitKeyValue(line)
		if !ok {
			// Malformed lines are comments, per spec.md §4.7.
			continue
		}
		switch strings.ToLower(key) {
		case "table":
			w, h, err := parseDims(value)
			if err != nil {
				return nil, &clerr.ConfigError{Key: "table", Reason: err.Error()}
			}
			cfg.Width, cfg.Height = w, h
		case "memory":
			n, err := strconv.Atoi(value)
			if err != nil {
				return nil, &clerr.ConfigError{Key: "memory", Reason: "not an integer: " + value}
			}
			cfg.MemoryCount = n
		case "program":
			n, err := strconv.Atoi(value)
			if err != nil {
				return nil, &clerr.ConfigError{Key: "program", Reason: "not an integer: " + value}
			}
			cfg.Program = n
		case "stack":
			n, err := strconv.Atoi(value)
			if err != nil {
				return nil, &clerr.ConfigError{Key: "stack", Reason: "not an integer: " + value}
			}
			cfg.Stack = n
		default:
			return nil, &clerr.ConfigError{Key: key, Reason: "unknown configuration key"}
		}
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// splitKeyValue splits "key=value" on the first '=', or "key value" on
// the first run of whitespace. A line with no key or no value is
// malformed (treated as a comment per spec.md §4.7).
func splitKeyValue(line string) (key, value string, ok bool) {
	if k, v, found := strings.Cut(line, "="); found {
		k, v = strings.TrimSpace(k), strings.TrimSpace(v)
		return k, v, k != "" && v != ""
	}
	fields := strings.Fields(line)
	if len(fields) < 2 {
		return "", "", false
	}
	return fields[0], strings.Join(fields[1:], " "), true
}

func parseDims(s string) (int, int, error) {
	parts := strings.SplitN(strings.ToLower(s), "x", 2)
	if len(parts) != 2 {
		return 0, 0, &dimsError{s}
	}
	w, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return 0, 0, &dimsError{s}
	}
	h, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return 0, 0, &dimsError{s}
	}
	return w, h, nil
}

type dimsError struct{ value string }

func (e *dimsError) Error() string {
	return "malformed WxH value: " + e.value
}
