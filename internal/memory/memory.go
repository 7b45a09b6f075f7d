/*
 * C-Lesh - Memory: the bounds-checked array of tables
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

// Package memory implements the fixed-length, bounds-checked array of
// Tables that backs every C-Lesh address space (spec.md §3).
package memory

import (
	"github.com/clesh-vm/clesh/internal/clerr"
	"github.com/clesh-vm/clesh/internal/table"
)

// Memory is a contiguous, fixed-length sequence of Tables, each allocated
// with the same default width and height from configuration.
type Memory struct {
	tables []*table.Table
	width  int
	height int
}

// New allocates count tables, each width×height, zero-filled.
func New(count, width, height int) *Memory {
	m := &Memory{
		tables: make([]*table.Table, count),
		width:  width,
		height: height,
	}
	for i := range m.tables {
		m.tables[i] = table.New(width, height)
	}
	return m
}

// Count reports the number of addressable tables.
func (m *Memory) Count() int { return len(m.tables) }

// DefaultWidth reports the configured default table width.
func (m *Memory) DefaultWidth() int { return m.width }

// DefaultHeight reports the configured default table height.
func (m *Memory) DefaultHeight() int { return m.height }

// At returns the table at addr, or an AddressFault if addr is out of
// range. Every memory access in the engine goes through this check —
// spec.md §8 invariant 5.
func (m *Memory) At(addr int) (*table.Table, error) {
	if addr < 0 || addr >= len(m.tables) {
		return nil, &clerr.AddressFault{Address: addr, Reason: "memory index out of range"}
	}
	return m.tables[addr], nil
}

// MustAt is At without the error return, for call sites that have
// already range-checked addr (e.g. iterating 0..Count()).
func (m *Memory) MustAt(addr int) *table.Table {
	return m.tables[addr]
}
