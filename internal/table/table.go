/*
 * C-Lesh - Table: the 2D integer grid with a read/write cursor
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

// Package table implements the fixed-size 2D integer grid with a mutable
// read/write cursor that is the sole unit of storage and addressing in the
// C-Lesh virtual machine.
package table

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Table is a rectangular grid of signed integers with a cursor (row,
// column) used to walk its contents. Every instruction, every piece of
// data, and the stack itself is a Table.
type Table struct {
	width, height int
	cells         [][]int64
	row, col      int
}

// New allocates a zero-filled width×height Table, cursor rewound.
func New(width, height int) *Table {
	t := &Table{}
	t.alloc(width, height)
	return t
}

func (t *Table) alloc(width, height int) {
	t.width, t.height = width, height
	t.cells = make([][]int64, height)
	for i := range t.cells {
		t.cells[i] = make([]int64, width)
	}
	t.row, t.col = 0, 0
}

// Width reports the table's fixed column count.
func (t *Table) Width() int { return t.width }

// Height reports the table's fixed row count.
func (t *Table) Height() int { return t.height }

// Row reports the cursor's current row.
func (t *Table) Row() int { return t.row }

// Col reports the cursor's current column.
func (t *Table) Col() int { return t.col }

// Rewind resets the cursor to (0, 0).
func (t *Table) Rewind() {
	t.row, t.col = 0, 0
}

// ReadColumn returns the integer under the cursor and advances the
// column by one. When the advance would pass the last column of the row,
// the column wraps to 0 without changing the row — this wrap is a
// behavioral feature of the source VM (spec.md §4.1) and must not advance
// the row automatically.
func (t *Table) ReadColumn() int64 {
	v := t.cells[t.row][t.col]
	t.col++
	if t.col >= t.width {
		t.col = 0
	}
	return v
}

// WriteColumn writes v under the cursor and advances the column with the
// same wrap policy as ReadColumn.
func (t *Table) WriteColumn(v int64) {
	t.cells[t.row][t.col] = v
	t.col++
	if t.col >= t.width {
		t.col = 0
	}
}

// Peek returns the value under the cursor without advancing it.
func (t *Table) Peek() int64 {
	return t.cells[t.row][t.col]
}

// At returns the value at row r, column 0, without moving the cursor.
func (t *Table) At(r int) int64 {
	return t.cells[r][0]
}

// AtColumn returns the value at row r, column c.
func (t *Table) AtColumn(r, c int) int64 {
	return t.cells[r][c]
}

// SetAt writes v at row r, column 0.
func (t *Table) SetAt(r int, v int64) {
	t.cells[r][0] = v
}

// MoveToNextRow advances to the first column of the next row.
func (t *Table) MoveToNextRow() {
	t.row++
	t.col = 0
}

// MoveToRow jumps the cursor to row r, column 0.
func (t *Table) MoveToRow(r int) {
	t.row = r
	t.col = 0
}

// MoveToColumn moves the cursor to column c of the current row.
func (t *Table) MoveToColumn(c int) {
	t.col = c
}

// Resize reallocates the table to new dimensions, zero-filled, cursor
// rewound. Prior contents are discarded per spec.md §3.
func (t *Table) Resize(width, height int) {
	t.alloc(width, height)
}

// Clear zeroes every cell and rewinds the cursor, preserving dimensions.
func (t *Table) Clear() {
	for i := range t.cells {
		for j := range t.cells[i] {
			t.cells[i][j] = 0
		}
	}
	t.row, t.col = 0, 0
}

// WriteTo serializes the table in the table-list text format: a "WxH"
// header line followed by H rows of space-separated integers.
func (t *Table) WriteTo(w io.Writer) error {
	if _, err := fmt.Fprintf(w, "%dx%d\n", t.width, t.height); err != nil {
		return err
	}
	bw := bufio.NewWriter(w)
	for _, row := range t.cells {
		parts := make([]string, len(row))
		for i, v := range row {
			parts[i] = strconv.FormatInt(v, 10)
		}
		if _, err := bw.WriteString(strings.Join(parts, " ") + "\n"); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// ReadFrom parses one table-list entry (a "WxH" header and H rows) from
// sc and returns a new table sized to the header's dimensions. It
// returns io.EOF when no header line remains.
func ReadFrom(sc *bufio.Scanner) (*Table, error) {
	header, ok := nextNonBlank(sc)
	if !ok {
		return nil, io.EOF
	}
	w, h, err := parseDims(header)
	if err != nil {
		return nil, err
	}
	t := New(w, h)
	for r := 0; r < h; r++ {
		line, ok := nextLine(sc)
		if !ok {
			return nil, fmt.Errorf("table-list: truncated table body at row %d", r)
		}
		fields := strings.Fields(line)
		for c := 0; c < w && c < len(fields); c++ {
			v, err := strconv.ParseInt(fields[c], 10, 64)
			if err != nil {
				return nil, fmt.Errorf("table-list: row %d col %d: %w", r, c, err)
			}
			t.cells[r][c] = v
		}
	}
	return t, nil
}

func parseDims(header string) (int, int, error) {
	parts := strings.SplitN(strings.ToLower(strings.TrimSpace(header)), "x", 2)
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("table-list: malformed header %q, want WxH", header)
	}
	w, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return 0, 0, fmt.Errorf("table-list: bad width in %q: %w", header, err)
	}
	h, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return 0, 0, fmt.Errorf("table-list: bad height in %q: %w", header, err)
	}
	return w, h, nil
}

func nextLine(sc *bufio.Scanner) (string, bool) {
	if !sc.Scan() {
		return "", false
	}
	return sc.Text(), true
}

// nextNonBlank skips blank lines, treated as comments per spec.md §4.7.
func nextNonBlank(sc *bufio.Scanner) (string, bool) {
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		return line, true
	}
	return "", false
}
