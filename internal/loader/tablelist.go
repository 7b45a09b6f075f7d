/*
 * C-Lesh - Loader: table-list and file-list table I/O
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

package loader

import (
	"bufio"
	"io"
	"os"

	"github.com/clesh-vm/clesh/internal/clerr"
	"github.com/clesh-vm/clesh/internal/memory"
	"github.com/clesh-vm/clesh/internal/table"
)

// LoadTableList reads a table-list file (a concatenation of "WxH"
// headers and row bodies) and loads each table it contains into
// consecutive memory addresses starting at base (spec.md §4.4 LOAD with
// FILE_TABLE mode, §4.7).
func LoadTableList(path string, mem *memory.Memory, base int) error {
	f, err := os.Open(path)
	if err != nil {
		return &clerr.LoadError{Path: path, Reason: err.Error()}
	}
	defer f.Close()
	return loadTableListFrom(f, path, mem, base)
}

func loadTableListFrom(r io.Reader, path string, mem *memory.Memory, base int) error {
	sc := bufio.NewScanner(r)
	addr := base
	loaded := 0
	for {
		tb, err := table.ReadFrom(sc)
		if err == io.EOF {
			break
		}
		if err != nil {
			return &clerr.LoadError{Path: path, Reason: err.Error()}
		}
		dest, err := mem.At(addr)
		if err != nil {
			return err
		}
		*dest = *tb
		addr++
		loaded++
	}
	if loaded == 0 {
		return &clerr.LoadError{Path: path, Reason: "no tables found (missing WxH header)"}
	}
	return nil
}

// LoadFileList loads each named file as a single table into consecutive
// memory addresses starting at base (spec.md §4.4 LOAD with FILE_LIST
// mode).
func LoadFileList(names []string, mem *memory.Memory, base int) error {
	for i, name := range names {
		f, err := os.Open(name)
		if err != nil {
			return &clerr.LoadError{Path: name, Reason: err.Error()}
		}
		tb, err := table.ReadFrom(bufio.NewScanner(f))
		f.Close()
		if err != nil {
			return &clerr.LoadError{Path: name, Reason: err.Error()}
		}
		dest, err := mem.At(base + i)
		if err != nil {
			return err
		}
		*dest = *tb
	}
	return nil
}

// SaveTable persists a single table to path in table-list format
// (spec.md §4.4 SAVE).
func SaveTable(path string, tb *table.Table) error {
	f, err := os.Create(path)
	if err != nil {
		return &clerr.LoadError{Path: path, Reason: err.Error()}
	}
	defer f.Close()
	if err := tb.WriteTo(f); err != nil {
		return &clerr.LoadError{Path: path, Reason: err.Error()}
	}
	return nil
}
