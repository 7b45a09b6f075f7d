/*
 * C-Lesh - Strcode: the length-prefixed integer string encoding
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

// Package strcode implements the C-Lesh string encoding: a
// length-prefixed sequence of integer character codes stored in a Table,
// where the marker '@' (0x40) consumes one value from the stack and
// substitutes its decimal rendering (spec.md §3, §4.6).
package strcode

import (
	"strconv"
	"strings"

	"github.com/clesh-vm/clesh/internal/table"
)

// atMarker is the '@' character code that triggers a stack-pop
// substitution while decoding.
const atMarker = 0x40

// Decode reads a C-Lesh string out of tb: the first column of row 0 is
// the letter count n, followed by n character codes read one column at a
// time (spec.md §4.1's wrap policy keeps this within row 0 for strings
// produced by Encode). Each occurrence of the '@' marker calls pop to
// consume one stack value and substitutes its decimal rendering, left to
// right as encountered.
func Decode(tb *table.Table, pop func() (int64, error)) (string, error) {
	tb.Rewind()
	n := tb.ReadColumn()

	var b strings.Builder
	for i := int64(0); i < n; i++ {
		code := tb.ReadColumn()
		if code == atMarker {
			v, err := pop()
			if err != nil {
				return "", err
			}
			b.WriteString(strconv.FormatInt(v, 10))
			continue
		}
		b.WriteRune(rune(code))
	}
	return b.String(), nil
}

// Encode writes s into tb as a C-Lesh string: tb is resized to a single
// row wide enough to hold the length prefix plus one column per rune of
// s (no '@' substitution is performed on encode — a literal '@' in s is
// written as the marker code itself, matching the source format's
// symmetry). A single row is used deliberately: ReadColumn's wrap policy
// (spec.md §4.1) resets the column without advancing the row, so a
// string spanning multiple rows could never be read back by the plain
// column-at-a-time decoder in strcode.Decode.
func Encode(tb *table.Table, s string) {
	runes := []rune(s)
	tb.Resize(len(runes)+1, 1)
	tb.WriteColumn(int64(len(runes)))
	for _, r := range runes {
		tb.WriteColumn(int64(r))
	}
}
