/*
 * C-Lesh - Clerr: the fatal error kinds the engine can raise
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

// Package clerr defines the fatal error kinds the C-Lesh engine can raise.
//
// Every kind here maps to one row of spec.md §7: ConfigError, LoadError,
// AddressFault, DecodeError, HostError. Each is a small struct carrying the
// offending value so callers can build a useful diagnostic; none of them
// are recoverable once raised, matching the engine's fail-stop contract.
package clerr

import "fmt"

// ConfigError reports a malformed or unknown configuration key.
type ConfigError struct {
	Key    string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("config error: %s: %s", e.Key, e.Reason)
}

// LoadError reports a malformed table-list/file-list or missing file.
type LoadError struct {
	Path   string
	Reason string
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("load error: %s: %s", e.Path, e.Reason)
}

// AddressFault reports an out-of-range memory access or stack under/overflow.
type AddressFault struct {
	Address int
	Reason  string
}

func (e *AddressFault) Error() string {
	return fmt.Sprintf("address fault: %s (address %d)", e.Reason, e.Address)
}

// DecodeError reports an unknown opcode, addressing tag, operator, logic
// op, test, or file mode encountered while decoding an instruction.
type DecodeError struct {
	What  string
	Value int
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode error: unknown %s: %d", e.What, e.Value)
}

// HostError wraps an I/O failure surfaced by the host contract.
type HostError struct {
	Op  string
	Err error
}

func (e *HostError) Error() string {
	return fmt.Sprintf("host error: %s: %v", e.Op, e.Err)
}

func (e *HostError) Unwrap() error {
	return e.Err
}
