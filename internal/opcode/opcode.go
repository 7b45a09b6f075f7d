/*
 * C-Lesh - Opcode: the closed instruction-set enumerations
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

// Package opcode defines the closed, integer-coded enumerations the
// C-Lesh instruction set is built from: opcodes, addressing-mode tags,
// expression operators, conditional tests, logic ops, and file load
// modes. Every enum here is meant to be dispatched exhaustively — an
// unrecognized value is always a decode fault, never a silent default.
package opcode

// Op is an instruction opcode, read from column 0 of an instruction
// table's row 0 (spec.md §4.4).
type Op int

const (
	Store Op = iota + 1
	Dump
	TestOp
	Jump
	Call
	Return
	Push
	Pop
	Load
	Save
	Input
	Refresh
	Sound
	Timeout
	Output
	String
	Palette
	Draw
	Clear
	Resize
	Column
	Stop
)

var opNames = map[Op]string{
	Store:   "STORE",
	Dump:    "DUMP",
	TestOp:  "TEST",
	Jump:    "JUMP",
	Call:    "CALL",
	Return:  "RETURN",
	Push:    "PUSH",
	Pop:     "POP",
	Load:    "LOAD",
	Save:    "SAVE",
	Input:   "INPUT",
	Refresh: "REFRESH",
	Sound:   "SOUND",
	Timeout: "TIMEOUT",
	Output:  "OUTPUT",
	String:  "STRING",
	Palette: "PALETTE",
	Draw:    "DRAW",
	Clear:   "CLEAR",
	Resize:  "RESIZE",
	Column:  "COLUMN",
	Stop:    "STOP",
}

func (o Op) String() string {
	if n, ok := opNames[o]; ok {
		return n
	}
	return "UNKNOWN_OP"
}

// Valid reports whether o is a recognized opcode.
func (o Op) Valid() bool {
	_, ok := opNames[o]
	return ok
}

// Mode is an operand addressing-mode tag (spec.md §4.2).
type Mode int

const (
	Value Mode = iota + 1
	Immediate
	Pointer
	Stack
	ObjectImmediate
	ObjectPointer
)

var modeNames = map[Mode]string{
	Value:           "VALUE",
	Immediate:       "IMMEDIATE",
	Pointer:         "POINTER",
	Stack:           "STACK",
	ObjectImmediate: "OBJECT_IMMEDIATE",
	ObjectPointer:   "OBJECT_POINTER",
}

func (m Mode) String() string {
	if n, ok := modeNames[m]; ok {
		return n
	}
	return "UNKNOWN_MODE"
}

// Valid reports whether m is a recognized addressing mode.
func (m Mode) Valid() bool {
	_, ok := modeNames[m]
	return ok
}

// HasProperty reports whether this mode reads an extra "prop" row index
// (the two OBJECT_* modes) in addition to an address.
func (m Mode) HasProperty() bool {
	return m == ObjectImmediate || m == ObjectPointer
}

// IsIndirect reports whether this mode dereferences through column 0 of
// the addressed table before resolving further (the two *_POINTER modes).
func (m Mode) IsIndirect() bool {
	return m == Pointer || m == ObjectPointer
}

// Operator is an expression arithmetic/transcendental operator, or None
// to terminate an expression (spec.md §4.2).
type Operator int

const (
	None Operator = iota
	Add
	Subtract
	Multiply
	Divide
	Remainder
	Random
	Cosine
	Sine
)

var operatorNames = map[Operator]string{
	None:      "NONE",
	Add:       "ADD",
	Subtract:  "SUBTRACT",
	Multiply:  "MULTIPLY",
	Divide:    "DIVIDE",
	Remainder: "REMAINDER",
	Random:    "RANDOM",
	Cosine:    "COSINE",
	Sine:      "SINE",
}

func (o Operator) String() string {
	if n, ok := operatorNames[o]; ok {
		return n
	}
	return "UNKNOWN_OPERATOR"
}

// Valid reports whether o is a recognized operator (including None, the
// terminator).
func (o Operator) Valid() bool {
	_, ok := operatorNames[o]
	return ok
}

// Test is a conditional comparison applied to (right - left) against 0
// (spec.md §4.2).
type Test int

const (
	Equals Test = iota + 1
	Not
	Less
	Greater
	LessOrEqual
	GreaterOrEqual
)

var testNames = map[Test]string{
	Equals:         "EQUALS",
	Not:            "NOT",
	Less:           "LESS",
	Greater:        "GREATER",
	LessOrEqual:    "LESS_OR_EQUAL",
	GreaterOrEqual: "GREATER_OR_EQUAL",
}

func (t Test) String() string {
	if n, ok := testNames[t]; ok {
		return n
	}
	return "UNKNOWN_TEST"
}

// Valid reports whether t is a recognized test.
func (t Test) Valid() bool {
	_, ok := testNames[t]
	return ok
}

// Apply evaluates the test against diff = right - left: Less/Greater and
// their *OrEqual variants describe left's relation to right, so a
// positive diff (right bigger than left) means left is LESS.
func (t Test) Apply(diff int64) bool {
	switch t {
	case Equals:
		return diff == 0
	case Not:
		return diff != 0
	case Less:
		return diff > 0
	case Greater:
		return diff < 0
	case LessOrEqual:
		return diff >= 0
	case GreaterOrEqual:
		return diff <= 0
	default:
		return false
	}
}

// LogicOp joins two conditions in a conditional chain. Combination is
// arithmetic, not boolean (spec.md §4.2): AND multiplies, OR adds.
type LogicOp int

const (
	And LogicOp = iota + 1
	Or
)

var logicNames = map[LogicOp]string{
	And: "AND",
	Or:  "OR",
}

func (l LogicOp) String() string {
	if n, ok := logicNames[l]; ok {
		return n
	}
	return "UNKNOWN_LOGIC_OP"
}

// Valid reports whether l is a recognized logic op.
func (l LogicOp) Valid() bool {
	_, ok := logicNames[l]
	return ok
}

// Combine applies l arithmetically: accumulated AND next multiplies,
// accumulated OR next adds.
func (l LogicOp) Combine(accumulated, next int64) int64 {
	if l == Or {
		return accumulated + next
	}
	return accumulated * next
}

// FileMode selects how LOAD interprets its source name (spec.md §4.4,
// §4.7).
type FileMode int

const (
	FileList FileMode = iota + 1
	FileTable
)

var fileModeNames = map[FileMode]string{
	FileList:  "FILE_LIST",
	FileTable: "FILE_TABLE",
}

func (f FileMode) String() string {
	if n, ok := fileModeNames[f]; ok {
		return n
	}
	return "UNKNOWN_FILE_MODE"
}

// Valid reports whether f is a recognized file mode.
func (f FileMode) Valid() bool {
	_, ok := fileModeNames[f]
	return ok
}

// TakeNoJump is the sentinel branch target meaning "do not branch in
// this direction" (spec.md §4.4, glossary).
const TakeNoJump int64 = -1
