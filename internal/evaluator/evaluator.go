/*
 * C-Lesh - Evaluator: operand, expression, and conditional readers
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

// Package evaluator implements the three layered readers the C-Lesh
// interpreter uses to walk an instruction's cursor: Operand, Expression,
// and Conditional (spec.md §4.2), plus the write-address resolution rule
// (spec.md §4.3).
package evaluator

import (
	"errors"
	"log/slog"
	"math"

	"github.com/clesh-vm/clesh/internal/clerr"
	"github.com/clesh-vm/clesh/internal/host"
	"github.com/clesh-vm/clesh/internal/memory"
	"github.com/clesh-vm/clesh/internal/opcode"
	"github.com/clesh-vm/clesh/internal/table"
)

var errNoHost = errors.New("no host configured")

// trigConstant is the source VM's rounded-pi factor used by SINE/COSINE.
// This is a deliberate source artifact (spec.md §4.2, §9): 3.15, not
// math.Pi, preserved for bit-exact compatibility.
const trigConstant = 3.15

// Evaluator reads operands, expressions, and conditionals from a single
// instruction table's cursor, resolving addresses against mem and
// delegating RANDOM to h (COSINE/SINE are computed locally).
type Evaluator struct {
	Instr        *table.Table
	Mem          *memory.Memory
	StackPointer int
	Host         host.Host
	Logger       *slog.Logger

	warnedValueStore bool
}

// New builds an Evaluator over instr, resolving addresses against mem
// and the given stack pointer snapshot.
func New(instr *table.Table, mem *memory.Memory, stackPointer int, h host.Host, logger *slog.Logger) *Evaluator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Evaluator{Instr: instr, Mem: mem, StackPointer: stackPointer, Host: h, Logger: logger}
}

// ReadOperand reads a single addressing-mode tag followed by its
// mode-specific fields from the current row, yielding an integer
// (spec.md §4.2).
func (e *Evaluator) ReadOperand() (int64, error) {
	tag := opcode.Mode(e.Instr.ReadColumn())
	switch tag {
	case opcode.Value:
		return e.Instr.ReadColumn(), nil

	case opcode.Immediate:
		addr := e.Instr.ReadColumn()
		tbl, err := e.Mem.At(int(addr))
		if err != nil {
			return 0, err
		}
		tbl.Rewind()
		return tbl.ReadColumn(), nil

	case opcode.Pointer:
		addr := e.Instr.ReadColumn()
		tbl, err := e.Mem.At(int(addr))
		if err != nil {
			return 0, err
		}
		tbl.Rewind()
		inner := tbl.ReadColumn()
		tbl2, err := e.Mem.At(int(inner))
		if err != nil {
			return 0, err
		}
		tbl2.Rewind()
		return tbl2.ReadColumn(), nil

	case opcode.Stack:
		offset := e.Instr.ReadColumn()
		idx := e.StackPointer - int(offset)
		tbl, err := e.Mem.At(idx)
		if err != nil {
			return 0, err
		}
		tbl.Rewind()
		return tbl.ReadColumn(), nil

	case opcode.ObjectImmediate:
		addr := e.Instr.ReadColumn()
		prop := e.Instr.ReadColumn()
		tbl, err := e.Mem.At(int(addr))
		if err != nil {
			return 0, err
		}
		tbl.MoveToRow(int(prop))
		return tbl.ReadColumn(), nil

	case opcode.ObjectPointer:
		addr := e.Instr.ReadColumn()
		prop := e.Instr.ReadColumn()
		tbl, err := e.Mem.At(int(addr))
		if err != nil {
			return 0, err
		}
		tbl.Rewind()
		inner := tbl.ReadColumn()
		tbl2, err := e.Mem.At(int(inner))
		if err != nil {
			return 0, err
		}
		tbl2.MoveToRow(int(prop))
		return tbl2.ReadColumn(), nil

	default:
		return 0, &clerr.DecodeError{What: "addressing tag", Value: int(tag)}
	}
}

// ReadExpression reads an infix left-to-right chain of operands joined
// by arithmetic operators, terminated by NONE, with no operator
// precedence (spec.md §4.2, §8 scenario 5).
func (e *Evaluator) ReadExpression() (int64, error) {
	acc, err := e.ReadOperand()
	if err != nil {
		return 0, err
	}
	for {
		op := opcode.Operator(e.Instr.ReadColumn())
		if op == opcode.None {
			break
		}
		if !op.Valid() {
			return 0, &clerr.DecodeError{What: "operator", Value: int(op)}
		}
		rhs, err := e.ReadOperand()
		if err != nil {
			return 0, err
		}
		acc, err = e.apply(op, acc, rhs)
		if err != nil {
			return 0, err
		}
	}
	e.Instr.MoveToNextRow()
	return acc, nil
}

func (e *Evaluator) apply(op opcode.Operator, acc, rhs int64) (int64, error) {
	switch op {
	case opcode.Add:
		return acc + rhs, nil
	case opcode.Subtract:
		return acc - rhs, nil
	case opcode.Multiply:
		return acc * rhs, nil
	case opcode.Divide:
		if rhs == 0 {
			return acc, nil
		}
		return acc / rhs, nil
	case opcode.Remainder:
		if rhs == 0 {
			return 0, nil
		}
		return acc % rhs, nil
	case opcode.Random:
		if e.Host == nil {
			return 0, &clerr.HostError{Op: "random", Err: errNoHost}
		}
		return e.Host.Random(acc, rhs), nil
	case opcode.Cosine:
		return int64(math.Round(float64(acc) * math.Cos(float64(rhs)*trigConstant/180))), nil
	case opcode.Sine:
		return int64(math.Round(float64(acc) * math.Sin(float64(rhs)*trigConstant/180))), nil
	default:
		return 0, &clerr.DecodeError{What: "operator", Value: int(op)}
	}
}

// ReadConditional reads a chain of conditions joined by logic operators.
// Combination is arithmetic (AND multiplies, OR adds), not boolean
// (spec.md §4.2, §8 scenario 6); callers interpret any non-zero result
// as true.
//
// Open question (not specified by spec.md): the chain's terminator. This
// implementation mirrors the expression reader's NONE-terminated
// convention — any logic-op column that doesn't decode to a valid
// LogicOp ends the chain, consuming that row.
func (e *Evaluator) ReadConditional() (int64, error) {
	acc, err := e.readCondition()
	if err != nil {
		return 0, err
	}
	for {
		logicTag := opcode.LogicOp(e.Instr.ReadColumn())
		if !logicTag.Valid() {
			e.Instr.MoveToNextRow()
			break
		}
		e.Instr.MoveToNextRow()
		next, err := e.readCondition()
		if err != nil {
			return 0, err
		}
		acc = logicTag.Combine(acc, next)
	}
	return acc, nil
}

// readCondition reads one expression/test/expression triple and returns
// 1 if the test holds, else 0.
func (e *Evaluator) readCondition() (int64, error) {
	left, err := e.ReadExpression()
	if err != nil {
		return 0, err
	}
	test := opcode.Test(e.Instr.ReadColumn())
	if !test.Valid() {
		return 0, &clerr.DecodeError{What: "test", Value: int(test)}
	}
	e.Instr.MoveToNextRow()
	right, err := e.ReadExpression()
	if err != nil {
		return 0, err
	}
	if test.Apply(right - left) {
		return 1, nil
	}
	return 0, nil
}

// GetTableAtAddress reads a mode and an address from one metadata row
// (advancing to the next row), then returns a writable table reference
// positioned at column 0 of the appropriate row (spec.md §4.3).
//
// VALUE is the spec's flagged open question (spec.md §9): it returns the
// instruction table itself repositioned to row 0, column 0 — "the
// instruction's own row" — so a subsequent write lands on top of the
// opcode. This is preserved as-is for compatibility; each Evaluator logs
// a warning the first time it resolves a VALUE destination. The engine
// builds a new Evaluator for every instruction, so the warning repeats
// for every instruction that uses a VALUE destination.
func (e *Evaluator) GetTableAtAddress() (*table.Table, error) {
	tag := opcode.Mode(e.Instr.ReadColumn())
	addr := e.Instr.ReadColumn()
	var prop int64
	if tag.HasProperty() {
		prop = e.Instr.ReadColumn()
	}
	e.Instr.MoveToNextRow()

	switch tag {
	case opcode.Value:
		if !e.warnedValueStore {
			e.warnedValueStore = true
			e.Logger.Warn("STORE destination mode is VALUE: write will land on the instruction's own opcode row (spec.md §9 open question)")
		}
		e.Instr.MoveToRow(0)
		return e.Instr, nil

	case opcode.Immediate:
		tbl, err := e.Mem.At(int(addr))
		if err != nil {
			return nil, err
		}
		tbl.MoveToRow(0)
		return tbl, nil

	case opcode.Pointer:
		tbl, err := e.Mem.At(int(addr))
		if err != nil {
			return nil, err
		}
		tbl.Rewind()
		inner := tbl.ReadColumn()
		tbl2, err := e.Mem.At(int(inner))
		if err != nil {
			return nil, err
		}
		tbl2.MoveToRow(0)
		return tbl2, nil

	case opcode.Stack:
		idx := e.StackPointer - int(addr)
		tbl, err := e.Mem.At(idx)
		if err != nil {
			return nil, err
		}
		tbl.MoveToRow(0)
		return tbl, nil

	case opcode.ObjectImmediate:
		tbl, err := e.Mem.At(int(addr))
		if err != nil {
			return nil, err
		}
		tbl.MoveToRow(int(prop))
		return tbl, nil

	case opcode.ObjectPointer:
		tbl, err := e.Mem.At(int(addr))
		if err != nil {
			return nil, err
		}
		tbl.Rewind()
		inner := tbl.ReadColumn()
		tbl2, err := e.Mem.At(int(inner))
		if err != nil {
			return nil, err
		}
		tbl2.MoveToRow(int(prop))
		return tbl2, nil

	default:
		return nil, &clerr.DecodeError{What: "addressing tag", Value: int(tag)}
	}
}

// ReadTableRef reads a mode/address/property operand the same way
// GetTableAtAddress does, but for opcodes that need a table *reference*
// rather than a write destination (SOUND/PALETTE/OUTPUT/STRING/SAVE's
// name strings, LOAD's source string, DRAW's picture table, COLUMN's
// source table, RESIZE's target). VALUE mode simply refers to the
// instruction's own table — there is no separate self-reference quirk
// to warn about here, since nothing is written through it.
func (e *Evaluator) ReadTableRef() (*table.Table, error) {
	tag := opcode.Mode(e.Instr.ReadColumn())
	addr := e.Instr.ReadColumn()
	var prop int64
	if tag.HasProperty() {
		prop = e.Instr.ReadColumn()
	}
	e.Instr.MoveToNextRow()

	switch tag {
	case opcode.Value:
		e.Instr.MoveToRow(0)
		return e.Instr, nil

	case opcode.Immediate:
		tbl, err := e.Mem.At(int(addr))
		if err != nil {
			return nil, err
		}
		tbl.MoveToRow(0)
		return tbl, nil

	case opcode.Pointer:
		tbl, err := e.Mem.At(int(addr))
		if err != nil {
			return nil, err
		}
		tbl.Rewind()
		inner := tbl.ReadColumn()
		tbl2, err := e.Mem.At(int(inner))
		if err != nil {
			return nil, err
		}
		tbl2.MoveToRow(0)
		return tbl2, nil

	case opcode.Stack:
		idx := e.StackPointer - int(addr)
		tbl, err := e.Mem.At(idx)
		if err != nil {
			return nil, err
		}
		tbl.MoveToRow(0)
		return tbl, nil

	case opcode.ObjectImmediate:
		tbl, err := e.Mem.At(int(addr))
		if err != nil {
			return nil, err
		}
		tbl.MoveToRow(int(prop))
		return tbl, nil

	case opcode.ObjectPointer:
		tbl, err := e.Mem.At(int(addr))
		if err != nil {
			return nil, err
		}
		tbl.Rewind()
		inner := tbl.ReadColumn()
		tbl2, err := e.Mem.At(int(inner))
		if err != nil {
			return nil, err
		}
		tbl2.MoveToRow(int(prop))
		return tbl2, nil

	default:
		return nil, &clerr.DecodeError{What: "addressing tag", Value: int(tag)}
	}
}
