/*
 * C-Lesh - Engine: registers, stack, fetch/dispatch/execute
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

// Package engine implements the C-Lesh run loop: registers, the stack
// discipline, instruction fetch/dispatch, and the time-sliced
// Execute loop (spec.md §4.4, §4.5, §5).
package engine

import (
	"context"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/clesh-vm/clesh/internal/clerr"
	"github.com/clesh-vm/clesh/internal/evaluator"
	"github.com/clesh-vm/clesh/internal/host"
	"github.com/clesh-vm/clesh/internal/loader"
	"github.com/clesh-vm/clesh/internal/memory"
	"github.com/clesh-vm/clesh/internal/opcode"
	"github.com/clesh-vm/clesh/internal/strcode"
	"github.com/clesh-vm/clesh/internal/table"
)

// Status is the engine's run state (spec.md §3 Registers).
type Status int

const (
	Idle Status = iota
	Running
	Done
	Error
)

func (s Status) String() string {
	switch s {
	case Idle:
		return "IDLE"
	case Running:
		return "RUNNING"
	case Done:
		return "DONE"
	case Error:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// Registers holds the engine's three named registers (spec.md §3).
type Registers struct {
	CommandPointer int
	StackPointer   int
	Status         Status
}

// Engine drives the fetch/decode/execute cycle over a Memory, delegating
// host effects to Host and diagnostics to Logger.
type Engine struct {
	Mem     *memory.Memory
	Reg     Registers
	Host    host.Host
	Logger  *slog.Logger
	Picture *host.Picture

	initialSP int
}

// New builds an Engine with the given initial command and stack
// pointers (spec.md §4.7 config keys "program" and "stack").
func New(mem *memory.Memory, program, stackPointer int, h host.Host, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{
		Mem:       mem,
		Reg:       Registers{CommandPointer: program, StackPointer: stackPointer, Status: Idle},
		Host:      h,
		Logger:    logger,
		Picture:   host.NewPicture(320, 200),
		initialSP: stackPointer,
	}
}

// Push writes v to column 0 of the table at StackPointer and increments
// it. Overflow (StackPointer >= memory count) is fatal (spec.md §4.5).
func (e *Engine) Push(v int64) error {
	if e.Reg.StackPointer >= e.Mem.Count() {
		e.Reg.Status = Error
		return &clerr.AddressFault{Address: e.Reg.StackPointer, Reason: "stack overflow"}
	}
	tbl, err := e.Mem.At(e.Reg.StackPointer)
	if err != nil {
		e.Reg.Status = Error
		return err
	}
	tbl.SetAt(0, v)
	e.Reg.StackPointer++
	return nil
}

// Pop decrements StackPointer and reads column 0 of the table there.
// Underflow (StackPointer <= initial_sp) is fatal (spec.md §4.5).
func (e *Engine) Pop() (int64, error) {
	if e.Reg.StackPointer <= e.initialSP {
		e.Reg.Status = Error
		return 0, &clerr.AddressFault{Address: e.Reg.StackPointer, Reason: "stack underflow"}
	}
	e.Reg.StackPointer--
	tbl, err := e.Mem.At(e.Reg.StackPointer)
	if err != nil {
		e.Reg.Status = Error
		return 0, err
	}
	return tbl.At(0), nil
}

// popForString adapts Pop to strcode.Decode's pop signature.
func (e *Engine) popForString() (int64, error) {
	return e.Pop()
}

// Step fetches and executes exactly one instruction: the command
// pointer always advances by exactly 1 before dispatch (spec.md §8
// invariant 1), then the opcode's effect runs.
func (e *Engine) Step(ctx context.Context) error {
	instr, err := e.Mem.At(e.Reg.CommandPointer)
	if err != nil {
		e.Reg.Status = Error
		return err
	}
	instr.Rewind()
	opRaw := instr.ReadColumn()
	op := opcode.Op(opRaw)
	if !op.Valid() {
		e.Reg.Status = Error
		return &clerr.DecodeError{What: "opcode", Value: int(opRaw)}
	}
	e.Reg.CommandPointer++
	instr.MoveToNextRow()

	ev := evaluator.New(instr, e.Mem, e.Reg.StackPointer, e.Host, e.Logger)
	if err := e.dispatch(ctx, op, instr, ev); err != nil {
		e.Reg.Status = Error
		return err
	}
	return nil
}

func (e *Engine) dispatch(ctx context.Context, op opcode.Op, instr *table.Table, ev *evaluator.Evaluator) error {
	switch op {
	case opcode.Store:
		dest, err := ev.GetTableAtAddress()
		if err != nil {
			return err
		}
		value, err := ev.ReadExpression()
		if err != nil {
			return err
		}
		dest.WriteColumn(value)

	case opcode.Dump:
		e.dump()

	case opcode.TestOp:
		cond, err := ev.ReadConditional()
		if err != nil {
			return err
		}
		pass, err := ev.ReadExpression()
		if err != nil {
			return err
		}
		fail, err := ev.ReadExpression()
		if err != nil {
			return err
		}
		if pass != opcode.TakeNoJump && cond != 0 {
			e.Reg.CommandPointer = int(pass)
		}
		if fail != opcode.TakeNoJump && cond == 0 {
			e.Reg.CommandPointer = int(fail)
		}

	case opcode.Jump:
		target, err := ev.ReadExpression()
		if err != nil {
			return err
		}
		e.Reg.CommandPointer = int(target)

	case opcode.Call:
		target, err := ev.ReadExpression()
		if err != nil {
			return err
		}
		if err := e.Push(int64(e.Reg.CommandPointer)); err != nil {
			return err
		}
		e.Reg.CommandPointer = int(target)

	case opcode.Return:
		v, err := e.Pop()
		if err != nil {
			return err
		}
		e.Reg.CommandPointer = int(v)

	case opcode.Push:
		v, err := ev.ReadExpression()
		if err != nil {
			return err
		}
		return e.Push(v)

	case opcode.Pop:
		dest, err := ev.GetTableAtAddress()
		if err != nil {
			return err
		}
		v, err := e.Pop()
		if err != nil {
			return err
		}
		dest.WriteColumn(v)

	case opcode.Load:
		return e.execLoad(instr, ev)

	case opcode.Save:
		return e.execSave(ev)

	case opcode.Input:
		dest, err := ev.GetTableAtAddress()
		if err != nil {
			return err
		}
		dest.WriteColumn(e.Host.ReadSignal().Code)

	case opcode.Refresh:
		e.Host.UpdateDisplay(e.Picture)

	case opcode.Sound:
		name, err := e.readString(ev)
		if err != nil {
			return err
		}
		if err := e.Host.PlaySound(name); err != nil {
			return &clerr.HostError{Op: "play_sound", Err: err}
		}

	case opcode.Timeout:
		ms, err := ev.ReadExpression()
		if err != nil {
			return err
		}
		e.Host.Sleep(ctx, ms)

	case opcode.Output:
		text, err := e.readString(ev)
		if err != nil {
			return err
		}
		x, err := ev.ReadExpression()
		if err != nil {
			return err
		}
		y, err := ev.ReadExpression()
		if err != nil {
			return err
		}
		r, err := ev.ReadExpression()
		if err != nil {
			return err
		}
		g, err := ev.ReadExpression()
		if err != nil {
			return err
		}
		b, err := ev.ReadExpression()
		if err != nil {
			return err
		}
		e.Host.OutputText(text, x, y, r, g, b)

	case opcode.String:
		a, err := e.readString(ev)
		if err != nil {
			return err
		}
		b, err := e.readString(ev)
		if err != nil {
			return err
		}
		dest, err := ev.GetTableAtAddress()
		if err != nil {
			return err
		}
		if a == b {
			dest.WriteColumn(1)
		} else {
			dest.WriteColumn(0)
		}

	case opcode.Palette:
		name, err := e.readString(ev)
		if err != nil {
			return err
		}
		if err := e.Host.LoadPalette(name); err != nil {
			return &clerr.HostError{Op: "load_palette", Err: err}
		}

	case opcode.Draw:
		return e.execDraw(ev)

	case opcode.Clear:
		r, err := ev.ReadExpression()
		if err != nil {
			return err
		}
		g, err := ev.ReadExpression()
		if err != nil {
			return err
		}
		b, err := ev.ReadExpression()
		if err != nil {
			return err
		}
		e.clearPicture(byte(r), byte(g), byte(b))

	case opcode.Resize:
		tbl, err := ev.ReadTableRef()
		if err != nil {
			return err
		}
		width, err := ev.ReadExpression()
		if err != nil {
			return err
		}
		height, err := ev.ReadExpression()
		if err != nil {
			return err
		}
		tbl.Resize(int(width), int(height))

	case opcode.Column:
		src, err := ev.ReadTableRef()
		if err != nil {
			return err
		}
		index, err := ev.ReadExpression()
		if err != nil {
			return err
		}
		dest, err := ev.GetTableAtAddress()
		if err != nil {
			return err
		}
		dest.WriteColumn(src.AtColumn(src.Row(), int(index)))

	case opcode.Stop:
		e.Reg.Status = Done

	default:
		return &clerr.DecodeError{What: "opcode", Value: int(op)}
	}
	return nil
}

func (e *Engine) readString(ev *evaluator.Evaluator) (string, error) {
	tbl, err := ev.ReadTableRef()
	if err != nil {
		return "", err
	}
	return strcode.Decode(tbl, e.popForString)
}

func (e *Engine) execLoad(instr *table.Table, ev *evaluator.Evaluator) error {
	name, err := e.readString(ev)
	if err != nil {
		return err
	}
	mode := opcode.FileMode(instr.ReadColumn())
	addr := instr.ReadColumn()
	instr.MoveToNextRow()
	switch mode {
	case opcode.FileList:
		return loader.LoadFileList([]string{name}, e.Mem, int(addr))
	case opcode.FileTable:
		return loader.LoadTableList(name, e.Mem, int(addr))
	default:
		return &clerr.DecodeError{What: "file mode", Value: int(mode)}
	}
}

func (e *Engine) execSave(ev *evaluator.Evaluator) error {
	obj, err := ev.ReadTableRef()
	if err != nil {
		return err
	}
	name, err := e.readString(ev)
	if err != nil {
		return err
	}
	return loader.SaveTable(name, obj)
}

// execDraw blits a picture-table into the engine's picture buffer.
//
// The on-disk/in-memory pixel encoding is outside spec.md's scope (§1:
// the host display is an external collaborator); this implementation
// treats each source cell as a packed 0xRRGGBB integer, one cell per
// destination pixel, row-major from (x, y), clipped to the buffer
// bounds. mode 0 copies every pixel; mode 1 ("transparent") skips
// source pixels equal to 0.
func (e *Engine) execDraw(ev *evaluator.Evaluator) error {
	pic, err := ev.ReadTableRef()
	if err != nil {
		return err
	}
	x, err := ev.ReadExpression()
	if err != nil {
		return err
	}
	y, err := ev.ReadExpression()
	if err != nil {
		return err
	}
	mode, err := ev.ReadExpression()
	if err != nil {
		return err
	}
	for r := 0; r < pic.Height(); r++ {
		for c := 0; c < pic.Width(); c++ {
			px, py := int(x)+c, int(y)+r
			if px < 0 || py < 0 || px >= e.Picture.Width || py >= e.Picture.Height {
				continue
			}
			packed := pic.AtColumn(r, c)
			if mode == 1 && packed == 0 {
				continue
			}
			idx := py*e.Picture.Width + px
			e.Picture.R[idx] = byte(packed >> 16)
			e.Picture.G[idx] = byte(packed >> 8)
			e.Picture.B[idx] = byte(packed)
		}
	}
	return nil
}

func (e *Engine) clearPicture(r, g, b byte) {
	for i := range e.Picture.R {
		e.Picture.R[i] = r
		e.Picture.G[i] = g
		e.Picture.B[i] = b
	}
}

// dump emits registers and status, the contents of every table that
// holds a non-zero cell, and the picture buffer's dimensions to the
// diagnostic sink (spec.md §4.4 DUMP; SPEC_FULL.md §4 supplemental
// diagnostics note). All-zero tables are not listed, and the picture
// buffer's pixel contents are not emitted.
func (e *Engine) dump() {
	e.Logger.Debug("DUMP registers",
		"command_pointer", e.Reg.CommandPointer,
		"stack_pointer", e.Reg.StackPointer,
		"status", e.Reg.Status.String(),
	)
	for addr := 0; addr < e.Mem.Count(); addr++ {
		tbl := e.Mem.MustAt(addr)
		empty := true
		for r := 0; r < tbl.Height() && empty; r++ {
			for c := 0; c < tbl.Width(); c++ {
				if tbl.AtColumn(r, c) != 0 {
					empty = false
					break
				}
			}
		}
		if empty {
			continue
		}
		rows := make([]string, tbl.Height())
		for r := 0; r < tbl.Height(); r++ {
			cells := make([]string, tbl.Width())
			for c := 0; c < tbl.Width(); c++ {
				cells[c] = strconv.FormatInt(tbl.AtColumn(r, c), 10)
			}
			rows[r] = strings.Join(cells, " ")
		}
		e.Logger.Debug("DUMP table",
			"address", addr,
			"width", tbl.Width(),
			"height", tbl.Height(),
			"rows", rows,
		)
	}
	e.Logger.Debug("DUMP picture", "width", e.Picture.Width, "height", e.Picture.Height)
}

// Execute runs instructions for up to budget (a time slice), checking
// wall-clock elapsed time before each instruction and returning when the
// budget is exhausted or status leaves RUNNING (spec.md §5). No
// instruction suspends internally except TIMEOUT, which delegates to the
// host's Sleep; ctx cancels that delay cooperatively.
func (e *Engine) Execute(ctx context.Context, budget time.Duration) error {
	if e.Reg.Status == Idle {
		e.Reg.Status = Running
	}
	deadline := time.Now().Add(budget)
	for e.Reg.Status == Running {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if time.Now().After(deadline) {
			return nil
		}
		if err := e.Step(ctx); err != nil {
			return err
		}
	}
	return nil
}
