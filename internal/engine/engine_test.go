package engine

import (
	"context"
	"testing"
	"time"

	"github.com/clesh-vm/clesh/internal/host"
	"github.com/clesh-vm/clesh/internal/memory"
	"github.com/clesh-vm/clesh/internal/opcode"
	"github.com/clesh-vm/clesh/internal/table"
)

// setInstr overwrites the table at addr with one built from rows, each
// row a sequence of raw column values as the evaluator would read them.
func setInstr(mem *memory.Memory, addr int, rows [][]int64) {
	width := 1
	for _, r := range rows {
		if len(r) > width {
			width = len(r)
		}
	}
	tbl := table.New(width, len(rows))
	for r, row := range rows {
		tbl.MoveToRow(r)
		for _, v := range row {
			tbl.WriteColumn(v)
		}
	}
	dest, err := mem.At(addr)
	if err != nil {
		panic(err)
	}
	*dest = *tbl
}

func newTestEngine(mem *memory.Memory, program, stackPointer int) *Engine {
	return New(mem, program, stackPointer, host.NewNullHost(nil, 1), nil)
}

// STORE an immediate literal 42 into memory[10] col 0, then DUMP —
// memory[10][0][0] equals 42 (spec.md §8 scenario 1).
func TestStoreThenDump(t *testing.T) {
	mem := memory.New(12, 4, 4)
	setInstr(mem, 0, [][]int64{
		{int64(opcode.Store)},
		{int64(opcode.Immediate), 10},
		{int64(opcode.Value), 42, int64(opcode.None)},
	})
	setInstr(mem, 1, [][]int64{{int64(opcode.Dump)}})

	e := newTestEngine(mem, 0, 0)
	ctx := context.Background()
	if err := e.Step(ctx); err != nil {
		t.Fatalf("STORE step: %v", err)
	}
	if err := e.Step(ctx); err != nil {
		t.Fatalf("DUMP step: %v", err)
	}
	if got := mem.MustAt(10).At(0); got != 42 {
		t.Errorf("memory[10][0] got %d want 42", got)
	}
}

// PUSH 7, PUSH 5, POP immediate 20, POP immediate 21, STOP — expect
// memory[20][0]==5, memory[21][0]==7, stack_pointer restored (spec.md §8
// scenario 2).
func TestPushPopRestoresStackPointer(t *testing.T) {
	mem := memory.New(30, 4, 4)
	setInstr(mem, 0, [][]int64{{int64(opcode.Push)}, {int64(opcode.Value), 7, int64(opcode.None)}})
	setInstr(mem, 1, [][]int64{{int64(opcode.Push)}, {int64(opcode.Value), 5, int64(opcode.None)}})
	setInstr(mem, 2, [][]int64{{int64(opcode.Pop)}, {int64(opcode.Immediate), 20}})
	setInstr(mem, 3, [][]int64{{int64(opcode.Pop)}, {int64(opcode.Immediate), 21}})
	setInstr(mem, 4, [][]int64{{int64(opcode.Stop)}})

	e := newTestEngine(mem, 0, 15)
	if err := e.Execute(context.Background(), time.Second); err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if e.Reg.Status != Done {
		t.Fatalf("status got %v want Done", e.Reg.Status)
	}
	if got := mem.MustAt(20).At(0); got != 5 {
		t.Errorf("memory[20][0] got %d want 5", got)
	}
	if got := mem.MustAt(21).At(0); got != 7 {
		t.Errorf("memory[21][0] got %d want 7", got)
	}
	if e.Reg.StackPointer != 15 {
		t.Errorf("stack_pointer got %d want 15 (restored)", e.Reg.StackPointer)
	}
}

// TEST with condition `3 LESS 5`, pass=100, fail=TAKE_NO_JUMP — after
// execution command_pointer == 100 (spec.md §8 scenario 3).
func TestTestBranchesOnPass(t *testing.T) {
	mem := memory.New(110, 4, 4)
	setInstr(mem, 0, [][]int64{
		{int64(opcode.TestOp)},
		{int64(opcode.Value), 3, int64(opcode.None)},
		{int64(opcode.Less)},
		{int64(opcode.Value), 5, int64(opcode.None)},
		{0}, // invalid logic-op tag: ends the conditional chain
		{int64(opcode.Value), 100, int64(opcode.None)},               // pass
		{int64(opcode.Value), opcode.TakeNoJump, int64(opcode.None)}, // fail
	})

	e := newTestEngine(mem, 0, 0)
	if err := e.Step(context.Background()); err != nil {
		t.Fatalf("TEST step: %v", err)
	}
	if e.Reg.CommandPointer != 100 {
		t.Errorf("command_pointer got %d want 100", e.Reg.CommandPointer)
	}
}

// CALL to address 50 from command_pointer 10; subroutine at 50 is
// RETURN — on resume command_pointer == 11, stack_pointer unchanged from
// before the CALL (spec.md §8 scenario 4).
func TestCallReturnRoundTrip(t *testing.T) {
	mem := memory.New(60, 4, 4)
	setInstr(mem, 10, [][]int64{
		{int64(opcode.Call)},
		{int64(opcode.Value), 50, int64(opcode.None)},
	})
	setInstr(mem, 50, [][]int64{{int64(opcode.Return)}})

	e := newTestEngine(mem, 10, 20)
	if err := e.Step(context.Background()); err != nil {
		t.Fatalf("CALL step: %v", err)
	}
	if e.Reg.CommandPointer != 50 {
		t.Fatalf("after CALL, command_pointer got %d want 50", e.Reg.CommandPointer)
	}
	if err := e.Step(context.Background()); err != nil {
		t.Fatalf("RETURN step: %v", err)
	}
	if e.Reg.CommandPointer != 11 {
		t.Errorf("after RETURN, command_pointer got %d want 11", e.Reg.CommandPointer)
	}
	if e.Reg.StackPointer != 20 {
		t.Errorf("stack_pointer got %d want 20 (unchanged from before CALL)", e.Reg.StackPointer)
	}
}

// Every memory access is bounds-checked (spec.md §8 invariant 5): an
// out-of-range STORE destination is a fault, not a silent no-op.
func TestStoreOutOfRangeIsAddressFault(t *testing.T) {
	mem := memory.New(2, 4, 4)
	setInstr(mem, 0, [][]int64{
		{int64(opcode.Store)},
		{int64(opcode.Immediate), 99},
		{int64(opcode.Value), 1, int64(opcode.None)},
	})
	e := newTestEngine(mem, 0, 0)
	if err := e.Step(context.Background()); err == nil {
		t.Errorf("expected AddressFault for out-of-range STORE destination")
	}
	if e.Reg.Status != Error {
		t.Errorf("status got %v want Error", e.Reg.Status)
	}
}

// Stack_Push(v) followed by Stack_Pop() yields v and leaves stack_pointer
// unchanged (spec.md §8 invariant 3).
func TestPushPopRoundTrip(t *testing.T) {
	mem := memory.New(20, 4, 4)
	e := newTestEngine(mem, 0, 10)
	if err := e.Push(123); err != nil {
		t.Fatalf("Push: %v", err)
	}
	got, err := e.Pop()
	if err != nil {
		t.Fatalf("Pop: %v", err)
	}
	if got != 123 {
		t.Errorf("got %d want 123", got)
	}
	if e.Reg.StackPointer != 10 {
		t.Errorf("stack_pointer got %d want 10", e.Reg.StackPointer)
	}
}

// Popping below the initial stack pointer is a fatal underflow, not a
// silent wraparound.
func TestPopUnderflowIsAddressFault(t *testing.T) {
	mem := memory.New(20, 4, 4)
	e := newTestEngine(mem, 0, 10)
	if _, err := e.Pop(); err == nil {
		t.Errorf("expected AddressFault on stack underflow")
	}
}

// Pushing past the end of memory is a fatal overflow.
func TestPushOverflowIsAddressFault(t *testing.T) {
	mem := memory.New(3, 4, 4)
	e := newTestEngine(mem, 0, 2)
	if err := e.Push(1); err != nil {
		t.Fatalf("first push: %v", err)
	}
	if err := e.Push(2); err == nil {
		t.Errorf("expected AddressFault on stack overflow")
	}
}

// An unrecognized opcode is a decode fault, never a silent default
// (spec.md §9 "tagged dispatch").
func TestUnknownOpcodeIsDecodeError(t *testing.T) {
	mem := memory.New(2, 4, 4)
	setInstr(mem, 0, [][]int64{{999}})
	e := newTestEngine(mem, 0, 0)
	if err := e.Step(context.Background()); err == nil {
		t.Errorf("expected DecodeError for unknown opcode")
	}
	if e.Reg.Status != Error {
		t.Errorf("status got %v want Error", e.Reg.Status)
	}
}

// Execute stops yielding once status is no longer RUNNING, even with a
// generous budget left (spec.md §5).
func TestExecuteStopsOnStop(t *testing.T) {
	mem := memory.New(4, 4, 4)
	setInstr(mem, 0, [][]int64{{int64(opcode.Stop)}})
	e := newTestEngine(mem, 0, 0)
	if err := e.Execute(context.Background(), time.Second); err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if e.Reg.Status != Done {
		t.Errorf("status got %v want Done", e.Reg.Status)
	}
	if e.Reg.CommandPointer != 1 {
		t.Errorf("command_pointer got %d want 1", e.Reg.CommandPointer)
	}
}

// A budget that expires immediately yields control before any
// instruction runs.
func TestExecuteRespectsBudget(t *testing.T) {
	mem := memory.New(4, 4, 4)
	setInstr(mem, 0, [][]int64{{int64(opcode.Stop)}})
	e := newTestEngine(mem, 0, 0)
	if err := e.Execute(context.Background(), -time.Second); err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if e.Reg.Status != Running {
		t.Errorf("status got %v want Running (budget expired before any instruction)", e.Reg.Status)
	}
}
