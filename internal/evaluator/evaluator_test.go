package evaluator

import (
	"testing"

	"github.com/clesh-vm/clesh/internal/host"
	"github.com/clesh-vm/clesh/internal/memory"
	"github.com/clesh-vm/clesh/internal/opcode"
	"github.com/clesh-vm/clesh/internal/table"
)

func newEval(instr *table.Table, mem *memory.Memory) *Evaluator {
	return New(instr, mem, 400, host.NewNullHost(nil, 1), nil)
}

// Expression `value 3 ADD value 4 MULTIPLY value 2 NONE` evaluates to 14,
// strict left-to-right with no precedence (spec.md §8 scenario 5).
func TestReadExpressionLeftToRight(t *testing.T) {
	mem := memory.New(4, 4, 4)
	row := []int64{
		int64(opcode.Value), 3, int64(opcode.Add),
		int64(opcode.Value), 4, int64(opcode.Multiply),
		int64(opcode.Value), 2, int64(opcode.None),
	}
	instr := table.New(len(row), 2)
	instr.MoveToRow(1)
	for _, v := range row {
		instr.WriteColumn(v)
	}
	instr.MoveToRow(1)

	e := newEval(instr, mem)
	got, err := e.ReadExpression()
	if err != nil {
		t.Fatalf("ReadExpression: %v", err)
	}
	if got != 14 {
		t.Errorf("got %d want 14", got)
	}
}

func TestDivideByZeroIsNoop(t *testing.T) {
	mem := memory.New(1, 4, 4)
	instr := table.New(8, 2)
	instr.MoveToRow(1)
	for _, v := range []int64{int64(opcode.Value), 9, int64(opcode.Divide), int64(opcode.Value), 0, int64(opcode.None)} {
		instr.WriteColumn(v)
	}
	instr.MoveToRow(1)
	e := newEval(instr, mem)
	got, err := e.ReadExpression()
	if err != nil {
		t.Fatalf("ReadExpression: %v", err)
	}
	if got != 9 {
		t.Errorf("divide by zero should no-op accumulator: got %d want 9", got)
	}
}

func TestRemainderByZeroIsZero(t *testing.T) {
	mem := memory.New(1, 4, 4)
	instr := table.New(8, 2)
	instr.MoveToRow(1)
	for _, v := range []int64{int64(opcode.Value), 9, int64(opcode.Remainder), int64(opcode.Value), 0, int64(opcode.None)} {
		instr.WriteColumn(v)
	}
	instr.MoveToRow(1)
	e := newEval(instr, mem)
	got, err := e.ReadExpression()
	if err != nil {
		t.Fatalf("ReadExpression: %v", err)
	}
	if got != 0 {
		t.Errorf("remainder by zero should yield 0: got %d", got)
	}
}

// Conditional `(0 EQUALS 0) AND (1 EQUALS 2)` evaluates to 0; same with
// OR evaluates to 1 (spec.md §8 scenario 6).
func writeCondition(tb *table.Table, left int64, test opcode.Test, right int64) {
	tb.WriteColumn(int64(opcode.Value))
	tb.WriteColumn(left)
	tb.WriteColumn(int64(opcode.None))
	tb.MoveToNextRow()
	tb.WriteColumn(int64(test))
	tb.MoveToNextRow()
	tb.WriteColumn(int64(opcode.Value))
	tb.WriteColumn(right)
	tb.WriteColumn(int64(opcode.None))
	tb.MoveToNextRow()
}

func TestConditionalAndOr(t *testing.T) {
	mem := memory.New(1, 4, 4)

	buildAnd := table.New(8, 10)
	buildAnd.MoveToRow(1)
	writeCondition(buildAnd, 0, opcode.Equals, 0)
	buildAnd.WriteColumn(int64(opcode.And))
	buildAnd.MoveToNextRow()
	writeCondition(buildAnd, 1, opcode.Equals, 2)
	buildAnd.MoveToRow(1)

	e := newEval(buildAnd, mem)
	got, err := e.ReadConditional()
	if err != nil {
		t.Fatalf("ReadConditional (AND): %v", err)
	}
	if got != 0 {
		t.Errorf("AND got %d want 0", got)
	}

	buildOr := table.New(8, 10)
	buildOr.MoveToRow(1)
	writeCondition(buildOr, 0, opcode.Equals, 0)
	buildOr.WriteColumn(int64(opcode.Or))
	buildOr.MoveToNextRow()
	writeCondition(buildOr, 1, opcode.Equals, 2)
	buildOr.MoveToRow(1)

	e2 := newEval(buildOr, mem)
	got2, err := e2.ReadConditional()
	if err != nil {
		t.Fatalf("ReadConditional (OR): %v", err)
	}
	if got2 != 1 {
		t.Errorf("OR got %d want 1", got2)
	}
}

func TestReadOperandImmediateAndPointer(t *testing.T) {
	mem := memory.New(4, 4, 4)
	target, _ := mem.At(2)
	target.SetAt(0, 99)

	pointerTarget, _ := mem.At(3)
	pointerTarget.SetAt(0, 2) // points at address 2

	instr := table.New(8, 2)
	instr.MoveToRow(1)
	instr.WriteColumn(int64(opcode.Immediate))
	instr.WriteColumn(2)
	instr.MoveToRow(1)
	e := newEval(instr, mem)
	v, err := e.ReadOperand()
	if err != nil {
		t.Fatalf("ReadOperand immediate: %v", err)
	}
	if v != 99 {
		t.Errorf("immediate got %d want 99", v)
	}

	instr2 := table.New(8, 2)
	instr2.MoveToRow(1)
	instr2.WriteColumn(int64(opcode.Pointer))
	instr2.WriteColumn(3)
	instr2.MoveToRow(1)
	e2 := newEval(instr2, mem)
	v2, err := e2.ReadOperand()
	if err != nil {
		t.Fatalf("ReadOperand pointer: %v", err)
	}
	if v2 != 99 {
		t.Errorf("pointer got %d want 99", v2)
	}
}

func TestReadOperandStackIsOneBasedReversed(t *testing.T) {
	mem := memory.New(410, 4, 4)
	tbl399, _ := mem.At(399)
	tbl399.SetAt(0, 7)
	tbl400, _ := mem.At(400)
	tbl400.SetAt(0, 8)

	instr := table.New(8, 2)
	instr.MoveToRow(1)
	instr.WriteColumn(int64(opcode.Stack))
	instr.WriteColumn(1) // stackPointer(400) - 1 == 399
	instr.MoveToRow(1)

	e := New(instr, mem, 400, host.NewNullHost(nil, 1), nil)
	v, err := e.ReadOperand()
	if err != nil {
		t.Fatalf("ReadOperand stack: %v", err)
	}
	if v != 7 {
		t.Errorf("stack offset 1 got %d want 7 (table 399)", v)
	}
}

func TestGetTableAtAddressImmediateWritable(t *testing.T) {
	mem := memory.New(4, 4, 4)
	instr := table.New(8, 2)
	instr.MoveToRow(1)
	instr.WriteColumn(int64(opcode.Immediate))
	instr.WriteColumn(2)
	instr.MoveToRow(1)

	e := newEval(instr, mem)
	dest, err := e.GetTableAtAddress()
	if err != nil {
		t.Fatalf("GetTableAtAddress: %v", err)
	}
	dest.WriteColumn(42)

	tgt, _ := mem.At(2)
	if tgt.AtColumn(0, 0) != 42 {
		t.Errorf("write landed wrong: got %d want 42", tgt.AtColumn(0, 0))
	}
}

func TestGetTableAtAddressObjectImmediate(t *testing.T) {
	mem := memory.New(4, 4, 4)
	instr := table.New(8, 2)
	instr.MoveToRow(1)
	instr.WriteColumn(int64(opcode.ObjectImmediate))
	instr.WriteColumn(2) // addr
	instr.WriteColumn(3) // prop/row
	instr.MoveToRow(1)

	e := newEval(instr, mem)
	dest, err := e.GetTableAtAddress()
	if err != nil {
		t.Fatalf("GetTableAtAddress: %v", err)
	}
	dest.WriteColumn(5)

	tgt, _ := mem.At(2)
	if tgt.AtColumn(3, 0) != 5 {
		t.Errorf("object-immediate write landed wrong: got %d want 5", tgt.AtColumn(3, 0))
	}
}

// The open-question behavior: STORE destination VALUE resolves to the
// instruction table itself, repositioned to row 0 col 0 (spec.md §9).
func TestGetTableAtAddressValueSelfReference(t *testing.T) {
	mem := memory.New(1, 4, 4)
	instr := table.New(8, 2)
	instr.SetAt(0, 77) // opcode slot
	instr.MoveToRow(1)
	instr.WriteColumn(int64(opcode.Value))
	instr.WriteColumn(0)
	instr.MoveToRow(1)

	e := newEval(instr, mem)
	dest, err := e.GetTableAtAddress()
	if err != nil {
		t.Fatalf("GetTableAtAddress: %v", err)
	}
	if dest != instr {
		t.Fatalf("VALUE mode did not return the instruction table itself")
	}
	if dest.Row() != 0 || dest.Col() != 0 {
		t.Fatalf("VALUE mode did not reposition cursor to row 0 col 0: row=%d col=%d", dest.Row(), dest.Col())
	}
}

func TestReadOperandUnknownTagIsDecodeError(t *testing.T) {
	mem := memory.New(1, 4, 4)
	instr := table.New(8, 2)
	instr.MoveToRow(1)
	instr.WriteColumn(999)
	instr.MoveToRow(1)
	e := newEval(instr, mem)
	if _, err := e.ReadOperand(); err == nil {
		t.Errorf("expected decode error for unknown addressing tag")
	}
}
