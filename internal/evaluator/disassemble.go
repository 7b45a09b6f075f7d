package evaluator

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/clesh-vm/clesh/internal/opcode"
	"github.com/clesh-vm/clesh/internal/table"
)

// Disassemble renders a best-effort textual form of one instruction
// table: the opcode mnemonic on the first line, followed by one line per
// remaining row that holds a non-zero cell (all-zero rows are omitted).
// A row whose first column decodes as a valid addressing
// Mode is annotated with the mode's name; every other row is rendered as
// raw integers. This does not attempt to replicate the engine's
// per-opcode field layout (SPEC_FULL.md §4) — it is a diagnostic aid,
// not a parser, so it never fails: an unrecognized opcode is labeled
// UNKNOWN_OP rather than returning an error.
func Disassemble(instr *table.Table) string {
	var b strings.Builder
	op := opcode.Op(instr.AtColumn(0, 0))
	fmt.Fprintf(&b, "%s\n", op.String())

	for r := 1; r < instr.Height(); r++ {
		row := make([]int64, instr.Width())
		for c := range row {
			row[c] = instr.AtColumn(r, c)
		}
		if allZero(row) {
			continue
		}
		fmt.Fprintf(&b, "  row %d: %s\n", r, disassembleRow(row))
	}
	return b.String()
}

func disassembleRow(row []int64) string {
	parts := make([]string, len(row))
	for i, v := range row {
		parts[i] = strconv.FormatInt(v, 10)
	}
	if len(row) == 0 {
		return ""
	}
	if tag := opcode.Mode(row[0]); tag.Valid() {
		parts[0] = tag.String()
	}
	return strings.Join(parts, " ")
}

func allZero(row []int64) bool {
	for _, v := range row {
		if v != 0 {
			return false
		}
	}
	return true
}
