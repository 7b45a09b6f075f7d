package strcode

import (
	"testing"

	"github.com/clesh-vm/clesh/internal/table"
)

// String decoder over a table containing [3, 'A', '@', 'B'] with stack
// top = 9 before decode yields "A9B" and pops exactly one value
// (spec.md §8 scenario 7).
func TestDecodeSubstitutesAtMarker(t *testing.T) {
	tb := table.New(4, 1)
	tb.WriteColumn(3)
	tb.WriteColumn('A')
	tb.WriteColumn(atMarker)
	tb.WriteColumn('B')

	pops := 0
	pop := func() (int64, error) {
		pops++
		return 9, nil
	}

	got, err := Decode(tb, pop)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if got != "A9B" {
		t.Errorf("got %q want %q", got, "A9B")
	}
	if pops != 1 {
		t.Errorf("pops = %d want 1", pops)
	}
}

// A string encoded into a table and decoded with no '@' yields the
// original character sequence (spec.md §8 round trip).
func TestEncodeDecodeRoundTrip(t *testing.T) {
	tb := table.New(1, 1)
	Encode(tb, "hello")

	pop := func() (int64, error) { t.Fatal("pop should not be called"); return 0, nil }
	got, err := Decode(tb, pop)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if got != "hello" {
		t.Errorf("got %q want %q", got, "hello")
	}
}

