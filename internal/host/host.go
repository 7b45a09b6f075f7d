/*
 * C-Lesh - Host: the display/sound/input/timing contract
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

// Package host defines the narrow contract the engine calls into for
// display, sound, input, timing, and randomness (spec.md §6). Graphics,
// audio, and input backends are out of scope for this repository; this
// package carries only the interface and a headless reference
// implementation used by the CLI's default mode and by every test.
package host

import (
	"context"
	"log/slog"
	"math/rand"
	"sync"
	"time"
)

// Signal is the latest input event the host observed, e.g. a keypress
// code. Code is the only field the engine's INPUT opcode consumes.
type Signal struct {
	Code int64
}

// Picture is the host's display buffer: a flat RGB canvas the engine
// draws into via DRAW/CLEAR/REFRESH. Out-of-scope backends render it;
// the engine only ever mutates it through this narrow shape.
type Picture struct {
	Width, Height int
	R, G, B       []byte
}

// NewPicture allocates a black width×height picture buffer.
func NewPicture(width, height int) *Picture {
	n := width * height
	return &Picture{
		Width: width, Height: height,
		R: make([]byte, n), G: make([]byte, n), B: make([]byte, n),
	}
}

// Host is the abstract collaborator the engine calls into for every
// effect that isn't pure computation over memory (spec.md §6).
type Host interface {
	// ReadSignal returns the latest input event.
	ReadSignal() Signal
	// UpdateDisplay blits the picture buffer to the screen.
	UpdateDisplay(pic *Picture)
	// PlaySound plays the named sound resource.
	PlaySound(name string) error
	// Sleep delays for the given duration, honoring ctx cancellation.
	// The engine guarantees no observable memory or stack changes occur
	// during the delay (spec.md §5).
	Sleep(ctx context.Context, d int64)
	// OutputText draws text at (x, y) in color (r, g, b).
	OutputText(text string, x, y int64, r, g, b int64)
	// LoadPalette loads the named palette resource.
	LoadPalette(name string) error
	// Random returns an inclusive uniform integer in [lo, hi] (or
	// [hi, lo] if hi < lo).
	Random(lo, hi int64) int64
}

// NullHost is a deterministic, headless reference Host: display and
// sound calls are logged and otherwise no-ops, input is only what
// SetSignal injects (a zero Signal otherwise), and randomness is seeded
// for reproducible runs. It exists so the engine
// and its tests are exercisable without a real graphics/audio/input
// backend, which spec.md explicitly places out of scope.
type NullHost struct {
	Logger *slog.Logger

	mu     sync.Mutex
	rng    *rand.Rand
	signal Signal
}

// NewNullHost builds a NullHost with a deterministic RNG seed, logging
// through logger (or slog.Default() if nil).
func NewNullHost(logger *slog.Logger, seed int64) *NullHost {
	if logger == nil {
		logger = slog.Default()
	}
	return &NullHost{Logger: logger, rng: rand.New(rand.NewSource(seed))}
}

// SetSignal lets a test or CLI driver inject the next input event.
func (h *NullHost) SetSignal(s Signal) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.signal = s
}

func (h *NullHost) ReadSignal() Signal {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.signal
}

func (h *NullHost) UpdateDisplay(pic *Picture) {
	h.Logger.Debug("host: update display", "width", pic.Width, "height", pic.Height)
}

func (h *NullHost) PlaySound(name string) error {
	h.Logger.Debug("host: play sound", "name", name)
	return nil
}

func (h *NullHost) Sleep(ctx context.Context, d int64) {
	if d <= 0 {
		return
	}
	t := time.NewTimer(time.Duration(d) * time.Millisecond)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}

func (h *NullHost) OutputText(text string, x, y, r, g, b int64) {
	h.Logger.Debug("host: output text", "text", text, "x", x, "y", y, "r", r, "g", g, "b", b)
}

func (h *NullHost) LoadPalette(name string) error {
	h.Logger.Debug("host: load palette", "name", name)
	return nil
}

func (h *NullHost) Random(lo, hi int64) int64 {
	if hi < lo {
		lo, hi = hi, lo
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	return lo + h.rng.Int63n(hi-lo+1)
}
