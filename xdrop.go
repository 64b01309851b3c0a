// Copyright © 2024 Wei Shen <shenwei356@gmail.com>
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in
// all copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
// THE SOFTWARE.

package xdrop

import (
	"sync"
)

// Extender extends seeds into gapped alignments.
// It owns the DP window, the traceback arena and the greedy history,
// which are reused across calls. An Extender must not be shared by goroutines,
// use one for each worker, e.g., from New() and RecycleExtender().
type Extender struct {
	p *Scoring

	// the rolling score cells, valid in [first, size) of the current row.
	window   []cell
	maxCells int // 0 for no limit

	// traceback rows of the last extension with traceback, carved from the arena.
	arena *Arena
	rows  []tbRow
	oof   bool // the last traceback is out-of-frame

	// scratch of unpacked subject sequences.
	unpacked []byte

	// history of the greedy extender, one component for each state.
	M, I, D *Component
}

// object pool of extenders.
var poolExtender = &sync.Pool{New: func() interface{} {
	e := Extender{
		window: make([]cell, 0, 1024),
		arena:  NewArena(0),
		rows:   make([]tbRow, 0, 1024),
		M:      NewComponent(),
		I:      NewComponent(),
		D:      NewComponent(),
	}
	return &e
}}

// New returns an Extender from the object pool, with no memory limits.
func New(p *Scoring) *Extender {
	return NewWithLimits(p, 0, 0)
}

// NewWithLimits returns an Extender from the object pool.
// arenaBytes limits the traceback arena and windowCells limits the DP window,
// 0 means no limit. Exceeding them makes a call fail with ErrOutOfMemory.
// Memory a pooled Extender holds beyond the arena limit is freed.
func NewWithLimits(p *Scoring, arenaBytes, windowCells int) *Extender {
	e := poolExtender.Get().(*Extender)
	e.p = p
	e.arena.SetLimit(arenaBytes)
	e.maxCells = windowCells
	return e
}

// RecycleExtender recycles an Extender.
func RecycleExtender(e *Extender) {
	if e == nil {
		return
	}
	e.reset()
	e.p = nil
	poolExtender.Put(e)
}

// Scoring returns the scoring parameters.
func (e *Extender) Scoring() *Scoring {
	return e.p
}

// reset resets the internal data, without freeing memory.
func (e *Extender) reset() {
	e.window = e.window[:0]
	e.arena.Reset()
	e.rows = e.rows[:0]
	e.oof = false
	ClearWaveFronts(e.M)
	ClearWaveFronts(e.I)
	ClearWaveFronts(e.D)
}
