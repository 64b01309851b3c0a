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
	"fmt"
	"math"
)

// minScore is the score of unreachable cells. It is far from MinInt32,
// so adding substitution scores or subtracting gap costs never overflows.
const minScore int32 = math.MinInt32 / 2

// cell is a column of the rolling DP window.
type cell struct {
	best    int32 // best score of alignments ending here
	bestGap int32 // best score of alignments ending with a gap in the query direction
}

// ensureWindow makes sure the window has at least n cells,
// the existing cells are kept.
func (e *Extender) ensureWindow(n int) error {
	if n <= len(e.window) {
		return nil
	}
	if e.maxCells > 0 && n > e.maxCells {
		return fmt.Errorf("DP window of %d cells exceeds the limit %d: %w", n, e.maxCells, ErrOutOfMemory)
	}
	if n <= cap(e.window) {
		e.window = e.window[:n]
		return nil
	}
	size := n + n>>1
	if e.maxCells > 0 {
		size = min(size, e.maxCells)
	}
	w := make([]cell, n, size)
	copy(w, e.window)
	e.window = w
	return nil
}
