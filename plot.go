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
	"io"
)

// arrows of traceback operations.
var tbArrows = [8]rune{
	0:               '⊕',
	tbSub:           '⬊',
	tbGapInA:        '⟼',
	tbGapInB:        '↧',
	tbShiftAheadOne: '⇲',
	tbShiftAheadTwo: '⬂',
}

// PlotTraceback plots the traceback rows of the last extension with traceback
// as a tab-delimited text table. Rows are query residues and columns are
// subject residues (nucleotides for out-of-frame extensions),
// counted from the anchor.
//
// Symbols:
//
//	⬊    Substitution
//	⟼    Gap in the query
//	↧    Gap in the subject
//	⇲    Substitution after a frame shift of +1
//	⬂    Substitution after a frame shift of +2
//	.    Out of the window
//
// A following '+' means the gap leaving the cell extends an earlier one.
func (e *Extender) PlotTraceback(wtr io.Writer) {
	var end int
	for _, r := range e.rows {
		end = max(end, r.start+len(r.ops))
	}

	if e.oof {
		fmt.Fprintf(wtr, "out-of-frame\n")
	}
	fmt.Fprintf(wtr, "   ")
	for b := 0; b < end; b++ {
		fmt.Fprintf(wtr, "\t%3d", b)
	}
	fmt.Fprintln(wtr)

	var op byte
	var b int
	for a, r := range e.rows {
		fmt.Fprintf(wtr, "%3d", a)
		for b = 0; b < end; b++ {
			if b < r.start || b >= r.start+len(r.ops) {
				fmt.Fprintf(wtr, "\t  .")
				continue
			}
			op = r.ops[b-r.start]
			if op&(tbExtendGapA|tbExtendGapB) != 0 {
				fmt.Fprintf(wtr, "\t %c+", tbArrows[op&tbOpMask])
			} else {
				fmt.Fprintf(wtr, "\t  %c", tbArrows[op&tbOpMask])
			}
		}
		fmt.Fprintln(wtr)
	}
}

// PrintGreedyHistory lists the wavefronts of the last greedy extension.
func (e *Extender) PrintGreedyHistory(wtr io.Writer) {
	e.M.Print(wtr, "M")
	e.I.Print(wtr, "I")
	e.D.Print(wtr, "D")
}
