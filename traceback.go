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

// A traceback byte stores how a cell was reached (the lowest 3 bits)
// and whether the gaps leaving the cell extend earlier gaps (the flags).
const (
	tbSub           byte = iota + 1 // substitution, in frame
	tbGapInA                        // gap in the query, the subject advances
	tbGapInB                        // gap in the subject, the query advances
	tbShiftAheadOne                 // substitution after a frame shift of +1 nucleotide
	tbShiftAheadTwo                 // substitution after a frame shift of +2 (i.e., -1) nucleotides
)

const tbOpMask byte = 0x07

const (
	tbExtendGapA byte = 0x10 // the row gap leaving the cell continues a prior gap
	tbExtendGapB byte = 0x20 // the column gap leaving the cell continues a prior gap
)

// tbRow is a row of traceback bytes, starting from the column start.
type tbRow struct {
	start int
	ops   []byte
}

// tbMoves are the (query, subject) steps of traceback operations.
type tbMoves [8][2]int

// single-frame moves.
var dpMoves = tbMoves{
	tbSub:    {1, 1},
	tbGapInA: {0, 1},
	tbGapInB: {1, 0},
}

// out-of-frame moves, where the subject is in nucleotides.
var oofMoves = tbMoves{
	tbSub:           {1, 3},
	tbGapInA:        {0, 3},
	tbGapInB:        {1, 0},
	tbShiftAheadOne: {1, 4},
	tbShiftAheadTwo: {1, 2},
}

// tb2op maps traceback operations to edit operations.
var tb2op = [8]EditOp{
	tbSub:           OpSub,
	tbGapInA:        OpGapInA,
	tbGapInB:        OpGapInB,
	tbShiftAheadOne: OpShiftAheadOne,
	tbShiftAheadTwo: OpShiftAheadTwo,
}

// newRow carves a traceback row covering columns [start, start+n) from the arena.
func (e *Extender) newRow(start, n int) ([]byte, error) {
	ops, err := e.arena.AllocateRow(n)
	if err != nil {
		return nil, err
	}
	e.rows = append(e.rows, tbRow{start: start, ops: ops})
	return ops, nil
}

// closeRow trims the last row to the columns written.
func (e *Extender) closeRow(end int) {
	r := &e.rows[len(e.rows)-1]
	r.ops = r.ops[:end-r.start]
}

// walkTraceback walks from cell (a, b) back to the origin,
// adding one operation for each step to the block.
// Operations are added in the reverse order of the alignment.
func (e *Extender) walkTraceback(a, b int, moves *tbMoves, block *EditBlock) {
	script := tbSub
	var next byte
	var r *tbRow
	for a > 0 || b > 0 {
		r = &e.rows[a]
		next = r.ops[b-r.start]
		switch script {
		case tbGapInA:
			script = next & tbOpMask
			if next&tbExtendGapA != 0 {
				script = tbGapInA
			}
		case tbGapInB:
			script = next & tbOpMask
			if next&tbExtendGapB != 0 {
				script = tbGapInB
			}
		default:
			script = next & tbOpMask
		}

		a -= moves[script][0]
		b -= moves[script][1]
		block.Add(tb2op[script], 1)
	}
}
