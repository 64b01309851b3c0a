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

// OOF_PADDING is the number of unreachable cells kept on the right of the window,
// so a substitution after a frame shift can start exactly at the boundary.
const OOF_PADDING = 4

// ExtendOutOfFrame extends a protein query against a translated nucleotide subject,
// allowing frame shifts.
//
// mixed is the mixed-frame translation of the subject: mixed[i] is the amino acid
// of the codon starting at nucleotide i, so the subject has len(mixed)+2 nucleotides.
// The extension starts from q[qPos] and nucleotide ntPos, for at most m query
// residues and n nucleotides. With reverse, both go to the left.
// The returned SubjectLen is in nucleotides.
func (e *Extender) ExtendOutOfFrame(q, mixed []byte, qPos, ntPos, m, n int, reverse, traceback bool) (ext Extension, err error) {
	if traceback {
		e.arena.Reset()
		e.rows = e.rows[:0]
		e.oof = true
		ext.Block = NewEditBlock()
	}
	if m <= 0 || n < 3 {
		return ext, nil
	}

	p := e.p
	_gapOpen, _gapExt := p.gapCosts()
	gapExt := int32(_gapExt)
	gapOpenExt := int32(_gapOpen + _gapExt)
	xdrop := int32(p.xDropoff())
	shift := int32(p.FrameShift)

	var numExtraCells int
	if gapExt > 0 {
		numExtraCells = 3*(int(xdrop/gapExt)+3) + OOF_PADDING
	} else {
		numExtraCells = n + 3
	}

	// index of the codon ending at column j (j >= 3) is codon0 + j*step
	step := 1
	codon0 := ntPos - 3
	if reverse {
		step = -1
		codon0 = ntPos + 1
	}

	// ------------------------------------------------------------------
	// row 0, only in-frame gaps

	size := min(n+1, numExtraCells)
	if err = e.ensureWindow(size); err != nil {
		return ext, err
	}
	w := e.window

	var ops []byte
	if traceback {
		if ops, err = e.newRow(0, size); err != nil {
			return ext, err
		}
		ops[0] = 0 // the origin
	}

	w[0] = cell{0, -gapOpenExt}
	score := -gapOpenExt
	var j int
	for j = 1; j < size; j++ {
		if j%3 == 0 {
			if score < -xdrop {
				break
			}
			w[j] = cell{score, score - gapOpenExt}
			score -= gapExt
		} else {
			w[j] = cell{minScore, minScore}
		}
		if traceback {
			ops[j] = tbGapInA
		}
	}
	bSize := j
	if traceback {
		e.closeRow(bSize)
	}
	bSize = padRight(w, bSize, n)

	// ------------------------------------------------------------------

	var first, last, rowStart int
	var bestScore int32
	var bestA, bestJ int
	var scoreGapCol, h, v, sc int32
	var p1, p2, p3, p4, prev int32 // best scores of the previous row at j-1, j-2, j-3, j-4
	var gapRow [3]int32            // gaps in the query, one for each frame
	var ph int
	var op byte
	var row *[256]int32
	qIdx := qPos

	for a := 1; a <= m; a++ {
		row = p.matrixRow(q, qIdx)
		qIdx += step

		size = min(bSize+numExtraCells, n+1)
		if err = e.ensureWindow(size); err != nil {
			return ext, err
		}
		w = e.window

		if traceback {
			if ops, err = e.newRow(first, size-first); err != nil {
				return ext, err
			}
			rowStart = first
		}

		p1, p2, p3, p4 = minScore, minScore, minScore, minScore
		gapRow[0], gapRow[1], gapRow[2] = minScore, minScore, minScore
		last = first
		for j = first; j < bSize; j++ {
			prev = w[j].best
			scoreGapCol = w[j].bestGap
			ph = j % 3

			h = minScore
			op = tbSub
			if j >= 3 {
				sc = row[mixed[codon0+j*step]]
				h = p3 + sc
				if v = p4 + sc - shift; v > h {
					h = v
					op = tbShiftAheadOne
				}
				if v = p2 + sc - shift; v > h {
					h = v
					op = tbShiftAheadTwo
				}
			}
			score = h
			if score < scoreGapCol {
				op = tbGapInB
				score = scoreGapCol
			}
			if score < gapRow[ph] {
				op = tbGapInA
				score = gapRow[ph]
			}

			p4, p3, p2, p1 = p3, p2, p1, prev

			if bestScore-score > xdrop {
				if j == first {
					first++
				} else {
					w[j] = cell{minScore, minScore}
				}
				gapRow[ph] -= gapExt
			} else {
				last = j
				if score > bestScore {
					bestScore = score
					bestA, bestJ = a, j
				}

				scoreGapCol -= gapExt
				if scoreGapCol < score-gapOpenExt {
					w[j].bestGap = score - gapOpenExt
				} else {
					w[j].bestGap = scoreGapCol
					op |= tbExtendGapB
				}
				gapRow[ph] -= gapExt
				if gapRow[ph] < score-gapOpenExt {
					gapRow[ph] = score - gapOpenExt
				} else {
					op |= tbExtendGapA
				}
				w[j].best = score
			}

			if traceback {
				ops[j-rowStart] = op
			}
		}

		if first >= bSize {
			if traceback {
				e.closeRow(bSize)
			}
			break
		}

		if max(gapRow[0], gapRow[1], gapRow[2]) < bestScore-xdrop {
			bSize = last + 1
		} else {
			// grow while a gap of any frame is still good enough
			for bSize <= n && max(gapRow[0], gapRow[1], gapRow[2]) >= bestScore-xdrop {
				ph = bSize % 3
				if gapRow[ph] >= bestScore-xdrop {
					w[bSize] = cell{gapRow[ph], gapRow[ph] - gapOpenExt}
					gapRow[ph] -= gapExt
				} else {
					w[bSize] = cell{minScore, minScore}
				}
				if traceback {
					ops[bSize-rowStart] = tbGapInA
				}
				bSize++
			}
		}
		if traceback {
			e.closeRow(bSize)
		}
		bSize = padRight(w, bSize, n)
	}

	ext.Score = int(bestScore)
	ext.QueryLen = bestA
	ext.SubjectLen = bestJ

	if traceback {
		e.walkTraceback(bestA, bestJ, &oofMoves, ext.Block)
	}
	return ext, nil
}

// padRight appends unreachable cells after the last column,
// as long as the subject is not exhausted.
func padRight(w []cell, bSize, n int) int {
	for i := 0; i < OOF_PADDING && bSize <= n; i++ {
		w[bSize] = cell{minScore, minScore}
		bSize++
	}
	return bSize
}
