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

// Extension is the result of a one-directional extension.
type Extension struct {
	Score int

	// Residues consumed from the anchor, in nucleotides for the subject
	// of out-of-frame extensions.
	QueryLen   int
	SubjectLen int

	// Operations walked back from the best cell to the anchor, i.e., in the
	// alignment order for leftward extensions and reversed for rightward ones.
	// Only for extensions with traceback, remember to recycle it with RecycleEditBlock().
	Block *EditBlock
}

// ExtendScore extends from q[qPos] and s[sPos] for at most m query residues
// and n subject residues, and returns only the best score and where it is.
// With reverse, the extension goes to the left: q[qPos], q[qPos-1], ...
func (e *Extender) ExtendScore(q, s []byte, qPos, sPos, m, n int, reverse bool) (Extension, error) {
	return e.extend(q, s, qPos, sPos, m, n, reverse, false)
}

// ExtendTraceback is similar to ExtendScore, but also returns the edit operations.
func (e *Extender) ExtendTraceback(q, s []byte, qPos, sPos, m, n int, reverse bool) (Extension, error) {
	return e.extend(q, s, qPos, sPos, m, n, reverse, true)
}

// matrixRow returns the scores of the query residue at qIdx.
func (p *Scoring) matrixRow(q []byte, qIdx int) *[256]int32 {
	if p.PSSM != nil {
		return &p.PSSM[qIdx]
	}
	return p.Matrix.row(q[qIdx])
}

// extend is the X-drop banded DP with affine gaps.
// Column b means b subject residues are consumed, row a for a query residues.
func (e *Extender) extend(q, s []byte, qPos, sPos, m, n int, reverse, traceback bool) (ext Extension, err error) {
	if traceback {
		e.arena.Reset()
		e.rows = e.rows[:0]
		e.oof = false
		ext.Block = NewEditBlock()
	}
	if m <= 0 || n <= 0 {
		return ext, nil
	}

	p := e.p
	_gapOpen, _gapExt := p.gapCosts()
	gapExt := int32(_gapExt)
	gapOpenExt := int32(_gapOpen + _gapExt)
	xdrop := int32(p.xDropoff())

	// cells the right edge may grow in one row
	var numExtraCells int
	if gapExt > 0 {
		numExtraCells = int(xdrop/gapExt) + 3
	} else {
		numExtraCells = n + 3
	}

	step := 1
	if reverse {
		step = -1
	}

	// ------------------------------------------------------------------
	// row 0, the subject only consumes gaps

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
	var b int
	for b = 1; b <= n; b++ {
		if score < -xdrop {
			break
		}
		w[b] = cell{score, score - gapOpenExt}
		if traceback {
			ops[b] = tbGapInA
		}
		score -= gapExt
	}
	bSize := b
	if traceback {
		e.closeRow(bSize)
	}
	if bSize <= n {
		w[bSize] = cell{minScore, minScore}
		bSize++
	}

	// ------------------------------------------------------------------

	var first, last, rowStart int
	var bestScore int32
	var bestA, bestB int
	var scoreGapRow, scoreGapCol, nextScore int32
	var op byte
	var row *[256]int32
	qIdx := qPos
	sIdx := sPos // residue of column b+1

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

		score = minScore
		scoreGapRow = minScore
		last = first
		sIdx = sPos + first*step
		for b = first; b < bSize; b++ {
			scoreGapCol = w[b].bestGap
			if b < n {
				nextScore = w[b].best + row[s[sIdx]]
				sIdx += step
			}

			op = tbSub
			if score < scoreGapCol {
				op = tbGapInB
				score = scoreGapCol
			}
			if score < scoreGapRow {
				op = tbGapInA
				score = scoreGapRow
			}

			if bestScore-score > xdrop {
				// the window shrinks from the left, or the cell is unreachable
				if b == first {
					first++
				} else {
					w[b] = cell{minScore, minScore}
				}
				scoreGapRow -= gapExt
			} else {
				last = b
				if score > bestScore {
					bestScore = score
					bestA, bestB = a, b
				}

				scoreGapRow -= gapExt
				scoreGapCol -= gapExt
				if scoreGapCol < score-gapOpenExt {
					w[b].bestGap = score - gapOpenExt
				} else {
					w[b].bestGap = scoreGapCol
					op |= tbExtendGapB
				}
				if scoreGapRow < score-gapOpenExt {
					scoreGapRow = score - gapOpenExt
				} else {
					op |= tbExtendGapA
				}
				w[b].best = score
			}

			if traceback {
				ops[b-rowStart] = op
			}
			score = nextScore
		}

		if first == bSize {
			if traceback {
				e.closeRow(bSize)
			}
			break
		}

		if last < bSize-1 {
			bSize = last + 1
		} else {
			// the right edge grows while the gap is still good enough
			for scoreGapRow >= bestScore-xdrop && bSize <= n {
				w[bSize] = cell{scoreGapRow, scoreGapRow - gapOpenExt}
				if traceback {
					ops[bSize-rowStart] = tbGapInA
				}
				scoreGapRow -= gapExt
				bSize++
			}
		}
		if traceback {
			e.closeRow(bSize)
		}

		// an unreachable cell on the right, for the diagonal of the next row
		if bSize <= n {
			w[bSize] = cell{minScore, minScore}
			bSize++
		}
	}

	ext.Score = int(bestScore)
	ext.QueryLen = bestA
	ext.SubjectLen = bestB

	if traceback {
		e.walkTraceback(bestA, bestB, &dpMoves, ext.Block)
	}
	return ext, nil
}
