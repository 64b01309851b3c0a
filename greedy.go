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

import "math"

// GREEDY_MAX_COST is the largest cost level explored by the greedy extender.
const GREEDY_MAX_COST = 1 << 16

// GreedyScore extends like ExtendScore, with the greedy wavefront algorithm.
//
// Only Reward and Penalty of the Scoring are used for residues.
// If both GapOpen and GapExtend are 0, the cost is linear:
// the search runs on edit distances and a gap residue costs Reward/2 - Penalty.
// Otherwise the cost is affine and the search runs on doubled costs.
func (e *Extender) GreedyScore(q, s []byte, qPos, sPos, m, n int, reverse bool) (Extension, error) {
	return e.greedy(q, s, qPos, sPos, m, n, reverse, false)
}

// GreedyTraceback is similar to GreedyScore, but also returns the edit operations.
func (e *Extender) GreedyTraceback(q, s []byte, qPos, sPos, m, n int, reverse bool) (Extension, error) {
	return e.greedy(q, s, qPos, sPos, m, n, reverse, true)
}

// greedyCosts returns the costs of a mismatch, gap open and gap extension,
// and the doubled score penalty of one cost unit.
func (p *Scoring) greedyCosts() (x, o, ex, unit int) {
	if p.GapOpen == 0 && p.GapExtend == 0 {
		return 1, 0, 1, 2*p.Reward - 2*p.Penalty
	}
	return 2*p.Reward - 2*p.Penalty, 2 * p.GapOpen, 2*p.GapExtend + p.Reward, 1
}

// slide extends (v, h) along matches.
func slide(q, s []byte, qPos, sPos, m, n, step, v, h int) (int, int) {
	qi, si := qPos+v*step, sPos+h*step
	for v < m && h < n && q[qi] == s[si] {
		v++
		h++
		qi += step
		si += step
	}
	return v, h
}

func (e *Extender) greedy(q, s []byte, qPos, sPos, m, n int, reverse, traceback bool) (ext Extension, err error) {
	if traceback {
		ext.Block = NewEditBlock()
	}
	if m <= 0 || n <= 0 {
		return ext, nil
	}

	M, I, D := e.M, e.I, e.D
	ClearWaveFronts(M)
	ClearWaveFronts(I)
	ClearWaveFronts(D)

	p := e.p
	R := p.Reward
	x, o, ex, unit := p.greedyCosts()
	xdrop2 := 2 * p.xDropoff()
	step := 1
	if reverse {
		step = -1
	}

	// doubled score of a point
	score2 := func(v, h, c int) int {
		return R*(v+h) - c*unit
	}

	v, h := slide(q, s, qPos, sPos, m, n, step, 0, 0)
	M.Set(0, 0, uint32(h), wfaMatch)
	best2 := score2(v, h, 0)
	var bestC uint32
	var bestK int
	bestV, bestH := v, h

	_x, _oe, _ex := uint32(x), uint32(o+ex), uint32(ex)
	maxStep := max(x, o+ex)
	lastLive := 0

	var lo, hi, l, u, k int
	var ok bool
	var h1, Mt, It, Dt uint32
	var Mh, Ih, Dh, sc int
	for c := 1; c <= GREEDY_MAX_COST; c++ {
		if c-lastLive > maxStep {
			break
		}
		if R*(m+n)-c*unit < best2-xdrop2 { // no point could be good enough
			break
		}

		_c := uint32(c)
		lo, hi = math.MaxInt, math.MinInt
		if l, u, ok = M.KRange(_c, _x); ok {
			lo, hi = min(lo, l), max(hi, u)
		}
		if l, u, ok = M.KRange(_c, _oe); ok {
			lo, hi = min(lo, l), max(hi, u)
		}
		if l, u, ok = I.KRange(_c, _ex); ok {
			lo, hi = min(lo, l), max(hi, u)
		}
		if l, u, ok = D.KRange(_c, _ex); ok {
			lo, hi = min(lo, l), max(hi, u)
		}
		if lo > hi {
			continue
		}

		for k = lo - 1; k <= hi+1; k++ {
			// I: the subject advances, from diagonal k-1
			Ih = -1
			if h1, _, ok = M.GetAfterDiff(_c, _oe, k-1); ok {
				Ih, It = int(h1)+1, wfaInsertOpen
			}
			if h1, _, ok = I.GetAfterDiff(_c, _ex, k-1); ok && int(h1)+1 > Ih {
				Ih, It = int(h1)+1, wfaInsertExt
			}
			if Ih >= 0 {
				if Ih > n || Ih-k > m || score2(Ih-k, Ih, c) < best2-xdrop2 {
					Ih = -1
				} else {
					I.Set(_c, k, uint32(Ih), It)
				}
			}

			// D: the query advances, from diagonal k+1
			Dh = -1
			if h1, _, ok = M.GetAfterDiff(_c, _oe, k+1); ok {
				Dh, Dt = int(h1), wfaDeleteOpen
			}
			if h1, _, ok = D.GetAfterDiff(_c, _ex, k+1); ok && int(h1) > Dh {
				Dh, Dt = int(h1), wfaDeleteExt
			}
			if Dh >= 0 {
				if Dh-k > m || Dh-k < 0 || score2(Dh-k, Dh, c) < best2-xdrop2 {
					Dh = -1
				} else {
					D.Set(_c, k, uint32(Dh), Dt)
				}
			}

			// M: a mismatch, or closing a gap
			Mh = -1
			if h1, _, ok = M.GetAfterDiff(_c, _x, k); ok && int(h1)+1 <= n && int(h1)+1-k <= m {
				Mh, Mt = int(h1)+1, wfaMismatch
			}
			if Ih > Mh {
				Mh, Mt = Ih, wfaFromInsert
			}
			if Dh > Mh {
				Mh, Mt = Dh, wfaFromDelete
			}
			if Mh < 0 {
				continue
			}

			v, h = slide(q, s, qPos, sPos, m, n, step, Mh-k, Mh)
			sc = score2(v, h, c)
			if sc < best2-xdrop2 {
				continue
			}
			M.Set(_c, k, uint32(h), Mt)
			if sc > best2 {
				best2 = sc
				bestC, bestK = _c, k
				bestV, bestH = v, h
			}
		}
		if M.HasCost(_c) || I.HasCost(_c) || D.HasCost(_c) {
			lastLive = c
		}
	}

	ext.Score = best2 / 2
	ext.QueryLen = bestV
	ext.SubjectLen = bestH

	if traceback {
		e.greedyBacktrace(bestC, bestK, _x, _oe, _ex, ext.Block)
	}
	return ext, nil
}

// states of the greedy backtrace.
const (
	stateM = iota
	stateI
	stateD
)

// greedyBacktrace walks the history from the best point to the origin.
// Operations are added in the reverse order of alignment.
func (e *Extender) greedyBacktrace(c uint32, k int, x, oe, ex uint32, block *EditBlock) {
	M, I, D := e.M, e.I, e.D
	state := stateM
	var h, h0, t uint32
	for {
		switch state {
		case stateM:
			h, t, _ = M.Get(c, k)
			switch t {
			case wfaMatch:
				block.Add(OpSub, int(h))
				return
			case wfaMismatch:
				c -= x
				h0, _, _ = M.Get(c, k)
				block.Add(OpSub, int(h-h0)) // matches and the mismatch
			case wfaFromInsert:
				h0, _, _ = I.Get(c, k)
				block.Add(OpSub, int(h-h0))
				state = stateI
			case wfaFromDelete:
				h0, _, _ = D.Get(c, k)
				block.Add(OpSub, int(h-h0))
				state = stateD
			default:
				return
			}
		case stateI:
			_, t, _ = I.Get(c, k)
			block.Add(OpGapInA, 1)
			k--
			if t == wfaInsertOpen {
				c -= oe
				state = stateM
			} else {
				c -= ex
			}
		case stateD:
			_, t, _ = D.Get(c, k)
			block.Add(OpGapInB, 1)
			k++
			if t == wfaDeleteOpen {
				c -= oe
				state = stateM
			} else {
				c -= ex
			}
		}
	}
}
