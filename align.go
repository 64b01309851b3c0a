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
	"sync"
)

// Strategy is the algorithm of one-directional extensions.
type Strategy int

const (
	// StrategyDP is the banded X-drop dynamic programming.
	StrategyDP Strategy = iota
	// StrategyGreedy is the greedy wavefront extension, faster for similar sequences.
	StrategyGreedy
)

func (s Strategy) String() string {
	switch s {
	case StrategyDP:
		return "dp"
	case StrategyGreedy:
		return "greedy"
	}
	return "unknown"
}

// AlignmentResult is a gapped alignment extended from a seed.
type AlignmentResult struct {
	Score int

	// 0-based half-open ranges.
	// Subject positions are in nucleotides for out-of-frame alignments.
	QueryStart, QueryStop     int
	SubjectStart, SubjectStop int

	// nil for alignments without traceback.
	Script *EditScript
}

// object pool of alignment results.
var poolAlignmentResult = &sync.Pool{New: func() interface{} {
	return &AlignmentResult{}
}}

// RecycleAlignmentResult recycles an AlignmentResult and its edit script.
func RecycleAlignmentResult(r *AlignmentResult) {
	if r == nil {
		return
	}
	RecycleEditScript(r.Script)
	r.Script = nil
	poolAlignmentResult.Put(r)
}

func newAlignmentResult() *AlignmentResult {
	r := poolAlignmentResult.Get().(*AlignmentResult)
	*r = AlignmentResult{}
	return r
}

func (e *Extender) extendOne(q, s []byte, qPos, sPos, m, n int, reverse bool,
	strategy Strategy, traceback bool) (Extension, error) {
	if strategy == StrategyGreedy {
		return e.greedy(q, s, qPos, sPos, m, n, reverse, traceback)
	}
	return e.extend(q, s, qPos, sPos, m, n, reverse, traceback)
}

// Align extends the seed pair q[qOff] and s[sOff] in both directions.
// The leftward extension includes the seed, the rightward one starts after it.
// Remember to recycle the result with RecycleAlignmentResult().
func (e *Extender) Align(q, s []byte, qOff, sOff int, strategy Strategy, traceback bool) (*AlignmentResult, error) {
	if qOff < 0 || qOff >= len(q) || sOff < 0 || sOff >= len(s) {
		return nil, fmt.Errorf("xdrop: seed (%d, %d) out of sequences of %d and %d residues: %w",
			qOff, sOff, len(q), len(s), ErrInvariantViolation)
	}

	left, err := e.extendOne(q, s, qOff, sOff, qOff+1, sOff+1, true, strategy, traceback)
	if err != nil {
		RecycleEditBlock(left.Block)
		return nil, err
	}
	right, err := e.extendOne(q, s, qOff+1, sOff+1, len(q)-qOff-1, len(s)-sOff-1, false, strategy, traceback)
	if err != nil {
		RecycleEditBlock(left.Block)
		RecycleEditBlock(right.Block)
		return nil, err
	}

	r := newAlignmentResult()
	r.Score = left.Score + right.Score
	r.QueryStart = qOff + 1 - left.QueryLen
	r.QueryStop = qOff + 1 + right.QueryLen
	r.SubjectStart = sOff + 1 - left.SubjectLen
	r.SubjectStop = sOff + 1 + right.SubjectLen

	if traceback {
		r.Script = BuildEditScript(left.Block, right.Block)
		RecycleEditBlock(left.Block)
		RecycleEditBlock(right.Block)
	}
	return r, nil
}

// AlignPacked is similar to Align, but the subject may be 2-bit packed.
// The query must be encoded with EncodeNucl then.
func (e *Extender) AlignPacked(q []byte, s Sequence, qOff, sOff int, strategy Strategy, traceback bool) (*AlignmentResult, error) {
	if !s.Packed {
		return e.Align(q, s.Data[:s.Len], qOff, sOff, strategy, traceback)
	}

	var err error
	e.unpacked, err = Unpack2na(e.unpacked, s.Data, s.Len)
	if err != nil {
		return nil, fmt.Errorf("xdrop: packed subject: %w", err)
	}
	return e.Align(q, e.unpacked, qOff, sOff, strategy, traceback)
}

// AlignOutOfFrame extends the seed pair of q[qOff] and the codon at nucleotide ntOff,
// i.e., mixed[ntOff], in both directions, allowing frame shifts.
// The seed itself is aligned as a substitution and both extensions exclude it.
// Subject positions of the result are in nucleotides.
func (e *Extender) AlignOutOfFrame(q, mixed []byte, qOff, ntOff int, traceback bool) (*AlignmentResult, error) {
	if qOff < 0 || qOff >= len(q) || ntOff < 0 || ntOff >= len(mixed) {
		return nil, fmt.Errorf("xdrop: seed (%d, %d) out of sequences of %d and %d residues: %w",
			qOff, ntOff, len(q), len(mixed), ErrInvariantViolation)
	}
	ntLen := len(mixed) + 2
	seed := int(e.p.matrixRow(q, qOff)[mixed[ntOff]])

	left, err := e.ExtendOutOfFrame(q, mixed, qOff-1, ntOff-1, qOff, ntOff, true, traceback)
	if err != nil {
		RecycleEditBlock(left.Block)
		return nil, err
	}
	right, err := e.ExtendOutOfFrame(q, mixed, qOff+1, ntOff+3, len(q)-qOff-1, ntLen-ntOff-3, false, traceback)
	if err != nil {
		RecycleEditBlock(left.Block)
		RecycleEditBlock(right.Block)
		return nil, err
	}

	r := newAlignmentResult()
	r.Score = left.Score + seed + right.Score
	r.QueryStart = qOff - left.QueryLen
	r.QueryStop = qOff + 1 + right.QueryLen
	r.SubjectStart = ntOff - left.SubjectLen
	r.SubjectStop = ntOff + 3 + right.SubjectLen

	if traceback {
		r.Script = BuildOutOfFrameEditScript(left.Block, right.Block, r.SubjectStop-r.SubjectStart)
		RecycleEditBlock(left.Block)
		RecycleEditBlock(right.Block)
	}
	return r, nil
}
