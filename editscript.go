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
	"bytes"
	"fmt"
	"strconv"
	"sync"

	"github.com/biogo/hts/sam"
)

// EditOp is the type of an edit operation.
type EditOp uint8

const (
	OpSub           EditOp = iota + 1 // substitution, a match or a mismatch
	OpGapInA                          // gap in the query, only the subject advances
	OpGapInB                          // gap in the subject, only the query advances
	OpShiftAheadOne                   // substitution after a frame shift of +1 nucleotide
	OpShiftAheadTwo                   // substitution after a frame shift of +2 nucleotides
)

// symbols used in String().
var op2symbol = [8]byte{
	OpSub:           'M',
	OpGapInA:        'D',
	OpGapInB:        'I',
	OpShiftAheadOne: '/',
	OpShiftAheadTwo: '\\',
}

// residues consumed by one operation, (query, subject).
var singleFrameSpans = [8][2]int{
	OpSub:    {1, 1},
	OpGapInA: {0, 1},
	OpGapInB: {1, 0},
}

// the subject is counted in nucleotides.
var outOfFrameSpans = [8][2]int{
	OpSub:           {1, 3},
	OpGapInA:        {0, 3},
	OpGapInB:        {1, 0},
	OpShiftAheadOne: {1, 4},
	OpShiftAheadTwo: {1, 2},
}

var op2cigar = [8]sam.CigarOpType{
	OpSub:    sam.CigarMatch,
	OpGapInA: sam.CigarDeletion,
	OpGapInB: sam.CigarInsertion,
}

func (op EditOp) String() string {
	if op == 0 || int(op) >= len(op2symbol) || op2symbol[op] == 0 {
		return "?"
	}
	return string(op2symbol[op])
}

// EditRun is a run of N operations of the same type.
type EditRun struct {
	Op EditOp
	N  int
}

// EditBlock is a list of edit runs of a one-directional extension.
type EditBlock struct {
	Runs []EditRun
}

// object pool of edit blocks.
var poolEditBlock = &sync.Pool{New: func() interface{} {
	b := EditBlock{Runs: make([]EditRun, 0, 64)}
	return &b
}}

// NewEditBlock returns an empty EditBlock from the object pool.
func NewEditBlock() *EditBlock {
	b := poolEditBlock.Get().(*EditBlock)
	b.Runs = b.Runs[:0]
	return b
}

// RecycleEditBlock recycles an EditBlock.
func RecycleEditBlock(b *EditBlock) {
	if b != nil {
		poolEditBlock.Put(b)
	}
}

// Add appends n operations, merging them into the last run of the same type.
func (b *EditBlock) Add(op EditOp, n int) {
	b.Runs = appendRun(b.Runs, op, n)
}

func appendRun(runs []EditRun, op EditOp, n int) []EditRun {
	if n <= 0 {
		return runs
	}
	if l := len(runs); l > 0 && runs[l-1].Op == op {
		runs[l-1].N += n
		return runs
	}
	return append(runs, EditRun{Op: op, N: n})
}

// EditScript is the edit runs of a whole alignment, in the alignment order.
type EditScript struct {
	Runs []EditRun

	// The subject is a mixed-frame translation, measured in nucleotides.
	OutOfFrame bool
}

// object pool of edit scripts.
var poolEditScript = &sync.Pool{New: func() interface{} {
	es := EditScript{Runs: make([]EditRun, 0, 128)}
	return &es
}}

// NewEditScript returns an empty EditScript from the object pool.
func NewEditScript() *EditScript {
	es := poolEditScript.Get().(*EditScript)
	es.Runs = es.Runs[:0]
	es.OutOfFrame = false
	return es
}

// RecycleEditScript recycles an EditScript.
func RecycleEditScript(es *EditScript) {
	if es != nil {
		poolEditScript.Put(es)
	}
}

// BuildEditScript merges the blocks of the leftward extension
// (already in the alignment order) and the rightward one (in the reverse order).
// Runs of the same type meeting at the anchor are merged.
// Nil blocks are treated as empty.
func BuildEditScript(rev, fwd *EditBlock) *EditScript {
	es := NewEditScript()
	es.join(rev, fwd)
	return es
}

// BuildOutOfFrameEditScript is similar to BuildEditScript, for out-of-frame
// extensions which both exclude the seed codon.
// The substitution of the seed is placed at the anchor,
// frame shifts of the leftward extension are moved to the codons after the
// skipped nucleotides, the script is truncated at ntSpan nucleotides of the subject,
// and frame-shift runs are split into unit runs.
func BuildOutOfFrameEditScript(rev, fwd *EditBlock, ntSpan int) *EditScript {
	es := NewEditScript()
	es.OutOfFrame = true
	es.join(rev, fwd)
	es.truncate(ntSpan)
	es.splitFrameShifts()
	return es
}

func (es *EditScript) join(rev, fwd *EditBlock) {
	var carry EditOp // frame shift waiting for the next codon
	if rev != nil {
		for _, r := range rev.Runs {
			if !es.OutOfFrame {
				es.Runs = appendRun(es.Runs, r.Op, r.N)
				continue
			}
			carry = es.appendLeftward(r, carry)
		}
	}
	if es.OutOfFrame { // the seed
		if carry == 0 {
			carry = OpSub
		}
		es.Runs = appendRun(es.Runs, carry, 1)
	}
	if fwd != nil {
		for i := len(fwd.Runs) - 1; i >= 0; i-- {
			es.Runs = appendRun(es.Runs, fwd.Runs[i].Op, fwd.Runs[i].N)
		}
	}
}

// appendLeftward appends a run of a leftward out-of-frame extension.
//
// Walked leftward, a frame shift skips nucleotides after its codon,
// while in the alignment order the skipped nucleotides come before the codon.
// So the shift of each codon is moved onto the next codon, and the shift
// of the last codon of the run is returned, to be carried on.
// Gaps do not take codons and keep the carried shift.
func (es *EditScript) appendLeftward(r EditRun, carry EditOp) EditOp {
	switch r.Op {
	case OpSub, OpShiftAheadOne, OpShiftAheadTwo:
	default:
		es.Runs = appendRun(es.Runs, r.Op, r.N)
		return carry
	}

	first := OpSub
	if carry != 0 {
		first = carry
	}
	rest := OpSub
	carry = 0
	if isFrameShift(r.Op) {
		rest, carry = r.Op, r.Op
	}
	es.Runs = appendRun(es.Runs, first, 1)
	es.Runs = appendRun(es.Runs, rest, r.N-1)
	return carry
}

// truncate drops operations beyond ntSpan nucleotides of the subject.
func (es *EditScript) truncate(ntSpan int) {
	var used, d, k int
	for i, r := range es.Runs {
		d = outOfFrameSpans[r.Op][1]
		if used+d*r.N <= ntSpan {
			used += d * r.N
			continue
		}

		k = (ntSpan - used) / d
		if k > 0 {
			es.Runs[i].N = k
			es.Runs = es.Runs[:i+1]
		} else {
			es.Runs = es.Runs[:i]
		}
		return
	}
}

// splitFrameShifts splits frame-shift runs into unit runs.
func (es *EditScript) splitFrameShifts() {
	var n int
	for _, r := range es.Runs {
		if isFrameShift(r.Op) {
			n += r.N
		} else {
			n++
		}
	}
	if n == len(es.Runs) {
		return
	}

	runs := make([]EditRun, n)
	j := n
	for i := len(es.Runs) - 1; i >= 0; i-- { // from the end, in case of sharing memory
		r := es.Runs[i]
		if !isFrameShift(r.Op) {
			j--
			runs[j] = r
			continue
		}
		for k := 0; k < r.N; k++ {
			j--
			runs[j] = EditRun{Op: r.Op, N: 1}
		}
	}
	es.Runs = runs
}

func isFrameShift(op EditOp) bool {
	return op == OpShiftAheadOne || op == OpShiftAheadTwo
}

func (es *EditScript) spans() *[8][2]int {
	if es.OutOfFrame {
		return &outOfFrameSpans
	}
	return &singleFrameSpans
}

// Spans returns the numbers of query and subject residues the script consumes.
// The subject is counted in nucleotides for out-of-frame scripts.
func (es *EditScript) Spans() (queryLen, subjectLen int) {
	spans := es.spans()
	for _, r := range es.Runs {
		queryLen += spans[r.Op][0] * r.N
		subjectLen += spans[r.Op][1] * r.N
	}
	return
}

// EditCounts is the statistics of an edit script.
type EditCounts struct {
	AlignLen    int // the number of columns
	Subs        int // substitutions, including those after frame shifts
	Gaps        int
	GapRegions  int
	FrameShifts int
}

// Counts returns the numbers of operations.
func (es *EditScript) Counts() EditCounts {
	var c EditCounts
	for _, r := range es.Runs {
		c.AlignLen += r.N
		switch r.Op {
		case OpSub:
			c.Subs += r.N
		case OpGapInA, OpGapInB:
			c.Gaps += r.N
			c.GapRegions++
		case OpShiftAheadOne, OpShiftAheadTwo:
			c.Subs += r.N
			c.FrameShifts += r.N
		}
	}
	return c
}

// object pool of byte buffers.
var poolBytesBuffer = &sync.Pool{New: func() interface{} {
	buf := make([]byte, 1024)
	return bytes.NewBuffer(buf)
}}

// String returns the script in a compact text form, e.g., 4M1I4M.
// Frame shifts are shown as '/' (+1) and '\' (+2).
func (es *EditScript) String() string {
	buf := poolBytesBuffer.Get().(*bytes.Buffer)
	buf.Reset()

	for _, r := range es.Runs {
		buf.WriteString(strconv.Itoa(r.N))
		buf.WriteString(r.Op.String())
	}

	text := buf.String()
	poolBytesBuffer.Put(buf)
	return text
}

// CIGAR returns the script as a SAM CIGAR, with the subject as the reference.
// Out-of-frame scripts can not be expressed in CIGAR.
func (es *EditScript) CIGAR() (sam.Cigar, error) {
	if es.OutOfFrame {
		return nil, fmt.Errorf("xdrop: CIGAR of an out-of-frame edit script: %w", ErrInvariantViolation)
	}
	cigar := make(sam.Cigar, 0, len(es.Runs))
	for _, r := range es.Runs {
		if r.Op > OpGapInB {
			return nil, fmt.Errorf("xdrop: unexpected operation %s in CIGAR: %w", r.Op, ErrInvariantViolation)
		}
		cigar = append(cigar, sam.NewCigarOp(op2cigar[r.Op], r.N))
	}
	return cigar, nil
}

// object pool of alignment text.
var poolBytes = &sync.Pool{New: func() interface{} {
	buf := make([]byte, 0, 1024)
	return &buf
}}

// AlignmentText returns the formatted alignment text for the Query, the Alignment
// and the Subject, starting from q[qStart] and s[sStart].
// Frame-shift columns are marked with '/' or '\'.
// Out-of-frame subjects are the mixed-frame translation, in which
// s[x] is the codon of nucleotides [x, x+3).
// Do not forget to recycle them with RecycleAlignmentText().
func (es *EditScript) AlignmentText(q, s []byte, qStart, sStart int) (*[]byte, *[]byte, *[]byte) {
	Q := poolBytes.Get().(*[]byte)
	A := poolBytes.Get().(*[]byte)
	S := poolBytes.Get().(*[]byte)

	spans := es.spans()
	v, h := qStart, sStart
	var i, dh int
	var a, b byte
	for _, r := range es.Runs {
		dh = spans[r.Op][1]
		for i = 0; i < r.N; i++ {
			h += dh
			switch r.Op {
			case OpGapInA:
				a, b = '-', subjectResidue(s, h, es.OutOfFrame)
			case OpGapInB:
				a, b = q[v], '-'
			default:
				a, b = q[v], subjectResidue(s, h, es.OutOfFrame)
			}
			if r.Op != OpGapInA {
				v++
			}

			*Q = append(*Q, a)
			*S = append(*S, b)
			switch {
			case r.Op == OpShiftAheadOne:
				*A = append(*A, '/')
			case r.Op == OpShiftAheadTwo:
				*A = append(*A, '\\')
			case a == b:
				*A = append(*A, '|')
			default:
				*A = append(*A, ' ')
			}
		}
	}

	return Q, A, S
}

// subjectResidue returns the subject residue ending before the offset h.
func subjectResidue(s []byte, h int, outOfFrame bool) byte {
	if outOfFrame {
		return s[h-3]
	}
	return s[h-1]
}

// RecycleAlignmentText recycles alignment text.
func RecycleAlignmentText(Q, A, S *[]byte) {
	if Q != nil {
		*Q = (*Q)[:0]
		poolBytes.Put(Q)
	}
	if A != nil {
		*A = (*A)[:0]
		poolBytes.Put(A)
	}
	if S != nil {
		*S = (*S)[:0]
		poolBytes.Put(S)
	}
}
