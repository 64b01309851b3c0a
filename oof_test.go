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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// the standard genetic code, in the order of TCAG.
const geneticCode = "FFLLSSSSYY**CC*WLLLLPPPPHHQQRRRRIIIMTTTTNNKKSSRRVVVVAAAADDEEGGGG"

var tcag = [256]int{'T': 0, 'C': 1, 'A': 2, 'G': 3}

// mixedFrame translates every codon, i.e., the three frames interleaved.
func mixedFrame(nt []byte) []byte {
	aa := make([]byte, len(nt)-2)
	for i := range aa {
		aa[i] = geneticCode[tcag[nt[i]]<<4|tcag[nt[i+1]]<<2|tcag[nt[i+2]]]
	}
	return aa
}

var codonOf = map[byte]string{
	'M': "ATG", 'K': "AAA", 'V': "GTT", 'L': "CTG", 'A': "GCT",
	'W': "TGG", 'T': "ACC", 'R': "CGT", 'P': "CCG", 'Q': "CAG",
	'E': "GAA", 'S': "TCT", 'G': "GGC", 'H': "CAT", 'Y': "TAC",
	'F': "TTC", 'N': "AAC", 'D': "GAT", 'C': "TGC", 'I': "ATT",
}

func reverseTranslate(protein []byte) []byte {
	var buf bytes.Buffer
	for _, a := range protein {
		buf.WriteString(codonOf[a])
	}
	return buf.Bytes()
}

func proteinScoring() *Scoring {
	return &Scoring{
		GapOpen:    11,
		GapExtend:  1,
		XDropoff:   40,
		Matrix:     BLOSUM62(),
		FrameShift: 15,
	}
}

func TestMixedFrame(t *testing.T) {
	q := []byte("MKVLAW")
	mixed := mixedFrame(reverseTranslate(q))
	assert.Len(t, mixed, 16)
	for i := range q {
		assert.Equal(t, q[i], mixed[i*3])
	}
}

func TestAlignOutOfFrameInFrame(t *testing.T) {
	p := proteinScoring()
	e := New(p)
	defer RecycleExtender(e)

	q := []byte("MKVLAWTRPQESGHYFNDCI")
	mixed := mixedFrame(reverseTranslate(q))

	var expected int
	for _, a := range q {
		expected += int(p.Matrix[a][a])
	}

	r, err := e.AlignOutOfFrame(q, mixed, 5, 15, true)
	require.NoError(t, err)
	defer RecycleAlignmentResult(r)

	assert.Equal(t, expected, r.Score)
	assert.Equal(t, 0, r.QueryStart)
	assert.Equal(t, len(q), r.QueryStop)
	assert.Equal(t, 0, r.SubjectStart)
	assert.Equal(t, 3*len(q), r.SubjectStop)
	assert.Equal(t, []EditRun{{OpSub, len(q)}}, r.Script.Runs)
}

// replayOutOfFrame rescores an out-of-frame alignment from its edit script.
func replayOutOfFrame(p *Scoring, q, mixed []byte, r *AlignmentResult) int {
	var score int
	v, h := r.QueryStart, r.SubjectStart
	for _, run := range r.Script.Runs {
		switch run.Op {
		case OpGapInA:
			score -= p.GapOpen + p.GapExtend*run.N
			h += 3 * run.N
		case OpGapInB:
			score -= p.GapOpen + p.GapExtend*run.N
			v += run.N
		default:
			for i := 0; i < run.N; i++ {
				h += outOfFrameSpans[run.Op][1]
				score += int(p.Matrix[q[v]][mixed[h-3]])
				if isFrameShift(run.Op) {
					score -= p.FrameShift
				}
				v++
			}
		}
	}
	return score
}

func TestAlignOutOfFrameShift(t *testing.T) {
	p := proteinScoring()
	e := New(p)
	defer RecycleExtender(e)

	q := []byte("MKVLAWTRPQESGHYFNDCI")
	nt := reverseTranslate(q)
	// one extra nucleotide after the 10th codon
	nt = append(nt[:30:30], append([]byte{'A'}, nt[30:]...)...)
	mixed := mixedFrame(nt)

	expected := -p.FrameShift
	for _, a := range q {
		expected += int(p.Matrix[a][a])
	}

	// seeds on the right and on the left of the frame shift
	for _, seed := range [][2]int{{2, 6}, {15, 46}} {
		for _, traceback := range []bool{false, true} {
			r, err := e.AlignOutOfFrame(q, mixed, seed[0], seed[1], traceback)
			require.NoError(t, err)

			assert.Equal(t, expected, r.Score)
			assert.Equal(t, 0, r.QueryStart)
			assert.Equal(t, len(q), r.QueryStop)
			assert.Equal(t, 0, r.SubjectStart)
			assert.Equal(t, len(nt), r.SubjectStop)

			if traceback {
				assert.Equal(t, []EditRun{{OpSub, 10}, {OpShiftAheadOne, 1}, {OpSub, 9}}, r.Script.Runs,
					"seed %v", seed)
				assert.Equal(t, "10M1/9M", r.Script.String())
				assert.Equal(t, r.Score, replayOutOfFrame(p, q, mixed, r))

				qLen, sLen := r.Script.Spans()
				assert.Equal(t, r.QueryStop-r.QueryStart, qLen)
				assert.Equal(t, r.SubjectStop-r.SubjectStart, sLen)

				Q, A, S := r.Script.AlignmentText(q, mixed, r.QueryStart, r.SubjectStart)
				assert.Equal(t, string(q), string(*Q))
				assert.Equal(t, string(q), string(*S))
				assert.Equal(t, "||||||||||/|||||||||", string(*A))
				RecycleAlignmentText(Q, A, S)
			} else {
				assert.Nil(t, r.Script)
			}
			RecycleAlignmentResult(r)
		}
	}

	// the last traceback was out-of-frame
	var buf bytes.Buffer
	e.PlotTraceback(&buf)
	assert.Contains(t, buf.String(), "out-of-frame")
}

func TestAlignOutOfFrameGaps(t *testing.T) {
	p := proteinScoring()
	e := New(p)
	defer RecycleExtender(e)

	q := []byte("MKVLAWTRPQESGHYFNDCI")
	gap := p.GapOpen + p.GapExtend

	var identity int
	for _, a := range q {
		identity += int(p.Matrix[a][a])
	}

	// an extra codon in the subject after the 10th one
	ntA := append(reverseTranslate(q[:10]), append([]byte("TGG"), reverseTranslate(q[10:])...)...)
	// an extra residue in the query after the 10th one
	qB := append(append([]byte{}, q[:10]...), append([]byte("W"), q[10:]...)...)
	ntB := reverseTranslate(q)

	tests := []struct {
		name        string
		q, nt       []byte
		qOff, ntOff int
		runs        []EditRun
		text        string
	}{
		{"extra codon, seed on the left", q, ntA, 2, 6,
			[]EditRun{{OpSub, 10}, {OpGapInA, 1}, {OpSub, 10}}, "10M1D10M"},
		{"extra codon, seed on the right", q, ntA, 15, 48,
			[]EditRun{{OpSub, 10}, {OpGapInA, 1}, {OpSub, 10}}, "10M1D10M"},
		{"missing codon, seed on the left", qB, ntB, 2, 6,
			[]EditRun{{OpSub, 10}, {OpGapInB, 1}, {OpSub, 10}}, "10M1I10M"},
		{"missing codon, seed on the right", qB, ntB, 16, 45,
			[]EditRun{{OpSub, 10}, {OpGapInB, 1}, {OpSub, 10}}, "10M1I10M"},
	}

	for _, test := range tests {
		mixed := mixedFrame(test.nt)

		r, err := e.AlignOutOfFrame(test.q, mixed, test.qOff, test.ntOff, true)
		require.NoError(t, err, test.name)

		assert.Equal(t, identity-gap, r.Score, test.name)
		assert.Equal(t, 0, r.QueryStart, test.name)
		assert.Equal(t, len(test.q), r.QueryStop, test.name)
		assert.Equal(t, 0, r.SubjectStart, test.name)
		assert.Equal(t, len(test.nt), r.SubjectStop, test.name)

		assert.Equal(t, test.runs, r.Script.Runs, test.name)
		assert.Equal(t, test.text, r.Script.String(), test.name)
		assert.Equal(t, r.Score, replayOutOfFrame(p, test.q, mixed, r), test.name)

		qLen, sLen := r.Script.Spans()
		assert.Equal(t, len(test.q), qLen, test.name)
		assert.Equal(t, len(test.nt), sLen, test.name)

		// score-only extensions agree
		r2, err := e.AlignOutOfFrame(test.q, mixed, test.qOff, test.ntOff, false)
		require.NoError(t, err, test.name)
		assert.Equal(t, r.Score, r2.Score, test.name)

		RecycleAlignmentResult(r)
		RecycleAlignmentResult(r2)
	}
}

func TestExtendOutOfFrameShort(t *testing.T) {
	e := New(proteinScoring())
	defer RecycleExtender(e)

	q := []byte("MKV")
	mixed := mixedFrame(reverseTranslate(q))
	ext, err := e.ExtendOutOfFrame(q, mixed, 0, 0, len(q), 2, false, true)
	require.NoError(t, err)
	assert.Equal(t, 0, ext.Score)
	assert.Empty(t, ext.Block.Runs)
	RecycleEditBlock(ext.Block)

	_, err = e.AlignOutOfFrame(q, mixed, 0, len(mixed), false)
	assert.ErrorIs(t, err, ErrInvariantViolation)
}
