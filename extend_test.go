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
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtendEmpty(t *testing.T) {
	e := New(nuclScoring(20))
	defer RecycleExtender(e)

	q := []byte("ACGT")
	for _, mn := range [][2]int{{0, 4}, {4, 0}, {-1, 3}} {
		ext, err := e.ExtendScore(q, q, 0, 0, mn[0], mn[1], false)
		require.NoError(t, err)
		assert.Equal(t, 0, ext.Score)
		assert.Equal(t, 0, ext.QueryLen)
		assert.Equal(t, 0, ext.SubjectLen)

		ext, err = e.ExtendTraceback(q, q, 0, 0, mn[0], mn[1], false)
		require.NoError(t, err)
		assert.Equal(t, 0, ext.Score)
		assert.Empty(t, ext.Block.Runs)
		RecycleEditBlock(ext.Block)
	}
}

func TestExtendDirections(t *testing.T) {
	e := New(nuclScoring(20))
	defer RecycleExtender(e)

	q := []byte("TTTTACGTACGT")
	s := []byte("GGACGTACGTCC")

	// rightward from q[4] and s[2]
	ext, err := e.ExtendTraceback(q, s, 4, 2, len(q)-4, len(s)-2, false)
	require.NoError(t, err)
	assert.Equal(t, 40, ext.Score)
	assert.Equal(t, 8, ext.QueryLen)
	assert.Equal(t, 8, ext.SubjectLen)
	assert.Equal(t, []EditRun{{OpSub, 8}}, ext.Block.Runs)
	RecycleEditBlock(ext.Block)

	// leftward from q[11] and s[9]
	ext, err = e.ExtendTraceback(q, s, 11, 9, 12, 10, true)
	require.NoError(t, err)
	assert.Equal(t, 40, ext.Score)
	assert.Equal(t, 8, ext.QueryLen)
	assert.Equal(t, 8, ext.SubjectLen)
	RecycleEditBlock(ext.Block)
}

func TestExtendXDropMonotonic(t *testing.T) {
	q := []byte("ACGTACGTAC" + "TTTT" + "ACGTACGTACGTACGT")
	s := []byte("ACGTACGTAC" + "GGGG" + "ACGTACGTACGTACGT")

	expected := map[int]int{12: 50, 20: 114, 40: 114}
	pre := 0
	for _, x := range []int{12, 20, 40} {
		e := New(nuclScoring(x))
		r, err := e.Align(q, s, 0, 0, StrategyDP, false)
		require.NoError(t, err)
		assert.Equal(t, expected[x], r.Score, "x-dropoff %d", x)
		assert.GreaterOrEqual(t, r.Score, pre)
		pre = r.Score
		RecycleAlignmentResult(r)
		RecycleExtender(e)
	}
}

func TestExtendPSSM(t *testing.T) {
	p := nuclScoring(30)
	for _, pr := range randomPairs(5, 200) {
		q, s := pr[0], pr[1]

		e := New(p)
		r1, err := e.Align(q, s, 10, 10, StrategyDP, true)
		require.NoError(t, err)
		RecycleExtender(e)

		// a PSSM made of matrix rows scores the same
		pp := *p
		pp.PSSM = make(PSSM, len(q))
		for i, b := range q {
			pp.PSSM[i] = p.Matrix[b]
		}
		pp.Matrix = nil
		e = New(&pp)
		r2, err := e.Align(q, s, 10, 10, StrategyDP, true)
		require.NoError(t, err)
		RecycleExtender(e)

		assert.Equal(t, r1.Score, r2.Score)
		assert.Equal(t, r1.Script.String(), r2.Script.String())
		RecycleAlignmentResult(r1)
		RecycleAlignmentResult(r2)
	}
}

func TestExtendLimits(t *testing.T) {
	q := []byte("ACGTACGTACGTACGTACGT")

	e := NewWithLimits(nuclScoring(20), 0, 4)
	_, err := e.ExtendScore(q, q, 0, 0, len(q), len(q), false)
	require.ErrorIs(t, err, ErrOutOfMemory)

	// the extender is still usable
	e.maxCells = 0
	ext, err := e.ExtendScore(q, q, 0, 0, len(q), len(q), false)
	require.NoError(t, err)
	assert.Equal(t, 100, ext.Score)
	RecycleExtender(e)

	// a pooled extender holding big chunks
	e = New(nuclScoring(20))
	_, err = e.arena.AllocateRow(4 * ARENA_CHUNK_MIN_SIZE)
	require.NoError(t, err)
	RecycleExtender(e)

	e = NewWithLimits(nuclScoring(20), ARENA_CHUNK_MIN_SIZE, 0)
	defer RecycleExtender(e)
	assert.LessOrEqual(t, e.arena.Bytes(), ARENA_CHUNK_MIN_SIZE)
	long := bytes.Repeat(q, 2000)
	_, err = e.ExtendTraceback(long, long, 0, 0, len(long), len(long), false)
	require.ErrorIs(t, err, ErrOutOfMemory)

	ext, err = e.ExtendTraceback(q, q, 0, 0, len(q), len(q), false)
	require.NoError(t, err)
	assert.Equal(t, 100, ext.Score)
	RecycleEditBlock(ext.Block)
}

func TestPlotTraceback(t *testing.T) {
	e := New(nuclScoring(20))
	defer RecycleExtender(e)

	q := []byte("ABCDEFGHI")
	s := []byte("ABCDFGHI")
	ext, err := e.ExtendTraceback(q, s, 0, 0, len(q), len(s), false)
	require.NoError(t, err)
	RecycleEditBlock(ext.Block)

	var buf bytes.Buffer
	e.PlotTraceback(&buf)
	text := buf.String()
	assert.Equal(t, len(q)+2, strings.Count(text, "\n"))
	assert.Contains(t, text, "⬊")
	assert.Contains(t, text, "↧")
}
