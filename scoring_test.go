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
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBLOSUM62(t *testing.T) {
	m := BLOSUM62()

	for _, c := range []struct {
		a, b  byte
		score int32
	}{
		{'A', 'A', 4},
		{'W', 'W', 11},
		{'C', 'C', 9},
		{'A', 'R', -1},
		{'E', 'K', 1},
		{'W', 'Q', -2},
		{'I', 'V', 3},
	} {
		assert.Equal(t, c.score, m[c.a][c.b], "%c-%c", c.a, c.b)
		assert.Equal(t, c.score, m[c.b][c.a], "%c-%c", c.b, c.a)
		assert.Equal(t, c.score, m[c.a+32][c.b+32], "%c-%c", c.a, c.b)
	}

	// out of the alphabet
	assert.Equal(t, int32(-4), m['#']['A'])

	// identities score the highest in each row
	for _, a := range []byte("ARNDCQEGHILKMFPSTWYV") {
		for _, b := range []byte("ARNDCQEGHILKMFPSTWYV") {
			if a != b {
				assert.Less(t, m[a][b], m[a][a], "%c-%c", a, b)
			}
		}
	}
}

func TestScoringCosts(t *testing.T) {
	p := &Scoring{GapOpen: 11, GapExtend: 1, XDropoff: 5}
	open, ext := p.gapCosts()
	assert.Equal(t, 11, open)
	assert.Equal(t, 1, ext)
	assert.Equal(t, 12, p.xDropoff())

	// linear gaps from the reward and the penalty
	p = &Scoring{Reward: 2, Penalty: -3, XDropoff: 20}
	open, ext = p.gapCosts()
	assert.Equal(t, 0, open)
	assert.Equal(t, 4, ext)
	assert.Equal(t, 20, p.xDropoff())
}
