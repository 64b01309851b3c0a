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
	"github.com/biogo/biogo/align/matrix"
	"github.com/biogo/biogo/alphabet"
)

// Matrix is a substitution matrix keyed by residue bytes.
type Matrix [256][256]int32

// PSSM is a position-specific scoring matrix, one row per query position.
type PSSM [][256]int32

// Scoring contains the scoring parameters of an extension.
// Penalty is negative, as in BLAST.
type Scoring struct {
	GapOpen   int
	GapExtend int
	XDropoff  int

	Matrix *Matrix
	PSSM   PSSM // optional, rows override Matrix when set

	FrameShift int // penalty of a frame shift in the out-of-frame mode

	// Reward and Penalty of nucleotide match/mismatch,
	// only used by the greedy extender and the zero-gap cost derivation.
	Reward  int
	Penalty int
}

// DefaultScoring is the classic nucleotide setup with +5/-4 and 11/1 gaps.
var DefaultScoring = Scoring{
	GapOpen:    11,
	GapExtend:  1,
	XDropoff:   20,
	Matrix:     NewMatchMismatchMatrix(5, -4),
	FrameShift: 15,
	Reward:     5,
	Penalty:    -4,
}

// gapCosts returns the gap open and extension costs.
// A zero/zero setup means linear greedy costs, where a gap residue costs
// reward/2 - penalty.
func (p *Scoring) gapCosts() (open, ext int) {
	open, ext = p.GapOpen, p.GapExtend
	if open == 0 && ext == 0 {
		ext = p.Reward/2 - p.Penalty
	}
	return
}

// xDropoff returns the effective X-dropoff, which is never
// smaller than the cost of a one-residue gap.
func (p *Scoring) xDropoff() int {
	open, ext := p.gapCosts()
	return max(p.XDropoff, open+ext)
}

// NewMatchMismatchMatrix returns a matrix scoring identical bytes with reward
// and all the other pairs with penalty.
func NewMatchMismatchMatrix(reward, penalty int) *Matrix {
	var m Matrix
	for a := range m {
		for b := range m[a] {
			if a == b {
				m[a][b] = int32(reward)
			} else {
				m[a][b] = int32(penalty)
			}
		}
	}
	return &m
}

// row returns the scores of residue a.
func (m *Matrix) row(a byte) *[256]int32 {
	return &m[a]
}

// residues filled from the BLOSUM62 of biogo.
const blosum62Residues = "ARNDCQEGHILKMFPSTWYVBZX*"

// BLOSUM62 returns the BLOSUM62 matrix for upper and lower case amino acids.
// Bytes out of the alphabet score -4.
func BLOSUM62() *Matrix {
	m := NewMatchMismatchMatrix(-4, -4)
	var i, j int
	for _, a := range []byte(blosum62Residues) {
		if i = alphabet.Protein.IndexOf(alphabet.Letter(a)); i < 0 || i >= len(matrix.BLOSUM62) {
			continue
		}
		for _, b := range []byte(blosum62Residues) {
			if j = alphabet.Protein.IndexOf(alphabet.Letter(b)); j < 0 || j >= len(matrix.BLOSUM62[i]) {
				continue
			}
			for _, _a := range caseVariants(a) {
				for _, _b := range caseVariants(b) {
					m[_a][_b] = int32(matrix.BLOSUM62[i][j])
				}
			}
		}
	}
	return m
}

func caseVariants(c byte) []byte {
	if c >= 'A' && c <= 'Z' {
		return []byte{c, c + 32}
	}
	return []byte{c}
}
