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
	"errors"
	"fmt"
)

// ErrOutOfMemory means the traceback arena or the DP window could not grow.
// Only the current call fails, the Extender can be used again.
var ErrOutOfMemory = errors.New("xdrop: out of memory")

// ErrInvariantViolation means a programming error in the caller,
// e.g., a packed sequence longer than its buffer.
var ErrInvariantViolation = errors.New("xdrop: invariant violation")

// Sequence is a view of a sequence owned by the caller.
// If Packed is true, Data stores 2-bit nucleotide codes
// (4 bases per byte, the first base in the highest bits)
// and Len is the number of bases.
type Sequence struct {
	Data   []byte
	Packed bool
	Len    int
}

// NewSequence returns a one-byte-per-residue view.
func NewSequence(s []byte) Sequence {
	return Sequence{Data: s, Len: len(s)}
}

// NewPackedSequence returns a view of 2-bit packed nucleotides.
func NewPackedSequence(packed []byte, n int) Sequence {
	return Sequence{Data: packed, Packed: true, Len: n}
}

// nucleotide codes of 2-bit encoding.
var nucl2code = [256]byte{}

// code2nucl converts a 2-bit code back to a base.
var code2nucl = [4]byte{'A', 'C', 'G', 'T'}

func init() {
	for code, b := range code2nucl {
		nucl2code[b] = byte(code)
		nucl2code[b+32] = byte(code)
	}
}

// EncodeNucl converts ACGT bases to 2-bit codes (0-3).
// Other bytes become A.
func EncodeNucl(s []byte) []byte {
	codes := make([]byte, len(s))
	for i, b := range s {
		codes[i] = nucl2code[b]
	}
	return codes
}

// Pack2na packs 2-bit codes, 4 codes per byte.
func Pack2na(codes []byte) []byte {
	packed := make([]byte, (len(codes)+3)>>2)
	for i, c := range codes {
		packed[i>>2] |= (c & 3) << (6 - ((i & 3) << 1))
	}
	return packed
}

// Unpack2na unpacks n bases into dst, which is reused if it is large enough.
func Unpack2na(dst, packed []byte, n int) ([]byte, error) {
	if n < 0 || (n+3)>>2 > len(packed) {
		return dst, fmt.Errorf("unpack %d bases from %d bytes: %w", n, len(packed), ErrInvariantViolation)
	}
	if cap(dst) < n {
		dst = make([]byte, n, n+n>>2)
	}
	dst = dst[:n]
	for i := 0; i < n; i++ {
		dst[i] = (packed[i>>2] >> (6 - ((i & 3) << 1))) & 3
	}
	return dst, nil
}
