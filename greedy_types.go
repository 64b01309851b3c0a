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

// The number of bits to save the origin of an offset.
const wfaTypeBits uint32 = 4
const wfaTypeMask uint32 = (1 << wfaTypeBits) - 1

const (
	// origins of offsets in the greedy history, saved as the lowest bits of the offset.
	wfaInsertOpen uint32 = iota + 1 // I from M, the subject advances
	wfaInsertExt                    // I from I
	wfaDeleteOpen                   // D from M, the query advances
	wfaDeleteExt                    // D from D
	wfaMismatch                     // M from M
	wfaMatch                        // the origin, only matches
	wfaFromInsert                   // M from I of the same cost
	wfaFromDelete                   // M from D of the same cost
)

// for showing offsets.
func wfaType2str(t uint32) string {
	switch t {
	case wfaInsertOpen:
		return "I.O"
	case wfaInsertExt:
		return "I.E"
	case wfaDeleteOpen:
		return "D.O"
	case wfaDeleteExt:
		return "D.E"
	case wfaMismatch:
		return "Mis"
	case wfaMatch:
		return "Mat"
	case wfaFromInsert:
		return "M.I"
	case wfaFromDelete:
		return "M.D"
	default:
		return "N/A"
	}
}
