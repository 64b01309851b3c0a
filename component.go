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
	"io"
)

const COMPONENT_BASE_SIZE = 256

var COMPONENT_SLICE = make([]*WaveFront, COMPONENT_BASE_SIZE)

// Component is the history of one state (M, I or D) of the greedy extender:
// a list of wavefronts for different costs.
// To support fast access, we use a list to them,
// the nil data means there's no such wavefront for a given cost.
type Component struct {
	WaveFronts []*WaveFront
}

// NewComponent creates a Component. Components live in an Extender
// and are reused with it.
func NewComponent() *Component {
	return &Component{
		WaveFronts: make([]*WaveFront, COMPONENT_BASE_SIZE),
	}
}

// ClearWaveFronts recycles all wavefronts of a component.
func ClearWaveFronts(cpt *Component) {
	for i, wf := range cpt.WaveFronts {
		if wf != nil {
			RecycleWaveFront(wf)
			cpt.WaveFronts[i] = nil // reset it to nil
		}
	}
}

// HasCost tells if there's a wavefront of cost s.
func (cpt *Component) HasCost(s uint32) bool {
	if s >= uint32(len(cpt.WaveFronts)) {
		return false
	}
	wf := cpt.WaveFronts[s]
	return wf != nil && !wf.Empty()
}

// KRange returns the k range of the wavefront of cost s-diff.
func (cpt *Component) KRange(s, diff uint32) (int, int, bool) {
	if diff > s {
		return 0, 0, false
	}
	s -= diff
	if s >= uint32(len(cpt.WaveFronts)) || cpt.WaveFronts[s] == nil {
		return 0, 0, false
	}
	wf := cpt.WaveFronts[s]
	if wf.Lo > wf.Hi {
		return 0, 0, false
	}
	return wf.Lo, wf.Hi, true
}

// Set sets the offset of diagonal k of cost s.
func (cpt *Component) Set(s uint32, k int, offset uint32, _type uint32) {
	for s >= uint32(len(cpt.WaveFronts)) {
		cpt.WaveFronts = append(cpt.WaveFronts, COMPONENT_SLICE...)
	}
	wf := cpt.WaveFronts[s]
	if wf == nil {
		wf = NewWaveFront()
		cpt.WaveFronts[s] = wf
	}

	wf.Set(k, offset, _type)
}

// Get returns the offset of diagonal k of cost s.
func (cpt *Component) Get(s uint32, k int) (uint32, uint32, bool) {
	if s >= uint32(len(cpt.WaveFronts)) || cpt.WaveFronts[s] == nil {
		return 0, 0, false
	}
	return cpt.WaveFronts[s].Get(k)
}

// GetAfterDiff returns the offset of diagonal k of cost s-diff.
func (cpt *Component) GetAfterDiff(s uint32, diff uint32, k int) (uint32, uint32, bool) {
	if diff > s {
		return 0, 0, false
	}
	return cpt.Get(s-diff, k)
}

// Print lists the component details.
func (cpt *Component) Print(wtr io.Writer, name string) {
	var ok bool
	var offset, _type uint32

	for _s, wf := range cpt.WaveFronts {
		if wf == nil || wf.Lo > wf.Hi {
			continue
		}

		fmt.Fprintf(wtr, "%s%d: k[%d, %d]: ", name, _s, wf.Lo, wf.Hi)
		for k := wf.Lo; k <= wf.Hi; k++ {
			offset, _type, ok = wf.Get(k)
			if ok {
				fmt.Fprintf(wtr, " k(%d):%d(%s)", k, offset, wfaType2str(_type))
			}
		}
		fmt.Fprintln(wtr)
	}
}
