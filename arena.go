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
	"slices"
)

// ARENA_CHUNK_MIN_SIZE is the minimum size of a chunk of the traceback arena.
const ARENA_CHUNK_MIN_SIZE = 1 << 16

// Arena is a chunked, reusable byte buffer for traceback rows.
// Chunks are reset but never freed, so an Arena owned by a worker
// stops allocating after a few alignments.
type Arena struct {
	chunks []*arenaChunk

	maxBytes int // 0 for no limit
	bytes    int
}

type arenaChunk struct {
	buf  []byte
	used int
}

// NewArena creates an Arena. maxBytes limits the total size of chunks,
// 0 means unlimited.
func NewArena(maxBytes int) *Arena {
	return &Arena{
		chunks:   make([]*arenaChunk, 0, 8),
		maxBytes: maxBytes,
	}
}

// Reset marks all chunks as empty, the memory is kept.
func (a *Arena) Reset() {
	for _, c := range a.chunks {
		c.used = 0
	}
}

// SetLimit changes the limit of the total size of chunks, 0 means unlimited.
// It should be called on a reset arena: the largest chunks are freed
// until the arena fits in the limit.
func (a *Arena) SetLimit(maxBytes int) {
	a.maxBytes = maxBytes
	if maxBytes <= 0 {
		return
	}
	var k int
	for a.bytes > maxBytes && len(a.chunks) > 0 {
		k = 0
		for i, c := range a.chunks {
			if len(c.buf) > len(a.chunks[k].buf) {
				k = i
			}
		}
		a.bytes -= len(a.chunks[k].buf)
		a.chunks = slices.Delete(a.chunks, k, k+1)
	}
}

// Bytes returns the total size of all chunks.
func (a *Arena) Bytes() int {
	return a.bytes
}

// chunkSize returns a generous size for a request of n bytes.
func chunkSize(n int) int {
	size := n + n*3/10
	if size < ARENA_CHUNK_MIN_SIZE {
		return ARENA_CHUNK_MIN_SIZE
	}
	// round up to the minimum chunk size
	return (size + ARENA_CHUNK_MIN_SIZE - 1) / ARENA_CHUNK_MIN_SIZE * ARENA_CHUNK_MIN_SIZE
}

// AllocateRow returns a writable region of n bytes. The content is not cleared.
func (a *Arena) AllocateRow(n int) ([]byte, error) {
	var c *arenaChunk
	for _, c = range a.chunks {
		if len(c.buf)-c.used >= n {
			row := c.buf[c.used : c.used+n : c.used+n]
			c.used += n
			return row, nil
		}
	}

	size := chunkSize(n)

	// an empty but too small chunk: replace its buffer
	for _, c = range a.chunks {
		if c.used == 0 {
			if a.maxBytes > 0 && a.bytes-len(c.buf)+size > a.maxBytes {
				return nil, fmt.Errorf("arena of %d bytes can not grow to %d: %w", a.bytes, a.bytes-len(c.buf)+size, ErrOutOfMemory)
			}
			a.bytes += size - len(c.buf)
			c.buf = make([]byte, size)
			c.used = n
			return c.buf[:n:n], nil
		}
	}

	if a.maxBytes > 0 && a.bytes+size > a.maxBytes {
		return nil, fmt.Errorf("arena of %d bytes can not grow to %d: %w", a.bytes, a.bytes+size, ErrOutOfMemory)
	}
	c = &arenaChunk{buf: make([]byte, size), used: n}
	a.chunks = append(a.chunks, c)
	a.bytes += size
	return c.buf[:n:n], nil
}
