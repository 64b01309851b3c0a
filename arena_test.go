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
	"github.com/stretchr/testify/require"
)

func TestArenaAllocateRow(t *testing.T) {
	a := NewArena(0)

	r1, err := a.AllocateRow(10)
	require.NoError(t, err)
	assert.Len(t, r1, 10)
	assert.Equal(t, ARENA_CHUNK_MIN_SIZE, a.Bytes())

	r2, err := a.AllocateRow(100)
	require.NoError(t, err)
	assert.Len(t, r2, 100)
	assert.Equal(t, ARENA_CHUNK_MIN_SIZE, a.Bytes(), "rows share a chunk")

	// rows do not overlap
	for i := range r1 {
		r1[i] = 1
	}
	for i := range r2 {
		r2[i] = 2
	}
	for i := range r1 {
		assert.Equal(t, byte(1), r1[i])
	}

	// a big row needs a new chunk
	r3, err := a.AllocateRow(100000)
	require.NoError(t, err)
	assert.Len(t, r3, 100000)
	assert.Equal(t, ARENA_CHUNK_MIN_SIZE+chunkSize(100000), a.Bytes())
}

func TestArenaReset(t *testing.T) {
	a := NewArena(0)
	for i := 0; i < 100; i++ {
		_, err := a.AllocateRow(5000)
		require.NoError(t, err)
	}
	size := a.Bytes()

	a.Reset()
	for i := 0; i < 100; i++ {
		_, err := a.AllocateRow(5000)
		require.NoError(t, err)
	}
	assert.Equal(t, size, a.Bytes(), "memory should be reused after reset")
}

func TestArenaLimit(t *testing.T) {
	a := NewArena(ARENA_CHUNK_MIN_SIZE)

	_, err := a.AllocateRow(10)
	require.NoError(t, err)

	_, err = a.AllocateRow(ARENA_CHUNK_MIN_SIZE)
	require.ErrorIs(t, err, ErrOutOfMemory)

	// still usable
	a.Reset()
	_, err = a.AllocateRow(ARENA_CHUNK_MIN_SIZE)
	require.NoError(t, err)
}

func TestArenaSetLimit(t *testing.T) {
	a := NewArena(0)
	_, err := a.AllocateRow(10)
	require.NoError(t, err)
	_, err = a.AllocateRow(100000)
	require.NoError(t, err)
	assert.Equal(t, ARENA_CHUNK_MIN_SIZE+chunkSize(100000), a.Bytes())

	// the big chunk is freed
	a.Reset()
	a.SetLimit(2 * ARENA_CHUNK_MIN_SIZE)
	assert.Equal(t, ARENA_CHUNK_MIN_SIZE, a.Bytes())
	assert.Len(t, a.chunks, 1)

	_, err = a.AllocateRow(10)
	require.NoError(t, err)
	_, err = a.AllocateRow(100000)
	require.ErrorIs(t, err, ErrOutOfMemory)

	// no limit
	a.SetLimit(0)
	_, err = a.AllocateRow(100000)
	require.NoError(t, err)
}

func TestChunkSize(t *testing.T) {
	assert.Equal(t, ARENA_CHUNK_MIN_SIZE, chunkSize(1))
	assert.Equal(t, 2*ARENA_CHUNK_MIN_SIZE, chunkSize(100000))
}
