// Copyright (c) Elliot Nunn
// Licensed under the MIT license

package decompressioncache

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"math/rand/v2"
	"testing"
	"testing/iotest"

	"github.com/stretchr/testify/require"
)

var testData = func() []byte {
	rng := rand.New(rand.NewPCG(7, 7))
	b := make([]byte, 10*BlockSize+123)
	for i := range b {
		b[i] = byte(rng.IntN(256))
	}
	return b
}()

// countingOpener hands out readers that dribble the data a few bytes at a time.
func countingOpener(data []byte, opens *int) Opener {
	return func() (io.Reader, error) {
		*opens++
		return iotest.HalfReader(bytes.NewReader(data)), nil
	}
}

func TestSpans(t *testing.T) {
	for _, size := range []int64{-1, int64(len(testData))} {
		var opens int
		r := New(countingOpener(testData, &opens), size, "spans")
		rng := rand.New(rand.NewPCG(1, 2))
		for range 200 {
			off := rng.Int64N(int64(len(testData)) + 100)
			n := rng.IntN(3 * BlockSize)
			t.Run(fmt.Sprintf("size=%d off=%d n=%d", size, off, n), func(t *testing.T) {
				buf := make([]byte, n)
				got, err := r.ReadAt(buf, off)

				want := max(0, min(int64(n), int64(len(testData))-off))
				require.Equal(t, int(want), got)
				if int64(n) > want {
					require.ErrorIs(t, err, io.EOF)
				} else {
					require.NoError(t, err)
				}
				if want > 0 {
					require.Equal(t, testData[off:off+want], buf[:got])
				}
			})
		}
	}
}

func TestForwardOnlyOpensOnce(t *testing.T) {
	var opens int
	r := New(countingOpener(testData, &opens), -1, "forward")
	buf := make([]byte, 1000)
	for off := int64(0); off < int64(len(testData)); off += 1000 {
		r.ReadAt(buf, off)
	}
	require.Equal(t, 1, opens)
}

func TestSize(t *testing.T) {
	var opens int
	r := New(countingOpener(testData, &opens), -1, "size")
	size, err := r.Size()
	require.NoError(t, err)
	require.EqualValues(t, len(testData), size)

	// exact multiple of the block size
	r = New(countingOpener(testData[:3*BlockSize], &opens), -1, "size2")
	size, err = r.Size()
	require.NoError(t, err)
	require.EqualValues(t, 3*BlockSize, size)

	r = New(countingOpener(nil, &opens), -1, "empty")
	size, err = r.Size()
	require.NoError(t, err)
	require.Zero(t, size)
}

var errBroken = errors.New("broken stream")

func TestDecompressionError(t *testing.T) {
	cut := 2*BlockSize + 100
	open := func() (io.Reader, error) {
		return io.MultiReader(bytes.NewReader(testData[:cut]), iotest.ErrReader(errBroken)), nil
	}
	r := New(open, -1, "broken")

	buf := make([]byte, 200)
	n, err := r.ReadAt(buf, int64(cut-150))
	require.ErrorIs(t, err, errBroken)
	require.Equal(t, 150, n)
	require.Equal(t, testData[cut-150:cut], buf[:n])

	_, err = r.ReadAt(buf, int64(5*BlockSize))
	require.ErrorIs(t, err, errBroken)

	n, err = r.ReadAt(buf, 0)
	require.NoError(t, err)
	require.Equal(t, 200, n)

	_, err = r.Size()
	require.ErrorIs(t, err, errBroken)
}

func TestNegativeOffset(t *testing.T) {
	var opens int
	r := New(countingOpener(testData, &opens), -1, "negative")
	_, err := r.ReadAt(make([]byte, 1), -1)
	require.ErrorIs(t, err, fs.ErrInvalid)
}

func TestSetCapacity(t *testing.T) {
	require.Error(t, SetCapacity(0))
	require.NoError(t, SetCapacity(4))
	defer SetCapacity(DefaultBlocks)

	var opens int
	r := New(countingOpener(testData, &opens), -1, "small")
	for _, off := range []int64{9 * BlockSize, 0, 5 * BlockSize, 1} {
		buf := make([]byte, BlockSize)
		n, err := r.ReadAt(buf, off)
		require.NoError(t, err)
		require.Equal(t, testData[off:off+int64(n)], buf[:n])
	}
}
