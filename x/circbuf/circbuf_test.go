package circbuf

import (
	"bytes"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trafficdots-go/errcode"
)

func readAll(t *testing.T, b *Buffer, n int) string {
	t.Helper()
	dst := make([]byte, n+1)
	got, err := b.Read(dst, n)
	require.NoError(t, err)
	require.Equal(t, n, got)
	require.Equal(t, byte(0), dst[n])
	return string(dst[:n])
}

func readMark(t *testing.T, b *Buffer, max int) string {
	t.Helper()
	dst := make([]byte, max+1)
	n, err := b.ReadFromMark(dst, max)
	require.NoError(t, err)
	return string(dst[:n])
}

func TestNewRejectsZero(t *testing.T) {
	_, err := New(0)
	assert.Equal(t, errcode.InvalidSize, err)
}

func TestZeroValueIsUninitialized(t *testing.T) {
	var b Buffer
	assert.Equal(t, errcode.Uninitialized, b.Store([]byte("x")))
	assert.Equal(t, errcode.Uninitialized, b.Mark(0, FromOldestChar))
}

func TestStoreGuards(t *testing.T) {
	b, _ := New(4)
	assert.Equal(t, errcode.InvalidSize, b.Store(nil))
	assert.Equal(t, errcode.InvalidSize, b.Store([]byte("12345")))
	assert.Equal(t, 0, b.Len())
}

func TestStoresReadBackInOrder(t *testing.T) {
	r := rand.New(rand.NewSource(1))
	for trial := 0; trial < 200; trial++ {
		size := 1 + r.Intn(40)
		b, _ := New(size)
		var want []byte
		for len(want) < size {
			k := 1 + r.Intn(size-len(want))
			chunk := make([]byte, k)
			r.Read(chunk)
			require.NoError(t, b.Store(chunk))
			want = append(want, chunk...)
		}
		assert.Equal(t, string(want), readAll(t, b, len(want)))
	}
}

func TestOverwriteDiscardsOldest(t *testing.T) {
	b, _ := New(8)
	require.NoError(t, b.Store([]byte("abcdefgh")))
	require.NoError(t, b.Store([]byte("123")))
	assert.Equal(t, 8, b.Len())
	assert.Equal(t, "defgh123", readAll(t, b, 8))
	assert.Equal(t, "h123", readAll(t, b, 4))
}

func TestReadGuards(t *testing.T) {
	b, _ := New(8)
	require.NoError(t, b.Store([]byte("abc")))
	dst := make([]byte, 16)
	_, err := b.Read(dst, 0)
	assert.Equal(t, errcode.InvalidSize, err)
	_, err = b.Read(dst, 4)
	assert.Equal(t, errcode.InvalidSize, err)
	_, err = b.Read(make([]byte, 2), 3)
	assert.Equal(t, errcode.InvalidSize, err)
}

func TestLostMarkExactlyWhenWindowCoversMark(t *testing.T) {
	const size = 7
	for pre := 1; pre <= size; pre++ {
		for markAt := 0; markAt < pre; markAt++ {
			for k := 1; k <= size; k++ {
				b, _ := New(size)
				require.NoError(t, b.Store(bytes.Repeat([]byte{'x'}, pre)))
				require.NoError(t, b.Mark(markAt, FromOldestChar))
				mark := b.mark
				covered := false
				for i := 0; i < k; i++ {
					if (b.end+i)%size == mark {
						covered = true
					}
				}
				err := b.Store(bytes.Repeat([]byte{'y'}, k))
				if covered {
					assert.Equal(t, errcode.LostMark, err, "pre=%d mark=%d k=%d", pre, markAt, k)
					assert.False(t, b.HasMark())
				} else {
					assert.NoError(t, err, "pre=%d mark=%d k=%d", pre, markAt, k)
					assert.True(t, b.HasMark())
					assert.Equal(t, mark, b.mark)
				}
			}
		}
	}
}

func TestMarkFromPrevMark(t *testing.T) {
	b, _ := New(16)
	assert.Equal(t, errcode.LostMark, b.Mark(2, FromPrevMark))

	require.NoError(t, b.Store([]byte("0123456789")))
	require.NoError(t, b.Mark(2, FromOldestChar))
	assert.Equal(t, "23456789", readMark(t, b, 16))

	require.NoError(t, b.Mark(3, FromPrevMark))
	assert.Equal(t, "56789", readMark(t, b, 16))

	// the most recent byte is reachable, one past it is not
	assert.Equal(t, errcode.InvalidSize, b.Mark(5, FromPrevMark))
	require.NoError(t, b.Mark(4, FromPrevMark))
	assert.Equal(t, "9", readMark(t, b, 16))
}

func TestMarkFromPrevMarkAcrossWrap(t *testing.T) {
	b, _ := New(6)
	require.NoError(t, b.Store([]byte("abcdef")))
	require.NoError(t, b.Store([]byte("gh"))) // backing is now "ghcdef"
	require.NoError(t, b.Mark(3, FromOldestChar))
	assert.Equal(t, "fgh", readMark(t, b, 6))
	require.NoError(t, b.Mark(2, FromPrevMark))
	assert.Equal(t, "h", readMark(t, b, 6))
	assert.Equal(t, errcode.InvalidSize, b.Mark(1, FromPrevMark))
}

func TestMarkFromRecentAndOldest(t *testing.T) {
	b, _ := New(8)
	require.NoError(t, b.Store([]byte("abcdef")))

	require.NoError(t, b.Mark(0, FromRecentChar))
	assert.Equal(t, "f", readMark(t, b, 8))
	require.NoError(t, b.Mark(5, FromRecentChar))
	assert.Equal(t, "abcdef", readMark(t, b, 8))
	assert.Equal(t, errcode.InvalidSize, b.Mark(6, FromRecentChar))

	require.NoError(t, b.Mark(0, FromOldestChar))
	assert.Equal(t, "abcdef", readMark(t, b, 8))
	assert.Equal(t, errcode.InvalidSize, b.Mark(6, FromOldestChar))
	// failed marks leave the previous mark in place
	assert.Equal(t, "abcdef", readMark(t, b, 8))
}

func TestReadFromMarkBounds(t *testing.T) {
	b, _ := New(8)
	_, err := b.ReadFromMark(make([]byte, 4), 3)
	assert.Equal(t, errcode.LostMark, err)

	require.NoError(t, b.Store([]byte("abcdefgh")))
	require.NoError(t, b.Store([]byte("ij")))
	require.NoError(t, b.Mark(0, FromOldestChar))

	assert.Equal(t, "cde", readMark(t, b, 3))

	// dst smaller than max: one byte is kept for the terminator
	dst := make([]byte, 4)
	n, err := b.ReadFromMark(dst, 8)
	require.NoError(t, err)
	assert.Equal(t, 3, n)
	assert.Equal(t, []byte{'c', 'd', 'e', 0}, dst)

	assert.Equal(t, "cdefghij", readMark(t, b, 20))
	assert.Equal(t, 8, b.FromMark())
}
