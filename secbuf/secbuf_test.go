package secbuf

import (
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"lukechampine.com/frand"
)

func TestNewIsZeroed(t *testing.T) {
	s := New(128)
	defer s.Release()
	require.Equal(t, 128, s.Len())
	require.NoError(t, s.With(func(b by) er {
		for i := range b {
			if b[i] != 0 {
				t.Fatalf("byte %d not zero", i)
			}
		}
		return nil
	}))
}

func TestFromBytesCopies(t *testing.T) {
	src := frand.Bytes(32)
	orig := append(by{}, src...)
	s := FromBytes(src)
	defer s.Release()
	// mutating the source must not reach the buffer
	for i := range src {
		src[i] ^= 0xff
	}
	require.True(t, s.EqualBytes(orig))
	require.False(t, s.EqualBytes(src))
}

func TestCopyIsIndependent(t *testing.T) {
	s := FromBytes(frand.Bytes(32))
	defer s.Release()
	c := s.Copy()
	c[0] ^= 1
	require.False(t, s.EqualBytes(c))
}

func TestEqual(t *testing.T) {
	a := frand.Bytes(32)
	b := append(by{}, a...)
	b[31] ^= 0x80
	sa, sa2, sb := FromBytes(a), FromBytes(a), FromBytes(b)
	require.True(t, sa.Equal(sa2))
	require.True(t, sa.Equal(sa))
	require.False(t, sa.Equal(sb))
	require.False(t, sa.Equal(New(31)))
	require.False(t, sa.Equal(nil))
	sa2.Release()
	require.False(t, sa.Equal(sa2))
	require.False(t, sa2.Equal(sa2))
	require.True(t, Equal(a, a))
	require.False(t, Equal(a, b))
	require.False(t, Equal(a, a[:31]))
}

func TestReleaseZeroesStorage(t *testing.T) {
	secret := frand.Bytes(64)
	s := FromBytes(secret)
	var raw by
	// keep the backing slice past the borrow to inspect it after release
	require.NoError(t, s.With(func(b by) er { raw = b; return nil }))
	require.True(t, Equal(raw, secret))
	s.Release()
	require.True(t, s.Released())
	for i := range raw {
		if raw[i] != 0 {
			t.Fatalf("byte %d survived release", i)
		}
	}
	require.Equal(t, 64, s.Len())
	err := s.With(func(b by) er { return nil })
	require.True(t, errors.Is(err, ErrReleased))
	require.Nil(t, s.Copy())
	// releasing twice is harmless
	s.Release()
}

func TestWithPropagatesError(t *testing.T) {
	s := New(8)
	defer s.Release()
	want := errors.New("boom")
	require.Equal(t, want, s.With(func(b by) er { return want }))
}

func TestWipe(t *testing.T) {
	b := frand.Bytes(40)
	Wipe(b)
	require.Equal(t, make(by, 40), b)
	Wipe(nil)
}

func TestConcurrentEqual(t *testing.T) {
	a, b := FromBytes(frand.Bytes(32)), FromBytes(frand.Bytes(32))
	var wg sync.WaitGroup
	for i := range 64 {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			if i%2 == 0 {
				_ = a.Equal(b)
			} else {
				_ = b.Equal(a)
			}
		}(i)
	}
	wg.Wait()
}
