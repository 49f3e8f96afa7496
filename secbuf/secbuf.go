// Package secbuf provides a fixed length container for secret bytes.
//
// A buffer owns its storage exclusively. Bytes given to FromBytes are copied,
// never aliased, and the contents can only be reached inside a With callback.
// Release scrambles and then zeroes the storage; a finalizer does the same for
// buffers that become unreachable without being released, so the wipe happens
// on every exit path of the code that created it.
//
// Equality between buffers, and between secret byte strings in general, goes
// through crypto/subtle so the time taken does not depend on where the inputs
// first differ.
package secbuf

import (
	"crypto/subtle"
	"runtime"
	"sync"

	"github.com/awnumar/memguard"
)

// ErrReleased is returned by With on a buffer that has been released.
var ErrReleased = errorf.D("secbuf: buffer has been released")

// T is a secret byte buffer of fixed length.
type T struct {
	mx       sync.Mutex
	b        by
	released bo
}

// New returns a zeroed buffer of length n.
func New(n no) (s *T) {
	if n < 0 {
		n = 0
	}
	s = &T{b: make(by, n)}
	runtime.SetFinalizer(s, (*T).Release)
	return
}

// FromBytes returns a buffer holding a copy of src. The caller still owns src
// and is responsible for wiping it if it was secret.
func FromBytes(src by) (s *T) {
	s = New(len(src))
	copy(s.b, src)
	return
}

// Len is the fixed length of the buffer. It stays the same after Release.
func (s *T) Len() no {
	if s == nil {
		return 0
	}
	return len(s.b)
}

// With calls fn with the buffer contents. The slice is only valid for the
// duration of the call and must not be retained; writes through it change the
// buffer. Calls on one buffer are serialized, so fn must not call With on the
// same buffer.
func (s *T) With(fn func(b by) er) (err er) {
	if s == nil {
		return ErrReleased
	}
	s.mx.Lock()
	defer s.mx.Unlock()
	if s.released {
		return ErrReleased
	}
	return fn(s.b)
}

// Copy returns a fresh copy of the contents, or nil if the buffer was
// released. The copy is outside the buffer's protection.
func (s *T) Copy() (b by) {
	_ = s.With(func(src by) (err er) {
		b = make(by, len(src))
		copy(b, src)
		return
	})
	return
}

// Equal compares two buffers in constant time. Released buffers are never
// equal to anything.
func (s *T) Equal(o *T) (eq bo) {
	if s == nil || o == nil {
		return false
	}
	if s == o {
		return !s.Released()
	}
	// one lock at a time, so opposite-order comparisons cannot deadlock
	a := s.Copy()
	if a == nil {
		return false
	}
	defer Wipe(a)
	return o.EqualBytes(a)
}

// EqualBytes compares the buffer with b in constant time.
func (s *T) EqualBytes(b by) (eq bo) {
	_ = s.With(func(a by) (err er) {
		eq = Equal(a, b)
		return
	})
	return
}

// Release scrambles the storage with random bytes, zeroes it, and marks the
// buffer unusable. It is safe to call more than once.
func (s *T) Release() {
	if s == nil {
		return
	}
	s.mx.Lock()
	defer s.mx.Unlock()
	if s.released {
		return
	}
	memguard.ScrambleBytes(s.b)
	memguard.WipeBytes(s.b)
	s.released = true
	runtime.SetFinalizer(s, nil)
}

// Released reports whether Release has run.
func (s *T) Released() (r bo) {
	if s == nil {
		return true
	}
	s.mx.Lock()
	r = s.released
	s.mx.Unlock()
	return
}

// Equal reports whether a and b hold the same bytes, taking time that depends
// only on their lengths.
func Equal(a, b by) bo { return subtle.ConstantTimeCompare(a, b) == 1 }

// Wipe zeroes b in place. Use it on transient copies of secrets that never
// entered a buffer.
func Wipe(b by) {
	if len(b) == 0 {
		return
	}
	memguard.WipeBytes(b)
	runtime.KeepAlive(b)
}
