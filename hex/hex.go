// Package hex encodes and decodes lower case hexadecimal, with the append
// forms running on the SIMD codec from xhex.
package hex

import (
	"github.com/templexxx/xhex"
)

// Enc returns the hex encoding of b.
func Enc(b by) (s st) { return st(EncAppend(nil, b)) }

// Dec decodes a hex string.
func Dec(s st) (b by, err er) { return DecAppend(nil, by(s)) }

// DecFixed decodes a hex string that must decode to exactly n bytes.
func DecFixed(s st, n no) (b by, err er) {
	if len(s) != n*2 {
		err = errorf.D("hex: expected %d hex characters, got %d", n*2, len(s))
		return
	}
	return Dec(s)
}

// EncAppend appends the hex encoding of src to dst.
func EncAppend(dst, src by) (b by) {
	l := len(dst)
	dst = append(dst, make(by, len(src)*2)...)
	xhex.Encode(dst[l:], src)
	return dst
}

// DecAppend appends the bytes decoded from the hex in src to dst. The result
// is never nil on success. On error dst is returned unchanged.
func DecAppend(dst, src by) (b by, err er) {
	if len(src)%2 != 0 {
		err = errorf.D("hex: odd length input of %d characters", len(src))
		return dst, err
	}
	l := len(dst)
	b = append(dst, make(by, len(src)/2)...)
	if b == nil {
		b = by{}
	}
	if err = xhex.Decode(b[l:], src); chk.D(err) {
		return dst[:l], err
	}
	return
}
