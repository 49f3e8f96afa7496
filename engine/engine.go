// Package engine is the boundary between key management and the secp256k1
// curve arithmetic.
//
// An Engine hands out a Context per operation. The context is created right
// before a derivation, signature or verification, randomized with fresh
// entropy when a secret is involved, and destroyed right after. Contexts are
// never cached or shared between goroutines.
//
// Two backends exist. Pure runs on github.com/decred/dcrd/dcrec/secp256k1/v4
// and is always built. Native binds the bitcoin-core libsecp256k1 C library
// through cgo and is built with the libsecp256k1 tag. Default returns the
// backend selected at build time.
package engine

const (
	// SecKeyLen is the length of a serialized secret scalar.
	SecKeyLen = 32
	// DigestLen is the length of a message digest accepted by Sign and Verify.
	DigestLen = 32
	// SeedLen is the length of a context randomization seed.
	SeedLen = 32
	// CompactLen is the length of a compact r||s signature.
	CompactLen = 64
	// MaxDERLen is the largest DER encoding of a secp256k1 signature.
	MaxDERLen = 72
	// PubKeyLenCompressed is the length of a compressed point.
	PubKeyLenCompressed = 33
	// PubKeyLenUncompressed is the length of an uncompressed point.
	PubKeyLenUncompressed = 65
)

// Flags selects what a context will be used for.
type Flags uint32

const (
	ContextSign Flags = 1 << iota
	ContextVerify
)

// Point is a parsed public key in the engine's own representation.
type Point struct{ data [64]byte }

// Signature is a parsed r,s pair in the engine's own representation.
type Signature struct{ data [64]byte }

// Engine creates per-operation contexts.
type Engine interface {
	// Name identifies the backend in logs.
	Name() st
	NewContext(flags Flags) (c Context, err er)
}

// Context is a single-use handle on the curve engine. It is not safe for
// concurrent use.
type Context interface {
	// Randomize mixes a SeedLen byte seed into the context's blinding state.
	Randomize(seed by) (err er)
	// DerivePublicKey computes the point for a secret scalar, which must be
	// SecKeyLen bytes in [1, n-1].
	DerivePublicKey(sec by) (p Point, err er)
	// SerializePoint returns the 33 or 65 byte encoding of p.
	SerializePoint(p Point, compressed bo) (b by)
	// ParsePublicKey parses a compressed or uncompressed point.
	ParsePublicKey(b by) (p Point, err er)
	// Sign produces a low-S ECDSA signature over a DigestLen digest with an
	// RFC 6979 nonce.
	Sign(digest, sec by) (sig Signature, err er)
	// Verify reports whether sig is a valid low-S signature of digest by p.
	Verify(digest by, sig Signature, p Point) (valid bo)
	// ParseCompact parses a 64 byte r||s signature.
	ParseCompact(b by) (sig Signature, err er)
	// SerializeCompact returns the 64 byte r||s encoding of sig.
	SerializeCompact(sig Signature) (b by)
	// ParseDER parses a DER encoded signature.
	ParseDER(b by) (sig Signature, err er)
	// SerializeDER writes the DER encoding of sig into out and returns the
	// number of bytes written. Bytes of out past n are not part of the
	// encoding.
	SerializeDER(out by, sig Signature) (n no, err er)
	// Destroy releases the context and wipes its state.
	Destroy()
}

// ErrDestroyed is returned by operations on a destroyed context.
var ErrDestroyed = errorf.D("engine: context has been destroyed")

func assertLen(b by, length no, name st) (err er) {
	if len(b) != length {
		err = errorf.D("engine: %s should be %d bytes, got %d", name, length, len(b))
	}
	return
}
