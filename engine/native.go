//go:build libsecp256k1 && cgo

package engine

/*
#cgo LDFLAGS: -lsecp256k1
#include <secp256k1.h>
*/
import "C"

import (
	"unsafe"

	"keycore.lol/secbuf"
)

// Native is the bitcoin-core/libsecp256k1 backend.
var Native Engine = native{}

type (
	cContext = C.secp256k1_context
	cUchar   = C.uchar
	cPubKey  = C.secp256k1_pubkey
	cSig     = C.secp256k1_ecdsa_signature
)

type native struct{}

func (native) Name() st { return "bitcoin-core/libsecp256k1" }

func (native) NewContext(flags Flags) (c Context, err er) {
	var cf C.uint = C.SECP256K1_CONTEXT_NONE
	if flags&ContextSign != 0 {
		cf |= C.SECP256K1_CONTEXT_SIGN
	}
	if flags&ContextVerify != 0 {
		cf |= C.SECP256K1_CONTEXT_VERIFY
	}
	ctx := C.secp256k1_context_create(cf)
	if ctx == nil {
		err = errorf.E("engine: failed to create secp256k1 context")
		return
	}
	c = &nativeContext{ctx: ctx, flags: flags}
	return
}

type nativeContext struct {
	ctx   *cContext
	flags Flags
}

// toUchar points at the first byte of b. b must not be empty.
func toUchar(b by) *cUchar { return (*cUchar)(unsafe.Pointer(&b[0])) }

func (p *Point) c() *cPubKey { return (*cPubKey)(unsafe.Pointer(&p.data)) }

func (s *Signature) c() *cSig { return (*cSig)(unsafe.Pointer(&s.data)) }

func (c *nativeContext) Randomize(seed by) (err er) {
	if c.ctx == nil {
		return ErrDestroyed
	}
	if err = assertLen(seed, SeedLen, "seed"); chk.T(err) {
		return
	}
	if C.secp256k1_context_randomize(c.ctx, toUchar(seed)) != 1 {
		err = errorf.D("engine: context randomization failed")
	}
	return
}

func (c *nativeContext) DerivePublicKey(sec by) (p Point, err er) {
	if c.ctx == nil {
		return p, ErrDestroyed
	}
	if err = assertLen(sec, SecKeyLen, "secret key"); chk.T(err) {
		return
	}
	if C.secp256k1_ec_seckey_verify(c.ctx, toUchar(sec)) != 1 {
		err = errorf.D("engine: secret key is not in [1, n-1]")
		return
	}
	if C.secp256k1_ec_pubkey_create(c.ctx, p.c(), toUchar(sec)) != 1 {
		err = errorf.D("engine: public key derivation failed")
	}
	return
}

func (c *nativeContext) SerializePoint(p Point, compressed bo) (b by) {
	if c.ctx == nil {
		return
	}
	out := make(by, PubKeyLenUncompressed)
	l := C.size_t(len(out))
	var flag C.uint = C.SECP256K1_EC_UNCOMPRESSED
	if compressed {
		flag = C.SECP256K1_EC_COMPRESSED
	}
	C.secp256k1_ec_pubkey_serialize(c.ctx, toUchar(out), &l, p.c(), flag)
	return out[:l]
}

func (c *nativeContext) ParsePublicKey(b by) (p Point, err er) {
	if c.ctx == nil {
		return p, ErrDestroyed
	}
	if len(b) == 0 ||
		C.secp256k1_ec_pubkey_parse(c.ctx, p.c(), toUchar(b), C.size_t(len(b))) != 1 {
		err = errorf.D("engine: failed to parse public key")
	}
	return
}

func (c *nativeContext) Sign(digest, sec by) (sig Signature, err er) {
	if c.ctx == nil {
		return sig, ErrDestroyed
	}
	if c.flags&ContextSign == 0 {
		err = errorf.D("engine: context was not created for signing")
		return
	}
	if err = assertLen(digest, DigestLen, "digest"); chk.T(err) {
		return
	}
	if err = assertLen(sec, SecKeyLen, "secret key"); chk.T(err) {
		return
	}
	// a nil nonce function selects RFC 6979
	if C.secp256k1_ecdsa_sign(c.ctx, sig.c(), toUchar(digest), toUchar(sec),
		nil, nil) != 1 {
		err = errorf.D("engine: signing failed")
	}
	return
}

func (c *nativeContext) Verify(digest by, sig Signature, p Point) (valid bo) {
	if c.ctx == nil || len(digest) != DigestLen {
		return false
	}
	return C.secp256k1_ecdsa_verify(c.ctx, sig.c(), toUchar(digest), p.c()) == 1
}

func (c *nativeContext) ParseCompact(b by) (sig Signature, err er) {
	if c.ctx == nil {
		return sig, ErrDestroyed
	}
	if err = assertLen(b, CompactLen, "compact signature"); chk.T(err) {
		return
	}
	if C.secp256k1_ecdsa_signature_parse_compact(c.ctx, sig.c(), toUchar(b)) != 1 {
		err = errorf.D("engine: failed to parse compact signature")
		return
	}
	err = c.rejectZero(sig)
	return
}

// rejectZero fails signatures with a zero r or s. libsecp256k1 parses
// components that are zero or not below the group order into zero, where the
// pure backend refuses them.
func (c *nativeContext) rejectZero(sig Signature) (err er) {
	var zero [32]byte
	compact := c.SerializeCompact(sig)
	if secbuf.Equal(compact[:32], zero[:]) || secbuf.Equal(compact[32:], zero[:]) {
		err = errorf.D("engine: signature component is zero or not below the group order")
	}
	return
}

func (c *nativeContext) SerializeCompact(sig Signature) (b by) {
	b = make(by, CompactLen)
	if c.ctx == nil {
		return
	}
	C.secp256k1_ecdsa_signature_serialize_compact(c.ctx, toUchar(b), sig.c())
	return
}

func (c *nativeContext) ParseDER(b by) (sig Signature, err er) {
	if c.ctx == nil {
		return sig, ErrDestroyed
	}
	if len(b) == 0 ||
		C.secp256k1_ecdsa_signature_parse_der(c.ctx, sig.c(), toUchar(b), C.size_t(len(b))) != 1 {
		err = errorf.D("engine: failed to parse DER signature")
		return
	}
	err = c.rejectZero(sig)
	return
}

func (c *nativeContext) SerializeDER(out by, sig Signature) (n no, err er) {
	if c.ctx == nil {
		return 0, ErrDestroyed
	}
	if len(out) == 0 {
		err = errorf.D("engine: empty DER output buffer")
		return
	}
	l := C.size_t(len(out))
	if C.secp256k1_ecdsa_signature_serialize_der(c.ctx, toUchar(out), &l, sig.c()) != 1 {
		err = errorf.D("engine: DER signature needs %d bytes, buffer has %d",
			no(l), len(out))
		return
	}
	n = no(l)
	return
}

func (c *nativeContext) Destroy() {
	if c.ctx == nil {
		return
	}
	C.secp256k1_context_destroy(c.ctx)
	c.ctx = nil
}
