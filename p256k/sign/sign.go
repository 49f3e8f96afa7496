// Package sign builds signers from hex encoded keys and signs and verifies
// with hex encoded signatures.
package sign

import (
	"keycore.lol/digest"
	"keycore.lol/hex"
	"keycore.lol/p256k"
	"keycore.lol/secbuf"
	"keycore.lol/signer"
)

// FromHsec makes a signer from a 64 character hex secret key, hashing with h
// (SHA-256 when nil). The decoded bytes are wiped once loaded.
func FromHsec[V st | by](sec V, h digest.Func) (s signer.I, err er) {
	var sk by
	if sk, err = hex.DecFixed(st(sec), p256k.SecKeyLen); chk.E(err) {
		return
	}
	defer secbuf.Wipe(sk)
	sign := &p256k.Signer{Digest: h}
	if err = sign.InitSec(sk); chk.E(err) {
		return
	}
	s = sign
	return
}

// FromHpub makes a verifier from a hex compressed or uncompressed public key.
func FromHpub[V st | by](pub V, h digest.Func) (v signer.I, err er) {
	var pk by
	if pk, err = hex.Dec(st(pub)); chk.E(err) {
		return
	}
	sign := &p256k.Signer{Digest: h}
	if err = sign.InitPub(pk); chk.E(err) {
		return
	}
	v = sign
	return
}

// SignHex signs msg and returns the hex signature.
func SignHex(s signer.I, msg by) (sig st, err er) {
	var b by
	if b, err = s.Sign(msg); chk.E(err) {
		return
	}
	sig = hex.Enc(b)
	return
}

// VerifyHex checks a hex DER or compact signature of msg.
func VerifyHex(v signer.I, msg by, sig st) (valid bo, err er) {
	var b by
	if b, err = hex.Dec(sig); chk.D(err) {
		return
	}
	return v.Verify(msg, b)
}
