// Package btcec implements the signer.I interface with the btcd btcec/v2
// library alone, without the engine contexts and secret buffers of p256k. It
// produces the same keys and signatures and is used to check p256k against a
// second implementation.
package btcec

import (
	ec "github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/btcec/v2/ecdsa"

	"keycore.lol/digest"
	"keycore.lol/signer"
)

// Signer is an implementation of signer.I that uses the btcec library.
type Signer struct {
	Digest    digest.Func
	SecretKey *ec.PrivateKey
	PublicKey *ec.PublicKey
}

var _ signer.I = &Signer{}

func (s *Signer) hash(msg by) [digest.Size]byte {
	if s.Digest == nil {
		return digest.SHA256(msg)
	}
	return s.Digest(msg)
}

// Generate creates a new key pair.
func (s *Signer) Generate() (err er) {
	var sk *ec.PrivateKey
	if sk, err = ec.NewPrivateKey(); chk.E(err) {
		return
	}
	s.Zero()
	s.SecretKey, s.PublicKey = sk, sk.PubKey()
	return
}

// InitSec initialises the secret key from 32 raw bytes in [1, n-1].
func (s *Signer) InitSec(sec by) (err er) {
	if len(sec) != ec.PrivKeyBytesLen {
		err = errorf.E("btcec: secret key must be %d bytes, got %d",
			ec.PrivKeyBytesLen, len(sec))
		return
	}
	var k ec.ModNScalar
	if overflow := k.SetByteSlice(sec); overflow || k.IsZero() {
		err = errorf.E("btcec: secret key is not in [1, n-1]")
		return
	}
	k.Zero()
	s.Zero()
	s.SecretKey, s.PublicKey = ec.PrivKeyFromBytes(sec)
	return
}

// InitPub initializes the public key from a compressed or uncompressed point.
func (s *Signer) InitPub(pub by) (err er) {
	var pk *ec.PublicKey
	if pk, err = ec.ParsePubKey(pub); chk.E(err) {
		return
	}
	s.Zero()
	s.SecretKey, s.PublicKey = nil, pk
	return
}

// Sec returns the secret key bytes.
func (s *Signer) Sec() (b by) {
	if s.SecretKey == nil {
		return
	}
	return s.SecretKey.Serialize()
}

// Pub returns the compressed public key bytes.
func (s *Signer) Pub() (b by) {
	if s.PublicKey == nil {
		return
	}
	return s.PublicKey.SerializeCompressed()
}

// Sign creates a DER signature of the digest of msg.
func (s *Signer) Sign(msg by) (sig by, err er) {
	if s.SecretKey == nil {
		err = errorf.E("btcec: Signer not initialized")
		return
	}
	d := s.hash(msg)
	sig = ecdsa.Sign(s.SecretKey, d[:]).Serialize()
	return
}

// Verify checks a DER or 64 byte compact signature of the digest of msg.
func (s *Signer) Verify(msg, sig by) (valid bo, err er) {
	if s.PublicKey == nil {
		err = errorf.E("btcec: Pubkey not initialized")
		return
	}
	var si *ecdsa.Signature
	if si, err = parse(sig); chk.D(err) {
		return
	}
	d := s.hash(msg)
	valid = si.Verify(d[:], s.PublicKey)
	return
}

// parse reads a DER signature, or a compact one when the input is 64 bytes
// and is not DER.
func parse(b by) (sig *ecdsa.Signature, err er) {
	if sig, err = ecdsa.ParseDERSignature(b); err == nil || len(b) != 64 {
		return
	}
	var r, s ec.ModNScalar
	if r.SetByteSlice(b[:32]) || s.SetByteSlice(b[32:]) || r.IsZero() || s.IsZero() {
		err = errorf.D("btcec: malformed compact signature")
		return
	}
	return ecdsa.NewSignature(&r, &s), nil
}

// Zero wipes the secret key.
func (s *Signer) Zero() {
	if s.SecretKey == nil {
		return
	}
	s.SecretKey.Zero()
}
