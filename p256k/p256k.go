package p256k

import (
	"keycore.lol/digest"
	"keycore.lol/signer"
)

// Signer implements the signer.I interface over ECDSA.
//
// Either the secret or only the public key is populated, the former is for
// generating signatures, the latter is for verifying them. Messages are
// hashed with Digest, SHA-256 when it is nil, and signatures are produced in
// DER.
type Signer struct {
	Digest digest.Func
	key    *PrivateKey
	pub    *PublicKey
}

var _ signer.I = &Signer{}

func (s *Signer) digest() digest.Func {
	if s.Digest == nil {
		return digest.SHA256
	}
	return s.Digest
}

func (s *Signer) Generate() (err er) {
	k := Generate()
	if !k.Valid() {
		err = errorf.E("p256k: key generation failed")
		return
	}
	s.Zero()
	s.key, s.pub = k, k.PubKey()
	return
}

// InitSec loads a provided secret key into the signer. This also initializes
// a pubkey, as well as enabling creating signatures.
func (s *Signer) InitSec(sec by) (err er) {
	var k *PrivateKey
	if k, err = PrivateKeyFromBytes(sec); chk.E(err) {
		return
	}
	s.Zero()
	s.key, s.pub = k, k.PubKey()
	return
}

// InitPub initializes a signer to do verification, from a compressed or
// uncompressed public key.
func (s *Signer) InitPub(pub by) (err er) {
	var p *PublicKey
	if p, err = PublicKeyFromBytes(pub); chk.E(err) {
		return
	}
	s.Zero()
	s.key, s.pub = nil, p
	return
}

func (s *Signer) Sec() (b by) {
	b, _ = s.key.Bytes()
	return
}

func (s *Signer) Pub() (b by) {
	if s.pub == nil {
		return
	}
	return s.pub.Bytes()
}

func (s *Signer) Sign(msg by) (sig by, err er) {
	if !s.key.Valid() {
		err = errorf.E("p256k: secret not initialized")
		return
	}
	var sg *Signature
	if sg, err = s.key.SignWith(s.digest(), msg); chk.E(err) {
		return
	}
	sig = sg.DER()
	return
}

// Verify accepts a 64 byte compact signature or a DER signature.
func (s *Signer) Verify(msg, sig by) (valid bo, err er) {
	if s.pub == nil {
		err = errorf.E("p256k: PubKey not initialized")
		return
	}
	var sg *Signature
	if sg, err = ParseSignature(sig); chk.D(err) {
		return
	}
	valid = s.pub.VerifyWith(s.digest(), sg, msg)
	return
}

func (s *Signer) Zero() { s.key.Zero() }

// ParseSignature reads a signature that is either 64 bytes compact or DER. A
// 64 byte input is only tried as DER when its header says so.
func ParseSignature(b by) (sig *Signature, err er) {
	if len(b) != CompactSigLen {
		return SignatureFromDER(b)
	}
	if b[0] == 0x30 && no(b[1]) == CompactSigLen-2 {
		if sig, err = SignatureFromDER(b); err == nil {
			return
		}
	}
	return SignatureFromCompact(b)
}
