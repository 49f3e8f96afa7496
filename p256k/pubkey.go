package p256k

import (
	"keycore.lol/digest"
	"keycore.lol/engine"
	"keycore.lol/hex"
	"keycore.lol/secbuf"
)

const (
	// PubKeyLenCompressed is the length of a compressed public key.
	PubKeyLenCompressed = engine.PubKeyLenCompressed
	// PubKeyLenUncompressed is the length of an uncompressed public key.
	PubKeyLenUncompressed = engine.PubKeyLenUncompressed
)

const (
	pubKeyEven         = 0x02
	pubKeyOdd          = 0x03
	pubKeyUncompressed = 0x04
)

// PublicKey is a secp256k1 point, held in its 33 byte compressed form.
type PublicKey struct {
	b by
}

// PublicKeyFromBytes parses a 33 byte compressed or 65 byte uncompressed
// point. Hybrid encodings (prefix 0x06 and 0x07) are rejected.
func PublicKeyFromBytes(b by) (p *PublicKey, err er) {
	switch {
	case len(b) == PubKeyLenCompressed && (b[0] == pubKeyEven || b[0] == pubKeyOdd):
	case len(b) == PubKeyLenUncompressed && b[0] == pubKeyUncompressed:
	default:
		err = makeError(ErrInvalidPublicKey,
			"p256k: public key must be %d bytes with prefix 2 or 3, or %d bytes with prefix 4",
			PubKeyLenCompressed, PubKeyLenUncompressed)
		return
	}
	err = withContext(engine.ContextVerify, nil, ErrOther,
		func(c engine.Context) (err er) {
			var pt engine.Point
			if pt, err = c.ParsePublicKey(b); err != nil {
				return makeError(ErrInvalidPublicKey,
					"p256k: public key is not a point on the curve")
			}
			p = &PublicKey{b: c.SerializePoint(pt, true)}
			return
		})
	if err != nil {
		p = nil
	}
	return
}

// Bytes returns a copy of the compressed encoding.
func (p *PublicKey) Bytes() (b by) {
	b = make(by, len(p.b))
	copy(b, p.b)
	return
}

// BytesUncompressed returns the 65 byte uncompressed encoding.
func (p *PublicKey) BytesUncompressed() (b by, err er) {
	err = withContext(engine.ContextVerify, nil, ErrOther,
		func(c engine.Context) (err er) {
			var pt engine.Point
			if pt, err = c.ParsePublicKey(p.b); err != nil {
				return makeError(ErrInvalidPublicKey, "p256k: %v", err)
			}
			b = c.SerializePoint(pt, false)
			return
		})
	return
}

// Verify reports whether sig is a signature of the SHA-256 digest of msg.
func (p *PublicKey) Verify(sig *Signature, msg by) bo {
	return p.VerifyWith(digest.SHA256, sig, msg)
}

// VerifyWith reports whether sig is a signature of the digest of msg made by h.
func (p *PublicKey) VerifyWith(h digest.Func, sig *Signature, msg by) bo {
	d := h(msg)
	return p.VerifyDigest(sig, d[:])
}

// VerifyDigest reports whether sig is a signature of the 32 byte digest d.
// A signature that does not verify is not an error. Only low-S signatures
// verify.
func (p *PublicKey) VerifyDigest(sig *Signature, d by) (valid bo) {
	if p == nil || sig == nil || len(d) != DigestLen {
		return false
	}
	err := withContext(engine.ContextVerify, nil, ErrOther,
		func(c engine.Context) (err er) {
			var pt engine.Point
			if pt, err = c.ParsePublicKey(p.b); chk.T(err) {
				return
			}
			var es engine.Signature
			if es, err = c.ParseCompact(sig.compact); chk.T(err) {
				return
			}
			valid = c.Verify(d, es, pt)
			return
		})
	if err != nil {
		return false
	}
	if !valid {
		log.T.Ln("p256k: signature does not verify")
	}
	return
}

// Equal reports whether two public keys are the same point.
func (p *PublicKey) Equal(o *PublicKey) bo {
	if p == nil || o == nil {
		return false
	}
	return secbuf.Equal(p.b, o.b)
}

// String is the hex of the compressed encoding.
func (p *PublicKey) String() st {
	if p == nil {
		return "<nil>"
	}
	return hex.Enc(p.b)
}
