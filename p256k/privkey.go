package p256k

import (
	"crypto/rand"
	"io"

	"keycore.lol/digest"
	"keycore.lol/engine"
	"keycore.lol/secbuf"
)

const (
	// SecKeyLen is the length of a serialized private key.
	SecKeyLen = engine.SecKeyLen
	// EntropyLen is how many bytes Generate reads from its entropy source.
	EntropyLen = 128
	// DigestLen is the length of a digest accepted by SignDigest.
	DigestLen = engine.DigestLen
)

// PrivateKey is a secp256k1 secret scalar and the public key derived from it.
// It is immutable apart from Zero, and safe for concurrent use.
type PrivateKey struct {
	sec *secbuf.T
	pub *PublicKey
}

// Generate makes a new key from crypto/rand.
func Generate() *PrivateKey { return GenerateFrom(rand.Reader) }

// GenerateFrom makes a new key from EntropyLen bytes of r. The first SecKeyLen
// bytes become the scalar and the next engine.SeedLen bytes randomize the
// context it is derived on. The entropy is wiped before returning.
//
// GenerateFrom does not return an error. If r fails or the scalar is out of
// range the key is returned without a secret or public key, Valid reports
// false, and every operation that needs the secret fails with
// ErrSigningError. No other scalar is substituted.
func GenerateFrom(r io.Reader) (k *PrivateKey) {
	k = &PrivateKey{}
	ent := secbuf.New(EntropyLen)
	defer ent.Release()
	err := ent.With(func(b by) (err er) {
		if _, err = io.ReadFull(r, b); chk.D(err) {
			return
		}
		k.sec = secbuf.FromBytes(b[:SecKeyLen])
		k.pub, err = derive(k.sec, b[SecKeyLen:SecKeyLen+engine.SeedLen])
		return
	})
	if err != nil {
		log.W.F("p256k: key generation failed, the key is unusable: %v", err)
		k.sec.Release()
		k.sec, k.pub = nil, nil
	}
	return
}

// PrivateKeyFromBytes imports a 32 byte big-endian scalar in [1, n-1]. The
// bytes are copied; the caller keeps ownership of b.
func PrivateKeyFromBytes(b by) (k *PrivateKey, err er) {
	if len(b) != SecKeyLen {
		err = makeError(ErrInvalidPrivateKey,
			"p256k: private key must be %d bytes, got %d", SecKeyLen, len(b))
		return
	}
	sec := secbuf.FromBytes(b)
	seed := newSeed()
	defer secbuf.Wipe(seed)
	var pub *PublicKey
	if pub, err = derive(sec, seed); err != nil {
		sec.Release()
		return
	}
	k = &PrivateKey{sec: sec, pub: pub}
	return
}

// derive computes the compressed public key of sec on a context randomized
// with seed.
func derive(sec *secbuf.T, seed by) (pub *PublicKey, err er) {
	err = withContext(engine.ContextSign, seed, ErrOther,
		func(c engine.Context) er {
			return sec.With(func(s by) (err er) {
				var p engine.Point
				if p, err = c.DerivePublicKey(s); err != nil {
					return makeError(ErrInvalidPrivateKey,
						"p256k: private key is not a valid scalar")
				}
				pub = &PublicKey{b: c.SerializePoint(p, true)}
				return
			})
		})
	return
}

// Valid reports whether the key holds a secret and its public key.
func (k *PrivateKey) Valid() bo {
	return k != nil && k.pub != nil && !k.sec.Released()
}

// PubKey returns the public key derived when k was built, or nil if k is not
// valid.
func (k *PrivateKey) PubKey() *PublicKey {
	if k == nil {
		return nil
	}
	return k.pub
}

// Bytes returns a copy of the 32 byte secret. The copy is outside the key's
// protection and wiping it is up to the caller.
func (k *PrivateKey) Bytes() (b by, err er) {
	if !k.Valid() {
		err = makeError(ErrSigningError, "p256k: private key has no secret")
		return
	}
	if b = k.sec.Copy(); b == nil {
		err = makeError(ErrSigningError, "p256k: private key has no secret")
	}
	return
}

// Sign signs the SHA-256 digest of msg.
func (k *PrivateKey) Sign(msg by) (sig *Signature, err er) {
	return k.SignWith(digest.SHA256, msg)
}

// SignWith signs the digest of msg made by h.
func (k *PrivateKey) SignWith(h digest.Func, msg by) (sig *Signature, err er) {
	d := h(msg)
	return k.SignDigest(d[:])
}

// SignDigest signs a 32 byte digest with an RFC 6979 nonce, so signing the
// same digest with the same key always gives the same signature.
func (k *PrivateKey) SignDigest(d by) (sig *Signature, err er) {
	if !k.Valid() {
		err = makeError(ErrSigningError, "p256k: private key has no secret")
		return
	}
	if len(d) != DigestLen {
		err = makeError(ErrSigningError,
			"p256k: digest must be %d bytes, got %d", DigestLen, len(d))
		return
	}
	err = withSeededContext(engine.ContextSign, ErrSigningError,
		func(c engine.Context) er {
			return k.sec.With(func(s by) (err er) {
				var es engine.Signature
				if es, err = c.Sign(d, s); err != nil {
					return makeError(ErrSigningError, "p256k: signing failed: %v", err)
				}
				sig, err = newSignature(c, es)
				return
			})
		})
	if err != nil {
		// a key zeroed while this call waited on its buffer has no secret
		if k.sec.Released() {
			err = makeError(ErrSigningError, "p256k: private key has no secret")
		}
		sig = nil
	}
	return
}

// Equal compares the secrets of two valid keys in constant time.
func (k *PrivateKey) Equal(o *PrivateKey) bo {
	if !k.Valid() || !o.Valid() {
		return false
	}
	return k.sec.Equal(o.sec)
}

// Zero wipes the secret. The public key stays available, but the key is no
// longer Valid and cannot sign.
func (k *PrivateKey) Zero() {
	if k == nil {
		return
	}
	k.sec.Release()
}

// String shows the public key only.
func (k *PrivateKey) String() st {
	if !k.Valid() {
		return "p256k.PrivateKey(invalid)"
	}
	return "p256k.PrivateKey(" + k.pub.String() + ")"
}
