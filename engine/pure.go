package engine

import (
	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/decred/dcrd/dcrec/secp256k1/v4/ecdsa"
	"golang.org/x/crypto/cryptobyte"
	"golang.org/x/crypto/cryptobyte/asn1"

	"keycore.lol/secbuf"
)

// Pure is the pure Go backend.
//
// The decred field and scalar arithmetic is constant time and keeps no
// blinding state between calls, so Randomize only checks and holds the seed
// until the context is destroyed.
var Pure Engine = pure{}

type pure struct{}

func (pure) Name() st { return "decred/secp256k1" }

func (pure) NewContext(flags Flags) (c Context, err er) {
	c = &pureContext{flags: flags}
	return
}

type pureContext struct {
	flags     Flags
	seed      [SeedLen]byte
	destroyed bo
}

func (c *pureContext) Randomize(seed by) (err er) {
	if c.destroyed {
		return ErrDestroyed
	}
	if err = assertLen(seed, SeedLen, "seed"); chk.T(err) {
		return
	}
	copy(c.seed[:], seed)
	return
}

// scalar loads a secret into k, rejecting zero and values not below the
// group order.
func scalar(k *secp256k1.ModNScalar, sec by) (err er) {
	if err = assertLen(sec, SecKeyLen, "secret key"); chk.T(err) {
		return
	}
	if overflow := k.SetByteSlice(sec); overflow || k.IsZero() {
		k.Zero()
		err = errorf.D("engine: secret key is not in [1, n-1]")
	}
	return
}

func pointFrom(pub *secp256k1.PublicKey) (p Point) {
	copy(p.data[:], pub.SerializeUncompressed()[1:])
	return
}

func (p *Point) pub() *secp256k1.PublicKey {
	var x, y secp256k1.FieldVal
	x.SetByteSlice(p.data[:32])
	y.SetByteSlice(p.data[32:])
	return secp256k1.NewPublicKey(&x, &y)
}

func (s *Signature) rs() (r, sv secp256k1.ModNScalar) {
	r.SetByteSlice(s.data[:32])
	sv.SetByteSlice(s.data[32:])
	return
}

func (s *Signature) setRS(r, sv *secp256k1.ModNScalar) {
	r.PutBytesUnchecked(s.data[:32])
	sv.PutBytesUnchecked(s.data[32:])
}

func (c *pureContext) DerivePublicKey(sec by) (p Point, err er) {
	if c.destroyed {
		return p, ErrDestroyed
	}
	var k secp256k1.ModNScalar
	if err = scalar(&k, sec); err != nil {
		return
	}
	priv := secp256k1.NewPrivateKey(&k)
	k.Zero()
	p = pointFrom(priv.PubKey())
	priv.Zero()
	return
}

func (c *pureContext) SerializePoint(p Point, compressed bo) (b by) {
	if compressed {
		return p.pub().SerializeCompressed()
	}
	return p.pub().SerializeUncompressed()
}

func (c *pureContext) ParsePublicKey(b by) (p Point, err er) {
	if c.destroyed {
		return p, ErrDestroyed
	}
	var pub *secp256k1.PublicKey
	if pub, err = secp256k1.ParsePubKey(b); chk.T(err) {
		err = errorf.D("engine: failed to parse public key: %w", err)
		return
	}
	p = pointFrom(pub)
	return
}

func (c *pureContext) Sign(digest, sec by) (sig Signature, err er) {
	if c.destroyed {
		return sig, ErrDestroyed
	}
	if c.flags&ContextSign == 0 {
		err = errorf.D("engine: context was not created for signing")
		return
	}
	if err = assertLen(digest, DigestLen, "digest"); chk.T(err) {
		return
	}
	var k secp256k1.ModNScalar
	if err = scalar(&k, sec); err != nil {
		return
	}
	priv := secp256k1.NewPrivateKey(&k)
	k.Zero()
	defer priv.Zero()
	s := ecdsa.Sign(priv, digest)
	r, sv := s.R(), s.S()
	sig.setRS(&r, &sv)
	return
}

func (c *pureContext) Verify(digest by, sig Signature, p Point) (valid bo) {
	if c.destroyed || len(digest) != DigestLen {
		return false
	}
	r, s := sig.rs()
	// libsecp256k1 only accepts the lower of the two equivalent S values
	if r.IsZero() || s.IsZero() || s.IsOverHalfOrder() {
		return false
	}
	return ecdsa.NewSignature(&r, &s).Verify(digest, p.pub())
}

func (c *pureContext) ParseCompact(b by) (sig Signature, err er) {
	if c.destroyed {
		return sig, ErrDestroyed
	}
	if err = assertLen(b, CompactLen, "compact signature"); chk.T(err) {
		return
	}
	var r, s secp256k1.ModNScalar
	if r.SetByteSlice(b[:32]) || s.SetByteSlice(b[32:]) {
		err = errorf.D("engine: signature component is not below the group order")
		return
	}
	if r.IsZero() || s.IsZero() {
		err = errorf.D("engine: signature component is zero")
		return
	}
	sig.setRS(&r, &s)
	return
}

func (c *pureContext) SerializeCompact(sig Signature) (b by) {
	b = make(by, CompactLen)
	copy(b, sig.data[:])
	return
}

func (c *pureContext) ParseDER(b by) (sig Signature, err er) {
	if c.destroyed {
		return sig, ErrDestroyed
	}
	var s *ecdsa.Signature
	if s, err = ecdsa.ParseDERSignature(b); chk.T(err) {
		err = errorf.D("engine: failed to parse DER signature: %w", err)
		return
	}
	r, sv := s.R(), s.S()
	sig.setRS(&r, &sv)
	return
}

// SerializeDER encodes r and s exactly as held, without normalizing S, so the
// DER and compact forms of one signature always carry the same pair.
func (c *pureContext) SerializeDER(out by, sig Signature) (n no, err er) {
	if c.destroyed {
		return 0, ErrDestroyed
	}
	var b cryptobyte.Builder
	b.AddASN1(asn1.SEQUENCE, func(b *cryptobyte.Builder) {
		addUnsigned(b, sig.data[:32])
		addUnsigned(b, sig.data[32:])
	})
	var der by
	if der, err = b.Bytes(); chk.E(err) {
		return
	}
	if len(der) > len(out) {
		err = errorf.D("engine: DER signature needs %d bytes, buffer has %d",
			len(der), len(out))
		return
	}
	n = copy(out, der)
	return
}

// addUnsigned appends a big-endian unsigned value as a minimal ASN.1 INTEGER.
func addUnsigned(b *cryptobyte.Builder, v by) {
	b.AddASN1(asn1.INTEGER, func(b *cryptobyte.Builder) {
		for len(v) > 1 && v[0] == 0 {
			v = v[1:]
		}
		if v[0]&0x80 != 0 {
			b.AddUint8(0)
		}
		b.AddBytes(v)
	})
}

func (c *pureContext) Destroy() {
	if c.destroyed {
		return
	}
	secbuf.Wipe(c.seed[:])
	c.destroyed = true
}
