package p256k

import (
	"keycore.lol/engine"
	"keycore.lol/hex"
	"keycore.lol/secbuf"
)

const (
	// CompactSigLen is the length of a compact r||s signature.
	CompactSigLen = engine.CompactLen
	// MaxDERSigLen is the longest DER signature.
	MaxDERSigLen = engine.MaxDERLen
)

// Signature is an ECDSA signature held in both its compact and DER encodings,
// which always carry the same r and s.
type Signature struct {
	compact by
	der     by
}

// SignatureFromCompact parses a 64 byte r||s signature and derives its DER
// encoding.
func SignatureFromCompact(b by) (sig *Signature, err er) {
	if len(b) != CompactSigLen {
		err = makeError(ErrInvalidSignature,
			"p256k: compact signature must be %d bytes, got %d", CompactSigLen, len(b))
		return
	}
	err = withContext(engine.ContextVerify, nil, ErrOther,
		func(c engine.Context) (err er) {
			var es engine.Signature
			if es, err = c.ParseCompact(b); err != nil {
				return makeError(ErrInvalidSignature,
					"p256k: compact signature does not parse: %v", err)
			}
			sig, err = newSignature(c, es)
			return
		})
	if err != nil {
		sig = nil
	}
	return
}

// SignatureFromDER parses a DER signature and derives its compact encoding.
func SignatureFromDER(b by) (sig *Signature, err er) {
	if len(b) == 0 || len(b) > MaxDERSigLen {
		err = makeError(ErrInvalidSignature,
			"p256k: DER signature must be 1 to %d bytes, got %d", MaxDERSigLen, len(b))
		return
	}
	err = withContext(engine.ContextVerify, nil, ErrOther,
		func(c engine.Context) (err er) {
			var es engine.Signature
			if es, err = c.ParseDER(b); err != nil {
				return makeError(ErrInvalidSignature,
					"p256k: DER signature does not parse: %v", err)
			}
			sig, err = newSignature(c, es)
			return
		})
	if err != nil {
		sig = nil
	}
	return
}

// newSignature serializes es both ways. The DER form is cut to the length the
// engine reports writing, never by looking at the bytes, since a valid
// encoding can end in 0x00.
func newSignature(c engine.Context, es engine.Signature) (sig *Signature, err er) {
	out := make(by, MaxDERSigLen)
	var n no
	if n, err = c.SerializeDER(out, es); err != nil {
		return nil, Other("p256k: DER serialization failed: " + err.Error())
	}
	sig = &Signature{compact: c.SerializeCompact(es), der: out[:n:n]}
	return
}

// Compact returns a copy of the 64 byte r||s encoding.
func (s *Signature) Compact() (b by) {
	b = make(by, len(s.compact))
	copy(b, s.compact)
	return
}

// DER returns a copy of the DER encoding.
func (s *Signature) DER() (b by) {
	b = make(by, len(s.der))
	copy(b, s.der)
	return
}

// Equal compares two signatures in constant time.
func (s *Signature) Equal(o *Signature) bo {
	if s == nil || o == nil {
		return false
	}
	return secbuf.Equal(s.compact, o.compact)
}

// String is the hex of the DER encoding.
func (s *Signature) String() st {
	if s == nil {
		return "<nil>"
	}
	return hex.Enc(s.der)
}
