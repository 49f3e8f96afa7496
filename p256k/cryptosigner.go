package p256k

import (
	"crypto"
	"io"
)

type cryptoSigner struct{ k *PrivateKey }

// CryptoSigner adapts k to crypto.Signer. Sign takes a 32 byte digest, ignores
// rand since nonces are deterministic, and returns DER.
func (k *PrivateKey) CryptoSigner() crypto.Signer { return cryptoSigner{k} }

// Public returns the *PublicKey.
func (c cryptoSigner) Public() crypto.PublicKey { return c.k.PubKey() }

func (c cryptoSigner) Sign(_ io.Reader, d by, _ crypto.SignerOpts) (sig by, err er) {
	var s *Signature
	if s, err = c.k.SignDigest(d); err != nil {
		return
	}
	return s.DER(), nil
}
