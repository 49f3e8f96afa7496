// Package p256k manages secp256k1 ECDSA keys and signatures.
//
// A PrivateKey keeps its scalar in a secbuf.T that is wiped when the key is
// zeroed or collected, and derives its PublicKey exactly once, when it is
// built. Signatures are deterministic (RFC 6979) over a digest of the message,
// SHA-256 unless another digest.Func is given, and carry both their 64 byte
// compact and their DER encodings.
//
// Every call into the curve engine runs on a context created for that call
// alone, randomized with fresh entropy when a secret is involved, and
// destroyed before the call returns.
//
// Keys made by Generate are the one place where construction does not fail:
// if the entropy source or the derivation fails, the key comes back without
// a secret or public key, Valid reports false, and signing or exporting it
// returns ErrSigningError.
package p256k
