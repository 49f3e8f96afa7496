// Package signer is the interface a key backend offers to code that signs and
// verifies messages without caring which curve library is underneath.
package signer

type I interface {
	// Generate creates a fresh new key pair from system entropy.
	Generate() (err error)
	// InitSec initialises the secret (signing) key from the raw bytes, and also
	// derives the public key because it can.
	InitSec(sec []byte) (err error)
	// InitPub initializes the public (verification) key from raw bytes.
	InitPub(pub []byte) (err error)
	// Sec returns a copy of the secret key bytes, or nil if there is none.
	Sec() []byte
	// Pub returns the public key bytes (33 byte compressed point).
	Pub() []byte
	// Sign creates a signature over the message using the stored secret key.
	Sign(msg []byte) (sig []byte, err error)
	// Verify checks a message and signature match the stored public key. A
	// signature that does not match is reported as valid == false with no
	// error; err is for input that could not be checked at all.
	Verify(msg, sig []byte) (valid bool, err error)
	// Zero wipes the secret key to prevent memory leaks.
	Zero()
}
