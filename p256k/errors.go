package p256k

import (
	"fmt"
)

// ErrorKind identifies a kind of error. It has full support for errors.Is and
// errors.As, so the caller can directly check against an error kind when
// determining the reason for an error.
type ErrorKind string

// These constants are used to identify a specific Error.
const (
	// ErrInvalidPrivateKey indicates secret key bytes of the wrong length or
	// that are not a scalar in [1, n-1].
	ErrInvalidPrivateKey = ErrorKind("ErrInvalidPrivateKey")

	// ErrInvalidPublicKey indicates public key bytes that are not a valid
	// compressed or uncompressed curve point.
	ErrInvalidPublicKey = ErrorKind("ErrInvalidPublicKey")

	// ErrInvalidSignature indicates compact or DER bytes that do not parse.
	ErrInvalidSignature = ErrorKind("ErrInvalidSignature")

	// ErrSigningError indicates the engine could not sign, or the key has no
	// secret to sign with.
	ErrSigningError = ErrorKind("ErrSigningError")

	// ErrOther indicates an engine failure that fits none of the above.
	ErrOther = ErrorKind("ErrOther")
)

// Error satisfies the error interface and prints human-readable errors.
func (e ErrorKind) Error() st { return st(e) }

// Error identifies an error related to keys or signatures. It has full
// support for errors.Is and errors.As, so the caller can ascertain the
// specific reason for the error by checking the underlying error.
type Error struct {
	Err         er
	Description st
}

// Error satisfies the error interface and prints human-readable errors.
func (e Error) Error() st { return e.Description }

// Unwrap returns the underlying wrapped error.
func (e Error) Unwrap() error { return e.Err }

// makeError creates an Error of the given kind and logs it at debug level.
func makeError(kind ErrorKind, format st, a ...any) (err Error) {
	err = Error{Err: kind, Description: fmt.Sprintf(format, a...)}
	log.D.Ln(err.Description)
	return
}

// Other returns an ErrOther error carrying reason.
func Other(reason st) Error { return makeError(ErrOther, "%s", reason) }
