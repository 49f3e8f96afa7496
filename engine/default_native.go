//go:build libsecp256k1 && cgo

package engine

func init() {
	log.T.Ln("using bitcoin-core/secp256k1 signature library")
}

// Default returns the libsecp256k1 backend.
func Default() Engine { return Native }
