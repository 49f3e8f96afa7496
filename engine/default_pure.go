//go:build !libsecp256k1 || !cgo

package engine

// Default returns the pure Go backend. Build with the libsecp256k1 tag and cgo
// enabled to use the C library instead.
func Default() Engine { return Pure }
