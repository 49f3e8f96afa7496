// Package digest holds the message hash functions a signature can be made
// over. SHA256 is the default and is what the signature and key tests are
// pinned to; the others exist for interoperating with chains that hash their
// signed payloads differently.
package digest

import (
	"sort"

	"github.com/decred/dcrd/crypto/blake256"
	"github.com/minio/sha256-simd"
	"golang.org/x/crypto/sha3"
)

// Size is the length of every digest produced here.
const Size = 32

// Func hashes a message to a 32 byte digest.
type Func func(msg by) [Size]byte

// SHA256 is single SHA-256.
func SHA256(msg by) [Size]byte { return sha256.Sum256(msg) }

// DoubleSHA256 is SHA-256 applied twice, as bitcoin hashes transactions.
func DoubleSHA256(msg by) [Size]byte {
	h := sha256.Sum256(msg)
	return sha256.Sum256(h[:])
}

// Keccak256 is the original Keccak submission with 256 bit output, as used by
// ethereum, not the standardized SHA3-256.
func Keccak256(msg by) (d [Size]byte) {
	h := sha3.NewLegacyKeccak256()
	h.Write(msg)
	h.Sum(d[:0])
	return
}

// BLAKE256 is the 14 round BLAKE-256 used by decred.
func BLAKE256(msg by) [Size]byte { return blake256.Sum256(msg) }

var registry = map[st]Func{
	"sha256":    SHA256,
	"sha256d":   DoubleSHA256,
	"keccak256": Keccak256,
	"blake256":  BLAKE256,
}

// Default is the digest used when none is named.
const Default = "sha256"

// ByName returns the digest function registered under name.
func ByName(name st) (f Func, err er) {
	var ok bool
	if f, ok = registry[name]; !ok {
		err = errorf.D("digest: unknown digest %q, have %v", name, Names())
	}
	return
}

// Names lists the registered digest names in sorted order.
func Names() (names []st) {
	for k := range registry {
		names = append(names, k)
	}
	sort.Strings(names)
	return
}
