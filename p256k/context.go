package p256k

import (
	"lukechampine.com/frand"

	"keycore.lol/engine"
	"keycore.lol/secbuf"
)

// eng is the curve backend every operation runs on.
var eng = engine.Default()

// newSeed returns fresh entropy for context randomization.
func newSeed() by { return frand.Bytes(engine.SeedLen) }

// withContext runs fn on a context that exists only for this call. When seed is
// not nil the context is randomized with it first. Failures to set the context
// up are reported as kind.
func withContext(flags engine.Flags, seed by, kind ErrorKind,
	fn func(c engine.Context) er) (err er) {

	var c engine.Context
	if c, err = eng.NewContext(flags); chk.D(err) {
		return makeError(kind, "p256k: %s context: %v", eng.Name(), err)
	}
	defer c.Destroy()
	if seed != nil {
		if err = c.Randomize(seed); chk.D(err) {
			return makeError(kind, "p256k: context randomization: %v", err)
		}
	}
	return fn(c)
}

// withSeededContext is withContext with a fresh seed that is wiped afterwards.
func withSeededContext(flags engine.Flags, kind ErrorKind,
	fn func(c engine.Context) er) (err er) {

	seed := newSeed()
	defer secbuf.Wipe(seed)
	return withContext(flags, seed, kind, fn)
}
