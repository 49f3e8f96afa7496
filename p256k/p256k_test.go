package p256k

import (
	"errors"
	"testing"
	"testing/iotest"

	"github.com/btcsuite/btcd/btcec/v2"
	btcecdsa "github.com/btcsuite/btcd/btcec/v2/ecdsa"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"
	"lukechampine.com/frand"

	"keycore.lol/digest"
	"keycore.lol/hex"
)

func mustHex(t testing.TB, s st) by {
	t.Helper()
	b, err := hex.Dec(s)
	require.NoError(t, err)
	return b
}

func mustKey(t testing.TB) *PrivateKey {
	t.Helper()
	k := Generate()
	require.True(t, k.Valid())
	t.Cleanup(k.Zero)
	return k
}

func TestPublicKeyVectors(t *testing.T) {
	for sec, pub := range map[st]st{
		"b53f487ba3c237014e988aee6823ad7efe9502950ee311dd0e2837652fc76535": "034ddf6d93434764e7da993eaf49b3240f8c98427d441fa5982d86fb2a1cbcd4b3",
		"ea73e9add6e35fd7b7dee709771fd34889585bdf35903942135afcddf8e9eb28": "03be9a2a322e4ffff41eaf147450f343c4c10a70ca30e8d60764d56e6c7a54114e",
	} {
		k, err := PrivateKeyFromBytes(mustHex(t, sec))
		require.NoError(t, err)
		require.Equal(t, pub, hex.Enc(k.PubKey().Bytes()))
		require.Equal(t, pub, k.PubKey().String())
		k.Zero()
	}
}

func TestSignVector(t *testing.T) {
	k, err := PrivateKeyFromBytes(mustHex(t,
		"3de2fed8700e252d02026fec2d061b07ecc9fd11afa1f1321fc28b199d83688d"))
	require.NoError(t, err)
	defer k.Zero()
	msg := by("randomString")
	sig, err := k.Sign(msg)
	require.NoError(t, err)
	require.Equal(t, "3045022100a439460e6c0406e70397bd754fc21808860798f8df9c84c5e5cb"+
		"3d62872dfc85022068c7336a801023f83ab82b9ef49228e2cc9807a389027d921af56d829ec00fd0",
		hex.Enc(sig.DER()))
	require.True(t, k.PubKey().Verify(sig, msg))
}

func TestPrivateKeyRoundTrip(t *testing.T) {
	for range 50 {
		k := mustKey(t)
		b, err := k.Bytes()
		require.NoError(t, err)
		k2, err := PrivateKeyFromBytes(b)
		require.NoError(t, err)
		b2, err := k2.Bytes()
		require.NoError(t, err)
		require.Equal(t, b, b2)
		require.True(t, k.Equal(k2))
		require.True(t, k.PubKey().Equal(k2.PubKey()))
		k2.Zero()
	}
}

func TestDerivationIsDeterministic(t *testing.T) {
	sec := Generate()
	b, err := sec.Bytes()
	require.NoError(t, err)
	want := sec.PubKey().Bytes()
	for range 10 {
		k, err := PrivateKeyFromBytes(b)
		require.NoError(t, err)
		require.Equal(t, want, k.PubKey().Bytes())
	}
}

func TestPublicKeyEncodings(t *testing.T) {
	k := mustKey(t)
	c := k.PubKey().Bytes()
	require.Len(t, c, PubKeyLenCompressed)
	u, err := k.PubKey().BytesUncompressed()
	require.NoError(t, err)
	require.Len(t, u, PubKeyLenUncompressed)
	for _, b := range []by{c, u} {
		p, err := PublicKeyFromBytes(b)
		require.NoError(t, err)
		require.True(t, p.Equal(k.PubKey()))
		require.Equal(t, c, p.Bytes())
	}
	// hybrid encodings are not accepted
	h := append(by{}, u...)
	h[0] = 6 | (c[0] & 1)
	_, err = PublicKeyFromBytes(h)
	require.ErrorIs(t, err, ErrInvalidPublicKey)
}

func TestSignVerify(t *testing.T) {
	k := mustKey(t)
	for range 100 {
		msg := frand.Bytes(frand.Intn(200))
		sig, err := k.Sign(msg)
		require.NoError(t, err)
		require.True(t, k.PubKey().Verify(sig, msg))
		again, err := k.Sign(msg)
		require.NoError(t, err)
		require.True(t, sig.Equal(again), "signing is not deterministic")
	}
}

func TestSignWithDigests(t *testing.T) {
	k := mustKey(t)
	msg := by("hash me differently")
	for _, name := range digest.Names() {
		h, err := digest.ByName(name)
		require.NoError(t, err)
		sig, err := k.SignWith(h, msg)
		require.NoError(t, err)
		require.True(t, k.PubKey().VerifyWith(h, sig, msg), name)
		if name != "sha256" {
			require.False(t, k.PubKey().Verify(sig, msg), name)
		}
	}
	d := digest.SHA256(msg)
	sig, err := k.SignDigest(d[:])
	require.NoError(t, err)
	require.True(t, k.PubKey().VerifyDigest(sig, d[:]))
	_, err = k.SignDigest(d[:31])
	require.ErrorIs(t, err, ErrSigningError)
	require.False(t, k.PubKey().VerifyDigest(sig, d[:31]))
}

func TestSignatureRoundTrip(t *testing.T) {
	k := mustKey(t)
	for range 100 {
		sig, err := k.Sign(frand.Bytes(32))
		require.NoError(t, err)
		fromCompact, err := SignatureFromCompact(sig.Compact())
		require.NoError(t, err)
		fromDER, err := SignatureFromDER(sig.DER())
		require.NoError(t, err)
		require.Equal(t, sig.DER(), fromCompact.DER())
		require.Equal(t, sig.Compact(), fromDER.Compact())
		require.True(t, fromCompact.Equal(fromDER))
	}
}

func TestDEREndingInZero(t *testing.T) {
	compact := make(by, CompactSigLen)
	for i := range 32 {
		compact[i] = 0x11
	}
	for i := 32; i < 63; i++ {
		compact[i] = 0x22
	}
	sig, err := SignatureFromCompact(compact)
	require.NoError(t, err)
	der := sig.DER()
	require.Len(t, der, 70)
	require.Equal(t, byte(0), der[len(der)-1])
	back, err := SignatureFromDER(der)
	require.NoError(t, err)
	require.Equal(t, compact, back.Compact())
	require.Equal(t, der, back.DER())
}

func TestDERComponentAtGroupOrder(t *testing.T) {
	for _, d := range []st{
		"3026022100fffffffffffffffffffffffffffffffebaaedce6af48a03bbfd25e8cd0364141020101",
		"3026020101022100fffffffffffffffffffffffffffffffebaaedce6af48a03bbfd25e8cd0364141",
	} {
		sig, err := SignatureFromDER(mustHex(t, d))
		require.ErrorIs(t, err, ErrInvalidSignature, d)
		require.Nil(t, sig)
		_, err = ParseSignature(mustHex(t, d))
		require.ErrorIs(t, err, ErrInvalidSignature, d)
	}
}

func TestFlippedBitsDoNotVerify(t *testing.T) {
	k := mustKey(t)
	msg := frand.Bytes(48)
	sig, err := k.Sign(msg)
	require.NoError(t, err)
	compact := sig.Compact()
	for i := range len(compact) * 8 {
		c := append(by{}, compact...)
		c[i/8] ^= 1 << (i % 8)
		s, err := SignatureFromCompact(c)
		if err != nil {
			require.ErrorIs(t, err, ErrInvalidSignature)
			continue
		}
		require.False(t, k.PubKey().Verify(s, msg), "sig bit %d", i)
	}
	for i := range len(msg) * 8 {
		m := append(by{}, msg...)
		m[i/8] ^= 1 << (i % 8)
		require.False(t, k.PubKey().Verify(sig, m), "msg bit %d", i)
	}
	other := mustKey(t)
	require.False(t, other.PubKey().Verify(sig, msg))
}

func TestMalformedInputs(t *testing.T) {
	for _, n := range []no{0, 1, 31, 33, 64} {
		_, err := PrivateKeyFromBytes(frand.Bytes(n))
		require.ErrorIs(t, err, ErrInvalidPrivateKey, "length %d", n)
	}
	_, err := PrivateKeyFromBytes(make(by, SecKeyLen))
	require.ErrorIs(t, err, ErrInvalidPrivateKey)
	order := mustHex(t, "fffffffffffffffffffffffffffffffebaaedce6af48a03bbfd25e8cd0364141")
	_, err = PrivateKeyFromBytes(order)
	require.ErrorIs(t, err, ErrInvalidPrivateKey)

	good := mustKey(t).PubKey().Bytes()
	bad := append(by{}, good...)
	bad[0] = 5
	for _, b := range []by{nil, good[:32], bad, append(good, 0)} {
		_, err = PublicKeyFromBytes(b)
		require.ErrorIs(t, err, ErrInvalidPublicKey)
	}
	// no point on the curve has this x
	notOnCurve := mustHex(t,
		"02eefdea4cdb677750a420fee807eacf21eb9898ae79b9768766e4faa04a2d4a34")
	_, err = PublicKeyFromBytes(notOnCurve)
	require.ErrorIs(t, err, ErrInvalidPublicKey)

	for _, b := range []by{nil, {0x30}, frand.Bytes(70), make(by, 73), {0x30, 0x06, 0x02, 0x01, 0x01, 0x02, 0x01}} {
		_, err = SignatureFromDER(b)
		require.ErrorIs(t, err, ErrInvalidSignature)
	}
	_, err = SignatureFromCompact(make(by, 63))
	require.ErrorIs(t, err, ErrInvalidSignature)
	var e Error
	require.True(t, errors.As(err, &e))
	require.NotEmpty(t, e.Description)
}

func TestGenerateDegenerate(t *testing.T) {
	ones := make(by, EntropyLen)
	for i := range ones {
		ones[i] = 0xff
	}
	for name, k := range map[st]*PrivateKey{
		"reader fails":  GenerateFrom(iotest.ErrReader(errors.New("no entropy"))),
		"short reader":  GenerateFrom(&zeroReader{n: 16}),
		"zero scalar":   GenerateFrom(&zeroReader{n: EntropyLen}),
		"scalar over n": GenerateFrom(&byteReader{b: ones}),
	} {
		require.False(t, k.Valid(), name)
		require.Nil(t, k.PubKey(), name)
		_, err := k.Sign(by("x"))
		require.ErrorIs(t, err, ErrSigningError, name)
		_, err = k.Bytes()
		require.ErrorIs(t, err, ErrSigningError, name)
		require.False(t, k.Equal(k), name)
		require.Equal(t, "p256k.PrivateKey(invalid)", k.String(), name)
	}
}

func TestGenerateFromReader(t *testing.T) {
	ent := frand.Bytes(EntropyLen)
	k := GenerateFrom(&byteReader{b: ent})
	require.True(t, k.Valid())
	b, err := k.Bytes()
	require.NoError(t, err)
	require.Equal(t, ent[:SecKeyLen], b)
}

func TestZeroWipesSecret(t *testing.T) {
	k := Generate()
	secret, err := k.Bytes()
	require.NoError(t, err)
	var raw by
	// hold on to the storage to look at it after the wipe
	require.NoError(t, k.sec.With(func(b by) er { raw = b; return nil }))
	k.Zero()
	require.False(t, k.Valid())
	require.Equal(t, make(by, SecKeyLen), raw)
	require.NotEqual(t, secret, raw)
	_, err = k.Sign(by("after zero"))
	require.ErrorIs(t, err, ErrSigningError)
	require.NotNil(t, k.PubKey())
	k.Zero()
}

func TestCrossVerifyWithBtcec(t *testing.T) {
	k := mustKey(t)
	pub, err := btcec.ParsePubKey(k.PubKey().Bytes())
	require.NoError(t, err)
	for range 50 {
		msg := frand.Bytes(64)
		sig, err := k.Sign(msg)
		require.NoError(t, err)
		s, err := btcecdsa.ParseDERSignature(sig.DER())
		require.NoError(t, err)
		d := digest.SHA256(msg)
		require.True(t, s.Verify(d[:], pub))
	}
	sec, err := k.Bytes()
	require.NoError(t, err)
	bsec, _ := btcec.PrivKeyFromBytes(sec)
	d := digest.SHA256(by("from btcec"))
	bsig := btcecdsa.Sign(bsec, d[:])
	sig, err := SignatureFromDER(bsig.Serialize())
	require.NoError(t, err)
	require.True(t, k.PubKey().VerifyDigest(sig, d[:]))
	own, err := k.SignDigest(d[:])
	require.NoError(t, err)
	require.True(t, own.Equal(sig))
}

func TestParallelSigning(t *testing.T) {
	k := mustKey(t)
	var g errgroup.Group
	for i := range 32 {
		g.Go(func() (err er) {
			msg := []byte{byte(i)}
			var sig *Signature
			if sig, err = k.Sign(msg); err != nil {
				return
			}
			if !k.PubKey().Verify(sig, msg) {
				return errors.New("signature did not verify")
			}
			return
		})
	}
	require.NoError(t, g.Wait())
}

func TestCryptoSigner(t *testing.T) {
	k := mustKey(t)
	cs := k.CryptoSigner()
	require.Same(t, k.PubKey(), cs.Public())
	d := digest.SHA256(by("crypto.Signer"))
	der, err := cs.Sign(nil, d[:], nil)
	require.NoError(t, err)
	sig, err := SignatureFromDER(der)
	require.NoError(t, err)
	require.True(t, k.PubKey().VerifyDigest(sig, d[:]))
	_, err = cs.Sign(nil, d[:16], nil)
	require.ErrorIs(t, err, ErrSigningError)
}

type zeroReader struct{ n no }

func (z *zeroReader) Read(p by) (n no, err er) {
	if z.n == 0 {
		return 0, errors.New("exhausted")
	}
	n = min(len(p), z.n)
	clear(p[:n])
	z.n -= n
	return
}

type byteReader struct{ b by }

func (r *byteReader) Read(p by) (n no, err er) {
	if len(r.b) == 0 {
		return 0, errors.New("exhausted")
	}
	n = copy(p, r.b)
	r.b = r.b[n:]
	return
}
