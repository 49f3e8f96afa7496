package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"keycore.lol/config"
)

const (
	hsec = "3de2fed8700e252d02026fec2d061b07ecc9fd11afa1f1321fc28b199d83688d"
	hder = "3045022100a439460e6c0406e70397bd754fc21808860798f8df9c84c5e5cb3d62872dfc85022068c7336a801023f83ab82b9ef49228e2cc9807a389027d921af56d829ec00fd0"
)

func testConfig(t *testing.T, vars config.Env) *config.C {
	t.Helper()
	if vars == nil {
		vars = config.Env{}
	}
	cfg, err := config.Load(vars)
	require.NoError(t, err)
	return cfg
}

func exec(t *testing.T, cfg *config.C, argv ...st) (code no, out, errOut st) {
	t.Helper()
	var o, e bytes.Buffer
	code = run(cfg, argv, &o, &e)
	return code, strings.TrimSpace(o.String()), e.String()
}

func TestSignAndVerify(t *testing.T) {
	cfg := testConfig(t, nil)
	code, out, errOut := exec(t, cfg, "sign", "--sec", hsec, "randomString")
	require.Equal(t, exitOK, code, errOut)
	require.Equal(t, hder, out)

	code, pub, _ := exec(t, cfg, "pub", hsec)
	require.Equal(t, exitOK, code)
	code, out, _ = exec(t, cfg, "verify", pub, hder, "randomString")
	require.Equal(t, exitOK, code)
	require.Equal(t, "valid", out)
	code, out, _ = exec(t, cfg, "verify", pub, hder, "randomstring")
	require.Equal(t, exitInvalid, code)
	require.Equal(t, "invalid", out)
}

func TestSignFromConfig(t *testing.T) {
	cfg := testConfig(t, config.Env{
		"KEYCORE_SECRET_KEY":   hsec,
		"KEYCORE_SIG_ENCODING": "compact",
	})
	code, out, errOut := exec(t, cfg, "sign", "randomString")
	require.Equal(t, exitOK, code, errOut)
	require.Len(t, out, 128)
	code, der, _ := exec(t, cfg, "convert", out)
	require.Equal(t, exitOK, code)
	require.Equal(t, hder, der)
	code, back, _ := exec(t, cfg, "convert", "--to", "compact", der)
	require.Equal(t, exitOK, code)
	require.Equal(t, out, back)
}

func TestGenerate(t *testing.T) {
	cfg := testConfig(t, nil)
	code, out, _ := exec(t, cfg, "generate", "-u")
	require.Equal(t, exitOK, code)
	lines := strings.Split(out, "\n")
	require.Len(t, lines, 3)
	sec := strings.TrimPrefix(lines[0], "sec ")
	pub := strings.TrimPrefix(lines[1], "pub ")
	code, derived, _ := exec(t, cfg, "pub", sec)
	require.Equal(t, exitOK, code)
	require.Equal(t, pub, derived)
	code, unc, _ := exec(t, cfg, "pub", "-u", sec)
	require.Equal(t, exitOK, code)
	require.Equal(t, strings.TrimPrefix(lines[2], "uncompressed "), unc)
}

func TestDigestOption(t *testing.T) {
	cfg := testConfig(t, nil)
	code, sig, _ := exec(t, cfg, "-d", "keccak256", "sign", "-s", hsec, "-x", "deadbeef")
	require.Equal(t, exitOK, code)
	code, pub, _ := exec(t, cfg, "pub", hsec)
	require.Equal(t, exitOK, code)
	code, _, _ = exec(t, cfg, "-d", "keccak256", "verify", "-x", pub, sig, "deadbeef")
	require.Equal(t, exitOK, code)
	code, _, _ = exec(t, cfg, "verify", "-x", pub, sig, "deadbeef")
	require.Equal(t, exitInvalid, code)
}

func TestErrors(t *testing.T) {
	cfg := testConfig(t, nil)
	for _, argv := range [][]st{
		{"sign", "no key"},
		{"sign", "-s", hsec[:10], "msg"},
		{"sign", "-s", hsec, "-e", "pem", "msg"},
		{"pub", "00"},
		{"verify", "02", hder, "msg"},
		{"convert", "abcd"},
		{"convert", "--to", "pem", hder},
		{"-d", "md5", "generate"},
		{"nonsense"},
		{},
	} {
		code, _, _ := exec(t, cfg, argv...)
		require.Equal(t, exitError, code, "%v", argv)
	}
}
