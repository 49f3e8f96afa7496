// Command keycore generates secp256k1 keys and makes, checks and converts
// ECDSA signatures from the command line.
//
// Settings come from KEYCORE_* environment variables and the keycore .env file;
// run `keycore help` to list them and `keycore env` to print the current ones.
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/alexflint/go-arg"
	"github.com/pkg/errors"

	"keycore.lol/config"
	"keycore.lol/digest"
	"keycore.lol/hex"
	"keycore.lol/lol"
	"keycore.lol/p256k"
	"keycore.lol/p256k/sign"
	"keycore.lol/secbuf"
	"keycore.lol/signer"
)

const (
	exitOK = iota
	exitError
	exitInvalid
)

type GenerateCmd struct {
	Uncompressed bo `arg:"-u" help:"also print the 65 byte uncompressed public key"`
}

type PubCmd struct {
	Sec          st `arg:"positional,required" help:"hex secret key"`
	Uncompressed bo `arg:"-u" help:"print the 65 byte uncompressed public key"`
}

type SignCmd struct {
	Message  st `arg:"positional,required" help:"message to sign"`
	Sec      st `arg:"-s" help:"hex secret key, default from KEYCORE_SECRET_KEY"`
	Hex      bo `arg:"-x" help:"the message is hex"`
	Encoding st `arg:"-e" help:"der or compact, default from KEYCORE_SIG_ENCODING"`
}

type VerifyCmd struct {
	Pub     st `arg:"positional,required" help:"hex public key"`
	Sig     st `arg:"positional,required" help:"hex DER or compact signature"`
	Message st `arg:"positional,required" help:"message that was signed"`
	Hex     bo `arg:"-x" help:"the message is hex"`
}

type ConvertCmd struct {
	Sig st `arg:"positional,required" help:"hex DER or compact signature"`
	To  st `arg:"-t" default:"der" help:"der or compact"`
}

type Args struct {
	Generate *GenerateCmd `arg:"subcommand:generate" help:"make a new key pair"`
	Pub      *PubCmd      `arg:"subcommand:pub" help:"derive the public key of a secret key"`
	Sign     *SignCmd     `arg:"subcommand:sign" help:"sign a message"`
	Verify   *VerifyCmd   `arg:"subcommand:verify" help:"check a signature, exit status 2 when it does not verify"`
	Convert  *ConvertCmd  `arg:"subcommand:convert" help:"convert a signature between DER and compact"`
	Digest   st           `arg:"-d" help:"message digest, default from KEYCORE_DIGEST"`
}

func main() {
	if config.HelpRequested() {
		config.PrintHelp(&config.C{}, os.Stdout)
		_, _ = fmt.Println()
		os.Exit(run(&config.C{Digest: digest.Default}, []st{"--help"}, os.Stdout, os.Stderr))
	}
	cfg, err := config.New()
	if chk.E(err) {
		os.Exit(exitError)
	}
	lol.SetLogLevel(cfg.LogLevel)
	if len(os.Args) == 2 && os.Args[1] == "env" {
		config.PrintEnv(cfg, os.Stdout)
		os.Exit(exitOK)
	}
	os.Exit(run(cfg, os.Args[1:], os.Stdout, os.Stderr))
}

// run executes one command and returns the process exit status.
func run(cfg *config.C, argv []st, stdout, stderr io.Writer) (code no) {
	var args Args
	p, err := arg.NewParser(arg.Config{Program: config.AppName}, &args)
	if err != nil {
		_, _ = fmt.Fprintln(stderr, err)
		return exitError
	}
	switch err = p.Parse(argv); {
	case errors.Is(err, arg.ErrHelp):
		_ = p.WriteHelpForSubcommand(stdout, p.SubcommandNames()...)
		return exitOK
	case err != nil:
		_ = p.WriteUsageForSubcommand(stderr, p.SubcommandNames()...)
		_, _ = fmt.Fprintln(stderr, "error:", err)
		return exitError
	}
	if args.Digest == "" {
		args.Digest = cfg.Digest
	}
	var h digest.Func
	if h, err = digest.ByName(args.Digest); err != nil {
		_, _ = fmt.Fprintln(stderr, "error:", err)
		return exitError
	}
	var valid bo
	switch {
	case args.Generate != nil:
		err = generate(stdout, args.Generate)
	case args.Pub != nil:
		err = pub(stdout, args.Pub)
	case args.Sign != nil:
		err = signMessage(stdout, cfg, h, args.Sign)
	case args.Verify != nil:
		if valid, err = verify(stdout, h, args.Verify); err == nil && !valid {
			return exitInvalid
		}
	case args.Convert != nil:
		err = convert(stdout, args.Convert)
	default:
		p.WriteHelp(stderr)
		return exitError
	}
	if err != nil {
		_, _ = fmt.Fprintln(stderr, "error:", err)
		return exitError
	}
	return exitOK
}

func generate(w io.Writer, c *GenerateCmd) (err er) {
	k := p256k.Generate()
	defer k.Zero()
	var sec by
	if sec, err = k.Bytes(); err != nil {
		return errors.Wrap(err, "generate")
	}
	defer secbuf.Wipe(sec)
	_, _ = fmt.Fprintf(w, "sec %s\npub %s\n", hex.Enc(sec), k.PubKey())
	if c.Uncompressed {
		var u by
		if u, err = k.PubKey().BytesUncompressed(); err != nil {
			return errors.Wrap(err, "generate")
		}
		_, _ = fmt.Fprintf(w, "uncompressed %s\n", hex.Enc(u))
	}
	return
}

func loadKey(h st) (k *p256k.PrivateKey, err er) {
	var sec by
	if sec, err = hex.DecFixed(h, p256k.SecKeyLen); err != nil {
		return nil, errors.Wrap(err, "secret key")
	}
	defer secbuf.Wipe(sec)
	if k, err = p256k.PrivateKeyFromBytes(sec); err != nil {
		return nil, errors.Wrap(err, "secret key")
	}
	return
}

func pub(w io.Writer, c *PubCmd) (err er) {
	var k *p256k.PrivateKey
	if k, err = loadKey(c.Sec); err != nil {
		return
	}
	defer k.Zero()
	out := k.PubKey().Bytes()
	if c.Uncompressed {
		if out, err = k.PubKey().BytesUncompressed(); err != nil {
			return errors.Wrap(err, "pub")
		}
	}
	_, _ = fmt.Fprintln(w, hex.Enc(out))
	return
}

func message(m st, isHex bo) (b by, err er) {
	if !isHex {
		return by(m), nil
	}
	if b, err = hex.Dec(m); err != nil {
		err = errors.Wrap(err, "message")
	}
	return
}

func signMessage(w io.Writer, cfg *config.C, h digest.Func, c *SignCmd) (err er) {
	sec := c.Sec
	if sec == "" {
		sec = cfg.SecretKey
	}
	if sec == "" {
		return errors.New("sign: no secret key, use --sec or KEYCORE_SECRET_KEY")
	}
	enc := c.Encoding
	if enc == "" {
		enc = cfg.SigEncoding
	}
	if enc != "der" && enc != "compact" {
		return errors.Errorf("sign: unknown encoding %q", enc)
	}
	var msg by
	if msg, err = message(c.Message, c.Hex); err != nil {
		return
	}
	var k *p256k.PrivateKey
	if k, err = loadKey(sec); err != nil {
		return
	}
	defer k.Zero()
	var sig *p256k.Signature
	if sig, err = k.SignWith(h, msg); err != nil {
		return errors.Wrap(err, "sign")
	}
	out := sig.DER()
	if enc == "compact" {
		out = sig.Compact()
	}
	_, _ = fmt.Fprintln(w, hex.Enc(out))
	return
}

func verify(w io.Writer, h digest.Func, c *VerifyCmd) (valid bo, err er) {
	var msg by
	if msg, err = message(c.Message, c.Hex); err != nil {
		return
	}
	var v signer.I
	if v, err = sign.FromHpub(c.Pub, h); err != nil {
		return false, errors.Wrap(err, "public key")
	}
	if valid, err = sign.VerifyHex(v, msg, c.Sig); err != nil {
		return false, errors.Wrap(err, "signature")
	}
	if valid {
		_, _ = fmt.Fprintln(w, "valid")
	} else {
		_, _ = fmt.Fprintln(w, "invalid")
	}
	return
}

func convert(w io.Writer, c *ConvertCmd) (err er) {
	var b by
	if b, err = hex.Dec(c.Sig); err != nil {
		return errors.Wrap(err, "signature")
	}
	var sig *p256k.Signature
	if sig, err = p256k.ParseSignature(b); err != nil {
		return errors.Wrap(err, "signature")
	}
	switch c.To {
	case "der":
		_, _ = fmt.Fprintln(w, hex.Enc(sig.DER()))
	case "compact":
		_, _ = fmt.Fprintln(w, hex.Enc(sig.Compact()))
	default:
		return errors.Errorf("convert: unknown encoding %q", c.To)
	}
	return
}
