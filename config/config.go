// Package config reads the keycore settings from the environment and from an
// optional .env file, with the environment taking precedence.
package config

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
	"go-simpler.org/env"

	"keycore.lol/config/keyvalue"
	"keycore.lol/digest"
	"keycore.lol/lol"
)

// AppName names the configuration directory.
const AppName = "keycore"

// C is the configuration of the keycore tool.
type C struct {
	LogLevel    st `env:"KEYCORE_LOG_LEVEL" default:"info" usage:"log level: off fatal error warn info debug trace"`
	Digest      st `env:"KEYCORE_DIGEST" default:"sha256" usage:"message digest: sha256 sha256d keccak256 blake256"`
	SigEncoding st `env:"KEYCORE_SIG_ENCODING" default:"der" usage:"signature output encoding: der or compact"`
	SecretKey   st `env:"KEYCORE_SECRET_KEY" secret:"true" usage:"hex secret key used by sign when none is given"`
	EnvFile     st `env:"KEYCORE_ENV_FILE" usage:"path of a .env file to read settings from (default $XDG_CONFIG_HOME/keycore/.env)"`
}

// New loads the configuration from the process environment and the .env file.
func New() (cfg *C, err er) { return Load(Environ()) }

// Load reads the configuration from vars and then from the .env file named by
// KEYCORE_ENV_FILE, or the default one if it exists. Values in vars override
// values in the file.
func Load(vars Env) (cfg *C, err er) {
	cfg = &C{}
	if err = env.Load(cfg, &env.Options{Source: vars}); chk.T(err) {
		return
	}
	path := cfg.EnvFile
	if path == "" {
		path = DefaultEnvFile()
	}
	if FileExists(path) {
		var e Env
		if e, err = GetEnv(path); chk.E(err) {
			return
		}
		for k, v := range vars {
			e[k] = v
		}
		cfg = &C{}
		if err = env.Load(cfg, &env.Options{Source: e}); chk.E(err) {
			return
		}
		log.D.F("loaded settings from %s", path)
	} else if cfg.EnvFile != "" {
		err = errorf.E("config: env file %s does not exist", cfg.EnvFile)
		return
	}
	err = cfg.Validate()
	return
}

// Validate checks that every setting names something that exists.
func (cfg *C) Validate() (err er) {
	if lol.GetLogLevel(cfg.LogLevel) == lol.Info && cfg.LogLevel != lol.LevelNames[lol.Info] {
		return errorf.E("config: unknown log level %q", cfg.LogLevel)
	}
	if _, err = digest.ByName(cfg.Digest); err != nil {
		return
	}
	switch cfg.SigEncoding {
	case "der", "compact":
	default:
		return errorf.E("config: signature encoding must be der or compact, got %q",
			cfg.SigEncoding)
	}
	return
}

// DefaultEnvFile is $XDG_CONFIG_HOME/keycore/.env.
func DefaultEnvFile() st { return filepath.Join(xdg.ConfigHome, AppName, ".env") }

// FileExists reports whether path names an existing file.
func FileExists(path st) bo {
	fi, err := os.Stat(path)
	return err == nil && !fi.IsDir()
}

// HelpRequested returns true if any of the common types of help invocation are
// found as the first command line parameter/flag.
func HelpRequested() (help bo) {
	if len(os.Args) > 1 {
		switch strings.ToLower(os.Args[1]) {
		case "help", "-h", "--h", "-help", "--help", "?":
			help = true
		}
	}
	return
}

// PrintHelp writes the environment variables and their usage to w.
func PrintHelp(cfg *C, w io.Writer) {
	_, _ = fmt.Fprintf(w, "\nenvironment variables that configure %s\n\n", AppName)
	env.Usage(cfg, w, nil)
	_, _ = fmt.Fprintf(w, "\nsettings are also read from %s\n", DefaultEnvFile())
}

// PrintEnv writes the configuration as a shell script that sets it. Secrets
// are left empty.
func PrintEnv(cfg *C, w io.Writer) { keyvalue.PrintEnv(*cfg, w) }
