package config

import (
	"os"
	"strings"
)

// Env is a key/value map used to represent environment variables. It is an
// env.Source for go-simpler.org/env.
type Env map[st]st

// Environ returns the process environment.
func Environ() (e Env) {
	e = make(Env)
	for _, kv := range os.Environ() {
		if k, v, ok := strings.Cut(kv, "="); ok {
			e[k] = v
		}
	}
	return
}

// GetEnv reads a file of KEY=value lines in shell environment variable format.
// Blank lines and # comments are skipped, a leading export is dropped, and
// matching quotes around a value are removed.
func GetEnv(path st) (env Env, err er) {
	var s []byte
	env = make(Env)
	if s, err = os.ReadFile(path); chk.T(err) {
		return
	}
	for _, line := range strings.Split(st(s), "\n") {
		line = strings.TrimSpace(line)
		if len(line) == 0 || strings.HasPrefix(line, "#") {
			continue
		}
		line = strings.TrimPrefix(line, "export ")
		k, v, ok := strings.Cut(line, "=")
		if !ok {
			log.W.F("%s: ignoring line without '=': %q", path, line)
			continue
		}
		v = strings.TrimSpace(v)
		if len(v) >= 2 && (v[0] == '"' || v[0] == '\'') && v[len(v)-1] == v[0] {
			v = v[1 : len(v)-1]
		}
		env[strings.TrimSpace(k)] = v
	}
	return
}

// LookupEnv returns the raw string value associated with a provided key name,
// used as a custom environment variable loader for go-simpler.org/env to enable
// .env file loading.
func (env Env) LookupEnv(key st) (value st, ok bo) {
	value, ok = env[key]
	return
}
