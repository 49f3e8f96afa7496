// Package keyvalue converts a go-simpler/env tagged configuration struct into
// a sortable list of key/values, and renders it as a shell script that sets
// the variables.
package keyvalue

import (
	"fmt"
	"io"
	"reflect"
	"sort"
	"strings"
	"time"
)

// KV is a key/value pair.
type KV struct{ Key, Value string }

// KVSlice is a collection of key/value pairs.
type KVSlice []KV

func (kv KVSlice) Len() int           { return len(kv) }
func (kv KVSlice) Less(i, j int) bool { return kv[i].Key < kv[j].Key }
func (kv KVSlice) Swap(i, j int)      { kv[i], kv[j] = kv[j], kv[i] }

// EnvKV turns a struct with `env` keys (used with go-simpler/env) into a list
// of key/value pairs. Note you must dereference a pointer type to use this.
// Fields tagged secret:"true" get an empty value.
func EnvKV(cfg any) (m KVSlice) {
	t := reflect.TypeOf(cfg)
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		k := f.Tag.Get("env")
		// this can happen with embedded structs
		if k == "" {
			continue
		}
		var val string
		if f.Tag.Get("secret") != "true" {
			switch v := reflect.ValueOf(cfg).Field(i).Interface().(type) {
			case string:
				val = v
			case int, int64, int32, uint64, uint32, bool, time.Duration:
				val = fmt.Sprint(v)
			case []string:
				val = strings.Join(v, ",")
			}
		}
		m = append(m, KV{k, val})
	}
	return
}

// PrintEnv renders the key/values of a config struct to a provided io.Writer.
func PrintEnv(cfg any, printer io.Writer) {
	_, _ = fmt.Fprintln(printer, "#!/usr/bin/env bash")
	kvs := EnvKV(cfg)
	sort.Sort(kvs)
	for _, v := range kvs {
		_, _ = fmt.Fprintf(printer, "export %s=%s\n", v.Key, v.Value)
	}
}
