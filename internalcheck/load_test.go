package internalcheck

import (
	"testing"

	"golang.org/x/tools/go/packages"
)

// checked are the packages that touch secret keys, nonces or signatures.
var checked = []string{
	"keycore.lol/secbuf",
	"keycore.lol/engine",
	"keycore.lol/p256k",
	"keycore.lol/p256k/sign",
}

func load(t *testing.T) []*packages.Package {
	t.Helper()
	cfg := &packages.Config{
		Mode: packages.NeedSyntax | packages.NeedTypes | packages.NeedTypesInfo |
			packages.NeedFiles | packages.NeedName,
	}
	pkgs, err := packages.Load(cfg, checked...)
	if err != nil {
		t.Fatalf("load packages: %v", err)
	}
	if packages.PrintErrors(pkgs) > 0 {
		t.Fatal("packages failed to load")
	}
	return pkgs
}
