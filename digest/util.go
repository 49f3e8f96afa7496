package digest

import (
	"keycore.lol/lol"
)

type (
	by = []byte
	st = string
	er = error
)

var (
	log, chk, errorf = lol.Main.Log, lol.Main.Check, lol.Main.Errorf
)
