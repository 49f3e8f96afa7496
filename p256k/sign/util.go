package sign

import (
	"keycore.lol/lol"
)

type (
	bo = bool
	by = []byte
	st = string
	er = error
)

var (
	log, chk, errorf = lol.Main.Log, lol.Main.Check, lol.Main.Errorf
)
