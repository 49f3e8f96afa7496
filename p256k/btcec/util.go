package btcec

import (
	"keycore.lol/lol"
)

type (
	bo = bool
	by = []byte
	er = error
)

var (
	log, chk, errorf = lol.Main.Log, lol.Main.Check, lol.Main.Errorf
)
