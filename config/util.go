package config

import (
	"keycore.lol/lol"
)

type (
	bo = bool
	st = string
	er = error
)

var (
	log, chk, errorf = lol.Main.Log, lol.Main.Check, lol.Main.Errorf
)
