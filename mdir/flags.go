package mdir

import (
	"github.com/emersion/go-maildir"
)

func isSeen(flags []maildir.Flag) bool {
	for _, flag := range flags {
		if flag == maildir.FlagSeen {
			return true
		}
	}
	return false
}
