//go:build windows

package cmd

import "github.com/creativeprojects/imapstatus/bar"

func refreshOnSignal(statusBar *bar.Bar) func() {
	return func() {}
}
