//go:build !windows

package cmd

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/creativeprojects/imapstatus/bar"
)

// refreshOnSignal writes the status line again each time the process receives SIGUSR1
func refreshOnSignal(statusBar *bar.Bar) func() {
	signals := make(chan os.Signal, 1)
	done := make(chan struct{})
	signal.Notify(signals, syscall.SIGUSR1)
	go func() {
		for {
			select {
			case <-done:
				return
			case <-signals:
				statusBar.Refresh()
			}
		}
	}()
	return func() {
		signal.Stop(signals)
		close(done)
	}
}
