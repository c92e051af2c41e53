package cmd

import (
	"fmt"

	"github.com/creativeprojects/imapstatus/cfg"
	"github.com/creativeprojects/imapstatus/journal"
	"github.com/creativeprojects/imapstatus/lib"
	"github.com/creativeprojects/imapstatus/mailbox"
	"github.com/creativeprojects/imapstatus/mdir"
	"github.com/creativeprojects/imapstatus/monitor"
	"github.com/creativeprojects/imapstatus/remote"
	"github.com/creativeprojects/imapstatus/term"
)

// NewDialer returns the session factory of the account
func NewDialer(account cfg.Account, debugLogger lib.Logger) (monitor.Dialer, error) {
	switch account.Type {
	case cfg.MAILDIR:
		return mdir.NewDialer(account.Root, debugLogger)
	case cfg.IMAP, "":
		return remote.NewDialer(remote.Config{
			ServerURL:           account.ServerURL(),
			Username:            account.Username,
			Password:            account.Password,
			Mailbox:             account.Mailbox,
			NoTLS:               account.NoTLS,
			SkipTLSVerification: account.SkipTLSVerification,
			Compress:            account.Compress,
			Keepalive:           account.Keepalive,
			DebugLogger:         debugLogger,
		})
	default:
		return nil, fmt.Errorf("unsupported account type %q", account.Type)
	}
}

// newWatchers creates one watcher per account, in the order of the configuration
func newWatchers(config *cfg.Config, sender monitor.Sender, jrnl monitor.Journal) ([]*monitor.Watcher, error) {
	retry := monitor.RetryPolicy{
		Delay:    config.Retry.Delay,
		MaxDelay: config.Retry.MaxDelay,
		Factor:   config.Retry.Factor,
		Jitter:   config.Retry.Jitter,
	}
	watchers := make([]*monitor.Watcher, len(config.Accounts))
	for i, account := range config.Accounts {
		dialer, err := NewDialer(account, debugLogger(account.Name))
		if err != nil {
			return nil, fmt.Errorf("account %q: %w", account.Name, err)
		}
		watcher, err := monitor.NewWatcher(monitor.WatcherConfig{
			ID:      mailbox.AccountID(i),
			Name:    account.Name,
			Dialer:  dialer,
			Sender:  sender,
			Retry:   retry,
			Logger:  term.NewLogger(term.LevelInfo, ""),
			Journal: jrnl,
		})
		if err != nil {
			return nil, err
		}
		watchers[i] = watcher
	}
	return watchers, nil
}

// openJournal returns nil when the journal is disabled or cannot be opened
func openJournal(config *cfg.Config) *journal.BoltJournal {
	if global.noJournal {
		return nil
	}
	jrnl, err := journal.OpenWithLogger(config.Journal, debugLogger("journal"))
	if err != nil {
		term.Warnf("failure journal disabled: %s", err)
		return nil
	}
	return jrnl
}

// debugLogger only prints in verbose mode
func debugLogger(prefix string) lib.Logger {
	if !global.verbose {
		return nil
	}
	return term.NewLogger(term.LevelDebug, prefix)
}
