package remote

import (
	"time"

	"github.com/creativeprojects/imapstatus/lib"
)

const (
	DefaultMailbox        = "INBOX"
	DefaultDialTimeout    = 30 * time.Second
	DefaultCommandTimeout = time.Minute
	DefaultKeepalive      = 15 * time.Minute
	DefaultPollInterval   = time.Minute
	DefaultLogoutTimeout  = 25 * time.Minute
)

type Config struct {
	// ServerURL is the host:port of the IMAP server
	ServerURL           string
	Username            string
	Password            string
	Mailbox             string
	NoTLS               bool
	SkipTLSVerification bool
	// Compress enables COMPRESS=DEFLATE when the server supports it
	Compress       bool
	DialTimeout    time.Duration
	CommandTimeout time.Duration
	// Keepalive is the maximum time spent waiting for activity before counting the messages again
	Keepalive time.Duration
	// PollInterval is used on servers without IDLE support
	PollInterval time.Duration
	DebugLogger  lib.Logger
}

func (c Config) withDefaults() Config {
	if c.Mailbox == "" {
		c.Mailbox = DefaultMailbox
	}
	if c.DialTimeout <= 0 {
		c.DialTimeout = DefaultDialTimeout
	}
	if c.CommandTimeout <= 0 {
		c.CommandTimeout = DefaultCommandTimeout
	}
	if c.Keepalive <= 0 {
		c.Keepalive = DefaultKeepalive
	}
	if c.PollInterval <= 0 {
		c.PollInterval = DefaultPollInterval
	}
	c.DebugLogger = lib.OrNoLog(c.DebugLogger)
	return c
}
