package remote

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"net"
	"sync"
	"time"

	"github.com/creativeprojects/imapstatus/lib"
	"github.com/creativeprojects/imapstatus/monitor"
	"github.com/emersion/go-imap"
	compress "github.com/emersion/go-imap-compress"
	"github.com/emersion/go-imap/client"
)

// verify interface
var (
	_ monitor.Dialer  = &Dialer{}
	_ monitor.Session = &Imap{}
)

// Dialer opens a new IMAP session each time Dial is called
type Dialer struct {
	cfg Config
}

func NewDialer(cfg Config) (*Dialer, error) {
	if cfg.ServerURL == "" || cfg.Username == "" || cfg.Password == "" {
		return nil, lib.ErrMissingConfig
	}
	return &Dialer{cfg: cfg.withDefaults()}, nil
}

func (d *Dialer) Dial(ctx context.Context) (monitor.Session, error) {
	return Connect(ctx, d.cfg)
}

// Imap is a session with the mailbox selected in read-only mode
type Imap struct {
	client         *client.Client
	log            lib.Logger
	mailbox        string
	commandTimeout time.Duration
	keepalive      time.Duration
	pollInterval   time.Duration
	updates        chan client.Update
	activity       chan struct{}
	done           chan struct{}
	closeOnce      sync.Once
}

// contextDialer cancels the connection attempt with the context
type contextDialer struct {
	ctx    context.Context
	dialer *net.Dialer
}

func (d contextDialer) Dial(network, address string) (net.Conn, error) {
	return d.dialer.DialContext(d.ctx, network, address)
}

// Connect logs in and selects the mailbox
func Connect(ctx context.Context, cfg Config) (*Imap, error) {
	if cfg.ServerURL == "" || cfg.Username == "" || cfg.Password == "" {
		return nil, lib.ErrMissingConfig
	}
	cfg = cfg.withDefaults()
	log := cfg.DebugLogger

	dialer := contextDialer{
		ctx: ctx,
		dialer: &net.Dialer{
			Timeout:   cfg.DialTimeout,
			KeepAlive: 30 * time.Second,
		},
	}

	var imapClient *client.Client
	var err error
	log.Printf("Connecting to server %s...", cfg.ServerURL)
	if cfg.NoTLS {
		imapClient, err = client.DialWithDialer(dialer, cfg.ServerURL)
	} else {
		tlsConfig := &tls.Config{}
		if host, _, err := net.SplitHostPort(cfg.ServerURL); err == nil {
			tlsConfig.ServerName = host
		}
		if cfg.SkipTLSVerification {
			tlsConfig.InsecureSkipVerify = true
		}
		imapClient, err = client.DialWithDialerTLS(dialer, cfg.ServerURL, tlsConfig)
	}
	if err != nil {
		return nil, fmt.Errorf("cannot connect to server %s: %w", cfg.ServerURL, err)
	}
	log.Print("Connected")

	updates := make(chan client.Update, 64)
	imapClient.Updates = updates
	imapClient.Timeout = cfg.CommandTimeout

	session := &Imap{
		client:         imapClient,
		log:            log,
		mailbox:        cfg.Mailbox,
		commandTimeout: cfg.CommandTimeout,
		keepalive:      cfg.Keepalive,
		pollInterval:   cfg.PollInterval,
		updates:        updates,
		activity:       make(chan struct{}, 1),
		done:           make(chan struct{}),
	}
	err = session.open(ctx, cfg)
	if err != nil {
		_ = session.Close()
		return nil, err
	}
	// the updates received until now describe the mailbox we just selected
	session.discardUpdates()
	go session.forwardUpdates()
	return session, nil
}

func (i *Imap) open(ctx context.Context, cfg Config) error {
	if err := i.client.Login(cfg.Username, cfg.Password); err != nil {
		return fmt.Errorf("authentication failure: %w", err)
	}
	i.log.Printf("Logged in as %s", cfg.Username)

	if ctx.Err() != nil {
		return ctx.Err()
	}

	if cfg.Compress {
		i.enableCompression()
	}

	status, err := i.client.Select(cfg.Mailbox, true)
	if err != nil {
		return fmt.Errorf("cannot select mailbox %q: %w", cfg.Mailbox, err)
	}
	i.log.Printf("Selected mailbox %q: %d messages", status.Name, status.Messages)
	return nil
}

func (i *Imap) enableCompression() {
	compressClient := compress.NewClient(i.client)
	supported, err := compressClient.SupportCompress(compress.Deflate)
	if err != nil || !supported {
		i.log.Print("IMAP server does NOT support COMPRESS=DEFLATE extension")
		return
	}
	err = compressClient.Compress(compress.Deflate)
	if err != nil {
		i.log.Printf("cannot enable compression: %s", err)
		return
	}
	i.log.Print("Compression enabled")
}

func (i *Imap) discardUpdates() {
	for {
		select {
		case <-i.updates:
		default:
			return
		}
	}
}

// forwardUpdates keeps reading the updates so the client never blocks on them
func (i *Imap) forwardUpdates() {
	for {
		select {
		case <-i.done:
			return
		case update := <-i.updates:
			switch update := update.(type) {
			case *client.StatusUpdate:
				i.log.Printf("status update: %v", update.Status)
				continue
			case *client.MailboxUpdate:
				i.log.Print("mailbox updated")
			case *client.ExpungeUpdate:
				i.log.Printf("message %d expunged", update.SeqNum)
			case *client.MessageUpdate:
				i.log.Print("message updated")
			}
			select {
			case i.activity <- struct{}{}:
			default:
			}
		}
	}
}

// QueryUnseen returns the number of messages without the \Seen flag
func (i *Imap) QueryUnseen() (uint32, error) {
	// the search sees every change received so far
	select {
	case <-i.activity:
	default:
	}

	criteria := imap.NewSearchCriteria()
	criteria.WithoutFlags = []string{imap.SeenFlag}
	seqNums, err := i.client.Search(criteria)
	if err != nil {
		return 0, fmt.Errorf("cannot search unseen messages in %q: %w", i.mailbox, err)
	}
	return uint32(len(seqNums)), nil
}

// WaitForActivity idles until the server sends an update, the keepalive delay expires,
// the connection is lost or the context is cancelled.
func (i *Imap) WaitForActivity(ctx context.Context) error {
	stop := make(chan struct{})
	done := make(chan error, 1)

	// IDLE lasts longer than any command timeout
	i.client.Timeout = 0
	defer func() {
		i.client.Timeout = i.commandTimeout
	}()

	go func() {
		done <- i.client.Idle(stop, &client.IdleOptions{
			LogoutTimeout: DefaultLogoutTimeout,
			PollInterval:  i.pollInterval,
		})
	}()

	timer := time.NewTimer(i.keepalive)
	defer timer.Stop()

	var reason error
	select {
	case <-i.activity:
		i.log.Print("activity detected")
	case <-timer.C:
		i.log.Printf("no activity for %s", i.keepalive)
	case <-ctx.Done():
		reason = ctx.Err()
	case <-i.client.LoggedOut():
		reason = lib.ErrLoggedOut
	case err := <-done:
		if err == nil {
			err = lib.ErrLoggedOut
		}
		return fmt.Errorf("idle: %w", err)
	}

	close(stop)
	err := <-done
	if reason != nil {
		return reason
	}
	if err != nil {
		return fmt.Errorf("idle: %w", err)
	}
	return nil
}

func (i *Imap) Close() error {
	var err error
	i.closeOnce.Do(func() {
		close(i.done)
		i.log.Print("Closing connection")
		err = i.client.Logout()
		if errors.Is(err, client.ErrAlreadyLoggedOut) {
			err = nil
		}
	})
	return err
}
