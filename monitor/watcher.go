package monitor

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/creativeprojects/imapstatus/journal"
	"github.com/creativeprojects/imapstatus/lib"
	"github.com/creativeprojects/imapstatus/mailbox"
	"github.com/jpillora/backoff"
	"golang.org/x/time/rate"
)

type State int32

const (
	Disconnected State = iota
	Connected
)

func (s State) String() string {
	if s == Connected {
		return "connected"
	}
	return "disconnected"
}

const (
	DefaultLogInterval = 30 * time.Second
	DefaultLogBurst    = 3
)

type WatcherConfig struct {
	ID     mailbox.AccountID
	Name   string
	Dialer Dialer
	Sender Sender
	Retry  RetryPolicy
	// Sleeper defaults to a timer
	Sleeper Sleeper
	Logger  lib.Logger
	// Journal is optional
	Journal Journal
	// LogInterval is the minimum interval between two failure messages, once LogBurst messages have been logged.
	// A negative value disables the limit.
	LogInterval time.Duration
	LogBurst    int
}

// Watcher keeps the status of one account up to date on the status channel.
type Watcher struct {
	id      mailbox.AccountID
	name    string
	dialer  Dialer
	sender  Sender
	backoff *backoff.Backoff
	sleeper Sleeper
	log     lib.Logger
	journal Journal

	limiter    *rate.Limiter
	suppressed int

	state    atomic.Int32
	attempts atomic.Int64
	failures atomic.Int64
	// consecutive failures since the last established session
	consecutive int

	mu      sync.Mutex
	lastErr error
}

func NewWatcher(cfg WatcherConfig) (*Watcher, error) {
	if cfg.Dialer == nil || cfg.Sender == nil {
		return nil, fmt.Errorf("watcher %d: %w", cfg.ID, lib.ErrMissingConfig)
	}
	name := cfg.Name
	if name == "" {
		name = fmt.Sprintf("account-%d", cfg.ID)
	}
	sleeper := cfg.Sleeper
	if sleeper == nil {
		sleeper = timerSleeper{}
	}
	if cfg.Retry == (RetryPolicy{}) {
		cfg.Retry = DefaultRetryPolicy()
	}
	return &Watcher{
		id:      cfg.ID,
		name:    name,
		dialer:  cfg.Dialer,
		sender:  cfg.Sender,
		backoff: cfg.Retry.newBackoff(),
		sleeper: sleeper,
		log:     lib.OrNoLog(cfg.Logger),
		journal: cfg.Journal,
		limiter: newLogLimiter(cfg.LogInterval, cfg.LogBurst),
	}, nil
}

func newLogLimiter(interval time.Duration, burst int) *rate.Limiter {
	if interval < 0 {
		return rate.NewLimiter(rate.Inf, 0)
	}
	if interval == 0 {
		interval = DefaultLogInterval
	}
	if burst <= 0 {
		burst = DefaultLogBurst
	}
	return rate.NewLimiter(rate.Every(interval), burst)
}

func (w *Watcher) ID() mailbox.AccountID {
	return w.id
}

func (w *Watcher) Name() string {
	return w.name
}

func (w *Watcher) State() State {
	return State(w.state.Load())
}

// Attempts is the number of times the watcher tried to establish a session
func (w *Watcher) Attempts() int64 {
	return w.attempts.Load()
}

func (w *Watcher) Failures() int64 {
	return w.failures.Load()
}

// LastError returns the most recent failure, or nil
func (w *Watcher) LastError() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.lastErr
}

// Run watches the account until the context is cancelled. Every failure is reported as an Error status,
// then the session is established again after the retry delay.
func (w *Watcher) Run(ctx context.Context) error {
	for {
		err := w.watch(ctx)
		if ctx.Err() != nil {
			w.state.Store(int32(Disconnected))
			return ctx.Err()
		}
		w.failed(err)

		delay := w.backoff.Duration()
		w.logFailure(err, delay)
		if err := w.sleeper.Sleep(ctx, delay); err != nil {
			return err
		}
	}
}

// watch only returns on failure or cancellation
func (w *Watcher) watch(ctx context.Context) error {
	w.attempts.Add(1)
	session, err := w.dialer.Dial(ctx)
	if err != nil {
		return fmt.Errorf("cannot establish session: %w", err)
	}
	defer func() {
		if err := session.Close(); err != nil {
			w.log.Printf("%s: error closing session: %s", w.name, err)
		}
	}()
	w.connected()

	for {
		unseen, err := session.QueryUnseen()
		if err != nil {
			return fmt.Errorf("cannot query unseen messages: %w", err)
		}
		w.sender.Send(mailbox.Event{ID: w.id, Status: mailbox.NormalStatus(unseen)})
		w.log.Printf("%s: unseen messages: %d, waiting for activity...", w.name, unseen)

		err = session.WaitForActivity(ctx)
		if err != nil {
			return fmt.Errorf("error waiting for activity: %w", err)
		}
	}
}

func (w *Watcher) connected() {
	w.state.Store(int32(Connected))
	w.backoff.Reset()
	if w.consecutive > 0 {
		w.log.Printf("%s: session established after %d failure(s)", w.name, w.consecutive)
		w.record(journal.KindRecovered, "session established", w.consecutive+1)
	}
	w.consecutive = 0
}

func (w *Watcher) failed(err error) {
	if err == nil {
		err = errors.New("session ended")
	}
	w.state.Store(int32(Disconnected))
	w.failures.Add(1)
	w.consecutive++

	w.mu.Lock()
	w.lastErr = err
	w.mu.Unlock()

	w.sender.Send(mailbox.Event{ID: w.id, Status: mailbox.ErrorStatus()})
	w.record(journal.KindFailure, err.Error(), w.consecutive)
}

func (w *Watcher) logFailure(err error, delay time.Duration) {
	if !w.limiter.Allow() {
		w.suppressed++
		return
	}
	if w.suppressed > 0 {
		w.log.Printf("%s: %d failure message(s) suppressed", w.name, w.suppressed)
		w.suppressed = 0
	}
	w.log.Printf("%s: %s", w.name, err)
	w.log.Printf("%s: reconnecting in %s...", w.name, delay)
}

func (w *Watcher) record(kind journal.Kind, message string, attempt int) {
	if w.journal == nil {
		return
	}
	err := w.journal.Record(journal.Entry{
		Account: w.name,
		Time:    time.Now(),
		Kind:    kind,
		Message: message,
		Attempt: attempt,
	})
	if err != nil {
		w.log.Printf("%s: cannot write to journal: %s", w.name, err)
	}
}
