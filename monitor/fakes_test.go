package monitor

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/creativeprojects/imapstatus/journal"
	"github.com/creativeprojects/imapstatus/mailbox"
)

var errConnection = errors.New("connection refused")

// fakeSession returns the unseen counts in order, then keeps returning the last one.
// WaitForActivity returns the next result from the activity channel, or blocks until the context is done.
type fakeSession struct {
	mu       sync.Mutex
	counts   []uint32
	queryErr error
	activity chan error
	closed   bool
}

func newFakeSession(counts ...uint32) *fakeSession {
	return &fakeSession{
		counts:   counts,
		activity: make(chan error, 10),
	}
}

func (s *fakeSession) QueryUnseen() (uint32, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.queryErr != nil {
		return 0, s.queryErr
	}
	if len(s.counts) == 0 {
		return 0, nil
	}
	count := s.counts[0]
	if len(s.counts) > 1 {
		s.counts = s.counts[1:]
	}
	return count, nil
}

func (s *fakeSession) WaitForActivity(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case err := <-s.activity:
		return err
	}
}

func (s *fakeSession) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

func (s *fakeSession) isClosed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

// fakeDialer returns the scripted results in order: a nil session means a failure.
type fakeDialer struct {
	mu       sync.Mutex
	sessions []*fakeSession
	dials    int
}

func (d *fakeDialer) Dial(ctx context.Context) (Session, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.dials++
	if len(d.sessions) == 0 {
		return nil, errConnection
	}
	session := d.sessions[0]
	d.sessions = d.sessions[1:]
	if session == nil {
		return nil, errConnection
	}
	return session, nil
}

func (d *fakeDialer) count() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.dials
}

// recordingSender keeps all the events and calls onEvent after each of them
type recordingSender struct {
	mu      sync.Mutex
	events  []mailbox.Event
	onEvent func(events []mailbox.Event)
}

func (s *recordingSender) Send(event mailbox.Event) {
	s.mu.Lock()
	s.events = append(s.events, event)
	events := append([]mailbox.Event{}, s.events...)
	s.mu.Unlock()

	if s.onEvent != nil {
		s.onEvent(events)
	}
}

func (s *recordingSender) all() []mailbox.Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]mailbox.Event{}, s.events...)
}

// fakeSleeper returns immediately and remembers the delays
type fakeSleeper struct {
	mu     sync.Mutex
	delays []time.Duration
}

func (s *fakeSleeper) Sleep(ctx context.Context, delay time.Duration) error {
	s.mu.Lock()
	s.delays = append(s.delays, delay)
	s.mu.Unlock()
	return ctx.Err()
}

func (s *fakeSleeper) all() []time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]time.Duration{}, s.delays...)
}

type memoryJournal struct {
	mu      sync.Mutex
	entries []journal.Entry
	err     error
}

func (j *memoryJournal) Record(entry journal.Entry) error {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.entries = append(j.entries, entry)
	return j.err
}

func (j *memoryJournal) all() []journal.Entry {
	j.mu.Lock()
	defer j.mu.Unlock()
	return append([]journal.Entry{}, j.entries...)
}

// sinkCall is one call made on the recordingSink
type sinkCall struct {
	method string
	value  any
}

type recordingSink struct {
	mu      sync.Mutex
	calls   []sinkCall
	locked  bool
	visible bool
	text    string
	// published receives the text at the end of each update
	published chan string
}

func newRecordingSink() *recordingSink {
	return &recordingSink{
		published: make(chan string, 100),
	}
}

func (s *recordingSink) SetVisible(visible bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.visible = visible
	s.calls = append(s.calls, sinkCall{"SetVisible", visible})
}

func (s *recordingSink) BeginUpdate() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.locked {
		panic("BeginUpdate called twice")
	}
	s.locked = true
	s.calls = append(s.calls, sinkCall{"BeginUpdate", nil})
}

func (s *recordingSink) SetText(text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.locked {
		panic("SetText called outside of an update")
	}
	s.text = text
	s.calls = append(s.calls, sinkCall{"SetText", text})
}

func (s *recordingSink) EndUpdate() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.locked {
		panic("EndUpdate called without BeginUpdate")
	}
	s.locked = false
	s.calls = append(s.calls, sinkCall{"EndUpdate", nil})
	s.published <- s.text
}

func (s *recordingSink) all() []sinkCall {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]sinkCall{}, s.calls...)
}

// visibility returns all the values sent to SetVisible
func (s *recordingSink) visibility() []bool {
	values := make([]bool, 0)
	for _, call := range s.all() {
		if call.method == "SetVisible" {
			values = append(values, call.value.(bool))
		}
	}
	return values
}
