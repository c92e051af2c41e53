package monitor

import (
	"context"

	"github.com/creativeprojects/imapstatus/journal"
	"github.com/creativeprojects/imapstatus/mailbox"
)

// Dialer establishes a mailbox session: connect, authenticate and select the mailbox to watch.
type Dialer interface {
	Dial(ctx context.Context) (Session, error)
}

// Session is an established mailbox session.
type Session interface {
	// QueryUnseen returns the number of unseen messages in the selected mailbox
	QueryUnseen() (uint32, error)
	// WaitForActivity blocks until the mailbox may have changed.
	// It returns an error when the session is no longer usable.
	WaitForActivity(ctx context.Context) error
	Close() error
}

// Sender is the producing side of the status channel
type Sender interface {
	Send(event mailbox.Event)
}

// Receiver is the consuming side of the status channel
type Receiver interface {
	Receive(ctx context.Context) (mailbox.Event, error)
}

// Sink displays the aggregated output.
// SetText must only be called between BeginUpdate and EndUpdate.
type Sink interface {
	SetVisible(visible bool)
	BeginUpdate()
	SetText(text string)
	EndUpdate()
}

// Journal keeps a record of watcher failures
type Journal interface {
	Record(entry journal.Entry) error
}
