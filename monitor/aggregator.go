package monitor

import (
	"context"
	"errors"
	"sync"

	"github.com/creativeprojects/imapstatus/aggregate"
	"github.com/creativeprojects/imapstatus/lib"
	"github.com/creativeprojects/imapstatus/mailbox"
	"github.com/creativeprojects/imapstatus/status"
)

// Aggregator is the only reader of the status channel and the only owner of the status map.
type Aggregator struct {
	receiver Receiver
	sink     Sink
	log      lib.Logger

	// guards statuses for Snapshot only: Run is the single writer
	mu       sync.Mutex
	statuses map[mailbox.AccountID]mailbox.Status
}

func NewAggregator(receiver Receiver, sink Sink, logger lib.Logger) *Aggregator {
	return &Aggregator{
		receiver: receiver,
		sink:     sink,
		log:      lib.OrNoLog(logger),
		statuses: make(map[mailbox.AccountID]mailbox.Status),
	}
}

// Run publishes a new output for every event received.
// It returns nil when the channel is closed, or the context error.
func (a *Aggregator) Run(ctx context.Context) error {
	for {
		event, err := a.receiver.Receive(ctx)
		if err != nil {
			if errors.Is(err, status.ErrClosed) {
				return nil
			}
			return err
		}
		a.update(event)
	}
}

func (a *Aggregator) update(event mailbox.Event) {
	if !event.Status.IsValid() {
		a.log.Printf("ignoring invalid status from account %d", event.ID)
		return
	}
	a.mu.Lock()
	a.statuses[event.ID] = event.Status
	text, visible := aggregate.Aggregate(a.statuses)
	a.mu.Unlock()

	a.sink.SetVisible(visible)
	if !visible {
		return
	}
	a.publish(text)
}

func (a *Aggregator) publish(text string) {
	a.sink.BeginUpdate()
	defer a.sink.EndUpdate()

	a.sink.SetText(text)
}

// Snapshot returns a copy of the latest status of each account
func (a *Aggregator) Snapshot() map[mailbox.AccountID]mailbox.Status {
	a.mu.Lock()
	defer a.mu.Unlock()

	snapshot := make(map[mailbox.AccountID]mailbox.Status, len(a.statuses))
	for id, value := range a.statuses {
		snapshot[id] = value
	}
	return snapshot
}
