package mailbox

import "strconv"

// AccountID is the index of the account in the configuration.
// It is the key used to join a watcher with the aggregator.
type AccountID int

type kind uint8

const (
	kindInvalid kind = iota
	kindError
	kindNormal
)

// Status of one account: either Error, or Normal with a number of unseen messages.
// The zero value is not a valid status.
type Status struct {
	kind   kind
	unseen uint32
}

// ErrorStatus means the account session is currently unusable
func ErrorStatus() Status {
	return Status{kind: kindError}
}

// NormalStatus means the account is reachable and has unseen messages (possibly zero)
func NormalStatus(unseen uint32) Status {
	return Status{kind: kindNormal, unseen: unseen}
}

func (s Status) IsError() bool {
	return s.kind == kindError
}

func (s Status) IsValid() bool {
	return s.kind == kindError || s.kind == kindNormal
}

// Unseen returns the number of unseen messages, and false when the status is not Normal
func (s Status) Unseen() (uint32, bool) {
	if s.kind != kindNormal {
		return 0, false
	}
	return s.unseen, true
}

func (s Status) String() string {
	switch s.kind {
	case kindError:
		return "error"
	case kindNormal:
		return "normal(" + strconv.FormatUint(uint64(s.unseen), 10) + ")"
	default:
		return "invalid"
	}
}

// Event is sent by a watcher every time the status of its account is known
type Event struct {
	ID     AccountID
	Status Status
}
