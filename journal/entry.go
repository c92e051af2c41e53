package journal

import "time"

type Kind string

const (
	KindFailure   Kind = "failure"
	KindRecovered Kind = "recovered"
)

// Entry is one event in the life of a watcher
type Entry struct {
	Account string
	Time    time.Time
	Kind    Kind
	Message string
	// Attempt is the number of consecutive attempts to establish the session
	Attempt int
}
