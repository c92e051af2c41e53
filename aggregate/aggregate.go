// Package aggregate merges the status of every account into the single line shown on the status bar.
package aggregate

import (
	"strconv"

	"github.com/creativeprojects/imapstatus/mailbox"
)

const (
	GlyphClosed  = "\U0001F4EA"   // 📪
	GlyphOpen    = "\U0001F4EC"   // 📬
	GlyphWarning = "\u26A0\uFE0F" // ⚠️
)

// Totals reduces the statuses to the sum of unseen messages and the number of accounts in error
func Totals(statuses map[mailbox.AccountID]mailbox.Status) (unseen uint64, errors int) {
	for _, status := range statuses {
		if status.IsError() {
			errors++
			continue
		}
		if count, ok := status.Unseen(); ok {
			unseen += uint64(count)
		}
	}
	return unseen, errors
}

// Aggregate returns the text to display, or false when there is nothing to show.
// The result only depends on the set of statuses, not on the order they were received.
func Aggregate(statuses map[mailbox.AccountID]mailbox.Status) (string, bool) {
	unseen, errors := Totals(statuses)
	return Format(unseen, errors)
}

// Format builds the display text from the totals
func Format(unseen uint64, errors int) (string, bool) {
	switch {
	case unseen == 0 && errors == 0:
		return "", false
	case unseen == 0:
		return GlyphClosed + " " + GlyphWarning, true
	case errors == 0:
		return GlyphOpen + " " + strconv.FormatUint(unseen, 10), true
	default:
		return GlyphOpen + GlyphWarning + " " + strconv.FormatUint(unseen, 10), true
	}
}
