package aggregate

import (
	"math/rand"
	"testing"

	"github.com/creativeprojects/imapstatus/mailbox"
	"github.com/stretchr/testify/assert"
)

type statuses = map[mailbox.AccountID]mailbox.Status

func TestAggregate(t *testing.T) {
	fixtures := []struct {
		name     string
		input    statuses
		expected string
		visible  bool
	}{
		{"empty", statuses{}, "", false},
		{"nil", nil, "", false},
		{"zero unseen", statuses{1: mailbox.NormalStatus(0)}, "", false},
		{"zero unseen and error", statuses{1: mailbox.NormalStatus(0), 2: mailbox.ErrorStatus()}, "📪 ⚠️", true},
		{"errors only", statuses{1: mailbox.ErrorStatus(), 2: mailbox.ErrorStatus()}, "📪 ⚠️", true},
		{"sum of unseen", statuses{1: mailbox.NormalStatus(3), 2: mailbox.NormalStatus(2)}, "📬 5", true},
		{"unseen and error", statuses{1: mailbox.NormalStatus(3), 2: mailbox.ErrorStatus()}, "📬⚠️ 3", true},
		{"invalid status ignored", statuses{1: {}, 2: mailbox.NormalStatus(1)}, "📬 1", true},
	}

	for _, fixture := range fixtures {
		t.Run(fixture.name, func(t *testing.T) {
			text, visible := Aggregate(fixture.input)
			assert.Equal(t, fixture.visible, visible)
			assert.Equal(t, fixture.expected, text)
		})
	}
}

func TestGlyphs(t *testing.T) {
	assert.Equal(t, "📪", GlyphClosed)
	assert.Equal(t, "📬", GlyphOpen)
	assert.Equal(t, "⚠️", GlyphWarning)
}

func TestTotals(t *testing.T) {
	unseen, errors := Totals(statuses{
		0: mailbox.NormalStatus(7),
		1: mailbox.ErrorStatus(),
		2: mailbox.NormalStatus(0),
		3: mailbox.NormalStatus(1),
	})
	assert.Equal(t, uint64(8), unseen)
	assert.Equal(t, 1, errors)
}

func TestLargeTotalDoesNotOverflow(t *testing.T) {
	text, visible := Aggregate(statuses{
		0: mailbox.NormalStatus(^uint32(0)),
		1: mailbox.NormalStatus(^uint32(0)),
	})
	assert.True(t, visible)
	assert.Equal(t, "📬 8589934590", text)
}

func randomStatus(rnd *rand.Rand) mailbox.Status {
	if rnd.Intn(4) == 0 {
		return mailbox.ErrorStatus()
	}
	return mailbox.NormalStatus(uint32(rnd.Intn(20)))
}

func TestOrderIndependence(t *testing.T) {
	rnd := rand.New(rand.NewSource(42))
	for round := 0; round < 200; round++ {
		size := rnd.Intn(10)
		ids := make([]mailbox.AccountID, size)
		values := make(map[mailbox.AccountID]mailbox.Status, size)
		for i := 0; i < size; i++ {
			ids[i] = mailbox.AccountID(i)
			values[mailbox.AccountID(i)] = randomStatus(rnd)
		}
		reference := make(statuses, size)
		for _, id := range ids {
			reference[id] = values[id]
		}
		expected, expectedVisible := Aggregate(reference)

		for shuffle := 0; shuffle < 5; shuffle++ {
			rnd.Shuffle(len(ids), func(i, j int) { ids[i], ids[j] = ids[j], ids[i] })
			built := make(statuses, size)
			for _, id := range ids {
				built[id] = values[id]
			}
			text, visible := Aggregate(built)
			assert.Equal(t, expectedVisible, visible)
			assert.Equal(t, expected, text)
		}
	}
}

func TestZeroUnseenEntriesNeverChangeOutput(t *testing.T) {
	rnd := rand.New(rand.NewSource(7))
	for round := 0; round < 200; round++ {
		size := rnd.Intn(6)
		input := make(statuses, size+5)
		for i := 0; i < size; i++ {
			input[mailbox.AccountID(i)] = randomStatus(rnd)
		}
		expected, expectedVisible := Aggregate(input)

		extra := 1 + rnd.Intn(5)
		for i := 0; i < extra; i++ {
			input[mailbox.AccountID(100+i)] = mailbox.NormalStatus(0)
		}
		text, visible := Aggregate(input)
		assert.Equal(t, expectedVisible, visible)
		assert.Equal(t, expected, text)
	}
}
