package bar

import (
	"bytes"
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/creativeprojects/imapstatus/lib"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type safeBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *safeBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *safeBuffer) lines() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return strings.Split(strings.TrimSuffix(b.buf.String(), "\n"), "\n")
}

func startBar(t *testing.T, bar *Bar) (context.CancelFunc, chan error) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- bar.Run(ctx)
	}()
	t.Cleanup(cancel)
	return cancel, done
}

func waitLines(t *testing.T, out *safeBuffer, count int) []string {
	t.Helper()
	require.Eventually(t, func() bool {
		return len(out.lines()) >= count
	}, 5*time.Second, 5*time.Millisecond)
	return out.lines()
}

func TestBarProtocol(t *testing.T) {
	out := &safeBuffer{}
	bar := New(out, WithCoalesce(0), WithLogger(lib.NewTestLogger(t, "bar")))
	first := bar.NewModule("imap")
	second := bar.NewModule("other")
	cancel, done := startBar(t, bar)

	first.SetVisible(true)
	first.BeginUpdate()
	first.SetText("📬 4")
	first.EndUpdate()

	lines := waitLines(t, out, 3)
	assert.Equal(t, `{"version":1}`, lines[0])
	assert.Equal(t, "[", lines[1])
	require.Eventually(t, func() bool {
		lines := out.lines()
		return lines[len(lines)-1] == `[{"name":"imap","full_text":"📬 4"}],`
	}, 5*time.Second, 5*time.Millisecond)

	second.SetVisible(true)
	second.BeginUpdate()
	second.SetText("hello")
	second.EndUpdate()

	require.Eventually(t, func() bool {
		lines := out.lines()
		return lines[len(lines)-1] == `[{"name":"imap","full_text":"📬 4"},{"name":"other","full_text":"hello"}],`
	}, 5*time.Second, 5*time.Millisecond)

	first.SetVisible(false)
	require.Eventually(t, func() bool {
		lines := out.lines()
		return lines[len(lines)-1] == `[{"name":"other","full_text":"hello"}],`
	}, 5*time.Second, 5*time.Millisecond)

	cancel()
	assert.ErrorIs(t, <-done, context.Canceled)
}

func TestBarCoalescesUpdates(t *testing.T) {
	out := &safeBuffer{}
	bar := New(out, WithCoalesce(200*time.Millisecond))
	module := bar.NewModule("imap")
	cancel, done := startBar(t, bar)

	module.SetVisible(true)
	for i := 0; i < 10; i++ {
		module.BeginUpdate()
		module.SetText(strings.Repeat("x", i+1))
		module.EndUpdate()
	}

	waitLines(t, out, 3)
	// leave time for a second line to show up
	time.Sleep(400 * time.Millisecond)
	lines := out.lines()
	assert.Len(t, lines, 3)
	assert.Equal(t, `[{"name":"imap","full_text":"xxxxxxxxxx"}],`, lines[2])

	cancel()
	<-done
}

func TestBarEmptyLine(t *testing.T) {
	out := &safeBuffer{}
	bar := New(out, WithCoalesce(0))
	bar.NewModule("imap")
	cancel, done := startBar(t, bar)

	bar.Refresh()
	lines := waitLines(t, out, 3)
	assert.Equal(t, "[],", lines[2])

	cancel()
	<-done
}

func TestModuleVisibilityOnlyNotifiesOnChange(t *testing.T) {
	notified := 0
	module := newModule("imap", func() { notified++ })

	module.SetVisible(false)
	assert.Equal(t, 0, notified)
	module.SetVisible(true)
	module.SetVisible(true)
	assert.Equal(t, 1, notified)

	module.BeginUpdate()
	module.SetText("text")
	module.EndUpdate()
	assert.Equal(t, 2, notified)

	text, visible := module.Block()
	assert.Equal(t, "text", text)
	assert.True(t, visible)
}

func TestLine(t *testing.T) {
	out := &bytes.Buffer{}
	line := NewLine(out)

	line.SetVisible(false)
	line.SetVisible(true)
	line.BeginUpdate()
	line.SetText("📬 1")
	line.EndUpdate()
	line.SetVisible(true)
	line.BeginUpdate()
	line.SetText("📪 ⚠️")
	line.EndUpdate()
	line.SetVisible(false)
	line.SetVisible(false)

	assert.Equal(t, "📬 1\n📪 ⚠️\n\n", out.String())
}
