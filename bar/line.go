package bar

import (
	"fmt"
	"io"
	"sync"

	"github.com/creativeprojects/imapstatus/monitor"
)

// verify interface
var _ monitor.Sink = &Line{}

// Line writes the text on its own line after each update, and an empty line when it becomes hidden
type Line struct {
	out     io.Writer
	mu      sync.Mutex
	visible bool
	text    string
}

func NewLine(out io.Writer) *Line {
	return &Line{
		out: out,
	}
}

func (l *Line) SetVisible(visible bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.visible && !visible {
		l.text = ""
		fmt.Fprintln(l.out)
	}
	l.visible = visible
}

func (l *Line) BeginUpdate() {
	l.mu.Lock()
}

func (l *Line) SetText(text string) {
	l.text = text
}

func (l *Line) EndUpdate() {
	defer l.mu.Unlock()
	if l.visible {
		fmt.Fprintln(l.out, l.text)
	}
}
