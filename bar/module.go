package bar

import (
	"sync"

	"github.com/creativeprojects/imapstatus/monitor"
)

// verify interface
var _ monitor.Sink = &Module{}

// Module is one named block of the status line.
// The text is only written between BeginUpdate and EndUpdate.
type Module struct {
	name    string
	mu      sync.Mutex
	visible bool
	text    string
	notify  func()
}

func newModule(name string, notify func()) *Module {
	if notify == nil {
		notify = func() {}
	}
	return &Module{
		name:   name,
		notify: notify,
	}
}

func (m *Module) Name() string {
	return m.name
}

func (m *Module) SetVisible(visible bool) {
	m.mu.Lock()
	changed := m.visible != visible
	m.visible = visible
	m.mu.Unlock()

	if changed {
		m.notify()
	}
}

func (m *Module) BeginUpdate() {
	m.mu.Lock()
}

// SetText must be called between BeginUpdate and EndUpdate
func (m *Module) SetText(text string) {
	m.text = text
}

func (m *Module) EndUpdate() {
	m.mu.Unlock()
	m.notify()
}

// Block returns the current text, and false when the module is hidden
func (m *Module) Block() (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.text, m.visible
}
