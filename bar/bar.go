package bar

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/creativeprojects/imapstatus/lib"
)

const DefaultCoalesce = 30 * time.Millisecond

// block is one entry of the i3bar protocol
type block struct {
	Name     string `json:"name"`
	FullText string `json:"full_text"`
}

// Bar writes the status line of all its modules using the i3bar protocol
type Bar struct {
	out      io.Writer
	coalesce time.Duration
	log      lib.Logger
	mu       sync.Mutex
	modules  []*Module
	refresh  chan struct{}
}

type Option func(*Bar)

// WithCoalesce sets how long to wait for more updates before writing a line
func WithCoalesce(delay time.Duration) Option {
	return func(b *Bar) {
		if delay >= 0 {
			b.coalesce = delay
		}
	}
}

func WithLogger(logger lib.Logger) Option {
	return func(b *Bar) {
		b.log = lib.OrNoLog(logger)
	}
}

func New(out io.Writer, options ...Option) *Bar {
	b := &Bar{
		out:      out,
		coalesce: DefaultCoalesce,
		log:      &lib.NoLog{},
		refresh:  make(chan struct{}, 1),
	}
	for _, option := range options {
		option(b)
	}
	return b
}

// NewModule adds a module at the end of the line
func (b *Bar) NewModule(name string) *Module {
	module := newModule(name, b.Refresh)
	b.mu.Lock()
	b.modules = append(b.modules, module)
	b.mu.Unlock()
	return module
}

// Refresh asks for a new line to be written. It never blocks.
func (b *Bar) Refresh() {
	select {
	case b.refresh <- struct{}{}:
	default:
	}
}

// Run writes the protocol header, then one line each time a module changes.
// It returns when the context is done or the output cannot be written.
func (b *Bar) Run(ctx context.Context) error {
	writer := bufio.NewWriter(b.out)
	_, err := writer.WriteString("{\"version\":1}\n[\n")
	if err != nil {
		return fmt.Errorf("cannot write header: %w", err)
	}
	if err = writer.Flush(); err != nil {
		return fmt.Errorf("cannot write header: %w", err)
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-b.refresh:
		}

		if b.coalesce > 0 {
			timer := time.NewTimer(b.coalesce)
			select {
			case <-ctx.Done():
				timer.Stop()
				return ctx.Err()
			case <-timer.C:
			}
		}
		// updates received while waiting are part of this line
		select {
		case <-b.refresh:
		default:
		}

		line, err := b.line()
		if err != nil {
			return err
		}
		writer.Write(line)
		writer.WriteString(",\n")
		if err = writer.Flush(); err != nil {
			return fmt.Errorf("cannot write status line: %w", err)
		}
	}
}

func (b *Bar) line() ([]byte, error) {
	b.mu.Lock()
	modules := append([]*Module{}, b.modules...)
	b.mu.Unlock()

	blocks := make([]block, 0, len(modules))
	for _, module := range modules {
		text, visible := module.Block()
		if !visible {
			continue
		}
		blocks = append(blocks, block{Name: module.Name(), FullText: text})
	}
	line, err := json.Marshal(blocks)
	if err != nil {
		return nil, fmt.Errorf("cannot encode status line: %w", err)
	}
	b.log.Printf("status line: %s", line)
	return line, nil
}
