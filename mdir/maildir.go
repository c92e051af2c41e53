package mdir

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/creativeprojects/imapstatus/lib"
	"github.com/creativeprojects/imapstatus/monitor"
	"github.com/emersion/go-maildir"
	"github.com/fsnotify/fsnotify"
)

const (
	newDir = "new"
	curDir = "cur"
)

// verify interface
var (
	_ monitor.Dialer  = &Dialer{}
	_ monitor.Session = &Maildir{}
)

// Dialer opens a session on an existing maildir
type Dialer struct {
	root string
	log  lib.Logger
}

func NewDialer(root string, logger lib.Logger) (*Dialer, error) {
	if root == "" {
		return nil, lib.ErrMissingConfig
	}
	return &Dialer{
		root: expandHome(root),
		log:  lib.OrNoLog(logger),
	}, nil
}

func (d *Dialer) Root() string {
	return d.root
}

func (d *Dialer) Dial(ctx context.Context) (monitor.Session, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return Open(d.root, d.log)
}

// Maildir counts the unseen messages of a maildir and waits for changes in it
type Maildir struct {
	dir     maildir.Dir
	log     lib.Logger
	watcher *fsnotify.Watcher
}

// Open checks the maildir layout and starts watching new/ and cur/.
// The maildir is never created.
func Open(root string, logger lib.Logger) (*Maildir, error) {
	logger = lib.OrNoLog(logger)
	for _, sub := range []string{"", newDir, curDir} {
		name := filepath.Join(root, sub)
		info, err := os.Stat(name)
		if err != nil {
			return nil, fmt.Errorf("cannot open maildir: %w", err)
		}
		if !info.IsDir() {
			return nil, fmt.Errorf("%q: %w", name, lib.ErrNotDirectory)
		}
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("cannot watch maildir: %w", err)
	}
	for _, sub := range []string{newDir, curDir} {
		err = watcher.Add(filepath.Join(root, sub))
		if err != nil {
			_ = watcher.Close()
			return nil, fmt.Errorf("cannot watch %q: %w", sub, err)
		}
	}
	logger.Printf("Watching maildir %q", root)

	return &Maildir{
		dir:     maildir.Dir(root),
		log:     logger,
		watcher: watcher,
	}, nil
}

// QueryUnseen returns the number of messages in new/ plus the messages in cur/ without the seen flag
func (m *Maildir) QueryUnseen() (uint32, error) {
	unseen, err := m.dir.UnseenCount()
	if err != nil {
		return 0, fmt.Errorf("cannot read new messages: %w", err)
	}
	count := uint32(unseen)

	err = m.dir.Walk(func(key string, flags []maildir.Flag) error {
		if !isSeen(flags) {
			count++
		}
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("cannot read current messages: %w", err)
	}
	return count, nil
}

// WaitForActivity returns on the first change in new/ or cur/
func (m *Maildir) WaitForActivity(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-m.watcher.Events:
			if !ok {
				return lib.ErrNotConnected
			}
			if event.Has(fsnotify.Chmod) && !event.Has(fsnotify.Write) {
				continue
			}
			m.log.Printf("maildir event: %s", event)
			return nil

		case err, ok := <-m.watcher.Errors:
			if !ok {
				return lib.ErrNotConnected
			}
			return fmt.Errorf("maildir watcher: %w", err)
		}
	}
}

func (m *Maildir) Close() error {
	return m.watcher.Close()
}

func expandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}
