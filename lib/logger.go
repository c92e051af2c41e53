package lib

import (
	"testing"
	"time"
)

type Logger interface {
	Print(a ...any)
	Println(a ...any)
	Printf(format string, a ...any)
}

type NoLog struct{}

func (l *NoLog) Print(a ...any)                 {}
func (l *NoLog) Println(a ...any)               {}
func (l *NoLog) Printf(format string, a ...any) {}

// OrNoLog returns logger, or a NoLog when logger is nil
func OrNoLog(logger Logger) Logger {
	if logger == nil {
		return &NoLog{}
	}
	return logger
}

type TestLogger struct {
	t      testing.TB
	prefix string
	start  time.Time
}

func NewTestLogger(t testing.TB, prefix string) *TestLogger {
	return &TestLogger{
		t:      t,
		prefix: prefix,
		start:  time.Now(),
	}
}

func (l *TestLogger) Print(a ...any) {
	l.t.Helper()
	elapsed := time.Since(l.start).Truncate(time.Millisecond).String()
	if l.prefix == "" {
		l.t.Log(append([]any{elapsed}, a...)...)
	} else {
		l.t.Log(append([]any{elapsed, l.prefix + ":"}, a...)...)
	}
}

func (l *TestLogger) Println(a ...any) {
	l.t.Helper()
	l.Print(a...)
}

func (l *TestLogger) Printf(format string, a ...any) {
	l.t.Helper()
	if l.prefix != "" {
		format = l.prefix + ": " + format
	}
	l.t.Logf(time.Since(l.start).Truncate(time.Millisecond).String()+" "+format, a...)
}
