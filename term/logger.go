package term

import (
	"fmt"

	"github.com/creativeprojects/imapstatus/lib"
)

// verify interface
var _ lib.Logger = &Logger{}

// Logger sends the messages of a component to the terminal at one level, prefixed by the component name
type Logger struct {
	level  Level
	prefix string
}

func NewLogger(level Level, prefix string) *Logger {
	return &Logger{
		level:  level,
		prefix: prefix,
	}
}

func (l *Logger) Print(a ...any) {
	l.output(fmt.Sprint(a...))
}

func (l *Logger) Println(a ...any) {
	l.output(fmt.Sprint(a...))
}

func (l *Logger) Printf(format string, a ...any) {
	l.output(fmt.Sprintf(format, a...))
}

func (l *Logger) output(message string) {
	if l.prefix != "" {
		message = l.prefix + ": " + message
	}
	switch l.level {
	case LevelTrace, LevelDebug:
		Debug(message)
	case LevelInfo:
		Info(message)
	case LevelWarn:
		Warn(message)
	default:
		Error(message)
	}
}
