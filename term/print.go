package term

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/pterm/pterm"
)

type Level int

const (
	LevelTrace Level = iota
	LevelDebug
	LevelInfo
	LevelWarn
	LevelError
)

var (
	lvl         Level     = LevelInfo
	out         io.Writer = os.Stderr
	outputMutex sync.Mutex
)

func SetLevel(level Level) {
	lvl = level
}

func GetLevel() Level {
	return lvl
}

// SetOutput changes the destination of all the messages (stderr by default: stdout carries the status line)
func SetOutput(w io.Writer) {
	outputMutex.Lock()
	defer outputMutex.Unlock()
	out = w
}

func printLine(color pterm.Color, a ...interface{}) {
	outputMutex.Lock()
	defer outputMutex.Unlock()
	pterm.Fprintln(out, color.Sprint(fmt.Sprint(a...)))
}

func printFormat(color pterm.Color, format string, a ...interface{}) {
	outputMutex.Lock()
	defer outputMutex.Unlock()
	pterm.Fprintln(out, color.Sprintf(format, a...))
}

func Debug(a ...interface{}) {
	if lvl > LevelDebug {
		return
	}
	printLine(pterm.FgLightCyan, a...)
}

func Debugf(format string, a ...interface{}) {
	if lvl > LevelDebug {
		return
	}
	printFormat(pterm.FgLightCyan, format, a...)
}

func Info(a ...interface{}) {
	if lvl > LevelInfo {
		return
	}
	printLine(pterm.FgLightGreen, a...)
}

func Infof(format string, a ...interface{}) {
	if lvl > LevelInfo {
		return
	}
	printFormat(pterm.FgLightGreen, format, a...)
}

func Warn(a ...interface{}) {
	if lvl > LevelWarn {
		return
	}
	printLine(pterm.FgYellow, a...)
}

func Warnf(format string, a ...interface{}) {
	if lvl > LevelWarn {
		return
	}
	printFormat(pterm.FgYellow, format, a...)
}

func Error(a ...interface{}) {
	printLine(pterm.FgLightRed, a...)
}

func Errorf(format string, a ...interface{}) {
	printFormat(pterm.FgLightRed, format, a...)
}
