package log

import (
	"fmt"
	"io"
	"os"
	"time"
)

const (
	colorReset  = "\x1b[0m"
	colorDim    = "\x1b[2m"
	colorGreen  = "\x1b[32m"
	colorYellow = "\x1b[33m"
	colorRed    = "\x1b[31m"
)

type cliLogger struct {
	out   io.Writer
	level LogLevel
}

func NewCLILogger() Logger {
	level := InfoLevel
	if logDebug() {
		level = DebugLevel
	}
	return &cliLogger{
		out:   os.Stderr,
		level: level,
	}
}

func logDebug() bool {
	return os.Getenv("DEBUG") == "true" || os.Getenv("DEBUG") == "1"
}

func (l *cliLogger) print(color, marker string, args ...interface{}) {
	fmt.Fprintf(l.out, "%s %s%s%s %s\n", time.Now().Format("15:04:05"), color, marker, colorReset, fmt.Sprint(args...))
}

func (l *cliLogger) Debug(args ...interface{}) {
	if l.level <= DebugLevel {
		l.print(colorDim, "·", args...)
	}
}

func (l *cliLogger) Info(args ...interface{}) {
	if l.level <= InfoLevel {
		l.print(colorGreen, "✔", args...)
	}
}

func (l *cliLogger) Warn(args ...interface{}) {
	if l.level <= WarnLevel {
		l.print(colorYellow, "!", args...)
	}
}

func (l *cliLogger) Error(args ...interface{}) {
	if l.level <= ErrorLevel {
		l.print(colorRed, "✖", args...)
	}
}

func (l *cliLogger) Fatal(args ...interface{}) {
	if l.level <= FatalLevel {
		l.print(colorRed, "✖", args...)
		os.Exit(1)
	}
}

func (l *cliLogger) Panic(args ...interface{}) {
	if l.level <= PanicLevel {
		l.print(colorRed, "✖", args...)
		panic(fmt.Sprint(args...))
	}
}
