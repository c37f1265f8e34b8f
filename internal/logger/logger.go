package logger

import (
	"context"
	"log"
	"os"
	"strings"

	"gopkg.in/natefinch/lumberjack.v2"
)

type implLogger struct {
	console *log.Logger
	file    *log.Logger
	level   string
}

// New creates a console-only Logger instance.
func New(level string) Logger {
	return &implLogger{
		console: log.New(os.Stdout, "", log.LstdFlags),
		level:   strings.ToLower(level),
	}
}

// NewWithFile creates a Logger that also writes every record, debug
// included, to a rotating log file. The console still honors level.
func NewWithFile(level, path string) Logger {
	writer := &lumberjack.Logger{
		Filename:   path,
		MaxSize:    50, // MB
		MaxBackups: 5,
		MaxAge:     30, // days
		Compress:   true,
	}

	return &implLogger{
		console: log.New(os.Stdout, "", log.LstdFlags),
		file:    log.New(writer, "", log.LstdFlags),
		level:   strings.ToLower(level),
	}
}

func (l *implLogger) shouldLog(level string) bool {
	levels := map[string]int{
		"debug": 0,
		"info":  1,
		"warn":  2,
		"error": 3,
	}

	currentLevel, ok := levels[l.level]
	if !ok {
		currentLevel = 1 // default to info
	}

	targetLevel, ok := levels[level]
	if !ok {
		return true
	}

	return targetLevel >= currentLevel
}

func (l *implLogger) write(level, msg string, args ...interface{}) {
	tagged := "[" + strings.ToUpper(level) + "] " + msg
	if l.file != nil {
		l.file.Printf(tagged, args...)
	}
	if l.shouldLog(level) {
		l.console.Printf(tagged, args...)
	}
}

func (l *implLogger) Debug(ctx context.Context, msg string, args ...interface{}) {
	l.write("debug", msg, args...)
}

func (l *implLogger) Info(ctx context.Context, msg string, args ...interface{}) {
	l.write("info", msg, args...)
}

func (l *implLogger) Warn(ctx context.Context, msg string, args ...interface{}) {
	l.write("warn", msg, args...)
}

func (l *implLogger) Error(ctx context.Context, msg string, args ...interface{}) {
	l.write("error", msg, args...)
}
