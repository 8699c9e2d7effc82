package logsvc

import (
	"log"

	"github.com/trezcool/mahudhurio/core"
)

// DummyLogger logs to a standard logger only. It stands in for the
// Rollbar logger in tests and local tooling.
type DummyLogger struct {
	std *log.Logger
}

var _ core.Logger = (*DummyLogger)(nil)

func NewDummyLogger(std *log.Logger) *DummyLogger {
	return &DummyLogger{std: std}
}

func (l DummyLogger) Enable(bool) {}

func (l DummyLogger) print(lvl, msg string, args []interface{}) {
	l.std.Printf("%s: %s", lvl, msg)
	for _, arg := range args {
		l.std.Printf("%+v\n", arg)
	}
}

func (l DummyLogger) Debug(msg string, args ...interface{}) { l.print("DEBUG", msg, args) }
func (l DummyLogger) Info(msg string, args ...interface{})  { l.print("INFO", msg, args) }
func (l DummyLogger) Warn(msg string, args ...interface{})  { l.print("WARN", msg, args) }
func (l DummyLogger) Error(msg string, args ...interface{}) { l.print("ERROR", msg, args) }
func (l DummyLogger) Fatal(msg string, args ...interface{}) {
	l.print("FATAL", msg, args)
	l.std.Fatal(msg)
}
