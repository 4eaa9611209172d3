package memscan

import (
	"io"

	"github.com/sirupsen/logrus"
)

// log is the package-level diagnostic logger. It is silent by default (the
// core never prints on its own behalf — spec.md §1 treats "logging setup" as
// an external collaborator's concern) and can be pointed at a real sink by
// an embedding CLI or GUI via SetLogger.
var log = newSilentLogger()

func newSilentLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	l.SetLevel(logrus.DebugLevel)
	return l
}

// SetLogger replaces the package's diagnostic logger. Passing nil restores
// the silent default.
func SetLogger(l *logrus.Logger) {
	if l == nil {
		log = newSilentLogger()
		return
	}
	log = l
}
