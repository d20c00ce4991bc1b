// ─────────────────────────────────────────────────────────────────────────────
// [Filename]: debug.go — Cold-path diagnostics on stderr
//
// Purpose:
//   - Logs setup, warning and failure paths without touching stdout,
//     which carries benchmark rows only.
//   - Adds structured context (sizes, CPUs, seeds) through logrus fields.
//
// Notes:
//   - Never call from inside a timed region.
//   - The logger is process-wide; tests may swap the output with SetOutput.
// ─────────────────────────────────────────────────────────────────────────────

package debug

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"
)

// Fields is re-exported so callers do not import logrus for one map type.
type Fields = logrus.Fields

var log = newLogger(os.Stderr)

func newLogger(w io.Writer) *logrus.Logger {
	l := logrus.New()
	l.SetOutput(w)
	l.SetLevel(logrus.InfoLevel)
	l.SetFormatter(&logrus.TextFormatter{
		DisableTimestamp: true,
		DisableColors:    true,
	})
	return l
}

// Logger exposes the shared logger for callers that need WithFields chains.
func Logger() *logrus.Logger {
	return log
}

// SetOutput redirects every diagnostic line.
func SetOutput(w io.Writer) {
	log.SetOutput(w)
}

// SetVerbose toggles debug-level lines (per-worker detail).
func SetVerbose(on bool) {
	if on {
		log.SetLevel(logrus.DebugLevel)
		return
	}
	log.SetLevel(logrus.InfoLevel)
}

// DropError logs a failure tagged with prefix. A nil err logs prefix alone,
// the cheap trace form used for one-word markers.
func DropError(prefix string, err error) {
	if err != nil {
		log.WithError(err).Error(prefix)
		return
	}
	log.Error(prefix)
}

// DropMessage logs an informational line.
func DropMessage(prefix, message string) {
	log.WithField("tag", prefix).Info(message)
}

// DropWarning logs a non-fatal condition the run continues through.
func DropWarning(prefix string, fields Fields) {
	log.WithFields(fields).Warn(prefix)
}

// DropFields logs an informational line with structured context.
func DropFields(prefix string, fields Fields) {
	log.WithFields(fields).Info(prefix)
}

// DropDebug logs a line visible only with SetVerbose(true).
func DropDebug(prefix string, fields Fields) {
	log.WithFields(fields).Debug(prefix)
}
