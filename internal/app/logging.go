package app

import (
	"log/slog"

	"github.com/prov-studio/prov-studio/internal/logging"
)

// appLog is the package-level structured logger for the app package, tagged
// with the component "app". The log level is controlled by the
// PROVSTUDIO_LOG_LEVEL environment variable (see the logging package).
// Output goes to stderr so it does not interfere with the terminal UI on
// stdout.
var appLog = logging.New("app")

// setStatusError updates the status bar with a user-facing error message
// and logs a structured error entry with full context. The status string is
// displayed verbatim; err and any additional slog-style key-value attrs
// appear only in the log entry.
func (m *Model) setStatusError(status string, err error, attrs ...any) {
	m.status = status
	fields := make([]any, 0, len(attrs)+2)
	fields = append(fields, slog.Any("error", err))
	fields = append(fields, attrs...)
	appLog.Error(status, fields...)
}
