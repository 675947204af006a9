package logger

import (
	"github.com/sirupsen/logrus"
)

// Logger wraps logrus for structured logging
type Logger struct {
	*logrus.Entry
}

// New creates a new logger
func New() *Logger {
	return &Logger{
		Entry: logrus.NewEntry(logrus.StandardLogger()),
	}
}

// ForIdentity returns a logger tagged with the acting identity's email.
// Every authorization-relevant log line should carry the actor.
func ForIdentity(email string) *Logger {
	l := New()
	if email == "" {
		email = "anonymous"
	}
	return &Logger{Entry: l.Entry.WithField("actor", email)}
}

// WithField adds a field to the logger
func (l *Logger) WithField(key string, value interface{}) *Logger {
	return &Logger{Entry: l.Entry.WithField(key, value)}
}

// WithFields adds multiple fields to the logger
func (l *Logger) WithFields(fields map[string]interface{}) *Logger {
	return &Logger{Entry: l.Entry.WithFields(fields)}
}

// WithOrganization tags the logger with the tenant scope being operated on
func (l *Logger) WithOrganization(orgID string) *Logger {
	return &Logger{Entry: l.Entry.WithField("organization_id", orgID)}
}

// Setup configures the process-wide logrus defaults
func Setup(level string) {
	logrus.SetFormatter(&logrus.JSONFormatter{})

	switch level {
	case "debug":
		logrus.SetLevel(logrus.DebugLevel)
	case "info":
		logrus.SetLevel(logrus.InfoLevel)
	case "warn":
		logrus.SetLevel(logrus.WarnLevel)
	case "error":
		logrus.SetLevel(logrus.ErrorLevel)
	default:
		logrus.SetLevel(logrus.InfoLevel)
	}
}
