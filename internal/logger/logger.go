package logger

import (
	"context"

	"github.com/sirupsen/logrus"

	"saas-platform-backend/internal/tenancy"
)

// Logger wraps logrus for structured logging with context support
type Logger struct {
	*logrus.Entry
}

// New creates a new logger
func New() *Logger {
	return &Logger{
		Entry: logrus.NewEntry(logrus.StandardLogger()),
	}
}

// WithContext creates a logger annotated with the request identity carried
// in ctx (acting user and tenant scope, when present).
func WithContext(ctx context.Context) *Logger {
	logger := New()

	if actor := tenancy.ActorID(ctx); actor != "" {
		logger.Entry = logger.Entry.WithField("actor", actor)
	}
	if tenantID, ok := tenancy.TenantID(ctx); ok {
		logger.Entry = logger.Entry.WithField("tenant_id", tenantID.String())
	}

	return logger
}

// WithField adds a field to the logger
func (l *Logger) WithField(key string, value interface{}) *Logger {
	return &Logger{
		Entry: l.Entry.WithField(key, value),
	}
}

// WithFields adds multiple fields to the logger
func (l *Logger) WithFields(fields map[string]interface{}) *Logger {
	return &Logger{
		Entry: l.Entry.WithFields(fields),
	}
}

// WithError adds an error field to the logger
func (l *Logger) WithError(err error) *Logger {
	return &Logger{
		Entry: l.Entry.WithError(err),
	}
}
