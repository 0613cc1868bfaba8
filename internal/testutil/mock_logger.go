// Package testutil provides common test doubles for ChemDraw AI.
package testutil

import (
	"sync"

	"github.com/turtacn/ChemDraw-AI/internal/infrastructure/monitoring/logging"
)

// MockLogger implements logging.Logger and records every entry.  Loggers
// derived through With and Named write to the same record.
type MockLogger struct {
	buf    *logBuffer
	name   string
	fields []logging.Field
}

// LogMessage is a single recorded entry.
type LogMessage struct {
	Level   string
	Logger  string
	Message string
	Fields  []logging.Field
}

type logBuffer struct {
	mu       sync.Mutex
	messages []LogMessage
}

// NewMockLogger creates an empty MockLogger.
func NewMockLogger() *MockLogger {
	return &MockLogger{buf: &logBuffer{}}
}

func (m *MockLogger) log(level, msg string, fields []logging.Field) {
	all := make([]logging.Field, 0, len(m.fields)+len(fields))
	all = append(all, m.fields...)
	all = append(all, fields...)

	m.buf.mu.Lock()
	defer m.buf.mu.Unlock()
	m.buf.messages = append(m.buf.messages, LogMessage{
		Level:   level,
		Logger:  m.name,
		Message: msg,
		Fields:  all,
	})
}

func (m *MockLogger) Debug(msg string, fields ...logging.Field) { m.log("debug", msg, fields) }
func (m *MockLogger) Info(msg string, fields ...logging.Field)  { m.log("info", msg, fields) }
func (m *MockLogger) Warn(msg string, fields ...logging.Field)  { m.log("warn", msg, fields) }
func (m *MockLogger) Error(msg string, fields ...logging.Field) { m.log("error", msg, fields) }
func (m *MockLogger) Fatal(msg string, fields ...logging.Field) { m.log("fatal", msg, fields) }

func (m *MockLogger) With(fields ...logging.Field) logging.Logger {
	child := &MockLogger{buf: m.buf, name: m.name}
	child.fields = append(append(child.fields, m.fields...), fields...)
	return child
}

func (m *MockLogger) Named(name string) logging.Logger {
	full := name
	if m.name != "" {
		full = m.name + "." + name
	}
	return &MockLogger{buf: m.buf, name: full, fields: m.fields}
}

func (m *MockLogger) Sync() error { return nil }

// GetMessages returns a copy of all recorded entries.
func (m *MockLogger) GetMessages() []LogMessage {
	m.buf.mu.Lock()
	defer m.buf.mu.Unlock()
	result := make([]LogMessage, len(m.buf.messages))
	copy(result, m.buf.messages)
	return result
}

// Clear drops all recorded entries.
func (m *MockLogger) Clear() {
	m.buf.mu.Lock()
	defer m.buf.mu.Unlock()
	m.buf.messages = m.buf.messages[:0]
}

// HasMessage reports whether an entry with level and msg was recorded.
func (m *MockLogger) HasMessage(level, msg string) bool {
	m.buf.mu.Lock()
	defer m.buf.mu.Unlock()
	for _, logged := range m.buf.messages {
		if logged.Level == level && logged.Message == msg {
			return true
		}
	}
	return false
}

//Personal.AI order the ending
