package logger

import (
	"slices"

	"github.com/stretchr/testify/mock"
)

// MockLogger is a testify mock of Logger.
//
// Logging methods record the message and the key-value slice, so expectations are usually set as
// m.On("Warn", "attempt failed", mock.Anything). Loggers derived with With report to the same mock
// and prepend their fields to the key-value slice.
type MockLogger struct {
	mock.Mock

	root   *MockLogger
	fields []any
}

var _ Logger = (*MockLogger)(nil)

func NewMockLogger() *MockLogger {
	return &MockLogger{}
}

// Fields returns the key-value pairs accumulated through With.
func (m *MockLogger) Fields() []any {
	return slices.Clone(m.fields)
}

func (m *MockLogger) target() *MockLogger {
	if m.root != nil {
		return m.root
	}

	return m
}

func (m *MockLogger) called(method string, msg string, keysAndValues []any) {
	kv := keysAndValues
	if len(m.fields) > 0 {
		kv = append(slices.Clone(m.fields), keysAndValues...)
	}
	m.target().MethodCalled(method, msg, kv)
}

func (m *MockLogger) Debug(msg string, keysAndValues ...any) {
	m.called("Debug", msg, keysAndValues)
}

func (m *MockLogger) Info(msg string, keysAndValues ...any) {
	m.called("Info", msg, keysAndValues)
}

func (m *MockLogger) Warn(msg string, keysAndValues ...any) {
	m.called("Warn", msg, keysAndValues)
}

func (m *MockLogger) Error(msg string, keysAndValues ...any) {
	m.called("Error", msg, keysAndValues)
}

func (m *MockLogger) Fatal(msg string, keysAndValues ...any) {
	m.called("Fatal", msg, keysAndValues)
}

func (m *MockLogger) SetLevel(level LogLevel) {
	m.target().MethodCalled("SetLevel", level)
}

func (m *MockLogger) Level() LogLevel {
	args := m.target().MethodCalled("Level")
	return args.Get(0).(LogLevel)
}

// With returns a child logger carrying keyValues. Without arguments it returns m itself.
func (m *MockLogger) With(keyValues ...any) Logger {
	if len(keyValues) == 0 {
		return m
	}

	fields := append(slices.Clone(m.fields), keyValues...)

	return &MockLogger{root: m.target(), fields: fields}
}
