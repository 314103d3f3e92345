package logging

// ProcessName type to ensure valid process names
type ProcessName string

const (
	EngineProcess     ProcessName = "engine"
	ReconcilerProcess ProcessName = "reconciler"
)

type LoggerConfig struct {
	ProcessName   ProcessName
	IsDevelopment bool
}

// Logger is the logging interface used across all services
type Logger interface {
	Debug(msg string, tags ...any)
	Info(msg string, tags ...any)
	Warn(msg string, tags ...any)
	Error(msg string, tags ...any)
	Fatal(msg string, tags ...any)

	Debugf(template string, args ...interface{})
	Infof(template string, args ...interface{})
	Warnf(template string, args ...interface{})
	Errorf(template string, args ...interface{})
	Fatalf(template string, args ...interface{})

	With(tags ...any) Logger
}
