package publishers

import "context"

// Publisher delivers page events to a downstream sink (HTTP, SQS, SNS, Pub/Sub).
type Publisher interface {
	ID() string
	Type() string
	Publish(ctx context.Context, evt PageEvent) error
}

// Logger defines the logging surface publishers rely on.
type Logger interface {
	DebugObj(msg, key string, obj interface{})
	ErrorObj(msg, key string, obj interface{})
}

type noopLogger struct{}

func (noopLogger) DebugObj(string, string, interface{}) {}
func (noopLogger) ErrorObj(string, string, interface{}) {}

func ensureLogger(log Logger) Logger {
	if log == nil {
		return noopLogger{}
	}
	return log
}
