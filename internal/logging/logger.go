package logging

import (
	"github.com/google/uuid"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// DefaultLevel keeps stderr quiet unless something actually fails.
const DefaultLevel = "error"

type Logger struct {
	*zap.Logger
}

func NewLogger(level string) (*Logger, error) {
	if level == "" {
		level = DefaultLevel
	}

	config := zap.NewProductionConfig()

	// Parse log level
	var zapLevel zapcore.Level
	if err := zapLevel.UnmarshalText([]byte(level)); err != nil {
		return nil, err
	}
	config.Level = zap.NewAtomicLevelAt(zapLevel)
	config.OutputPaths = []string{"stderr"}
	config.ErrorOutputPaths = []string{"stderr"}

	logger, err := config.Build()
	if err != nil {
		return nil, err
	}

	return &Logger{logger}, nil
}

// WithRunID tags every entry of one CLI invocation with a fresh run id.
func (l *Logger) WithRunID() *zap.Logger {
	return l.With(zap.String("run_id", uuid.New().String()))
}
