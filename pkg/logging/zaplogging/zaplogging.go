package zaplogging

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/vipshek/gradle-java-distribution/pkg/logging"
)

// SprintfLogger exposes a zap SugaredLogger through sprintf-style functions
// suitable for logging.LogFuncs.
type SprintfLogger struct {
	sugar *zap.SugaredLogger
}

// NewZapSprintfLogger builds a console logger writing to stderr. verbose
// lowers the threshold to debug.
func NewZapSprintfLogger(verbose bool) (*SprintfLogger, error) {
	config := zap.NewDevelopmentConfig()
	config.OutputPaths = []string{"stderr"}
	config.ErrorOutputPaths = []string{"stderr"}
	if verbose {
		config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	} else {
		config.Level = zap.NewAtomicLevelAt(zapcore.InfoLevel)
	}

	zapLogger, err := config.Build(zap.AddCallerSkip(2))
	if err != nil {
		return nil, err
	}

	return &SprintfLogger{sugar: zapLogger.Sugar()}, nil
}

// LogFuncs adapts the logger for logging.NewLogger
func (l *SprintfLogger) LogFuncs() logging.LogFuncs {
	return logging.LogFuncs{
		Debugf: l.Debugf,
		Infof:  l.Infof,
		Warnf:  l.Warnf,
		Errorf: l.Errorf,
	}
}

func (l *SprintfLogger) Debugf(format string, args ...interface{}) {
	l.sugar.Debugf(format, args...)
}

func (l *SprintfLogger) Infof(format string, args ...interface{}) {
	l.sugar.Infof(format, args...)
}

func (l *SprintfLogger) Warnf(format string, args ...interface{}) {
	l.sugar.Warnf(format, args...)
}

func (l *SprintfLogger) Errorf(format string, args ...interface{}) {
	l.sugar.Errorf(format, args...)
}

// Sync flushes buffered log entries, call before process exit
func (l *SprintfLogger) Sync() error {
	return l.sugar.Sync()
}
