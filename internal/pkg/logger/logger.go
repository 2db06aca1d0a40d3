package logger

import (
	"os"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"
)

// Logger defines the interface for logging messages.
type Logger interface {
	Error(msg string, err error)
	Warn(msg string)
	Info(msg string)
	Debug(msg string)
}

type logrusLogger struct {
	logger *logrus.Logger
}

var (
	loggerInstance *logrusLogger
	once           sync.Once
)

// New creates the singleton logger. Level comes from LOG_LEVEL and the
// formatter from ENVIRONMENT (JSON in production/staging, text otherwise).
func New(level, environment string) Logger {
	once.Do(func() {
		l := logrus.New()
		l.SetOutput(os.Stdout)

		parsed, err := logrus.ParseLevel(strings.ToLower(level))
		if err != nil {
			parsed = logrus.InfoLevel
		}
		l.SetLevel(parsed)

		switch strings.ToLower(environment) {
		case "production", "staging":
			l.SetFormatter(&logrus.JSONFormatter{
				TimestampFormat: "2006-01-02T15:04:05.000Z07:00",
			})
		default:
			l.SetFormatter(&logrus.TextFormatter{
				FullTimestamp:   true,
				TimestampFormat: "2006-01-02 15:04:05",
			})
		}

		loggerInstance = &logrusLogger{logger: l}
	})
	return loggerInstance
}

func (l *logrusLogger) Error(msg string, err error) {
	if err != nil {
		l.logger.WithError(err).Error(msg)
		return
	}
	l.logger.Error(msg)
}

func (l *logrusLogger) Warn(msg string) {
	l.logger.Warn(msg)
}

func (l *logrusLogger) Info(msg string) {
	l.logger.Info(msg)
}

func (l *logrusLogger) Debug(msg string) {
	l.logger.Debug(msg)
}
