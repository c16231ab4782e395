// internal/infra/logger/logger.go
package logger

import (
	"io"
	"os"
	"strings"

	"contract_expiry_notifier/internal/infra/config"

	"github.com/sirupsen/logrus"
)

// Log is the global logger instance
var Log = logrus.New()

// Init initializes the global logger based on application configuration.
func Init(cfg *config.AppConfig) *logrus.Logger {
	return configure(Log, cfg, os.Stdout)
}

func configure(l *logrus.Logger, cfg *config.AppConfig, out io.Writer) *logrus.Logger {
	l.SetOutput(out)

	level, err := logrus.ParseLevel(strings.ToLower(cfg.LogLevel))
	if err != nil {
		l.Warnf("Invalid log level '%s', defaulting to 'info'. Error: %v", cfg.LogLevel, err)
		l.SetLevel(logrus.InfoLevel)
	} else {
		l.SetLevel(level)
	}

	env := strings.ToLower(cfg.Environment)
	if env == "production" || env == "staging" {
		l.SetFormatter(&logrus.JSONFormatter{
			TimestampFormat: "2006-01-02T15:04:05.000Z07:00", // ISO8601
		})
	} else {
		l.SetFormatter(&logrus.TextFormatter{
			FullTimestamp:   true,
			TimestampFormat: "2006-01-02 15:04:05",
		})
	}

	l.Debugf("Log level set to: %s", l.GetLevel().String())
	l.Debugf("Log format set for environment: %s", cfg.Environment)
	return l
}

// Get returns the configured global logger.
func Get() *logrus.Logger {
	return Log
}
