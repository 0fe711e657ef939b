package config

import (
	"os"

	"github.com/sirupsen/logrus"
)

var logger *logrus.Logger

// InitLogger configures the application logger. Production gets the JSON
// formatter so log aggregation can index the reconciliation fields.
func InitLogger(cfg *Config) *logrus.Logger {
	logger = logrus.New()
	logger.Out = os.Stdout

	if cfg != nil && cfg.IsProduction() {
		logger.Formatter = &logrus.JSONFormatter{
			FieldMap: logrus.FieldMap{
				logrus.FieldKeyTime:  "timestamp",
				logrus.FieldKeyLevel: "severity",
				logrus.FieldKeyMsg:   "message",
			},
		}
	} else {
		logger.Formatter = &logrus.TextFormatter{FullTimestamp: true}
	}

	level := "info"
	if cfg != nil && cfg.LogLevel != "" {
		level = cfg.LogLevel
	}
	parsed, err := logrus.ParseLevel(level)
	if err != nil {
		parsed = logrus.InfoLevel
	}
	logger.SetLevel(parsed)

	return logger
}

// GetLogger returns the application logger, initializing a default one if
// InitLogger has not run (tests construct services before main does)
func GetLogger() *logrus.Logger {
	if logger == nil {
		return InitLogger(nil)
	}
	return logger
}
