package helpers

import (
	"os"

	"github.com/sirupsen/logrus"
)

// NewLogger creates a configured Logrus logger. Development and testing
// get human-readable debug output; staging logs info and production
// warnings and up, both as JSON.
func NewLogger(appName, env string) *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(os.Stdout)
	switch env {
	case "development", "testing":
		logger.SetLevel(logrus.DebugLevel)
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	case "production":
		logger.SetLevel(logrus.WarnLevel)
		logger.SetFormatter(&logrus.JSONFormatter{})
	default:
		logger.SetLevel(logrus.InfoLevel)
		logger.SetFormatter(&logrus.JSONFormatter{})
	}
	logger.WithFields(logrus.Fields{"app": appName, "env": env}).Info("logger initialized")
	return logger
}
