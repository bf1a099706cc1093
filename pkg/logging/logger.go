package logging

import (
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

// Logger is the structured logger shared by every layer.
type Logger = *logrus.Logger

// Fields represents structured logging fields
type Fields = logrus.Fields

// NewLogger creates a JSON logger at the level named by level
// (falls back to LOG_LEVEL, then info).
func NewLogger(level string) Logger {
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	logger.SetOutput(os.Stdout)
	logger.SetLevel(ParseLevel(level))
	return logger
}

func ParseLevel(level string) logrus.Level {
	if strings.TrimSpace(level) == "" {
		level = os.Getenv("LOG_LEVEL")
	}
	parsed, err := logrus.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil {
		return logrus.InfoLevel
	}
	return parsed
}

// RedactEmail keeps the first rune of the local part, e.g. "j***@example.com".
func RedactEmail(email string) string {
	email = strings.TrimSpace(email)
	if email == "" {
		return ""
	}

	parts := strings.Split(email, "@")
	if len(parts) != 2 {
		return "[redacted]"
	}

	runes := []rune(parts[0])
	if len(runes) == 0 {
		return "***@" + parts[1]
	}
	return string(runes[0]) + "***@" + parts[1]
}
