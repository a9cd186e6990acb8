package infrastructures

import (
	"github.com/sirupsen/logrus"
)

// SetupLogger switches the standard logrus logger to JSON at the configured level.
func SetupLogger(cfg *AppConfig) {
	logrus.SetFormatter(&logrus.JSONFormatter{})

	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		logrus.Warnf("unknown LOG_LEVEL %q, using info", cfg.LogLevel)
		level = logrus.InfoLevel
	}
	logrus.SetLevel(level)
}
