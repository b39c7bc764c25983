package config

import (
	"io"
	"os"

	log "github.com/sirupsen/logrus"
)

// InitLogging configures the global logger. Unknown level names fall back to info.
func InitLogging(level string, output io.Writer) {
	if output == nil {
		output = os.Stderr
	}

	formatter := new(log.TextFormatter)
	formatter.TimestampFormat = "02-01-2006 15:04:05"
	formatter.FullTimestamp = true
	formatter.DisableColors = true
	log.SetFormatter(formatter)
	log.SetOutput(output)

	parsed, err := log.ParseLevel(level)
	if err != nil {
		log.Warnf("Unknown log level %q, using info", level)
		parsed = log.InfoLevel
	}
	log.SetLevel(parsed)
}
