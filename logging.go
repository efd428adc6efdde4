package main

import (
	"io"
	"os"

	log "github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

// setupLogging points the standard logrus logger at a rotating log file,
// plus stderr when logConsole is set. An empty logFile logs to stderr only.
func setupLogging(settings configSettings) (io.Closer, error) {
	level, err := log.ParseLevel(settings.GetString(sLogLevel))
	if err != nil {
		return nil, initFailure(err, "log level")
	}
	log.SetLevel(level)
	log.SetFormatter(&log.TextFormatter{FullTimestamp: true})

	fileName := settings.GetString(sLogFile)
	if fileName == "" {
		log.SetOutput(os.Stderr)
		return nopCloser{}, nil
	}

	logFile := &lumberjack.Logger{
		Filename:   fileName,
		MaxSize:    settings.GetInt(sLogMaxSize),
		MaxBackups: settings.GetInt(sLogBackups),
		Compress:   true,
	}

	var out io.Writer = logFile
	if settings.GetBool(sLogConsole) {
		out = io.MultiWriter(os.Stderr, logFile)
	}
	log.SetOutput(out)
	return logFile, nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
