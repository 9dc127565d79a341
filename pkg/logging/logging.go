// Package logging configures the process-wide structured logger used by
// every other package in this module.
package logging

import (
	"fmt"
	"io"
	"os"
	"path"
	"runtime"
	"strings"

	"github.com/sirupsen/logrus"
)

// SetLogging sets the global logging level and output destination.
//
// levelName is one of "error", "warning"/"warn", "info", "debug"; an
// unrecognized or empty name defaults to "debug". filename is the output
// log file's full path, or "" for stdout only.
//
// Adapted from wostzone/wost-go/pkg/logging.SetLogging, trimmed to return an
// error on an unopenable log file instead of only logging a warning and
// silently falling back to stdout.
func SetLogging(levelName string, filename string) error {
	loggingLevel := logrus.DebugLevel
	logrus.SetReportCaller(true)

	if levelName != "" {
		switch strings.ToLower(levelName) {
		case "error":
			loggingLevel = logrus.ErrorLevel
		case "warn", "warning":
			loggingLevel = logrus.WarnLevel
		case "info":
			loggingLevel = logrus.InfoLevel
		case "debug":
			loggingLevel = logrus.DebugLevel
		}
	}

	var logOut io.Writer = os.Stdout
	if filename != "" {
		logFile, err := os.OpenFile(filename, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0644)
		if err != nil {
			return fmt.Errorf("logging: unable to open log file %s: %w", filename, err)
		}
		logOut = io.MultiWriter(logOut, logFile)
	}

	logrus.SetFormatter(&logrus.TextFormatter{
		DisableColors:   false,
		ForceColors:     true,
		PadLevelText:    true,
		TimestampFormat: "2006-01-02T15:04:05.000-0700",
		FullTimestamp:   true,
		CallerPrettyfier: func(f *runtime.Frame) (string, string) {
			funcName := f.Func.Name()
			names := strings.Split(funcName, ".")
			if len(names) > 1 {
				funcName = names[len(names)-1]
			}
			_, funcName = path.Split(funcName)
			funcName += "(): "

			fileInfo := fmt.Sprintf(" %s:%v", path.Base(f.File), f.Line)
			return funcName, fileInfo
		},
	})
	logrus.SetOutput(logOut)
	logrus.SetLevel(loggingLevel)
	return nil
}
