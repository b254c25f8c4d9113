package log

import (
	"fmt"
	"github.com/sirupsen/logrus"
	"io"
	"os"
	"path/filepath"
	"sync"
)

const (
	fileName = "debug.log"
)

// directory the log file is created in, relative to the working directory unless absolute
var logDir = "generated"

var logger *logrus.Logger
var logInit sync.Once

// initLogger initializes the logger to start appending on the log file as well as stdout.
// It creates the log directory and file if non-existent
func initLogger() (err error) {
	logger = logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02T15:04:05.000000Z07:00",
	})
	if _, err = os.Stat(logDir); os.IsNotExist(err) {
		err = os.MkdirAll(logDir, 0755)
		if err != nil {
			err = fmt.Errorf("error creating log directory %s: %s", logDir, err)
			return
		}
	}
	file, err := os.OpenFile(filepath.Join(logDir, fileName), os.O_RDWR|os.O_CREATE|os.O_APPEND, 0666)
	if err != nil {
		err = fmt.Errorf("opening log file failed: %s", err)
		return
	}
	logger.SetOutput(io.MultiWriter(os.Stdout, file))
	return
}

// SetDir changes the directory of the log file. It has effect only before the first use of Logger
func SetDir(dir string) {
	if dir != "" {
		logDir = dir
	}
}

// SetLevel parses and applies the given level name, e.g. "debug" or "warn"
func SetLevel(level string) error {
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return err
	}
	Logger().SetLevel(lvl)
	return nil
}

// Logger gives the logger instance to enable logging events
func Logger() *logrus.Logger {
	logInit.Do(func() {
		if err := initLogger(); err != nil {
			panic(fmt.Sprintf("error while initializing internal logger: %s", err))
		}
	})
	return logger
}

// WriteLogAndReturnError appends a given formatted string on the log and
// returns an error generated from the string
func WriteLogAndReturnError(format string, params ...interface{}) error {
	err := fmt.Errorf(format, params...)
	Logger().Error(err)
	return err
}
