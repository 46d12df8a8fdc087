// Package log is the process-wide logger of scanner-gke.
//
// Console output goes through logrus with colors when stderr is a terminal.
// When a log file is configured every entry is also written, at debug level,
// to a size-rotated file.
package log

import (
	"io"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/sirupsen/logrus"
	lumberjack "gopkg.in/natefinch/lumberjack.v2"
)

type logger struct {
	out  *logrus.Logger
	file *logrus.Logger
}

var log = &logger{
	out: logrus.New(),
}

// Init configures the console logger and, when logPath is not empty, the
// rolling file logger.
func Init(level logrus.Level, logPath string) {
	log.out.SetOutput(os.Stderr)
	log.out.SetLevel(level)
	log.out.SetFormatter(&logrus.TextFormatter{
		DisableColors:    !isTerminal(os.Stderr),
		FullTimestamp:    true,
		DisableTimestamp: isTerminal(os.Stderr),
	})

	if logPath == "" {
		log.file = nil
		return
	}

	log.file = logrus.New()
	log.file.SetFormatter(&logrus.TextFormatter{
		DisableColors: true,
		FullTimestamp: true,
	})
	log.file.SetOutput(getRollingLog(logPath))
	log.file.SetLevel(logrus.DebugLevel)
}

func getRollingLog(path string) io.Writer {
	return &lumberjack.Logger{
		Filename:   path,
		MaxSize:    1, // megabytes
		MaxBackups: 10,
		MaxAge:     28, //days
		Compress:   true,
	}
}

func isTerminal(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// SetOutput redirects the console logger, mostly for tests.
func SetOutput(w io.Writer) {
	log.out.SetOutput(w)
}

// SetLevel sets the level of the console logger.
func SetLevel(level string) error {
	l, err := logrus.ParseLevel(level)
	if err != nil {
		return err
	}
	log.out.SetLevel(l)
	return nil
}

// Fields is a set of structured key/value pairs attached to an entry.
type Fields = logrus.Fields

// Levels accepted by WithFields.
const (
	DebugLevel = logrus.DebugLevel
	InfoLevel  = logrus.InfoLevel
	WarnLevel  = logrus.WarnLevel
)

// WithFields logs one entry with structured fields on every sink.
func WithFields(level logrus.Level, fields Fields, msg string) {
	log.out.WithFields(fields).Log(level, msg)
	if log.file != nil {
		log.file.WithFields(fields).Log(level, msg)
	}
}

// Debugf writes a debug-level log with a format
func Debugf(format string, args ...interface{}) {
	log.out.Debugf(format, args...)
	if log.file != nil {
		log.file.Debugf(format, args...)
	}
}

// Infof writes a info-level log with a format
func Infof(format string, args ...interface{}) {
	log.out.Infof(format, args...)
	if log.file != nil {
		log.file.Infof(format, args...)
	}
}

// Warnf writes a warning-level log with a format
func Warnf(format string, args ...interface{}) {
	log.out.Warnf(format, args...)
	if log.file != nil {
		log.file.Warnf(format, args...)
	}
}

// Errorf writes a error-level log with a format
func Errorf(format string, args ...interface{}) {
	log.out.Errorf(format, args...)
	if log.file != nil {
		log.file.Errorf(format, args...)
	}
}
