package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"time"

	"gopkg.in/natefinch/lumberjack.v2"

	"tg-wordguard/internal/config"
)

// Log levels, in increasing severity.
const (
	LevelDebug = iota
	LevelInfo
	LevelWarning
	LevelError
	LevelFatal
)

var levelNames = []string{"DEBUG", "INFO", "WARNING", "ERROR", "FATAL"}

var (
	mu         sync.Mutex
	out        io.Writer = os.Stdout
	minLevel             = LevelInfo
	timeFormat           = "2006/01/02 15:04:05"
)

// createLogFilePath generates a log file path with the current date
func createLogFilePath(logDir, prefix string) string {
	currentDate := time.Now().Format("2006-01-02")
	return filepath.Join(logDir, fmt.Sprintf("%s-%s.log", prefix, currentDate))
}

// createRotatingLogger creates a lumberjack rotating logger
func createRotatingLogger(logFilePath string, cfg *config.Config) *lumberjack.Logger {
	return &lumberjack.Logger{
		Filename:   logFilePath,
		MaxSize:    cfg.Logger.Rotation.MaxSize,
		MaxBackups: cfg.Logger.Rotation.MaxBackups,
		MaxAge:     cfg.Logger.Rotation.MaxAge,
		Compress:   cfg.Logger.Rotation.Compress,
	}
}

// createMultiWriter creates a writer that outputs to both stdout and log file
func createMultiWriter(rotatingLogger io.Writer) io.Writer {
	return io.MultiWriter(os.Stdout, rotatingLogger)
}

func parseLevel(level string) int {
	switch strings.ToUpper(level) {
	case "DEBUG":
		return LevelDebug
	case "INFO":
		return LevelInfo
	case "WARNING", "WARN":
		return LevelWarning
	case "ERROR":
		return LevelError
	case "FATAL":
		return LevelFatal
	default:
		return LevelInfo
	}
}

// Setup configures logging to output to both stdout and a rotating log file
func Setup(cfg *config.Config) error {
	logDir := cfg.Logger.Directory

	// Create log directory if it doesn't exist
	if err := os.MkdirAll(logDir, 0755); err != nil {
		return fmt.Errorf("failed to create log directory: %w", err)
	}

	logFilePath := createLogFilePath(logDir, "tg-wordguard")
	rotatingLogger := createRotatingLogger(logFilePath, cfg)

	mu.Lock()
	out = createMultiWriter(rotatingLogger)
	minLevel = parseLevel(cfg.Logger.Level)
	if cfg.Logger.TimeFormat != "" {
		timeFormat = cfg.Logger.TimeFormat
	}
	mu.Unlock()

	Infof("Logging initialized: writing to %s", logFilePath)
	return nil
}

// GetRotatingLogWriter returns a rotating log writer for custom loggers
func GetRotatingLogWriter(cfg *config.Config, prefix string) io.Writer {
	logFilePath := createLogFilePath(cfg.Logger.Directory, prefix)
	rotatingLogger := createRotatingLogger(logFilePath, cfg)
	return createMultiWriter(rotatingLogger)
}

// write emits a single log line: [LEVEL] time file:line: message
func write(level int, msg string) {
	mu.Lock()
	defer mu.Unlock()
	if level < minLevel {
		return
	}

	_, file, line, ok := runtime.Caller(2)
	caller := "???"
	if ok {
		caller = fmt.Sprintf("%s:%d", filepath.Base(file), line)
	}

	fmt.Fprintf(out, "[%s] %s %s: %s\n", levelNames[level], time.Now().Format(timeFormat), caller, msg)
}

func Debugf(format string, args ...interface{}) {
	write(LevelDebug, fmt.Sprintf(format, args...))
}

func Info(args ...interface{}) {
	write(LevelInfo, fmt.Sprint(args...))
}

func Infof(format string, args ...interface{}) {
	write(LevelInfo, fmt.Sprintf(format, args...))
}

func Warning(args ...interface{}) {
	write(LevelWarning, fmt.Sprint(args...))
}

func Warningf(format string, args ...interface{}) {
	write(LevelWarning, fmt.Sprintf(format, args...))
}

func Error(args ...interface{}) {
	write(LevelError, fmt.Sprint(args...))
}

func Errorf(format string, args ...interface{}) {
	write(LevelError, fmt.Sprintf(format, args...))
}

func Fatalf(format string, args ...interface{}) {
	write(LevelFatal, fmt.Sprintf(format, args...))
	os.Exit(1)
}
