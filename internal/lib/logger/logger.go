package logger

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
)

const (
	envLocal = "local"
	envDev   = "dev"
	envProd  = "prod"

	logFile = "beautygenius.log"
)

// SetupLogger builds the root logger for the environment. Local runs log text
// to stdout only; dev and prod log JSON to stdout and to a file in logPath.
func SetupLogger(env, logPath string) *slog.Logger {
	var logger *slog.Logger

	switch env {
	case envLocal:
		logger = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
	case envDev:
		logger = slog.New(slog.NewJSONHandler(logWriter(logPath), &slog.HandlerOptions{Level: slog.LevelDebug}))
	case envProd:
		logger = slog.New(slog.NewJSONHandler(logWriter(logPath), &slog.HandlerOptions{Level: slog.LevelInfo}))
	default:
		logger = slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	}

	return logger
}

func logWriter(logPath string) io.Writer {
	if logPath == "" {
		return os.Stdout
	}
	f, err := os.OpenFile(filepath.Join(logPath, logFile), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		slog.Default().Warn("log file not available, using stdout", slog.String("error", err.Error()))
		return os.Stdout
	}
	return io.MultiWriter(os.Stdout, f)
}
