package config

import (
	"log/slog"
	"strings"
)

// LogConfig controls the structured logger.
type LogConfig struct {
	Level string `env:"LEVEL" envDefault:"info"`

	// File, when set, also writes logs to a rotated file.
	File         string `env:"FILE"`
	MaxSizeMB    int    `env:"FILE_MAX_SIZE_MB"     envDefault:"100"`
	MaxBackups   int    `env:"FILE_MAX_BACKUPS"     envDefault:"3"`
	MaxAgeDays   int    `env:"FILE_MAX_AGE_DAYS"    envDefault:"28"`
	CompressFile bool   `env:"FILE_COMPRESS"        envDefault:"true"`
}

// Sanitize normalises the level name and file settings.
func (l *LogConfig) Sanitize() {
	l.Level = strings.ToLower(strings.TrimSpace(l.Level))
	l.File = strings.TrimSpace(l.File)
	if l.MaxSizeMB <= 0 {
		l.MaxSizeMB = 100
	}
}

// SlogLevel maps Level to a slog.Level, defaulting to info.
func (l *LogConfig) SlogLevel() slog.Level {
	switch l.Level {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
