package utils

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/natefinch/lumberjack.v2"
)

type LoggerConfig struct {
	LogToFile  bool   `json:"log_to_file" yaml:"log_to_file"`
	Filename   string `json:"filename" yaml:"filename"`
	MaxSize    int    `json:"max_size" yaml:"max_size"`
	MaxAge     int    `json:"max_age" yaml:"max_age"`
	MaxBackups int    `json:"max_backups" yaml:"max_backups"`
	LogLevel   string `json:"log_level" yaml:"log_level"`
	IncludeSrc bool   `json:"include_src" yaml:"include_src"`
}

func InitLogger(config LoggerConfig) {
	opts := &slog.HandlerOptions{
		Level:     logLevelFromString(config.LogLevel),
		AddSource: config.IncludeSrc,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if a.Key == slog.SourceKey {
				source, _ := a.Value.Any().(*slog.Source)
				if source != nil {
					source.File = filepath.Base(source.File)
					source.Function = strings.Replace(source.Function, "github.com/january-msemakweli/MoAfyaCamps", "", -1)
				}
			}
			return a
		},
	}

	var w io.Writer = os.Stdout
	if config.LogToFile && config.Filename != "" {
		logTarget := &lumberjack.Logger{
			Filename:   config.Filename,
			MaxSize:    config.MaxSize, // megabytes
			MaxAge:     config.MaxAge,  // days
			MaxBackups: config.MaxBackups,
		}
		w = io.MultiWriter(os.Stdout, logTarget)
	}

	slog.SetDefault(slog.New(slog.NewJSONHandler(w, opts)))
}

// ReadLoggerConfigFromEnv collects the logger configs from the given
// environment variable names and initializes the default slog logger.
func ReadLoggerConfigFromEnvAndInitLogger(
	envLogLevel string,
	envIncludeSrc string,
	envLogToFile string,
	envFilename string,
	envMaxSize string,
	envMaxAge string,
	envMaxBackups string,
) {
	InitLogger(LoggerConfig{
		LogLevel:   os.Getenv(envLogLevel),
		IncludeSrc: os.Getenv(envIncludeSrc) == "true",
		LogToFile:  os.Getenv(envLogToFile) == "true",
		Filename:   os.Getenv(envFilename),
		MaxSize:    GetEnvInt(envMaxSize, 50),
		MaxAge:     GetEnvInt(envMaxAge, 28),
		MaxBackups: GetEnvInt(envMaxBackups, 10),
	})
}

func logLevelFromString(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
