package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"daotask/internal/config"
)

const logLevelEnvKey = "DAOTASK_LOG_LEVEL"

// cliLogLevel is shared by every logger built here so a later call to
// configureLoggerForCLI also changes loggers handed out earlier.
var cliLogLevel = new(slog.LevelVar)

// configureLoggerForCLI installs the default logger. The level comes from
// the --log-level flag, then DAOTASK_LOG_LEVEL, then log_level in the
// config file. An invalid flag is an error; an invalid env or config value
// falls back to the default level and is reported as a warning.
func configureLoggerForCLI(flagLevel, configLevel string) (string, error) {
	level, warning, err := resolveLogLevel(flagLevel, os.Getenv(logLevelEnvKey), configLevel)
	if err != nil {
		return "", err
	}
	cliLogLevel.Set(level)
	slog.SetDefault(newLogger(os.Stderr, cliLogLevel))
	return warning, nil
}

func resolveLogLevel(flagLevel, envLevel, configLevel string) (slog.Level, string, error) {
	raw, source := selectedLogLevel(flagLevel, envLevel, configLevel)
	level, err := parseLogLevel(raw)
	if err == nil {
		return level, "", nil
	}

	fallback, _ := parseLogLevel(config.DefaultLogLevel)
	switch source {
	case "flag":
		return 0, "", fmt.Errorf("invalid --log-level %q", flagLevel)
	case "env":
		return fallback, fmt.Sprintf("warning: invalid %s=%q; defaulting to %s", logLevelEnvKey, envLevel, config.DefaultLogLevel), nil
	default:
		return fallback, fmt.Sprintf("warning: invalid log_level=%q; defaulting to %s", configLevel, config.DefaultLogLevel), nil
	}
}

func selectedLogLevel(flagLevel, envLevel, configLevel string) (string, string) {
	if strings.TrimSpace(flagLevel) != "" {
		return flagLevel, "flag"
	}
	if strings.TrimSpace(envLevel) != "" {
		return envLevel, "env"
	}
	if strings.TrimSpace(configLevel) != "" {
		return configLevel, "config"
	}
	return "", "default"
}

// parseLogLevel accepts slog level names, the "warning" alias and numeric
// levels. An empty value is info.
func parseLogLevel(raw string) (slog.Level, error) {
	value := strings.ToLower(strings.TrimSpace(raw))
	switch value {
	case "":
		return slog.LevelInfo, nil
	case "warning":
		return slog.LevelWarn, nil
	}
	if numeric, err := strconv.Atoi(value); err == nil {
		return slog.Level(numeric), nil
	}

	var level slog.Level
	if err := level.UnmarshalText([]byte(value)); err != nil {
		return slog.LevelInfo, fmt.Errorf("invalid log level %q", raw)
	}
	return level, nil
}

func newLogger(w io.Writer, level slog.Leveler) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// componentLogger returns the default logger tagged with a component name,
// as in component=server.
func componentLogger(name string) *slog.Logger {
	return slog.Default().With(slog.String("component", name))
}
