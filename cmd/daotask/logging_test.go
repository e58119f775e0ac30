package main

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
)

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    slog.Level
		wantErr bool
	}{
		{name: "default info", raw: "", want: slog.LevelInfo},
		{name: "debug", raw: "debug", want: slog.LevelDebug},
		{name: "info", raw: "info", want: slog.LevelInfo},
		{name: "warn", raw: "warn", want: slog.LevelWarn},
		{name: "warning alias", raw: "WARNING", want: slog.LevelWarn},
		{name: "error", raw: "error", want: slog.LevelError},
		{name: "numeric", raw: "-4", want: slog.LevelDebug},
		{name: "invalid", raw: "verbose", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseLogLevel(tt.raw)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("parse level: %v", err)
			}
			if got != tt.want {
				t.Fatalf("expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestSelectedLogLevel(t *testing.T) {
	tests := []struct {
		flag, env, cfg string
		wantRaw        string
		wantSource     string
	}{
		{"debug", "error", "warn", "debug", "flag"},
		{"", "warn", "info", "warn", "env"},
		{"", " ", "error", "error", "config"},
		{"", "", "", "", "default"},
	}
	for _, tt := range tests {
		raw, source := selectedLogLevel(tt.flag, tt.env, tt.cfg)
		if raw != tt.wantRaw || source != tt.wantSource {
			t.Fatalf("selectedLogLevel(%q, %q, %q) = %q, %q", tt.flag, tt.env, tt.cfg, raw, source)
		}
	}
}

func TestConfigureLoggerForCLI(t *testing.T) {
	t.Run("flag overrides invalid env", func(t *testing.T) {
		t.Setenv(logLevelEnvKey, "invalid")
		warning, err := configureLoggerForCLI("debug", "info")
		if err != nil {
			t.Fatalf("configure logger: %v", err)
		}
		if warning != "" {
			t.Fatalf("expected no warning, got %q", warning)
		}
	})

	t.Run("invalid flag returns error", func(t *testing.T) {
		t.Setenv(logLevelEnvKey, "")
		warning, err := configureLoggerForCLI("verbose", "info")
		if err == nil {
			t.Fatal("expected error")
		}
		if warning != "" {
			t.Fatalf("expected empty warning, got %q", warning)
		}
	})

	t.Run("invalid env returns warning and fallback", func(t *testing.T) {
		t.Setenv(logLevelEnvKey, "verbose")
		warning, err := configureLoggerForCLI("", "info")
		if err != nil {
			t.Fatalf("configure logger: %v", err)
		}
		if !strings.Contains(warning, logLevelEnvKey) || !strings.Contains(warning, "defaulting to info") {
			t.Fatalf("expected env fallback warning, got %q", warning)
		}
	})

	t.Run("invalid config returns warning and fallback", func(t *testing.T) {
		t.Setenv(logLevelEnvKey, "")
		warning, err := configureLoggerForCLI("", "verbose")
		if err != nil {
			t.Fatalf("configure logger: %v", err)
		}
		if !strings.Contains(warning, "invalid log_level") || !strings.Contains(warning, "defaulting to info") {
			t.Fatalf("expected config warning, got %q", warning)
		}
	})
}

func TestResolveLogLevel(t *testing.T) {
	tests := []struct {
		name        string
		flag        string
		env         string
		cfg         string
		want        slog.Level
		wantWarning bool
		wantErr     bool
	}{
		{name: "flag wins", flag: "debug", env: "error", cfg: "warn", want: slog.LevelDebug},
		{name: "env over config", env: "error", cfg: "debug", want: slog.LevelError},
		{name: "config", cfg: "warning", want: slog.LevelWarn},
		{name: "default", want: slog.LevelInfo},
		{name: "bad flag", flag: "loud", wantErr: true},
		{name: "bad env falls back", env: "loud", cfg: "debug", want: slog.LevelInfo, wantWarning: true},
		{name: "bad config falls back", cfg: "loud", want: slog.LevelInfo, wantWarning: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, warning, err := resolveLogLevel(tt.flag, tt.env, tt.cfg)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("resolve: %v", err)
			}
			if got != tt.want {
				t.Fatalf("expected %v, got %v", tt.want, got)
			}
			if (warning != "") != tt.wantWarning {
				t.Fatalf("unexpected warning %q", warning)
			}
		})
	}
}

func TestNewLoggerFollowsLevelVar(t *testing.T) {
	var buf bytes.Buffer
	level := new(slog.LevelVar)
	level.Set(slog.LevelWarn)
	logger := newLogger(&buf, level).With(slog.String("component", "server"))

	logger.Info("hidden")
	if buf.Len() != 0 {
		t.Fatalf("expected info to be filtered, got %q", buf.String())
	}

	level.Set(slog.LevelDebug)
	logger.Debug("opening database", "path", "/tmp/tasks.db")
	out := buf.String()
	if !strings.Contains(out, "component=server") || !strings.Contains(out, "msg=\"opening database\"") {
		t.Fatalf("unexpected log line %q", out)
	}
}

func TestComponentLoggerUsesDefault(t *testing.T) {
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })

	var buf bytes.Buffer
	slog.SetDefault(newLogger(&buf, slog.LevelInfo))
	componentLogger("client").Info("starting local server")
	if !strings.Contains(buf.String(), "component=client") {
		t.Fatalf("expected component attribute, got %q", buf.String())
	}
}
