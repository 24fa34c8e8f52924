// ABOUTME: Tests for CLI flag parsing and the merge of flags over TRACIE_* settings.
// ABOUTME: Covers mode selection, port overrides and remote-access validation.
package main

import (
	"bytes"
	"errors"
	"flag"
	"strings"
	"testing"

	"github.com/2389-research/tracie/scene/server"
	"github.com/2389-research/tracie/scene/store"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"TRACIE_HOME", "TRACIE_BIND", "TRACIE_ALLOW_REMOTE", "TRACIE_STORE",
		"TRACIE_TOKENS", "TRACIE_ROUTING", "TRACIE_USER",
	} {
		t.Setenv(key, "")
	}
}

func TestParseFlags(t *testing.T) {
	cfg, err := parseFlags([]string{"-server", "-port", "8080", "-store", "file", "-grid", "-verbose"})
	if err != nil {
		t.Fatalf("parseFlags: %v", err)
	}
	if !cfg.serverMode || cfg.port != 8080 || cfg.storeName != "file" || !cfg.grid || !cfg.verbose {
		t.Errorf("unexpected config: %+v", cfg)
	}
}

func TestParseFlagsRejectsArguments(t *testing.T) {
	if _, err := parseFlags([]string{"-tui", "extra.dot"}); err == nil {
		t.Error("expected an error for a positional argument")
	}
	if _, err := parseFlags([]string{"-bogus"}); err == nil {
		t.Error("expected an error for an unknown flag")
	}
	if _, err := parseFlags([]string{"-help"}); !errors.Is(err, flag.ErrHelp) {
		t.Errorf("-help err = %v, want flag.ErrHelp", err)
	}
}

func TestSettingsApplyFlags(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	sc, err := settings(config{dataDir: dir, storeName: store.BackendMemory, user: "ada", grid: true, port: 9000})
	if err != nil {
		t.Fatalf("settings: %v", err)
	}
	if sc.Home != dir || sc.Store != store.BackendMemory || sc.User != "ada" || !sc.Grid {
		t.Errorf("flags not applied: %+v", sc)
	}
	if sc.Bind != "127.0.0.1:9000" {
		t.Errorf("Bind = %q, want 127.0.0.1:9000", sc.Bind)
	}
}

func TestSettingsDefaults(t *testing.T) {
	clearEnv(t)
	sc, err := settings(config{})
	if err != nil {
		t.Fatalf("settings: %v", err)
	}
	if sc.Bind != server.DefaultBind || sc.User != server.DefaultUser || sc.Store != store.BackendSqlite || sc.Grid {
		t.Errorf("unexpected defaults: %+v", sc)
	}
}

func TestSettingsRefusesRemoteBind(t *testing.T) {
	clearEnv(t)
	t.Setenv("TRACIE_BIND", "0.0.0.0:2390")
	if _, err := settings(config{}); !errors.Is(err, server.ErrNonLoopbackBind) {
		t.Errorf("err = %v, want ErrNonLoopbackBind", err)
	}

	t.Setenv("TRACIE_ALLOW_REMOTE", "true")
	if _, err := settings(config{}); !errors.Is(err, server.ErrRemoteWithoutTokens) {
		t.Errorf("err = %v, want ErrRemoteWithoutTokens", err)
	}

	t.Setenv("TRACIE_TOKENS", "ada:secret")
	if _, err := settings(config{}); err != nil {
		t.Errorf("remote bind with tokens: %v", err)
	}
}

func TestNewLoggerLevels(t *testing.T) {
	var buf bytes.Buffer
	newLogger(&buf, false).Debug("hidden")
	newLogger(&buf, true).Debug("shown")
	out := buf.String()
	if strings.Contains(out, "hidden") || !strings.Contains(out, "shown") {
		t.Errorf("log output = %q", out)
	}
}
