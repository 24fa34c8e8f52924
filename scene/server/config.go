// ABOUTME: Server configuration loaded from TRACIE_* environment variables.
// ABOUTME: Remote binds are refused unless remote access is enabled and API tokens are configured.
package server

import (
	"errors"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strings"

	"github.com/2389-research/tracie/scene/store"
)

// DefaultBind is the listen address used when TRACIE_BIND is unset.
const DefaultBind = "127.0.0.1:2390"

// DefaultUser owns documents when no API tokens are configured.
const DefaultUser = "local"

var (
	ErrRemoteWithoutTokens = errors.New(
		"TRACIE_ALLOW_REMOTE is true but TRACIE_TOKENS is empty; refusing to start without authentication",
	)
	ErrNonLoopbackBind = errors.New(
		"TRACIE_BIND is a non-loopback address but TRACIE_ALLOW_REMOTE is not true",
	)
	ErrBadTokens = errors.New("TRACIE_TOKENS must be a comma-separated list of user:token pairs")
)

// Config holds server and storage settings.
type Config struct {
	Home        string            // data directory (TRACIE_HOME)
	Bind        string            // listen address (TRACIE_BIND)
	AllowRemote bool              // allow non-loopback binds (TRACIE_ALLOW_REMOTE)
	Store       string            // document backend (TRACIE_STORE)
	Tokens      map[string]string // API token to user (TRACIE_TOKENS)
	Grid        bool              // start sessions in grid routing (TRACIE_ROUTING=grid)
	User        string            // identity used when Tokens is empty
}

// ConfigFromEnv loads configuration from TRACIE_* environment variables.
// It does not validate; call Validate once flags have been applied.
func ConfigFromEnv() (*Config, error) {
	home := os.Getenv("TRACIE_HOME")
	if home == "" {
		home = defaultHome()
	}

	tokens, err := ParseTokens(os.Getenv("TRACIE_TOKENS"))
	if err != nil {
		return nil, err
	}

	routing := strings.ToLower(envOrDefault("TRACIE_ROUTING", "direct"))
	if routing != "direct" && routing != "grid" {
		return nil, fmt.Errorf("TRACIE_ROUTING must be direct or grid, got %q", routing)
	}

	return &Config{
		Home:        home,
		Bind:        envOrDefault("TRACIE_BIND", DefaultBind),
		AllowRemote: truthy(os.Getenv("TRACIE_ALLOW_REMOTE")),
		Store:       envOrDefault("TRACIE_STORE", store.BackendSqlite),
		Tokens:      tokens,
		Grid:        routing == "grid",
		User:        envOrDefault("TRACIE_USER", DefaultUser),
	}, nil
}

// Validate enforces the remote-access rules.
func (c *Config) Validate() error {
	if c.AllowRemote && len(c.Tokens) == 0 {
		return ErrRemoteWithoutTokens
	}
	if c.AllowRemote {
		return nil
	}
	host, _, err := net.SplitHostPort(c.Bind)
	if err != nil || host == "localhost" {
		return nil
	}
	if ip := net.ParseIP(host); ip != nil && ip.IsLoopback() {
		return nil
	}
	return fmt.Errorf("%w: TRACIE_BIND=%s", ErrNonLoopbackBind, c.Bind)
}

// ParseTokens parses "user:token,user:token" into a token-to-user map.
func ParseTokens(raw string) (map[string]string, error) {
	tokens := make(map[string]string)
	for pair := range strings.SplitSeq(raw, ",") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}
		user, token, ok := strings.Cut(pair, ":")
		user, token = strings.TrimSpace(user), strings.TrimSpace(token)
		if !ok || user == "" || token == "" {
			return nil, fmt.Errorf("%w: %q", ErrBadTokens, pair)
		}
		tokens[token] = user
	}
	return tokens, nil
}

// defaultHome returns $XDG_DATA_HOME/tracie or ~/.local/share/tracie.
func defaultHome() string {
	if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
		return filepath.Join(xdg, "tracie")
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		homeDir = os.TempDir()
	}
	return filepath.Join(homeDir, ".local", "share", "tracie")
}

func envOrDefault(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func truthy(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "1", "true", "yes", "on":
		return true
	}
	return false
}
