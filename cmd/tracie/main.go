// ABOUTME: CLI entrypoint for tracie with HTTP server, MCP stdio and terminal UI modes.
// ABOUTME: Loads .env and TRACIE_* settings, applies flags, opens the document store and runs the chosen mode.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"net"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"syscall"

	"github.com/2389-research/tracie/scene/mcptools"
	"github.com/2389-research/tracie/scene/server"
	"github.com/2389-research/tracie/scene/store"
	"github.com/2389-research/tracie/scene/web"
	"github.com/2389-research/tracie/tui"
)

var version = "dev"

// config holds all CLI configuration parsed from flags.
type config struct {
	serverMode  bool
	tuiMode     bool
	mcpMode     bool
	port        int
	dataDir     string
	storeName   string
	user        string
	grid        bool
	verbose     bool
	showVersion bool
}

func main() {
	if _, err := server.LoadDotEnv(".env"); err != nil {
		fmt.Fprintf(os.Stderr, "warning: .env: %v\n", err)
	}

	cfg, err := parseFlags(os.Args[1:])
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(0)
		}
		os.Exit(2)
	}

	if cfg.showVersion {
		fmt.Printf("tracie %s\n", version)
		os.Exit(0)
	}

	os.Exit(run(cfg))
}

// parseFlags parses command-line flags and returns a populated config.
func parseFlags(args []string) (config, error) {
	var cfg config

	fs := flag.NewFlagSet("tracie", flag.ContinueOnError)
	fs.BoolVar(&cfg.serverMode, "server", false, "Start HTTP server mode")
	fs.BoolVar(&cfg.tuiMode, "tui", false, "Run the interactive terminal editor")
	fs.BoolVar(&cfg.mcpMode, "mcp", false, "Serve editing tools over MCP on stdio")
	fs.IntVar(&cfg.port, "port", 0, "Server port (overrides the port in TRACIE_BIND)")
	fs.StringVar(&cfg.dataDir, "data-dir", "", "Data directory (default: $TRACIE_HOME or $XDG_DATA_HOME/tracie)")
	fs.StringVar(&cfg.storeName, "store", "", "Document store: sqlite, file or memory (default: $TRACIE_STORE or sqlite)")
	fs.StringVar(&cfg.user, "user", "", "Document owner for -tui and -mcp (default: $TRACIE_USER or local)")
	fs.BoolVar(&cfg.grid, "grid", false, "Start with grid routing instead of direct curves")
	fs.BoolVar(&cfg.verbose, "verbose", false, "Verbose output")
	fs.BoolVar(&cfg.showVersion, "version", false, "Print version and exit")
	fs.SetOutput(io.Discard)
	fs.Usage = func() {
		printHelp(os.Stderr, version)
	}

	if err := fs.Parse(args); err != nil {
		if !errors.Is(err, flag.ErrHelp) {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
		}
		return cfg, err
	}
	if fs.NArg() > 0 {
		fmt.Fprintf(os.Stderr, "error: unexpected argument %q\n", fs.Arg(0))
		return cfg, fmt.Errorf("unexpected argument %q", fs.Arg(0))
	}
	return cfg, nil
}

// settings merges TRACIE_* environment settings with flags and validates them.
func settings(cfg config) (*server.Config, error) {
	sc, err := server.ConfigFromEnv()
	if err != nil {
		return nil, err
	}
	if cfg.dataDir != "" {
		sc.Home = cfg.dataDir
	}
	if cfg.storeName != "" {
		sc.Store = cfg.storeName
	}
	if cfg.user != "" {
		sc.User = cfg.user
	}
	if cfg.grid {
		sc.Grid = true
	}
	if cfg.port > 0 {
		host, _, err := net.SplitHostPort(sc.Bind)
		if err != nil {
			host = "127.0.0.1"
		}
		sc.Bind = net.JoinHostPort(host, strconv.Itoa(cfg.port))
	}
	if err := sc.Validate(); err != nil {
		return nil, err
	}
	return sc, nil
}

// newLogger builds the process logger. Debug records are kept only when verbose.
func newLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// run dispatches to the appropriate mode based on the config.
// Returns an exit code: 0 for success, 1 for failure.
func run(cfg config) int {
	if !cfg.serverMode && !cfg.tuiMode && !cfg.mcpMode {
		printHelp(os.Stderr, version)
		return 0
	}

	sc, err := settings(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}

	// Set up context with signal handling for graceful shutdown.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	switch {
	case cfg.serverMode:
		return runServer(ctx, sc, newLogger(os.Stderr, cfg.verbose))
	case cfg.mcpMode:
		// stdout carries the protocol, so logs go to stderr.
		return runMCP(ctx, sc, newLogger(os.Stderr, cfg.verbose))
	default:
		return runTUI(ctx, sc, cfg.verbose)
	}
}

func openStore(sc *server.Config, logger *slog.Logger) (store.DocumentStore, error) {
	docs, err := store.Open(sc.Store, sc.Home)
	if err != nil {
		return nil, err
	}
	logger.Debug("document store opened", "backend", sc.Store, "home", sc.Home)
	return docs, nil
}

// runServer serves the HTTP API until interrupted.
func runServer(ctx context.Context, sc *server.Config, logger *slog.Logger) int {
	docs, err := openStore(sc, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}
	defer docs.Close()

	sessions := server.NewSessions(server.SessionOptions{
		Docs:   docs,
		Grid:   sc.Grid,
		Logger: logger,
	}, server.DefaultMaxSessions, server.DefaultSessionTTL)
	stopCleanup := sessions.StartCleanup(server.DefaultCleanupInterval)
	defer stopCleanup()

	srv := web.NewServer(web.Config{
		Addr:     sc.Bind,
		Sessions: sessions,
		Docs:     docs,
		Auth:     server.NewAuthenticator(sc.Tokens, sc.User),
		Logger:   logger,
	})

	fmt.Fprintf(os.Stderr, "listening on %s\n", sc.Bind)
	if err := srv.ListenAndServe(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}
	return 0
}

// runMCP exposes one session as MCP tools on stdio.
func runMCP(ctx context.Context, sc *server.Config, logger *slog.Logger) int {
	docs, err := openStore(sc, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}
	defer docs.Close()

	sess := server.NewSession("mcp", server.SessionOptions{Docs: docs, Grid: sc.Grid, Logger: logger})
	defer sess.Close()

	if err := mcptools.Run(ctx, mcptools.NewServer(sess, sc.User, version, logger)); err != nil && ctx.Err() == nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}
	return 0
}

// runTUI runs the terminal editor. The screen belongs to the UI, so logs are
// written to tracie.log in the data directory.
func runTUI(ctx context.Context, sc *server.Config, verbose bool) int {
	if err := os.MkdirAll(sc.Home, 0o755); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}
	logFile, err := os.OpenFile(filepath.Join(sc.Home, "tracie.log"), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}
	defer logFile.Close()
	logger := newLogger(logFile, verbose)

	docs, err := openStore(sc, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}
	defer docs.Close()

	confirm := tui.NewConfirmDialog()
	sess := server.NewSession("tui", server.SessionOptions{
		Docs:      docs,
		Grid:      sc.Grid,
		Confirmer: confirm,
		Logger:    logger,
	})
	defer sess.Close()

	if err := tui.Run(ctx, tui.NewConsole(sess, sc.User), confirm); err != nil && ctx.Err() == nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}
	return 0
}
