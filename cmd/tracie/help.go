// ABOUTME: Help display for the tracie CLI with grouped flags, console commands and environment status.
// ABOUTME: Provides printHelp for usage output and envStatus for TRACIE_* setting detection.
package main

import (
	"fmt"
	"io"
	"os"
)

const tracieASCII = `
   head
    |
    v
  +---+---+---+---+      +---+
  | 3 | 1 | 4 | 1 | ---> | 5 |
  +---+---+---+---+      +---+
        ^
        i
`

// printHelp writes a formatted help message to w, including usage patterns,
// grouped flags, console commands and environment status.
func printHelp(w io.Writer, ver string) {
	fmt.Fprint(w, tracieASCII)
	fmt.Fprintf(w, "tracie %s: data-structure diagram editor\n", ver)
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  tracie -tui                  Edit diagrams in the terminal")
	fmt.Fprintln(w, "  tracie -server [-port 2390]  Start HTTP API server")
	fmt.Fprintln(w, "  tracie -mcp                  Serve editing tools over MCP on stdio")
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Flags:")
	fmt.Fprintln(w, "  -port <port>          Server port (default: 2390)")
	fmt.Fprintln(w, "  -data-dir <dir>       Data directory (default: ~/.local/share/tracie)")
	fmt.Fprintln(w, "  -store <backend>      sqlite, file or memory (default: sqlite)")
	fmt.Fprintln(w, "  -user <name>          Document owner for -tui and -mcp (default: local)")
	fmt.Fprintln(w, "  -grid                 Start with grid routing")
	fmt.Fprintln(w, "  -verbose              Verbose output")
	fmt.Fprintln(w, "  -version              Print version and exit")
	fmt.Fprintln(w, "  -help                 Show this help")
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Console commands (-tui):")
	fmt.Fprintln(w, "  array 5 | table 2 3 | pointer head | iterator i 4 | node 7 | bnode | nnode r 3")
	fmt.Fprintln(w, "  move 1 40 60 | link 1:right 2:left [color] | unlink 1:right 2:left")
	fmt.Fprintln(w, "  dup 1 | del 1 | undo | redo | grid on|off | optimize")
	fmt.Fprintln(w, "  save [name] | load name | ls | rm name | new | help | quit")
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Examples:")
	fmt.Fprintln(w, "  tracie -tui -grid")
	fmt.Fprintln(w, "  tracie -server -port 8080 -store file")
	fmt.Fprintln(w, "  TRACIE_ALLOW_REMOTE=true TRACIE_TOKENS=ada:s3cret tracie -server")
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Environment:")
	for _, key := range []string{
		"TRACIE_HOME", "TRACIE_BIND", "TRACIE_ALLOW_REMOTE", "TRACIE_STORE",
		"TRACIE_TOKENS", "TRACIE_ROUTING", "TRACIE_USER",
	} {
		fmt.Fprintf(w, "  %-21s %s\n", key, envStatus(key))
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, "  Values may also be set in a .env file in the working directory.")
}

// envStatus returns "[set]" if the named environment variable is non-empty,
// or "[not set]" otherwise.
func envStatus(key string) string {
	if os.Getenv(key) != "" {
		return "[set]"
	}
	return "[not set]"
}
