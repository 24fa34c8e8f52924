// ABOUTME: Exports a scene as a deterministic Markdown summary.
// ABOUTME: Lists shapes with their contents, then links grouped by source shape.
package export

import (
	"fmt"
	"strings"

	"github.com/2389-research/tracie/scene/core"
)

// ExportMarkdown renders a readable summary of the scene.
func ExportMarkdown(name string, shapes []core.Shape, conns []core.Connection) string {
	var out strings.Builder

	fmt.Fprintf(&out, "# %s\n", name)
	fmt.Fprintln(&out)
	fmt.Fprintf(&out, "> %d shapes, %d links\n", len(shapes), len(conns))

	if len(shapes) > 0 {
		fmt.Fprintln(&out)
		fmt.Fprintln(&out, "## Shapes")
		fmt.Fprintln(&out)
		fmt.Fprintln(&out, "| ID | Shape | Position |")
		fmt.Fprintln(&out, "|---:|---|---|")
		for _, sh := range sortedShapes(shapes) {
			fmt.Fprintf(&out, "| %d | %s | (%g, %g) |\n", sh.ID, escapeCell(Describe(sh)), sh.X, sh.Y)
		}

		for _, sh := range sortedShapes(shapes) {
			rows := Values(sh)
			if len(rows) == 0 {
				continue
			}
			fmt.Fprintln(&out)
			fmt.Fprintf(&out, "### %d: %s\n", sh.ID, Describe(sh))
			fmt.Fprintln(&out)
			for _, row := range rows {
				fmt.Fprintf(&out, "    %s\n", joinCells(row))
			}
		}
	}

	if len(conns) > 0 {
		fmt.Fprintln(&out)
		fmt.Fprintln(&out, "## Links")
		fmt.Fprintln(&out)
		for _, c := range conns {
			fmt.Fprintf(&out, "- %s → %s (`%s`)\n", c.From, c.To, c.Color)
		}
	}

	return out.String()
}

func escapeCell(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}
