// ABOUTME: Exports a scene as a Graphviz DOT digraph for quick previews outside the editor.
// ABOUTME: Shapes become nodes labelled by their description; links become edges with port sides.
package export

import (
	"fmt"
	"strings"

	"github.com/2389-research/tracie/scene/core"
)

var dotPorts = map[core.Side]string{
	core.SideTop:         "n",
	core.SideRight:       "e",
	core.SideBottom:      "s",
	core.SideLeft:        "w",
	core.SideBottomLeft:  "sw",
	core.SideBottomRight: "se",
}

var dotShapes = map[core.Kind]string{
	core.KindArray:      "record",
	core.KindTable:      "record",
	core.KindPointer:    "box",
	core.KindIterator:   "box",
	core.KindNode:       "circle",
	core.KindBinaryNode: "circle",
	core.KindNaryNode:   "circle",
}

// ExportDOT renders the scene as a DOT digraph named name.
func ExportDOT(name string, shapes []core.Shape, conns []core.Connection) string {
	var out strings.Builder
	fmt.Fprintf(&out, "digraph %s {\n", quoteDOT(name))
	fmt.Fprintln(&out, "  rankdir=LR;")
	for _, sh := range sortedShapes(shapes) {
		attrs := fmt.Sprintf("shape=%s, label=%s", dotShapes[sh.Kind()], quoteDOT(Describe(sh)))
		if color := shapeColor(sh); color != "" {
			attrs += fmt.Sprintf(", color=%s", quoteDOT(color))
		}
		fmt.Fprintf(&out, "  s%d [%s];\n", sh.ID, attrs)
	}
	for _, c := range conns {
		fmt.Fprintf(&out, "  s%d:%s -> s%d:%s [color=%s];\n",
			c.From.ComponentID, dotPorts[c.From.Side],
			c.To.ComponentID, dotPorts[c.To.Side],
			quoteDOT(c.Color))
	}
	fmt.Fprintln(&out, "}")
	return out.String()
}

func shapeColor(sh core.Shape) string {
	switch b := sh.Body.(type) {
	case *core.IteratorBody:
		return b.Color
	case *core.NodeBody:
		return b.Color
	case *core.BinaryNodeBody:
		return b.Color
	case *core.NaryNodeBody:
		return b.Color
	}
	return ""
}

func quoteDOT(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	return `"` + strings.ReplaceAll(s, `"`, `\"`) + `"`
}
