// ABOUTME: Exports a scene as a YAML document of shapes and links.
// ABOUTME: Uses gopkg.in/yaml.v3 with shapes ordered by id.
package export

import (
	"fmt"

	"github.com/2389-research/tracie/scene/core"
	"gopkg.in/yaml.v3"
)

// YamlShape is the YAML form of one shape.
type YamlShape struct {
	ID          int        `yaml:"id"`
	Type        string     `yaml:"type"`
	Label       string     `yaml:"label"`
	X           float64    `yaml:"x"`
	Y           float64    `yaml:"y"`
	Color       string     `yaml:"color,omitempty"`
	Values      [][]string `yaml:"values,omitempty,flow"`
	LinkedTo    []int      `yaml:"linked_arrays,omitempty,flow"`
	ChildCount  int        `yaml:"child_count,omitempty"`
	MaxIndex    int        `yaml:"max_index,omitempty"`
	PointsAt    string     `yaml:"points_at,omitempty"`
}

// YamlLink is the YAML form of one connection.
type YamlLink struct {
	From  string `yaml:"from"`
	To    string `yaml:"to"`
	Color string `yaml:"color"`
	Path  string `yaml:"path,omitempty"`
}

// YamlScene is the top-level YAML document.
type YamlScene struct {
	Name   string      `yaml:"name"`
	Shapes []YamlShape `yaml:"shapes"`
	Links  []YamlLink  `yaml:"links"`
}

// ExportYAML renders the scene as YAML. Links keep scene order.
func ExportYAML(name string, shapes []core.Shape, conns []core.Connection) (string, error) {
	doc := YamlScene{
		Name:   name,
		Shapes: make([]YamlShape, 0, len(shapes)),
		Links:  make([]YamlLink, 0, len(conns)),
	}
	for _, sh := range sortedShapes(shapes) {
		ys := YamlShape{
			ID:     sh.ID,
			Type:   string(sh.Kind()),
			Label:  Describe(sh),
			X:      sh.X,
			Y:      sh.Y,
			Values: Values(sh),
		}
		switch b := sh.Body.(type) {
		case *core.PointerBody:
			ys.PointsAt = b.Value
		case *core.IteratorBody:
			ys.Color = b.Color
			ys.MaxIndex = b.MaxIndex
			for _, la := range b.LinkedArrays {
				ys.LinkedTo = append(ys.LinkedTo, la.ID)
			}
		case *core.NodeBody:
			ys.Color = b.Color
		case *core.BinaryNodeBody:
			ys.Color = b.Color
		case *core.NaryNodeBody:
			ys.Color = b.Color
			ys.ChildCount = b.ChildCount
		}
		doc.Shapes = append(doc.Shapes, ys)
	}
	for _, c := range conns {
		doc.Links = append(doc.Links, YamlLink{
			From:  c.From.String(),
			To:    c.To.String(),
			Color: c.Color,
			Path:  c.Path,
		})
	}

	data, err := yaml.Marshal(&doc)
	if err != nil {
		return "", fmt.Errorf("yaml marshal: %w", err)
	}
	return string(data), nil
}
