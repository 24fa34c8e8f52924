// ABOUTME: Document is the storage form of a scene: sanitized component and link trees plus timestamps.
// ABOUTME: Serialize and Deserialize convert between live scenes and documents.
package serial

import (
	"encoding/json"
	"fmt"

	"github.com/2389-research/tracie/scene/core"
)

// Document is a scene in storage-safe form.
type Document struct {
	Components []map[string]any `json:"components"`
	Links      []map[string]any `json:"links"`
	CreatedAt  string           `json:"createdAt,omitempty"`
	UpdatedAt  string           `json:"updatedAt,omitempty"`
}

// Tree returns the document as a generic value for inspection by stores.
func (d Document) Tree() map[string]any {
	comps := make([]any, len(d.Components))
	for i, c := range d.Components {
		comps[i] = c
	}
	links := make([]any, len(d.Links))
	for i, l := range d.Links {
		links[i] = l
	}
	return map[string]any{"components": comps, "links": links}
}

// Binder attaches geometry callbacks to endpoints.
type Binder interface {
	Bind(core.Endpoint) core.Endpoint
}

// Serialize converts a scene into a Document.
func Serialize(shapes []core.Shape, conns []core.Connection) (Document, error) {
	doc := Document{
		Components: make([]map[string]any, 0, len(shapes)),
		Links:      make([]map[string]any, 0, len(conns)),
	}
	for _, sh := range shapes {
		tree, err := toTree(sh)
		if err != nil {
			return Document{}, fmt.Errorf("serialize shape %d: %w", sh.ID, err)
		}
		doc.Components = append(doc.Components, tree)
	}
	for _, c := range conns {
		tree, err := toTree(c)
		if err != nil {
			return Document{}, fmt.Errorf("serialize link %s: %w", c, err)
		}
		doc.Links = append(doc.Links, tree)
	}
	return doc, nil
}

// Deserialize rebuilds a scene from doc. When binder is non-nil every
// endpoint is bound so its position resolves lazily.
func Deserialize(doc Document, binder Binder) ([]core.Shape, []core.Connection, error) {
	shapes := make([]core.Shape, 0, len(doc.Components))
	for i, comp := range doc.Components {
		var sh core.Shape
		if err := fromTree(comp, &sh); err != nil {
			return nil, nil, fmt.Errorf("deserialize component %d: %w", i, err)
		}
		shapes = append(shapes, sh)
	}
	conns := make([]core.Connection, 0, len(doc.Links))
	for i, link := range doc.Links {
		var c core.Connection
		if err := fromTree(link, &c); err != nil {
			return nil, nil, fmt.Errorf("deserialize link %d: %w", i, err)
		}
		if binder != nil {
			c.From = binder.Bind(c.From)
			c.To = binder.Bind(c.To)
		}
		conns = append(conns, c)
	}
	return shapes, conns, nil
}

// toTree encodes v to JSON and sanitizes the resulting generic tree.
func toTree(v any) (map[string]any, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var generic any
	if err := json.Unmarshal(raw, &generic); err != nil {
		return nil, err
	}
	tree, ok := Sanitize(generic).(map[string]any)
	if !ok {
		return nil, fmt.Errorf("expected object, got %T", generic)
	}
	return tree, nil
}

// fromTree reconstructs nested arrays in tree and decodes it into out.
func fromTree(tree map[string]any, out any) error {
	raw, err := json.Marshal(Reconstruct(tree))
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, out)
}

// Encode renders doc as JSON.
func Encode(doc Document) ([]byte, error) {
	return json.Marshal(doc)
}

// Decode parses a JSON document.
func Decode(data []byte) (Document, error) {
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return Document{}, fmt.Errorf("decode document: %w", err)
	}
	return doc, nil
}

// Counts returns the number of components and links in doc.
func (d Document) Counts() (shapes, links int) {
	return len(d.Components), len(d.Links)
}
