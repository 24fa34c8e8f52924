// ABOUTME: Connections between shape sides and the geometry callbacks bound to their endpoints.
// ABOUTME: Connections carry no id; they are identified by their endpoint pair.
package core

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/2389-research/tracie/geom"
)

// Locator returns the current position of an attachment point.
type Locator func() geom.Point

// Endpoint is one end of a connection.
type Endpoint struct {
	ComponentID int  `json:"componentId"`
	Side        Side `json:"side"`

	// Locate is bound by the geometry registry and never serialized.
	Locate Locator `json:"-"`
}

// At pairs a shape id and side into an unbound endpoint.
func At(id int, side Side) Endpoint {
	return Endpoint{ComponentID: id, Side: side}
}

// ParseEndpoint parses the "id:side" form produced by Endpoint.String.
func ParseEndpoint(s string) (Endpoint, error) {
	rawID, side, ok := strings.Cut(strings.TrimSpace(s), ":")
	if !ok {
		return Endpoint{}, fmt.Errorf("%w: endpoint %q is not id:side", ErrInvalidInput, s)
	}
	id, err := strconv.Atoi(rawID)
	if err != nil {
		return Endpoint{}, fmt.Errorf("%w: endpoint %q has a bad shape id", ErrInvalidInput, s)
	}
	return At(id, Side(side)), nil
}

// Key returns the geometry registry key "<id>-<side>".
func (e Endpoint) Key() string {
	return AnchorKey(e.ComponentID, e.Side)
}

// Same reports whether e and o name the same shape side, ignoring Locate.
func (e Endpoint) Same(o Endpoint) bool {
	return e.ComponentID == o.ComponentID && e.Side == o.Side
}

// Point resolves the endpoint position, or the zero point when unbound.
func (e Endpoint) Point() geom.Point {
	if e.Locate == nil {
		return geom.Point{}
	}
	return e.Locate()
}

func (e Endpoint) String() string {
	return fmt.Sprintf("%d:%s", e.ComponentID, e.Side)
}

// Connection is a directed link between two shape sides.
type Connection struct {
	From  Endpoint `json:"from"`
	To    Endpoint `json:"to"`
	Color string   `json:"color"`
	Path  string   `json:"path"`
}

// LinkKey identifies a connection by its endpoints.
type LinkKey struct {
	From, To string
}

// Key returns the identity of c.
func (c Connection) Key() LinkKey {
	return LinkKey{From: c.From.String(), To: c.To.String()}
}

// Matches reports whether c joins exactly from and to.
func (c Connection) Matches(from, to Endpoint) bool {
	return c.From.Same(from) && c.To.Same(to)
}

// Touches reports whether either end of c is on the shape with the given id.
func (c Connection) Touches(id int) bool {
	return c.From.ComponentID == id || c.To.ComponentID == id
}

func (c Connection) String() string {
	return c.From.String() + "->" + c.To.String()
}
