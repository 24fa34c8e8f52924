// ABOUTME: MCP server exposing one editing session as tools for agents: shape, link, history and routing operations.
// ABOUTME: Tool handlers hold the session lock and answer with a text summary plus structured output.
package mcptools

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/2389-research/tracie/geom"
	"github.com/2389-research/tracie/scene/core"
	"github.com/2389-research/tracie/scene/export"
	"github.com/2389-research/tracie/scene/route"
	"github.com/2389-research/tracie/scene/server"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// Tools binds MCP tool handlers to a session.
type Tools struct {
	sess   *server.Session
	user   string
	logger *slog.Logger
}

// NewServer returns an MCP server whose tools edit sess. Document tools act
// as user.
func NewServer(sess *server.Session, user, version string, logger *slog.Logger) *mcp.Server {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	t := &Tools{sess: sess, user: user, logger: logger}
	s := mcp.NewServer(&mcp.Implementation{Name: "tracie", Version: version}, nil)

	mcp.AddTool(s, &mcp.Tool{Name: "add_shape", Description: "Add an array, table, pointer, iterator, node, binary node or n-ary node to the scene."}, t.addShape)
	mcp.AddTool(s, &mcp.Tool{Name: "delete_shape", Description: "Delete a shape and every link touching it."}, t.deleteShape)
	mcp.AddTool(s, &mcp.Tool{Name: "move_shape", Description: "Move a shape's top-left corner to x,y."}, t.moveShape)
	mcp.AddTool(s, &mcp.Tool{Name: "link", Description: "Link two shape sides, written id:side (for example 1:right)."}, t.link)
	mcp.AddTool(s, &mcp.Tool{Name: "unlink", Description: "Remove the link between two shape sides."}, t.unlink)
	mcp.AddTool(s, &mcp.Tool{Name: "undo", Description: "Undo the last edit."}, t.undo)
	mcp.AddTool(s, &mcp.Tool{Name: "redo", Description: "Redo the last undone edit."}, t.redo)
	mcp.AddTool(s, &mcp.Tool{Name: "describe_scene", Description: "Describe every shape and link in the scene."}, t.describeScene)
	mcp.AddTool(s, &mcp.Tool{Name: "route_links", Description: "Switch routing mode, optionally re-pick link sides, and return every routed path."}, t.routeLinks)
	mcp.AddTool(s, &mcp.Tool{Name: "save_document", Description: "Save the scene under a name."}, t.saveDocument)
	mcp.AddTool(s, &mcp.Tool{Name: "load_document", Description: "Replace the scene with a saved document."}, t.loadDocument)
	mcp.AddTool(s, &mcp.Tool{Name: "list_documents", Description: "List saved documents, newest first."}, t.listDocuments)
	return s
}

// Run serves the tools over stdio until ctx is cancelled or the client leaves.
func Run(ctx context.Context, s *mcp.Server) error {
	return s.Run(ctx, &mcp.StdioTransport{})
}

func textResult(format string, args ...any) *mcp.CallToolResult {
	return &mcp.CallToolResult{Content: []mcp.Content{&mcp.TextContent{Text: fmt.Sprintf(format, args...)}}}
}

// locked runs fn while holding the session lock.
func locked[Out any](t *Tools, fn func(*server.Session) (*mcp.CallToolResult, Out, error)) (*mcp.CallToolResult, Out, error) {
	t.sess.Lock()
	defer t.sess.Unlock()
	return fn(t.sess)
}

type ShapeInput struct {
	Kind       string `json:"kind" jsonschema:"array, table, pointer, iterator, node, bnode or nnode"`
	Length     int    `json:"length,omitempty" jsonschema:"array length"`
	Rows       int    `json:"rows,omitempty" jsonschema:"table rows"`
	Cols       int    `json:"cols,omitempty" jsonschema:"table columns"`
	Name       string `json:"name,omitempty" jsonschema:"pointer or iterator name"`
	Value      string `json:"value,omitempty" jsonschema:"node value or pointer target"`
	MaxIndex   int    `json:"maxIndex,omitempty" jsonschema:"iterator maximum index"`
	ChildCount int    `json:"childCount,omitempty" jsonschema:"n-ary node child count"`
	Color      string `json:"color,omitempty" jsonschema:"hex colour"`
}

type ShapeOutput struct {
	ID          int     `json:"id"`
	Type        string  `json:"type"`
	Description string  `json:"description"`
	X           float64 `json:"x"`
	Y           float64 `json:"y"`
}

func shapeOutput(sh core.Shape) ShapeOutput {
	return ShapeOutput{ID: sh.ID, Type: string(sh.Kind()), Description: export.Describe(sh), X: sh.X, Y: sh.Y}
}

func (t *Tools) addShape(_ context.Context, _ *mcp.CallToolRequest, in ShapeInput) (*mcp.CallToolResult, ShapeOutput, error) {
	return locked(t, func(sess *server.Session) (*mcp.CallToolResult, ShapeOutput, error) {
		kind, err := core.ParseKind(in.Kind)
		if err != nil {
			return nil, ShapeOutput{}, err
		}
		sh, err := sess.Workspace.Add(core.ShapeSpec{
			Kind:       kind,
			Length:     in.Length,
			Rows:       in.Rows,
			Cols:       in.Cols,
			Name:       in.Name,
			Value:      in.Value,
			MaxIndex:   in.MaxIndex,
			ChildCount: in.ChildCount,
			Color:      in.Color,
		})
		if err != nil {
			return nil, ShapeOutput{}, err
		}
		out := shapeOutput(sh)
		return textResult("added %d: %s at (%g, %g)", out.ID, out.Description, out.X, out.Y), out, nil
	})
}

type IDInput struct {
	ID int `json:"id" jsonschema:"shape id"`
}

type Changed struct {
	Changed bool `json:"changed"`
}

func (t *Tools) deleteShape(_ context.Context, _ *mcp.CallToolRequest, in IDInput) (*mcp.CallToolResult, Changed, error) {
	return locked(t, func(sess *server.Session) (*mcp.CallToolResult, Changed, error) {
		if err := sess.Workspace.DeleteShape(in.ID); err != nil {
			return nil, Changed{}, err
		}
		return textResult("deleted %d", in.ID), Changed{Changed: true}, nil
	})
}

type MoveInput struct {
	ID int     `json:"id" jsonschema:"shape id"`
	X  float64 `json:"x"`
	Y  float64 `json:"y"`
}

func (t *Tools) moveShape(_ context.Context, _ *mcp.CallToolRequest, in MoveInput) (*mcp.CallToolResult, ShapeOutput, error) {
	return locked(t, func(sess *server.Session) (*mcp.CallToolResult, ShapeOutput, error) {
		if err := sess.Workspace.MoveShape(in.ID, geom.Pt(in.X, in.Y)); err != nil {
			return nil, ShapeOutput{}, err
		}
		sh, _ := sess.Workspace.Scene.Shape(in.ID)
		out := shapeOutput(sh)
		return textResult("moved %d to (%g, %g)", in.ID, out.X, out.Y), out, nil
	})
}

type LinkInput struct {
	From  string `json:"from" jsonschema:"source endpoint as id:side"`
	To    string `json:"to" jsonschema:"target endpoint as id:side"`
	Color string `json:"color,omitempty" jsonschema:"hex colour; defaults by shape kinds"`
}

type LinkOutput struct {
	From  string `json:"from"`
	To    string `json:"to"`
	Color string `json:"color"`
	Path  string `json:"path,omitempty"`
}

func linkOutput(c core.Connection) LinkOutput {
	return LinkOutput{From: c.From.String(), To: c.To.String(), Color: c.Color, Path: c.Path}
}

func (in LinkInput) endpoints() (core.Endpoint, core.Endpoint, error) {
	from, err := core.ParseEndpoint(in.From)
	if err != nil {
		return core.Endpoint{}, core.Endpoint{}, err
	}
	to, err := core.ParseEndpoint(in.To)
	return from, to, err
}

func (t *Tools) link(_ context.Context, _ *mcp.CallToolRequest, in LinkInput) (*mcp.CallToolResult, LinkOutput, error) {
	return locked(t, func(sess *server.Session) (*mcp.CallToolResult, LinkOutput, error) {
		from, to, err := in.endpoints()
		if err != nil {
			return nil, LinkOutput{}, err
		}
		conn, err := sess.Workspace.Connect(from, to, in.Color)
		if err != nil {
			return nil, LinkOutput{}, err
		}
		if p, ok := sess.Tracker.Path(conn.Key()); ok {
			conn.Path = p.String()
		}
		return textResult("linked %s", conn), linkOutput(conn), nil
	})
}

func (t *Tools) unlink(_ context.Context, _ *mcp.CallToolRequest, in LinkInput) (*mcp.CallToolResult, Changed, error) {
	return locked(t, func(sess *server.Session) (*mcp.CallToolResult, Changed, error) {
		from, to, err := in.endpoints()
		if err != nil {
			return nil, Changed{}, err
		}
		if err := sess.Workspace.Disconnect(from, to); err != nil {
			return nil, Changed{}, err
		}
		return textResult("unlinked %s->%s", from, to), Changed{Changed: true}, nil
	})
}

type Empty struct{}

func (t *Tools) undo(_ context.Context, _ *mcp.CallToolRequest, _ Empty) (*mcp.CallToolResult, Changed, error) {
	return locked(t, func(sess *server.Session) (*mcp.CallToolResult, Changed, error) {
		if !sess.Workspace.Undo() {
			return textResult("nothing to undo"), Changed{}, nil
		}
		return textResult("undone"), Changed{Changed: true}, nil
	})
}

func (t *Tools) redo(_ context.Context, _ *mcp.CallToolRequest, _ Empty) (*mcp.CallToolResult, Changed, error) {
	return locked(t, func(sess *server.Session) (*mcp.CallToolResult, Changed, error) {
		if !sess.Workspace.Redo() {
			return textResult("nothing to redo"), Changed{}, nil
		}
		return textResult("redone"), Changed{Changed: true}, nil
	})
}

type SceneOutput struct {
	Name   string        `json:"name"`
	Saved  bool          `json:"saved"`
	Grid   bool          `json:"grid"`
	Shapes []ShapeOutput `json:"shapes"`
	Links  []LinkOutput  `json:"links"`
}

func sceneOutput(sess *server.Session) SceneOutput {
	out := SceneOutput{
		Name:   sess.Files.CurrentName(),
		Saved:  sess.Files.IsSaved(),
		Grid:   sess.Tracker.Grid(),
		Shapes: []ShapeOutput{},
		Links:  []LinkOutput{},
	}
	for _, sh := range sess.Workspace.Scene.ListShapes() {
		out.Shapes = append(out.Shapes, shapeOutput(sh))
	}
	for _, c := range sess.Tracker.Annotate() {
		out.Links = append(out.Links, linkOutput(c))
	}
	return out
}

func (t *Tools) describeScene(_ context.Context, _ *mcp.CallToolRequest, _ Empty) (*mcp.CallToolResult, SceneOutput, error) {
	return locked(t, func(sess *server.Session) (*mcp.CallToolResult, SceneOutput, error) {
		md := export.ExportMarkdown(sess.Files.CurrentName(), sess.Workspace.Scene.ListShapes(), sess.Workspace.Scene.ListConnections())
		return textResult("%s", md), sceneOutput(sess), nil
	})
}

type RouteInput struct {
	Grid     *bool `json:"grid,omitempty" jsonschema:"true for obstacle-avoiding grid routes, false for curves; omit to keep"`
	Optimize bool  `json:"optimize,omitempty" jsonschema:"re-pick the closest allowed sides for every link first"`
}

type RouteOutput struct {
	Grid       bool         `json:"grid"`
	Retargeted int          `json:"retargeted"`
	Links      []LinkOutput `json:"links"`
}

func (t *Tools) routeLinks(_ context.Context, _ *mcp.CallToolRequest, in RouteInput) (*mcp.CallToolResult, RouteOutput, error) {
	return locked(t, func(sess *server.Session) (*mcp.CallToolResult, RouteOutput, error) {
		if in.Grid != nil && *in.Grid != sess.Tracker.Grid() {
			sess.Tracker.SetGrid(*in.Grid)
		}
		out := RouteOutput{Grid: sess.Tracker.Grid(), Links: []LinkOutput{}}
		if in.Optimize {
			out.Retargeted = route.OptimizeLinks(sess.Workspace)
		}
		for _, c := range sess.Tracker.Annotate() {
			out.Links = append(out.Links, linkOutput(c))
		}
		t.logger.Debug("routed links", "grid", out.Grid, "links", len(out.Links), "retargeted", out.Retargeted)
		return textResult("%d links routed (grid=%v, %d retargeted)", len(out.Links), out.Grid, out.Retargeted), out, nil
	})
}

type NameInput struct {
	Name string `json:"name" jsonschema:"document name"`
}

type DocumentOutput struct {
	Name   string `json:"name"`
	Shapes int    `json:"shapes"`
	Links  int    `json:"links"`
}

func (t *Tools) saveDocument(ctx context.Context, _ *mcp.CallToolRequest, in NameInput) (*mcp.CallToolResult, DocumentOutput, error) {
	return locked(t, func(sess *server.Session) (*mcp.CallToolResult, DocumentOutput, error) {
		info, err := sess.Files.Save(ctx, t.user, in.Name)
		if err != nil {
			return nil, DocumentOutput{}, err
		}
		out := DocumentOutput{Name: info.Name, Shapes: info.Shapes, Links: info.Links}
		return textResult("saved %s (%d shapes, %d links)", out.Name, out.Shapes, out.Links), out, nil
	})
}

func (t *Tools) loadDocument(ctx context.Context, _ *mcp.CallToolRequest, in NameInput) (*mcp.CallToolResult, SceneOutput, error) {
	return locked(t, func(sess *server.Session) (*mcp.CallToolResult, SceneOutput, error) {
		if err := sess.Files.Load(ctx, t.user, in.Name); err != nil {
			return nil, SceneOutput{}, err
		}
		out := sceneOutput(sess)
		return textResult("loaded %s (%d shapes, %d links)", in.Name, len(out.Shapes), len(out.Links)), out, nil
	})
}

type DocumentList struct {
	Documents []DocumentOutput `json:"documents"`
}

func (t *Tools) listDocuments(ctx context.Context, _ *mcp.CallToolRequest, _ Empty) (*mcp.CallToolResult, DocumentList, error) {
	return locked(t, func(sess *server.Session) (*mcp.CallToolResult, DocumentList, error) {
		infos, err := sess.Files.List(ctx, t.user)
		if err != nil {
			return nil, DocumentList{}, err
		}
		out := DocumentList{Documents: []DocumentOutput{}}
		for _, info := range infos {
			out.Documents = append(out.Documents, DocumentOutput{Name: info.Name, Shapes: info.Shapes, Links: info.Links})
		}
		return textResult("%d documents", len(out.Documents)), out, nil
	})
}
