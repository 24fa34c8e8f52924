// ABOUTME: Console interprets the one-line command language typed into the terminal UI.
// ABOUTME: Commands edit the session workspace, switch routing and drive document persistence.
package tui

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"slices"
	"sort"
	"strconv"
	"strings"

	"github.com/2389-research/tracie/geom"
	"github.com/2389-research/tracie/scene/core"
	"github.com/2389-research/tracie/scene/export"
	"github.com/2389-research/tracie/scene/files"
	"github.com/2389-research/tracie/scene/route"
	"github.com/2389-research/tracie/scene/server"
)

// ErrUnknownCommand is returned for a verb the console does not know.
var ErrUnknownCommand = errors.New("unknown command")

// Result is the outcome of one console command.
type Result struct {
	Output string
	Quit   bool
}

type commandSpec struct {
	usage   string
	minArgs int
	maxArgs int
	run     func(ctx context.Context, c *Console, args []string) (string, error)
}

var commands = map[string]commandSpec{
	"array":    {"array <length>", 1, 1, cmdArray},
	"table":    {"table <rows> <cols>", 2, 2, cmdTable},
	"pointer":  {"pointer <name>", 1, 1, cmdPointer},
	"iterator": {"iterator <name> <max-index>", 2, 2, cmdIterator},
	"node":     {"node [value]", 0, 1, cmdNode},
	"bnode":    {"bnode [value]", 0, 1, cmdBinaryNode},
	"nnode":    {"nnode <value> <children>", 2, 2, cmdNaryNode},
	"move":     {"move <id> <x> <y>", 3, 3, cmdMove},
	"link":     {"link <id:side> <id:side> [color]", 2, 3, cmdLink},
	"unlink":   {"unlink <id:side> <id:side>", 2, 2, cmdUnlink},
	"dup":      {"dup <id>", 1, 1, cmdDuplicate},
	"del":      {"del <id>", 1, 1, cmdDelete},
	"undo":     {"undo", 0, 0, cmdUndo},
	"redo":     {"redo", 0, 0, cmdRedo},
	"grid":     {"grid on|off", 1, 1, cmdGrid},
	"optimize": {"optimize", 0, 0, cmdOptimize},
	"save":     {"save [name]", 0, 1, cmdSave},
	"load":     {"load <name>", 1, 1, cmdLoad},
	"ls":       {"ls", 0, 0, cmdList},
	"rm":       {"rm <name>", 1, 1, cmdRemove},
	"new":      {"new", 0, 0, cmdNew},
}

// Console executes commands against one session on behalf of user.
type Console struct {
	sess *server.Session
	user string
}

// NewConsole returns a console for sess.
func NewConsole(sess *server.Session, user string) *Console {
	return &Console{sess: sess, user: user}
}

// Session returns the console's session.
func (c *Console) Session() *server.Session { return c.sess }

// Execute runs one command line.
func (c *Console) Execute(ctx context.Context, line string) (Result, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return Result{}, nil
	}
	verb, args := fields[0], fields[1:]
	switch verb {
	case "quit", "exit":
		return Result{Quit: true}, nil
	case "help":
		return Result{Output: helpText()}, nil
	}
	spec, ok := commands[verb]
	if !ok {
		return Result{}, fmt.Errorf("%w: %s (try help)", ErrUnknownCommand, verb)
	}
	if len(args) < spec.minArgs || len(args) > spec.maxArgs {
		return Result{}, fmt.Errorf("%w: usage: %s", core.ErrInvalidInput, spec.usage)
	}

	c.sess.Lock()
	defer c.sess.Unlock()
	out, err := spec.run(ctx, c, args)
	return Result{Output: out}, err
}

func parseID(raw string) (int, error) {
	id, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%w: %q is not a shape id", core.ErrInvalidInput, raw)
	}
	return id, nil
}

func parseCoord(raw string) (float64, error) {
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q is not a coordinate", core.ErrInvalidInput, raw)
	}
	return v, nil
}

func added(sh core.Shape, err error) (string, error) {
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("added %d: %s", sh.ID, export.Describe(sh)), nil
}

func cmdArray(_ context.Context, c *Console, args []string) (string, error) {
	n, err := core.ParseSize(args[0])
	if err != nil {
		return "", err
	}
	return added(c.sess.Workspace.AddArray(n))
}

func cmdTable(_ context.Context, c *Console, args []string) (string, error) {
	rows, err := core.ParseSize(args[0])
	if err != nil {
		return "", err
	}
	cols, err := core.ParseSize(args[1])
	if err != nil {
		return "", err
	}
	return added(c.sess.Workspace.AddTable(rows, cols))
}

func cmdPointer(_ context.Context, c *Console, args []string) (string, error) {
	return added(c.sess.Workspace.AddPointer(args[0]))
}

func cmdIterator(_ context.Context, c *Console, args []string) (string, error) {
	maxIndex, err := core.ParseSize(args[1])
	if err != nil {
		return "", err
	}
	return added(c.sess.Workspace.AddIterator(args[0], maxIndex))
}

func optional(args []string) string {
	if len(args) == 0 {
		return ""
	}
	return args[0]
}

func cmdNode(_ context.Context, c *Console, args []string) (string, error) {
	return added(c.sess.Workspace.AddNode(optional(args)))
}

func cmdBinaryNode(_ context.Context, c *Console, args []string) (string, error) {
	return added(c.sess.Workspace.AddBinaryNode(optional(args)))
}

func cmdNaryNode(_ context.Context, c *Console, args []string) (string, error) {
	children, err := core.ParseSize(args[1])
	if err != nil {
		return "", err
	}
	return added(c.sess.Workspace.AddNaryNode(args[0], children))
}

func cmdMove(_ context.Context, c *Console, args []string) (string, error) {
	id, err := parseID(args[0])
	if err != nil {
		return "", err
	}
	x, err := parseCoord(args[1])
	if err != nil {
		return "", err
	}
	y, err := parseCoord(args[2])
	if err != nil {
		return "", err
	}
	if err := c.sess.Workspace.MoveShape(id, geom.Pt(x, y)); err != nil {
		return "", err
	}
	return fmt.Sprintf("moved %d to (%g, %g)", id, x, y), nil
}

func endpoints(args []string) (core.Endpoint, core.Endpoint, error) {
	from, err := core.ParseEndpoint(args[0])
	if err != nil {
		return core.Endpoint{}, core.Endpoint{}, err
	}
	to, err := core.ParseEndpoint(args[1])
	return from, to, err
}

func cmdLink(_ context.Context, c *Console, args []string) (string, error) {
	from, to, err := endpoints(args)
	if err != nil {
		return "", err
	}
	color := ""
	if len(args) == 3 {
		color = args[2]
	}
	conn, err := c.sess.Workspace.Connect(from, to, color)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("linked %s (%s)", conn, conn.Color), nil
}

func cmdUnlink(_ context.Context, c *Console, args []string) (string, error) {
	from, to, err := endpoints(args)
	if err != nil {
		return "", err
	}
	if err := c.sess.Workspace.Disconnect(from, to); err != nil {
		return "", err
	}
	return fmt.Sprintf("unlinked %s->%s", from, to), nil
}

func cmdDuplicate(_ context.Context, c *Console, args []string) (string, error) {
	id, err := parseID(args[0])
	if err != nil {
		return "", err
	}
	sh := c.sess.Workspace.Duplicate(id)
	if sh == nil {
		return "", &core.ShapeNotFoundError{ID: id}
	}
	return fmt.Sprintf("duplicated %d as %d", id, sh.ID), nil
}

func cmdDelete(_ context.Context, c *Console, args []string) (string, error) {
	id, err := parseID(args[0])
	if err != nil {
		return "", err
	}
	if err := c.sess.Workspace.DeleteShape(id); err != nil {
		return "", err
	}
	return fmt.Sprintf("deleted %d", id), nil
}

func cmdUndo(_ context.Context, c *Console, _ []string) (string, error) {
	if !c.sess.Workspace.Undo() {
		return "nothing to undo", nil
	}
	return "undone", nil
}

func cmdRedo(_ context.Context, c *Console, _ []string) (string, error) {
	if !c.sess.Workspace.Redo() {
		return "nothing to redo", nil
	}
	return "redone", nil
}

func cmdGrid(_ context.Context, c *Console, args []string) (string, error) {
	switch args[0] {
	case "on":
		c.sess.Tracker.SetGrid(true)
		return "grid routing on", nil
	case "off":
		c.sess.Tracker.SetGrid(false)
		return "grid routing off", nil
	default:
		return "", fmt.Errorf("%w: usage: grid on|off", core.ErrInvalidInput)
	}
}

func cmdOptimize(_ context.Context, c *Console, _ []string) (string, error) {
	n := route.OptimizeLinks(c.sess.Workspace)
	return fmt.Sprintf("retargeted %d links", n), nil
}

func cmdSave(ctx context.Context, c *Console, args []string) (string, error) {
	name := optional(args)
	if name == "" {
		name = c.sess.Files.CurrentName()
		if name == files.UntitledName {
			return "", fmt.Errorf("%w: usage: save <name>", core.ErrInvalidInput)
		}
	}
	info, err := c.sess.Files.Save(ctx, c.user, name)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("saved %s (%d shapes, %d links)", info.Name, info.Shapes, info.Links), nil
}

func cmdLoad(ctx context.Context, c *Console, args []string) (string, error) {
	if err := c.sess.Files.Load(ctx, c.user, args[0]); err != nil {
		return "", err
	}
	return "loaded " + args[0], nil
}

func cmdList(ctx context.Context, c *Console, _ []string) (string, error) {
	infos, err := c.sess.Files.List(ctx, c.user)
	if err != nil {
		return "", err
	}
	if len(infos) == 0 {
		return "no saved documents", nil
	}
	lines := make([]string, len(infos))
	for i, info := range infos {
		lines[i] = fmt.Sprintf("%s  %d shapes  %d links  %s", info.Name, info.Shapes, info.Links, info.UpdatedAt)
	}
	return strings.Join(lines, "\n"), nil
}

func cmdRemove(ctx context.Context, c *Console, args []string) (string, error) {
	if err := c.sess.Files.Delete(ctx, c.user, args[0]); err != nil {
		return "", err
	}
	return "removed " + args[0], nil
}

func cmdNew(_ context.Context, c *Console, _ []string) (string, error) {
	c.sess.Files.NewFile()
	return "new document", nil
}

func helpText() string {
	usages := make([]string, 0, len(commands)+2)
	for _, spec := range commands {
		usages = append(usages, spec.usage)
	}
	usages = append(usages, "help", "quit")
	sort.Strings(usages)
	return strings.Join(usages, "\n")
}

// SceneView is a display copy of the session taken under its lock, so
// rendering never touches the live workspace.
type SceneView struct {
	Name      string
	Saved     bool
	Grid      bool
	UndoDepth int
	RedoDepth int
	Shapes    []string
	Links     []string
}

// Snapshot captures the session for display.
func (c *Console) Snapshot() SceneView {
	c.sess.Lock()
	defer c.sess.Unlock()

	ws := c.sess.Workspace
	view := SceneView{
		Name:      c.sess.Files.CurrentName(),
		Saved:     c.sess.Files.IsSaved(),
		Grid:      c.sess.Tracker.Grid(),
		UndoDepth: ws.History.UndoDepth(),
		RedoDepth: ws.History.RedoDepth(),
	}
	snap := ws.Scene.Snapshot()
	shapes := slices.Clone(snap.Shapes)
	slices.SortFunc(shapes, func(a, b core.Shape) int { return cmp.Compare(a.ID, b.ID) })
	for _, sh := range shapes {
		view.Shapes = append(view.Shapes, fmt.Sprintf("%3d  %-28s (%g, %g)", sh.ID, export.Describe(sh), sh.X, sh.Y))
	}
	for _, conn := range snap.Connections {
		line := fmt.Sprintf("%s -> %s  %s", conn.From, conn.To, conn.Color)
		if p, ok := c.sess.Tracker.Path(conn.Key()); ok {
			switch {
			case p.Fallback:
				line += "  (direct)"
			case p.Curve:
				line += "  (curve)"
			default:
				line += fmt.Sprintf("  (%d bends)", max(len(p.Points)-2, 0))
			}
		}
		view.Links = append(view.Links, line)
	}
	return view
}
