// ABOUTME: Manager connects a workspace to a DocumentStore: save, load, list, delete and new-file flows.
// ABOUTME: It tracks the current document name and whether the scene has unsaved changes.
package files

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/2389-research/tracie/scene/core"
	"github.com/2389-research/tracie/scene/serial"
	"github.com/2389-research/tracie/scene/store"
)

// UntitledName is the current name of a document that was never saved.
const UntitledName = "Untitled"

// sampleLimit bounds the payload excerpt logged when a save fails.
const sampleLimit = 500

var (
	// ErrUserAborted is returned when the user declines an overwrite.
	ErrUserAborted = errors.New("user aborted")

	// ErrEmptyName is returned when a save or load names no document.
	ErrEmptyName = errors.New("document name is empty")
)

// Confirmer asks whether an existing document may be overwritten.
type Confirmer interface {
	ConfirmOverwrite(ctx context.Context, name string) (bool, error)
}

// ConfirmFunc adapts a function to Confirmer.
type ConfirmFunc func(ctx context.Context, name string) (bool, error)

func (f ConfirmFunc) ConfirmOverwrite(ctx context.Context, name string) (bool, error) {
	return f(ctx, name)
}

// AlwaysOverwrite approves every overwrite.
var AlwaysOverwrite Confirmer = ConfirmFunc(func(context.Context, string) (bool, error) { return true, nil })

// NeverOverwrite declines every overwrite.
var NeverOverwrite Confirmer = ConfirmFunc(func(context.Context, string) (bool, error) { return false, nil })

// PathSource supplies connections annotated with their routed paths.
type PathSource interface {
	Annotate() []core.Connection
}

// Option configures a Manager.
type Option func(*Manager)

// WithConfirmer sets the default overwrite confirmer. Without one,
// overwrites are allowed.
func WithConfirmer(c Confirmer) Option {
	return func(m *Manager) { m.confirm = c }
}

// WithLogger sets the logger used for persistence failures.
func WithLogger(l *slog.Logger) Option {
	return func(m *Manager) { m.logger = l }
}

// WithPaths makes saved links carry the paths reported by src.
func WithPaths(src PathSource) Option {
	return func(m *Manager) { m.paths = src }
}

// Manager runs persistence operations for one workspace.
type Manager struct {
	store     store.DocumentStore
	workspace *core.Workspace
	confirm   Confirmer
	paths     PathSource
	logger    *slog.Logger

	// op serializes persistence operations.
	op sync.Mutex

	mu      sync.Mutex
	current string
	saved   bool
	// opened is set once current names a document this manager saved or loaded.
	opened bool
	files   []store.DocumentInfo
	unsub   func()
}

// New returns a manager for ws backed by st. The workspace starts as a
// saved, untitled document.
func New(st store.DocumentStore, ws *core.Workspace, opts ...Option) *Manager {
	m := &Manager{
		store:     st,
		workspace: ws,
		confirm:   AlwaysOverwrite,
		logger:    slog.New(slog.DiscardHandler),
		current:   UntitledName,
		saved:     true,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.unsub = ws.Scene.Subscribe(func(core.Snapshot) {
		m.mu.Lock()
		m.saved = false
		m.mu.Unlock()
	})
	return m
}

// Close stops dirty tracking.
func (m *Manager) Close() {
	if m.unsub != nil {
		m.unsub()
	}
}

// CurrentName returns the name of the open document.
func (m *Manager) CurrentName() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.current
}

// IsSaved reports whether the scene is unchanged since the last save, load
// or new file.
func (m *Manager) IsSaved() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.saved
}

// Files returns the document list from the most recent List, Save or Delete.
func (m *Manager) Files() []store.DocumentInfo {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]store.DocumentInfo(nil), m.files...)
}

func (m *Manager) markClean(name string, opened bool) {
	m.mu.Lock()
	m.current = name
	m.saved = true
	m.opened = opened
	m.mu.Unlock()
}

// isOpen reports whether name is the document this manager last saved or
// loaded. A fresh Untitled scene never counts as open.
func (m *Manager) isOpen(name string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.opened && m.current == name
}

// Save stores the workspace as name using the default confirmer.
func (m *Manager) Save(ctx context.Context, user, name string) (store.DocumentInfo, error) {
	return m.SaveConfirmed(ctx, user, name, m.confirm)
}

// SaveConfirmed stores the workspace as name. When name already exists and
// was not saved or loaded by this manager, confirm decides whether to
// overwrite it.
func (m *Manager) SaveConfirmed(ctx context.Context, user, name string, confirm Confirmer) (store.DocumentInfo, error) {
	name = strings.TrimSpace(name)
	if strings.TrimSpace(user) == "" {
		return store.DocumentInfo{}, store.ErrNotAuthenticated
	}
	if name == "" {
		return store.DocumentInfo{}, ErrEmptyName
	}

	m.op.Lock()
	defer m.op.Unlock()

	infos, err := m.store.List(ctx, user)
	if err != nil {
		return store.DocumentInfo{}, fmt.Errorf("list documents: %w", err)
	}
	if exists(infos, name) && !m.isOpen(name) && confirm != nil {
		ok, err := confirm.ConfirmOverwrite(ctx, name)
		if err != nil {
			return store.DocumentInfo{}, err
		}
		if !ok {
			return store.DocumentInfo{}, ErrUserAborted
		}
	}

	conns := m.workspace.Scene.ListConnections()
	if m.paths != nil {
		conns = m.paths.Annotate()
	}
	doc, err := serial.Serialize(m.workspace.Scene.ListShapes(), conns)
	if err != nil {
		return store.DocumentInfo{}, err
	}

	info, err := m.store.Save(ctx, user, name, doc)
	if err != nil {
		m.logSaveFailure(name, doc, err)
		return store.DocumentInfo{}, err
	}

	m.markClean(name, true)
	m.refreshFiles(ctx, user)
	return info, nil
}

func (m *Manager) logSaveFailure(name string, doc serial.Document, err error) {
	payload, encErr := serial.Encode(doc)
	sample := ""
	if encErr == nil {
		sample = truncate(string(payload), sampleLimit)
	}
	m.logger.Error("save failed",
		"component", "files",
		"name", name,
		"error", err,
		"sample", sample,
		"nested_paths", serial.NestedArrayPaths(doc.Tree()),
	)
}

// Load replaces the workspace with the stored document and starts a fresh
// history.
func (m *Manager) Load(ctx context.Context, user, name string) error {
	name = strings.TrimSpace(name)
	if strings.TrimSpace(user) == "" {
		return store.ErrNotAuthenticated
	}
	if name == "" {
		return ErrEmptyName
	}

	m.op.Lock()
	defer m.op.Unlock()

	doc, err := m.store.Load(ctx, user, name)
	if err != nil {
		m.logger.Warn("load failed", "component", "files", "name", name, "error", err)
		return err
	}
	shapes, conns, err := serial.Deserialize(doc, m.workspace.Geometry)
	if err != nil {
		m.logger.Error("load failed", "component", "files", "name", name, "error", err)
		return err
	}
	m.workspace.Load(shapes, conns)
	m.markClean(name, true)
	return nil
}

// List returns the user's documents, newest first, and caches them.
func (m *Manager) List(ctx context.Context, user string) ([]store.DocumentInfo, error) {
	m.op.Lock()
	defer m.op.Unlock()

	infos, err := m.store.List(ctx, user)
	if err != nil {
		return nil, err
	}
	m.setFiles(infos)
	return infos, nil
}

// Delete removes a stored document. Deleting the open document leaves the
// scene in place but marks it unsaved.
func (m *Manager) Delete(ctx context.Context, user, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ErrEmptyName
	}

	m.op.Lock()
	defer m.op.Unlock()

	if err := m.store.Delete(ctx, user, name); err != nil {
		return err
	}
	m.mu.Lock()
	if m.current == name {
		m.saved = false
		m.opened = false
	}
	m.mu.Unlock()
	m.refreshFiles(ctx, user)
	return nil
}

// NewFile clears the workspace and history and names the document Untitled.
func (m *Manager) NewFile() {
	m.op.Lock()
	defer m.op.Unlock()

	m.workspace.Reset()
	m.markClean(UntitledName, false)
}

func (m *Manager) refreshFiles(ctx context.Context, user string) {
	infos, err := m.store.List(ctx, user)
	if err != nil {
		m.logger.Warn("refresh file list failed", "component", "files", "error", err)
		return
	}
	m.setFiles(infos)
}

func (m *Manager) setFiles(infos []store.DocumentInfo) {
	m.mu.Lock()
	m.files = infos
	m.mu.Unlock()
}

func exists(infos []store.DocumentInfo, name string) bool {
	return slices.ContainsFunc(infos, func(info store.DocumentInfo) bool { return info.Name == name })
}

// truncate keeps at most n runes of s.
func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}
