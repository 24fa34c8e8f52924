// ABOUTME: DocumentStore is the persistence contract for saved scenes keyed by user and name.
// ABOUTME: Shared validation, timestamps and errors used by every backend live here.
package store

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/2389-research/tracie/scene/serial"
)

// timeLayout is fixed-width so timestamps sort lexicographically.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

var (
	// ErrNotAuthenticated indicates an operation without a user identity.
	ErrNotAuthenticated = errors.New("user not authenticated")

	// ErrNotFound indicates no document exists under the given name.
	ErrNotFound = errors.New("file not found")

	// ErrInvalidName indicates an empty or unusable document name.
	ErrInvalidName = errors.New("invalid document name")

	// ErrNestedArray indicates a document that still holds arrays of arrays,
	// which document stores refuse.
	ErrNestedArray = errors.New("nested arrays are not supported")
)

// DocumentInfo describes a stored document without its body.
type DocumentInfo struct {
	Name      string `json:"name"`
	Revision  string `json:"revision"`
	CreatedAt string `json:"createdAt"`
	UpdatedAt string `json:"updatedAt"`
	Shapes    int    `json:"shapes"`
	Links     int    `json:"links"`
}

// DocumentStore persists documents per user.
type DocumentStore interface {
	// Save creates or overwrites name, preserving the original creation time.
	Save(ctx context.Context, user, name string, doc serial.Document) (DocumentInfo, error)
	Load(ctx context.Context, user, name string) (serial.Document, error)
	// List returns the user's documents, most recently updated first.
	List(ctx context.Context, user string) ([]DocumentInfo, error)
	Delete(ctx context.Context, user, name string) error
	Close() error
}

// Clock returns the current time.
type Clock func() time.Time

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func checkUser(user string) error {
	if strings.TrimSpace(user) == "" {
		return ErrNotAuthenticated
	}
	return nil
}

func checkName(name string) error {
	if strings.TrimSpace(name) == "" || strings.ContainsAny(name, "/\\") || name == "." || name == ".." {
		return fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	return nil
}

func checkKey(user, name string) error {
	if err := checkUser(user); err != nil {
		return err
	}
	return checkName(name)
}

// checkStorable rejects documents a document store would refuse.
func checkStorable(doc serial.Document) error {
	if paths := serial.NestedArrayPaths(doc.Tree()); len(paths) > 0 {
		return fmt.Errorf("%w: %s", ErrNestedArray, strings.Join(paths, ", "))
	}
	return nil
}

func checkSave(user, name string, doc serial.Document) error {
	if err := checkKey(user, name); err != nil {
		return err
	}
	return checkStorable(doc)
}

func sortByUpdated(infos []DocumentInfo) {
	sort.SliceStable(infos, func(i, j int) bool {
		if infos[i].UpdatedAt != infos[j].UpdatedAt {
			return infos[i].UpdatedAt > infos[j].UpdatedAt
		}
		return infos[i].Name < infos[j].Name
	})
}

func infoFor(name, revision, created, updated string, doc serial.Document) DocumentInfo {
	shapes, links := doc.Counts()
	return DocumentInfo{Name: name, Revision: revision, CreatedAt: created, UpdatedAt: updated, Shapes: shapes, Links: links}
}

// copyDocument returns a deep copy of doc via its JSON form.
func copyDocument(doc serial.Document) (serial.Document, error) {
	raw, err := serial.Encode(doc)
	if err != nil {
		return serial.Document{}, err
	}
	return serial.Decode(raw)
}
