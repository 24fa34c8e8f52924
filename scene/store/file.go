// ABOUTME: Filesystem DocumentStore writing one JSON record per document under a per-user directory.
// ABOUTME: Writes go to a temp file that is synced and renamed so a crash never leaves a torn record.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/2389-research/tracie/scene/serial"
)

const recordExt = ".json"

type fileRecord struct {
	Info     DocumentInfo    `json:"info"`
	Document serial.Document `json:"document"`
}

// FileStore keeps documents as files under a root directory.
type FileStore struct {
	root string
	now  Clock
	mu   sync.Mutex
}

// NewFileStore returns a store rooted at dir, creating it if needed.
func NewFileStore(dir string, now Clock) (*FileStore, error) {
	if now == nil {
		now = time.Now
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create store dir: %w", err)
	}
	return &FileStore{root: dir, now: now}, nil
}

func (s *FileStore) userDir(user string) string {
	return filepath.Join(s.root, url.PathEscape(user))
}

func (s *FileStore) path(user, name string) string {
	return filepath.Join(s.userDir(user), url.PathEscape(name)+recordExt)
}

func (s *FileStore) Save(_ context.Context, user, name string, doc serial.Document) (DocumentInfo, error) {
	if err := checkSave(user, name, doc); err != nil {
		return DocumentInfo{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	ts := formatTime(s.now())
	created := ts
	if prev, err := readRecord(s.path(user, name)); err == nil {
		created = prev.Info.CreatedAt
	} else if !errors.Is(err, ErrNotFound) {
		return DocumentInfo{}, err
	}

	doc.CreatedAt, doc.UpdatedAt = created, ts
	rec := fileRecord{Info: infoFor(name, NewRevision(), created, ts, doc), Document: doc}
	data, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return DocumentInfo{}, fmt.Errorf("marshal record: %w", err)
	}
	if err := os.MkdirAll(s.userDir(user), 0o755); err != nil {
		return DocumentInfo{}, fmt.Errorf("create user dir: %w", err)
	}
	if err := writeAtomic(s.path(user, name), data); err != nil {
		return DocumentInfo{}, err
	}
	return rec.Info, nil
}

func (s *FileStore) Load(_ context.Context, user, name string) (serial.Document, error) {
	if err := checkKey(user, name); err != nil {
		return serial.Document{}, err
	}
	rec, err := readRecord(s.path(user, name))
	if err != nil {
		return serial.Document{}, err
	}
	return rec.Document, nil
}

func (s *FileStore) List(_ context.Context, user string) ([]DocumentInfo, error) {
	if err := checkUser(user); err != nil {
		return nil, err
	}
	entries, err := os.ReadDir(s.userDir(user))
	if errors.Is(err, fs.ErrNotExist) {
		return []DocumentInfo{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}

	infos := make([]DocumentInfo, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), recordExt) {
			continue
		}
		rec, err := readRecord(filepath.Join(s.userDir(user), e.Name()))
		if err != nil {
			return nil, err
		}
		infos = append(infos, rec.Info)
	}
	sortByUpdated(infos)
	return infos, nil
}

func (s *FileStore) Delete(_ context.Context, user, name string) error {
	if err := checkKey(user, name); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	err := os.Remove(s.path(user, name))
	if errors.Is(err, fs.ErrNotExist) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("delete document: %w", err)
	}
	return nil
}

func (s *FileStore) Close() error { return nil }

func readRecord(path string) (fileRecord, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return fileRecord{}, ErrNotFound
	}
	if err != nil {
		return fileRecord{}, fmt.Errorf("read record: %w", err)
	}
	var rec fileRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return fileRecord{}, fmt.Errorf("parse record %s: %w", filepath.Base(path), err)
	}
	return rec, nil
}

// writeAtomic writes data to a temp file beside path, syncs it and renames it into place.
func writeAtomic(path string, data []byte) error {
	tmp := path + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return fmt.Errorf("create temp record: %w", err)
	}
	if _, err := f.Write(data); err != nil {
		_ = f.Close()
		_ = os.Remove(tmp)
		return fmt.Errorf("write record: %w", err)
	}
	if err := f.Sync(); err != nil {
		_ = f.Close()
		_ = os.Remove(tmp)
		return fmt.Errorf("sync record: %w", err)
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("close record: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("rename record: %w", err)
	}
	return nil
}
