// ABOUTME: In-memory DocumentStore for tests, the console and ephemeral servers.
// ABOUTME: Documents are deep-copied on the way in and out so callers never share state.
package store

import (
	"context"
	"sync"
	"time"

	"github.com/2389-research/tracie/scene/serial"
)

type memoryRecord struct {
	info DocumentInfo
	doc  serial.Document
}

// MemoryStore keeps documents in process memory.
type MemoryStore struct {
	mu    sync.RWMutex
	now   Clock
	users map[string]map[string]memoryRecord
}

// NewMemoryStore returns an empty store. A nil clock uses time.Now.
func NewMemoryStore(now Clock) *MemoryStore {
	if now == nil {
		now = time.Now
	}
	return &MemoryStore{now: now, users: make(map[string]map[string]memoryRecord)}
}

func (s *MemoryStore) Save(_ context.Context, user, name string, doc serial.Document) (DocumentInfo, error) {
	if err := checkSave(user, name, doc); err != nil {
		return DocumentInfo{}, err
	}
	stored, err := copyDocument(doc)
	if err != nil {
		return DocumentInfo{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	docs := s.users[user]
	if docs == nil {
		docs = make(map[string]memoryRecord)
		s.users[user] = docs
	}
	ts := formatTime(s.now())
	created := ts
	if prev, ok := docs[name]; ok {
		created = prev.info.CreatedAt
	}
	stored.CreatedAt, stored.UpdatedAt = created, ts
	info := infoFor(name, NewRevision(), created, ts, stored)
	docs[name] = memoryRecord{info: info, doc: stored}
	return info, nil
}

func (s *MemoryStore) Load(_ context.Context, user, name string) (serial.Document, error) {
	if err := checkKey(user, name); err != nil {
		return serial.Document{}, err
	}
	s.mu.RLock()
	rec, ok := s.users[user][name]
	s.mu.RUnlock()
	if !ok {
		return serial.Document{}, ErrNotFound
	}
	return copyDocument(rec.doc)
}

func (s *MemoryStore) List(_ context.Context, user string) ([]DocumentInfo, error) {
	if err := checkUser(user); err != nil {
		return nil, err
	}
	s.mu.RLock()
	infos := make([]DocumentInfo, 0, len(s.users[user]))
	for _, rec := range s.users[user] {
		infos = append(infos, rec.info)
	}
	s.mu.RUnlock()
	sortByUpdated(infos)
	return infos, nil
}

func (s *MemoryStore) Delete(_ context.Context, user, name string) error {
	if err := checkKey(user, name); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[user][name]; !ok {
		return ErrNotFound
	}
	delete(s.users[user], name)
	return nil
}

func (s *MemoryStore) Close() error { return nil }
