package editor

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	pkgerrors "github.com/lumenline/quotedesk/pkg/errors"
	"github.com/lumenline/quotedesk/pkg/logger"
)

// Key addresses the editing state of one quotation inside one session.
type Key struct {
	SessionID   string
	QuotationID int64
}

// Cache persists editor state across gateway restarts. Implementations must
// return ("", nil) for missing entries.
type Cache interface {
	Get(ctx context.Context, sessionID string, quotationID int64) (string, error)
	Set(ctx context.Context, sessionID string, quotationID int64, payload string) error
	Del(ctx context.Context, sessionID string, quotationID int64) error
}

// Store serializes all access to editor state. Every mutation runs under
// the entry's lock so concurrent requests on the same quotation cannot
// interleave partial edits.
type Store struct {
	mu      sync.Mutex
	entries map[Key]*entry
	cache   Cache
	logger  *logger.Logger
}

type entry struct {
	mu    sync.Mutex
	state *State
}

// NewStore builds a state store. The cache may be nil, in which case state
// lives only in process memory.
func NewStore(cache Cache, logg *logger.Logger) *Store {
	return &Store{
		entries: make(map[Key]*entry),
		cache:   cache,
		logger:  logg,
	}
}

// Put installs freshly loaded state, replacing whatever was there.
func (s *Store) Put(ctx context.Context, key Key, st *State) {
	e := s.entryFor(key)
	e.mu.Lock()
	defer e.mu.Unlock()
	e.state = st
	s.persist(ctx, key, st)
}

// Update runs fn against the state under its lock, then persists. fn errors
// abort persistence and propagate unchanged.
func (s *Store) Update(ctx context.Context, key Key, fn func(*State) error) error {
	e := s.entryFor(key)
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := s.ensureLoaded(ctx, key, e); err != nil {
		return err
	}
	if err := fn(e.state); err != nil {
		return err
	}
	s.persist(ctx, key, e.state)
	return nil
}

// Read runs fn against the state under its lock without persisting.
func (s *Store) Read(ctx context.Context, key Key, fn func(*State) error) error {
	e := s.entryFor(key)
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := s.ensureLoaded(ctx, key, e); err != nil {
		return err
	}
	return fn(e.state)
}

// Delete drops the state from memory and the cache.
func (s *Store) Delete(ctx context.Context, key Key) {
	s.mu.Lock()
	delete(s.entries, key)
	s.mu.Unlock()
	if s.cache == nil {
		return
	}
	if err := s.cache.Del(ctx, key.SessionID, key.QuotationID); err != nil && s.logger != nil {
		s.logger.Warn(ctx, fmt.Sprintf("drop cached editor state: %v", err))
	}
}

func (s *Store) entryFor(key Key) *entry {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries[key]
	if !ok {
		e = &entry{}
		s.entries[key] = e
	}
	return e
}

func (s *Store) ensureLoaded(ctx context.Context, key Key, e *entry) error {
	if e.state != nil {
		return nil
	}
	if s.cache != nil {
		payload, err := s.cache.Get(ctx, key.SessionID, key.QuotationID)
		if err != nil && s.logger != nil {
			s.logger.Warn(ctx, fmt.Sprintf("read cached editor state: %v", err))
		}
		if payload != "" {
			var st State
			if err := json.Unmarshal([]byte(payload), &st); err == nil {
				e.state = &st
				return nil
			}
		}
	}
	return pkgerrors.New(pkgerrors.CodeNotFound, fmt.Sprintf("no editor state for quotation %d", key.QuotationID))
}

// persist is best effort: a cache outage degrades durability, not edits.
func (s *Store) persist(ctx context.Context, key Key, st *State) {
	if s.cache == nil {
		return
	}
	payload, err := json.Marshal(st)
	if err != nil {
		if s.logger != nil {
			s.logger.Warn(ctx, fmt.Sprintf("encode editor state: %v", err))
		}
		return
	}
	if err := s.cache.Set(ctx, key.SessionID, key.QuotationID, string(payload)); err != nil && s.logger != nil {
		s.logger.Warn(ctx, fmt.Sprintf("persist editor state: %v", err))
	}
}
