// Package storage persists the opt-in and blacklist user sets in a durable
// JSON datastore.
package storage

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/keshon/datastore"
)

const (
	optinKey     = "optin_users"
	blacklistKey = "blacklist_users"

	// saveInterval bounds how long a mutation can sit unflushed; Close
	// flushes whatever remains.
	saveInterval = time.Second
)

// Storage wraps the datastore with set semantics. The datastore serializes
// individual operations, but read-modify-write of a whole set needs the
// extra mutex here so two concurrent opt-ins cannot lose an update.
type Storage struct {
	ds *datastore.DataStore
	mu sync.Mutex
}

// New opens or creates the datastore file at the given path.
func New(ctx context.Context, filePath string) (*Storage, error) {
	ds, err := datastore.New(ctx, filePath, datastore.WithSaveInterval(saveInterval))
	if err != nil {
		return nil, err
	}
	return &Storage{ds: ds}, nil
}

// Close flushes and closes the underlying datastore.
func (s *Storage) Close() error {
	return s.ds.Close()
}

// OptIn adds a user to the opt-in set. Adding a present user is a no-op.
func (s *Storage) OptIn(userID string) error {
	return s.addToSet(optinKey, userID)
}

// OptOut removes a user from the opt-in set. Removing an absent user is a
// no-op.
func (s *Storage) OptOut(userID string) error {
	return s.removeFromSet(optinKey, userID)
}

// IsOptedIn reports whether a user is in the opt-in set.
func (s *Storage) IsOptedIn(userID string) bool {
	return s.setContains(optinKey, userID)
}

// Blacklist adds a user to the blacklist.
func (s *Storage) Blacklist(userID string) error {
	return s.addToSet(blacklistKey, userID)
}

// Unblacklist removes a user from the blacklist.
func (s *Storage) Unblacklist(userID string) error {
	return s.removeFromSet(blacklistKey, userID)
}

// IsBlacklisted reports whether a user is on the blacklist.
func (s *Storage) IsBlacklisted(userID string) bool {
	return s.setContains(blacklistKey, userID)
}

// readSet decodes a stored set into a fresh caller-owned slice. An absent
// key or a decode failure reads as the empty set.
func (s *Storage) readSet(key string) []string {
	var ids []string
	exists, err := s.ds.Get(key, &ids)
	if err != nil || !exists {
		return nil
	}
	return ids
}

func (s *Storage) addToSet(key, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	ids := s.readSet(key)
	for _, id := range ids {
		if id == userID {
			return nil
		}
	}
	if err := s.ds.Set(key, append(ids, userID)); err != nil {
		return fmt.Errorf("persist %s: %w", key, err)
	}
	return nil
}

func (s *Storage) removeFromSet(key, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	ids := s.readSet(key)
	kept := make([]string, 0, len(ids))
	for _, id := range ids {
		if id != userID {
			kept = append(kept, id)
		}
	}
	if len(kept) == len(ids) {
		return nil
	}
	if err := s.ds.Set(key, kept); err != nil {
		return fmt.Errorf("persist %s: %w", key, err)
	}
	return nil
}

func (s *Storage) setContains(key, userID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, id := range s.readSet(key) {
		if id == userID {
			return true
		}
	}
	return false
}
