// UniSearch - University Ranking Aggregation and Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/unisearch

package ingest

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"
)

const (
	// lastRunKey holds the most recent run, successful or not.
	lastRunKey = "sync:last"

	// lastSuccessKey holds the most recent run that completed without error.
	lastSuccessKey = "sync:last_success"
)

// StateStore persists sync run statistics across restarts.
type StateStore interface {
	// Save records a finished run.
	Save(ctx context.Context, stats *SyncStats) error

	// Load returns the most recent run, or nil when none was saved.
	Load(ctx context.Context) (*SyncStats, error)

	// LoadLastSuccess returns the most recent successful run, or nil.
	LoadLastSuccess(ctx context.Context) (*SyncStats, error)

	// Clear removes all saved runs.
	Clear(ctx context.Context) error
}

// BadgerState implements StateStore using BadgerDB.
type BadgerState struct {
	db *badger.DB
}

// OpenBadgerState opens (or creates) a Badger database in dir.
func OpenBadgerState(dir string) (*BadgerState, error) {
	opts := badger.DefaultOptions(dir).WithLogger(nil)
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open sync state: %w", err)
	}
	return &BadgerState{db: db}, nil
}

// NewBadgerState wraps an already open BadgerDB instance.
func NewBadgerState(db *badger.DB) *BadgerState {
	return &BadgerState{db: db}
}

// Close closes the underlying database.
func (s *BadgerState) Close() error {
	return s.db.Close()
}

// Save persists stats as the last run, and as the last success when it has no error.
func (s *BadgerState) Save(_ context.Context, stats *SyncStats) error {
	data, err := json.Marshal(stats)
	if err != nil {
		return fmt.Errorf("marshal stats: %w", err)
	}

	return s.db.Update(func(txn *badger.Txn) error {
		if err := txn.Set([]byte(lastRunKey), data); err != nil {
			return err
		}
		if stats.Error == "" {
			return txn.Set([]byte(lastSuccessKey), data)
		}
		return nil
	})
}

// Load retrieves the last run. Returns nil, nil if nothing has been saved.
func (s *BadgerState) Load(_ context.Context) (*SyncStats, error) {
	return s.get(lastRunKey)
}

// LoadLastSuccess retrieves the last successful run.
func (s *BadgerState) LoadLastSuccess(_ context.Context) (*SyncStats, error) {
	return s.get(lastSuccessKey)
}

func (s *BadgerState) get(key string) (*SyncStats, error) {
	var stats SyncStats

	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil
		}
		if err != nil {
			return err
		}

		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &stats)
		})
	})
	if err != nil {
		return nil, fmt.Errorf("load sync state: %w", err)
	}

	if stats.StartTime.IsZero() {
		return nil, nil
	}
	return &stats, nil
}

// Clear removes saved runs.
func (s *BadgerState) Clear(_ context.Context) error {
	return s.db.Update(func(txn *badger.Txn) error {
		for _, key := range []string{lastRunKey, lastSuccessKey} {
			if err := txn.Delete([]byte(key)); err != nil && !errors.Is(err, badger.ErrKeyNotFound) {
				return err
			}
		}
		return nil
	})
}

// InMemoryState implements StateStore without persistence.
type InMemoryState struct {
	mu          sync.Mutex
	last        *SyncStats
	lastSuccess *SyncStats
}

// NewInMemoryState creates an empty in-memory state store.
func NewInMemoryState() *InMemoryState {
	return &InMemoryState{}
}

// Save stores a copy of stats.
func (s *InMemoryState) Save(_ context.Context, stats *SyncStats) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.last = stats.Clone()
	if stats.Error == "" {
		s.lastSuccess = stats.Clone()
	}
	return nil
}

// Load returns a copy of the last run.
func (s *InMemoryState) Load(_ context.Context) (*SyncStats, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.last == nil {
		return nil, nil
	}
	return s.last.Clone(), nil
}

// LoadLastSuccess returns a copy of the last successful run.
func (s *InMemoryState) LoadLastSuccess(_ context.Context) (*SyncStats, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.lastSuccess == nil {
		return nil, nil
	}
	return s.lastSuccess.Clone(), nil
}

// Clear forgets all runs.
func (s *InMemoryState) Clear(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.last = nil
	s.lastSuccess = nil
	return nil
}
