// Package draft keeps the unsaved batch in a local key-value store so it
// survives process restarts until it is saved or discarded.
package draft

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v4"

	"github.com/roach88/balanca/internal/batch"
)

const keyPrefix = "draft/"

// Store persists batch snapshots in badger, one key per session.
type Store struct {
	db *badger.DB
}

// Open opens the draft store in dir. An empty dir keeps everything in memory,
// which is what tests and one-shot commands use.
func Open(dir string) (*Store, error) {
	opts := badger.DefaultOptions(dir).WithLogger(nil)
	if dir == "" {
		opts = opts.WithInMemory(true)
	}
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open draft store: %w", err)
	}
	return &Store{db: db}, nil
}

// Close releases the underlying database.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

func key(session string) []byte {
	return []byte(keyPrefix + session)
}

// Save writes the snapshot for session, replacing any previous one.
func (s *Store) Save(session string, snap batch.Snapshot) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("save draft %s: %w", session, err)
	}
	err = s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(key(session), data)
	})
	if err != nil {
		return fmt.Errorf("save draft %s: %w", session, err)
	}
	return nil
}

// Load returns the snapshot for session. A session with no draft yields an
// empty snapshot and a nil error. Undecodable data is reported as an error;
// per-entry validation is left to batch.Restore.
func (s *Store) Load(session string) (batch.Snapshot, error) {
	var snap batch.Snapshot
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(key(session))
		if err != nil {
			if errors.Is(err, badger.ErrKeyNotFound) {
				return nil
			}
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &snap)
		})
	})
	if err != nil {
		return batch.Snapshot{}, fmt.Errorf("load draft %s: %w", session, err)
	}
	return snap, nil
}

// Delete removes the draft for session. Deleting a missing draft is not an
// error.
func (s *Store) Delete(session string) error {
	err := s.db.Update(func(txn *badger.Txn) error {
		return txn.Delete(key(session))
	})
	if err != nil {
		return fmt.Errorf("delete draft %s: %w", session, err)
	}
	return nil
}

// Sessions lists the sessions that currently hold a draft.
func (s *Store) Sessions() ([]string, error) {
	var sessions []string
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		opts.Prefix = []byte(keyPrefix)
		it := txn.NewIterator(opts)
		defer it.Close()
		for it.Rewind(); it.Valid(); it.Next() {
			sessions = append(sessions, string(it.Item().Key()[len(keyPrefix):]))
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list drafts: %w", err)
	}
	return sessions, nil
}

// putRaw stores undecoded bytes; tests use it to simulate a damaged draft.
func (s *Store) putRaw(session string, data []byte) error {
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(key(session), data)
	})
}
