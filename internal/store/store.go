// Package store persists serialized games and aggregate results in a
// BadgerDB key-value store. The rules core never touches it; callers save
// snapshots and feed them back in for resume or replay.
package store

import (
	"encoding/json"
	"errors"
	"time"

	"github.com/dgraph-io/badger/v4"

	"github.com/chessweb/chess-backend/internal/model"
)

const (
	gameKeyPrefix = "game:"
	keyStats      = "stats"
)

// ErrNotFound is returned when no game is stored under the requested id.
var ErrNotFound = errors.New("game not found")

// Store wraps BadgerDB for persistent storage.
type Store struct {
	db *badger.DB
}

// Open opens (or creates) the database in dir.
func Open(dir string) (*Store, error) {
	opts := badger.DefaultOptions(dir)
	opts.Logger = nil

	db, err := badger.Open(opts)
	if err != nil {
		return nil, err
	}
	return &Store{db: db}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// SaveGame stores the snapshot under its game id, overwriting any previous
// save of the same game.
func (s *Store) SaveGame(snap model.Snapshot) error {
	if snap.GameID == "" {
		return errors.New("snapshot has no game id")
	}

	data, err := json.Marshal(snap)
	if err != nil {
		return err
	}

	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(gameKeyPrefix+snap.GameID), data)
	})
}

// LoadGame returns the stored snapshot for the id.
func (s *Store) LoadGame(id string) (model.Snapshot, error) {
	var snap model.Snapshot

	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(gameKeyPrefix + id))
		if err == badger.ErrKeyNotFound {
			return ErrNotFound
		}
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &snap)
		})
	})

	return snap, err
}

// DeleteGame removes a stored game. Deleting a missing game is not an error.
func (s *Store) DeleteGame(id string) error {
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Delete([]byte(gameKeyPrefix + id))
	})
}

// GameSummary is the listing row for one stored game.
type GameSummary struct {
	GameID        string       `json:"game_id"`
	StatusMessage string       `json:"status_message"`
	GameOver      bool         `json:"game_over"`
	Winner        *model.Color `json:"winner"`
	Moves         int          `json:"moves"`
	FinishedAt    *time.Time   `json:"finished_at"`
}

// ListGames returns a summary for every stored game.
func (s *Store) ListGames() ([]GameSummary, error) {
	summaries := []GameSummary{}

	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(gameKeyPrefix)
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			err := it.Item().Value(func(val []byte) error {
				var snap model.Snapshot
				if err := json.Unmarshal(val, &snap); err != nil {
					return err
				}
				summaries = append(summaries, GameSummary{
					GameID:        snap.GameID,
					StatusMessage: snap.StatusMessage,
					GameOver:      snap.GameOver,
					Winner:        snap.Winner,
					Moves:         len(snap.MoveHistory),
					FinishedAt:    snap.FinishedAt,
				})
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})

	return summaries, err
}

// Stats aggregates finished-game results.
type Stats struct {
	GamesPlayed int `json:"games_played"`
	WhiteWins   int `json:"white_wins"`
	BlackWins   int `json:"black_wins"`
	Draws       int `json:"draws"`
}

// LoadStats returns the aggregate results, empty if nothing was recorded.
func (s *Store) LoadStats() (*Stats, error) {
	stats := &Stats{}

	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(keyStats))
		if err == badger.ErrKeyNotFound {
			return nil
		}
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, stats)
		})
	})

	return stats, err
}

// RecordResult folds a finished game into the aggregate stats. Unfinished
// games are rejected.
func (s *Store) RecordResult(snap model.Snapshot) error {
	if !snap.GameOver {
		return errors.New("game is not finished")
	}

	stats, err := s.LoadStats()
	if err != nil {
		return err
	}

	stats.GamesPlayed++
	switch {
	case snap.Winner == nil:
		stats.Draws++
	case *snap.Winner == model.White:
		stats.WhiteWins++
	default:
		stats.BlackWins++
	}

	data, err := json.Marshal(stats)
	if err != nil {
		return err
	}
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(keyStats), data)
	})
}
