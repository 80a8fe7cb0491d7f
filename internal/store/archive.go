// Package store keeps finished split chess rounds in BadgerDB.
package store

import (
	"encoding/json"
	"fmt"

	"github.com/benbeisheim/splitchess-backend/internal/model"
	"github.com/dgraph-io/badger/v4"
	"github.com/pkg/errors"
)

var ErrNotFound = errors.New("record not found")

const keyPrefix = "game/"

// Archive wraps BadgerDB for finished game records.
type Archive struct {
	db *badger.DB
}

// Open opens the archive in dir. An empty dir keeps everything in memory.
func Open(dir string) (*Archive, error) {
	opts := badger.DefaultOptions(dir)
	if dir == "" {
		opts = opts.WithInMemory(true)
	}
	opts.Logger = nil // Disable logging

	db, err := badger.Open(opts)
	if err != nil {
		return nil, errors.Wrap(err, "open archive")
	}
	return &Archive{db: db}, nil
}

// Close closes the database
func (a *Archive) Close() error {
	if a.db != nil {
		return a.db.Close()
	}
	return nil
}

func gamePrefix(gameID string) []byte {
	return []byte(keyPrefix + gameID + "/")
}

// recordKey sorts rounds numerically within a game.
func recordKey(gameID string, round int) []byte {
	return []byte(fmt.Sprintf("%s%s/%06d", keyPrefix, gameID, round))
}

// Save stores a record, replacing any earlier record of the same round.
func (a *Archive) Save(record model.GameRecord) error {
	data, err := json.Marshal(record)
	if err != nil {
		return errors.Wrap(err, "marshal record")
	}

	err = a.db.Update(func(txn *badger.Txn) error {
		return txn.Set(recordKey(record.GameID, record.Round), data)
	})
	return errors.Wrapf(err, "save %s round %d", record.GameID, record.Round)
}

// Get loads one round of a game.
func (a *Archive) Get(gameID string, round int) (model.GameRecord, error) {
	var record model.GameRecord

	err := a.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(recordKey(gameID, round))
		if err == badger.ErrKeyNotFound {
			return ErrNotFound
		}
		if err != nil {
			return err
		}

		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &record)
		})
	})
	if err != nil {
		return model.GameRecord{}, errors.Wrapf(err, "get %s round %d", gameID, round)
	}
	return record, nil
}

// List returns every finished round of a game, oldest first.
func (a *Archive) List(gameID string) ([]model.GameRecord, error) {
	records := []model.GameRecord{}
	prefix := gamePrefix(gameID)

	err := a.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			var record model.GameRecord
			err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &record)
			})
			if err != nil {
				return err
			}
			records = append(records, record)
		}
		return nil
	})
	if err != nil {
		return nil, errors.Wrapf(err, "list %s", gameID)
	}
	return records, nil
}
