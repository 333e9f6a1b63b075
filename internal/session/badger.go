package session

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/dgraph-io/badger/v4"
)

// BadgerStore is the durable Store implementation, backed by an embedded
// BadgerDB so session state survives process restarts.
type BadgerStore struct {
	db        *badger.DB
	namespace string
}

// OpenBadgerStore opens (or creates) the store at path. The namespace
// prefixes every key so unrelated data can share the database.
func OpenBadgerStore(path, namespace string) (*BadgerStore, error) {
	opts := badger.DefaultOptions(path).WithLogger(nil)
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open session store: %w", err)
	}
	return &BadgerStore{db: db, namespace: namespace}, nil
}

// NewBadgerStore wraps an already-open database, for callers that share
// one BadgerDB across concerns.
func NewBadgerStore(db *badger.DB, namespace string) *BadgerStore {
	return &BadgerStore{db: db, namespace: namespace}
}

func (s *BadgerStore) key(k string) []byte {
	return []byte(s.namespace + ":" + k)
}

func (s *BadgerStore) GetString(key string) (string, error) {
	var value string
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(s.key(key))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			value = string(val)
			return nil
		})
	})
	if err != nil {
		return "", fmt.Errorf("get %s: %w", key, err)
	}
	return value, nil
}

func (s *BadgerStore) SetString(key, value string) error {
	err := s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(s.key(key), []byte(value))
	})
	if err != nil {
		return fmt.Errorf("set %s: %w", key, err)
	}
	return nil
}

func (s *BadgerStore) GetInt64(key string) (int64, error) {
	raw, err := s.GetString(key)
	if err != nil {
		return 0, err
	}
	if raw == "" {
		return 0, nil
	}
	value, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("parse %s: %w", key, err)
	}
	return value, nil
}

func (s *BadgerStore) SetInt64(key string, value int64) error {
	return s.SetString(key, strconv.FormatInt(value, 10))
}

func (s *BadgerStore) Close() error {
	return s.db.Close()
}
