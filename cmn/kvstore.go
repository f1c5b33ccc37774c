package cmn

import (
	"github.com/pkg/errors"
	"github.com/tidwall/buntdb"
)

// KVStore is the opaque persisted key/value contract spec.md §1 names as an
// external collaborator ("get(k)/set(k,v)/remove(k)/clear()"). This module
// treats every value as a blob; callers own (de)serialization.
type KVStore interface {
	Get(key string) (value string, ok bool, err error)
	Set(key, value string) error
	Remove(key string) error
	Clear() error
}

// BuntKV is the default local KVStore, backed by an embedded buntdb
// database. It stands in for the browser extension's real settings/history
// store (spec §1 explicitly scopes that store's persistence mechanics out),
// giving the resumable store and fingerprint cache sweep something concrete
// to read and write in tests.
type BuntKV struct {
	db *buntdb.DB
}

// OpenBuntKV opens (creating if absent) a buntdb file at path. Pass ":memory:"
// for an ephemeral in-process store, which is what tests use.
func OpenBuntKV(path string) (*BuntKV, error) {
	db, err := buntdb.Open(path)
	if err != nil {
		return nil, StorageErrorf("open buntdb at %s: %v", path, err)
	}
	return &BuntKV{db: db}, nil
}

func (k *BuntKV) Get(key string) (string, bool, error) {
	var value string
	err := k.db.View(func(tx *buntdb.Tx) error {
		v, err := tx.Get(key)
		if err != nil {
			return err
		}
		value = v
		return nil
	})
	if errors.Is(err, buntdb.ErrNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, StorageErrorf("get %s: %v", key, err)
	}
	return value, true, nil
}

func (k *BuntKV) Set(key, value string) error {
	err := k.db.Update(func(tx *buntdb.Tx) error {
		_, _, err := tx.Set(key, value, nil)
		return err
	})
	if err != nil {
		return StorageErrorf("set %s: %v", key, err)
	}
	return nil
}

func (k *BuntKV) Remove(key string) error {
	err := k.db.Update(func(tx *buntdb.Tx) error {
		_, err := tx.Delete(key)
		if errors.Is(err, buntdb.ErrNotFound) {
			return nil
		}
		return err
	})
	if err != nil {
		return StorageErrorf("remove %s: %v", key, err)
	}
	return nil
}

func (k *BuntKV) Clear() error {
	if err := k.db.Update(func(tx *buntdb.Tx) error {
		return tx.DeleteAll()
	}); err != nil {
		return StorageErrorf("clear: %v", err)
	}
	return nil
}

func (k *BuntKV) Close() error { return k.db.Close() }

// MemKV is a trivial in-memory KVStore for unit tests that don't want a real
// buntdb file, grounded on the same interface as BuntKV so dedup/scheduler
// tests can swap either in.
type MemKV struct {
	data map[string]string
}

func NewMemKV() *MemKV { return &MemKV{data: make(map[string]string)} }

func (m *MemKV) Get(key string) (string, bool, error) {
	v, ok := m.data[key]
	return v, ok, nil
}

func (m *MemKV) Set(key, value string) error {
	m.data[key] = value
	return nil
}

func (m *MemKV) Remove(key string) error {
	delete(m.data, key)
	return nil
}

func (m *MemKV) Clear() error {
	m.data = make(map[string]string)
	return nil
}
