package database

import (
	"github.com/eternalApril/moonmock/internal/storage"
)

// Del removes the keys and returns how many existed
func (s *Session) Del(keys ...string) (int64, error) {
	return exec(s, func(db storage.Storage) (int64, error) {
		var deleted int64
		for _, key := range keys {
			if db.Remove(key) {
				deleted++
			}
		}
		return deleted, nil
	})
}

// Exists counts how many of the keys exist. A key given twice counts twice
func (s *Session) Exists(keys ...string) (int64, error) {
	return exec(s, func(db storage.Storage) (int64, error) {
		var n int64
		for _, key := range keys {
			if db.Exists(key) {
				n++
			}
		}
		return n, nil
	})
}

// Type returns the type name of the value at key, or "none"
func (s *Session) Type(key string) (string, error) {
	return exec(s, func(db storage.Storage) (string, error) {
		e, ok := db.Get(key)
		if !ok {
			return "none", nil
		}
		return e.Type.String(), nil
	})
}

// Keys returns the keys of the selected database matching a glob pattern, sorted
func (s *Session) Keys(pattern string) ([]string, error) {
	return exec(s, func(db storage.Storage) ([]string, error) {
		return db.KeysMatching(pattern), nil
	})
}
