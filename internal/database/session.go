package database

import (
	"sync/atomic"

	"github.com/eternalApril/moonmock/internal/storage"
	"go.uber.org/zap"
)

// CommandExecutor is the full command surface of the engine
type CommandExecutor interface {
	// strings
	Set(key, value string) error
	Get(key string) (string, bool, error)
	Incr(key string) (int64, error)
	IncrBy(key string, delta int64) (int64, error)
	Decr(key string) (int64, error)
	DecrBy(key string, delta int64) (int64, error)

	// generic
	Del(keys ...string) (int64, error)
	Exists(keys ...string) (int64, error)
	Type(key string) (string, error)
	Keys(pattern string) ([]string, error)
	Sort(key string, opts SortOptions) ([]string, error)
	SortStore(key, destination string, opts SortOptions) (int64, error)
	DBSize() (int64, error)
	FlushDB() error
	Select(index int) error
	Move(key string, index int) error

	// hashes
	HSet(key string, fieldValues ...string) (int64, error)
	HGet(key, field string) (string, bool, error)
	HDel(key string, fields ...string) (int64, error)
	HLen(key string) (int64, error)
	HKeys(key string) ([]string, error)
	HVals(key string) ([]string, error)
	HGetAll(key string) (map[string]string, error)
	HExists(key, field string) (bool, error)
	HIncrBy(key, field string, delta int64) (int64, error)
	HIncrByFloat(key, field string, delta float64) (float64, error)

	// sets
	SAdd(key string, members ...string) (int64, error)
	SRem(key string, members ...string) (int64, error)
	SMembers(key string) ([]string, error)
	SIsMember(key, member string) (bool, error)
	SCard(key string) (int64, error)

	// sorted sets
	ZAdd(key string, members ...Z) (int64, error)
	ZCount(key string, min, max float64) (int64, error)
	ZRangeByScore(key string, min, max float64) ([]string, error)
	ZRank(key, member string) (int64, bool, error)
	ZRemRangeByScore(key string, min, max float64) (int64, error)
	ZScore(key, member string) (float64, bool, error)
	ZCard(key string) (int64, error)

	// lists
	LPush(key string, values ...string) (int64, error)
	RPush(key string, values ...string) (int64, error)
	LPop(key string) (string, bool, error)
	LLen(key string) (int64, error)
	LRange(key string, start, stop int64) ([]string, error)
}

var _ CommandExecutor = (*Session)(nil)

// Session is a client context: the selected database plus access to the directory.
// A Session is safe for concurrent use
type Session struct {
	dir      *Directory
	selected atomic.Int64

	// databases already locked by an enclosing transaction
	held map[storage.Storage]struct{}
}

// Selected returns the index of the selected database
func (s *Session) Selected() int {
	return int(s.selected.Load())
}

// Select switches the session to another database
func (s *Session) Select(index int) error {
	if _, err := s.dir.db(index); err != nil {
		return err
	}
	s.selected.Store(int64(index))

	if s.dir.logger.Core().Enabled(zap.DebugLevel) {
		s.dir.logger.Debug("database selected", zap.Int("db", index))
	}
	return nil
}

// Move transfers key from the selected database to the database at index.
// Fails with ErrNotFound when the key is absent and ErrKeyConflict when the target has it
func (s *Session) Move(key string, index int) error {
	from := s.Selected()
	if from == index {
		return errSameDB
	}

	src, err := s.dir.db(from)
	if err != nil {
		return err
	}
	dst, err := s.dir.db(index)
	if err != nil {
		return err
	}

	// lower index first so that concurrent moves in opposite directions cannot deadlock
	if from < index {
		defer s.lock(src)()
		defer s.lock(dst)()
	} else {
		defer s.lock(dst)()
		defer s.lock(src)()
	}

	e, ok := src.Get(key)
	if !ok {
		return ErrNotFound
	}
	if dst.Exists(key) {
		return ErrKeyConflict
	}

	src.Remove(key)
	dst.Put(key, e)

	if s.dir.logger.Core().Enabled(zap.DebugLevel) {
		s.dir.logger.Debug("key moved",
			zap.String("key", key),
			zap.Int("from", from),
			zap.Int("to", index),
		)
	}

	return nil
}

// DBSize returns the number of keys in the selected database
func (s *Session) DBSize() (int64, error) {
	return exec(s, func(db storage.Storage) (int64, error) {
		return int64(db.Size()), nil
	})
}

// FlushDB removes every key of the selected database
func (s *Session) FlushDB() error {
	_, err := exec(s, func(db storage.Storage) (struct{}, error) {
		db.Flush()
		return struct{}{}, nil
	})
	if err == nil && s.dir.logger.Core().Enabled(zap.DebugLevel) {
		s.dir.logger.Debug("database flushed", zap.Int("db", s.Selected()))
	}
	return err
}

// lock takes the database lock unless an enclosing transaction holds it already.
// It returns the matching unlock
func (s *Session) lock(db storage.Storage) func() {
	if _, ok := s.held[db]; ok {
		return func() {}
	}
	db.Lock()
	return db.Unlock
}

// exec runs fn against the selected database while holding its lock
func exec[T any](s *Session, fn func(db storage.Storage) (T, error)) (T, error) {
	db, err := s.dir.db(s.Selected())
	if err != nil {
		var zero T
		return zero, err
	}
	defer s.lock(db)()

	return fn(db)
}

// getAs returns the entity at key if it has type t, nil if the key is absent,
// and ErrWrongType otherwise
func getAs(db storage.Storage, key string, t storage.DataType) (*storage.Entity, error) {
	e, ok := db.Get(key)
	if !ok {
		return nil, nil
	}
	if e.Type != t {
		return nil, ErrWrongType
	}
	return e, nil
}

// getOrInit returns the entity at key, creating an empty one of type t when absent.
// The new entity is not stored: callers Put it after adding elements
func getOrInit(db storage.Storage, key string, t storage.DataType, init func() *storage.Entity) (*storage.Entity, error) {
	e, err := getAs(db, key, t)
	if err != nil {
		return nil, err
	}
	if e == nil {
		e = init()
	}
	return e, nil
}
