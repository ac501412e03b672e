package database

import (
	"errors"
	"sync"

	"github.com/eternalApril/moonmock/internal/storage"
	"go.uber.org/zap"
)

const defaultDatabases = 16

// Directory owns the numbered databases. It is read-mostly: only a dynamic
// directory grows, and only when a session selects an index beyond its size
type Directory struct {
	mu      sync.RWMutex
	dbs     []storage.Storage
	dynamic bool
	logger  *zap.Logger
}

// Option configures a Directory
type Option func(*Directory) error

// WithDatabases sets the number of databases created up front
func WithDatabases(n int) Option {
	return func(d *Directory) error {
		if n <= 0 {
			return errors.New("number of databases must be positive")
		}
		d.dbs = make([]storage.Storage, n)
		return nil
	}
}

// WithDynamic makes SELECT and MOVE create missing databases instead of failing
func WithDynamic(dynamic bool) Option {
	return func(d *Directory) error {
		d.dynamic = dynamic
		return nil
	}
}

// WithLogger sets the logger used for database level events
func WithLogger(logger *zap.Logger) Option {
	return func(d *Directory) error {
		if logger != nil {
			d.logger = logger
		}
		return nil
	}
}

// NewDirectory creates a directory with 16 empty databases unless configured otherwise
func NewDirectory(opts ...Option) (*Directory, error) {
	d := &Directory{
		dbs:    make([]storage.Storage, defaultDatabases),
		logger: zap.NewNop(),
	}

	for _, opt := range opts {
		if err := opt(d); err != nil {
			return nil, err
		}
	}

	for i := range d.dbs {
		d.dbs[i] = storage.NewMapStorage()
	}

	return d, nil
}

// Len returns the current number of databases
func (d *Directory) Len() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.dbs)
}

// NewSession returns a session with database 0 selected
func (d *Directory) NewSession() *Session {
	return &Session{dir: d}
}

// db returns the database at index, creating it when the directory is dynamic
func (d *Directory) db(index int) (storage.Storage, error) {
	if index < 0 {
		return nil, errDBIndex
	}

	d.mu.RLock()
	if index < len(d.dbs) {
		db := d.dbs[index]
		d.mu.RUnlock()
		return db, nil
	}
	d.mu.RUnlock()

	if !d.dynamic {
		return nil, errDBIndex
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	// checking again, another session may have grown the directory while waiting for the lock
	grown := false
	for len(d.dbs) <= index {
		d.dbs = append(d.dbs, storage.NewMapStorage())
		grown = true
	}
	if grown && d.logger.Core().Enabled(zap.DebugLevel) {
		d.logger.Debug("databases grown", zap.Int("count", len(d.dbs)))
	}

	return d.dbs[index], nil
}

// snapshot returns the databases that exist right now in index order
func (d *Directory) snapshot() []storage.Storage {
	d.mu.RLock()
	defer d.mu.RUnlock()

	dbs := make([]storage.Storage, len(d.dbs))
	copy(dbs, d.dbs)
	return dbs
}
