package storage

// Storage is a typed key-value mapping for a single database.
// None of the methods lock: callers hold Lock for the duration of one command
type Storage interface {
	// Lock acquires the exclusive per-database lock
	Lock()

	// Unlock releases the per-database lock
	Unlock()

	// Get returns the entity stored at key and true if the key is found
	Get(key string) (*Entity, bool)

	// Put stores the entity at key, replacing whatever was there
	Put(key string, e *Entity)

	// Remove deletes the key. Returns true if the key existed
	Remove(key string) bool

	// Exists reports whether the key holds a value
	Exists(key string) bool

	// Size returns the number of keys
	Size() int

	// KeysMatching returns the keys matching a glob pattern, sorted
	KeysMatching(pattern string) []string

	// Flush removes every key
	Flush()
}
