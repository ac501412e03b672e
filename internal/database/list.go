package database

import (
	"github.com/eternalApril/moonmock/internal/storage"
)

// LPush inserts each value at the head in turn, so the last value ends up first.
// Returns the new length
func (s *Session) LPush(key string, values ...string) (int64, error) {
	return exec(s, func(db storage.Storage) (int64, error) {
		e, err := getAs(db, key, storage.TypeList)
		if err != nil {
			return 0, err
		}

		var old []string
		if e != nil {
			old = e.List()
		}

		list := make([]string, 0, len(values)+len(old))
		for i := len(values) - 1; i >= 0; i-- {
			list = append(list, values[i])
		}
		list = append(list, old...)

		db.Put(key, storage.NewList(list))
		return int64(len(list)), nil
	})
}

// RPush appends the values at the tail and returns the new length
func (s *Session) RPush(key string, values ...string) (int64, error) {
	return exec(s, func(db storage.Storage) (int64, error) {
		e, err := getAs(db, key, storage.TypeList)
		if err != nil {
			return 0, err
		}

		var list []string
		if e != nil {
			list = e.List()
		}
		list = append(list, values...)

		db.Put(key, storage.NewList(list))
		return int64(len(list)), nil
	})
}

// LPop removes and returns the head element, false if the list is empty
func (s *Session) LPop(key string) (string, bool, error) {
	var found bool
	val, err := exec(s, func(db storage.Storage) (string, error) {
		e, err := getAs(db, key, storage.TypeList)
		if err != nil || e == nil {
			return "", err
		}

		list := e.List()
		head := list[0]
		db.Put(key, storage.NewList(list[1:]))
		found = true
		return head, nil
	})
	return val, found, err
}

func (s *Session) LLen(key string) (int64, error) {
	return exec(s, func(db storage.Storage) (int64, error) {
		e, err := getAs(db, key, storage.TypeList)
		if err != nil || e == nil {
			return 0, err
		}
		return int64(len(e.List())), nil
	})
}

// LRange returns the elements between start and stop, both inclusive.
// Negative indexes count from the tail, out of range bounds are clamped
// and an empty span yields an empty slice
func (s *Session) LRange(key string, start, stop int64) ([]string, error) {
	return exec(s, func(db storage.Storage) ([]string, error) {
		e, err := getAs(db, key, storage.TypeList)
		if err != nil {
			return nil, err
		}
		if e == nil {
			return []string{}, nil
		}

		list := e.List()
		lo, hi, ok := clampRange(start, stop, int64(len(list)))
		if !ok {
			return []string{}, nil
		}

		out := make([]string, hi-lo+1)
		copy(out, list[lo:hi+1])
		return out, nil
	})
}

// clampRange resolves inclusive bounds against a sequence of length n
func clampRange(start, stop, n int64) (int64, int64, bool) {
	if start < 0 {
		start += n
	}
	if stop < 0 {
		stop += n
	}
	if start < 0 {
		start = 0
	}
	if stop >= n {
		stop = n - 1
	}
	if start > stop || start >= n {
		return 0, 0, false
	}
	return start, stop, true
}
