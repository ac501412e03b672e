package database

import (
	"sort"

	"github.com/eternalApril/moonmock/internal/storage"
)

// SAdd adds members and returns how many were not already present
func (s *Session) SAdd(key string, members ...string) (int64, error) {
	return exec(s, func(db storage.Storage) (int64, error) {
		e, err := getOrInit(db, key, storage.TypeSet, storage.NewSet)
		if err != nil {
			return 0, err
		}

		set := e.Set()
		var added int64
		for _, m := range members {
			if _, ok := set[m]; !ok {
				set[m] = struct{}{}
				added++
			}
		}

		db.Put(key, e)
		return added, nil
	})
}

// SRem removes members and returns how many were present
func (s *Session) SRem(key string, members ...string) (int64, error) {
	return exec(s, func(db storage.Storage) (int64, error) {
		e, err := getAs(db, key, storage.TypeSet)
		if err != nil || e == nil {
			return 0, err
		}

		set := e.Set()
		var removed int64
		for _, m := range members {
			if _, ok := set[m]; ok {
				delete(set, m)
				removed++
			}
		}

		db.Put(key, e)
		return removed, nil
	})
}

// SMembers returns the members in lexical order
func (s *Session) SMembers(key string) ([]string, error) {
	return exec(s, func(db storage.Storage) ([]string, error) {
		e, err := getAs(db, key, storage.TypeSet)
		if err != nil {
			return nil, err
		}
		if e == nil {
			return []string{}, nil
		}
		return setMembers(e.Set()), nil
	})
}

func (s *Session) SIsMember(key, member string) (bool, error) {
	return exec(s, func(db storage.Storage) (bool, error) {
		e, err := getAs(db, key, storage.TypeSet)
		if err != nil || e == nil {
			return false, err
		}
		_, ok := e.Set()[member]
		return ok, nil
	})
}

func (s *Session) SCard(key string) (int64, error) {
	return exec(s, func(db storage.Storage) (int64, error) {
		e, err := getAs(db, key, storage.TypeSet)
		if err != nil || e == nil {
			return 0, err
		}
		return int64(len(e.Set())), nil
	})
}

func setMembers(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for m := range set {
		out = append(out, m)
	}
	sort.Strings(out)
	return out
}
