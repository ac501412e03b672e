package database

import (
	"math"

	"github.com/eternalApril/moonmock/internal/storage"
)

// Z is a sorted set member with its score
type Z = storage.Element

func getAsSortedSet(db storage.Storage, key string) (*storage.ZSet, error) {
	e, err := getAs(db, key, storage.TypeZSet)
	if err != nil || e == nil {
		return nil, err
	}
	return e.ZSet(), nil
}

// ZAdd adds members or updates their scores. Only newly created members are counted
func (s *Session) ZAdd(key string, members ...Z) (int64, error) {
	for _, m := range members {
		if math.IsNaN(m.Score) {
			return 0, errNotFloat
		}
	}

	return exec(s, func(db storage.Storage) (int64, error) {
		e, err := getOrInit(db, key, storage.TypeZSet, storage.NewZSet)
		if err != nil {
			return 0, err
		}

		zset := e.ZSet()
		var added int64
		for _, m := range members {
			if zset.Add(m.Member, m.Score) {
				added++
			}
		}

		db.Put(key, e)
		return added, nil
	})
}

// ZCount counts members with min <= score <= max
func (s *Session) ZCount(key string, min, max float64) (int64, error) {
	return exec(s, func(db storage.Storage) (int64, error) {
		zset, err := getAsSortedSet(db, key)
		if err != nil || zset == nil {
			return 0, err
		}
		return int64(zset.Count(min, max)), nil
	})
}

// ZRangeByScore returns members with min <= score <= max, by score then member
func (s *Session) ZRangeByScore(key string, min, max float64) ([]string, error) {
	return exec(s, func(db storage.Storage) ([]string, error) {
		zset, err := getAsSortedSet(db, key)
		if err != nil {
			return nil, err
		}
		if zset == nil {
			return []string{}, nil
		}

		els := zset.Range(min, max)
		out := make([]string, len(els))
		for i, el := range els {
			out[i] = el.Member
		}
		return out, nil
	})
}

// ZRank returns the zero-based ascending position of member and false if it is absent
func (s *Session) ZRank(key, member string) (int64, bool, error) {
	var found bool
	rank, err := exec(s, func(db storage.Storage) (int64, error) {
		zset, err := getAsSortedSet(db, key)
		if err != nil || zset == nil {
			return 0, err
		}
		r, ok := zset.Rank(member)
		found = ok
		return int64(r), nil
	})
	return rank, found, err
}

// ZRemRangeByScore removes members with min <= score <= max and returns how many
func (s *Session) ZRemRangeByScore(key string, min, max float64) (int64, error) {
	return exec(s, func(db storage.Storage) (int64, error) {
		e, err := getAs(db, key, storage.TypeZSet)
		if err != nil || e == nil {
			return 0, err
		}

		removed := e.ZSet().RemoveRange(min, max)
		db.Put(key, e)
		return int64(removed), nil
	})
}

func (s *Session) ZScore(key, member string) (float64, bool, error) {
	var found bool
	score, err := exec(s, func(db storage.Storage) (float64, error) {
		zset, err := getAsSortedSet(db, key)
		if err != nil || zset == nil {
			return 0, err
		}
		sc, ok := zset.Score(member)
		found = ok
		return sc, nil
	})
	return score, found, err
}

func (s *Session) ZCard(key string) (int64, error) {
	return exec(s, func(db storage.Storage) (int64, error) {
		zset, err := getAsSortedSet(db, key)
		if err != nil || zset == nil {
			return 0, err
		}
		return int64(zset.Len()), nil
	})
}
