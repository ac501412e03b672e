package database

import (
	"math"
	"sort"
	"strconv"

	"github.com/eternalApril/moonmock/internal/storage"
)

func getAsHash(db storage.Storage, key string) (map[string]string, error) {
	e, err := getAs(db, key, storage.TypeHash)
	if err != nil || e == nil {
		return nil, err
	}
	return e.Hash(), nil
}

// HSet sets field/value pairs and returns the number of fields that were created
func (s *Session) HSet(key string, fieldValues ...string) (int64, error) {
	if len(fieldValues) == 0 || len(fieldValues)%2 != 0 {
		return 0, errWrongArgs("hset")
	}

	return exec(s, func(db storage.Storage) (int64, error) {
		e, err := getOrInit(db, key, storage.TypeHash, storage.NewHash)
		if err != nil {
			return 0, err
		}

		hash := e.Hash()
		var created int64
		for i := 0; i < len(fieldValues); i += 2 {
			if _, ok := hash[fieldValues[i]]; !ok {
				created++
			}
			hash[fieldValues[i]] = fieldValues[i+1]
		}

		db.Put(key, e)
		return created, nil
	})
}

// HGet returns the value of field and false if the key or field is absent
func (s *Session) HGet(key, field string) (string, bool, error) {
	var found bool
	val, err := exec(s, func(db storage.Storage) (string, error) {
		hash, err := getAsHash(db, key)
		if err != nil {
			return "", err
		}
		v, ok := hash[field]
		found = ok
		return v, nil
	})
	return val, found, err
}

// HDel removes fields and returns how many existed
func (s *Session) HDel(key string, fields ...string) (int64, error) {
	return exec(s, func(db storage.Storage) (int64, error) {
		e, err := getAs(db, key, storage.TypeHash)
		if err != nil || e == nil {
			return 0, err
		}

		hash := e.Hash()
		var deleted int64
		for _, f := range fields {
			if _, ok := hash[f]; ok {
				delete(hash, f)
				deleted++
			}
		}

		db.Put(key, e)
		return deleted, nil
	})
}

func (s *Session) HLen(key string) (int64, error) {
	return exec(s, func(db storage.Storage) (int64, error) {
		hash, err := getAsHash(db, key)
		return int64(len(hash)), err
	})
}

// HKeys returns the field names in lexical order
func (s *Session) HKeys(key string) ([]string, error) {
	return exec(s, func(db storage.Storage) ([]string, error) {
		hash, err := getAsHash(db, key)
		if err != nil {
			return nil, err
		}
		return sortedFields(hash), nil
	})
}

// HVals returns the values ordered by their field names
func (s *Session) HVals(key string) ([]string, error) {
	return exec(s, func(db storage.Storage) ([]string, error) {
		hash, err := getAsHash(db, key)
		if err != nil {
			return nil, err
		}

		fields := sortedFields(hash)
		vals := make([]string, len(fields))
		for i, f := range fields {
			vals[i] = hash[f]
		}
		return vals, nil
	})
}

// HGetAll returns a copy of the whole hash
func (s *Session) HGetAll(key string) (map[string]string, error) {
	return exec(s, func(db storage.Storage) (map[string]string, error) {
		hash, err := getAsHash(db, key)
		if err != nil {
			return nil, err
		}

		out := make(map[string]string, len(hash))
		for f, v := range hash {
			out[f] = v
		}
		return out, nil
	})
}

func (s *Session) HExists(key, field string) (bool, error) {
	return exec(s, func(db storage.Storage) (bool, error) {
		hash, err := getAsHash(db, key)
		if err != nil {
			return false, err
		}
		_, ok := hash[field]
		return ok, nil
	})
}

// HIncrBy adds delta to the integer in field. A missing field counts as 0
func (s *Session) HIncrBy(key, field string, delta int64) (int64, error) {
	return exec(s, func(db storage.Storage) (int64, error) {
		e, err := getOrInit(db, key, storage.TypeHash, storage.NewHash)
		if err != nil {
			return 0, err
		}

		hash := e.Hash()
		var cur int64
		if v, ok := hash[field]; ok {
			cur, err = strconv.ParseInt(v, 10, 64)
			if err != nil {
				return 0, errHashNotInteger
			}
		}

		next, ok := addInt(cur, delta)
		if !ok {
			return 0, errOverflow
		}

		hash[field] = strconv.FormatInt(next, 10)
		db.Put(key, e)
		return next, nil
	})
}

// HIncrByFloat adds delta to the number in field and stores it in its shortest form
func (s *Session) HIncrByFloat(key, field string, delta float64) (float64, error) {
	if math.IsNaN(delta) || math.IsInf(delta, 0) {
		return 0, errNotFloat
	}

	return exec(s, func(db storage.Storage) (float64, error) {
		e, err := getOrInit(db, key, storage.TypeHash, storage.NewHash)
		if err != nil {
			return 0, err
		}

		hash := e.Hash()
		var cur float64
		if v, ok := hash[field]; ok {
			cur, err = strconv.ParseFloat(v, 64)
			if err != nil || math.IsNaN(cur) || math.IsInf(cur, 0) {
				return 0, errHashNotFloat
			}
		}

		next := cur + delta
		if math.IsNaN(next) || math.IsInf(next, 0) {
			return 0, errNaN
		}

		hash[field] = formatFloat(next)
		db.Put(key, e)
		return next, nil
	})
}

func sortedFields(hash map[string]string) []string {
	fields := make([]string, 0, len(hash))
	for f := range hash {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	return fields
}
