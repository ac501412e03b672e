package database

import (
	"math"
	"strconv"

	"github.com/eternalApril/moonmock/internal/storage"
)

// Set stores a string value. A key holding another type is not overwritten
func (s *Session) Set(key, value string) error {
	_, err := exec(s, func(db storage.Storage) (struct{}, error) {
		if _, err := getAs(db, key, storage.TypeString); err != nil {
			return struct{}{}, err
		}
		db.Put(key, storage.NewString([]byte(value)))
		return struct{}{}, nil
	})
	return err
}

// Get returns the string value at key and false if the key is absent
func (s *Session) Get(key string) (string, bool, error) {
	var found bool
	val, err := exec(s, func(db storage.Storage) (string, error) {
		e, err := getAs(db, key, storage.TypeString)
		if err != nil || e == nil {
			return "", err
		}
		found = true
		return string(e.Bytes()), nil
	})
	return val, found, err
}

func (s *Session) Incr(key string) (int64, error) {
	return s.IncrBy(key, 1)
}

func (s *Session) Decr(key string) (int64, error) {
	return s.IncrBy(key, -1)
}

func (s *Session) DecrBy(key string, delta int64) (int64, error) {
	if delta == math.MinInt64 {
		return 0, errOverflow
	}
	return s.IncrBy(key, -delta)
}

// IncrBy adds delta to the integer stored at key. A missing key counts as 0
func (s *Session) IncrBy(key string, delta int64) (int64, error) {
	return exec(s, func(db storage.Storage) (int64, error) {
		e, err := getAs(db, key, storage.TypeString)
		if err != nil {
			return 0, err
		}

		var cur int64
		if e != nil {
			cur, err = strconv.ParseInt(string(e.Bytes()), 10, 64)
			if err != nil {
				return 0, errNotInteger
			}
		}

		next, ok := addInt(cur, delta)
		if !ok {
			return 0, errOverflow
		}

		db.Put(key, storage.NewString(strconv.AppendInt(nil, next, 10)))
		return next, nil
	})
}

// addInt returns a+b and false if the sum overflows
func addInt(a, b int64) (int64, bool) {
	sum := a + b
	if (b > 0 && sum < a) || (b < 0 && sum > a) {
		return 0, false
	}
	return sum, true
}

// formatFloat renders a float the shortest way that reads back exactly: 6.5, 10, 0.1
func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
