package database

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDo(t *testing.T) {
	s := newSession(t)

	tests := []struct {
		name    string
		cmd     string
		args    []string
		want    any
		wantErr error
	}{
		{"set", "set", []string{"k", "v"}, OK, nil},
		{"get", "GET", []string{"k"}, "v", nil},
		{"get missing", "get", []string{"missing"}, nil, nil},
		{"type", "type", []string{"k"}, Status("string"), nil},
		{"incr on text", "incr", []string{"k"}, nil, ErrInvalidArgument},
		{"incrby", "incrby", []string{"n", "5"}, int64(5), nil},
		{"incrby bad delta", "incrby", []string{"n", "five"}, nil, ErrInvalidArgument},
		{"hset", "hset", []string{"h", "a", "1", "b", "2"}, int64(2), nil},
		{"hset odd", "hset", []string{"h", "a", "1", "b"}, nil, ErrInvalidArgument},
		{"hgetall", "hgetall", []string{"h"}, map[string]string{"a": "1", "b": "2"}, nil},
		{"hexists", "hexists", []string{"h", "a"}, int64(1), nil},
		{"hincrbyfloat", "hincrbyfloat", []string{"h", "a", "0.5"}, "1.5", nil},
		{"hget wrong type", "hget", []string{"k", "a"}, nil, ErrWrongType},
		{"sadd", "sadd", []string{"s", "b", "a", "b"}, int64(2), nil},
		{"smembers", "smembers", []string{"s"}, []string{"a", "b"}, nil},
		{"sismember", "sismember", []string{"s", "c"}, int64(0), nil},
		{"zadd", "zadd", []string{"z", "1", "a", "2", "b"}, int64(2), nil},
		{"zadd odd", "zadd", []string{"z", "1", "a", "2"}, nil, ErrInvalidArgument},
		{"zadd bad score", "zadd", []string{"z", "one", "a"}, nil, ErrInvalidArgument},
		{"zscore", "zscore", []string{"z", "b"}, "2", nil},
		{"zrank", "zrank", []string{"z", "b"}, int64(1), nil},
		{"zrank missing", "zrank", []string{"z", "x"}, nil, nil},
		{"zcount exclusive", "zcount", []string{"z", "(1", "+inf"}, int64(1), nil},
		{"zrangebyscore", "zrangebyscore", []string{"z", "-inf", "+inf"}, []string{"a", "b"}, nil},
		{"zcount bad bound", "zcount", []string{"z", "low", "2"}, nil, ErrInvalidArgument},
		{"rpush", "rpush", []string{"l", "3", "1", "2"}, int64(3), nil},
		{"lrange", "lrange", []string{"l", "0", "-1"}, []string{"3", "1", "2"}, nil},
		{"sort", "sort", []string{"l"}, []string{"1", "2", "3"}, nil},
		{"sort options", "sort", []string{"l", "limit", "0", "2", "desc"}, []string{"3", "2"}, nil},
		{"sort store", "sort", []string{"l", "STORE", "sorted"}, int64(3), nil},
		{"sort bad option", "sort", []string{"l", "BY", "x"}, nil, ErrInvalidArgument},
		{"lpop", "lpop", []string{"sorted"}, "1", nil},
		{"move", "move", []string{"k", "1"}, int64(1), nil},
		{"move missing", "move", []string{"k", "1"}, nil, ErrNotFound},
		{"dbsize", "dbsize", nil, int64(6), nil},
		{"keys", "keys", []string{"s*"}, []string{"s", "sorted"}, nil},
		{"select", "select", []string{"1"}, OK, nil},
		{"select bad index", "select", []string{"-1"}, nil, ErrInvalidArgument},
		{"get moved", "get", []string{"k"}, "v", nil},
		{"del", "del", []string{"k", "other"}, int64(1), nil},
		{"exists", "exists", []string{"k"}, int64(0), nil},
		{"flushdb", "flushdb", nil, OK, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := s.Do(tt.cmd, tt.args...)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, got)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDoValidation(t *testing.T) {
	s := newSession(t)

	_, err := s.Do("NOSUCH", "a")
	assert.ErrorIs(t, err, ErrInvalidArgument)
	assert.EqualError(t, err, "ERR unknown command 'nosuch'")

	tests := []struct {
		cmd  string
		args []string
	}{
		{"GET", nil},
		{"GET", []string{"a", "b"}},
		{"SET", []string{"a"}},
		{"DEL", nil},
		{"HSET", []string{"h", "f"}},
		{"ZADD", []string{"z", "1"}},
		{"LRANGE", []string{"l", "0"}},
		{"DBSIZE", []string{"extra"}},
	}

	for _, tt := range tests {
		t.Run(tt.cmd, func(t *testing.T) {
			_, err := s.Do(tt.cmd, tt.args...)
			assert.ErrorIs(t, err, ErrInvalidArgument)
			assert.Contains(t, err.Error(), "wrong number of arguments")
		})
	}
}

func TestLookup(t *testing.T) {
	arity, write, ok := Lookup("hset")
	assert.True(t, ok)
	assert.Equal(t, -4, arity)
	assert.True(t, write)

	arity, write, ok = Lookup("GET")
	assert.True(t, ok)
	assert.Equal(t, 2, arity)
	assert.False(t, write)

	_, _, ok = Lookup("MULTI")
	assert.False(t, ok)

	assert.Contains(t, Commands(), "ZREMRANGEBYSCORE")
}

func TestParseScoreRange(t *testing.T) {
	tests := []struct {
		min, max         string
		wantMin, wantMax float64
		expectErr        bool
	}{
		{"1", "2", 1, 2, false},
		{"-inf", "+inf", math.Inf(-1), math.Inf(1), false},
		{"(1", "(2", math.Nextafter(1, 2), math.Nextafter(2, 1), false},
		{"a", "2", 0, 0, true},
		{"1", "nan", 0, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.min+" "+tt.max, func(t *testing.T) {
			min, max, err := parseScoreRange(tt.min, tt.max)
			if tt.expectErr {
				assert.ErrorIs(t, err, ErrInvalidArgument)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantMin, min)
			assert.Equal(t, tt.wantMax, max)
		})
	}
}

func TestParseSortArgs(t *testing.T) {
	opts, dest, err := parseSortArgs([]string{"LIMIT", "1", "-1", "alpha", "DESC", "store", "out"})
	require.NoError(t, err)
	assert.Equal(t, "out", dest)
	assert.True(t, opts.Alpha)
	assert.True(t, opts.Desc)
	assert.Equal(t, &Limit{Offset: 1, Count: -1}, opts.Limit)

	_, _, err = parseSortArgs([]string{"LIMIT", "1"})
	assert.ErrorIs(t, err, ErrInvalidArgument)

	_, _, err = parseSortArgs([]string{"STORE"})
	assert.ErrorIs(t, err, ErrInvalidArgument)
}
