package database

import (
	"math"
	"strconv"
	"strings"
)

// Status is a simple status reply such as OK
type Status string

const OK Status = "OK"

type execFunc func(s *Session, args []string) (any, error)

type command struct {
	exec  execFunc
	arity int // includes the command name, negative means at least -arity
	write bool
}

var commandTable = make(map[string]*command)

func register(name string, arity int, write bool, exec execFunc) {
	commandTable[strings.ToUpper(name)] = &command{exec: exec, arity: arity, write: write}
}

// Lookup reports the arity and write flag of a command
func Lookup(name string) (arity int, write bool, ok bool) {
	cmd, ok := commandTable[strings.ToUpper(name)]
	if !ok {
		return 0, false, false
	}
	return cmd.arity, cmd.write, true
}

// Commands returns the names of every registered command
func Commands() []string {
	names := make([]string, 0, len(commandTable))
	for name := range commandTable {
		names = append(names, name)
	}
	return names
}

// Do runs a command given by name with string arguments. Results are
// Status, string, int64, []string, map[string]string, or nil for "no value" and errors
func (s *Session) Do(name string, args ...string) (any, error) {
	name = strings.ToUpper(name)
	if err := validate(name, args); err != nil {
		return nil, err
	}
	res, err := commandTable[name].exec(s, args)
	if err != nil {
		return nil, err
	}
	return res, nil
}

// validate checks that the command exists and receives a valid number of arguments
func validate(name string, args []string) error {
	cmd, ok := commandTable[name]
	if !ok {
		return errUnknownCommand(strings.ToLower(name))
	}

	n := len(args) + 1
	if (cmd.arity > 0 && n != cmd.arity) || (cmd.arity < 0 && n < -cmd.arity) {
		return errWrongArgs(strings.ToLower(name))
	}
	return nil
}

func init() {
	// strings
	register("SET", 3, true, func(s *Session, args []string) (any, error) {
		return status(s.Set(args[0], args[1]))
	})
	register("GET", 2, false, func(s *Session, args []string) (any, error) {
		return optional(s.Get(args[0]))
	})
	register("INCR", 2, true, func(s *Session, args []string) (any, error) {
		return s.Incr(args[0])
	})
	register("DECR", 2, true, func(s *Session, args []string) (any, error) {
		return s.Decr(args[0])
	})
	register("INCRBY", 3, true, func(s *Session, args []string) (any, error) {
		delta, err := parseInt(args[1])
		if err != nil {
			return nil, err
		}
		return s.IncrBy(args[0], delta)
	})
	register("DECRBY", 3, true, func(s *Session, args []string) (any, error) {
		delta, err := parseInt(args[1])
		if err != nil {
			return nil, err
		}
		return s.DecrBy(args[0], delta)
	})

	// generic
	register("DEL", -2, true, func(s *Session, args []string) (any, error) {
		return s.Del(args...)
	})
	register("EXISTS", -2, false, func(s *Session, args []string) (any, error) {
		return s.Exists(args...)
	})
	register("TYPE", 2, false, func(s *Session, args []string) (any, error) {
		t, err := s.Type(args[0])
		return Status(t), err
	})
	register("KEYS", 2, false, func(s *Session, args []string) (any, error) {
		return s.Keys(args[0])
	})
	register("DBSIZE", 1, false, func(s *Session, _ []string) (any, error) {
		return s.DBSize()
	})
	register("FLUSHDB", 1, true, func(s *Session, _ []string) (any, error) {
		return status(s.FlushDB())
	})
	register("SELECT", 2, false, func(s *Session, args []string) (any, error) {
		index, err := parseIndex(args[0])
		if err != nil {
			return nil, err
		}
		return status(s.Select(index))
	})
	register("MOVE", 3, true, func(s *Session, args []string) (any, error) {
		index, err := parseIndex(args[1])
		if err != nil {
			return nil, err
		}
		if err := s.Move(args[0], index); err != nil {
			return nil, err
		}
		return int64(1), nil
	})
	register("SORT", -2, true, func(s *Session, args []string) (any, error) {
		opts, dest, err := parseSortArgs(args[1:])
		if err != nil {
			return nil, err
		}
		if dest != "" {
			return s.SortStore(args[0], dest, opts)
		}
		return s.Sort(args[0], opts)
	})

	// hashes
	register("HSET", -4, true, func(s *Session, args []string) (any, error) {
		return s.HSet(args[0], args[1:]...)
	})
	register("HGET", 3, false, func(s *Session, args []string) (any, error) {
		return optional(s.HGet(args[0], args[1]))
	})
	register("HDEL", -3, true, func(s *Session, args []string) (any, error) {
		return s.HDel(args[0], args[1:]...)
	})
	register("HLEN", 2, false, func(s *Session, args []string) (any, error) {
		return s.HLen(args[0])
	})
	register("HKEYS", 2, false, func(s *Session, args []string) (any, error) {
		return s.HKeys(args[0])
	})
	register("HVALS", 2, false, func(s *Session, args []string) (any, error) {
		return s.HVals(args[0])
	})
	register("HGETALL", 2, false, func(s *Session, args []string) (any, error) {
		return s.HGetAll(args[0])
	})
	register("HEXISTS", 3, false, func(s *Session, args []string) (any, error) {
		return boolean(s.HExists(args[0], args[1]))
	})
	register("HINCRBY", 4, true, func(s *Session, args []string) (any, error) {
		delta, err := parseInt(args[2])
		if err != nil {
			return nil, err
		}
		return s.HIncrBy(args[0], args[1], delta)
	})
	register("HINCRBYFLOAT", 4, true, func(s *Session, args []string) (any, error) {
		delta, err := parseFloat(args[2])
		if err != nil {
			return nil, err
		}
		f, err := s.HIncrByFloat(args[0], args[1], delta)
		if err != nil {
			return nil, err
		}
		return formatFloat(f), nil
	})

	// sets
	register("SADD", -3, true, func(s *Session, args []string) (any, error) {
		return s.SAdd(args[0], args[1:]...)
	})
	register("SREM", -3, true, func(s *Session, args []string) (any, error) {
		return s.SRem(args[0], args[1:]...)
	})
	register("SMEMBERS", 2, false, func(s *Session, args []string) (any, error) {
		return s.SMembers(args[0])
	})
	register("SISMEMBER", 3, false, func(s *Session, args []string) (any, error) {
		return boolean(s.SIsMember(args[0], args[1]))
	})
	register("SCARD", 2, false, func(s *Session, args []string) (any, error) {
		return s.SCard(args[0])
	})

	// sorted sets
	register("ZADD", -4, true, func(s *Session, args []string) (any, error) {
		if len(args)%2 != 1 {
			return nil, errSyntax
		}
		members := make([]Z, 0, len(args)/2)
		for i := 1; i < len(args); i += 2 {
			score, err := parseFloat(args[i])
			if err != nil {
				return nil, err
			}
			members = append(members, Z{Member: args[i+1], Score: score})
		}
		return s.ZAdd(args[0], members...)
	})
	register("ZCOUNT", 4, false, func(s *Session, args []string) (any, error) {
		min, max, err := parseScoreRange(args[1], args[2])
		if err != nil {
			return nil, err
		}
		return s.ZCount(args[0], min, max)
	})
	register("ZRANGEBYSCORE", 4, false, func(s *Session, args []string) (any, error) {
		min, max, err := parseScoreRange(args[1], args[2])
		if err != nil {
			return nil, err
		}
		return s.ZRangeByScore(args[0], min, max)
	})
	register("ZREMRANGEBYSCORE", 4, true, func(s *Session, args []string) (any, error) {
		min, max, err := parseScoreRange(args[1], args[2])
		if err != nil {
			return nil, err
		}
		return s.ZRemRangeByScore(args[0], min, max)
	})
	register("ZRANK", 3, false, func(s *Session, args []string) (any, error) {
		rank, ok, err := s.ZRank(args[0], args[1])
		if err != nil || !ok {
			return nil, err
		}
		return rank, nil
	})
	register("ZSCORE", 3, false, func(s *Session, args []string) (any, error) {
		score, ok, err := s.ZScore(args[0], args[1])
		if err != nil || !ok {
			return nil, err
		}
		return formatFloat(score), nil
	})
	register("ZCARD", 2, false, func(s *Session, args []string) (any, error) {
		return s.ZCard(args[0])
	})

	// lists
	register("LPUSH", -3, true, func(s *Session, args []string) (any, error) {
		return s.LPush(args[0], args[1:]...)
	})
	register("RPUSH", -3, true, func(s *Session, args []string) (any, error) {
		return s.RPush(args[0], args[1:]...)
	})
	register("LPOP", 2, true, func(s *Session, args []string) (any, error) {
		return optional(s.LPop(args[0]))
	})
	register("LLEN", 2, false, func(s *Session, args []string) (any, error) {
		return s.LLen(args[0])
	})
	register("LRANGE", 4, false, func(s *Session, args []string) (any, error) {
		start, err := parseInt(args[1])
		if err != nil {
			return nil, err
		}
		stop, err := parseInt(args[2])
		if err != nil {
			return nil, err
		}
		return s.LRange(args[0], start, stop)
	})
}

func status(err error) (any, error) {
	if err != nil {
		return nil, err
	}
	return OK, nil
}

// optional turns a (value, found) pair into the value or nil
func optional(v string, found bool, err error) (any, error) {
	if err != nil || !found {
		return nil, err
	}
	return v, nil
}

func boolean(b bool, err error) (any, error) {
	if err != nil {
		return nil, err
	}
	if b {
		return int64(1), nil
	}
	return int64(0), nil
}

func parseInt(s string) (int64, error) {
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, errNotInteger
	}
	return n, nil
}

func parseFloat(s string) (float64, error) {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) {
		return 0, errNotFloat
	}
	return f, nil
}

func parseIndex(s string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, errNotInteger
	}
	if n < 0 {
		return 0, errDBIndex
	}
	return n, nil
}

// parseScoreRange parses min and max bounds. A leading '(' makes a bound exclusive,
// which is expressed as the next representable float inside the range
func parseScoreRange(minArg, maxArg string) (float64, float64, error) {
	min, err := parseBound(minArg, math.Inf(1))
	if err != nil {
		return 0, 0, err
	}
	max, err := parseBound(maxArg, math.Inf(-1))
	if err != nil {
		return 0, 0, err
	}
	return min, max, nil
}

func parseBound(arg string, towards float64) (float64, error) {
	exclusive := strings.HasPrefix(arg, "(")
	if exclusive {
		arg = arg[1:]
	}

	f, err := strconv.ParseFloat(arg, 64)
	if err != nil || math.IsNaN(f) {
		return 0, newError(InvalidArgument, "ERR min or max is not a float")
	}
	if exclusive {
		f = math.Nextafter(f, towards)
	}
	return f, nil
}

// parseSortArgs parses [LIMIT offset count] [ASC|DESC] [ALPHA] [STORE destination]
func parseSortArgs(args []string) (SortOptions, string, error) {
	var opts SortOptions
	var dest string

	for i := 0; i < len(args); i++ {
		switch strings.ToUpper(args[i]) {
		case "ASC":
			opts.Desc = false
		case "DESC":
			opts.Desc = true
		case "ALPHA":
			opts.Alpha = true
		case "LIMIT":
			if i+2 >= len(args) {
				return opts, "", errSyntax
			}
			offset, err := parseInt(args[i+1])
			if err != nil {
				return opts, "", err
			}
			count, err := parseInt(args[i+2])
			if err != nil {
				return opts, "", err
			}
			opts.Limit = &Limit{Offset: offset, Count: count}
			i += 2
		case "STORE":
			if i+1 >= len(args) {
				return opts, "", errSyntax
			}
			dest = args[i+1]
			i++
		default:
			return opts, "", errSyntax
		}
	}

	return opts, dest, nil
}
