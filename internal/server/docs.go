package server

import (
	"sort"
	"strings"

	"github.com/eternalApril/moonmock/internal/database"
	"github.com/eternalApril/moonmock/internal/resp"
)

// commandMetadata describes a command for COMMAND. Database commands take
// their arity and write flag from the database command table
type commandMetadata struct {
	arity    int      // Arity includes the command name itself
	flags    []string // readonly, fast, denyoom, etc
	firstKey int      // 1-based index of the first key
	lastKey  int      // 1-based index of the last key
	step     int      // Step count for finding keys
}

var (
	flagsReadFast  = []string{"readonly", "fast"}
	flagsRead      = []string{"readonly"}
	flagsWriteFast = []string{"denyoom", "fast"}
	flagsFast      = []string{"fast"}

	commandRegistry = map[string]commandMetadata{
		// connection
		"PING":    {-1, []string{"fast", "stale"}, 0, 0, 0},
		"ECHO":    {2, []string{"fast"}, 0, 0, 0},
		"QUIT":    {-1, []string{"fast"}, 0, 0, 0},
		"SELECT":  {2, []string{"loading", "fast"}, 0, 0, 0},
		"COMMAND": {-1, []string{"random", "loading", "stale"}, 0, 0, 0},

		// transactions
		"MULTI":   {1, []string{"noscript", "fast"}, 0, 0, 0},
		"EXEC":    {1, []string{"noscript", "skip_slowlog"}, 0, 0, 0},
		"DISCARD": {1, []string{"noscript", "fast"}, 0, 0, 0},

		// strings
		"GET":    {0, flagsReadFast, 1, 1, 1},
		"SET":    {0, []string{"denyoom"}, 1, 1, 1},
		"INCR":   {0, flagsWriteFast, 1, 1, 1},
		"INCRBY": {0, flagsWriteFast, 1, 1, 1},
		"DECR":   {0, flagsWriteFast, 1, 1, 1},
		"DECRBY": {0, flagsWriteFast, 1, 1, 1},

		// generic
		"DEL":     {0, nil, 1, -1, 1},
		"EXISTS":  {0, flagsReadFast, 1, -1, 1},
		"TYPE":    {0, flagsReadFast, 1, 1, 1},
		"KEYS":    {0, []string{"readonly", "sort_for_script"}, 0, 0, 0},
		"DBSIZE":  {0, flagsReadFast, 0, 0, 0},
		"FLUSHDB": {0, nil, 0, 0, 0},
		"MOVE":    {0, flagsFast, 1, 1, 1},
		"SORT":    {0, []string{"denyoom"}, 1, 1, 1},

		// hashes
		"HSET":         {0, flagsWriteFast, 1, 1, 1},
		"HGET":         {0, flagsReadFast, 1, 1, 1},
		"HDEL":         {0, flagsFast, 1, 1, 1},
		"HLEN":         {0, flagsReadFast, 1, 1, 1},
		"HKEYS":        {0, []string{"readonly", "sort_for_script"}, 1, 1, 1},
		"HVALS":        {0, []string{"readonly", "sort_for_script"}, 1, 1, 1},
		"HGETALL":      {0, flagsRead, 1, 1, 1},
		"HEXISTS":      {0, flagsReadFast, 1, 1, 1},
		"HINCRBY":      {0, flagsWriteFast, 1, 1, 1},
		"HINCRBYFLOAT": {0, flagsWriteFast, 1, 1, 1},

		// sets
		"SADD":      {0, flagsWriteFast, 1, 1, 1},
		"SREM":      {0, flagsFast, 1, 1, 1},
		"SMEMBERS":  {0, []string{"readonly", "sort_for_script"}, 1, 1, 1},
		"SISMEMBER": {0, flagsReadFast, 1, 1, 1},
		"SCARD":     {0, flagsReadFast, 1, 1, 1},

		// sorted sets
		"ZADD":             {0, flagsWriteFast, 1, 1, 1},
		"ZCOUNT":           {0, flagsReadFast, 1, 1, 1},
		"ZRANGEBYSCORE":    {0, flagsRead, 1, 1, 1},
		"ZRANK":            {0, flagsReadFast, 1, 1, 1},
		"ZREMRANGEBYSCORE": {0, nil, 1, 1, 1},
		"ZSCORE":           {0, flagsReadFast, 1, 1, 1},
		"ZCARD":            {0, flagsReadFast, 1, 1, 1},

		// lists
		"LPUSH":  {0, flagsWriteFast, 1, 1, 1},
		"RPUSH":  {0, flagsWriteFast, 1, 1, 1},
		"LPOP":   {0, flagsFast, 1, 1, 1},
		"LLEN":   {0, flagsReadFast, 1, 1, 1},
		"LRANGE": {0, flagsRead, 1, 1, 1},
	}
)

// commandDoc stores a description for the command
type commandDoc struct {
	summary    string
	complexity string
	group      string
	since      string
}

// commandDocsRegistry documentation registry
var commandDocsRegistry = map[string]commandDoc{
	"PING":    {"Ping the server.", "O(1)", "connection", "1.0.0"},
	"ECHO":    {"Echo the given string.", "O(1)", "connection", "1.0.0"},
	"QUIT":    {"Close the connection.", "O(1)", "connection", "1.0.0"},
	"SELECT":  {"Change the selected database for the current connection.", "O(1)", "connection", "1.0.0"},
	"COMMAND": {"Get array of command details.", "O(N) where N is the number of commands to look up.", "server", "2.8.13"},

	"MULTI":   {"Mark the start of a transaction block.", "O(1)", "transactions", "1.2.0"},
	"EXEC":    {"Execute all commands issued after MULTI.", "Depends on commands in the transaction", "transactions", "1.2.0"},
	"DISCARD": {"Discard all commands issued after MULTI.", "O(N), when N is the number of queued commands", "transactions", "2.0.0"},

	"GET":    {"Get the value of a key.", "O(1)", "string", "1.0.0"},
	"SET":    {"Set the string value of a key.", "O(1)", "string", "1.0.0"},
	"INCR":   {"Increment the integer value of a key by one.", "O(1)", "string", "1.0.0"},
	"INCRBY": {"Increment the integer value of a key by the given amount.", "O(1)", "string", "1.0.0"},
	"DECR":   {"Decrement the integer value of a key by one.", "O(1)", "string", "1.0.0"},
	"DECRBY": {"Decrement the integer value of a key by the given number.", "O(1)", "string", "1.0.0"},

	"DEL":     {"Delete a key.", "O(N) where N is the number of keys that will be removed.", "generic", "1.0.0"},
	"EXISTS":  {"Determine if a key exists.", "O(N) where N is the number of keys to check.", "generic", "1.0.0"},
	"TYPE":    {"Determine the type stored at key.", "O(1)", "generic", "1.0.0"},
	"KEYS":    {"Find all keys matching the given pattern.", "O(N) with N being the number of keys in the database.", "generic", "1.0.0"},
	"DBSIZE":  {"Return the number of keys in the selected database.", "O(1)", "server", "1.0.0"},
	"FLUSHDB": {"Remove all keys from the current database.", "O(N) where N is the number of keys in the selected database.", "server", "1.0.0"},
	"MOVE":    {"Move a key to another database.", "O(1)", "generic", "1.0.0"},
	"SORT":    {"Sort the elements in a list, set or sorted set.", "O(N+M*log(M)) where N is the number of elements in the list or set to sort, and M the number of returned elements.", "generic", "1.0.0"},

	"HSET":         {"Set the string value of a hash field.", "O(N) where N is the number of field/value pairs being set.", "hash", "2.0.0"},
	"HGET":         {"Get the value of a hash field.", "O(1)", "hash", "2.0.0"},
	"HDEL":         {"Delete one or more hash fields.", "O(N) where N is the number of fields to be removed.", "hash", "2.0.0"},
	"HLEN":         {"Get the number of fields in a hash.", "O(1)", "hash", "2.0.0"},
	"HKEYS":        {"Get all the fields in a hash.", "O(N) where N is the size of the hash.", "hash", "2.0.0"},
	"HVALS":        {"Get all the values in a hash.", "O(N) where N is the size of the hash.", "hash", "2.0.0"},
	"HGETALL":      {"Get all the fields and values in a hash.", "O(N) where N is the size of the hash.", "hash", "2.0.0"},
	"HEXISTS":      {"Determine if a hash field exists.", "O(1)", "hash", "2.0.0"},
	"HINCRBY":      {"Increment the integer value of a hash field by the given number.", "O(1)", "hash", "2.0.0"},
	"HINCRBYFLOAT": {"Increment the float value of a hash field by the given amount.", "O(1)", "hash", "2.6.0"},

	"SADD":      {"Add one or more members to a set.", "O(1) for each element added.", "set", "1.0.0"},
	"SREM":      {"Remove one or more members from a set.", "O(N) where N is the number of members to be removed.", "set", "1.0.0"},
	"SMEMBERS":  {"Get all the members in a set.", "O(N) where N is the set cardinality.", "set", "1.0.0"},
	"SISMEMBER": {"Determine if a given value is a member of a set.", "O(1)", "set", "1.0.0"},
	"SCARD":     {"Get the number of members in a set.", "O(1)", "set", "1.0.0"},

	"ZADD":             {"Add one or more members to a sorted set, or update its score if it already exists.", "O(log(N)) for each item added.", "sorted-set", "1.2.0"},
	"ZCOUNT":           {"Count the members in a sorted set with scores within the given values.", "O(log(N)) with N being the number of elements in the sorted set.", "sorted-set", "2.0.0"},
	"ZRANGEBYSCORE":    {"Return a range of members in a sorted set, by score.", "O(log(N)+M) with N being the number of elements in the sorted set and M the number of elements being returned.", "sorted-set", "1.0.5"},
	"ZRANK":            {"Determine the index of a member in a sorted set.", "O(log(N))", "sorted-set", "2.0.0"},
	"ZREMRANGEBYSCORE": {"Remove all members in a sorted set within the given scores.", "O(log(N)+M) with N being the number of elements in the sorted set and M the number of elements removed by the operation.", "sorted-set", "1.2.0"},
	"ZSCORE":           {"Get the score associated with the given member in a sorted set.", "O(1)", "sorted-set", "1.2.0"},
	"ZCARD":            {"Get the number of members in a sorted set.", "O(1)", "sorted-set", "1.2.0"},

	"LPUSH":  {"Prepend one or multiple elements to a list.", "O(1) for each element added.", "list", "1.0.0"},
	"RPUSH":  {"Append one or multiple elements to a list.", "O(1) for each element added.", "list", "1.0.0"},
	"LPOP":   {"Remove and get the first element in a list.", "O(1)", "list", "1.0.0"},
	"LLEN":   {"Get the length of a list.", "O(1)", "list", "1.0.0"},
	"LRANGE": {"Get a range of elements from a list.", "O(S+N) where S is the distance of start offset from HEAD for small lists, N is the number of elements in the specified range.", "list", "1.0.0"},
}

func makeFlagsArray(flags []string) resp.Value {
	vals := make([]resp.Value, len(flags))
	for i, f := range flags {
		vals[i] = resp.MakeSimpleString(f)
	}
	return resp.MakeArray(vals)
}

// lookupMetadata merges the database command table into the registry entry
func lookupMetadata(name string) commandMetadata {
	meta := commandRegistry[name]
	arity, write, ok := database.Lookup(name)
	if !ok {
		return meta
	}

	meta.arity = arity
	if write {
		meta.flags = append([]string{"write"}, meta.flags...)
	}
	return meta
}

func makeInfoCmdArray(name string) []resp.Value {
	meta := lookupMetadata(name)
	return []resp.Value{
		resp.MakeBulkString(strings.ToLower(name)),
		resp.MakeInteger(int64(meta.arity)),
		makeFlagsArray(meta.flags),
		resp.MakeInteger(int64(meta.firstKey)),
		resp.MakeInteger(int64(meta.lastKey)),
		resp.MakeInteger(int64(meta.step)),
	}
}

func getAllCommands() resp.Value {
	names := make([]string, 0, len(commandRegistry))
	for name := range commandRegistry {
		names = append(names, name)
	}
	sort.Strings(names)

	cmdArray := make([]resp.Value, 0, len(names))
	for _, name := range names {
		cmdArray = append(cmdArray, resp.MakeArray(makeInfoCmdArray(name)))
	}
	return resp.MakeArray(cmdArray)
}

// getCommandsDocs returns documentation for specified commands or all commands
// Format: [Name, [Summary, val, Since, val...], Name, [...]]
func getCommandsDocs(args []resp.Value) resp.Value {
	var targets []string

	if len(args) == 0 {
		targets = make([]string, 0, len(commandDocsRegistry))
		for name := range commandDocsRegistry {
			targets = append(targets, name)
		}
		sort.Strings(targets)
	} else {
		targets = make([]string, 0, len(args))
		for _, arg := range args {
			targets = append(targets, strings.ToUpper(arg.Text()))
		}
	}

	result := make([]resp.Value, 0, len(targets)*2)

	for _, name := range targets {
		doc, ok := commandDocsRegistry[name]
		if !ok {
			continue
		}

		result = append(result, resp.MakeBulkString(strings.ToLower(name)))

		props := []resp.Value{
			resp.MakeBulkString("summary"),
			resp.MakeBulkString(doc.summary),
			resp.MakeBulkString("since"),
			resp.MakeBulkString(doc.since),
			resp.MakeBulkString("group"),
			resp.MakeBulkString(doc.group),
			resp.MakeBulkString("complexity"),
			resp.MakeBulkString(doc.complexity),
		}

		result = append(result, resp.MakeArray(props))
	}

	return resp.MakeArray(result)
}
