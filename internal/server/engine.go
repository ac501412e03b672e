package server

import (
	"errors"
	"sort"
	"strings"

	"github.com/eternalApril/moonmock/internal/database"
	"github.com/eternalApril/moonmock/internal/resp"
	"go.uber.org/zap"
)

// handler serves a connection level command that never reaches the database
type handler func(c *Client, args []resp.Value) resp.Value

// Engine turns RESP requests into session commands and session results into RESP replies
type Engine struct {
	dir      *database.Directory
	commands map[string]handler // connection commands (the key is the command name in uppercase)
	logger   *zap.Logger
}

// NewEngine creates an engine serving the databases of dir
func NewEngine(dir *database.Directory, logger *zap.Logger) *Engine {
	e := &Engine{
		dir:      dir,
		commands: make(map[string]handler),
		logger:   logger,
	}
	e.registerBasicCommand()
	return e
}

// NewClient creates command state for a new connection, starting on database 0
func (e *Engine) NewClient() *Client {
	return &Client{session: e.dir.NewSession()}
}

// register adds a new connection command. The command name is uppercase
func (e *Engine) register(name string, h handler) {
	e.commands[strings.ToUpper(name)] = h
}

// registerBasicCommand fills the registry with commands handled outside the database
func (e *Engine) registerBasicCommand() {
	e.register("PING", ping)
	e.register("ECHO", echo)
	e.register("COMMAND", cmd)
	e.register("QUIT", quit)
	e.register("MULTI", multi)
	e.register("EXEC", e.exec)
	e.register("DISCARD", discard)
}

// Execute runs one command for the client and returns the reply.
// While a MULTI block is open, database commands are queued and answered with QUEUED
func (e *Engine) Execute(c *Client, name string, args []resp.Value) resp.Value {
	name = strings.ToUpper(name)

	if e.logger.Core().Enabled(zap.DebugLevel) {
		// Log the command name and number of args
		e.logger.Debug("executing command",
			zap.String("cmd", name),
			zap.Int("args_count", len(args)),
			zap.Int("db", c.session.Selected()),
		)
	}

	if h, ok := e.commands[name]; ok {
		if c.InMulti() && !allowedInMulti(name) {
			c.dirty = true
			return resp.MakeError("ERR Command not allowed inside a transaction")
		}
		return h(c, args)
	}

	if c.InMulti() {
		return enqueue(c, name, args)
	}

	val, err := c.session.Do(name, stringArgs(args)...)
	return toReply(name, val, err)
}

func allowedInMulti(name string) bool {
	switch name {
	case "EXEC", "DISCARD", "MULTI", "QUIT":
		return true
	}
	return false
}

// enqueue validates a command against the registry and queues it.
// A command that cannot be queued aborts the whole transaction at EXEC
func enqueue(c *Client, name string, args []resp.Value) resp.Value {
	arity, _, ok := database.Lookup(name)
	if !ok {
		c.dirty = true
		return resp.MakeError("ERR unknown command '" + strings.ToLower(name) + "'")
	}

	n := len(args) + 1
	if (arity > 0 && n != arity) || (arity < 0 && n < -arity) {
		c.dirty = true
		return resp.MakeErrorWrongNumberOfArguments(name)
	}

	c.multi.Enqueue(name, stringArgs(args)...)
	c.queued = append(c.queued, name)
	return resp.MakeSimpleString("QUEUED")
}

func (e *Engine) exec(c *Client, args []resp.Value) resp.Value {
	if len(args) != 0 {
		return resp.MakeErrorWrongNumberOfArguments("EXEC")
	}
	if !c.InMulti() {
		return resp.MakeError("ERR EXEC without MULTI")
	}

	tx, names, dirty := c.multi, c.queued, c.dirty
	c.resetMulti()

	if dirty {
		tx.Discard() //nolint:errcheck
		return resp.MakeError("EXECABORT Transaction discarded because of previous errors.")
	}

	replies, err := tx.Run()
	if err != nil {
		return toReply("EXEC", nil, err)
	}

	values := make([]resp.Value, len(replies))
	for i, r := range replies {
		values[i] = toReply(names[i], r.Val, r.Err)
	}

	if e.logger.Core().Enabled(zap.DebugLevel) {
		e.logger.Debug("transaction executed", zap.Int("commands", len(values)))
	}

	return resp.MakeArray(values)
}

// toReply converts a session result. A MOVE that finds nothing to move, or
// finds the key already present at the destination, is answered with 0 instead of an error
func toReply(name string, val any, err error) resp.Value {
	if err != nil {
		if name == "MOVE" && (errors.Is(err, database.ErrNotFound) || errors.Is(err, database.ErrKeyConflict)) {
			return resp.MakeInteger(0)
		}

		var dbErr *database.Error
		if errors.As(err, &dbErr) {
			return resp.MakeError(dbErr.Error())
		}
		return resp.MakeError("ERR " + err.Error())
	}

	switch v := val.(type) {
	case nil:
		return resp.MakeNilBulkString()
	case database.Status:
		return resp.MakeSimpleString(string(v))
	case string:
		return resp.MakeBulkString(v)
	case int64:
		return resp.MakeInteger(v)
	case []string:
		return resp.MakeStringArray(v)
	case map[string]string:
		fields := make([]string, 0, len(v))
		for f := range v {
			fields = append(fields, f)
		}
		sort.Strings(fields)

		flat := make([]string, 0, 2*len(v))
		for _, f := range fields {
			flat = append(flat, f, v[f])
		}
		return resp.MakeStringArray(flat)
	}

	return resp.MakeError("ERR unexpected reply")
}

func stringArgs(args []resp.Value) []string {
	out := make([]string, len(args))
	for i, a := range args {
		out[i] = a.Text()
	}
	return out
}
