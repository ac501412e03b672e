package server

import (
	"github.com/eternalApril/moonmock/internal/database"
)

// Client is the command state of one connection: its session (and so its
// selected database) and an open MULTI block, if any
type Client struct {
	session *database.Session

	multi  *database.Pipeline
	queued []string // names of queued commands, in order
	dirty  bool     // a command failed to queue, EXEC must abort

	closed bool
}

// Session returns the session the client runs commands on
func (c *Client) Session() *database.Session {
	return c.session
}

// InMulti reports whether commands are being queued
func (c *Client) InMulti() bool {
	return c.multi != nil
}

// Closed reports whether the client asked to close the connection
func (c *Client) Closed() bool {
	return c.closed
}

func (c *Client) resetMulti() {
	c.multi = nil
	c.queued = nil
	c.dirty = false
}
