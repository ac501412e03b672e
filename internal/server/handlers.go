package server

import (
	"strings"

	"github.com/eternalApril/moonmock/internal/resp"
)

func ping(_ *Client, args []resp.Value) resp.Value {
	switch len(args) {
	case 0:
		return resp.MakeSimpleString("PONG")
	case 1:
		return resp.MakeBulkString(args[0].Text())
	}
	return resp.MakeErrorWrongNumberOfArguments("PING")
}

func echo(_ *Client, args []resp.Value) resp.Value {
	if len(args) != 1 {
		return resp.MakeErrorWrongNumberOfArguments("ECHO")
	}
	return resp.MakeBulkString(args[0].Text())
}

// cmd serves COMMAND, COMMAND COUNT and COMMAND DOCS
func cmd(_ *Client, args []resp.Value) resp.Value {
	if len(args) == 0 {
		return getAllCommands()
	}

	switch strings.ToUpper(args[0].Text()) {
	case "DOCS":
		return getCommandsDocs(args[1:])
	case "COUNT":
		return resp.MakeInteger(int64(len(commandRegistry)))
	}
	return resp.MakeError("ERR unknown subcommand '" + args[0].Text() + "'")
}

func quit(c *Client, _ []resp.Value) resp.Value {
	c.closed = true
	return resp.MakeSimpleString("OK")
}

func multi(c *Client, args []resp.Value) resp.Value {
	if len(args) != 0 {
		return resp.MakeErrorWrongNumberOfArguments("MULTI")
	}
	if c.InMulti() {
		return resp.MakeError("ERR MULTI calls can not be nested")
	}
	c.multi = c.session.Multi()
	return resp.MakeSimpleString("OK")
}

func discard(c *Client, args []resp.Value) resp.Value {
	if len(args) != 0 {
		return resp.MakeErrorWrongNumberOfArguments("DISCARD")
	}
	if !c.InMulti() {
		return resp.MakeError("ERR DISCARD without MULTI")
	}
	c.multi.Discard() //nolint:errcheck
	c.resetMulti()
	return resp.MakeSimpleString("OK")
}
