package database

import (
	"errors"
	"fmt"
)

// Kind classifies command errors
type Kind int

const (
	// WrongType means the stored value has a different type than the command requires
	WrongType Kind = iota + 1
	// InvalidArgument covers malformed numbers, bad indexes and bad argument shapes
	InvalidArgument
	// KeyConflict means the destination of MOVE already holds the key
	KeyConflict
	// NotFound means the source key of MOVE does not exist
	NotFound
)

// Error is a command error. Its message follows the wording of the real server
type Error struct {
	Kind Kind
	msg  string
}

func (e *Error) Error() string {
	return e.msg
}

// Is matches any Error of the same Kind, so errors.Is(err, ErrInvalidArgument)
// holds for every invalid argument error whatever its message
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}

func newError(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, msg: fmt.Sprintf(format, args...)}
}

var (
	ErrWrongType       = &Error{Kind: WrongType, msg: "WRONGTYPE Operation against a key holding the wrong kind of value"}
	ErrInvalidArgument = &Error{Kind: InvalidArgument, msg: "ERR invalid argument"}
	ErrKeyConflict     = &Error{Kind: KeyConflict, msg: "ERR target key already exists"}
	ErrNotFound        = &Error{Kind: NotFound, msg: "ERR no such key"}

	errNotInteger     = &Error{Kind: InvalidArgument, msg: "ERR value is not an integer or out of range"}
	errNotFloat       = &Error{Kind: InvalidArgument, msg: "ERR value is not a valid float"}
	errHashNotInteger = &Error{Kind: InvalidArgument, msg: "ERR hash value is not an integer"}
	errHashNotFloat   = &Error{Kind: InvalidArgument, msg: "ERR hash value is not a float"}
	errSortNotNumber  = &Error{Kind: InvalidArgument, msg: "ERR One or more scores can't be converted into double"}
	errDBIndex        = &Error{Kind: InvalidArgument, msg: "ERR DB index is out of range"}
	errSameDB         = &Error{Kind: InvalidArgument, msg: "ERR source and destination objects are the same"}
	errSyntax         = &Error{Kind: InvalidArgument, msg: "ERR syntax error"}
	errOverflow       = &Error{Kind: InvalidArgument, msg: "ERR increment or decrement would overflow"}
	errNaN            = &Error{Kind: InvalidArgument, msg: "ERR increment would produce NaN or Infinity"}
)

var (
	// ErrNotExecuted is returned by a Handle whose pipeline has not run yet
	ErrNotExecuted = errors.New("pipeline not executed")

	// ErrPipelineSpent is returned when a pipeline is run or extended after it was run or discarded
	ErrPipelineSpent = errors.New("pipeline already executed")
)

func errWrongArgs(cmd string) *Error {
	return newError(InvalidArgument, "ERR wrong number of arguments for '%s' command", cmd)
}

func errUnknownCommand(cmd string) *Error {
	return newError(InvalidArgument, "ERR unknown command '%s'", cmd)
}
