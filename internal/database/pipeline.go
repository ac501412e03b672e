package database

import (
	"fmt"
	"sync"
	"time"

	"github.com/eternalApril/moonmock/internal/storage"
	"go.uber.org/zap"
)

type pipelineState int

const (
	pipelineOpen pipelineState = iota
	pipelineExecuted
	pipelineDiscarded
)

// call is a queued command invocation
type call struct {
	name string
	args []string
}

// Pipeline records commands and runs them later as one batch.
// In transaction mode (see Session.Multi) the batch holds every database lock
// for its whole duration, so no other session observes it half done. Plain
// pipelines lock per command and let other sessions interleave
type Pipeline struct {
	session *Session
	tx      bool

	mu      sync.Mutex
	state   pipelineState
	calls   []call
	replies []Reply
}

// Pipeline opens a queue whose commands run back to back, locking per command
func (s *Session) Pipeline() *Pipeline {
	return &Pipeline{session: s}
}

// Multi opens a queue that runs in isolation from every other session
func (s *Session) Multi() *Pipeline {
	return &Pipeline{session: s, tx: true}
}

// Enqueue records a command and returns the handle its reply will be read from.
// Nothing is validated here: unknown commands and bad arguments surface as the
// call's error after Run
func (p *Pipeline) Enqueue(name string, args ...string) Handle {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.state != pipelineOpen {
		return Handle{p: p, index: -1}
	}

	p.calls = append(p.calls, call{name: name, args: args})
	return Handle{p: p, index: len(p.calls) - 1}
}

// Len returns the number of queued commands
func (p *Pipeline) Len() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.calls)
}

// Discard drops the queued commands without running them. The pipeline is spent afterwards
func (p *Pipeline) Discard() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.state != pipelineOpen {
		return ErrPipelineSpent
	}
	p.state = pipelineDiscarded
	p.calls = nil
	return nil
}

// Run executes the queued commands in order and returns their replies.
// A failing command does not stop the batch: its error is kept in its reply.
// A pipeline runs at most once
func (p *Pipeline) Run() ([]Reply, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.state != pipelineOpen {
		return nil, ErrPipelineSpent
	}
	p.state = pipelineExecuted

	start := time.Now()

	exec := p.session
	if p.tx {
		var release func()
		exec, release = p.session.isolate()
		defer release()
	}

	p.replies = make([]Reply, len(p.calls))
	for i, c := range p.calls {
		val, err := exec.Do(c.name, c.args...)
		p.replies[i] = Reply{Val: val, Err: err}
	}

	logger := p.session.dir.logger
	if logger.Core().Enabled(zap.DebugLevel) {
		logger.Debug("pipeline executed",
			zap.Int("commands", len(p.calls)),
			zap.Bool("transaction", p.tx),
			zap.Duration("duration", time.Since(start)),
		)
	}

	out := make([]Reply, len(p.replies))
	copy(out, p.replies)
	return out, nil
}

// isolate locks every database in index order and returns a session that runs
// commands under those locks. release unlocks them and carries a SELECT made
// inside the batch back to s
func (s *Session) isolate() (*Session, func()) {
	dbs := s.dir.snapshot()

	held := make(map[storage.Storage]struct{}, len(dbs))
	for _, db := range dbs {
		db.Lock()
		held[db] = struct{}{}
	}

	tx := &Session{dir: s.dir, held: held}
	tx.selected.Store(s.selected.Load())

	return tx, func() {
		s.selected.Store(tx.selected.Load())
		for i := len(dbs) - 1; i >= 0; i-- {
			dbs[i].Unlock()
		}
	}
}

// Handle refers to the reply of one queued command
type Handle struct {
	p     *Pipeline
	index int
}

// Result returns the command's value and error once the pipeline has run
func (h Handle) Result() (any, error) {
	r := h.Reply()
	return r.Val, r.Err
}

// Reply returns the command's reply once the pipeline has run
func (h Handle) Reply() Reply {
	h.p.mu.Lock()
	defer h.p.mu.Unlock()

	switch {
	case h.index < 0 || h.p.state == pipelineDiscarded:
		return Reply{Err: ErrPipelineSpent}
	case h.p.state == pipelineOpen:
		return Reply{Err: ErrNotExecuted}
	}
	return h.p.replies[h.index]
}

// Reply is the outcome of one command: a value as returned by Session.Do, or an error
type Reply struct {
	Val any
	Err error
}

// Int64 returns an integer reply
func (r Reply) Int64() (int64, error) {
	if r.Err != nil {
		return 0, r.Err
	}
	n, ok := r.Val.(int64)
	if !ok {
		return 0, unexpected(r.Val, "integer")
	}
	return n, nil
}

// Text returns a string or status reply, and false for "no value"
func (r Reply) Text() (string, bool, error) {
	if r.Err != nil {
		return "", false, r.Err
	}
	switch v := r.Val.(type) {
	case nil:
		return "", false, nil
	case string:
		return v, true, nil
	case Status:
		return string(v), true, nil
	}
	return "", false, unexpected(r.Val, "string")
}

// Strings returns a list reply
func (r Reply) Strings() ([]string, error) {
	if r.Err != nil {
		return nil, r.Err
	}
	l, ok := r.Val.([]string)
	if !ok {
		return nil, unexpected(r.Val, "list")
	}
	return l, nil
}

// StringMap returns a field/value reply
func (r Reply) StringMap() (map[string]string, error) {
	if r.Err != nil {
		return nil, r.Err
	}
	m, ok := r.Val.(map[string]string)
	if !ok {
		return nil, unexpected(r.Val, "map")
	}
	return m, nil
}

func unexpected(v any, want string) error {
	return fmt.Errorf("unexpected reply type %T, want %s", v, want)
}
