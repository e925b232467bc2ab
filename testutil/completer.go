package testutil

import (
	"context"
	"errors"
	"sync"

	"github.com/skosovsky/reactkit"
)

// ErrScriptExhausted is returned by ScriptedCompleter after its last reply.
var ErrScriptExhausted = errors.New("testutil: no scripted replies left")

// ScriptedCompleter is a reactkit.Completer that returns canned replies in order
// and records the conversations it was given.
type ScriptedCompleter struct {
	mu      sync.Mutex
	replies []string
	calls   [][]reactkit.Message
}

// NewScriptedCompleter returns a completer answering with replies, one per call.
func NewScriptedCompleter(replies ...string) *ScriptedCompleter {
	return &ScriptedCompleter{replies: replies}
}

// Complete returns the next reply, or ErrScriptExhausted.
func (s *ScriptedCompleter) Complete(ctx context.Context, messages []reactkit.Message) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, append([]reactkit.Message(nil), messages...))
	if len(s.replies) == 0 {
		return "", ErrScriptExhausted
	}
	reply := s.replies[0]
	s.replies = s.replies[1:]
	return reply, nil
}

// Calls returns a copy of the message lists passed to Complete, in call order.
func (s *ScriptedCompleter) Calls() [][]reactkit.Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([][]reactkit.Message(nil), s.calls...)
}

var _ reactkit.Completer = (*ScriptedCompleter)(nil)
