package llm

import (
	"context"
	"sync"

	"librarian/internal/port"
)

// Call records one request made to a ScriptedLLM.
type Call struct {
	System string
	User   string
}

// ScriptedLLM returns a fixed reply (or error) and records every request.
type ScriptedLLM struct {
	Reply string
	Err   error

	// ReplyFunc, when set, computes the reply from the request.
	ReplyFunc func(system, user string) (string, error)

	mu    sync.Mutex
	calls []Call
}

var _ port.LLM = (*ScriptedLLM)(nil)

func (l *ScriptedLLM) Generate(ctx context.Context, prompt string) (string, error) {
	return l.GenerateWithSystem(ctx, "", prompt)
}

func (l *ScriptedLLM) GenerateWithSystem(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	l.mu.Lock()
	l.calls = append(l.calls, Call{System: systemPrompt, User: userPrompt})
	l.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return "", err
	}
	if l.ReplyFunc != nil {
		return l.ReplyFunc(systemPrompt, userPrompt)
	}
	return l.Reply, l.Err
}

func (l *ScriptedLLM) ModelName() string {
	return "scripted"
}

// Calls returns a copy of the recorded requests.
func (l *ScriptedLLM) Calls() []Call {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]Call(nil), l.calls...)
}
