package chat

import (
	"context"
	"sync"
)

// MockCompleter replays scripted results in call order and records requests.
// Once the script is exhausted the last entry is repeated.
type MockCompleter struct {
	mu       sync.Mutex
	Results  []Result
	Requests []Request
}

func (m *MockCompleter) Complete(ctx context.Context, req Request) Result {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Requests = append(m.Requests, req)
	if len(m.Results) == 0 {
		return Success("")
	}
	i := len(m.Requests) - 1
	if i >= len(m.Results) {
		i = len(m.Results) - 1
	}
	return m.Results[i]
}

// Calls returns the number of Complete invocations so far.
func (m *MockCompleter) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Requests)
}
