package flow

import (
	"context"
	"fmt"
	"sync"
)

// FakeModel is a Model for tests. GenerateFunc decides the answer; when it is
// nil, Responses is consulted by flow name.
type FakeModel struct {
	GenerateFunc func(ctx context.Context, req ModelRequest) (string, error)
	Responses    map[string]string

	mu    sync.Mutex
	calls []ModelRequest
}

func (m *FakeModel) Generate(ctx context.Context, req ModelRequest) (string, error) {
	m.mu.Lock()
	m.calls = append(m.calls, req)
	m.mu.Unlock()

	if m.GenerateFunc != nil {
		return m.GenerateFunc(ctx, req)
	}
	if raw, ok := m.Responses[req.Flow]; ok {
		return raw, nil
	}
	return "", fmt.Errorf("no response for flow %q", req.Flow)
}

// Calls returns the requests received so far.
func (m *FakeModel) Calls() []ModelRequest {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]ModelRequest, len(m.calls))
	copy(out, m.calls)
	return out
}

// CallCount returns how many requests were made for flow.
func (m *FakeModel) CallCount(flow string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, c := range m.calls {
		if c.Flow == flow {
			n++
		}
	}
	return n
}
