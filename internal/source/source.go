// Package source fetches raw call and email records for one client account.
// Sources return records in any order and never filter out malformed rows;
// the pipeline decides what to aggregate.
package source

import (
	"context"
	"errors"
	"sync"
	"time"

	"agent-insights-go/internal/types"
)

var (
	ErrUnknownClient = errors.New("unknown client")
	ErrNotConfigured = errors.New("record source not configured")
	// ErrMisconfigured means the backend does not expose the expected
	// table or route. Retrying will not help.
	ErrMisconfigured = errors.New("record source misconfigured")
)

// Source is the read-only record accessor. since is a coarse lower bound;
// implementations may return older records.
type Source interface {
	FetchCalls(ctx context.Context, clientID string, since time.Time) ([]types.CallRecord, error)
	FetchEmails(ctx context.Context, clientID string, since time.Time) ([]types.EmailRecord, error)
}

// Memory is an in-process Source, used for demos and as a test double.
type Memory struct {
	mu     sync.RWMutex
	calls  map[string][]types.CallRecord
	emails map[string][]types.EmailRecord
}

func NewMemory() *Memory {
	return &Memory{
		calls:  map[string][]types.CallRecord{},
		emails: map[string][]types.EmailRecord{},
	}
}

func (m *Memory) AddCalls(clientID string, records ...types.CallRecord) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls[clientID] = append(m.calls[clientID], records...)
	if _, ok := m.emails[clientID]; !ok {
		m.emails[clientID] = nil
	}
}

func (m *Memory) AddEmails(clientID string, records ...types.EmailRecord) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.emails[clientID] = append(m.emails[clientID], records...)
	if _, ok := m.calls[clientID]; !ok {
		m.calls[clientID] = nil
	}
}

func (m *Memory) FetchCalls(ctx context.Context, clientID string, since time.Time) ([]types.CallRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	records, ok := m.calls[clientID]
	if !ok {
		return nil, ErrUnknownClient
	}
	return sinceFilter(records, since), nil
}

func (m *Memory) FetchEmails(ctx context.Context, clientID string, since time.Time) ([]types.EmailRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	records, ok := m.emails[clientID]
	if !ok {
		return nil, ErrUnknownClient
	}
	return sinceFilter(records, since), nil
}

// sinceFilter copies records at or after since. Records without a timestamp
// are kept so the pipeline can count them as malformed.
func sinceFilter[R types.Record](records []R, since time.Time) []R {
	out := make([]R, 0, len(records))
	for _, r := range records {
		t := r.OccurredAt()
		if t.IsZero() || !t.Before(since) {
			out = append(out, r)
		}
	}
	return out
}
