package mcp

import (
	"context"
	"fmt"
	"sync"

	"github.com/oklog/ulid/v2"
)

// SessionStore keeps the sessions opened by initialize.
type SessionStore interface {
	// Issue creates a new session and returns its ID.
	Issue(ctx context.Context) (sessionID string, err error)
	// Delete removes the session from the store.
	Delete(ctx context.Context, sessionID string) (err error)
	// Context returns the session-scoped context, canceled when the session is deleted.
	Context(ctx context.Context, sessionID string) (sessionCtx context.Context, err error)
}

// compatibility check
var _ SessionStore = (*InMemorySessionStore)(nil)

// InMemorySessionStore is an in-memory implementation of SessionStore issuing ULIDs.
type InMemorySessionStore struct {
	_        struct{}
	sessions sync.Map
}

type session struct {
	ctx    context.Context
	cancel context.CancelFunc
}

func (s *InMemorySessionStore) Issue(_ context.Context) (string, error) {
	id := ulid.Make().String()
	ctx, cancel := context.WithCancel(context.Background())
	s.sessions.Store(id, &session{ctx: ctx, cancel: cancel})
	return id, nil
}

func (s *InMemorySessionStore) Delete(_ context.Context, sessionID string) error {
	v, loaded := s.sessions.LoadAndDelete(sessionID)
	if !loaded {
		return nil
	}
	v.(*session).cancel()
	return nil
}

func (s *InMemorySessionStore) Context(_ context.Context, sessionID string) (context.Context, error) {
	v, ok := s.sessions.Load(sessionID)
	if !ok {
		return nil, fmt.Errorf("session '%s' not found", sessionID)
	}
	return v.(*session).ctx, nil
}
