package state

import (
	"context"
	"strings"
	"sync"
)

// Store is the session registry the engine keeps conversations in. Each
// conversation is isolated; the store never shares a mutable state value
// between callers.
type Store interface {
	Load(ctx context.Context, conversationID string) (*ConversationState, error)
	Save(ctx context.Context, st *ConversationState) error
	Delete(ctx context.Context, conversationID string) error
}

// MemoryStore keeps conversations in process memory, which matches the
// order lifecycle: nothing outlives the process. Safe for concurrent
// sessions; values are cloned on the way in and out so two holders of the
// same conversation can never alias each other's working copy.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]*ConversationState
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		sessions: make(map[string]*ConversationState),
	}
}

func (s *MemoryStore) Load(ctx context.Context, conversationID string) (*ConversationState, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	id := strings.TrimSpace(conversationID)
	if id == "" {
		return nil, ErrInvalidConversation
	}

	s.mu.RLock()
	st, ok := s.sessions[id]
	s.mu.RUnlock()
	if !ok {
		return nil, ErrStateNotFound
	}
	return st.Clone(), nil
}

func (s *MemoryStore) Save(ctx context.Context, st *ConversationState) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if st == nil {
		return ErrNilState
	}
	if err := st.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	s.sessions[st.ConversationID] = st.Clone()
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore) Delete(ctx context.Context, conversationID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	id := strings.TrimSpace(conversationID)
	if id == "" {
		return ErrInvalidConversation
	}

	s.mu.Lock()
	delete(s.sessions, id)
	s.mu.Unlock()
	return nil
}
