package state

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/cloudwego/eino/schema"
	"github.com/google/uuid"

	menux "github.com/hotlanelabs/drivethru/agent/menu"
	orderx "github.com/hotlanelabs/drivethru/agent/order"
)

var (
	ErrStateNotFound       = errors.New("conversation state not found")
	ErrNilState            = errors.New("conversation state is nil")
	ErrInvalidConversation = errors.New("conversation id is empty")
	ErrCursorOutOfRange    = errors.New("cursor outside message log")
)

// ConversationState is the aggregate threaded through every turn step:
// the append-only dialogue log, the running order, the reasoning audit
// log, and the cursor marking the first message after the latest decision
// point. The catalog is carried by reference and excluded from
// serialization; it is immutable and owned by the engine.
//
// Messages and Reasoning are append-only: steps add entries, nothing ever
// rewrites history. The order is replaced whole, never edited in place.
type ConversationState struct {
	ConversationID string            `json:"conversation_id"`
	MenuID         string            `json:"menu_id,omitempty"`
	Order          *orderx.Order     `json:"order"`
	Messages       []*schema.Message `json:"messages"`
	Cursor         int               `json:"cursor"`
	Reasoning      []string          `json:"reasoning,omitempty"`
	Done           bool              `json:"done"`
	CreatedAt      time.Time         `json:"created_at"`
	UpdatedAt      time.Time         `json:"updated_at"`

	Menu *menux.Menu `json:"-"`
}

// NewConversationState starts a conversation against a catalog: empty
// order, empty message log, cursor at zero.
func NewConversationState(m *menux.Menu, now time.Time) *ConversationState {
	st := &ConversationState{
		ConversationID: uuid.NewString(),
		Order:          orderx.New(),
		Messages:       nil,
		Cursor:         0,
		CreatedAt:      now.UTC(),
		UpdatedAt:      now.UTC(),
		Menu:           m,
	}
	if m != nil {
		st.MenuID = m.MenuID
	}
	return st
}

func (s *ConversationState) Touch(now time.Time) {
	s.UpdatedAt = now.UTC()
}

/* ----------------------------- Log helpers ------------------------------ */

// AppendMessages appends to the dialogue log. History is never replaced.
func (s *ConversationState) AppendMessages(msgs ...*schema.Message) {
	for _, m := range msgs {
		if m == nil {
			continue
		}
		s.Messages = append(s.Messages, m)
	}
}

// AppendUserMessage appends the customer's utterance.
func (s *ConversationState) AppendUserMessage(text string) {
	s.AppendMessages(schema.UserMessage(text))
}

// AppendReasoning records one audit entry. The log accumulates for the
// lifetime of the conversation and is never truncated.
func (s *ConversationState) AppendReasoning(entry string) {
	trimmed := strings.TrimSpace(entry)
	if trimmed == "" {
		return
	}
	s.Reasoning = append(s.Reasoning, trimmed)
}

// MarkDecisionPoint advances the cursor past everything currently in the
// log. Called immediately after appending a decision (an assistant
// message requesting operations), so that scope scans see exactly the
// result records of the current cycle and nothing older.
func (s *ConversationState) MarkDecisionPoint() {
	s.Cursor = len(s.Messages)
}

// ScopedMessages returns the messages after the latest decision point.
func (s *ConversationState) ScopedMessages() []*schema.Message {
	if s.Cursor < 0 || s.Cursor > len(s.Messages) {
		return nil
	}
	return s.Messages[s.Cursor:]
}

// LastAssistantText returns the most recent assistant-visible reply, for
// the caller to surface. Decision messages whose content is empty (pure
// tool requests) are skipped.
func (s *ConversationState) LastAssistantText() string {
	for i := len(s.Messages) - 1; i >= 0; i-- {
		m := s.Messages[i]
		if m == nil || m.Role != schema.Assistant {
			continue
		}
		if text := strings.TrimSpace(m.Content); text != "" {
			return text
		}
	}
	return ""
}

/* ---------------------------- Lifecycle helpers -------------------------- */

// Finalize marks the conversation terminal. The order is frozen from the
// caller's perspective: submitting further input is rejected upstream.
func (s *ConversationState) Finalize(now time.Time) {
	s.Done = true
	s.Touch(now)
}

// Clone returns a working copy safe to mutate during a turn while the
// original stays intact for rollback. Log slices are copied; the message
// values themselves are shared, which is safe because the log is
// append-only. The order pointer is shared for the same reason: orders
// are replaced whole, never edited.
func (s *ConversationState) Clone() *ConversationState {
	if s == nil {
		return nil
	}
	out := *s
	out.Messages = make([]*schema.Message, len(s.Messages))
	copy(out.Messages, s.Messages)
	out.Reasoning = make([]string, len(s.Reasoning))
	copy(out.Reasoning, s.Reasoning)
	return &out
}

func (s *ConversationState) Validate() error {
	if s == nil {
		return ErrNilState
	}
	if strings.TrimSpace(s.ConversationID) == "" {
		return ErrInvalidConversation
	}
	if s.Order == nil {
		return errors.New("conversation state has no order")
	}
	if s.Cursor < 0 || s.Cursor > len(s.Messages) {
		return fmt.Errorf("%w: cursor=%d log=%d", ErrCursorOutOfRange, s.Cursor, len(s.Messages))
	}
	return nil
}
