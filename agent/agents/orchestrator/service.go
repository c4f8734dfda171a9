package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/cloudwego/eino/compose"
	"github.com/rs/zerolog/log"

	contractx "github.com/hotlanelabs/drivethru/agent/contract"
	menux "github.com/hotlanelabs/drivethru/agent/menu"
	turnnode "github.com/hotlanelabs/drivethru/agent/nodes/turn"
	statex "github.com/hotlanelabs/drivethru/agent/state"
)

var (
	ErrInvalidInput = turnnode.ErrInvalidInput
	ErrEmptyReply   = turnnode.ErrEmptyReply
)

// DefaultTurnBudget caps model decisions per user turn. A healthy turn
// needs two or three; hitting the cap means the model is looping.
const DefaultTurnBudget = 8

type Config struct {
	TurnBudget int
	Tracer     contractx.Tracer
}

// Engine owns the conversation lifecycle: it drives decision cycles until
// the model produces a customer-facing reply or finalizes the order, and
// persists state only when the whole turn succeeded.
type Engine struct {
	store   statex.Store
	adapter contractx.ModelAdapter
	tools   contractx.ToolRunner
	prompts contractx.PromptSource
	tracer  contractx.Tracer
	menu    *menux.Menu

	graphRunner compose.Runnable[turnnode.CycleInput, turnnode.CycleOutput]

	turnBudget int
	now        func() time.Time
}

// TurnResult is what one accepted user turn produced.
type TurnResult struct {
	Reply      string
	State      *statex.ConversationState
	Done       bool
	ModelCalls int
	ToolCalls  int
}

func New(
	store statex.Store,
	adapter contractx.ModelAdapter,
	tools contractx.ToolRunner,
	prompts contractx.PromptSource,
	m *menux.Menu,
	cfg Config,
) (*Engine, error) {
	if store == nil {
		return nil, errors.New("state store is required")
	}
	if adapter == nil {
		return nil, errors.New("model adapter is required")
	}
	if tools == nil {
		return nil, errors.New("tool runner is required")
	}
	if prompts == nil {
		return nil, errors.New("prompt source is required")
	}
	if m == nil {
		return nil, errors.New("menu is required")
	}

	tracer := cfg.Tracer
	if tracer == nil {
		tracer = noopTracer{}
	}
	budget := cfg.TurnBudget
	if budget <= 0 {
		budget = DefaultTurnBudget
	}

	e := &Engine{
		store:      store,
		adapter:    adapter,
		tools:      tools,
		prompts:    prompts,
		tracer:     tracer,
		menu:       m,
		turnBudget: budget,
		now:        time.Now,
	}

	graphRunner, err := e.compileTurnGraph(context.Background())
	if err != nil {
		return nil, err
	}
	e.graphRunner = graphRunner

	return e, nil
}

// StartConversation opens a fresh conversation against the engine's
// catalog and persists its initial state.
func (e *Engine) StartConversation(ctx context.Context) (*statex.ConversationState, error) {
	st := statex.NewConversationState(e.menu, e.now())
	if err := e.store.Save(ctx, st); err != nil {
		return nil, err
	}

	log.Info().
		Str("conversation_id", st.ConversationID).
		Str("menu_id", st.MenuID).
		Msg("conversation started")
	return st, nil
}

// Conversation loads a conversation and rebinds it to the engine's
// catalog; the catalog is never persisted with the state.
func (e *Engine) Conversation(ctx context.Context, conversationID string) (*statex.ConversationState, error) {
	st, err := e.store.Load(ctx, conversationID)
	if err != nil {
		return nil, err
	}
	st.Menu = e.menu
	return st, nil
}

// SubmitUserInput runs one full turn: it appends the customer's words and
// drives decision cycles until the model replies directly or finalizes.
// The turn is atomic; on any failure the stored state is left exactly as
// it was and the error is returned. A finished conversation rejects
// further input with ErrConversationDone.
func (e *Engine) SubmitUserInput(ctx context.Context, conversationID string, text string) (*TurnResult, error) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return nil, fmt.Errorf("%w: user input is empty", contractx.ErrValidation)
	}

	st, err := e.Conversation(ctx, conversationID)
	if err != nil {
		return nil, err
	}
	if st.Done {
		return nil, contractx.ErrConversationDone
	}

	working := st.Clone()
	working.Menu = e.menu
	working.AppendUserMessage(trimmed)

	startedAt := e.now()
	reasoningMark := len(working.Reasoning)

	var (
		modelCalls int
		toolCalls  int
		finalPhase contractx.TurnPhase
	)

	for {
		if modelCalls >= e.turnBudget {
			return nil, fmt.Errorf("%w: %d model calls without reaching a reply", contractx.ErrTurnBudget, modelCalls)
		}

		out, err := e.graphRunner.Invoke(ctx, turnnode.CycleInput{State: working, Now: e.now()})
		if err != nil {
			return nil, err
		}

		working = out.State
		modelCalls += out.ModelCalls
		toolCalls += out.ToolCalls
		finalPhase = out.Phase

		if out.Route == turnnode.RouteLoop {
			continue
		}
		break
	}

	working.Touch(e.now())
	if err := e.store.Save(ctx, working); err != nil {
		return nil, err
	}

	reply := working.LastAssistantText()
	trace := contractx.TurnTrace{
		ConversationID: working.ConversationID,
		OrderID:        working.Order.OrderID,
		UserInput:      trimmed,
		AssistantReply: reply,
		FinalPhase:     finalPhase,
		ModelCalls:     modelCalls,
		ToolCalls:      toolCalls,
		OrderLines:     len(working.Order.Items),
		OrderQuantity:  working.Order.TotalQuantity(),
		Reasoning:      working.Reasoning[reasoningMark:],
		StartedAt:      startedAt,
		EndedAt:        e.now(),
	}
	if err := e.tracer.TraceTurn(ctx, trace); err != nil {
		log.Warn().
			Err(err).
			Str("conversation_id", working.ConversationID).
			Msg("turn trace failed")
	}

	log.Info().
		Str("conversation_id", working.ConversationID).
		Str("phase", string(finalPhase)).
		Int("model_calls", modelCalls).
		Int("tool_calls", toolCalls).
		Int("order_lines", len(working.Order.Items)).
		Bool("done", working.Done).
		Msg("turn completed")

	return &TurnResult{
		Reply:      reply,
		State:      working,
		Done:       working.Done,
		ModelCalls: modelCalls,
		ToolCalls:  toolCalls,
	}, nil
}

type noopTracer struct{}

func (noopTracer) TraceTurn(context.Context, contractx.TurnTrace) error {
	return nil
}
