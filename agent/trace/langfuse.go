package trace

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	contractx "github.com/hotlanelabs/drivethru/agent/contract"
	langfusex "github.com/hotlanelabs/drivethru/pkg/langfuse"
)

// Ingester submits observation batches. Satisfied by the langfuse client.
type Ingester interface {
	Ingest(ctx context.Context, events []langfusex.IngestionEvent) error
}

// Langfuse maps completed turns onto langfuse observations: one trace per
// turn, one generation summarizing the model work, and a tool span when
// the turn executed any operations.
type Langfuse struct {
	client Ingester
	model  string
}

var _ contractx.Tracer = (*Langfuse)(nil)

func NewLangfuse(client Ingester, model string) (*Langfuse, error) {
	if client == nil {
		return nil, errors.New("langfuse ingester is required")
	}
	return &Langfuse{client: client, model: model}, nil
}

func (t *Langfuse) TraceTurn(ctx context.Context, turn contractx.TurnTrace) error {
	endedAt := turn.EndedAt
	if endedAt.IsZero() {
		endedAt = time.Now().UTC()
	}
	startedAt := turn.StartedAt
	if startedAt.IsZero() {
		startedAt = endedAt
	}

	traceID := uuid.NewString()
	metadata := map[string]any{
		"order_id":       turn.OrderID,
		"final_phase":    string(turn.FinalPhase),
		"model_calls":    turn.ModelCalls,
		"tool_calls":     turn.ToolCalls,
		"order_lines":    turn.OrderLines,
		"order_quantity": turn.OrderQuantity,
	}

	events := []langfusex.IngestionEvent{
		{
			ID:        uuid.NewString(),
			Type:      "trace-create",
			Timestamp: endedAt,
			Body: langfusex.TraceBody{
				ID:        traceID,
				Name:      "drivethru.turn",
				SessionID: turn.ConversationID,
				Input:     turn.UserInput,
				Output:    turn.AssistantReply,
				Metadata:  metadata,
				Tags:      []string{"drive-thru"},
			},
		},
		{
			ID:        uuid.NewString(),
			Type:      "generation-create",
			Timestamp: endedAt,
			Body: langfusex.GenerationBody{
				ID:        uuid.NewString(),
				TraceID:   traceID,
				Name:      "decide",
				Model:     t.model,
				StartTime: &startedAt,
				EndTime:   &endedAt,
				Input:     turn.UserInput,
				Output:    turn.AssistantReply,
				Metadata: map[string]any{
					"model_calls": turn.ModelCalls,
					"reasoning":   turn.Reasoning,
				},
			},
		},
	}

	if turn.ToolCalls > 0 {
		events = append(events, langfusex.IngestionEvent{
			ID:        uuid.NewString(),
			Type:      "span-create",
			Timestamp: endedAt,
			Body: langfusex.SpanBody{
				ID:        uuid.NewString(),
				TraceID:   traceID,
				Name:      "execute_tools",
				StartTime: &startedAt,
				EndTime:   &endedAt,
				Metadata: map[string]any{
					"tool_calls": turn.ToolCalls,
				},
			},
		})
	}

	if err := t.client.Ingest(ctx, events); err != nil {
		return fmt.Errorf("ingest turn trace: %w", err)
	}
	return nil
}
