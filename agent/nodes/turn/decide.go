package turnnode

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"

	contractx "github.com/hotlanelabs/drivethru/agent/contract"
)

// Decide asks the model for the next move and appends its message to the
// dialogue log. When the decision requests operations, the state cursor
// advances: that append IS the decision point every later scope scan is
// measured against.
func Decide(ctx context.Context, cs *CycleState, adapter contractx.ModelAdapter) (*CycleState, error) {
	if cs == nil || cs.State == nil {
		return nil, fmt.Errorf("%w: cycle state is nil", ErrInvalidInput)
	}

	out, err := adapter.Decide(ctx, cs.SystemPrompt, cs.State.Messages)
	if err != nil {
		return nil, err
	}
	if out == nil || out.Raw == nil {
		return nil, fmt.Errorf("%w: adapter returned no message", contractx.ErrModelInvoke)
	}

	reasoning, visible := ExtractReasoning(out.Text)
	out.Text = visible
	out.Raw.Content = visible

	cs.State.AppendMessages(out.Raw)
	cs.Decision = out
	cs.ModelCalls++

	if out.HasOperations() {
		cs.State.MarkDecisionPoint()
		cs.State.AppendReasoning(toolCallEntry(out.Operations, reasoning))
		cs.Phase = contractx.PhaseExecutingTools
	} else {
		cs.State.AppendReasoning(directEntry(reasoning, visible))
		cs.Phase = contractx.PhaseTurnEnd
	}

	log.Debug().
		Str("conversation_id", cs.State.ConversationID).
		Int("operations", len(out.Operations)).
		Str("phase", string(cs.Phase)).
		Msg("model decision recorded")

	return cs, nil
}

// toolCallEntry formats a decision log line like
// "[TOOL_CALL] lookup_menu_item: <the model's reasoning>". Without
// extracted reasoning it falls back to an argument summary so the log
// still says what was requested.
func toolCallEntry(ops []contractx.ToolRequest, reasoning string) string {
	names := make([]string, 0, len(ops))
	for _, op := range ops {
		names = append(names, op.Name)
	}
	detail := strings.TrimSpace(reasoning)
	if detail == "" {
		summaries := make([]string, 0, len(ops))
		for _, op := range ops {
			summaries = append(summaries, op.Name+"("+op.Arguments+")")
		}
		detail = strings.Join(summaries, "; ")
	}
	return "[TOOL_CALL] " + strings.Join(names, ", ") + ": " + detail
}

// directEntry formats a no-tools decision log line; a missing reasoning
// tag degrades to the opening of the reply itself.
func directEntry(reasoning, visible string) string {
	detail := strings.TrimSpace(reasoning)
	if detail == "" {
		detail = truncate(visible, 80)
	}
	return "[DIRECT] " + detail
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max]
}
