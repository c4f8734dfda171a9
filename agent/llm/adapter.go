package llm

import (
	"context"
	"fmt"
	"strings"

	einomodel "github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"github.com/rs/zerolog/log"

	contractx "github.com/hotlanelabs/drivethru/agent/contract"
)

// Adapter exposes a tool-calling chat model as the decision interface the
// turn controller consumes.
type Adapter struct {
	model einomodel.ToolCallingChatModel
}

var _ contractx.ModelAdapter = (*Adapter)(nil)

// NewAdapter binds the tool catalog to the model once, at construction.
func NewAdapter(m einomodel.ToolCallingChatModel, tools []*schema.ToolInfo) (*Adapter, error) {
	if m == nil {
		return nil, fmt.Errorf("%w: chat model is nil", contractx.ErrValidation)
	}
	if len(tools) > 0 {
		bound, err := m.WithTools(tools)
		if err != nil {
			return nil, fmt.Errorf("%w: bind tools: %v", contractx.ErrModelInvoke, err)
		}
		m = bound
	}
	return &Adapter{model: m}, nil
}

// Decide sends the rendered system prompt plus the dialogue log to the
// model and maps its reply into a decision.
func (a *Adapter) Decide(ctx context.Context, systemPrompt string, dialogue []*schema.Message) (*contractx.ModelOutput, error) {
	messages := make([]*schema.Message, 0, len(dialogue)+1)
	if strings.TrimSpace(systemPrompt) != "" {
		messages = append(messages, schema.SystemMessage(systemPrompt))
	}
	messages = append(messages, dialogue...)

	msg, err := a.model.Generate(ctx, messages)
	if err != nil {
		return nil, fmt.Errorf("%w: generate: %v", contractx.ErrModelInvoke, err)
	}
	if msg == nil {
		return nil, fmt.Errorf("%w: provider returned no message", contractx.ErrModelInvoke)
	}

	ops := toToolRequests(msg)
	log.Debug().
		Int("operations", len(ops)).
		Int("dialogue_len", len(dialogue)).
		Msg("model decision received")

	return &contractx.ModelOutput{
		Text:       msg.Content,
		Operations: ops,
		Raw:        msg,
	}, nil
}

// toToolRequests maps the provider tool calls onto operation requests.
// Some providers omit call ids; those are synthesized and written back
// into the message so the dialogue log and the requests carry the same
// ids, which later attribution depends on.
func toToolRequests(msg *schema.Message) []contractx.ToolRequest {
	if len(msg.ToolCalls) == 0 {
		return nil
	}
	out := make([]contractx.ToolRequest, 0, len(msg.ToolCalls))
	for i := range msg.ToolCalls {
		call := &msg.ToolCalls[i]
		if strings.TrimSpace(call.ID) == "" {
			call.ID = fmt.Sprintf("call-%d", i)
		}
		out = append(out, contractx.ToolRequest{
			CallID:    call.ID,
			Name:      call.Function.Name,
			Arguments: call.Function.Arguments,
		})
	}
	return out
}
