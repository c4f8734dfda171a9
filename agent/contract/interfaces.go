package contract

import (
	"context"

	"github.com/cloudwego/eino/schema"

	orderx "github.com/hotlanelabs/drivethru/agent/order"
)

// ModelAdapter produces the next agent decision. The system prompt is
// passed separately from the dialogue log because it is re-rendered with
// the live order before every call and never stored in the log.
type ModelAdapter interface {
	Decide(ctx context.Context, systemPrompt string, log []*schema.Message) (*ModelOutput, error)
}

// ToolRunner executes the operations of one decision against immutable
// snapshots of the catalog and the order. Executions come back in request
// order; business failures live inside the payloads, so the error return
// is reserved for cancellation and programmer-error cases.
type ToolRunner interface {
	Run(ctx context.Context, calls []ToolRequest, current *orderx.Order) ([]ToolExecution, error)
}

// PromptSource supplies the system-prompt template, before placeholder
// rendering.
type PromptSource interface {
	SystemTemplate(ctx context.Context) (string, error)
}

// Tracer receives one TurnTrace per completed turn. Implementations must
// be best-effort: a tracing failure never fails the turn.
type Tracer interface {
	TraceTurn(ctx context.Context, trace TurnTrace) error
}
