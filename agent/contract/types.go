package contract

import (
	"time"

	"github.com/cloudwego/eino/schema"

	menux "github.com/hotlanelabs/drivethru/agent/menu"
)

// Tool names the model may request. These are the only operations the
// agent can perform; anything else in a decision is reported back as an
// unavailable-tool result.
const (
	ToolLookupMenuItem  = "lookup_menu_item"
	ToolAddItemToOrder  = "add_item_to_order"
	ToolGetCurrentOrder = "get_current_order"
	ToolFinalizeOrder   = "finalize_order"
)

// TurnPhase names a turn-controller state, for logging and tracing.
type TurnPhase string

const (
	PhaseAwaitingModel    TurnPhase = "awaiting_model"
	PhaseExecutingTools   TurnPhase = "executing_tools"
	PhaseReconciling      TurnPhase = "reconciling"
	PhaseTurnEnd          TurnPhase = "turn_end"
	PhaseConversationDone TurnPhase = "conversation_done"
)

// ToolRequest is one operation requested by the model in a decision.
// Arguments is the raw JSON argument object as produced by the provider.
type ToolRequest struct {
	CallID    string `json:"call_id"`
	Name      string `json:"name"`
	Arguments string `json:"arguments"`
}

// ToolExecution pairs a request with the JSON payload its execution
// produced, in request order.
type ToolExecution struct {
	CallID  string `json:"call_id"`
	Name    string `json:"name"`
	Payload string `json:"payload"`
}

// ModelOutput is one model decision: assistant text plus the ordered
// operations it requested. Raw carries the provider message verbatim so
// it can be appended to the dialogue log unchanged.
type ModelOutput struct {
	Text       string
	Operations []ToolRequest
	Raw        *schema.Message
}

// HasOperations reports whether the decision requested any tool work.
func (o *ModelOutput) HasOperations() bool {
	return o != nil && len(o.Operations) > 0
}

// LookupCandidate is one "did you mean" suggestion.
type LookupCandidate struct {
	ItemID   string         `json:"item_id"`
	Name     string         `json:"name"`
	Category menux.Category `json:"category"`
}

// LookupResult is the lookup_menu_item payload. Exactly one of Item or
// Candidates is populated; ambiguity is reported, never auto-resolved.
type LookupResult struct {
	Found      bool              `json:"found"`
	Item       *menux.Item       `json:"item,omitempty"`
	Candidates []LookupCandidate `json:"candidates,omitempty"`
	Error      string            `json:"error,omitempty"`
}

// AddItemResult is the add_item_to_order payload. The field layout is the
// stable wire shape reconciliation depends on; validation failures are
// expressed as added=false with an error string, never as a Go error.
type AddItemResult struct {
	Added        bool             `json:"added"`
	ItemID       string           `json:"item_id"`
	ItemName     string           `json:"item_name"`
	CategoryName string           `json:"category_name"`
	Quantity     int              `json:"quantity"`
	Size         string           `json:"size"`
	Modifiers    []menux.Modifier `json:"modifiers"`
	Error        string           `json:"error,omitempty"`
}

// OrderSnapshot is the get_current_order payload: a read-only projection
// of the running order.
type OrderSnapshot struct {
	OrderID       string       `json:"order_id"`
	Items         []menux.Item `json:"items"`
	TotalQuantity int          `json:"total_quantity"`
}

// FinalizeResult is the finalize_order payload: the terminal signal the
// turn controller watches for. It carries no mutation of its own.
type FinalizeResult struct {
	Finalized bool   `json:"finalized"`
	OrderID   string `json:"order_id,omitempty"`
	Message   string `json:"message,omitempty"`
}

// TurnTrace summarizes one completed turn for the tracing sink.
type TurnTrace struct {
	ConversationID string
	OrderID        string
	UserInput      string
	AssistantReply string
	FinalPhase     TurnPhase
	ModelCalls     int
	ToolCalls      int
	OrderLines     int
	OrderQuantity  int
	Reasoning      []string
	StartedAt      time.Time
	EndedAt        time.Time
}
