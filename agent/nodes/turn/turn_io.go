package turnnode

import (
	"errors"
	"fmt"
	"time"

	contractx "github.com/hotlanelabs/drivethru/agent/contract"
	statex "github.com/hotlanelabs/drivethru/agent/state"
)

var (
	ErrInvalidInput = errors.New("turn input is invalid")
	ErrEmptyReply   = errors.New("model produced an empty reply")
)

// Route is the cycle outcome the engine switches on: loop re-invokes the
// model with the updated order, turn_end hands control back to the
// caller, done terminates the conversation.
type Route string

const (
	RouteLoop    Route = "loop"
	RouteTurnEnd Route = "turn_end"
	RouteDone    Route = "done"
)

// CycleInput starts one model-decision cycle. State is the turn's working
// copy; the engine owns rollback on failure.
type CycleInput struct {
	State *statex.ConversationState
	Now   time.Time
}

// CycleOutput reports where the cycle ended up.
type CycleOutput struct {
	State      *statex.ConversationState
	Route      Route
	Phase      contractx.TurnPhase
	ModelCalls int
	ToolCalls  int
}

// CycleState is the working payload threaded through the cycle's nodes.
type CycleState struct {
	State *statex.ConversationState
	Now   time.Time

	SystemPrompt string
	Decision     *contractx.ModelOutput
	Executions   []contractx.ToolExecution

	Phase      contractx.TurnPhase
	ModelCalls int
	ToolCalls  int
}

// ValidateCycle guards the graph entry: a cycle needs a live, non-terminal
// conversation bound to a catalog.
func ValidateCycle(in CycleInput) (*CycleState, error) {
	if in.State == nil {
		return nil, fmt.Errorf("%w: state is nil", ErrInvalidInput)
	}
	if err := in.State.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if in.State.Menu == nil {
		return nil, fmt.Errorf("%w: no catalog bound to conversation", ErrInvalidInput)
	}
	if in.State.Done {
		return nil, contractx.ErrConversationDone
	}

	now := in.Now
	if now.IsZero() {
		now = time.Now()
	}

	return &CycleState{
		State: in.State,
		Now:   now.UTC(),
		Phase: contractx.PhaseAwaitingModel,
	}, nil
}
