package turnnode

import (
	"fmt"

	contractx "github.com/hotlanelabs/drivethru/agent/contract"
)

// FinishDirect closes a cycle whose decision requested no operations:
// a normal end of turn. An empty reply here means the model produced
// neither text nor work, which fails the turn rather than surfacing
// silence to the customer.
func FinishDirect(cs *CycleState) (CycleOutput, error) {
	if cs == nil || cs.State == nil || cs.Decision == nil {
		return CycleOutput{}, fmt.Errorf("%w: cycle state is incomplete", ErrInvalidInput)
	}
	if cs.Decision.Text == "" {
		return CycleOutput{}, fmt.Errorf("%w: %v", contractx.ErrValidation, ErrEmptyReply)
	}

	return CycleOutput{
		State:      cs.State,
		Route:      RouteTurnEnd,
		Phase:      contractx.PhaseTurnEnd,
		ModelCalls: cs.ModelCalls,
		ToolCalls:  cs.ToolCalls,
	}, nil
}

// FinishReconciled closes a cycle that went through tool execution and
// reconciliation: either the conversation is done (finalize signal seen)
// or the model gets another look at the updated order.
func FinishReconciled(cs *CycleState) (CycleOutput, error) {
	if cs == nil || cs.State == nil {
		return CycleOutput{}, fmt.Errorf("%w: cycle state is incomplete", ErrInvalidInput)
	}

	out := CycleOutput{
		State:      cs.State,
		Route:      RouteLoop,
		Phase:      cs.Phase,
		ModelCalls: cs.ModelCalls,
		ToolCalls:  cs.ToolCalls,
	}
	if cs.State.Done {
		out.Route = RouteDone
		out.Phase = contractx.PhaseConversationDone
	}
	return out, nil
}

// RouteAfterDecide picks the branch target: operations requested means
// tool execution, otherwise the turn ends with the direct reply.
func RouteAfterDecide(cs *CycleState) (string, error) {
	if cs == nil || cs.Decision == nil {
		return "", fmt.Errorf("%w: no decision to route", ErrInvalidInput)
	}
	if cs.Decision.HasOperations() {
		return "execute_tools", nil
	}
	return "finish_direct", nil
}
