package turnnode

import (
	"context"
	"fmt"

	"github.com/cloudwego/eino/schema"
	"github.com/rs/zerolog/log"

	contractx "github.com/hotlanelabs/drivethru/agent/contract"
)

// ExecuteTools runs the decision's requested operations and appends their
// result records to the dialogue log, in request order, right after the
// decision point. The order itself is untouched here; reconciliation owns
// mutation.
func ExecuteTools(ctx context.Context, cs *CycleState, runner contractx.ToolRunner) (*CycleState, error) {
	if cs == nil || cs.State == nil || cs.Decision == nil {
		return nil, fmt.Errorf("%w: cycle state is incomplete", ErrInvalidInput)
	}

	executions, err := runner.Run(ctx, cs.Decision.Operations, cs.State.Order)
	if err != nil {
		return nil, err
	}

	for _, exec := range executions {
		cs.State.AppendMessages(&schema.Message{
			Role:       schema.Tool,
			ToolCallID: exec.CallID,
			Content:    exec.Payload,
		})
	}

	cs.Executions = executions
	cs.ToolCalls += len(executions)
	cs.Phase = contractx.PhaseReconciling

	log.Debug().
		Str("conversation_id", cs.State.ConversationID).
		Int("executed", len(executions)).
		Msg("tool batch executed")

	return cs, nil
}
