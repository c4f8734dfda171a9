package turnnode

import (
	"context"
	"fmt"

	contractx "github.com/hotlanelabs/drivethru/agent/contract"
	promptx "github.com/hotlanelabs/drivethru/agent/prompt"
)

// ComposePrompt renders the system prompt for this cycle. The template is
// re-rendered on every model call so the model always sees the live order,
// not the one from the start of the turn.
func ComposePrompt(ctx context.Context, cs *CycleState, source contractx.PromptSource) (*CycleState, error) {
	if cs == nil || cs.State == nil {
		return nil, fmt.Errorf("%w: cycle state is nil", ErrInvalidInput)
	}

	template, err := source.SystemTemplate(ctx)
	if err != nil {
		return nil, err
	}

	cs.SystemPrompt = promptx.Render(template, cs.State.Menu, cs.State.Order)
	return cs, nil
}
