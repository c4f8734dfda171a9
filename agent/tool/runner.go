package tool

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"golang.org/x/sync/errgroup"

	contractx "github.com/hotlanelabs/drivethru/agent/contract"
	menux "github.com/hotlanelabs/drivethru/agent/menu"
	orderx "github.com/hotlanelabs/drivethru/agent/order"
)

// Runner executes one decision's worth of tool requests. Operations are
// pure over the shared catalog and the order snapshot, so they run
// concurrently; executions are delivered in request order regardless.
type Runner struct {
	menu *menux.Menu
}

var _ contractx.ToolRunner = (*Runner)(nil)

func NewRunner(m *menux.Menu) (*Runner, error) {
	if m == nil {
		return nil, errors.New("tool runner requires a menu")
	}
	return &Runner{menu: m}, nil
}

func (r *Runner) Run(ctx context.Context, calls []contractx.ToolRequest, current *orderx.Order) ([]contractx.ToolExecution, error) {
	if len(calls) == 0 {
		return nil, nil
	}

	executions := make([]contractx.ToolExecution, len(calls))
	g, gctx := errgroup.WithContext(ctx)

	for i, call := range calls {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			payload, err := json.Marshal(r.dispatch(call, current))
			if err != nil {
				return fmt.Errorf("%w: marshal %s payload: %v", contractx.ErrToolExec, call.Name, err)
			}
			executions[i] = contractx.ToolExecution{
				CallID:  call.CallID,
				Name:    call.Name,
				Payload: string(payload),
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return executions, nil
}

// dispatch maps a request to its operation. Argument decoding failures
// are business outcomes: the model sent something unusable and gets told
// so in the result record.
func (r *Runner) dispatch(call contractx.ToolRequest, current *orderx.Order) any {
	switch call.Name {
	case contractx.ToolLookupMenuItem:
		var args struct {
			ItemName string `json:"item_name"`
		}
		if err := unmarshalArgs(call.Arguments, &args); err != nil {
			return contractx.LookupResult{Error: fmt.Sprintf("invalid arguments: %v", err)}
		}
		return Lookup(r.menu, args.ItemName)

	case contractx.ToolAddItemToOrder:
		var args AddRequest
		if err := unmarshalArgs(call.Arguments, &args); err != nil {
			return contractx.AddItemResult{Added: false, Error: fmt.Sprintf("invalid arguments: %v", err)}
		}
		return AddItem(r.menu, args)

	case contractx.ToolGetCurrentOrder:
		return CurrentOrder(current)

	case contractx.ToolFinalizeOrder:
		return Finalize(current)

	default:
		return map[string]string{
			"error": fmt.Sprintf("tool %q is not available", call.Name),
		}
	}
}

func unmarshalArgs(raw string, dst any) error {
	if raw == "" {
		return nil
	}
	return json.Unmarshal([]byte(raw), dst)
}
