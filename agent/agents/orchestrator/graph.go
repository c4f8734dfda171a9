package orchestrator

import (
	"context"
	"fmt"

	"github.com/cloudwego/eino/compose"

	turnnode "github.com/hotlanelabs/drivethru/agent/nodes/turn"
)

// compileTurnGraph wires one model-decision cycle. The graph is acyclic;
// looping back for another decision after reconciliation is the engine's
// job, which keeps the turn budget enforceable in one place.
func (e *Engine) compileTurnGraph(
	ctx context.Context,
) (compose.Runnable[turnnode.CycleInput, turnnode.CycleOutput], error) {
	graph := compose.NewGraph[turnnode.CycleInput, turnnode.CycleOutput]()

	if err := graph.AddLambdaNode("validate_cycle",
		compose.InvokableLambda(func(ctx context.Context, in turnnode.CycleInput) (*turnnode.CycleState, error) {
			return turnnode.ValidateCycle(in)
		}),
	); err != nil {
		return nil, fmt.Errorf("add node validate_cycle: %w", err)
	}

	if err := graph.AddLambdaNode("compose_prompt",
		compose.InvokableLambda(func(ctx context.Context, in *turnnode.CycleState) (*turnnode.CycleState, error) {
			return turnnode.ComposePrompt(ctx, in, e.prompts)
		}),
	); err != nil {
		return nil, fmt.Errorf("add node compose_prompt: %w", err)
	}

	if err := graph.AddLambdaNode("decide",
		compose.InvokableLambda(func(ctx context.Context, in *turnnode.CycleState) (*turnnode.CycleState, error) {
			return turnnode.Decide(ctx, in, e.adapter)
		}),
	); err != nil {
		return nil, fmt.Errorf("add node decide: %w", err)
	}

	if err := graph.AddLambdaNode("execute_tools",
		compose.InvokableLambda(func(ctx context.Context, in *turnnode.CycleState) (*turnnode.CycleState, error) {
			return turnnode.ExecuteTools(ctx, in, e.tools)
		}),
	); err != nil {
		return nil, fmt.Errorf("add node execute_tools: %w", err)
	}

	if err := graph.AddLambdaNode("reconcile",
		compose.InvokableLambda(func(ctx context.Context, in *turnnode.CycleState) (*turnnode.CycleState, error) {
			return turnnode.Reconcile(in)
		}),
	); err != nil {
		return nil, fmt.Errorf("add node reconcile: %w", err)
	}

	if err := graph.AddLambdaNode("finish_reconciled",
		compose.InvokableLambda(func(ctx context.Context, in *turnnode.CycleState) (turnnode.CycleOutput, error) {
			return turnnode.FinishReconciled(in)
		}),
	); err != nil {
		return nil, fmt.Errorf("add node finish_reconciled: %w", err)
	}

	if err := graph.AddLambdaNode("finish_direct",
		compose.InvokableLambda(func(ctx context.Context, in *turnnode.CycleState) (turnnode.CycleOutput, error) {
			return turnnode.FinishDirect(in)
		}),
	); err != nil {
		return nil, fmt.Errorf("add node finish_direct: %w", err)
	}

	branch := compose.NewGraphBranch(
		func(ctx context.Context, in *turnnode.CycleState) (string, error) {
			return turnnode.RouteAfterDecide(in)
		},
		map[string]bool{
			"execute_tools": true,
			"finish_direct": true,
		},
	)
	if err := graph.AddBranch("decide", branch); err != nil {
		return nil, fmt.Errorf("add branch after decide: %w", err)
	}

	edges := [][2]string{
		{compose.START, "validate_cycle"},
		{"validate_cycle", "compose_prompt"},
		{"compose_prompt", "decide"},
		{"execute_tools", "reconcile"},
		{"reconcile", "finish_reconciled"},
		{"finish_reconciled", compose.END},
		{"finish_direct", compose.END},
	}

	for _, edge := range edges {
		if err := graph.AddEdge(edge[0], edge[1]); err != nil {
			return nil, fmt.Errorf("add edge %s->%s: %w", edge[0], edge[1], err)
		}
	}

	runner, err := graph.Compile(ctx, compose.WithGraphName("drivethru.turn_cycle"))
	if err != nil {
		return nil, fmt.Errorf("compile turn graph: %w", err)
	}
	return runner, nil
}
