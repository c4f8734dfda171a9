package trace

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	contractx "github.com/hotlanelabs/drivethru/agent/contract"
	langfusex "github.com/hotlanelabs/drivethru/pkg/langfuse"
)

type fakeIngester struct {
	batches [][]langfusex.IngestionEvent
	err     error
}

func (f *fakeIngester) Ingest(ctx context.Context, events []langfusex.IngestionEvent) error {
	f.batches = append(f.batches, events)
	return f.err
}

func sampleTurn() contractx.TurnTrace {
	started := time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC)
	return contractx.TurnTrace{
		ConversationID: "conv-1",
		OrderID:        "order-1",
		UserInput:      "one egg mcmuffin",
		AssistantReply: "One Egg McMuffin, anything else?",
		FinalPhase:     contractx.PhaseTurnEnd,
		ModelCalls:     2,
		ToolCalls:      1,
		OrderLines:     1,
		OrderQuantity:  1,
		Reasoning:      []string{"[TOOL_CALL] add_item_to_order: adding the muffin"},
		StartedAt:      started,
		EndedAt:        started.Add(3 * time.Second),
	}
}

func TestNewLangfuseRequiresClient(t *testing.T) {
	t.Parallel()

	if _, err := NewLangfuse(nil, "mistral-small-latest"); err == nil {
		t.Fatal("expected error for nil ingester")
	}
}

func TestTraceTurnEmitsTraceAndGeneration(t *testing.T) {
	t.Parallel()

	sink := &fakeIngester{}
	tracer, err := NewLangfuse(sink, "mistral-small-latest")
	if err != nil {
		t.Fatalf("NewLangfuse() error = %v", err)
	}

	if err := tracer.TraceTurn(context.Background(), sampleTurn()); err != nil {
		t.Fatalf("TraceTurn() error = %v", err)
	}
	if len(sink.batches) != 1 {
		t.Fatalf("batches = %d", len(sink.batches))
	}

	events := sink.batches[0]
	if len(events) != 3 {
		t.Fatalf("expected trace+generation+span, got %d events", len(events))
	}
	if events[0].Type != "trace-create" || events[1].Type != "generation-create" || events[2].Type != "span-create" {
		t.Fatalf("unexpected event types: %s, %s, %s", events[0].Type, events[1].Type, events[2].Type)
	}

	trace, ok := events[0].Body.(langfusex.TraceBody)
	if !ok {
		t.Fatalf("trace body type %T", events[0].Body)
	}
	if trace.Name != "drivethru.turn" || trace.SessionID != "conv-1" {
		t.Fatalf("unexpected trace body: %+v", trace)
	}
	if trace.Input != "one egg mcmuffin" {
		t.Fatalf("trace input = %v", trace.Input)
	}

	gen, ok := events[1].Body.(langfusex.GenerationBody)
	if !ok {
		t.Fatalf("generation body type %T", events[1].Body)
	}
	if gen.TraceID != trace.ID {
		t.Fatal("generation not linked to trace")
	}
	if gen.Model != "mistral-small-latest" || gen.Name != "decide" {
		t.Fatalf("unexpected generation body: %+v", gen)
	}

	span, ok := events[2].Body.(langfusex.SpanBody)
	if !ok {
		t.Fatalf("span body type %T", events[2].Body)
	}
	if span.TraceID != trace.ID || span.Name != "execute_tools" {
		t.Fatalf("unexpected span body: %+v", span)
	}
}

func TestTraceTurnSkipsSpanWithoutToolWork(t *testing.T) {
	t.Parallel()

	sink := &fakeIngester{}
	tracer, err := NewLangfuse(sink, "mistral-small-latest")
	if err != nil {
		t.Fatalf("NewLangfuse() error = %v", err)
	}

	turn := sampleTurn()
	turn.ToolCalls = 0
	if err := tracer.TraceTurn(context.Background(), turn); err != nil {
		t.Fatalf("TraceTurn() error = %v", err)
	}
	if len(sink.batches[0]) != 2 {
		t.Fatalf("expected trace+generation only, got %d events", len(sink.batches[0]))
	}
}

func TestTraceTurnFillsZeroTimes(t *testing.T) {
	t.Parallel()

	sink := &fakeIngester{}
	tracer, err := NewLangfuse(sink, "")
	if err != nil {
		t.Fatalf("NewLangfuse() error = %v", err)
	}

	turn := sampleTurn()
	turn.StartedAt = time.Time{}
	turn.EndedAt = time.Time{}
	if err := tracer.TraceTurn(context.Background(), turn); err != nil {
		t.Fatalf("TraceTurn() error = %v", err)
	}

	gen := sink.batches[0][1].Body.(langfusex.GenerationBody)
	if gen.StartTime == nil || gen.StartTime.IsZero() {
		t.Fatal("zero start time must be filled in")
	}
	if gen.EndTime == nil || gen.EndTime.IsZero() {
		t.Fatal("zero end time must be filled in")
	}
}

func TestTraceTurnIngestFailure(t *testing.T) {
	t.Parallel()

	sink := &fakeIngester{err: errors.New("503 service unavailable")}
	tracer, err := NewLangfuse(sink, "m")
	if err != nil {
		t.Fatalf("NewLangfuse() error = %v", err)
	}

	err = tracer.TraceTurn(context.Background(), sampleTurn())
	if err == nil || !strings.Contains(err.Error(), "ingest turn trace") {
		t.Fatalf("TraceTurn() error = %v", err)
	}
}
