package turnnode

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/cloudwego/eino/schema"
	"github.com/rs/zerolog/log"

	contractx "github.com/hotlanelabs/drivethru/agent/contract"
	menux "github.com/hotlanelabs/drivethru/agent/menu"
)

// Reconcile folds the cycle's tool results into the order. It reads the
// dialogue log, not the in-memory execution batch, so the log stays the
// single source of truth: only records after the latest decision point
// are in scope, which makes re-running a turn on old history a no-op
// rather than a double-application.
//
// Per-record failures (unparseable payload, stale item id, invalid
// fields) skip that record and log it; they never abort the pass. The
// order is replaced as a whole value at the end, never edited in place,
// so a cancelled cycle leaves the previous order fully intact.
func Reconcile(cs *CycleState) (*CycleState, error) {
	if cs == nil || cs.State == nil {
		return nil, fmt.Errorf("%w: cycle state is nil", ErrInvalidInput)
	}

	st := cs.State
	callNames := decisionCallNames(st.Messages, st.Cursor)

	var lines []menux.Item
	sawFinalize := false

	for _, msg := range st.ScopedMessages() {
		if msg == nil || msg.Role != schema.Tool {
			continue
		}

		switch callNames[msg.ToolCallID] {
		case contractx.ToolAddItemToOrder:
			line, ok := addResultToLine(st.Menu, msg.Content)
			if ok {
				lines = append(lines, line)
			}

		case contractx.ToolFinalizeOrder:
			var res contractx.FinalizeResult
			if err := json.Unmarshal([]byte(msg.Content), &res); err != nil {
				log.Warn().
					Str("conversation_id", st.ConversationID).
					Err(err).
					Msg("skipping malformed finalize result")
				continue
			}
			if res.Finalized {
				sawFinalize = true
			}
		}
	}

	next, err := st.Order.Apply(lines...)
	if err != nil {
		return nil, err
	}
	st.Order = next

	log.Info().
		Str("conversation_id", st.ConversationID).
		Str("order_id", next.OrderID).
		Int("folded_lines", len(lines)).
		Int("order_lines", len(next.Items)).
		Int("order_quantity", next.TotalQuantity()).
		Bool("finalized", sawFinalize).
		Msg("order reconciled")

	if sawFinalize {
		st.Finalize(cs.Now)
		cs.Phase = contractx.PhaseConversationDone
	} else {
		cs.Phase = contractx.PhaseReconciling
	}

	return cs, nil
}

// decisionCallNames maps tool-call ids to operation names from the latest
// decision message, the assistant message immediately before the cursor.
// Earlier decisions are out of scope on purpose: their ids must never
// attribute names to this cycle's records.
func decisionCallNames(messages []*schema.Message, cursor int) map[string]string {
	names := make(map[string]string)
	for i := cursor - 1; i >= 0; i-- {
		msg := messages[i]
		if msg == nil || msg.Role != schema.Assistant {
			continue
		}
		if len(msg.ToolCalls) == 0 {
			continue
		}
		for _, call := range msg.ToolCalls {
			names[call.ID] = call.Function.Name
		}
		return names
	}
	return names
}

// addResultToLine turns one added=true record into an order line,
// resolving the referenced catalog item for its default size. A record
// that fails to parse or references an unknown item is skipped and
// logged.
func addResultToLine(m *menux.Menu, payload string) (menux.Item, bool) {
	var rec contractx.AddItemResult
	if err := json.Unmarshal([]byte(payload), &rec); err != nil {
		log.Warn().Err(err).Msg("skipping malformed add result")
		return menux.Item{}, false
	}
	if !rec.Added {
		return menux.Item{}, false
	}
	if strings.TrimSpace(rec.ItemID) == "" {
		log.Warn().Msg("skipping add result without item id")
		return menux.Item{}, false
	}

	catalogItem, ok := m.Find(rec.ItemID)
	if !ok {
		log.Warn().
			Str("item_id", rec.ItemID).
			Msg("skipping add result for item no longer in catalog")
		return menux.Item{}, false
	}

	line := menux.Item{
		ItemID:      rec.ItemID,
		Name:        rec.ItemName,
		Category:    menux.Category(rec.CategoryName),
		DefaultSize: catalogItem.Size,
		Size:        menux.Size(rec.Size),
		Quantity:    rec.Quantity,
		Modifiers:   rec.Modifiers,
	}

	normalized, err := line.Normalize()
	if err != nil {
		log.Warn().
			Str("item_id", rec.ItemID).
			Err(err).
			Msg("skipping invalid add result")
		return menux.Item{}, false
	}
	return normalized, true
}
