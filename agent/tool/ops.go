package tool

import (
	"fmt"
	"strings"

	contractx "github.com/hotlanelabs/drivethru/agent/contract"
	menux "github.com/hotlanelabs/drivethru/agent/menu"
	orderx "github.com/hotlanelabs/drivethru/agent/order"
)

// The four operations are pure over their inputs and report business
// failures inside the result record, never as Go errors. Order mutation
// is not their job; the reconciliation pass owns that.

const maxLookupCandidates = 5

// Lookup resolves a customer-worded item name against the catalog.
// Ambiguity is a reportable outcome: with several equally plausible
// matches the result carries them as candidates and resolves nothing.
func Lookup(m *menux.Menu, itemName string) contractx.LookupResult {
	name := strings.TrimSpace(itemName)
	if name == "" {
		return contractx.LookupResult{Error: "item_name is required"}
	}

	matches := m.Search(name)
	switch len(matches) {
	case 0:
		return contractx.LookupResult{
			Error: fmt.Sprintf("no menu item matching %q", name),
		}
	case 1:
		item := matches[0]
		return contractx.LookupResult{Found: true, Item: &item}
	default:
		candidates := make([]contractx.LookupCandidate, 0, maxLookupCandidates)
		for _, item := range matches {
			if len(candidates) == maxLookupCandidates {
				break
			}
			candidates = append(candidates, contractx.LookupCandidate{
				ItemID:   item.ItemID,
				Name:     item.Name,
				Category: item.Category,
			})
		}
		return contractx.LookupResult{
			Candidates: candidates,
			Error:      fmt.Sprintf("%d menu items match %q; ask the customer which one they mean", len(matches), name),
		}
	}
}

// AddRequest is the argument object of add_item_to_order.
type AddRequest struct {
	ItemID       string   `json:"item_id"`
	ItemName     string   `json:"item_name"`
	CategoryName string   `json:"category_name"`
	Quantity     int      `json:"quantity"`
	Size         string   `json:"size,omitempty"`
	Modifiers    []string `json:"modifiers,omitempty"`
}

// AddItem validates an add request against the catalog and returns the
// wire record reconciliation folds in later. Identity fields in the
// record are canonicalized from the catalog entry, so a misspelled name
// from the model cannot split an order line in two.
func AddItem(m *menux.Menu, req AddRequest) contractx.AddItemResult {
	reject := func(msg string) contractx.AddItemResult {
		return contractx.AddItemResult{
			Added:        false,
			ItemID:       req.ItemID,
			ItemName:     req.ItemName,
			CategoryName: req.CategoryName,
			Quantity:     req.Quantity,
			Size:         req.Size,
			Error:        msg,
		}
	}

	catalogItem, ok := m.Find(req.ItemID)
	if !ok {
		return reject(fmt.Sprintf("unknown item id %q; use lookup_menu_item first", req.ItemID))
	}

	if req.Quantity < 1 {
		return reject(fmt.Sprintf("quantity must be at least 1, got %d", req.Quantity))
	}

	size, err := menux.ParseSize(req.Size)
	if err != nil {
		return reject(fmt.Sprintf("unknown size %q", req.Size))
	}
	if size == "" {
		size = catalogItem.Size
	}

	selected := make([]menux.Modifier, 0, len(req.Modifiers))
	seen := make(map[string]bool, len(req.Modifiers))
	for _, raw := range req.Modifiers {
		mod, allowed := catalogItem.AllowsModifier(raw)
		if !allowed {
			return reject(fmt.Sprintf("modifier %q is not available for %s", raw, catalogItem.Name))
		}
		if seen[mod.ModifierID] {
			continue
		}
		seen[mod.ModifierID] = true
		selected = append(selected, mod)
	}

	return contractx.AddItemResult{
		Added:        true,
		ItemID:       catalogItem.ItemID,
		ItemName:     catalogItem.Name,
		CategoryName: string(catalogItem.Category),
		Quantity:     req.Quantity,
		Size:         string(size),
		Modifiers:    selected,
	}
}

// CurrentOrder projects the running order into a read-only record.
func CurrentOrder(current *orderx.Order) contractx.OrderSnapshot {
	if current == nil {
		return contractx.OrderSnapshot{}
	}
	return contractx.OrderSnapshot{
		OrderID:       current.OrderID,
		Items:         current.Lines(),
		TotalQuantity: current.TotalQuantity(),
	}
}

// Finalize produces the terminal signal. It mutates nothing; the turn
// controller reacts to the record when it scans the cycle's results.
func Finalize(current *orderx.Order) contractx.FinalizeResult {
	res := contractx.FinalizeResult{
		Finalized: true,
		Message:   "order confirmed; send the customer to the payment window",
	}
	if current != nil {
		res.OrderID = current.OrderID
	}
	return res
}
