package order

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	menux "github.com/hotlanelabs/drivethru/agent/menu"
)

// Order is the running drive-thru order. It is never mutated in place:
// every reconciliation pass produces a fresh value via Apply, so any
// holder of a previous Order still sees a consistent snapshot.
type Order struct {
	OrderID string       `json:"order_id"`
	Items   []menux.Item `json:"items"`
}

// New creates an empty order with a generated id.
func New() *Order {
	return &Order{OrderID: uuid.NewString()}
}

// NewWithID creates an empty order with a caller-chosen id.
func NewWithID(id string) *Order {
	return &Order{OrderID: strings.TrimSpace(id)}
}

// Apply folds validated order lines into the order and returns the result
// as a new value. Lines sharing a configuration with an existing line (or
// with each other) collapse into a single line with summed quantity;
// existing lines keep their position, new configurations append in batch
// order. The receiver is left untouched.
func (o *Order) Apply(lines ...menux.Item) (*Order, error) {
	next := &Order{
		OrderID: o.OrderID,
		Items:   make([]menux.Item, len(o.Items)),
	}
	copy(next.Items, o.Items)

	index := make(map[string]int, len(next.Items))
	for idx, item := range next.Items {
		index[item.ConfigKey()] = idx
	}

	for _, line := range lines {
		key := line.ConfigKey()
		if idx, ok := index[key]; ok {
			merged, err := next.Items[idx].Merge(line)
			if err != nil {
				return nil, fmt.Errorf("fold order line: %w", err)
			}
			next.Items[idx] = merged
			continue
		}
		index[key] = len(next.Items)
		next.Items = append(next.Items, line)
	}

	return next, nil
}

// Lines returns a copy of the order lines.
func (o *Order) Lines() []menux.Item {
	out := make([]menux.Item, len(o.Items))
	copy(out, o.Items)
	return out
}

// Empty reports whether the order has no lines.
func (o *Order) Empty() bool { return len(o.Items) == 0 }

// TotalQuantity sums quantities across all lines.
func (o *Order) TotalQuantity() int {
	total := 0
	for _, item := range o.Items {
		total += item.Quantity
	}
	return total
}

// RenderText projects the order into the plain-text block used by the
// system prompt and the console summary.
func (o *Order) RenderText() string {
	if o.Empty() {
		return "(empty)"
	}
	var b strings.Builder
	for _, item := range o.Items {
		b.WriteString("- ")
		b.WriteString(item.Label())
		b.WriteByte('\n')
	}
	return strings.TrimRight(b.String(), "\n")
}
