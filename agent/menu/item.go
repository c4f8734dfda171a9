package menu

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	// ErrConfigMismatch signals a merge or comparison between items of
	// different configurations. Callers are expected to key by ConfigKey
	// before merging, so hitting this is a logic bug, not a business case.
	ErrConfigMismatch = errors.New("item configuration mismatch")
	ErrInvalidItem    = errors.New("invalid item")
)

// Size is a serving size. An order line always carries a concrete size;
// an empty size resolves to the item's default at normalization time.
type Size string

const (
	SizeSnack   Size = "snack"
	SizeSmall   Size = "small"
	SizeMedium  Size = "medium"
	SizeLarge   Size = "large"
	SizeRegular Size = "regular"
)

var knownSizes = map[Size]bool{
	SizeSnack:   true,
	SizeSmall:   true,
	SizeMedium:  true,
	SizeLarge:   true,
	SizeRegular: true,
}

func (s Size) Valid() bool { return knownSizes[s] }

// ParseSize normalizes a free-form size string. Empty input is allowed and
// stays empty: it means "use the item default".
func ParseSize(raw string) (Size, error) {
	trimmed := Size(strings.ToLower(strings.TrimSpace(raw)))
	if trimmed == "" {
		return "", nil
	}
	if !trimmed.Valid() {
		return "", fmt.Errorf("%w: unknown size %q", ErrInvalidItem, raw)
	}
	return trimmed, nil
}

// Category is a menu section.
type Category string

const (
	CategoryBreakfast       Category = "breakfast"
	CategoryBeefPork        Category = "beef-pork"
	CategoryChickenFish     Category = "chicken-fish"
	CategorySalads          Category = "salads"
	CategorySnacksSides     Category = "snacks-sides"
	CategoryDesserts        Category = "desserts"
	CategoryBeverages       Category = "beverages"
	CategoryCoffeeTea       Category = "coffee-tea"
	CategorySmoothiesShakes Category = "smoothies-shakes"
)

var knownCategories = map[Category]bool{
	CategoryBreakfast:       true,
	CategoryBeefPork:        true,
	CategoryChickenFish:     true,
	CategorySalads:          true,
	CategorySnacksSides:     true,
	CategoryDesserts:        true,
	CategoryBeverages:       true,
	CategoryCoffeeTea:       true,
	CategorySmoothiesShakes: true,
}

func (c Category) Valid() bool { return knownCategories[c] }

// Modifier is an item customization. Value type; identity is the full
// (modifier_id, name) pair.
type Modifier struct {
	ModifierID string `json:"modifier_id"`
	Name       string `json:"name"`
}

// Item is one line in a menu or an order. Menu-side items carry
// AvailableModifiers (what a customer may pick); order-side items carry
// Modifiers (what the customer picked) and leave AvailableModifiers empty.
type Item struct {
	ItemID             string     `json:"item_id"`
	Name               string     `json:"name"`
	Category           Category   `json:"category"`
	DefaultSize        Size       `json:"default_size,omitempty"`
	Size               Size       `json:"size,omitempty"`
	Quantity           int        `json:"quantity"`
	Modifiers          []Modifier `json:"modifiers,omitempty"`
	AvailableModifiers []Modifier `json:"available_modifiers,omitempty"`
}

// Normalize applies construction-time defaulting: a missing size falls back
// to the item default, then to regular; a missing quantity means one.
// Returns ErrInvalidItem when required identity fields are absent or the
// resolved values fall outside the enums.
func (i Item) Normalize() (Item, error) {
	if strings.TrimSpace(i.ItemID) == "" {
		return Item{}, fmt.Errorf("%w: item_id is required", ErrInvalidItem)
	}
	if strings.TrimSpace(i.Name) == "" {
		return Item{}, fmt.Errorf("%w: name is required", ErrInvalidItem)
	}
	if !i.Category.Valid() {
		return Item{}, fmt.Errorf("%w: unknown category %q", ErrInvalidItem, string(i.Category))
	}

	if i.Size == "" {
		if i.DefaultSize != "" {
			i.Size = i.DefaultSize
		} else {
			i.Size = SizeRegular
		}
	}
	if !i.Size.Valid() {
		return Item{}, fmt.Errorf("%w: unknown size %q", ErrInvalidItem, string(i.Size))
	}
	if i.DefaultSize != "" && !i.DefaultSize.Valid() {
		return Item{}, fmt.Errorf("%w: unknown default size %q", ErrInvalidItem, string(i.DefaultSize))
	}

	if i.Quantity == 0 {
		i.Quantity = 1
	}
	if i.Quantity < 1 {
		return Item{}, fmt.Errorf("%w: quantity must be >= 1, got %d", ErrInvalidItem, i.Quantity)
	}

	return i, nil
}

// ConfigKey computes the merge identity: item id, name, category, and the
// deduplicated sorted set of selected modifier ids. Quantity, size, and
// AvailableModifiers are deliberately excluded.
func (i Item) ConfigKey() string {
	ids := make([]string, 0, len(i.Modifiers))
	seen := make(map[string]bool, len(i.Modifiers))
	for _, m := range i.Modifiers {
		if seen[m.ModifierID] {
			continue
		}
		seen[m.ModifierID] = true
		ids = append(ids, m.ModifierID)
	}
	sort.Strings(ids)

	var b strings.Builder
	b.WriteString(i.ItemID)
	b.WriteByte(0x1f)
	b.WriteString(i.Name)
	b.WriteByte(0x1f)
	b.WriteString(string(i.Category))
	b.WriteByte(0x1f)
	b.WriteString(strings.Join(ids, ","))
	return b.String()
}

// SameConfiguration reports whether two items are the same order line,
// ignoring quantity.
func (i Item) SameConfiguration(other Item) bool {
	return i.ConfigKey() == other.ConfigKey()
}

// Merge combines two same-configuration items into a new item whose
// quantity is the sum. Identity fields and the modifier set come from the
// receiver. Merging different configurations is an error.
func (i Item) Merge(other Item) (Item, error) {
	if !i.SameConfiguration(other) {
		return Item{}, fmt.Errorf("%w: cannot merge %q with %q", ErrConfigMismatch, i.describe(), other.describe())
	}
	merged := i
	merged.Modifiers = append([]Modifier(nil), i.Modifiers...)
	merged.Quantity = i.Quantity + other.Quantity
	return merged, nil
}

// Compare orders two same-configuration items by quantity, returning
// -1, 0, or 1. Comparing different configurations is an error, never a
// silent boolean.
func (i Item) Compare(other Item) (int, error) {
	if !i.SameConfiguration(other) {
		return 0, fmt.Errorf("%w: cannot compare %q with %q", ErrConfigMismatch, i.describe(), other.describe())
	}
	switch {
	case i.Quantity < other.Quantity:
		return -1, nil
	case i.Quantity > other.Quantity:
		return 1, nil
	default:
		return 0, nil
	}
}

func (i Item) describe() string {
	if len(i.Modifiers) == 0 {
		return fmt.Sprintf("%s/%s", i.ItemID, i.Name)
	}
	names := make([]string, 0, len(i.Modifiers))
	for _, m := range i.Modifiers {
		names = append(names, m.Name)
	}
	return fmt.Sprintf("%s/%s+%s", i.ItemID, i.Name, strings.Join(names, "+"))
}

// AllowsModifier reports whether the given modifier id or name (matched
// case-insensitively) is in the item's available set, returning the
// canonical modifier on success.
func (i Item) AllowsModifier(idOrName string) (Modifier, bool) {
	needle := strings.ToLower(strings.TrimSpace(idOrName))
	if needle == "" {
		return Modifier{}, false
	}
	for _, m := range i.AvailableModifiers {
		if strings.ToLower(m.ModifierID) == needle || strings.ToLower(m.Name) == needle {
			return m, true
		}
	}
	return Modifier{}, false
}

// Label renders a short human-readable line for order summaries.
func (i Item) Label() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%d x %s", i.Quantity, i.Name)
	if i.Size != "" {
		fmt.Fprintf(&b, " (%s)", i.Size)
	}
	if len(i.Modifiers) > 0 {
		names := make([]string, 0, len(i.Modifiers))
		for _, m := range i.Modifiers {
			names = append(names, m.Name)
		}
		fmt.Fprintf(&b, " [%s]", strings.Join(names, ", "))
	}
	return b.String()
}
