package menu

import (
	"errors"
	"testing"
)

func muffin(qty int, mods ...Modifier) Item {
	return Item{
		ItemID:    "itm-egg-mcmuffin",
		Name:      "Egg McMuffin",
		Category:  CategoryBreakfast,
		Quantity:  qty,
		Modifiers: mods,
	}
}

func TestNormalizeDefaults(t *testing.T) {
	t.Parallel()

	item, err := Item{
		ItemID:   "itm-1",
		Name:     "Hotcakes",
		Category: CategoryBreakfast,
	}.Normalize()
	if err != nil {
		t.Fatalf("Normalize() error = %v", err)
	}
	if item.Size != SizeRegular {
		t.Fatalf("expected regular size fallback, got %s", item.Size)
	}
	if item.Quantity != 1 {
		t.Fatalf("expected quantity 1 fallback, got %d", item.Quantity)
	}
}

func TestNormalizeUsesDefaultSize(t *testing.T) {
	t.Parallel()

	item, err := Item{
		ItemID:      "itm-2",
		Name:        "Cola",
		Category:    CategoryBeverages,
		DefaultSize: SizeMedium,
	}.Normalize()
	if err != nil {
		t.Fatalf("Normalize() error = %v", err)
	}
	if item.Size != SizeMedium {
		t.Fatalf("expected default size medium, got %s", item.Size)
	}
}

func TestNormalizeKeepsExplicitSize(t *testing.T) {
	t.Parallel()

	item, err := Item{
		ItemID:      "itm-2",
		Name:        "Cola",
		Category:    CategoryBeverages,
		DefaultSize: SizeMedium,
		Size:        SizeLarge,
	}.Normalize()
	if err != nil {
		t.Fatalf("Normalize() error = %v", err)
	}
	if item.Size != SizeLarge {
		t.Fatalf("expected explicit size to win, got %s", item.Size)
	}
}

func TestNormalizeRejectsInvalid(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		item Item
	}{
		{"missing id", Item{Name: "x", Category: CategoryBreakfast}},
		{"missing name", Item{ItemID: "i", Category: CategoryBreakfast}},
		{"bad category", Item{ItemID: "i", Name: "x", Category: "weird"}},
		{"bad size", Item{ItemID: "i", Name: "x", Category: CategoryBreakfast, Size: "giant"}},
		{"negative quantity", Item{ItemID: "i", Name: "x", Category: CategoryBreakfast, Quantity: -2}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if _, err := tc.item.Normalize(); !errors.Is(err, ErrInvalidItem) {
				t.Fatalf("expected ErrInvalidItem, got %v", err)
			}
		})
	}
}

func TestParseSize(t *testing.T) {
	t.Parallel()

	if s, err := ParseSize("  Large "); err != nil || s != SizeLarge {
		t.Fatalf("ParseSize(Large) = %s, %v", s, err)
	}
	if s, err := ParseSize(""); err != nil || s != "" {
		t.Fatalf("ParseSize(empty) = %s, %v; empty must stay empty", s, err)
	}
	if _, err := ParseSize("giant"); !errors.Is(err, ErrInvalidItem) {
		t.Fatalf("expected ErrInvalidItem for unknown size, got %v", err)
	}
}

func TestMergeSumsQuantityOnly(t *testing.T) {
	t.Parallel()

	a := muffin(1)
	b := muffin(2)

	merged, err := a.Merge(b)
	if err != nil {
		t.Fatalf("Merge() error = %v", err)
	}
	if merged.Quantity != 3 {
		t.Fatalf("expected quantity 3, got %d", merged.Quantity)
	}
	if merged.ItemID != a.ItemID || merged.Name != a.Name || merged.Category != a.Category {
		t.Fatalf("identity fields changed: %#v", merged)
	}
	if a.Quantity != 1 || b.Quantity != 2 {
		t.Fatalf("operands mutated: a=%d b=%d", a.Quantity, b.Quantity)
	}
}

func TestMergeCommutative(t *testing.T) {
	t.Parallel()

	a := muffin(1, Modifier{ModifierID: "mod-egg", Name: "egg"})
	b := muffin(2, Modifier{ModifierID: "mod-egg", Name: "egg"})

	ab, err := a.Merge(b)
	if err != nil {
		t.Fatalf("a.Merge(b) error = %v", err)
	}
	ba, err := b.Merge(a)
	if err != nil {
		t.Fatalf("b.Merge(a) error = %v", err)
	}
	if ab.Quantity != ba.Quantity {
		t.Fatalf("merge not commutative on quantity: %d vs %d", ab.Quantity, ba.Quantity)
	}
	if ab.ConfigKey() != ba.ConfigKey() {
		t.Fatalf("merge not commutative on identity: %q vs %q", ab.ConfigKey(), ba.ConfigKey())
	}
}

func TestMergeDifferentConfigurationFails(t *testing.T) {
	t.Parallel()

	plain := muffin(1)
	withEgg := muffin(1, Modifier{ModifierID: "mod-egg", Name: "egg"})

	if _, err := plain.Merge(withEgg); !errors.Is(err, ErrConfigMismatch) {
		t.Fatalf("expected ErrConfigMismatch, got %v", err)
	}

	other := plain
	other.ItemID = "itm-other"
	if _, err := plain.Merge(other); !errors.Is(err, ErrConfigMismatch) {
		t.Fatalf("expected ErrConfigMismatch on item id change, got %v", err)
	}
}

func TestCompare(t *testing.T) {
	t.Parallel()

	a := muffin(1)
	b := muffin(2)

	got, err := a.Compare(b)
	if err != nil || got != -1 {
		t.Fatalf("Compare() = %d, %v; want -1", got, err)
	}
	got, err = b.Compare(a)
	if err != nil || got != 1 {
		t.Fatalf("Compare() = %d, %v; want 1", got, err)
	}
	got, err = a.Compare(muffin(1))
	if err != nil || got != 0 {
		t.Fatalf("Compare() = %d, %v; want 0", got, err)
	}

	withEgg := muffin(1, Modifier{ModifierID: "mod-egg", Name: "egg"})
	if _, err := a.Compare(withEgg); !errors.Is(err, ErrConfigMismatch) {
		t.Fatalf("expected ErrConfigMismatch, got %v", err)
	}
}

func TestConfigKeyIgnoresQuantitySizeAndOrder(t *testing.T) {
	t.Parallel()

	egg := Modifier{ModifierID: "mod-egg", Name: "egg"}
	cheese := Modifier{ModifierID: "mod-no-cheese", Name: "no cheese"}

	a := muffin(1, egg, cheese)
	b := muffin(5, cheese, egg)
	b.Size = SizeLarge

	if a.ConfigKey() != b.ConfigKey() {
		t.Fatalf("keys differ:\n%q\n%q", a.ConfigKey(), b.ConfigKey())
	}
	if !a.SameConfiguration(b) {
		t.Fatal("expected same configuration")
	}
}

func TestConfigKeyDeduplicatesModifiers(t *testing.T) {
	t.Parallel()

	egg := Modifier{ModifierID: "mod-egg", Name: "egg"}
	a := muffin(1, egg)
	b := muffin(1, egg, egg)

	if a.ConfigKey() != b.ConfigKey() {
		t.Fatalf("duplicate modifier changed the key:\n%q\n%q", a.ConfigKey(), b.ConfigKey())
	}
}

func TestAllowsModifier(t *testing.T) {
	t.Parallel()

	item := Item{
		ItemID:   "itm-egg-mcmuffin",
		Name:     "Egg McMuffin",
		Category: CategoryBreakfast,
		AvailableModifiers: []Modifier{
			{ModifierID: "mod-egg", Name: "egg"},
			{ModifierID: "mod-egg-whites", Name: "egg whites"},
		},
	}

	got, ok := item.AllowsModifier("EGG")
	if !ok || got.ModifierID != "mod-egg" {
		t.Fatalf("AllowsModifier(EGG) = %#v, %v", got, ok)
	}
	got, ok = item.AllowsModifier("mod-egg-whites")
	if !ok || got.Name != "egg whites" {
		t.Fatalf("AllowsModifier(mod-egg-whites) = %#v, %v", got, ok)
	}
	if _, ok := item.AllowsModifier("bacon"); ok {
		t.Fatal("bacon must not be allowed")
	}
	if _, ok := item.AllowsModifier("  "); ok {
		t.Fatal("blank modifier must not be allowed")
	}
}

func TestLabel(t *testing.T) {
	t.Parallel()

	item := muffin(2, Modifier{ModifierID: "mod-egg", Name: "egg"})
	item.Size = SizeRegular

	got := item.Label()
	want := "2 x Egg McMuffin (regular) [egg]"
	if got != want {
		t.Fatalf("Label() = %q, want %q", got, want)
	}
}
