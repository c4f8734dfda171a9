package menu

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const menuDoc = `{
  "metadata": {
    "menu_id": "menu-test-001",
    "menu_name": "Test Menu",
    "menu_version": "1",
    "location": {
      "id": "loc-1",
      "name": "Hotlane Diner #42",
      "address": "1200 Service Rd",
      "city": "Austin",
      "state": "TX",
      "zip": "78701"
    }
  },
  "items": [
    {
      "item_id": "itm-egg-mcmuffin",
      "name": "Egg McMuffin",
      "category": "breakfast",
      "available_modifiers": [
        {"modifier_id": "mod-egg", "name": "egg"},
        {"modifier_id": "mod-egg-whites", "name": "egg whites"}
      ]
    },
    {
      "item_id": "itm-sausage-mcmuffin",
      "name": "Sausage McMuffin",
      "category": "breakfast"
    },
    {
      "item_id": "itm-cola",
      "name": "Cola",
      "category": "beverages",
      "default_size": "medium"
    }
  ]
}`

func testMenu(t *testing.T) *Menu {
	t.Helper()
	m, err := Load(strings.NewReader(menuDoc))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	return m
}

func TestLoad(t *testing.T) {
	t.Parallel()

	m := testMenu(t)
	if m.MenuID != "menu-test-001" {
		t.Fatalf("unexpected menu id: %s", m.MenuID)
	}
	if m.Location.Name != "Hotlane Diner #42" {
		t.Fatalf("unexpected location: %s", m.Location.Name)
	}
	if len(m.Items) != 3 {
		t.Fatalf("expected 3 items, got %d", len(m.Items))
	}

	cola, ok := m.Find("itm-cola")
	if !ok {
		t.Fatal("expected to find itm-cola")
	}
	if cola.Size != SizeMedium {
		t.Fatalf("expected normalized default size medium, got %s", cola.Size)
	}

	muffin, ok := m.Find("itm-egg-mcmuffin")
	if !ok {
		t.Fatal("expected to find itm-egg-mcmuffin")
	}
	if muffin.Size != SizeRegular {
		t.Fatalf("expected regular fallback, got %s", muffin.Size)
	}
	if len(muffin.AvailableModifiers) != 2 {
		t.Fatalf("expected 2 available modifiers, got %d", len(muffin.AvailableModifiers))
	}
}

func TestLoadRejectsDuplicateIDs(t *testing.T) {
	t.Parallel()

	doc := `{
  "metadata": {"menu_id": "m", "menu_name": "n", "menu_version": "1", "location": {"id": "l", "name": "x", "address": "a"}},
  "items": [
    {"item_id": "itm-1", "name": "A", "category": "breakfast"},
    {"item_id": "itm-1", "name": "B", "category": "breakfast"}
  ]
}`
	if _, err := Load(strings.NewReader(doc)); !errors.Is(err, ErrInvalidItem) {
		t.Fatalf("expected ErrInvalidItem for duplicate id, got %v", err)
	}
}

func TestLoadRejectsBadItem(t *testing.T) {
	t.Parallel()

	doc := `{
  "metadata": {"menu_id": "m", "menu_name": "n", "menu_version": "1", "location": {"id": "l", "name": "x", "address": "a"}},
  "items": [{"item_id": "itm-1", "name": "A", "category": "not-a-category"}]
}`
	if _, err := Load(strings.NewReader(doc)); !errors.Is(err, ErrInvalidItem) {
		t.Fatalf("expected ErrInvalidItem, got %v", err)
	}
}

func TestLoadFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "menu.json")
	if err := os.WriteFile(path, []byte(menuDoc), 0o600); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	m, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile() error = %v", err)
	}
	if len(m.Items) != 3 {
		t.Fatalf("expected 3 items, got %d", len(m.Items))
	}

	if _, err := LoadFile(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestFind(t *testing.T) {
	t.Parallel()

	m := testMenu(t)
	if _, ok := m.Find("itm-egg-mcmuffin"); !ok {
		t.Fatal("expected hit for known id")
	}
	if _, ok := m.Find(" itm-egg-mcmuffin "); !ok {
		t.Fatal("expected id lookup to trim whitespace")
	}
	if _, ok := m.Find("itm-nonexistent"); ok {
		t.Fatal("expected miss for unknown id")
	}
}

func TestSearchAmbiguousSubstring(t *testing.T) {
	t.Parallel()

	m := testMenu(t)
	got := m.Search("mcmuffin")
	if len(got) != 2 {
		t.Fatalf("expected both McMuffins, got %d", len(got))
	}
	if got[0].ItemID != "itm-egg-mcmuffin" || got[1].ItemID != "itm-sausage-mcmuffin" {
		t.Fatalf("expected declaration order, got %s then %s", got[0].ItemID, got[1].ItemID)
	}
}

func TestSearchExactBeatsSubstring(t *testing.T) {
	t.Parallel()

	m := testMenu(t)
	got := m.Search("Egg McMuffin")
	if len(got) != 1 {
		t.Fatalf("exact name must return one item, got %d", len(got))
	}
	if got[0].ItemID != "itm-egg-mcmuffin" {
		t.Fatalf("unexpected item: %s", got[0].ItemID)
	}
}

func TestSearchMissAndBlank(t *testing.T) {
	t.Parallel()

	m := testMenu(t)
	if got := m.Search("milkshake"); len(got) != 0 {
		t.Fatalf("expected no matches, got %d", len(got))
	}
	if got := m.Search("   "); got != nil {
		t.Fatalf("expected nil for blank query, got %#v", got)
	}
}

func TestRenderText(t *testing.T) {
	t.Parallel()

	m := testMenu(t)
	text := m.RenderText()
	for _, want := range []string{
		"Egg McMuffin",
		"id: itm-egg-mcmuffin",
		"default size: medium",
		"egg whites (mod-egg-whites)",
	} {
		if !strings.Contains(text, want) {
			t.Fatalf("rendered menu missing %q:\n%s", want, text)
		}
	}

	empty := &Menu{}
	if empty.RenderText() != "(no items)" {
		t.Fatalf("unexpected empty render: %q", empty.RenderText())
	}
}

func TestFullAddress(t *testing.T) {
	t.Parallel()

	m := testMenu(t)
	got := m.Location.FullAddress()
	want := "1200 Service Rd, Austin, TX, 78701"
	if got != want {
		t.Fatalf("FullAddress() = %q, want %q", got, want)
	}

	bare := Location{Address: "1 Main St"}
	if bare.FullAddress() != "1 Main St" {
		t.Fatalf("unexpected bare address: %q", bare.FullAddress())
	}
}
