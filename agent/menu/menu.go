package menu

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

var ErrNotFound = errors.New("menu item not found")

// Location is the restaurant the menu belongs to.
type Location struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Address string `json:"address"`
	City    string `json:"city,omitempty"`
	State   string `json:"state,omitempty"`
	Zip     string `json:"zip,omitempty"`
	Country string `json:"country,omitempty"`
}

// FullAddress joins the populated address parts into a single line.
func (l Location) FullAddress() string {
	parts := make([]string, 0, 4)
	for _, p := range []string{l.Address, l.City, l.State, l.Zip} {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, ", ")
}

// Menu is the read-only catalog a conversation orders from. It is loaded
// once and never mutated afterwards, so concurrent reads need no locking.
type Menu struct {
	MenuID      string   `json:"menu_id"`
	MenuName    string   `json:"menu_name"`
	MenuVersion string   `json:"menu_version"`
	Location    Location `json:"location"`
	Items       []Item   `json:"items"`

	byID map[string]int
}

type menuFile struct {
	Metadata struct {
		MenuID      string   `json:"menu_id"`
		MenuName    string   `json:"menu_name"`
		MenuVersion string   `json:"menu_version"`
		Location    Location `json:"location"`
	} `json:"metadata"`
	Items []Item `json:"items"`
}

// Load decodes a catalog document of the shape
// {"metadata": {...}, "items": [...]}, normalizes every item, and indexes
// it by id.
func Load(r io.Reader) (*Menu, error) {
	var doc menuFile
	dec := json.NewDecoder(r)
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode menu document: %w", err)
	}

	m := &Menu{
		MenuID:      doc.Metadata.MenuID,
		MenuName:    doc.Metadata.MenuName,
		MenuVersion: doc.Metadata.MenuVersion,
		Location:    doc.Metadata.Location,
		Items:       make([]Item, 0, len(doc.Items)),
	}

	for idx, raw := range doc.Items {
		item, err := raw.Normalize()
		if err != nil {
			return nil, fmt.Errorf("menu item %d: %w", idx, err)
		}
		m.Items = append(m.Items, item)
	}

	if err := m.buildIndex(); err != nil {
		return nil, err
	}
	return m, nil
}

// LoadFile loads a catalog from a JSON file on disk.
func LoadFile(path string) (*Menu, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open menu file: %w", err)
	}
	defer f.Close()
	return Load(f)
}

// New builds a menu from already-constructed parts, normalizing and
// indexing items the same way Load does.
func New(id, name, version string, loc Location, items []Item) (*Menu, error) {
	m := &Menu{
		MenuID:      id,
		MenuName:    name,
		MenuVersion: version,
		Location:    loc,
		Items:       make([]Item, 0, len(items)),
	}
	for idx, raw := range items {
		item, err := raw.Normalize()
		if err != nil {
			return nil, fmt.Errorf("menu item %d: %w", idx, err)
		}
		m.Items = append(m.Items, item)
	}
	if err := m.buildIndex(); err != nil {
		return nil, err
	}
	return m, nil
}

func (m *Menu) buildIndex() error {
	m.byID = make(map[string]int, len(m.Items))
	for idx, item := range m.Items {
		if _, dup := m.byID[item.ItemID]; dup {
			return fmt.Errorf("%w: duplicate item_id %q", ErrInvalidItem, item.ItemID)
		}
		m.byID[item.ItemID] = idx
	}
	return nil
}

// Find returns the catalog item with the given id.
func (m *Menu) Find(itemID string) (Item, bool) {
	idx, ok := m.byID[strings.TrimSpace(itemID)]
	if !ok {
		return Item{}, false
	}
	return m.Items[idx], true
}

// Search returns catalog items whose name contains the query,
// case-insensitively, in declaration order. An exact name match is
// returned alone even when it is a substring of other item names.
func (m *Menu) Search(query string) []Item {
	needle := strings.ToLower(strings.TrimSpace(query))
	if needle == "" {
		return nil
	}

	var exact []Item
	var partial []Item
	for _, item := range m.Items {
		name := strings.ToLower(item.Name)
		switch {
		case name == needle:
			exact = append(exact, item)
		case strings.Contains(name, needle):
			partial = append(partial, item)
		}
	}
	if len(exact) > 0 {
		return exact
	}
	return partial
}

// RenderText projects the catalog into the plain-text block the system
// prompt embeds, one line per purchasable configuration.
func (m *Menu) RenderText() string {
	if len(m.Items) == 0 {
		return "(no items)"
	}
	var b strings.Builder
	for _, item := range m.Items {
		fmt.Fprintf(&b, "- %s | id: %s | category: %s | default size: %s", item.Name, item.ItemID, item.Category, item.Size)
		if len(item.AvailableModifiers) > 0 {
			names := make([]string, 0, len(item.AvailableModifiers))
			for _, mod := range item.AvailableModifiers {
				names = append(names, fmt.Sprintf("%s (%s)", mod.Name, mod.ModifierID))
			}
			fmt.Fprintf(&b, " | modifiers: %s", strings.Join(names, ", "))
		}
		b.WriteByte('\n')
	}
	return strings.TrimRight(b.String(), "\n")
}
