package menu

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/uptrace/bun"
)

// Row models for the catalog tables. The JSON document remains the
// canonical shape; these exist so a shared Postgres instance can serve
// the same catalog to every lane.

type LocationRow struct {
	bun.BaseModel `bun:"table:locations,alias:l"`

	ID      string `bun:"id,pk"`
	Name    string `bun:"name,notnull"`
	Address string `bun:"address,notnull"`
	City    string `bun:"city"`
	State   string `bun:"state"`
	Zip     string `bun:"zip"`
	Country string `bun:"country"`
}

type MenuRow struct {
	bun.BaseModel `bun:"table:menus,alias:m"`

	ID         string `bun:"id,pk"`
	Name       string `bun:"name,notnull"`
	Version    string `bun:"version,notnull"`
	LocationID string `bun:"location_id,notnull"`
}

type ItemRow struct {
	bun.BaseModel `bun:"table:menu_items,alias:i"`

	ID          string `bun:"id,pk"`
	MenuID      string `bun:"menu_id,notnull"`
	Name        string `bun:"name,notnull"`
	Category    string `bun:"category,notnull"`
	DefaultSize string `bun:"default_size,notnull"`
	Position    int    `bun:"position,notnull"`
}

type ModifierRow struct {
	bun.BaseModel `bun:"table:item_modifiers,alias:im"`

	ItemID     string `bun:"item_id,pk"`
	ModifierID string `bun:"modifier_id,pk"`
	Name       string `bun:"name,notnull"`
	Position   int    `bun:"position,notnull"`
}

// CatalogTables lists the row models in creation order.
func CatalogTables() []any {
	return []any{
		(*LocationRow)(nil),
		(*MenuRow)(nil),
		(*ItemRow)(nil),
		(*ModifierRow)(nil),
	}
}

// LoadPostgres assembles a catalog from the relational form. The result
// goes through the same normalization and indexing as the JSON loader.
func LoadPostgres(ctx context.Context, db *bun.DB, menuID string) (*Menu, error) {
	var menuRow MenuRow
	err := db.NewSelect().Model(&menuRow).Where("id = ?", menuID).Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("menu %q: %w", menuID, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("select menu %q: %w", menuID, err)
	}

	var locRow LocationRow
	err = db.NewSelect().Model(&locRow).Where("id = ?", menuRow.LocationID).Scan(ctx)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("select location %q: %w", menuRow.LocationID, err)
	}

	var itemRows []ItemRow
	if err := db.NewSelect().
		Model(&itemRows).
		Where("menu_id = ?", menuID).
		Order("position ASC").
		Scan(ctx); err != nil {
		return nil, fmt.Errorf("select menu items: %w", err)
	}

	items := make([]Item, 0, len(itemRows))
	itemIDs := make([]string, 0, len(itemRows))
	for _, row := range itemRows {
		items = append(items, Item{
			ItemID:      row.ID,
			Name:        row.Name,
			Category:    Category(row.Category),
			DefaultSize: Size(row.DefaultSize),
		})
		itemIDs = append(itemIDs, row.ID)
	}

	if len(itemIDs) > 0 {
		var modRows []ModifierRow
		if err := db.NewSelect().
			Model(&modRows).
			Where("item_id IN (?)", bun.In(itemIDs)).
			Order("item_id ASC", "position ASC").
			Scan(ctx); err != nil {
			return nil, fmt.Errorf("select item modifiers: %w", err)
		}

		byItem := make(map[string][]Modifier, len(itemIDs))
		for _, row := range modRows {
			byItem[row.ItemID] = append(byItem[row.ItemID], Modifier{
				ModifierID: row.ModifierID,
				Name:       row.Name,
			})
		}
		for idx := range items {
			items[idx].AvailableModifiers = byItem[items[idx].ItemID]
		}
	}

	loc := Location{
		ID:      locRow.ID,
		Name:    locRow.Name,
		Address: locRow.Address,
		City:    locRow.City,
		State:   locRow.State,
		Zip:     locRow.Zip,
		Country: locRow.Country,
	}
	return New(menuRow.ID, menuRow.Name, menuRow.Version, loc, items)
}
