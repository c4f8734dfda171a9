package main

import (
	"context"
	"database/sql"

	"github.com/rs/zerolog/log"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"

	menux "github.com/hotlanelabs/drivethru/agent/menu"
	configx "github.com/hotlanelabs/drivethru/pkg/config"
	logx "github.com/hotlanelabs/drivethru/pkg/logger"
)

type seedConfig struct {
	PostgresDSN string `envconfig:"POSTGRES_DSN" split_words:"true" required:"true"`
	MenuPath    string `envconfig:"MENU_PATH" split_words:"true" default:"data/menu.json"`
}

// Publishes the JSON catalog into Postgres so lanes can load it with
// DRIVETHRU_POSTGRES_DSN. Re-running replaces the menu's rows.
func main() {
	cfg := configx.MustNew[seedConfig]("DRIVETHRU")
	logx.Init(*configx.MustNew[logx.Config]("LOG"))

	ctx := context.Background()

	m, err := menux.LoadFile(cfg.MenuPath)
	if err != nil {
		log.Fatal().Err(err).Str("path", cfg.MenuPath).Msg("load menu file")
	}

	sqldb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(cfg.PostgresDSN)))
	db := bun.NewDB(sqldb, pgdialect.New())
	defer db.Close()

	for _, model := range menux.CatalogTables() {
		if _, err := db.NewCreateTable().Model(model).IfNotExists().Exec(ctx); err != nil {
			log.Fatal().Err(err).Msg("create catalog table")
		}
	}

	if err := seed(ctx, db, m); err != nil {
		log.Fatal().Err(err).Msg("seed catalog")
	}

	log.Info().
		Str("menu_id", m.MenuID).
		Str("menu_version", m.MenuVersion).
		Int("items", len(m.Items)).
		Msg("catalog seeded")
}

func seed(ctx context.Context, db *bun.DB, m *menux.Menu) error {
	return db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if _, err := tx.NewDelete().
			Model((*menux.ModifierRow)(nil)).
			Where("item_id IN (SELECT id FROM menu_items WHERE menu_id = ?)", m.MenuID).
			Exec(ctx); err != nil {
			return err
		}
		if _, err := tx.NewDelete().
			Model((*menux.ItemRow)(nil)).
			Where("menu_id = ?", m.MenuID).
			Exec(ctx); err != nil {
			return err
		}
		if _, err := tx.NewDelete().
			Model((*menux.MenuRow)(nil)).
			Where("id = ?", m.MenuID).
			Exec(ctx); err != nil {
			return err
		}

		loc := &menux.LocationRow{
			ID:      m.Location.ID,
			Name:    m.Location.Name,
			Address: m.Location.Address,
			City:    m.Location.City,
			State:   m.Location.State,
			Zip:     m.Location.Zip,
			Country: m.Location.Country,
		}
		if _, err := tx.NewInsert().
			Model(loc).
			On("CONFLICT (id) DO UPDATE").
			Set("name = EXCLUDED.name").
			Set("address = EXCLUDED.address").
			Set("city = EXCLUDED.city").
			Set("state = EXCLUDED.state").
			Set("zip = EXCLUDED.zip").
			Set("country = EXCLUDED.country").
			Exec(ctx); err != nil {
			return err
		}

		menuRow := &menux.MenuRow{
			ID:         m.MenuID,
			Name:       m.MenuName,
			Version:    m.MenuVersion,
			LocationID: m.Location.ID,
		}
		if _, err := tx.NewInsert().Model(menuRow).Exec(ctx); err != nil {
			return err
		}

		itemRows := make([]menux.ItemRow, 0, len(m.Items))
		var modRows []menux.ModifierRow
		for pos, item := range m.Items {
			itemRows = append(itemRows, menux.ItemRow{
				ID:          item.ItemID,
				MenuID:      m.MenuID,
				Name:        item.Name,
				Category:    string(item.Category),
				DefaultSize: string(item.Size),
				Position:    pos,
			})
			for mpos, mod := range item.AvailableModifiers {
				modRows = append(modRows, menux.ModifierRow{
					ItemID:     item.ItemID,
					ModifierID: mod.ModifierID,
					Name:       mod.Name,
					Position:   mpos,
				})
			}
		}

		if len(itemRows) > 0 {
			if _, err := tx.NewInsert().Model(&itemRows).Exec(ctx); err != nil {
				return err
			}
		}
		if len(modRows) > 0 {
			if _, err := tx.NewInsert().Model(&modRows).Exec(ctx); err != nil {
				return err
			}
		}
		return nil
	})
}
