package di

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"

	"github.com/goliatone/go-translatable/internal/entities"
	"github.com/goliatone/go-translatable/internal/locales"
	"github.com/goliatone/go-translatable/internal/translations"
)

// CreateSchema creates the locale, entity and translation tables when they do
// not exist. Translations are unique per (entity_id, locale_id).
func CreateSchema(ctx context.Context, db *bun.DB) error {
	models := []any{
		(*locales.Locale)(nil),
		(*entities.Entity)(nil),
		(*translations.Translation)(nil),
	}
	for _, model := range models {
		if _, err := db.NewCreateTable().Model(model).IfNotExists().Exec(ctx); err != nil {
			return fmt.Errorf("di: create table for %T: %w", model, err)
		}
	}

	_, err := db.NewCreateIndex().
		Model((*translations.Translation)(nil)).
		Index("entity_translations_entity_locale_idx").
		Unique().
		IfNotExists().
		Column("entity_id", "locale_id").
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("di: create translation index: %w", err)
	}
	return nil
}
