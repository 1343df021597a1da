package testsupport

import (
	"context"
	"time"

	"github.com/uptrace/bun"
)

// CreateTables creates a table per model, skipping the ones that exist.
func CreateTables(db *bun.DB, models ...any) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	for _, model := range models {
		if _, err := db.NewCreateTable().Model(model).IfNotExists().Exec(ctx); err != nil {
			return err
		}
	}
	return nil
}
