package testsupport

import (
	"database/sql"
	"fmt"
	"strings"

	_ "github.com/mattn/go-sqlite3"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
)

// NewNamedSQLiteMemoryDB opens an in-memory database private to name, so
// parallel packages and tests do not see each other's tables.
func NewNamedSQLiteMemoryDB(name string) (*sql.DB, error) {
	replacer := strings.NewReplacer("/", "_", " ", "_", "#", "_")
	return sql.Open("sqlite3", fmt.Sprintf("file:%s?mode=memory&cache=shared&_fk=1", replacer.Replace(name)))
}

// NewBunSQLite wraps a named in-memory database with the sqlite dialect and
// creates the tables for the given models.
func NewBunSQLite(name string, models ...any) (*bun.DB, func(), error) {
	sqlDB, err := NewNamedSQLiteMemoryDB(name)
	if err != nil {
		return nil, nil, err
	}
	db := bun.NewDB(sqlDB, sqlitedialect.New())
	db.SetMaxOpenConns(1)

	cleanup := func() {
		_ = db.Close()
	}

	if err := CreateTables(db, models...); err != nil {
		cleanup()
		return nil, nil, err
	}
	return db, cleanup, nil
}
