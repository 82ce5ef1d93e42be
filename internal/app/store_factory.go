package app

import (
	"strings"

	"github.com/shrimpsizemoose/kardemumma/internal/store"
	"github.com/shrimpsizemoose/kardemumma/internal/store/postgres"
	"github.com/shrimpsizemoose/kardemumma/internal/store/sqlite"
)

func NewStore(dsn, migrationsDir string) (store.StudentStore, error) {
	dbType := store.DBTypeSQLite
	if strings.HasPrefix(dsn, "postgres") {
		dbType = store.DBTypePostgres
	}

	switch dbType {
	case store.DBTypePostgres:
		return postgres.NewPostgresStore(dsn, migrationsDir)
	default:
		return sqlite.NewSQLiteStore(dsn, migrationsDir)
	}
}
