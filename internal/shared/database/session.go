package database

import (
	"context"
	"database/sql"

	"gorm.io/gorm"
)

// Bind returns a GORM session that runs every statement on tx, so GORM
// repositories can join a transaction opened on the shared *sql.DB.
// The root db is never modified.
func Bind(db *gorm.DB, tx *sql.Tx) *gorm.DB {
	if tx == nil {
		return db
	}
	// a non-nil Context makes Session clone the Statement before ConnPool is swapped
	s := db.Session(&gorm.Session{
		NewDB:                  true,
		Context:                context.Background(),
		SkipDefaultTransaction: true,
	})
	s.Statement.ConnPool = tx
	return s
}
