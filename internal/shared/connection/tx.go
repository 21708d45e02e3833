package connection

import (
	"context"
	"database/sql"

	"gorm.io/gorm"
)

// Bind returns a gorm session for ctx. When tx is non nil the session runs on
// that transaction, so gorm repositories can join a service level *sql.Tx.
func Bind(ctx context.Context, db *gorm.DB, tx *sql.Tx) *gorm.DB {
	session := db.WithContext(ctx)
	if tx != nil {
		session.Statement.ConnPool = tx
	}
	return session
}
