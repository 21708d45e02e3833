package counter

import (
	"context"
	"database/sql"

	"go-payroll/internal/shared/connection"

	"gorm.io/gorm"
)

const TypeEmployeeCode = "employee_code"

//go:generate mockgen -source=counter_repo.go -destination=mock/counter_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	GetNextValue(ctx context.Context, shopID string, counterType string) (int64, error)
}

type repository struct {
	db *gorm.DB
	tx *sql.Tx
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *sql.Tx) Repository {
	return &repository{db: r.db, tx: tx}
}

// GetNextValue increments and returns the shop counter in one statement.
func (r *repository) GetNextValue(ctx context.Context, shopID string, counterType string) (int64, error) {
	var nextValue int64

	err := connection.Bind(ctx, r.db, r.tx).Raw(`
		INSERT INTO shop_counters (shop_id, counter_type, last_value, updated_at)
		VALUES (?, ?, 1, now())
		ON CONFLICT (shop_id, counter_type) DO UPDATE
		SET last_value = shop_counters.last_value + 1, updated_at = now()
		RETURNING last_value
	`, shopID, counterType).Scan(&nextValue).Error
	if err != nil {
		return 0, err
	}

	return nextValue, nil
}
