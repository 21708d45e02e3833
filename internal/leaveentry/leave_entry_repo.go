package leaveentry

import (
	"context"
	"database/sql"

	"go-payroll/internal/salaryrecord"
	"go-payroll/internal/shared/connection"

	"gorm.io/gorm"
)

//go:generate mockgen -source=leave_entry_repo.go -destination=mock/leave_entry_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, e *salaryrecord.LeaveEntry) error
	Delete(ctx context.Context, recordID, entryID string) error
}

type repository struct {
	db *gorm.DB
	tx *sql.Tx
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *sql.Tx) Repository {
	return &repository{
		db: r.db,
		tx: tx,
	}
}

func (r *repository) Create(ctx context.Context, e *salaryrecord.LeaveEntry) error {
	return connection.Bind(ctx, r.db, r.tx).Create(e).Error
}

func (r *repository) Delete(ctx context.Context, recordID, entryID string) error {
	res := connection.Bind(ctx, r.db, r.tx).
		Delete(&salaryrecord.LeaveEntry{}, "id = ? AND salary_record_id = ?", entryID, recordID)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
