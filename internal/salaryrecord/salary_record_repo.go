package salaryrecord

import (
	"context"
	"database/sql"

	"go-payroll/internal/employee"
	"go-payroll/internal/shared/connection"
	"go-payroll/internal/shared/scope"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const generateBatchSize = 100

//go:generate mockgen -source=salary_record_repo.go -destination=mock/salary_record_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	FindShop(ctx context.Context, shopID string) (*Shop, error)
	ListShops(ctx context.Context) ([]Shop, error)
	ListEmployeesForShop(ctx context.Context, shopID string) ([]employee.Employee, error)
	FindEmployee(ctx context.Context, employeeID string) (*employee.Employee, error)
	InsertDefaults(ctx context.Context, records []SalaryRecord) (int64, error)
	HasPeriod(ctx context.Context, shopID string, month, year int) (bool, error)
	FindAll(ctx context.Context, filter GetSalaryRecordsFilterRequest) ([]SalaryRecord, error)
	FindByID(ctx context.Context, id string) (*SalaryRecord, error)
	FindByIDForUpdate(ctx context.Context, id string) (*SalaryRecord, error)
	CountLeaveEntries(ctx context.Context, recordID string) (int64, error)
	Update(ctx context.Context, rec *SalaryRecord) error
	PeriodTotals(ctx context.Context, month, year int, shopID string) ([]PeriodTotal, error)
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

func (r *repository) FindShop(ctx context.Context, shopID string) (*Shop, error) {
	var s Shop
	err := connection.Bind(ctx, r.db, r.tx).
		Table("shops").
		Select("id", "name").
		Where("id = ?", shopID).
		Take(&s).Error
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *repository) ListShops(ctx context.Context) ([]Shop, error) {
	var shops []Shop
	err := connection.Bind(ctx, r.db, r.tx).
		Table("shops").
		Select("id", "name").
		Order("name ASC").
		Find(&shops).Error
	return shops, err
}

func (r *repository) ListEmployeesForShop(ctx context.Context, shopID string) ([]employee.Employee, error) {
	var employees []employee.Employee
	err := connection.Bind(ctx, r.db, r.tx).
		Where("shop_id = ?", shopID).
		Order("name ASC").
		Find(&employees).Error
	return employees, err
}

func (r *repository) FindEmployee(ctx context.Context, employeeID string) (*employee.Employee, error) {
	var e employee.Employee
	err := connection.Bind(ctx, r.db, r.tx).
		First(&e, "id = ?", employeeID).Error
	if err != nil {
		return nil, err
	}
	return &e, nil
}

// InsertDefaults inserts records, leaving any existing (employee, month,
// year) row untouched, and returns how many rows were actually created.
func (r *repository) InsertDefaults(ctx context.Context, records []SalaryRecord) (int64, error) {
	if len(records) == 0 {
		return 0, nil
	}

	res := connection.Bind(ctx, r.db, r.tx).
		Omit(clause.Associations).
		Clauses(clause.OnConflict{DoNothing: true}).
		CreateInBatches(&records, generateBatchSize)
	return res.RowsAffected, res.Error
}

func (r *repository) HasPeriod(ctx context.Context, shopID string, month, year int) (bool, error) {
	var count int64
	err := connection.Bind(ctx, r.db, r.tx).
		Model(&SalaryRecord{}).
		Where("shop_id = ?", shopID).
		Scopes(scope.ByPeriod("", month, year)).
		Limit(1).
		Count(&count).Error
	return count > 0, err
}

func (r *repository) FindAll(ctx context.Context, filter GetSalaryRecordsFilterRequest) ([]SalaryRecord, error) {
	var records []SalaryRecord
	q := connection.Bind(ctx, r.db, r.tx).
		Joins("Employee").
		Scopes(scope.ByShopOf("salary_records", filter.ShopID))

	if filter.Month > 0 {
		q = q.Where("salary_records.month = ?", filter.Month)
	}
	if filter.Year > 0 {
		q = q.Where("salary_records.year = ?", filter.Year)
	}
	if filter.Status != "" {
		q = q.Where("salary_records.status = ?", filter.Status)
	}
	if filter.EmployeeID != "" {
		q = q.Where("salary_records.employee_id = ?", filter.EmployeeID)
	}
	if filter.WithLeaveEntries {
		q = q.Preload("LeaveEntries", orderLeaveEntries)
	}

	err := q.Order(`"Employee"."name" ASC`).Find(&records).Error
	return records, err
}

func (r *repository) FindByID(ctx context.Context, id string) (*SalaryRecord, error) {
	var rec SalaryRecord
	err := connection.Bind(ctx, r.db, r.tx).
		Preload("Employee").
		Preload("LeaveEntries", orderLeaveEntries).
		First(&rec, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

// FindByIDForUpdate locks the record row until the surrounding transaction
// ends. Only the salary_records row is locked.
func (r *repository) FindByIDForUpdate(ctx context.Context, id string) (*SalaryRecord, error) {
	var rec SalaryRecord
	err := connection.Bind(ctx, r.db, r.tx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Preload("Employee").
		First(&rec, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

func (r *repository) CountLeaveEntries(ctx context.Context, recordID string) (int64, error) {
	var count int64
	err := connection.Bind(ctx, r.db, r.tx).
		Model(&LeaveEntry{}).
		Where("salary_record_id = ?", recordID).
		Count(&count).Error
	return count, err
}

func (r *repository) Update(ctx context.Context, rec *SalaryRecord) error {
	return connection.Bind(ctx, r.db, r.tx).
		Omit(clause.Associations).
		Save(rec).Error
}

func (r *repository) PeriodTotals(ctx context.Context, month, year int, shopID string) ([]PeriodTotal, error) {
	var totals []PeriodTotal
	err := connection.Bind(ctx, r.db, r.tx).
		Model(&SalaryRecord{}).
		Select("shop_id, status, COUNT(*) AS count, COALESCE(SUM(total_calculated), 0) AS total").
		Scopes(scope.ByPeriod("", month, year), scope.ByShop(shopID)).
		Group("shop_id, status").
		Scan(&totals).Error
	return totals, err
}

func orderLeaveEntries(db *gorm.DB) *gorm.DB {
	return db.Order("leave_date ASC")
}
