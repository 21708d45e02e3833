package employee

import (
	"context"
	"database/sql"
	"strings"

	"go-payroll/internal/shared/connection"
	"go-payroll/internal/shared/scope"

	"gorm.io/gorm"
)

const salaryStatusPending = "Pending"

//go:generate mockgen -source=employee_repo.go -destination=mock/employee_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, e *Employee) error
	FindAll(ctx context.Context, filter GetEmployeesFilterRequest) ([]Employee, error)
	FindOptions(ctx context.Context, shopID string) ([]Employee, error)
	FindByID(ctx context.Context, id string) (*Employee, error)
	ShopExists(ctx context.Context, shopID string) (bool, error)
	Update(ctx context.Context, e *Employee) error
	MovePendingSalaryRecords(ctx context.Context, employeeID, shopID string) (int64, error)
	Delete(ctx context.Context, id string) error
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

func (r *repository) Create(ctx context.Context, e *Employee) error {
	return connection.Bind(ctx, r.db, r.tx).Create(e).Error
}

func (r *repository) FindAll(ctx context.Context, filter GetEmployeesFilterRequest) ([]Employee, error) {
	var employees []Employee
	q := connection.Bind(ctx, r.db, r.tx).
		Scopes(scope.ByShop(filter.ShopID))

	if term := strings.TrimSpace(filter.Q); term != "" {
		like := "%" + term + "%"
		q = q.Where("(name ILIKE ? OR employee_code ILIKE ? OR designation ILIKE ?)", like, like, like)
	}

	err := q.Order("name ASC").Find(&employees).Error
	return employees, err
}

func (r *repository) FindOptions(ctx context.Context, shopID string) ([]Employee, error) {
	var employees []Employee
	err := connection.Bind(ctx, r.db, r.tx).
		Select("id", "name", "employee_code").
		Scopes(scope.ByShop(shopID)).
		Order("name ASC").
		Find(&employees).Error
	return employees, err
}

func (r *repository) FindByID(ctx context.Context, id string) (*Employee, error) {
	var e Employee
	err := connection.Bind(ctx, r.db, r.tx).
		First(&e, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *repository) ShopExists(ctx context.Context, shopID string) (bool, error) {
	var count int64
	err := connection.Bind(ctx, r.db, r.tx).
		Table("shops").
		Where("id = ?", shopID).
		Count(&count).Error
	return count > 0, err
}

func (r *repository) Update(ctx context.Context, e *Employee) error {
	return connection.Bind(ctx, r.db, r.tx).Save(e).Error
}

// MovePendingSalaryRecords re-points the employee's unpaid records to shopID.
// Paid records stay with the shop that paid them.
func (r *repository) MovePendingSalaryRecords(ctx context.Context, employeeID, shopID string) (int64, error) {
	res := connection.Bind(ctx, r.db, r.tx).
		Table("salary_records").
		Where("employee_id = ? AND status = ?", employeeID, salaryStatusPending).
		Updates(map[string]any{"shop_id": shopID, "updated_at": gorm.Expr("NOW()")})
	return res.RowsAffected, res.Error
}

func (r *repository) Delete(ctx context.Context, id string) error {
	res := connection.Bind(ctx, r.db, r.tx).
		Delete(&Employee{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
