package shop

import (
	"context"
	"database/sql"

	"go-payroll/internal/shared/connection"

	"gorm.io/gorm"
)

//go:generate mockgen -source=shop_repo.go -destination=mock/shop_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, s *Shop) error
	FindAll(ctx context.Context) ([]Shop, error)
	FindByID(ctx context.Context, id string) (*Shop, error)
	Update(ctx context.Context, s *Shop) error
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

func (r *repository) Create(ctx context.Context, s *Shop) error {
	return connection.Bind(ctx, r.db, r.tx).Create(s).Error
}

func (r *repository) FindAll(ctx context.Context) ([]Shop, error) {
	var shops []Shop
	err := connection.Bind(ctx, r.db, r.tx).
		Order("name ASC").
		Find(&shops).Error
	return shops, err
}

func (r *repository) FindByID(ctx context.Context, id string) (*Shop, error) {
	var s Shop
	err := connection.Bind(ctx, r.db, r.tx).
		First(&s, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *repository) Update(ctx context.Context, s *Shop) error {
	return connection.Bind(ctx, r.db, r.tx).Save(s).Error
}
