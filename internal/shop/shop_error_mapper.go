package shop

import (
	"errors"

	shoperrors "go-payroll/internal/shop/errors"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

func mapRepositoryError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return shoperrors.ErrShopNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" && pgErr.ConstraintName == "uq_shop_name" {
		return shoperrors.ErrShopNameExists
	}

	return err
}
