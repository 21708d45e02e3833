package salaryrecord

import (
	"errors"

	salaryrecorderrors "go-payroll/internal/salaryrecord/errors"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

func mapRepositoryError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return salaryrecorderrors.ErrSalaryRecordNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch {
		case pgErr.Code == "23505" && pgErr.ConstraintName == "uq_salary_record_period":
			return salaryrecorderrors.ErrSalaryRecordExists
		case pgErr.Code == "23503":
			return salaryrecorderrors.ErrEmployeeNotFound
		}
	}

	return err
}
