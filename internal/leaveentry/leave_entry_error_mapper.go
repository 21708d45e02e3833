package leaveentry

import (
	"errors"

	leaveentryerrors "go-payroll/internal/leaveentry/errors"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

func mapRepositoryError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return leaveentryerrors.ErrLeaveEntryNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" && pgErr.ConstraintName == "uq_leave_entry_date" {
		return leaveentryerrors.ErrDuplicateLeaveDate
	}

	return err
}
