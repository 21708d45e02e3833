package consumer

import (
	"context"
	"encoding/json"
	"errors"

	"go-payroll/internal/events"

	"github.com/jackc/pgx/v5/pgconn"
	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// SalaryRecordProvisioner is satisfied by salaryrecord.Service.
type SalaryRecordProvisioner interface {
	EnsureForEmployee(ctx context.Context, shopID, employeeID string) (bool, error)
}

// ConsumeEmployeeLifecycle gives newly created employees a default record in
// the current period of their shop, when that period has been generated.
func ConsumeEmployeeLifecycle(
	ctx context.Context,
	reader MessageReader,
	provisioner SalaryRecordProvisioner,
	logger *zap.Logger,
) {
	log := logger.Named("kafka.consumer.employee_lifecycle")
	run(ctx, reader, employeeLifecycleHandler(provisioner, log), log)
}

func employeeLifecycleHandler(provisioner SalaryRecordProvisioner, log *zap.Logger) handleFunc {
	return func(ctx context.Context, msg kafkago.Message) bool {
		var event events.EmployeeCreatedEvent
		if err := json.Unmarshal(msg.Value, &event); err != nil {
			log.Error("decode employee lifecycle event failed", zap.Error(err))
			return true
		}

		if event.EventType != events.EventTypeEmployeeCreated {
			return true
		}

		fields := []zap.Field{
			zap.String("employee_id", event.EmployeeID),
			zap.String("shop_id", event.ShopID),
			zap.String("request_id", requestIDOf(msg)),
		}

		created, err := provisioner.EnsureForEmployee(ctx, event.ShopID, event.EmployeeID)
		if err != nil {
			if isUniqueViolation(err) {
				log.Warn("salary record already exists for event, skipping", fields...)
				return true
			}
			log.Error("provision salary record failed", append(fields, zap.Error(err))...)
			return false
		}

		if created {
			log.Info("salary record created from employee_created event", fields...)
		} else {
			log.Debug("no generated period for shop, nothing to provision", fields...)
		}
		return true
	}
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
