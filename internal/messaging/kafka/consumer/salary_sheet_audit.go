package consumer

import (
	"context"
	"encoding/json"

	"go-payroll/internal/bootstrap"
	"go-payroll/internal/events"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// ConsumeSalarySheetEvents writes an audit entry for every sheet generation
// and record status change.
func ConsumeSalarySheetEvents(
	ctx context.Context,
	reader MessageReader,
	audit bootstrap.AuditLogger,
	logger *zap.Logger,
) {
	log := logger.Named("kafka.consumer.salary_sheet")
	run(ctx, reader, salarySheetAuditHandler(audit, log), log)
}

func salarySheetAuditHandler(audit bootstrap.AuditLogger, log *zap.Logger) handleFunc {
	return func(ctx context.Context, msg kafkago.Message) bool {
		var head struct {
			EventType string `json:"event_type"`
		}
		if err := json.Unmarshal(msg.Value, &head); err != nil {
			log.Error("decode salary sheet event failed", zap.Error(err))
			return true
		}

		switch head.EventType {
		case events.EventTypeSalarySheetGenerated:
			var ev events.SalarySheetGeneratedEvent
			if err := json.Unmarshal(msg.Value, &ev); err != nil {
				log.Error("decode salary sheet generated failed", zap.Error(err))
				return true
			}
			audit.Log(ctx, bootstrap.AuditLog{
				Action:  "SALARY_SHEET_GENERATED",
				Message: "Salary sheet generated",
				Meta: map[string]any{
					"shop_id":    ev.ShopID,
					"month":      ev.Month,
					"year":       ev.Year,
					"created":    ev.Created,
					"skipped":    ev.Skipped,
					"request_id": ev.RequestID,
				},
			})

		case events.EventTypeSalaryStatusChanged:
			var ev events.SalaryRecordStatusChangedEvent
			if err := json.Unmarshal(msg.Value, &ev); err != nil {
				log.Error("decode salary status changed failed", zap.Error(err))
				return true
			}
			audit.Log(ctx, bootstrap.AuditLog{
				Action:  "SALARY_STATUS_CHANGED",
				Message: "Salary record status changed",
				Meta: map[string]any{
					"salary_record_id": ev.SalaryRecordID,
					"employee_id":      ev.EmployeeID,
					"shop_id":          ev.ShopID,
					"from":             ev.FromStatus,
					"to":               ev.ToStatus,
					"changed_by":       ev.ChangedBy,
					"request_id":       ev.RequestID,
				},
			})

		default:
			log.Debug("ignoring salary sheet event", zap.String("event_type", head.EventType))
		}
		return true
	}
}
