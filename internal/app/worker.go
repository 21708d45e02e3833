package app

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go-payroll/internal/config"
	"go-payroll/internal/messaging/kafka"
	"go-payroll/internal/messaging/kafka/producer"
	"go-payroll/internal/salaryrecord"
	"go-payroll/internal/shared/connection"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// SheetGenerator is satisfied by salaryrecord.Service.
type SheetGenerator interface {
	GenerateAllShops(ctx context.Context, month, year int) (salaryrecord.GenerateResponse, error)
}

// GenerationJob creates the current month's salary sheet for every shop.
type GenerationJob struct {
	generator SheetGenerator
	now       func() time.Time
	logger    *zap.Logger
}

func NewGenerationJob(generator SheetGenerator, now func() time.Time, logger *zap.Logger) *GenerationJob {
	if now == nil {
		now = time.Now
	}
	return &GenerationJob{generator: generator, now: now, logger: logger.Named("app.generation_job")}
}

func (j *GenerationJob) Run(ctx context.Context) {
	now := j.now()
	month, year := int(now.Month()), now.Year()

	resp, err := j.generator.GenerateAllShops(ctx, month, year)
	fields := []zap.Field{
		zap.Int("month", month),
		zap.Int("year", year),
		zap.Int("created", resp.Created),
		zap.Int("skipped", resp.Skipped),
	}
	if err != nil {
		j.logger.Error("monthly generation finished with errors", append(fields, zap.Error(err))...)
		return
	}
	j.logger.Info("monthly generation finished", fields...)
}

// Schedule registers the job on c. An empty spec leaves c untouched.
func (j *GenerationJob) Schedule(ctx context.Context, c *cron.Cron, spec string) error {
	if spec == "" {
		j.logger.Info("monthly generation disabled")
		return nil
	}
	_, err := c.AddFunc(spec, func() { j.Run(ctx) })
	return err
}

func RunWorker(cfg *config.Config) error {
	if cfg.Kafka.Broker == "" {
		return errors.New("kafka.broker is required")
	}
	logger := zap.L().Named("app.worker")

	gormDB, err := connection.ConnectGORMWithRetry(cfg.Database)
	if err != nil {
		return err
	}
	sqlDB, err := gormDB.DB()
	if err != nil {
		return err
	}
	defer sqlDB.Close()

	rdb, err := connection.ConnectRedisWithRetry(cfg.Redis)
	if err != nil {
		return err
	}
	defer rdb.Close()

	kafkaWriter, err := connection.ConnectKafkaWithRetry(cfg.Kafka)
	if err != nil {
		return err
	}
	defer kafkaWriter.Close()

	outboxRepo := kafka.NewOutboxRepository(sqlDB)
	salaryRecordService := salaryrecord.NewServiceWithOutbox(
		sqlDB, salaryrecord.NewRepository(gormDB), outboxRepo, rdb, logger,
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	scheduler := cron.New(cron.WithSeconds())
	job := NewGenerationJob(salaryRecordService, time.Now, logger)
	if err := job.Schedule(ctx, scheduler, cfg.Worker.GenerateSchedule); err != nil {
		return err
	}
	if spec := cfg.Worker.PurgeSchedule; spec != "" {
		if _, err := scheduler.AddFunc(spec, func() {
			if _, err := producer.PurgeSentEvents(ctx, outboxRepo, cfg.Worker.OutboxRetention, time.Now(), logger); err != nil {
				logger.Error("purge sent outbox events failed", zap.Error(err))
			}
		}); err != nil {
			return err
		}
	}
	scheduler.Start()

	go producer.ProcessOutboxEvents(ctx, outboxRepo, kafkaWriter, logger, producer.Options{
		PollInterval: cfg.Worker.OutboxPollInterval,
		BatchSize:    cfg.Worker.OutboxBatchSize,
	})

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("worker shutting down")
	cancel()
	<-scheduler.Stop().Done()

	return nil
}
