package app

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"go-payroll/internal/bootstrap"
	"go-payroll/internal/config"
	"go-payroll/internal/events"
	"go-payroll/internal/messaging/kafka"
	"go-payroll/internal/messaging/kafka/consumer"
	"go-payroll/internal/salaryrecord"
	"go-payroll/internal/shared/connection"

	"go.uber.org/zap"
)

func RunConsumer(cfg *config.Config) error {
	if cfg.Kafka.Broker == "" {
		return errors.New("kafka.broker is required")
	}
	logger := zap.L().Named("app.consumer")

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

	salaryRecordService := salaryrecord.NewServiceWithOutbox(
		sqlDB, salaryrecord.NewRepository(gormDB), kafka.NewOutboxRepository(sqlDB), rdb, logger,
	)

	lifecycleReader := connection.NewKafkaReader(cfg.Kafka, events.EmployeeLifecycleTopic)
	defer lifecycleReader.Close()

	auditCfg := cfg.Kafka
	auditCfg.ConsumerGroup = cfg.Kafka.AuditGroup
	auditReader := connection.NewKafkaReader(auditCfg, events.SalarySheetTopic)
	defer auditReader.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		consumer.ConsumeEmployeeLifecycle(ctx, lifecycleReader, salaryRecordService, logger)
	}()
	go func() {
		defer wg.Done()
		consumer.ConsumeSalarySheetEvents(ctx, auditReader, bootstrap.NewStdoutAuditLogger(logger), logger)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("consumer shutting down")
	cancel()
	wg.Wait()

	return nil
}
