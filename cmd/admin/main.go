// Command admin creates an admin account, or resets the password and role of
// an existing one.
//
//	admin -username owner -password 's3cret-pass' [-role ADMIN|VIEWER]
package main

import (
	"context"
	"flag"
	"log"
	"os"

	"go-payroll/internal/auth"
	"go-payroll/internal/config"
	"go-payroll/internal/domain"
	"go-payroll/internal/shared/connection"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	username := flag.String("username", "", "admin username")
	password := flag.String("password", os.Getenv("ADMIN_PASSWORD"), "admin password (or ADMIN_PASSWORD)")
	role := flag.String("role", domain.RoleAdmin, "ADMIN or VIEWER")
	flag.Parse()

	if *username == "" || *password == "" {
		flag.Usage()
		os.Exit(2)
	}

	_ = godotenv.Load()

	logger, err := zap.NewDevelopment()
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}
	defer logger.Sync()
	zap.ReplaceGlobals(logger)

	var dbCfg config.DatabaseConfig
	if err := cleanenv.ReadEnv(&dbCfg); err != nil {
		logger.Fatal("read database config", zap.Error(err))
	}

	db, err := connection.ConnectGORMWithRetry(dbCfg)
	if err != nil {
		logger.Fatal("connect database", zap.Error(err))
	}

	// only CreateAdmin is used, which never signs tokens
	service := auth.NewService(auth.NewRepository(db), config.AuthConfig{}, logger)

	user, err := service.CreateAdmin(context.Background(), *username, *password, *role)
	if err != nil {
		logger.Fatal("create admin", zap.Error(err))
	}
	logger.Info("admin ready", zap.String("id", user.ID), zap.String("username", user.Username), zap.String("role", user.Role))
}
