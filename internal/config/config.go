package config

import (
	"fmt"
	"time"
)

// Config is the root configuration shared by every binary.
type Config struct {
	App      AppConfig      `yaml:"app"`
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Redis    RedisConfig    `yaml:"redis"`
	Kafka    KafkaConfig    `yaml:"kafka"`
	Auth     AuthConfig     `yaml:"auth"`
	CORS     CORSConfig     `yaml:"cors"`
	Worker   WorkerConfig   `yaml:"worker"`
}

type AppConfig struct {
	Env      string `yaml:"env"       env:"APP_ENV"       env-default:"development"`
	LogLevel string `yaml:"log_level" env:"APP_LOG_LEVEL" env-default:"info"`
}

func (c AppConfig) IsProduction() bool {
	return c.Env == "production"
}

type ServerConfig struct {
	Port         string        `yaml:"port"          env:"PORT"                 env-default:"3000"`
	ReadTimeout  time.Duration `yaml:"read_timeout"  env:"SERVER_READ_TIMEOUT"  env-default:"5s"`
	WriteTimeout time.Duration `yaml:"write_timeout" env:"SERVER_WRITE_TIMEOUT" env-default:"30s"`
	IdleTimeout  time.Duration `yaml:"idle_timeout"  env:"SERVER_IDLE_TIMEOUT"  env-default:"60s"`
	// ShutdownTimeout bounds how long in-flight requests may drain.
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"SERVER_SHUTDOWN_TIMEOUT" env-default:"10s"`
}

type DatabaseConfig struct {
	Host       string `yaml:"host"        env:"DB_HOST"        env-default:"localhost"`
	Port       string `yaml:"port"        env:"DB_PORT"        env-default:"5432"`
	User       string `yaml:"user"        env:"DB_USER"        env-required:"true"`
	Password   string `yaml:"password"    env:"DB_PASSWORD"`
	Name       string `yaml:"name"        env:"DB_NAME"        env-required:"true"`
	SSLMode    string `yaml:"sslmode"     env:"DB_SSLMODE"     env-default:"disable"`
	MaxRetries int    `yaml:"max_retries" env:"DB_MAX_RETRIES" env-default:"5"`
}

// DSN is the key/value connection string understood by pgx.
func (c DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=%s",
		c.Host, c.User, c.Password, c.Name, c.Port, c.SSLMode,
	)
}

type RedisConfig struct {
	Addr       string `yaml:"addr"        env:"REDIS_ADDR"        env-default:"localhost:6379"`
	Password   string `yaml:"password"    env:"REDIS_PASSWORD"`
	DB         int    `yaml:"db"          env:"REDIS_DB"          env-default:"0"`
	MaxRetries int    `yaml:"max_retries" env:"REDIS_MAX_RETRIES" env-default:"5"`
}

type KafkaConfig struct {
	Broker        string `yaml:"broker"         env:"KAFKA_BROKER"`
	ConsumerGroup string `yaml:"consumer_group" env:"KAFKA_CONSUMER_GROUP" env-default:"go-payroll-salary-record"`
	AuditGroup    string `yaml:"audit_group"    env:"KAFKA_AUDIT_GROUP"    env-default:"go-payroll-audit"`
	MaxRetries    int    `yaml:"max_retries"    env:"KAFKA_MAX_RETRIES"    env-default:"5"`
}

type AuthConfig struct {
	JWTSecret       string        `yaml:"jwt_secret"        env:"JWT_SECRET"        env-required:"true"`
	AccessTokenTTL  time.Duration `yaml:"access_token_ttl"  env:"ACCESS_TOKEN_TTL"  env-default:"15m"`
	RefreshTokenTTL time.Duration `yaml:"refresh_token_ttl" env:"REFRESH_TOKEN_TTL" env-default:"168h"`
}

type CORSConfig struct {
	AllowedOrigins   []string `yaml:"allowed_origins"   env:"CORS_ALLOWED_ORIGINS"   env-separator:"," env-default:"http://localhost:5173"`
	AllowCredentials bool     `yaml:"allow_credentials" env:"CORS_ALLOW_CREDENTIALS" env-default:"true"`
}

type WorkerConfig struct {
	OutboxPollInterval time.Duration `yaml:"outbox_poll_interval" env:"WORKER_OUTBOX_POLL_INTERVAL" env-default:"3s"`
	OutboxBatchSize    int           `yaml:"outbox_batch_size"    env:"WORKER_OUTBOX_BATCH_SIZE"    env-default:"50"`
	// GenerateSchedule is a cron spec with seconds. Empty disables the job.
	GenerateSchedule string `yaml:"generate_schedule" env:"WORKER_GENERATE_SCHEDULE" env-default:"0 5 0 1 * *"`
	// Sent outbox rows older than OutboxRetention are purged on PurgeSchedule.
	OutboxRetention time.Duration `yaml:"outbox_retention" env:"WORKER_OUTBOX_RETENTION" env-default:"168h"`
	PurgeSchedule   string        `yaml:"purge_schedule"   env:"WORKER_PURGE_SCHEDULE"   env-default:"0 30 3 * * *"`
}
