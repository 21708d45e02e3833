package config

import (
	"errors"
	"fmt"
	"slices"
)

var validEnvs = []string{"development", "staging", "production", "test"}

func (c *Config) Validate() error {
	var errs []error

	if !slices.Contains(validEnvs, c.App.Env) {
		errs = append(errs, fmt.Errorf("app.env must be one of %v, got %q", validEnvs, c.App.Env))
	}
	if c.Server.Port == "" {
		errs = append(errs, errors.New("server.port is required"))
	}
	if c.Auth.JWTSecret == "" {
		errs = append(errs, errors.New("auth.jwt_secret is required"))
	} else if c.App.IsProduction() && len(c.Auth.JWTSecret) < 32 {
		errs = append(errs, errors.New("auth.jwt_secret must be at least 32 characters in production"))
	}
	if c.Auth.AccessTokenTTL <= 0 || c.Auth.RefreshTokenTTL <= 0 {
		errs = append(errs, errors.New("auth token ttl must be positive"))
	}
	if c.Auth.RefreshTokenTTL < c.Auth.AccessTokenTTL {
		errs = append(errs, errors.New("auth.refresh_token_ttl must not be shorter than access_token_ttl"))
	}
	if c.Worker.OutboxBatchSize <= 0 {
		errs = append(errs, errors.New("worker.outbox_batch_size must be positive"))
	}

	return errors.Join(errs...)
}
