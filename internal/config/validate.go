package config

import (
	"errors"
	"fmt"
	"strings"

	"lobster-preview/internal/logging"
)

// Validate reports every invalid setting at once.
func (c *Config) Validate() error {
	var errs []error

	if c.Message1Path == "" {
		errs = append(errs, errors.New("message_1 path is required"))
	}
	if c.Message10Path == "" {
		errs = append(errs, errors.New("message_10 path is required"))
	}
	if c.OutputDir == "" {
		errs = append(errs, errors.New("output_dir is required"))
	}
	if c.PreviewRows < 1 {
		errs = append(errs, fmt.Errorf("preview_rows must be positive, got %d", c.PreviewRows))
	}
	if c.HeadRows < 0 {
		errs = append(errs, fmt.Errorf("head_rows must not be negative, got %d", c.HeadRows))
	}
	if c.Workers < 1 {
		errs = append(errs, fmt.Errorf("workers must be at least 1, got %d", c.Workers))
	}
	if _, err := logging.ParseLevel(c.LogLevel); err != nil {
		errs = append(errs, err)
	}
	if dsn := c.Storage.PostgresDSN; dsn != "" &&
		!strings.HasPrefix(dsn, "postgres://") && !strings.HasPrefix(dsn, "postgresql://") {
		errs = append(errs, errors.New("postgres_dsn must use the postgres:// scheme"))
	}
	if dsn := c.Storage.ClickhouseDSN; dsn != "" && !strings.HasPrefix(dsn, "clickhouse://") {
		errs = append(errs, errors.New("clickhouse_dsn must use the clickhouse:// scheme"))
	}

	return errors.Join(errs...)
}
