package config

import (
	"flag"
)

// Flag names.
const (
	FlagConfig        = "config"
	FlagMessage1      = "message-1"
	FlagMessage10     = "message-10"
	FlagOutputDir     = "output-dir"
	FlagPreviewRows   = "preview-rows"
	FlagHeadRows      = "head-rows"
	FlagWorkers       = "workers"
	FlagLogLevel      = "log-level"
	FlagMetricsFile   = "metrics-file"
	FlagPostgresDSN   = "postgres-dsn"
	FlagClickhouseDSN = "clickhouse-dsn"
)

// RegisterFlags defines every setting on fs and returns the -config value.
// Defaults shown in -help are the code defaults.
func RegisterFlags(fs *flag.FlagSet) *string {
	d := Defaults()

	configPath := fs.String(FlagConfig, "", "Path to YAML config file (optional)")
	fs.String(FlagMessage1, d.Message1Path, "Path to the raw events message file")
	fs.String(FlagMessage10, d.Message10Path, "Path to the aggregated or sampled message file")
	fs.String(FlagOutputDir, d.OutputDir, "Directory for preview CSV files")
	fs.Int(FlagPreviewRows, d.PreviewRows, "Rows written to each preview file")
	fs.Int(FlagHeadRows, d.HeadRows, "Rows printed for each console preview")
	fs.Int(FlagWorkers, d.Workers, "Goroutines used to annotate elapsed time")
	fs.String(FlagLogLevel, d.LogLevel, "Log level: debug, info, warn, error")
	fs.String(FlagMetricsFile, d.MetricsFile, "Write Prometheus metrics to this textfile (optional)")
	fs.String(FlagPostgresDSN, "", "PostgreSQL DSN for the preview sink (optional)")
	fs.String(FlagClickhouseDSN, "", "ClickHouse DSN for the preview sink (optional)")

	return configPath
}

// ApplyFlags overrides c with the flags explicitly set on fs.
func (c *Config) ApplyFlags(fs *flag.FlagSet) {
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case FlagMessage1:
			c.Message1Path = f.Value.String()
		case FlagMessage10:
			c.Message10Path = f.Value.String()
		case FlagOutputDir:
			c.OutputDir = f.Value.String()
		case FlagPreviewRows:
			c.PreviewRows = intValue(f)
		case FlagHeadRows:
			c.HeadRows = intValue(f)
		case FlagWorkers:
			c.Workers = intValue(f)
		case FlagLogLevel:
			c.LogLevel = f.Value.String()
		case FlagMetricsFile:
			c.MetricsFile = f.Value.String()
		case FlagPostgresDSN:
			c.Storage.PostgresDSN = f.Value.String()
		case FlagClickhouseDSN:
			c.Storage.ClickhouseDSN = f.Value.String()
		}
	})
}

func intValue(f *flag.Flag) int {
	return f.Value.(flag.Getter).Get().(int)
}
