// Package config loads preview settings from defaults, an optional YAML file,
// a .env file, LOBSTER_-prefixed environment variables and command-line flags,
// in increasing order of precedence.
package config

// Default input files: the AMZN 2012-06-21 LOBSTER sample.
const (
	DefaultMessage1  = "AMZN_2012-06-21_34200000_57600000_message_1.csv"
	DefaultMessage10 = "AMZN_2012-06-21_34200000_57600000_message_10.csv"
)

// EnvPrefix is prepended to every environment variable name.
const EnvPrefix = "LOBSTER_"

// Config holds all settings of one preview run.
type Config struct {
	Message1Path  string `yaml:"message_1" env:"MESSAGE_1"`
	Message10Path string `yaml:"message_10" env:"MESSAGE_10"`
	OutputDir     string `yaml:"output_dir" env:"OUTPUT_DIR"`

	PreviewRows int `yaml:"preview_rows" env:"PREVIEW_ROWS"` // rows per preview file
	HeadRows    int `yaml:"head_rows" env:"HEAD_ROWS"`       // rows per console preview
	Workers     int `yaml:"workers" env:"WORKERS"`

	LogLevel    string `yaml:"log_level" env:"LOG_LEVEL"`
	MetricsFile string `yaml:"metrics_file" env:"METRICS_FILE"`

	Storage StorageConfig `yaml:"storage"`
}

// StorageConfig holds the optional preview sinks. Empty DSN disables a sink.
type StorageConfig struct {
	PostgresDSN   string `yaml:"postgres_dsn" env:"POSTGRES_DSN"`
	ClickhouseDSN string `yaml:"clickhouse_dsn" env:"CLICKHOUSE_DSN"`
}

// Defaults returns the configuration used when nothing overrides it.
func Defaults() *Config {
	return &Config{
		Message1Path:  DefaultMessage1,
		Message10Path: DefaultMessage10,
		OutputDir:     ".",
		PreviewRows:   1000,
		HeadRows:      5,
		Workers:       1,
		LogLevel:      "info",
	}
}
