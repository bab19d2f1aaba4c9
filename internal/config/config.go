package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/aryankumar/parbench/internal/util"
	"github.com/spf13/viper"
)

const (
	defaultConfigName = ".parbench"
	envPrefix         = "PARBENCH"
)

// Keys used by flags, the config file and PARBENCH_* environment variables.
// Environment names replace dots with underscores: titles.n_tasks is
// PARBENCH_TITLES_N_TASKS.
const (
	KeyTitlesMode           = "titles.mode"
	KeyTitlesTasks          = "titles.n_tasks"
	KeyTitlesPoolSize       = "titles.pool_size"
	KeyTitlesBaseURL        = "titles.base_url"
	KeyTitlesAttempts       = "titles.attempts"
	KeyTitlesRetryDelay     = "titles.retry_delay"
	KeyTitlesRequestTimeout = "titles.request_timeout"

	KeyMatmulMode     = "matmul.mode"
	KeyMatmulJobs     = "matmul.njobs"
	KeyMatmulPoolSize = "matmul.pool_size"
	KeyMatmulRows     = "matmul.rows"
	KeyMatmulInner    = "matmul.inner"
	KeyMatmulCols     = "matmul.cols"
	KeyMatmulSeed     = "matmul.seed"

	KeyServeAddr            = "serve.addr"
	KeyServeReadTimeout     = "serve.read_timeout"
	KeyServeWriteTimeout    = "serve.write_timeout"
	KeyServeShutdownTimeout = "serve.shutdown_timeout"

	KeyTimeout                = "defaults.timeout"
	KeyOutput                 = "defaults.output"
	KeyNoColor                = "defaults.no_color"
	KeyUnboundedWarnThreshold = "defaults.unbounded_warn_threshold"
)

// OutputFormats lists the accepted report formats
var OutputFormats = []string{"table", "json", "yaml", "text"}

// Manager handles parbench configuration
type Manager struct {
	configPath string
	config     *BenchConfig
	viper      *viper.Viper
}

// NewManager creates a new configuration manager.
// An empty configPath searches $HOME for .parbench.yaml.
func NewManager(configPath string) *Manager {
	m := &Manager{
		configPath: configPath,
		viper:      viper.New(),
		config:     &BenchConfig{},
	}
	m.setDefaults()
	return m
}

// Viper exposes the underlying viper instance so commands can bind flags
func (m *Manager) Viper() *viper.Viper {
	return m.viper
}

// SetConfigPath overrides the config file location; it must be called before Load
func (m *Manager) SetConfigPath(path string) {
	m.configPath = path
}

// ConfigFileUsed returns the file that was read, if any
func (m *Manager) ConfigFileUsed() string {
	return m.viper.ConfigFileUsed()
}

// Load reads the config file and environment, applies defaults and validates
func (m *Manager) Load() (*BenchConfig, error) {
	if m.configPath != "" {
		m.viper.SetConfigFile(m.configPath)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get home directory: %w", err)
		}
		m.viper.AddConfigPath(home)
		m.viper.SetConfigName(defaultConfigName)
		m.viper.SetConfigType("yaml")
	}

	m.viper.SetEnvPrefix(envPrefix)
	m.viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	m.viper.AutomaticEnv()
	// njobs has no default, so it must be bound to be seen from the environment
	if err := m.viper.BindEnv(KeyMatmulJobs); err != nil {
		return nil, fmt.Errorf("failed to bind environment: %w", err)
	}

	if err := m.viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	cfg := &BenchConfig{}
	if err := m.viper.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	cfg.Matmul.Single = !m.viper.IsSet(KeyMatmulJobs)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	m.config = cfg
	return cfg, nil
}

// Save writes the effective configuration (defaults included) to the config
// path. An existing file is never overwritten.
func (m *Manager) Save() error {
	if m.configPath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("failed to get home directory: %w", err)
		}
		m.configPath = filepath.Join(home, defaultConfigName+".yaml")
	}

	if err := os.MkdirAll(filepath.Dir(m.configPath), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if err := m.viper.SafeWriteConfigAs(m.configPath); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// GetConfig returns the most recently loaded configuration
func (m *Manager) GetConfig() *BenchConfig {
	return m.config
}

// setDefaults registers every default with viper so files, env and flags
// all layer over the same values
func (m *Manager) setDefaults() {
	v := m.viper

	v.SetDefault(KeyTitlesMode, "pool")
	v.SetDefault(KeyTitlesTasks, 20)
	v.SetDefault(KeyTitlesPoolSize, 10)
	v.SetDefault(KeyTitlesBaseURL, "https://habr.com/ru/articles")
	v.SetDefault(KeyTitlesAttempts, 5)
	v.SetDefault(KeyTitlesRetryDelay, time.Second)
	v.SetDefault(KeyTitlesRequestTimeout, 30*time.Second)

	v.SetDefault(KeyMatmulMode, "process")
	v.SetDefault(KeyMatmulPoolSize, runtime.NumCPU())
	v.SetDefault(KeyMatmulRows, 1000)
	v.SetDefault(KeyMatmulInner, 100)
	v.SetDefault(KeyMatmulCols, 1000)
	v.SetDefault(KeyMatmulSeed, 0)

	v.SetDefault(KeyServeAddr, "127.0.0.1:8000")
	v.SetDefault(KeyServeReadTimeout, 10*time.Second)
	v.SetDefault(KeyServeWriteTimeout, 10*time.Second)
	v.SetDefault(KeyServeShutdownTimeout, 5*time.Second)

	v.SetDefault(KeyTimeout, time.Duration(0))
	v.SetDefault(KeyOutput, "table")
	v.SetDefault(KeyNoColor, false)
	v.SetDefault(KeyUnboundedWarnThreshold, 1000)
}

// Validate checks the numeric limits and the output format.
// Mode names are checked when the strategy is built.
func (c *BenchConfig) Validate() error {
	if c.Titles.Tasks <= 0 {
		return &util.ValidationError{Field: "n_tasks", Value: c.Titles.Tasks, Message: "must be at least 1"}
	}
	if c.Titles.PoolSize <= 0 {
		return &util.ValidationError{Field: "pool_size", Value: c.Titles.PoolSize, Message: "must be at least 1"}
	}
	if c.Titles.Attempts <= 0 {
		return &util.ValidationError{Field: "attempts", Value: c.Titles.Attempts, Message: "must be at least 1"}
	}
	if c.Titles.RetryDelay < 0 {
		return &util.ValidationError{Field: "retry-delay", Value: c.Titles.RetryDelay, Message: "must not be negative"}
	}

	if !c.Matmul.Single && c.Matmul.Jobs <= 0 {
		return &util.ValidationError{Field: "njobs", Value: c.Matmul.Jobs, Message: "must be at least 1"}
	}
	if c.Matmul.PoolSize <= 0 {
		return &util.ValidationError{Field: "pool_size", Value: c.Matmul.PoolSize, Message: "must be at least 1"}
	}
	for field, v := range map[string]int{"rows": c.Matmul.Rows, "inner": c.Matmul.Inner, "cols": c.Matmul.Cols} {
		if v <= 0 {
			return &util.ValidationError{Field: field, Value: v, Message: "must be at least 1"}
		}
	}

	if c.Defaults.Timeout < 0 {
		return &util.ValidationError{Field: "timeout", Value: c.Defaults.Timeout, Message: "must not be negative"}
	}
	if !validOutput(c.Defaults.OutputFormat) {
		return &util.ValidationError{
			Field:   "output",
			Value:   c.Defaults.OutputFormat,
			Message: "must be one of " + strings.Join(OutputFormats, ", "),
		}
	}

	return nil
}

func validOutput(format string) bool {
	for _, f := range OutputFormats {
		if f == format {
			return true
		}
	}
	return false
}
