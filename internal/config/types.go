package config

import "time"

// BenchConfig represents the parbench configuration file structure
type BenchConfig struct {
	// Titles configures the article title benchmark
	Titles TitlesConfig `mapstructure:"titles" yaml:"titles" json:"titles"`

	// Matmul configures the matrix multiplication benchmark
	Matmul MatmulConfig `mapstructure:"matmul" yaml:"matmul" json:"matmul"`

	// Serve configures the palindrome endpoint
	Serve ServeConfig `mapstructure:"serve" yaml:"serve" json:"serve"`

	// Defaults contains settings shared by every command
	Defaults DefaultsConfig `mapstructure:"defaults" yaml:"defaults" json:"defaults"`
}

// TitlesConfig configures the I/O-bound benchmark
type TitlesConfig struct {
	// Mode is the execution strategy (single, threads, pool, process_pool)
	Mode string `mapstructure:"mode" yaml:"mode" json:"mode"`

	// Tasks is the number of articles to fetch
	Tasks int `mapstructure:"n_tasks" yaml:"n_tasks" json:"n_tasks"`

	// PoolSize bounds the pool strategies
	PoolSize int `mapstructure:"pool_size" yaml:"pool_size" json:"pool_size"`

	// BaseURL is the article listing; ids are appended or substituted for {id}
	BaseURL string `mapstructure:"base_url" yaml:"base_url" json:"base_url"`

	// Attempts is how many GETs are made per article
	Attempts int `mapstructure:"attempts" yaml:"attempts" json:"attempts"`

	// RetryDelay is the fixed pause between attempts
	RetryDelay time.Duration `mapstructure:"retry_delay" yaml:"retry_delay" json:"retry_delay"`

	// RequestTimeout bounds a single GET
	RequestTimeout time.Duration `mapstructure:"request_timeout" yaml:"request_timeout" json:"request_timeout"`
}

// MatmulConfig configures the CPU-bound benchmark
type MatmulConfig struct {
	// Mode is the execution strategy (thread or process)
	Mode string `mapstructure:"mode" yaml:"mode" json:"mode"`

	// Jobs is the number of multiplications; ignored when Single is set
	Jobs int `mapstructure:"njobs" yaml:"njobs,omitempty" json:"njobs,omitempty"`

	// PoolSize bounds the pool strategies; defaults to the CPU count
	PoolSize int `mapstructure:"pool_size" yaml:"pool_size" json:"pool_size"`

	Rows  int `mapstructure:"rows" yaml:"rows" json:"rows"`
	Inner int `mapstructure:"inner" yaml:"inner" json:"inner"`
	Cols  int `mapstructure:"cols" yaml:"cols" json:"cols"`

	// Seed drives matrix generation; 0 picks a fresh seed per run
	Seed uint64 `mapstructure:"seed" yaml:"seed" json:"seed"`

	// Single is true when no job count was given anywhere
	Single bool `mapstructure:"-" yaml:"-" json:"-"`
}

// ServeConfig configures the HTTP endpoint
type ServeConfig struct {
	Addr            string        `mapstructure:"addr" yaml:"addr" json:"addr"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout" yaml:"read_timeout" json:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout" yaml:"write_timeout" json:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout" yaml:"shutdown_timeout" json:"shutdown_timeout"`
}

// DefaultsConfig contains default configuration values
type DefaultsConfig struct {
	// Timeout bounds a whole run; 0 means no deadline
	Timeout time.Duration `mapstructure:"timeout" yaml:"timeout" json:"timeout"`

	// OutputFormat is the report format (table, json, yaml, text)
	OutputFormat string `mapstructure:"output" yaml:"output" json:"output"`

	// NoColor disables colored output
	NoColor bool `mapstructure:"no_color" yaml:"no_color" json:"no_color"`

	// UnboundedWarnThreshold is the task count above which thread-per-task warns
	UnboundedWarnThreshold int `mapstructure:"unbounded_warn_threshold" yaml:"unbounded_warn_threshold" json:"unbounded_warn_threshold"`
}
