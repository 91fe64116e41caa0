// Package config loads and validates csvlist configuration.
package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/johndauphine/csvlist/internal/logging"
	"github.com/johndauphine/csvlist/internal/source"
	"github.com/johndauphine/csvlist/internal/typemap"
	"github.com/johndauphine/csvlist/internal/util"
)

const (
	DefaultFieldDelimiter = "|"
	DefaultTokenDelimiter = ";"
	DefaultBatchSize      = 1000
	DefaultTable          = "csvlist"
)

// Config is the complete run configuration.
type Config struct {
	Input         InputConfig   `yaml:"input"`
	Split         SplitConfig   `yaml:"split"`
	Output        OutputConfig  `yaml:"output"`
	Target        TargetConfig  `yaml:"target"`
	Logging       LoggingConfig `yaml:"logging"`
	MemoryLimitMB int64         `yaml:"memory_limit_mb"` // 0 means unlimited
}

// InputConfig describes the delimited input file.
type InputConfig struct {
	Path        string            `yaml:"path"`
	Delimiter   string            `yaml:"delimiter"`
	NullValues  []string          `yaml:"null_values"`
	ColumnTypes map[string]string `yaml:"column_types"`
	ChunkSize   int               `yaml:"chunk_size"`
	LazyQuotes  bool              `yaml:"lazy_quotes"`
}

// SplitConfig names the columns to split and the token delimiter.
type SplitConfig struct {
	Columns   []string `yaml:"columns"`
	Delimiter string   `yaml:"delimiter"`
}

// OutputConfig controls rendering of the split table.
type OutputConfig struct {
	Format string `yaml:"format"` // text or json
	Path   string `yaml:"path"`   // empty means stdout
}

// TargetConfig describes an optional SQL export target.
type TargetConfig struct {
	Type            string `yaml:"type"` // postgres, sqlite, mssql
	Host            string `yaml:"host"`
	Port            int    `yaml:"port"`
	Database        string `yaml:"database"`
	User            string `yaml:"user"`
	Password        string `yaml:"password"`
	Schema          string `yaml:"schema"`
	Table           string `yaml:"table"`
	Path            string `yaml:"path"` // sqlite database file
	SSLMode         string `yaml:"ssl_mode"`
	Encrypt         bool   `yaml:"encrypt"`
	TrustServerCert bool   `yaml:"trust_server_cert"`
	BatchSize       int    `yaml:"batch_size"`
	Truncate        bool   `yaml:"truncate"`
}

// LoggingConfig selects log level and format.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Load reads a YAML config file, expanding ${VAR} references from the environment,
// then applies defaults and validates it.
func Load(path string) (*Config, error) {
	cfg, err := Read(path)
	if err != nil {
		return nil, err
	}
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Read decodes a YAML config file without applying defaults or validating.
// Callers that layer overrides on top call ApplyDefaults and Validate afterwards.
func Read(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}
	cfg, err := decode(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	logging.Debug("Loaded config from %s", path)
	return cfg, nil
}

// Parse decodes YAML config data, applies defaults and validates the result.
func Parse(data []byte) (*Config, error) {
	cfg, err := decode(data)
	if err != nil {
		return nil, err
	}
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func decode(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal([]byte(os.ExpandEnv(string(data))), &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return &cfg, nil
}

// Default returns a config with every default applied and no input set.
func Default() *Config {
	cfg := &Config{}
	cfg.ApplyDefaults()
	return cfg
}

// ApplyDefaults fills unset fields. It is safe to call more than once.
func (c *Config) ApplyDefaults() {
	if c.Input.Delimiter == "" {
		c.Input.Delimiter = DefaultFieldDelimiter
	}
	if c.Input.ChunkSize <= 0 {
		c.Input.ChunkSize = source.DefaultChunkSize
	}
	if c.Split.Delimiter == "" {
		c.Split.Delimiter = DefaultTokenDelimiter
	}
	if c.Output.Format == "" {
		c.Output.Format = "text"
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.Logging.Format == "" {
		c.Logging.Format = "text"
	}
	c.Target.applyDefaults(c.Input.Path)
}

func (t *TargetConfig) applyDefaults(inputPath string) {
	if t.BatchSize <= 0 {
		t.BatchSize = DefaultBatchSize
	}
	if t.Table == "" {
		t.Table = tableNameFor(inputPath)
	}
	dialect, err := typemap.ParseDialect(t.Type)
	if err != nil {
		return
	}
	switch dialect {
	case typemap.Postgres:
		if t.Port == 0 {
			t.Port = 5432
		}
		if t.Schema == "" {
			t.Schema = "public"
		}
		if t.SSLMode == "" {
			t.SSLMode = "disable"
		}
	case typemap.MSSQL:
		if t.Port == 0 {
			t.Port = 1433
		}
		if t.Schema == "" {
			t.Schema = "dbo"
		}
	}
	if t.Host == "" && dialect != typemap.SQLite {
		t.Host = "localhost"
	}
}

var nonIdent = regexp.MustCompile(`[^a-z0-9_]+`)

// tableNameFor derives a table name from an input file name.
func tableNameFor(path string) string {
	base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	name := strings.Trim(nonIdent.ReplaceAllString(strings.ToLower(base), "_"), "_")
	if name == "" || name == "." {
		return DefaultTable
	}
	return name
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	field, err := util.ParseDelimiter(c.Input.Delimiter)
	if err != nil {
		return fmt.Errorf("input.delimiter: %w", err)
	}
	token, err := util.ParseTokenDelimiter(c.Split.Delimiter)
	if err != nil {
		return fmt.Errorf("split.delimiter: %w", err)
	}
	// Equal delimiters would make field and token boundaries in the file ambiguous.
	if field == token {
		return fmt.Errorf("split.delimiter %q must differ from input.delimiter", c.Split.Delimiter)
	}
	for _, col := range c.Split.Columns {
		if strings.TrimSpace(col) == "" {
			return fmt.Errorf("split.columns: empty column name")
		}
	}
	if _, err := source.ParseTypes(c.Input.ColumnTypes); err != nil {
		return fmt.Errorf("input.column_types: %w", err)
	}
	switch c.Output.Format {
	case "text", "json":
	default:
		return fmt.Errorf("output.format %q must be text or json", c.Output.Format)
	}
	if _, err := logging.ParseLevel(c.Logging.Level); err != nil {
		return fmt.Errorf("logging.level: %w", err)
	}
	if c.MemoryLimitMB < 0 {
		return fmt.Errorf("memory_limit_mb must not be negative")
	}
	if c.Target.Type != "" {
		if err := c.Target.validate(); err != nil {
			return fmt.Errorf("target: %w", err)
		}
	}
	return nil
}

func (t *TargetConfig) validate() error {
	dialect, err := typemap.ParseDialect(t.Type)
	if err != nil {
		return err
	}
	if dialect == typemap.SQLite {
		if t.Path == "" {
			return fmt.Errorf("sqlite target requires path")
		}
		return nil
	}
	if t.Database == "" {
		return fmt.Errorf("%s target requires database", dialect)
	}
	return nil
}

// FieldDelimiter returns the parsed input field delimiter.
func (c *Config) FieldDelimiter() rune {
	r, _ := util.ParseDelimiter(c.Input.Delimiter)
	return r
}

// TokenDelimiter returns the parsed split delimiter.
func (c *Config) TokenDelimiter() rune {
	r, _ := util.ParseTokenDelimiter(c.Split.Delimiter)
	return r
}

// SourceOptions converts the input section into reader options.
func (c *Config) SourceOptions() (source.Options, error) {
	types, err := source.ParseTypes(c.Input.ColumnTypes)
	if err != nil {
		return source.Options{}, err
	}
	return source.Options{
		Delimiter:   c.FieldDelimiter(),
		NullValues:  c.Input.NullValues,
		ColumnTypes: types,
		ChunkSize:   c.Input.ChunkSize,
		LazyQuotes:  c.Input.LazyQuotes,
	}, nil
}

// Dialect returns the parsed target dialect.
func (t *TargetConfig) Dialect() (typemap.Dialect, error) {
	return typemap.ParseDialect(t.Type)
}

// DSN returns the driver connection string for the target.
func (t *TargetConfig) DSN() (string, error) {
	dialect, err := t.Dialect()
	if err != nil {
		return "", err
	}
	switch dialect {
	case typemap.Postgres:
		return buildPostgresDSN(t.Host, t.Port, t.Database, t.User, t.Password, t.SSLMode), nil
	case typemap.MSSQL:
		return buildMSSQLDSN(t.Host, t.Port, t.Database, t.User, t.Password, t.Encrypt, t.TrustServerCert), nil
	default:
		return t.Path, nil
	}
}

func buildPostgresDSN(host string, port int, database, user, password, sslMode string) string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		url.QueryEscape(user), url.QueryEscape(password), host, port,
		url.PathEscape(database), url.QueryEscape(sslMode))
}

func buildMSSQLDSN(host string, port int, database, user, password string, encrypt, trustServerCert bool) string {
	return fmt.Sprintf("sqlserver://%s:%s@%s:%d?database=%s&encrypt=%t&TrustServerCertificate=%t",
		url.QueryEscape(user), url.QueryEscape(password), host, port,
		url.QueryEscape(database), encrypt, trustServerCert)
}

// Redacted returns a copy safe to print.
func (c *Config) Redacted() *Config {
	cp := *c
	if cp.Target.Password != "" {
		cp.Target.Password = "********"
	}
	return &cp
}
