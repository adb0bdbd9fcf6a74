// Package config loads the optional configuration file of the CLI.
//
// Configuration only ever comes from the file named on the command line; no
// environment variables are consulted. Flags given on the command line take
// precedence over file values, which take precedence over Default.
//
// Example file:
//
//	workers: 4
//	format: table
//	header: true
//	comment: "#"
//	log:
//	  level: info
//	  format: console
//	rejections:
//	  limit: 500
package config

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/robinvdvleuten/clientledger/formatter"
	"github.com/robinvdvleuten/clientledger/ledger"
	"github.com/spf13/viper"
)

// Keys of the configuration file.
const (
	KeyWorkers         = "workers"
	KeyFormat          = "format"
	KeyHeader          = "header"
	KeyComment         = "comment"
	KeyLogLevel        = "log.level"
	KeyLogFormat       = "log.format"
	KeyRejectionsLimit = "rejections.limit"
)

// Config is the resolved configuration of a run.
type Config struct {
	// Workers is the number of ledger workers. One means sequential processing.
	Workers int `mapstructure:"workers"`

	// Format is the snapshot output format.
	Format string `mapstructure:"format"`

	// Header enables detection of a leading header row.
	Header bool `mapstructure:"header"`

	// Comment, when set, is a single character that marks input lines to ignore.
	Comment string `mapstructure:"comment"`

	Log        LogConfig        `mapstructure:"log"`
	Rejections RejectionsConfig `mapstructure:"rejections"`
}

// LogConfig configures diagnostics logging.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// RejectionsConfig configures how many row errors are kept for reporting.
type RejectionsConfig struct {
	Limit int `mapstructure:"limit"`
}

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		Workers: 1,
		Format:  string(formatter.FormatCSV),
		Header:  true,
		Log: LogConfig{
			Level:  "error",
			Format: "console",
		},
		Rejections: RejectionsConfig{
			Limit: ledger.DefaultRejectionLimit,
		},
	}
}

// NewViper returns a viper instance preloaded with the defaults and, when
// path is not empty, the contents of the file at path. The file type is
// inferred from its extension.
func NewViper(path string) (*viper.Viper, error) {
	v := viper.New()

	d := Default()
	v.SetDefault(KeyWorkers, d.Workers)
	v.SetDefault(KeyFormat, d.Format)
	v.SetDefault(KeyHeader, d.Header)
	v.SetDefault(KeyComment, d.Comment)
	v.SetDefault(KeyLogLevel, d.Log.Level)
	v.SetDefault(KeyLogFormat, d.Log.Format)
	v.SetDefault(KeyRejectionsLimit, d.Rejections.Limit)

	if path == "" {
		return v, nil
	}

	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	return v, nil
}

// Load reads the configuration file at path. An empty path yields Default.
func Load(path string) (Config, error) {
	v, err := NewViper(path)
	if err != nil {
		return Config{}, err
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("failed to decode config %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config %s: %w", path, err)
	}

	return cfg, nil
}

// Validate checks the configuration values.
func (c Config) Validate() error {
	if c.Workers < 1 {
		return fmt.Errorf("workers must be at least 1, got %d", c.Workers)
	}
	if _, err := formatter.ParseFormat(c.Format); err != nil {
		return err
	}
	switch strings.ToLower(c.Log.Format) {
	case "console", "json":
	default:
		return fmt.Errorf("unknown log format %q (want console or json)", c.Log.Format)
	}
	if c.Comment != "" {
		r, size := utf8.DecodeRuneInString(c.Comment)
		if size != len(c.Comment) || r == utf8.RuneError || strings.ContainsRune(",\"\r\n", r) {
			return fmt.Errorf("comment must be a single character other than a comma, quote or newline, got %q", c.Comment)
		}
	}
	if c.Rejections.Limit < -1 {
		return fmt.Errorf("rejections.limit must be -1 (unlimited) or more, got %d", c.Rejections.Limit)
	}
	return nil
}

// CommentRune returns the comment character, if one is configured.
func (c Config) CommentRune() (rune, bool) {
	if c.Comment == "" {
		return 0, false
	}
	r, _ := utf8.DecodeRuneInString(c.Comment)
	return r, true
}
