package ops

import (
	"os"
	"time"

	"github.com/yanun0323/errors"
	"gopkg.in/yaml.v3"

	"github.com/XxSNiPxX/hyperliquid-hft-test/internal/journal"
	"github.com/XxSNiPxX/hyperliquid-hft-test/internal/quote"
	"github.com/XxSNiPxX/hyperliquid-hft-test/internal/risk"
	"github.com/XxSNiPxX/hyperliquid-hft-test/internal/signal"
	"github.com/XxSNiPxX/hyperliquid-hft-test/pkg/conn"
	"github.com/XxSNiPxX/hyperliquid-hft-test/pkg/exception"
)

const (
	DefaultFeedURL       = "wss://api.hyperliquid.xyz/ws"
	DefaultCoin          = "BTC"
	DefaultQueueCapacity = 1024
	DefaultMetricsAddr   = ":9100"
	DefaultProfileApp    = "hyperliquid-mm"
)

// FileConfig mirrors the YAML config layout.
type FileConfig struct {
	Feed      FeedConfig      `yaml:"feed"`
	Signal    signal.Config   `yaml:"signal"`
	Quote     quote.Config    `yaml:"quote"`
	Risk      risk.Config     `yaml:"risk"`
	Journal   JournalConfig   `yaml:"journal"`
	Metrics   MetricsConfig   `yaml:"metrics"`
	Profiling ProfilingConfig `yaml:"profiling"`
}

// FeedConfig selects the venue stream and the router queue.
type FeedConfig struct {
	URL           string `yaml:"url"`
	Coin          string `yaml:"coin"`
	QueueCapacity int    `yaml:"queueCapacity"`
	Diagnostics   bool   `yaml:"diagnostics"`
}

// JournalConfig describes the optional postgres intent journal.
type JournalConfig struct {
	Enabled       bool          `yaml:"enabled"`
	ConnString    string        `yaml:"connString"`
	Host          string        `yaml:"host"`
	Port          int           `yaml:"port"`
	User          string        `yaml:"user"`
	Password      string        `yaml:"password"`
	Database      string        `yaml:"database"`
	SSLMode       string        `yaml:"sslMode"`
	QueueSize     int           `yaml:"queueSize"`
	BatchSize     int           `yaml:"batchSize"`
	FlushInterval time.Duration `yaml:"flushInterval"`
}

// Conn returns the postgres connection options.
func (c JournalConfig) Conn() conn.Option {
	return conn.Option{
		ConnString: c.ConnString,
		Host:       c.Host,
		Port:       c.Port,
		User:       c.User,
		Password:   c.Password,
		Database:   c.Database,
		SSLMode:    c.SSLMode,
		Params:     map[string]string{"application_name": DefaultProfileApp},
	}
}

// Writer returns the journal writer options.
func (c JournalConfig) Writer() journal.Config {
	return journal.Config{
		QueueSize:     c.QueueSize,
		BatchSize:     c.BatchSize,
		FlushInterval: c.FlushInterval,
	}
}

// MetricsConfig controls the prometheus endpoint. An empty Addr disables it.
type MetricsConfig struct {
	Addr string `yaml:"addr"`
}

// ProfilingConfig controls continuous profiling.
type ProfilingConfig struct {
	Enabled         bool   `yaml:"enabled"`
	ServerAddress   string `yaml:"serverAddress"`
	ApplicationName string `yaml:"applicationName"`
}

// Default returns the stock configuration used when a key is absent from the file.
func Default() FileConfig {
	return FileConfig{
		Feed: FeedConfig{
			URL:           DefaultFeedURL,
			Coin:          DefaultCoin,
			QueueCapacity: DefaultQueueCapacity,
			Diagnostics:   true,
		},
		Signal:  signal.DefaultConfig(),
		Quote:   quote.DefaultConfig(),
		Risk:    risk.DefaultConfig(),
		Journal: JournalConfig{FlushInterval: journal.DefaultConfig().FlushInterval},
		Metrics: MetricsConfig{Addr: DefaultMetricsAddr},
		Profiling: ProfilingConfig{
			ApplicationName: DefaultProfileApp,
		},
	}
}

// Load reads a YAML config file on top of the defaults and validates it.
func Load(path string) (FileConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return FileConfig{}, errors.Wrap(err, "read config").With("path", path)
	}
	return Parse(data)
}

// Parse decodes YAML on top of the defaults and validates the result.
func Parse(data []byte) (FileConfig, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return FileConfig{}, errors.Wrap(exception.ErrConfigInvalid, err.Error())
	}
	if err := cfg.Validate(); err != nil {
		return FileConfig{}, err
	}
	return cfg, nil
}

// Validate reports the first invalid section.
func (c FileConfig) Validate() error {
	invalid := func(msg string) error {
		return errors.Wrap(exception.ErrConfigInvalid, msg)
	}

	switch {
	case c.Feed.URL == "":
		return invalid("feed.url is empty")
	case c.Feed.Coin == "":
		return invalid("feed.coin is empty")
	case c.Feed.QueueCapacity < 0:
		return invalid("feed.queueCapacity must be >= 0")
	case c.Risk.MaxPosition < 0:
		return invalid("risk.maxPosition must be >= 0")
	case c.Risk.MaxOrderSize < 0:
		return invalid("risk.maxOrderSize must be >= 0")
	case c.Quote.BaseSize <= 0:
		return invalid("quote.baseSize must be > 0")
	case c.Quote.TickSize < 0:
		return invalid("quote.tickSize must be >= 0")
	case c.Quote.MinSizeFactor < 0 || c.Quote.MinSizeFactor > c.Quote.MaxSizeFactor:
		return invalid("quote.minSizeFactor must be within [0, maxSizeFactor]")
	case c.Quote.MaxSpreadMultiplier < 0:
		return invalid("quote.maxSpreadMultiplier must be >= 0")
	case c.Quote.FillScoreThreshold < 0:
		return invalid("quote.fillScoreThreshold must be >= 0")
	case c.Profiling.Enabled && c.Profiling.ServerAddress == "":
		return invalid("profiling.serverAddress is empty")
	}

	if err := c.Signal.Validate(); err != nil {
		return invalid(err.Error())
	}
	if c.Journal.Enabled {
		if err := c.Journal.Writer().Validate(); err != nil {
			return invalid(err.Error())
		}
	}
	return nil
}
