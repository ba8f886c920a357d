package journal

import (
	"time"

	"github.com/yanun0323/errors"
)

const (
	defaultQueueSize     = 4096
	defaultBatchSize     = 256
	defaultFlushInterval = 500 * time.Millisecond
)

// Config controls the journal writer.
type Config struct {
	QueueSize     int
	BatchSize     int
	FlushInterval time.Duration
}

// DefaultConfig returns a baseline configuration for the journal writer.
func DefaultConfig() Config {
	return Config{
		QueueSize:     defaultQueueSize,
		BatchSize:     defaultBatchSize,
		FlushInterval: defaultFlushInterval,
	}
}

func (c Config) withDefaults() Config {
	if c.QueueSize == 0 {
		c.QueueSize = defaultQueueSize
	}
	if c.BatchSize == 0 {
		c.BatchSize = defaultBatchSize
	}
	if c.FlushInterval == 0 {
		c.FlushInterval = defaultFlushInterval
	}
	return c
}

// Validate checks the configuration for invalid values.
func (c Config) Validate() error {
	if c.QueueSize < 0 {
		return errors.New("journal: queue size must be >= 0")
	}
	if c.BatchSize < 0 {
		return errors.New("journal: batch size must be >= 0")
	}
	if c.FlushInterval < 0 {
		return errors.New("journal: flush interval must be >= 0")
	}
	return nil
}
