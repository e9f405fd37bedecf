// internal/stages/reporting/publish-findings/config.go
package publishfindings

import (
	"fmt"
	"strings"
	"time"
)

type Config struct {
	Enabled  bool          `mapstructure:"enabled"`
	TopicARN string        `mapstructure:"topic_arn"`
	Timeout  time.Duration `mapstructure:"timeout"`
}

func DefaultConfig() *Config {
	return &Config{Timeout: 10 * time.Second}
}

func (c *Config) Validate() error {
	if !c.Enabled {
		return nil
	}
	if !strings.HasPrefix(c.TopicARN, "arn:") {
		return fmt.Errorf("topic_arn must be an ARN when findings publishing is enabled")
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive")
	}
	return nil
}
