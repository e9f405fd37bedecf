// internal/stages/ingest/read-source/config.go
package readsource

import "fmt"

type Config struct {
	SheetName string `mapstructure:"sheet_name"`
	HeaderRow int    `mapstructure:"header_row"`
}

func DefaultConfig() *Config {
	return &Config{
		SheetName: "평가표",
		HeaderRow: 5,
	}
}

func (c *Config) Validate() error {
	if c.SheetName == "" {
		return fmt.Errorf("sheet_name is required")
	}
	if c.HeaderRow < 1 {
		return fmt.Errorf("header_row must be >= 1")
	}
	return nil
}
