// internal/stages/reporting/write-workbook/config.go
package writeworkbook

import "fmt"

type Config struct {
	// NumberFormat is the built-in excelize number format applied to
	// numeric cells. 2 renders "0.00"; 0 leaves cells unformatted.
	NumberFormat int
}

func DefaultConfig() *Config {
	return &Config{NumberFormat: 2}
}

func (c *Config) Validate() error {
	if c.NumberFormat < 0 {
		return fmt.Errorf("number_format must not be negative")
	}
	return nil
}
