// internal/stages/scoring/validate-results/config.go
package validateresults

import "fmt"

type Config struct {
	DeclaredColumn string
}

func DefaultConfig() *Config {
	return &Config{DeclaredColumn: "합격여부(Pass/Fail)"}
}

func (c *Config) Validate() error {
	if c.DeclaredColumn == "" {
		return fmt.Errorf("declared_column is required")
	}
	return nil
}
