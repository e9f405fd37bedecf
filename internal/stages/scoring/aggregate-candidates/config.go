// internal/stages/scoring/aggregate-candidates/config.go
package aggregatecandidates

import "fmt"

type Config struct {
	ExpectedReviewers int
	TotalColumn       string
}

func DefaultConfig() *Config {
	return &Config{
		ExpectedReviewers: 3,
		TotalColumn:       "총점",
	}
}

func (c *Config) Validate() error {
	if c.ExpectedReviewers < 1 {
		return fmt.Errorf("expected_reviewers must be positive")
	}
	if c.TotalColumn == "" {
		return fmt.Errorf("total_column is required")
	}
	return nil
}
