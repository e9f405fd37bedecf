// internal/stages/reporting/build-report/config.go
package buildreport

import "fmt"

type Config struct {
	SheetSuffix    string
	SummarySheet   string
	CommentSlots   int
	Parallelism    int
	TotalMaxPoints float64
}

func DefaultConfig() *Config {
	return &Config{
		SheetSuffix:    "report",
		SummarySheet:   "Summary",
		CommentSlots:   3,
		Parallelism:    4,
		TotalMaxPoints: 100,
	}
}

func (c *Config) Validate() error {
	if c.SummarySheet == "" {
		return fmt.Errorf("summary_sheet is required")
	}
	if c.CommentSlots < 1 {
		return fmt.Errorf("comment_slots must be positive")
	}
	if c.Parallelism < 1 {
		return fmt.Errorf("parallelism must be positive")
	}
	return nil
}
