// internal/common/config/config.go
package config

import (
	"interview-reports/internal/models"
)

// Config is the main application configuration struct.
type Config struct {
	App           AppConfig          `mapstructure:"app"`
	Source        SourceConfig       `mapstructure:"source"`
	Scoring       ScoringConfig      `mapstructure:"scoring"`
	Report        ReportConfig       `mapstructure:"report"`
	Cache         CacheConfig        `mapstructure:"cache"`
	Notifications NotificationConfig `mapstructure:"notifications"`
	Metrics       MetricsConfig      `mapstructure:"metrics"`
	Logging       LoggingConfig      `mapstructure:"logging"`
}

// --- Core App Config ---
type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
}

// SourceConfig describes the reviewer workbook contract.
type SourceConfig struct {
	SheetName      string `mapstructure:"sheet_name"`
	HeaderRow      int    `mapstructure:"header_row"` // 1-based physical row
	IdentityColumn string `mapstructure:"identity_column"`
	TotalColumn    string `mapstructure:"total_column"`
	DeclaredColumn string `mapstructure:"declared_column"`
	CommentColumn  string `mapstructure:"comment_column"`
	ReviewerColumn string `mapstructure:"reviewer_column"`
}

// ScoringConfig holds the category table and the pass rules.
type ScoringConfig struct {
	PassThreshold     float64                     `mapstructure:"pass_threshold"`
	ExpectedReviewers int                         `mapstructure:"expected_reviewers"`
	TotalMaxPoints    float64                     `mapstructure:"total_max_points"`
	Categories        []models.CategoryDefinition `mapstructure:"categories"`
}

// ScoreColumns returns every configured category column followed by the total column.
func (c *Config) ScoreColumns() []string {
	var cols []string
	for _, cat := range c.Scoring.Categories {
		cols = append(cols, cat.Columns...)
	}
	return append(cols, c.Source.TotalColumn)
}

// ReportConfig holds report generation settings.
type ReportConfig struct {
	Layout        string `mapstructure:"layout"`
	RegistryPath  string `mapstructure:"registry_path"`
	OutputDir     string `mapstructure:"output_dir"`
	Parallelism   int    `mapstructure:"parallelism"`
	CommentSlots  int    `mapstructure:"comment_slots"`
	SheetSuffix   string `mapstructure:"sheet_suffix"`
	SummarySheet  string `mapstructure:"summary_sheet"`
	CombinedSheet string `mapstructure:"combined_sheet"`
}

// CacheConfig selects the record-set cache backend.
type CacheConfig struct {
	Backend string      `mapstructure:"backend"` // memory, redis or none
	TTL     int         `mapstructure:"ttl"`     // seconds
	Prefix  string      `mapstructure:"prefix"`
	Redis   RedisConfig `mapstructure:"redis"`
}

type RedisConfig struct {
	Address  string `mapstructure:"address"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// NotificationConfig holds settings for report delivery and findings alerts.
type NotificationConfig struct {
	AWS struct {
		Region string `mapstructure:"region"`
	} `mapstructure:"aws"`
	Email struct {
		Enabled   bool   `mapstructure:"enabled"`
		FromEmail string `mapstructure:"from_email"`
	} `mapstructure:"email"`
	Findings struct {
		Enabled  bool   `mapstructure:"enabled"`
		TopicARN string `mapstructure:"topic_arn"`
	} `mapstructure:"findings"`
}

// MetricsConfig controls the prometheus textfile dump.
type MetricsConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Textfile string `mapstructure:"textfile"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// DefaultCategories is the category table of the standard interview form.
func DefaultCategories() []models.CategoryDefinition {
	return []models.CategoryDefinition{
		{
			Name:      "Project",
			MaxPoints: 30,
			Columns:   []string{"요구사항 관리", "사용방법론,도구", "목표달성/ 사업적 효과성"},
		},
		{
			Name:      "SW Architect",
			MaxPoints: 50,
			Columns: []string{
				"Architecting Process (접근방법 및 절차)",
				"Architecture Design (표현 및 구조화)",
				"Architecture 검증 (프로토타입 및 평가)",
			},
		},
		{
			Name:      "Communication",
			MaxPoints: 20,
			Columns:   []string{"커뮤니케이션 (문서화/리더십)"},
		},
	}
}
