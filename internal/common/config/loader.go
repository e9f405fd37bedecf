// internal/common/config/loader.go
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"interview-reports/internal/models"
)

// Load reads configs/config.yaml (and config.<APP_ENVIRONMENT>.yaml when
// present) from the usual locations. A missing file is not an error: the
// defaults describe the standard interview form.
func Load() (*Config, error) {
	loadEnvFile()

	v := newViper()
	v.SetConfigName("config")
	v.AddConfigPath("./configs")
	v.AddConfigPath("../../configs")
	v.AddConfigPath(".")

	env := os.Getenv("APP_ENVIRONMENT")
	if env == "" {
		env = "development"
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading base config: %w", err)
		}
	}

	v.SetConfigName(fmt.Sprintf("config.%s", env))
	_ = v.MergeInConfig()

	return finish(v)
}

// LoadFromFile loads configuration from a specific file path
func LoadFromFile(path string) (*Config, error) {
	loadEnvFile()

	v := newViper()
	v.SetConfigFile(path)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	return finish(v)
}

// Default returns the configuration used when no file is supplied.
func Default() *Config {
	var cfg Config
	applyDefaults(&cfg)
	return &cfg
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
	return v
}

func finish(v *viper.Viper) (*Config, error) {
	expandEnvVars(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	applyDefaults(&cfg)
	overrideEmptyConfig(&cfg)

	if err := Validate(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

func loadEnvFile() {
	possiblePaths := []string{
		".env",
		"../.env",
		"../../.env",
		"../../../.env",
	}

	if rootDir := findProjectRoot(); rootDir != "" {
		possiblePaths = append(possiblePaths, filepath.Join(rootDir, ".env"))
	}

	for _, path := range possiblePaths {
		if _, err := os.Stat(path); err == nil {
			if err := godotenv.Load(path); err == nil {
				return
			}
		}
	}
}

// Find project root by looking for go.mod
func findProjectRoot() string {
	dir, err := os.Getwd()
	if err != nil {
		return ""
	}

	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	return ""
}

func expandEnvVars(v *viper.Viper) {
	for _, key := range v.AllKeys() {
		val := v.Get(key)

		if strVal, ok := val.(string); ok {
			if strings.Contains(strVal, "${") || (strings.HasPrefix(strVal, "$") && len(strVal) > 1) {
				expanded := os.ExpandEnv(strVal)
				if expanded != strVal && expanded != "" {
					v.Set(key, expanded)
				}
			}
		}
	}
}

// Direct override if config values are still empty after expansion
func overrideEmptyConfig(cfg *Config) {
	if cfg.Cache.Redis.Address == "" {
		if val := os.Getenv("REDIS_ADDRESS"); val != "" {
			cfg.Cache.Redis.Address = val
		}
	}
	if cfg.Cache.Redis.Password == "" {
		if val := os.Getenv("REDIS_PASSWORD"); val != "" {
			cfg.Cache.Redis.Password = val
		}
	}
	if cfg.Notifications.AWS.Region == "" {
		if val := os.Getenv("AWS_REGION"); val != "" {
			cfg.Notifications.AWS.Region = val
		}
	}
	if cfg.Notifications.Email.FromEmail == "" {
		if val := os.Getenv("REPORT_FROM_EMAIL"); val != "" {
			cfg.Notifications.Email.FromEmail = val
		}
	}
	if cfg.Notifications.Findings.TopicARN == "" {
		if val := os.Getenv("FINDINGS_TOPIC_ARN"); val != "" {
			cfg.Notifications.Findings.TopicARN = val
		}
	}
}

// applyDefaults sets default values for optional configuration fields
func applyDefaults(cfg *Config) {
	if cfg.App.Name == "" {
		cfg.App.Name = "interview-reports"
	}

	// Source workbook contract
	if cfg.Source.SheetName == "" {
		cfg.Source.SheetName = "평가표"
	}
	if cfg.Source.HeaderRow == 0 {
		cfg.Source.HeaderRow = 5
	}
	if cfg.Source.IdentityColumn == "" {
		cfg.Source.IdentityColumn = "성명"
	}
	if cfg.Source.TotalColumn == "" {
		cfg.Source.TotalColumn = "총점"
	}
	if cfg.Source.DeclaredColumn == "" {
		cfg.Source.DeclaredColumn = "합격여부(Pass/Fail)"
	}
	if cfg.Source.CommentColumn == "" {
		cfg.Source.CommentColumn = "총평"
	}
	if cfg.Source.ReviewerColumn == "" {
		cfg.Source.ReviewerColumn = "심사위원 성명"
	}

	// Scoring
	if cfg.Scoring.PassThreshold == 0 {
		cfg.Scoring.PassThreshold = 70
	}
	if cfg.Scoring.ExpectedReviewers == 0 {
		cfg.Scoring.ExpectedReviewers = 3
	}
	if len(cfg.Scoring.Categories) == 0 {
		cfg.Scoring.Categories = DefaultCategories()
	}
	if cfg.Scoring.TotalMaxPoints == 0 {
		cfg.Scoring.TotalMaxPoints = 100
	}

	// Report
	if cfg.Report.Layout == "" {
		cfg.Report.Layout = string(models.VariantDetailed)
	}
	if cfg.Report.Parallelism == 0 {
		cfg.Report.Parallelism = 4
	}
	if cfg.Report.CommentSlots == 0 {
		cfg.Report.CommentSlots = 3
	}
	if cfg.Report.SheetSuffix == "" {
		cfg.Report.SheetSuffix = "report"
	}
	if cfg.Report.SummarySheet == "" {
		cfg.Report.SummarySheet = "Summary"
	}
	if cfg.Report.CombinedSheet == "" {
		cfg.Report.CombinedSheet = "Combined"
	}
	if cfg.Report.OutputDir == "" {
		cfg.Report.OutputDir = "."
	}

	// Cache
	if cfg.Cache.Backend == "" {
		cfg.Cache.Backend = "memory"
	}
	if cfg.Cache.TTL == 0 {
		cfg.Cache.TTL = 3600
	}
	if cfg.Cache.Prefix == "" {
		cfg.Cache.Prefix = "interview-reports:records:"
	}

	// Logging defaults
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "console"
	}
}

// Validate checks the fields the pipeline cannot run without.
func Validate(cfg *Config) error {
	if cfg.Source.SheetName == "" {
		return fmt.Errorf("source.sheet_name is required")
	}
	if cfg.Source.HeaderRow < 1 {
		return fmt.Errorf("source.header_row must be >= 1")
	}
	if cfg.Source.IdentityColumn == "" {
		return fmt.Errorf("source.identity_column is required")
	}
	if cfg.Scoring.ExpectedReviewers < 1 {
		return fmt.Errorf("scoring.expected_reviewers must be >= 1")
	}

	seen := make(map[string]bool)
	for i, cat := range cfg.Scoring.Categories {
		if cat.Name == "" {
			return fmt.Errorf("scoring.categories[%d].name is required", i)
		}
		if seen[cat.Name] {
			return fmt.Errorf("scoring.categories: duplicate category %q", cat.Name)
		}
		seen[cat.Name] = true
		if len(cat.Columns) == 0 {
			return fmt.Errorf("scoring.categories[%d] (%s) needs at least one column", i, cat.Name)
		}
	}

	if _, err := models.ParseVariant(cfg.Report.Layout); err != nil {
		return fmt.Errorf("report.layout: %w", err)
	}
	if cfg.Report.Parallelism < 1 {
		return fmt.Errorf("report.parallelism must be >= 1")
	}

	switch cfg.Cache.Backend {
	case "memory", "none":
	case "redis":
		if cfg.Cache.Redis.Address == "" {
			return fmt.Errorf("cache.redis.address is required when cache.backend is redis")
		}
	default:
		return fmt.Errorf("cache.backend must be memory, redis or none, got %q", cfg.Cache.Backend)
	}

	if cfg.Notifications.Email.Enabled && cfg.Notifications.Email.FromEmail == "" {
		return fmt.Errorf("notifications.email.from_email is required when email is enabled")
	}
	if cfg.Notifications.Findings.Enabled && cfg.Notifications.Findings.TopicARN == "" {
		return fmt.Errorf("notifications.findings.topic_arn is required when findings alerts are enabled")
	}

	return nil
}

// CacheTTL converts the configured seconds to a duration.
func (c CacheConfig) CacheTTL() time.Duration {
	return time.Duration(c.TTL) * time.Second
}
