// internal/stages/ingest/normalize-records/config.go
package normalizerecords

import "fmt"

type Config struct {
	IdentityColumn string
	// ScoreColumns are coerced to numbers when present in the unified schema.
	ScoreColumns []string
}

func DefaultConfig() *Config {
	return &Config{
		IdentityColumn: "성명",
		ScoreColumns: []string{
			"요구사항 관리",
			"사용방법론,도구",
			"목표달성/ 사업적 효과성",
			"Architecting Process (접근방법 및 절차)",
			"Architecture Design (표현 및 구조화)",
			"Architecture 검증 (프로토타입 및 평가)",
			"커뮤니케이션 (문서화/리더십)",
			"총점",
		},
	}
}

func (c *Config) Validate() error {
	if c.IdentityColumn == "" {
		return fmt.Errorf("identity_column is required")
	}
	return nil
}
