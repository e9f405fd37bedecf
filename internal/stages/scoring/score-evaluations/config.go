// internal/stages/scoring/score-evaluations/config.go
package scoreevaluations

import (
	"fmt"

	"interview-reports/internal/models"
)

type Config struct {
	Categories     []models.CategoryDefinition
	TotalColumn    string
	PassThreshold  float64
	DeclaredColumn string
	CommentColumn  string
	ReviewerColumn string
}

func DefaultConfig() *Config {
	return &Config{
		Categories: []models.CategoryDefinition{
			{Name: "Project", MaxPoints: 30, Columns: []string{"요구사항 관리", "사용방법론,도구", "목표달성/ 사업적 효과성"}},
			{Name: "SW Architect", MaxPoints: 50, Columns: []string{
				"Architecting Process (접근방법 및 절차)",
				"Architecture Design (표현 및 구조화)",
				"Architecture 검증 (프로토타입 및 평가)",
			}},
			{Name: "Communication", MaxPoints: 20, Columns: []string{"커뮤니케이션 (문서화/리더십)"}},
		},
		TotalColumn:    "총점",
		PassThreshold:  70,
		DeclaredColumn: "합격여부(Pass/Fail)",
		CommentColumn:  "총평",
		ReviewerColumn: "심사위원 성명",
	}
}

func (c *Config) Validate() error {
	if c.TotalColumn == "" {
		return fmt.Errorf("total_column is required")
	}
	seen := make(map[string]bool, len(c.Categories))
	for _, cat := range c.Categories {
		if cat.Name == "" {
			return fmt.Errorf("category name is required")
		}
		if seen[cat.Name] {
			return fmt.Errorf("duplicate category %q", cat.Name)
		}
		seen[cat.Name] = true
	}
	return nil
}
