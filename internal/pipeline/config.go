// internal/pipeline/config.go
package pipeline

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"

	"interview-reports/internal/common/config"
	normalizerecords "interview-reports/internal/stages/ingest/normalize-records"
	readsource "interview-reports/internal/stages/ingest/read-source"
	buildreport "interview-reports/internal/stages/reporting/build-report"
	deliverreport "interview-reports/internal/stages/reporting/deliver-report"
	publishfindings "interview-reports/internal/stages/reporting/publish-findings"
	writeworkbook "interview-reports/internal/stages/reporting/write-workbook"
	aggregatecandidates "interview-reports/internal/stages/scoring/aggregate-candidates"
	scoreevaluations "interview-reports/internal/stages/scoring/score-evaluations"
	validateresults "interview-reports/internal/stages/scoring/validate-results"
)

// stageConfigs derives every stage's settings from the application config.
type stageConfigs struct {
	read      *readsource.Config
	normalize *normalizerecords.Config
	score     *scoreevaluations.Config
	validate  *validateresults.Config
	aggregate *aggregatecandidates.Config
	build     *buildreport.Config
	write     *writeworkbook.Config
	deliver   *deliverreport.Config
	publish   *publishfindings.Config
}

func newStageConfigs(cfg *config.Config) *stageConfigs {
	deliver := deliverreport.DefaultConfig()
	deliver.Enabled = cfg.Notifications.Email.Enabled
	deliver.FromEmail = cfg.Notifications.Email.FromEmail

	publish := publishfindings.DefaultConfig()
	publish.Enabled = cfg.Notifications.Findings.Enabled
	publish.TopicARN = cfg.Notifications.Findings.TopicARN

	return &stageConfigs{
		read: &readsource.Config{
			SheetName: cfg.Source.SheetName,
			HeaderRow: cfg.Source.HeaderRow,
		},
		normalize: &normalizerecords.Config{
			IdentityColumn: cfg.Source.IdentityColumn,
			ScoreColumns:   cfg.ScoreColumns(),
		},
		score: &scoreevaluations.Config{
			Categories:     cfg.Scoring.Categories,
			TotalColumn:    cfg.Source.TotalColumn,
			PassThreshold:  cfg.Scoring.PassThreshold,
			DeclaredColumn: cfg.Source.DeclaredColumn,
			CommentColumn:  cfg.Source.CommentColumn,
			ReviewerColumn: cfg.Source.ReviewerColumn,
		},
		validate: &validateresults.Config{
			DeclaredColumn: cfg.Source.DeclaredColumn,
		},
		aggregate: &aggregatecandidates.Config{
			ExpectedReviewers: cfg.Scoring.ExpectedReviewers,
			TotalColumn:       cfg.Source.TotalColumn,
		},
		build: &buildreport.Config{
			SheetSuffix:    cfg.Report.SheetSuffix,
			SummarySheet:   cfg.Report.SummarySheet,
			CommentSlots:   cfg.Report.CommentSlots,
			Parallelism:    cfg.Report.Parallelism,
			TotalMaxPoints: cfg.Scoring.TotalMaxPoints,
		},
		write:   writeworkbook.DefaultConfig(),
		deliver: deliver,
		publish: publish,
	}
}

func (c *stageConfigs) check() error {
	for _, v := range []interface{ Validate() error }{
		c.read, c.normalize, c.score, c.validate, c.aggregate, c.build, c.write, c.deliver, c.publish,
	} {
		if err := v.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// Fingerprint identifies the parts of the configuration that change what a
// load produces. It is folded into every cache key.
func Fingerprint(cfg *config.Config) string {
	data, _ := json.Marshal(struct {
		Source  config.SourceConfig
		Scoring config.ScoringConfig
	}{cfg.Source, cfg.Scoring})
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
