// internal/pipeline/pipeline.go
package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	awsclient "interview-reports/internal/common/aws"
	"interview-reports/internal/common/cache"
	"interview-reports/internal/common/config"
	apperrors "interview-reports/internal/common/errors"
	"interview-reports/internal/common/logger"
	"interview-reports/internal/common/metrics"
	"interview-reports/internal/common/observability"
	"interview-reports/internal/models"
	normalizerecords "interview-reports/internal/stages/ingest/normalize-records"
	readsource "interview-reports/internal/stages/ingest/read-source"
	buildreport "interview-reports/internal/stages/reporting/build-report"
	deliverreport "interview-reports/internal/stages/reporting/deliver-report"
	publishfindings "interview-reports/internal/stages/reporting/publish-findings"
	writeworkbook "interview-reports/internal/stages/reporting/write-workbook"
	aggregatecandidates "interview-reports/internal/stages/scoring/aggregate-candidates"
	scoreevaluations "interview-reports/internal/stages/scoring/score-evaluations"
	validateresults "interview-reports/internal/stages/scoring/validate-results"
	"interview-reports/pkg/registry"
)

// Dependencies are the collaborators a Pipeline is built with. Only Logger
// is required; the rest fall back to disabled implementations.
type Dependencies struct {
	Logger   logger.Logger
	Cache    cache.RecordCache
	Obs      *observability.Observability
	Registry *registry.LayoutRegistry
	SES      awsclient.SESAPI
	SNS      awsclient.SNSAPI
}

// Pipeline loads reviewer workbooks into sessions and renders reports from them.
type Pipeline struct {
	config      *config.Config
	stages      *stageConfigs
	variant     models.Variant
	fingerprint string

	logger logger.Logger
	cache  cache.RecordCache
	obs    *observability.Observability

	read      *readsource.Service
	normalize *normalizerecords.Service
	score     *scoreevaluations.Service
	validate  *validateresults.Service
	aggregate *aggregatecandidates.Service
	build     *buildreport.Service
	write     *writeworkbook.Service
	deliver   *deliverreport.Service
	publish   *publishfindings.Service
}

func New(cfg *config.Config, deps Dependencies) (*Pipeline, error) {
	if cfg == nil {
		return nil, apperrors.NewConfigInvalidError(fmt.Errorf("config is required"))
	}
	if deps.Logger == nil {
		deps.Logger = logger.NewNoOpLogger()
	}
	if deps.Cache == nil {
		deps.Cache = cache.NopRecordCache{}
	}
	if deps.Obs == nil {
		deps.Obs = observability.Noop()
	}
	if deps.Registry == nil {
		deps.Registry = registry.Builtin()
	}

	stages := newStageConfigs(cfg)
	if err := stages.check(); err != nil {
		return nil, apperrors.NewConfigInvalidError(err)
	}

	variant, err := models.ParseVariant(cfg.Report.Layout)
	if err != nil {
		return nil, apperrors.NewInvalidLayoutError(cfg.Report.Layout)
	}
	if _, err := deps.Registry.Template(variant); err != nil {
		return nil, err
	}

	log := deps.Logger
	return &Pipeline{
		config:      cfg,
		stages:      stages,
		variant:     variant,
		fingerprint: Fingerprint(cfg),
		logger:      log.WithFields(map[string]interface{}{"component": "pipeline"}),
		cache:       deps.Cache,
		obs:         deps.Obs,

		read:      readsource.NewService(readsource.ServiceDependencies{Logger: log}, stages.read),
		normalize: normalizerecords.NewService(normalizerecords.ServiceDependencies{Logger: log}, stages.normalize),
		score:     scoreevaluations.NewService(scoreevaluations.ServiceDependencies{Logger: log}, stages.score),
		validate:  validateresults.NewService(validateresults.ServiceDependencies{Logger: log}, stages.validate),
		aggregate: aggregatecandidates.NewService(aggregatecandidates.ServiceDependencies{Logger: log}, stages.aggregate),
		build:     buildreport.NewService(buildreport.ServiceDependencies{Logger: log, Registry: deps.Registry}, stages.build),
		write:     writeworkbook.NewService(writeworkbook.ServiceDependencies{Logger: log}, stages.write),
		deliver:   deliverreport.NewService(deliverreport.ServiceDependencies{Logger: log, SES: deps.SES}, stages.deliver),
		publish:   publishfindings.NewService(publishfindings.ServiceDependencies{Logger: log, SNS: deps.SNS}, stages.publish),
	}, nil
}

// Variant is the layout configured for reports when the caller names none.
func (p *Pipeline) Variant() models.Variant { return p.variant }

// Key returns the cache key of an ordered input set under the current configuration.
func (p *Pipeline) Key(sources []readsource.Source) string {
	entries := make([]cache.Entry, len(sources))
	for i, src := range sources {
		entries[i] = cache.Entry{Name: src.Name, Content: src.Content}
	}
	return cache.Key(p.fingerprint, entries)
}

// Load reads, normalizes, scores and validates an ordered set of workbooks.
// Any unreadable workbook aborts the whole batch. An identical input set
// under the same configuration is served from the cache.
func (p *Pipeline) Load(ctx context.Context, sources []readsource.Source) (*Session, error) {
	if len(sources) == 0 {
		return nil, apperrors.NewInvalidInputError("at least one source workbook is required")
	}

	key := p.Key(sources)
	rs, cached := p.lookup(ctx, key)
	if !cached {
		var err error
		rs, err = p.run(ctx, sources)
		if err != nil {
			return nil, err
		}
		if err := p.cache.Set(ctx, key, rs); err != nil {
			p.logger.Warn("record set not cached", map[string]interface{}{"key": key, "error": err.Error()})
		}
	}

	sess, err := p.newSession(ctx, key, rs, cached)
	if err != nil {
		return nil, err
	}

	p.logger.Info("batch loaded", map[string]interface{}{
		"sessionId":  sess.id,
		"sources":    len(sources),
		"records":    len(rs.Records),
		"candidates": len(sess.summaries),
		"cached":     cached,
	})

	p.publishFindings(ctx, sess)
	return sess, nil
}

// Invalidate drops the cached record set of an input set.
func (p *Pipeline) Invalidate(ctx context.Context, sources []readsource.Source) error {
	return p.cache.Invalidate(ctx, p.Key(sources))
}

func (p *Pipeline) lookup(ctx context.Context, key string) (*models.RecordSet, bool) {
	rs, ok, err := p.cache.Get(ctx, key)
	switch {
	case err != nil:
		metrics.CacheRequests.WithLabelValues("error").Inc()
		p.logger.Warn("record cache unavailable", map[string]interface{}{"key": key, "error": err.Error()})
		return nil, false
	case ok:
		metrics.CacheRequests.WithLabelValues("hit").Inc()
		return rs, true
	default:
		metrics.CacheRequests.WithLabelValues("miss").Inc()
		return nil, false
	}
}

func (p *Pipeline) run(ctx context.Context, sources []readsource.Source) (*models.RecordSet, error) {
	var (
		tables  []models.Table
		dataset *models.Dataset
		scored  *models.RecordSet
		checked *models.RecordSet
	)

	err := p.stage(ctx, readsource.StageName, func(ctx context.Context) error {
		out, err := p.read.Execute(ctx, &readsource.Input{Sources: sources})
		if err != nil {
			return err
		}
		tables = out.Tables
		return nil
	})
	if err != nil {
		return nil, err
	}

	err = p.stage(ctx, normalizerecords.StageName, func(ctx context.Context) error {
		out, err := p.normalize.Execute(ctx, &normalizerecords.Input{Tables: tables})
		if err != nil {
			return err
		}
		dataset = out.Dataset
		return nil
	})
	if err != nil {
		return nil, err
	}

	err = p.stage(ctx, scoreevaluations.StageName, func(ctx context.Context) error {
		out, err := p.score.Execute(ctx, &scoreevaluations.Input{Dataset: dataset})
		if err != nil {
			return err
		}
		scored = out.RecordSet
		return nil
	})
	if err != nil {
		return nil, err
	}

	err = p.stage(ctx, validateresults.StageName, func(ctx context.Context) error {
		out, err := p.validate.Execute(ctx, &validateresults.Input{RecordSet: scored})
		if err != nil {
			return err
		}
		checked = out.RecordSet
		return nil
	})
	if err != nil {
		return nil, err
	}

	return checked, nil
}

func (p *Pipeline) newSession(ctx context.Context, key string, rs *models.RecordSet, cached bool) (*Session, error) {
	var agg *aggregatecandidates.Output
	err := p.stage(ctx, aggregatecandidates.StageName, func(ctx context.Context) error {
		out, err := p.aggregate.Execute(ctx, &aggregatecandidates.Input{RecordSet: rs})
		if err != nil {
			return err
		}
		agg = out
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &Session{
		id:         uuid.NewString(),
		key:        key,
		cached:     cached,
		pipeline:   p,
		records:    rs,
		aggregator: aggregatecandidates.NewAggregator(rs, p.stages.aggregate),
		summaries:  agg.Summaries,
		cohort:     agg.Cohort,
		anomalies:  agg.Anomalies,
		mismatches: validateresults.Findings(rs),
	}, nil
}

func (p *Pipeline) publishFindings(ctx context.Context, sess *Session) {
	_, err := p.publish.Execute(ctx, &publishfindings.Input{
		SessionID:  sess.id,
		Anomalies:  sess.anomalies,
		Mismatches: sess.mismatches,
	})
	if err != nil {
		p.logger.Warn("findings not published", map[string]interface{}{
			"sessionId": sess.id,
			"error":     err.Error(),
		})
	}
}

// stage runs fn inside a tracing span and records its duration.
func (p *Pipeline) stage(ctx context.Context, name string, fn func(context.Context) error) error {
	start := time.Now()
	ctx, end := p.obs.StartStage(ctx, name)
	err := fn(ctx)
	end(err)
	metrics.StageDuration.WithLabelValues(name).Observe(time.Since(start).Seconds())
	return err
}
