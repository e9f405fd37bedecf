// cmd/report-manager/main.go
package main

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	awsclient "interview-reports/internal/common/aws"
	"interview-reports/internal/common/cache"
	"interview-reports/internal/common/config"
	apperrors "interview-reports/internal/common/errors"
	"interview-reports/internal/common/logger"
	"interview-reports/internal/common/metrics"
	"interview-reports/internal/common/observability"
	"interview-reports/internal/pipeline"
	readsource "interview-reports/internal/stages/ingest/read-source"
	"interview-reports/pkg/registry"
)

// options are the flags shared by every command.
type options struct {
	configPath  string
	metricsFile string
	layout      string
	outDir      string
	logLevel    string
}

// app is the wired runtime of one CLI invocation.
type app struct {
	cfg      *config.Config
	zapLog   *zap.Logger
	log      logger.Logger
	obs      *observability.Observability
	redis    *cache.RedisClient
	pipeline *pipeline.Pipeline
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// run executes one command line and returns the process exit code.
func run(args []string, stdout, stderr io.Writer) int {
	opts := &options{}
	root := newRootCommand(opts)
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cmd, err := root.ExecuteContextC(ctx)
	if err == nil {
		return apperrors.ExitOK
	}

	var readErr *apperrors.SourceReadError
	if stderrors.As(err, &readErr) {
		color.New(color.FgRed).Fprintln(stderr, readErr.Error())
		fmt.Fprintln(stderr, readErr.Hint())
	} else {
		color.New(color.FgRed).Fprintln(stderr, "Error:", err)
	}

	level := opts.logLevel
	if level == "" {
		level = "error"
	}
	operation := root.Name()
	if cmd != nil {
		operation = cmd.Name()
	}
	handler := apperrors.NewErrorHandler(logger.NewStructured(level, "console"))
	return handler.Handle(operation, err)
}

func newRootCommand(opts *options) *cobra.Command {
	root := &cobra.Command{
		Use:           "report-manager",
		Short:         "Aggregate interview evaluation workbooks into reports",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := root.PersistentFlags()
	flags.StringVar(&opts.configPath, "config", "", "path to a config file (default: search ./configs)")
	flags.StringVar(&opts.metricsFile, "metrics-file", "", "write prometheus metrics to this textfile on exit")
	flags.StringVar(&opts.layout, "layout", "", "report layout: detailed, summary or submission_form")
	flags.StringVar(&opts.outDir, "out", "", "output directory for generated documents")
	flags.StringVar(&opts.logLevel, "log-level", "", "log level (overrides logging.level)")

	root.AddCommand(
		newValidateCommand(opts),
		newSummaryCommand(opts),
		newCombineCommand(opts),
		newReportCommand(opts),
		newCohortCommand(opts),
	)
	return root
}

// setup loads configuration and wires the pipeline with its cache, layout
// registry and notification clients.
func setup(ctx context.Context, opts *options) (*app, error) {
	var (
		cfg *config.Config
		err error
	)
	if opts.configPath != "" {
		cfg, err = config.LoadFromFile(opts.configPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return nil, apperrors.NewConfigInvalidError(err)
	}
	if opts.layout != "" {
		cfg.Report.Layout = opts.layout
	}
	if opts.outDir != "" {
		cfg.Report.OutputDir = opts.outDir
	}

	level := cfg.Logging.Level
	if opts.logLevel != "" {
		level = opts.logLevel
	}
	zapLog := logger.New(level, cfg.Logging.Format)
	log := logger.NewZapAdapter(zapLog)

	a := &app{
		cfg:    cfg,
		zapLog: zapLog,
		log:    log,
		obs:    observability.New("report-manager"),
	}

	recordCache, err := a.recordCache(ctx)
	if err != nil {
		a.close(opts)
		return nil, err
	}

	reg, err := registry.LoadRegistry(cfg.Report.RegistryPath)
	if err != nil {
		a.close(opts)
		return nil, err
	}

	deps := pipeline.Dependencies{
		Logger:   log,
		Cache:    recordCache,
		Obs:      a.obs,
		Registry: reg,
	}
	if cfg.Notifications.Email.Enabled {
		ses, err := awsclient.NewSESClient(ctx, cfg.Notifications.AWS.Region)
		if err != nil {
			a.close(opts)
			return nil, apperrors.NewNotificationFailedError("ses", err)
		}
		deps.SES = ses
	}
	if cfg.Notifications.Findings.Enabled {
		sns, err := awsclient.NewSNSClient(ctx, cfg.Notifications.AWS.Region)
		if err != nil {
			a.close(opts)
			return nil, apperrors.NewNotificationFailedError("sns", err)
		}
		deps.SNS = sns
	}

	a.pipeline, err = pipeline.New(cfg, deps)
	if err != nil {
		a.close(opts)
		return nil, err
	}
	return a, nil
}

func (a *app) recordCache(ctx context.Context) (cache.RecordCache, error) {
	switch a.cfg.Cache.Backend {
	case "redis":
		rc, err := cache.NewRedis(a.cfg.Cache.Redis)
		if err != nil {
			return nil, apperrors.NewConfigInvalidError(err)
		}
		if err := rc.Ping(ctx); err != nil {
			// The cache is an optimization; run without it.
			a.log.Warn("redis unreachable, caching disabled", map[string]interface{}{"error": err.Error()})
			rc.Close()
			return cache.NopRecordCache{}, nil
		}
		a.redis = rc
		return cache.NewRedisRecordCache(rc.Client, a.cfg.Cache.Prefix, a.cfg.Cache.CacheTTL()), nil
	case "none":
		return cache.NopRecordCache{}, nil
	default:
		return cache.NewMemoryRecordCache(), nil
	}
}

func (a *app) close(opts *options) {
	if a.redis != nil {
		a.redis.Close()
	}
	a.obs.Shutdown()

	path := opts.metricsFile
	if path == "" && a.cfg.Metrics.Enabled {
		path = a.cfg.Metrics.Textfile
	}
	if path != "" {
		if err := metrics.WriteTextfile(path); err != nil {
			a.log.Warn("metrics not written", map[string]interface{}{"path": path, "error": err.Error()})
		}
	}
	_ = a.zapLog.Sync()
}

// readSources loads input workbooks in argument order.
func (a *app) readSources(paths []string) ([]readsource.Source, error) {
	sources := make([]readsource.Source, 0, len(paths))
	for _, p := range paths {
		content, err := os.ReadFile(p)
		if err != nil {
			return nil, apperrors.NewSourceReadError(filepath.Base(p), a.cfg.Source.SheetName, a.cfg.Source.HeaderRow, err)
		}
		sources = append(sources, readsource.Source{Name: filepath.Base(p), Content: content})
	}
	return sources, nil
}
