// cmd/report-manager/commands.go
package main

import (
	"context"
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	apperrors "interview-reports/internal/common/errors"
	"interview-reports/internal/models"
	"interview-reports/internal/pipeline"
)

func requireFiles(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		return apperrors.NewInvalidInputError(fmt.Sprintf("%s needs at least one workbook", cmd.Name()))
	}
	return nil
}

// withSession wires the app, loads the workbooks named in args and hands
// the loaded session to fn.
func withSession(cmd *cobra.Command, opts *options, args []string, fn func(context.Context, *app, *pipeline.Session) error) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	a, err := setup(ctx, opts)
	if err != nil {
		return err
	}
	defer a.close(opts)

	sources, err := a.readSources(args)
	if err != nil {
		return err
	}
	sess, err := a.pipeline.Load(ctx, sources)
	if err != nil {
		return err
	}
	return fn(ctx, a, sess)
}

func newValidateCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "validate FILE...",
		Short: "Load workbooks and list reviewer-count anomalies and result mismatches",
		Args:  requireFiles,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd, opts, args, func(_ context.Context, a *app, sess *pipeline.Session) error {
				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "Loaded %d records for %d candidates from %d files\n",
					len(sess.Records().Records), len(sess.Candidates()), len(args))

				if len(sess.Anomalies()) == 0 && len(sess.Mismatches()) == 0 {
					color.New(color.FgGreen).Fprintln(out, "No findings.")
					return nil
				}
				renderAnomalies(out, sess.Anomalies())
				renderMismatches(out, sess.Mismatches(), sess.HasColumn(a.cfg.Source.ReviewerColumn))
				return nil
			})
		},
	}
}

func newSummaryCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "summary FILE...",
		Short: "Print per-candidate means and final results",
		Args:  requireFiles,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd, opts, args, func(_ context.Context, _ *app, sess *pipeline.Session) error {
				renderSummaries(cmd.OutOrStdout(), sess.Records().Categories, sess.Summaries(), sess.Cohort())
				return nil
			})
		},
	}
}

func newCombineCommand(opts *options) *cobra.Command {
	var (
		candidates []string
		result     string
	)
	cmd := &cobra.Command{
		Use:   "combine FILE...",
		Short: "Export every evaluation row with derived scores into one workbook",
		Args:  requireFiles,
		RunE: func(cmd *cobra.Command, args []string) error {
			filter := models.ExportFilter{Candidates: candidates}
			if result != "" {
				r, ok := models.ParseResult(result)
				if !ok {
					return apperrors.NewInvalidInputError(fmt.Sprintf("unknown result %q, expected Pass, Fail or N/A", result))
				}
				filter.Result = r
			}

			return withSession(cmd, opts, args, func(ctx context.Context, a *app, sess *pipeline.Session) error {
				doc, err := sess.ExportCombined(ctx, filter)
				if err != nil {
					return err
				}
				return a.save(cmd, doc)
			})
		},
	}
	cmd.Flags().StringSliceVar(&candidates, "candidate", nil, "only export these candidates (repeatable)")
	cmd.Flags().StringVar(&result, "result", "", "only export rows with this computed result (Pass, Fail, N/A)")
	return cmd
}

func newReportCommand(opts *options) *cobra.Command {
	var (
		candidate string
		email     string
	)
	cmd := &cobra.Command{
		Use:   "report FILE...",
		Short: "Generate one candidate's report workbook",
		Args:  requireFiles,
		RunE: func(cmd *cobra.Command, args []string) error {
			if candidate == "" {
				return apperrors.NewInvalidInputError("--candidate is required")
			}
			return withSession(cmd, opts, args, func(ctx context.Context, a *app, sess *pipeline.Session) error {
				doc, err := sess.CandidateReport(ctx, candidate, a.pipeline.Variant())
				if err != nil {
					return err
				}
				if err := a.save(cmd, doc); err != nil {
					return err
				}
				return a.deliver(ctx, cmd, sess, doc, email)
			})
		},
	}
	cmd.Flags().StringVar(&candidate, "candidate", "", "candidate name as written in the workbooks")
	cmd.Flags().StringVar(&email, "email", "", "also mail the report to this address")
	return cmd
}

func newCohortCommand(opts *options) *cobra.Command {
	var email string
	cmd := &cobra.Command{
		Use:   "cohort FILE...",
		Short: "Generate the summary sheet plus one report sheet per candidate",
		Args:  requireFiles,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd, opts, args, func(ctx context.Context, a *app, sess *pipeline.Session) error {
				doc, err := sess.CohortReport(ctx, a.pipeline.Variant())
				if err != nil {
					return err
				}
				if err := a.save(cmd, doc); err != nil {
					return err
				}
				return a.deliver(ctx, cmd, sess, doc, email)
			})
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "also mail the report to this address")
	return cmd
}

func (a *app) save(cmd *cobra.Command, doc *pipeline.Document) error {
	path, err := doc.Save(a.cfg.Report.OutputDir)
	if err != nil {
		return apperrors.NewReportWriteFailedError(err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s (%d sheets)\n", path, len(doc.Sheets))
	return nil
}

func (a *app) deliver(ctx context.Context, cmd *cobra.Command, sess *pipeline.Session, doc *pipeline.Document, to string) error {
	if to == "" {
		return nil
	}
	out, err := sess.Deliver(ctx, doc, to)
	if err != nil {
		return err
	}
	if !out.Delivered {
		color.New(color.FgYellow).Fprintln(cmd.OutOrStdout(), "E-mail delivery is disabled; report not sent.")
		return nil
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Mailed %s to %s\n", doc.FileName, to)
	return nil
}
