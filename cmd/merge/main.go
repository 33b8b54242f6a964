// Command interviewcheck-merge combines the result workbooks of several
// interviewers into one workbook and prints the per-candidate summary.
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"interviewcheck/internal/config"
	apperrors "interviewcheck/internal/errors"
	"interviewcheck/internal/files"
	"interviewcheck/internal/infrastructure"
	"interviewcheck/internal/merge"
	"interviewcheck/internal/services"
	"interviewcheck/internal/validation"
	"interviewcheck/pkg/contracts"
	api "interviewcheck/pkg/contracts/api/v1"
	"interviewcheck/pkg/contracts/domain"
)

type mergeOptions struct {
	inputs     []string
	out        string
	summaryCSV string
	sortBy     string
	asc        bool
	only       []string
	logLevel   string
	quiet      bool
}

func main() {
	ctx := context.Background()
	if err := newRootCmd(os.Stdout, os.Stderr).ExecuteContext(ctx); err != nil {
		color.New(color.FgRed).Fprintf(os.Stderr, "[ERROR] %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	var opts mergeOptions

	cmd := &cobra.Command{
		Use:   "interviewcheck-merge --out merged.xlsx --inputs 'outputs/*.xlsx' [file ...]",
		Short: "Merge interviewer result workbooks",
		Long: "Reads the Evaluations sheet of every input workbook, writes the combined rows\n" +
			"to --out and prints the per-candidate summary. Unreadable inputs are skipped.",
		Version:       contracts.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.inputs = append(opts.inputs, args...)

			level := opts.logLevel
			if level == "" {
				level = "error"
			}
			logger, err := infrastructure.NewLogger(config.LoggingConfig{
				Level:  level,
				Output: "console",
			}, stderr)
			if err != nil {
				return err
			}
			logger = infrastructure.WithComponent(logger, "merge_cli")
			return runMerge(cmd.Context(), opts, stdout, stderr, logger)
		},
	}

	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	cmd.Flags().StringArrayVar(&opts.inputs, "inputs", nil, "Input workbook or glob pattern (repeatable)")
	cmd.Flags().StringVar(&opts.out, "out", "", "Merged workbook to write (required)")
	cmd.Flags().StringVar(&opts.summaryCSV, "summary-csv", "", "Also write the summary as CSV")
	cmd.Flags().StringVar(&opts.sortBy, "sort-by", string(merge.SortOverall), "Summary sort field: overall, rules_fit, output_evidence, collaboration, self_driven, role_skill, name, evaluators")
	cmd.Flags().BoolVar(&opts.asc, "asc", false, "Sort ascending")
	cmd.Flags().StringSliceVar(&opts.only, "only", nil, "Keep candidates with any of these recommendations (pass, hold, fail, undecided)")
	cmd.Flags().StringVar(&opts.logLevel, "log-level", "", "Log level for diagnostics on stderr")
	cmd.Flags().BoolVarP(&opts.quiet, "quiet", "q", false, "Do not print the summary table")

	_ = cmd.MarkFlagRequired("out")

	return cmd
}

// runMerge resolves the inputs, writes the merged workbook and prints the summary.
// The output file is left untouched when nothing could be read.
func runMerge(ctx context.Context, opts mergeOptions, stdout, stderr io.Writer, logger *slog.Logger) error {
	ctx = infrastructure.EnsureTraceID(ctx)

	if len(opts.inputs) == 0 {
		return apperrors.NewAppValidationError("at least one input is required (--inputs or positional)")
	}

	only, err := parseOnly(opts.only)
	if err != nil {
		return err
	}
	mergeOpts, err := services.MergeOptions(api.MergeRequest{
		SortBy:    opts.sortBy,
		Ascending: opts.asc,
		Only:      only,
	})
	if err != nil {
		return err
	}

	paths, err := files.ExpandInputs(opts.inputs)
	if err != nil {
		return err
	}
	if len(paths) == 0 {
		return apperrors.NewNoInputError("no input files found")
	}

	warn := color.New(color.FgYellow)
	validator := validation.NewFileValidator(logger)

	sources := make([]merge.Source, 0, len(paths))
	names := make([]string, 0, len(paths))
	for _, p := range paths {
		names = append(names, filepath.Base(p))
		if err := validator.ValidateFile(p); err != nil {
			warn.Fprintf(stderr, "[WARN] skip %s: %v\n", p, err)
			continue
		}
		sources = append(sources, merge.FromPath(p))
	}

	read, err := merge.ReadTables(ctx, sources, logger)
	if read != nil {
		for _, s := range read.Skipped {
			warn.Fprintf(stderr, "[WARN] skip %s: %s\n", s.Source, s.Reason)
		}
	}
	if err != nil {
		if apperrors.IsType(err, apperrors.ErrTypeNoInput) {
			return apperrors.NewNoInputError("no valid Evaluations sheets were read")
		}
		return err
	}

	rows := merge.Combine(read.Tables)

	fm := files.NewManager("")
	if err := fm.WriteAtomic(opts.out, func(w io.Writer) error {
		return merge.WriteMerged(w, rows, names, time.Now())
	}); err != nil {
		return fmt.Errorf("failed to write %s: %w", opts.out, err)
	}

	summary := merge.Summarize(rows, mergeOpts)
	if opts.summaryCSV != "" {
		if err := fm.WriteAtomic(opts.summaryCSV, func(w io.Writer) error {
			return merge.WriteSummaryCSV(w, summary)
		}); err != nil {
			return fmt.Errorf("failed to write %s: %w", opts.summaryCSV, err)
		}
	}

	logger.InfoContext(ctx, "merge complete",
		slog.Int("inputs", len(paths)),
		slog.Int("read", len(read.Tables)),
		slog.Int("rows", len(rows)),
		slog.Int("candidates", len(summary)))

	color.New(color.FgGreen).Fprintf(stdout, "[OK] merged %d files -> %s (%d rows)\n", len(paths), opts.out, len(rows))
	if opts.summaryCSV != "" {
		color.New(color.FgGreen).Fprintf(stdout, "[OK] summary -> %s (%d candidates)\n", opts.summaryCSV, len(summary))
	}

	if !opts.quiet && len(summary) > 0 {
		fmt.Fprintln(stdout)
		printSummary(stdout, summary)
	}
	return nil
}

// parseOnly accepts recommendation codes or workbook labels and returns codes.
func parseOnly(values []string) ([]string, error) {
	var codes []string
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		rec := domain.ParseRecommendation(v)
		if rec == domain.RecommendUndecided && !strings.EqualFold(v, string(rec)) && v != rec.Label() {
			return nil, apperrors.NewAppValidationError(fmt.Sprintf("unknown recommendation %q", v)).
				WithContext("field", "only")
		}
		codes = append(codes, string(rec))
	}
	return codes, nil
}

func printSummary(w io.Writer, summary []domain.SummaryRow) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Rank", "Candidate", "Evaluators", "Overall", "Recommendations", "Risks"})
	table.SetAutoWrapText(false)

	for _, s := range summary {
		table.Append([]string{
			strconv.Itoa(s.Rank),
			s.CandidateID,
			strconv.Itoa(s.Evaluators),
			merge.FormatOverall(s.Overall),
			s.Recommendations.String(),
			riskList(s.Flags),
		})
	}
	table.Render()
}

func riskList(f domain.RiskFlags) string {
	var out []string
	for _, r := range []struct {
		set  bool
		name string
	}{
		{f.Evidence, "evidence"},
		{f.Schedule, "schedule"},
		{f.Attitude, "attitude"},
		{f.Comm, "comm"},
		{f.Other, "other"},
	} {
		if r.set {
			out = append(out, r.name)
		}
	}
	if len(out) == 0 {
		return "-"
	}
	return strings.Join(out, ", ")
}
