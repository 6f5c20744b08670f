package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/YuminosukeSato/regeval/config"
	"github.com/YuminosukeSato/regeval/dataset"
	"github.com/YuminosukeSato/regeval/evaluation"
	"github.com/YuminosukeSato/regeval/pkg/errors"
	"github.com/YuminosukeSato/regeval/pkg/log"
	"github.com/YuminosukeSato/regeval/report"
)

type rootFlags struct {
	configPath string
	data       string
	target     string
	k          int
	folds      int
	seed       uint64
	scaler     string
	out        string
	format     string
	logLevel   string
	logFormat  string
	noCharts   bool
}

func newRootCmd() *cobra.Command {
	f := &rootFlags{}
	cmd := &cobra.Command{
		Use:           "regeval",
		Short:         "Compare regression models with holdout and k-fold metrics",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := f.resolve(cmd)
			if err != nil {
				return err
			}
			return run(cmd.Context(), cfg, cmd.OutOrStdout(), cmd.ErrOrStderr())
		},
	}

	pf := cmd.PersistentFlags()
	pf.StringVarP(&f.configPath, "config", "c", "", "YAML configuration file")
	pf.StringVar(&f.data, "data", "", "dataset CSV path")
	pf.StringVar(&f.target, "target", "", "target column")
	pf.IntVar(&f.k, "k", 0, "number of features kept by the F-statistic filter")
	pf.IntVar(&f.folds, "folds", 0, "number of cross-validation folds")
	pf.Uint64Var(&f.seed, "seed", 0, "seed for the split, the folds and the random forest")
	pf.StringVar(&f.scaler, "scaler", "", "feature scaling: none, standard or minmax")
	pf.StringVarP(&f.out, "out", "o", "", "output directory for charts and summaries")
	pf.StringVar(&f.format, "format", "", "chart format: png, svg, pdf or jpg")
	pf.StringVar(&f.logLevel, "log-level", "", "log level: debug, info, warn or error")
	pf.StringVar(&f.logFormat, "log-format", "", "log format: console or json")
	pf.BoolVar(&f.noCharts, "no-charts", false, "skip chart rendering")

	cmd.AddCommand(newConfigCmd(f))
	return cmd
}

func newConfigCmd(f *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration as YAML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := f.resolve(cmd)
			if err != nil {
				return err
			}
			data, err := cfg.Marshal()
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}
}

// resolve loads the config file (or defaults) and applies explicitly set flags.
func (f *rootFlags) resolve(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.Default()
	if f.configPath != "" {
		var err error
		if cfg, err = config.Load(f.configPath); err != nil {
			return nil, err
		}
	}

	flags := cmd.Flags()
	if flags.Changed("data") {
		cfg.Dataset.Path = f.data
	}
	if flags.Changed("target") {
		cfg.Dataset.Target = f.target
	}
	if flags.Changed("k") {
		cfg.Features.K = f.k
	}
	if flags.Changed("folds") {
		cfg.CrossValidation.Folds = f.folds
	}
	if flags.Changed("seed") {
		cfg.Split.Seed = f.seed
		cfg.CrossValidation.Seed = f.seed
		for i := range cfg.Models {
			if cfg.Models[i].Kind == evaluation.KindRandomForest {
				cfg.Models[i].Seed = f.seed
			}
		}
	}
	if flags.Changed("scaler") {
		cfg.Preprocessing.Scaler = f.scaler
	}
	if flags.Changed("out") {
		cfg.Output.Dir = f.out
	}
	if flags.Changed("format") {
		cfg.Output.Format = f.format
	}
	if flags.Changed("log-level") {
		cfg.Log.Level = f.logLevel
	}
	if flags.Changed("log-format") {
		cfg.Log.Format = f.logFormat
	}
	if f.noCharts {
		cfg.Output.Charts = false
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// run executes one evaluation: load, evaluate, print and export.
func run(ctx context.Context, cfg *config.Config, stdout, stderr io.Writer) error {
	if err := log.SetupLoggerTo(stderr, cfg.Log.Level, cfg.Log.Format); err != nil {
		return err
	}
	runID := uuid.NewString()
	logger := log.GetLoggerWithName("cmd").With(log.RunIDKey, runID)
	start := time.Now()

	ec, err := cfg.Evaluation()
	if err != nil {
		return err
	}

	frame, err := dataset.Load(cfg.Dataset.Path)
	if err != nil {
		logger.Error("Failed to load dataset", log.SourceKey, cfg.Dataset.Path, log.ErrAttrKey, err)
		return err
	}
	fmt.Fprintln(stdout, report.DatasetInfo(frame.Describe()))
	fmt.Fprintln(stdout, report.HeadTable(frame.Columns(), frame.Head(5)))

	var writeErr error
	summary, err := evaluation.Run(ctx, frame, ec,
		evaluation.WithRunID(runID),
		evaluation.WithModelDone(func(r evaluation.Row) {
			if err := report.WriteModelReport(stdout, r); err != nil && writeErr == nil {
				writeErr = errors.Wrapf(err, "write report for %s", r.Model)
			}
		}),
	)
	if err != nil {
		logger.Error("Evaluation failed", log.ErrAttrKey, err)
		return err
	}
	if writeErr != nil {
		logger.Error("Failed to write model report", log.ErrAttrKey, writeErr)
		return writeErr
	}

	fmt.Fprintln(stdout, report.FeatureScores(summary.FeatureScore))
	selected := frame.Select(append(append([]string(nil), summary.Features...), summary.Target))
	fmt.Fprintln(stdout, report.HeadTable(selected.Columns(), selected.Head(5)))
	if err := report.WriteSummary(stdout, summary); err != nil {
		return err
	}

	written, err := export(summary, cfg.Output)
	for _, path := range written {
		logger.Info("Wrote output", log.OperationKey, log.OperationRender, log.OutputPathKey, path)
	}
	if err != nil {
		logger.Error("Failed to write outputs", log.ErrAttrKey, err)
		return err
	}

	logger.Info("Run finished", log.DurationMsKey, time.Since(start).Milliseconds())
	return nil
}

func export(s *evaluation.Summary, out config.OutputConfig) ([]string, error) {
	if err := os.MkdirAll(out.Dir, 0o755); err != nil {
		return nil, errors.Wrapf(err, "create output dir %s", out.Dir)
	}

	var written []string
	if out.Charts {
		paths, err := report.SaveCharts(s, out.Dir, out.Format)
		if err != nil {
			return written, err
		}
		written = append(written, paths...)
	}
	if out.SummaryCSV {
		path, err := report.WriteSummaryCSV(s, out.Dir)
		if err != nil {
			return written, err
		}
		written = append(written, path)
	}
	if out.SummaryJSON {
		path, err := report.WriteSummaryJSON(s, out.Dir)
		if err != nil {
			return written, err
		}
		written = append(written, path)
	}
	return written, nil
}
