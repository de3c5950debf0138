package main

import (
	"context"
	"io"
	"os"
	"os/signal"

	"github.com/iyisakuma/NPB-GO/NPB-CG/CG/benchmark"
	"github.com/iyisakuma/NPB-GO/NPB-CG/common"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

func newLogger(w io.Writer, level logrus.Level) *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(w)
	logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	logger.SetLevel(level)
	return logger
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	v := newViper()

	cmd := &cobra.Command{
		Use:   "cg [class] [threads]",
		Short: "NAS Parallel Benchmarks CG kernel",
		Long: "Estimates the largest eigenvalue of a random sparse symmetric matrix with " +
			"inverse power iterations, each solved by 25 conjugate gradient steps.",
		Example:       "  cg B 4\n  NPB_CLASS=A cg --threads 8 --format yaml",
		Args:          cobra.MaximumNArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(v, args)
			if err != nil {
				return err
			}
			logger := newLogger(stderr, cfg.LogLevel)
			return run(cmd.Context(), cfg, stdout, logger)
		},
	}

	flags := cmd.Flags()
	flags.StringP("class", "c", "S", "problem class (S, W, A, B, C, D, E)")
	flags.IntP("threads", "t", 0, "number of worker goroutines (default: number of CPUs)")
	flags.String("config", "", "YAML configuration file")
	flags.String("log-level", "info", "log level (debug, info, warn, error)")
	flags.String("format", "text", "report format (text, yaml)")
	flags.Bool("timers", false, "print the section timer breakdown")
	for _, name := range []string{"class", "threads", "config", "log-level", "format", "timers"} {
		_ = v.BindPFlag(name, flags.Lookup(name))
	}

	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	return cmd
}

func run(ctx context.Context, cfg Config, stdout io.Writer, logger *logrus.Logger) error {
	log := logger.WithFields(logrus.Fields{
		"benchmark": "CG",
		"class":     cfg.Class.Name,
		"threads":   cfg.Threads,
	})

	progress := stdout
	if cfg.Format == "yaml" {
		progress = io.Discard
	}
	b, err := benchmark.New(benchmark.Options{
		Class:   cfg.Class,
		Threads: cfg.Threads,
		Timers:  cfg.Timers || common.TimerFlagPresent(""),
		Out:     progress,
		Log:     log,
	})
	if err != nil {
		return err
	}

	res, err := b.Run(ctx)
	if err != nil {
		return err
	}
	if cfg.Format == "yaml" {
		return b.ReportYAML(stdout, res)
	}
	b.Report(stdout, res)
	return nil
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := newRootCmd(os.Stdout, os.Stderr).ExecuteContext(ctx); err != nil {
		logrus.WithError(err).Error("cg failed")
		stop()
		os.Exit(1)
	}
}
