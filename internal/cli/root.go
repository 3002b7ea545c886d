// Package cli implements the cpubench command line.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/utkarsh5026/cpubench/internal/bench"
	"github.com/utkarsh5026/cpubench/internal/cpu"
	"github.com/utkarsh5026/cpubench/internal/profiling"
	"github.com/utkarsh5026/cpubench/internal/report"
	"github.com/utkarsh5026/cpubench/internal/runner"
	"github.com/utkarsh5026/cpubench/internal/workloads"
)

const usageLine = "Usage: cpubench --workload <event|graph|bloom|cache|immutable> --dataSize <N> --iterations <M> --threads <T> [--warmupIterations <W>|--noWarmup]"

const (
	outputText = "text"
	outputJSON = "json"
)

type flags struct {
	workload         string
	dataSize         int
	iterations       int
	threads          int
	warmupIterations int
	noWarmup         bool
	config           string
	seed             int64
	pin              bool
	output           string
	progress         bool
	heartbeat        time.Duration
	logLevel         string
	cpuProfile       string
	memProfile       string
}

// Execute runs the command line with args and returns the process exit code.
func Execute(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	cmd := NewRootCommand(stdout, stderr)
	cmd.SetArgs(args)

	err := cmd.ExecuteContext(ctx)
	if err == nil {
		return ExitOK
	}

	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	report.NewPrinter(stdout, stderr).Error(err)
	return ExitFailure
}

// NewRootCommand builds the cpubench command writing to stdout and stderr.
func NewRootCommand(stdout, stderr io.Writer) *cobra.Command {
	f := &flags{}
	reg := workloads.NewRegistry()

	cmd := &cobra.Command{
		Use:   "cpubench",
		Short: "CPU microbenchmark harness for data-structure workloads",
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return nil
			}
			err := fmt.Errorf("%w: unexpected argument %q", runner.ErrInvalidConfig, args[0])
			_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "Error: %v\n", err)
			printUsage(cmd.ErrOrStderr(), cmd, reg)
			return usageError(err)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Flags().NFlag() == 0 {
				printUsage(cmd.OutOrStdout(), cmd, reg)
				return nil
			}
			return run(cmd, f, reg)
		},
	}
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	fs := cmd.Flags()
	fs.StringVar(&f.workload, "workload", runner.DefaultWorkload, "workload to run: "+strings.Join(reg.Names(), "|"))
	fs.IntVar(&f.dataSize, "dataSize", 0, "dataset size (default depends on the workload)")
	fs.IntVar(&f.iterations, "iterations", 0, "iterations per thread (default depends on the workload)")
	fs.IntVar(&f.threads, "threads", 1, "number of concurrently measured threads")
	fs.IntVar(&f.warmupIterations, "warmupIterations", 0, "warmup iterations on the first instance (default min(5, max(1, iterations/500)))")
	fs.BoolVar(&f.noWarmup, "noWarmup", false, "disable the warmup")
	fs.StringVar(&f.config, "config", "", "YAML file with run options; flags override it")
	fs.Int64Var(&f.seed, "seed", 42, "dataset generator seed")
	fs.BoolVar(&f.pin, "pin", false, "pin each measured thread to a CPU core")
	fs.StringVar(&f.output, "output", outputText, "output format: text or json")
	fs.BoolVar(&f.progress, "progress", false, "show a progress bar on stderr")
	fs.DurationVar(&f.heartbeat, "heartbeat", 0, "log per-thread progress at most once per interval (0 disables)")
	fs.StringVar(&f.logLevel, "log-level", "warn", "diagnostic log level: debug, info, warn or error")
	fs.StringVar(&f.cpuProfile, "cpuprofile", "", "write a CPU profile to this file")
	fs.StringVar(&f.memProfile, "memprofile", "", "write a heap profile to this file")

	cmd.SetHelpFunc(func(c *cobra.Command, _ []string) {
		printUsage(c.OutOrStdout(), c, reg)
	})
	cmd.SetFlagErrorFunc(func(c *cobra.Command, err error) error {
		_, _ = fmt.Fprintf(c.ErrOrStderr(), "Error: %v\n", err)
		printUsage(c.ErrOrStderr(), c, reg)
		return usageError(fmt.Errorf("%w: %v", runner.ErrInvalidConfig, err))
	})

	return cmd
}

func printUsage(w io.Writer, cmd *cobra.Command, reg *bench.Registry) {
	_, _ = fmt.Fprintln(w, usageLine)
	_, _ = fmt.Fprintln(w)
	_, _ = fmt.Fprintln(w, "Flags:")
	_, _ = fmt.Fprint(w, cmd.Flags().FlagUsages())
	_, _ = fmt.Fprintln(w)
	report.Defaults(w, reg.Specs())
}

// options merges the config file, if any, with the flags that were set
// explicitly on the command line.
func (f *flags) options(fs *pflag.FlagSet) (runner.Options, error) {
	var opts runner.Options
	if f.config != "" {
		loaded, err := runner.LoadOptionsFile(f.config)
		if err != nil {
			return runner.Options{}, err
		}
		opts = loaded
	}

	if fs.Changed("workload") || opts.Workload == "" {
		opts.Workload = f.workload
	}
	if fs.Changed("dataSize") {
		opts.DataSize = &f.dataSize
	}
	if fs.Changed("iterations") {
		opts.Iterations = &f.iterations
	}
	if fs.Changed("threads") || opts.Threads == nil {
		opts.Threads = &f.threads
	}
	if fs.Changed("warmupIterations") {
		w := f.warmupIterations
		opts.WarmupIterations = &w
	}
	if fs.Changed("noWarmup") {
		opts.NoWarmup = f.noWarmup
	}
	if fs.Changed("seed") || opts.Seed == nil {
		seed := f.seed
		opts.Seed = &seed
	}
	if fs.Changed("pin") {
		opts.Pin = f.pin
	}
	if fs.Changed("heartbeat") {
		opts.Heartbeat = f.heartbeat
	}
	return opts, nil
}

func newLogger(w io.Writer, level string) (*slog.Logger, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		return nil, fmt.Errorf("%w: log-level %q", runner.ErrInvalidConfig, level)
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: lvl})), nil
}

func run(cmd *cobra.Command, f *flags, reg *bench.Registry) error {
	stdout, stderr := cmd.OutOrStdout(), cmd.ErrOrStderr()
	printer := report.NewPrinter(stdout, stderr)

	configError := func(err error) error {
		printer.Error(err)
		printUsage(stderr, cmd, reg)
		return usageError(err)
	}

	level := f.logLevel
	if f.heartbeat > 0 && !cmd.Flags().Changed("log-level") {
		level = "info"
	}
	logger, err := newLogger(stderr, level)
	if err != nil {
		return configError(err)
	}
	if f.output != outputText && f.output != outputJSON {
		return configError(fmt.Errorf("%w: output must be %q or %q, got %q", runner.ErrInvalidConfig, outputText, outputJSON, f.output))
	}

	opts, err := f.options(cmd.Flags())
	if err != nil {
		return configError(err)
	}

	cfg, err := runner.Resolve(opts, reg)
	if errors.Is(err, bench.ErrUnknownWorkload) {
		printer.UnknownWorkload(opts.Workload)
		printUsage(stderr, cmd, reg)
		return usageError(err)
	}
	if err != nil {
		return configError(err)
	}

	if cfg.Pin && !cpu.PinningSupported() {
		logger.Warn("core pinning is not supported on this platform; threads are locked but not pinned")
	}

	stopProfiling, err := profiling.Start(f.cpuProfile, f.memProfile, logger)
	if err != nil {
		return failure(err)
	}
	defer stopProfiling()

	text := f.output == outputText
	runOpts := []runner.Option{runner.WithLogger(logger)}
	if text {
		printer.Header(cfg)
		if cfg.Warmup == 0 {
			printer.WarmupDisabled()
		}
		runOpts = append(runOpts, runner.WithStateObserver(printer.StateObserver(cfg)))
	}

	var bar *progressbar.ProgressBar
	if f.progress {
		bar = newProgressBar(stderr, cfg)
		runOpts = append(runOpts, runner.WithThreadObserver(func(runner.ThreadResult) {
			_ = bar.Add(1)
		}))
	}

	res, runErr := runner.New(cfg, runOpts...).Run(cmd.Context())
	if bar != nil {
		_ = bar.Finish()
	}

	if res != nil {
		if text {
			printer.Result(res)
		} else if err := report.WriteJSON(stdout, res, runErr); err != nil {
			return failure(err)
		}
	}

	if runErr != nil {
		printer.Error(runErr)
		return failure(runErr)
	}
	return nil
}

func newProgressBar(w io.Writer, cfg runner.Config) *progressbar.ProgressBar {
	return progressbar.NewOptions(cfg.Threads,
		progressbar.OptionSetDescription(fmt.Sprintf("Measuring %s", cfg.Workload)),
		progressbar.OptionSetWidth(50),
		progressbar.OptionShowCount(),
		progressbar.OptionShowIts(),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "█",
			SaucerHead:    "█",
			SaucerPadding: "░",
			BarStart:      "│",
			BarEnd:        "│",
		}),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionSetWriter(w),
		progressbar.OptionThrottle(65*time.Millisecond),
		progressbar.OptionClearOnFinish(),
	)
}
