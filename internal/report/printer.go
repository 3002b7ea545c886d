// Package report renders benchmark progress and results for the console and
// as JSON.
package report

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"

	"github.com/utkarsh5026/cpubench/internal/bench"
	"github.com/utkarsh5026/cpubench/internal/runner"
)

// Color helpers
var (
	Bold   = color.New(color.Bold)
	Green  = color.New(color.FgGreen)
	Red    = color.New(color.FgRed)
	Yellow = color.New(color.FgYellow)
)

// Printer writes the [INFO] and [RESULT] lines of a run. Results go to out,
// errors and usage hints to errOut.
type Printer struct {
	out    io.Writer
	errOut io.Writer
}

// NewPrinter returns a Printer. Nil writers default to stdout and stderr.
func NewPrinter(out, errOut io.Writer) *Printer {
	if out == nil {
		out = os.Stdout
	}
	if errOut == nil {
		errOut = os.Stderr
	}
	return &Printer{out: out, errOut: errOut}
}

func (p *Printer) infof(format string, a ...any) {
	_, _ = fmt.Fprintf(p.out, "[INFO] "+format+"\n", a...)
}

// Header echoes the resolved run parameters.
func (p *Printer) Header(cfg runner.Config) {
	p.infof("Workload=%s dataSize=%d iterations/thread=%d threads=%d",
		cfg.Workload, cfg.DataSize, cfg.Iterations, cfg.Threads)
}

// WarmupStarted announces a warmup of n iterations.
func (p *Printer) WarmupStarted(n int) {
	p.infof("Warmup: %d iterations", n)
}

// WarmupComplete reports the end of the warmup.
func (p *Printer) WarmupComplete() {
	p.infof("Warmup complete.")
}

// WarmupDisabled reports that the run has no warmup.
func (p *Printer) WarmupDisabled() {
	p.infof("Warmup disabled.")
}

// Starting announces the measured phase.
func (p *Printer) Starting() {
	p.infof("Starting benchmark...")
}

// StateObserver returns a runner state observer that prints the warmup and
// start lines at the right moment.
func (p *Printer) StateObserver(cfg runner.Config) func(from, to runner.State) {
	return func(from, to runner.State) {
		switch to {
		case runner.StateWarmup:
			p.WarmupStarted(cfg.Warmup)
		case runner.StateMeasuring:
			if from == runner.StateWarmup {
				p.WarmupComplete()
			}
			p.Starting()
		}
	}
}

// Elapsed prints the single [RESULT] line of a run.
func (p *Printer) Elapsed(d time.Duration) {
	_, _ = Bold.Fprintf(p.out, "[RESULT] Total elapsed time: %s s\n", FormatSeconds(d))
}

// Result prints the elapsed line followed by the throughput table and any
// failed threads.
func (p *Printer) Result(res *runner.Result) {
	p.Elapsed(res.Elapsed)
	p.ThreadTable(res)

	for _, t := range res.Failed() {
		_, _ = Red.Fprintf(p.errOut, "  thread %d failed after %d iterations: %v\n", t.Index, t.Completed, t.Err)
	}
}

// ThreadTable renders per-thread iteration counts, throughput and mean
// latency with a total row.
func (p *Printer) ThreadTable(res *runner.Result) {
	table := tablewriter.NewWriter(p.out)
	table.Header("Thread", "Iterations", "Time", "Iter/sec", "Mean Latency", "Status")

	for _, t := range res.PerThread {
		status := Green.Sprint("ok")
		if t.Err != nil {
			status = Red.Sprint("failed")
		}
		_ = table.Append(
			fmt.Sprintf("%d", t.Index),
			FormatNumber(int64(t.Completed)),
			t.Elapsed.Round(time.Millisecond).String(),
			FormatNumber(int64(t.Throughput())),
			FormatLatency(t.MeanLatency()),
			status,
		)
	}
	_ = table.Append(
		"total",
		FormatNumber(res.TotalIterations),
		res.Elapsed.Round(time.Millisecond).String(),
		FormatNumber(int64(res.Throughput())),
		"",
		totalStatus(res),
	)

	if err := table.Render(); err != nil {
		_, _ = Red.Fprintln(p.errOut, "Error in rendering thread table")
	}
}

// totalStatus is green when every thread succeeded and yellow otherwise.
func totalStatus(res *runner.Result) string {
	ok := len(res.PerThread) - len(res.Failed())
	c := Green
	if ok < len(res.PerThread) {
		c = Yellow
	}
	return c.Sprintf("%d/%d ok", ok, len(res.PerThread))
}

// Error prints err on the error writer.
func (p *Printer) Error(err error) {
	_, _ = Red.Fprintf(p.errOut, "Error: %v\n", err)
}

// UnknownWorkload prints the message for a workload name that is not
// registered.
func (p *Printer) UnknownWorkload(name string) {
	_, _ = Red.Fprintf(p.errOut, "Unknown workload: %s\n", name)
}

// Defaults writes the per-workload default table used in the help text.
func Defaults(w io.Writer, specs []bench.Spec) {
	_, _ = fmt.Fprintln(w, "Defaults (dataSize / iterations) if omitted:")
	for _, s := range specs {
		_, _ = fmt.Fprintf(w, "  %s: %d / %d\n", s.Name, s.DefaultDataSize, s.DefaultIterations)
	}
	_, _ = fmt.Fprintln(w, "Warmup: default = min(5, max(1, iterations/500)); override with --warmupIterations or disable via --noWarmup")
}
