// ════════════════════════════════════════════════════════════════════════════════════════════════
// memlab - Main Entry Point
// ────────────────────────────────────────────────────────────────────────────────────────────────
// Project: Memory Hierarchy Microbenchmarks
// Component: Subcommand dispatch & run orchestration
//
// Description:
//   Dispatches to one of three benchmarks and prepares the process for
//   stable timing before any of them starts.
//   Configure → Probe → Quiesce → Measure
//
// Architecture:
//   - Phase 0: Subcommand selection, config file, flags
//   - Phase 1: Host probe and capacity checks
//   - Phase 2: Heap cleanup, GC disabled for the measured phase
//   - Phase 3: Benchmark rows on stdout, summaries on stderr
//
// ════════════════════════════════════════════════════════════════════════════════════════════════

package main

import (
	"fmt"
	"io"
	"os"
	"os/signal"
	"runtime"
	rtdebug "runtime/debug"
	"syscall"

	"memlab/cli"
	"memlab/config"
	"memlab/debug"
	"memlab/host"
	"memlab/report"
	"memlab/utils"
)

const usage = `usage: memlab <subcommand> [flags]

subcommands:
  latency [--min_kb N] [--max_mb N] [--stride B] [--iters N] [--cpu N] [--reps N]
          [--pattern=seq|stride|random] [--seed N] [--huge] [--calibrate]
  bw      [--bytes N] [--threads N] [--stride B] [--reps N] [--iters N] [--cpu0 N]
          [--100R|--100W|--70R30W|--50R50W] [--pattern=random|stride] [--huge]
  kernel  [--ws_bytes N] [--stride N] [--reps N] [--cpu N] [--page_span N] [--huge] [--iters N]

common:
  --format=csv|json   row encoding on stdout (default csv)
  --config PATH       TOML defaults (also $MEMLAB_CONFIG)
  --verbose           per-worker diagnostics on stderr

environment:
  CPU_HZ              tick frequency for the latency cycle counter
`

// ═══════════════════════════════════════════════════════════════════════════════════════════════
// SESSION
// ═══════════════════════════════════════════════════════════════════════════════════════════════

// session carries what every subcommand shares.
type session struct {
	host   host.Info
	file   config.File
	stdout io.Writer // nil means os.Stdout
	out    *report.Writer
}

// subcommand parses its own flags from args and runs.
type subcommand func(s *session, args []string)

var subcommands = map[string]subcommand{
	"latency": runLatency,
	"bw":      runBandwidth,
	"kernel":  runKernel,
}

// ═══════════════════════════════════════════════════════════════════════════════════════════════
// MAIN ORCHESTRATION
// ═══════════════════════════════════════════════════════════════════════════════════════════════

func main() {
	if len(os.Args) < 2 {
		fmt.Print(usage)
		return
	}
	run, ok := subcommands[os.Args[1]]
	if !ok {
		// Unknown subcommands are not an error: print usage and exit 0.
		fmt.Print(usage)
		return
	}
	args := os.Args[2:]

	// PHASE 0: config file first so flags can override it
	s := &session{file: config.Load(config.Path(configFlag(args)))}

	// PHASE 1: host facts
	s.host = host.Probe()
	s.host.Log()

	setupSignalHandling()
	run(s, args)
}

// configFlag pre-scans args for --config only.
func configFlag(args []string) string {
	var path string
	sc := cli.New()
	sc.String("--config", &path)
	sc.Scan(args)
	return path
}

// bindCommon adds the flags every subcommand accepts.
func (s *session) bindCommon(sc *cli.Scanner) {
	var ignored string
	sc.String("--config", &ignored)
	sc.Bool("--verbose", &s.file.Output.Verbose)
	sc.Choice("--format", func(w string) bool {
		if _, ok := report.ParseFormat(w); ok {
			s.file.Output.Format = w
			return true
		}
		return false
	})
}

// open finalises output settings after flags are scanned and writes the
// header for the subcommand's rows, so a run with no rows still prints it.
func (s *session) open(rows report.Record) {
	debug.SetVerbose(s.file.Output.Verbose)
	f, ok := report.ParseFormat(s.file.Output.Format)
	if !ok {
		debug.DropWarning("unknown output format, using csv", debug.Fields{"format": s.file.Output.Format})
	}
	w := s.stdout
	if w == nil {
		w = os.Stdout
	}
	s.out = report.New(w, f)
	if err := s.out.Header(rows); err != nil {
		fatal("write results", err)
	}
}

// require aborts the process when n bytes cannot be backed by memory.
func (s *session) require(n uint64, what string) {
	if !s.host.Fits(n) {
		fatal(what, fmt.Errorf("need %s bytes, %s available", utils.Utoa(n), utils.Utoa(s.host.MemAvailable)))
	}
}

// emit writes one row; a closed stdout ends the run.
func (s *session) emit(r report.Record) {
	if err := s.out.Write(r); err != nil {
		fatal("write results", err)
	}
}

// fatal reports and terminates immediately. No partial-result recovery.
func fatal(what string, err error) {
	debug.DropError(what, err)
	os.Exit(1)
}

// ═══════════════════════════════════════════════════════════════════════════════════════════════
// RUNTIME PREPARATION
// ═══════════════════════════════════════════════════════════════════════════════════════════════

// quiesce collects setup garbage and disables the collector so no GC cycle
// lands inside a timed region. Benchmark buffers live outside the heap on
// Linux, so the heap stays small for the rest of the run.
func quiesce() {
	runtime.GC()
	runtime.GC()
	rtdebug.FreeOSMemory()
	rtdebug.SetGCPercent(-1)
}

// setupSignalHandling reports an interrupted run before exiting. Rows
// already written stay valid; nothing is buffered past the last row.
func setupSignalHandling() {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		sig := <-sigChan
		debug.DropMessage("SIGNAL", "interrupted by "+sig.String())
		os.Exit(130)
	}()
}
