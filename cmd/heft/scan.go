package main

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/charmbracelet/x/ansi"
	"github.com/dustin/go-humanize"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/sync/errgroup"

	"github.com/jamesainslie/heft/cmd/heft/tui"
	"github.com/jamesainslie/heft/pkg/heft/engine"
	"github.com/jamesainslie/heft/pkg/heft/filter"
	"github.com/jamesainslie/heft/pkg/heft/history"
	"github.com/jamesainslie/heft/pkg/heft/logging"
	"github.com/jamesainslie/heft/pkg/heft/output"
)

const defaultFormat = "table"

// runScan is the root command handler.
func runScan(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	applyScanFlags(cmd, cfg)

	f, err := buildFilter()
	if err != nil {
		return err
	}

	format := viper.GetString("output")
	noInteractive := viper.GetBool("no_interactive") || format != ""

	if noInteractive {
		if err := setupLogging(cfg, false); err != nil {
			return err
		}
		root, _, err := resolveRoot(args, cfg)
		if err != nil {
			return err
		}
		if format == "" {
			format = defaultFormat
		}
		return runNonInteractive(cmd.Context(), cfg.Engine(root), f, format, os.Stdout)
	}

	if err := setupLogging(cfg, true); err != nil {
		return err
	}

	opts := tui.Options{
		Config:  cfg,
		Filter:  f,
		Buffer:  logging.Buffer(),
		Confirm: cfg.Trash.Confirm,
	}
	if len(args) > 0 {
		root, _, err := resolveRoot(args, cfg)
		if err != nil {
			return err
		}
		opts.Root = root
	}

	if cfg.History.Enabled {
		store, err := history.Open(cfg.History.Path)
		if err != nil {
			// Another heft instance may hold the lock; trash still works.
			printVerbose("trash history unavailable: %v", err)
		} else {
			defer store.Close()
			opts.History = store
		}
	}

	return tui.Run(opts)
}

// runNonInteractive runs one scan and writes the filtered final snapshot to w.
// SIGINT and SIGTERM stop the scan early; the partial report is still printed.
func runNonInteractive(ctx context.Context, cfg engine.Config, f *filter.Filter, format string, w io.Writer) error {
	formatter, err := output.Get(format)
	if err != nil {
		return fmt.Errorf("%w (available: %s)", err, strings.Join(output.Available(), ", "))
	}

	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	var progress func(engine.Snapshot)
	if !getQuiet() && isatty.IsTerminal(os.Stderr.Fd()) {
		p := &progressLine{w: os.Stderr}
		progress = p.update
		defer p.clear()
	}

	start := time.Now()
	final, outcome, err := scanOnce(ctx, engine.New(), cfg, progress)
	if err != nil {
		printVerbose("scan interrupted: %v", err)
	}
	if outcome == engine.Stopped {
		printInfo("Scan stopped, showing partial results.")
	}

	report := f.Snapshot(final).Report(cfg.Root, outcome)
	report.Elapsed = time.Since(start)

	var buf bytes.Buffer
	if err := formatter.Format(&buf, report); err != nil {
		return fmt.Errorf("formatting report: %w", err)
	}
	_, err = buf.WriteTo(w)
	return err
}

// scanOnce runs the engine and a snapshot consumer side by side and returns
// the final snapshot. Cancelling ctx raises the stop signal; the returned
// error is then the context's, alongside the partial results.
func scanOnce(ctx context.Context, eng *engine.Engine, cfg engine.Config, progress func(engine.Snapshot)) (engine.Snapshot, engine.Outcome, error) {
	stopSig := engine.NewSignal()
	updates := make(chan engine.Snapshot, 8)
	finished := make(chan struct{})

	var (
		last    engine.Snapshot
		outcome engine.Outcome
	)

	var g errgroup.Group
	g.Go(func() error {
		eng.Run(cfg, stopSig,
			func(s engine.Snapshot) { updates <- s },
			func(o engine.Outcome) {
				outcome = o
				close(updates)
			})
		return nil
	})
	g.Go(func() error {
		defer close(finished)
		for s := range updates {
			last = s
			if progress != nil && !s.Final() {
				progress(s)
			}
		}
		return nil
	})
	g.Go(func() error {
		select {
		case <-ctx.Done():
			stopSig.Raise()
			return ctx.Err()
		case <-finished:
			return nil
		}
	})

	err := g.Wait()
	return last, outcome, err
}

// progressWidth caps the status line in terminal cells.
const progressWidth = 100

// progressLine rewrites a single status line on a terminal.
type progressLine struct {
	w     io.Writer
	width int
}

func (p *progressLine) update(s engine.Snapshot) {
	line := fmt.Sprintf("%s dirs  %s files  %s",
		humanize.Comma(s.ScannedDirs), humanize.Comma(s.ScannedFiles), s.CurrentDir)
	line = ansi.Truncate(line, progressWidth, "...")
	width := ansi.StringWidth(line)
	pad := max(p.width-width, 0)
	p.width = width
	fmt.Fprintf(p.w, "\r%s%s", line, strings.Repeat(" ", pad))
}

func (p *progressLine) clear() {
	if p.width > 0 {
		fmt.Fprintf(p.w, "\r%s\r", strings.Repeat(" ", p.width))
	}
}
