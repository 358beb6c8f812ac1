package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/rileyhilliard/mxtop/internal/config"
	"github.com/rileyhilliard/mxtop/internal/delivery"
	"github.com/rileyhilliard/mxtop/internal/errors"
	"github.com/rileyhilliard/mxtop/internal/logger"
	"github.com/rileyhilliard/mxtop/internal/monitor"
	"github.com/rileyhilliard/mxtop/internal/sampler"
	"github.com/rileyhilliard/mxtop/internal/stream"
	"github.com/rileyhilliard/mxtop/internal/sysinfo"
)

// Swapped out in tests.
var (
	euid       = os.Geteuid
	isTerminal = func(w io.Writer) bool {
		f, ok := w.(*os.File)
		return ok && term.IsTerminal(int(f.Fd()))
	}
)

// Summary describes a finished run. It is printed to stderr on exit.
type Summary struct {
	Reason  monitor.StopReason
	Decoded int
	Skipped int
	Dropped uint64
}

// String renders the summary as one line.
func (s Summary) String() string {
	return fmt.Sprintf("mxtop stopped (%s): %d samples decoded, %d skipped, %d dropped",
		s.Reason, s.Decoded, s.Skipped, s.Dropped)
}

// dashboardCommand runs the monitor until the user quits, the sampler stops
// producing, or the stream ends.
func dashboardCommand(cmd *cobra.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	log, closer, err := logger.OpenFile(cfg.LogPath(), debugEnabled(cmd))
	if err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig,
			"Couldn't open log file "+cfg.LogPath(),
			"Point log_file or --log-file at a writable path")
	}
	defer closer.Close()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	out := cmd.OutOrStdout()
	summary, err := runPipeline(ctx, cfg, log, out, cfg.Plain || !isTerminal(out))
	if err != nil {
		log.Error("%v", err)
		return err
	}

	log.Info("%s", summary)
	fmt.Fprintln(cmd.ErrOrStderr(), summary)
	return nil
}

// runPipeline wires sampler, reader, stack and dashboard together and
// blocks until the dashboard stops and the reader has drained.
func runPipeline(ctx context.Context, cfg *config.Config, log logger.Logger, out io.Writer, plain bool) (Summary, error) {
	sup := sampler.New(cfg.Sampler.Path,
		sampler.WithGrace(cfg.Sampler.Grace),
		sampler.WithLogger(logger.Named(log, "sampler")),
		sampler.WithEUID(euid),
	)

	samples, err := sup.Start(ctx)
	if err != nil {
		return Summary{}, err
	}

	stack := delivery.New[stream.Frame](cfg.Buffer)
	reader := stream.NewReader(
		stream.WithChunkSize(cfg.ChunkSize),
		stream.WithLogger(logger.Named(log, "stream")),
	)
	statsCh := make(chan stream.Stats, 1)
	go func() {
		statsCh <- reader.Run(ctx, samples, stack)
	}()

	opts := monitor.Options{
		Timeout: cfg.Timeout,
		Logger:  logger.Named(log, "monitor"),
		Thresholds: monitor.Thresholds{
			Warning:  cfg.Thresholds.Warning,
			Critical: cfg.Thresholds.Critical,
		},
		OnStop: func(reason monitor.StopReason) {
			if err := sup.Terminate(); err != nil {
				log.Warn("stopping sampler after %s: %v", reason, err)
			}
		},
	}

	var reason monitor.StopReason
	if plain {
		reason = monitor.RunPlain(ctx, stack, out, opts)
	} else {
		reason, err = runDashboard(ctx, stack, opts)
	}

	// The dashboard may fail before its stop hook runs.
	if termErr := sup.Terminate(); termErr != nil && err == nil {
		err = termErr
	}
	stats := <-statsCh
	if err != nil {
		return Summary{}, err
	}
	if err := sup.Wait(); err != nil {
		return Summary{}, err
	}

	return Summary{
		Reason:  reason,
		Decoded: stats.Decoded,
		Skipped: stats.Skipped,
		Dropped: stack.Dropped(),
	}, nil
}

// runDashboard runs the Bubble Tea program. Signals arrive through ctx and
// are forwarded as an interrupt so the model stops through its normal path.
func runDashboard(ctx context.Context, src monitor.Source, opts monitor.Options) (monitor.StopReason, error) {
	opts.Host = sysinfo.Collect()
	opts.Memory = sysinfo.ReadMemory

	p := tea.NewProgram(monitor.NewModel(ctx, src, opts),
		tea.WithAltScreen(),
		tea.WithoutSignalHandler(),
	)

	finished := make(chan struct{})
	defer close(finished)
	go func() {
		select {
		case <-ctx.Done():
			p.Send(monitor.InterruptMsg{})
		case <-finished:
		}
	}()

	final, err := p.Run()
	if err != nil {
		return monitor.ReasonNone, errors.WrapWithCode(err, errors.ErrUI,
			"Dashboard failed",
			"Try --plain if the terminal can't run a full-screen UI")
	}
	m, ok := final.(monitor.Model)
	if !ok {
		return monitor.ReasonNone, nil
	}
	return m.Reason(), nil
}
