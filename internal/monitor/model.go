package monitor

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/rileyhilliard/mxtop/internal/delivery"
	"github.com/rileyhilliard/mxtop/internal/logger"
	"github.com/rileyhilliard/mxtop/internal/snapshot"
	"github.com/rileyhilliard/mxtop/internal/stream"
	"github.com/rileyhilliard/mxtop/internal/sysinfo"
	"github.com/rileyhilliard/mxtop/internal/ui"
)

// State is the dashboard lifecycle state.
type State int

const (
	StateStarting State = iota // waiting for the first snapshot
	StateRunning
	StateStopped
)

// String returns a human-readable state name.
func (s State) String() string {
	switch s {
	case StateStarting:
		return "starting"
	case StateRunning:
		return "running"
	case StateStopped:
		return "stopped"
	default:
		return "unknown"
	}
}

// StopReason records why the dashboard stopped.
type StopReason int

const (
	ReasonNone StopReason = iota
	// ReasonTimeout means no snapshot arrived within the receive timeout.
	ReasonTimeout
	// ReasonInterrupted means the user quit or the process was signalled.
	ReasonInterrupted
	// ReasonClosed means the sampler stream ended.
	ReasonClosed
)

// String returns a human-readable reason.
func (r StopReason) String() string {
	switch r {
	case ReasonNone:
		return "none"
	case ReasonTimeout:
		return "timeout"
	case ReasonInterrupted:
		return "interrupted"
	case ReasonClosed:
		return "closed"
	default:
		return "unknown"
	}
}

// DefaultTimeout bounds every wait for the next snapshot.
const DefaultTimeout = 30 * time.Second

// Source hands out frames. delivery.Stack[stream.Frame] satisfies it.
type Source interface {
	Receive(ctx context.Context, timeout time.Duration) delivery.Result[stream.Frame]
}

// Options configures the dashboard. Zero values are usable.
type Options struct {
	// Timeout bounds each receive. Zero uses DefaultTimeout.
	Timeout time.Duration

	// OnStop runs once when the dashboard stops, before it quits. The CLI
	// terminates the sampler here.
	OnStop func(StopReason)

	Logger     logger.Logger
	Host       sysinfo.Info
	Thresholds Thresholds

	// Memory reads memory usage for the header. Nil hides it.
	Memory func() (sysinfo.Memory, error)

	// Now returns the header clock. Nil uses time.Now.
	Now func() time.Time
}

func (o Options) withDefaults() Options {
	if o.Timeout <= 0 {
		o.Timeout = DefaultTimeout
	}
	if o.Logger == nil {
		o.Logger = logger.Noop()
	}
	if o.Thresholds.Warning == 0 && o.Thresholds.Critical == 0 {
		o.Thresholds = DefaultThresholds()
	}
	if o.Now == nil {
		o.Now = time.Now
	}
	return o
}

// Model is the Bubble Tea model for the dashboard.
type Model struct {
	ctx  context.Context
	src  Source
	opts Options

	state  State
	reason StopReason

	gauges     *Gauges
	gpuHistory *ui.History
	cpuHistory *ui.History   // average over all cores
	rows       []WorkloadRow // snapshot order
	last       *snapshot.Snapshot
	snapshots  int
	fragments  int

	waiting   ui.WaitSpinner
	table     table.Model
	help      help.Model
	sortOrder SortOrder
	showHelp  bool
	width     int
	height    int
	clock     time.Time
	memory    sysinfo.Memory
	hasMemory bool
}

// InterruptMsg asks the dashboard to stop as interrupted. The CLI sends it
// when SIGINT or SIGTERM arrives.
type InterruptMsg struct{}

// frameMsg carries one receive result from the delivery stack.
type frameMsg struct {
	result delivery.Result[stream.Frame]
}

// clockMsg refreshes the header clock and memory reading.
type clockMsg time.Time

const clockInterval = time.Second

// historySize is how many samples the sparklines keep.
const historySize = 120

// NewModel creates a dashboard reading from src. ctx bounds every receive;
// when it is done the dashboard stops as interrupted.
func NewModel(ctx context.Context, src Source, opts Options) Model {
	opts = opts.withDefaults()
	return Model{
		ctx:        ctx,
		src:        src,
		opts:       opts,
		state:      StateStarting,
		gauges:     NewGauges(),
		gpuHistory: ui.NewHistory(historySize),
		cpuHistory: ui.NewHistory(historySize),
		waiting:    ui.NewWaitSpinner("Waiting for powermetrics", TitleStyle),
		table:      newWorkloadTable(80, 10),
		help:       help.New(),
		clock:      opts.Now(),
	}
}

// Init starts the first receive, the header clock and the wait spinner.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.receiveCmd(), m.clockCmd(), m.waiting.Tick())
}

// Update handles messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.state == StateStopped {
			return m, nil
		}
		if handled, cmd := m.HandleKeyMsg(msg); handled {
			return m, cmd
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.resizeTable()

	case InterruptMsg:
		cmd := m.stop(ReasonInterrupted)
		return m, cmd

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.waiting, cmd = m.waiting.Update(msg)
		return m, cmd

	case clockMsg:
		if m.state == StateStopped {
			return m, nil
		}
		m.clock = time.Time(msg)
		m.readMemory()
		return m, m.clockCmd()

	case frameMsg:
		return m.handleFrame(msg.result)
	}

	return m, nil
}

func (m Model) handleFrame(res delivery.Result[stream.Frame]) (tea.Model, tea.Cmd) {
	if m.state == StateStopped {
		return m, nil
	}

	switch res.Outcome {
	case delivery.Delivered:
		if res.Value.Snapshot == nil {
			m.fragments++
			m.opts.Logger.Warn("discarding %d-byte trailing fragment", len(res.Value.Fragment))
			return m, m.receiveCmd()
		}
		m.apply(res.Value.Snapshot)
		return m, m.receiveCmd()

	case delivery.TimedOut:
		m.opts.Logger.Warn("no snapshot for %s, stopping", m.opts.Timeout)
		cmd := m.stop(ReasonTimeout)
		return m, cmd

	default:
		// A done context also surfaces as Closed.
		reason := ReasonClosed
		if m.ctx.Err() != nil {
			reason = ReasonInterrupted
		}
		cmd := m.stop(reason)
		return m, cmd
	}
}

// apply folds one snapshot into the gauges and rebuilds the table.
func (m *Model) apply(snap *snapshot.Snapshot) {
	m.gauges.Update(snap)
	m.gpuHistory.Push(m.gauges.GPU())
	m.cpuHistory.Push(m.gauges.Average())
	m.rows = BuildWorkloadTable(snap)
	m.last = snap
	m.snapshots++
	if m.state == StateStarting {
		m.opts.Logger.Info("first snapshot received")
		m.state = StateRunning
		m.waiting.Done()
	}
	m.table.SetHeight(m.tableHeight() + tableHeaderLines)
	m.refreshTable()
}

// stop enters StateStopped and runs the stop hook. Only the first call has
// any effect.
func (m *Model) stop(reason StopReason) tea.Cmd {
	if m.state == StateStopped {
		return nil
	}
	m.state = StateStopped
	m.reason = reason
	m.waiting.Done()
	m.opts.Logger.Info("dashboard stopping: %s after %d snapshots", reason, m.snapshots)
	if m.opts.OnStop != nil {
		m.opts.OnStop(reason)
	}
	return tea.Quit
}

// receiveCmd blocks on the source for the next frame.
func (m Model) receiveCmd() tea.Cmd {
	ctx, src, timeout := m.ctx, m.src, m.opts.Timeout
	return func() tea.Msg {
		return frameMsg{result: src.Receive(ctx, timeout)}
	}
}

func (m Model) clockCmd() tea.Cmd {
	return tea.Tick(clockInterval, func(t time.Time) tea.Msg {
		return clockMsg(t)
	})
}

func (m *Model) readMemory() {
	if m.opts.Memory == nil {
		return
	}
	mem, err := m.opts.Memory()
	if err != nil {
		m.opts.Logger.Debug("reading memory failed: %v", err)
		return
	}
	m.memory = mem
	m.hasMemory = true
}

func (m *Model) refreshTable() {
	m.table.SetRows(toTableRows(SortRows(m.rows, m.sortOrder)))
}

func (m *Model) resizeTable() {
	m.table.SetColumns(workloadColumns(m.width))
	m.table.SetWidth(m.width)
	m.table.SetHeight(m.tableHeight() + tableHeaderLines)
}

// State returns the lifecycle state.
func (m Model) State() State { return m.state }

// Reason returns why the dashboard stopped, or ReasonNone.
func (m Model) Reason() StopReason { return m.reason }

// Gauges exposes the GPU gauge and the core gauge map.
func (m Model) Gauges() *Gauges { return m.gauges }

// GPUHistory returns recent GPU utilization, oldest first.
func (m Model) GPUHistory() []float64 { return m.gpuHistory.Values() }

// CPUHistory returns recent average core utilization, oldest first.
func (m Model) CPUHistory() []float64 { return m.cpuHistory.Values() }

// Rows returns the workload table in snapshot order.
func (m Model) Rows() []WorkloadRow { return append([]WorkloadRow(nil), m.rows...) }

// SortedRows returns the workload table in display order.
func (m Model) SortedRows() []WorkloadRow { return SortRows(m.rows, m.sortOrder) }

// SortOrder returns the current display order.
func (m Model) SortOrder() SortOrder { return m.sortOrder }

// Snapshots returns how many snapshots have been applied.
func (m Model) Snapshots() int { return m.snapshots }

// Fragments returns how many trailing fragments were discarded.
func (m Model) Fragments() int { return m.fragments }
