package monitor

import (
	"context"
	"fmt"
	"io"

	"github.com/dustin/go-humanize"

	"github.com/rileyhilliard/mxtop/internal/delivery"
	"github.com/rileyhilliard/mxtop/internal/snapshot"
)

// RunPlain drives the same Starting, Running and Stopped cycle as the
// dashboard without a terminal UI. Each snapshot prints one line to w. It
// returns once the source times out, closes, or ctx is done, after calling
// opts.OnStop exactly once.
func RunPlain(ctx context.Context, src Source, w io.Writer, opts Options) StopReason {
	opts = opts.withDefaults()
	log := opts.Logger
	gauges := NewGauges()
	count := 0

	stop := func(reason StopReason) StopReason {
		log.Info("plain output stopping: %s after %d snapshots", reason, count)
		if opts.OnStop != nil {
			opts.OnStop(reason)
		}
		return reason
	}

	for {
		res := src.Receive(ctx, opts.Timeout)
		switch res.Outcome {
		case delivery.Delivered:
			snap := res.Value.Snapshot
			if snap == nil {
				log.Warn("discarding %d-byte trailing fragment", len(res.Value.Fragment))
				continue
			}
			gauges.Update(snap)
			count++
			fmt.Fprintln(w, PlainLine(opts.Now().Format("15:04:05"), gauges, BuildWorkloadTable(snap), snap))

		case delivery.TimedOut:
			return stop(ReasonTimeout)

		default:
			if ctx.Err() != nil {
				return stop(ReasonInterrupted)
			}
			return stop(ReasonClosed)
		}
	}
}

// PlainLine summarizes one snapshot, e.g.
// "12:00:01 cpu 23.4% gpu 75.0% power 1.23W top WindowServer 58.1ms/s 4.1 kB/s".
func PlainLine(clock string, g *Gauges, rows []WorkloadRow, snap *snapshot.Snapshot) string {
	line := fmt.Sprintf("%s cpu %.1f%% gpu %.1f%%", clock, g.Average()*100, g.GPU()*100)

	if cpuMW, gpuMW, ok := snap.Power(); ok {
		line += fmt.Sprintf(" power %.2fW", (cpuMW+gpuMW)/1000)
	}

	if top := SortRows(rows, SortByCPU); len(top) > 0 {
		disk := top[0].BytesRead + top[0].BytesWritten
		line += fmt.Sprintf(" top %s %.1fms/s %s/s", top[0].Name, top[0].CPUTime, humanize.Bytes(uint64(disk)))
	}
	return line
}
