package monitor

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rileyhilliard/mxtop/internal/delivery"
	"github.com/rileyhilliard/mxtop/internal/logger"
)

func plainOptions(rec *stopRecorder) Options {
	return Options{
		Timeout: time.Second,
		OnStop:  rec.hook,
		Now:     func() time.Time { return time.Date(2024, 3, 11, 12, 0, 1, 0, time.UTC) },
	}
}

func TestRunPlain_LinePerSnapshot(t *testing.T) {
	src := newScriptSource(
		delivered(decode(t, `{"gpu":{"idle_ratio":0.25}}`)),
		fragment(`{"gpu"`),
		delivered(decode(t, `{"gpu":{"idle_ratio":0.9}}`)),
	)
	rec := &stopRecorder{}
	log := logger.NewBufferLogger()
	opts := plainOptions(rec)
	opts.Logger = log
	var out bytes.Buffer

	reason := RunPlain(context.Background(), src, &out, opts)

	assert.Equal(t, ReasonClosed, reason)
	assert.Equal(t, []StopReason{ReasonClosed}, rec.reasons)
	assert.Equal(t, 1, log.Count("warn"), "dropped fragment is a warning")

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 2, "fragments print nothing")
	assert.Equal(t, "12:00:01 cpu 0.0% gpu 75.0%", lines[0])
	assert.Equal(t, "12:00:01 cpu 0.0% gpu 10.0%", lines[1])
}

func TestRunPlain_Timeout(t *testing.T) {
	src := newScriptSource(outcome(delivery.TimedOut))
	rec := &stopRecorder{}

	reason := RunPlain(context.Background(), src, &bytes.Buffer{}, plainOptions(rec))

	assert.Equal(t, ReasonTimeout, reason)
	assert.Equal(t, []StopReason{ReasonTimeout}, rec.reasons)
	assert.Equal(t, []time.Duration{time.Second}, src.timeouts)
}

func TestRunPlain_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	rec := &stopRecorder{}

	reason := RunPlain(ctx, newScriptSource(), &bytes.Buffer{}, plainOptions(rec))

	assert.Equal(t, ReasonInterrupted, reason)
	assert.Len(t, rec.reasons, 1)
}

func TestPlainLine(t *testing.T) {
	snap := decode(t, fullDoc)
	g := NewGauges()
	g.Update(snap)

	line := PlainLine("12:00:01", g, BuildWorkloadTable(snap), snap)

	assert.True(t, strings.HasPrefix(line, "12:00:01 cpu 43.3% gpu 75.0% power 1.4"), line)
	assert.True(t, strings.HasSuffix(line, " top WindowServer 58.1ms/s 1.0 kB/s"), line)
}

func TestPlainLine_NoPowerNoRows(t *testing.T) {
	snap := decode(t, `{"gpu":{"idle_ratio":1}}`)
	g := NewGauges()
	g.Update(snap)

	assert.Equal(t, "t cpu 0.0% gpu 0.0%", PlainLine("t", g, nil, snap))
}
