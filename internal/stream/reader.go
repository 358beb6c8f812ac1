// Package stream splits the sampler's output into NUL-delimited frames and
// decodes each one into a snapshot.
//
// Chunk boundaries are arbitrary: a frame may arrive across many reads, and
// one read may hold several frames. The reader keeps the partial frame
// between reads and only decodes complete frames.
package stream

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"

	"github.com/rileyhilliard/mxtop/internal/logger"
	"github.com/rileyhilliard/mxtop/internal/snapshot"
)

// Delimiter separates samples in powermetrics plist output.
const Delimiter byte = 0

// DefaultChunkSize is the read size used when none is configured.
const DefaultChunkSize = 1024

// Frame is one item handed to the dashboard. Exactly one field is set:
// Snapshot for a decoded frame, or Fragment for bytes left over at end of
// stream that never saw a delimiter.
type Frame struct {
	Snapshot *snapshot.Snapshot
	Fragment []byte
}

// Sink receives frames. delivery.Stack[Frame] satisfies it.
type Sink interface {
	Push(Frame) bool
	Close()
}

// Stats counts what the reader saw over one run.
type Stats struct {
	Bytes     int64
	Frames    int // non-empty delimited frames
	Decoded   int
	Skipped   int // frames that failed to decode
	Fragments int // leftover pushed at end of stream
}

// DecodeFunc turns one frame into a snapshot.
type DecodeFunc func([]byte) (*snapshot.Snapshot, error)

// Reader is a stateful frame splitter. A Reader runs once; create a new one
// per stream.
type Reader struct {
	chunkSize int
	decode    DecodeFunc
	log       logger.Logger
}

// Option configures a Reader.
type Option func(*Reader)

// WithChunkSize sets the read size. Non-positive values are ignored.
func WithChunkSize(n int) Option {
	return func(r *Reader) {
		if n > 0 {
			r.chunkSize = n
		}
	}
}

// WithDecoder replaces snapshot.Decode.
func WithDecoder(fn DecodeFunc) Option {
	return func(r *Reader) {
		if fn != nil {
			r.decode = fn
		}
	}
}

// WithLogger sets the logger used for skipped frames and read errors.
func WithLogger(l logger.Logger) Option {
	return func(r *Reader) {
		if l != nil {
			r.log = l
		}
	}
}

// NewReader creates a reader with the given options.
func NewReader(opts ...Option) *Reader {
	r := &Reader{
		chunkSize: DefaultChunkSize,
		decode:    snapshot.Decode,
		log:       logger.Noop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run reads in until it is exhausted, fails, or ctx is done, pushing every
// decoded frame to out. A frame that fails to decode is logged and skipped.
// Bytes left without a trailing delimiter are pushed raw as a Fragment.
// Run always closes both in and out before returning.
func (r *Reader) Run(ctx context.Context, in io.ReadCloser, out Sink) Stats {
	var stats Stats

	defer out.Close()
	defer func() {
		if err := in.Close(); err != nil {
			r.log.Debug("closing sampler output: %v", err)
		}
	}()

	chunk := make([]byte, r.chunkSize)
	buf := make([]byte, 0, r.chunkSize*4)

	for {
		n, err := in.Read(chunk)
		if n > 0 {
			stats.Bytes += int64(n)
			buf = append(buf, chunk[:n]...)
			buf = r.split(buf, out, &stats)
		}
		if err != nil {
			if !isEndOfStream(err) {
				r.log.Warn("reading sampler output: %v", err)
			}
			break
		}
		if ctx.Err() != nil {
			r.log.Debug("reader stopping: %v", ctx.Err())
			break
		}
	}

	if len(buf) > 0 {
		stats.Fragments++
		r.log.Debug("pushing %d leftover bytes as fragment", len(buf))
		out.Push(Frame{Fragment: bytes.Clone(buf)})
	}

	return stats
}

// split emits every complete frame in buf and returns the remainder,
// compacted to the front of buf.
func (r *Reader) split(buf []byte, out Sink, stats *Stats) []byte {
	start := 0
	for {
		i := bytes.IndexByte(buf[start:], Delimiter)
		if i < 0 {
			break
		}
		r.emit(buf[start:start+i], out, stats)
		start += i + 1
	}

	if start == 0 {
		return buf
	}
	n := copy(buf, buf[start:])
	return buf[:n]
}

func (r *Reader) emit(frame []byte, out Sink, stats *Stats) {
	if len(bytes.TrimSpace(frame)) == 0 {
		return
	}
	stats.Frames++

	snap, err := r.decode(frame)
	if err != nil {
		stats.Skipped++
		r.log.Warn("skipping frame %d (%d bytes): %s", stats.Frames, len(frame), summarize(err))
		return
	}

	stats.Decoded++
	out.Push(Frame{Snapshot: snap})
}

func isEndOfStream(err error) bool {
	return errors.Is(err, io.EOF) ||
		errors.Is(err, io.ErrClosedPipe) ||
		errors.Is(err, os.ErrClosed)
}

type summarizer interface{ Summary() string }

func summarize(err error) string {
	var s summarizer
	if errors.As(err, &s) {
		return s.Summary()
	}
	return err.Error()
}
