// Package sampler runs the privileged powermetrics process and exposes its
// combined output as one byte stream.
package sampler

import (
	"context"
	"io"
	"os"
	"os/exec"
	"sync"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/rileyhilliard/mxtop/internal/errors"
	"github.com/rileyhilliard/mxtop/internal/logger"
)

const (
	// DefaultPath is where macOS installs powermetrics.
	DefaultPath = "/usr/bin/powermetrics"
	// DefaultGrace is how long Terminate waits after SIGTERM before SIGKILL.
	DefaultGrace = 2 * time.Second
)

// Args is the fixed sampler invocation: per-coalition tasks with GPU time,
// CPU and GPU power, and thermal pressure, once a second, as plist.
var Args = []string{
	"--show-process-coalition",
	"--show-process-gpu",
	"--samplers", "tasks,cpu_power,gpu_power,thermal",
	"-i", "1000",
	"-f", "plist",
}

// Supervisor owns one sampler process. It is started once and terminated
// once; every method is safe to call from any goroutine.
type Supervisor struct {
	path  string
	grace time.Duration
	euid  func() int
	log   logger.Logger

	mu         sync.Mutex
	cmd        *exec.Cmd
	ctx        context.Context
	done       chan struct{}
	waitErr    error
	terminated atomic.Bool
	stopOnce   sync.Once
	stopErr    error
}

// Option configures a Supervisor.
type Option func(*Supervisor)

// WithGrace sets the SIGTERM to SIGKILL delay.
func WithGrace(d time.Duration) Option {
	return func(s *Supervisor) {
		if d > 0 {
			s.grace = d
		}
	}
}

// WithLogger sets the supervisor's logger.
func WithLogger(l logger.Logger) Option {
	return func(s *Supervisor) {
		if l != nil {
			s.log = l
		}
	}
}

// WithEUID replaces os.Geteuid for the privilege check.
func WithEUID(fn func() int) Option {
	return func(s *Supervisor) {
		if fn != nil {
			s.euid = fn
		}
	}
}

// New creates a supervisor for the sampler binary at path. An empty path
// uses DefaultPath.
func New(path string, opts ...Option) *Supervisor {
	if path == "" {
		path = DefaultPath
	}
	s := &Supervisor{
		path:  path,
		grace: DefaultGrace,
		euid:  os.Geteuid,
		log:   logger.Noop(),
		done:  make(chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Path returns the sampler binary path.
func (s *Supervisor) Path() string { return s.path }

// CheckPrivilege returns a PRIVILEGE error unless the effective user is root.
func (s *Supervisor) CheckPrivilege() error {
	if s.euid() != 0 {
		return errors.New(errors.ErrPrivilege,
			"mxtop must be run as root",
			"powermetrics needs superuser access. Re-run with sudo: sudo mxtop")
	}
	return nil
}

// Start spawns the sampler and returns its merged stdout and stderr. The
// returned reader reaches EOF once the process exits. When ctx is done the
// process is terminated.
func (s *Supervisor) Start(ctx context.Context) (io.ReadCloser, error) {
	if err := s.CheckPrivilege(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cmd != nil {
		return nil, errors.New(errors.ErrSampler,
			"Sampler already started",
			"Create a new supervisor for each run")
	}

	pr, pw := io.Pipe()
	cmd := exec.Command(s.path, Args...)
	cmd.Stdout = pw
	cmd.Stderr = pw
	detach(cmd)
	// Children that inherit the pipe must not hold Wait open forever.
	cmd.WaitDelay = s.grace

	if err := cmd.Start(); err != nil {
		_ = pw.Close()
		_ = pr.Close()
		return nil, errors.WrapWithCode(err, errors.ErrSampler,
			"Couldn't start "+s.path,
			"Check that powermetrics is installed, or point sampler.path at it")
	}
	s.cmd = cmd
	s.ctx = ctx
	s.log.Debug("started %s (pid %d)", s.path, cmd.Process.Pid)

	go func() {
		err := cmd.Wait()
		s.waitErr = err
		// done closes first so a reader that sees EOF also sees the exit.
		close(s.done)
		_ = pw.Close()
		s.log.Debug("sampler exited: %v", err)
	}()

	go func() {
		select {
		case <-ctx.Done():
			_ = s.Terminate()
		case <-s.done:
		}
	}()

	return pr, nil
}

// Wait blocks until the sampler exits. It returns nil for a clean exit, an
// exit caused by Terminate, or any exit once the Start context is done, and
// a SAMPLER error otherwise.
func (s *Supervisor) Wait() error {
	s.mu.Lock()
	started := s.cmd != nil
	s.mu.Unlock()
	if !started {
		return nil
	}

	<-s.done
	if s.waitErr == nil || s.terminated.Load() {
		return nil
	}
	// The same interrupt that cancelled ctx may have reached the child first.
	if s.ctx.Err() != nil {
		s.log.Debug("sampler exited during shutdown: %v", s.waitErr)
		return nil
	}
	return errors.WrapWithCode(s.waitErr, errors.ErrSampler,
		"powermetrics exited unexpectedly",
		"Run powermetrics by hand to see its error output")
}

// Done is closed once the sampler has exited.
func (s *Supervisor) Done() <-chan struct{} { return s.done }

// Terminate stops the sampler: SIGTERM, then SIGKILL if it is still running
// after the grace period. Only the first call acts; later calls return the
// same result. Terminating a process that was never started or has already
// exited is not an error.
func (s *Supervisor) Terminate() error {
	s.stopOnce.Do(func() {
		s.stopErr = s.terminate()
	})
	return s.stopErr
}

func (s *Supervisor) terminate() error {
	s.mu.Lock()
	cmd := s.cmd
	s.mu.Unlock()
	if cmd == nil {
		return nil
	}

	select {
	case <-s.done:
		return nil
	default:
	}

	s.terminated.Store(true)
	s.log.Debug("sending SIGTERM to pid %d", cmd.Process.Pid)
	if err := cmd.Process.Signal(syscall.SIGTERM); err != nil && !errors.Is(err, os.ErrProcessDone) {
		s.log.Warn("SIGTERM failed: %v", err)
	}

	timer := time.NewTimer(s.grace)
	defer timer.Stop()
	select {
	case <-s.done:
		return nil
	case <-timer.C:
	}

	s.log.Warn("sampler ignored SIGTERM for %s, killing", s.grace)
	if err := cmd.Process.Kill(); err != nil && !errors.Is(err, os.ErrProcessDone) {
		return errors.WrapWithCode(err, errors.ErrSampler,
			"Couldn't stop powermetrics",
			"Kill it by hand: sudo pkill powermetrics")
	}
	<-s.done
	return nil
}
