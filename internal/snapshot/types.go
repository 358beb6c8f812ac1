package snapshot

import "time"

// Snapshot is one decoded powermetrics sample. Every section is optional;
// the accessor methods supply the documented defaults so callers never
// have to nil-check their way through the document.
type Snapshot struct {
	HWModel         string      `mapstructure:"hw_model"`
	ElapsedNs       *float64    `mapstructure:"elapsed_ns"`
	ThermalPressure string      `mapstructure:"thermal_pressure"`
	Processor       *Processor  `mapstructure:"processor"`
	GPU             *GPU        `mapstructure:"gpu"`
	Coalitions      []Coalition `mapstructure:"coalitions"`
}

// Processor is the cpu_power sampler section.
type Processor struct {
	Clusters []Cluster `mapstructure:"clusters"`

	// Power figures are reported in milliwatts.
	CPUPower      *float64 `mapstructure:"cpu_power"`
	GPUPower      *float64 `mapstructure:"gpu_power"`
	CombinedPower *float64 `mapstructure:"combined_power"`
}

// Cluster is a group of cores sharing a frequency domain (e.g. "E-Cluster").
type Cluster struct {
	Name string `mapstructure:"name"`
	CPUs []CPU  `mapstructure:"cpus"`
}

// CPU is a single core within a cluster.
type CPU struct {
	ID        int      `mapstructure:"cpu"`
	IdleRatio *float64 `mapstructure:"idle_ratio"`
}

// GPU is the gpu_power sampler section.
type GPU struct {
	IdleRatio *float64 `mapstructure:"idle_ratio"`
	FreqHz    *float64 `mapstructure:"freq_hz"` // MHz, see GPUFreqMHz
}

// Coalition is a named group of related processes with aggregate counters.
type Coalition struct {
	Name               string   `mapstructure:"name"`
	CPUTimeMsPerSec    *float64 `mapstructure:"cputime_ms_per_s"`
	GPUTimeMsPerSec    *float64 `mapstructure:"gputime_ms_per_s"`
	DiskIOBytesRead    *float64 `mapstructure:"diskio_bytesread"`
	DiskIOBytesWritten *float64 `mapstructure:"diskio_byteswritten"`
}

// Clusters returns the processor clusters, or nil when the processor
// section is absent.
func (s *Snapshot) Clusters() []Cluster {
	if s == nil || s.Processor == nil {
		return nil
	}
	return s.Processor.Clusters
}

// GPUIdleRatio returns the GPU idle ratio. A missing GPU section or field
// reads as fully idle.
func (s *Snapshot) GPUIdleRatio() float64 {
	if s == nil || s.GPU == nil {
		return 1
	}
	return valueOr(s.GPU.IdleRatio, 1)
}

// Power returns CPU and GPU power draw in milliwatts and whether the
// processor section reported them.
func (s *Snapshot) Power() (cpuMW, gpuMW float64, ok bool) {
	if s == nil || s.Processor == nil {
		return 0, 0, false
	}
	p := s.Processor
	if p.CPUPower == nil && p.GPUPower == nil {
		return 0, 0, false
	}
	return valueOr(p.CPUPower, 0), valueOr(p.GPUPower, 0), true
}

// CombinedPower returns total package power in milliwatts and whether it
// was reported.
func (s *Snapshot) CombinedPower() (float64, bool) {
	if s == nil || s.Processor == nil || s.Processor.CombinedPower == nil {
		return 0, false
	}
	return *s.Processor.CombinedPower, true
}

// GPUFreqMHz returns the GPU active frequency and whether it was reported.
// powermetrics reports this value in MHz despite the key name.
func (s *Snapshot) GPUFreqMHz() (float64, bool) {
	if s == nil || s.GPU == nil || s.GPU.FreqHz == nil {
		return 0, false
	}
	return *s.GPU.FreqHz, true
}

// Interval returns the sampling window this snapshot covers.
func (s *Snapshot) Interval() (time.Duration, bool) {
	if s == nil || s.ElapsedNs == nil || *s.ElapsedNs <= 0 {
		return 0, false
	}
	return time.Duration(*s.ElapsedNs), true
}

// Idle reports the idle ratio and whether the sampler provided one.
func (c CPU) Idle() (float64, bool) {
	if c.IdleRatio == nil {
		return 0, false
	}
	return *c.IdleRatio, true
}

// CPUTime returns CPU milliseconds per second, defaulting to 0.
func (c Coalition) CPUTime() float64 { return valueOr(c.CPUTimeMsPerSec, 0) }

// GPUTime returns GPU milliseconds per second, defaulting to 0.
func (c Coalition) GPUTime() float64 { return valueOr(c.GPUTimeMsPerSec, 0) }

// BytesRead returns disk bytes read, defaulting to 0.
func (c Coalition) BytesRead() float64 { return valueOr(c.DiskIOBytesRead, 0) }

// BytesWritten returns disk bytes written, defaulting to 0.
func (c Coalition) BytesWritten() float64 { return valueOr(c.DiskIOBytesWritten, 0) }

func valueOr(v *float64, def float64) float64 {
	if v == nil {
		return def
	}
	return *v
}
