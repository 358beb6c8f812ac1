package monitor

import (
	"fmt"
	"math"

	"github.com/rileyhilliard/mxtop/internal/snapshot"
)

// CoreKey identifies one core gauge across snapshots.
type CoreKey struct {
	Cluster string
	CPU     int
}

// String returns the "<cluster>_<cpu>" form used as the gauge label.
func (k CoreKey) String() string {
	return fmt.Sprintf("%s_%d", k.Cluster, k.CPU)
}

// ClusterGauges lists the cores of one cluster in first-seen order.
type ClusterGauges struct {
	Name  string
	Cores []CoreKey
}

// Gauges holds utilization in [0,1] for the GPU and every core ever
// reported. A core gauge is created the first time its key appears and is
// never removed; a core missing from later snapshots keeps its last value.
type Gauges struct {
	gpu      float64
	cores    map[CoreKey]float64
	order    []CoreKey
	clusters []string
	byName   map[string][]CoreKey
}

// NewGauges returns an empty gauge set with the GPU at 0.
func NewGauges() *Gauges {
	return &Gauges{
		cores:  make(map[CoreKey]float64),
		byName: make(map[string][]CoreKey),
	}
}

// Update applies both the CPU and GPU parts of snap.
func (g *Gauges) Update(snap *snapshot.Snapshot) {
	g.UpdateCPU(snap)
	g.UpdateGPU(snap)
}

// UpdateCPU sets every core present in snap to 1 - idle_ratio. Cores absent
// from snap are left untouched. A core without an idle ratio keeps its
// previous value, or starts at 0 if it is new.
func (g *Gauges) UpdateCPU(snap *snapshot.Snapshot) {
	for _, cluster := range snap.Clusters() {
		for _, cpu := range cluster.CPUs {
			key := CoreKey{Cluster: cluster.Name, CPU: cpu.ID}
			g.ensure(key)
			if idle, ok := cpu.Idle(); ok && finite(idle) {
				g.cores[key] = utilization(idle)
			}
		}
	}
}

// UpdateGPU sets the GPU gauge to 1 - idle_ratio. A snapshot without a GPU
// section, or with a non-finite ratio, reads as fully idle.
func (g *Gauges) UpdateGPU(snap *snapshot.Snapshot) {
	idle := snap.GPUIdleRatio()
	if !finite(idle) {
		idle = 1
	}
	g.gpu = utilization(idle)
}

func (g *Gauges) ensure(key CoreKey) {
	if _, ok := g.cores[key]; ok {
		return
	}
	g.cores[key] = 0
	g.order = append(g.order, key)
	if _, ok := g.byName[key.Cluster]; !ok {
		g.clusters = append(g.clusters, key.Cluster)
	}
	g.byName[key.Cluster] = append(g.byName[key.Cluster], key)
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// utilization inverts an idle ratio and clamps the result to [0,1].
func utilization(idle float64) float64 {
	u := 1 - idle
	switch {
	case u < 0:
		return 0
	case u > 1:
		return 1
	default:
		return u
	}
}

// GPU returns the GPU gauge value.
func (g *Gauges) GPU() float64 { return g.gpu }

// Core returns the gauge for key and whether it exists.
func (g *Gauges) Core(key CoreKey) (float64, bool) {
	v, ok := g.cores[key]
	return v, ok
}

// Cores returns a copy of the core gauge map.
func (g *Gauges) Cores() map[CoreKey]float64 {
	out := make(map[CoreKey]float64, len(g.cores))
	for k, v := range g.cores {
		out[k] = v
	}
	return out
}

// Keys returns core keys in first-seen order.
func (g *Gauges) Keys() []CoreKey {
	return append([]CoreKey(nil), g.order...)
}

// Clusters groups core keys by cluster, both in first-seen order.
func (g *Gauges) Clusters() []ClusterGauges {
	out := make([]ClusterGauges, 0, len(g.clusters))
	for _, name := range g.clusters {
		out = append(out, ClusterGauges{
			Name:  name,
			Cores: append([]CoreKey(nil), g.byName[name]...),
		})
	}
	return out
}

// Average returns the mean core utilization, or 0 with no cores.
func (g *Gauges) Average() float64 {
	if len(g.cores) == 0 {
		return 0
	}
	var sum float64
	for _, v := range g.cores {
		sum += v
	}
	return sum / float64(len(g.cores))
}
