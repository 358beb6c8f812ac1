// Package sysinfo reads static host facts and memory usage for the dashboard
// header. powermetrics reports neither the chip name nor memory, so these
// come from gopsutil.
package sysinfo

import (
	"fmt"
	"os"
	"runtime"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/shirou/gopsutil/v4/cpu"
	"github.com/shirou/gopsutil/v4/host"
	"github.com/shirou/gopsutil/v4/mem"
)

// Info describes the machine. Fields that could not be read are left empty.
type Info struct {
	Hostname string
	Platform string // e.g. "darwin 14.4.1"
	Chip     string // e.g. "Apple M2 Pro"
	Cores    int
	MemTotal uint64
}

// Memory is a point-in-time memory reading.
type Memory struct {
	Used        uint64
	Total       uint64
	UsedPercent float64
}

// Collect gathers Info. It never fails; missing facts stay zero.
func Collect() Info {
	var info Info

	if h, err := host.Info(); err == nil {
		info.Hostname = h.Hostname
		if h.Platform != "" {
			info.Platform = strings.TrimSpace(h.Platform + " " + h.PlatformVersion)
		}
	}
	if info.Hostname == "" {
		info.Hostname, _ = os.Hostname()
	}
	if info.Platform == "" {
		info.Platform = runtime.GOOS
	}

	if cpus, err := cpu.Info(); err == nil && len(cpus) > 0 {
		info.Chip = strings.TrimSpace(cpus[0].ModelName)
	}
	if n, err := cpu.Counts(true); err == nil {
		info.Cores = n
	}

	if vm, err := mem.VirtualMemory(); err == nil {
		info.MemTotal = vm.Total
	}

	return info
}

// ReadMemory returns current memory usage.
func ReadMemory() (Memory, error) {
	vm, err := mem.VirtualMemory()
	if err != nil {
		return Memory{}, fmt.Errorf("reading memory: %w", err)
	}
	return Memory{Used: vm.Used, Total: vm.Total, UsedPercent: vm.UsedPercent}, nil
}

// Summary renders the facts that are known, e.g.
// "Apple M2 Pro · 12 cores · 32 GB".
func (i Info) Summary() string {
	var parts []string
	if i.Chip != "" {
		parts = append(parts, i.Chip)
	}
	if i.Cores > 0 {
		parts = append(parts, fmt.Sprintf("%d cores", i.Cores))
	}
	if i.MemTotal > 0 {
		parts = append(parts, humanize.IBytes(i.MemTotal))
	}
	return strings.Join(parts, " · ")
}

// String renders used/total, e.g. "12 GiB / 32 GiB".
func (m Memory) String() string {
	if m.Total == 0 {
		return "n/a"
	}
	return humanize.IBytes(m.Used) + " / " + humanize.IBytes(m.Total)
}
