package model

import "time"

// CPUCore is one logical core, in the order the OS enumerates them.
type CPUCore struct {
	Brand     string  `json:"brand"`
	Name      string  `json:"name"`
	Frequency uint64  `json:"frequency_mhz"`
	Usage     float64 `json:"usage"` // percent 0-100
}

// CPU aggregates core topology and usage.
type CPU struct {
	PhysicalCores int       `json:"physical_cores"` // 0 when the platform cannot tell
	LogicalCores  int       `json:"logical_cores"`
	Usage         float64   `json:"usage"` // global percent 0-100
	Cores         []CPUCore `json:"cores"`
}

// Memory captures RAM and swap in bytes, as the OS reports them.
type Memory struct {
	Total     uint64 `json:"total"`
	Free      uint64 `json:"free"`
	Used      uint64 `json:"used"`
	SwapTotal uint64 `json:"swap_total"`
	SwapFree  uint64 `json:"swap_free"`
	SwapUsed  uint64 `json:"swap_used"`
}

// Processes is the process census.
type Processes struct {
	Count int `json:"count"`
	Roots int `json:"roots"` // parent unreported or PID 0
}

// Battery sums energy across every battery on the host, in watt-hours.
type Battery struct {
	Energy     float64 `json:"energy_wh"`
	EnergyFull float64 `json:"energy_full_wh"`
}

// Host is the informational header printed above the resource sections.
type Host struct {
	Hostname      string    `json:"hostname,omitempty"`
	OS            string    `json:"os,omitempty"`
	Platform      string    `json:"platform,omitempty"`
	KernelVersion string    `json:"kernel_version,omitempty"`
	BootTime      time.Time `json:"boot_time"`
	UptimeSeconds uint64    `json:"uptime_seconds"`
	Load1         float64   `json:"load1"`
	Load5         float64   `json:"load5"`
	Load15        float64   `json:"load15"`
}

// Selection names the resources a run reports.
type Selection struct {
	Battery   bool `json:"battery"`
	CPU       bool `json:"cpu"`
	Memory    bool `json:"memory"`
	Processes bool `json:"processes"`
}

// All selects every resource.
func All() Selection {
	return Selection{Battery: true, CPU: true, Memory: true, Processes: true}
}

// Empty reports whether nothing is selected.
func (s Selection) Empty() bool {
	return !s.Battery && !s.CPU && !s.Memory && !s.Processes
}

// OrAll returns s, or every resource when s is empty.
func (s Selection) OrAll() Selection {
	if s.Empty() {
		return All()
	}
	return s
}

// Report is one snapshot-and-report cycle. Sections that were not selected are
// nil; Battery is also nil when selected but unavailable.
type Report struct {
	Timestamp time.Time  `json:"timestamp"`
	Selected  Selection  `json:"selected"`
	Host      Host       `json:"host"`
	CPU       *CPU       `json:"cpu,omitempty"`
	Memory    *Memory    `json:"memory,omitempty"`
	Processes *Processes `json:"processes,omitempty"`
	Battery   *Battery   `json:"battery,omitempty"`
}
