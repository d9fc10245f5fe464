package sampler

import (
	"context"
	"time"

	"github.com/shirou/gopsutil/v3/host"
	"github.com/shirou/gopsutil/v3/load"

	"github.com/Dicklesworthstone/prochunter/internal/model"
)

// InfoSource supplies the report header.
type InfoSource interface {
	Info(ctx context.Context) (*host.InfoStat, error)
	Load(ctx context.Context) (*load.AvgStat, error)
}

// SystemInfo reads the live host through gopsutil.
type SystemInfo struct{}

var _ InfoSource = SystemInfo{}

func (SystemInfo) Info(ctx context.Context) (*host.InfoStat, error) {
	return host.InfoWithContext(ctx)
}

func (SystemInfo) Load(ctx context.Context) (*load.AvgStat, error) {
	return load.AvgWithContext(ctx)
}

// Host reads the header fields. It is best-effort: whatever fails stays zero.
func (s *Sampler) Host(ctx context.Context) model.Host {
	var out model.Host
	if info, err := s.info.Info(ctx); err == nil && info != nil {
		out.Hostname = info.Hostname
		out.OS = info.OS
		out.Platform = info.Platform
		if info.PlatformVersion != "" {
			out.Platform += " " + info.PlatformVersion
		}
		out.KernelVersion = info.KernelVersion
		out.UptimeSeconds = info.Uptime
		if info.BootTime > 0 {
			out.BootTime = time.Unix(int64(info.BootTime), 0)
		}
	}
	if avg, err := s.info.Load(ctx); err == nil && avg != nil {
		out.Load1, out.Load5, out.Load15 = avg.Load1, avg.Load5, avg.Load15
	}
	return out
}
