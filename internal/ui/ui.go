package ui

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/Dicklesworthstone/prochunter/internal/model"
)

// Styles
var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("45"))
	subtleStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("81")).Bold(true)
	gaugeFill   = "█"
	gaugeEmpty  = "░"
	cardStyle   = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("60")).
			Padding(0, 1).
			MarginRight(1)
)

const gaugeWidth = 28

// Render writes the report as bordered cards.
func Render(w io.Writer, r model.Report) error {
	_, err := fmt.Fprintln(w, View(r))
	return err
}

// RenderJSON writes the report as indented JSON.
func RenderJSON(w io.Writer, r model.Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(r)
}

// View lays out the selected sections of r.
func View(r model.Report) string {
	header := titleStyle.Render("prochunter") + "  " +
		subtleStyle.Render(r.Timestamp.Format("Mon Jan 2 15:04:05 MST 2006"))
	if line := hostLine(r.Host); line != "" {
		header += "\n" + subtleStyle.Render(line)
	}

	var cards []string
	if r.Selected.Battery {
		cards = append(cards, batteryCard(r.Battery))
	}
	if r.CPU != nil {
		cards = append(cards, cpuCard(*r.CPU))
	}
	if r.Memory != nil {
		cards = append(cards, memoryCard(*r.Memory))
	}
	if r.Processes != nil {
		cards = append(cards, processCard(*r.Processes))
	}

	return lipgloss.JoinVertical(lipgloss.Left, append([]string{header}, cards...)...)
}

func hostLine(h model.Host) string {
	var parts []string
	if h.Hostname != "" {
		parts = append(parts, h.Hostname)
	}
	if h.Platform != "" {
		parts = append(parts, h.Platform)
	} else if h.OS != "" {
		parts = append(parts, h.OS)
	}
	if h.KernelVersion != "" {
		parts = append(parts, "kernel "+h.KernelVersion)
	}
	if h.UptimeSeconds > 0 {
		parts = append(parts, "up "+formatUptime(time.Duration(h.UptimeSeconds)*time.Second))
	}
	if len(parts) == 0 {
		return ""
	}
	return strings.Join(parts, " | ") +
		fmt.Sprintf("  load %.2f %.2f %.2f", h.Load1, h.Load5, h.Load15)
}

func batteryCard(b *model.Battery) string {
	if b == nil {
		return card("Battery", subtleStyle.Render("not available"))
	}
	body := fmt.Sprintf("Energy: %.2f Wh / %.2f Wh full", b.Energy, b.EnergyFull)
	if p, ok := ratio(b.Energy, b.EnergyFull); ok {
		body = gaugeBar(p, gaugeWidth) + "\n" + body
	}
	return card("Battery", body)
}

func cpuCard(c model.CPU) string {
	physical := "unknown"
	if c.PhysicalCores > 0 {
		physical = fmt.Sprintf("%d", c.PhysicalCores)
	}
	lines := []string{
		gaugeBar(c.Usage, gaugeWidth),
		fmt.Sprintf("Cores: %s physical, %d logical", physical, c.LogicalCores),
	}
	for _, core := range c.Cores {
		lines = append(lines, fmt.Sprintf("%-6s %5.1f%% %5d MHz  %s",
			truncate(core.Name, 6), core.Usage, core.Frequency, truncate(core.Brand, 40)))
	}
	return card("CPU", strings.Join(lines, "\n"))
}

func memoryCard(m model.Memory) string {
	lines := []string{}
	if p, ok := pct(m.Used, m.Total); ok {
		lines = append(lines, gaugeBar(p, gaugeWidth))
	}
	lines = append(lines, fmt.Sprintf("Memory: %s used / %s free / %s total",
		humanize.IBytes(m.Used), humanize.IBytes(m.Free), humanize.IBytes(m.Total)))
	if p, ok := pct(m.SwapUsed, m.SwapTotal); ok {
		lines = append(lines, fmt.Sprintf("Swap:   %s used / %s free / %s total (%.1f%%)",
			humanize.IBytes(m.SwapUsed), humanize.IBytes(m.SwapFree), humanize.IBytes(m.SwapTotal), p))
	} else {
		lines = append(lines, "Swap:   "+subtleStyle.Render("none configured"))
	}
	return card("Memory", strings.Join(lines, "\n"))
}

func processCard(p model.Processes) string {
	return card("Processes", fmt.Sprintf("Total: %s   Root-level: %s",
		humanize.Comma(int64(p.Count)), humanize.Comma(int64(p.Roots))))
}

// Helpers
func gaugeBar(pct float64, width int) string {
	if pct < 0 {
		pct = 0
	}
	if pct > 100 {
		pct = 100
	}
	filled := int((pct / 100) * float64(width))
	if filled > width {
		filled = width
	}
	return fmt.Sprintf("[%s%s] %5.1f%%",
		strings.Repeat(gaugeFill, filled),
		strings.Repeat(gaugeEmpty, width-filled),
		pct)
}

func card(title, body string) string {
	titleStr := labelStyle.Render(title)
	content := titleStr + "\n" + body
	return cardStyle.Render(content)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}

// pct is used/total as a percentage; ok is false when total is 0.
func pct(used, total uint64) (float64, bool) {
	if total == 0 {
		return 0, false
	}
	return float64(used) * 100 / float64(total), true
}

func ratio(part, whole float64) (float64, bool) {
	if whole <= 0 {
		return 0, false
	}
	return part * 100 / whole, true
}

func formatUptime(d time.Duration) string {
	d = d.Round(time.Minute)
	days := d / (24 * time.Hour)
	d -= days * 24 * time.Hour
	hours := d / time.Hour
	d -= hours * time.Hour
	mins := d / time.Minute
	if days > 0 {
		return fmt.Sprintf("%dd %dh %dm", days, hours, mins)
	}
	return fmt.Sprintf("%dh %dm", hours, mins)
}
