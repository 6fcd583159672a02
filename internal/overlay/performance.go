package overlay

import (
	"bufio"
	"os"
	"strconv"
	"strings"
	"time"
)

// frameHistorySize is the ring buffer length: ~2s at 60fps (§3).
const frameHistorySize = 120

// systemSampleInterval rate-limits the /proc reads (§3: "every 500 ms").
const systemSampleInterval = 500 * time.Millisecond

// PerformanceWindow is the ring buffer of recent frame durations plus the
// rate-limited CPU%/memory samples, grounded on performance.rs's
// PerformanceStats (with the `sysinfo` crate's cross-platform sampling
// replaced by direct /proc reads per SPEC_FULL.md §12, since no
// system-info library appears anywhere in the reference pack).
type PerformanceWindow struct {
	frameTimes     []time.Duration
	lastFrame      time.Time
	lastSystemPoll time.Time

	cpuUsagePercent float64
	memoryUsedMB    float64
	memoryTotalMB   float64

	prevCPUTotal uint64
	prevCPUIdle  uint64

	Visible bool
}

// NewPerformanceWindow returns an empty, ready-to-use window.
func NewPerformanceWindow() *PerformanceWindow {
	return &PerformanceWindow{lastFrame: time.Now()}
}

// RecordFrame appends the elapsed time since the previous call, evicting
// the oldest sample past frameHistorySize, and refreshes the system
// samples if systemSampleInterval has elapsed.
func (p *PerformanceWindow) RecordFrame(now time.Time) {
	frameTime := now.Sub(p.lastFrame)
	p.lastFrame = now

	p.frameTimes = append(p.frameTimes, frameTime)
	if len(p.frameTimes) > frameHistorySize {
		p.frameTimes = p.frameTimes[len(p.frameTimes)-frameHistorySize:]
	}

	if now.Sub(p.lastSystemPoll) >= systemSampleInterval {
		p.refreshSystemStats()
		p.lastSystemPoll = now
	}
}

// FPS returns frames-per-second derived from the average recorded frame
// time, or 0 if no frames have been recorded yet.
func (p *PerformanceWindow) FPS() float64 {
	avg := p.avgFrameTime()
	if avg <= 0 {
		return 0
	}
	return 1.0 / avg.Seconds()
}

// AvgFrameTimeMS returns the average frame time in milliseconds.
func (p *PerformanceWindow) AvgFrameTimeMS() float64 {
	return p.avgFrameTime().Seconds() * 1000
}

// MinFrameTimeMS returns the best (lowest) recorded frame time, or 0.
func (p *PerformanceWindow) MinFrameTimeMS() float64 {
	if len(p.frameTimes) == 0 {
		return 0
	}
	min := p.frameTimes[0]
	for _, d := range p.frameTimes[1:] {
		if d < min {
			min = d
		}
	}
	return min.Seconds() * 1000
}

// MaxFrameTimeMS returns the worst (highest) recorded frame time, or 0.
func (p *PerformanceWindow) MaxFrameTimeMS() float64 {
	if len(p.frameTimes) == 0 {
		return 0
	}
	max := p.frameTimes[0]
	for _, d := range p.frameTimes[1:] {
		if d > max {
			max = d
		}
	}
	return max.Seconds() * 1000
}

func (p *PerformanceWindow) avgFrameTime() time.Duration {
	if len(p.frameTimes) == 0 {
		return 0
	}
	var total time.Duration
	for _, d := range p.frameTimes {
		total += d
	}
	return total / time.Duration(len(p.frameTimes))
}

// CPUUsagePercent returns the last-sampled CPU usage percentage (0-100).
func (p *PerformanceWindow) CPUUsagePercent() float64 { return p.cpuUsagePercent }

// MemoryUsedMB returns the last-sampled system-wide used memory in MB
// (MemTotal minus MemAvailable from /proc/meminfo).
func (p *PerformanceWindow) MemoryUsedMB() float64 { return p.memoryUsedMB }

// MemoryTotalMB returns the last-sampled total system memory in MB.
func (p *PerformanceWindow) MemoryTotalMB() float64 { return p.memoryTotalMB }

// MemoryUsagePercent derives usage percentage from the used/total samples.
func (p *PerformanceWindow) MemoryUsagePercent() float64 {
	if p.memoryTotalMB <= 0 {
		return 0
	}
	return p.memoryUsedMB / p.memoryTotalMB * 100
}

func (p *PerformanceWindow) refreshSystemStats() {
	if total, idle, ok := readProcStat(); ok {
		deltaTotal := total - p.prevCPUTotal
		deltaIdle := idle - p.prevCPUIdle
		if p.prevCPUTotal != 0 && deltaTotal > 0 {
			p.cpuUsagePercent = (1 - float64(deltaIdle)/float64(deltaTotal)) * 100
		}
		p.prevCPUTotal, p.prevCPUIdle = total, idle
	}
	if used, totalMB, ok := readProcMeminfo(); ok {
		p.memoryUsedMB = used
		p.memoryTotalMB = totalMB
	}
}

// readProcStat parses the aggregate cpu line of /proc/stat, returning
// (total jiffies, idle jiffies).
func readProcStat() (total, idle uint64, ok bool) {
	f, err := os.Open("/proc/stat")
	if err != nil {
		return 0, 0, false
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	if !scanner.Scan() {
		return 0, 0, false
	}
	fields := strings.Fields(scanner.Text())
	if len(fields) < 5 || fields[0] != "cpu" {
		return 0, 0, false
	}
	var sum uint64
	for _, field := range fields[1:] {
		v, err := strconv.ParseUint(field, 10, 64)
		if err != nil {
			continue
		}
		sum += v
	}
	idleVal, _ := strconv.ParseUint(fields[4], 10, 64)
	return sum, idleVal, true
}

// readProcMeminfo parses MemTotal/MemAvailable from /proc/meminfo,
// returning (used MB, total MB).
func readProcMeminfo() (usedMB, totalMB float64, ok bool) {
	f, err := os.Open("/proc/meminfo")
	if err != nil {
		return 0, 0, false
	}
	defer f.Close()

	var totalKB, availKB uint64
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		if len(fields) < 2 {
			continue
		}
		v, err := strconv.ParseUint(fields[1], 10, 64)
		if err != nil {
			continue
		}
		switch strings.TrimSuffix(fields[0], ":") {
		case "MemTotal":
			totalKB = v
		case "MemAvailable":
			availKB = v
		}
	}
	if totalKB == 0 {
		return 0, 0, false
	}
	totalMB = float64(totalKB) / 1024
	usedMB = float64(totalKB-availKB) / 1024
	return usedMB, totalMB, true
}

// ToggleVisibility flips the HUD's visibility flag, matching
// toggle_visibility.
func (p *PerformanceWindow) ToggleVisibility() { p.Visible = !p.Visible }
