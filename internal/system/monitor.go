package system

import (
	"time"

	"github.com/shirou/gopsutil/v3/cpu"
)

// RecommendedWorkerCount sizes the compositor's per-frame worker pool off
// gopsutil's logical core count, the way the teacher's VideoProject.Run
// sized its render pool off runtime.NumCPU. The count is the host's logical
// cores; CPU affinity and cgroup limits are not taken into account.
func RecommendedWorkerCount() (int, error) {
	n, err := cpu.Counts(true)
	if err != nil {
		return 0, err
	}
	if n < 1 {
		n = 1
	}
	return n, nil
}

// CurrentLoadPercent samples CPU utilization over a short window, averaged
// across logical cores. Nothing else in this module calls it.
func CurrentLoadPercent() (float64, error) {
	percents, err := cpu.Percent(200*time.Millisecond, false)
	if err != nil {
		return 0, err
	}
	if len(percents) == 0 {
		return 0, nil
	}
	return percents[0], nil
}
