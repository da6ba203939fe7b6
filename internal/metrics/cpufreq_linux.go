//go:build linux

package metrics

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

const defaultCPUFreqRoot = "/sys/devices/system/cpu"

// currentFrequency averages scaling_cur_freq (kHz) over all CPUs and
// returns GHz. cpu.Info only reports the nominal speed on Linux.
func currentFrequency(root string) (float64, bool) {
	paths, err := filepath.Glob(filepath.Join(root, "cpu[0-9]*", "cpufreq", "scaling_cur_freq"))
	if err != nil || len(paths) == 0 {
		return 0, false
	}
	var sum float64
	n := 0
	for _, p := range paths {
		data, err := os.ReadFile(p)
		if err != nil {
			continue
		}
		khz, err := strconv.ParseFloat(strings.TrimSpace(string(data)), 64)
		if err != nil || khz <= 0 {
			continue
		}
		sum += khz
		n++
	}
	if n == 0 {
		return 0, false
	}
	return sum / float64(n) / 1e6, true
}
