//go:build !linux

package metrics

const defaultCPUFreqRoot = ""

// currentFrequency has no portable source outside Linux; callers fall back
// to the nominal speed from cpu.Info.
func currentFrequency(string) (float64, bool) {
	return 0, false
}
