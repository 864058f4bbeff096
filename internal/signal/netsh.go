package signal

import (
	"regexp"
	"strconv"
	"strings"
)

var netshArgs = []string{"wlan", "show", "networks", "mode=Bssid"}

var (
	netshSSID       = regexp.MustCompile(`(?m)^\s*SSID\s+\d+\s*:\s?(.*?)\s*$`)
	netshSignal     = regexp.MustCompile(`(?m)^\s*Signal\s*:\s*(\d+)%`)
	netshEncryption = regexp.MustCompile(`(?m)^\s*Encryption\s*:\s*(.+?)\s*$`)
)

// ParseNetsh parses `netsh wlan show networks mode=Bssid`. Networks are
// separated by blank lines; each block names its SSID, its encryption and one
// signal quality per BSSID, of which the strongest is kept.
func ParseNetsh(output string) Snapshot {
	snap := NewSnapshot()
	output = strings.ReplaceAll(output, "\r\n", "\n")
	for _, block := range strings.Split(output, "\n\n") {
		ssid := netshSSID.FindStringSubmatch(block)
		if ssid == nil {
			continue
		}
		best := -1
		for _, m := range netshSignal.FindAllStringSubmatch(block, -1) {
			if pct, err := strconv.Atoi(m[1]); err == nil && pct > best {
				best = pct
			}
		}
		if best < 0 {
			continue
		}

		locked := true
		if enc := netshEncryption.FindStringSubmatch(block); enc == nil || strings.Contains(enc[1], "None") {
			locked = false
		}
		snap.Add(Network{SSID: ssid[1], Strength: PercentToDBm(float64(best)), Locked: locked})
	}
	return snap
}
