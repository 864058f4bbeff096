package signal

import (
	"bufio"
	"regexp"
	"strconv"
	"strings"
)

const airportPath = "/System/Library/PrivateFrameworks/Apple80211.framework/Versions/Current/Resources/airport"

var airportArgs = []string{"-s"}

var bssidPattern = regexp.MustCompile(`(?i)\b(?:[0-9a-f]{1,2}:){5}[0-9a-f]{1,2}\b`)

// ParseAirport parses `airport -s`. The SSID column is right-aligned and may
// contain spaces, so each row is anchored on its BSSID: the SSID is everything
// before it, followed by RSSI, CHANNEL, HT, CC and the SECURITY description.
// RSSI is already in dBm. A SECURITY of NONE means the network is open.
func ParseAirport(output string) Snapshot {
	snap := NewSnapshot()
	sc := bufio.NewScanner(strings.NewReader(output))
	first := true
	for sc.Scan() {
		line := sc.Text()
		if first {
			// Header row.
			first = false
			continue
		}
		loc := bssidPattern.FindStringIndex(line)
		if loc == nil {
			continue
		}
		ssid := strings.TrimSpace(line[:loc[0]])
		rest := strings.Fields(line[loc[1]:])
		if len(rest) < 1 {
			continue
		}
		rssi, err := strconv.Atoi(rest[0])
		if err != nil {
			continue
		}
		security := ""
		if len(rest) > 4 {
			security = strings.Join(rest[4:], " ")
		}
		snap.Add(Network{
			SSID:     ssid,
			Strength: float64(rssi),
			Locked:   security != "" && !strings.EqualFold(security, "NONE"),
		})
	}
	return snap
}
