package signal

import (
	"bufio"
	"strconv"
	"strings"
)

// nmcliArgs asks NetworkManager for terse, colon-separated records with a fixed
// field order so each line carries SSID, quality and security together.
var nmcliArgs = []string{"-t", "-f", "SSID,SIGNAL,SECURITY", "device", "wifi", "list"}

// ParseNmcli parses `nmcli -t -f SSID,SIGNAL,SECURITY device wifi list`.
// Colons inside fields are escaped as `\:`. SIGNAL is a 0..100 quality and is
// converted to dBm. An empty or `--` SECURITY means the network is open.
func ParseNmcli(output string) Snapshot {
	snap := NewSnapshot()
	sc := bufio.NewScanner(strings.NewReader(output))
	for sc.Scan() {
		fields := splitTerse(sc.Text())
		if len(fields) < 3 {
			continue
		}
		ssid := fields[0]
		pct, err := strconv.Atoi(strings.TrimSpace(fields[1]))
		if err != nil {
			continue
		}
		security := strings.TrimSpace(fields[2])
		snap.Add(Network{
			SSID:     ssid,
			Strength: PercentToDBm(float64(pct)),
			Locked:   security != "" && security != "--",
		})
	}
	return snap
}

// splitTerse splits an nmcli terse line on unescaped colons.
func splitTerse(line string) []string {
	var fields []string
	var cur strings.Builder
	for i := 0; i < len(line); i++ {
		switch c := line[i]; {
		case c == '\\' && i+1 < len(line):
			i++
			cur.WriteByte(line[i])
		case c == ':':
			fields = append(fields, cur.String())
			cur.Reset()
		default:
			cur.WriteByte(c)
		}
	}
	return append(fields, cur.String())
}
