// Package signal acquires nearby Wi-Fi signal strengths and classifies each
// network as locked (encrypted) or unlocked.
package signal

import (
	"errors"
	"sort"
	"strings"
)

// ErrUnsupportedPlatform is returned when no scan command is known for the platform.
var ErrUnsupportedPlatform = errors.New("unsupported platform")

// Platform selects the scan command and output format.
type Platform string

const (
	PlatformLinux   Platform = "linux"
	PlatformDarwin  Platform = "darwin"
	PlatformWindows Platform = "windows"
)

// ParsePlatform maps an OS name (as reported by runtime.GOOS or typed by a
// user) to a Platform.
func ParsePlatform(name string) (Platform, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "linux":
		return PlatformLinux, nil
	case "darwin", "mac", "macos":
		return PlatformDarwin, nil
	case "windows":
		return PlatformWindows, nil
	default:
		return "", ErrUnsupportedPlatform
	}
}

// Network is one scanned network.
type Network struct {
	SSID     string
	Strength float64 // dBm, conventionally -100..-50
	Locked   bool
}

// Snapshot is the result of one scan, partitioned by encryption.
type Snapshot struct {
	Locked   map[string]float64
	Unlocked map[string]float64
}

// NewSnapshot returns an empty snapshot.
func NewSnapshot() Snapshot {
	return Snapshot{
		Locked:   make(map[string]float64),
		Unlocked: make(map[string]float64),
	}
}

// Add records n, keeping the strongest reading when an SSID repeats (several
// access points often share one SSID). Empty SSIDs are ignored.
func (s Snapshot) Add(n Network) {
	if n.SSID == "" {
		return
	}
	part := s.Unlocked
	if n.Locked {
		part = s.Locked
	}
	if old, ok := part[n.SSID]; ok && old >= n.Strength {
		return
	}
	part[n.SSID] = n.Strength
}

// Len returns the number of networks in both partitions.
func (s Snapshot) Len() int {
	return len(s.Locked) + len(s.Unlocked)
}

// Sorted returns one partition ordered strongest first, ties broken by SSID.
func (s Snapshot) Sorted(locked bool) []Network {
	part := s.Unlocked
	if locked {
		part = s.Locked
	}
	out := make([]Network, 0, len(part))
	for ssid, dbm := range part {
		out = append(out, Network{SSID: ssid, Strength: dbm, Locked: locked})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Strength != out[j].Strength {
			return out[i].Strength > out[j].Strength
		}
		return out[i].SSID < out[j].SSID
	})
	return out
}

// PercentToDBm converts a 0..100 signal quality into the -100..-50 dBm range.
func PercentToDBm(pct float64) float64 {
	return pct/2 - 100
}
