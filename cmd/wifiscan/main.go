// Command wifiscan runs one Wi-Fi scan and prints the locked and unlocked
// networks, strongest first.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"runtime"
	"text/tabwriter"
	"time"

	"wifi-ar/internal/signal"
)

func main() {
	platform := flag.String("platform", runtime.GOOS, "Scan platform: linux, darwin or windows")
	timeout := flag.Duration("timeout", 10*time.Second, "Scan command timeout")
	input := flag.String("f", "", "Parse saved scan output from this file instead of scanning")
	flag.Parse()

	var snap signal.Snapshot
	if *input != "" {
		p, err := signal.ParsePlatform(*platform)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Platform %q: %v\n", *platform, err)
			os.Exit(1)
		}
		data, err := os.ReadFile(*input)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to read %s: %v\n", *input, err)
			os.Exit(1)
		}
		snap = signal.Parse(p, string(data))
	} else {
		scanner, err := signal.NewScanner(*platform, *timeout)
		if err != nil {
			fmt.Fprintf(os.Stderr, "%v\n", err)
			os.Exit(1)
		}
		snap, err = scanner.Scan(context.Background())
		if err != nil {
			fmt.Fprintf(os.Stderr, "Scan failed: %v\n", err)
			os.Exit(1)
		}
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	for _, locked := range []bool{true, false} {
		header := "UNLOCKED"
		if locked {
			header = "LOCKED"
		}
		fmt.Fprintf(w, "%s\tdBm\n", header)
		for _, n := range snap.Sorted(locked) {
			fmt.Fprintf(w, "  %s\t%.0f\n", n.SSID, n.Strength)
		}
	}
	w.Flush()
	fmt.Printf("\n%d networks\n", snap.Len())
}
