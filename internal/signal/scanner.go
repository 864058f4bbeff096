package signal

import (
	"context"
	"fmt"
	"os/exec"
	"time"
)

// Runner executes a command and returns its standard output.
type Runner func(ctx context.Context, name string, args ...string) ([]byte, error)

// ExecRunner runs the command with os/exec.
func ExecRunner(ctx context.Context, name string, args ...string) ([]byte, error) {
	return exec.CommandContext(ctx, name, args...).Output()
}

// Scanner runs the platform's scan command and parses its output.
type Scanner struct {
	Platform Platform
	Timeout  time.Duration // 0 means no timeout beyond ctx
	Run      Runner        // nil means ExecRunner
}

// NewScanner creates a Scanner for the named OS.
func NewScanner(osName string, timeout time.Duration) (*Scanner, error) {
	p, err := ParsePlatform(osName)
	if err != nil {
		return nil, fmt.Errorf("signal scanner for %q: %w", osName, err)
	}
	return &Scanner{Platform: p, Timeout: timeout}, nil
}

// Scan runs one scan.
func (s *Scanner) Scan(ctx context.Context) (Snapshot, error) {
	name, args, parse, err := s.command()
	if err != nil {
		return Snapshot{}, err
	}

	if s.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.Timeout)
		defer cancel()
	}

	run := s.Run
	if run == nil {
		run = ExecRunner
	}
	out, err := run(ctx, name, args...)
	if err != nil {
		return Snapshot{}, fmt.Errorf("failed to run %s: %w", name, err)
	}
	return parse(string(out)), nil
}

// Parse parses saved scan command output for platform p. Unknown platforms
// yield an empty snapshot.
func Parse(p Platform, output string) Snapshot {
	_, _, parse, err := commandFor(p)
	if err != nil {
		return NewSnapshot()
	}
	return parse(output)
}

func (s *Scanner) command() (string, []string, func(string) Snapshot, error) {
	return commandFor(s.Platform)
}

func commandFor(p Platform) (string, []string, func(string) Snapshot, error) {
	switch p {
	case PlatformLinux:
		return "nmcli", nmcliArgs, ParseNmcli, nil
	case PlatformWindows:
		return "netsh", netshArgs, ParseNetsh, nil
	case PlatformDarwin:
		return airportPath, airportArgs, ParseAirport, nil
	default:
		return "", nil, nil, fmt.Errorf("platform %q: %w", p, ErrUnsupportedPlatform)
	}
}
