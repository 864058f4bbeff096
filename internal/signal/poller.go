package signal

import (
	"context"
	"io"
	"log"
	"sync"
	"time"
)

// Source yields the snapshot to render for the current frame.
type Source interface {
	Snapshot(ctx context.Context) Snapshot
}

// Scan is the scanning half of a Scanner, for substitution in tests.
type Scan interface {
	Scan(ctx context.Context) (Snapshot, error)
}

// Direct scans synchronously on every call, keeping the last good snapshot
// when a scan fails.
type Direct struct {
	Scanner Scan
	Logger  *log.Logger

	last Snapshot
}

// Snapshot implements Source.
func (d *Direct) Snapshot(ctx context.Context) Snapshot {
	snap, err := d.Scanner.Scan(ctx)
	if err != nil {
		if d.Logger != nil {
			d.Logger.Printf("[WARN] wifi scan: %v", err)
		}
		if d.last.Locked == nil {
			d.last = NewSnapshot()
		}
		return d.last
	}
	d.last = snap
	return snap
}

// Poller rescans in a background goroutine at a fixed interval so slow scan
// commands do not stall the frame loop. Snapshot returns the latest result.
type Poller struct {
	scanner  Scan
	interval time.Duration
	log      *log.Logger

	mu      sync.RWMutex
	latest  Snapshot
	updated time.Time

	stopCh chan struct{}
	done   chan struct{}
	onScan func(Snapshot) // called after every successful scan
}

// NewPoller creates a poller. Call Start to begin scanning.
func NewPoller(scanner Scan, interval time.Duration, logger *log.Logger) *Poller {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Poller{
		scanner:  scanner,
		interval: interval,
		log:      logger,
		latest:   NewSnapshot(),
	}
}

// OnScan sets a callback invoked from the polling goroutine after each
// successful scan.
func (p *Poller) OnScan(callback func(Snapshot)) {
	p.onScan = callback
}

// Start performs one scan immediately, then keeps scanning every interval
// until Stop is called or ctx is done.
func (p *Poller) Start(ctx context.Context) {
	p.stopCh = make(chan struct{})
	p.done = make(chan struct{})
	p.scanOnce(ctx)
	go p.pollLoop(ctx)
}

// Stop stops the polling goroutine and waits for it to exit.
func (p *Poller) Stop() {
	if p.stopCh == nil {
		return
	}
	close(p.stopCh)
	<-p.done
	p.stopCh = nil
}

// Snapshot implements Source.
func (p *Poller) Snapshot(context.Context) Snapshot {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.latest
}

// Updated returns when the latest snapshot was taken.
func (p *Poller) Updated() time.Time {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.updated
}

func (p *Poller) pollLoop(ctx context.Context) {
	defer close(p.done)
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-p.stopCh:
			return
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.scanOnce(ctx)
		}
	}
}

func (p *Poller) scanOnce(ctx context.Context) {
	snap, err := p.scanner.Scan(ctx)
	if err != nil {
		p.log.Printf("[WARN] wifi scan: %v", err)
		return
	}

	p.mu.Lock()
	p.latest = snap
	p.updated = time.Now()
	p.mu.Unlock()

	if p.onScan != nil {
		p.onScan(snap)
	}
}
