package engine

import "context"

// updateBuffer is how many snapshots may queue up before the scan goroutine
// waits for the consumer.
const updateBuffer = 8

// Handle is a scan running on its own goroutine. Snapshots arrive on
// Updates in order; the channel is closed after the final snapshot.
type Handle struct {
	stop    *Signal
	updates chan Snapshot
	done    chan struct{}
	outcome Outcome
}

// Start launches a scan on a new goroutine. Cancelling ctx has the same
// effect as calling Stop. The consumer must keep reading Updates (or call
// Wait) or the scan will block.
func (e *Engine) Start(ctx context.Context, cfg Config) *Handle {
	h := &Handle{
		stop:    NewSignal(),
		updates: make(chan Snapshot, updateBuffer),
		done:    make(chan struct{}),
	}

	go func() {
		defer close(h.done)
		e.Run(cfg, h.stop,
			func(s Snapshot) { h.updates <- s },
			func(o Outcome) {
				h.outcome = o
				close(h.updates)
			},
		)
	}()

	go func() {
		select {
		case <-ctx.Done():
			h.stop.Raise()
		case <-h.done:
		}
	}()

	return h
}

// Start launches a scan with a default Engine.
func Start(ctx context.Context, cfg Config) *Handle {
	return New().Start(ctx, cfg)
}

// Updates returns the snapshot stream.
func (h *Handle) Updates() <-chan Snapshot {
	return h.updates
}

// Stop asks the scan to end. It returns immediately.
func (h *Handle) Stop() {
	h.stop.Raise()
}

// Done is closed once the scan goroutine has returned.
func (h *Handle) Done() <-chan struct{} {
	return h.done
}

// Wait discards any snapshots not yet read, blocks until the scan has
// ended and returns its outcome.
func (h *Handle) Wait() Outcome {
	for range h.updates {
	}
	<-h.done
	return h.outcome
}
