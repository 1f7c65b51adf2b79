// internal/poller/scheduler.go
package poller

import (
	"context"
	"errors"
	"time"

	"github.com/benbjohnson/clock"
	"go.uber.org/zap"

	"github.com/tamzrod/ili2117d/internal/packet"
	"github.com/tamzrod/ili2117d/internal/report"
	"github.com/tamzrod/ili2117d/internal/transport"
)

// DefaultPeriod is the delay between cycles while a burst is live.
const DefaultPeriod = 20 * time.Millisecond

// Config is the minimal runtime config the scheduler needs.
type Config struct {
	DeviceID string
	Period   time.Duration

	// Observe, if set, receives each cycle's transport outcome
	// (nil on success). Report failures are logged, not observed:
	// health tracks the bus, not the sink.
	Observe func(err error)
}

// Scheduler owns the deferred context that performs the blocking transport
// read and all decode/report work. The interrupt context's only entry point
// is Kick, which never blocks.
//
// Two states: idle (waiting on the mailbox) and scheduled (waiting on the
// period timer or the mailbox). After a cycle the chip's continuation flag
// decides which state comes next; a transport failure always lands in idle.
type Scheduler struct {
	cfg   Config
	tr    transport.Transport
	rep   *report.Reporter
	clock clock.Clock
	log   *zap.SugaredLogger

	// kick is a one-slot mailbox. A full mailbox already encodes "run as
	// soon as possible", so concurrent requests coalesce into at most one
	// pending cycle and a pending delayed cycle gets pulled forward.
	kick chan struct{}

	cancel  context.CancelFunc
	done    chan struct{}
	started bool
}

// New creates a stopped scheduler with immutable config.
func New(cfg Config, tr transport.Transport, rep *report.Reporter, clk clock.Clock, log *zap.SugaredLogger) (*Scheduler, error) {
	if cfg.DeviceID == "" {
		return nil, errors.New("poller: device id required")
	}
	if tr == nil {
		return nil, errors.New("poller: transport required")
	}
	if rep == nil {
		return nil, errors.New("poller: reporter required")
	}
	if clk == nil {
		clk = clock.New()
	}
	if cfg.Period <= 0 {
		cfg.Period = DefaultPeriod
	}

	return &Scheduler{
		cfg:   cfg,
		tr:    tr,
		rep:   rep,
		clock: clk,
		log:   log,
		kick:  make(chan struct{}, 1),
	}, nil
}

// Start launches the deferred work loop.
func (s *Scheduler) Start() {
	if s.started {
		return
	}
	s.started = true

	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	s.done = make(chan struct{})
	go s.run(ctx)
}

// Kick requests a cycle as soon as possible. Safe to call from the interrupt
// monitor: it never blocks and never performs bus work. Kicks arriving while
// a cycle is pending or in flight coalesce into one.
func (s *Scheduler) Kick() {
	select {
	case s.kick <- struct{}{}:
	default:
	}
}

// Close cancels a not-yet-started cycle and blocks until an in-flight cycle
// has completed or aborted. After Close no further cycle runs.
func (s *Scheduler) Close(ctx context.Context) error {
	if !s.started {
		return nil
	}
	s.cancel()
	select {
	case <-s.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *Scheduler) run(ctx context.Context) {
	defer close(s.done)

	for {
		// Idle: only an interrupt wakes us.
		select {
		case <-ctx.Done():
			return
		case <-s.kick:
		}

		// Burst: keep cycling until the chip stops signaling continuation.
		for {
			if !s.cycle(ctx) {
				break
			}

			t := s.clock.Timer(s.cfg.Period)
			select {
			case <-ctx.Done():
				t.Stop()
				return
			case <-s.kick:
				// Most recent request wins: pull the delayed cycle forward.
				t.Stop()
			case <-t.C:
			}
		}
	}
}

// cycle performs one read+decode+report pass and reports whether the chip
// asked to keep polling. A read failure aborts the cycle without a report;
// the interrupt line is then the only way activity resumes.
func (s *Scheduler) cycle(ctx context.Context) bool {
	var raw [packet.PacketSize]byte

	err := s.tr.Read(ctx, raw[:])
	if err != nil && ctx.Err() != nil {
		// Shutdown cancelled the read. Not a bus fault; health stays as is.
		return false
	}
	if s.cfg.Observe != nil {
		s.cfg.Observe(err)
	}
	if err != nil {
		s.log.Warnw("touch frame read failed", "device", s.cfg.DeviceID, "error", err)
		return false
	}

	frame := packet.Decode(&raw)

	if err := s.rep.Report(frame); err != nil {
		s.log.Warnw("touch report failed", "device", s.cfg.DeviceID, "error", err)
	}

	return frame.ContinuePolling
}
