// internal/device/device.go
package device

import (
	"context"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/pkg/errors"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/tamzrod/ili2117d/internal/health"
	"github.com/tamzrod/ili2117d/internal/irq"
	"github.com/tamzrod/ili2117d/internal/packet"
	"github.com/tamzrod/ili2117d/internal/poller"
	"github.com/tamzrod/ili2117d/internal/report"
	"github.com/tamzrod/ili2117d/internal/sink"
	"github.com/tamzrod/ili2117d/internal/transport"
)

// AxisMax is the declared maximum for both coordinate axes. Decoded values
// above it pass through uninterpreted.
const AxisMax = 2047

// unwindTimeout bounds scheduler shutdown during a failed attach.
const unwindTimeout = 5 * time.Second

// Options carries per-device attach parameters.
type Options struct {
	ID     string
	Name   string
	Period time.Duration
	Clock  clock.Clock
	Logger *zap.SugaredLogger

	// WakeCapable marks the interrupt line as a usable wake source.
	// Without it Suspend and Resume are no-ops.
	WakeCapable bool
}

// Device owns one poll session: transport, sink, interrupt line and
// scheduler. The scheduler and reporter borrow these for the duration of a
// cycle and never store them beyond it, so Detach is the single place
// resources are released.
type Device struct {
	id    string
	tr    transport.Transport
	snk   sink.Sink
	line  irq.Line
	sched *poller.Scheduler
	track *health.Tracker
	log   *zap.SugaredLogger

	wakeCapable bool
}

// Attach registers capability descriptors with the sink, starts the
// scheduler and binds the interrupt line, in that order. On failure
// everything Attach itself acquired is released in reverse order and a
// single aggregated error is returned; no partially attached device is
// observable. The transport and line stay the caller's to release on
// failure; the sink is closed here because registration is what Attach
// acquired from it.
func Attach(opts Options, tr transport.Transport, snk sink.Sink, line irq.Line) (*Device, error) {
	if opts.ID == "" {
		return nil, errors.New("device: id required")
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop().Sugar()
	}

	err := snk.Register(sink.Capabilities{
		Name:      opts.Name,
		SlotCount: packet.MaxSlots,
		XMax:      AxisMax,
		YMax:      AxisMax,
	})
	if err != nil {
		return nil, errors.Wrapf(err, "device %s: sink registration", opts.ID)
	}

	track := health.NewTracker(opts.ID, opts.Logger)

	sched, err := poller.New(poller.Config{
		DeviceID: opts.ID,
		Period:   opts.Period,
		Observe:  track.Observe,
	}, tr, report.New(snk), opts.Clock, opts.Logger)
	if err != nil {
		return nil, multierr.Combine(
			errors.Wrapf(err, "device %s: scheduler", opts.ID),
			snk.Close(),
		)
	}
	sched.Start()

	if err := line.Bind(sched.Kick); err != nil {
		ctx, cancel := context.WithTimeout(context.Background(), unwindTimeout)
		defer cancel()
		return nil, multierr.Combine(
			errors.Wrapf(err, "device %s: interrupt bind", opts.ID),
			sched.Close(ctx),
			snk.Close(),
		)
	}

	opts.Logger.Infow("device attached", "device", opts.ID, "sink", opts.Name)

	return &Device{
		id:          opts.ID,
		tr:          tr,
		snk:         snk,
		line:        line,
		sched:       sched,
		track:       track,
		log:         opts.Logger,
		wakeCapable: opts.WakeCapable,
	}, nil
}

// ID returns the configured device id.
func (d *Device) ID() string { return d.id }

// Health returns the current health snapshot.
func (d *Device) Health() health.Snapshot { return d.track.Snapshot() }

// HealthTick advances the seconds-in-error counter; call at 1 Hz.
func (d *Device) HealthTick() { d.track.Tick() }

// Detach tears the session down. The interrupt line is unbound first so no
// new cycle can be requested, then the scheduler is drained: Detach does
// not proceed past it until an in-flight cycle has completed or safely
// aborted. Only then are the sink and transport released.
func (d *Device) Detach(ctx context.Context) error {
	var errs error

	errs = multierr.Append(errs, d.line.Unbind())
	errs = multierr.Append(errs, d.sched.Close(ctx))
	errs = multierr.Append(errs, d.line.Close())
	errs = multierr.Append(errs, d.snk.Close())
	errs = multierr.Append(errs, d.tr.Close())

	d.log.Infow("device detached", "device", d.id)
	return errs
}

// Suspend permits the interrupt line to wake the host. Polling itself is
// not touched: an idle scheduler stays idle, a live burst drains on its
// own.
func (d *Device) Suspend() error {
	if !d.wakeCapable {
		return nil
	}
	return d.line.SetWake(true)
}

// Resume revokes the wake permission granted by Suspend.
func (d *Device) Resume() error {
	if !d.wakeCapable {
		return nil
	}
	return d.line.SetWake(false)
}
