// internal/report/reporter.go
package report

import (
	"go.uber.org/multierr"

	"github.com/tamzrod/ili2117d/internal/packet"
	"github.com/tamzrod/ili2117d/internal/sink"
)

// Reporter maps decoded frames onto the sink's slot protocol. It is the
// only place observable events are emitted.
type Reporter struct {
	sink sink.Sink
}

// New creates a reporter bound to one sink.
func New(s sink.Sink) *Reporter {
	return &Reporter{sink: s}
}

// Report pushes every slot in ascending index order, then flushes the batch
// as one event group. The sink derives its emulated primary pointer from the
// lowest active slot, so the order is load-bearing.
//
// Push failures are collected, not short-circuited across slots: the batch
// must stay index-complete even when a single slot push fails.
func (r *Reporter) Report(frame packet.Frame) error {
	var errs error

	for i := range frame.Slots {
		s := frame.Slots[i]

		if err := r.sink.SelectSlot(i); err != nil {
			errs = multierr.Append(errs, err)
			continue
		}
		if err := r.sink.SetActive(s.Active); err != nil {
			errs = multierr.Append(errs, err)
			continue
		}
		if !s.Active {
			continue
		}
		if err := r.sink.SetPosition(s.X, s.Y); err != nil {
			errs = multierr.Append(errs, err)
		}
	}

	return multierr.Append(errs, r.sink.Sync())
}
