// internal/device/builder.go
package device

import (
	"time"

	"github.com/pkg/errors"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/tamzrod/ili2117d/internal/config"
	"github.com/tamzrod/ili2117d/internal/irq"
	"github.com/tamzrod/ili2117d/internal/sink/uinput"
	"github.com/tamzrod/ili2117d/internal/transport"
	"github.com/tamzrod/ili2117d/internal/transport/i2cdev"
	"github.com/tamzrod/ili2117d/internal/transport/rtu"
)

// Build constructs the transport, sink and interrupt line for one
// configured device and attaches them. On failure everything built so far
// is released in reverse order and one aggregated error is returned.
func Build(dc config.DeviceConfig, log *zap.SugaredLogger) (*Device, error) {
	tr, err := buildTransport(dc.Transport)
	if err != nil {
		return nil, errors.Wrapf(err, "device %s: transport", dc.ID)
	}

	line, err := irq.OpenGPIO(irq.GPIOConfig{
		Pin:        dc.Interrupt.Pin,
		WakeupPath: dc.Interrupt.WakeupPath,
	})
	if err != nil {
		return nil, multierr.Combine(
			errors.Wrapf(err, "device %s: interrupt", dc.ID),
			tr.Close(),
		)
	}

	d, err := Attach(Options{
		ID:     dc.ID,
		Name:   dc.Sink.Name,
		Period: time.Duration(dc.Poll.IntervalMs) * time.Millisecond,
		Logger: log,
		// Only a line with a wakeup attribute can actually wake the host.
		WakeCapable: dc.Interrupt.WakeupPath != "",
	}, tr, uinput.New(), line)
	if err != nil {
		return nil, multierr.Combine(err, line.Close(), tr.Close())
	}

	return d, nil
}

func buildTransport(tc config.TransportConfig) (transport.Transport, error) {
	switch tc.Kind {
	case "i2c":
		return i2cdev.New(i2cdev.Config{
			Bus:     tc.I2C.Bus,
			Address: tc.I2C.Address,
		})
	case "rtu":
		return rtu.New(rtu.Config{
			Device:   tc.RTU.Device,
			UnitID:   tc.RTU.UnitID,
			Register: tc.RTU.Register,
			BaudRate: tc.RTU.BaudRate,
			Timeout:  time.Duration(tc.RTU.TimeoutMs) * time.Millisecond,
		})
	default:
		return nil, errors.Errorf("unknown transport kind %q", tc.Kind)
	}
}
