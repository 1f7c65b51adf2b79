// internal/config/validate.go
package config

import (
	"fmt"
)

// Validate checks configuration correctness.
// It performs declarative validation only.
// It MUST NOT mutate configuration.
func Validate(cfg *Config) error {
	if len(cfg.Bridge.Devices) == 0 {
		return fmt.Errorf("config: at least one device required")
	}

	seen := make(map[string]bool)

	for _, d := range cfg.Bridge.Devices {
		if d.ID == "" {
			return fmt.Errorf("config: device id required")
		}
		if seen[d.ID] {
			return fmt.Errorf("config: duplicate device id %q", d.ID)
		}
		seen[d.ID] = true

		// ------------------------------------------------------------
		// TRANSPORT
		// ------------------------------------------------------------

		switch d.Transport.Kind {
		case "i2c":
			if d.Transport.I2C.Bus == "" {
				return fmt.Errorf("device %q: i2c transport requires a bus", d.ID)
			}
			if d.Transport.I2C.Address > 0x7F {
				return fmt.Errorf(
					"device %q: i2c address %#x out of 7-bit range",
					d.ID, d.Transport.I2C.Address,
				)
			}
		case "rtu":
			if d.Transport.RTU.Device == "" {
				return fmt.Errorf("device %q: rtu transport requires a device path", d.ID)
			}
		default:
			return fmt.Errorf(
				"device %q: unknown transport kind %q (want i2c or rtu)",
				d.ID, d.Transport.Kind,
			)
		}

		// ------------------------------------------------------------
		// INTERRUPT
		// ------------------------------------------------------------

		// The interrupt line is the only thing that wakes an idle device;
		// without one the device would never poll.
		if d.Interrupt.Pin == "" {
			return fmt.Errorf("device %q: interrupt pin required", d.ID)
		}

		// ------------------------------------------------------------
		// POLL
		// ------------------------------------------------------------

		if d.Poll.IntervalMs < 0 {
			return fmt.Errorf("device %q: poll interval must be >= 0", d.ID)
		}
	}

	return nil
}
