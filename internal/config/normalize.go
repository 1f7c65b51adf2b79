// internal/config/normalize.go
package config

// Defaults applied by Normalize.
const (
	// DefaultPollIntervalMs matches the chip's continuation cadence.
	DefaultPollIntervalMs = 20

	// DefaultI2CAddress is the chip's 7-bit bus address.
	DefaultI2CAddress = 0x26

	// DefaultRTUTimeoutMs bounds one register-window read.
	DefaultRTUTimeoutMs = 1000

	// DefaultSinkName is the input device name registered with the host.
	DefaultSinkName = "ILI2117 Touchscreen"
)

// Normalize applies post-validation normalization.
// It is allowed to mutate configuration.
// It MUST be called only after Validate().
func Normalize(cfg *Config) {
	if cfg == nil {
		return
	}

	for di := range cfg.Bridge.Devices {
		d := &cfg.Bridge.Devices[di]

		if d.Poll.IntervalMs == 0 {
			d.Poll.IntervalMs = DefaultPollIntervalMs
		}
		if d.Sink.Name == "" {
			d.Sink.Name = DefaultSinkName
		}

		switch d.Transport.Kind {
		case "i2c":
			if d.Transport.I2C.Address == 0 {
				d.Transport.I2C.Address = DefaultI2CAddress
			}
		case "rtu":
			if d.Transport.RTU.TimeoutMs == 0 {
				d.Transport.RTU.TimeoutMs = DefaultRTUTimeoutMs
			}
		}
	}
}
