// internal/config/config.go
package config

type Config struct {
	Bridge BridgeConfig `yaml:"bridge"`
}

type BridgeConfig struct {
	Devices []DeviceConfig `yaml:"devices"`
}

// ---- DEVICE ----

type DeviceConfig struct {
	ID        string          `yaml:"id"`
	Transport TransportConfig `yaml:"transport"`
	Interrupt InterruptConfig `yaml:"interrupt"`
	Poll      PollConfig      `yaml:"poll"`
	Sink      SinkConfig      `yaml:"sink"`
}

// ---- TRANSPORT ----

type TransportConfig struct {
	// Kind selects the bus binding: "i2c" (native) or "rtu" (serial
	// register gateway).
	Kind string    `yaml:"kind"`
	I2C  I2CConfig `yaml:"i2c"`
	RTU  RTUConfig `yaml:"rtu"`
}

type I2CConfig struct {
	Bus     string `yaml:"bus"`
	Address uint16 `yaml:"address"`
}

type RTUConfig struct {
	Device    string `yaml:"device"`
	UnitID    uint8  `yaml:"unit_id"`
	Register  uint16 `yaml:"register"`
	BaudRate  int    `yaml:"baud_rate"`
	TimeoutMs int    `yaml:"timeout_ms"`
}

// ---- INTERRUPT ----

type InterruptConfig struct {
	// Pin is the GPIO line the chip's attention signal is wired to.
	Pin string `yaml:"pin"`
	// WakeupPath is the sysfs power/wakeup attribute toggled on
	// suspend/resume; optional.
	WakeupPath string `yaml:"wakeup_path"`
}

// ---- POLL ----

type PollConfig struct {
	IntervalMs int `yaml:"interval_ms"`
}

// ---- SINK ----

type SinkConfig struct {
	Name string `yaml:"name"`
}
