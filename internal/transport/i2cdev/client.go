// internal/transport/i2cdev/client.go
package i2cdev

import (
	"context"
	"errors"
	"fmt"

	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/host/v3"
)

// DefaultAddress is the chip's 7-bit bus address.
const DefaultAddress = 0x26

// Config is minimal bus binding config.
type Config struct {
	// Bus is a periph bus name or number ("1", "/dev/i2c-1", ...).
	Bus     string
	Address uint16
}

// Client reads the touch frame straight off the chip's native bus.
type Client struct {
	bus i2c.BusCloser
	dev i2c.Dev
}

// New opens the bus and binds the device address.
func New(cfg Config) (*Client, error) {
	if cfg.Bus == "" {
		return nil, errors.New("i2cdev: bus required")
	}
	if _, err := host.Init(); err != nil {
		return nil, err
	}

	bus, err := i2creg.Open(cfg.Bus)
	if err != nil {
		return nil, err
	}

	addr := cfg.Address
	if addr == 0 {
		addr = DefaultAddress
	}

	return &Client{
		bus: bus,
		dev: i2c.Dev{Bus: bus, Addr: addr},
	}, nil
}

// Read fills buf with one frame. The chip streams the full packet on a
// plain read transaction; no register pointer write is needed.
func (c *Client) Read(ctx context.Context, buf []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := c.dev.Tx(nil, buf); err != nil {
		return fmt.Errorf("i2cdev: frame read failed: %w", err)
	}
	return nil
}

// Close releases the bus.
func (c *Client) Close() error {
	return c.bus.Close()
}
