// internal/transport/rtu/client.go
package rtu

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/goburrow/modbus"
)

// Client implements the frame transport through a serial register gateway
// that exposes the touch packet as a window of input registers.
// This adapter is geometry-only: it maps the frame onto register reads and
// performs best-effort sanity checks on the payload size.
type Client struct {
	handler *modbus.RTUClientHandler
	client  modbus.Client
	start   uint16
}

// Config is minimal transport config.
type Config struct {
	Device   string
	UnitID   uint8
	Register uint16
	BaudRate int
	Timeout  time.Duration
}

// New opens the serial line and binds the gateway unit.
func New(cfg Config) (*Client, error) {
	if cfg.Device == "" {
		return nil, errors.New("rtu: device required")
	}

	handler := modbus.NewRTUClientHandler(cfg.Device)
	handler.SlaveId = cfg.UnitID
	if cfg.BaudRate > 0 {
		handler.BaudRate = cfg.BaudRate
	}
	if cfg.Timeout > 0 {
		handler.Timeout = cfg.Timeout
	}

	if err := handler.Connect(); err != nil {
		return nil, err
	}

	return &Client{
		handler: handler,
		client:  modbus.NewClient(handler),
		start:   cfg.Register,
	}, nil
}

// Read fills buf from the register window. Registers carry the frame as
// big-endian byte pairs; an odd-sized frame reads one spare trailing byte.
func (c *Client) Read(ctx context.Context, buf []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	qty := uint16((len(buf) + 1) / 2)
	raw, err := c.client.ReadInputRegisters(c.start, qty)
	if err != nil {
		return err
	}
	if len(raw) < len(buf) {
		return fmt.Errorf("rtu: short frame: got=%d want=%d", len(raw), len(buf))
	}

	copy(buf, raw[:len(buf)])
	return nil
}

// Close closes the serial line.
func (c *Client) Close() error {
	return c.handler.Close()
}
