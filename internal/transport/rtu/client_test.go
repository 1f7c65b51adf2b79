// internal/transport/rtu/client_test.go
package rtu

import (
	"context"
	"errors"
	"testing"

	"github.com/goburrow/modbus"
)

type fakeModbus struct {
	modbus.Client

	gotAddr uint16
	gotQty  uint16
	payload []byte
	err     error
}

func (f *fakeModbus) ReadInputRegisters(address, quantity uint16) ([]byte, error) {
	f.gotAddr = address
	f.gotQty = quantity
	return f.payload, f.err
}

func TestRead_RegisterGeometry(t *testing.T) {
	fake := &fakeModbus{payload: make([]byte, 44)}
	c := &Client{client: fake, start: 0x10}

	buf := make([]byte, 43)
	if err := c.Read(context.Background(), buf); err != nil {
		t.Fatalf("Read err=%v", err)
	}

	if fake.gotAddr != 0x10 {
		t.Fatalf("start address = %#x, want 0x10", fake.gotAddr)
	}
	// 43 bytes round up to 22 registers.
	if fake.gotQty != 22 {
		t.Fatalf("quantity = %d, want 22", fake.gotQty)
	}
}

func TestRead_ShortFrame(t *testing.T) {
	fake := &fakeModbus{payload: make([]byte, 10)}
	c := &Client{client: fake}

	if err := c.Read(context.Background(), make([]byte, 43)); err == nil {
		t.Fatalf("expected short-frame error, got nil")
	}
}

func TestRead_TransportError(t *testing.T) {
	fake := &fakeModbus{err: errors.New("serial timeout")}
	c := &Client{client: fake}

	if err := c.Read(context.Background(), make([]byte, 43)); err == nil {
		t.Fatalf("expected error, got nil")
	}
}

func TestRead_CancelledContext(t *testing.T) {
	fake := &fakeModbus{payload: make([]byte, 44)}
	c := &Client{client: fake}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := c.Read(ctx, make([]byte, 43)); err == nil {
		t.Fatalf("expected context error, got nil")
	}
	if fake.gotQty != 0 {
		t.Fatalf("read reached the bus after cancellation")
	}
}
