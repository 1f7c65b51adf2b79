// internal/transport/transport.go
package transport

import "context"

// Transport moves one fixed-size frame from the chip into buf.
// The device address is bound at construction. Reads are synchronous
// and a device carries at most one in-flight request.
type Transport interface {
	Read(ctx context.Context, buf []byte) error
	Close() error
}
