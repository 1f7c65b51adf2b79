// internal/irq/gpio.go
package irq

import (
	"errors"
	"fmt"
	"os"
	"sync"
	"time"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/host/v3"
)

// edgePollTimeout bounds each edge wait so Unbind is honored on a quiet line.
const edgePollTimeout = 100 * time.Millisecond

// GPIOConfig binds a named GPIO line.
type GPIOConfig struct {
	// Pin is a periph pin name ("GPIO17", "17", ...).
	Pin string
	// WakeupPath is the sysfs power/wakeup attribute of the interrupt's
	// parent device; optional. Without it SetWake only records the state.
	WakeupPath string
}

type gpioLine struct {
	pin gpio.PinIn
	cfg GPIOConfig

	mu      sync.Mutex
	stop    chan struct{}
	stopped chan struct{}
	wake    bool
}

// OpenGPIO configures the pin for falling-edge interrupts. The chip pulls
// its attention line low when a frame is ready.
func OpenGPIO(cfg GPIOConfig) (Line, error) {
	if cfg.Pin == "" {
		return nil, errors.New("irq: pin required")
	}
	if _, err := host.Init(); err != nil {
		return nil, err
	}

	pin := gpioreg.ByName(cfg.Pin)
	if pin == nil {
		return nil, fmt.Errorf("irq: unknown pin %q", cfg.Pin)
	}
	if err := pin.In(gpio.PullUp, gpio.FallingEdge); err != nil {
		return nil, err
	}

	return &gpioLine{pin: pin, cfg: cfg}, nil
}

func (l *gpioLine) Bind(fn func()) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.stop != nil {
		return errors.New("irq: already bound")
	}

	stop := make(chan struct{})
	stopped := make(chan struct{})
	l.stop, l.stopped = stop, stopped

	go func() {
		defer close(stopped)
		for {
			select {
			case <-stop:
				return
			default:
			}
			if l.pin.WaitForEdge(edgePollTimeout) {
				fn()
			}
		}
	}()

	return nil
}

// Unbind stops the monitor goroutine and waits for it to exit, so no
// handler invocation can follow the return. Safe to call when not bound.
func (l *gpioLine) Unbind() error {
	l.mu.Lock()
	stop, stopped := l.stop, l.stopped
	l.stop, l.stopped = nil, nil
	l.mu.Unlock()

	if stop == nil {
		return nil
	}
	close(stop)
	<-stopped
	return nil
}

func (l *gpioLine) SetWake(enabled bool) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.wake = enabled
	if l.cfg.WakeupPath == "" {
		return nil
	}

	state := "disabled"
	if enabled {
		state = "enabled"
	}
	return os.WriteFile(l.cfg.WakeupPath, []byte(state), 0o644)
}

func (l *gpioLine) Close() error {
	if err := l.Unbind(); err != nil {
		return err
	}
	return l.pin.Halt()
}
