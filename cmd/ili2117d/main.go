// cmd/ili2117d/main.go
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sys/unix"

	"github.com/tamzrod/ili2117d/internal/config"
	"github.com/tamzrod/ili2117d/internal/device"
)

func main() {
	if len(os.Args) < 2 {
		log.Fatal("usage: ili2117d <config.yaml>")
	}

	cfgPath := os.Args[1]

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("logger init failed: %v", err)
	}
	defer logger.Sync()
	slog := logger.Sugar()

	// --------------------
	// Load + validate config
	// --------------------

	cfg, err := config.Load(cfgPath)
	if err != nil {
		slog.Fatalw("config load failed", "err", err)
	}

	if err := config.Validate(cfg); err != nil {
		slog.Fatalw("config validation failed", "err", err)
	}

	config.Normalize(cfg)

	// --------------------
	// Attach configured devices
	// --------------------

	devices := make([]*device.Device, 0, len(cfg.Bridge.Devices))
	for _, dc := range cfg.Bridge.Devices {
		d, err := device.Build(dc, slog)
		if err != nil {
			detachAll(devices, slog)
			slog.Fatalw("device attach failed", "device", dc.ID, "err", err)
		}
		devices = append(devices, d)
	}

	slog.Infow("bridge running", "devices", len(devices))

	// --------------------
	// Signal loop
	// --------------------

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, unix.SIGINT, unix.SIGTERM, unix.SIGUSR1, unix.SIGUSR2)

	secTicker := time.NewTicker(time.Second)
	defer secTicker.Stop()

	for {
		select {
		case <-secTicker.C:
			for _, d := range devices {
				d.HealthTick()
			}

		case sig := <-sigs:
			switch sig {
			case unix.SIGUSR1:
				// Entering system suspend: arm the interrupt lines as
				// wake sources.
				for _, d := range devices {
					if err := d.Suspend(); err != nil {
						slog.Warnw("suspend failed", "device", d.ID(), "err", err)
					}
				}

			case unix.SIGUSR2:
				for _, d := range devices {
					if err := d.Resume(); err != nil {
						slog.Warnw("resume failed", "device", d.ID(), "err", err)
					}
				}

			default:
				slog.Infow("shutting down", "signal", sig.String())
				detachAll(devices, slog)
				return
			}
		}
	}
}

// detachAll releases devices in reverse attach order.
func detachAll(devices []*device.Device, slog *zap.SugaredLogger) {
	for i := len(devices) - 1; i >= 0; i-- {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := devices[i].Detach(ctx); err != nil {
			slog.Warnw("detach failed", "device", devices[i].ID(), "err", err)
		}
		cancel()
	}
}
