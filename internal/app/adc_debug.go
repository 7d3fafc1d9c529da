package app

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mazerunner-tech/maze_computer/internal/config"
	"github.com/mazerunner-tech/maze_computer/internal/walls"
)

// RunADCDebug dumps raw on/off samples, the log ratio and the resulting
// curve input for each sensor. Bring-up tool: useful for checking emitter
// wiring and for fitting new calibration constants.
func RunADCDebug() error {
	cfg := config.Get()

	acq, err := newAcquirer(cfg)
	if err != nil {
		return fmt.Errorf("sensor source: %w", err)
	}
	log.Printf("adc_debug: sensor source %q ready, sampling every 500ms", cfg.SensorSource)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	ticker := time.NewTicker(500 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Println("adc_debug: shutting down")
			return nil
		case <-ticker.C:
			for s := walls.SensorFrontLeft; s <= walls.SensorSideRight; s++ {
				on := acq.ValueOn(s)
				off := acq.ValueOff(s)
				fmt.Printf("%-12s on=%5d off=%5d diff=%6d ratio=%7.4f\n",
					s, on, off, int(on)-int(off), acq.RawLog(on, off))
			}
			fmt.Println()
		}
	}
}
