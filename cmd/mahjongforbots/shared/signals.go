package shared

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/log"
)

// ShutdownContext returns a context cancelled by the first SIGINT or
// SIGTERM. A second signal skips graceful shutdown and exits the process
// immediately.
func ShutdownContext(logger *log.Logger) context.Context {
	ctx, cancel := context.WithCancel(context.Background())

	sigs := make(chan os.Signal, 2)
	signal.Notify(sigs, os.Interrupt, syscall.SIGTERM)

	go func() {
		sig := <-sigs
		logger.Info("Shutting down", "signal", sig.String())
		cancel()

		sig = <-sigs
		logger.Error("Forced exit before shutdown finished", "signal", sig.String())
		os.Exit(1)
	}()

	return ctx
}
