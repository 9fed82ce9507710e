// Package srv runs long-lived components with a shared start/shutdown lifecycle.
package srv

import (
	"context"
	"time"

	"github.com/sandevgo/aline/pkg/log"
)

// ShutdownTimeout bounds the time every service gets to stop.
const ShutdownTimeout = 10 * time.Second

type Service interface {
	// Start may block until ctx is cancelled.
	Start(ctx context.Context) error
	Shutdown(ctx context.Context) error
}

// StartServices launches every service in its own goroutine. A service that
// fails to start triggers stop so the process can shut down cleanly.
func StartServices(ctx context.Context, stop context.CancelFunc, services []Service) {
	logger := log.FromCtx(ctx)
	for _, service := range services {
		go func(service Service) {
			if err := service.Start(ctx); err != nil {
				logger.Error().Err(err).Msgf("%T failed to start", service)
				stop()
			}
		}(service)
	}
}

// ShutdownServices waits for ctx to be done and stops services in reverse
// registration order.
func ShutdownServices(ctx context.Context, services []Service) {
	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), ShutdownTimeout)
	defer cancel()

	for i := len(services) - 1; i >= 0; i-- {
		if err := services[i].Shutdown(shutdownCtx); err != nil {
			log.FromCtx(ctx).Error().Err(err).Msgf("%T failed to shutdown", services[i])
		}
	}
}
