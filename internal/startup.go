package internal

import (
	"context"
	"time"

	"github.com/gdbrns/go-whatsapp-mcp-gateway/internal/operations"
	"github.com/gdbrns/go-whatsapp-mcp-gateway/pkg/log"
)

const startupTimeout = 30 * time.Second

// Startup checks the instance once and warms the contact directory. Neither
// failure is fatal: the gateway keeps serving and reports errors per call.
func Startup(ctx context.Context, svc *operations.Service) {
	log.Print(nil).Info("Running Startup Tasks")

	ctx, cancel := context.WithTimeout(ctx, startupTimeout)
	defer cancel()

	status, err := svc.ConnectionStatus(ctx)
	if err != nil {
		log.Print(nil).WithError(err).Warn("Evolution API not reachable at startup")
		return
	}
	log.Print(nil).
		WithField("instance", status.Instance).
		WithField("state", status.State).
		Info("Evolution API instance found")

	if err := svc.WarmContactCache(ctx); err != nil {
		log.Print(nil).WithError(err).Warn("Failed to warm contact cache")
		return
	}
	cache := svc.CacheStatus()
	log.Print(nil).WithField("entries", cache.Entries).Info("Contact cache warmed")
}
