package internal

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/gdbrns/go-whatsapp-mcp-gateway/internal/config"
	"github.com/gdbrns/go-whatsapp-mcp-gateway/internal/operations"
	"github.com/gdbrns/go-whatsapp-mcp-gateway/pkg/log"
)

const healthCheckTimeout = 30 * time.Second

// Routines schedules the periodic instance health check and starts cron.
func Routines(c *cron.Cron, svc *operations.Service, hc config.HealthCheck) error {
	log.Print(nil).Info("Running Routine Tasks")

	if !hc.Enabled {
		log.Print(nil).Info("Health check cron disabled")
		c.Start()
		return nil
	}

	if _, err := c.AddFunc(hc.Spec, func() { CheckInstance(svc) }); err != nil {
		log.Print(nil).WithField("spec", hc.Spec).WithError(err).Error("Failed to add health check cron job")
		return err
	}
	log.Print(nil).WithField("spec", hc.Spec).Info("Health check cron enabled")

	c.Start()
	return nil
}

// CheckInstance logs the connection state of the instance.
func CheckInstance(svc *operations.Service) {
	ctx, cancel := context.WithTimeout(context.Background(), healthCheckTimeout)
	defer cancel()

	status, err := svc.ConnectionStatus(ctx)
	if err != nil {
		log.Print(nil).WithError(err).Warn("Instance health check failed")
		return
	}

	entry := log.Print(nil).
		WithField("instance", status.Instance).
		WithField("state", status.State)
	if !status.Connected {
		entry.Warn("Instance unhealthy")
		return
	}
	entry.Info("Instance healthy")
}
