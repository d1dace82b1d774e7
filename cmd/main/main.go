package main

// @title WhatsApp MCP Gateway
// @version 1.0.0
// @description Tool-call gateway in front of the Evolution API: send messages, read chats with resolved contact names and manage the instance, over REST or MCP

// @contact.name gdbrns
// @contact.url https://github.com/gdbrns/go-whatsapp-mcp-gateway

// @license.name MIT
// @license.url https://github.com/gdbrns/go-whatsapp-mcp-gateway/blob/main/LICENSE

// @host localhost:3000
// @BasePath /

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description JWT Bearer token, required when HTTP_JWT_SECRET is set

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	cron "github.com/robfig/cron/v3"
	"github.com/spf13/cobra"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"

	"github.com/gdbrns/go-whatsapp-mcp-gateway/pkg/auth"
	"github.com/gdbrns/go-whatsapp-mcp-gateway/pkg/evolution"
	"github.com/gdbrns/go-whatsapp-mcp-gateway/pkg/log"
	"github.com/gdbrns/go-whatsapp-mcp-gateway/pkg/router"

	"github.com/gdbrns/go-whatsapp-mcp-gateway/internal"
	"github.com/gdbrns/go-whatsapp-mcp-gateway/internal/config"
	"github.com/gdbrns/go-whatsapp-mcp-gateway/internal/directory"
	"github.com/gdbrns/go-whatsapp-mcp-gateway/internal/operations"
	"github.com/gdbrns/go-whatsapp-mcp-gateway/internal/tools"
	"github.com/gdbrns/go-whatsapp-mcp-gateway/internal/webhook"
)

// Version is overridden at build time with -ldflags "-X main.Version=...".
var Version = "1.0.0"

func main() {
	if err := newRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "whatsapp-mcp-gateway",
		Short:         "Tool-call gateway in front of the Evolution API",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	httpCmd := &cobra.Command{
		Use:   "http",
		Short: "Serve the REST routes and MCP over streamable HTTP",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHTTP()
		},
	}

	stdioCmd := &cobra.Command{
		Use:   "stdio",
		Short: "Serve MCP over stdin/stdout",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStdio()
		},
	}

	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), Version)
		},
	}

	var tokenTTL time.Duration
	tokenCmd := &cobra.Command{
		Use:   "token <subject>",
		Short: "Issue a bearer token for the HTTP routes (needs HTTP_JWT_SECRET)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			token, err := auth.GenerateToken(args[0], tokenTTL)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}
	tokenCmd.Flags().DurationVar(&tokenTTL, "ttl", 30*24*time.Hour, "token lifetime, 0 for no expiry")

	root.AddCommand(httpCmd, stdioCmd, versionCmd, tokenCmd)
	return root
}

// setup loads the configuration and builds the operation service.
func setup() (config.Config, *operations.Service, error) {
	cfg, err := config.Load()
	if err != nil {
		log.Print(nil).Error(err.Error())
		return cfg, nil, err
	}
	log.Init(cfg.LogLevel, cfg.LogFormat)

	client, err := evolution.NewClient(cfg.Evolution)
	if err != nil {
		log.Print(nil).Error(err.Error())
		return cfg, nil, err
	}

	dir := directory.New(client, directory.WithChats(cfg.IncludeChats))
	return cfg, operations.New(client, dir), nil
}

func runStdio() error {
	_, svc, err := setup()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Print(nil).WithField("version", Version).Info("Serving MCP over stdio")
	server := tools.NewServer(svc, Version)
	if err := server.Run(ctx, &mcp.StdioTransport{}); err != nil && ctx.Err() == nil {
		log.Print(nil).Error(err.Error())
		return err
	}
	return nil
}

func runHTTP() error {
	cfg, svc, err := setup()
	if err != nil {
		return err
	}

	// Intialize Cron
	c := cron.New(cron.WithChain(
		cron.Recover(cron.DiscardLogger),
	), cron.WithSeconds())

	// Initialize Fiber
	app := fiber.New(fiber.Config{
		ErrorHandler:          router.HttpErrorHandler,
		BodyLimit:             router.BodyLimitBytes(),
		ReadBufferSize:        8192,
		DisableStartupMessage: true,
	})

	// Request ID + panic recovery (structured JSON)
	app.Use(router.HttpRequestID())
	app.Use(router.RecoveryMiddleware())

	// Router Compression
	app.Use(compress.New(compress.Config{
		Level: compress.Level(router.GZipLevel),
		Next: func(c *fiber.Ctx) bool {
			return strings.Contains(c.Path(), "docs") || strings.HasSuffix(c.Path(), "/mcp")
		},
	}))

	// Router CORS
	app.Use(cors.New(cors.Config{
		AllowOrigins:  router.CORSOrigin,
		AllowHeaders:  "Origin, Content-Type, Accept, Authorization, Mcp-Session-Id, Mcp-Protocol-Version",
		AllowMethods:  "GET,POST,DELETE",
		ExposeHeaders: "X-Request-ID, Mcp-Session-Id",
	}))

	// Router Security
	app.Use(helmet.New(helmet.Config{
		XSSProtection:      "1; mode=block",
		ContentTypeNosniff: "nosniff",
		XFrameOptions:      "SAMEORIGIN",
	}))

	// Router RealIP + request context enrichment
	app.Use(router.HttpRealIP())

	// Router Default Handler
	app.Get("/favicon.ico", router.ResponseNoContent)

	// Load Internal Routes
	internal.Routes(app, svc, tools.HTTPHandler(tools.NewServer(svc, Version)), webhook.NewReceiver(svc), Version)

	// Running Startup Tasks
	internal.Startup(context.Background(), svc)

	// Running Routines Tasks
	if err := internal.Routines(c, svc, cfg.HealthCheck); err != nil {
		return err
	}

	if !auth.Enabled() {
		log.Print(nil).Warn("HTTP_JWT_SECRET not set, routes are not authenticated")
	}

	// Start Server
	address := cfg.Server.Address + ":" + cfg.Server.Port
	go func() {
		log.Print(nil).WithField("address", address).Info("Serving HTTP")
		if err := app.Listen(address); err != nil {
			log.Print(nil).Fatal(err.Error())
		}
	}()

	// Watch for Shutdown Signal
	sigShutdown := make(chan os.Signal, 1)
	signal.Notify(sigShutdown, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)
	<-sigShutdown
	// Wait 5 Seconds Before Graceful Shutdown
	ctxShutdown, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()

	// Try To Shutdown Server
	if err := app.ShutdownWithContext(ctxShutdown); err != nil {
		log.Print(nil).Error(err.Error())
		return err
	}

	// Try To Shutdown Cron
	<-c.Stop().Done()
	return nil
}
