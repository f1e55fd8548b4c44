package main

// @title Go WhatsApp Pairing Bot
// @version 1.0.0
// @description WhatsApp bot linked through a phone pairing code, answering a fixed set of chat commands

// @contact.name gdbrns
// @contact.url https://github.com/gdbrns/go-whatsapp-pairing-bot

// @license.name MIT
// @license.url https://github.com/gdbrns/go-whatsapp-pairing-bot/blob/main/LICENSE

// @host localhost:3000
// @BasePath /

// @securityDefinitions.apikey AdminAuth
// @in header
// @name X-Admin-Secret
// @description Admin secret key for session management

import (
	"context"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	cron "github.com/robfig/cron/v3"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"

	"github.com/gdbrns/go-whatsapp-pairing-bot/pkg/env"
	"github.com/gdbrns/go-whatsapp-pairing-bot/pkg/log"
	"github.com/gdbrns/go-whatsapp-pairing-bot/pkg/router"
	pkgWhatsApp "github.com/gdbrns/go-whatsapp-pairing-bot/pkg/whatsapp"

	"github.com/gdbrns/go-whatsapp-pairing-bot/internal"
	"github.com/gdbrns/go-whatsapp-pairing-bot/internal/command"
	"github.com/gdbrns/go-whatsapp-pairing-bot/internal/session"
)

type Server struct {
	Address string
	Port    string
}

func main() {
	var err error

	// Initialize Credential Store
	authStore, err := pkgWhatsApp.OpenAuthStore(context.Background(), pkgWhatsApp.DatastoreConfigFromEnv())
	if err != nil {
		log.Print(nil).WithError(err).Fatal("Failed to initialize WhatsApp client datastore")
	}
	defer authStore.Close()

	// Initialize Session Manager and Command Dispatcher
	dispatcher := command.NewDispatcher(command.ConfigFromEnv(), nil)
	sessions := session.NewManager(
		&pkgWhatsApp.Engine{ProxyURL: env.GetEnvStringOrDefault("WHATSAPP_CLIENT_PROXY_URL", "")},
		authStore,
		session.WithMessageHandler(dispatcher.HandleEvent),
		session.WithReconnectDelay(env.GetEnvDurationOrDefault("WHATSAPP_RECONNECT_DELAY", session.DefaultReconnectDelay)),
		session.WithReadiness(
			env.GetEnvIntOrDefault("WHATSAPP_READY_ATTEMPTS", session.DefaultReadyAttempts),
			env.GetEnvDurationOrDefault("WHATSAPP_READY_INTERVAL", session.DefaultReadyInterval),
		),
	)

	// Intialize Cron
	c := cron.New(cron.WithChain(
		cron.Recover(cron.DiscardLogger),
	), cron.WithSeconds())

	// Initialize Fiber, honoring forwarded headers only from HTTP_TRUSTED_PROXIES
	app := fiber.New(router.WithTrustedProxies(fiber.Config{
		ErrorHandler:          router.HttpErrorHandler,
		BodyLimit:             router.BodyLimitBytes(),
		DisableStartupMessage: true,
	}))

	// Request ID + panic recovery (structured JSON)
	app.Use(router.HttpRequestID())
	app.Use(router.RecoveryMiddleware())

	// Router Compression
	app.Use(compress.New(compress.Config{
		Level: compress.Level(router.GZipLevel),
		Next: func(c *fiber.Ctx) bool {
			return strings.Contains(c.Path(), "docs")
		},
	}))

	// Router CORS
	app.Use(cors.New(cors.Config{
		AllowOrigins: router.CORSOrigin,
		AllowHeaders: "Origin, Content-Type, Accept, X-Admin-Secret, X-Request-ID",
		AllowMethods: "GET,POST,DELETE",
	}))

	// Router Security
	app.Use(helmet.New(helmet.Config{
		XSSProtection:      "1; mode=block",
		ContentTypeNosniff: "nosniff",
		XFrameOptions:      "SAMEORIGIN",
	}))

	// Router RealIP for request logs
	app.Use(router.HttpRealIP())

	// Router Cache
	app.Use(router.HttpCacheInMemory(router.CacheTTLSeconds, internal.LivePaths...))

	// Router Default Handler
	app.Get("/favicon.ico", router.ResponseNoContent)

	// Load Internal Routes
	internal.Routes(app, sessions)

	// Get Server Configuration with defaults
	var serverConfig Server

	// SERVER_ADDRESS: default "0.0.0.0" (all interfaces)
	serverConfig.Address = env.GetEnvStringOrDefault("SERVER_ADDRESS", "0.0.0.0")

	// PORT (set by hosting platforms) or SERVER_PORT: default "3000"
	serverConfig.Port = env.GetEnvFirstOrDefault("3000", "PORT", "SERVER_PORT")

	// Start Server
	go func() {
		if err := app.Listen(serverConfig.Address + ":" + serverConfig.Port); err != nil {
			log.Print(nil).Fatal(err.Error())
		}
	}()
	log.Print(nil).Info("🌐 Serveur démarré sur le port " + serverConfig.Port)

	// Running Startup Tasks
	internal.Startup(sessions)

	// Running Routines Tasks
	internal.Routines(c, sessions)

	// Watch for Shutdown Signal
	sigShutdown := make(chan os.Signal, 1)
	signal.Notify(sigShutdown, os.Interrupt, syscall.SIGTERM)
	sig := <-sigShutdown
	log.Print(nil).Info("🛑 Arrêt du serveur (" + sig.String() + ")...")

	// Wait 5 Seconds Before Graceful Shutdown
	ctxShutdown, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()

	// Interrupt from the operator unlinks the bot; a platform stop keeps
	// the credentials for the next start.
	if sig == os.Interrupt {
		if err := sessions.Logout(ctxShutdown); err != nil {
			log.Print(nil).WithError(err).Error("Logout on shutdown failed")
		}
	}
	sessions.Shutdown()

	// Try To Shutdown Server
	err = app.ShutdownWithContext(ctxShutdown)
	if err != nil {
		log.Print(nil).Error(err.Error())
	}

	// Try To Shutdown Cron
	<-c.Stop().Done()
}
