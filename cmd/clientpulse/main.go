// @title			ClientPulse API
// @version		1.0
// @description	Event-driven automation engine for freelancer CRM data.
// @BasePath		/api/v1

package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/urfave/cli/v2"

	"github.com/clientpulse/clientpulse/internal/config"
	"github.com/clientpulse/clientpulse/internal/database"
	"github.com/clientpulse/clientpulse/internal/delivery"
	"github.com/clientpulse/clientpulse/internal/domain"
	"github.com/clientpulse/clientpulse/internal/handler"
	"github.com/clientpulse/clientpulse/internal/logger"
	"github.com/clientpulse/clientpulse/internal/repository"
	"github.com/clientpulse/clientpulse/internal/service"
)

func main() {
	deliveryFlags := []cli.Flag{
		&cli.StringFlag{
			Name:    "resend-api-key",
			Usage:   "Resend API key",
			EnvVars: []string{"RESEND_API_KEY"},
		},
		&cli.StringFlag{
			Name:    "sendgrid-api-key",
			Usage:   "SendGrid API key",
			EnvVars: []string{"SENDGRID_API_KEY"},
		},
		&cli.StringFlag{
			Name:    "mailgun-api-key",
			Usage:   "Mailgun API key",
			EnvVars: []string{"MAILGUN_API_KEY"},
		},
		&cli.StringFlag{
			Name:    "mailgun-domain",
			Usage:   "Mailgun sending domain",
			EnvVars: []string{"MAILGUN_DOMAIN"},
		},
		&cli.StringFlag{
			Name:    "mail-from",
			Value:   "ClientPulse <notifications@clientpulse.dev>",
			Usage:   "From address for outgoing mail",
			EnvVars: []string{"MAIL_FROM"},
		},
		&cli.StringFlag{
			Name:    "nats-url",
			Usage:   "NATS server URL for the relay delivery channel",
			EnvVars: []string{"NATS_URL"},
		},
		&cli.StringFlag{
			Name:    "relay-subject",
			Value:   config.DefaultRelaySubject,
			Usage:   "NATS subject the relay channel publishes to",
			EnvVars: []string{"RELAY_SUBJECT"},
		},
	}

	app := &cli.App{
		Name:  "clientpulse",
		Usage: "Event-driven automation engine for freelancer CRM data",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Value:   "info",
				Usage:   "Log level (debug, info, warn, error)",
				EnvVars: []string{"LOG_LEVEL"},
			},
			&cli.StringFlag{
				Name:     "database-url",
				Aliases:  []string{"d"},
				Value:    config.DefaultDatabaseURL,
				Usage:    "PostgreSQL database URL",
				EnvVars:  []string{"DATABASE_URL"},
				Required: true,
			},
		},
		Before: func(c *cli.Context) error {
			logger.Setup(logger.ParseLevel(c.String("log-level")))
			return nil
		},
		Commands: []*cli.Command{
			{
				Name:  "serve",
				Usage: "Start the web server",
				Flags: append([]cli.Flag{
					&cli.StringFlag{
						Name:    "port",
						Aliases: []string{"p"},
						Value:   config.DefaultPort,
						Usage:   "HTTP server port",
						EnvVars: []string{"PORT"},
					},
					&cli.StringFlag{
						Name:    "api-token",
						Usage:   "Bearer token for the trigger API (empty disables auth)",
						EnvVars: []string{"API_TOKEN"},
					},
					&cli.StringFlag{
						Name:    "automations-file",
						Usage:   "YAML or JSON file with automation definitions to sync on startup",
						EnvVars: []string{"AUTOMATIONS_FILE"},
					},
					&cli.StringFlag{
						Name:    "automations-user",
						Usage:   "User ID the automations file is synced into",
						EnvVars: []string{"AUTOMATIONS_USER"},
					},
				}, deliveryFlags...),
				Action: runServe,
			},
			{
				Name:  "run",
				Usage: "Run one detection and dispatch batch, then exit",
				Flags: append([]cli.Flag{
					&cli.StringFlag{
						Name:    "user-id",
						Usage:   "User ID to run the batch for",
						EnvVars: []string{"USER_ID"},
					},
					&cli.StringFlag{
						Name:    "user-email",
						Usage:   "User email to run the batch for (alternative to user-id)",
						EnvVars: []string{"USER_EMAIL"},
					},
					&cli.IntFlag{
						Name:  "lookback-hours",
						Value: config.DefaultLookbackHours,
						Usage: "Detection window in hours",
					},
					&cli.BoolFlag{
						Name:  "send",
						Usage: "Send notifications instead of only recording runs",
					},
				}, deliveryFlags...),
				Action: runBatch,
			},
			{
				Name:   "seed",
				Usage:  "Insert demo CRM data for local development",
				Action: runSeed,
			},
		},
		Action: runServe,
	}

	if err := app.Run(os.Args); err != nil {
		slog.Error("application error", "error", err)
		os.Exit(1)
	}
}

func runServe(c *cli.Context) error {
	ctx := c.Context

	port := c.String("port")
	if port == "" {
		port = config.DefaultPort
	}
	databaseURL := c.String("database-url")

	db, err := database.New(ctx, databaseURL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	if err := database.RunMigrations(ctx, db.Pool()); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	chain, closeChain, err := buildChain(c)
	if err != nil {
		return err
	}
	defer closeChain()

	if file := c.String("automations-file"); file != "" {
		if err := syncAutomationsFile(ctx, db, file, c.String("automations-user")); err != nil {
			return err
		}
	}

	apiToken := c.String("api-token")
	if apiToken == "" {
		slog.Warn("api-token is empty, trigger API authentication is disabled")
	}

	h, err := handler.New(db.Pool(), chain, apiToken)
	if err != nil {
		return fmt.Errorf("failed to create handler: %w", err)
	}

	mux := http.NewServeMux()
	h.RegisterRoutes(mux)

	server := &http.Server{
		Addr:              ":" + port,
		Handler:           mux,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
	}

	serverErr := make(chan error, 1)
	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)

	go func() {
		slog.Info("starting server", "server_addr", "http://localhost:"+port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErr <- err
		}
	}()

	select {
	case err := <-serverErr:
		return fmt.Errorf("server error: %w", err)
	case <-done:
		slog.Info("shutting down server")
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	slog.Info("server stopped")
	return nil
}

func runBatch(c *cli.Context) error {
	ctx := c.Context

	userID := c.String("user-id")
	userEmail := c.String("user-email")
	if userID == "" && userEmail == "" {
		return fmt.Errorf("user-id or user-email is required")
	}

	db, err := database.New(ctx, c.String("database-url"))
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	if err := database.RunMigrations(ctx, db.Pool()); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	chain, closeChain, err := buildChain(c)
	if err != nil {
		return err
	}
	defer closeChain()

	h, err := handler.New(db.Pool(), chain, "")
	if err != nil {
		return fmt.Errorf("failed to create handler: %w", err)
	}

	summary, err := h.Engine().Run(ctx, service.RunParams{
		UserID:        userID,
		UserEmail:     userEmail,
		LookbackHours: c.Int("lookback-hours"),
		SendMessages:  c.Bool("send"),
	})
	if err != nil {
		return fmt.Errorf("batch failed: %w", err)
	}

	slog.Info("batch finished",
		"user_id", summary.UserID,
		"detected", len(summary.Events),
		"processed", summary.ProcessedCount,
	)
	return nil
}

func runSeed(c *cli.Context) error {
	ctx := c.Context

	db, err := database.New(ctx, c.String("database-url"))
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	if err := database.RunMigrations(ctx, db.Pool()); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	pool := db.Pool()
	_, err = pool.Exec(ctx, `
		INSERT INTO users (id, email, name, company_name)
		VALUES ('00000000-0000-0000-0000-000000000001', 'demo@clientpulse.dev', 'Demo Freelancer', 'Demo Studio')
		ON CONFLICT (id) DO NOTHING
	`)
	if err != nil {
		return fmt.Errorf("seed users: %w", err)
	}

	_, err = pool.Exec(ctx, `
		INSERT INTO clients (id, user_id, name, email, company)
		VALUES ('00000000-0000-0000-0000-000000000011',
				'00000000-0000-0000-0000-000000000001',
				'Acme Corp', 'billing@acme.example', 'Acme')
		ON CONFLICT (id) DO NOTHING
	`)
	if err != nil {
		return fmt.Errorf("seed clients: %w", err)
	}

	_, err = pool.Exec(ctx, `
		INSERT INTO contracts (id, user_id, client_id, title, status, signed_at)
		VALUES ('00000000-0000-0000-0000-000000000021',
				'00000000-0000-0000-0000-000000000001',
				'00000000-0000-0000-0000-000000000011',
				'Website Redesign Retainer', 'signed', NOW() - INTERVAL '2 hours')
		ON CONFLICT (id) DO NOTHING
	`)
	if err != nil {
		return fmt.Errorf("seed contracts: %w", err)
	}

	_, err = pool.Exec(ctx, `
		INSERT INTO invoices (id, user_id, client_id, number, description, amount_cents, currency, status, paid_at)
		VALUES ('00000000-0000-0000-0000-000000000031',
				'00000000-0000-0000-0000-000000000001',
				'00000000-0000-0000-0000-000000000011',
				'INV-001', 'Discovery phase', 250000, 'USD', 'paid', NOW() - INTERVAL '1 hour')
		ON CONFLICT (id) DO NOTHING
	`)
	if err != nil {
		return fmt.Errorf("seed invoices: %w", err)
	}

	_, err = pool.Exec(ctx, `
		INSERT INTO meetings (id, user_id, client_id, title, scheduled_at)
		VALUES ('00000000-0000-0000-0000-000000000041',
				'00000000-0000-0000-0000-000000000001',
				'00000000-0000-0000-0000-000000000011',
				'Project Kickoff', NOW() + INTERVAL '6 hours')
		ON CONFLICT (id) DO NOTHING
	`)
	if err != nil {
		return fmt.Errorf("seed meetings: %w", err)
	}

	slog.Info("demo data seeded", "user_id", "00000000-0000-0000-0000-000000000001")
	return nil
}

// buildChain assembles the delivery chain in priority order. The log
// channel comes last so a deployment without any provider credentials
// still completes batches with simulated deliveries.
func buildChain(c *cli.Context) (*delivery.Chain, func(), error) {
	from := c.String("mail-from")

	var relayConn *nats.Conn
	if natsURL := c.String("nats-url"); natsURL != "" {
		conn, err := nats.Connect(natsURL, nats.Name("clientpulse"))
		if err != nil {
			return nil, nil, fmt.Errorf("failed to connect to NATS: %w", err)
		}
		relayConn = conn
	}

	chain := delivery.NewChain(
		delivery.NewResend(c.String("resend-api-key"), from),
		delivery.NewSendGrid(c.String("sendgrid-api-key"), from),
		delivery.NewMailgun(c.String("mailgun-api-key"), c.String("mailgun-domain"), from),
		delivery.NewRelay(relayConn, c.String("relay-subject")),
		delivery.NewLog(),
	)

	closeChain := func() {
		if relayConn != nil {
			relayConn.Close()
		}
	}
	return chain, closeChain, nil
}

// syncAutomationsFile loads automation definitions from a file and
// upserts them for the configured user.
func syncAutomationsFile(ctx context.Context, db *database.DB, file, userID string) error {
	if userID == "" {
		return fmt.Errorf("automations-user is required when automations-file is set")
	}

	automations, err := domain.LoadAutomationsFromFile(file)
	if err != nil {
		return fmt.Errorf("failed to load automations file: %w", err)
	}

	automationRepo := repository.NewAutomationRepository(db.Pool())
	if err := service.SyncAutomations(ctx, automationRepo, userID, automations); err != nil {
		return fmt.Errorf("failed to sync automations: %w", err)
	}

	return nil
}
