package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"

	"lendgate/internal/auth"
	"lendgate/internal/config"
	"lendgate/internal/db"
	"lendgate/internal/docs"
	"lendgate/internal/handlers"
	"lendgate/internal/otel"
	"lendgate/internal/sms"
	"lendgate/internal/store"
	"lendgate/internal/version"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	_ = godotenv.Load()

	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	if err := newRootCommand().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:           version.Name,
		Short:         "Loan and insurance origination backend",
		Version:       version.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.AddCommand(newServeCommand())
	cmd.AddCommand(newMigrateCommand())
	cmd.AddCommand(newSeedCommand())
	cmd.AddCommand(newPromoteCommand())
	return cmd
}

func newServeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return serve(cmd.Context())
		},
	}
}

func serve(ctx context.Context) error {
	cfg, err := config.Load(ctx)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	shutdownTrace, trace, err := otel.Init(ctx, version.Name, cfg.OTLPEndpoint)
	if err != nil {
		return fmt.Errorf("init tracing: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTrace(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("shutdown tracing")
		}
	}()

	database, err := db.Connect(ctx, cfg.DBDSN)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer func() {
		if err := db.Close(database); err != nil {
			log.Error().Err(err).Msg("close database")
		}
	}()

	if err := db.Migrate(ctx, database); err != nil {
		return fmt.Errorf("migrate database: %w", err)
	}
	if err := db.Seed(ctx, database); err != nil {
		return fmt.Errorf("seed database: %w", err)
	}

	st, err := store.New(database)
	if err != nil {
		return err
	}

	var sender sms.Sender
	if cfg.NATSURL != "" {
		busSender, err := sms.NewBusSender(cfg.NATSURL, cfg.SMSSubject)
		if err != nil {
			return fmt.Errorf("connect sms bus: %w", err)
		}
		defer busSender.Close()
		sender = busSender
	} else {
		log.Warn().Msg("NATS_URL not set; OTP codes are logged instead of dispatched")
		sender = sms.LogSender{Log: log.Logger}
	}

	svc, err := auth.NewService(auth.Config{
		SessionSecret: cfg.SessionSecret,
		AdminSecret:   cfg.AdminSessionSecret,
		SessionTTL:    cfg.SessionTTL,
		AdminTTL:      cfg.AdminSessionTTL,
	}, st, st, st, sender, log.Logger)
	if err != nil {
		return fmt.Errorf("init auth service: %w", err)
	}

	var docStore *docs.Store
	if cfg.DocsEnabled() {
		docStore, err = docs.New(ctx, docs.Config{
			Endpoint:   cfg.S3Endpoint,
			AccessKey:  cfg.S3AccessKey,
			SecretKey:  cfg.S3SecretKey,
			Region:     cfg.S3Region,
			Bucket:     cfg.DocsBucket,
			DisableTLS: cfg.S3DisableTLS,
		})
		if err != nil {
			return fmt.Errorf("init document storage: %w", err)
		}
	} else {
		log.Warn().Msg("document storage not configured; KYC endpoints disabled")
	}

	api, err := handlers.New(handlers.Options{
		Service:        svc,
		Store:          st,
		Gate:           auth.NewGate(cfg.SignInPath),
		Docs:           docStore,
		AllowedOrigins: cfg.AllowedOrigins,
		CookieDomain:   cfg.CookieDomain,
		CookieSecure:   cfg.CookieSecure,
		Trace:          trace,
		Log:            log.Logger,
	})
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           api.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info().Str("addr", cfg.Addr).Msg("starting lendgate")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("http server")
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func newMigrateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply schema migrations and exit",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			cfg, err := config.Load(ctx)
			if err != nil {
				return err
			}
			database, err := db.Connect(ctx, cfg.DBDSN)
			if err != nil {
				return err
			}
			defer func() { _ = db.Close(database) }()
			return db.Migrate(ctx, database)
		},
	}
}

func newSeedCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Insert the baseline product catalog",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			cfg, err := config.Load(ctx)
			if err != nil {
				return err
			}
			database, err := db.Connect(ctx, cfg.DBDSN)
			if err != nil {
				return err
			}
			defer func() { _ = db.Close(database) }()
			if err := db.Migrate(ctx, database); err != nil {
				return err
			}
			return db.Seed(ctx, database)
		},
	}
}

func newPromoteCommand() *cobra.Command {
	var (
		phone    string
		password string
	)

	cmd := &cobra.Command{
		Use:   "promote",
		Short: "Grant a profile the admin role with a back-office password",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			normalized, ok := auth.ToStorageForm(phone)
			if !ok {
				return errors.New("a 10-digit phone number is required")
			}
			if len(password) < 12 {
				return errors.New("password must be at least 12 characters")
			}

			cfg, err := config.Load(ctx)
			if err != nil {
				return err
			}
			database, err := db.Connect(ctx, cfg.DBDSN)
			if err != nil {
				return err
			}
			defer func() { _ = db.Close(database) }()

			st, err := store.New(database)
			if err != nil {
				return err
			}

			profile, err := st.GetProfileByPhone(ctx, normalized)
			if err != nil {
				return fmt.Errorf("profile for %s: %w", auth.ToDisplayForm(normalized), err)
			}

			hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
			if err != nil {
				return err
			}
			if err := st.SetAdminCredentials(ctx, profile.ID, string(hash)); err != nil {
				return err
			}

			log.Info().Str("phone", auth.ToDisplayForm(normalized)).Msg("profile promoted to admin")
			return nil
		},
	}

	cmd.Flags().StringVar(&phone, "phone", "", "Phone number of the profile to promote")
	cmd.Flags().StringVar(&password, "password", "", "Back-office password to set")
	_ = cmd.MarkFlagRequired("phone")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}
