package main

import (
	"context"
	"crypto/rand"
	"database/sql"
	"errors"
	"fmt"
	"math/big"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/sync/errgroup"

	"github.com/erazemk/maskarada/internal/api"
	"github.com/erazemk/maskarada/internal/config"
	"github.com/erazemk/maskarada/internal/db"
	"github.com/erazemk/maskarada/internal/events"
	"github.com/erazemk/maskarada/internal/geo"
	"github.com/erazemk/maskarada/internal/jobs"
	"github.com/erazemk/maskarada/internal/logging"
	"github.com/erazemk/maskarada/internal/model"
	"github.com/erazemk/maskarada/internal/ritual"
	"github.com/erazemk/maskarada/internal/seed"
	"github.com/erazemk/maskarada/internal/store"
)

func main() {
	// A missing .env is fine; the environment and flags still apply.
	_ = godotenv.Load()

	if err := newRootCmd(config.New()).Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd(v *viper.Viper) *cobra.Command {
	var configFile string

	root := &cobra.Command{
		Use:          "maskarada",
		Short:        "Economy and item ledger for the Maskarada LARP",
		SilenceUsage: true,
	}

	flags := root.PersistentFlags()
	flags.StringVarP(&configFile, "config", "c", "", "config file (yaml, toml or json)")
	flags.StringP("db", "d", "maskarada.sqlite3", "SQLite database path")
	flags.StringP("log", "l", "", "log file path (default: stdout/stderr only)")
	flags.String("log-level", "info", "minimum log level (debug, info, warn, error)")
	_ = v.BindPFlag("db", flags.Lookup("db"))
	_ = v.BindPFlag("log", flags.Lookup("log"))
	_ = v.BindPFlag("log_level", flags.Lookup("log-level"))

	// Subcommands bind their own flags before loading so that only the
	// running command's values reach viper.
	load := func() (config.Config, error) {
		return config.Load(v, configFile)
	}

	root.AddCommand(newServeCmd(v, load), newInitCmd(v, load), newSeedCmd(load))
	return root
}

func newServeCmd(v *viper.Viper, load func() (config.Config, error)) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API and the maintenance jobs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			_ = v.BindPFlag("addr", cmd.Flags().Lookup("addr"))
			_ = v.BindPFlag("user", cmd.Flags().Lookup("user"))
			cfg, err := load()
			if err != nil {
				return err
			}
			return serve(cmd.Context(), cfg)
		},
	}
	cmd.Flags().StringP("addr", "a", ":8080", "listen address")
	cmd.Flags().StringP("user", "u", "admin", "admin username on first run")
	return cmd
}

func newInitCmd(v *viper.Viper, load func() (config.Config, error)) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create the database and the first admin account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			_ = v.BindPFlag("user", cmd.Flags().Lookup("user"))
			cfg, err := load()
			if err != nil {
				return err
			}
			if _, err := os.Stat(cfg.DB); err == nil {
				return fmt.Errorf("database %s already exists", cfg.DB)
			}

			database, password, err := initDatabase(cmd.Context(), cfg.DB, cfg.User)
			if err != nil {
				return err
			}
			database.Close()

			printInitResult(cfg.DB, cfg.User, password)
			return nil
		},
	}
	cmd.Flags().StringP("user", "u", "admin", "admin username")
	return cmd
}

func newSeedCmd(load func() (config.Config, error)) *cobra.Command {
	return &cobra.Command{
		Use:   "seed <campaign.yaml>",
		Short: "Load characters, items and coupons from a campaign file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := load()
			if err != nil {
				return err
			}

			f, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("opening campaign: %w", err)
			}
			defer f.Close()

			campaign, err := seed.Parse(f)
			if err != nil {
				return err
			}
			campaign.Dir = os.DirFS(filepath.Dir(args[0]))

			database, err := db.Open(cfg.DB)
			if err != nil {
				return err
			}
			defer database.Close()
			if err := db.EnsureSchema(database); err != nil {
				return err
			}

			sum, err := seed.Load(cmd.Context(), database, campaign, nil)
			if err != nil {
				return err
			}
			fmt.Printf("Seeded %s: %d users, %d characters, %d containers, %d items, %d coupons\n",
				cfg.DB, sum.Users, sum.Characters, sum.Containers, sum.Items, sum.Coupons)
			return nil
		},
	}
}

func serve(ctx context.Context, cfg config.Config) error {
	log, closeLog, err := logging.New(cfg.LogLevel, cfg.Log)
	if err != nil {
		return err
	}
	defer closeLog()
	zap.ReplaceGlobals(log)

	// Check if DB exists, auto-init if not.
	if _, err := os.Stat(cfg.DB); os.IsNotExist(err) {
		database, password, err := initDatabase(ctx, cfg.DB, cfg.User)
		if err != nil {
			log.Error("failed to initialize database", zap.Error(err))
			return err
		}
		database.Close()

		printInitResult(cfg.DB, cfg.User, password)
		fmt.Println()
	}

	database, err := db.Open(cfg.DB)
	if err != nil {
		log.Error("failed to open database", zap.Error(err))
		return err
	}
	defer database.Close()

	if err := db.EnsureSchema(database); err != nil {
		log.Error("failed to ensure database schema", zap.Error(err))
		return err
	}
	log.Info("database ready", zap.String("path", cfg.DB))

	jwtSecret, created, err := store.EnsureSigningKey(ctx, database)
	if err != nil {
		log.Error("failed to load signing key", zap.Error(err))
		return err
	}
	if created {
		log.Info("generated token signing key", zap.String("setting", store.SettingSigningKey))
	}

	var publisher events.Publisher = events.Nop{}
	if cfg.AMQPURL != "" {
		p, err := events.DialAMQP(cfg.AMQPURL, cfg.EventsExchange, log)
		if err != nil {
			log.Error("failed to connect to event broker", zap.Error(err))
			return err
		}
		publisher = p
	}
	defer publisher.Close()

	gate := &ritual.Gate{
		DB: database,
		Config: ritual.Config{
			Center:         geo.Point{Lat: cfg.Heart.Lat, Lon: cfg.Heart.Lon},
			RadiusMeters:   cfg.Heart.Radius,
			AshesContainer: cfg.Heart.Ashes,
			FocusContainer: cfg.Heart.Focus,
		},
	}

	scheduler, err := jobs.New(database, log, jobs.Schedules{
		TokenPurge:  cfg.Jobs.TokenPurge,
		LedgerAudit: cfg.Jobs.LedgerAudit,
	})
	if err != nil {
		log.Error("failed to schedule jobs", zap.Error(err))
		return err
	}

	server := &http.Server{
		Addr: cfg.Addr,
		Handler: api.NewRouter(api.Options{
			DB:          database,
			JWTSecret:   jwtSecret,
			Log:         log,
			Events:      publisher,
			Gate:        gate,
			CORSOrigins: cfg.CORSOrigins,
		}),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	// Graceful shutdown on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("server started", zap.String("addr", cfg.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serving http: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		return scheduler.Run(ctx)
	})
	g.Go(func() error {
		<-ctx.Done()
		log.Info("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Error("server forced to shutdown", zap.Error(err))
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		log.Error("server error", zap.Error(err))
		return err
	}

	log.Info("server stopped, closing database")
	return nil
}

// initDatabase creates a new database, ensures the schema, and creates the admin user.
func initDatabase(ctx context.Context, path, adminUsername string) (*sql.DB, string, error) {
	database, err := db.Open(path)
	if err != nil {
		return nil, "", fmt.Errorf("opening database: %w", err)
	}

	fail := func(err error) (*sql.DB, string, error) {
		database.Close()
		os.Remove(path)
		return nil, "", err
	}

	if err := db.EnsureSchema(database); err != nil {
		return fail(fmt.Errorf("ensuring schema: %w", err))
	}

	password, err := generatePassword(16)
	if err != nil {
		return fail(fmt.Errorf("generating password: %w", err))
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fail(fmt.Errorf("hashing password: %w", err))
	}

	if _, err := store.CreateUser(ctx, database, adminUsername, string(hash), model.RoleAdmin); err != nil {
		return fail(fmt.Errorf("creating admin user: %w", err))
	}

	return database, password, nil
}

// printInitResult prints the database initialization result to stdout.
func printInitResult(dbPath, username, password string) {
	fmt.Printf("Database created: %s\n", dbPath)
	fmt.Println("Schema initialized.")
	fmt.Println()
	fmt.Println("Admin account created:")
	fmt.Printf("  Username: %s\n", username)
	fmt.Printf("  Password: %s\n", password)
	fmt.Println()
	fmt.Println("Save this password, it cannot be recovered.")
	fmt.Println("The admin can change it after logging in.")
}

// generatePassword creates a random password of the given length.
func generatePassword(length int) (string, error) {
	const charset = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789!@#$%&*"
	result := make([]byte, length)
	for i := range result {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(charset))))
		if err != nil {
			return "", err
		}
		result[i] = charset[n.Int64()]
	}
	return string(result), nil
}
