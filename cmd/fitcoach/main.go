package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/fitcoach-bot/fitcoach/internal/api"
	"github.com/fitcoach-bot/fitcoach/internal/genai"
	"github.com/fitcoach-bot/fitcoach/internal/messaging"
	"github.com/fitcoach-bot/fitcoach/internal/reminder"
	"github.com/fitcoach-bot/fitcoach/internal/state"
	"github.com/fitcoach-bot/fitcoach/internal/store"
	"github.com/fitcoach-bot/fitcoach/internal/util"
)

// Default configuration constants
const (
	// DefaultDataDir is the default directory for fitcoach file storage
	DefaultDataDir = "/var/lib/fitcoach"
	// DefaultAPIAddr is the default API listen address
	DefaultAPIAddr = ":8080"
)

func main() {
	config := loadEnvironmentConfig()
	initializeLogger(config.Debug)
	flags := parseCommandLineFlags(config)

	st, err := buildStore(flags)
	if err != nil {
		slog.Error("Failed to initialize storage backend", "error", err)
		os.Exit(1)
	}

	assistant := genai.NewClient(buildGenAIOptions(flags)...)

	states := state.NewStore()
	reminders := reminder.NewService(st, messaging.LogNotifier{})
	defer reminders.Stop()
	if err := reminders.RestoreAll(); err != nil {
		slog.Error("Failed to restore reminder schedules", "error", err)
		os.Exit(1)
	}

	server := api.NewServer(st, states, assistant, reminders)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	slog.Info("Bootstrapping fitcoach", "addr", *flags.apiAddr, "dsn_set", *flags.dbDSN != "", "data_dir", *flags.dataDir)
	if err := server.Run(ctx, *flags.apiAddr); err != nil {
		slog.Error("fitcoach failed to run", "error", err)
		os.Exit(1)
	}
	slog.Info("fitcoach exited successfully")
}

// Config holds environment configuration
type Config struct {
	DataDir     string
	DatabaseURL string
	OpenAIKey   string
	OpenAIModel string
	APIAddr     string
	Debug       bool
}

// Flags holds command line flag values
type Flags struct {
	dataDir     *string
	dbDSN       *string
	openaiKey   *string
	openaiModel *string
	apiAddr     *string
}

// initializeLogger sets up structured logging on stdout.
func initializeLogger(debug bool) {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
}

// loadEnvironmentConfig loads configuration from environment variables and .env file
func loadEnvironmentConfig() Config {
	if err := godotenv.Load(); err != nil {
		slog.Debug("failed to load .env file", "error", err)
	}

	config := Config{
		DataDir:     util.GetenvDefault("FITCOACH_DATA_DIR", DefaultDataDir),
		DatabaseURL: os.Getenv("DATABASE_URL"),
		OpenAIKey:   os.Getenv("OPENAI_API_KEY"),
		OpenAIModel: os.Getenv("OPENAI_MODEL"),
		APIAddr:     util.GetenvDefault("API_ADDR", DefaultAPIAddr),
		Debug:       util.ParseBoolEnv("FITCOACH_DEBUG", false),
	}
	return config
}

// parseCommandLineFlags parses command line arguments with environment defaults
func parseCommandLineFlags(config Config) Flags {
	flags := Flags{
		dataDir:     flag.String("data-dir", config.DataDir, "directory for file-backed storage (overrides $FITCOACH_DATA_DIR)"),
		dbDSN:       flag.String("db-dsn", config.DatabaseURL, "database DSN for SQLite or Postgres storage (overrides $DATABASE_URL)"),
		openaiKey:   flag.String("openai-api-key", config.OpenAIKey, "OpenAI API key (overrides $OPENAI_API_KEY)"),
		openaiModel: flag.String("openai-model", config.OpenAIModel, "OpenAI model name (overrides $OPENAI_MODEL)"),
		apiAddr:     flag.String("api-addr", config.APIAddr, "API server address (overrides $API_ADDR)"),
	}
	flag.Parse()

	slog.Debug("flags parsed",
		"dataDir", *flags.dataDir,
		"dbDSN_set", *flags.dbDSN != "",
		"openaiKeySet", *flags.openaiKey != "",
		"apiAddr", *flags.apiAddr)
	return flags
}

// buildStore selects the storage backend: Postgres or SQLite when a DSN is
// given, the file backend in the data directory otherwise.
func buildStore(flags Flags) (store.Store, error) {
	if *flags.dbDSN != "" {
		if store.DetectDSNType(*flags.dbDSN) == "postgres" {
			slog.Debug("Detected PostgreSQL DSN, configuring PostgreSQL store")
			st, err := store.NewPostgresStore(store.WithDSN(*flags.dbDSN))
			if err != nil {
				return nil, err
			}
			return st, nil
		}
		slog.Debug("Detected SQLite DSN, configuring SQLite store", "db_path", *flags.dbDSN)
		st, err := store.NewSQLiteStore(store.WithDSN(*flags.dbDSN))
		if err != nil {
			return nil, err
		}
		return st, nil
	}
	slog.Debug("No database DSN provided, using file store", "data_dir", *flags.dataDir)
	st, err := store.NewFileStore(store.WithDataDir(*flags.dataDir))
	if err != nil {
		return nil, err
	}
	return st, nil
}

// buildGenAIOptions constructs GenAI configuration options
func buildGenAIOptions(flags Flags) []genai.Option {
	var genaiOpts []genai.Option
	if *flags.openaiKey != "" {
		genaiOpts = append(genaiOpts, genai.WithAPIKey(*flags.openaiKey))
	}
	if *flags.openaiModel != "" {
		genaiOpts = append(genaiOpts, genai.WithModel(*flags.openaiModel))
	}
	return genaiOpts
}
