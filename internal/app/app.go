// Package app wires configuration, storage, clients, and services into a
// single initialized core shared by the server entrypoint and tests.
package app

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/bobmcallan/advisor/internal/clients/eodhd"
	"github.com/bobmcallan/advisor/internal/clients/gemini"
	"github.com/bobmcallan/advisor/internal/common"
	"github.com/bobmcallan/advisor/internal/interfaces"
	"github.com/bobmcallan/advisor/internal/models"
	"github.com/bobmcallan/advisor/internal/services/assistant"
	"github.com/bobmcallan/advisor/internal/services/market"
	"github.com/bobmcallan/advisor/internal/services/query"
	storagesurreal "github.com/bobmcallan/advisor/internal/storage/surrealdb"
)

// App holds all initialized services and clients.
type App struct {
	Config       *common.Config
	Logger       *common.Logger
	Storage      interfaces.StorageManager
	MarketClient interfaces.MarketDataClient
	LLMClient    interfaces.LLMClient
	Gateway      interfaces.MarketGateway
	Extractor    interfaces.TickerExtractor
	Assistant    interfaces.AssistantService
	Session      *models.SessionDefaults
	StartupTime  time.Time
}

// getBinaryDir returns the directory containing the executable.
func getBinaryDir() string {
	exe, err := os.Executable()
	if err != nil {
		return "."
	}
	return filepath.Dir(exe)
}

// NewApp initializes configuration, logging, storage, clients, and services.
// configPath may be empty, in which case the default resolution logic is used.
func NewApp(configPath string) (*App, error) {
	startupStart := time.Now()

	// Load version from .version file (fallback if ldflags not set)
	common.LoadVersionFromFile()

	binDir := getBinaryDir()

	// Load configuration - check provided path, ADVISOR_CONFIG, then binary dir, then fallback
	if configPath == "" {
		configPath = os.Getenv("ADVISOR_CONFIG")
	}
	if configPath == "" {
		configPath = filepath.Join(binDir, "advisor.toml")
		if _, err := os.Stat(configPath); os.IsNotExist(err) {
			configPath = "config/advisor.toml" // fallback for development
		}
	}

	config, err := common.LoadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logger := common.NewLoggerFromConfig(config.Logging)

	// Storage is optional. Without it the gateway calls the provider directly.
	var storageManager interfaces.StorageManager
	if config.Storage.Address != "" {
		storageManager, err = storagesurreal.NewManager(logger, config)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize storage: %w", err)
		}
	} else {
		logger.Info().Msg("No storage address configured, market data caching disabled")
	}

	// Resolve API keys
	eodhdKey, err := common.ResolveAPIKey("eodhd_api_key", config.Clients.EODHD.APIKey)
	if err != nil {
		logger.Warn().Msg("EODHD API key not configured - market data will be unavailable")
	}

	geminiKey, err := common.ResolveAPIKey("gemini_api_key", config.Clients.Gemini.APIKey)
	if err != nil {
		logger.Warn().Msg("Gemini API key not configured - generated answers will be empty")
	}

	// Initialize API clients. A missing key leaves the client interface
	// nil; the gateway reports a typed fetch failure instead of serving.
	var marketClient interfaces.MarketDataClient
	if eodhdKey != "" {
		marketClient = eodhd.NewClient(eodhdKey,
			eodhd.WithBaseURL(config.Clients.EODHD.BaseURL),
			eodhd.WithLogger(logger),
			eodhd.WithRateLimit(config.Clients.EODHD.RateLimit),
			eodhd.WithTimeout(config.Clients.EODHD.GetTimeout()),
		)
	}

	var llmClient interfaces.LLMClient
	if geminiKey != "" {
		geminiClient, err := gemini.NewClient(context.Background(), geminiKey,
			gemini.WithLogger(logger),
			gemini.WithModel(config.Clients.Gemini.Model),
		)
		if err != nil {
			logger.Warn().Err(err).Msg("Failed to initialize Gemini client")
		} else {
			llmClient = geminiClient
		}
	}

	// Initialize services
	gateway := market.NewService(marketClient, storageManager, logger)
	extractor := query.NewExtractor(gateway, logger)
	session := models.NewSessionDefaults()
	assistantService := assistant.NewService(gateway, extractor, llmClient, session, logger)

	a := &App{
		Config:       config,
		Logger:       logger,
		Storage:      storageManager,
		MarketClient: marketClient,
		LLMClient:    llmClient,
		Gateway:      gateway,
		Extractor:    extractor,
		Assistant:    assistantService,
		Session:      session,
		StartupTime:  startupStart,
	}

	logger.Info().Dur("startup", time.Since(startupStart)).Msg("App initialized")

	return a, nil
}

// Close releases all resources held by the App.
func (a *App) Close() {
	if a.Storage != nil {
		a.Storage.Close()
		a.Storage = nil
	}
}
