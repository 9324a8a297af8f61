// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	mcpserver "github.com/mark3labs/mcp-go/server"
	"github.com/tejzpr/nearspot/internal/ads"
	"github.com/tejzpr/nearspot/internal/config"
	"github.com/tejzpr/nearspot/internal/database"
	"github.com/tejzpr/nearspot/internal/gemini"
	"github.com/tejzpr/nearspot/internal/geo"
	"github.com/tejzpr/nearspot/internal/lifecycle"
	"github.com/tejzpr/nearspot/internal/location"
	"github.com/tejzpr/nearspot/internal/notify"
	"github.com/tejzpr/nearspot/internal/permission"
	"github.com/tejzpr/nearspot/internal/place"
	"github.com/tejzpr/nearspot/internal/recommend"
	"github.com/tejzpr/nearspot/internal/server"
	"github.com/tejzpr/nearspot/internal/store"
	"github.com/tejzpr/nearspot/internal/tools"
	"gorm.io/gorm/logger"
)

// Version is set at build time via ldflags (e.g. -X main.Version={{.Version}}).
var Version string

func main() {
	// CRITICAL: MCP servers must ONLY output JSON-RPC to stdout
	// Redirect all logging to stderr
	log.SetOutput(os.Stderr)

	configPath := flag.String("config", "", "Path to config file")
	dbType := flag.String("db-type", "", "Database type (sqlite or postgres)")
	dbPath := flag.String("db-path", "", "Database path (for sqlite)")
	dbDSN := flag.String("db-dsn", "", "Database DSN (for postgres)")
	geminiURL := flag.String("gemini-url", "", "Gemini API base URL")
	geminiModel := flag.String("gemini-model", "", "Gemini model name")
	geminiKey := flag.String("gemini-key", "", "Gemini API key (alternative to env var)")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Nearspot Agent\n\n")
		fmt.Fprintf(os.Stderr, "Usage: %s [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Starts the location-aware recommendation agent and serves its\n")
		fmt.Fprintf(os.Stderr, "control tools over MCP stdio.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nEnvironment Variables:\n")
		fmt.Fprintf(os.Stderr, "  DB_TYPE            Database type (sqlite or postgres)\n")
		fmt.Fprintf(os.Stderr, "  DB_PATH            SQLite database path\n")
		fmt.Fprintf(os.Stderr, "  DB_DSN             PostgreSQL connection string\n")
		fmt.Fprintf(os.Stderr, "  GEMINI_API_KEY     Gemini API key (default key env)\n")
	}

	flag.Parse()

	log.Println("Starting Nearspot Agent...")

	cfg := loadConfig(*configPath)
	applyOverrides(cfg, *dbType, *dbPath, *dbDSN, *geminiURL, *geminiModel, *geminiKey)

	db, err := database.Connect(&database.Config{
		Type:        cfg.Database.Type,
		SQLitePath:  cfg.Database.SQLitePath,
		PostgresDSN: cfg.Database.PostgresDSN,
		LogLevel:    logger.Silent,
	})
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.Close(db)

	if err := database.Migrate(db); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}
	log.Printf("Database ready (%s)", cfg.Database.Type)

	memos := store.NewMemoStore(db)
	quota := store.NewQuotaStore(db, cfg.Recommend.FreeDailyLimit)

	apiKey := os.Getenv(cfg.Gemini.APIKeyEnv)
	if apiKey == "" {
		log.Printf("Warning: %s is not set; recommendation calls will fail", cfg.Gemini.APIKeyEnv)
	}
	client := gemini.NewHTTPClient(cfg.Gemini.BaseURL, apiKey, cfg.Gemini.Model)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Device ports. Real geolocation, notification, and ad backends
	// live outside this process; mocks stand in for them here. The
	// mock provider reports a fixed position (Seoul City Hall).
	provider := &geo.MockProvider{
		GetCurrentPositionFunc: func(ctx context.Context) (geo.Position, error) {
			return geo.Position{Latitude: 37.5665, Longitude: 126.9780, CapturedAt: time.Now()}, nil
		},
	}
	authority := &permission.MockAuthority{}
	primitive := notify.NewMockPrimitive()

	prompter := permission.PrompterFunc(func(cap permission.Capability) {
		log.Printf("Permission for %s denied; open system settings to grant it", cap)
	})
	permissions := permission.NewManager(authority, prompter)

	poller := location.NewPoller(provider, time.Duration(cfg.Location.PollInterval)*time.Second)

	// A revoked location grant stops sampling until it is re-granted
	permissions.SubscribeStatus(func(cap permission.Capability, prev, next permission.Status) {
		if cap != permission.CapabilityLocation {
			return
		}
		switch {
		case prev == permission.StatusGranted && next != permission.StatusGranted:
			log.Println("Location permission revoked; stopping sampling")
			poller.Stop()
		case prev != permission.StatusGranted && next == permission.StatusGranted:
			poller.Start(ctx)
		}
	})

	var rewarded *ads.Rewarded
	if cfg.Ads.Enabled {
		rewarded = ads.NewRewarded(&ads.MockNetwork{},
			time.Duration(cfg.Ads.CloseReloadSeconds)*time.Second,
			time.Duration(cfg.Ads.ErrorReloadSeconds)*time.Second)
		defer rewarded.Stop()
	}

	display := recommend.DisplayTimings{
		FadeIn:  time.Duration(cfg.Recommend.FadeInMs) * time.Millisecond,
		Hold:    time.Duration(cfg.Recommend.HoldMs) * time.Millisecond,
		FadeOut: time.Duration(cfg.Recommend.FadeOutMs) * time.Millisecond,
	}
	orchestrator := recommend.NewOrchestrator(client, quota, poller.Latest, rewarded,
		time.Duration(cfg.Recommend.Interval)*time.Second, display)

	// The first cycle fires as soon as the poller lands a fix
	poller.Subscribe(func(pos geo.Position) {
		orchestrator.OnPositionAvailable(ctx)
	})

	messages, err := notify.LoadMessages(cfg.Notifications.MessagesPath)
	if err != nil {
		log.Printf("Warning: failed to load message pool: %v; using defaults", err)
		messages, _ = notify.LoadMessages("")
	}
	background := notify.NewBackgroundScheduler(primitive, permissions, messages,
		cfg.Notifications.BurstCount, cfg.Notifications.BurstInterval)

	notifier := lifecycle.NewNotifier()
	background.Attach(notifier)

	// Ask for both capabilities up front; the poller only starts once
	// location is actually granted.
	if status := permissions.Ensure(ctx, permission.CapabilityLocation); status == permission.StatusGranted {
		poller.Start(ctx)
		defer poller.Stop()
		log.Println("Location sampling started")
	} else {
		log.Println("Location permission not granted; recommendations stay gated")
	}
	permissions.Ensure(ctx, permission.CapabilityNotifications)

	orchestrator.Start(ctx)
	defer orchestrator.Stop()

	orchestrator.Subscribe(func(result place.Result) {
		if result.Success {
			log.Printf("Recommended: %s (%s)", result.Place.Name, result.Place.Category)
		} else {
			log.Println("Recommendation cycle returned no usable place")
		}
	})

	toolCtx := tools.NewToolContext(memos, quota, client, orchestrator, poller)
	mcpServer := server.NewMCPServer(cfg, toolCtx)

	log.Println("MCP server ready (stdio mode) - 7 tools registered")
	if err := mcpserver.ServeStdio(mcpServer.GetMCPServer()); err != nil {
		log.Fatalf("MCP server error: %v", err)
	}
}

// loadConfig loads configuration from an explicit path or the default
// location, falling back to built-in defaults.
func loadConfig(path string) *config.Config {
	if path != "" {
		cfg, err := config.LoadFromPath(path)
		if err != nil {
			log.Printf("Warning: Failed to load config from %s: %v", path, err)
			log.Println("Using defaults")
			return config.DefaultConfig()
		}
		log.Printf("Loaded configuration from %s", path)
		return cfg
	}

	cfg, err := config.Load()
	if err != nil {
		log.Printf("Warning: Failed to load config: %v", err)
		log.Println("Using defaults")
		return config.DefaultConfig()
	}
	return cfg
}

// applyOverrides applies CLI flag and environment overrides on top of
// the loaded configuration.
func applyOverrides(cfg *config.Config, dbType, dbPath, dbDSN, geminiURL, geminiModel, geminiKey string) {
	if v := os.Getenv("DB_TYPE"); v != "" {
		cfg.Database.Type = v
	}
	if v := os.Getenv("DB_PATH"); v != "" {
		cfg.Database.SQLitePath = v
	}
	if v := os.Getenv("DB_DSN"); v != "" {
		cfg.Database.PostgresDSN = v
	}

	if dbType != "" {
		cfg.Database.Type = dbType
		log.Printf("Database type from CLI: %s", dbType)
	}
	if dbPath != "" {
		cfg.Database.SQLitePath = dbPath
		log.Printf("Database path from CLI: %s", dbPath)
	}
	if dbDSN != "" {
		cfg.Database.PostgresDSN = dbDSN
		log.Printf("Database DSN from CLI")
	}
	if geminiURL != "" {
		cfg.Gemini.BaseURL = geminiURL
		log.Printf("Gemini URL from CLI")
	}
	if geminiModel != "" {
		cfg.Gemini.Model = geminiModel
		log.Printf("Gemini model from CLI: %s", geminiModel)
	}
	if geminiKey != "" {
		os.Setenv(cfg.Gemini.APIKeyEnv, geminiKey)
		log.Printf("Gemini API key from CLI (hidden)")
	}
}
