package main

import (
	"log"
	"net/http"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/Dayy346/fantasy-draft-assistant/internal/analytics"
	"github.com/Dayy346/fantasy-draft-assistant/internal/draft"
	"github.com/Dayy346/fantasy-draft-assistant/internal/handlers"
	"github.com/Dayy346/fantasy-draft-assistant/internal/logger"
	"github.com/Dayy346/fantasy-draft-assistant/internal/mockdraft"
	"github.com/Dayy346/fantasy-draft-assistant/internal/mocks"
	"github.com/Dayy346/fantasy-draft-assistant/internal/pubsub"
	"github.com/Dayy346/fantasy-draft-assistant/internal/repo"
)

var (
	players repo.PlayerRepository
	adp     analytics.Client
	adpTick = 5 * time.Minute
)

func main() {
	// .env is optional; real environments set variables directly.
	_ = godotenv.Load()

	logger.Init()
	logger.Info("Starting fantasy draft assistant")

	environment := os.Getenv("ENVIRONMENT")

	players = openRepository(environment)

	// Blend, score, and persist valuations so the board is ranked from the
	// first request.
	if count, err := handlers.RecomputeScores(players); err != nil {
		logger.Error("Initial score computation failed", "error", err)
		log.Fatalf("Initial score computation failed: %v", err)
	} else {
		logger.Info("Computed initial player valuations", "players_valued", count)
	}

	upstream := openUpstream(environment)
	bus := pubsub.NewWithUpstream(upstream)

	adp = openAnalytics(environment)
	if adp != nil {
		go runADPSync()
	} else {
		logger.Info("Skipping ADP sync (analytics not configured)")
	}

	drafts := draft.NewManager(players)
	mock := mockdraft.NewEngine(players)

	mux := http.NewServeMux()
	api := handlers.NewAPIHandlers(players, drafts, mock, bus, adp)
	api.RegisterRoutes(mux)

	port := os.Getenv("PORT")
	if port == "" {
		port = "3000"
	}

	addr := "0.0.0.0:" + port
	logger.Info("Server starting", "address", addr)
	if err := http.ListenAndServe(addr, mux); err != nil {
		logger.Error("Server failed", "error", err)
		log.Fatal(err)
	}
}

// openRepository selects the player store from DB_DRIVER: memory (seeded),
// sqlite, or postgres. Postgres without a DATABASE_URL falls back to the
// SQLite-backed mock outside production.
func openRepository(environment string) repo.PlayerRepository {
	dbDriver := os.Getenv("DB_DRIVER")
	if dbDriver == "" {
		dbDriver = "memory"
	}

	switch dbDriver {
	case "memory":
		logger.Info("Using in-memory player store with seed data")
		return repo.NewSeededMemoryRepository()

	case "sqlite":
		sqliteFile := os.Getenv("SQLITE_FILE")
		if sqliteFile == "" {
			sqliteFile = "dev.sqlite"
		}
		r, err := repo.NewSQLiteRepository(sqliteFile)
		if err != nil {
			logger.Error("Failed to initialize SQLite", "error", err)
			log.Fatalf("Failed to initialize SQLite: %v", err)
		}
		logger.Info("Connected to SQLite database", "file", sqliteFile)
		return r

	case "postgres":
		dbConnString := os.Getenv("DATABASE_URL")
		if dbConnString == "" {
			if environment == "production" {
				logger.Error("DATABASE_URL is required for postgres driver in production")
				log.Fatal("DATABASE_URL is required for postgres driver in production")
			}
			r, err := mocks.NewMockPostgresRepository("dev.sqlite")
			if err != nil {
				logger.Error("Failed to initialize mock Postgres", "error", err)
				log.Fatalf("Failed to initialize mock Postgres: %v", err)
			}
			return r
		}
		r, err := repo.NewPostgresRepository(dbConnString)
		if err != nil {
			logger.Error("Failed to initialize Postgres", "error", err)
			log.Fatalf("Failed to initialize Postgres: %v", err)
		}
		logger.Info("Connected to Postgres database")
		return r

	default:
		logger.Error("Unknown DB_DRIVER", "driver", dbDriver)
		log.Fatalf("Unknown DB_DRIVER: %s (valid: memory, sqlite, postgres)", dbDriver)
		return nil
	}
}

// openUpstream selects the event broker: embedded NATS for development,
// a real NATS JetStream server otherwise.
func openUpstream(environment string) pubsub.Upstream {
	natsSubject := os.Getenv("NATS_SUBJECT")
	if natsSubject == "" {
		natsSubject = "draft.events"
	}

	if environment == "" || environment == "development" {
		logger.Info("Starting embedded NATS server for local development")
		embedded, err := pubsub.NewEmbeddedNATSBus(pubsub.EmbeddedNATSOptions{
			Port:       -1,
			Subject:    natsSubject,
			StreamName: "DRAFT_EVENTS",
		})
		if err != nil {
			logger.Error("Failed to initialize embedded NATS", "error", err)
			log.Fatalf("Failed to initialize embedded NATS: %v", err)
		}
		logger.Info("Embedded NATS server ready", "url", embedded.ServerURL())
		return embedded
	}

	natsURL := os.Getenv("NATS_URL")
	if natsURL == "" {
		natsURL = "nats://localhost:4222"
	}
	nb, err := pubsub.NewNATSBus(natsURL, natsSubject, "DRAFT_EVENTS")
	if err != nil {
		logger.Error("Failed to initialize NATS", "error", err)
		log.Fatalf("Failed to initialize NATS: %v", err)
	}
	logger.Info("Connected to NATS", "url", natsURL)
	return nb
}

// openAnalytics selects the ADP recorder: the in-memory mock for
// development, ClickHouse otherwise.
func openAnalytics(environment string) analytics.Client {
	if environment == "" || environment == "development" {
		return mocks.NewMockAnalyticsClient()
	}

	chAddr := os.Getenv("CLICKHOUSE_ADDR")
	if chAddr == "" {
		chAddr = "localhost:9000"
	}
	chDB := os.Getenv("CLICKHOUSE_DB")
	if chDB == "" {
		chDB = "default"
	}
	chUser := os.Getenv("CLICKHOUSE_USER")
	if chUser == "" {
		chUser = "default"
	}
	chPass := os.Getenv("CLICKHOUSE_PASSWORD")

	client, err := analytics.NewClickHouseClient(chAddr, chDB, chUser, chPass)
	if err != nil {
		logger.Error("Failed to initialize ClickHouse", "error", err, "address", chAddr)
		log.Fatalf("Failed to initialize ClickHouse: %v", err)
	}
	logger.Info("Connected to ClickHouse", "address", chAddr, "database", chDB)
	return client
}

// runADPSync periodically folds recorded picks back into each player's
// average draft position.
func runADPSync() {
	ticker := time.NewTicker(adpTick)
	defer ticker.Stop()

	syncDraftPositions()
	for range ticker.C {
		syncDraftPositions()
	}
}

func syncDraftPositions() {
	logger.Debug("Syncing average draft positions")
	err := adp.SyncDraftPositions(func(playerID string, value float64) error {
		return players.SetADP(playerID, value)
	})
	if err != nil {
		logger.Error("Failed to sync draft positions", "error", err)
		return
	}
	logger.Info("Average draft positions synced")
}
