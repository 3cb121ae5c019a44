package main

import (
	"log/slog"
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	httpSwagger "github.com/swaggo/http-swagger"

	_ "github.com/tallyup/tallyup/docs"
	"github.com/tallyup/tallyup/internal/audit"
	"github.com/tallyup/tallyup/internal/config"
	"github.com/tallyup/tallyup/internal/database"
	"github.com/tallyup/tallyup/internal/events"
	"github.com/tallyup/tallyup/internal/events/kafka"
	"github.com/tallyup/tallyup/internal/expense"
	"github.com/tallyup/tallyup/internal/ledger"
	"github.com/tallyup/tallyup/internal/member"
	"github.com/tallyup/tallyup/internal/settlement"
	"github.com/tallyup/tallyup/internal/split"
	"github.com/tallyup/tallyup/pkg/logging"
	mw "github.com/tallyup/tallyup/pkg/middleware"
)

// @title        TallyUp API
// @version      1.0
// @description  Expense splitting, balance tracking and settlement optimization
// @BasePath     /api/v1
func main() {
	// Load .env file
	if err := godotenv.Load(); err != nil {
		slog.Info("no .env file found, using environment variables")
	}

	// Load configuration
	cfg := config.Load()
	logging.Setup(cfg.LogLevel)

	// Initialize database connection
	db, err := database.NewPostgresConnection(cfg.DatabaseURL)
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		slog.Error("failed to migrate database", "error", err)
		os.Exit(1)
	}

	slog.Info("connected to database")

	// Split engine (Strategy + Factory pattern)
	splitFactory := split.NewStrategyFactory()
	splitValidator := split.NewValidator(splitFactory)
	recorder := audit.NewRecorder(cfg.AuditHistorySize)

	// Balance ledger on the durable store
	balanceLedger := ledger.New(ledger.NewPostgresStore(db))

	// Event publishing is optional; without brokers the noop publisher drops
	// everything.
	var publisher events.Publisher = events.NoopPublisher{}
	if len(cfg.KafkaBrokers) > 0 {
		kp := kafka.NewPublisher(cfg.KafkaBrokers)
		defer kp.Close()
		publisher = kp
		slog.Info("publishing optimization runs", "brokers", cfg.KafkaBrokers)
	}

	// Member feature
	memberRepo := member.NewRepository(db)
	memberService := member.NewService(memberRepo)
	memberHandler := member.NewHandler(memberService)

	// Expense feature (split engine and ledger injected)
	expenseRepo := expense.NewRepository(db)
	auditRepo := audit.NewRepository(db)
	expenseService := expense.NewService(expenseRepo, memberService, splitFactory, splitValidator, recorder, auditRepo, balanceLedger)
	expenseHandler := expense.NewHandler(expenseService)

	// Settlement feature
	settlementRepo := settlement.NewRepository(db)
	settlementService := settlement.NewService(settlementRepo, balanceLedger, publisher)
	settlementHandler := settlement.NewHandler(settlementService)

	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(mw.RequestLogger)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	})

	r.Get("/swagger/*", httpSwagger.Handler())

	// API routes
	r.Route("/api/v1", func(r chi.Router) {
		r.Mount("/members", memberHandler.Routes())
		r.Mount("/expenses", expenseHandler.Routes())
		r.Mount("/settlements", settlementHandler.Routes())
	})

	// Start server
	port := cfg.Port
	if port == "" {
		port = "8080"
	}

	slog.Info("server starting", "port", port)
	if err := http.ListenAndServe(":"+port, r); err != nil {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}
