package main

import (
	"context"
	"encoding/json"
	stdlog "log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/patrickmn/go-cache"
	"github.com/username/sudarshan/backend/src/config"
	"github.com/username/sudarshan/backend/src/database"
	"github.com/username/sudarshan/backend/src/gateway"
	"github.com/username/sudarshan/backend/src/handlers"
	"github.com/username/sudarshan/backend/src/logger"
	"github.com/username/sudarshan/backend/src/processors"
	"github.com/username/sudarshan/backend/src/services"
	"golang.org/x/time/rate"
)

var limiter = rate.NewLimiter(rate.Every(100*time.Millisecond), 30)

func rateLimitMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !limiter.Allow() {
			http.Error(w, http.StatusText(http.StatusTooManyRequests), http.StatusTooManyRequests)
			logger.L.Warn("Rate limit exceeded", "path", r.URL.Path)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		allowedOrigins := map[string]bool{
			"http://localhost:3000":    true,
			config.Cfg.FrontendBaseURL: true,
		}

		if allowedOrigins[origin] {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Credentials", "true")
			w.Header().Set("Access-Control-Allow-Methods", "POST, GET, OPTIONS, PUT, DELETE, PATCH")
			w.Header().Set("Access-Control-Allow-Headers", "Accept, Content-Type, Content-Length, Accept-Encoding, Authorization, X-Requested-With")
		} else if origin == "" {
			w.Header().Set("Access-Control-Allow-Origin", "*")
		}

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func main() {
	config.LoadConfig()
	logger.InitLogger(config.Cfg.LogLevel)

	logger.L.Info("Sudarshan backend server starting...")

	logger.L.Info("Initializing database...", "path", config.Cfg.DatabasePath)
	database.InitDB(config.Cfg.DatabasePath)
	database.RunMigrations(config.Cfg.DatabasePath, config.Cfg.MigrationsPath)

	reportCache := cache.New(services.DefaultCacheExpiration, services.CacheCleanupInterval)

	geminiGateway, err := gateway.NewGeminiGateway(context.Background(), gateway.Config{
		APIKey:          config.Cfg.GeminiAPIKey,
		Model:           config.Cfg.GeminiModel,
		TTSModel:        config.Cfg.GeminiTTSModel,
		TranscribeModel: config.Cfg.GeminiTranscribeModel,
		Timeout:         config.Cfg.GatewayTimeout,
	})
	if err != nil {
		stdlog.Fatalf("Failed to initialize Gemini gateway: %v", err)
	}

	ledgerProcessor := processors.NewLedgerProcessor()
	leadProcessor := processors.NewLeadProcessor()

	khataService := services.NewKhataService(database.DB, ledgerProcessor, reportCache)
	leadService := services.NewLeadService(database.DB, leadProcessor, reportCache)
	assistantService := services.NewAssistantService(geminiGateway, config.Cfg.DefaultLanguage)

	customerHandler := handlers.NewCustomerHandler(khataService)
	leadHandler := handlers.NewLeadHandler(leadService)
	assistantHandler := handlers.NewAssistantHandler(assistantService, config.Cfg.MaxUploadSizeBytes)
	dashboardHandler := handlers.NewDashboardHandler(khataService)

	r := chi.NewRouter()

	r.Use(middleware.Recoverer)
	r.Use(handlers.ContextualLoggerMiddleware)
	r.Use(enableCORS)
	r.Use(rateLimitMiddleware)

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"message": "Sudarshan Backend is running"})
	})

	r.Route("/api", func(r chi.Router) {
		r.Get("/customers", customerHandler.HandleListCustomers)
		r.Post("/customers", customerHandler.HandleAddCustomer)
		r.Get("/customers/{id}", customerHandler.HandleGetCustomer)
		r.Post("/customers/{id}/transactions", customerHandler.HandleAddTransaction)
		r.Get("/customers/{id}/reminder", customerHandler.HandleGetReminder)

		r.Get("/leads", leadHandler.HandleListLeads)
		r.Post("/leads", leadHandler.HandleAddLead)
		r.Post("/leads/{id}/advance", leadHandler.HandleAdvanceLead)

		r.Post("/assistant/chat", assistantHandler.HandleChat)
		r.Post("/assistant/diary", assistantHandler.HandleAnalyzeDiary)
		r.Post("/assistant/transcribe", assistantHandler.HandleTranscribe)
		r.Post("/assistant/speak", assistantHandler.HandleSpeak)

		r.Get("/dashboard/summary", dashboardHandler.HandleGetSummary)
	})

	serverAddr := ":" + config.Cfg.Port
	server := &http.Server{
		Addr:         serverAddr,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 120 * time.Second, // assistant calls can be slow
		IdleTimeout:  60 * time.Second,
	}

	logger.L.Info("Server starting", "address", serverAddr)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		stdlog.Fatalf("Failed to start server: %v", err)
	}
}
