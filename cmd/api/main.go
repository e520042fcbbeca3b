package main

import (
	"context"
	"net/http"
	"os"
	"strconv"

	"listify-shopee-layer/internal/application"
	"listify-shopee-layer/internal/infrastructure/ai"
	securitymiddleware "listify-shopee-layer/internal/infrastructure/middleware"
	"listify-shopee-layer/internal/infrastructure/repository"
	"listify-shopee-layer/internal/infrastructure/shopee"
	"listify-shopee-layer/internal/infrastructure/storage"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	httpSwagger "github.com/swaggo/http-swagger"
)

func main() {
	// Initialize logger
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()
	if err := godotenv.Load(); err != nil {
		logger.Warn().Msg("⚠️  Warning: .env file not found")
	}

	// Partner identity is process-wide and required up front
	partnerIDStr := os.Getenv("SHOPEE_PARTNER_ID")
	partnerKey := os.Getenv("SHOPEE_PARTNER_KEY")
	if partnerIDStr == "" || partnerKey == "" {
		logger.Fatal().Msg("SHOPEE_PARTNER_ID and SHOPEE_PARTNER_KEY environment variables are required")
	}
	partnerID, err := strconv.ParseInt(partnerIDStr, 10, 64)
	if err != nil {
		logger.Fatal().Err(err).Msg("SHOPEE_PARTNER_ID must be an integer")
	}

	geminiKey := os.Getenv("GEMINI_API_KEY")
	if geminiKey == "" {
		logger.Fatal().Msg("GEMINI_API_KEY environment variable is required")
	}

	appURL := os.Getenv("APP_URL")
	if appURL == "" {
		appURL = "http://localhost:8080"
	}

	shopeeBase := os.Getenv("SHOPEE_API_BASE")
	if shopeeBase == "" {
		shopeeBase = shopee.DefaultBaseURL
	}

	uploadDir := os.Getenv("UPLOAD_DIR")
	if uploadDir == "" {
		uploadDir = "./uploads"
	}

	redisAddr := os.Getenv("REDIS_ADDR")
	if redisAddr == "" {
		redisAddr = "localhost:6379"
	}

	// Connect to Redis for session storage
	rdb := redis.NewClient(&redis.Options{Addr: redisAddr})
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		logger.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	defer rdb.Close()

	// Initialize infrastructure (implementations)
	signer := shopee.NewSigner(partnerID, partnerKey)
	shopeeClient := shopee.NewClientWithOptions(signer, shopeeBase, nil, logger)
	tokenExchanger := shopee.NewAuthWithOptions(signer, shopeeBase, nil, logger)

	describer, err := ai.NewGeminiService(context.Background(), geminiKey, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to initialize Gemini service")
	}

	imageStore, err := storage.NewLocalStore(uploadDir, "/uploads")
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to initialize image store")
	}

	sessionStore := repository.NewRedisSessionStore(rdb)

	// Initialize application services
	listingService := application.NewListingService(shopeeClient, describer, imageStore, logger)
	authService := application.NewAuthService(tokenExchanger, sessionStore, logger)

	// Setup router
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(securitymiddleware.SecurityHeadersMiddleware())
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
	}))

	// Public routes
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Handle("/metrics", promhttp.Handler())

	// Swagger documentation
	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))
	r.Get("/swagger/doc.json", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		http.ServeFile(w, r, "./docs/swagger.json")
	})

	// Locally stored product photos
	r.Handle("/uploads/*", http.StripPrefix("/uploads/", http.FileServer(http.Dir(imageStore.Dir()))))

	// OAuth routes
	r.Get("/auth/shopee", oauthInitHandler(authService, appURL, logger))
	r.Get("/auth/shopee/callback", oauthCallbackHandler(authService, logger))
	r.Post("/auth/shopee/logout", logoutHandler(authService, logger))

	// Listing routes
	r.Post("/api/upload", uploadHandler(listingService, logger))
	r.Post("/api/ai/generate", generateHandler(listingService, logger))
	r.Post("/api/product/create", createProductHandler(listingService, authService, logger))
	r.Get("/api/categories", categoriesHandler(listingService, authService, logger))
	r.Get("/api/categories/{categoryID}/attributes", attributesHandler(listingService, authService, logger))

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	logger.Info().Str("port", port).Msg("Starting API server")
	logger.Info().Msg("Swagger documentation available at http://localhost:" + port + "/swagger/index.html")
	if err := http.ListenAndServe(":"+port, r); err != nil {
		logger.Fatal().Err(err).Msg("Failed to start server")
	}
}
