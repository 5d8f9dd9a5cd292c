package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/gorilla/sessions"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/fkhayef/movienight/docs"
	"github.com/fkhayef/movienight/internal/config"
	"github.com/fkhayef/movienight/internal/database"
	"github.com/fkhayef/movienight/internal/group"
	"github.com/fkhayef/movienight/internal/movie"
	"github.com/fkhayef/movienight/internal/movienight"
	"github.com/fkhayef/movienight/internal/notification"
	"github.com/fkhayef/movienight/internal/user"
	"github.com/fkhayef/movienight/pkg/logging"
	mw "github.com/fkhayef/movienight/pkg/middleware"
	"github.com/fkhayef/movienight/pkg/response"
)

// @title        Movie Night API
// @version      1.0
// @description  Groups take turns proposing movies, rate each other's picks and decide what to watch next.
// @host         localhost:8080
// @BasePath     /api
func main() {
	// Load .env file
	if err := godotenv.Load(); err != nil {
		slog.Info("No .env file found, using environment variables")
	}

	cfg := config.Load()
	logging.Setup(cfg.LogLevel, cfg.LogFormat)

	db, err := database.NewPostgresConnection(cfg.DatabaseURL)
	if err != nil {
		slog.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := database.Migrate(context.Background(), db); err != nil {
		slog.Error("Failed to migrate database", "error", err)
		os.Exit(1)
	}
	slog.Info("Connected to database successfully")

	store := sessions.NewCookieStore(cfg.SessionSecret)
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   30 * 24 * 60 * 60,
		HttpOnly: true,
		Secure:   cfg.SessionSecure,
		SameSite: http.SameSiteLaxMode,
	}

	// User feature
	userRepo := user.NewRepository(db)
	userService := user.NewService(userRepo)
	userHandler := user.NewHandler(userService, store)

	// Movie night transitions run in their own transactions
	nights := movienight.NewService(movienight.NewSQLRunner(db, cfg.TxMaxRetries), slog.Default())

	// Group feature
	groupRepo := group.NewRepository(db)
	groupService := group.NewService(groupRepo, group.NewSQLTransactor(db, cfg.TxMaxRetries), userRepo)
	groupHandler := group.NewHandler(groupService, nights)

	// Movie feature
	movieRepo := movie.NewRepository(db)
	movieService := movie.NewService(movieRepo, groupService)
	movieHandler := movie.NewHandler(movieService, nights)

	// Notification feature
	notificationRepo := notification.NewRepository(db)
	notificationService := notification.NewService(notificationRepo)
	notificationHandler := notification.NewHandler(notificationService)

	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(mw.RequestLogger)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Dev-User-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	})
	r.Handle("/metrics", promhttp.Handler())
	r.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))
	docs.SwaggerInfo.Host = ""

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		response.NotFound(w, "Route not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		response.Error(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "Method not allowed")
	})

	// API routes
	r.Route("/api", func(r chi.Router) {
		r.Use(mw.Session(store))
		if cfg.DevAuth {
			slog.Warn("DEV_AUTH enabled: X-Dev-User-ID header is trusted")
			r.Use(mw.DevUserHeader)
		}

		r.Mount("/auth", userHandler.Routes())

		r.Group(func(r chi.Router) {
			r.Use(mw.RequireUser)

			r.Mount("/movies", movieHandler.Routes())
			r.Mount("/groups", groupHandler.Routes())
			r.Mount("/notifications", notificationHandler.Routes())
		})
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		slog.Info("Server starting", "port", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	slog.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("Graceful shutdown failed", "error", err)
	}
}
