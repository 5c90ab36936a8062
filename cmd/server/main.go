// backend/cmd/server/main.go
package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"elearn-quiz/internal/auth"
	"elearn-quiz/internal/certificate"
	"elearn-quiz/internal/config"
	"elearn-quiz/internal/forum"
	"elearn-quiz/internal/models"
	"elearn-quiz/internal/quiz"
	"elearn-quiz/pkg/cache"
	"elearn-quiz/pkg/database"
	"elearn-quiz/pkg/websocket"

	"github.com/gorilla/mux"
	"github.com/rs/cors"
	"gorm.io/gorm"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	db, err := openDB(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}
	if err := database.SeedForumCategories(db); err != nil {
		log.Fatalf("Failed to seed forum categories: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Initialize Redis cache
	redisCache := cache.NewRedisCache(cfg.RedisAddr, cfg.DashboardCacheTTL)
	defer redisCache.Close()
	var dashboards quiz.DashboardCache = redisCache
	if err := redisCache.Ping(ctx); err != nil {
		log.Printf("Warning: redis unavailable at %s, dashboard cache disabled: %v", cfg.RedisAddr, err)
		dashboards = nil
	}

	authService := auth.NewService(auth.NewRepository(db), cfg.JWTSecret)

	wsHub := websocket.NewHub(authService, models.RoleInstructor, cfg.AllowedOrigins())
	go wsHub.Run(ctx)

	quizService := quiz.NewService(db, dashboards, wsHub)
	certService := certificate.NewService(db)
	forumService := forum.NewService(db)

	authHandler := auth.NewHandler(authService)
	quizHandler := quiz.NewHandler(quizService)
	certHandler := certificate.NewHandler(certService)
	forumHandler := forum.NewHandler(forumService)

	router := mux.NewRouter()

	// Auth routes - no JWT required
	router.HandleFunc("/api/auth/register", authHandler.Register).Methods("POST", "OPTIONS")
	router.HandleFunc("/api/auth/login", authHandler.Login).Methods("POST", "OPTIONS")

	instructorRouter := router.PathPrefix("/api/instructor").Subrouter()
	instructorRouter.Use(auth.JWTMiddleware(cfg.JWTSecret), auth.RequireRole(models.RoleInstructor))
	quizHandler.Register(instructorRouter)

	studentRouter := router.PathPrefix("/api/student").Subrouter()
	studentRouter.Use(auth.JWTMiddleware(cfg.JWTSecret), auth.RequireRole(models.RoleStudent))
	certHandler.Register(studentRouter)

	forumRouter := router.PathPrefix("/api/forum").Subrouter()
	forumRouter.Use(auth.JWTMiddleware(cfg.JWTSecret))
	forumHandler.Register(forumRouter)

	router.HandleFunc("/ws/dashboard", wsHub.HandleWebSocket)

	corsMiddleware := cors.New(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins(),
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization", "X-Requested-With"},
		ExposedHeaders:   []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           300,
	})

	srv := &http.Server{
		Addr:         cfg.ServerAddr,
		Handler:      corsMiddleware.Handler(router),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	go func() {
		log.Printf("Server starting on %s", cfg.ServerAddr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server forced to shutdown: %v", err)
	}

	log.Println("Server shutdown gracefully")
}

func openDB(cfg *config.Config) (*gorm.DB, error) {
	if cfg.DBDriver == "sqlite" {
		return database.NewSQLiteDB(cfg.DBPath)
	}
	return database.NewPostgresDB(&database.Config{
		Host:     cfg.DBHost,
		Port:     cfg.DBPort,
		User:     cfg.DBUser,
		Password: cfg.DBPassword,
		DBName:   cfg.DBName,
	})
}
