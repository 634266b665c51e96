package server

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"taskflow/internal/auth"
	"taskflow/internal/config"
	"taskflow/internal/handler"
	"taskflow/internal/middleware"
	"taskflow/internal/repository"
	"taskflow/migrations"

	"github.com/gin-gonic/gin"
	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

type Server struct {
	Engine *gin.Engine
	DB     *gorm.DB
	Config *config.Config
}

func Init(cfg *config.Config) (*Server, error) {
	// Token signing and the verifying middleware must use the same key
	auth.SetSecrets(cfg.AccessTokenSecret, cfg.RefreshTokenSecret)

	if err := runMigrations(cfg); err != nil {
		return nil, fmt.Errorf("❌ failed to run migrations: %w", err)
	}
	log.Println("✅ Migrations applied")

	// Setup GORM
	dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		cfg.DBHost, cfg.DBPort, cfg.DBUser, cfg.DBPassword, cfg.DBName,
	)
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("❌ failed to connect to DB: %w", err)
	}
	log.Println("✅ Connected to database")

	// Setup Gin
	r := gin.Default()

	// Initialize repositories
	userRepo := repository.NewUserRepository(db)
	taskRepo := repository.NewTaskRepository(db)
	teamRepo := repository.NewTeamRepository(db)
	historyRepo := repository.NewHistoryRepository(db)

	// Initialize handlers
	userHandler := handler.NewUserHandler(userRepo)
	taskHandler := handler.NewTaskHandler(taskRepo, teamRepo, userRepo)
	teamHandler := handler.NewTeamHandler(teamRepo, userRepo)
	historyHandler := handler.NewHistoryHandler(historyRepo, taskRepo, teamRepo)

	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	api := r.Group("/api/v1")

	// Public routes
	api.POST("/auth/register", userHandler.Register)
	api.POST("/auth/login", userHandler.Login)
	api.POST("/auth/refresh", userHandler.Refresh)

	// Protected routes - require authentication
	authorized := api.Group("/")
	authorized.Use(middleware.JWTAuthMiddleware(cfg.AccessTokenSecret))
	{
		authorized.POST("/auth/logout", userHandler.Logout)
		authorized.GET("/auth/me", userHandler.Me)

		// Task lifecycle routes
		authorized.GET("/tasks", taskHandler.List)
		authorized.POST("/tasks", middleware.RequireRoles("Manager"), taskHandler.Create)
		authorized.GET("/tasks/:id", taskHandler.GetByID)
		authorized.PATCH("/tasks/:id", taskHandler.Edit)
		authorized.DELETE("/tasks/:id", middleware.RequireRoles("Manager"), taskHandler.Delete)
		authorized.PATCH("/tasks/:id/start", middleware.RequireRoles("Developer"), taskHandler.Start)
		authorized.PATCH("/tasks/:id/submit", middleware.RequireRoles("Developer"), taskHandler.Submit)
		authorized.PATCH("/tasks/:id/review", middleware.RequireRoles("Manager"), taskHandler.Review)
		authorized.POST("/tasks/:id/recover", middleware.RequireRoles("Manager"), taskHandler.Recover)

		// History routes
		authorized.GET("/history", historyHandler.GetAll)
		authorized.GET("/history/:id", historyHandler.GetByTask)

		// Team routes
		authorized.GET("/team", middleware.RequireRoles("Manager"), teamHandler.GetMembers)
		authorized.GET("/team/developers", middleware.RequireRoles("Manager"), teamHandler.GetDevelopers)
		authorized.POST("/team/:developerId", middleware.RequireRoles("Manager"), teamHandler.AddMember)
	}

	return &Server{
		Engine: r,
		DB:     db,
		Config: cfg,
	}, nil
}

func runMigrations(cfg *config.Config) error {
	source, err := iofs.New(migrations.FS, ".")
	if err != nil {
		return err
	}

	url := fmt.Sprintf("pgx5://%s:%s@%s:%s/%s?sslmode=disable",
		cfg.DBUser, cfg.DBPassword, cfg.DBHost, cfg.DBPort, cfg.DBName,
	)
	m, err := migrate.NewWithSourceInstance("iofs", source, url)
	if err != nil {
		return err
	}
	defer m.Close()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return err
	}
	return nil
}

func (s *Server) Run() {
	srv := &http.Server{
		Addr:    ":" + s.Config.ServerPort,
		Handler: s.Engine,
	}

	go func() {
		log.Printf("🚀 Server running on port %s\n", s.Config.ServerPort)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("❌ Failed to listen: %s\n", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("🛑 Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("❌ Server forced to shutdown: %s", err)
	}

	log.Println("✅ Server exited properly")
}
