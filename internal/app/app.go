package app

import (
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/templui/profile/internal/config"
	"github.com/templui/profile/internal/db"
	"github.com/templui/profile/internal/repository"
	"github.com/templui/profile/internal/service"
	"github.com/templui/profile/internal/storage"
)

type App struct {
	Cfg           *config.Config
	DB            *sqlx.DB
	Storage       storage.Storage
	AuthService   *service.AuthService
	UserService   *service.UserService
	AvatarService *service.AvatarService
	EmailService  *service.EmailService
}

func New(cfg *config.Config) (*App, error) {
	// Initialize database
	database, err := db.Init(cfg.DBDriver, cfg.DBConnection)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	// Run database migrations
	err = db.RunMigrations(database.DB, cfg.DBDriver)
	if err != nil {
		_ = database.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	fileStorage, err := storage.New(cfg)
	if err != nil {
		_ = database.Close()
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}

	return Wire(cfg, database, fileStorage), nil
}

// Wire builds repositories and services on top of an open database and store.
func Wire(cfg *config.Config, database *sqlx.DB, fileStorage storage.Storage) *App {
	// Repositories
	userRepository := repository.NewUserRepository(database)
	avatarRepository := repository.NewAvatarRepository(database)

	// Services
	emailService := service.NewEmailService(
		cfg.ResendAPIKey,
		cfg.EmailFrom,
		cfg.AppURL,
		cfg.AppName,
		cfg.IsDevelopment(),
	)
	avatarService := service.NewAvatarService(avatarRepository, fileStorage)
	userService := service.NewUserService(userRepository, avatarService, emailService)
	authService := service.NewAuthService(
		userRepository,
		emailService,
		cfg.JWTSecret,
		cfg.IsProduction(),
		cfg.JWTExpiry,
	)

	return &App{
		Cfg:           cfg,
		DB:            database,
		Storage:       fileStorage,
		AuthService:   authService,
		UserService:   userService,
		AvatarService: avatarService,
		EmailService:  emailService,
	}
}

func (a *App) Close() error {
	return db.Close(a.DB)
}
