package app

import (
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/toucann/taskengine/internal/config"
	"github.com/toucann/taskengine/internal/db"
	"github.com/toucann/taskengine/internal/events"
	"github.com/toucann/taskengine/internal/repository"
	"github.com/toucann/taskengine/internal/service"
)

type App struct {
	Cfg           *config.Config
	DB            *sqlx.DB
	Publisher     events.Publisher
	AuthService   *service.AuthService
	GoalService   *service.GoalService
	TaskService   *service.TaskService
	ChainAdvancer *service.ChainAdvancer

	redis *events.RedisPublisher
}

func New(cfg *config.Config) (*App, error) {
	// Initialize database
	database, err := db.Init(cfg.DBDriver, cfg.DBConnection)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %v", err)
	}

	// Run database migrations
	if cfg.AutoMigrate {
		err = db.RunMigrations(database.DB, cfg.DBDriver)
		if err != nil {
			database.Close()
			return nil, fmt.Errorf("failed to run migrations: %v", err)
		}
	}

	// Events
	var publisher events.Publisher = events.NewLogPublisher()
	var redisPublisher *events.RedisPublisher
	if cfg.RedisURL != "" {
		redisPublisher, err = events.NewRedisPublisher(cfg.RedisURL, cfg.EventsChannel)
		if err != nil {
			database.Close()
			return nil, fmt.Errorf("failed to initialize event publisher: %v", err)
		}
		publisher = redisPublisher
	}

	a := NewWithDB(cfg, database, publisher)
	a.redis = redisPublisher

	return a, nil
}

// NewWithDB wires repositories and services over an open database.
func NewWithDB(cfg *config.Config, database *sqlx.DB, publisher events.Publisher) *App {
	// Repositories
	goalRepository := repository.NewGoalRepository(database)
	progressRepository := repository.NewProgressRepository(database)
	goalStateRepository := repository.NewGoalStateRepository(database)

	// Services
	chainAdvancer := service.NewChainAdvancer(goalStateRepository, publisher, cfg.ChainMode)
	taskService := service.NewTaskService(
		goalRepository,
		progressRepository,
		goalStateRepository,
		chainAdvancer,
		publisher,
	)
	goalService := service.NewGoalService(goalRepository)
	authService := service.NewAuthService(cfg.JWTSecret, cfg.JWTExpiry)

	return &App{
		Cfg:           cfg,
		DB:            database,
		Publisher:     publisher,
		AuthService:   authService,
		GoalService:   goalService,
		TaskService:   taskService,
		ChainAdvancer: chainAdvancer,
	}
}

func (a *App) Close() error {
	if a.redis != nil {
		_ = a.redis.Close()
	}
	if a.DB != nil {
		return a.DB.Close()
	}
	return nil
}
