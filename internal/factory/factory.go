package factory

import (
	"errors"
	"io"
	"log/slog"

	"github.com/yuvrajy/SomethingFishy/internal/dependencies/clock"
	"github.com/yuvrajy/SomethingFishy/internal/dependencies/random"
	"github.com/yuvrajy/SomethingFishy/internal/model"
	"github.com/yuvrajy/SomethingFishy/internal/services/questions"
	"github.com/yuvrajy/SomethingFishy/internal/services/results"
	"github.com/yuvrajy/SomethingFishy/internal/services/roles"
	"github.com/yuvrajy/SomethingFishy/internal/services/room"
	"github.com/yuvrajy/SomethingFishy/internal/services/session"
	"github.com/yuvrajy/SomethingFishy/internal/services/view"
	"github.com/yuvrajy/SomethingFishy/internal/storage"
	"github.com/yuvrajy/SomethingFishy/internal/storage/memory"
	redisstorage "github.com/yuvrajy/SomethingFishy/internal/storage/redis"
	"github.com/yuvrajy/SomethingFishy/internal/web/ws"
)

// Storage type constants
const (
	StorageTypeMemory = "memory"
	StorageTypeRedis  = "redis"
)

// App contains all wired application components
type App struct {
	// Storage
	Storage storage.Storage

	// External dependencies
	Clock  clock.Clock
	Random random.Random

	// Services
	QuestionService *questions.Service
	RoleService     *roles.Service
	ResultsService  *results.Service
	ViewService     *view.Service
	SessionService  *session.Service
	RoomController  *room.Controller
	Hub             *ws.Hub
}

// Config holds configuration for the application factory
type Config struct {
	// SessionConfig holds configuration for the session service (optional)
	// If zero value, defaults to session.DefaultConfig()
	SessionConfig session.Config
	// Logger is the application logger (optional)
	// If nil, a no-op logger is used
	Logger *slog.Logger
	// RoomConfig overrides the config applied to newly created rooms
	// (optional). If nil, model.DefaultRoomConfig() is used.
	RoomConfig *model.RoomConfig
	// StorageType selects the storage backend ("memory" or "redis")
	// If empty, defaults to "memory"
	StorageType string
	// RedisConfig holds Redis connection settings (required if StorageType is "redis")
	RedisConfig *redisstorage.Config
}

// New creates a new application with all dependencies wired
func New(cfg Config) (*App, error) {
	// Use no-op logger if not provided
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}

	// Create storage based on type
	var store storage.Storage
	storageType := cfg.StorageType
	if storageType == "" {
		storageType = StorageTypeMemory
	}

	switch storageType {
	case StorageTypeMemory:
		store = memory.New()
	case StorageTypeRedis:
		if cfg.RedisConfig == nil {
			return nil, errors.New("RedisConfig required when StorageType is redis")
		}
		redisStore, err := redisstorage.New(*cfg.RedisConfig)
		if err != nil {
			return nil, err
		}
		store = redisStore
	default:
		return nil, errors.New("invalid StorageType: must be 'memory' or 'redis'")
	}

	// Create external dependencies
	clk := clock.New()
	rnd := random.New()

	// Use default session config if not provided
	sessionCfg := cfg.SessionConfig
	if sessionCfg.SessionDuration == 0 {
		sessionCfg = session.DefaultConfig()
	}

	app := newWithDependencies(store, clk, rnd, sessionCfg, logger)
	if cfg.RoomConfig != nil {
		app.RoomController.SetRoomConfig(*cfg.RoomConfig)
	}
	return app, nil
}

// newWithDependencies creates an App with the given dependencies (useful for testing)
func newWithDependencies(store storage.Storage, clk clock.Clock, rnd random.Random, sessionCfg session.Config, logger *slog.Logger) *App {
	// Create services
	questionService := questions.New(store, rnd)
	roleService := roles.New(rnd)
	resultsService := results.New(rnd)
	viewService := view.New()
	sessionService := session.New(clk, sessionCfg)
	roomController := room.NewController(store, questionService, roleService, resultsService, clk, rnd, logger)
	hub := ws.NewHub(roomController, viewService, clk, logger)

	return &App{
		Storage:         store,
		Clock:           clk,
		Random:          rnd,
		QuestionService: questionService,
		RoleService:     roleService,
		ResultsService:  resultsService,
		ViewService:     viewService,
		SessionService:  sessionService,
		RoomController:  roomController,
		Hub:             hub,
	}
}
