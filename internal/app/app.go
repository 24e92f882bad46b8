package app

import (
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"

	"github.com/cmxu/whereami/internal/gallery"
	"github.com/cmxu/whereami/internal/games"
	gateway "github.com/cmxu/whereami/internal/gateway/http"
	"github.com/cmxu/whereami/internal/repository/postgres"
	redisrepo "github.com/cmxu/whereami/internal/repository/redis"
	"github.com/cmxu/whereami/internal/repository/s3"
)

type App struct {
	gateway *gateway.Gateway
	db      *sql.DB
	imageKV *redis.Client
	gameKV  *redis.Client
}

func New() (*App, error) {
	config, err := LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	logger := slog.Default()

	storage, err := s3.New(s3.StorageConfig{
		Endpoint:     config.Storage.Endpoint,
		AccessKey:    config.Storage.AccessKey,
		AccessSecret: config.Storage.AccessSecret,
		Region:       config.Storage.Region,
		Bucket:       config.Storage.Bucket,
	})
	if err != nil {
		return nil, fmt.Errorf("storage: %w", err)
	}

	db, err := postgres.Open(config.Database.DSN)
	if err != nil {
		return nil, fmt.Errorf("database: %w", err)
	}

	imageKV := redis.NewClient(&redis.Options{
		Addr:     config.Cache.Address,
		Password: config.Cache.Password,
		DB:       config.Cache.ImageDB,
	})
	gameKV := redis.NewClient(&redis.Options{
		Addr:     config.Cache.Address,
		Password: config.Cache.Password,
		DB:       config.Cache.GameDB,
	})

	g := gallery.New(gallery.Config{
		Storage: storage,
		Images:  postgres.NewImageRepository(db),
		Logger:  logger,
	})

	s := games.New(games.Config{
		GameIndex:  redisrepo.NewGameIndex(gameKV),
		ImageIndex: redisrepo.NewImageIndex(imageKV),
		Games:      postgres.NewGameRepository(db),
		Users:      postgres.NewUserRepository(db),
		Logger:     logger,
	})

	return &App{
		gateway: gateway.New(gateway.GatewayConfig{
			Gallery: g,
			Games:   s,
			AuthURL: config.Auth.URL,
			Address: config.Gateway.Address,
			Logger:  logger,
		}),
		db:      db,
		imageKV: imageKV,
		gameKV:  gameKV,
	}, nil
}

func (a *App) Run() error {
	if err := a.gateway.Run(); err != nil {
		return fmt.Errorf("gateway run: %w", err)
	}

	return nil
}

func (a *App) Shutdown() error {
	if err := a.gateway.Shutdown(); err != nil {
		return fmt.Errorf("gateway shutdown: %w", err)
	}

	if err := a.db.Close(); err != nil {
		return fmt.Errorf("database close: %w", err)
	}

	if err := a.imageKV.Close(); err != nil {
		return fmt.Errorf("image kv close: %w", err)
	}

	if err := a.gameKV.Close(); err != nil {
		return fmt.Errorf("game kv close: %w", err)
	}

	return nil
}
