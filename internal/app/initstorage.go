package app

import (
	"context"
	"fmt"

	"github.com/IT-Nick/veritasbot/internal/infra/config"
	"github.com/IT-Nick/veritasbot/internal/infra/storage"
	"github.com/go-redis/redis/v8"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// InitStorage создает хранилище клиентского состояния по storage.type
func InitStorage(ctx context.Context, cfg *config.Config, logger *zap.Logger) (storage.Store, error) {
	const op = "app.InitStorage"

	switch cfg.Storage.Type {
	case "json":
		store, err := storage.NewJSONStore(cfg.Storage.File)
		if err != nil {
			return nil, fmt.Errorf("%s: failed to open json storage: %w", op, err)
		}
		logger.Info("json storage opened", zap.String("file", cfg.Storage.File))
		return store, nil
	case "postgres":
		db, err := InitDatabase(ctx, cfg, logger)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		store, err := storage.NewPostgresStore(ctx, db)
		if err != nil {
			db.Close()
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		return store, nil
	case "redis":
		rdb, err := InitRedis(ctx, cfg, logger)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		return storage.NewRedisStore(rdb), nil
	default:
		logger.Warn("memory storage: chat sessions are lost on restart")
		return storage.NewMemoryStore(), nil
	}
}

// InitDatabase устанавливает подключение к базе данных
func InitDatabase(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*pgxpool.Pool, error) {
	const op = "app.InitDatabase"
	dbCfg := cfg.Storage.Database

	connConfig, err := pgxpool.ParseConfig(fmt.Sprintf("postgres://%s:%s@%s:%s/%s",
		dbCfg.User, dbCfg.Password, dbCfg.Host, dbCfg.Port, dbCfg.Name))
	if err != nil {
		return nil, fmt.Errorf("%s: failed to parse database config: %w", op, err)
	}

	db, err := pgxpool.NewWithConfig(ctx, connConfig)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to create database pool: %w", op, err)
	}

	if err := db.Ping(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("%s: failed to ping database: %w", op, err)
	}

	logger.Info("database connected", zap.String("host", dbCfg.Host), zap.String("db", dbCfg.Name))
	return db, nil
}

// InitRedis подключается к Redis и проверяет соединение
func InitRedis(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*redis.Client, error) {
	const op = "app.InitRedis"
	redisCfg := cfg.Storage.Redis

	rdb := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", redisCfg.Host, redisCfg.Port),
		Password: redisCfg.Password,
		DB:       redisCfg.DB,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("%s: failed to ping redis: %w", op, err)
	}

	logger.Info("redis connected", zap.String("addr", rdb.Options().Addr))
	return rdb, nil
}
