package database

import (
	"context"
	"fmt"
	"time"

	"cinema_reservation/config"
	"cinema_reservation/logger"
	"cinema_reservation/model"
	"cinema_reservation/repository"

	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var (
	DB    *gorm.DB
	Mongo *mongo.Database
	Redis *redis.Client
)

var mongoClient *mongo.Client

// Models lists every relational table, in migration order.
func Models() []any {
	return []any{
		&model.User{},
		&model.PasswordResetToken{},
		&model.Category{},
		&model.Movie{},
		&model.Cinema{},
		&model.Room{},
		&model.Seat{},
		&model.Session{},
		&model.TimeRange{},
		&model.SeatStatus{},
	}
}

func ConnectDB(s config.DatabaseSettings) error {
	db, err := gorm.Open(postgres.Open(s.DSN()), &gorm.Config{})
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	logger.Log.Info("connection opened to database", zap.String("host", s.Host), zap.String("name", s.Name))

	if err := db.AutoMigrate(Models()...); err != nil {
		return fmt.Errorf("migrate database: %w", err)
	}
	logger.Log.Info("database migrated")

	DB = db
	SeedData(db)
	return nil
}

func ConnectMongo(ctx context.Context, s config.MongoSettings) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(s.URI))
	if err != nil {
		return fmt.Errorf("connect mongo: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		return fmt.Errorf("ping mongo: %w", err)
	}
	db := client.Database(s.Database)
	if err := repository.EnsureIndexes(ctx, db); err != nil {
		return fmt.Errorf("mongo indexes: %w", err)
	}
	logger.Log.Info("connection opened to mongo", zap.String("database", s.Database))

	mongoClient = client
	Mongo = db
	return nil
}

func ConnectRedis(ctx context.Context, s config.RedisSettings) error {
	client := redis.NewClient(&redis.Options{
		Addr:     s.Addr,
		Password: s.Password,
		DB:       s.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("connect redis: %w", err)
	}
	logger.Log.Info("connection opened to redis", zap.String("addr", s.Addr))
	Redis = client
	return nil
}

// Close releases every open connection.
func Close(ctx context.Context) {
	if mongoClient != nil {
		if err := mongoClient.Disconnect(ctx); err != nil {
			logger.Log.Warn("disconnect mongo", zap.Error(err))
		}
	}
	if Redis != nil {
		if err := Redis.Close(); err != nil {
			logger.Log.Warn("close redis", zap.Error(err))
		}
	}
	if DB != nil {
		if sqlDB, err := DB.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}
}
