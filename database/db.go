package database

import (
	"context"
	"time"

	"tablebook/config"
	"tablebook/utils"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

// MongoClient holds the users database connection.
var MongoClient *mongo.Client

// InitDB connects to Mongo and pings it. Startup aborts when the database is unreachable.
func InitDB() {
	logger := utils.GetLogger()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	opts := options.Client().
		ApplyURI(config.AppConfig.DatabaseURL).
		SetAppName("tablebook").
		SetServerSelectionTimeout(5 * time.Second)
	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		logger.Fatal("database: connect failed", zap.Error(err))
	}
	if err := client.Ping(ctx, nil); err != nil {
		logger.Fatal("database: ping failed", zap.Error(err))
	}
	MongoClient = client
	logger.Info("database: connected", zap.String("database", config.AppConfig.DatabaseName))
}

// CloseDB disconnects on shutdown.
func CloseDB(ctx context.Context) error {
	if MongoClient == nil {
		return nil
	}
	return MongoClient.Disconnect(ctx)
}
