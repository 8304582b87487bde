package userRepo

import (
	"context"
	"time"

	"tablebook/config"
	"tablebook/database"
	"tablebook/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

const (
	usersCollection = "users"
	queryTimeout    = 5 * time.Second
)

// MongoUserRepo keeps mini-app users in the "users" collection, one document per Telegram account.
type MongoUserRepo struct {
	coll *mongo.Collection
}

// NewMongoUserRepo binds the repository to the configured database. Index creation failures are
// logged and do not stop startup.
func NewMongoUserRepo() UserRepository {
	coll := database.MongoClient.Database(config.AppConfig.DatabaseName).Collection(usersCollection)
	repo := &MongoUserRepo{coll: coll}

	ctx, cancel := newContext(context.Background(), 10*time.Second)
	defer cancel()
	names, err := coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true).SetName("uniq_id")},
		{Keys: bson.D{{Key: "telegram_id", Value: 1}}, Options: options.Index().SetUnique(true).SetName("uniq_telegram_id")},
	})
	if err != nil {
		utils.GetLogger().Warn("users: index creation failed", zap.Error(err))
	} else {
		utils.GetLogger().Debug("users: indexes ready", zap.Strings("indexes", names))
	}
	return repo
}

// newContext bounds a repository call by timeout.
func newContext(parent context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if parent == nil {
		parent = context.Background()
	}
	return context.WithTimeout(parent, timeout)
}
