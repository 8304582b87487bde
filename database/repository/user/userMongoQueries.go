package userRepo

import (
	"context"
	"fmt"

	"tablebook/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

func (r *MongoUserRepo) findOne(ctx context.Context, filter bson.M) (*models.User, error) {
	ctx, cancel := newContext(ctx, queryTimeout)
	defer cancel()

	var user models.User
	if err := r.coll.FindOne(ctx, filter).Decode(&user); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

// GetByID retrieves a user by its unique ID.
func (r *MongoUserRepo) GetByID(ctx context.Context, id string) (*models.User, error) {
	user, err := r.findOne(ctx, bson.M{"id": id})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch user with id %s: %w", id, err)
	}
	return user, nil
}

// GetByTelegramID retrieves the user bound to a Telegram account.
func (r *MongoUserRepo) GetByTelegramID(ctx context.Context, telegramID int64) (*models.User, error) {
	user, err := r.findOne(ctx, bson.M{"telegram_id": telegramID})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch user with telegram id %d: %w", telegramID, err)
	}
	return user, nil
}
