package userRepo

import (
	"context"
	"fmt"
	"time"

	"tablebook/models"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// UpsertTelegramUser inserts or refreshes a user keyed by telegram_id.
func (r *MongoUserRepo) UpsertTelegramUser(ctx context.Context, user *models.User) (*models.User, error) {
	ctx, cancel := newContext(ctx, queryTimeout)
	defer cancel()

	now := time.Now()
	filter := bson.M{"telegram_id": user.TelegramID}
	update := bson.M{
		"$set": bson.M{
			"first_name":    user.FirstName,
			"last_name":     user.LastName,
			"username":      user.Username,
			"language_code": user.LanguageCode,
			"updated_at":    now,
		},
		"$setOnInsert": bson.M{
			"id":                  uuid.NewString(),
			"complete_onboarding": false,
			"created_at":          now,
		},
	}
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)

	var saved models.User
	if err := r.coll.FindOneAndUpdate(ctx, filter, update, opts).Decode(&saved); err != nil {
		return nil, fmt.Errorf("failed to upsert user with telegram id %d: %w", user.TelegramID, err)
	}
	return &saved, nil
}

func (r *MongoUserRepo) updateSet(ctx context.Context, id string, set bson.M) (*models.User, error) {
	ctx, cancel := newContext(ctx, queryTimeout)
	defer cancel()

	set["updated_at"] = time.Now()
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var user models.User
	err := r.coll.FindOneAndUpdate(ctx, bson.M{"id": id}, bson.M{"$set": set}, opts).Decode(&user)
	if err == mongo.ErrNoDocuments {
		return nil, fmt.Errorf("user with id %s: %w", id, ErrUserNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update user with id %s: %w", id, err)
	}
	return &user, nil
}

// SetPhone stores a normalised phone number.
func (r *MongoUserRepo) SetPhone(ctx context.Context, id, phone string) (*models.User, error) {
	return r.updateSet(ctx, id, bson.M{"phone_number": phone})
}

// CompleteOnboarding marks onboarding as done.
func (r *MongoUserRepo) CompleteOnboarding(ctx context.Context, id string) (*models.User, error) {
	return r.updateSet(ctx, id, bson.M{"complete_onboarding": true})
}
