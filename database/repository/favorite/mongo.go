package favoriteRepo

import (
	"context"
	"fmt"
	"time"

	"servimarket/database"
	"servimarket/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoFavoriteRepo implements FavoriteRepository using MongoDB.
type MongoFavoriteRepo struct {
	coll *mongo.Collection
}

// NewMongoFavoriteRepo creates a new instance of FavoriteRepository using MongoDB.
func NewMongoFavoriteRepo() FavoriteRepository {
	repo := &MongoFavoriteRepo{coll: database.Collection("favorites")}
	if err := repo.ensureIndexes(); err != nil {
		fmt.Printf("failed to create favorite indexes: %v\n", err)
	}
	return repo
}

func newContext(timeout time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), timeout)
}

func (r *MongoFavoriteRepo) ensureIndexes() error {
	ctx, cancel := newContext(10 * time.Second)
	defer cancel()

	indexModels := []mongo.IndexModel{
		{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true)},
		// A user may favorite a service only once.
		{
			Keys:    bson.D{{Key: "user_id", Value: 1}, {Key: "service_id", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
	}

	_, err := r.coll.Indexes().CreateMany(ctx, indexModels)
	if err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}
	return nil
}

func (r *MongoFavoriteRepo) Create(favorite *models.Favorite) error {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	favorite.CreatedAt = time.Now()
	if _, err := r.coll.InsertOne(ctx, favorite); err != nil {
		return fmt.Errorf("failed to create favorite: %w", err)
	}
	return nil
}

func (r *MongoFavoriteRepo) Get(userID, serviceID string) (*models.Favorite, error) {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	var favorite models.Favorite
	filter := bson.M{"user_id": userID, "service_id": serviceID}
	if err := r.coll.FindOne(ctx, filter).Decode(&favorite); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to fetch favorite: %w", err)
	}
	return &favorite, nil
}

func (r *MongoFavoriteRepo) ListForUser(userID string) ([]models.Favorite, error) {
	ctx, cancel := newContext(10 * time.Second)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := r.coll.Find(ctx, bson.M{"user_id": userID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve favorites: %w", err)
	}
	defer cursor.Close(ctx)

	var favorites []models.Favorite
	if err := cursor.All(ctx, &favorites); err != nil {
		return nil, fmt.Errorf("failed to decode favorites: %w", err)
	}
	return favorites, nil
}

func (r *MongoFavoriteRepo) Delete(userID, serviceID string) error {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	result, err := r.coll.DeleteOne(ctx, bson.M{"user_id": userID, "service_id": serviceID})
	if err != nil {
		return fmt.Errorf("failed to delete favorite: %w", err)
	}
	if result.DeletedCount == 0 {
		return fmt.Errorf("favorite not found")
	}
	return nil
}
