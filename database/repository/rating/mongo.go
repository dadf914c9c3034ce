package ratingRepo

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

// MongoRatingRepo implements RatingRepository using MongoDB.
type MongoRatingRepo struct {
	coll *mongo.Collection
}

// NewMongoRatingRepo creates a new instance of RatingRepository using MongoDB.
func NewMongoRatingRepo() RatingRepository {
	repo := &MongoRatingRepo{coll: database.Collection("ratings")}
	if err := repo.ensureIndexes(); err != nil {
		fmt.Printf("failed to create rating indexes: %v\n", err)
	}
	return repo
}

func newContext(timeout time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), timeout)
}

func (r *MongoRatingRepo) ensureIndexes() error {
	ctx, cancel := newContext(10 * time.Second)
	defer cancel()

	indexModels := []mongo.IndexModel{
		{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true)},
		// One rating per direction per contract.
		{
			Keys: bson.D{
				{Key: "contract_id", Value: 1},
				{Key: "rater_id", Value: 1},
				{Key: "rated_id", Value: 1},
			},
			Options: options.Index().SetUnique(true),
		},
		{Keys: bson.D{{Key: "service_id", Value: 1}}},
		{Keys: bson.D{{Key: "rated_id", Value: 1}}},
	}

	_, err := r.coll.Indexes().CreateMany(ctx, indexModels)
	if err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}
	return nil
}

func (r *MongoRatingRepo) Create(rating *models.Rating) error {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	now := time.Now()
	rating.CreatedAt = now
	rating.UpdatedAt = now

	if _, err := r.coll.InsertOne(ctx, rating); err != nil {
		return fmt.Errorf("failed to create rating: %w", err)
	}
	return nil
}

func (r *MongoRatingRepo) GetByID(id string) (*models.Rating, error) {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	var rating models.Rating
	if err := r.coll.FindOne(ctx, bson.M{"id": id}).Decode(&rating); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to fetch rating with id %s: %w", id, err)
	}
	return &rating, nil
}

func (r *MongoRatingRepo) GetByTriple(contractID, raterID, ratedID string) (*models.Rating, error) {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	filter := bson.M{"contract_id": contractID, "rater_id": raterID, "rated_id": ratedID}
	var rating models.Rating
	if err := r.coll.FindOne(ctx, filter).Decode(&rating); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to fetch rating for contract %s: %w", contractID, err)
	}
	return &rating, nil
}

func (r *MongoRatingRepo) list(filter bson.M) ([]models.Rating, error) {
	ctx, cancel := newContext(10 * time.Second)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve ratings: %w", err)
	}
	defer cursor.Close(ctx)

	var ratings []models.Rating
	if err := cursor.All(ctx, &ratings); err != nil {
		return nil, fmt.Errorf("failed to decode ratings: %w", err)
	}
	return ratings, nil
}

func (r *MongoRatingRepo) ListByService(serviceID string) ([]models.Rating, error) {
	return r.list(bson.M{"service_id": serviceID})
}

func (r *MongoRatingRepo) ListByRated(userID string) ([]models.Rating, error) {
	return r.list(bson.M{"rated_id": userID})
}

func (r *MongoRatingRepo) Update(rating *models.Rating) error {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	rating.UpdatedAt = time.Now()
	result, err := r.coll.UpdateOne(ctx, bson.M{"id": rating.ID}, bson.M{"$set": rating})
	if err != nil {
		return fmt.Errorf("failed to update rating with id %s: %w", rating.ID, err)
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("rating with id %s not found", rating.ID)
	}
	return nil
}

func (r *MongoRatingRepo) Delete(id string) error {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	result, err := r.coll.DeleteOne(ctx, bson.M{"id": id})
	if err != nil {
		return fmt.Errorf("failed to delete rating with id %s: %w", id, err)
	}
	if result.DeletedCount == 0 {
		return fmt.Errorf("rating with id %s not found", id)
	}
	return nil
}

// aggregate runs a $group over ratings matching the filter and returns the
// mean rating value and the contributing count.
func (r *MongoRatingRepo) aggregate(filter bson.M) (float64, int, error) {
	ctx, cancel := newContext(10 * time.Second)
	defer cancel()

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: filter}},
		{{Key: "$group", Value: bson.M{
			"_id":     nil,
			"average": bson.M{"$avg": "$rating_value"},
			"count":   bson.M{"$sum": 1},
		}}},
	}

	cursor, err := r.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to aggregate ratings: %w", err)
	}
	defer cursor.Close(ctx)

	var results []struct {
		Average float64 `bson:"average"`
		Count   int     `bson:"count"`
	}
	if err := cursor.All(ctx, &results); err != nil {
		return 0, 0, fmt.Errorf("failed to decode rating aggregate: %w", err)
	}
	if len(results) == 0 {
		return 0, 0, nil
	}
	return results[0].Average, results[0].Count, nil
}

func (r *MongoRatingRepo) AggregateForService(serviceID string) (float64, int, error) {
	return r.aggregate(bson.M{"service_id": serviceID})
}

func (r *MongoRatingRepo) AggregateForUser(ratedID string) (float64, int, error) {
	return r.aggregate(bson.M{"rated_id": ratedID})
}
