package imageRepo

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

// MongoImageRepo implements ImageRepository using MongoDB.
type MongoImageRepo struct {
	coll *mongo.Collection
}

// NewMongoImageRepo creates a new instance of ImageRepository using MongoDB.
func NewMongoImageRepo() ImageRepository {
	repo := &MongoImageRepo{coll: database.Collection("service_images")}
	if err := repo.ensureIndexes(); err != nil {
		fmt.Printf("failed to create image indexes: %v\n", err)
	}
	return repo
}

func newContext(timeout time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), timeout)
}

func (r *MongoImageRepo) ensureIndexes() error {
	ctx, cancel := newContext(10 * time.Second)
	defer cancel()

	indexModels := []mongo.IndexModel{
		{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "service_id", Value: 1}}},
	}

	_, err := r.coll.Indexes().CreateMany(ctx, indexModels)
	if err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}
	return nil
}

func (r *MongoImageRepo) Create(image *models.ServiceImage) error {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	now := time.Now()
	image.CreatedAt = now
	image.UpdatedAt = now

	if _, err := r.coll.InsertOne(ctx, image); err != nil {
		return fmt.Errorf("failed to create service image: %w", err)
	}
	return nil
}

func (r *MongoImageRepo) GetByID(id string) (*models.ServiceImage, error) {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	var image models.ServiceImage
	if err := r.coll.FindOne(ctx, bson.M{"id": id}).Decode(&image); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to fetch service image with id %s: %w", id, err)
	}
	return &image, nil
}

func (r *MongoImageRepo) ListByService(serviceID string) ([]models.ServiceImage, error) {
	ctx, cancel := newContext(10 * time.Second)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "display_order", Value: 1}})
	cursor, err := r.coll.Find(ctx, bson.M{"service_id": serviceID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve service images: %w", err)
	}
	defer cursor.Close(ctx)

	var images []models.ServiceImage
	if err := cursor.All(ctx, &images); err != nil {
		return nil, fmt.Errorf("failed to decode service images: %w", err)
	}
	return images, nil
}

// ClearPrimary unsets the primary flag on all of a service's images.
func (r *MongoImageRepo) ClearPrimary(serviceID string) error {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	update := bson.M{"$set": bson.M{"is_primary": false, "updated_at": time.Now()}}
	_, err := r.coll.UpdateMany(ctx, bson.M{"service_id": serviceID, "is_primary": true}, update)
	if err != nil {
		return fmt.Errorf("failed to clear primary image for service %s: %w", serviceID, err)
	}
	return nil
}

func (r *MongoImageRepo) Delete(id string) error {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	result, err := r.coll.DeleteOne(ctx, bson.M{"id": id})
	if err != nil {
		return fmt.Errorf("failed to delete service image with id %s: %w", id, err)
	}
	if result.DeletedCount == 0 {
		return fmt.Errorf("service image with id %s not found", id)
	}
	return nil
}

func (r *MongoImageRepo) DeleteByService(serviceID string) error {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	if _, err := r.coll.DeleteMany(ctx, bson.M{"service_id": serviceID}); err != nil {
		return fmt.Errorf("failed to delete images for service %s: %w", serviceID, err)
	}
	return nil
}
