package contractRepo

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

// MongoContractRepo implements ContractRepository using MongoDB.
type MongoContractRepo struct {
	coll *mongo.Collection
}

// NewMongoContractRepo creates a new instance of ContractRepository using MongoDB.
func NewMongoContractRepo() ContractRepository {
	repo := &MongoContractRepo{coll: database.Collection("contracts")}
	if err := repo.ensureIndexes(); err != nil {
		fmt.Printf("failed to create contract indexes: %v\n", err)
	}
	return repo
}

func newContext(timeout time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), timeout)
}

func (r *MongoContractRepo) ensureIndexes() error {
	ctx, cancel := newContext(10 * time.Second)
	defer cancel()

	indexModels := []mongo.IndexModel{
		{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "client_id", Value: 1}}},
		{Keys: bson.D{{Key: "provider_id", Value: 1}}},
		{Keys: bson.D{{Key: "service_id", Value: 1}}},
		{Keys: bson.D{{Key: "status", Value: 1}}},
	}

	_, err := r.coll.Indexes().CreateMany(ctx, indexModels)
	if err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}
	return nil
}

func (r *MongoContractRepo) Create(contract *models.Contract) error {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	now := time.Now()
	contract.CreatedAt = now
	contract.UpdatedAt = now
	contract.Version = 1

	if _, err := r.coll.InsertOne(ctx, contract); err != nil {
		return fmt.Errorf("failed to create contract: %w", err)
	}
	return nil
}

func (r *MongoContractRepo) GetByID(id string) (*models.Contract, error) {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	var contract models.Contract
	if err := r.coll.FindOne(ctx, bson.M{"id": id}).Decode(&contract); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to fetch contract with id %s: %w", id, err)
	}
	return &contract, nil
}

// List retrieves contracts matching the filter, newest first.
func (r *MongoContractRepo) List(filter models.ContractFilter) ([]models.Contract, error) {
	ctx, cancel := newContext(10 * time.Second)
	defer cancel()

	query := bson.M{}
	if filter.ClientID != "" {
		query["client_id"] = filter.ClientID
	}
	if filter.ProviderID != "" {
		query["provider_id"] = filter.ProviderID
	}
	if filter.ParticipantID != "" {
		query["$or"] = []bson.M{
			{"client_id": filter.ParticipantID},
			{"provider_id": filter.ParticipantID},
		}
	}
	if filter.Status != "" {
		query["status"] = filter.Status
	}

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := r.coll.Find(ctx, query, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve contracts: %w", err)
	}
	defer cursor.Close(ctx)

	var contracts []models.Contract
	if err := cursor.All(ctx, &contracts); err != nil {
		return nil, fmt.Errorf("failed to decode contracts: %w", err)
	}
	return contracts, nil
}

// ReplaceVersioned persists the contract with a check-and-set on the version
// field read by the caller.
func (r *MongoContractRepo) ReplaceVersioned(contract *models.Contract) error {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	readVersion := contract.Version
	contract.Version = readVersion + 1
	contract.UpdatedAt = time.Now()

	filter := bson.M{"id": contract.ID, "version": readVersion}
	result, err := r.coll.ReplaceOne(ctx, filter, contract)
	if err != nil {
		contract.Version = readVersion
		return fmt.Errorf("failed to update contract with id %s: %w", contract.ID, err)
	}
	if result.MatchedCount == 0 {
		contract.Version = readVersion
		count, err := r.coll.CountDocuments(ctx, bson.M{"id": contract.ID})
		if err != nil {
			return fmt.Errorf("failed to update contract with id %s: %w", contract.ID, err)
		}
		if count == 0 {
			return fmt.Errorf("contract with id %s not found", contract.ID)
		}
		return ErrVersionConflict
	}
	return nil
}

func (r *MongoContractRepo) Delete(id string) error {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	result, err := r.coll.DeleteOne(ctx, bson.M{"id": id})
	if err != nil {
		return fmt.Errorf("failed to delete contract with id %s: %w", id, err)
	}
	if result.DeletedCount == 0 {
		return fmt.Errorf("contract with id %s not found", id)
	}
	return nil
}
