package store

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/healthhub-app/healthhub/backend/internal/models"
)

// MongoStore keeps the history of diet suggestions in MongoDB.
type MongoStore struct {
	col *mongo.Collection
}

func NewMongoStore(db *mongo.Database) *MongoStore {
	return &MongoStore{col: db.Collection("advice")}
}

func (s *MongoStore) Insert(ctx context.Context, entry *models.AdviceEntry) (string, error) {
	entry.CreatedAt = time.Now()
	res, err := s.col.InsertOne(ctx, entry)
	if err != nil {
		return "", fmt.Errorf("mongo insert: %w", err)
	}
	oid := res.InsertedID.(primitive.ObjectID)
	return oid.Hex(), nil
}

func (s *MongoStore) ListByUser(ctx context.Context, username string) ([]models.AdviceEntry, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cur, err := s.col.Find(ctx, bson.M{"username": username}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var entries []models.AdviceEntry
	if err := cur.All(ctx, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}
