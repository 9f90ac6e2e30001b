package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoStore keeps scene records in a MongoDB collection, one document per
// scene with the UUID as _id. Use it for server deployments where several
// instances share one store.
type MongoStore struct {
	client *mongo.Client
	coll   *mongo.Collection
}

// MongoConfig configures the Mongo backend.
type MongoConfig struct {
	URI        string // e.g. "mongodb://localhost:27017"
	Database   string // e.g. "benchray"
	Collection string // defaults to "scenes"
}

// NewMongoStore connects to MongoDB and verifies the connection with a ping.
func NewMongoStore(ctx context.Context, cfg MongoConfig) (*MongoStore, error) {
	if cfg.Collection == "" {
		cfg.Collection = "scenes"
	}

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, fmt.Errorf("mongo connect %s: %w", cfg.URI, err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("mongo ping %s: %w", cfg.URI, err)
	}

	return &MongoStore{
		client: client,
		coll:   client.Database(cfg.Database).Collection(cfg.Collection),
	}, nil
}

// Save creates or updates a record via upsert on the UUID.
func (s *MongoStore) Save(ctx context.Context, rec Record) (Record, error) {
	now := time.Now().UTC()
	if rec.ID == "" {
		rec.ID = uuid.NewString()
		rec.CreatedAt = now
	}
	rec.UpdatedAt = now

	if rec.Name != "" {
		count, err := s.coll.CountDocuments(ctx, bson.M{
			"name": rec.Name,
			"_id":  bson.M{"$ne": rec.ID},
		})
		if err != nil {
			return Record{}, err
		}
		if count > 0 {
			return Record{}, ErrDuplicateName
		}
	}

	_, err := s.coll.ReplaceOne(ctx, bson.M{"_id": rec.ID}, rec, options.Replace().SetUpsert(true))
	if err != nil {
		return Record{}, err
	}
	return rec, nil
}

// Get retrieves a record by ID.
func (s *MongoStore) Get(ctx context.Context, id string) (Record, error) {
	var rec Record
	err := s.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&rec)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return Record{}, ErrNotFound
	}
	if err != nil {
		return Record{}, err
	}
	return rec, nil
}

// List returns all records sorted by name.
func (s *MongoStore) List(ctx context.Context) ([]Record, error) {
	cur, err := s.coll.Find(ctx, bson.M{}, options.Find().SetSort(bson.M{"name": 1}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var recs []Record
	if err := cur.All(ctx, &recs); err != nil {
		return nil, err
	}
	return recs, nil
}

// Delete removes a record.
func (s *MongoStore) Delete(ctx context.Context, id string) error {
	res, err := s.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// Close disconnects from MongoDB.
func (s *MongoStore) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

var _ Store = (*MongoStore)(nil)
