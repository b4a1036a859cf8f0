package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	mongoDatabase   = "finebook"
	mongoCollection = "ledger_records"
)

// RecordCollection is the subset of *mongo.Collection the record store uses.
type RecordCollection interface {
	FindOne(ctx context.Context, filter interface{}, opts ...*options.FindOneOptions) *mongo.SingleResult
	ReplaceOne(ctx context.Context, filter interface{}, replacement interface{}, opts ...*options.ReplaceOptions) (*mongo.UpdateResult, error)
}

type recordDocument struct {
	ID        string    `bson:"_id"`
	Body      string    `bson:"body"`
	UpdatedAt time.Time `bson:"updatedAt"`
}

// MongoRecordStore keeps the durable record as one document whose body is the
// JSON record, so every backend stores byte-identical data.
type MongoRecordStore struct {
	coll RecordCollection
	key  string
}

func NewMongoRecordStore(coll RecordCollection) *MongoRecordStore {
	return &MongoRecordStore{coll: coll, key: LedgerRecordKey}
}

// ConnectMongo establishes a connection and returns the ledger record collection.
func ConnectMongo(ctx context.Context, uri string) (*mongo.Client, *mongo.Collection, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}
	return client, client.Database(mongoDatabase).Collection(mongoCollection), nil
}

func (s *MongoRecordStore) ReadRecord(ctx context.Context) ([]byte, error) {
	var doc recordDocument
	err := s.coll.FindOne(ctx, bson.M{"_id": s.key}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNoRecord
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read ledger record: %w", err)
	}
	return []byte(doc.Body), nil
}

func (s *MongoRecordStore) WriteRecord(ctx context.Context, data []byte) error {
	doc := recordDocument{ID: s.key, Body: string(data), UpdatedAt: time.Now().UTC()}
	_, err := s.coll.ReplaceOne(ctx, bson.M{"_id": s.key}, doc, options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("failed to write ledger record: %w", err)
	}
	return nil
}
