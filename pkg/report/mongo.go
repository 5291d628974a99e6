package report

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// RunsCollection is the collection records are stored in.
const RunsCollection = "runs"

// MongoArchive stores run records in MongoDB, keyed by run ID.
type MongoArchive struct {
	client *mongo.Client
	coll   *mongo.Collection
}

// NewMongoArchive connects to uri and verifies the primary answers.
func NewMongoArchive(ctx context.Context, uri, database string) (*MongoArchive, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("ping mongo: %w", err)
	}
	return &MongoArchive{
		client: client,
		coll:   client.Database(database).Collection(RunsCollection),
	}, nil
}

func (a *MongoArchive) Save(ctx context.Context, rec *Record) error {
	_, err := a.coll.ReplaceOne(ctx, bson.M{"_id": rec.RunID}, rec, options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("save run %s: %w", rec.RunID, err)
	}
	return nil
}

func (a *MongoArchive) Get(ctx context.Context, runID string) (*Record, error) {
	var rec Record
	err := a.coll.FindOne(ctx, bson.M{"_id": runID}).Decode(&rec)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get run %s: %w", runID, err)
	}
	return &rec, nil
}

// Close disconnects the client, waiting at most five seconds.
func (a *MongoArchive) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return a.client.Disconnect(ctx)
}

var _ Archive = (*MongoArchive)(nil)
