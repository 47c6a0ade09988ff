// Package mongo drives scripted load against a MongoDB deployment to
// provoke the conditions the provisioned alerts watch for. Demo/testing
// only; never point it at a production cluster.
package mongo

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

const (
	databaseName   = "alert_simulator_test"
	collectionName = "test_data"
	fullReadLimit  = 50
)

// LoadRepository implements domain.LoadRepository against a scratch
// database on the target deployment.
type LoadRepository struct {
	client *mongo.Client
	logger *slog.Logger
}

// NewLoadRepository connects to the deployment and verifies it responds.
func NewLoadRepository(ctx context.Context, uri string, logger *slog.Logger) (*LoadRepository, error) {
	client, err := mongo.Connect(options.Client().
		ApplyURI(uri).
		SetServerSelectionTimeout(10 * time.Second))
	if err != nil {
		return nil, fmt.Errorf("connect to deployment: %w", err)
	}

	repo := &LoadRepository{
		client: client,
		logger: logger.With("component", "mongo_load_repository"),
	}
	if err := repo.Ping(ctx); err != nil {
		_ = client.Disconnect(ctx)
		return nil, err
	}
	return repo, nil
}

// Close disconnects the underlying client.
func (r *LoadRepository) Close(ctx context.Context) error {
	return r.client.Disconnect(ctx)
}

func (r *LoadRepository) collection() *mongo.Collection {
	return r.client.Database(databaseName).Collection(collectionName)
}

// Ping verifies the deployment is reachable.
func (r *LoadRepository) Ping(ctx context.Context) error {
	if err := r.client.Ping(ctx, nil); err != nil {
		return fmt.Errorf("ping deployment: %w", err)
	}
	return nil
}

// SeedDocuments inserts count random documents in one batch.
func (r *LoadRepository) SeedDocuments(ctx context.Context, count int) error {
	docs := make([]any, count)
	for i := range docs {
		docs[i] = randomDocument()
	}
	if _, err := r.collection().InsertMany(ctx, docs); err != nil {
		return fmt.Errorf("seed documents: %w", err)
	}
	return nil
}

// CountDocuments returns the size of the scratch collection.
func (r *LoadRepository) CountDocuments(ctx context.Context) (int64, error) {
	n, err := r.collection().CountDocuments(ctx, bson.D{})
	if err != nil {
		return 0, fmt.Errorf("count documents: %w", err)
	}
	return n, nil
}

// RunAggregation executes one compute-heavy pipeline over the seeded data,
// the work unit of the CPU simulation.
func (r *LoadRepository) RunAggregation(ctx context.Context) error {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.D{{Key: "age", Value: bson.D{{Key: "$gte", Value: 20}}}}}},
		{{Key: "$addFields", Value: bson.D{
			{Key: "computed1", Value: bson.D{{Key: "$multiply", Value: bson.A{"$balance", "$age"}}}},
			{Key: "computed2", Value: bson.D{{Key: "$concat", Value: bson.A{"$name", " - ", "$email"}}}},
		}}},
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: "$status"},
			{Key: "total", Value: bson.D{{Key: "$sum", Value: "$balance"}}},
			{Key: "avg_age", Value: bson.D{{Key: "$avg", Value: "$age"}}},
			{Key: "count", Value: bson.D{{Key: "$sum", Value: 1}}},
		}}},
		{{Key: "$sort", Value: bson.D{{Key: "total", Value: -1}}}},
		{{Key: "$project", Value: bson.D{
			{Key: "status", Value: "$_id"},
			{Key: "total", Value: 1},
			{Key: "avg_age", Value: 1},
			{Key: "count", Value: 1},
			{Key: "ratio", Value: bson.D{{Key: "$divide", Value: bson.A{
				"$total", bson.D{{Key: "$add", Value: bson.A{"$count", 1}}},
			}}}},
		}}},
	}

	cursor, err := r.collection().Aggregate(ctx, pipeline)
	if err != nil {
		return fmt.Errorf("run aggregation: %w", err)
	}
	defer cursor.Close(ctx)

	var results []bson.M
	if err := cursor.All(ctx, &results); err != nil {
		return fmt.Errorf("drain aggregation cursor: %w", err)
	}
	return nil
}

// DropSecondaryIndexes removes every index except _id so subsequent queries
// must collection-scan. Returns the number of indexes dropped.
func (r *LoadRepository) DropSecondaryIndexes(ctx context.Context) (int, error) {
	cursor, err := r.collection().Indexes().List(ctx)
	if err != nil {
		return 0, fmt.Errorf("list indexes: %w", err)
	}
	defer cursor.Close(ctx)

	var indexes []bson.M
	if err := cursor.All(ctx, &indexes); err != nil {
		return 0, fmt.Errorf("drain index cursor: %w", err)
	}

	dropped := 0
	for _, index := range indexes {
		name, _ := index["name"].(string)
		if name == "" || name == "_id_" {
			continue
		}
		if err := r.collection().Indexes().DropOne(ctx, name); err != nil {
			return dropped, fmt.Errorf("drop index %s: %w", name, err)
		}
		dropped++
	}
	return dropped, nil
}

// RunScanQueries executes one round of queries on unindexed fields, each
// with a small limit so far more documents are scanned than returned.
// Returns the number of queries executed.
func (r *LoadRepository) RunScanQueries(ctx context.Context) (int, error) {
	filters := []bson.D{
		{{Key: "balance", Value: bson.D{{Key: "$gt", Value: 1000 + rand.Float64()*49000}}}},
		{{Key: "age", Value: bson.D{{Key: "$lt", Value: 30 + rand.IntN(31)}}}},
		{{Key: "status", Value: randomStatus()}},
		{{Key: "name", Value: bson.D{
			{Key: "$regex", Value: "^" + randomString(3)},
			{Key: "$options", Value: "i"},
		}}},
		{{Key: "metadata.version", Value: 1 + rand.IntN(50)}},
	}

	executed := 0
	for _, filter := range filters {
		cursor, err := r.collection().Find(ctx, filter, options.Find().SetLimit(5))
		if err != nil {
			return executed, fmt.Errorf("scan query: %w", err)
		}
		var docs []bson.M
		if err := cursor.All(ctx, &docs); err != nil {
			return executed, fmt.Errorf("drain scan cursor: %w", err)
		}
		executed++
	}
	return executed, nil
}

// InsertBatch inserts count random documents, the write-load work unit.
func (r *LoadRepository) InsertBatch(ctx context.Context, count int) error {
	return r.SeedDocuments(ctx, count)
}

// TouchActiveDocuments bumps every active document's version, forcing
// widespread in-place updates.
func (r *LoadRepository) TouchActiveDocuments(ctx context.Context) error {
	_, err := r.collection().UpdateMany(ctx,
		bson.D{{Key: "status", Value: "active"}},
		bson.D{
			{Key: "$inc", Value: bson.D{{Key: "metadata.version", Value: 1}}},
			{Key: "$set", Value: bson.D{{Key: "metadata.updated_at", Value: time.Now().UTC()}}},
		})
	if err != nil {
		return fmt.Errorf("touch active documents: %w", err)
	}
	return nil
}

// PruneYoungDocuments deletes a slice of documents to keep the collection
// from growing without bound during long write simulations.
func (r *LoadRepository) PruneYoungDocuments(ctx context.Context) error {
	_, err := r.collection().DeleteMany(ctx,
		bson.D{{Key: "age", Value: bson.D{{Key: "$lt", Value: 25}}}})
	if err != nil {
		return fmt.Errorf("prune documents: %w", err)
	}
	return nil
}

// RandomRead performs one point read on an unindexed field.
func (r *LoadRepository) RandomRead(ctx context.Context) error {
	filter := bson.D{{Key: "age", Value: 18 + rand.IntN(63)}}
	err := r.collection().FindOne(ctx, filter).Err()
	if err != nil && !errors.Is(err, mongo.ErrNoDocuments) {
		return fmt.Errorf("random read: %w", err)
	}
	return nil
}

// RangeScan reads a bounded range of documents by balance.
func (r *LoadRepository) RangeScan(ctx context.Context) error {
	filter := bson.D{{Key: "balance", Value: bson.D{{Key: "$gt", Value: rand.Float64() * 50000}}}}
	cursor, err := r.collection().Find(ctx, filter, options.Find().SetLimit(100))
	if err != nil {
		return fmt.Errorf("range scan: %w", err)
	}
	var docs []bson.M
	if err := cursor.All(ctx, &docs); err != nil {
		return fmt.Errorf("drain range cursor: %w", err)
	}
	return nil
}

// FullRead reads an unfiltered page of documents, forcing a scan from the
// start of the collection.
func (r *LoadRepository) FullRead(ctx context.Context) error {
	cursor, err := r.collection().Find(ctx, bson.D{}, options.Find().SetLimit(fullReadLimit))
	if err != nil {
		return fmt.Errorf("full read: %w", err)
	}
	var docs []bson.M
	if err := cursor.All(ctx, &docs); err != nil {
		return fmt.Errorf("drain full read cursor: %w", err)
	}
	return nil
}

// Cleanup drops the scratch database.
func (r *LoadRepository) Cleanup(ctx context.Context) error {
	if err := r.client.Database(databaseName).Drop(ctx); err != nil {
		return fmt.Errorf("drop scratch database: %w", err)
	}
	r.logger.Info("dropped scratch database", "database", databaseName)
	return nil
}
