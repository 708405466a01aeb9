package mongodb

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"github.com/mamadbah2/freightledger/internal/config"
	"github.com/mamadbah2/freightledger/internal/domain/models"
)

const snapshotCollection = "report_snapshots"

// MongoDBRepository implements the record store and snapshot archive on MongoDB.
type MongoDBRepository struct {
	client       *mongo.Client
	records      *mongo.Collection
	snapshots    *mongo.Collection
	pollInterval time.Duration
	logger       *zap.Logger
	now          func() time.Time
}

// NewMongoDBRepository creates a new MongoDB repository.
func NewMongoDBRepository(ctx context.Context, cfg config.MongoDBConfig, logger *zap.Logger) (*MongoDBRepository, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	clientOptions := options.Client().ApplyURI(cfg.URI)
	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("failed to ping mongodb: %w", err)
	}

	db := client.Database(cfg.DBName)
	pollInterval := cfg.PollInterval
	if pollInterval <= 0 {
		pollInterval = 5 * time.Second
	}

	return &MongoDBRepository{
		client:       client,
		records:      db.Collection(cfg.Collection),
		snapshots:    db.Collection(snapshotCollection),
		pollInterval: pollInterval,
		logger:       logger,
		now:          time.Now,
	}, nil
}

// SaveReportSnapshot stores a closed monthly report.
func (r *MongoDBRepository) SaveReportSnapshot(ctx context.Context, snapshot models.ReportSnapshot) error {
	if snapshot.GeneratedAt.IsZero() {
		snapshot.GeneratedAt = r.now().UTC()
	}
	if _, err := r.snapshots.InsertOne(ctx, snapshot); err != nil {
		return fmt.Errorf("failed to insert report snapshot: %w", err)
	}
	return nil
}

// Close closes the MongoDB connection.
func (r *MongoDBRepository) Close(ctx context.Context) error {
	return r.client.Disconnect(ctx)
}
