package mongodb

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/mamadbah2/freightledger/internal/domain/models"
	"github.com/mamadbah2/freightledger/internal/repository"
)

// Create inserts a new record and returns its ObjectID as hex.
func (r *MongoDBRepository) Create(ctx context.Context, fields models.RecordFields) (string, error) {
	now := r.now().UTC()
	doc := struct {
		recordWrite `bson:",inline"`
		CreatedAt   primitive.DateTime `bson:"created_at"`
		UpdatedAt   primitive.DateTime `bson:"updated_at"`
	}{
		recordWrite: newRecordWrite(fields),
		CreatedAt:   primitive.NewDateTimeFromTime(now),
		UpdatedAt:   primitive.NewDateTimeFromTime(now),
	}

	res, err := r.records.InsertOne(ctx, doc)
	if err != nil {
		return "", fmt.Errorf("failed to insert record: %w", err)
	}
	oid, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return "", fmt.Errorf("unexpected inserted id type %T", res.InsertedID)
	}
	return oid.Hex(), nil
}

// Update replaces the record body and bumps updated_at. created_at is kept.
func (r *MongoDBRepository) Update(ctx context.Context, id string, fields models.RecordFields) error {
	oid, err := objectID(id)
	if err != nil {
		return err
	}

	set := struct {
		recordWrite `bson:",inline"`
		UpdatedAt   primitive.DateTime `bson:"updated_at"`
	}{
		recordWrite: newRecordWrite(fields),
		UpdatedAt:   primitive.NewDateTimeFromTime(r.now().UTC()),
	}

	res, err := r.records.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$set": set})
	if err != nil {
		return fmt.Errorf("failed to update record %s: %w", id, err)
	}
	if res.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// Delete removes a record permanently.
func (r *MongoDBRepository) Delete(ctx context.Context, id string) error {
	oid, err := objectID(id)
	if err != nil {
		return err
	}

	res, err := r.records.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("failed to delete record %s: %w", id, err)
	}
	if res.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// Get loads a single record.
func (r *MongoDBRepository) Get(ctx context.Context, id string) (models.Record, error) {
	oid, err := objectID(id)
	if err != nil {
		return models.Record{}, err
	}

	var doc recordDocument
	if err := r.records.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return models.Record{}, repository.ErrNotFound
		}
		return models.Record{}, fmt.Errorf("failed to load record %s: %w", id, err)
	}
	return doc.toRecord(), nil
}

// List loads the whole collection in insertion order.
func (r *MongoDBRepository) List(ctx context.Context) ([]models.Record, error) {
	cursor, err := r.records.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("failed to query records: %w", err)
	}
	defer cursor.Close(ctx)

	records := make([]models.Record, 0)
	for cursor.Next(ctx) {
		var doc recordDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("failed to decode record: %w", err)
		}
		records = append(records, doc.toRecord())
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("failed to read records: %w", err)
	}
	return records, nil
}

// Ids that are not ObjectIDs cannot exist in the collection.
func objectID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, repository.ErrNotFound
	}
	return oid, nil
}
