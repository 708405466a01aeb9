package repository

import (
	"context"
	"errors"

	"github.com/mamadbah2/freightledger/internal/domain/models"
)

// ErrNotFound is returned when a record id does not exist in the collection.
var ErrNotFound = errors.New("record not found")

// Subscription is a live feed of full record snapshots. Every change to the
// collection pushes the complete current set; slow readers only see the latest.
type Subscription interface {
	Snapshots() <-chan []models.Record
	Close() error
}

// Subscriber opens live feeds over the record collection.
type Subscriber interface {
	Subscribe(ctx context.Context) (Subscription, error)
}

// RecordStore defines the document store operations the ledger depends on.
type RecordStore interface {
	Subscriber

	Create(ctx context.Context, fields models.RecordFields) (string, error)
	Update(ctx context.Context, id string, fields models.RecordFields) error
	Delete(ctx context.Context, id string) error
	Get(ctx context.Context, id string) (models.Record, error)
	List(ctx context.Context) ([]models.Record, error)
}

// Latest replaces whatever is pending in a one-slot channel with snapshot so
// readers never fall behind. The channel must have capacity 1.
func Latest(ch chan []models.Record, snapshot []models.Record) {
	for {
		select {
		case ch <- snapshot:
			return
		default:
		}
		select {
		case <-ch:
		default:
		}
	}
}
