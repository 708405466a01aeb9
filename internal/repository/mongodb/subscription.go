package mongodb

import (
	"context"
	"fmt"
	"reflect"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"github.com/mamadbah2/freightledger/internal/domain/models"
	"github.com/mamadbah2/freightledger/internal/repository"
)

// Subscribe opens a live feed over the records collection. A change stream is
// used when the deployment supports it; standalone servers are polled.
func (r *MongoDBRepository) Subscribe(ctx context.Context) (repository.Subscription, error) {
	ctx, cancel := context.WithCancel(ctx)

	stream, err := r.records.Watch(ctx, mongo.Pipeline{}, options.ChangeStream())
	if err != nil {
		r.logger.Warn("change streams unavailable, polling records", zap.Error(err), zap.Duration("interval", r.pollInterval))
		stream = nil
	}

	initial, err := r.List(ctx)
	if err != nil {
		if stream != nil {
			_ = stream.Close(context.Background())
		}
		cancel()
		return nil, fmt.Errorf("load initial snapshot: %w", err)
	}

	sub := &subscription{
		ch:     make(chan []models.Record, 1),
		cancel: cancel,
		done:   make(chan struct{}),
	}
	repository.Latest(sub.ch, initial)

	go sub.run(ctx, r, stream, initial)

	return sub, nil
}

type subscription struct {
	ch     chan []models.Record
	cancel context.CancelFunc
	done   chan struct{}
	once   sync.Once
}

func (s *subscription) Snapshots() <-chan []models.Record { return s.ch }

// Close stops the feed and waits for the reader goroutine to exit.
func (s *subscription) Close() error {
	s.once.Do(func() {
		s.cancel()
		<-s.done
	})
	return nil
}

func (s *subscription) run(ctx context.Context, r *MongoDBRepository, stream *mongo.ChangeStream, last []models.Record) {
	defer close(s.done)
	defer close(s.ch)

	if stream != nil {
		last = s.follow(ctx, r, stream, last)
		if ctx.Err() != nil {
			return
		}
	}
	s.poll(ctx, r, last)
}

// follow reloads the collection after every change event. It returns when the
// stream dies so the caller can fall back to polling.
func (s *subscription) follow(ctx context.Context, r *MongoDBRepository, stream *mongo.ChangeStream, last []models.Record) []models.Record {
	defer func() { _ = stream.Close(context.Background()) }()

	for stream.Next(ctx) {
		records, err := r.List(ctx)
		if err != nil {
			r.logger.Error("failed to reload records after change", zap.Error(err))
			continue
		}
		repository.Latest(s.ch, records)
		last = records
	}
	if err := stream.Err(); err != nil && ctx.Err() == nil {
		r.logger.Warn("change stream closed, switching to polling", zap.Error(err))
	}
	return last
}

func (s *subscription) poll(ctx context.Context, r *MongoDBRepository, last []models.Record) {
	ticker := time.NewTicker(r.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			records, err := r.List(ctx)
			if err != nil {
				if ctx.Err() == nil {
					r.logger.Error("failed to poll records", zap.Error(err))
				}
				continue
			}
			if reflect.DeepEqual(records, last) {
				continue
			}
			repository.Latest(s.ch, records)
			last = records
		}
	}
}
