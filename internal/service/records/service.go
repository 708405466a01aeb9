package records

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/mamadbah2/freightledger/internal/domain/models"
	"github.com/mamadbah2/freightledger/internal/metrics"
	"github.com/mamadbah2/freightledger/internal/repository"
	"github.com/mamadbah2/freightledger/internal/repository/sheets"
)

// Mutation operation labels.
const (
	opCreate = "create"
	opUpdate = "update"
	opDelete = "delete"
)

// Service validates record input, derives the computed fields and writes
// through to the store. Store errors are returned as-is, never retried.
type Service struct {
	store   repository.RecordStore
	sheets  sheets.Repository
	metrics *metrics.Metrics
	logger  *zap.Logger
}

// NewService constructs a record command service. sheetsRepo may be nil when
// no spreadsheet is configured; Import then fails with ErrImportUnavailable.
func NewService(store repository.RecordStore, sheetsRepo sheets.Repository, m *metrics.Metrics, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		store:   store,
		sheets:  sheetsRepo,
		metrics: m,
		logger:  logger,
	}
}

// Create validates in and stores a new record.
func (s *Service) Create(ctx context.Context, in models.RecordInput) (models.Record, error) {
	fields, err := in.Fields()
	if err != nil {
		s.metrics.ObserveMutation(opCreate, metrics.ResultInvalid)
		return models.Record{}, err
	}

	id, err := s.store.Create(ctx, fields)
	if err != nil {
		s.metrics.ObserveMutation(opCreate, resultOf(err))
		s.logger.Error("failed to create record", zap.Error(err))
		return models.Record{}, fmt.Errorf("create record: %w", err)
	}
	s.metrics.ObserveMutation(opCreate, metrics.ResultOK)
	s.logger.Info("record created", zap.String("id", id), zap.Int64("supply_amount", fields.SupplyAmount))

	return s.reload(ctx, models.Record{ID: id, RecordFields: fields}), nil
}

// Update validates in and replaces the fields of record id.
func (s *Service) Update(ctx context.Context, id string, in models.RecordInput) (models.Record, error) {
	fields, err := in.Fields()
	if err != nil {
		s.metrics.ObserveMutation(opUpdate, metrics.ResultInvalid)
		return models.Record{}, err
	}

	if err := s.store.Update(ctx, id, fields); err != nil {
		s.metrics.ObserveMutation(opUpdate, resultOf(err))
		if !errors.Is(err, repository.ErrNotFound) {
			s.logger.Error("failed to update record", zap.String("id", id), zap.Error(err))
		}
		return models.Record{}, fmt.Errorf("update record %s: %w", id, err)
	}
	s.metrics.ObserveMutation(opUpdate, metrics.ResultOK)
	s.logger.Info("record updated", zap.String("id", id))

	return s.reload(ctx, models.Record{ID: id, RecordFields: fields}), nil
}

// Delete removes record id permanently.
func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.store.Delete(ctx, id); err != nil {
		s.metrics.ObserveMutation(opDelete, resultOf(err))
		if !errors.Is(err, repository.ErrNotFound) {
			s.logger.Error("failed to delete record", zap.String("id", id), zap.Error(err))
		}
		return fmt.Errorf("delete record %s: %w", id, err)
	}
	s.metrics.ObserveMutation(opDelete, metrics.ResultOK)
	s.logger.Info("record deleted", zap.String("id", id))
	return nil
}

// Get loads a single record with derived fields recomputed.
func (s *Service) Get(ctx context.Context, id string) (models.Record, error) {
	record, err := s.store.Get(ctx, id)
	if err != nil {
		return models.Record{}, fmt.Errorf("get record %s: %w", id, err)
	}
	return record.Normalize(), nil
}

// List loads every record with derived fields recomputed.
func (s *Service) List(ctx context.Context) ([]models.Record, error) {
	records, err := s.store.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list records: %w", err)
	}
	return models.NormalizeRecords(records), nil
}

// reload fetches the stored copy for its timestamps. The write already
// succeeded, so a failed read falls back to the local view.
func (s *Service) reload(ctx context.Context, local models.Record) models.Record {
	stored, err := s.store.Get(ctx, local.ID)
	if err != nil {
		s.logger.Warn("failed to reload record after write", zap.String("id", local.ID), zap.Error(err))
		return local
	}
	return stored.Normalize()
}

func resultOf(err error) string {
	switch {
	case errors.Is(err, models.ErrValidation):
		return metrics.ResultInvalid
	case errors.Is(err, repository.ErrNotFound):
		return metrics.ResultNotFound
	default:
		return metrics.ResultError
	}
}
