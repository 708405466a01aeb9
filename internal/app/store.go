// Package app assembles the collaborators shared by the server and the CLI.
package app

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/mamadbah2/freightledger/internal/config"
	"github.com/mamadbah2/freightledger/internal/repository"
	"github.com/mamadbah2/freightledger/internal/repository/memory"
	"github.com/mamadbah2/freightledger/internal/repository/mongodb"
	"github.com/mamadbah2/freightledger/internal/repository/sheets"
	"github.com/mamadbah2/freightledger/internal/scheduler"
)

// Stores holds the opened persistence adapters. Snapshots and Sheets are nil
// when their backend is not configured.
type Stores struct {
	Records   repository.RecordStore
	Snapshots scheduler.SnapshotStore
	Sheets    sheets.Repository
	close     func(context.Context) error
}

// Close releases the underlying connections.
func (s *Stores) Close(ctx context.Context) error {
	if s.close == nil {
		return nil
	}
	return s.close(ctx)
}

// OpenStores connects the record store selected by cfg and, when configured,
// the spreadsheet.
func OpenStores(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Stores, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	stores := &Stores{}

	switch cfg.Store.Backend {
	case config.BackendMemory:
		logger.Warn("using in-memory record store, data is lost on exit")
		stores.Records = memory.New()
	case config.BackendMongoDB:
		repo, err := mongodb.NewMongoDBRepository(ctx, cfg.MongoDB, logger.Named("repo.mongodb"))
		if err != nil {
			return nil, err
		}
		stores.Records = repo
		stores.Snapshots = repo
		stores.close = repo.Close
	default:
		return nil, fmt.Errorf("unsupported store backend %q", cfg.Store.Backend)
	}

	if cfg.Sheets.Enabled() {
		repo, err := sheets.NewGoogleSheetRepository(ctx, cfg.Sheets, logger.Named("repo.sheets"))
		if err != nil {
			_ = stores.Close(ctx)
			return nil, err
		}
		stores.Sheets = repo
	} else {
		logger.Info("google sheets not configured, export and import disabled")
	}

	return stores, nil
}
