package records

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/mamadbah2/freightledger/internal/domain/models"
	"github.com/mamadbah2/freightledger/internal/repository/sheets"
)

// ErrImportUnavailable is returned by Import when no spreadsheet is configured.
var ErrImportUnavailable = errors.New("spreadsheet import not configured")

// RowError explains why a sheet row was skipped. Row is 1-based within the range.
type RowError struct {
	Row    int    `json:"row"`
	Reason string `json:"reason"`
}

// ImportResult summarises a ledger import.
type ImportResult struct {
	Imported int        `json:"imported"`
	Skipped  int        `json:"skipped"`
	Errors   []RowError `json:"errors"`
}

// Import creates one record per valid row of sheetRange. Rows that fail to
// parse or validate are skipped and reported; a store failure aborts the run.
func (s *Service) Import(ctx context.Context, sheetRange string) (ImportResult, error) {
	result := ImportResult{Errors: []RowError{}}
	if s.sheets == nil {
		return result, ErrImportUnavailable
	}

	rows, err := s.sheets.ReadRange(ctx, sheetRange)
	if err != nil {
		return result, fmt.Errorf("import records: %w", err)
	}

	for i, row := range rows {
		in, err := sheets.ParseLedgerRow(row)
		if errors.Is(err, sheets.ErrBlankRow) {
			continue
		}
		if err != nil {
			result.skip(i+1, err)
			continue
		}

		if _, err := s.Create(ctx, in); err != nil {
			if errors.Is(err, models.ErrValidation) {
				result.skip(i+1, err)
				continue
			}
			return result, fmt.Errorf("import row %d: %w", i+1, err)
		}
		result.Imported++
	}

	s.logger.Info("ledger import finished",
		zap.String("range", sheetRange),
		zap.Int("imported", result.Imported),
		zap.Int("skipped", result.Skipped),
	)
	return result, nil
}

func (r *ImportResult) skip(row int, err error) {
	r.Skipped++
	r.Errors = append(r.Errors, RowError{Row: row, Reason: err.Error()})
}
