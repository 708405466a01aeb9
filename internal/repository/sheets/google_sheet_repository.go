package sheets

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"google.golang.org/api/option"
	sheetsapi "google.golang.org/api/sheets/v4"

	"github.com/mamadbah2/freightledger/internal/config"
)

// ErrEmptyRange is returned when an export or import is given no A1 range.
var ErrEmptyRange = errors.New("sheet range is empty")

// Repository is the spreadsheet side of the ledger: monthly reports are
// appended to it and legacy ledger rows are read back from it.
type Repository interface {
	WriteRows(ctx context.Context, sheetRange string, rows [][]interface{}) error
	ReadRange(ctx context.Context, sheetRange string) ([][]interface{}, error)
}

// GoogleSheetRepository talks to one spreadsheet through the Sheets v4 API.
type GoogleSheetRepository struct {
	values        *sheetsapi.SpreadsheetsValuesService
	spreadsheetID string
	logger        *zap.Logger
}

// NewGoogleSheetRepository authenticates with the service account file in cfg.
func NewGoogleSheetRepository(ctx context.Context, cfg config.SheetsConfig, logger *zap.Logger) (*GoogleSheetRepository, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	svc, err := sheetsapi.NewService(ctx,
		option.WithCredentialsFile(cfg.CredentialsPath),
		option.WithScopes(sheetsapi.SpreadsheetsScope),
	)
	if err != nil {
		return nil, fmt.Errorf("open spreadsheet %s: %w", cfg.SpreadsheetID, err)
	}

	return &GoogleSheetRepository{
		values:        svc.Spreadsheets.Values,
		spreadsheetID: cfg.SpreadsheetID,
		logger:        logger,
	}, nil
}

// WriteRows appends rows under the last filled row of sheetRange. Values are
// entered as if typed, so amounts stay numeric in the sheet.
func (r *GoogleSheetRepository) WriteRows(ctx context.Context, sheetRange string, rows [][]interface{}) error {
	if sheetRange == "" {
		return ErrEmptyRange
	}
	if len(rows) == 0 {
		return nil
	}

	_, err := r.values.Append(r.spreadsheetID, sheetRange, &sheetsapi.ValueRange{Values: rows}).
		ValueInputOption("USER_ENTERED").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("export %d rows to %s: %w", len(rows), sheetRange, err)
	}

	r.logger.Debug("report rows exported", zap.String("range", sheetRange), zap.Int("rows", len(rows)))
	return nil
}

// ReadRange returns the displayed cell values of sheetRange, row by row.
// Trailing empty cells and rows are omitted by the API.
func (r *GoogleSheetRepository) ReadRange(ctx context.Context, sheetRange string) ([][]interface{}, error) {
	if sheetRange == "" {
		return nil, ErrEmptyRange
	}

	resp, err := r.values.Get(r.spreadsheetID, sheetRange).
		ValueRenderOption("FORMATTED_VALUE").
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("read ledger rows from %s: %w", sheetRange, err)
	}

	r.logger.Debug("ledger rows read", zap.String("range", sheetRange), zap.Int("rows", len(resp.Values)))
	return resp.Values, nil
}
