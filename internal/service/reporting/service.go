package reporting

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/mamadbah2/freightledger/internal/domain/models"
)

// RecordSource provides one-shot reads of the full record set.
type RecordSource interface {
	List(ctx context.Context) ([]models.Record, error)
}

// Service renders reports over the current record set for notifications and
// the command line.
type Service struct {
	source  RecordSource
	logger  *zap.Logger
	printer *message.Printer
}

// NewService wires a new reporting service instance.
func NewService(source RecordSource, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		source:  source,
		logger:  logger,
		printer: message.NewPrinter(language.Korean),
	}
}

func (s *Service) load(ctx context.Context) ([]models.Record, error) {
	records, err := s.source.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("load records: %w", err)
	}
	return models.NormalizeRecords(records), nil
}

// Monthly returns the monthly report for ym.
func (s *Service) Monthly(ctx context.Context, ym models.YearMonth) (models.MonthlyReport, error) {
	records, err := s.load(ctx)
	if err != nil {
		return models.MonthlyReport{}, err
	}
	return MonthlyView(records, ym), nil
}

// Yearly returns the twelve-month report for year.
func (s *Service) Yearly(ctx context.Context, year int) (models.YearlyReport, error) {
	records, err := s.load(ctx)
	if err != nil {
		return models.YearlyReport{}, err
	}
	return YearlyView(records, year), nil
}

// Outstanding returns the unpaid summary.
func (s *Service) Outstanding(ctx context.Context) (models.UnpaidSummary, error) {
	records, err := s.load(ctx)
	if err != nil {
		return models.UnpaidSummary{}, err
	}
	return Unpaid(records), nil
}

// Filtered returns the record list view for f.
func (s *Service) Filtered(ctx context.Context, f models.FilterConfig) ([]models.Record, error) {
	records, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	return ApplyFilter(records, f), nil
}

// MonthlySummary formats the monthly report as a short text message.
func (s *Service) MonthlySummary(ctx context.Context, ym models.YearMonth) (string, error) {
	report, err := s.Monthly(ctx, ym)
	if err != nil {
		return "", err
	}
	return s.FormatMonthly(report), nil
}

// UnpaidSummary formats the outstanding balance as a short text message.
func (s *Service) UnpaidSummary(ctx context.Context) (string, error) {
	summary, err := s.Outstanding(ctx)
	if err != nil {
		return "", err
	}
	return s.FormatUnpaid(summary), nil
}

// FormatMonthly renders a monthly report with thousands separators.
func (s *Service) FormatMonthly(report models.MonthlyReport) string {
	if report.Totals.Count == 0 {
		return fmt.Sprintf("Transport report %s: no shipments recorded.", report.Month)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Transport report %s\n", report.Month)
	for _, r := range report.Rows {
		b.WriteString(s.printer.Sprintf("- %s %s: %d won, %d pairs\n",
			models.FormatDate(r.ShipDate), r.Label(), r.SupplyAmount, r.Qty))
	}
	b.WriteString(s.printer.Sprintf("Total: %d shipments, %d won (excl. VAT), %d pairs, %d won per pair",
		report.Totals.Count, report.Totals.SupplySum, report.Totals.QtySum, report.Totals.AvgUnitFare))
	return b.String()
}

// FormatYearly renders the twelve buckets of a yearly report.
func (s *Service) FormatYearly(report models.YearlyReport) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Transport report %d\n", report.Year)
	for _, m := range report.Months {
		b.WriteString(s.printer.Sprintf("%02d: %d shipments, %d won, %d pairs, %d won per pair\n",
			m.Month, m.Count, m.TotalSum, m.QtySum, m.UnitFareAvg))
	}
	b.WriteString(s.printer.Sprintf("Year: %d shipments, %d won, %d pairs, %d won per pair",
		report.Totals.Count, report.Totals.TotalSum, report.Totals.QtySum, report.Totals.TotalUnitFare))
	return b.String()
}

// FormatUnpaid renders the outstanding balance.
func (s *Service) FormatUnpaid(summary models.UnpaidSummary) string {
	if summary.AllPaid {
		return "All transactions are paid."
	}
	return s.printer.Sprintf("Outstanding payments: %d records, %d won", summary.Count, summary.TotalAmount)
}

// FormatAmount renders an amount with thousands separators.
func (s *Service) FormatAmount(amount int64) string {
	return s.printer.Sprintf("%d", amount)
}
