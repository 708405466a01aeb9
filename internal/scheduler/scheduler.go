package scheduler

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/mamadbah2/freightledger/internal/config"
	"github.com/mamadbah2/freightledger/internal/domain/models"
	"github.com/mamadbah2/freightledger/internal/service/notify"
	"github.com/mamadbah2/freightledger/internal/service/reporting"
)

const jobTimeout = 2 * time.Minute

// SnapshotStore archives closed monthly reports.
type SnapshotStore interface {
	SaveReportSnapshot(ctx context.Context, snapshot models.ReportSnapshot) error
}

// MonthlyExporter copies a closed monthly report somewhere else.
type MonthlyExporter interface {
	ExportMonthly(ctx context.Context, report models.MonthlyReport) error
}

// Deps are the collaborators of the scheduled jobs. Only Reporting is
// required; the monthly close skips any step whose collaborator is nil, and
// a notifier without credentials or recipient counts as absent.
type Deps struct {
	Reporting *reporting.Service
	Notifier  notify.Notifier
	Snapshots SnapshotStore
	Exporter  MonthlyExporter
}

// Scheduler manages scheduled tasks.
type Scheduler struct {
	cron   *cron.Cron
	cfg    config.ReportingConfig
	loc    *time.Location
	deps   Deps
	logger *zap.Logger
	now    func() time.Time
}

// NewScheduler creates a new scheduler instance running in the reporting time zone.
func NewScheduler(cfg config.ReportingConfig, deps Deps, logger *zap.Logger) *Scheduler {
	if logger == nil {
		logger = zap.NewNop()
	}
	loc := cfg.Location()

	return &Scheduler{
		cron:   cron.New(cron.WithLocation(loc)),
		cfg:    cfg,
		loc:    loc,
		deps:   deps,
		logger: logger,
		now:    time.Now,
	}
}

// Start registers the jobs and starts the cron loop.
func (s *Scheduler) Start() error {
	s.logger.Info("starting scheduler",
		zap.String("monthly_cron", s.cfg.MonthlyCron),
		zap.String("unpaid_cron", s.cfg.UnpaidCron),
		zap.String("timezone", s.loc.String()))

	if _, err := s.cron.AddFunc(s.cfg.MonthlyCron, s.runJob("monthly close", s.MonthlyClose)); err != nil {
		return fmt.Errorf("schedule monthly close: %w", err)
	}
	if _, err := s.cron.AddFunc(s.cfg.UnpaidCron, s.runJob("unpaid reminder", s.UnpaidReminder)); err != nil {
		return fmt.Errorf("schedule unpaid reminder: %w", err)
	}

	s.cron.Start()
	return nil
}

// Stop stops the scheduler and waits for running jobs.
func (s *Scheduler) Stop() {
	s.logger.Info("stopping scheduler")
	<-s.cron.Stop().Done()
}

func (s *Scheduler) runJob(name string, job func(context.Context) error) func() {
	return func() {
		s.logger.Info("running scheduled job", zap.String("job", name))
		ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
		defer cancel()

		if err := job(ctx); err != nil {
			s.logger.Error("scheduled job failed", zap.String("job", name), zap.Error(err))
			return
		}
		s.logger.Info("scheduled job finished", zap.String("job", name))
	}
}

// MonthlyClose reports the month before the current one: text summary to the
// notifier, snapshot to the archive and rows to the spreadsheet. Every step
// runs even when an earlier one fails.
func (s *Scheduler) MonthlyClose(ctx context.Context) error {
	month := models.YearMonthOf(s.now().In(s.loc)).Previous()

	report, err := s.deps.Reporting.Monthly(ctx, month)
	if err != nil {
		return fmt.Errorf("build monthly report %s: %w", month, err)
	}

	var errs []error

	if s.deps.Notifier != nil {
		err := s.deps.Notifier.SendReport(ctx, s.deps.Reporting.FormatMonthly(report))
		if err := s.skipUnconfigured("monthly report", err); err != nil {
			errs = append(errs, fmt.Errorf("send monthly report: %w", err))
		}
	}

	if s.deps.Snapshots != nil {
		unpaid, err := s.deps.Reporting.Outstanding(ctx)
		if err != nil {
			errs = append(errs, fmt.Errorf("summarize unpaid: %w", err))
		} else {
			snapshot := models.ReportSnapshot{
				Month:       report.Month,
				Totals:      report.Totals,
				Unpaid:      unpaid,
				RecordIDs:   recordIDs(report.Rows),
				GeneratedAt: s.now().UTC(),
			}
			if err := s.deps.Snapshots.SaveReportSnapshot(ctx, snapshot); err != nil {
				errs = append(errs, fmt.Errorf("archive monthly report: %w", err))
			}
		}
	}

	if s.deps.Exporter != nil {
		if err := s.deps.Exporter.ExportMonthly(ctx, report); err != nil {
			errs = append(errs, err)
		}
	}

	s.logger.Info("monthly close done",
		zap.String("month", month.String()),
		zap.Int("shipments", report.Totals.Count),
		zap.Int("failures", len(errs)))
	return errors.Join(errs...)
}

// UnpaidReminder sends the outstanding balance to the notifier.
func (s *Scheduler) UnpaidReminder(ctx context.Context) error {
	if s.deps.Notifier == nil {
		return nil
	}

	text, err := s.deps.Reporting.UnpaidSummary(ctx)
	if err != nil {
		return fmt.Errorf("build unpaid summary: %w", err)
	}
	err = s.deps.Notifier.SendReport(ctx, text)
	if err := s.skipUnconfigured("unpaid summary", err); err != nil {
		return fmt.Errorf("send unpaid summary: %w", err)
	}
	return nil
}

// skipUnconfigured drops the notifier errors that only mean nobody is set up
// to receive the report.
func (s *Scheduler) skipUnconfigured(report string, err error) error {
	if errors.Is(err, notify.ErrDisabled) || errors.Is(err, notify.ErrNoRecipient) {
		s.logger.Info("report delivery skipped", zap.String("report", report), zap.Error(err))
		return nil
	}
	return err
}

func recordIDs(records []models.Record) []string {
	ids := make([]string, len(records))
	for i, r := range records {
		ids[i] = r.ID
	}
	return ids
}
