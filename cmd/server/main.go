package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/mamadbah2/freightledger/internal/app"
	"github.com/mamadbah2/freightledger/internal/config"
	"github.com/mamadbah2/freightledger/internal/live"
	"github.com/mamadbah2/freightledger/internal/metrics"
	"github.com/mamadbah2/freightledger/internal/repository/sheets"
	"github.com/mamadbah2/freightledger/internal/scheduler"
	"github.com/mamadbah2/freightledger/internal/server/handlers"
	"github.com/mamadbah2/freightledger/internal/server/router"
	"github.com/mamadbah2/freightledger/internal/service/notify"
	recordsvc "github.com/mamadbah2/freightledger/internal/service/records"
	reportingsvc "github.com/mamadbah2/freightledger/internal/service/reporting"
	whatsappclient "github.com/mamadbah2/freightledger/pkg/clients/whatsapp"
	"github.com/mamadbah2/freightledger/pkg/logger"
)

func main() {
	cfg, err := config.Load("")
	if err != nil {
		panic(err)
	}

	baseLogger := logger.Must(logger.New(logger.WithLevel(cfg.Server.LogLevel)))
	defer func() { _ = baseLogger.Sync() }()

	zap.ReplaceGlobals(baseLogger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	stores, err := app.OpenStores(ctx, cfg, baseLogger)
	if err != nil {
		baseLogger.Fatal("failed to open stores", zap.Error(err))
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := stores.Close(closeCtx); err != nil {
			baseLogger.Error("failed to close stores", zap.Error(err))
		}
	}()

	loc := cfg.Reporting.Location()
	m := metrics.New()

	controller := live.New(stores.Records,
		live.WithLogger(baseLogger.Named("live")),
		live.WithMetrics(m),
		live.WithClock(func() time.Time { return time.Now().In(loc) }),
	)

	recordService := recordsvc.NewService(stores.Records, stores.Sheets, m, baseLogger.Named("svc.records"))
	reportingService := reportingsvc.NewService(stores.Records, baseLogger.Named("svc.reporting"))

	var waClient whatsappclient.Client
	if cfg.WhatsApp.Enabled() {
		waClient = whatsappclient.NewClient(cfg.WhatsApp)
		baseLogger.Info("whatsapp notifications enabled")
	} else {
		baseLogger.Warn("whatsapp credentials missing, notifications disabled")
	}
	notifier := notify.NewWhatsAppNotifier(cfg.WhatsApp, waClient, baseLogger.Named("svc.notify"))

	var reportNotifier notify.Notifier
	if cfg.WhatsApp.Enabled() && cfg.WhatsApp.ReportRecipient != "" {
		reportNotifier = notifier
	} else {
		baseLogger.Info("scheduled reports will not be sent, no whatsapp recipient configured")
	}

	var exporter scheduler.MonthlyExporter
	if stores.Sheets != nil {
		exporter = sheets.NewReportExporter(stores.Sheets, cfg.Sheets.ExportRange)
	}

	sched := scheduler.NewScheduler(cfg.Reporting, scheduler.Deps{
		Reporting: reportingService,
		Notifier:  reportNotifier,
		Snapshots: stores.Snapshots,
		Exporter:  exporter,
	}, baseLogger.Named("scheduler"))
	if err := sched.Start(); err != nil {
		baseLogger.Fatal("failed to start scheduler", zap.Error(err))
	}
	defer sched.Stop()

	engine := router.New(router.Handlers{
		Records: handlers.NewRecordsHandler(recordService, controller, baseLogger.Named("handlers.records")),
		Reports: handlers.NewReportsHandler(controller, loc, baseLogger.Named("handlers.reports")),
		Stream:  handlers.NewStreamHandler(controller, baseLogger.Named("handlers.stream")),
		Notify:  handlers.NewNotifyHandler(notifier, baseLogger.Named("handlers.notify")),
		Metrics: m.Handler(),
	}, baseLogger.Named("router"))

	// No WriteTimeout: /reports/stream holds the response open.
	srv := &http.Server{
		Addr:        ":" + cfg.Server.Port,
		Handler:     engine,
		ReadTimeout: 15 * time.Second,
		IdleTimeout: 60 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if err := controller.Start(gctx); err != nil {
			return err
		}
		<-gctx.Done()
		return controller.Close()
	})

	g.Go(func() error {
		baseLogger.Info("server starting", zap.String("port", cfg.Server.Port), zap.String("store", cfg.Store.Backend))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		baseLogger.Info("shutdown signal received")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		baseLogger.Error("server stopped with error", zap.Error(err))
	}
}
