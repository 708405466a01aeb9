// Package main provides ledgerctl, a command line client for the freight ledger.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/mamadbah2/freightledger/internal/app"
	"github.com/mamadbah2/freightledger/internal/config"
	recordsvc "github.com/mamadbah2/freightledger/internal/service/records"
	reportingsvc "github.com/mamadbah2/freightledger/internal/service/reporting"
	"github.com/mamadbah2/freightledger/pkg/logger"
)

func main() {
	if err := newRootCmd(openSession).Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// session carries the services a subcommand runs against.
type session struct {
	cfg       *config.Config
	loc       *time.Location
	records   *recordsvc.Service
	reporting *reportingsvc.Service
	close     func(context.Context) error
}

type sessionOpener func(ctx context.Context, envFile string, log *zap.Logger) (*session, error)

func openSession(ctx context.Context, envFile string, log *zap.Logger) (*session, error) {
	cfg, err := config.Load(envFile)
	if err != nil {
		return nil, err
	}
	stores, err := app.OpenStores(ctx, cfg, log)
	if err != nil {
		return nil, err
	}
	return &session{
		cfg:       cfg,
		loc:       cfg.Reporting.Location(),
		records:   recordsvc.NewService(stores.Records, stores.Sheets, nil, log.Named("svc.records")),
		reporting: reportingsvc.NewService(stores.Records, log.Named("svc.reporting")),
		close:     stores.Close,
	}, nil
}

type cli struct {
	envFile  string
	logLevel string
	open     sessionOpener
	sess     *session
}

func newRootCmd(open sessionOpener) *cobra.Command {
	c := &cli{open: open}

	cmd := &cobra.Command{
		Use:           "ledgerctl",
		Short:         "Inspect and maintain the freight ledger",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			log, err := logger.New(logger.WithConsole(), logger.WithLevel(c.logLevel))
			if err != nil {
				return err
			}
			sess, err := c.open(cmd.Context(), c.envFile, log)
			if err != nil {
				return err
			}
			c.sess = sess
			return nil
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if c.sess == nil || c.sess.close == nil {
				return nil
			}
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			return c.sess.close(ctx)
		},
	}

	cmd.PersistentFlags().StringVar(&c.envFile, "env-file", "", "Env file to load before reading the environment")
	cmd.PersistentFlags().StringVar(&c.logLevel, "log-level", "warn", "Log level (debug, info, warn, error)")

	cmd.AddCommand(c.reportCmd(), c.recordsCmd(), c.importCmd())
	return cmd
}

func (c *cli) now() time.Time {
	return time.Now().In(c.sess.loc)
}

func out(cmd *cobra.Command) io.Writer {
	return cmd.OutOrStdout()
}
