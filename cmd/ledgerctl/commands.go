package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/mamadbah2/freightledger/internal/domain/models"
)

func (c *cli) reportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Print ledger reports",
	}

	var month string
	monthly := &cobra.Command{
		Use:   "monthly",
		Short: "Shipments of one month with totals",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ym := models.YearMonthOf(c.now())
			if month != "" {
				parsed, err := models.ParseYearMonth(month)
				if err != nil {
					return err
				}
				ym = parsed
			}
			report, err := c.sess.reporting.Monthly(cmd.Context(), ym)
			if err != nil {
				return err
			}
			fmt.Fprintln(out(cmd), c.sess.reporting.FormatMonthly(report))
			return nil
		},
	}
	monthly.Flags().StringVar(&month, "month", "", "Month as YYYY-MM (defaults to the current month)")

	var year int
	yearly := &cobra.Command{
		Use:   "yearly",
		Short: "Twelve monthly buckets for one year",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			y := year
			if y == 0 {
				y = c.now().Year()
			}
			report, err := c.sess.reporting.Yearly(cmd.Context(), y)
			if err != nil {
				return err
			}
			fmt.Fprintln(out(cmd), c.sess.reporting.FormatYearly(report))
			return nil
		},
	}
	yearly.Flags().IntVar(&year, "year", 0, "Calendar year (defaults to the current year)")

	unpaid := &cobra.Command{
		Use:   "unpaid",
		Short: "Outstanding balance",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			summary, err := c.sess.reporting.Outstanding(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintln(out(cmd), c.sess.reporting.FormatUnpaid(summary))
			return nil
		},
	}

	cmd.AddCommand(monthly, yearly, unpaid)
	return cmd
}

func (c *cli) recordsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "records",
		Short: "Work with ledger records",
	}

	var start, end, paid, sortOrder string
	list := &cobra.Command{
		Use:   "list",
		Short: "List records through the ledger filter",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			f := models.ParseFilter(start, end, paid, sortOrder)
			records, err := c.sess.reporting.Filtered(cmd.Context(), f)
			if err != nil {
				return err
			}

			tw := tabwriter.NewWriter(out(cmd), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "SHIP DATE\tSHOP\tMEMO\tSUPPLY\tTOTAL\tQTY\tUNIT FARE\tPAID")
			for _, r := range records {
				paidCol := "-"
				if r.Paid {
					paidCol = models.FormatDate(r.PaidDate)
				}
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%d\t%s\t%s\n",
					models.FormatDate(r.ShipDate), r.ShopName, r.Label(),
					c.sess.reporting.FormatAmount(r.SupplyAmount),
					c.sess.reporting.FormatAmount(r.Total),
					r.Qty,
					c.sess.reporting.FormatAmount(r.UnitFare),
					paidCol)
			}
			if err := tw.Flush(); err != nil {
				return err
			}
			fmt.Fprintf(out(cmd), "%d records\n", len(records))
			return nil
		},
	}
	list.Flags().StringVar(&start, "from", "", "Earliest ship date, YYYY-MM-DD")
	list.Flags().StringVar(&end, "to", "", "Latest ship date, YYYY-MM-DD")
	list.Flags().StringVar(&paid, "paid", string(models.PaidStatusUnpaid), "Paid status: all, paid or unpaid")
	list.Flags().StringVar(&sortOrder, "sort", string(models.SortAsc), "Ship date order: asc or desc")

	cmd.AddCommand(list)
	return cmd
}

func (c *cli) importCmd() *cobra.Command {
	var sheetRange string
	cmd := &cobra.Command{
		Use:   "import",
		Short: "Create records from the ledger spreadsheet",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			r := sheetRange
			if r == "" {
				r = c.sess.cfg.Sheets.ImportRange
			}
			result, err := c.sess.records.Import(cmd.Context(), r)
			if err != nil {
				return err
			}
			fmt.Fprintf(out(cmd), "imported %d, skipped %d\n", result.Imported, result.Skipped)
			for _, rowErr := range result.Errors {
				fmt.Fprintf(out(cmd), "  row %d: %s\n", rowErr.Row, rowErr.Reason)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&sheetRange, "range", "", "Sheet range to read (defaults to GOOGLE_SHEET_IMPORT_RANGE)")
	return cmd
}
