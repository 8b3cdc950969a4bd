package cli

import (
	"errors"

	"github.com/spf13/cobra"

	"econcal/internal/calendar"
	"econcal/internal/exporter"
	"econcal/internal/quotes"
)

func newExportCommand(opts *options) *cobra.Command {
	var input, output string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export received data as CSV",
	}
	cmd.PersistentFlags().StringVarP(&input, "input", "i", "", "JSON input file, - for stdin")
	cmd.PersistentFlags().StringVarP(&output, "output", "o", "", "CSV file to write")

	required := func() error {
		if input == "" || output == "" {
			return errors.New("--input and --output are required")
		}
		return nil
	}

	calendarCmd := &cobra.Command{
		Use:   "calendar",
		Short: "Export calendar records, one row per event or holiday",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := required(); err != nil {
				return err
			}
			items, err := opts.readItems(input, "events", cmd.InOrStdin())
			if err != nil {
				return err
			}
			records, err := calendar.DecodeRecords(items)
			if err != nil {
				return err
			}
			rows := exporter.CalendarRecords(calendar.Split(records))
			if err := opts.checkOutputDir(output); err != nil {
				return err
			}
			if err := exporter.NewCSVWriter(opts.logger).WriteSimpleCSV(output, exporter.CalendarHeaders, rows); err != nil {
				return err
			}
			reportf(cmd.OutOrStdout(), "wrote %d rows to %s", len(rows), output)
			return nil
		},
	}

	quotesCmd := &cobra.Command{
		Use:   "quotes",
		Short: "Export parsed quotes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := required(); err != nil {
				return err
			}
			values, err := opts.readItems(input, "quotes", cmd.InOrStdin())
			if err != nil {
				return err
			}
			items, err := quotes.DecodeItems(values)
			if err != nil {
				return err
			}
			rows := exporter.QuoteRecords(items)
			if err := opts.checkOutputDir(output); err != nil {
				return err
			}
			if err := exporter.NewCSVWriter(opts.logger).WriteSimpleCSV(output, exporter.QuoteHeaders, rows); err != nil {
				return err
			}
			reportf(cmd.OutOrStdout(), "wrote %d rows to %s", len(rows), output)
			return nil
		},
	}

	cmd.AddCommand(calendarCmd, quotesCmd)
	return cmd
}
