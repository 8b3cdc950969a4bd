package cli

import (
	"errors"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"econcal/internal/calendar"
	"econcal/internal/files"
	"econcal/internal/layout"
	"econcal/internal/services"
	"econcal/pkg/contracts/domain"
)

type renderFlags struct {
	input    string
	output   string
	date     string
	template string
}

func newRenderCommand(opts *options) *cobra.Command {
	flags := &renderFlags{}

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render the calendar week as a workbook or a document",
	}
	cmd.PersistentFlags().StringVarP(&flags.input, "input", "i", "", "JSON file with the events (list or {\"events\": [...]}), - for stdin")
	cmd.PersistentFlags().StringVarP(&flags.output, "output", "o", "", "Output file or directory (defaults to the generated name)")
	cmd.PersistentFlags().StringVar(&flags.date, "date", "", "Reference date YYYY-MM-DD used to break week ties (defaults to today)")

	xlsx := &cobra.Command{
		Use:   "xlsx",
		Short: "Render the two-sheet calendar workbook",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			split, monday, err := loadCalendar(cmd, opts, flags)
			if err != nil {
				return err
			}
			data, err := layout.Workbook(split, monday)
			if err != nil {
				return err
			}
			return emit(cmd, opts, flags.output, calendar.OutputFilename(monday, "xlsx"), data)
		},
	}

	docx := &cobra.Command{
		Use:   "docx",
		Short: "Fill the calendar template",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			split, monday, err := loadCalendar(cmd, opts, flags)
			if err != nil {
				return err
			}
			tc := opts.cfg.Templates
			template, err := opts.readTemplate(flags.template,
				files.NewTemplateStore("calendar", tc.CalendarPath, tc.CalendarFallback, opts.logger))
			if err != nil {
				return err
			}
			data, err := services.RenderCalendarWord(template, split, monday)
			if err != nil {
				return err
			}
			return emit(cmd, opts, flags.output, calendar.OutputFilename(monday, "docx"), data)
		},
	}
	docx.Flags().StringVarP(&flags.template, "template", "t", "", "Calendar template (defaults to the configured template)")

	cmd.AddCommand(xlsx, docx)
	return cmd
}

func loadCalendar(cmd *cobra.Command, opts *options, flags *renderFlags) (domain.CalendarSplit, time.Time, error) {
	if flags.input == "" {
		return domain.CalendarSplit{}, time.Time{}, errors.New("--input is required")
	}
	clock, err := opts.clock(flags.date)
	if err != nil {
		return domain.CalendarSplit{}, time.Time{}, err
	}
	items, err := opts.readItems(flags.input, "events", cmd.InOrStdin())
	if err != nil {
		return domain.CalendarSplit{}, time.Time{}, err
	}
	records, err := calendar.DecodeRecords(items)
	if err != nil {
		return domain.CalendarSplit{}, time.Time{}, err
	}

	split := calendar.Split(records)
	monday := calendar.WeekOf(split, clock())
	opts.logger.InfoContext(cmd.Context(), "calendar loaded",
		slog.String("input", flags.input),
		slog.Int("records", len(records)),
		slog.String("monday", monday.Format(time.DateOnly)),
	)
	return split, monday, nil
}

func emit(cmd *cobra.Command, opts *options, output, name string, data []byte) error {
	path := outputPath(output, name)
	if err := opts.writeOutput(path, data); err != nil {
		return err
	}
	opts.logger.InfoContext(cmd.Context(), "document written",
		slog.String("path", path),
		slog.Int("size_bytes", len(data)),
	)
	reportf(cmd.OutOrStdout(), "wrote %s", path)
	return nil
}
