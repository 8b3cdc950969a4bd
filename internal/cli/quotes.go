package cli

import (
	"errors"
	"log/slog"

	"github.com/spf13/cobra"

	"econcal/internal/files"
	"econcal/internal/quotes"
	"econcal/internal/services"
)

func newQuotesCommand(opts *options) *cobra.Command {
	var input, output, template string

	cmd := &cobra.Command{
		Use:   "quotes",
		Short: "Fill the daily quotes template",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if input == "" {
				return errors.New("--input is required")
			}
			values, err := opts.readItems(input, "quotes", cmd.InOrStdin())
			if err != nil {
				return err
			}
			items, err := quotes.DecodeItems(values)
			if err != nil {
				return err
			}
			if len(items) == 0 {
				return services.ErrNoQuotes
			}

			tc := opts.cfg.Templates
			data, err := opts.readTemplate(template,
				files.NewTemplateStore("quotes", tc.QuotesPath, tc.QuotesFallback, opts.logger))
			if err != nil {
				return err
			}

			doc, rows, err := services.RenderQuotesWord(data, items)
			if err != nil {
				return err
			}

			_, report := quotes.Parse(items)
			opts.logger.InfoContext(cmd.Context(), "quotes document filled",
				slog.Int("quotes", len(items)),
				slog.Int("updated_rows", rows),
			)
			if err := emit(cmd, opts, output, quotes.Filename(report), doc); err != nil {
				return err
			}
			reportf(cmd.OutOrStdout(), "updated %d rows", rows)
			return nil
		},
	}

	cmd.Flags().StringVarP(&input, "input", "i", "", "JSON file with the quotes (list or {\"quotes\": [...]}), - for stdin")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Output file or directory (defaults to the generated name)")
	cmd.Flags().StringVarP(&template, "template", "t", "", "Quotes template (defaults to the configured template)")
	return cmd
}
