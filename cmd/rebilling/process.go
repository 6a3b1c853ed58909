package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"deal-rebilling/internal/config"
	"deal-rebilling/internal/domain"
)

func newProcessCmd(cfg *config.Config) *cobra.Command {
	var input, output, existing string
	var settings domain.ProcessSettings

	cmd := &cobra.Command{
		Use:   "process",
		Short: "Enrich a raw deal workbook into the formatted rebilling workbook",
		RunE: func(cmd *cobra.Command, args []string) error {
			file, err := os.ReadFile(input)
			if err != nil {
				return fmt.Errorf("read input %s: %w", input, err)
			}
			var previous []byte
			if existing != "" {
				if previous, err = os.ReadFile(existing); err != nil {
					return fmt.Errorf("read existing workbook %s: %w", existing, err)
				}
			}

			svc := newServices(*cfg)
			out, err := svc.enrichment.Process(cmd.Context(), file, previous, settings)
			if err != nil {
				return err
			}
			if err := os.WriteFile(output, out.Workbook, 0o644); err != nil {
				return fmt.Errorf("write output %s: %w", output, err)
			}
			log.Info().Str("output", output).Msg("formatted workbook written")

			// --- Present the Output ---
			summary, err := json.MarshalIndent(out.Sheet.Summary, "", "  ")
			if err != nil {
				return fmt.Errorf("encode summary: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(summary))
			return nil
		},
	}

	cmd.Flags().StringVar(&input, "input", "", "Path to the raw deal workbook (required)")
	cmd.Flags().StringVar(&output, "output", "formatted_output.xlsx", "Path of the formatted workbook to write")
	cmd.Flags().StringVar(&existing, "existing", "", "Optional previously formatted workbook to highlight changes against")
	cmd.Flags().StringVar(&settings.OutputSheetName, "sheet-name", domain.DefaultOutputSheetName, "Output sheet name")
	cmd.Flags().StringVar(&settings.RawSheet1Name, "raw-sheet1", "", "Deals sheet name (default: first sheet)")
	cmd.Flags().StringVar(&settings.RawSheet2Name, "raw-sheet2", "", "Costs sheet name (default: second sheet)")
	cmd.Flags().StringVar(&settings.RawSheet3Name, "raw-sheet3", "", "Hedges sheet name (default: third sheet)")
	cmd.Flags().StringVar(&settings.DealColumn, "deal-column", domain.DefaultDealColumn, "Deal number column of the costs sheet")
	_ = cmd.MarkFlagRequired("input")
	return cmd
}
