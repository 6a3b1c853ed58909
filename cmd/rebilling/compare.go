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

func newCompareCmd(cfg *config.Config) *cobra.Command {
	var formattedPath, referencePath, exportFormat, exportPath string
	var settings domain.CompareSettings

	cmd := &cobra.Command{
		Use:   "compare",
		Short: "Reconcile a formatted workbook against a reference extract",
		RunE: func(cmd *cobra.Command, args []string) error {
			formatted, err := os.ReadFile(formattedPath)
			if err != nil {
				return fmt.Errorf("read formatted workbook %s: %w", formattedPath, err)
			}
			reference, err := os.ReadFile(referencePath)
			if err != nil {
				return fmt.Errorf("read reference workbook %s: %w", referencePath, err)
			}

			svc := newServices(*cfg)
			result, err := svc.comparison.Compare(cmd.Context(), formatted, reference, settings)
			if err != nil {
				return err
			}

			if exportFormat != "" {
				format := domain.ExportFormat(exportFormat)
				data, err := svc.comparison.Export(cmd.Context(), result.Token, format)
				if err != nil {
					return err
				}
				if exportPath == "" {
					exportPath = "deal_comparison." + exportFormat
				}
				if err := os.WriteFile(exportPath, data, 0o644); err != nil {
					return fmt.Errorf("write export %s: %w", exportPath, err)
				}
				log.Info().Str("output", exportPath).Str("format", exportFormat).Msg("export written")
			}

			// --- Present the Output ---
			output, err := json.MarshalIndent(result, "", "  ")
			if err != nil {
				return fmt.Errorf("encode result: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(output))
			return nil
		},
	}

	cmd.Flags().StringVar(&formattedPath, "formatted", "", "Path to the formatted workbook (required)")
	cmd.Flags().StringVar(&referencePath, "reference", "", "Path to the reference workbook (required)")
	cmd.Flags().StringVar(&settings.FormattedSheet, "formatted-sheet", "", "Formatted sheet name (default: first sheet)")
	cmd.Flags().StringVar(&settings.ComparisonSheet, "reference-sheet", "", "Reference sheet name (default: first sheet)")
	cmd.Flags().StringVar(&settings.FormattedDealColumn, "formatted-deal-column", "", "Deal column letter of the formatted workbook (default B)")
	cmd.Flags().StringVar(&settings.ComparisonDealColumn, "reference-deal-column", "", "Deal column letter of the reference workbook (default: detected)")
	cmd.Flags().StringVar(&settings.FormattedQuantityColumn, "formatted-quantity-column", "", "Quantity column letter of the formatted workbook (default L)")
	cmd.Flags().StringVar(&settings.ComparisonQuantityColumn, "reference-quantity-column", "", "Quantity column letter of the reference workbook (default: detected)")
	cmd.Flags().StringVar(&exportFormat, "export", "", "Also export the result as xlsx, csv or pdf")
	cmd.Flags().StringVar(&exportPath, "out", "", "Path of the export file")
	_ = cmd.MarkFlagRequired("formatted")
	_ = cmd.MarkFlagRequired("reference")
	return cmd
}
