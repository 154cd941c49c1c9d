package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/shipper-lite/backend/internal/pipeline"
	"github.com/shipper-lite/backend/internal/report"
	"github.com/shipper-lite/backend/internal/textextract"
)

var version = "0.1.0"

func main() {
	rootCmd := &cobra.Command{
		Use:   "doccheck",
		Short: "Trade document compliance checker",
		Long: `doccheck extracts structured fields from an invoice and its packing
list and evaluates them against export compliance rules, including
cross-document consistency checks.`,
		Version: version,
	}

	rootCmd.AddCommand(checkCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func checkCmd() *cobra.Command {
	var (
		invoicePath string
		packingPath string
		xlsxOut     string
		jsonOut     bool
		pdftotext   string
		verbose     bool
	)

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Check an invoice/packing-list pair",
		RunE: func(cmd *cobra.Command, args []string) error {
			level := slog.LevelWarn
			if verbose {
				level = slog.LevelDebug
			}
			logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

			extractor := textextract.NewExtractor(textextract.Config{Pdftotext: pdftotext}, logger)
			processor := pipeline.NewProcessor(extractor, logger)

			ctx, cancel := context.WithTimeout(cmd.Context(), 2*time.Minute)
			defer cancel()

			result := processor.CheckFiles(ctx, uuid.New(), invoicePath, packingPath)

			if xlsxOut != "" {
				b, err := report.WriteXLSX(result.Report)
				if err != nil {
					return fmt.Errorf("export xlsx: %w", err)
				}
				if err := os.WriteFile(xlsxOut, b, 0o644); err != nil {
					return fmt.Errorf("write %s: %w", xlsxOut, err)
				}
				fmt.Printf("Wrote %s\n", xlsxOut)
			}

			if jsonOut {
				enc := json.NewEncoder(os.Stdout)
				enc.SetIndent("", "  ")
				return enc.Encode(result.Report)
			}

			printReport(result)
			return nil
		},
	}

	cmd.Flags().StringVar(&invoicePath, "invoice", "", "path to the invoice document")
	cmd.Flags().StringVar(&packingPath, "packing-list", "", "path to the packing list document")
	cmd.Flags().StringVar(&xlsxOut, "xlsx", "", "write the report as an XLSX workbook to this path")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "print the report as JSON")
	cmd.Flags().StringVar(&pdftotext, "pdftotext", "", "pdftotext binary (default: pdftotext on PATH)")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	_ = cmd.MarkFlagRequired("invoice")
	_ = cmd.MarkFlagRequired("packing-list")

	return cmd
}

func printReport(result pipeline.CheckResult) {
	fmt.Printf("Overall status: %s\n\n", result.Report.OverallStatus)

	fmt.Println("Validations:")
	for _, v := range result.Report.Validations {
		mark := "PASS"
		if !v.Passed {
			mark = "FAIL"
		}
		if v.ErrorMessage != "" {
			fmt.Printf("  [%s] %-24s %s\n", mark, v.FieldName, v.ErrorMessage)
		} else {
			fmt.Printf("  [%s] %s\n", mark, v.FieldName)
		}
	}

	if len(result.Report.FixInstructions) > 0 {
		fmt.Println("\nFix instructions:")
		for _, ins := range result.Report.FixInstructions {
			fmt.Printf("  %s\n", ins)
		}
	}
}
