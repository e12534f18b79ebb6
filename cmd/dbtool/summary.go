package main

import (
	"delivery-analytics-service/internal/api/dto"
	"delivery-analytics-service/internal/domain"
	"delivery-analytics-service/internal/services"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var (
	summaryOffice      string
	summaryFrom        string
	summaryTo          string
	summaryPostalCodes []string
	summaryJSON        bool
)

var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Print the delivery performance summary of an office",
	Long: `Prints success and failure counts per product for the office's deliveries
between --from and --to (both inclusive), optionally limited to postal codes.`,
	RunE: runSummary,
}

func init() {
	summaryCmd.Flags().StringVar(&summaryOffice, "office", "", "office id")
	summaryCmd.Flags().StringVar(&summaryFrom, "from", "", "first date as YYYY-MM-DD")
	summaryCmd.Flags().StringVar(&summaryTo, "to", "", "last date as YYYY-MM-DD")
	summaryCmd.Flags().StringSliceVar(&summaryPostalCodes, "postal-code", nil, "limit to these postal codes")
	summaryCmd.Flags().BoolVar(&summaryJSON, "json", false, "output the summary as JSON")
	_ = summaryCmd.MarkFlagRequired("office")
	_ = summaryCmd.MarkFlagRequired("from")
	_ = summaryCmd.MarkFlagRequired("to")
	rootCmd.AddCommand(summaryCmd)
}

func runSummary(cmd *cobra.Command, args []string) error {
	from, err := parseDate(summaryFrom)
	if err != nil {
		return fmt.Errorf("invalid --from: %w", err)
	}
	to, err := parseDate(summaryTo)
	if err != nil {
		return fmt.Errorf("invalid --to: %w", err)
	}

	dashboard, err := newDashboard()
	if err != nil {
		return err
	}

	session := domain.Session{Username: "dbtool", OfficeID: summaryOffice}
	view, err := dashboard.ZonePerformance(cmd.Context(), session, services.ZonePerformanceRequest{
		From:        from,
		To:          to.AddDate(0, 0, 1),
		PostalCodes: summaryPostalCodes,
	})
	if err != nil {
		return fmt.Errorf("summary failed: %w", err)
	}

	res := dto.NewZonePerformanceResponse(view.OfficeID, view.From, to, view.Summary, view.ByZone, view.Render)
	if summaryJSON {
		data, err := json.MarshalIndent(res, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal summary: %w", err)
		}
		cmd.Println(string(data))
		return nil
	}

	cmd.Printf("Office %s, %s to %s\n", res.OfficeID, res.From, res.To)
	if errors.Is(view.Render.Err(), domain.ErrDataUnavailable) {
		cmd.Println("No deliveries recorded.")
		return nil
	}

	cmd.Printf("  %-12s %8s %8s %8s %9s %9s\n", "PRODUCT", "SUCCESS", "FAILURE", "TOTAL", "SUCCESS%", "FAILURE%")
	for _, row := range view.Render.SummaryTable {
		printRow(cmd, row)
	}
	printRow(cmd, view.Render.Totals)
	return nil
}

func printRow(cmd *cobra.Command, row domain.SummaryRow) {
	cmd.Printf("  %-12s %8d %8d %8d %8.1f%% %8.1f%%\n",
		row.Product, row.Success, row.Failure, row.Total, row.SuccessPct, row.FailurePct)
}
