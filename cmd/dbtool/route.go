package main

import (
	"delivery-analytics-service/internal/api/dto"
	"delivery-analytics-service/internal/domain"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

var (
	routeOfficer string
	routeDate    string
	routeOffice  string
	routeJSON    bool
)

var routeCmd = &cobra.Command{
	Use:   "route",
	Short: "Print the as-occurred route of an officer on one date",
	RunE:  runRoute,
}

func init() {
	routeCmd.Flags().StringVar(&routeOfficer, "officer", "", "officer id")
	routeCmd.Flags().StringVar(&routeDate, "date", "", "date as YYYY-MM-DD")
	routeCmd.Flags().StringVar(&routeOffice, "office", "", "office id of the viewing session")
	routeCmd.Flags().BoolVar(&routeJSON, "json", false, "output the route view as JSON")
	_ = routeCmd.MarkFlagRequired("officer")
	_ = routeCmd.MarkFlagRequired("date")
	_ = routeCmd.MarkFlagRequired("office")
	rootCmd.AddCommand(routeCmd)
}

func runRoute(cmd *cobra.Command, args []string) error {
	day, err := parseDate(routeDate)
	if err != nil {
		return fmt.Errorf("invalid --date: %w", err)
	}

	dashboard, err := newDashboard()
	if err != nil {
		return err
	}

	session := domain.Session{Username: "dbtool", OfficeID: routeOffice}
	view, err := dashboard.OfficerRoute(cmd.Context(), session, routeOfficer, day)
	if err != nil {
		return fmt.Errorf("route failed: %w", err)
	}

	res := dto.NewOfficerRouteResponse(view.Officer, view.Date, view.Route, view.Summary, view.Render)
	if routeJSON {
		data, err := json.MarshalIndent(res, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal route: %w", err)
		}
		cmd.Println(string(data))
		return nil
	}

	cmd.Printf("Officer %s (%s), %s\n", res.Officer.OfficerID, res.Officer.Name, res.Date)
	if res.TotalDistanceKm == nil {
		cmd.Println("No deliveries recorded.")
		return nil
	}

	for _, s := range res.Stops {
		cmd.Printf("  %2d. %s  %-16s %-28s gap %6.1f min  leg %6.2f km\n",
			s.Seq, s.EventTimestamp.In(view.Date.Location()).Format("15:04:05"), s.Connote, s.Status, s.GapMinutes, s.LegKm)
	}
	cmd.Printf("Total distance: %.2f km over %.0f min\n", *res.TotalDistanceKm, res.DurationMinutes)
	if res.Map.SkippedEvents > 0 {
		cmd.Printf("Skipped events with invalid coordinates: %d\n", res.Map.SkippedEvents)
	}
	return nil
}
