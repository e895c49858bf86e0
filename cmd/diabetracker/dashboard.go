package main

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"diabetracker/internal/app"
	"diabetracker/internal/domain"

	"github.com/spf13/cobra"
)

var dashboardJSON bool

var dashboardCmd = &cobra.Command{
	Use:   "dashboard",
	Short: "Show the latest entries and the last four days",
	RunE:  runDashboard,
}

func init() {
	rootCmd.AddCommand(dashboardCmd)
	dashboardCmd.Flags().BoolVar(&dashboardJSON, "json", false, "Print the dashboard as JSON")
}

func runDashboard(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	rt, err := openRuntime(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = rt.Close() }()

	d := rt.svc.Dashboards.Open(ctx)
	d.Wait()
	view := d.Snapshot(ctx)

	out := cmd.OutOrStdout()
	if dashboardJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(view)
	}
	printDashboard(out, view)
	return nil
}

func printDashboard(w io.Writer, v app.DashboardView) {
	if v.FirstName != nil {
		fmt.Fprintf(w, "Hello, %s\n\n", *v.FirstName)
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	latest := func(title string, e *domain.LogEntry) {
		if e == nil {
			fmt.Fprintf(tw, "%s\t-\n", title)
			return
		}
		fmt.Fprintf(tw, "%s\t%s\n", title, formatEntry(*e))
	}
	latest("Last glucose", v.LastReading)
	latest("Last medication", v.LastMedication)
	latest("Last carbs", v.LastCarbIntake)
	if v.UnitSymbol != "" {
		fmt.Fprintf(tw, "Preferred unit\t%s\n", v.UnitSymbol)
	}
	_ = tw.Flush()

	fmt.Fprintf(w, "\nSince %s:\n", v.Window.Start.In(time.Local).Format("2006-01-02 15:04"))
	if len(v.Entries) == 0 {
		fmt.Fprintln(w, "  no entries")
		return
	}
	tw = tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	for _, e := range v.Entries {
		fmt.Fprintf(tw, "  %s\t%s\t%s\n", e.Time.In(time.Local).Format("Mon 15:04"), e.Kind, formatEntry(e))
	}
	_ = tw.Flush()
}

func formatEntry(e domain.LogEntry) string {
	s := fmt.Sprintf("%g %s", e.Value, e.Unit)
	if e.Label != "" {
		s += " " + e.Label
	}
	return fmt.Sprintf("%s (%s, %s)", s, e.Category, e.Time.In(time.Local).Format("2006-01-02 15:04"))
}
