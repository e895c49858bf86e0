package main

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"diabetracker/internal/domain"

	"github.com/spf13/cobra"
)

var logCmd = &cobra.Command{
	Use:   "log",
	Short: "Record a logbook entry",
}

var logGlucoseCmd = &cobra.Command{
	Use:   "glucose LEVEL",
	Short: "Record a blood glucose reading",
	Long: `Record a blood glucose reading.

Examples:
  diabetracker log glucose 6.4                          # preferred unit, now
  diabetracker log glucose 115 --unit mg/dL --category after_lunch
  diabetracker log glucose 5.8 --at "2024-03-01 07:30"`,
	Args: cobra.ExactArgs(1),
	RunE: runLogGlucose,
}

var logMedicationCmd = &cobra.Command{
	Use:   "medication NAME UNITS",
	Short: "Record a medication dose",
	Args:  cobra.ExactArgs(2),
	RunE:  runLogMedication,
}

var logCarbsCmd = &cobra.Command{
	Use:   "carbs GRAMS",
	Short: "Record carbohydrate intake",
	Args:  cobra.ExactArgs(1),
	RunE:  runLogCarbs,
}

// Flags
var (
	logUnit     string
	logCategory string
	logAt       string
	logNote     string
)

func init() {
	rootCmd.AddCommand(logCmd)
	logCmd.AddCommand(logGlucoseCmd, logMedicationCmd, logCarbsCmd)

	logCmd.PersistentFlags().StringVar(&logCategory, "category", "", "Time-of-day category (before_breakfast, after_lunch, bedtime, ...)")
	logCmd.PersistentFlags().StringVar(&logAt, "at", "", "When it happened (RFC3339 or \"YYYY-MM-DD HH:MM\" local); default now")
	logGlucoseCmd.Flags().StringVar(&logUnit, "unit", "", "mmol/L or mg/dL; default is the preferred unit")
	logCarbsCmd.Flags().StringVar(&logNote, "note", "", "What was eaten")
}

// parseAt reads a timestamp flag. Empty means now, which the services fill
// in as the zero time.
func parseAt(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	t, err := time.ParseInLocation("2006-01-02 15:04", s, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid --at %q (use RFC3339 or YYYY-MM-DD HH:MM)", s)
	}
	return t, nil
}

func parseAmount(name, s string) (float64, error) {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q", name, s)
	}
	return v, nil
}

func printEntry(w io.Writer, e domain.LogEntry) {
	label := ""
	if e.Label != "" {
		label = " " + e.Label
	}
	fmt.Fprintf(w, "recorded %s #%d: %g %s%s (%s) at %s\n",
		e.Kind, e.ID, e.Value, e.Unit, label, e.Category, e.Time.In(time.Local).Format("2006-01-02 15:04"))
}

func runLogGlucose(cmd *cobra.Command, args []string) error {
	level, err := parseAmount("level", args[0])
	if err != nil {
		return err
	}
	at, err := parseAt(logAt)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	rt, err := openRuntime(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = rt.Close() }()

	unit := domain.MmolPerL
	if logUnit != "" {
		u, ok := domain.BGLUnitFromSymbol(logUnit)
		if !ok {
			return fmt.Errorf("unknown unit %q (want mmol/L or mg/dL)", logUnit)
		}
		unit = u
	} else if u, ok, err := rt.svc.Prefs.BGLUnit(ctx); err != nil {
		return err
	} else if ok {
		unit = u
	}

	r, err := rt.svc.Glucose.Record(ctx, domain.GlucoseReading{
		Level:    level,
		Unit:     unit,
		Category: domain.Category(logCategory),
		Time:     at,
	})
	if err != nil {
		return err
	}
	printEntry(cmd.OutOrStdout(), r.LogEntry())
	return nil
}

func runLogMedication(cmd *cobra.Command, args []string) error {
	units, err := parseAmount("units", args[1])
	if err != nil {
		return err
	}
	at, err := parseAt(logAt)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	rt, err := openRuntime(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = rt.Close() }()

	d, err := rt.svc.Medication.Record(ctx, domain.MedicationDose{
		Name:     args[0],
		Units:    units,
		Category: domain.Category(logCategory),
		Time:     at,
	})
	if err != nil {
		return err
	}
	printEntry(cmd.OutOrStdout(), d.LogEntry())
	return nil
}

func runLogCarbs(cmd *cobra.Command, args []string) error {
	grams, err := parseAmount("grams", args[0])
	if err != nil {
		return err
	}
	at, err := parseAt(logAt)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	rt, err := openRuntime(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = rt.Close() }()

	c, err := rt.svc.Carbs.Record(ctx, domain.CarbIntake{
		Grams:    grams,
		Category: domain.Category(logCategory),
		Note:     logNote,
		Time:     at,
	})
	if err != nil {
		return err
	}
	printEntry(cmd.OutOrStdout(), c.LogEntry())
	return nil
}
