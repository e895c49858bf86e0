package main

import (
	"fmt"

	"diabetracker/internal/domain"

	"github.com/spf13/cobra"
)

var prefsCmd = &cobra.Command{
	Use:   "prefs",
	Short: "Show or change preferences",
	RunE:  runPrefsShow,
}

var prefsSetCmd = &cobra.Command{
	Use:   "set",
	Short: "Change preferences",
	Long: `Change preferences. Only the flags given are written.

Examples:
  diabetracker prefs set --first-name Ada
  diabetracker prefs set --unit mg/dL`,
	RunE: runPrefsSet,
}

// Flags
var (
	prefsFirstName string
	prefsUnit      string
)

func init() {
	rootCmd.AddCommand(prefsCmd)
	prefsCmd.AddCommand(prefsSetCmd)

	prefsSetCmd.Flags().StringVar(&prefsFirstName, "first-name", "", "First name shown on the dashboard; empty clears it")
	prefsSetCmd.Flags().StringVar(&prefsUnit, "unit", "", "Preferred glucose unit (mmol/L or mg/dL)")
}

func runPrefsShow(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	rt, err := openRuntime(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = rt.Close() }()
	return showPrefs(cmd, rt)
}

func showPrefs(cmd *cobra.Command, rt *runtime) error {
	ctx := cmd.Context()
	name, ok, err := rt.svc.Prefs.FirstName(ctx)
	if err != nil {
		return err
	}
	sym, err := rt.svc.Prefs.UnitSymbol(ctx)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if !ok {
		name = "(not set)"
	}
	if sym == "" {
		sym = "(not set)"
	}
	fmt.Fprintf(out, "first name: %s\nunit:       %s\n", name, sym)
	return nil
}

func runPrefsSet(cmd *cobra.Command, args []string) error {
	setName := cmd.Flags().Changed("first-name")
	setUnit := cmd.Flags().Changed("unit")
	if !setName && !setUnit {
		return fmt.Errorf("at least one of --first-name or --unit is required")
	}

	var unit domain.BGLUnit
	if setUnit {
		u, ok := domain.BGLUnitFromSymbol(prefsUnit)
		if !ok {
			return fmt.Errorf("unknown unit %q (want mmol/L or mg/dL)", prefsUnit)
		}
		unit = u
	}

	ctx := cmd.Context()
	rt, err := openRuntime(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = rt.Close() }()

	if setName {
		if err := rt.svc.Prefs.SetFirstName(ctx, prefsFirstName); err != nil {
			return err
		}
	}
	if setUnit {
		if err := rt.svc.Prefs.SetBGLUnit(ctx, unit); err != nil {
			return err
		}
	}
	return showPrefs(cmd, rt)
}
