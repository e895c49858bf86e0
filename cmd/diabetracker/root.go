package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var envFile string

var rootCmd = &cobra.Command{
	Use:   "diabetracker",
	Short: "Personal diabetes logbook",
	Long: `diabetracker records blood glucose readings, medication doses and carb
intake, and shows a dashboard of the latest entries and the last four days.

Settings come from the environment (optionally loaded from a .env file):
STORE, SQLITE_PATH, DATABASE_URL, ADDR, LOG_LEVEL, LOG_FORMAT, LOG_OUTPUT,
SESSION_TTL, SESSION_PURGE_SCHEDULE, OWNER_EMAIL, OIDC_*, WORKERS.`,
	SilenceUsage: true,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "Dotenv file to load before reading the environment")
}
