package main

import "github.com/spf13/cobra"

var rootCmd = &cobra.Command{
	Use:   "analyzer-api",
	Short: "Migration analyzer API service",
}

func init() {
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(runCmd)
}
