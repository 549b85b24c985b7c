// Package app implements the main application commands.
package app

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "gosettings-admin",
	Short: "GoSettings-Admin is a web-based settings management service",
	Long: `GoSettings-Admin is a web-based settings management service
that stores application settings in a relational table and exposes them
through a REST API and an optional HTML form interface.`,
	Args: cobra.OnlyValidArgs,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
