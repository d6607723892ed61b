// Package app implements the main application commands.
package app

import (
	"github.com/spf13/cobra"

	"github.com/GoIAM-Admin/GoIAM-Admin/internal/config"
)

var (
	cfg config.Config
	err error

	configPath string // Path to the configuration directory
)

var rootCmd = &cobra.Command{
	Use:   "go-iam-admin",
	Short: "GoIAM-Admin is an administrative API for users, groups and permissions",
	Long: `GoIAM-Admin is an administrative API for managing identity and access
entities: user accounts, groups and permissions, with assignment
relationships between them.`,
	Args: cobra.OnlyValidArgs,
}

func init() { //nolint: gochecknoinits
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to the configuration directory (default ./etc/)")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
