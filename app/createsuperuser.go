package app

import (
	"github.com/spf13/cobra"

	"github.com/GoIAM-Admin/GoIAM-Admin/internal/config"
	"github.com/GoIAM-Admin/GoIAM-Admin/internal/daemon"
	"github.com/GoIAM-Admin/GoIAM-Admin/internal/logger"
)

func init() { //nolint: gochecknoinits
	createSuperuserCmd.Flags().StringVar(&superuserEmail, "email", "", "Email address of the superuser")
	createSuperuserCmd.Flags().StringVar(&superuserPassword, "password", "", "Password of the superuser")
	createSuperuserCmd.Flags().StringVar(&superuserFirstName, "first-name", "", "First name of the superuser")
	createSuperuserCmd.Flags().StringVar(&superuserLastName, "last-name", "", "Last name of the superuser")

	_ = createSuperuserCmd.MarkFlagRequired("email")
	_ = createSuperuserCmd.MarkFlagRequired("password")

	rootCmd.AddCommand(createSuperuserCmd)
}

var (
	superuserEmail     string
	superuserPassword  string
	superuserFirstName string
	superuserLastName  string

	createSuperuserCmd = &cobra.Command{
		Use:   "createsuperuser",
		Short: "Provision a superuser account",
		Long: `Provision an active staff superuser account directly in the entity
store. This is the only way to set the superuser flag; the HTTP API treats
it as read-only.`,
		PreRun: func(_ *cobra.Command, _ []string) {
			if cfg, err = config.ReadConfig(configPath); err != nil {
				panic(err)
			}

			if err = logger.Init(cfg.Log); err != nil {
				panic(err)
			}
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			db, err := daemon.OpenDB(&cfg)
			if err != nil {
				return err
			}

			if err = daemon.Migrate(db); err != nil {
				return err
			}

			u, err := daemon.CreateSuperuser(db, superuserEmail, superuserPassword, superuserFirstName, superuserLastName)
			if err != nil {
				return err
			}

			cmd.Printf("Superuser %s created with id %d\n", u.Email, u.ID)

			return nil
		},
	}
)
