package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dharsanguruparan/SchoolHub/internal/repository"
)

func newMigrateCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create the schools table for the configured database",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, closeRepo, err := repository.Open(cmd.Context(), a.cfg)
			if err != nil {
				return err
			}
			defer closeRepo()
			a.log.WithField("driver", a.cfg.DBDriver).Info("schema ready")
			fmt.Fprintf(cmd.OutOrStdout(), "schools table ready (%s)\n", a.cfg.DBDriver)
			return nil
		},
	}
}
