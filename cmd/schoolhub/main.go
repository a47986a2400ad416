// Command schoolhub is the terminal front end for a SchoolHub API: it hosts
// the add-school form and the schools directory.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/dharsanguruparan/SchoolHub/internal/client"
	"github.com/dharsanguruparan/SchoolHub/internal/config"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := newRootCommand().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "schoolhub: %v\n", err)
		os.Exit(1)
	}
}

// app is shared by the subcommands once the root has loaded configuration.
type app struct {
	apiURL string
	cfg    *config.Config
	log    *logrus.Logger
	client *client.Client
}

func newRootCommand() *cobra.Command {
	a := &app{}
	cmd := &cobra.Command{
		Use:   "schoolhub",
		Short: "Manage schools registered with a SchoolHub API",
		Long: `schoolhub talks to a running SchoolHub API. It can register a school with an image,
list and search the directory, delete a school after confirmation, and create the schools
table for the configured database.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if a.apiURL != "" {
				cfg.APIURL = a.apiURL
			}
			a.cfg = cfg
			a.log = config.NewLogger(cfg)
			a.log.SetOutput(cmd.ErrOrStderr())
			a.client = client.New(cfg.APIURL, nil)
			return nil
		},
	}
	cmd.PersistentFlags().StringVar(&a.apiURL, "api-url", "", "SchoolHub API base URL (overrides SCHOOLHUB_API_URL)")
	cmd.AddCommand(
		newAddCmd(a),
		newListCmd(a),
		newDeleteCmd(a),
		newMigrateCmd(a),
	)
	return cmd
}
