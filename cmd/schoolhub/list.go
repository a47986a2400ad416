package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/dharsanguruparan/SchoolHub/internal/views"
)

func newListCmd(a *app) *cobra.Command {
	var search string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List schools, optionally filtered by name, address, city or state",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := views.NewDirectory(a.client)
			if err := dir.Load(cmd.Context()); err != nil {
				return err
			}
			dir.SetQuery(search)
			visible := dir.Visible()

			out := cmd.OutOrStdout()
			if len(visible) == 0 {
				if search != "" {
					fmt.Fprintf(out, "No schools match %q.\n", search)
				} else {
					fmt.Fprintln(out, "No schools found.")
				}
				return nil
			}
			tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tNAME\tADDRESS\tCITY\tSTATE\tIMAGE")
			for _, s := range visible {
				fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\n",
					s.ID, s.Name, s.Address, s.City, s.State,
					a.client.ImageURL(a.cfg.StaticPrefix, s.ImageRef()))
			}
			return tw.Flush()
		},
	}
	cmd.Flags().StringVarP(&search, "search", "s", "", "case-insensitive search text")
	return cmd
}
