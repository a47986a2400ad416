package main

import (
	"bufio"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dharsanguruparan/SchoolHub/internal/views"
)

func newDeleteCmd(a *app) *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a school after confirmation",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid school id %q", args[0])
			}
			dir := views.NewDirectory(a.client)
			if err := dir.Load(cmd.Context()); err != nil {
				return err
			}
			var found bool
			for _, s := range dir.All() {
				if s.ID == id {
					prompt := dir.RequestDelete(s)
					found = true
					if !yes && !confirm(cmd, prompt) {
						dir.CancelDelete()
						fmt.Fprintln(cmd.OutOrStdout(), "Cancelled.")
						return nil
					}
					break
				}
			}
			if !found {
				return fmt.Errorf("school %d not found", id)
			}

			dir.ConfirmDelete(cmd.Context())
			state, msg := dir.Notice.State()
			if state == views.Error {
				return errors.New(msg)
			}
			fmt.Fprintln(cmd.OutOrStdout(), msg)
			return nil
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip the confirmation prompt")
	return cmd
}

func confirm(cmd *cobra.Command, prompt string) bool {
	fmt.Fprintf(cmd.OutOrStdout(), "%s [y/N] ", prompt)
	answer, _ := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes":
		return true
	default:
		return false
	}
}
