package main

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"sort"

	"github.com/spf13/cobra"

	"github.com/dharsanguruparan/SchoolHub/internal/views"
)

func newAddCmd(a *app) *cobra.Command {
	var form views.SchoolForm
	var imagePath string
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Register a new school",
		Example: `  schoolhub add --name "Lotus School" --address "12 MG Road" --city Pune \
    --state Maharashtra --contact 9876543210 --email office@lotus.edu --image lotus.png`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if imagePath != "" {
				img, err := readImage(imagePath)
				if err != nil {
					return err
				}
				form.Image = img
			}

			view := views.NewAddSchool(a.client)
			view.Form = form
			view.Notice.OnChange(func(state views.State, _ string) {
				if state == views.Submitting {
					fmt.Fprintln(cmd.ErrOrStderr(), "Submitting...")
				}
			})
			if !view.Submit(cmd.Context()) {
				printFieldErrors(cmd, view.Errors)
				return errors.New("form is invalid, nothing was sent")
			}
			state, msg := view.Notice.State()
			if state == views.Error {
				return errors.New(msg)
			}
			fmt.Fprintln(cmd.OutOrStdout(), msg)
			return nil
		},
	}
	flags := cmd.Flags()
	flags.StringVar(&form.Name, "name", "", "school name")
	flags.StringVar(&form.Address, "address", "", "street address")
	flags.StringVar(&form.City, "city", "", "city")
	flags.StringVar(&form.State, "state", "", "state")
	flags.StringVar(&form.Contact, "contact", "", "contact number, 10 to 12 digits")
	flags.StringVar(&form.EmailID, "email", "", "contact email")
	flags.StringVar(&imagePath, "image", "", "path to a JPG or PNG image under 100KB")
	return cmd
}

func readImage(path string) (*views.ImageFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read image: %w", err)
	}
	return &views.ImageFile{
		Filename:    filepath.Base(path),
		Size:        int64(len(data)),
		ContentType: http.DetectContentType(data),
		Data:        data,
	}, nil
}

func printFieldErrors(cmd *cobra.Command, errs views.FieldErrors) {
	fields := make([]string, 0, len(errs))
	for field := range errs {
		fields = append(fields, field)
	}
	sort.Strings(fields)
	for _, field := range fields {
		fmt.Fprintf(cmd.ErrOrStderr(), "  %s: %s\n", field, errs[field])
	}
}
