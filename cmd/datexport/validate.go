package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/javajack/datexport"
)

func newValidateCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "validate <workbook.xlsx>",
		Short: "Report problems in the device table without exporting",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			issues, err := datexport.Validate(args[0], a.options()...)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, issue := range issues {
				fmt.Fprintln(out, issue)
			}
			if len(issues) == 0 {
				fmt.Fprintln(out, "OK")
			}
			if datexport.HasErrors(issues) {
				return errors.New("validation failed")
			}
			return nil
		},
	}
}
