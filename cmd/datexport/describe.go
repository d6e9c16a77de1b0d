package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/javajack/datexport"
)

func newDescribeCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "describe <workbook.xlsx>",
		Short: "Print the records the workbook would export",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := datexport.Describe(args[0], a.options()...)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), text)
			return nil
		},
	}
}
