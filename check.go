package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newCheckCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check <script>",
		Short: "Report syntax and resolution errors without running the script",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			filename := args[0]
			source, err := a.readScript(filename)
			if err != nil {
				return err
			}
			if _, _, errs := a.compile(filename, source); len(errs) != 0 {
				a.reportErrors(errs)
				return exitCodeError{code: exitDataErr}
			}
			fmt.Fprintf(a.out, "%s: ok\n", filename)
			return nil
		},
	}
	return cmd
}
