package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func (a *app) listCmd() *cobra.Command {
	var only []string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List catalog identifiers and institution names",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			logger, err := a.logger()
			if err != nil {
				return err
			}
			cat, err := a.loadCatalog(cmd, logger)
			if err != nil {
				printCatalogError(a.stderr, err)
				return errRunFailed
			}
			cat, err = cat.Filter(only...)
			if err != nil {
				return err
			}

			tw := tabwriter.NewWriter(a.stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tFOLDER\tINSTITUTION\tCOURSE")
			for _, rule := range cat.Rules() {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", rule.ID, rule.Folder(), rule.Name, rule.CourseName())
			}
			return tw.Flush()
		},
	}
	cmd.Flags().StringArrayVar(&only, "only", nil, "only list ids matching this glob (repeatable)")
	return cmd
}
