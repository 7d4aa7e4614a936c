package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func (a *app) validateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Load and validate the catalog without rendering",
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
			fmt.Fprintf(a.stdout, "%s: %d rules, all valid\n", cat.Source(), cat.Len())
			return nil
		},
	}
}
