package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ZaguanLabs/lingoseo"
)

func newVersionCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if a.jsonOut {
				return a.printJSON(map[string]string{
					"name":    lingoseo.Name,
					"version": version,
					"commit":  commit,
					"built":   buildDate,
				})
			}
			fmt.Fprintf(a.stdout, "%s %s\n", lingoseo.Name, version)
			if commit != "unknown" && commit != "" {
				fmt.Fprintf(a.stdout, "  commit:  %s\n", commit)
			}
			if buildDate != "unknown" && buildDate != "" {
				fmt.Fprintf(a.stdout, "  built:   %s\n", buildDate)
			}
			return nil
		},
	}
}
