package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"fetchcorpus/internal/corpus"
)

func newListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the known datasets and their role mapping",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			headers := []string{"DATASET", "ROLES", "ARCHIVES", "DESCRIPTION"}
			aligns := []columnAlignment{alignLeft, alignLeft, alignLeft, alignLeft}

			rows := make([][]string, 0, len(corpus.All()))
			for _, ds := range corpus.All() {
				roles := make([]string, 0, len(ds.Collections))
				for _, collection := range ds.Collections {
					roles = append(roles, collection.Role.String())
				}
				archives := make([]string, 0, len(ds.Sources))
				for _, src := range ds.Sources {
					name, err := src.Filename()
					if err != nil {
						return err
					}
					archives = append(archives, name)
				}
				rows = append(rows, []string{
					ds.Name,
					strings.Join(roles, ", "),
					strings.Join(archives, "\n"),
					ds.Description,
				})
			}

			fmt.Fprintln(cmd.OutOrStdout(), renderTable(headers, rows, aligns))
			return nil
		},
	}
}
