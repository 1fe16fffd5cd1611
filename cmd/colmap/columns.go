package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"colmap/internal/ddl"
)

func newColumnsCmd(a *app) *cobra.Command {
	var (
		ddlPath      string
		naive, types bool
	)

	cmd := &cobra.Command{
		Use:   "columns",
		Short: "List the columns of a CREATE TABLE statement",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			text, err := a.readInput("ddl", ddlPath)
			if err != nil {
				return err
			}

			opts := a.cfg.MapperOptions().DDL
			if cmd.Flags().Changed("naive-split") {
				opts.Split = ddl.SplitFor(naive)
			}

			table, err := ddl.ParseWith(text, opts)
			if err != nil {
				return err
			}

			a.logger.Debug("parsed table", "table", table.Name, "columns", len(table.Columns))

			out := cmd.OutOrStdout()
			if !types {
				for _, c := range table.Columns {
					fmt.Fprintln(out, c.Name)
				}

				return nil
			}

			tw := tabwriter.NewWriter(out, 0, 0, 3, ' ', 0)
			for _, c := range table.Columns {
				fmt.Fprintf(tw, "%s\t%s\n", c.Name, c.Type)
			}

			return tw.Flush()
		},
	}

	cmd.Flags().StringVar(&ddlPath, "ddl", "", "file holding the CREATE TABLE statement (- for stdin)")
	cmd.Flags().BoolVar(&naive, "naive-split", false, "split the column block on every comma like the legacy extractor (config default when unset)")
	cmd.Flags().BoolVar(&types, "types", false, "print the column definitions next to the names")

	return cmd
}
