package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"colmap/internal/match"
	"colmap/internal/payload"
)

func newKeysCmd(a *app) *cobra.Command {
	var (
		jsonPath   string
		normalized bool
	)

	cmd := &cobra.Command{
		Use:   "keys",
		Short: "List the top-level keys of a JSON document in document order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			text, err := a.readInput("json", jsonPath)
			if err != nil {
				return err
			}

			keys, err := payload.Keys([]byte(text))
			if err != nil {
				return err
			}

			for _, k := range keys {
				if normalized {
					fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", k, match.Normalize(k))
					continue
				}

				fmt.Fprintln(cmd.OutOrStdout(), k)
			}

			return nil
		},
	}

	cmd.Flags().StringVar(&jsonPath, "json", "", "file holding the JSON object or array of objects (- for stdin)")
	cmd.Flags().BoolVar(&normalized, "normalized", false, "print the normalized form next to each key")

	return cmd
}
