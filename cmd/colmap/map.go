package main

import (
	"errors"

	"github.com/davecgh/go-spew/spew"
	"github.com/spf13/cobra"

	"colmap/internal/ddl"
	"colmap/internal/report"
)

func newMapCmd(a *app) *cobra.Command {
	var (
		ddlPath, jsonPath string
		output, writePath string
		scorer            string
		semantic          bool
		threshold, cutoff float64
		naive, dump       bool
	)

	cmd := &cobra.Command{
		Use:   "map",
		Short: "Map the keys of a JSON document onto the columns of a table",
		Example: `  colmap map --ddl customers.sql --json customer.json
  curl -s https://example.com/customer | colmap map --ddl customers.sql --json - --output yaml`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if ddlPath == stdinPath && jsonPath == stdinPath {
				return errors.New("only one of --ddl and --json can read stdin")
			}

			format, err := report.ParseFormat(output)
			if err != nil {
				return err
			}

			ddlText, err := a.readInput("ddl", ddlPath)
			if err != nil {
				return err
			}

			jsonText, err := a.readInput("json", jsonPath)
			if err != nil {
				return err
			}

			opts := a.cfg.MapperOptions()

			flags := cmd.Flags()
			if flags.Changed("semantic") {
				opts.UseSemantic = semantic
			}

			if flags.Changed("threshold") {
				opts.Threshold = threshold
			}

			if flags.Changed("fuzzy-cutoff") {
				opts.FuzzyCutoff = cutoff
			}

			if flags.Changed("scorer") {
				opts.Scorer = scorer
			}

			if flags.Changed("naive-split") {
				opts.DDL.Split = ddl.SplitFor(naive)
			}

			m, handle := a.newMapper()
			defer a.closeHandle(handle)

			res, err := m.Map(cmd.Context(), ddlText, jsonText, opts)
			if err != nil {
				return err
			}

			if dump {
				spew.Fdump(cmd.OutOrStdout(), res)
				return nil
			}

			rep := report.FromResult(res)

			if writePath != "" {
				return report.WriteFile(rep, format, writePath)
			}

			return report.Write(cmd.OutOrStdout(), rep, format)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&ddlPath, "ddl", "", "file holding the CREATE TABLE statement (- for stdin)")
	flags.StringVar(&jsonPath, "json", "", "file holding the JSON object or array of objects (- for stdin)")
	flags.StringVarP(&output, "output", "o", string(report.FormatTable), "output format: table, json or yaml")
	flags.StringVar(&writePath, "write", "", "write the report to this file instead of stdout")
	flags.BoolVar(&semantic, "semantic", true, "fall back to embedding similarity for keys without a fuzzy match")
	flags.Float64Var(&threshold, "threshold", 0, "minimum cosine similarity for a semantic match (config default when unset)")
	flags.Float64Var(&cutoff, "fuzzy-cutoff", 0, "fuzzy score a match must exceed (config default when unset)")
	flags.StringVar(&scorer, "scorer", "", "fuzzy scorer: wratio or ratio (config default when unset)")
	flags.BoolVar(&naive, "naive-split", false, "split the column block on every comma like the legacy extractor (config default when unset)")
	flags.BoolVar(&dump, "dump", false, "print the raw mapping result for debugging")

	return cmd
}
