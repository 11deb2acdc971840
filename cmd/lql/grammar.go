package main

import (
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/groundwork/lql"
)

func newGrammarCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "grammar",
		Short: "Print the language surface for the schema (fields, operators, functions)",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := schemaFromCmd(cmd)
			if err != nil {
				return err
			}

			g := lql.Describe(s, lql.DefaultFunctions())
			enc := yaml.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent(2)
			defer enc.Close()
			return enc.Encode(g)
		},
	}
}
