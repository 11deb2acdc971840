package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/groundwork/lql"
)

func newCheckCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check <query>",
		Short: "Validate a query against the schema",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := schemaFromCmd(cmd)
			if err != nil {
				return err
			}

			query := args[0]
			errs := lql.Validate(query, s, lql.DefaultFunctions())
			if errs == nil {
				fmt.Fprintln(cmd.OutOrStdout(), "OK")
				return nil
			}

			out := cmd.OutOrStdout()
			for _, e := range errs {
				fmt.Fprintln(out, query)
				fmt.Fprintln(out, underline(query, e.Start, e.End))
				fmt.Fprintf(out, "%s: %s\n", e.Kind, e.Message)
			}
			return fmt.Errorf("%d problem(s) found", len(errs))
		},
	}
}

// underline renders a caret line pointing at the byte range [start, end).
func underline(query string, start, end int) string {
	if start < 0 {
		start = 0
	}
	if end <= start {
		end = start + 1
	}
	if start > len(query) {
		start = len(query)
	}
	if end > len(query)+1 {
		end = len(query) + 1
	}
	return strings.Repeat(" ", start) + strings.Repeat("^", end-start)
}

func newFmtCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "fmt <query>",
		Short: "Pretty-print a query in canonical form",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			formatted, err := lql.Format(args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatted)
			return nil
		},
	}
}
