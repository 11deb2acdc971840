// Command lql checks, formats, and runs LQL queries against a Groundwork
// issues database.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/groundwork/lql"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "lql",
		Short:         "LQL issue query language tools",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().String("schema", "", "YAML schema file (defaults to the built-in issue schema)")

	root.AddCommand(
		newCheckCmd(),
		newFmtCmd(),
		newGrammarCmd(),
		newRunCmd(),
	)
	return root
}

// schemaFromCmd loads the --schema file, falling back to the built-in
// issue schema.
func schemaFromCmd(cmd *cobra.Command) (*lql.Schema, error) {
	path, err := cmd.Flags().GetString("schema")
	if err != nil {
		return nil, err
	}
	if path == "" {
		return lql.IssueSchema(), nil
	}
	return lql.LoadSchema(path)
}
