package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/sparq/internal/store"
)

// LoadOptions holds flags for the load command.
type LoadOptions struct {
	*RootOptions
	Database string
}

// LoadResult is the JSON success payload of the load command.
type LoadResult struct {
	Triples  int      `json:"triples"`
	Graphs   []string `json:"graphs,omitempty"`
	Database string   `json:"database"`
}

// NewLoadCommand creates the load command.
func NewLoadCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &LoadOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "load <dataset.yaml>",
		Short: "Import a YAML dataset fixture into a SQLite database",
		Long: `Load a YAML triple fixture and import it into a SQLite database,
creating the database if needed. Re-importing the same fixture is
idempotent: duplicate quads are ignored.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLoad(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "SQLite database to create or extend (required)")
	cmd.MarkFlagRequired("db")

	return cmd
}

func runLoad(opts *LoadOptions, dataPath string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	ds, err := store.LoadDatasetFile(dataPath)
	if err != nil {
		formatter.Error("E001", err.Error(), nil)
		return WrapExitError(ExitCommandError, "invalid dataset", err)
	}
	formatter.VerboseLog("Loaded %d triple(s) from %s", ds.Size(), dataPath)

	st, err := store.OpenSQLite(opts.Database)
	if err != nil {
		formatter.Error("E002", err.Error(), nil)
		return WrapExitError(ExitCommandError, "cannot open database", err)
	}
	defer st.Close()

	if err := st.ImportDataset(cmd.Context(), ds); err != nil {
		formatter.Error("E003", err.Error(), nil)
		return WrapExitError(ExitFailure, "import failed", err)
	}

	result := LoadResult{
		Triples:  ds.Size(),
		Database: opts.Database,
	}
	for _, g := range ds.NamedGraphs() {
		result.Graphs = append(result.Graphs, g.Lexical())
	}
	if opts.Format == "json" {
		return formatter.Success(result)
	}
	fmt.Fprintf(formatter.Writer, "imported %d triple(s) into %s\n", result.Triples, result.Database)
	return nil
}
