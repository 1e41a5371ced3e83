package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/sparq/internal/algebra"
	"github.com/roach88/sparq/internal/engine"
	"github.com/roach88/sparq/internal/query"
	"github.com/roach88/sparq/internal/store"
)

// QueryOptions holds flags for the query command.
type QueryOptions struct {
	*RootOptions
	Data DataOptions
}

// QueryResult is the JSON success payload: one object per row mapping
// variable names to term strings.
type QueryResult struct {
	Vars []string            `json:"vars"`
	Rows []map[string]string `json:"rows"`
	N    int                 `json:"count"`
}

// NewQueryCommand creates the query command.
func NewQueryCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &QueryOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "query <query.json>",
		Short: "Run an algebra query against a dataset",
		Long: `Run a JSON algebra query against a YAML fixture or SQLite database.

Results print one row per line in text mode, or as a JSON object with
a "rows" array in JSON mode.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runQuery(opts, args[0], cmd)
		},
	}

	addDataFlags(cmd, &opts.Data)

	return cmd
}

func runQuery(opts *QueryOptions, queryPath string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	q, vt, patterns, err := loadQueryFile(queryPath)
	if err != nil {
		formatter.Error("E001", err.Error(), nil)
		return WrapExitError(ExitCommandError, "invalid query", err)
	}
	formatter.VerboseLog("Query has %d pattern(s), %d variable(s)", len(patterns), vt.Size())
	for _, p := range patterns {
		formatter.VerboseLog("  %s", engine.PatternString(p))
	}

	src, closeSrc, err := openDataset(&opts.Data)
	if err != nil {
		formatter.Error("E002", err.Error(), nil)
		return WrapExitError(ExitCommandError, "cannot open dataset", err)
	}
	defer closeSrc()

	res, err := engine.NewExecutor(src).Execute(cmd.Context(), q, vt)
	if err != nil {
		formatter.Error("E003", err.Error(), nil)
		return WrapExitError(ExitFailure, "query failed", err)
	}

	return outputResults(formatter, res)
}

func loadQueryFile(path string) (*algebra.Query, *query.VarTable, []*store.Pattern, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("reading query file: %w", err)
	}
	return DecodeQuery(data)
}

func outputResults(f *OutputFormatter, res *engine.Results) error {
	if f.Format == "json" {
		out := QueryResult{N: len(res.Rows)}
		for _, v := range res.Vars {
			out.Vars = append(out.Vars, v.Name)
		}
		for _, row := range res.Rows {
			m := make(map[string]string, len(res.Vars))
			for _, v := range res.Vars {
				if val := row.Value(v.Offset); val != nil {
					m[v.Name] = val.AsNode().String()
				}
			}
			out.Rows = append(out.Rows, m)
		}
		return f.Success(out)
	}

	for _, row := range res.Rows {
		var b strings.Builder
		for i, v := range res.Vars {
			if i > 0 {
				b.WriteString("  ")
			}
			b.WriteString("?" + v.Name + "=")
			if val := row.Value(v.Offset); val != nil {
				b.WriteString(val.AsNode().String())
			} else {
				b.WriteString("_")
			}
		}
		fmt.Fprintln(f.Writer, b.String())
	}
	fmt.Fprintf(f.Writer, "%d row(s)\n", len(res.Rows))
	return nil
}
