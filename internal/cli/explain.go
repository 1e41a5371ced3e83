package cli

import (
	"github.com/spf13/cobra"

	"github.com/roach88/sparq/internal/engine"
)

// ExplainOptions holds flags for the explain command.
type ExplainOptions struct {
	*RootOptions
	Data DataOptions
}

// NewExplainCommand creates the explain command.
func NewExplainCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ExplainOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "explain <query.json>",
		Short: "Print a query's execution plan without running it",
		Long: `Compile a JSON algebra query against a dataset and print the
rowsource plan, one operator per line. The dataset matters: GRAPH over
an absent named graph compiles to an empty plan.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExplain(opts, args[0], cmd)
		},
	}

	addDataFlags(cmd, &opts.Data)

	return cmd
}

func runExplain(opts *ExplainOptions, queryPath string, cmd *cobra.Command) error {
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
	for _, p := range patterns {
		formatter.VerboseLog("pattern: %s", engine.PatternString(p))
	}

	src, closeSrc, err := openDataset(&opts.Data)
	if err != nil {
		formatter.Error("E002", err.Error(), nil)
		return WrapExitError(ExitCommandError, "cannot open dataset", err)
	}
	defer closeSrc()

	plan, err := engine.NewExecutor(src).ExplainQuery(cmd.Context(), q, vt)
	if err != nil {
		formatter.Error("E003", err.Error(), nil)
		return WrapExitError(ExitFailure, "compilation failed", err)
	}
	return formatter.Success(plan)
}
