package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/sparq/internal/engine"
	"github.com/roach88/sparq/internal/store"
)

// DataOptions holds the dataset-selection flags shared by query and
// explain: exactly one of a YAML fixture file or a SQLite database.
type DataOptions struct {
	DataFile string // YAML dataset fixture
	Database string // SQLite database path
}

// openDataset opens the selected backend. The returned closer is a
// no-op for the in-memory backend.
func openDataset(opts *DataOptions) (engine.Dataset, func() error, error) {
	switch {
	case opts.DataFile != "" && opts.Database != "":
		return nil, nil, fmt.Errorf("--data and --db are mutually exclusive")

	case opts.DataFile != "":
		ds, err := store.LoadDatasetFile(opts.DataFile)
		if err != nil {
			return nil, nil, fmt.Errorf("loading dataset %s: %w", opts.DataFile, err)
		}
		return store.NewMemorySource(ds), func() error { return nil }, nil

	case opts.Database != "":
		st, err := store.OpenSQLite(opts.Database)
		if err != nil {
			return nil, nil, fmt.Errorf("opening database %s: %w", opts.Database, err)
		}
		return st, st.Close, nil

	default:
		return nil, nil, fmt.Errorf("one of --data or --db is required")
	}
}

func addDataFlags(cmd *cobra.Command, opts *DataOptions) {
	cmd.Flags().StringVar(&opts.DataFile, "data", "", "YAML dataset fixture to query")
	cmd.Flags().StringVar(&opts.Database, "db", "", "SQLite database to query")
}
