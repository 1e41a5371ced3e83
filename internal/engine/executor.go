package engine

import (
	"context"
	"log/slog"
	"time"

	"github.com/roach88/sparq/internal/algebra"
	"github.com/roach88/sparq/internal/query"
)

// Results holds a completed query's output: the projected variables and
// the result rows in output order.
type Results struct {
	Vars []*query.Variable
	Rows []*query.Row
}

// Executor compiles and runs queries against one dataset.
type Executor struct {
	src Dataset
	log *slog.Logger
}

// Option configures an Executor.
type Option func(*Executor)

// WithLogger sets the structured logger. The default is slog.Default().
func WithLogger(log *slog.Logger) Option {
	return func(e *Executor) { e.log = log }
}

// NewExecutor creates an executor over a dataset.
func NewExecutor(src Dataset, opts ...Option) *Executor {
	e := &Executor{src: src, log: slog.Default()}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Execute compiles the query and drains it to completion. The variables
// table must be the one the query's patterns were built against; its
// current bindings are cleared first.
func (e *Executor) Execute(ctx context.Context, q *algebra.Query, vt *query.VarTable) (*Results, error) {
	start := time.Now()
	vt.ResetValues()

	rs, err := Compile(ctx, q, e.src, vt)
	if err != nil {
		return nil, err
	}
	defer rs.Close()

	if err := rs.Init(); err != nil {
		return nil, err
	}
	rows, err := rs.ReadAllRows()
	if err != nil {
		e.log.ErrorContext(ctx, "query failed",
			slog.String("error", err.Error()),
			slog.Duration("elapsed", time.Since(start)))
		return nil, err
	}

	e.log.DebugContext(ctx, "query complete",
		slog.Int("rows", len(rows)),
		slog.Duration("elapsed", time.Since(start)))
	return &Results{Vars: rs.Vars(), Rows: rows}, nil
}

// ExplainQuery compiles the query and renders its plan without running
// it.
func (e *Executor) ExplainQuery(ctx context.Context, q *algebra.Query, vt *query.VarTable) (string, error) {
	vt.ResetValues()
	rs, err := Compile(ctx, q, e.src, vt)
	if err != nil {
		return "", err
	}
	defer rs.Close()
	return Explain(rs), nil
}
