package store

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"
	"strings"

	_ "github.com/mattn/go-sqlite3"

	"github.com/roach88/sparq/internal/literal"
)

//go:embed schema.sql
var schemaSQL string

// SQLiteStore is a triples source backed by a SQLite database. Terms are
// stored in their N-Triples serialization; cursors materialize the result
// set of one indexed query, so Match iteration itself never touches the
// database.
//
// The named-graph list is cached at open and refreshed on writes, keeping
// the Graphs contract free of error returns.
type SQLiteStore struct {
	db     *sql.DB
	graphs []string
}

// OpenSQLite creates or opens a triples database at the given path,
// applying pragmas and schema idempotently.
//
// The database is configured with:
//   - WAL mode for concurrent reads during writes
//   - NORMAL synchronous mode
//   - 5-second busy timeout for lock contention
func OpenSQLite(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("connect: %w", err)
	}

	// SQLite supports one writer at a time; a single connection avoids
	// SQLITE_BUSY churn.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	for _, pragma := range []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("apply %q: %w", pragma, err)
		}
	}
	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}

	s := &SQLiteStore{db: db}
	if err := s.refreshGraphs(context.Background()); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Insert adds one triple. Duplicate quads are ignored.
func (s *SQLiteStore) Insert(ctx context.Context, t Triple) error {
	graph := ""
	if t.Origin != nil {
		graph = t.Origin.Lexical()
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT OR IGNORE INTO triples (graph, subject, predicate, object)
		VALUES (?, ?, ?, ?)
	`, graph, t.Subject.String(), t.Predicate.String(), t.Object.String())
	if err != nil {
		return fmt.Errorf("insert triple: %w", err)
	}
	if graph != "" && !s.ContainsNamedGraph(graph) {
		s.graphs = append(s.graphs, graph)
	}
	return nil
}

// ImportDataset copies every triple of an in-memory dataset into the
// database inside one transaction.
func (s *SQLiteStore) ImportDataset(ctx context.Context, ds *Dataset) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin import: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT OR IGNORE INTO triples (graph, subject, predicate, object)
		VALUES (?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("prepare import: %w", err)
	}
	defer stmt.Close()

	insert := func(graph string, triples []Triple) error {
		for _, t := range triples {
			if _, err := stmt.ExecContext(ctx, graph,
				t.Subject.String(), t.Predicate.String(), t.Object.String()); err != nil {
				return fmt.Errorf("import triple: %w", err)
			}
		}
		return nil
	}

	if err := insert("", ds.defaultGraph); err != nil {
		return err
	}
	for _, uri := range ds.graphOrder {
		if err := insert(uri, ds.named[uri]); err != nil {
			return err
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit import: %w", err)
	}
	return s.refreshGraphs(ctx)
}

// TriplePresent implements Source via an indexed existence probe.
func (s *SQLiteStore) TriplePresent(ctx context.Context, t Triple) (bool, error) {
	graph := ""
	if t.Origin != nil {
		graph = t.Origin.Lexical()
	}
	var one int
	err := s.db.QueryRowContext(ctx, `
		SELECT 1 FROM triples
		WHERE graph = ? AND subject = ? AND predicate = ? AND object = ?
	`, graph, t.Subject.String(), t.Predicate.String(), t.Object.String()).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("probe triple: %w", err)
	}
	return true, nil
}

// NewMatch implements Source. Ground pattern positions become WHERE
// clauses; the result set is materialized so the returned cursor never
// blocks on I/O during backtracking.
func (s *SQLiteStore) NewMatch(ctx context.Context, p *Pattern) (Match, error) {
	var (
		where []string
		args  []any
	)
	graph := ""
	if p.Origin != nil {
		graph = p.Origin.Lexical()
	}
	switch {
	case p.Origin != nil:
		where = append(where, "graph = ?")
		args = append(args, graph)
	case p.OriginVar != nil:
		// GRAPH ?g with no scope yet matches named graphs only.
		where = append(where, "graph != ''")
	default:
		where = append(where, "graph = ''")
	}
	if !p.Subject.IsVar() {
		where = append(where, "subject = ?")
		args = append(args, p.Subject.Term.String())
	}
	if !p.Predicate.IsVar() {
		where = append(where, "predicate = ?")
		args = append(args, p.Predicate.Term.String())
	}
	if !p.Object.IsVar() {
		where = append(where, "object = ?")
		args = append(args, p.Object.Term.String())
	}

	q := `SELECT graph, subject, predicate, object FROM triples WHERE ` +
		strings.Join(where, " AND ") +
		` ORDER BY graph, subject, predicate, object`
	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("query pattern: %w", err)
	}
	defer rows.Close()

	var triples []Triple
	for rows.Next() {
		var g, subj, pred, obj string
		if err := rows.Scan(&g, &subj, &pred, &obj); err != nil {
			return nil, fmt.Errorf("scan triple: %w", err)
		}
		t, err := parseStoredTriple(g, subj, pred, obj)
		if err != nil {
			return nil, err
		}
		triples = append(triples, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate pattern matches: %w", err)
	}
	return &sliceMatch{pattern: p, triples: triples}, nil
}

// ContainsNamedGraph implements Graphs from the cached graph list.
func (s *SQLiteStore) ContainsNamedGraph(uri string) bool {
	for _, g := range s.graphs {
		if g == uri {
			return true
		}
	}
	return false
}

// NamedGraphs implements Graphs.
func (s *SQLiteStore) NamedGraphs() []*literal.Literal {
	out := make([]*literal.Literal, 0, len(s.graphs))
	for _, g := range s.graphs {
		out = append(out, literal.NewURI(g))
	}
	return out
}

func (s *SQLiteStore) refreshGraphs(ctx context.Context) error {
	rows, err := s.db.QueryContext(ctx,
		`SELECT DISTINCT graph FROM triples WHERE graph != '' ORDER BY graph`)
	if err != nil {
		return fmt.Errorf("list graphs: %w", err)
	}
	defer rows.Close()

	s.graphs = s.graphs[:0]
	for rows.Next() {
		var g string
		if err := rows.Scan(&g); err != nil {
			return fmt.Errorf("scan graph: %w", err)
		}
		s.graphs = append(s.graphs, g)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterate graphs: %w", err)
	}
	return nil
}

func parseStoredTriple(graph, subj, pred, obj string) (Triple, error) {
	s, err := literal.ParseTerm(subj)
	if err != nil {
		return Triple{}, fmt.Errorf("stored subject %q: %w", subj, err)
	}
	p, err := literal.ParseTerm(pred)
	if err != nil {
		return Triple{}, fmt.Errorf("stored predicate %q: %w", pred, err)
	}
	o, err := literal.ParseTerm(obj)
	if err != nil {
		return Triple{}, fmt.Errorf("stored object %q: %w", obj, err)
	}
	t := Triple{Subject: s, Predicate: p, Object: o}
	if graph != "" {
		t.Origin = literal.NewURI(graph)
	}
	return t, nil
}
