package store

import (
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/roach88/sparq/internal/literal"
)

// YAML dataset fixtures. The format mirrors the dataset shape directly:
//
//	default:
//	  - ["<http://example.org/a>", "<http://example.org/p>", '"5"^^xsd:integer']
//	graphs:
//	  http://example.org/g1:
//	    - ["<http://example.org/a>", "<http://example.org/p>", '"x"']
//
// Each triple is a three-element list of terms in the syntax accepted by
// literal.ParseTerm. Blank node labels are scoped to the document: every
// distinct "_:label" is rewritten to a fresh generated label, so loading
// the same fixture twice never aliases blank nodes across loads.

type datasetFile struct {
	Default [][]string            `yaml:"default"`
	Graphs  map[string][][]string `yaml:"graphs"`
}

// LoadDataset reads a YAML dataset fixture.
func LoadDataset(r io.Reader, gen BlankLabelGenerator) (*Dataset, error) {
	var file datasetFile
	dec := yaml.NewDecoder(r)
	if err := dec.Decode(&file); err != nil {
		return nil, fmt.Errorf("decode dataset: %w", err)
	}

	if gen == nil {
		gen = UUIDv7Generator{}
	}
	labels := make(map[string]string)

	ds := NewDataset()
	for i, row := range file.Default {
		s, p, o, err := parseTripleRow(row, labels, gen)
		if err != nil {
			return nil, fmt.Errorf("default graph triple %d: %w", i, err)
		}
		ds.Add(s, p, o)
	}
	for graphURI, rows := range file.Graphs {
		for i, row := range rows {
			s, p, o, err := parseTripleRow(row, labels, gen)
			if err != nil {
				return nil, fmt.Errorf("graph <%s> triple %d: %w", graphURI, i, err)
			}
			ds.AddToGraph(graphURI, s, p, o)
		}
	}
	return ds, nil
}

// LoadDatasetFile reads a YAML dataset fixture from a path.
func LoadDatasetFile(path string) (*Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open dataset: %w", err)
	}
	defer f.Close()
	return LoadDataset(f, nil)
}

func parseTripleRow(row []string, labels map[string]string, gen BlankLabelGenerator) (s, p, o *literal.Literal, err error) {
	if len(row) != 3 {
		return nil, nil, nil, fmt.Errorf("triple must have 3 terms, got %d", len(row))
	}
	terms := make([]*literal.Literal, 3)
	for i, raw := range row {
		t, err := literal.ParseTerm(raw)
		if err != nil {
			return nil, nil, nil, err
		}
		if t.Kind() == literal.KindBlank {
			fresh, ok := labels[t.Lexical()]
			if !ok {
				fresh = gen.Generate()
				labels[t.Lexical()] = fresh
			}
			t = literal.NewBlank(fresh)
		}
		terms[i] = t
	}
	return terms[0], terms[1], terms[2], nil
}
