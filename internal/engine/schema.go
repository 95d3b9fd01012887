package engine

import (
	"context"
	"fmt"

	"github.com/nit-tools/nit/internal/store"
)

// Schema returns the fixed DDL nit applies to every database (§4.4
// `schema`).
func Schema() string {
	return store.Schema
}

// SchemaDrift names a schema object whose live definition no longer
// matches what Open would create fresh.
type SchemaDrift struct {
	Name     string `json:"name"`
	Expected string `json:"expected"` // empty if the object is unexpected (live-only)
	Live     string `json:"live"`     // empty if the object is missing (expected-only)
}

// VerifySchema compares the live database's tables/indexes/triggers
// against a reference schema applied to a throwaway in-memory database,
// reporting every mismatch (SPEC_FULL `schema --verify` supplement).
func (e *Engine) VerifySchema(ctx context.Context) ([]SchemaDrift, error) {
	ref, err := store.Open(ctx, ":memory:")
	if err != nil {
		return nil, fmt.Errorf("open reference schema: %w", err)
	}
	defer func() { _ = ref.Close() }()

	expected, err := ref.LiveSchemaSQL(ctx)
	if err != nil {
		return nil, err
	}
	live, err := e.Store.LiveSchemaSQL(ctx)
	if err != nil {
		return nil, err
	}

	var drift []SchemaDrift
	for name, exp := range expected {
		if got, ok := live[name]; !ok {
			drift = append(drift, SchemaDrift{Name: name, Expected: exp})
		} else if got != exp {
			drift = append(drift, SchemaDrift{Name: name, Expected: exp, Live: got})
		}
	}
	for name, got := range live {
		if _, ok := expected[name]; !ok {
			drift = append(drift, SchemaDrift{Name: name, Live: got})
		}
	}
	return drift, nil
}
