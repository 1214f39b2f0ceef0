// Package postgres implements the repository contracts on PostgreSQL using
// database/sql with parameterized queries.
package postgres

import (
	"encoding/json"
)

// scanner is satisfied by *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

// nullable maps an empty filter value to SQL NULL so a single static query
// can express optional predicates as ($n::type IS NULL OR col = $n).
func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}

// limitArg maps a zero limit to NULL, which LIMIT treats as no limit.
func limitArg(limit int) any {
	if limit <= 0 {
		return nil
	}
	return limit
}

func marshalJSON(v any) (string, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	if string(b) == "null" {
		return "{}", nil
	}
	return string(b), nil
}

func unmarshalJSON(raw []byte, v any) error {
	if len(raw) == 0 {
		return nil
	}
	return json.Unmarshal(raw, v)
}
