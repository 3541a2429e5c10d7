package store

import (
	"fmt"
	"strings"

	"github.com/awlens/awlens/internal/errs"
)

// RawResult holds the rows of an ad-hoc query as strings, column-ordered.
type RawResult struct {
	Columns []string   `json:"columns"`
	Rows    [][]string `json:"rows"`
}

// RawQuery runs an arbitrary read-only query against the event store for
// ad-hoc analysis. Only a single SELECT (or WITH ... SELECT) statement is
// accepted; the connection itself is opened read-only, so this check is a
// fast failure rather than the enforcement mechanism.
func (s *Store) RawQuery(query string) (*RawResult, error) {
	trimmed := strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(query), ";"))
	if trimmed == "" {
		return nil, errs.Validation("empty query")
	}
	if strings.Contains(trimmed, ";") {
		return nil, errs.Validation("only a single statement is allowed")
	}
	upper := strings.ToUpper(trimmed)
	if !strings.HasPrefix(upper, "SELECT") && !strings.HasPrefix(upper, "WITH") {
		return nil, errs.Validation("only SELECT queries are allowed")
	}

	rows, err := s.db.Query(trimmed)
	if err != nil {
		return nil, fmt.Errorf("query failed: %w", err)
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("failed to read columns: %w", err)
	}

	result := &RawResult{Columns: cols}
	for rows.Next() {
		values := make([]interface{}, len(cols))
		ptrs := make([]interface{}, len(cols))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}

		row := make([]string, len(cols))
		for i, v := range values {
			switch val := v.(type) {
			case nil:
				row[i] = ""
			case []byte:
				row[i] = string(val)
			default:
				row[i] = fmt.Sprintf("%v", val)
			}
		}
		result.Rows = append(result.Rows, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return result, nil
}
