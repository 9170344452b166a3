package client

import (
	"github.com/pkg/errors"

	"github.com/viant/litesql-ha/sqlpb"
	"github.com/viant/litesql-ha/value"
)

// Result is the outcome of one statement: a table of decoded rows, or a
// count of affected rows.
type Result struct {
	Columns      []string
	Rows         [][]interface{}
	RowsAffected int64
	// Txseq is the replication sequence reported with the response, 0 when
	// the server did not advance it.
	Txseq uint64
}

// HasRows reports whether the result is tabular.
func (r *Result) HasRows() bool { return r != nil && len(r.Columns) > 0 }

// ColumnIndex returns the index of the named column, or -1. Column names may
// repeat; the last occurrence wins.
func (r *Result) ColumnIndex(name string) int {
	if r == nil {
		return -1
	}
	for i := len(r.Columns) - 1; i >= 0; i-- {
		if r.Columns[i] == name {
			return i
		}
	}
	return -1
}

// Value returns the named column of row.
func (r *Result) Value(row int, name string) (interface{}, bool) {
	i := r.ColumnIndex(name)
	if i < 0 || row < 0 || row >= len(r.Rows) {
		return nil, false
	}
	return r.Rows[row][i], true
}

// newResult decodes a response. A malformed value aborts the whole decode.
func newResult(resp *sqlpb.QueryResponse) (*Result, error) {
	result := &Result{RowsAffected: resp.RowsAffected, Txseq: resp.Txseq}
	columns := resp.GetColumns()
	if len(columns) == 0 {
		return result, nil
	}
	result.Columns = append([]string(nil), columns...)
	rows := resp.GetRows()
	result.Rows = make([][]interface{}, 0, len(rows))
	for i, row := range rows {
		if len(row.Values) != len(columns) {
			return nil, errors.Errorf("litesql: row %d has %d values for %d columns", i, len(row.Values), len(columns))
		}
		decoded, err := value.DecodeRow(row.Values)
		if err != nil {
			return nil, errors.Wrapf(err, "row %d", i)
		}
		result.Rows = append(result.Rows, decoded)
	}
	return result, nil
}
