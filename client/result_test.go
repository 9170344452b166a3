package client

import (
	"errors"
	"testing"

	"google.golang.org/protobuf/types/known/anypb"

	"github.com/viant/litesql-ha/sqlpb"
	"github.com/viant/litesql-ha/value"
)

func encodeRow(t *testing.T, values ...interface{}) *sqlpb.Row {
	t.Helper()
	row, err := value.EncodeRow(values)
	if err != nil {
		t.Fatalf("EncodeRow failed: %v", err)
	}
	return &sqlpb.Row{Values: row}
}

func TestResult_ColumnIndexLastWins(t *testing.T) {
	r := &Result{
		Columns: []string{"id", "name", "id"},
		Rows:    [][]interface{}{{int64(1), "a", int64(2)}},
	}
	if i := r.ColumnIndex("id"); i != 2 {
		t.Fatalf("ColumnIndex(id) = %d, want 2", i)
	}
	if i := r.ColumnIndex("missing"); i != -1 {
		t.Fatalf("ColumnIndex(missing) = %d, want -1", i)
	}
	if v, ok := r.Value(0, "id"); !ok || v != int64(2) {
		t.Fatalf("Value(0, id) = %v, %v", v, ok)
	}
	if _, ok := r.Value(1, "id"); ok {
		t.Fatalf("Value out of range reported ok")
	}
}

func TestNewResult(t *testing.T) {
	resp := &sqlpb.QueryResponse{
		ResultSet: &sqlpb.ResultSet{
			Columns: []string{"a", "b"},
			Rows:    []*sqlpb.Row{encodeRow(t, "x", nil), encodeRow(t, int64(1), []byte{})},
		},
		Txseq: 9,
	}
	r, err := newResult(resp)
	if err != nil {
		t.Fatalf("newResult failed: %v", err)
	}
	if !r.HasRows() || len(r.Rows) != 2 || r.Txseq != 9 {
		t.Fatalf("unexpected result %+v", r)
	}
	if r.Rows[0][1] != nil {
		t.Fatalf("null decoded to %v", r.Rows[0][1])
	}

	empty, err := newResult(&sqlpb.QueryResponse{RowsAffected: 4})
	if err != nil {
		t.Fatalf("newResult failed: %v", err)
	}
	if empty.HasRows() || empty.RowsAffected != 4 {
		t.Fatalf("unexpected result %+v", empty)
	}
}

func TestNewResult_AbortsOnBadValue(t *testing.T) {
	resp := &sqlpb.QueryResponse{
		ResultSet: &sqlpb.ResultSet{
			Columns: []string{"a"},
			Rows: []*sqlpb.Row{
				encodeRow(t, "ok"),
				{Values: []*anypb.Any{{TypeUrl: "type.googleapis.com/google.protobuf.Duration"}}},
			},
		},
	}
	r, err := newResult(resp)
	var decodeErr *value.DecodeError
	if !errors.As(err, &decodeErr) {
		t.Fatalf("expected DecodeError, got %v", err)
	}
	if r != nil {
		t.Fatalf("partial result returned: %+v", r)
	}
}

func TestNewResult_RowWidth(t *testing.T) {
	resp := &sqlpb.QueryResponse{
		ResultSet: &sqlpb.ResultSet{
			Columns: []string{"a", "b"},
			Rows:    []*sqlpb.Row{encodeRow(t, "only")},
		},
	}
	if _, err := newResult(resp); err == nil {
		t.Fatalf("expected width error")
	}
}
