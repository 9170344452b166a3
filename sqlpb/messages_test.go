package sqlpb

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"google.golang.org/protobuf/encoding/protowire"
	"google.golang.org/protobuf/testing/protocmp"
	"google.golang.org/protobuf/types/known/anypb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

func mustAny(t *testing.T, v int64) *anypb.Any {
	t.Helper()
	x, err := anypb.New(wrapperspb.Int64(v))
	if err != nil {
		t.Fatalf("anypb.New failed: %v", err)
	}
	return x
}

func TestQueryRequest_RoundTrip(t *testing.T) {
	orig := &QueryRequest{
		ReplicationID: "db1",
		SQL:           "select * from t where a = ? and b = ?",
		Type:          QueryTypeExecQuery,
		Params: []*NamedValue{
			{Ordinal: 1, Value: mustAny(t, 42)},
			{Name: "b", Ordinal: 2, Value: mustAny(t, -1)},
		},
	}
	data, err := Codec{}.Marshal(orig)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	got := &QueryRequest{}
	if err := (Codec{}).Unmarshal(data, got); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if diff := cmp.Diff(orig, got, protocmp.Transform()); diff != "" {
		t.Fatalf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestQueryResponse_RoundTrip(t *testing.T) {
	orig := &QueryResponse{
		ResultSet: &ResultSet{
			Columns: []string{"id", "", "id"},
			Rows: []*Row{
				{Values: []*anypb.Any{mustAny(t, 1), {TypeUrl: "type.googleapis.com/google.protobuf.Empty"}, mustAny(t, 3)}},
				{},
			},
		},
		RowsAffected: 3,
		Txseq:        1 << 40,
	}
	data, err := orig.Marshal()
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	got := &QueryResponse{}
	if err := got.Unmarshal(data); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if diff := cmp.Diff(orig.GetColumns(), got.GetColumns()); diff != "" {
		t.Fatalf("columns mismatch (-want +got):\n%s", diff)
	}
	if len(got.GetRows()) != 2 {
		t.Fatalf("rows = %d, want 2", len(got.GetRows()))
	}
	if diff := cmp.Diff(orig.GetRows()[0].Values, got.GetRows()[0].Values, protocmp.Transform()); diff != "" {
		t.Fatalf("row mismatch (-want +got):\n%s", diff)
	}
	if got.RowsAffected != 3 || got.Txseq != 1<<40 {
		t.Fatalf("got rowsAffected=%d txseq=%d", got.RowsAffected, got.Txseq)
	}
}

func TestQueryResponse_Error(t *testing.T) {
	data, err := (&QueryResponse{Error: "no such table: t"}).Marshal()
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	got := &QueryResponse{}
	if err := got.Unmarshal(data); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if got.Error != "no such table: t" {
		t.Fatalf("Error = %q", got.Error)
	}
	if got.ResultSet != nil || got.GetColumns() != nil || got.GetRows() != nil {
		t.Fatalf("expected no result set, got %+v", got.ResultSet)
	}
}

func TestUnmarshal_SkipsUnknownFields(t *testing.T) {
	var b []byte
	b = protowire.AppendTag(b, 99, protowire.BytesType)
	b = protowire.AppendString(b, "future")
	b = protowire.AppendTag(b, 1, protowire.BytesType)
	b = protowire.AppendString(b, "db1")
	b = protowire.AppendTag(b, 98, protowire.VarintType)
	b = protowire.AppendVarint(b, 7)

	got := &DownloadRequest{}
	if err := got.Unmarshal(b); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if got.ReplicationID != "db1" {
		t.Fatalf("ReplicationID = %q, want db1", got.ReplicationID)
	}
}

func TestUnmarshal_Truncated(t *testing.T) {
	data, err := (&ReplicationIDsResponse{ReplicationIDs: []string{"a", "bb"}}).Marshal()
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	if err := (&ReplicationIDsResponse{}).Unmarshal(data[:len(data)-1]); err == nil {
		t.Fatalf("expected error for truncated message")
	}
}

func TestReplicationIDsResponse_KeepsEmptyIDs(t *testing.T) {
	orig := &ReplicationIDsResponse{ReplicationIDs: []string{"a", "", "c"}}
	data, err := orig.Marshal()
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	got := &ReplicationIDsResponse{}
	if err := got.Unmarshal(data); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if diff := cmp.Diff(orig.ReplicationIDs, got.ReplicationIDs); diff != "" {
		t.Fatalf("ids mismatch (-want +got):\n%s", diff)
	}
}

func TestDownloadResponse_Chunk(t *testing.T) {
	orig := &DownloadResponse{Data: []byte("SQLite format 3\x00")}
	data, err := orig.Marshal()
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	got := &DownloadResponse{}
	if err := got.Unmarshal(data); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if string(got.Data) != string(orig.Data) {
		t.Fatalf("Data = %q", got.Data)
	}

	empty := &LatestSnapshotResponse{}
	data, _ = empty.Marshal()
	if len(data) != 0 {
		t.Fatalf("empty chunk encoded to %d bytes", len(data))
	}
}

func TestCodec_RejectsForeignTypes(t *testing.T) {
	if _, err := (Codec{}).Marshal("text"); err == nil {
		t.Fatalf("expected Marshal error for string")
	}
	if err := (Codec{}).Unmarshal(nil, new(int)); err == nil {
		t.Fatalf("expected Unmarshal error for *int")
	}
	if name := (Codec{}).Name(); name != "proto" {
		t.Fatalf("Name = %q", name)
	}
}

func TestQueryType_String(t *testing.T) {
	for typ, want := range map[QueryType]string{
		QueryTypeUnspecified: "QUERY_TYPE_UNSPECIFIED",
		QueryTypeExecQuery:   "QUERY_TYPE_EXEC_QUERY",
		QueryTypeExecUpdate:  "QUERY_TYPE_EXEC_UPDATE",
		QueryType(9):         "QUERY_TYPE_9",
	} {
		if got := typ.String(); got != want {
			t.Fatalf("%d.String() = %q, want %q", typ, got, want)
		}
	}
}

func TestRow_NilValueIsEmpty(t *testing.T) {
	orig := &Row{Values: []*anypb.Any{mustAny(t, 1), nil}}
	data, err := orig.Marshal()
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	got := &Row{}
	if err := got.Unmarshal(data); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if len(got.Values) != 2 {
		t.Fatalf("got %d values, want 2", len(got.Values))
	}
	if url := got.Values[1].GetTypeUrl(); url != "type.googleapis.com/google.protobuf.Empty" {
		t.Fatalf("nil value tag = %q, want google.protobuf.Empty", url)
	}
}
