package sqlpb

import (
	"strconv"

	"google.golang.org/protobuf/encoding/protowire"
	"google.golang.org/protobuf/types/known/anypb"
)

// QueryType selects how the server executes a statement.
type QueryType int32

const (
	// QueryTypeUnspecified lets the server decide from the statement.
	QueryTypeUnspecified QueryType = 0
	// QueryTypeExecQuery forces a row-returning execution.
	QueryTypeExecQuery QueryType = 1
	// QueryTypeExecUpdate forces a mutation returning rows affected.
	QueryTypeExecUpdate QueryType = 2
)

func (t QueryType) String() string {
	switch t {
	case QueryTypeUnspecified:
		return "QUERY_TYPE_UNSPECIFIED"
	case QueryTypeExecQuery:
		return "QUERY_TYPE_EXEC_QUERY"
	case QueryTypeExecUpdate:
		return "QUERY_TYPE_EXEC_UPDATE"
	}
	return "QUERY_TYPE_" + strconv.Itoa(int(t))
}

// NamedValue is one statement parameter.
type NamedValue struct {
	Name    string
	Ordinal int64
	Value   *anypb.Any
}

func (m *NamedValue) Marshal() ([]byte, error) {
	var b []byte
	b = appendString(b, 1, m.Name)
	b = appendVarint(b, 2, uint64(m.Ordinal))
	if m.Value != nil {
		var err error
		if b, err = appendAny(b, 3, m.Value); err != nil {
			return nil, err
		}
	}
	return b, nil
}

func (m *NamedValue) Unmarshal(b []byte) error {
	*m = NamedValue{}
	return consumeFields(b, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		switch num {
		case 1:
			return consumeString(typ, b, &m.Name)
		case 2:
			var v uint64
			n, err := consumeVarint(typ, b, &v)
			m.Ordinal = int64(v)
			return n, err
		case 3:
			return consumeAny(typ, b, &m.Value)
		}
		return 0, nil
	})
}

// QueryRequest carries one statement on the Query stream.
type QueryRequest struct {
	ReplicationID string
	SQL           string
	Type          QueryType
	Params        []*NamedValue
}

func (m *QueryRequest) Marshal() ([]byte, error) {
	var b []byte
	b = appendString(b, 1, m.ReplicationID)
	b = appendString(b, 2, m.SQL)
	b = appendVarint(b, 3, uint64(m.Type))
	for _, p := range m.Params {
		raw, err := p.Marshal()
		if err != nil {
			return nil, err
		}
		b = appendMessage(b, 4, raw)
	}
	return b, nil
}

func (m *QueryRequest) Unmarshal(b []byte) error {
	*m = QueryRequest{}
	return consumeFields(b, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		switch num {
		case 1:
			return consumeString(typ, b, &m.ReplicationID)
		case 2:
			return consumeString(typ, b, &m.SQL)
		case 3:
			var v uint64
			n, err := consumeVarint(typ, b, &v)
			m.Type = QueryType(v)
			return n, err
		case 4:
			var raw []byte
			n, err := consumeBytes(typ, b, &raw)
			if n == 0 || err != nil {
				return n, err
			}
			p := &NamedValue{}
			if err := p.Unmarshal(raw); err != nil {
				return 0, err
			}
			m.Params = append(m.Params, p)
			return n, nil
		}
		return 0, nil
	})
}

// Row is one result row; its width matches the result set's column count.
type Row struct {
	Values []*anypb.Any
}

func (m *Row) Marshal() ([]byte, error) {
	var b []byte
	for _, v := range m.Values {
		var err error
		if b, err = appendAny(b, 1, v); err != nil {
			return nil, err
		}
	}
	return b, nil
}

func (m *Row) Unmarshal(b []byte) error {
	*m = Row{}
	return consumeFields(b, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		if num != 1 {
			return 0, nil
		}
		var x *anypb.Any
		n, err := consumeAny(typ, b, &x)
		if n > 0 && err == nil {
			m.Values = append(m.Values, x)
		}
		return n, err
	})
}

// ResultSet is the tabular part of a QueryResponse.
type ResultSet struct {
	Columns []string
	Rows    []*Row
}

func (m *ResultSet) Marshal() ([]byte, error) {
	var b []byte
	for _, c := range m.Columns {
		b = appendRepeatedString(b, 1, c)
	}
	for _, r := range m.Rows {
		raw, err := r.Marshal()
		if err != nil {
			return nil, err
		}
		b = appendMessage(b, 2, raw)
	}
	return b, nil
}

func (m *ResultSet) Unmarshal(b []byte) error {
	*m = ResultSet{}
	return consumeFields(b, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		switch num {
		case 1:
			var c string
			n, err := consumeString(typ, b, &c)
			if n > 0 && err == nil {
				m.Columns = append(m.Columns, c)
			}
			return n, err
		case 2:
			var raw []byte
			n, err := consumeBytes(typ, b, &raw)
			if n == 0 || err != nil {
				return n, err
			}
			r := &Row{}
			if err := r.Unmarshal(raw); err != nil {
				return 0, err
			}
			m.Rows = append(m.Rows, r)
			return n, nil
		}
		return 0, nil
	})
}

// QueryResponse answers exactly one QueryRequest. A non-empty Error means the
// statement failed.
type QueryResponse struct {
	Error        string
	ResultSet    *ResultSet
	RowsAffected int64
	Txseq        uint64
}

// GetColumns is nil-safe access to the result set columns.
func (m *QueryResponse) GetColumns() []string {
	if m == nil || m.ResultSet == nil {
		return nil
	}
	return m.ResultSet.Columns
}

// GetRows is nil-safe access to the result set rows.
func (m *QueryResponse) GetRows() []*Row {
	if m == nil || m.ResultSet == nil {
		return nil
	}
	return m.ResultSet.Rows
}

func (m *QueryResponse) Marshal() ([]byte, error) {
	var b []byte
	b = appendString(b, 1, m.Error)
	if m.ResultSet != nil {
		raw, err := m.ResultSet.Marshal()
		if err != nil {
			return nil, err
		}
		b = appendMessage(b, 2, raw)
	}
	b = appendVarint(b, 3, uint64(m.RowsAffected))
	b = appendVarint(b, 4, m.Txseq)
	return b, nil
}

func (m *QueryResponse) Unmarshal(b []byte) error {
	*m = QueryResponse{}
	return consumeFields(b, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		switch num {
		case 1:
			return consumeString(typ, b, &m.Error)
		case 2:
			var raw []byte
			n, err := consumeBytes(typ, b, &raw)
			if n == 0 || err != nil {
				return n, err
			}
			rs := &ResultSet{}
			if err := rs.Unmarshal(raw); err != nil {
				return 0, err
			}
			m.ResultSet = rs
			return n, nil
		case 3:
			var v uint64
			n, err := consumeVarint(typ, b, &v)
			m.RowsAffected = int64(v)
			return n, err
		case 4:
			return consumeVarint(typ, b, &m.Txseq)
		}
		return 0, nil
	})
}

// DownloadRequest asks for the current database file of one replication id.
type DownloadRequest struct {
	ReplicationID string
}

func (m *DownloadRequest) Marshal() ([]byte, error) {
	return appendString(nil, 1, m.ReplicationID), nil
}

func (m *DownloadRequest) Unmarshal(b []byte) error {
	*m = DownloadRequest{}
	return consumeFields(b, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		if num == 1 {
			return consumeString(typ, b, &m.ReplicationID)
		}
		return 0, nil
	})
}

// DownloadResponse is one chunk of a downloaded database file.
type DownloadResponse struct {
	Data []byte
}

func (m *DownloadResponse) Marshal() ([]byte, error) {
	return appendBytes(nil, 1, m.Data), nil
}

func (m *DownloadResponse) Unmarshal(b []byte) error {
	*m = DownloadResponse{}
	return consumeFields(b, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		if num == 1 {
			return consumeBytes(typ, b, &m.Data)
		}
		return 0, nil
	})
}

// LatestSnapshotRequest asks for the latest snapshot of one replication id.
type LatestSnapshotRequest struct {
	ReplicationID string
}

func (m *LatestSnapshotRequest) Marshal() ([]byte, error) {
	return appendString(nil, 1, m.ReplicationID), nil
}

func (m *LatestSnapshotRequest) Unmarshal(b []byte) error {
	*m = LatestSnapshotRequest{}
	return consumeFields(b, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		if num == 1 {
			return consumeString(typ, b, &m.ReplicationID)
		}
		return 0, nil
	})
}

// LatestSnapshotResponse is one chunk of a snapshot.
type LatestSnapshotResponse struct {
	Data []byte
}

func (m *LatestSnapshotResponse) Marshal() ([]byte, error) {
	return appendBytes(nil, 1, m.Data), nil
}

func (m *LatestSnapshotResponse) Unmarshal(b []byte) error {
	*m = LatestSnapshotResponse{}
	return consumeFields(b, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		if num == 1 {
			return consumeBytes(typ, b, &m.Data)
		}
		return 0, nil
	})
}

// Empty mirrors google.protobuf.Empty.
type Empty struct{}

func (m *Empty) Marshal() ([]byte, error) { return nil, nil }

func (m *Empty) Unmarshal(b []byte) error {
	return consumeFields(b, func(protowire.Number, protowire.Type, []byte) (int, error) { return 0, nil })
}

// ReplicationIDsResponse lists every replication id the server hosts.
type ReplicationIDsResponse struct {
	ReplicationIDs []string
}

func (m *ReplicationIDsResponse) Marshal() ([]byte, error) {
	var b []byte
	for _, id := range m.ReplicationIDs {
		b = appendRepeatedString(b, 1, id)
	}
	return b, nil
}

func (m *ReplicationIDsResponse) Unmarshal(b []byte) error {
	*m = ReplicationIDsResponse{}
	return consumeFields(b, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		if num != 1 {
			return 0, nil
		}
		var id string
		n, err := consumeString(typ, b, &id)
		if n > 0 && err == nil {
			m.ReplicationIDs = append(m.ReplicationIDs, id)
		}
		return n, err
	})
}
