package value

import (
	"time"

	"github.com/pkg/errors"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/anypb"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/timestamppb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

// Type URLs of the supported wire tags.
const (
	typeURLPrefix = "type.googleapis.com/"

	TypeNull      = typeURLPrefix + "google.protobuf.Empty"
	TypeString    = typeURLPrefix + "google.protobuf.StringValue"
	TypeInt64     = typeURLPrefix + "google.protobuf.Int64Value"
	TypeInt32     = typeURLPrefix + "google.protobuf.Int32Value"
	TypeUint64    = typeURLPrefix + "google.protobuf.UInt64Value"
	TypeUint32    = typeURLPrefix + "google.protobuf.UInt32Value"
	TypeDouble    = typeURLPrefix + "google.protobuf.DoubleValue"
	TypeFloat     = typeURLPrefix + "google.protobuf.FloatValue"
	TypeBool      = typeURLPrefix + "google.protobuf.BoolValue"
	TypeTimestamp = typeURLPrefix + "google.protobuf.Timestamp"
	TypeBytes     = typeURLPrefix + "google.protobuf.BytesValue"
)

// Null returns the wire representation of SQL NULL.
func Null() *anypb.Any {
	return &anypb.Any{TypeUrl: TypeNull}
}

// Encode converts a native scalar into its wire envelope. Canonical inputs
// are nil, string, int64, int32, uint64, uint32, float64, float32, bool,
// time.Time and []byte; int, int8, int16, uint, uint8 and uint16 are widened
// on the way out. Anything else yields an *UnsupportedTypeError.
func Encode(v interface{}) (*anypb.Any, error) {
	var msg proto.Message
	switch x := v.(type) {
	case nil:
		return Null(), nil
	case string:
		msg = wrapperspb.String(x)
	case int64:
		msg = wrapperspb.Int64(x)
	case int:
		msg = wrapperspb.Int64(int64(x))
	case int32:
		msg = wrapperspb.Int32(x)
	case int16:
		msg = wrapperspb.Int32(int32(x))
	case int8:
		msg = wrapperspb.Int32(int32(x))
	case uint64:
		msg = wrapperspb.UInt64(x)
	case uint:
		msg = wrapperspb.UInt64(uint64(x))
	case uint32:
		msg = wrapperspb.UInt32(x)
	case uint16:
		msg = wrapperspb.UInt32(uint32(x))
	case uint8:
		msg = wrapperspb.UInt32(uint32(x))
	case float64:
		msg = wrapperspb.Double(x)
	case float32:
		msg = wrapperspb.Float(x)
	case bool:
		msg = wrapperspb.Bool(x)
	case time.Time:
		ts := timestamppb.New(x)
		if err := ts.CheckValid(); err != nil {
			return nil, &UnsupportedTypeError{Value: v, Reason: err.Error()}
		}
		msg = ts
	case []byte:
		if x == nil {
			x = []byte{}
		}
		msg = wrapperspb.Bytes(x)
	default:
		return nil, &UnsupportedTypeError{Value: v}
	}
	return anypb.New(msg)
}

// Decode converts a wire envelope back into its canonical native value. A
// nil envelope, a zero envelope (an unset message field on the wire) and
// Empty decode to nil. A payload without a type URL is a DecodeError.
func Decode(x *anypb.Any) (interface{}, error) {
	if x == nil {
		return nil, nil
	}
	if x.GetTypeUrl() == "" {
		if len(x.GetValue()) > 0 {
			return nil, &DecodeError{Err: errors.New("payload without type URL")}
		}
		return nil, nil
	}
	switch x.GetTypeUrl() {
	case TypeNull:
		if err := unmarshal(x, &emptypb.Empty{}); err != nil {
			return nil, err
		}
		return nil, nil
	case TypeString:
		m := &wrapperspb.StringValue{}
		if err := unmarshal(x, m); err != nil {
			return nil, err
		}
		return m.GetValue(), nil
	case TypeInt64:
		m := &wrapperspb.Int64Value{}
		if err := unmarshal(x, m); err != nil {
			return nil, err
		}
		return m.GetValue(), nil
	case TypeInt32:
		m := &wrapperspb.Int32Value{}
		if err := unmarshal(x, m); err != nil {
			return nil, err
		}
		return m.GetValue(), nil
	case TypeUint64:
		m := &wrapperspb.UInt64Value{}
		if err := unmarshal(x, m); err != nil {
			return nil, err
		}
		return m.GetValue(), nil
	case TypeUint32:
		m := &wrapperspb.UInt32Value{}
		if err := unmarshal(x, m); err != nil {
			return nil, err
		}
		return m.GetValue(), nil
	case TypeDouble:
		m := &wrapperspb.DoubleValue{}
		if err := unmarshal(x, m); err != nil {
			return nil, err
		}
		return m.GetValue(), nil
	case TypeFloat:
		m := &wrapperspb.FloatValue{}
		if err := unmarshal(x, m); err != nil {
			return nil, err
		}
		return m.GetValue(), nil
	case TypeBool:
		m := &wrapperspb.BoolValue{}
		if err := unmarshal(x, m); err != nil {
			return nil, err
		}
		return m.GetValue(), nil
	case TypeTimestamp:
		m := &timestamppb.Timestamp{}
		if err := unmarshal(x, m); err != nil {
			return nil, err
		}
		if err := m.CheckValid(); err != nil {
			return nil, &DecodeError{TypeURL: x.GetTypeUrl(), Err: err}
		}
		return m.AsTime(), nil
	case TypeBytes:
		m := &wrapperspb.BytesValue{}
		if err := unmarshal(x, m); err != nil {
			return nil, err
		}
		if m.GetValue() == nil {
			return []byte{}, nil
		}
		return m.GetValue(), nil
	}
	return nil, &DecodeError{TypeURL: x.GetTypeUrl()}
}

func unmarshal(x *anypb.Any, m proto.Message) error {
	if err := proto.Unmarshal(x.GetValue(), m); err != nil {
		return &DecodeError{TypeURL: x.GetTypeUrl(), Err: err}
	}
	return nil
}

// EncodeRow encodes every value of row, stopping at the first failure.
func EncodeRow(row []interface{}) ([]*anypb.Any, error) {
	out := make([]*anypb.Any, len(row))
	for i, v := range row {
		x, err := Encode(v)
		if err != nil {
			return nil, err
		}
		out[i] = x
	}
	return out, nil
}

// DecodeRow decodes a row of wire values. Any malformed value aborts the
// whole row; no partially decoded row is returned.
func DecodeRow(row []*anypb.Any) ([]interface{}, error) {
	out := make([]interface{}, len(row))
	for i, x := range row {
		v, err := Decode(x)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}
