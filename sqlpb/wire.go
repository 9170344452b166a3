package sqlpb

import (
	"github.com/pkg/errors"
	"google.golang.org/protobuf/encoding/protowire"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/anypb"
)

// fieldFunc consumes the value of one field from b and reports the number of
// bytes used. Returning 0 marks the field as unknown so it is skipped.
type fieldFunc func(num protowire.Number, typ protowire.Type, b []byte) (int, error)

func consumeFields(b []byte, fn fieldFunc) error {
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return errors.Wrap(protowire.ParseError(n), "sqlpb: invalid tag")
		}
		b = b[n:]
		m, err := fn(num, typ, b)
		if err != nil {
			return err
		}
		if m == 0 {
			m = protowire.ConsumeFieldValue(num, typ, b)
		}
		if m < 0 {
			return errors.Wrapf(protowire.ParseError(m), "sqlpb: invalid field %d", num)
		}
		b = b[m:]
	}
	return nil
}

func consumeString(typ protowire.Type, b []byte, dst *string) (int, error) {
	if typ != protowire.BytesType {
		return 0, nil
	}
	v, n := protowire.ConsumeString(b)
	if n < 0 {
		return 0, protowire.ParseError(n)
	}
	*dst = v
	return n, nil
}

func consumeBytes(typ protowire.Type, b []byte, dst *[]byte) (int, error) {
	if typ != protowire.BytesType {
		return 0, nil
	}
	v, n := protowire.ConsumeBytes(b)
	if n < 0 {
		return 0, protowire.ParseError(n)
	}
	*dst = append([]byte(nil), v...)
	return n, nil
}

func consumeVarint(typ protowire.Type, b []byte, dst *uint64) (int, error) {
	if typ != protowire.VarintType {
		return 0, nil
	}
	v, n := protowire.ConsumeVarint(b)
	if n < 0 {
		return 0, protowire.ParseError(n)
	}
	*dst = v
	return n, nil
}

func consumeAny(typ protowire.Type, b []byte, dst **anypb.Any) (int, error) {
	var raw []byte
	n, err := consumeBytes(typ, b, &raw)
	if n == 0 || err != nil {
		return n, err
	}
	x := &anypb.Any{}
	if err := proto.Unmarshal(raw, x); err != nil {
		return 0, errors.Wrap(err, "sqlpb: invalid Any")
	}
	*dst = x
	return n, nil
}

func appendString(b []byte, num protowire.Number, v string) []byte {
	if v == "" {
		return b
	}
	b = protowire.AppendTag(b, num, protowire.BytesType)
	return protowire.AppendString(b, v)
}

func appendRepeatedString(b []byte, num protowire.Number, v string) []byte {
	b = protowire.AppendTag(b, num, protowire.BytesType)
	return protowire.AppendString(b, v)
}

func appendBytes(b []byte, num protowire.Number, v []byte) []byte {
	if len(v) == 0 {
		return b
	}
	b = protowire.AppendTag(b, num, protowire.BytesType)
	return protowire.AppendBytes(b, v)
}

func appendVarint(b []byte, num protowire.Number, v uint64) []byte {
	if v == 0 {
		return b
	}
	b = protowire.AppendTag(b, num, protowire.VarintType)
	return protowire.AppendVarint(b, v)
}

func appendMessage(b []byte, num protowire.Number, raw []byte) []byte {
	b = protowire.AppendTag(b, num, protowire.BytesType)
	return protowire.AppendBytes(b, raw)
}

// nullTypeURL tags a nil value as google.protobuf.Empty.
const nullTypeURL = "type.googleapis.com/google.protobuf.Empty"

func appendAny(b []byte, num protowire.Number, x *anypb.Any) ([]byte, error) {
	if x == nil {
		x = &anypb.Any{TypeUrl: nullTypeURL}
	}
	raw, err := proto.Marshal(x)
	if err != nil {
		return nil, errors.Wrap(err, "sqlpb: cannot marshal Any")
	}
	return appendMessage(b, num, raw), nil
}
