package value

import (
	"errors"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"google.golang.org/protobuf/types/known/anypb"
	"google.golang.org/protobuf/types/known/durationpb"
)

func TestEncodeDecode_RoundTrip(t *testing.T) {
	farFuture := time.Date(9999, 12, 31, 23, 59, 59, 999999999, time.UTC)
	cases := []struct {
		name  string
		value interface{}
		tag   string
	}{
		{"null", nil, TypeNull},
		{"empty string", "", TypeString},
		{"string", "hello, 世界", TypeString},
		{"long string", strings.Repeat("x", 1<<20), TypeString},
		{"int64 zero", int64(0), TypeInt64},
		{"int64 minus one", int64(-1), TypeInt64},
		{"int64 max", int64(math.MaxInt64), TypeInt64},
		{"int64 min", int64(math.MinInt64), TypeInt64},
		{"int32 zero", int32(0), TypeInt32},
		{"int32 max", int32(math.MaxInt32), TypeInt32},
		{"int32 min", int32(math.MinInt32), TypeInt32},
		{"uint64 zero", uint64(0), TypeUint64},
		{"uint64 max", uint64(math.MaxUint64), TypeUint64},
		{"uint32 max", uint32(math.MaxUint32), TypeUint32},
		{"double", 3.25, TypeDouble},
		{"double negative", -1.0, TypeDouble},
		{"double max", math.MaxFloat64, TypeDouble},
		{"float", float32(1.5), TypeFloat},
		{"float smallest", float32(math.SmallestNonzeroFloat32), TypeFloat},
		{"bool true", true, TypeBool},
		{"bool false", false, TypeBool},
		{"empty bytes", []byte{}, TypeBytes},
		{"bytes", []byte{0, 1, 2, 0xff}, TypeBytes},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			x, err := Encode(tc.value)
			if err != nil {
				t.Fatalf("Encode(%v) failed: %v", tc.value, err)
			}
			if x.GetTypeUrl() != tc.tag {
				t.Fatalf("Encode(%v) tag = %q, want %q", tc.value, x.GetTypeUrl(), tc.tag)
			}
			got, err := Decode(x)
			if err != nil {
				t.Fatalf("Decode failed: %v", err)
			}
			if diff := cmp.Diff(tc.value, got); diff != "" {
				t.Fatalf("round trip mismatch (-want +got):\n%s", diff)
			}
		})
	}

	for _, ts := range []time.Time{time.Unix(0, 0).UTC(), farFuture, time.Date(1969, 7, 20, 20, 17, 40, 5, time.UTC)} {
		x, err := Encode(ts)
		if err != nil {
			t.Fatalf("Encode(%v) failed: %v", ts, err)
		}
		got, err := Decode(x)
		if err != nil {
			t.Fatalf("Decode(%v) failed: %v", ts, err)
		}
		if !got.(time.Time).Equal(ts) {
			t.Fatalf("timestamp round trip = %v, want %v", got, ts)
		}
	}
}

func TestEncode_Widening(t *testing.T) {
	cases := []struct {
		in   interface{}
		want interface{}
	}{
		{int(-7), int64(-7)},
		{int16(300), int32(300)},
		{int8(-3), int32(-3)},
		{uint(9), uint64(9)},
		{uint16(65535), uint32(65535)},
		{uint8(255), uint32(255)},
	}
	for _, tc := range cases {
		x, err := Encode(tc.in)
		if err != nil {
			t.Fatalf("Encode(%T) failed: %v", tc.in, err)
		}
		got, err := Decode(x)
		if err != nil {
			t.Fatalf("Decode failed: %v", err)
		}
		if got != tc.want {
			t.Fatalf("Decode(Encode(%T(%v))) = %T(%v), want %T(%v)", tc.in, tc.in, got, got, tc.want, tc.want)
		}
	}
}

func TestEncode_Unsupported(t *testing.T) {
	for _, v := range []interface{}{struct{}{}, []string{"a"}, map[string]int{}, time.Date(10000, 1, 1, 0, 0, 0, 0, time.UTC)} {
		_, err := Encode(v)
		var unsupported *UnsupportedTypeError
		if !errors.As(err, &unsupported) {
			t.Fatalf("Encode(%T) error = %v, want *UnsupportedTypeError", v, err)
		}
	}
}

func TestDecode_Errors(t *testing.T) {
	if v, err := Decode(nil); err != nil || v != nil {
		t.Fatalf("Decode(nil) = %v, %v; want nil, nil", v, err)
	}

	unknown, err := anypb.New(durationpb.New(time.Second))
	if err != nil {
		t.Fatalf("anypb.New failed: %v", err)
	}
	_, err = Decode(unknown)
	var decodeErr *DecodeError
	if !errors.As(err, &decodeErr) {
		t.Fatalf("Decode(Duration) error = %v, want *DecodeError", err)
	}

	malformed := &anypb.Any{TypeUrl: TypeInt64, Value: []byte{0x08}}
	if _, err := Decode(malformed); !errors.As(err, &decodeErr) {
		t.Fatalf("Decode(malformed) error = %v, want *DecodeError", err)
	}

	str, err := Encode("lost")
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	untagged := &anypb.Any{Value: str.GetValue()}
	if v, err := Decode(untagged); !errors.As(err, &decodeErr) {
		t.Fatalf("Decode(untagged payload) = %v, %v; want *DecodeError", v, err)
	}

	if v, err := Decode(&anypb.Any{}); err != nil || v != nil {
		t.Fatalf("Decode(zero Any) = %v, %v; want nil, nil", v, err)
	}
}

func TestDecodeRow_AbortsOnBadValue(t *testing.T) {
	good, err := EncodeRow([]interface{}{int64(1), "a"})
	if err != nil {
		t.Fatalf("EncodeRow failed: %v", err)
	}
	row, err := DecodeRow(good)
	if err != nil {
		t.Fatalf("DecodeRow failed: %v", err)
	}
	if diff := cmp.Diff([]interface{}{int64(1), "a"}, row); diff != "" {
		t.Fatalf("DecodeRow mismatch (-want +got):\n%s", diff)
	}

	bad := append(good, &anypb.Any{TypeUrl: "type.googleapis.com/unknown"})
	row, err = DecodeRow(bad)
	if err == nil {
		t.Fatalf("DecodeRow with unknown tag succeeded")
	}
	if row != nil {
		t.Fatalf("DecodeRow returned partial row %v", row)
	}
}
