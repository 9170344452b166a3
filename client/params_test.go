package client

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/viant/litesql-ha/value"
)

func TestArgs(t *testing.T) {
	got := Args("a", int64(2))
	want := Params{{Ordinal: 1, Value: "a"}, {Ordinal: 2, Value: int64(2)}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("Args mismatch (-want +got):\n%s", diff)
	}
}

func TestParamsFromMap_Ordinal(t *testing.T) {
	got, err := ParamsFromMap(map[interface{}]interface{}{2: "b", 1: "a", int64(3): nil})
	if err != nil {
		t.Fatalf("ParamsFromMap failed: %v", err)
	}
	want := Params{{Ordinal: 1, Value: "a"}, {Ordinal: 2, Value: "b"}, {Ordinal: 3}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("params mismatch (-want +got):\n%s", diff)
	}
}

func TestParamsFromMap_Named(t *testing.T) {
	got, err := ParamsFromMap(map[interface{}]interface{}{"id": 7, "name": "x"})
	if err != nil {
		t.Fatalf("ParamsFromMap failed: %v", err)
	}
	want := Params{{Name: "id", Ordinal: 1, Value: 7}, {Name: "name", Ordinal: 2, Value: "x"}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("params mismatch (-want +got):\n%s", diff)
	}
}

func TestParamsFromMap_Rejects(t *testing.T) {
	cases := map[string]map[interface{}]interface{}{
		"mixed":       {1: "a", "name": "b"},
		"float key":   {1.5: "a"},
		"duplicate":   {1: "a", int32(1): "b"},
		"struct keys": {struct{}{}: "a"},
	}
	for name, m := range cases {
		_, err := ParamsFromMap(m)
		var paramErr *ParamError
		if !errors.As(err, &paramErr) {
			t.Fatalf("%s: expected ParamError, got %v", name, err)
		}
	}
	if params, err := ParamsFromMap(nil); err != nil || params != nil {
		t.Fatalf("empty map: got %v, %v", params, err)
	}
}

func TestParams_Encode(t *testing.T) {
	encoded, err := Params{Named("a", "x"), Named("b", int64(1))}.encode()
	if err != nil {
		t.Fatalf("encode failed: %v", err)
	}
	if len(encoded) != 2 {
		t.Fatalf("encoded %d params, want 2", len(encoded))
	}
	if encoded[0].Name != "a" || encoded[0].Ordinal != 1 || encoded[1].Name != "b" || encoded[1].Ordinal != 2 {
		t.Fatalf("unexpected named encoding: %+v %+v", encoded[0], encoded[1])
	}
	if encoded[1].Value.GetTypeUrl() != value.TypeInt64 {
		t.Fatalf("type url = %s", encoded[1].Value.GetTypeUrl())
	}

	for name, params := range map[string]Params{
		"mixed":        {Named("a", 1), {Ordinal: 1, Value: 2}},
		"zero ordinal": {{Ordinal: 0, Value: 1}},
		"dup ordinal":  {{Ordinal: 1}, {Ordinal: 1}},
		"dup name":     {Named("a", 1), Named("a", 2)},
	} {
		var paramErr *ParamError
		if _, err := params.encode(); !errors.As(err, &paramErr) {
			t.Fatalf("%s: expected ParamError, got %v", name, err)
		}
	}

	var unsupported *value.UnsupportedTypeError
	if _, err := Args(struct{}{}).encode(); !errors.As(err, &unsupported) {
		t.Fatalf("expected UnsupportedTypeError, got %v", err)
	}
}
