package client

import (
	"fmt"
	"reflect"
	"sort"

	"github.com/viant/litesql-ha/sqlpb"
	"github.com/viant/litesql-ha/value"
)

// Param is one statement parameter. Ordinal parameters leave Name empty and
// carry a 1-based Ordinal. Named parameters set Name; their Ordinal is only a
// positional fallback hint and is assigned by position when zero.
type Param struct {
	Name    string
	Ordinal int64
	Value   interface{}
}

// Params is an ordered parameter list. A list holds either ordinal or named
// parameters, never both.
type Params []Param

// Args builds ordinal parameters numbered from 1.
func Args(values ...interface{}) Params {
	params := make(Params, len(values))
	for i, v := range values {
		params[i] = Param{Ordinal: int64(i + 1), Value: v}
	}
	return params
}

// Named builds a named parameter.
func Named(name string, v interface{}) Param {
	return Param{Name: name, Value: v}
}

// ParamsFromMap converts a key/value parameter map. Integer keys produce
// ordinal parameters; string keys produce named parameters ordered by name,
// with fallback ordinals assigned in that order starting at 1. Maps mixing
// the two key kinds, or using any other key type, are rejected.
func ParamsFromMap(m map[interface{}]interface{}) (Params, error) {
	if len(m) == 0 {
		return nil, nil
	}
	var ordinals []int64
	var names []string
	for k := range m {
		switch key := k.(type) {
		case string:
			names = append(names, key)
		default:
			ordinal, ok := integerKey(k)
			if !ok {
				return nil, &ParamError{Reason: fmt.Sprintf("unsupported key type %T", k)}
			}
			ordinals = append(ordinals, ordinal)
		}
	}
	if len(ordinals) > 0 && len(names) > 0 {
		return nil, &ParamError{Reason: "map mixes ordinal and named keys"}
	}

	params := make(Params, 0, len(m))
	if len(names) > 0 {
		sort.Strings(names)
		for i, name := range names {
			params = append(params, Param{Name: name, Ordinal: int64(i + 1), Value: m[name]})
		}
		return params, nil
	}

	index := make(map[int64]interface{}, len(m))
	for k, v := range m {
		ordinal, _ := integerKey(k)
		if _, ok := index[ordinal]; ok {
			return nil, &ParamError{Reason: fmt.Sprintf("duplicate ordinal %d", ordinal)}
		}
		index[ordinal] = v
	}
	sort.Slice(ordinals, func(i, j int) bool { return ordinals[i] < ordinals[j] })
	for _, ordinal := range ordinals {
		params = append(params, Param{Ordinal: ordinal, Value: index[ordinal]})
	}
	return params, nil
}

func integerKey(k interface{}) (int64, bool) {
	v := reflect.ValueOf(k)
	switch v.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return v.Int(), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		u := v.Uint()
		if u > 1<<63-1 {
			return 0, false
		}
		return int64(u), true
	}
	return 0, false
}

// validate checks that the list uses exactly one parameter style.
func (p Params) validate() error {
	var named, ordinal int
	seenNames := map[string]bool{}
	seenOrdinals := map[int64]bool{}
	for _, param := range p {
		if param.Name != "" {
			named++
			if seenNames[param.Name] {
				return &ParamError{Reason: fmt.Sprintf("duplicate name %q", param.Name)}
			}
			seenNames[param.Name] = true
			continue
		}
		ordinal++
		if param.Ordinal < 1 {
			return &ParamError{Reason: fmt.Sprintf("ordinal %d must be 1-based", param.Ordinal)}
		}
		if seenOrdinals[param.Ordinal] {
			return &ParamError{Reason: fmt.Sprintf("duplicate ordinal %d", param.Ordinal)}
		}
		seenOrdinals[param.Ordinal] = true
	}
	if named > 0 && ordinal > 0 {
		return &ParamError{Reason: "list mixes ordinal and named parameters"}
	}
	return nil
}

func (p Params) encode() ([]*sqlpb.NamedValue, error) {
	if err := p.validate(); err != nil {
		return nil, err
	}
	if len(p) == 0 {
		return nil, nil
	}
	out := make([]*sqlpb.NamedValue, len(p))
	for i, param := range p {
		x, err := value.Encode(param.Value)
		if err != nil {
			return nil, err
		}
		ordinal := param.Ordinal
		if param.Name != "" && ordinal == 0 {
			ordinal = int64(i + 1)
		}
		out[i] = &sqlpb.NamedValue{Name: param.Name, Ordinal: ordinal, Value: x}
	}
	return out, nil
}
