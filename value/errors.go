package value

import "fmt"

// DecodeError reports a wire value that could not be converted to a native
// value: an unknown type URL or a malformed payload. It usually indicates a
// protocol version mismatch or corruption.
type DecodeError struct {
	TypeURL string
	Err     error
}

func (e *DecodeError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("value: cannot decode %q: %v", e.TypeURL, e.Err)
	}
	return fmt.Sprintf("value: unsupported wire type %q", e.TypeURL)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// UnsupportedTypeError reports a native value outside the supported scalar
// set.
type UnsupportedTypeError struct {
	Value  interface{}
	Reason string
}

func (e *UnsupportedTypeError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("value: unsupported %T value: %s", e.Value, e.Reason)
	}
	return fmt.Sprintf("value: unsupported type %T", e.Value)
}
