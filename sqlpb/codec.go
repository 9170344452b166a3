package sqlpb

import (
	"github.com/pkg/errors"
	"google.golang.org/grpc"
	"google.golang.org/grpc/encoding"
)

// Message is implemented by every type in this package.
type Message interface {
	Marshal() ([]byte, error)
	Unmarshal([]byte) error
}

// Codec is the gRPC codec for Message values. It reports the name "proto" so
// the content-type on the wire stays application/grpc+proto.
type Codec struct{}

var _ encoding.Codec = Codec{}

func (Codec) Marshal(v interface{}) ([]byte, error) {
	m, ok := v.(Message)
	if !ok {
		return nil, errors.Errorf("sqlpb: cannot marshal %T", v)
	}
	return m.Marshal()
}

func (Codec) Unmarshal(data []byte, v interface{}) error {
	m, ok := v.(Message)
	if !ok {
		return errors.Errorf("sqlpb: cannot unmarshal into %T", v)
	}
	return m.Unmarshal(data)
}

func (Codec) Name() string { return "proto" }

// ServerCodec returns the server option that installs Codec.
func ServerCodec() grpc.ServerOption {
	return grpc.ForceServerCodec(Codec{})
}

func withCodec(opts []grpc.CallOption) []grpc.CallOption {
	return append([]grpc.CallOption{grpc.ForceCodec(Codec{})}, opts...)
}
