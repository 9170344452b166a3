package client

import (
	"context"

	"google.golang.org/grpc/credentials"
)

// AuthorizationKey is the metadata key carrying the bearer token.
const AuthorizationKey = "authorization"

// tokenCredentials attaches the bearer token to every call. An empty token
// is still sent.
type tokenCredentials struct {
	token  string
	secure bool
}

var _ credentials.PerRPCCredentials = tokenCredentials{}

func (c tokenCredentials) GetRequestMetadata(context.Context, ...string) (map[string]string, error) {
	return map[string]string{AuthorizationKey: c.token}, nil
}

func (c tokenCredentials) RequireTransportSecurity() bool { return c.secure }
