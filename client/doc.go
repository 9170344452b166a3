// Package client talks to a remote LiteSQL HA database service.
//
// A Session multiplexes all statements of one connection onto a single
// bidirectional Query stream. Statements are serialized: exactly one request
// is in flight at a time and each response is matched to the call that sent
// it. A Catalog lists replication ids and downloads database files through
// the same connection without taking the session lock.
//
// A call that times out reports a *TimeoutError. The statement may still be
// applied by the server; the client gives no at-most-once guarantee for
// timed out calls.
package client
