// Package value converts between native Go scalars and the tagged wire
// envelope used by the database service. A wire value is a
// google.protobuf.Any wrapping one of the well-known scalar wrapper types
// (StringValue, Int64Value, ..., Timestamp, BytesValue) or Empty for SQL
// NULL. Encoding and decoding are pure and stateless.
package value
