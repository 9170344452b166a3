// Package sqlpb holds the wire messages and gRPC stubs of the
// sql.v1.DatabaseService used by the client. Messages are plain structs
// encoded with protowire into the protobuf wire format, so they stay
// byte-compatible with servers built from the .proto definition:
//
//	service DatabaseService {
//	  rpc Query(stream QueryRequest) returns (stream QueryResponse);
//	  rpc Download(DownloadRequest) returns (stream DownloadResponse);
//	  rpc LatestSnapshot(LatestSnapshotRequest) returns (stream LatestSnapshotResponse);
//	  rpc ReplicationIDs(google.protobuf.Empty) returns (ReplicationIDsResponse);
//	}
//
// The stubs force Codec on every call; servers must be created with
// ServerCodec().
package sqlpb
