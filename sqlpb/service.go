package sqlpb

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// ServiceName is the fully-qualified gRPC service name.
const ServiceName = "sql.v1.DatabaseService"

const (
	queryMethod          = "/" + ServiceName + "/Query"
	downloadMethod       = "/" + ServiceName + "/Download"
	latestSnapshotMethod = "/" + ServiceName + "/LatestSnapshot"
	replicationIDsMethod = "/" + ServiceName + "/ReplicationIDs"
)

// DatabaseServiceClient is the client API for DatabaseService.
type DatabaseServiceClient interface {
	Query(ctx context.Context, opts ...grpc.CallOption) (DatabaseService_QueryClient, error)
	Download(ctx context.Context, in *DownloadRequest, opts ...grpc.CallOption) (DatabaseService_DownloadClient, error)
	LatestSnapshot(ctx context.Context, in *LatestSnapshotRequest, opts ...grpc.CallOption) (DatabaseService_LatestSnapshotClient, error)
	ReplicationIDs(ctx context.Context, in *Empty, opts ...grpc.CallOption) (*ReplicationIDsResponse, error)
}

type databaseServiceClient struct {
	cc grpc.ClientConnInterface
}

// NewDatabaseServiceClient creates a DatabaseService client on cc.
func NewDatabaseServiceClient(cc grpc.ClientConnInterface) DatabaseServiceClient {
	return &databaseServiceClient{cc: cc}
}

func (c *databaseServiceClient) Query(ctx context.Context, opts ...grpc.CallOption) (DatabaseService_QueryClient, error) {
	stream, err := c.cc.NewStream(ctx, &ServiceDesc.Streams[0], queryMethod, withCodec(opts)...)
	if err != nil {
		return nil, err
	}
	return &databaseServiceQueryClient{ClientStream: stream}, nil
}

// DatabaseService_QueryClient is the client side of the bidirectional Query
// stream.
type DatabaseService_QueryClient interface {
	Send(*QueryRequest) error
	Recv() (*QueryResponse, error)
	grpc.ClientStream
}

type databaseServiceQueryClient struct {
	grpc.ClientStream
}

func (x *databaseServiceQueryClient) Send(m *QueryRequest) error {
	return x.ClientStream.SendMsg(m)
}

func (x *databaseServiceQueryClient) Recv() (*QueryResponse, error) {
	m := new(QueryResponse)
	if err := x.ClientStream.RecvMsg(m); err != nil {
		return nil, err
	}
	return m, nil
}

func (c *databaseServiceClient) Download(ctx context.Context, in *DownloadRequest, opts ...grpc.CallOption) (DatabaseService_DownloadClient, error) {
	stream, err := c.cc.NewStream(ctx, &ServiceDesc.Streams[1], downloadMethod, withCodec(opts)...)
	if err != nil {
		return nil, err
	}
	x := &databaseServiceDownloadClient{ClientStream: stream}
	if err := x.ClientStream.SendMsg(in); err != nil {
		return nil, err
	}
	if err := x.ClientStream.CloseSend(); err != nil {
		return nil, err
	}
	return x, nil
}

// DatabaseService_DownloadClient receives the chunks of a Download call.
type DatabaseService_DownloadClient interface {
	Recv() (*DownloadResponse, error)
	grpc.ClientStream
}

type databaseServiceDownloadClient struct {
	grpc.ClientStream
}

func (x *databaseServiceDownloadClient) Recv() (*DownloadResponse, error) {
	m := new(DownloadResponse)
	if err := x.ClientStream.RecvMsg(m); err != nil {
		return nil, err
	}
	return m, nil
}

func (c *databaseServiceClient) LatestSnapshot(ctx context.Context, in *LatestSnapshotRequest, opts ...grpc.CallOption) (DatabaseService_LatestSnapshotClient, error) {
	stream, err := c.cc.NewStream(ctx, &ServiceDesc.Streams[2], latestSnapshotMethod, withCodec(opts)...)
	if err != nil {
		return nil, err
	}
	x := &databaseServiceLatestSnapshotClient{ClientStream: stream}
	if err := x.ClientStream.SendMsg(in); err != nil {
		return nil, err
	}
	if err := x.ClientStream.CloseSend(); err != nil {
		return nil, err
	}
	return x, nil
}

// DatabaseService_LatestSnapshotClient receives the chunks of a
// LatestSnapshot call.
type DatabaseService_LatestSnapshotClient interface {
	Recv() (*LatestSnapshotResponse, error)
	grpc.ClientStream
}

type databaseServiceLatestSnapshotClient struct {
	grpc.ClientStream
}

func (x *databaseServiceLatestSnapshotClient) Recv() (*LatestSnapshotResponse, error) {
	m := new(LatestSnapshotResponse)
	if err := x.ClientStream.RecvMsg(m); err != nil {
		return nil, err
	}
	return m, nil
}

func (c *databaseServiceClient) ReplicationIDs(ctx context.Context, in *Empty, opts ...grpc.CallOption) (*ReplicationIDsResponse, error) {
	if in == nil {
		in = &Empty{}
	}
	out := new(ReplicationIDsResponse)
	if err := c.cc.Invoke(ctx, replicationIDsMethod, in, out, withCodec(opts)...); err != nil {
		return nil, err
	}
	return out, nil
}

// DatabaseServiceServer is the server API for DatabaseService. It is used by
// in-process test servers and tooling.
type DatabaseServiceServer interface {
	Query(DatabaseService_QueryServer) error
	Download(*DownloadRequest, DatabaseService_DownloadServer) error
	LatestSnapshot(*LatestSnapshotRequest, DatabaseService_LatestSnapshotServer) error
	ReplicationIDs(context.Context, *Empty) (*ReplicationIDsResponse, error)
}

// UnimplementedDatabaseServiceServer can be embedded to get forward
// compatible implementations.
type UnimplementedDatabaseServiceServer struct{}

func (UnimplementedDatabaseServiceServer) Query(DatabaseService_QueryServer) error {
	return status.Errorf(codes.Unimplemented, "method Query not implemented")
}

func (UnimplementedDatabaseServiceServer) Download(*DownloadRequest, DatabaseService_DownloadServer) error {
	return status.Errorf(codes.Unimplemented, "method Download not implemented")
}

func (UnimplementedDatabaseServiceServer) LatestSnapshot(*LatestSnapshotRequest, DatabaseService_LatestSnapshotServer) error {
	return status.Errorf(codes.Unimplemented, "method LatestSnapshot not implemented")
}

func (UnimplementedDatabaseServiceServer) ReplicationIDs(context.Context, *Empty) (*ReplicationIDsResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method ReplicationIDs not implemented")
}

// RegisterDatabaseServiceServer registers srv on s.
func RegisterDatabaseServiceServer(s grpc.ServiceRegistrar, srv DatabaseServiceServer) {
	s.RegisterService(&ServiceDesc, srv)
}

// DatabaseService_QueryServer is the server side of the Query stream.
type DatabaseService_QueryServer interface {
	Send(*QueryResponse) error
	Recv() (*QueryRequest, error)
	grpc.ServerStream
}

type databaseServiceQueryServer struct {
	grpc.ServerStream
}

func (x *databaseServiceQueryServer) Send(m *QueryResponse) error {
	return x.ServerStream.SendMsg(m)
}

func (x *databaseServiceQueryServer) Recv() (*QueryRequest, error) {
	m := new(QueryRequest)
	if err := x.ServerStream.RecvMsg(m); err != nil {
		return nil, err
	}
	return m, nil
}

func queryHandler(srv interface{}, stream grpc.ServerStream) error {
	return srv.(DatabaseServiceServer).Query(&databaseServiceQueryServer{ServerStream: stream})
}

// DatabaseService_DownloadServer sends Download chunks.
type DatabaseService_DownloadServer interface {
	Send(*DownloadResponse) error
	grpc.ServerStream
}

type databaseServiceDownloadServer struct {
	grpc.ServerStream
}

func (x *databaseServiceDownloadServer) Send(m *DownloadResponse) error {
	return x.ServerStream.SendMsg(m)
}

func downloadHandler(srv interface{}, stream grpc.ServerStream) error {
	m := new(DownloadRequest)
	if err := stream.RecvMsg(m); err != nil {
		return err
	}
	return srv.(DatabaseServiceServer).Download(m, &databaseServiceDownloadServer{ServerStream: stream})
}

// DatabaseService_LatestSnapshotServer sends LatestSnapshot chunks.
type DatabaseService_LatestSnapshotServer interface {
	Send(*LatestSnapshotResponse) error
	grpc.ServerStream
}

type databaseServiceLatestSnapshotServer struct {
	grpc.ServerStream
}

func (x *databaseServiceLatestSnapshotServer) Send(m *LatestSnapshotResponse) error {
	return x.ServerStream.SendMsg(m)
}

func latestSnapshotHandler(srv interface{}, stream grpc.ServerStream) error {
	m := new(LatestSnapshotRequest)
	if err := stream.RecvMsg(m); err != nil {
		return err
	}
	return srv.(DatabaseServiceServer).LatestSnapshot(m, &databaseServiceLatestSnapshotServer{ServerStream: stream})
}

func replicationIDsHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(Empty)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(DatabaseServiceServer).ReplicationIDs(ctx, in)
	}
	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: replicationIDsMethod,
	}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(DatabaseServiceServer).ReplicationIDs(ctx, req.(*Empty))
	}
	return interceptor(ctx, in, info, handler)
}

// ServiceDesc is the grpc.ServiceDesc for DatabaseService.
var ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*DatabaseServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "ReplicationIDs",
			Handler:    replicationIDsHandler,
		},
	},
	Streams: []grpc.StreamDesc{
		{
			StreamName:    "Query",
			Handler:       queryHandler,
			ServerStreams: true,
			ClientStreams: true,
		},
		{
			StreamName:    "Download",
			Handler:       downloadHandler,
			ServerStreams: true,
		},
		{
			StreamName:    "LatestSnapshot",
			Handler:       latestSnapshotHandler,
			ServerStreams: true,
		},
	},
	Metadata: "sql/v1/sql.proto",
}
