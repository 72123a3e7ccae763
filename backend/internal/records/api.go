package records

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

// The record service is described with well-known protobuf types. A lookup
// takes the student id as a StringValue and returns the row as a Struct.

const (
	ServiceName = "records.RecordService"

	getStudentRecordMethod = "/" + ServiceName + "/GetStudentRecord"
	countRecordsMethod     = "/" + ServiceName + "/CountRecords"
)

// RecordServiceServer is the server API for the record service.
type RecordServiceServer interface {
	GetStudentRecord(context.Context, *wrapperspb.StringValue) (*structpb.Struct, error)
	CountRecords(context.Context, *emptypb.Empty) (*wrapperspb.Int64Value, error)
}

// RegisterRecordServiceServer registers srv on s.
func RegisterRecordServiceServer(s grpc.ServiceRegistrar, srv RecordServiceServer) {
	s.RegisterService(&recordServiceDesc, srv)
}

var recordServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*RecordServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "GetStudentRecord", Handler: getStudentRecordHandler},
		{MethodName: "CountRecords", Handler: countRecordsHandler},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "records.proto",
}

func getStudentRecordHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(wrapperspb.StringValue)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(RecordServiceServer).GetStudentRecord(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: getStudentRecordMethod}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(RecordServiceServer).GetStudentRecord(ctx, req.(*wrapperspb.StringValue))
	}
	return interceptor(ctx, in, info, handler)
}

func countRecordsHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(emptypb.Empty)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(RecordServiceServer).CountRecords(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: countRecordsMethod}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(RecordServiceServer).CountRecords(ctx, req.(*emptypb.Empty))
	}
	return interceptor(ctx, in, info, handler)
}

// recordServiceClient is the raw client stub.
type recordServiceClient struct {
	cc grpc.ClientConnInterface
}

func (c *recordServiceClient) GetStudentRecord(ctx context.Context, in *wrapperspb.StringValue, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, getStudentRecordMethod, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *recordServiceClient) CountRecords(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*wrapperspb.Int64Value, error) {
	out := new(wrapperspb.Int64Value)
	if err := c.cc.Invoke(ctx, countRecordsMethod, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}
