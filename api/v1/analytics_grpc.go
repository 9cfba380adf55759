// Package v1 describes the gwa.v1.Analytics gRPC service. Requests and
// responses travel as google.protobuf.Struct documents whose fields follow
// the JSON shape of the message types in this package.
//
// No protobuf file descriptor is registered for the service, so server
// reflection lists gwa.v1.Analytics but cannot describe its methods.
// Reflection clients such as grpcurl need the method name and a Struct JSON
// body.
package v1

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
)

const ServiceName = "gwa.v1.Analytics"

const (
	MethodClassifyGWA               = "ClassifyGWA"
	MethodGetSummary                = "GetSummary"
	MethodGetStanding               = "GetStanding"
	MethodGetDepartmentAverageChart = "GetDepartmentAverageChart"
	MethodGetFailureRateChart       = "GetFailureRateChart"
	MethodGetTrendChart             = "GetTrendChart"
	MethodRecordGrade               = "RecordGrade"
	MethodUpdateGrade               = "UpdateGrade"
)

// FullMethod returns the wire name of a method, e.g. "/gwa.v1.Analytics/GetSummary".
func FullMethod(method string) string {
	return "/" + ServiceName + "/" + method
}

// AnalyticsServer is the server API for the gwa.v1.Analytics service.
type AnalyticsServer interface {
	ClassifyGWA(context.Context, *structpb.Struct) (*structpb.Struct, error)
	GetSummary(context.Context, *structpb.Struct) (*structpb.Struct, error)
	GetStanding(context.Context, *structpb.Struct) (*structpb.Struct, error)
	GetDepartmentAverageChart(context.Context, *structpb.Struct) (*structpb.Struct, error)
	GetFailureRateChart(context.Context, *structpb.Struct) (*structpb.Struct, error)
	GetTrendChart(context.Context, *structpb.Struct) (*structpb.Struct, error)
	RecordGrade(context.Context, *structpb.Struct) (*structpb.Struct, error)
	UpdateGrade(context.Context, *structpb.Struct) (*structpb.Struct, error)
}

// UnimplementedAnalyticsServer can be embedded to get Unimplemented answers
// for methods a server does not provide.
type UnimplementedAnalyticsServer struct{}

func unimplemented(method string) error {
	return status.Errorf(codes.Unimplemented, "method %s not implemented", method)
}

func (UnimplementedAnalyticsServer) ClassifyGWA(context.Context, *structpb.Struct) (*structpb.Struct, error) {
	return nil, unimplemented(MethodClassifyGWA)
}
func (UnimplementedAnalyticsServer) GetSummary(context.Context, *structpb.Struct) (*structpb.Struct, error) {
	return nil, unimplemented(MethodGetSummary)
}
func (UnimplementedAnalyticsServer) GetStanding(context.Context, *structpb.Struct) (*structpb.Struct, error) {
	return nil, unimplemented(MethodGetStanding)
}
func (UnimplementedAnalyticsServer) GetDepartmentAverageChart(context.Context, *structpb.Struct) (*structpb.Struct, error) {
	return nil, unimplemented(MethodGetDepartmentAverageChart)
}
func (UnimplementedAnalyticsServer) GetFailureRateChart(context.Context, *structpb.Struct) (*structpb.Struct, error) {
	return nil, unimplemented(MethodGetFailureRateChart)
}
func (UnimplementedAnalyticsServer) GetTrendChart(context.Context, *structpb.Struct) (*structpb.Struct, error) {
	return nil, unimplemented(MethodGetTrendChart)
}
func (UnimplementedAnalyticsServer) RecordGrade(context.Context, *structpb.Struct) (*structpb.Struct, error) {
	return nil, unimplemented(MethodRecordGrade)
}
func (UnimplementedAnalyticsServer) UpdateGrade(context.Context, *structpb.Struct) (*structpb.Struct, error) {
	return nil, unimplemented(MethodUpdateGrade)
}

type unaryCall func(AnalyticsServer, context.Context, *structpb.Struct) (*structpb.Struct, error)

func unaryHandler(method string, call unaryCall) func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(structpb.Struct)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(AnalyticsServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{
			Server:     srv,
			FullMethod: FullMethod(method),
		}
		handler := func(ctx context.Context, req any) (any, error) {
			return call(srv.(AnalyticsServer), ctx, req.(*structpb.Struct))
		}
		return interceptor(ctx, in, info, handler)
	}
}

// Analytics_ServiceDesc is the grpc.ServiceDesc for the gwa.v1.Analytics service.
var Analytics_ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*AnalyticsServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: MethodClassifyGWA, Handler: unaryHandler(MethodClassifyGWA, AnalyticsServer.ClassifyGWA)},
		{MethodName: MethodGetSummary, Handler: unaryHandler(MethodGetSummary, AnalyticsServer.GetSummary)},
		{MethodName: MethodGetStanding, Handler: unaryHandler(MethodGetStanding, AnalyticsServer.GetStanding)},
		{MethodName: MethodGetDepartmentAverageChart, Handler: unaryHandler(MethodGetDepartmentAverageChart, AnalyticsServer.GetDepartmentAverageChart)},
		{MethodName: MethodGetFailureRateChart, Handler: unaryHandler(MethodGetFailureRateChart, AnalyticsServer.GetFailureRateChart)},
		{MethodName: MethodGetTrendChart, Handler: unaryHandler(MethodGetTrendChart, AnalyticsServer.GetTrendChart)},
		{MethodName: MethodRecordGrade, Handler: unaryHandler(MethodRecordGrade, AnalyticsServer.RecordGrade)},
		{MethodName: MethodUpdateGrade, Handler: unaryHandler(MethodUpdateGrade, AnalyticsServer.UpdateGrade)},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "gwa/v1/analytics",
}

func RegisterAnalyticsServer(s grpc.ServiceRegistrar, srv AnalyticsServer) {
	s.RegisterService(&Analytics_ServiceDesc, srv)
}
