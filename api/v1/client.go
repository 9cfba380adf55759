package v1

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
)

// AnalyticsClient calls gwa.v1.Analytics with typed messages.
type AnalyticsClient struct {
	cc grpc.ClientConnInterface
}

func NewAnalyticsClient(cc grpc.ClientConnInterface) *AnalyticsClient {
	return &AnalyticsClient{cc: cc}
}

func invoke[Resp any](ctx context.Context, c *AnalyticsClient, method string, req any, opts ...grpc.CallOption) (*Resp, error) {
	in, err := Encode(req)
	if err != nil {
		return nil, err
	}
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, FullMethod(method), in, out, opts...); err != nil {
		return nil, err
	}
	resp := new(Resp)
	if err := Decode(out, resp); err != nil {
		return nil, err
	}
	return resp, nil
}

func (c *AnalyticsClient) ClassifyGWA(ctx context.Context, req ClassifyRequest, opts ...grpc.CallOption) (*Feedback, error) {
	return invoke[Feedback](ctx, c, MethodClassifyGWA, req, opts...)
}

func (c *AnalyticsClient) GetSummary(ctx context.Context, opts ...grpc.CallOption) (*SummaryResponse, error) {
	return invoke[SummaryResponse](ctx, c, MethodGetSummary, struct{}{}, opts...)
}

func (c *AnalyticsClient) GetStanding(ctx context.Context, req StudentRequest, opts ...grpc.CallOption) (*StandingResponse, error) {
	return invoke[StandingResponse](ctx, c, MethodGetStanding, req, opts...)
}

func (c *AnalyticsClient) GetDepartmentAverageChart(ctx context.Context, req ChartRequest, opts ...grpc.CallOption) (*ChartResponse, error) {
	return invoke[ChartResponse](ctx, c, MethodGetDepartmentAverageChart, req, opts...)
}

func (c *AnalyticsClient) GetFailureRateChart(ctx context.Context, req ChartRequest, opts ...grpc.CallOption) (*ChartResponse, error) {
	return invoke[ChartResponse](ctx, c, MethodGetFailureRateChart, req, opts...)
}

func (c *AnalyticsClient) GetTrendChart(ctx context.Context, req ChartRequest, opts ...grpc.CallOption) (*ChartResponse, error) {
	return invoke[ChartResponse](ctx, c, MethodGetTrendChart, req, opts...)
}

func (c *AnalyticsClient) RecordGrade(ctx context.Context, req GradeRequest, opts ...grpc.CallOption) (*GradeResponse, error) {
	return invoke[GradeResponse](ctx, c, MethodRecordGrade, req, opts...)
}

func (c *AnalyticsClient) UpdateGrade(ctx context.Context, req GradeRequest, opts ...grpc.CallOption) (*GradeResponse, error) {
	return invoke[GradeResponse](ctx, c, MethodUpdateGrade, req, opts...)
}
