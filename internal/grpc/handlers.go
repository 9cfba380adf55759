package grpc

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"

	pb "github.com/godilite/gwa-analytics/api/v1"
	"github.com/godilite/gwa-analytics/internal/chart"
	"github.com/godilite/gwa-analytics/internal/feedback"
	"github.com/godilite/gwa-analytics/internal/service"
	grpcsrv "github.com/godilite/gwa-analytics/pkg/grpc/server"
)

const (
	defaultCacheDuration = 10 * time.Minute
	defaultGRPCTimeout   = 10 * time.Second

	failureRateColor = "#f87171"
)

type CacheKeyType string

const (
	cacheKeySummary           CacheKeyType = "grpc:summary"
	cacheKeyDepartmentAverage CacheKeyType = "grpc:chart:department_avg"
	cacheKeyFailureRate       CacheKeyType = "grpc:chart:failure_rates"
	cacheKeyTrend             CacheKeyType = "grpc:chart:trend"
)

type GRPCHandlers struct {
	pb.UnimplementedAnalyticsServer
	gradebook GradebookService
	cache     Cacher
	logger    *zap.Logger
	sfGroup   singleflight.Group
	cacheTTL  time.Duration
}

// NewGRPCHandlers initializes the gRPC handlers. cache may be nil.
func NewGRPCHandlers(gradebook GradebookService, cache Cacher, logger *zap.Logger, ttl time.Duration) *GRPCHandlers {
	if gradebook == nil {
		panic("nil GradebookService provided to NewGRPCHandlers")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if ttl <= 0 {
		ttl = defaultCacheDuration
	}
	return &GRPCHandlers{
		gradebook: gradebook,
		cache:     cache,
		logger:    logger.Named("grpc-handler"),
		cacheTTL:  ttl,
	}
}

// chartKey identifies a rendered chart: its kind, an optional student and
// the resolved layout.
func chartKey(prefix CacheKeyType, studentID int64, spec chart.Spec) string {
	layout := fmt.Sprintf("%gx%g+%g:%s", spec.Width, spec.Height, spec.Padding, spec.Color)
	if studentID > 0 {
		return fmt.Sprintf("%s:%d:%s", prefix, studentID, layout)
	}
	return fmt.Sprintf("%s:%s", prefix, layout)
}

func decode(req *structpb.Struct, msg any) error {
	if err := pb.Decode(req, msg); err != nil {
		return status.Errorf(codes.InvalidArgument, "malformed request: %v", err)
	}
	return nil
}

func (s *GRPCHandlers) encode(op string, msg any) (*structpb.Struct, error) {
	out, err := pb.Encode(msg)
	if err != nil {
		s.logger.Error("failed to encode response", zap.String("op", op), zap.Error(err))
		return nil, status.Errorf(codes.Internal, "%s failed: encode response", op)
	}
	return out, nil
}

func requireStudent(id int64) error {
	if id <= 0 {
		return status.Error(codes.InvalidArgument, "student_id must be a positive integer")
	}
	return nil
}

func chartSpec(req pb.ChartRequest) (chart.Spec, error) {
	if req.Spec == nil {
		return chart.Spec{}, nil
	}
	spec := *req.Spec
	for _, v := range []float64{spec.Width, spec.Height, spec.Padding} {
		if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
			return chart.Spec{}, status.Error(codes.InvalidArgument, "spec dimensions must be finite and not negative")
		}
	}
	return spec, nil
}

func (s *GRPCHandlers) handleError(ctx context.Context, op string, err error) error {
	logger := grpcsrv.LoggerFromContext(ctx, s.logger)
	switch ctx.Err() {
	case context.Canceled:
		logger.Warn("request canceled", zap.String("op", op))
		return status.Error(codes.Canceled, "request canceled")
	case context.DeadlineExceeded:
		logger.Warn("request timeout", zap.String("op", op))
		return status.Error(codes.DeadlineExceeded, "request timed out")
	}

	var verr *service.ValidationError
	switch {
	case errors.As(err, &verr):
		logger.Info("invalid request", zap.String("op", op), zap.Any("fields", verr.Fields))
		return status.Error(codes.InvalidArgument, verr.Error())
	case errors.Is(err, service.ErrStudentNotFound):
		logger.Info("student not found", zap.String("op", op))
		return status.Error(codes.NotFound, "student not found")
	case errors.Is(err, service.ErrGradeNotFound):
		logger.Info("grade not found", zap.String("op", op))
		return status.Error(codes.NotFound, "grade not found")
	case errors.Is(err, service.ErrStorageFailure):
		logger.Error("storage failure", zap.String("op", op), zap.Error(err))
		return status.Error(codes.Internal, "database error")
	default:
		logger.Error("unexpected error", zap.String("op", op), zap.Error(err))
		return status.Errorf(codes.Internal, "%s failed: %v", op, err)
	}
}

func feedbackFor(value float64) pb.Feedback {
	bucket, ok := feedback.Classify(value)
	if !ok {
		return pb.Feedback{}
	}
	return pb.Feedback{
		Classified: true,
		Level:      bucket.Level,
		Emoji:      bucket.Emoji,
		Messages:   bucket.Messages,
		Theme:      bucket.Theme,
		Headline:   bucket.Headline(value),
	}
}

func (s *GRPCHandlers) ClassifyGWA(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	var in pb.ClassifyRequest
	if err := decode(req, &in); err != nil {
		return nil, err
	}

	var value float64
	switch {
	case in.GWA != nil:
		value = *in.GWA
	case in.Text != "":
		value = feedback.Parse(in.Text)
	default:
		return nil, status.Error(codes.InvalidArgument, "gwa or text is required")
	}

	return s.encode("ClassifyGWA", feedbackFor(value))
}

func (s *GRPCHandlers) GetSummary(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultGRPCTimeout)
	defer cancel()

	summary, err := FindAndCache(ctx, s.cache, &s.sfGroup, string(cacheKeySummary), s.cacheTTL, s.logger, func(fetchCtx context.Context) (pb.SummaryResponse, error) {
		sum, err := s.gradebook.Summary(fetchCtx)
		if err != nil {
			return pb.SummaryResponse{}, err
		}
		return pb.SummaryResponse{AverageGWA: sum.AverageGWA, FailureRate: sum.FailureRate}, nil
	})
	if err != nil {
		return nil, s.handleError(ctx, "GetSummary", err)
	}

	return s.encode("GetSummary", summary)
}

func (s *GRPCHandlers) GetStanding(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	var in pb.StudentRequest
	if err := decode(req, &in); err != nil {
		return nil, err
	}
	if err := requireStudent(in.StudentID); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, defaultGRPCTimeout)
	defer cancel()

	standing, err := s.gradebook.Standing(ctx, in.StudentID)
	if err != nil {
		return nil, s.handleError(ctx, "GetStanding", err)
	}

	out := pb.StandingResponse{
		StudentID:   standing.StudentID,
		Name:        standing.Name,
		GWA:         standing.GWA,
		FailedCount: standing.FailedCount,
		Subjects:    standing.Subjects,
		Honors: pb.Honors{
			Eligible: standing.Honors.Eligible,
			Reason:   standing.Honors.Reason,
			Title:    standing.Honors.Title,
			GWA:      standing.Honors.GWA,
			Status:   standing.Honors.Status,
		},
	}
	if standing.GWA != nil {
		out.Feedback = feedbackFor(*standing.GWA)
	}
	return s.encode("GetStanding", out)
}

func barsResponse(series chart.Series, spec chart.Spec) pb.ChartResponse {
	d := chart.RenderBars(series, spec)
	return pb.ChartResponse{Drawing: d, SVG: chart.Markup(d)}
}

func (s *GRPCHandlers) GetDepartmentAverageChart(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	var in pb.ChartRequest
	if err := decode(req, &in); err != nil {
		return nil, err
	}
	spec, err := chartSpec(in)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, defaultGRPCTimeout)
	defer cancel()

	key := chartKey(cacheKeyDepartmentAverage, 0, spec)
	resp, err := FindAndCache(ctx, s.cache, &s.sfGroup, key, s.cacheTTL, s.logger, func(fetchCtx context.Context) (pb.ChartResponse, error) {
		averages, err := s.gradebook.DepartmentAverages(fetchCtx)
		if err != nil {
			return pb.ChartResponse{}, err
		}
		series := make(chart.Series, len(averages))
		for i, a := range averages {
			series[i] = chart.Sample{Label: a.Department}
			if a.Average != nil {
				series[i].Value = *a.Average
			}
		}
		return barsResponse(series, spec), nil
	})
	if err != nil {
		return nil, s.handleError(ctx, "GetDepartmentAverageChart", err)
	}

	return s.encode("GetDepartmentAverageChart", resp)
}

func (s *GRPCHandlers) GetFailureRateChart(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	var in pb.ChartRequest
	if err := decode(req, &in); err != nil {
		return nil, err
	}
	spec, err := chartSpec(in)
	if err != nil {
		return nil, err
	}
	if spec.Color == "" {
		spec.Color = failureRateColor
	}

	ctx, cancel := context.WithTimeout(ctx, defaultGRPCTimeout)
	defer cancel()

	key := chartKey(cacheKeyFailureRate, 0, spec)
	resp, err := FindAndCache(ctx, s.cache, &s.sfGroup, key, s.cacheTTL, s.logger, func(fetchCtx context.Context) (pb.ChartResponse, error) {
		rates, err := s.gradebook.FailureRates(fetchCtx)
		if err != nil {
			return pb.ChartResponse{}, err
		}
		series := make(chart.Series, len(rates))
		for i, r := range rates {
			series[i] = chart.Sample{Label: r.Subject, Value: r.Rate}
		}
		return barsResponse(series, spec), nil
	})
	if err != nil {
		return nil, s.handleError(ctx, "GetFailureRateChart", err)
	}

	return s.encode("GetFailureRateChart", resp)
}

func (s *GRPCHandlers) GetTrendChart(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	var in pb.ChartRequest
	if err := decode(req, &in); err != nil {
		return nil, err
	}
	if err := requireStudent(in.StudentID); err != nil {
		return nil, err
	}
	spec, err := chartSpec(in)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, defaultGRPCTimeout)
	defer cancel()

	key := chartKey(cacheKeyTrend, in.StudentID, spec)
	resp, err := FindAndCache(ctx, s.cache, &s.sfGroup, key, s.cacheTTL, s.logger, func(fetchCtx context.Context) (pb.ChartResponse, error) {
		timeline, err := s.gradebook.Trend(fetchCtx, in.StudentID)
		if err != nil {
			return pb.ChartResponse{}, err
		}
		d := chart.RenderLine(timeline, spec)
		return pb.ChartResponse{Timeline: timeline, Drawing: d, SVG: chart.Markup(d)}, nil
	})
	if err != nil {
		return nil, s.handleError(ctx, "GetTrendChart", err)
	}

	return s.encode("GetTrendChart", resp)
}

func gradeInput(in pb.GradeRequest) service.GradeInput {
	return service.GradeInput{
		StudentID: in.StudentID,
		GradeID:   in.GradeID,
		Subject:   in.Subject,
		Units:     in.Units,
		Grade:     in.Grade,
		Year:      in.Year,
		Semester:  in.Semester,
	}
}

func gradeResponse(res service.GradeResult) pb.GradeResponse {
	g := res.Grade
	return pb.GradeResponse{
		Grade: pb.Grade{
			ID:         g.ID,
			Subject:    g.Subject,
			Units:      g.Units,
			Grade:      g.Grade,
			Year:       g.Year,
			Semester:   g.Semester,
			Failed:     g.Failed,
			RecordedAt: g.RecordedAt.UTC().Format(time.RFC3339),
		},
		GWA:         res.GWA,
		FailedCount: res.FailedCount,
	}
}

// invalidateStudent drops everything a grade write for studentID can change.
func (s *GRPCHandlers) invalidateStudent(studentID int64) {
	invalidate(s.cache, s.logger,
		string(cacheKeySummary),
		string(cacheKeyDepartmentAverage),
		string(cacheKeyFailureRate),
		fmt.Sprintf("%s:%d:", cacheKeyTrend, studentID),
	)
}

func (s *GRPCHandlers) RecordGrade(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	var in pb.GradeRequest
	if err := decode(req, &in); err != nil {
		return nil, err
	}
	if err := requireStudent(in.StudentID); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, defaultGRPCTimeout)
	defer cancel()

	res, err := s.gradebook.RecordGrade(ctx, gradeInput(in))
	if err != nil {
		return nil, s.handleError(ctx, "RecordGrade", err)
	}
	s.invalidateStudent(in.StudentID)

	return s.encode("RecordGrade", gradeResponse(res))
}

func (s *GRPCHandlers) UpdateGrade(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	var in pb.GradeRequest
	if err := decode(req, &in); err != nil {
		return nil, err
	}
	if err := requireStudent(in.StudentID); err != nil {
		return nil, err
	}
	if in.GradeID <= 0 {
		return nil, status.Error(codes.InvalidArgument, "grade_id must be a positive integer")
	}

	ctx, cancel := context.WithTimeout(ctx, defaultGRPCTimeout)
	defer cancel()

	res, err := s.gradebook.UpdateGrade(ctx, gradeInput(in))
	if err != nil {
		return nil, s.handleError(ctx, "UpdateGrade", err)
	}
	s.invalidateStudent(in.StudentID)

	return s.encode("UpdateGrade", gradeResponse(res))
}
