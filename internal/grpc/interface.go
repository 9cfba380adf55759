package grpc

import (
	"context"
	"time"

	"github.com/godilite/gwa-analytics/internal/chart"
	"github.com/godilite/gwa-analytics/internal/service"
)

// Cacher defines the interface for cache operations.
type Cacher interface {
	Close() error
	Get(ctx context.Context, key string, dest any) error
	Set(ctx context.Context, key string, value any, expiration time.Duration) error
	DeletePrefix(ctx context.Context, prefix string) (int64, error)
}

type GradebookService interface {
	Trend(ctx context.Context, studentID int64) (chart.Timeline, error)
	DepartmentAverages(ctx context.Context) ([]service.DepartmentAverage, error)
	FailureRates(ctx context.Context) ([]service.SubjectFailureRate, error)
	Summary(ctx context.Context) (service.Summary, error)
	Standing(ctx context.Context, studentID int64) (service.Standing, error)
	RecordGrade(ctx context.Context, in service.GradeInput) (service.GradeResult, error)
	UpdateGrade(ctx context.Context, in service.GradeInput) (service.GradeResult, error)
}
