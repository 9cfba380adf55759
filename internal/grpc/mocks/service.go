package mocks

import (
	"context"
	"errors"

	"github.com/godilite/gwa-analytics/internal/chart"
	"github.com/godilite/gwa-analytics/internal/service"
)

// MockGradebookService is a mock implementation of the GradebookService
// interface for testing the handler layer.
type MockGradebookService struct {
	TrendFunc              func(ctx context.Context, studentID int64) (chart.Timeline, error)
	DepartmentAveragesFunc func(ctx context.Context) ([]service.DepartmentAverage, error)
	FailureRatesFunc       func(ctx context.Context) ([]service.SubjectFailureRate, error)
	SummaryFunc            func(ctx context.Context) (service.Summary, error)
	StandingFunc           func(ctx context.Context, studentID int64) (service.Standing, error)
	RecordGradeFunc        func(ctx context.Context, in service.GradeInput) (service.GradeResult, error)
	UpdateGradeFunc        func(ctx context.Context, in service.GradeInput) (service.GradeResult, error)
}

func (m *MockGradebookService) Trend(ctx context.Context, studentID int64) (chart.Timeline, error) {
	if m.TrendFunc != nil {
		return m.TrendFunc(ctx, studentID)
	}
	return nil, errors.New("TrendFunc not implemented")
}

func (m *MockGradebookService) DepartmentAverages(ctx context.Context) ([]service.DepartmentAverage, error) {
	if m.DepartmentAveragesFunc != nil {
		return m.DepartmentAveragesFunc(ctx)
	}
	return nil, errors.New("DepartmentAveragesFunc not implemented")
}

func (m *MockGradebookService) FailureRates(ctx context.Context) ([]service.SubjectFailureRate, error) {
	if m.FailureRatesFunc != nil {
		return m.FailureRatesFunc(ctx)
	}
	return nil, errors.New("FailureRatesFunc not implemented")
}

func (m *MockGradebookService) Summary(ctx context.Context) (service.Summary, error) {
	if m.SummaryFunc != nil {
		return m.SummaryFunc(ctx)
	}
	return service.Summary{}, errors.New("SummaryFunc not implemented")
}

func (m *MockGradebookService) Standing(ctx context.Context, studentID int64) (service.Standing, error) {
	if m.StandingFunc != nil {
		return m.StandingFunc(ctx, studentID)
	}
	return service.Standing{}, errors.New("StandingFunc not implemented")
}

func (m *MockGradebookService) RecordGrade(ctx context.Context, in service.GradeInput) (service.GradeResult, error) {
	if m.RecordGradeFunc != nil {
		return m.RecordGradeFunc(ctx, in)
	}
	return service.GradeResult{}, errors.New("RecordGradeFunc not implemented")
}

func (m *MockGradebookService) UpdateGrade(ctx context.Context, in service.GradeInput) (service.GradeResult, error) {
	if m.UpdateGradeFunc != nil {
		return m.UpdateGradeFunc(ctx, in)
	}
	return service.GradeResult{}, errors.New("UpdateGradeFunc not implemented")
}
