package mocks

import (
	"context"
	"errors"

	"github.com/godilite/gwa-analytics/internal/repository/models"
)

// MockGradebookRepository is a mock implementation of the GradebookRepository
// interface for testing the service layer.
type MockGradebookRepository struct {
	GetStudentFunc            func(ctx context.Context, id int64) (models.Student, error)
	ListDepartmentsFunc       func(ctx context.Context) ([]models.Department, error)
	ListGradesFunc            func(ctx context.Context, studentID int64) ([]models.SubjectGrade, error)
	ListGradeRowsFunc         func(ctx context.Context) ([]models.GradeRow, error)
	SubjectFailureTalliesFunc func(ctx context.Context) ([]models.SubjectTally, error)
	GetGradeFunc              func(ctx context.Context, studentID, gradeID int64) (models.SubjectGrade, error)
	InsertGradeFunc           func(ctx context.Context, g *models.SubjectGrade) error
	UpdateGradeFunc           func(ctx context.Context, g models.SubjectGrade) error
}

func (m *MockGradebookRepository) GetStudent(ctx context.Context, id int64) (models.Student, error) {
	if m.GetStudentFunc != nil {
		return m.GetStudentFunc(ctx, id)
	}
	return models.Student{}, errors.New("GetStudentFunc not implemented")
}

func (m *MockGradebookRepository) ListDepartments(ctx context.Context) ([]models.Department, error) {
	if m.ListDepartmentsFunc != nil {
		return m.ListDepartmentsFunc(ctx)
	}
	return nil, errors.New("ListDepartmentsFunc not implemented")
}

func (m *MockGradebookRepository) ListGrades(ctx context.Context, studentID int64) ([]models.SubjectGrade, error) {
	if m.ListGradesFunc != nil {
		return m.ListGradesFunc(ctx, studentID)
	}
	return nil, errors.New("ListGradesFunc not implemented")
}

func (m *MockGradebookRepository) ListGradeRows(ctx context.Context) ([]models.GradeRow, error) {
	if m.ListGradeRowsFunc != nil {
		return m.ListGradeRowsFunc(ctx)
	}
	return nil, errors.New("ListGradeRowsFunc not implemented")
}

func (m *MockGradebookRepository) SubjectFailureTallies(ctx context.Context) ([]models.SubjectTally, error) {
	if m.SubjectFailureTalliesFunc != nil {
		return m.SubjectFailureTalliesFunc(ctx)
	}
	return nil, errors.New("SubjectFailureTalliesFunc not implemented")
}

func (m *MockGradebookRepository) GetGrade(ctx context.Context, studentID, gradeID int64) (models.SubjectGrade, error) {
	if m.GetGradeFunc != nil {
		return m.GetGradeFunc(ctx, studentID, gradeID)
	}
	return models.SubjectGrade{}, errors.New("GetGradeFunc not implemented")
}

func (m *MockGradebookRepository) InsertGrade(ctx context.Context, g *models.SubjectGrade) error {
	if m.InsertGradeFunc != nil {
		return m.InsertGradeFunc(ctx, g)
	}
	return errors.New("InsertGradeFunc not implemented")
}

func (m *MockGradebookRepository) UpdateGrade(ctx context.Context, g models.SubjectGrade) error {
	if m.UpdateGradeFunc != nil {
		return m.UpdateGradeFunc(ctx, g)
	}
	return errors.New("UpdateGradeFunc not implemented")
}
