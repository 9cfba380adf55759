package service

import (
	"context"

	"github.com/godilite/gwa-analytics/internal/repository/models"
)

// GradebookRepository defines the storage operations the service needs.
type GradebookRepository interface {
	GetStudent(ctx context.Context, id int64) (models.Student, error)
	ListDepartments(ctx context.Context) ([]models.Department, error)
	ListGrades(ctx context.Context, studentID int64) ([]models.SubjectGrade, error)
	ListGradeRows(ctx context.Context) ([]models.GradeRow, error)
	SubjectFailureTallies(ctx context.Context) ([]models.SubjectTally, error)
	GetGrade(ctx context.Context, studentID, gradeID int64) (models.SubjectGrade, error)
	InsertGrade(ctx context.Context, g *models.SubjectGrade) error
	UpdateGrade(ctx context.Context, g models.SubjectGrade) error
}
