package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/godilite/gwa-analytics/internal/repository/models"
	"github.com/godilite/gwa-analytics/internal/service/mocks"
)

var fixedNow = time.Date(2025, 10, 18, 9, 30, 0, 0, time.UTC)

func newTestService(repo GradebookRepository) *GradebookService {
	s := NewGradebookService(repo, zap.NewNop())
	s.now = func() time.Time { return fixedNow }
	return s
}

func notFound(string) error {
	return fmt.Errorf("query: %w", sql.ErrNoRows)
}

func row(studentID int64, dept string, units, value float64) models.GradeRow {
	return models.GradeRow{
		StudentID:  studentID,
		Department: sql.NullString{String: dept, Valid: dept != ""},
		Units:      sql.NullFloat64{Float64: units, Valid: true},
		Grade:      sql.NullFloat64{Float64: value, Valid: true},
	}
}

func ptr[T any](v T) *T { return &v }

func TestNewGradebookService(t *testing.T) {
	t.Run("valid parameters", func(t *testing.T) {
		repo := &mocks.MockGradebookRepository{}
		logger := zap.NewNop()

		svc := NewGradebookService(repo, logger)

		assert.NotNil(t, svc)
		assert.Equal(t, repo, svc.storage)
		assert.Equal(t, logger, svc.logger)
	})

	t.Run("nil storage panics", func(t *testing.T) {
		assert.Panics(t, func() {
			NewGradebookService(nil, zap.NewNop())
		})
	})

	t.Run("nil logger gets default", func(t *testing.T) {
		svc := NewGradebookService(&mocks.MockGradebookRepository{}, nil)
		assert.NotNil(t, svc.logger)
	})
}

func TestTrend(t *testing.T) {
	ctx := context.Background()

	t.Run("cumulative gwa per grade", func(t *testing.T) {
		g1 := grade("Calculus", 3, 2.0, 1, 1)
		g1.RecordedAt = fixedNow
		g2 := grade("Physics", 3, 1.0, 1, 1)
		g2.RecordedAt = fixedNow.Add(time.Hour)
		ungraded := models.SubjectGrade{Subject: "Ethics", RecordedAt: fixedNow.Add(2 * time.Hour)}

		repo := &mocks.MockGradebookRepository{
			GetStudentFunc: func(ctx context.Context, id int64) (models.Student, error) {
				return models.Student{ID: id}, nil
			},
			ListGradesFunc: func(ctx context.Context, studentID int64) ([]models.SubjectGrade, error) {
				assert.Equal(t, int64(7), studentID)
				return []models.SubjectGrade{g1, g2, ungraded}, nil
			},
		}

		timeline, err := newTestService(repo).Trend(ctx, 7)
		require.NoError(t, err)
		require.Len(t, timeline, 2)
		assert.Equal(t, 2.0, timeline[0].Value)
		assert.Equal(t, 1.5, timeline[1].Value)
		assert.Equal(t, g2.RecordedAt, timeline[1].Timestamp)
	})

	t.Run("no grades yields an empty timeline", func(t *testing.T) {
		repo := &mocks.MockGradebookRepository{
			GetStudentFunc: func(ctx context.Context, id int64) (models.Student, error) { return models.Student{ID: id}, nil },
			ListGradesFunc: func(ctx context.Context, id int64) ([]models.SubjectGrade, error) { return nil, nil },
		}

		timeline, err := newTestService(repo).Trend(ctx, 1)
		require.NoError(t, err)
		assert.Empty(t, timeline)
	})

	t.Run("unknown student", func(t *testing.T) {
		repo := &mocks.MockGradebookRepository{
			GetStudentFunc: func(ctx context.Context, id int64) (models.Student, error) {
				return models.Student{}, notFound("student")
			},
		}

		_, err := newTestService(repo).Trend(ctx, 99)
		assert.ErrorIs(t, err, ErrStudentNotFound)
	})

	t.Run("storage failure", func(t *testing.T) {
		repo := &mocks.MockGradebookRepository{
			GetStudentFunc: func(ctx context.Context, id int64) (models.Student, error) { return models.Student{ID: id}, nil },
			ListGradesFunc: func(ctx context.Context, id int64) ([]models.SubjectGrade, error) {
				return nil, errors.New("database connection failed")
			},
		}

		_, err := newTestService(repo).Trend(ctx, 1)
		assert.ErrorIs(t, err, ErrStorageFailure)
		assert.Contains(t, err.Error(), "database connection failed")
	})
}

func TestDepartmentAverages(t *testing.T) {
	ctx := context.Background()

	t.Run("mean of student gwas in catalogue order", func(t *testing.T) {
		repo := &mocks.MockGradebookRepository{
			ListDepartmentsFunc: func(ctx context.Context) ([]models.Department, error) {
				return []models.Department{{ID: 1, Name: "COTE"}, {ID: 2, Name: "COED"}, {ID: 3, Name: "COBM"}}, nil
			},
			ListGradeRowsFunc: func(ctx context.Context) ([]models.GradeRow, error) {
				return []models.GradeRow{
					row(1, "COTE", 3, 1.0),
					row(1, "COTE", 3, 2.0),
					row(2, "COTE", 3, 2.0),
					row(3, "COED", 3, 2.5),
					row(4, "Unlisted", 3, 1.0),
				}, nil
			},
		}

		got, err := newTestService(repo).DepartmentAverages(ctx)
		require.NoError(t, err)
		require.Len(t, got, 3)

		assert.Equal(t, "COTE", got[0].Department)
		assert.Equal(t, ptr(1.75), got[0].Average)
		assert.Equal(t, "COED", got[1].Department)
		assert.Equal(t, ptr(2.5), got[1].Average)
		assert.Equal(t, "COBM", got[2].Department)
		assert.Nil(t, got[2].Average)
	})

	t.Run("storage failure", func(t *testing.T) {
		repo := &mocks.MockGradebookRepository{
			ListDepartmentsFunc: func(ctx context.Context) ([]models.Department, error) {
				return nil, errors.New("boom")
			},
		}

		_, err := newTestService(repo).DepartmentAverages(ctx)
		assert.ErrorIs(t, err, ErrStorageFailure)
	})
}

func TestFailureRates(t *testing.T) {
	repo := &mocks.MockGradebookRepository{
		SubjectFailureTalliesFunc: func(ctx context.Context) ([]models.SubjectTally, error) {
			return []models.SubjectTally{
				{Subject: "Calculus", Total: 3, Failed: 1},
				{Subject: "Empty", Total: 0, Failed: 0},
				{Subject: "Physics", Total: 2, Failed: 0},
			}, nil
		},
	}

	got, err := newTestService(repo).FailureRates(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []SubjectFailureRate{
		{Subject: "Calculus", Total: 3, Failed: 1, Rate: 0.333},
		{Subject: "Physics", Total: 2, Failed: 0, Rate: 0},
	}, got)
}

func TestSummary(t *testing.T) {
	ctx := context.Background()

	t.Run("averages students and counts failures", func(t *testing.T) {
		repo := &mocks.MockGradebookRepository{
			ListGradeRowsFunc: func(ctx context.Context) ([]models.GradeRow, error) {
				return []models.GradeRow{
					row(1, "COTE", 3, 1.0),
					row(1, "COTE", 3, 4.0),
					row(2, "COED", 3, 2.0),
				}, nil
			},
		}

		got, err := newTestService(repo).Summary(ctx)
		require.NoError(t, err)
		require.NotNil(t, got.AverageGWA)
		require.NotNil(t, got.FailureRate)
		assert.Equal(t, 2.25, *got.AverageGWA)
		assert.InDelta(t, 1.0/3.0, *got.FailureRate, 1e-9)
	})

	t.Run("empty gradebook", func(t *testing.T) {
		repo := &mocks.MockGradebookRepository{
			ListGradeRowsFunc: func(ctx context.Context) ([]models.GradeRow, error) { return nil, nil },
		}

		got, err := newTestService(repo).Summary(ctx)
		require.NoError(t, err)
		assert.Nil(t, got.AverageGWA)
		assert.Nil(t, got.FailureRate)
	})
}

func TestStanding(t *testing.T) {
	grades := append(fullLoad(1.0, 1, 1), grade("Statistics", 3, 3.5, 1, 2))
	repo := &mocks.MockGradebookRepository{
		GetStudentFunc: func(ctx context.Context, id int64) (models.Student, error) {
			return models.Student{ID: id, Name: "Ana Cruz"}, nil
		},
		ListGradesFunc: func(ctx context.Context, id int64) ([]models.SubjectGrade, error) {
			return grades, nil
		},
	}

	got, err := newTestService(repo).Standing(context.Background(), 5)
	require.NoError(t, err)

	assert.Equal(t, int64(5), got.StudentID)
	assert.Equal(t, "Ana Cruz", got.Name)
	assert.Equal(t, ptr(1.417), got.GWA)
	assert.Equal(t, 1, got.FailedCount)
	assert.Equal(t, 6, got.Subjects)
	assert.False(t, got.Honors.Eligible)
	assert.Equal(t, "Has failing grades (>3.0)", got.Honors.Reason)
}

func TestRecordGrade(t *testing.T) {
	ctx := context.Background()
	studentExists := func(ctx context.Context, id int64) (models.Student, error) {
		return models.Student{ID: id}, nil
	}

	t.Run("applies defaults and returns new standing", func(t *testing.T) {
		var stored []models.SubjectGrade
		repo := &mocks.MockGradebookRepository{
			GetStudentFunc: studentExists,
			InsertGradeFunc: func(ctx context.Context, g *models.SubjectGrade) error {
				g.ID = 11
				stored = append(stored, *g)
				return nil
			},
			ListGradesFunc: func(ctx context.Context, id int64) ([]models.SubjectGrade, error) {
				return append([]models.SubjectGrade{grade("Physics", 3, 4.0, 1, 1)}, stored...), nil
			},
		}

		got, err := newTestService(repo).RecordGrade(ctx, GradeInput{
			StudentID: 3,
			Subject:   ptr("  Calculus "),
			Grade:     ptr(2.0),
		})
		require.NoError(t, err)
		require.Len(t, stored, 1)

		assert.Equal(t, Grade{
			ID:         11,
			StudentID:  3,
			Subject:    "Calculus",
			Units:      3,
			Grade:      2.0,
			Year:       1,
			Semester:   1,
			RecordedAt: fixedNow,
		}, got.Grade)
		assert.Equal(t, ptr(3.0), got.GWA)
		assert.Equal(t, 1, got.FailedCount)
	})

	t.Run("rejects invalid fields", func(t *testing.T) {
		repo := &mocks.MockGradebookRepository{}

		_, err := newTestService(repo).RecordGrade(ctx, GradeInput{
			StudentID: 3,
			Subject:   ptr("   "),
			Units:     ptr(-1.0),
			Grade:     ptr(5.5),
			Semester:  ptr(4),
		})

		var verr *ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, "subject cannot be blank", verr.Fields["subject"])
		assert.Equal(t, "units must be greater than 0", verr.Fields["units"])
		assert.Contains(t, verr.Fields, "grade")
		assert.Contains(t, verr.Fields, "semester")
		assert.NotContains(t, verr.Fields, "year")
	})

	t.Run("grade is required", func(t *testing.T) {
		_, err := newTestService(&mocks.MockGradebookRepository{}).RecordGrade(ctx, GradeInput{
			StudentID: 3,
			Subject:   ptr("Calculus"),
		})

		var verr *ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, "grade is a required field", verr.Fields["grade"])
	})

	t.Run("grade bounds are inclusive", func(t *testing.T) {
		for _, v := range []float64{1.0, 5.0} {
			repo := &mocks.MockGradebookRepository{
				GetStudentFunc:  studentExists,
				InsertGradeFunc: func(ctx context.Context, g *models.SubjectGrade) error { return nil },
				ListGradesFunc:  func(ctx context.Context, id int64) ([]models.SubjectGrade, error) { return nil, nil },
			}
			_, err := newTestService(repo).RecordGrade(ctx, GradeInput{StudentID: 1, Subject: ptr("Calculus"), Grade: ptr(v)})
			assert.NoError(t, err, "grade %v", v)
		}
	})

	t.Run("unknown student", func(t *testing.T) {
		repo := &mocks.MockGradebookRepository{
			GetStudentFunc: func(ctx context.Context, id int64) (models.Student, error) {
				return models.Student{}, notFound("student")
			},
		}

		_, err := newTestService(repo).RecordGrade(ctx, GradeInput{StudentID: 42, Subject: ptr("Calculus"), Grade: ptr(1.5)})
		assert.ErrorIs(t, err, ErrStudentNotFound)
	})

	t.Run("insert failure", func(t *testing.T) {
		repo := &mocks.MockGradebookRepository{
			GetStudentFunc: studentExists,
			InsertGradeFunc: func(ctx context.Context, g *models.SubjectGrade) error {
				return errors.New("disk full")
			},
		}

		_, err := newTestService(repo).RecordGrade(ctx, GradeInput{StudentID: 1, Subject: ptr("Calculus"), Grade: ptr(1.5)})
		assert.ErrorIs(t, err, ErrStorageFailure)
	})
}

func TestUpdateGrade(t *testing.T) {
	ctx := context.Background()
	existing := grade("Calculus", 3, 2.0, 2, 1)
	existing.ID = 8
	existing.StudentID = 3
	existing.RecordedAt = fixedNow.Add(-24 * time.Hour)

	t.Run("keeps absent fields", func(t *testing.T) {
		var updated models.SubjectGrade
		repo := &mocks.MockGradebookRepository{
			GetGradeFunc: func(ctx context.Context, studentID, gradeID int64) (models.SubjectGrade, error) {
				assert.Equal(t, int64(3), studentID)
				assert.Equal(t, int64(8), gradeID)
				return existing, nil
			},
			UpdateGradeFunc: func(ctx context.Context, g models.SubjectGrade) error {
				updated = g
				return nil
			},
			ListGradesFunc: func(ctx context.Context, id int64) ([]models.SubjectGrade, error) {
				return []models.SubjectGrade{updated}, nil
			},
		}

		got, err := newTestService(repo).UpdateGrade(ctx, GradeInput{StudentID: 3, GradeID: 8, Grade: ptr(3.25)})
		require.NoError(t, err)

		assert.Equal(t, "Calculus", updated.Subject)
		assert.Equal(t, 3.0, updated.Units.Float64)
		assert.Equal(t, 3.25, updated.Grade.Float64)
		assert.Equal(t, 2, updated.Year)
		assert.Equal(t, fixedNow, updated.RecordedAt)

		assert.True(t, got.Grade.Failed)
		assert.Equal(t, ptr(3.25), got.GWA)
		assert.Equal(t, 1, got.FailedCount)
	})

	t.Run("unknown grade", func(t *testing.T) {
		repo := &mocks.MockGradebookRepository{
			GetGradeFunc: func(ctx context.Context, studentID, gradeID int64) (models.SubjectGrade, error) {
				return models.SubjectGrade{}, notFound("grade")
			},
		}

		_, err := newTestService(repo).UpdateGrade(ctx, GradeInput{StudentID: 3, GradeID: 99, Grade: ptr(1.0)})
		assert.ErrorIs(t, err, ErrGradeNotFound)
	})

	t.Run("validates merged fields", func(t *testing.T) {
		repo := &mocks.MockGradebookRepository{
			GetGradeFunc: func(ctx context.Context, studentID, gradeID int64) (models.SubjectGrade, error) {
				return existing, nil
			},
		}

		_, err := newTestService(repo).UpdateGrade(ctx, GradeInput{StudentID: 3, GradeID: 8, Units: ptr(0.0)})

		var verr *ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, []string{"units"}, keys(verr.Fields))
	})

	t.Run("row vanished before update", func(t *testing.T) {
		repo := &mocks.MockGradebookRepository{
			GetGradeFunc: func(ctx context.Context, studentID, gradeID int64) (models.SubjectGrade, error) {
				return existing, nil
			},
			UpdateGradeFunc: func(ctx context.Context, g models.SubjectGrade) error {
				return notFound("grade")
			},
		}

		_, err := newTestService(repo).UpdateGrade(ctx, GradeInput{StudentID: 3, GradeID: 8, Grade: ptr(1.0)})
		assert.ErrorIs(t, err, ErrGradeNotFound)
	})
}

func keys(m map[string]string) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	return out
}
