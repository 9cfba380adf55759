package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/godilite/gwa-analytics/internal/repository/models"
	"github.com/jmoiron/sqlx"
)

// FailingGrade is the grade above which a subject counts as failed.
const FailingGrade = 3.0

type GradebookRepository struct {
	db *sqlx.DB
}

func NewGradebookRepository(db *sqlx.DB) *GradebookRepository {
	return &GradebookRepository{db: db}
}

// GetStudent returns sql.ErrNoRows (wrapped) when the student does not exist.
func (r *GradebookRepository) GetStudent(ctx context.Context, id int64) (models.Student, error) {
	const query = `
		SELECT id, school_id, name, department, course
		FROM students
		WHERE id = ?
	`

	var s models.Student
	if err := r.db.GetContext(ctx, &s, r.db.Rebind(query), id); err != nil {
		return models.Student{}, fmt.Errorf("query GetStudent: %w", err)
	}
	return s, nil
}

// CreateStudent inserts s and fills in its generated ID. No RPC exposes it;
// students are provisioned outside the service.
func (r *GradebookRepository) CreateStudent(ctx context.Context, s *models.Student) error {
	const query = `
		INSERT INTO students (school_id, name, department, course)
		VALUES (?, ?, ?, ?)
		RETURNING id
	`

	err := r.db.QueryRowxContext(ctx, r.db.Rebind(query), s.SchoolID, s.Name, s.Department, s.Course).Scan(&s.ID)
	if err != nil {
		return fmt.Errorf("insert CreateStudent: %w", err)
	}
	return nil
}

func (r *GradebookRepository) ListDepartments(ctx context.Context) ([]models.Department, error) {
	const query = `SELECT id, name FROM departments ORDER BY id`

	var out []models.Department
	if err := r.db.SelectContext(ctx, &out, query); err != nil {
		return nil, fmt.Errorf("query ListDepartments: %w", err)
	}
	return out, nil
}

// ListGrades returns a student's grades oldest first.
func (r *GradebookRepository) ListGrades(ctx context.Context, studentID int64) ([]models.SubjectGrade, error) {
	const query = `
		SELECT id, student_id, subject, units, grade, year, semester, recorded_at
		FROM subject_grades
		WHERE student_id = ?
		ORDER BY recorded_at, id
	`

	var out []models.SubjectGrade
	if err := r.db.SelectContext(ctx, &out, r.db.Rebind(query), studentID); err != nil {
		return nil, fmt.Errorf("query ListGrades: %w", err)
	}
	return out, nil
}

// ListGradeRows returns every grade together with its student's department.
func (r *GradebookRepository) ListGradeRows(ctx context.Context) ([]models.GradeRow, error) {
	const query = `
		SELECT g.student_id, s.department, g.units, g.grade
		FROM subject_grades AS g
		JOIN students AS s ON s.id = g.student_id
		ORDER BY g.student_id, g.id
	`

	var out []models.GradeRow
	if err := r.db.SelectContext(ctx, &out, query); err != nil {
		return nil, fmt.Errorf("query ListGradeRows: %w", err)
	}
	return out, nil
}

// SubjectFailureTallies counts recorded and failed grades per subject.
func (r *GradebookRepository) SubjectFailureTallies(ctx context.Context) ([]models.SubjectTally, error) {
	const query = `
		SELECT
			subject,
			COUNT(*) AS total,
			SUM(CASE WHEN grade > ? THEN 1 ELSE 0 END) AS failed
		FROM subject_grades
		GROUP BY subject
		ORDER BY subject
	`

	var out []models.SubjectTally
	if err := r.db.SelectContext(ctx, &out, r.db.Rebind(query), FailingGrade); err != nil {
		return nil, fmt.Errorf("query SubjectFailureTallies: %w", err)
	}
	return out, nil
}

// GetGrade returns sql.ErrNoRows (wrapped) unless the grade belongs to the student.
func (r *GradebookRepository) GetGrade(ctx context.Context, studentID, gradeID int64) (models.SubjectGrade, error) {
	const query = `
		SELECT id, student_id, subject, units, grade, year, semester, recorded_at
		FROM subject_grades
		WHERE id = ? AND student_id = ?
	`

	var g models.SubjectGrade
	if err := r.db.GetContext(ctx, &g, r.db.Rebind(query), gradeID, studentID); err != nil {
		return models.SubjectGrade{}, fmt.Errorf("query GetGrade: %w", err)
	}
	return g, nil
}

// InsertGrade stores g and fills in its generated ID.
func (r *GradebookRepository) InsertGrade(ctx context.Context, g *models.SubjectGrade) error {
	if g.RecordedAt.IsZero() {
		g.RecordedAt = time.Now().UTC()
	}

	const query = `
		INSERT INTO subject_grades (student_id, subject, units, grade, year, semester, recorded_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		RETURNING id
	`

	err := r.db.QueryRowxContext(ctx, r.db.Rebind(query),
		g.StudentID, g.Subject, g.Units, g.Grade, g.Year, g.Semester, g.RecordedAt,
	).Scan(&g.ID)
	if err != nil {
		return fmt.Errorf("insert InsertGrade: %w", err)
	}
	return nil
}

// UpdateGrade overwrites a stored grade. It returns sql.ErrNoRows (wrapped)
// when no row matched.
func (r *GradebookRepository) UpdateGrade(ctx context.Context, g models.SubjectGrade) error {
	const query = `
		UPDATE subject_grades
		SET subject = ?, units = ?, grade = ?, year = ?, semester = ?, recorded_at = ?
		WHERE id = ? AND student_id = ?
	`

	res, err := r.db.ExecContext(ctx, r.db.Rebind(query),
		g.Subject, g.Units, g.Grade, g.Year, g.Semester, g.RecordedAt, g.ID, g.StudentID,
	)
	if err != nil {
		return fmt.Errorf("update UpdateGrade: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update UpdateGrade rows: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("update UpdateGrade: %w", sql.ErrNoRows)
	}
	return nil
}
