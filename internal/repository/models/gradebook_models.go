package models

import (
	"database/sql"
	"time"
)

type Department struct {
	ID   int64  `db:"id"`
	Name string `db:"name"`
}

type Course struct {
	ID           int64  `db:"id"`
	Name         string `db:"name"`
	DepartmentID int64  `db:"department_id"`
}

type Student struct {
	ID         int64          `db:"id"`
	SchoolID   string         `db:"school_id"`
	Name       string         `db:"name"`
	Department sql.NullString `db:"department"`
	Course     sql.NullString `db:"course"`
}

// SubjectGrade is one graded subject. Units and Grade may be NULL in rows
// imported from older data; such rows never count towards a GWA.
type SubjectGrade struct {
	ID         int64           `db:"id"`
	StudentID  int64           `db:"student_id"`
	Subject    string          `db:"subject"`
	Units      sql.NullFloat64 `db:"units"`
	Grade      sql.NullFloat64 `db:"grade"`
	Year       int             `db:"year"`
	Semester   int             `db:"semester"`
	RecordedAt time.Time       `db:"recorded_at"`
}

// GradeRow is a grade joined with the owning student's department.
type GradeRow struct {
	StudentID  int64           `db:"student_id"`
	Department sql.NullString  `db:"department"`
	Units      sql.NullFloat64 `db:"units"`
	Grade      sql.NullFloat64 `db:"grade"`
}

type SubjectTally struct {
	Subject string `db:"subject"`
	Total   int64  `db:"total"`
	Failed  int64  `db:"failed"`
}
