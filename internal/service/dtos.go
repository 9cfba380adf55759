package service

import "time"

// DepartmentAverage is the mean student GWA of a department. Average is nil
// when no student of the department has a grade.
type DepartmentAverage struct {
	Department string   `json:"department"`
	Average    *float64 `json:"average"`
}

type SubjectFailureRate struct {
	Subject string  `json:"subject"`
	Total   int64   `json:"total"`
	Failed  int64   `json:"failed"`
	Rate    float64 `json:"failure_rate"`
}

type Summary struct {
	AverageGWA  *float64 `json:"average_gwa"`
	FailureRate *float64 `json:"failure_rate"`
}

const (
	StatusRegular   = "Regular"
	StatusIrregular = "Irregular"
)

// Honors is the outcome of a Latin honors check. GWA excludes NSTP and ROTC
// subjects and is nil when nothing countable was recorded.
type Honors struct {
	Eligible bool     `json:"eligible"`
	Reason   string   `json:"reason"`
	Title    string   `json:"title,omitempty"`
	GWA      *float64 `json:"gwa,omitempty"`
	Status   string   `json:"status,omitempty"`
}

type Standing struct {
	StudentID   int64    `json:"student_id"`
	Name        string   `json:"name"`
	GWA         *float64 `json:"gwa"`
	FailedCount int      `json:"failed_count"`
	Subjects    int      `json:"subjects"`
	Honors      Honors   `json:"honors"`
}

// GradeInput carries a grade write. Nil fields take their defaults on
// record and keep their stored value on update.
type GradeInput struct {
	StudentID int64    `json:"student_id"`
	GradeID   int64    `json:"grade_id,omitempty"`
	Subject   *string  `json:"subject,omitempty"`
	Units     *float64 `json:"units,omitempty"`
	Grade     *float64 `json:"grade,omitempty"`
	Year      *int     `json:"year,omitempty"`
	Semester  *int     `json:"semester,omitempty"`
}

// gradeFields is a GradeInput with every default resolved.
type gradeFields struct {
	Subject  string  `json:"subject" validate:"notblank,max=128"`
	Units    float64 `json:"units" validate:"gt=0"`
	Grade    float64 `json:"grade" validate:"required,gte=1,lte=5"`
	Year     int     `json:"year" validate:"gte=1,lte=6"`
	Semester int     `json:"semester" validate:"gte=1,lte=3"`
}

type Grade struct {
	ID         int64     `json:"id"`
	StudentID  int64     `json:"student_id"`
	Subject    string    `json:"subject"`
	Units      float64   `json:"units"`
	Grade      float64   `json:"grade"`
	Year       int       `json:"year"`
	Semester   int       `json:"semester"`
	Failed     bool      `json:"failed"`
	RecordedAt time.Time `json:"recorded_at"`
}

// GradeResult is returned by grade writes together with the student's
// recomputed standing.
type GradeResult struct {
	Grade       Grade    `json:"grade"`
	GWA         *float64 `json:"gwa"`
	FailedCount int      `json:"failed_count"`
}
