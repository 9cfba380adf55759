package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/godilite/gwa-analytics/internal/chart"
	"github.com/godilite/gwa-analytics/internal/repository/models"
)

const (
	dbTimeout = 1 * time.Second

	defaultUnits    = 3.0
	defaultYear     = 1
	defaultSemester = 1
)

var (
	ErrStudentNotFound = errors.New("student not found")
	ErrGradeNotFound   = errors.New("grade not found")
	ErrStorageFailure  = errors.New("storage failure")
)

// GradebookService computes GWA analytics over the stored gradebook.
type GradebookService struct {
	storage GradebookRepository
	logger  *zap.Logger
	now     func() time.Time
}

// NewGradebookService creates a new GradebookService instance.
func NewGradebookService(storage GradebookRepository, logger *zap.Logger) *GradebookService {
	if storage == nil {
		panic("storage must not be nil")
	}
	if logger == nil {
		l, _ := zap.NewProduction()
		logger = l
	}
	return &GradebookService{
		storage: storage,
		logger:  logger,
		now:     func() time.Time { return time.Now().UTC() },
	}
}

func storageErr(err error) error {
	return fmt.Errorf("%w: %v", ErrStorageFailure, err)
}

func (s *GradebookService) studentGrades(ctx context.Context, studentID int64) (models.Student, []models.SubjectGrade, error) {
	dbCtx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	student, err := s.storage.GetStudent(dbCtx, studentID)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Student{}, nil, fmt.Errorf("%w: %d", ErrStudentNotFound, studentID)
	}
	if err != nil {
		return models.Student{}, nil, storageErr(err)
	}

	grades, err := s.storage.ListGrades(dbCtx, studentID)
	if err != nil {
		return models.Student{}, nil, storageErr(err)
	}
	return student, grades, nil
}

// Trend returns the student's cumulative GWA after each recorded grade,
// oldest first.
func (s *GradebookService) Trend(ctx context.Context, studentID int64) (chart.Timeline, error) {
	_, grades, err := s.studentGrades(ctx, studentID)
	if err != nil {
		return nil, err
	}

	var (
		acc gwaAccumulator
		out = make(chart.Timeline, 0, len(grades))
	)
	for _, g := range grades {
		if !acc.add(g.Units, g.Grade) {
			continue
		}
		if gwa, ok := acc.value(); ok {
			out = append(out, chart.TimelinePoint{Timestamp: g.RecordedAt, Value: gwa})
		}
	}

	s.logger.Debug("computed gwa trend",
		zap.Int64("student_id", studentID),
		zap.Int("points", len(out)))

	return out, nil
}

// studentGWAs groups grade rows per student and returns each student's GWA
// along with the subject totals.
func studentGWAs(rows []models.GradeRow) (gwas map[int64]float64, depts map[int64]string, total, failed int) {
	accs := make(map[int64]*gwaAccumulator)
	depts = make(map[int64]string)
	for _, r := range rows {
		acc, ok := accs[r.StudentID]
		if !ok {
			acc = &gwaAccumulator{}
			accs[r.StudentID] = acc
			depts[r.StudentID] = r.Department.String
		}
		acc.add(r.Units, r.Grade)

		total++
		if isFailed(r.Grade) {
			failed++
		}
	}

	gwas = make(map[int64]float64, len(accs))
	for id, acc := range accs {
		if v, ok := acc.value(); ok {
			gwas[id] = v
		}
	}
	return gwas, depts, total, failed
}

// DepartmentAverages returns the mean student GWA of every department in
// catalogue order.
func (s *GradebookService) DepartmentAverages(ctx context.Context) ([]DepartmentAverage, error) {
	dbCtx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	departments, err := s.storage.ListDepartments(dbCtx)
	if err != nil {
		return nil, storageErr(err)
	}
	rows, err := s.storage.ListGradeRows(dbCtx)
	if err != nil {
		return nil, storageErr(err)
	}

	gwas, depts, _, _ := studentGWAs(rows)
	type sum struct {
		total float64
		n     int
	}
	sums := make(map[string]sum)
	for id, gwa := range gwas {
		d := sums[depts[id]]
		d.total += gwa
		d.n++
		sums[depts[id]] = d
	}

	out := make([]DepartmentAverage, 0, len(departments))
	for _, d := range departments {
		avg := DepartmentAverage{Department: d.Name}
		if agg, ok := sums[d.Name]; ok && agg.n > 0 {
			v := round3(agg.total / float64(agg.n))
			avg.Average = &v
		}
		out = append(out, avg)
	}
	return out, nil
}

// FailureRates returns the share of failed grades per subject, ordered by
// subject name.
func (s *GradebookService) FailureRates(ctx context.Context) ([]SubjectFailureRate, error) {
	dbCtx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	tallies, err := s.storage.SubjectFailureTallies(dbCtx)
	if err != nil {
		s.logger.Error("failed to fetch failure tallies", zap.Error(err))
		return nil, storageErr(err)
	}

	out := make([]SubjectFailureRate, 0, len(tallies))
	for _, t := range tallies {
		if t.Total == 0 {
			continue
		}
		out = append(out, SubjectFailureRate{
			Subject: t.Subject,
			Total:   t.Total,
			Failed:  t.Failed,
			Rate:    round3(float64(t.Failed) / float64(t.Total)),
		})
	}
	return out, nil
}

// Summary returns the mean GWA across students and the overall share of
// failed subjects.
func (s *GradebookService) Summary(ctx context.Context) (Summary, error) {
	dbCtx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	rows, err := s.storage.ListGradeRows(dbCtx)
	if err != nil {
		return Summary{}, storageErr(err)
	}

	gwas, _, total, failed := studentGWAs(rows)

	var out Summary
	if len(gwas) > 0 {
		var sum float64
		for _, v := range gwas {
			sum += v
		}
		avg := round3(sum / float64(len(gwas)))
		out.AverageGWA = &avg
	}
	if total > 0 {
		rate := float64(failed) / float64(total)
		out.FailureRate = &rate
	}

	s.logger.Info("computed gradebook summary",
		zap.Int("students", len(gwas)),
		zap.Int("subjects", total),
		zap.Int("failed", failed))

	return out, nil
}

// Standing returns a student's GWA, failed subject count and honors check.
func (s *GradebookService) Standing(ctx context.Context, studentID int64) (Standing, error) {
	student, grades, err := s.studentGrades(ctx, studentID)
	if err != nil {
		return Standing{}, err
	}

	out := Standing{
		StudentID:   student.ID,
		Name:        student.Name,
		FailedCount: countFailed(grades),
		Subjects:    len(grades),
		Honors:      AnalyzeLatinHonors(grades),
	}
	if gwa, ok := ComputeGWA(grades); ok {
		out.GWA = &gwa
	}
	return out, nil
}

func resolveFields(in GradeInput, base gradeFields) gradeFields {
	f := base
	if in.Subject != nil {
		f.Subject = strings.TrimSpace(*in.Subject)
	}
	if in.Units != nil {
		f.Units = *in.Units
	}
	if in.Grade != nil {
		f.Grade = *in.Grade
	}
	if in.Year != nil {
		f.Year = *in.Year
	}
	if in.Semester != nil {
		f.Semester = *in.Semester
	}
	return f
}

func (f gradeFields) apply(g *models.SubjectGrade) {
	g.Subject = f.Subject
	g.Units = sql.NullFloat64{Float64: f.Units, Valid: true}
	g.Grade = sql.NullFloat64{Float64: f.Grade, Valid: true}
	g.Year = f.Year
	g.Semester = f.Semester
}

// RecordGrade validates and stores a new grade for an existing student.
func (s *GradebookService) RecordGrade(ctx context.Context, in GradeInput) (GradeResult, error) {
	fields := resolveFields(in, gradeFields{
		Units:    defaultUnits,
		Year:     defaultYear,
		Semester: defaultSemester,
	})
	if err := validateStruct(fields); err != nil {
		return GradeResult{}, err
	}

	dbCtx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	if _, err := s.storage.GetStudent(dbCtx, in.StudentID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return GradeResult{}, fmt.Errorf("%w: %d", ErrStudentNotFound, in.StudentID)
		}
		return GradeResult{}, storageErr(err)
	}

	g := models.SubjectGrade{StudentID: in.StudentID, RecordedAt: s.now()}
	fields.apply(&g)
	if err := s.storage.InsertGrade(dbCtx, &g); err != nil {
		s.logger.Error("failed to insert grade", zap.Int64("student_id", in.StudentID), zap.Error(err))
		return GradeResult{}, storageErr(err)
	}

	s.logger.Info("recorded grade",
		zap.Int64("student_id", g.StudentID),
		zap.Int64("grade_id", g.ID),
		zap.String("subject", g.Subject))

	return s.gradeResult(dbCtx, g)
}

// UpdateGrade overwrites the fields present in the input and stamps the grade
// with the current time.
func (s *GradebookService) UpdateGrade(ctx context.Context, in GradeInput) (GradeResult, error) {
	dbCtx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	g, err := s.storage.GetGrade(dbCtx, in.StudentID, in.GradeID)
	if errors.Is(err, sql.ErrNoRows) {
		return GradeResult{}, fmt.Errorf("%w: %d", ErrGradeNotFound, in.GradeID)
	}
	if err != nil {
		return GradeResult{}, storageErr(err)
	}

	fields := resolveFields(in, gradeFields{
		Subject:  g.Subject,
		Units:    g.Units.Float64,
		Grade:    g.Grade.Float64,
		Year:     g.Year,
		Semester: g.Semester,
	})
	if err := validateStruct(fields); err != nil {
		return GradeResult{}, err
	}

	fields.apply(&g)
	g.RecordedAt = s.now()
	err = s.storage.UpdateGrade(dbCtx, g)
	if errors.Is(err, sql.ErrNoRows) {
		return GradeResult{}, fmt.Errorf("%w: %d", ErrGradeNotFound, in.GradeID)
	}
	if err != nil {
		return GradeResult{}, storageErr(err)
	}

	s.logger.Info("updated grade",
		zap.Int64("student_id", g.StudentID),
		zap.Int64("grade_id", g.ID))

	return s.gradeResult(dbCtx, g)
}

func (s *GradebookService) gradeResult(ctx context.Context, g models.SubjectGrade) (GradeResult, error) {
	grades, err := s.storage.ListGrades(ctx, g.StudentID)
	if err != nil {
		return GradeResult{}, storageErr(err)
	}

	out := GradeResult{Grade: toGrade(g), FailedCount: countFailed(grades)}
	if gwa, ok := ComputeGWA(grades); ok {
		out.GWA = &gwa
	}
	return out, nil
}
