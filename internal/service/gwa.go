package service

import (
	"database/sql"
	"math"
	"strings"

	"github.com/godilite/gwa-analytics/internal/repository/models"
)

const (
	failingGrade   = 3.0
	honorsMaxGrade = 2.5
	fullLoadUnits  = 15.0
	summerTerm     = 3
)

var honorBands = []struct {
	title    string
	low, top float64
}{
	{"Summa Cum Laude", 1.00, 1.20},
	{"Magna Cum Laude", 1.21, 1.45},
	{"Cum Laude", 1.46, 1.75},
}

func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}

// gwaAccumulator sums units-weighted grades. Rows missing either value are
// ignored.
type gwaAccumulator struct {
	units  float64
	points float64
}

func (a *gwaAccumulator) add(units, grade sql.NullFloat64) bool {
	if !units.Valid || !grade.Valid {
		return false
	}
	a.units += units.Float64
	a.points += units.Float64 * grade.Float64
	return true
}

func (a gwaAccumulator) value() (float64, bool) {
	if a.units == 0 {
		return 0, false
	}
	return round3(a.points / a.units), true
}

// ComputeGWA returns the units-weighted average of grades rounded to three
// decimals. It reports false when no units were recorded.
func ComputeGWA(grades []models.SubjectGrade) (float64, bool) {
	var acc gwaAccumulator
	for _, g := range grades {
		acc.add(g.Units, g.Grade)
	}
	return acc.value()
}

func isFailed(grade sql.NullFloat64) bool {
	return grade.Valid && grade.Float64 > failingGrade
}

func countFailed(grades []models.SubjectGrade) int {
	n := 0
	for _, g := range grades {
		if isFailed(g.Grade) {
			n++
		}
	}
	return n
}

func isNonAcademic(subject string) bool {
	s := strings.ToUpper(subject)
	return strings.Contains(s, "NSTP") || strings.Contains(s, "ROTC")
}

type termKey struct{ year, semester int }

// AnalyzeLatinHonors checks the grades against the honors rules: no failed
// subject, no grade worse than 2.50 and a full load in every regular term.
func AnalyzeLatinHonors(grades []models.SubjectGrade) Honors {
	if len(grades) == 0 {
		return Honors{Reason: "No grades recorded"}
	}

	var (
		acc          gwaAccumulator
		loads        = make(map[termKey]float64)
		hasFailed    bool
		hasBelowMark bool
	)
	for _, g := range grades {
		if !g.Units.Valid || !g.Grade.Valid || isNonAcademic(g.Subject) {
			continue
		}
		acc.add(g.Units, g.Grade)

		if g.Semester != summerTerm {
			loads[termKey{g.Year, g.Semester}] += g.Units.Float64
		}
		if g.Grade.Float64 > failingGrade {
			hasFailed = true
		}
		if g.Grade.Float64 > honorsMaxGrade {
			hasBelowMark = true
		}
	}

	gwa, ok := acc.value()
	if !ok {
		return Honors{Reason: "No valid academic units", Status: StatusRegular}
	}

	underloaded := false
	for _, units := range loads {
		if units < fullLoadUnits {
			underloaded = true
			break
		}
	}
	status := StatusRegular
	if underloaded {
		status = StatusIrregular
	}

	h := Honors{GWA: &gwa, Status: status}
	switch {
	case hasFailed:
		h.Reason = "Has failing grades (>3.0)"
	case hasBelowMark:
		h.Reason = "Has grades below 2.50"
	case underloaded:
		h.Reason = "Underloaded in one or more semesters"
	default:
		for _, band := range honorBands {
			if gwa >= band.low && gwa <= band.top {
				h.Eligible = true
				h.Title = band.title
				h.Reason = "Meets all academic criteria"
				return h
			}
		}
		h.Reason = "GWA does not meet honors cutoff"
	}
	return h
}

func toGrade(g models.SubjectGrade) Grade {
	return Grade{
		ID:         g.ID,
		StudentID:  g.StudentID,
		Subject:    g.Subject,
		Units:      g.Units.Float64,
		Grade:      g.Grade.Float64,
		Year:       g.Year,
		Semester:   g.Semester,
		Failed:     isFailed(g.Grade),
		RecordedAt: g.RecordedAt,
	}
}
