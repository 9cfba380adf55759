package v1

import (
	"encoding/json"
	"fmt"

	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/godilite/gwa-analytics/internal/chart"
)

type ClassifyRequest struct {
	GWA  *float64 `json:"gwa,omitempty"`
	Text string   `json:"text,omitempty"`
}

type Feedback struct {
	Classified bool     `json:"classified"`
	Level      string   `json:"level,omitempty"`
	Emoji      string   `json:"emoji,omitempty"`
	Messages   []string `json:"messages,omitempty"`
	Theme      string   `json:"theme,omitempty"`
	Headline   string   `json:"headline,omitempty"`
}

type SummaryResponse struct {
	AverageGWA  *float64 `json:"average_gwa"`
	FailureRate *float64 `json:"failure_rate"`
}

type StudentRequest struct {
	StudentID int64 `json:"student_id"`
}

type Honors struct {
	Eligible bool     `json:"eligible"`
	Reason   string   `json:"reason"`
	Title    string   `json:"title,omitempty"`
	GWA      *float64 `json:"gwa,omitempty"`
	Status   string   `json:"status,omitempty"`
}

type StandingResponse struct {
	StudentID   int64    `json:"student_id"`
	Name        string   `json:"name"`
	GWA         *float64 `json:"gwa"`
	FailedCount int      `json:"failed_count"`
	Subjects    int      `json:"subjects"`
	Honors      Honors   `json:"honors"`
	Feedback    Feedback `json:"feedback"`
}

// ChartRequest selects the data behind a chart and, optionally, its layout.
// StudentID is only read by GetTrendChart.
type ChartRequest struct {
	StudentID int64       `json:"student_id,omitempty"`
	Spec      *chart.Spec `json:"spec,omitempty"`
}

type ChartResponse struct {
	Timeline chart.Timeline `json:"timeline,omitempty"`
	Drawing  chart.Drawing  `json:"drawing"`
	SVG      string         `json:"svg"`
}

// GradeRequest writes a grade. Absent fields take defaults on RecordGrade and
// keep their stored value on UpdateGrade.
type GradeRequest struct {
	StudentID int64    `json:"student_id"`
	GradeID   int64    `json:"grade_id,omitempty"`
	Subject   *string  `json:"subject,omitempty"`
	Units     *float64 `json:"units,omitempty"`
	Grade     *float64 `json:"grade,omitempty"`
	Year      *int     `json:"year,omitempty"`
	Semester  *int     `json:"semester,omitempty"`
}

type Grade struct {
	ID         int64   `json:"id"`
	Subject    string  `json:"subject"`
	Units      float64 `json:"units"`
	Grade      float64 `json:"grade"`
	Year       int     `json:"year"`
	Semester   int     `json:"semester"`
	Failed     bool    `json:"failed"`
	RecordedAt string  `json:"recorded_at"`
}

type GradeResponse struct {
	Grade       Grade    `json:"grade"`
	GWA         *float64 `json:"gwa"`
	FailedCount int      `json:"failed_count"`
}

// Encode converts a message into its Struct document.
func Encode(msg any) (*structpb.Struct, error) {
	raw, err := json.Marshal(msg)
	if err != nil {
		return nil, fmt.Errorf("encode %T: %w", msg, err)
	}
	out := &structpb.Struct{}
	if err := protojson.Unmarshal(raw, out); err != nil {
		return nil, fmt.Errorf("encode %T: %w", msg, err)
	}
	return out, nil
}

// Decode fills msg from a Struct document. A nil document decodes as empty.
func Decode(doc *structpb.Struct, msg any) error {
	if doc == nil {
		doc = &structpb.Struct{}
	}
	raw, err := protojson.Marshal(doc)
	if err != nil {
		return fmt.Errorf("decode %T: %w", msg, err)
	}
	if err := json.Unmarshal(raw, msg); err != nil {
		return fmt.Errorf("decode %T: %w", msg, err)
	}
	return nil
}
