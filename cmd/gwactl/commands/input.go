package commands

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/godilite/gwa-analytics/internal/chart"
)

// parseSeries accepts either a list of {"label","value"} samples or an
// object mapping labels to values. Object order is kept and null values
// become 0.
func parseSeries(data []byte) (chart.Series, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, errors.New("bars input is empty")
	}

	switch data[0] {
	case '[':
		var series chart.Series
		if err := json.Unmarshal(data, &series); err != nil {
			return nil, fmt.Errorf("decode bars list: %w", err)
		}
		return series, nil
	case '{':
		return parseLabelObject(data)
	default:
		return nil, errors.New("bars input must be a JSON list or object")
	}
}

func parseLabelObject(data []byte) (chart.Series, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	if _, err := dec.Token(); err != nil {
		return nil, fmt.Errorf("decode bars object: %w", err)
	}

	series := chart.Series{}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("decode bars object: %w", err)
		}
		label, _ := tok.(string)

		var value *float64
		if err := dec.Decode(&value); err != nil {
			return nil, fmt.Errorf("decode value for %q: %w", label, err)
		}
		sample := chart.Sample{Label: label}
		if value != nil {
			sample.Value = *value
		}
		series = append(series, sample)
	}
	return series, nil
}

type timelineEntry struct {
	Timestamp string   `json:"timestamp"`
	GWA       *float64 `json:"gwa"`
}

// timestampLayouts covers RFC 3339 and zone-less ISO 8601 as written by
// Python's datetime.isoformat().
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999",
	"2006-01-02T15:04:05",
}

// parseTimestamp returns the zero time for values it cannot read; the line
// renderer orders points by position, not by time.
func parseTimestamp(s string) time.Time {
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}

// parseTimeline accepts a list of {"timestamp","gwa"} points or an object
// wrapping that list under "timeline". A null gwa is kept as NaN so the
// renderer drops it.
func parseTimeline(data []byte) (chart.Timeline, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, errors.New("line input is empty")
	}

	var entries []timelineEntry
	switch data[0] {
	case '[':
		if err := json.Unmarshal(data, &entries); err != nil {
			return nil, fmt.Errorf("decode timeline list: %w", err)
		}
	case '{':
		var wrapped struct {
			Timeline []timelineEntry `json:"timeline"`
		}
		if err := json.Unmarshal(data, &wrapped); err != nil {
			return nil, fmt.Errorf("decode timeline object: %w", err)
		}
		entries = wrapped.Timeline
	default:
		return nil, errors.New("line input must be a JSON list or object")
	}

	timeline := make(chart.Timeline, 0, len(entries))
	for _, e := range entries {
		v := math.NaN()
		if e.GWA != nil {
			v = *e.GWA
		}
		timeline = append(timeline, chart.TimelinePoint{Timestamp: parseTimestamp(e.Timestamp), Value: v})
	}
	return timeline, nil
}
