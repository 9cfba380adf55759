package feedback

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Bucket is the display feedback for a range of GWA values.
type Bucket struct {
	Emoji    string   `json:"emoji"`
	Level    string   `json:"level"`
	Messages []string `json:"messages"`
	Theme    string   `json:"theme"`
}

// Headline renders the level together with the value, e.g. "Good (2.000)".
func (b Bucket) Headline(value float64) string {
	return fmt.Sprintf("%s (%.3f)", b.Level, value)
}

type band struct {
	low, high     float64
	lowInclusive  bool
	highUnbounded bool
	bucket        Bucket
}

func (b band) contains(v float64) bool {
	if b.lowInclusive {
		if v < b.low {
			return false
		}
	} else if v <= b.low {
		return false
	}
	return b.highUnbounded || v <= b.high
}

var (
	Excellent = Bucket{
		Emoji: "🏆",
		Level: "Excellent",
		Messages: []string{
			"“Excellence is not an act, it’s a habit.”",
			"“Your hard work truly paid off—keep aiming high.”",
		},
		Theme: "bg-yellow-50 border-yellow-100 text-yellow-700",
	}
	VeryGood = Bucket{
		Emoji: "🥇",
		Level: "Very Good",
		Messages: []string{
			"“Great job! You’re closer to excellence than you think.”",
			"“Consistency is turning your effort into success.”",
		},
		Theme: "bg-blue-50 border-blue-100 text-blue-700",
	}
	Good = Bucket{
		Emoji: "🥈",
		Level: "Good",
		Messages: []string{
			"“Good work—keep pushing, you’re on the right path.”",
			"“This is progress. Don’t stop improving.”",
		},
		Theme: "bg-indigo-50 border-indigo-100 text-indigo-700",
	}
	Satisfactory = Bucket{
		Emoji: "🥉",
		Level: "Satisfactory",
		Messages: []string{
			"“You passed, and that means you’re moving forward.”",
			"“There’s room to grow—and you can do better next time.”",
		},
		Theme: "bg-green-50 border-green-100 text-green-700",
	}
	Passing = Bucket{
		Emoji: "⚠️",
		Level: "Passing",
		Messages: []string{
			"“Passing is still winning—never give up.”",
			"“This grade does not define your potential.”",
		},
		Theme: "bg-orange-50 border-orange-100 text-orange-700",
	}
	Failing = Bucket{
		Emoji: "❌",
		Level: "Failing",
		Messages: []string{
			"“Failure is not the opposite of success; it’s part of it.”",
			"“Stand up, learn from it, and try again stronger.”",
		},
		Theme: "bg-red-50 border-red-100 text-red-700",
	}
)

// Order matters: every band after the first is open on its lower edge.
var bands = []band{
	{low: 1.0, high: 1.5, lowInclusive: true, bucket: Excellent},
	{low: 1.5, high: 1.75, bucket: VeryGood},
	{low: 1.75, high: 2.25, bucket: Good},
	{low: 2.25, high: 2.75, bucket: Satisfactory},
	{low: 2.75, high: 3.0, bucket: Passing},
	// (3.0, 5.0) is intentionally left unclassified.
	{low: 5.0, lowInclusive: true, highUnbounded: true, bucket: Failing},
}

// Classify maps a grade average to its feedback bucket. The second return
// value is false when no bucket applies (NaN, below 1.0, or inside the
// unclassified gap between 3.0 and 5.0) and the caller should hide feedback.
func Classify(value float64) (Bucket, bool) {
	if math.IsNaN(value) {
		return Bucket{}, false
	}
	for _, b := range bands {
		if b.contains(value) {
			return b.bucket, true
		}
	}
	return Bucket{}, false
}

// Parse converts caller supplied text into a grade average. Unparsable or
// empty text yields NaN, which Classify treats as "no feedback".
func Parse(text string) float64 {
	text = strings.TrimSpace(text)
	if text == "" {
		return math.NaN()
	}
	v, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return math.NaN()
	}
	return v
}
