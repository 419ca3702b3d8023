// SurveyShield - Survey Response Quality and Fraud Scoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/surveyshield

package grid

import (
	"fmt"
	"math"
)

// Response is one answered cell of a grid question, in presentation order.
type Response struct {
	// RowID is the item's position in the grid.
	RowID int `json:"row_id" validate:"gte=0"`

	// ColumnID is the chosen option's position, when the platform reports it.
	ColumnID *int `json:"column_id,omitempty" validate:"omitempty,gte=0"`

	// ResponseValue is the chosen option. Numeric strings are scored on
	// their numeric value; labels fall back to ColumnID.
	ResponseValue string `json:"response_value" validate:"required_without=ColumnID"`

	// ResponseTimeMs is the time spent on this cell, if measured.
	ResponseTimeMs *int64 `json:"response_time_ms,omitempty" validate:"omitempty,gte=0"`
}

// Scale is the declared answer range of a grid question. When supplied,
// values are normalized against it instead of the observed range.
type Scale struct {
	Min float64 `json:"min"`
	Max float64 `json:"max" validate:"gtfield=Min"`
}

// PatternType identifies a geometric click pattern.
type PatternType string

const (
	// PatternStraightLine is the same answer for every item.
	PatternStraightLine PatternType = "straight_line"

	// PatternDiagonal is answers stepping up in lock-step with the rows.
	PatternDiagonal PatternType = "diagonal"

	// PatternReverseDiagonal is answers stepping down in lock-step with the rows.
	PatternReverseDiagonal PatternType = "reverse_diagonal"

	// PatternZigzag is answers alternating between two options.
	PatternZigzag PatternType = "zigzag"

	// PatternRandom is no recognizable pattern.
	PatternRandom PatternType = "random"
)

// StraightLineResult describes the most frequent answer in a grid.
type StraightLineResult struct {
	IsStraightLined bool    `json:"is_straight_lined"`
	Percentage      float64 `json:"percentage"`
	Confidence      float64 `json:"confidence"`
	MostFrequent    string  `json:"most_frequent,omitempty"`
	Count           int     `json:"count"`
	Total           int     `json:"total"`
}

// PatternResult is a classified click pattern. Type is nil when there were
// too few scorable responses to judge.
type PatternResult struct {
	Type       *PatternType `json:"pattern_type"`
	Confidence float64      `json:"confidence"`
}

// AnalysisResult is the full grid analysis of one question in one session.
type AnalysisResult struct {
	SessionID              string       `json:"session_id"`
	QuestionID             string       `json:"question_id"`
	IsStraightLined        bool         `json:"is_straight_lined"`
	StraightLinePercentage float64      `json:"straight_line_percentage"`
	PatternType            *PatternType `json:"pattern_type"`
	PatternConfidence      float64      `json:"pattern_confidence"`
	VarianceScore          float64      `json:"variance_score"`
	SatisficingScore       float64      `json:"satisficing_score"`
	ResponseCount          int          `json:"response_count"`
}

// Config configures the grid detector.
type Config struct {
	// StraightLineThreshold is the share of identical answers that flags a grid.
	StraightLineThreshold float64 `json:"straight_line_threshold" koanf:"straight_line_threshold" validate:"gt=0,lte=1"`

	// MinPatternResponses is the fewest scorable responses a pattern is judged on.
	MinPatternResponses int `json:"min_pattern_responses" koanf:"min_pattern_responses" validate:"gte=2"`

	// ZigzagMinAlternation is the share of steps that must switch value for
	// a two-valued grid to count as a zigzag.
	ZigzagMinAlternation float64 `json:"zigzag_min_alternation" koanf:"zigzag_min_alternation" validate:"gt=0,lte=1"`

	// VarianceWeight and SpeedWeight combine into the satisficing score and
	// must sum to 1.
	VarianceWeight float64 `json:"variance_weight" koanf:"variance_weight" validate:"gte=0,lte=1"`
	SpeedWeight    float64 `json:"speed_weight" koanf:"speed_weight" validate:"gte=0,lte=1"`

	// SpeedReferenceMs is the mean per-cell time at or above which a grid
	// earns no speed contribution.
	SpeedReferenceMs int64 `json:"speed_reference_ms" koanf:"speed_reference_ms" validate:"gt=0"`
}

// DefaultStraightLineThreshold is the share of identical answers that flags
// a grid as straight-lined.
const DefaultStraightLineThreshold = 0.8

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		StraightLineThreshold: DefaultStraightLineThreshold,
		MinPatternResponses:   3,
		ZigzagMinAlternation:  0.8,
		VarianceWeight:        0.5,
		SpeedWeight:           0.5,
		SpeedReferenceMs:      3000, // ~3s per grid row is a deliberate read
	}
}

// weightTolerance absorbs float rounding in configured weight sums.
const weightTolerance = 1e-9

// Validate checks cross-field constraints that struct tags cannot express.
func (c Config) Validate() error {
	if c.StraightLineThreshold <= 0 || c.StraightLineThreshold > 1 {
		return fmt.Errorf("straight_line_threshold must be in (0, 1]")
	}
	if c.MinPatternResponses < 2 {
		return fmt.Errorf("min_pattern_responses must be at least 2")
	}
	if c.ZigzagMinAlternation <= 0 || c.ZigzagMinAlternation > 1 {
		return fmt.Errorf("zigzag_min_alternation must be in (0, 1]")
	}
	if c.VarianceWeight < 0 || c.SpeedWeight < 0 {
		return fmt.Errorf("satisficing weights must be non-negative")
	}
	if math.Abs(c.VarianceWeight+c.SpeedWeight-1) > weightTolerance {
		return fmt.Errorf("variance_weight + speed_weight must equal 1, got %.4f", c.VarianceWeight+c.SpeedWeight)
	}
	if c.SpeedReferenceMs <= 0 {
		return fmt.Errorf("speed_reference_ms must be positive")
	}
	return nil
}
