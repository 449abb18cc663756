// Package score normalizes model predictions, compares them to ground truth,
// and aggregates accuracy across a model's full run. Every function is total:
// malformed input normalizes to nil/false and is scored, never rejected.
package score

import (
	"fmt"
	"strconv"
)

// DefaultTolerance is the relative error allowed on monetary fields.
const DefaultTolerance = 0.10

// ComparisonResult is the scored comparison for one (model, case) pair. It is
// a pure value: built once by CompareSingle and never mutated.
type ComparisonResult struct {
	CaseID string `json:"case_id"`

	ResolutionTypeCorrect     Outcome `json:"resolution_type_correct"`
	DisgorgementCorrect       Outcome `json:"disgorgement_correct"`
	PenaltyCorrect            Outcome `json:"penalty_correct"`
	InterestCorrect           Outcome `json:"interest_correct"`
	InjunctionCorrect         Outcome `json:"injunction_correct"`
	OfficerBarCorrect         Outcome `json:"officer_bar_correct"`
	ConductRestrictionCorrect Outcome `json:"conduct_restriction_correct"`

	Predicted   map[string]any `json:"predicted"`
	GroundTruth map[string]any `json:"ground_truth"`

	// Errors holds one human-readable line per incorrect field.
	Errors []string `json:"errors"`
}

// Calculator compares predictions to ground truth under a monetary tolerance.
type Calculator struct {
	tolerance float64
}

// NewCalculator returns a calculator with the given monetary tolerance.
// Non-positive values fall back to DefaultTolerance.
func NewCalculator(tolerance float64) *Calculator {
	if tolerance <= 0 {
		tolerance = DefaultTolerance
	}
	return &Calculator{tolerance: tolerance}
}

// Tolerance returns the configured monetary tolerance.
func (c *Calculator) Tolerance() float64 { return c.tolerance }

// MonetaryWithinTolerance scores a predicted amount against the actual one.
// A nil actual is not scorable regardless of the prediction. A zero actual
// requires an exactly zero prediction, since relative error is undefined at
// zero. Otherwise a nil prediction is incorrect, and a value is correct when
// its relative error does not exceed the tolerance.
func (c *Calculator) MonetaryWithinTolerance(predicted, actual *float64) Outcome {
	if actual == nil {
		return NotScorable
	}
	if *actual == 0 {
		return outcomeOf(predicted != nil && *predicted == 0)
	}
	if predicted == nil {
		return Incorrect
	}
	ratio := (*predicted - *actual) / *actual
	if ratio < 0 {
		ratio = -ratio
	}
	return outcomeOf(ratio <= c.tolerance)
}

// CompareSingle compares one case's predicted fields to its ground truth.
// Missing keys are treated as nil. A field is scorable only when ground truth
// is present for it; unscorable fields stay NotScorable and are excluded from
// aggregation.
func (c *Calculator) CompareSingle(caseID string, predicted, groundTruth map[string]any) ComparisonResult {
	result := ComparisonResult{
		CaseID:      caseID,
		Predicted:   predicted,
		GroundTruth: groundTruth,
	}

	predRes := NormalizeResolutionType(predicted["resolution_type"])
	actualRes := NormalizeResolutionType(groundTruth["resolution_type"])
	if actualRes != "" {
		result.ResolutionTypeCorrect = outcomeOf(predRes == actualRes)
		if result.ResolutionTypeCorrect == Incorrect {
			result.Errors = append(result.Errors,
				fmt.Sprintf("Resolution type: predicted '%s', actual '%s'", predRes, actualRes))
		}
	}

	result.DisgorgementCorrect = c.compareMonetary(&result, "Disgorgement",
		predicted["disgorgement_amount"], groundTruth["disgorgement_amount"])
	result.PenaltyCorrect = c.compareMonetary(&result, "Penalty",
		predicted["penalty_amount"], groundTruth["penalty_amount"])
	result.InterestCorrect = c.compareMonetary(&result, "Interest",
		predicted["prejudgment_interest"], groundTruth["prejudgment_interest"])

	result.InjunctionCorrect = compareBoolean(&result, "Injunction",
		predicted["has_injunction"], groundTruth["has_injunction"])
	result.OfficerBarCorrect = compareBoolean(&result, "Officer bar",
		predicted["has_officer_director_bar"], groundTruth["has_officer_director_bar"])
	result.ConductRestrictionCorrect = compareBoolean(&result, "Conduct restriction",
		predicted["has_conduct_restriction"], groundTruth["has_conduct_restriction"])

	return result
}

func (c *Calculator) compareMonetary(result *ComparisonResult, label string, predicted, actual any) Outcome {
	pred := NormalizeMonetary(predicted)
	act := NormalizeMonetary(actual)
	outcome := c.MonetaryWithinTolerance(pred, act)
	if outcome == Incorrect {
		result.Errors = append(result.Errors,
			fmt.Sprintf("%s: predicted $%s, actual $%s", label, moneyString(pred), moneyString(act)))
	}
	return outcome
}

func compareBoolean(result *ComparisonResult, label string, predicted, actual any) Outcome {
	if actual == nil {
		return NotScorable
	}
	pred := NormalizeBoolean(predicted)
	act := NormalizeBoolean(actual)
	correct := pred != nil && act != nil && *pred == *act
	if !correct {
		result.Errors = append(result.Errors,
			fmt.Sprintf("%s: predicted %s, actual %s", label, boolString(pred), boolString(act)))
	}
	return outcomeOf(correct)
}

func moneyString(v *float64) string {
	if v == nil {
		return "null"
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}

func boolString(v *bool) string {
	if v == nil {
		return "null"
	}
	return strconv.FormatBool(*v)
}
