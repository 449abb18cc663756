package score

import (
	"encoding/json"
	"math"
)

// ModelScore is the aggregate accuracy for one model over a set of case
// comparisons. It is recomputed in full on every call to CalculateModelScore;
// nothing is updated incrementally.
type ModelScore struct {
	ModelName string

	// Per-field accuracies, 0-100. A field with no scorable case scores 0.
	ResolutionTypeAccuracy     float64
	DisgorgementAccuracy       float64
	PenaltyAccuracy            float64
	InterestAccuracy           float64
	InjunctionAccuracy         float64
	OfficerBarAccuracy         float64
	ConductRestrictionAccuracy float64

	// MonetaryAccuracy is the unweighted mean of the monetary field
	// accuracies, counting only fields with at least one scorable case.
	MonetaryAccuracy float64

	// OverallScore is the unweighted mean over the five categories
	// (resolution type, monetary composite, and the three flags), again
	// counting only categories with at least one scorable case.
	OverallScore float64

	TotalCases           int
	ResolutionScorable   int
	DisgorgementScorable int
	PenaltyScorable      int
	InterestScorable     int
}

type fieldTally struct {
	correct int
	total   int
}

func (t *fieldTally) add(o Outcome) {
	if !o.Scorable() {
		return
	}
	t.total++
	if o == Correct {
		t.correct++
	}
}

func (t fieldTally) accuracy() float64 {
	if t.total == 0 {
		return 0
	}
	return 100 * float64(t.correct) / float64(t.total)
}

// CalculateModelScore folds a model's comparisons into aggregate accuracies.
// The result is invariant under any permutation of the input.
func (c *Calculator) CalculateModelScore(modelName string, comparisons []ComparisonResult) ModelScore {
	var res, disg, pen, interest, inj, bar, cond fieldTally
	for _, r := range comparisons {
		res.add(r.ResolutionTypeCorrect)
		disg.add(r.DisgorgementCorrect)
		pen.add(r.PenaltyCorrect)
		interest.add(r.InterestCorrect)
		inj.add(r.InjunctionCorrect)
		bar.add(r.OfficerBarCorrect)
		cond.add(r.ConductRestrictionCorrect)
	}

	s := ModelScore{
		ModelName:                  modelName,
		TotalCases:                 len(comparisons),
		ResolutionTypeAccuracy:     res.accuracy(),
		DisgorgementAccuracy:       disg.accuracy(),
		PenaltyAccuracy:            pen.accuracy(),
		InterestAccuracy:           interest.accuracy(),
		InjunctionAccuracy:         inj.accuracy(),
		OfficerBarAccuracy:         bar.accuracy(),
		ConductRestrictionAccuracy: cond.accuracy(),
		ResolutionScorable:         res.total,
		DisgorgementScorable:       disg.total,
		PenaltyScorable:            pen.total,
		InterestScorable:           interest.total,
	}

	var monetary []float64
	if disg.total > 0 {
		monetary = append(monetary, s.DisgorgementAccuracy)
	}
	if pen.total > 0 {
		monetary = append(monetary, s.PenaltyAccuracy)
	}
	if interest.total > 0 {
		monetary = append(monetary, s.InterestAccuracy)
	}
	s.MonetaryAccuracy = mean(monetary)

	var categories []float64
	if res.total > 0 {
		categories = append(categories, s.ResolutionTypeAccuracy)
	}
	if len(monetary) > 0 {
		categories = append(categories, s.MonetaryAccuracy)
	}
	if inj.total > 0 {
		categories = append(categories, s.InjunctionAccuracy)
	}
	if bar.total > 0 {
		categories = append(categories, s.OfficerBarAccuracy)
	}
	if cond.total > 0 {
		categories = append(categories, s.ConductRestrictionAccuracy)
	}
	s.OverallScore = mean(categories)

	return s
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// MarshalJSON serializes the score in the shape downstream reporting expects:
// overall_score, a nested individual_scores mapping, and a nested
// scorable_counts mapping, with percentages rounded to two decimal places.
func (s ModelScore) MarshalJSON() ([]byte, error) {
	return json.Marshal(map[string]any{
		"model_name":    s.ModelName,
		"overall_score": round2(s.OverallScore),
		"individual_scores": map[string]any{
			"resolution_type":          round2(s.ResolutionTypeAccuracy),
			"disgorgement":             round2(s.DisgorgementAccuracy),
			"penalty":                  round2(s.PenaltyAccuracy),
			"prejudgment_interest":     round2(s.InterestAccuracy),
			"monetary_average":         round2(s.MonetaryAccuracy),
			"has_injunction":           round2(s.InjunctionAccuracy),
			"has_officer_director_bar": round2(s.OfficerBarAccuracy),
			"has_conduct_restriction":  round2(s.ConductRestrictionAccuracy),
		},
		"scorable_counts": map[string]any{
			"total_cases":     s.TotalCases,
			"resolution_type": s.ResolutionScorable,
			"disgorgement":    s.DisgorgementScorable,
			"penalty":         s.PenaltyScorable,
			"interest":        s.InterestScorable,
		},
	})
}
