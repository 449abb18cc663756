package score

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestCalculateModelScore(t *testing.T) {
	calc := NewCalculator(0.10)
	comparisons := []ComparisonResult{
		{
			ResolutionTypeCorrect:     Correct,
			DisgorgementCorrect:       Correct,
			PenaltyCorrect:            Incorrect,
			InterestCorrect:           NotScorable,
			InjunctionCorrect:         Correct,
			OfficerBarCorrect:         Correct,
			ConductRestrictionCorrect: NotScorable,
		},
		{
			ResolutionTypeCorrect:     Incorrect,
			DisgorgementCorrect:       Correct,
			PenaltyCorrect:            Correct,
			InterestCorrect:           Correct,
			InjunctionCorrect:         Incorrect,
			OfficerBarCorrect:         Correct,
			ConductRestrictionCorrect: NotScorable,
		},
	}

	s := calc.CalculateModelScore("TestModel", comparisons)
	if s.ModelName != "TestModel" {
		t.Fatalf("ModelName = %q", s.ModelName)
	}
	if s.TotalCases != 2 {
		t.Fatalf("TotalCases = %d, want 2", s.TotalCases)
	}
	if s.ResolutionTypeAccuracy != 50 {
		t.Fatalf("resolution accuracy = %v, want 50", s.ResolutionTypeAccuracy)
	}
	if s.DisgorgementAccuracy != 100 {
		t.Fatalf("disgorgement accuracy = %v, want 100", s.DisgorgementAccuracy)
	}
	if s.PenaltyAccuracy != 50 {
		t.Fatalf("penalty accuracy = %v, want 50", s.PenaltyAccuracy)
	}
	if s.InterestAccuracy != 100 {
		t.Fatalf("interest accuracy = %v, want 100", s.InterestAccuracy)
	}
	// Monetary composite: mean of 100, 50, 100.
	wantMonetary := (100.0 + 50 + 100) / 3
	if math.Abs(s.MonetaryAccuracy-wantMonetary) > 1e-9 {
		t.Fatalf("monetary accuracy = %v, want %v", s.MonetaryAccuracy, wantMonetary)
	}
	// Conduct restriction was never scorable, so overall averages four
	// categories: resolution 50, monetary, injunction 50, officer bar 100.
	wantOverall := (50 + wantMonetary + 50 + 100) / 4
	if math.Abs(s.OverallScore-wantOverall) > 1e-9 {
		t.Fatalf("overall = %v, want %v", s.OverallScore, wantOverall)
	}
	if s.ResolutionScorable != 2 || s.DisgorgementScorable != 2 || s.PenaltyScorable != 2 || s.InterestScorable != 1 {
		t.Fatalf("scorable counts = %d/%d/%d/%d",
			s.ResolutionScorable, s.DisgorgementScorable, s.PenaltyScorable, s.InterestScorable)
	}
}

func TestOverallAveragesOnlyScorableCategories(t *testing.T) {
	calc := NewCalculator(0.10)
	// Only resolution type and injunction ever have ground truth; the overall
	// score averages exactly those two categories.
	comparisons := []ComparisonResult{
		{ResolutionTypeCorrect: Correct, InjunctionCorrect: Correct},
		{ResolutionTypeCorrect: Correct, InjunctionCorrect: Incorrect},
		{ResolutionTypeCorrect: Incorrect, InjunctionCorrect: Incorrect},
	}

	s := calc.CalculateModelScore("M", comparisons)
	wantResolution := 100.0 * 2 / 3
	wantInjunction := 100.0 / 3
	if math.Abs(s.ResolutionTypeAccuracy-wantResolution) > 1e-9 {
		t.Fatalf("resolution = %v, want %v", s.ResolutionTypeAccuracy, wantResolution)
	}
	wantOverall := (wantResolution + wantInjunction) / 2
	if math.Abs(s.OverallScore-wantOverall) > 1e-9 {
		t.Fatalf("overall = %v, want %v (mean of the two scorable categories)", s.OverallScore, wantOverall)
	}
	if s.MonetaryAccuracy != 0 {
		t.Fatalf("monetary accuracy = %v, want 0 with no scorable monetary field", s.MonetaryAccuracy)
	}
}

func TestCalculateModelScoreEmpty(t *testing.T) {
	calc := NewCalculator(0.10)
	s := calc.CalculateModelScore("Empty", nil)
	if s.TotalCases != 0 {
		t.Fatalf("TotalCases = %d, want 0", s.TotalCases)
	}
	if s.OverallScore != 0 || s.MonetaryAccuracy != 0 {
		t.Fatalf("empty run should score 0, got overall=%v monetary=%v", s.OverallScore, s.MonetaryAccuracy)
	}
}

func TestCalculateModelScoreOrderIndependent(t *testing.T) {
	calc := NewCalculator(0.10)
	comparisons := []ComparisonResult{
		{ResolutionTypeCorrect: Correct, DisgorgementCorrect: Incorrect, InjunctionCorrect: Correct},
		{ResolutionTypeCorrect: Incorrect, DisgorgementCorrect: Correct, InjunctionCorrect: NotScorable},
		{ResolutionTypeCorrect: Correct, DisgorgementCorrect: NotScorable, InjunctionCorrect: Incorrect},
	}
	reversed := []ComparisonResult{comparisons[2], comparisons[1], comparisons[0]}

	forward := calc.CalculateModelScore("M", comparisons)
	backward := calc.CalculateModelScore("M", reversed)
	if diff := cmp.Diff(forward, backward); diff != "" {
		t.Fatalf("score depends on comparison order (-forward +backward):\n%s", diff)
	}
}

func TestModelScoreMarshalJSON(t *testing.T) {
	s := ModelScore{
		ModelName:                  "TestModel",
		ResolutionTypeAccuracy:     66.666666,
		DisgorgementAccuracy:       100,
		MonetaryAccuracy:           83.333333,
		OverallScore:               75.555555,
		TotalCases:                 3,
		ResolutionScorable:         3,
		DisgorgementScorable:       2,
		PenaltyScorable:            1,
		InterestScorable:           0,
		InjunctionAccuracy:         50,
		OfficerBarAccuracy:         0,
		ConductRestrictionAccuracy: 100,
	}

	data, err := json.Marshal(s)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	var got map[string]any
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}

	if got["model_name"] != "TestModel" {
		t.Fatalf("model_name = %v", got["model_name"])
	}
	if got["overall_score"] != 75.56 {
		t.Fatalf("overall_score = %v, want 75.56", got["overall_score"])
	}

	individual, ok := got["individual_scores"].(map[string]any)
	if !ok {
		t.Fatalf("individual_scores missing: %v", got)
	}
	if individual["resolution_type"] != 66.67 {
		t.Fatalf("resolution_type = %v, want 66.67", individual["resolution_type"])
	}
	if individual["monetary_average"] != 83.33 {
		t.Fatalf("monetary_average = %v, want 83.33", individual["monetary_average"])
	}

	counts, ok := got["scorable_counts"].(map[string]any)
	if !ok {
		t.Fatalf("scorable_counts missing: %v", got)
	}
	if counts["total_cases"] != 3.0 || counts["interest"] != 0.0 {
		t.Fatalf("scorable_counts = %v", counts)
	}
}
