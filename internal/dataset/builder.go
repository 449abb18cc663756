// Package dataset turns stored SEC cases into evaluation and prediction
// datasets written as JSON files.
package dataset

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"secpredict/internal/domain"
	"secpredict/internal/extract"
)

// ProcessedCase is one case ready for model evaluation or prediction.
type ProcessedCase struct {
	ReleaseNumber string              `json:"release_number"`
	ReleaseDate   string              `json:"release_date"`
	Title         string              `json:"title"`
	Court         string              `json:"court,omitempty"`
	ComplaintText string              `json:"complaint_text"`
	GroundTruth   extract.GroundTruth `json:"ground_truth"`
	Resolved      bool                `json:"resolved"`
}

// SkippedCase records why a case was excluded from the datasets.
type SkippedCase struct {
	ReleaseNumber string `json:"release_number"`
	Title         string `json:"title"`
	Reason        string `json:"reason"`
}

// Distribution describes the extracted ground truth across the processed
// cases, as counts per resolution type and availability percentages for the
// other fields.
type Distribution struct {
	ResolutionCounts map[string]int `json:"resolution_counts"`
	DisgorgementPct  float64        `json:"disgorgement_pct"`
	PenaltyPct       float64        `json:"penalty_pct"`
	InterestPct      float64        `json:"interest_pct"`
	InjunctionPct    float64        `json:"injunction_pct"`
	OfficerBarPct    float64        `json:"officer_bar_pct"`
	ConductPct       float64        `json:"conduct_pct"`
}

// Stats summarizes one dataset build.
type Stats struct {
	TotalCases      int          `json:"total_cases"`
	EvaluationCases int          `json:"evaluation_cases"`
	PredictionCases int          `json:"prediction_cases"`
	SkippedCases    int          `json:"skipped_cases"`
	EvaluationPct   float64      `json:"evaluation_pct"`
	PredictionPct   float64      `json:"prediction_pct"`
	SkippedPct      float64      `json:"skipped_pct"`
	GroundTruth     Distribution `json:"ground_truth"`
	BuiltAt         string       `json:"built_at"`
}

const defaultMinTextLength = 500

const (
	EvaluationFile = "evaluation_dataset.json"
	PredictionFile = "prediction_dataset.json"
	SkippedFile    = "skipped_cases.json"
	StatsFile      = "dataset_stats.json"
)

// Builder splits cases into an evaluation set (resolved, scorable against
// extracted ground truth) and a prediction set (still ongoing).
type Builder struct {
	MinTextLength int
}

func NewBuilder() *Builder {
	return &Builder{MinTextLength: defaultMinTextLength}
}

// ProcessCase classifies one case. The complaint text feeds the model; the
// litigation release text feeds ground-truth extraction. Cases without a
// usable complaint are skipped.
func (b *Builder) ProcessCase(c domain.Case) (*ProcessedCase, *SkippedCase) {
	text := c.ComplaintText
	if text == "" {
		text = c.FullText
	}
	if len(text) < b.MinTextLength {
		return nil, &SkippedCase{
			ReleaseNumber: c.ReleaseNumber,
			Title:         c.Title,
			Reason:        fmt.Sprintf("text too short (%d chars, need %d)", len(text), b.MinTextLength),
		}
	}

	gt := extract.Extract(c.FullText)
	return &ProcessedCase{
		ReleaseNumber: c.ReleaseNumber,
		ReleaseDate:   c.ReleaseDate,
		Title:         c.Title,
		Court:         c.Court,
		ComplaintText: text,
		GroundTruth:   gt,
		Resolved:      gt.ResolutionType != extract.ResolutionOngoing,
	}, nil
}

// Build processes every case and writes the dataset files under dataDir.
func (b *Builder) Build(cases []domain.Case, dataDir string) (*Stats, error) {
	evaluation := []ProcessedCase{}
	prediction := []ProcessedCase{}
	skipped := []SkippedCase{}

	for _, c := range cases {
		processed, skip := b.ProcessCase(c)
		if skip != nil {
			skipped = append(skipped, *skip)
			continue
		}
		if processed.Resolved {
			evaluation = append(evaluation, *processed)
		} else {
			prediction = append(prediction, *processed)
		}
	}

	total := len(cases)
	stats := &Stats{
		TotalCases:      total,
		EvaluationCases: len(evaluation),
		PredictionCases: len(prediction),
		SkippedCases:    len(skipped),
		EvaluationPct:   pct(len(evaluation), total),
		PredictionPct:   pct(len(prediction), total),
		SkippedPct:      pct(len(skipped), total),
		GroundTruth:     distribution(append(append([]ProcessedCase{}, evaluation...), prediction...)),
		BuiltAt:         time.Now().UTC().Format(time.RFC3339),
	}

	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating data dir: %w", err)
	}
	files := map[string]any{
		EvaluationFile: evaluation,
		PredictionFile: prediction,
		SkippedFile:    skipped,
		StatsFile:      stats,
	}
	for name, payload := range files {
		if err := writeJSON(filepath.Join(dataDir, name), payload); err != nil {
			return nil, err
		}
	}

	log.Printf("dataset built total=%d evaluation=%d (%.1f%%) prediction=%d (%.1f%%) skipped=%d (%.1f%%)",
		total, len(evaluation), stats.EvaluationPct, len(prediction), stats.PredictionPct,
		len(skipped), stats.SkippedPct)
	return stats, nil
}

// LoadDataset reads a processed dataset file written by Build.
func LoadDataset(path string) ([]ProcessedCase, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading dataset %s: %w", path, err)
	}
	var cases []ProcessedCase
	if err := json.Unmarshal(data, &cases); err != nil {
		return nil, fmt.Errorf("parsing dataset %s: %w", path, err)
	}
	return cases, nil
}

func writeJSON(path string, payload any) error {
	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling %s: %w", filepath.Base(path), err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

func distribution(processed []ProcessedCase) Distribution {
	d := Distribution{ResolutionCounts: map[string]int{}}
	n := len(processed)
	if n == 0 {
		return d
	}
	var disg, pen, interest, inj, bar, cond int
	for _, c := range processed {
		d.ResolutionCounts[c.GroundTruth.ResolutionType]++
		if c.GroundTruth.DisgorgementAmount != nil {
			disg++
		}
		if c.GroundTruth.PenaltyAmount != nil {
			pen++
		}
		if c.GroundTruth.PrejudgmentInterest != nil {
			interest++
		}
		if c.GroundTruth.HasInjunction {
			inj++
		}
		if c.GroundTruth.HasOfficerDirectorBar {
			bar++
		}
		if c.GroundTruth.HasConductRestriction {
			cond++
		}
	}
	d.DisgorgementPct = pct(disg, n)
	d.PenaltyPct = pct(pen, n)
	d.InterestPct = pct(interest, n)
	d.InjunctionPct = pct(inj, n)
	d.OfficerBarPct = pct(bar, n)
	d.ConductPct = pct(cond, n)
	return d
}

func pct(part, total int) float64 {
	if total == 0 {
		return 0
	}
	v := 100 * float64(part) / float64(total)
	return float64(int(v*10+0.5)) / 10
}
