package llm

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/cenkalti/backoff/v4"
	"golang.org/x/time/rate"

	"secpredict/internal/score"
)

// EvalCase is one case presented to a model for prediction.
type EvalCase struct {
	CaseID        string
	ComplaintText string
	GroundTruth   map[string]any
}

// CaseResult holds one model prediction and its comparison to ground truth.
type CaseResult struct {
	CaseID      string                 `json:"case_id"`
	RawResponse string                 `json:"raw_response,omitempty"`
	Predicted   map[string]any         `json:"predicted"`
	Comparison  score.ComparisonResult `json:"comparison"`
	Err         string                 `json:"error,omitempty"`
}

// EvaluationResult is the outcome of running one model over a dataset.
type EvaluationResult struct {
	ModelName       string           `json:"model_name"`
	ModelConfig     map[string]any   `json:"model_config"`
	Score           score.ModelScore `json:"score"`
	Predictions     []CaseResult     `json:"predictions"`
	Timestamp       time.Time        `json:"timestamp"`
	DurationSeconds float64          `json:"duration_seconds"`
}

// Runner drives a Provider over evaluation cases with rate limiting and
// retries, then aggregates the comparisons into a model score.
type Runner struct {
	provider      Provider
	calc          *score.Calculator
	limiter       *rate.Limiter
	shortPrompt   bool
	maxTextLength int
	retryCount    int
	retryDelay    time.Duration
}

type RunnerOptions struct {
	ShortPrompt       bool
	MaxTextLength     int
	RetryCount        int
	RetryDelay        time.Duration
	RequestsPerSecond float64
}

func NewRunner(provider Provider, calc *score.Calculator, opts RunnerOptions) *Runner {
	if opts.RetryCount <= 0 {
		opts.RetryCount = 3
	}
	if opts.RetryDelay <= 0 {
		opts.RetryDelay = time.Second
	}
	if opts.RequestsPerSecond <= 0 {
		opts.RequestsPerSecond = 2.0
	}
	return &Runner{
		provider:      provider,
		calc:          calc,
		limiter:       rate.NewLimiter(rate.Limit(opts.RequestsPerSecond), 1),
		shortPrompt:   opts.ShortPrompt,
		maxTextLength: opts.MaxTextLength,
		retryCount:    opts.RetryCount,
		retryDelay:    opts.RetryDelay,
	}
}

// RunSingle predicts and scores one case. A provider failure after all
// retries yields a result with an empty prediction, never an error: the
// comparison marks every field against ground truth as predicted-missing.
func (r *Runner) RunSingle(ctx context.Context, c EvalCase) CaseResult {
	result := CaseResult{CaseID: c.CaseID}

	if err := r.limiter.Wait(ctx); err != nil {
		result.Err = err.Error()
		result.Predicted = map[string]any{}
		result.Comparison = r.calc.CompareSingle(c.CaseID, result.Predicted, c.GroundTruth)
		return result
	}

	prompt := FormatPrompt(c.ComplaintText, r.shortPrompt, r.maxTextLength)

	policy := backoff.WithContext(backoff.WithMaxRetries(
		backoff.NewConstantBackOff(r.retryDelay), uint64(r.retryCount-1)), ctx)

	var response string
	err := backoff.Retry(func() error {
		var genErr error
		response, genErr = r.provider.Generate(ctx, prompt)
		return genErr
	}, policy)
	if err != nil {
		log.Printf("llm run case=%s failed after %d attempts: %v", c.CaseID, r.retryCount, err)
		result.Err = err.Error()
	}

	result.RawResponse = response
	result.Predicted = score.ParseResponse(response)
	result.Comparison = r.calc.CompareSingle(c.CaseID, result.Predicted, c.GroundTruth)
	return result
}

// ProgressFunc is called after each case with 1-based progress.
type ProgressFunc func(done, total int, last CaseResult)

// RunEvaluation predicts every case in order and aggregates the model score.
func (r *Runner) RunEvaluation(ctx context.Context, cases []EvalCase, progress ProgressFunc) (*EvaluationResult, error) {
	if len(cases) == 0 {
		return nil, fmt.Errorf("no cases to evaluate")
	}
	start := time.Now()
	log.Printf("llm evaluation start model=%s cases=%d", r.provider.ModelName(), len(cases))

	results := make([]CaseResult, 0, len(cases))
	comparisons := make([]score.ComparisonResult, 0, len(cases))
	for i, c := range cases {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		res := r.RunSingle(ctx, c)
		results = append(results, res)
		comparisons = append(comparisons, res.Comparison)
		if progress != nil {
			progress(i+1, len(cases), res)
		}
	}

	modelScore := r.calc.CalculateModelScore(r.provider.ModelName(), comparisons)
	elapsed := time.Since(start)
	log.Printf("llm evaluation done model=%s overall=%.2f duration=%s",
		modelScore.ModelName, modelScore.OverallScore, elapsed.Round(time.Second))

	return &EvaluationResult{
		ModelName:       r.provider.ModelName(),
		ModelConfig:     r.provider.Config(),
		Score:           modelScore,
		Predictions:     results,
		Timestamp:       start.UTC(),
		DurationSeconds: elapsed.Seconds(),
	}, nil
}
