// Package app wires configuration, storage, fetching, evaluation, and the
// HTTP API into the secpredict commands.
package app

import (
	"context"
	"database/sql"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"secpredict/internal/api"
	"secpredict/internal/config"
	"secpredict/internal/dataset"
	"secpredict/internal/fetch"
	"secpredict/internal/llm"
	"secpredict/internal/notify"
	"secpredict/internal/score"
	"secpredict/internal/storage/sqlite"
)

const usage = `usage: secpredict <command> [flags]

commands:
  serve          run the HTTP API (with auto-fetch when scheduled)
  fetch          import new litigation releases from the SEC feed
  build-dataset  split stored cases into evaluation and prediction datasets
  evaluate       run the configured model over the evaluation dataset
  synopsis       generate missing case synopses
`

func Main() {
	log.SetFlags(log.LstdFlags)

	args := os.Args[1:]
	command := "serve"
	if len(args) > 0 {
		command = args[0]
		args = args[1:]
	}

	cfg := config.LoadConfig()

	db, err := sqlite.InitDB(cfg.DBPath)
	if err != nil {
		log.Fatalf("Error opening database %s: %v", cfg.DBPath, err)
	}
	defer db.Close()

	ctx := context.Background()

	switch command {
	case "serve":
		runServe(ctx, cfg, db)
	case "fetch":
		runFetch(ctx, cfg, db)
	case "build-dataset":
		runBuildDataset(cfg, db)
	case "evaluate":
		runEvaluate(ctx, cfg, db, args)
	case "synopsis":
		runSynopsis(ctx, cfg, db)
	case "help", "-h", "--help":
		fmt.Print(usage)
	default:
		fmt.Fprintf(os.Stderr, "unknown command %q\n\n%s", command, usage)
		os.Exit(2)
	}
}

func newProvider(cfg config.Config) llm.Provider {
	switch cfg.LLMProvider {
	case "anthropic":
		return llm.NewAnthropicProvider(cfg.AnthropicAPIKey, cfg.LLMModel, cfg.MaxTokens, cfg.Temperature)
	case "openai":
		return llm.NewOpenAIProvider(cfg.OpenAIAPIKey, cfg.LLMModel, cfg.MaxTokens, cfg.Temperature)
	default:
		return llm.NewMockProvider(cfg.LLMModel)
	}
}

func runServe(ctx context.Context, cfg config.Config, db *sql.DB) {
	if cfg.AutoFetchSchedule != "" {
		client := fetch.NewClient(cfg.CasesURL, cfg.RequestsPerSecond, cfg.RetryCount, cfg.RetryDelay())
		notifier := notify.New(cfg.SlackBotToken, cfg.ReportChannelID)
		err := fetch.StartAutoFetchScheduler(ctx, cfg.AutoFetchSchedule, cfg.Location, func(ctx context.Context) {
			result, err := client.FetchAndImport(ctx, db)
			if err != nil {
				log.Printf("auto-fetch failed: %v", err)
				return
			}
			notifier.PostFetchSummary(fetch.FormatFetchSummary(result))
		})
		if err != nil {
			log.Fatalf("Error starting auto-fetch: %v", err)
		}
	}

	server := api.NewServer(db)
	log.Printf("api listening on %s", cfg.APIAddr)
	if err := server.Run(cfg.APIAddr); err != nil {
		log.Fatalf("Error running API server: %v", err)
	}
}

func runFetch(ctx context.Context, cfg config.Config, db *sql.DB) {
	client := fetch.NewClient(cfg.CasesURL, cfg.RequestsPerSecond, cfg.RetryCount, cfg.RetryDelay())
	result, err := client.FetchAndImport(ctx, db)
	if err != nil {
		log.Fatalf("Error fetching cases: %v", err)
	}
	summary := fetch.FormatFetchSummary(result)
	log.Print(summary)
	notify.New(cfg.SlackBotToken, cfg.ReportChannelID).PostFetchSummary(summary)
}

func runBuildDataset(cfg config.Config, db *sql.DB) {
	cases, err := sqlite.ListCases(db)
	if err != nil {
		log.Fatalf("Error listing cases: %v", err)
	}
	if _, err := dataset.NewBuilder().Build(cases, cfg.DataDir); err != nil {
		log.Fatalf("Error building dataset: %v", err)
	}
}

func runEvaluate(ctx context.Context, cfg config.Config, db *sql.DB, args []string) {
	fs := flag.NewFlagSet("evaluate", flag.ExitOnError)
	datasetPath := fs.String("dataset", filepath.Join(cfg.DataDir, dataset.EvaluationFile), "evaluation dataset file")
	limit := fs.Int("limit", 0, "evaluate at most N cases (0 = all)")
	_ = fs.Parse(args)

	cases, err := dataset.LoadDataset(*datasetPath)
	if err != nil {
		log.Fatalf("Error loading dataset: %v", err)
	}
	if *limit > 0 && len(cases) > *limit {
		cases = cases[:*limit]
	}

	evalCases := make([]llm.EvalCase, 0, len(cases))
	for _, c := range cases {
		evalCases = append(evalCases, llm.EvalCase{
			CaseID:        c.ReleaseNumber,
			ComplaintText: c.ComplaintText,
			GroundTruth:   c.GroundTruth.Fields(),
		})
	}

	provider := newProvider(cfg)
	runner := llm.NewRunner(provider, score.NewCalculator(cfg.Tolerance), llm.RunnerOptions{
		ShortPrompt:       cfg.ShortPrompt,
		MaxTextLength:     cfg.MaxTextLength,
		RetryCount:        cfg.RetryCount,
		RetryDelay:        cfg.RetryDelay(),
		RequestsPerSecond: cfg.RequestsPerSecond,
	})

	result, err := runner.RunEvaluation(ctx, evalCases, func(done, total int, last llm.CaseResult) {
		status := "ok"
		if last.Err != "" {
			status = "error"
		}
		log.Printf("evaluate progress=%d/%d case=%s status=%s", done, total, last.CaseID, status)
	})
	if err != nil {
		log.Fatalf("Error running evaluation: %v", err)
	}

	for _, pred := range result.Predictions {
		err := sqlite.InsertPrediction(db, sqlite.PredictionRecord{
			ModelName:     result.ModelName,
			ReleaseNumber: pred.CaseID,
			Success:       pred.Err == "",
			Error:         pred.Err,
			RawResponse:   pred.RawResponse,
			Predicted:     pred.Predicted,
			Comparison:    &pred.Comparison,
		})
		if err != nil {
			log.Printf("storing prediction case=%s failed: %v", pred.CaseID, err)
		}
	}
	duration := time.Duration(result.DurationSeconds * float64(time.Second))
	if err := sqlite.InsertRun(db, result.ModelName, result.ModelConfig, result.Score, duration); err != nil {
		log.Printf("storing run failed: %v", err)
	}

	if err := writeResultFile(cfg.DataDir, result); err != nil {
		log.Printf("writing result file failed: %v", err)
	}

	scoreJSON, _ := json.MarshalIndent(result.Score, "", "  ")
	fmt.Println(string(scoreJSON))
	notify.New(cfg.SlackBotToken, cfg.ReportChannelID).PostRunSummary(result.Score, result.DurationSeconds)
}

func runSynopsis(ctx context.Context, cfg config.Config, db *sql.DB) {
	cases, err := sqlite.ListCases(db)
	if err != nil {
		log.Fatalf("Error listing cases: %v", err)
	}
	provider := newProvider(cfg)

	generated := 0
	for _, c := range cases {
		if c.Synopsis != "" {
			continue
		}
		synopsis := llm.GenerateSynopsis(ctx, provider, c.FullText)
		if synopsis == "" {
			continue
		}
		if err := sqlite.UpdateSynopsis(db, c.ReleaseNumber, synopsis); err != nil {
			log.Printf("storing synopsis release=%s failed: %v", c.ReleaseNumber, err)
			continue
		}
		generated++
	}
	log.Printf("synopsis done generated=%d of %d cases", generated, len(cases))
}

func writeResultFile(dataDir string, result *llm.EvaluationResult) error {
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return err
	}
	name := fmt.Sprintf("evaluation_%s.json", result.Timestamp.Format("20060102T150405Z"))
	return os.WriteFile(filepath.Join(dataDir, name), data, 0o644)
}
