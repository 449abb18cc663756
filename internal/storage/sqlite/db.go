// Package sqlite persists cases, ground truth, predictions, and evaluation
// runs in a local SQLite database.
package sqlite

import (
	"database/sql"
	"encoding/json"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"secpredict/internal/domain"
	"secpredict/internal/extract"
	"secpredict/internal/score"
)

func InitDB(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}

	schema := `
	CREATE TABLE IF NOT EXISTS cases (
		release_number TEXT PRIMARY KEY,
		release_date   TEXT DEFAULT '',
		title          TEXT DEFAULT '',
		court          TEXT DEFAULT '',
		case_url       TEXT DEFAULT '',
		complaint_url  TEXT DEFAULT '',
		full_text      TEXT DEFAULT '',
		complaint_text TEXT DEFAULT '',
		created_at     DATETIME DEFAULT CURRENT_TIMESTAMP
	);
	CREATE INDEX IF NOT EXISTS idx_cases_release_date ON cases(release_date);

	CREATE TABLE IF NOT EXISTS ground_truth (
		release_number           TEXT PRIMARY KEY,
		resolution_type          TEXT NOT NULL,
		disgorgement_amount      REAL,
		penalty_amount           REAL,
		prejudgment_interest     REAL,
		has_injunction           INTEGER NOT NULL DEFAULT 0,
		has_officer_director_bar INTEGER NOT NULL DEFAULT 0,
		has_conduct_restriction  INTEGER NOT NULL DEFAULT 0,
		extracted_at             DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS predictions (
		id             INTEGER PRIMARY KEY AUTOINCREMENT,
		model_name     TEXT NOT NULL,
		release_number TEXT NOT NULL,
		success        INTEGER NOT NULL DEFAULT 0,
		error          TEXT DEFAULT '',
		raw_response   TEXT DEFAULT '',
		predicted_json TEXT DEFAULT '{}',
		comparison_json TEXT DEFAULT '',
		created_at     DATETIME DEFAULT CURRENT_TIMESTAMP
	);
	CREATE INDEX IF NOT EXISTS idx_predictions_model ON predictions(model_name);
	CREATE INDEX IF NOT EXISTS idx_predictions_case ON predictions(release_number);

	CREATE TABLE IF NOT EXISTS evaluation_runs (
		id               INTEGER PRIMARY KEY AUTOINCREMENT,
		model_name       TEXT NOT NULL,
		model_config     TEXT DEFAULT '{}',
		score_json       TEXT NOT NULL,
		overall_score    REAL NOT NULL,
		total_cases      INTEGER NOT NULL,
		duration_seconds REAL NOT NULL DEFAULT 0,
		created_at       DATETIME DEFAULT CURRENT_TIMESTAMP
	);
	CREATE INDEX IF NOT EXISTS idx_runs_model ON evaluation_runs(model_name);
	`
	if _, err = db.Exec(schema); err != nil {
		return nil, err
	}

	// Migration: add synopsis column if missing.
	var colCount int
	_ = db.QueryRow(`SELECT COUNT(*) FROM pragma_table_info('cases') WHERE name = 'synopsis'`).Scan(&colCount)
	if colCount == 0 {
		_, _ = db.Exec(`ALTER TABLE cases ADD COLUMN synopsis TEXT DEFAULT ''`)
	}

	return db, nil
}

func InsertCase(db *sql.DB, c domain.Case) error {
	_, err := db.Exec(
		`INSERT INTO cases (release_number, release_date, title, court, case_url, complaint_url, full_text, complaint_text, synopsis)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		c.ReleaseNumber, c.ReleaseDate, c.Title, c.Court, c.CaseURL,
		c.ComplaintURL, c.FullText, c.ComplaintText, c.Synopsis,
	)
	return err
}

func InsertCases(db *sql.DB, cases []domain.Case) (int, error) {
	tx, err := db.Begin()
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(
		`INSERT INTO cases (release_number, release_date, title, court, case_url, complaint_url, full_text, complaint_text, synopsis)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
	)
	if err != nil {
		return 0, err
	}
	defer stmt.Close()

	inserted := 0
	for _, c := range cases {
		_, err := stmt.Exec(
			c.ReleaseNumber, c.ReleaseDate, c.Title, c.Court, c.CaseURL,
			c.ComplaintURL, c.FullText, c.ComplaintText, c.Synopsis,
		)
		if err != nil {
			return inserted, err
		}
		inserted++
	}

	return inserted, tx.Commit()
}

func CaseExists(db *sql.DB, releaseNumber string) (bool, error) {
	var count int
	err := db.QueryRow("SELECT COUNT(*) FROM cases WHERE release_number = ?", releaseNumber).Scan(&count)
	return count > 0, err
}

func GetCase(db *sql.DB, releaseNumber string) (domain.Case, error) {
	var c domain.Case
	err := db.QueryRow(
		`SELECT release_number, release_date, title, court, case_url, complaint_url, full_text, complaint_text, synopsis, created_at
		 FROM cases WHERE release_number = ?`, releaseNumber,
	).Scan(&c.ReleaseNumber, &c.ReleaseDate, &c.Title, &c.Court, &c.CaseURL,
		&c.ComplaintURL, &c.FullText, &c.ComplaintText, &c.Synopsis, &c.CreatedAt)
	return c, err
}

func ListCases(db *sql.DB) ([]domain.Case, error) {
	rows, err := db.Query(
		`SELECT release_number, release_date, title, court, case_url, complaint_url, full_text, complaint_text, synopsis, created_at
		 FROM cases ORDER BY release_date, release_number`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var cases []domain.Case
	for rows.Next() {
		var c domain.Case
		err := rows.Scan(&c.ReleaseNumber, &c.ReleaseDate, &c.Title, &c.Court, &c.CaseURL,
			&c.ComplaintURL, &c.FullText, &c.ComplaintText, &c.Synopsis, &c.CreatedAt)
		if err != nil {
			return nil, err
		}
		cases = append(cases, c)
	}
	return cases, rows.Err()
}

func UpdateSynopsis(db *sql.DB, releaseNumber, synopsis string) error {
	_, err := db.Exec(`UPDATE cases SET synopsis = ? WHERE release_number = ?`, synopsis, releaseNumber)
	return err
}

// UpsertGroundTruth stores the extracted ground truth for a case, replacing
// any previous extraction.
func UpsertGroundTruth(db *sql.DB, releaseNumber string, gt extract.GroundTruth) error {
	_, err := db.Exec(
		`INSERT INTO ground_truth (release_number, resolution_type, disgorgement_amount, penalty_amount, prejudgment_interest,
		                           has_injunction, has_officer_director_bar, has_conduct_restriction)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(release_number) DO UPDATE SET
		   resolution_type = excluded.resolution_type,
		   disgorgement_amount = excluded.disgorgement_amount,
		   penalty_amount = excluded.penalty_amount,
		   prejudgment_interest = excluded.prejudgment_interest,
		   has_injunction = excluded.has_injunction,
		   has_officer_director_bar = excluded.has_officer_director_bar,
		   has_conduct_restriction = excluded.has_conduct_restriction,
		   extracted_at = CURRENT_TIMESTAMP`,
		releaseNumber, gt.ResolutionType, gt.DisgorgementAmount, gt.PenaltyAmount, gt.PrejudgmentInterest,
		gt.HasInjunction, gt.HasOfficerDirectorBar, gt.HasConductRestriction,
	)
	return err
}

func GetGroundTruth(db *sql.DB, releaseNumber string) (extract.GroundTruth, error) {
	var gt extract.GroundTruth
	err := db.QueryRow(
		`SELECT resolution_type, disgorgement_amount, penalty_amount, prejudgment_interest,
		        has_injunction, has_officer_director_bar, has_conduct_restriction
		 FROM ground_truth WHERE release_number = ?`, releaseNumber,
	).Scan(&gt.ResolutionType, &gt.DisgorgementAmount, &gt.PenaltyAmount, &gt.PrejudgmentInterest,
		&gt.HasInjunction, &gt.HasOfficerDirectorBar, &gt.HasConductRestriction)
	return gt, err
}

// PredictionRecord is one stored model prediction for a case, with its
// comparison when the call succeeded.
type PredictionRecord struct {
	ID            int64
	ModelName     string
	ReleaseNumber string
	Success       bool
	Error         string
	RawResponse   string
	Predicted     map[string]any
	Comparison    *score.ComparisonResult
	CreatedAt     time.Time
}

func InsertPrediction(db *sql.DB, rec PredictionRecord) error {
	predictedJSON, err := json.Marshal(rec.Predicted)
	if err != nil {
		return err
	}
	comparisonJSON := ""
	if rec.Comparison != nil {
		b, err := json.Marshal(rec.Comparison)
		if err != nil {
			return err
		}
		comparisonJSON = string(b)
	}
	_, err = db.Exec(
		`INSERT INTO predictions (model_name, release_number, success, error, raw_response, predicted_json, comparison_json)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		rec.ModelName, rec.ReleaseNumber, rec.Success, rec.Error, rec.RawResponse,
		string(predictedJSON), comparisonJSON,
	)
	return err
}

// GetComparisons returns the stored comparisons for a model, one per scored
// case, for re-aggregation.
func GetComparisons(db *sql.DB, modelName string) ([]score.ComparisonResult, error) {
	rows, err := db.Query(
		`SELECT comparison_json FROM predictions
		 WHERE model_name = ? AND success = 1 AND comparison_json != ''
		 ORDER BY release_number`, modelName,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var comparisons []score.ComparisonResult
	for rows.Next() {
		var raw string
		if err := rows.Scan(&raw); err != nil {
			return nil, err
		}
		var cr score.ComparisonResult
		if err := json.Unmarshal([]byte(raw), &cr); err != nil {
			return nil, err
		}
		comparisons = append(comparisons, cr)
	}
	return comparisons, rows.Err()
}

// RunRecord is one completed evaluation run.
type RunRecord struct {
	ID              int64
	ModelName       string
	ModelConfig     map[string]any
	Score           score.ModelScore
	ScoreJSON       string
	OverallScore    float64
	TotalCases      int
	DurationSeconds float64
	CreatedAt       time.Time
}

func InsertRun(db *sql.DB, modelName string, modelConfig map[string]any, s score.ModelScore, duration time.Duration) error {
	configJSON, err := json.Marshal(modelConfig)
	if err != nil {
		return err
	}
	scoreJSON, err := json.Marshal(s)
	if err != nil {
		return err
	}
	_, err = db.Exec(
		`INSERT INTO evaluation_runs (model_name, model_config, score_json, overall_score, total_cases, duration_seconds)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		modelName, string(configJSON), string(scoreJSON), s.OverallScore, s.TotalCases, duration.Seconds(),
	)
	return err
}

// LatestRuns returns the most recent run per model, best overall score first.
func LatestRuns(db *sql.DB) ([]RunRecord, error) {
	rows, err := db.Query(
		`SELECT r.id, r.model_name, r.score_json, r.overall_score, r.total_cases, r.duration_seconds, r.created_at
		 FROM evaluation_runs r
		 JOIN (SELECT model_name, MAX(id) AS max_id FROM evaluation_runs GROUP BY model_name) latest
		   ON r.id = latest.max_id
		 ORDER BY r.overall_score DESC, r.model_name`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []RunRecord
	for rows.Next() {
		var rec RunRecord
		err := rows.Scan(&rec.ID, &rec.ModelName, &rec.ScoreJSON, &rec.OverallScore,
			&rec.TotalCases, &rec.DurationSeconds, &rec.CreatedAt)
		if err != nil {
			return nil, err
		}
		runs = append(runs, rec)
	}
	return runs, rows.Err()
}
