// Package api exposes stored cases and evaluation results over HTTP.
package api

import (
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"secpredict/internal/domain"
	"secpredict/internal/storage/sqlite"
)

const (
	defaultPageSize = 50
	maxPageSize     = 1000
)

// Server serves the read-only REST API over the case database.
type Server struct {
	db      *sql.DB
	started time.Time
}

func NewServer(db *sql.DB) *Server {
	return &Server{db: db, started: time.Now()}
}

// Router builds the gin engine with all routes registered.
func (s *Server) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	api := r.Group("/api")
	api.GET("/health", s.handleHealth)
	api.GET("/metadata", s.handleMetadata)
	api.GET("/cases", s.handleListCases)
	api.GET("/cases/search", s.handleSearchCases)
	api.GET("/cases/:release", s.handleGetCase)
	api.GET("/leaderboard", s.handleLeaderboard)

	return r
}

// Run serves on addr until the listener fails.
func (s *Server) Run(addr string) error {
	return s.Router().Run(addr)
}

func (s *Server) handleHealth(c *gin.Context) {
	if err := s.db.Ping(); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unhealthy", "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"status":         "ok",
		"uptime_seconds": int(time.Since(s.started).Seconds()),
	})
}

func (s *Server) handleMetadata(c *gin.Context) {
	var totalCases, withComplaint, groundTruths, runs int
	var minDate, maxDate sql.NullString

	if err := s.db.QueryRow(`SELECT COUNT(*) FROM cases`).Scan(&totalCases); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	_ = s.db.QueryRow(`SELECT MIN(release_date), MAX(release_date) FROM cases WHERE release_date != ''`).Scan(&minDate, &maxDate)
	_ = s.db.QueryRow(`SELECT COUNT(*) FROM cases WHERE complaint_text != ''`).Scan(&withComplaint)
	_ = s.db.QueryRow(`SELECT COUNT(*) FROM ground_truth`).Scan(&groundTruths)
	_ = s.db.QueryRow(`SELECT COUNT(*) FROM evaluation_runs`).Scan(&runs)

	c.JSON(http.StatusOK, gin.H{
		"total_cases":          totalCases,
		"cases_with_complaint": withComplaint,
		"ground_truth_count":   groundTruths,
		"evaluation_runs":      runs,
		"earliest_release":     minDate.String,
		"latest_release":       maxDate.String,
	})
}

type caseSummary struct {
	ReleaseNumber string `json:"release_number"`
	ReleaseDate   string `json:"release_date"`
	Title         string `json:"title"`
	Court         string `json:"court,omitempty"`
	CaseURL       string `json:"case_url,omitempty"`
	Synopsis      string `json:"synopsis,omitempty"`
	HasComplaint  bool   `json:"has_complaint"`
}

func summarize(c domain.Case) caseSummary {
	return caseSummary{
		ReleaseNumber: c.ReleaseNumber,
		ReleaseDate:   c.ReleaseDate,
		Title:         c.Title,
		Court:         c.Court,
		CaseURL:       c.CaseURL,
		Synopsis:      c.Synopsis,
		HasComplaint:  c.HasComplaint(),
	}
}

func pagination(c *gin.Context) (limit, offset int, err error) {
	limit = defaultPageSize
	if raw := c.Query("limit"); raw != "" {
		limit, err = strconv.Atoi(raw)
		if err != nil || limit < 1 {
			return 0, 0, errors.New("limit must be a positive integer")
		}
		if limit > maxPageSize {
			limit = maxPageSize
		}
	}
	if raw := c.Query("offset"); raw != "" {
		offset, err = strconv.Atoi(raw)
		if err != nil || offset < 0 {
			return 0, 0, errors.New("offset must be a non-negative integer")
		}
	}
	return limit, offset, nil
}

func (s *Server) handleListCases(c *gin.Context) {
	limit, offset, err := pagination(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	where := []string{"1=1"}
	args := []any{}
	if from := c.Query("from"); from != "" {
		where = append(where, "release_date >= ?")
		args = append(args, from)
	}
	if to := c.Query("to"); to != "" {
		where = append(where, "release_date <= ?")
		args = append(args, to)
	}

	clause := strings.Join(where, " AND ")
	var total int
	if err := s.db.QueryRow("SELECT COUNT(*) FROM cases WHERE "+clause, args...).Scan(&total); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	query := `SELECT release_number, release_date, title, court, case_url, complaint_url, full_text, complaint_text, synopsis, created_at
	          FROM cases WHERE ` + clause + ` ORDER BY release_date DESC, release_number DESC LIMIT ? OFFSET ?`
	args = append(args, limit, offset)
	cases, err := s.queryCases(query, args...)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	summaries := make([]caseSummary, 0, len(cases))
	for _, dc := range cases {
		summaries = append(summaries, summarize(dc))
	}
	c.JSON(http.StatusOK, gin.H{
		"total":  total,
		"limit":  limit,
		"offset": offset,
		"cases":  summaries,
	})
}

func (s *Server) handleSearchCases(c *gin.Context) {
	limit, offset, err := pagination(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	where := []string{"1=1"}
	args := []any{}
	if q := c.Query("q"); q != "" {
		where = append(where, "(title LIKE ? OR full_text LIKE ?)")
		pattern := "%" + q + "%"
		args = append(args, pattern, pattern)
	}
	if title := c.Query("title"); title != "" {
		where = append(where, "title LIKE ?")
		args = append(args, "%"+title+"%")
	}
	if court := c.Query("court"); court != "" {
		where = append(where, "court LIKE ?")
		args = append(args, "%"+court+"%")
	}
	if hc := c.Query("has_complaint"); hc != "" {
		switch strings.ToLower(hc) {
		case "true", "1", "yes":
			where = append(where, "complaint_text != ''")
		case "false", "0", "no":
			where = append(where, "complaint_text = ''")
		default:
			c.JSON(http.StatusBadRequest, gin.H{"error": "has_complaint must be true or false"})
			return
		}
	}
	if len(where) == 1 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "at least one search parameter required"})
		return
	}

	clause := strings.Join(where, " AND ")
	query := `SELECT release_number, release_date, title, court, case_url, complaint_url, full_text, complaint_text, synopsis, created_at
	          FROM cases WHERE ` + clause + ` ORDER BY release_date DESC, release_number DESC LIMIT ? OFFSET ?`
	args = append(args, limit, offset)
	cases, err := s.queryCases(query, args...)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	summaries := make([]caseSummary, 0, len(cases))
	for _, dc := range cases {
		summaries = append(summaries, summarize(dc))
	}
	c.JSON(http.StatusOK, gin.H{
		"count": len(summaries),
		"cases": summaries,
	})
}

// normalizeRelease accepts "26301", "LR-26301", or "lr-26301".
func normalizeRelease(raw string) string {
	raw = strings.TrimSpace(raw)
	upper := strings.ToUpper(raw)
	if strings.HasPrefix(upper, "LR-") {
		return upper
	}
	return "LR-" + upper
}

func (s *Server) handleGetCase(c *gin.Context) {
	release := normalizeRelease(c.Param("release"))
	dc, err := sqlite.GetCase(s.db, release)
	if errors.Is(err, sql.ErrNoRows) {
		c.JSON(http.StatusNotFound, gin.H{"error": "case not found", "release_number": release})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	payload := gin.H{
		"release_number": dc.ReleaseNumber,
		"release_date":   dc.ReleaseDate,
		"title":          dc.Title,
		"court":          dc.Court,
		"case_url":       dc.CaseURL,
		"complaint_url":  dc.ComplaintURL,
		"synopsis":       dc.Synopsis,
		"has_complaint":  dc.HasComplaint(),
		"full_text":      dc.FullText,
	}
	if gt, err := sqlite.GetGroundTruth(s.db, release); err == nil {
		payload["ground_truth"] = gt
	}
	c.JSON(http.StatusOK, payload)
}

func (s *Server) handleLeaderboard(c *gin.Context) {
	runs, err := sqlite.LatestRuns(s.db)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	entries := make([]gin.H, 0, len(runs))
	for i, run := range runs {
		var scoreDetail json.RawMessage
		if json.Valid([]byte(run.ScoreJSON)) {
			scoreDetail = json.RawMessage(run.ScoreJSON)
		}
		entries = append(entries, gin.H{
			"rank":          i + 1,
			"model_name":    run.ModelName,
			"overall_score": run.OverallScore,
			"total_cases":   run.TotalCases,
			"evaluated_at":  run.CreatedAt,
			"score":         scoreDetail,
		})
	}
	c.JSON(http.StatusOK, gin.H{"leaderboard": entries})
}

func (s *Server) queryCases(query string, args ...any) ([]domain.Case, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var cases []domain.Case
	for rows.Next() {
		var dc domain.Case
		err := rows.Scan(&dc.ReleaseNumber, &dc.ReleaseDate, &dc.Title, &dc.Court, &dc.CaseURL,
			&dc.ComplaintURL, &dc.FullText, &dc.ComplaintText, &dc.Synopsis, &dc.CreatedAt)
		if err != nil {
			return nil, err
		}
		cases = append(cases, dc)
	}
	return cases, rows.Err()
}
