// Package fetch pulls litigation releases from the SEC feed and imports
// them into storage.
package fetch

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"golang.org/x/time/rate"

	"secpredict/internal/domain"
	"secpredict/internal/extract"
	"secpredict/internal/storage/sqlite"
)

// SEC blocks clients without a descriptive User-Agent.
const userAgent = "secpredict/1.0 (research; admin@secpredict.local)"

type feedDocument struct {
	Type string `json:"type"`
	URL  string `json:"url"`
}

type feedCase struct {
	ReleaseNumber string `json:"releaseNumber"`
	ReleaseDate   string `json:"releaseDate"`
	Title         string `json:"title"`
	URL           string `json:"url"`
	Features      struct {
		FullText string `json:"fullText"`
		Court    string `json:"court"`
	} `json:"features"`
	SupportingDocuments []feedDocument `json:"supportingDocuments"`
}

type feed struct {
	Cases []feedCase `json:"cases"`
}

// FetchResult counts the outcome of one import pass.
type FetchResult struct {
	Fetched  int
	Imported int
	Skipped  int
	Failed   int
	Errors   []string
}

// Client fetches the SEC litigation release feed.
type Client struct {
	httpClient *http.Client
	limiter    *rate.Limiter
	feedURL    string
	retryCount int
	retryDelay time.Duration
}

func NewClient(feedURL string, requestsPerSecond float64, retryCount int, retryDelay time.Duration) *Client {
	if requestsPerSecond <= 0 {
		requestsPerSecond = 2.0
	}
	if retryCount <= 0 {
		retryCount = 3
	}
	if retryDelay <= 0 {
		retryDelay = time.Second
	}
	return &Client{
		httpClient: &http.Client{Timeout: 60 * time.Second},
		limiter:    rate.NewLimiter(rate.Limit(requestsPerSecond), 1),
		feedURL:    feedURL,
		retryCount: retryCount,
		retryDelay: retryDelay,
	}
}

func (c *Client) get(ctx context.Context, url string) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	policy := backoff.WithContext(backoff.WithMaxRetries(
		backoff.NewConstantBackOff(c.retryDelay), uint64(c.retryCount-1)), ctx)

	var body []byte
	err := backoff.Retry(func() error {
		req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
		if err != nil {
			return backoff.Permanent(err)
		}
		req.Header.Set("User-Agent", userAgent)
		req.Header.Set("Accept", "application/json")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			err := fmt.Errorf("GET %s: status %d", url, resp.StatusCode)
			if resp.StatusCode >= 400 && resp.StatusCode < 500 && resp.StatusCode != http.StatusTooManyRequests {
				return backoff.Permanent(err)
			}
			return err
		}
		body, err = io.ReadAll(resp.Body)
		return err
	}, policy)
	if err != nil {
		return nil, err
	}
	return body, nil
}

// FetchFeed downloads and parses the litigation release feed.
func (c *Client) FetchFeed(ctx context.Context) ([]feedCase, error) {
	body, err := c.get(ctx, c.feedURL)
	if err != nil {
		return nil, fmt.Errorf("fetching feed: %w", err)
	}
	var f feed
	if err := json.Unmarshal(body, &f); err != nil {
		return nil, fmt.Errorf("parsing feed: %w", err)
	}
	return f.Cases, nil
}

// FetchAndImport downloads the feed, imports cases not yet stored, and
// extracts ground truth from each new release text.
func (c *Client) FetchAndImport(ctx context.Context, db *sql.DB) (*FetchResult, error) {
	cases, err := c.FetchFeed(ctx)
	if err != nil {
		return nil, err
	}

	result := &FetchResult{Fetched: len(cases)}
	for _, fc := range cases {
		if fc.ReleaseNumber == "" {
			result.Failed++
			result.Errors = append(result.Errors, "case without release number")
			continue
		}
		exists, err := sqlite.CaseExists(db, fc.ReleaseNumber)
		if err != nil {
			result.Failed++
			result.Errors = append(result.Errors, fmt.Sprintf("%s: %v", fc.ReleaseNumber, err))
			continue
		}
		if exists {
			result.Skipped++
			continue
		}

		dc := domain.Case{
			ReleaseNumber: fc.ReleaseNumber,
			ReleaseDate:   fc.ReleaseDate,
			Title:         fc.Title,
			Court:         fc.Features.Court,
			CaseURL:       fc.URL,
			FullText:      fc.Features.FullText,
		}
		for _, doc := range fc.SupportingDocuments {
			if strings.EqualFold(doc.Type, "complaint") {
				dc.ComplaintURL = doc.URL
				break
			}
		}
		if dc.ComplaintURL != "" {
			text, err := c.fetchComplaintText(ctx, dc.ComplaintURL)
			if err != nil {
				log.Printf("fetch complaint release=%s failed: %v", fc.ReleaseNumber, err)
			} else {
				dc.ComplaintText = text
			}
		}

		if err := sqlite.InsertCase(db, dc); err != nil {
			result.Failed++
			result.Errors = append(result.Errors, fmt.Sprintf("%s: %v", fc.ReleaseNumber, err))
			continue
		}
		gt := extract.Extract(dc.FullText)
		if err := sqlite.UpsertGroundTruth(db, fc.ReleaseNumber, gt); err != nil {
			result.Failed++
			result.Errors = append(result.Errors, fmt.Sprintf("%s ground truth: %v", fc.ReleaseNumber, err))
			continue
		}
		result.Imported++
	}

	log.Printf("fetch done fetched=%d imported=%d skipped=%d failed=%d",
		result.Fetched, result.Imported, result.Skipped, result.Failed)
	return result, nil
}

func (c *Client) fetchComplaintText(ctx context.Context, url string) (string, error) {
	body, err := c.get(ctx, url)
	if err != nil {
		return "", err
	}
	return string(body), nil
}

// FormatFetchSummary renders a fetch result for logs and notifications.
func FormatFetchSummary(r *FetchResult) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "SEC fetch: %d release(s) in feed, %d imported, %d already stored",
		r.Fetched, r.Imported, r.Skipped)
	if r.Failed > 0 {
		fmt.Fprintf(&sb, ", %d failed", r.Failed)
		for i, e := range r.Errors {
			if i >= 5 {
				fmt.Fprintf(&sb, "\n  ... and %d more", len(r.Errors)-i)
				break
			}
			fmt.Fprintf(&sb, "\n  - %s", e)
		}
	}
	return sb.String()
}
