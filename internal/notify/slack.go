// Package notify posts run summaries to Slack.
package notify

import (
	"fmt"
	"log"

	"github.com/slack-go/slack"

	"secpredict/internal/score"
)

// Notifier posts messages to a Slack channel. A nil Notifier is valid and
// drops every message, so callers never branch on configuration.
type Notifier struct {
	client    *slack.Client
	channelID string
}

func New(botToken, channelID string) *Notifier {
	if botToken == "" || channelID == "" {
		return nil
	}
	return &Notifier{
		client:    slack.New(botToken),
		channelID: channelID,
	}
}

func (n *Notifier) post(text string) {
	if n == nil {
		return
	}
	_, _, err := n.client.PostMessage(n.channelID, slack.MsgOptionText(text, false))
	if err != nil {
		log.Printf("notify slack post failed: %v", err)
	}
}

// PostFetchSummary announces a feed import.
func (n *Notifier) PostFetchSummary(summary string) {
	n.post(summary)
}

// PostRunSummary announces a completed evaluation run.
func (n *Notifier) PostRunSummary(s score.ModelScore, durationSeconds float64) {
	text := fmt.Sprintf(
		"Evaluation complete: *%s*\nOverall score: %.2f%% across %d cases\nResolution %.1f%% | Monetary %.1f%% | Injunction %.1f%% | O&D bar %.1f%% | Conduct %.1f%%\nDuration: %.0fs",
		s.ModelName, s.OverallScore, s.TotalCases,
		s.ResolutionTypeAccuracy, s.MonetaryAccuracy, s.InjunctionAccuracy,
		s.OfficerBarAccuracy, s.ConductRestrictionAccuracy, durationSeconds)
	n.post(text)
}
