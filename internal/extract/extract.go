// Package extract derives structured outcome records from SEC litigation
// release text using deterministic keyword heuristics. The output is used as
// ground truth for model evaluation and is never shown to a model.
package extract

import (
	"regexp"
	"strconv"
	"strings"
)

// Resolution type values.
const (
	ResolutionSettled   = "settled"
	ResolutionLitigated = "litigated"
	ResolutionOngoing   = "ongoing"
)

// GroundTruth is the extracted outcome for one case. Monetary fields are nil
// when no amount was found; boolean flags default to false on no evidence.
type GroundTruth struct {
	ResolutionType        string   `json:"resolution_type"`
	DisgorgementAmount    *float64 `json:"disgorgement_amount"`
	PenaltyAmount         *float64 `json:"penalty_amount"`
	PrejudgmentInterest   *float64 `json:"prejudgment_interest"`
	HasInjunction         bool     `json:"has_injunction"`
	HasOfficerDirectorBar bool     `json:"has_officer_director_bar"`
	HasConductRestriction bool     `json:"has_conduct_restriction"`
}

// Fields returns the ground truth as a generic mapping with the wire key
// names, suitable for the score calculator. Nil monetary amounts map to nil.
func (g GroundTruth) Fields() map[string]any {
	m := map[string]any{
		"resolution_type":          g.ResolutionType,
		"has_injunction":           g.HasInjunction,
		"has_officer_director_bar": g.HasOfficerDirectorBar,
		"has_conduct_restriction":  g.HasConductRestriction,
	}
	put := func(key string, v *float64) {
		if v != nil {
			m[key] = *v
		} else {
			m[key] = nil
		}
	}
	put("disgorgement_amount", g.DisgorgementAmount)
	put("penalty_amount", g.PenaltyAmount)
	put("prejudgment_interest", g.PrejudgmentInterest)
	return m
}

// resolutionRules is an ordered decision list: the first matching rule wins,
// so settled indicators are always checked before litigated ones.
var resolutionRules = []struct {
	result string
	match  func(lower string) bool
}{
	{ResolutionSettled, func(t string) bool {
		return strings.Contains(t, "settled action") || strings.Contains(t, "filed settled action")
	}},
	{ResolutionSettled, func(t string) bool {
		return strings.Contains(t, "consent") && strings.Contains(t, "judgment")
	}},
	{ResolutionLitigated, func(t string) bool {
		return strings.Contains(t, "final judgment")
	}},
	{ResolutionLitigated, func(t string) bool {
		return strings.Contains(t, "jury") && strings.Contains(t, "verdict")
	}},
	{ResolutionLitigated, func(t string) bool {
		return strings.Contains(t, "dismiss")
	}},
}

// ResolutionType classifies the case outcome as settled, litigated, or
// ongoing. Empty text is ongoing.
func ResolutionType(text string) string {
	if text == "" {
		return ResolutionOngoing
	}
	lower := strings.ToLower(text)
	for _, rule := range resolutionRules {
		if rule.match(lower) {
			return rule.result
		}
	}
	return ResolutionOngoing
}

// Keyword lists for the monetary fields, checked in order.
var (
	disgorgementKeywords = []string{"disgorgement of", "disgorgement totaling", "disgorge", "disgorgement"}
	penaltyKeywords      = []string{
		"civil penalty of", "civil penalties of", "civil penalty totaling",
		"penalty of", "penalties of", "civil monetary penalty",
	}
	interestKeywords = []string{
		"prejudgment interest of", "prejudgment interest totaling",
		"pre-judgment interest of", "prejudgment interest",
	}
)

// Amount patterns, tried in priority order so "$1.5 billion" never parses as
// a bare "$1.5".
var (
	moneyBillions = regexp.MustCompile(`(?i)\$\s*([\d,]+(?:\.\d+)?)\s*billion`)
	moneyMillions = regexp.MustCompile(`(?i)\$\s*([\d,]+(?:\.\d+)?)\s*million`)
	moneyPlain    = regexp.MustCompile(`\$\s*([\d,]+(?:\.\d+)?)`)
)

const amountWindow = 200

// AmountAfterKeyword scans the text for each keyword in order and returns the
// first dollar amount found within the 200 characters following a keyword
// occurrence, or nil if none exists anywhere.
func AmountAfterKeyword(text string, keywords []string) *float64 {
	if text == "" {
		return nil
	}
	lower := strings.ToLower(text)
	for _, keyword := range keywords {
		pos := 0
		for {
			idx := strings.Index(lower[pos:], keyword)
			if idx < 0 {
				break
			}
			start := pos + idx
			end := start + amountWindow
			if end > len(text) {
				end = len(text)
			}
			window := text[start:end]

			if m := moneyBillions.FindStringSubmatch(window); m != nil {
				return parseAmount(m[1], 1e9)
			}
			if m := moneyMillions.FindStringSubmatch(window); m != nil {
				return parseAmount(m[1], 1e6)
			}
			if m := moneyPlain.FindStringSubmatch(window); m != nil {
				return parseAmount(m[1], 1)
			}
			pos = start + len(keyword)
		}
	}
	return nil
}

func parseAmount(s string, scale float64) *float64 {
	v, err := strconv.ParseFloat(strings.ReplaceAll(s, ",", ""), 64)
	if err != nil {
		return nil
	}
	v *= scale
	return &v
}

// DisgorgementAmount extracts the ordered disgorgement, if stated.
func DisgorgementAmount(text string) *float64 {
	return AmountAfterKeyword(text, disgorgementKeywords)
}

// PenaltyAmount extracts the civil penalty, if stated.
func PenaltyAmount(text string) *float64 {
	return AmountAfterKeyword(text, penaltyKeywords)
}

// PrejudgmentInterest extracts the prejudgment interest, if stated.
func PrejudgmentInterest(text string) *float64 {
	return AmountAfterKeyword(text, interestKeywords)
}

// HasInjunction reports whether the case includes injunctive relief.
func HasInjunction(text string) bool {
	if text == "" {
		return false
	}
	t := strings.ToLower(text)
	return strings.Contains(t, "injunction") ||
		strings.Contains(t, "injunctive relief") ||
		strings.Contains(t, "enjoin") ||
		strings.Contains(t, "permanently restrained") ||
		strings.Contains(t, "permanent restraining")
}

// HasOfficerDirectorBar reports whether the case includes an officer or
// director bar.
func HasOfficerDirectorBar(text string) bool {
	if text == "" {
		return false
	}
	t := strings.ToLower(text)
	return (strings.Contains(t, "officer") && strings.Contains(t, "director") && strings.Contains(t, "bar")) ||
		strings.Contains(t, "barred from serving as an officer") ||
		strings.Contains(t, "barred from serving as a director") ||
		strings.Contains(t, "officer and director bar") ||
		strings.Contains(t, "o&d bar")
}

// HasConductRestriction reports whether the case includes conduct-based
// restrictions such as trading restrictions or industry bars. The paired
// substring checks are intentionally kept as written: the evaluation corpus
// was produced by exactly this rule.
func HasConductRestriction(text string) bool {
	if text == "" {
		return false
	}
	t := strings.ToLower(text)
	return strings.Contains(t, "conduct-based injunction") ||
		strings.Contains(t, "trading restriction") ||
		strings.Contains(t, "penny stock bar") ||
		strings.Contains(t, "industry bar") ||
		strings.Contains(t, "barred from the securities industry") ||
		strings.Contains(t, "barred from associating") ||
		strings.Contains(t, "prohibited from participating") ||
		(strings.Contains(t, "prohibit") && strings.Contains(t, "trading")) ||
		(strings.Contains(t, "prohibited from") && strings.Contains(t, "trading")) ||
		(strings.Contains(t, "restrict") && strings.Contains(t, "trading")) ||
		strings.Contains(t, "trading in any brokerage account")
}

// Extract derives the full ground-truth record from case text. It is a pure
// function: the same text always yields the same record, and it never fails.
func Extract(text string) GroundTruth {
	return GroundTruth{
		ResolutionType:        ResolutionType(text),
		DisgorgementAmount:    DisgorgementAmount(text),
		PenaltyAmount:         PenaltyAmount(text),
		PrejudgmentInterest:   PrejudgmentInterest(text),
		HasInjunction:         HasInjunction(text),
		HasOfficerDirectorBar: HasOfficerDirectorBar(text),
		HasConductRestriction: HasConductRestriction(text),
	}
}
