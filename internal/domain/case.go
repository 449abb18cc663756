package domain

import "time"

// Case is one SEC litigation release as stored locally. FullText is the
// release narrative used for ground-truth extraction and is never shown to a
// model; ComplaintText is the complaint body the model predicts from.
type Case struct {
	ReleaseNumber string // e.g. "LR-26445"
	ReleaseDate   string // YYYY-MM-DD
	Title         string
	Court         string
	CaseURL       string
	ComplaintURL  string
	FullText      string
	ComplaintText string
	Synopsis      string
	CreatedAt     time.Time
}

// HasComplaint reports whether the complaint body was retrieved for the case.
func (c Case) HasComplaint() bool {
	return c.ComplaintText != ""
}
