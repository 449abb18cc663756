package extract

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func fptr(v float64) *float64 { return &v }

func TestResolutionType(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{"settled action", "The SEC filed a settled action against the defendant.", ResolutionSettled},
		{"consent and judgment", "Defendant consented to the entry of a judgment.", ResolutionSettled},
		{"final judgment", "The court entered a final judgment against the company.", ResolutionLitigated},
		{"jury verdict", "A jury returned a verdict in favor of the Commission.", ResolutionLitigated},
		{"dismissal", "The court granted the motion to dismiss.", ResolutionLitigated},
		{"no resolution language", "The SEC charged the defendant with fraud.", ResolutionOngoing},
		{"empty text", "", ResolutionOngoing},
		// Settled indicators win even when litigated language is also present.
		{"consent judgment with final judgment", "Defendant consented to a final judgment.", ResolutionSettled},
		{"case insensitive", "THE SEC FILED A SETTLED ACTION.", ResolutionSettled},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ResolutionType(tt.text); got != tt.want {
				t.Fatalf("ResolutionType(%q) = %q, want %q", tt.text, got, tt.want)
			}
		})
	}
}

func TestAmountAfterKeyword(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		keywords []string
		want     *float64
	}{
		{
			"plain amount",
			"ordered disgorgement of $150,000 plus interest",
			disgorgementKeywords,
			fptr(150000),
		},
		{
			"millions scale",
			"disgorgement of approximately $1.5 million",
			disgorgementKeywords,
			fptr(1.5e6),
		},
		{
			"billions scale",
			"disgorgement of more than $2.5 billion in ill-gotten gains",
			disgorgementKeywords,
			fptr(2.5e9),
		},
		{
			"billion beats plain match on same digits",
			"a civil penalty of $3 billion",
			penaltyKeywords,
			fptr(3e9),
		},
		{
			"comma stripping",
			"prejudgment interest of $1,234,567.89",
			interestKeywords,
			fptr(1234567.89),
		},
		{
			"no keyword",
			"the defendant paid $500,000",
			disgorgementKeywords,
			nil,
		},
		{
			"keyword without nearby amount",
			"the court ordered disgorgement in an amount to be determined",
			disgorgementKeywords,
			nil,
		},
		{
			"second occurrence carries the amount",
			"disgorgement was ordered. The disgorgement of $75,000 was paid.",
			disgorgementKeywords,
			fptr(75000),
		},
		{
			"empty text",
			"",
			disgorgementKeywords,
			nil,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := AmountAfterKeyword(tt.text, tt.keywords)
			if (got == nil) != (tt.want == nil) {
				t.Fatalf("AmountAfterKeyword() = %v, want %v", got, tt.want)
			}
			if got != nil && *got != *tt.want {
				t.Fatalf("AmountAfterKeyword() = %v, want %v", *got, *tt.want)
			}
		})
	}
}

func TestAmountWindowLimit(t *testing.T) {
	// Amount sits past the 200-char window and must not be picked up.
	padding := make([]byte, 250)
	for i := range padding {
		padding[i] = 'x'
	}
	text := "disgorgement " + string(padding) + " $100,000"
	if got := DisgorgementAmount(text); got != nil {
		t.Fatalf("amount outside window should be nil, got %v", *got)
	}
}

func TestHasInjunction(t *testing.T) {
	tests := []struct {
		text string
		want bool
	}{
		{"the court issued a permanent injunction", true},
		{"seeking injunctive relief and penalties", true},
		{"permanently enjoined from future violations", true},
		{"defendant was permanently restrained", true},
		{"the SEC charged the defendant with fraud", false},
		{"", false},
	}
	for _, tt := range tests {
		if got := HasInjunction(tt.text); got != tt.want {
			t.Fatalf("HasInjunction(%q) = %v, want %v", tt.text, got, tt.want)
		}
	}
}

func TestHasOfficerDirectorBar(t *testing.T) {
	tests := []struct {
		text string
		want bool
	}{
		{"barred from serving as an officer or director of a public company", true},
		{"the judgment imposes an officer and director bar", true},
		{"a five-year o&d bar", true},
		// All three of officer, director, and bar anywhere in the text.
		{"the officer and a director face a bar from the industry", true},
		{"the officer resigned", false},
		{"", false},
	}
	for _, tt := range tests {
		if got := HasOfficerDirectorBar(tt.text); got != tt.want {
			t.Fatalf("HasOfficerDirectorBar(%q) = %v, want %v", tt.text, got, tt.want)
		}
	}
}

func TestHasConductRestriction(t *testing.T) {
	tests := []struct {
		text string
		want bool
	}{
		{"subject to a penny stock bar", true},
		{"barred from the securities industry", true},
		{"barred from associating with any broker or dealer", true},
		{"prohibited from participating in any offering", true},
		{"the order prohibits any trading in the security", true},
		{"the judgment restricts his trading activity", true},
		{"trading in any brokerage account he controls", true},
		{"the defendant settled the charges", false},
		{"", false},
	}
	for _, tt := range tests {
		if got := HasConductRestriction(tt.text); got != tt.want {
			t.Fatalf("HasConductRestriction(%q) = %v, want %v", tt.text, got, tt.want)
		}
	}
}

const sampleRelease = `The Securities and Exchange Commission announced a settled action
against Acme Corp. Without admitting or denying the allegations, Acme consented to
the entry of a judgment requiring disgorgement of $1.2 million, a civil penalty of
$500,000, and prejudgment interest of $150,000. The judgment also imposes a permanent
injunction and bars the CEO from serving as an officer or director of any public company.`

func TestExtractEndToEnd(t *testing.T) {
	got := Extract(sampleRelease)
	want := GroundTruth{
		ResolutionType:        ResolutionSettled,
		DisgorgementAmount:    fptr(1.2e6),
		PenaltyAmount:         fptr(500000),
		PrejudgmentInterest:   fptr(150000),
		HasInjunction:         true,
		HasOfficerDirectorBar: true,
		HasConductRestriction: false,
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("Extract() mismatch (-want +got):\n%s", diff)
	}
}

func TestExtractSettledWithRemedies(t *testing.T) {
	text := `The Commission filed settled action charges. The final judgment orders
disgorgement of $373,885, a civil penalty of $112,165, a permanent injunction,
and the defendant is barred from serving as an officer or director.`

	got := Extract(text)
	if got.ResolutionType != ResolutionSettled {
		t.Fatalf("resolution = %q, want settled", got.ResolutionType)
	}
	if got.DisgorgementAmount == nil || *got.DisgorgementAmount != 373885 {
		t.Fatalf("disgorgement = %v, want 373885", got.DisgorgementAmount)
	}
	if got.PenaltyAmount == nil || *got.PenaltyAmount != 112165 {
		t.Fatalf("penalty = %v, want 112165", got.PenaltyAmount)
	}
	if !got.HasInjunction || !got.HasOfficerDirectorBar {
		t.Fatalf("flags = %v/%v, want true/true", got.HasInjunction, got.HasOfficerDirectorBar)
	}
}

func TestExtractDeterministic(t *testing.T) {
	first := Extract(sampleRelease)
	second := Extract(sampleRelease)
	if diff := cmp.Diff(first, second); diff != "" {
		t.Fatalf("Extract() not deterministic (-first +second):\n%s", diff)
	}
}

func TestExtractEmptyText(t *testing.T) {
	got := Extract("")
	if got.ResolutionType != ResolutionOngoing {
		t.Fatalf("empty text resolution = %q, want %q", got.ResolutionType, ResolutionOngoing)
	}
	if got.DisgorgementAmount != nil || got.PenaltyAmount != nil || got.PrejudgmentInterest != nil {
		t.Fatalf("empty text should extract no amounts: %+v", got)
	}
	if got.HasInjunction || got.HasOfficerDirectorBar || got.HasConductRestriction {
		t.Fatalf("empty text should set no flags: %+v", got)
	}
}

func TestFieldsNilMonetary(t *testing.T) {
	gt := GroundTruth{ResolutionType: ResolutionOngoing}
	fields := gt.Fields()
	for _, key := range []string{"disgorgement_amount", "penalty_amount", "prejudgment_interest"} {
		v, ok := fields[key]
		if !ok {
			t.Fatalf("Fields() missing key %q", key)
		}
		if v != nil {
			t.Fatalf("Fields()[%q] = %v, want nil", key, v)
		}
	}
}
