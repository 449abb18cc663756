package llm

import (
	"strings"
	"testing"
)

func TestFormatPrompt(t *testing.T) {
	complaint := "The SEC alleges that the defendant misappropriated investor funds."

	long := FormatPrompt(complaint, false, 0)
	if !strings.Contains(long, complaint) {
		t.Fatal("long prompt missing complaint text")
	}
	if !strings.Contains(long, "```json") {
		t.Fatal("long prompt missing JSON format block")
	}
	if !strings.Contains(long, "resolution_type") {
		t.Fatal("long prompt missing field instructions")
	}

	short := FormatPrompt(complaint, true, 0)
	if !strings.Contains(short, complaint) {
		t.Fatal("short prompt missing complaint text")
	}
	if len(short) >= len(long) {
		t.Fatalf("short prompt (%d chars) not shorter than long (%d chars)", len(short), len(long))
	}
}

func TestFormatPromptTruncation(t *testing.T) {
	complaint := strings.Repeat("a", 500)

	prompt := FormatPrompt(complaint, true, 100)
	if !strings.Contains(prompt, truncationMarker) {
		t.Fatal("truncated prompt missing marker")
	}
	if strings.Contains(prompt, strings.Repeat("a", 101)) {
		t.Fatal("prompt contains more than maxTextLength of complaint text")
	}

	// Zero limit disables truncation.
	full := FormatPrompt(complaint, true, 0)
	if strings.Contains(full, truncationMarker) {
		t.Fatal("unlimited prompt should not be truncated")
	}
	if !strings.Contains(full, complaint) {
		t.Fatal("unlimited prompt missing full complaint")
	}

	// Text at the limit passes through unmarked.
	exact := FormatPrompt(strings.Repeat("b", 100), true, 100)
	if strings.Contains(exact, truncationMarker) {
		t.Fatal("text at the limit should not be truncated")
	}
}
