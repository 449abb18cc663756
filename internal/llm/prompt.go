package llm

import "fmt"

const promptTemplate = `You are a legal analyst evaluating SEC enforcement cases.

Read the following SEC complaint and predict the likely outcome:

---
COMPLAINT:
%s
---

Predict the following outcomes for this case:

1. Resolution Type: Choose one of:
   - settled (defendant will agree to terms - includes consent judgments and settled actions)
   - litigated (case will go to trial/judgment - court makes final decision)

2. Disgorgement Amount: The amount in dollars the defendant must return (ill-gotten gains). Enter a number or null if none expected.

3. Civil Penalty Amount: The civil penalty in dollars. Enter a number or null if none expected.

4. Prejudgment Interest: Interest on disgorgement in dollars. Enter a number or null if none expected.

5. Has Injunction: Will there be injunctive relief? (yes/no)

6. Has Officer/Director Bar: Will the defendant be barred from serving as an officer or director? (yes/no)

7. Has Conduct Restriction: Will there be conduct-based restrictions (e.g., trading restrictions, industry bar)? (yes/no)

Respond in the following JSON format:
` + "```json" + `
{
  "resolution_type": "settled" or "litigated",
  "disgorgement_amount": ...,
  "penalty_amount": ...,
  "prejudgment_interest": ...,
  "has_injunction": true/false,
  "has_officer_director_bar": true/false,
  "has_conduct_restriction": true/false,
  "reasoning": {
    "resolution_type": "Brief explanation...",
    "monetary": "Brief explanation...",
    "remedial_measures": "Brief explanation..."
  }
}
` + "```" + `

Provide your prediction based solely on the complaint text provided.`

// Shorter prompt for models with limited context.
const shortPromptTemplate = `Analyze this SEC complaint and predict the case outcome.

COMPLAINT:
%s

Predict in JSON format:
- resolution_type: "settled" (defendant agrees) or "litigated" (court decides)
- disgorgement_amount: number or null
- penalty_amount: number or null
- prejudgment_interest: number or null
- has_injunction: true/false
- has_officer_director_bar: true/false
- has_conduct_restriction: true/false
- reasoning: brief explanation

Respond with JSON only.`

const truncationMarker = "\n\n[...TRUNCATED...]"

// FormatPrompt builds the prediction prompt for one complaint. When
// maxTextLength is positive, longer complaint text is cut there and marked.
func FormatPrompt(complaintText string, shortFormat bool, maxTextLength int) string {
	text := complaintText
	if maxTextLength > 0 && len(text) > maxTextLength {
		text = text[:maxTextLength] + truncationMarker
	}
	if shortFormat {
		return fmt.Sprintf(shortPromptTemplate, text)
	}
	return fmt.Sprintf(promptTemplate, text)
}
