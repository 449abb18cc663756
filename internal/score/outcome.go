package score

import "encoding/json"

// Outcome is the tri-state result of scoring one field. NotScorable means
// ground truth was absent for the field; it is excluded from all accuracy
// denominators and is distinct from Incorrect.
type Outcome int

const (
	NotScorable Outcome = iota
	Correct
	Incorrect
)

func (o Outcome) String() string {
	switch o {
	case Correct:
		return "correct"
	case Incorrect:
		return "incorrect"
	default:
		return "not_scorable"
	}
}

// Scorable reports whether the field counts toward accuracy denominators.
func (o Outcome) Scorable() bool {
	return o != NotScorable
}

// MarshalJSON encodes the outcome on the wire as true, false, or null.
func (o Outcome) MarshalJSON() ([]byte, error) {
	switch o {
	case Correct:
		return []byte("true"), nil
	case Incorrect:
		return []byte("false"), nil
	default:
		return []byte("null"), nil
	}
}

// UnmarshalJSON accepts the true/false/null wire encoding.
func (o *Outcome) UnmarshalJSON(data []byte) error {
	var b *bool
	if err := json.Unmarshal(data, &b); err != nil {
		return err
	}
	switch {
	case b == nil:
		*o = NotScorable
	case *b:
		*o = Correct
	default:
		*o = Incorrect
	}
	return nil
}

func outcomeOf(correct bool) Outcome {
	if correct {
		return Correct
	}
	return Incorrect
}
