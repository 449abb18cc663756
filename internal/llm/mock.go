package llm

import "context"

// MockProvider returns a canned prediction; used for dry runs and tests.
type MockProvider struct {
	Name     string
	Response string
	Err      error
}

const mockResponse = `{
  "resolution_type": "settled",
  "disgorgement_amount": 100000,
  "penalty_amount": 50000,
  "prejudgment_interest": 10000,
  "has_injunction": true,
  "has_officer_director_bar": false,
  "has_conduct_restriction": true,
  "reasoning": {
    "resolution_type": "Mock reasoning for testing",
    "monetary": "Mock monetary reasoning",
    "remedial_measures": "Mock remedial reasoning"
  }
}`

func NewMockProvider(name string) *MockProvider {
	if name == "" {
		name = "MockModel"
	}
	return &MockProvider{Name: name, Response: mockResponse}
}

func (p *MockProvider) Generate(ctx context.Context, prompt string) (string, error) {
	if p.Err != nil {
		return "", p.Err
	}
	return p.Response, nil
}

func (p *MockProvider) ModelName() string {
	return p.Name
}

func (p *MockProvider) Config() map[string]any {
	return map[string]any{"provider": "mock", "model": p.Name}
}
