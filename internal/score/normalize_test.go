package score

import "testing"

func TestNormalizeResolutionType(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want string
	}{
		{"lowercase passthrough", "settled", "settled"},
		{"uppercase", "SETTLED", "settled"},
		{"whitespace", "  litigated  ", "litigated"},
		{"spaces to underscores", "settled action", "settled_action"},
		{"hyphens to underscores", "settled-action", "settled_action"},
		{"nil", nil, ""},
		{"non-string stringified", 42, "42"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NormalizeResolutionType(tt.in); got != tt.want {
				t.Fatalf("NormalizeResolutionType(%v) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestNormalizeBoolean(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want *bool // nil means unrecognized
	}{
		{"bool true", true, bptr(true)},
		{"bool false", false, bptr(false)},
		{"yes", "yes", bptr(true)},
		{"YES", "YES", bptr(true)},
		{"true string", "true", bptr(true)},
		{"one string", "1", bptr(true)},
		{"no", "no", bptr(false)},
		{"false string", "false", bptr(false)},
		{"zero string", "0", bptr(false)},
		{"nil", nil, nil},
		{"garbage", "maybe", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NormalizeBoolean(tt.in)
			if (got == nil) != (tt.want == nil) {
				t.Fatalf("NormalizeBoolean(%v) = %v, want %v", tt.in, got, tt.want)
			}
			if got != nil && *got != *tt.want {
				t.Fatalf("NormalizeBoolean(%v) = %v, want %v", tt.in, *got, *tt.want)
			}
		})
	}
}

func TestNormalizeMonetary(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want *float64
	}{
		{"float passthrough", 150000.0, fptr(150000)},
		{"int", 150000, fptr(150000)},
		{"dollar sign and commas", "$1,500,000", fptr(1.5e6)},
		{"decimal string", "1234.56", fptr(1234.56)},
		{"null string", "null", nil},
		{"none string", "none", nil},
		{"n/a string", "n/a", nil},
		{"empty string", "", nil},
		{"nil", nil, nil},
		{"unparseable", "a lot", nil},
		{"zero", 0.0, fptr(0)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NormalizeMonetary(tt.in)
			if (got == nil) != (tt.want == nil) {
				t.Fatalf("NormalizeMonetary(%v) = %v, want %v", tt.in, got, tt.want)
			}
			if got != nil && *got != *tt.want {
				t.Fatalf("NormalizeMonetary(%v) = %v, want %v", tt.in, *got, *tt.want)
			}
		})
	}
}

func fptr(v float64) *float64 { return &v }
func bptr(v bool) *bool       { return &v }
