package core

import "testing"

func TestParseEnvironment(t *testing.T) {
	tests := []struct {
		in   string
		want Environment
	}{
		{"production", Production},
		{" Production ", Production},
		{"STAGING", Staging},
		{"testing", Testing},
		{"development", Development},
		{"", Development},
		{"prod", Development},
	}
	for _, tt := range tests {
		if got := ParseEnvironment(tt.in); got != tt.want {
			t.Fatalf("ParseEnvironment(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
	if !Production.IsProduction() || Staging.IsProduction() {
		t.Fatalf("IsProduction mismatch")
	}
}
