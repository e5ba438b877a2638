package netsim

import "testing"

func TestValidateIPv4(t *testing.T) {
	tests := []struct {
		in    string
		valid bool
	}{
		{"192.168.1.10", true},
		{"10.0.0.1", true},
		{"0.0.0.0", true},
		{"255.255.255.255", true},
		{"999.1.1.1", false},
		{"256.0.0.1", false},
		{"192.168.1", false},
		{"192.168.01.1", false},
		{"::ffff:192.168.1.10", false},
		{"fe80::1", false},
		{"asw1", false},
		{" 192.168.1.10", false},
		{"", false},
	}
	for _, tt := range tests {
		err := ValidateIPv4(tt.in)
		if (err == nil) != tt.valid {
			t.Fatalf("ValidateIPv4(%q) err = %v, want valid=%v", tt.in, err, tt.valid)
		}
	}
}
