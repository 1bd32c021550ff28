package domain

import "testing"

func TestIsDefaultPort(t *testing.T) {
	tests := []struct {
		name     string
		scheme   string
		port     int
		hasPort  bool
		expected bool
	}{
		{"no port", "http", 0, false, true},
		{"no port, unknown scheme", "foo", 0, false, true},
		{"http 80", "http", 80, true, true},
		{"http 8080", "http", 8080, true, false},
		{"https 443", "https", 443, true, true},
		{"ftp 21", "ftp", 21, true, true},
		{"news 119", "news", 119, true, true},
		{"ldap 389", "ldap", 389, true, true},
		{"unknown scheme", "foo", 80, true, false},
		{"no scheme", "", 80, true, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsDefaultPort(tt.scheme, tt.port, tt.hasPort); got != tt.expected {
				t.Errorf("IsDefaultPort(%q, %d, %v) = %v, want %v", tt.scheme, tt.port, tt.hasPort, got, tt.expected)
			}
		})
	}
}
